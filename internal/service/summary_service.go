package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"provsum/internal/domain"
	"provsum/internal/logging"
	"provsum/internal/metrics"
	"provsum/internal/provenance"
	"provsum/internal/rank"
)

// Request is one summarization call. Export is an optional format name.
type Request struct {
	DocID  string
	Mode   string
	Export string
}

// SummaryService runs load, segment, rank, generate, provenance and export.
type SummaryService struct {
	loader    domain.Loader
	segmenter domain.Segmenter
	ranker    *rank.Ranker
	generator domain.Generator
	exporter  domain.Exporter
	topK      int
	logger    logrus.FieldLogger
	metrics   *metrics.Metrics
}

// Options carries the optional collaborators of a SummaryService.
type Options struct {
	// TopK is the number of sentences to extract. Nil means
	// rank.DefaultTopK; zero extracts nothing.
	TopK     *int
	Exporter domain.Exporter
	Logger   logrus.FieldLogger
	Metrics  *metrics.Metrics
}

func NewSummaryService(loader domain.Loader, segmenter domain.Segmenter, ranker *rank.Ranker, generator domain.Generator, opts Options) *SummaryService {
	topK := rank.DefaultTopK
	if opts.TopK != nil {
		topK = max(0, *opts.TopK)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &SummaryService{
		loader:    loader,
		segmenter: segmenter,
		ranker:    ranker,
		generator: generator,
		exporter:  opts.Exporter,
		topK:      topK,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
	}
}

// Summarize loads req.DocID and summarizes it.
func (s *SummaryService) Summarize(ctx context.Context, req Request) (*domain.Summary, error) {
	requestID := uuid.NewString()
	log := s.logger.WithFields(logrus.Fields{"request_id": requestID, "doc_id": req.DocID})

	mode, err := domain.ParseMode(req.Mode)
	if err != nil {
		return nil, s.fail(log, "invalid", err)
	}

	start := time.Now()
	doc, err := s.loader.Load(req.DocID)
	s.metrics.ObserveStage("load", time.Since(start))
	if err != nil {
		return nil, s.fail(log, "load", err)
	}

	out, err := s.run(ctx, log, requestID, req.DocID, doc.Content, mode)
	if err != nil {
		return nil, err
	}

	if req.Export != "" {
		if s.exporter == nil {
			return nil, s.fail(log, "export", errors.New("export requested but no exporter configured"))
		}
		if err := ctx.Err(); err != nil {
			return nil, s.fail(log, "canceled", err)
		}
		path, err := s.exporter.Export(out, req.Export)
		if err != nil {
			return nil, s.fail(log, "export", err)
		}
		out.ExportPath = path
		log.WithField("path", path).Info("summary exported")
	}

	s.metrics.RequestDone("ok")
	return out, nil
}

// SummarizeText summarizes text that is already in memory. Nothing is exported.
func (s *SummaryService) SummarizeText(ctx context.Context, docID, text string, mode domain.Mode) (*domain.Summary, error) {
	requestID := uuid.NewString()
	log := s.logger.WithFields(logrus.Fields{"request_id": requestID, "doc_id": docID})
	parsed, err := domain.ParseMode(string(mode))
	if err != nil {
		return nil, s.fail(log, "invalid", err)
	}
	out, err := s.run(ctx, log, requestID, docID, text, parsed)
	if err != nil {
		return nil, err
	}
	s.metrics.RequestDone("ok")
	return out, nil
}

func (s *SummaryService) run(ctx context.Context, log logrus.FieldLogger, requestID, docID, text string, mode domain.Mode) (*domain.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, s.fail(log, "canceled", err)
	}
	start := time.Now()
	sentences := s.segmenter.Segment(text)
	s.metrics.ObserveStage("segment", time.Since(start))
	log.WithFields(logrus.Fields{"sentences": len(sentences), "segmenter": s.segmenter.Name()}).Debug("document segmented")

	if err := ctx.Err(); err != nil {
		return nil, s.fail(log, "canceled", err)
	}
	extracted, err := s.ranker.Rank(sentences, s.topK)
	if err != nil {
		return nil, s.fail(log, "rank", err)
	}

	out := &domain.Summary{
		RequestID: requestID,
		DocID:     docID,
		Mode:      mode,
		Sources:   []domain.ProvenanceRecord{},
		Extracted: extracted,
		Order:     string(s.ranker.Order()),
		Generator: s.generator.Name(),
	}
	if len(extracted) == 0 {
		log.Info("no sentences selected; generation skipped")
		return out, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, s.fail(log, "canceled", err)
	}
	texts := make([]string, len(extracted))
	for i, e := range extracted {
		texts[i] = e.Sentence.Text
	}
	start = time.Now()
	summary, err := s.generator.Generate(ctx, strings.Join(texts, " "), mode)
	s.metrics.ObserveStage("generate", time.Since(start))
	if err != nil {
		status := "generate"
		if errors.Is(err, domain.ErrUnavailable) {
			status = "unavailable"
		}
		return nil, s.fail(log, status, fmt.Errorf("generate summary: %w", err))
	}
	out.Summary = summary

	start = time.Now()
	out.Sources = provenance.Map(summary, provenance.FromExtracted(extracted))
	s.metrics.ObserveStage("provenance", time.Since(start))

	log.WithFields(logrus.Fields{
		"extracted": len(extracted),
		"sources":   len(out.Sources),
		"generator": s.generator.Name(),
	}).Info("summary generated")
	return out, nil
}

func (s *SummaryService) fail(log logrus.FieldLogger, status string, err error) error {
	s.metrics.RequestDone(status)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		log.WithError(err).Warn("summarization aborted")
	} else {
		log.WithError(err).WithField("stage", status).Error("summarization failed")
	}
	return err
}
