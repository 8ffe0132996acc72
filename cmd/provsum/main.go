package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"provsum/internal/config"
	"provsum/internal/domain"
	"provsum/internal/export"
	"provsum/internal/generator"
	"provsum/internal/generator/frequency"
	"provsum/internal/generator/openai"
	"provsum/internal/ingest"
	"provsum/internal/logging"
	"provsum/internal/metrics"
	"provsum/internal/rank"
	"provsum/internal/segmenter"
	"provsum/internal/service"
	"provsum/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath     string
		mode        string
		exportFmt   string
		useTUI      bool
		metricsFile string
	)
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/provsum/config.yaml if not provided)")
	flag.StringVar(&mode, "mode", "short", "Summary length: tldr, short or extended")
	flag.StringVar(&exportFmt, "export", "", "Also write the result as txt, pdf, docx, json or yaml")
	flag.BoolVar(&useTUI, "tui", false, "Browse the provenance records interactively")
	flag.StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile on exit")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: provsum [--config=config.yaml] [--mode=short] [--export=json] [--tui] [--metrics-file=path] doc_id")
		os.Exit(2)
	}
	docID := flag.Arg(0)

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	if metricsFile == "" {
		metricsFile = cfg.Metrics.Textfile
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	code := run(cfg, logger, m, docID, mode, exportFmt, useTUI)
	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
			logger.WithError(err).Error("failed to write metrics textfile")
		}
	}
	os.Exit(code)
}

func run(cfg *config.AppConfig, logger *logrus.Logger, m *metrics.Metrics, docID, mode, exportFmt string, useTUI bool) int {
	seg, err := segmenter.New(cfg.Segmenter.Type)
	if err != nil {
		logger.WithError(err).Error("segmenter init failed")
		return 1
	}

	var gen domain.Generator
	switch cfg.Generator.Type {
	case "frequency", "":
		gen = frequency.New(cfg.Generator.ChunkChars)
	case "openai":
		oc := cfg.Generator.OpenAI
		client, err := openai.NewClient(openai.Config{
			BaseURL:     oc.BaseURL,
			APIKeyEnv:   oc.APIKeyEnv,
			Model:       oc.Model,
			Timeout:     time.Duration(oc.TimeoutSecs) * time.Second,
			MaxRetries:  oc.MaxRetries,
			ChunkChars:  cfg.Generator.ChunkChars,
			Temperature: oc.Temperature,
		})
		if err != nil {
			// extraction still runs; the request fails at generation
			logger.WithError(err).Warn("openai generator unavailable")
			gen = generator.NewUnavailable("openai", err)
		} else {
			gen = client
		}
	default:
		gen = generator.NewUnavailable(cfg.Generator.Type, fmt.Errorf("unknown generator %q", cfg.Generator.Type))
	}

	order, err := rank.ParseOrder(cfg.Ranker.Order)
	if err != nil {
		logger.WithError(err).Error("invalid ranker order")
		return 1
	}
	ranker := rank.New(rank.Options{
		MaxSentences: cfg.Ranker.MaxSentences,
		Workers:      cfg.Ranker.Workers,
		Order:        order,
		Stopwords:    cfg.Ranker.StopwordsEnabled(),
		Centrality: rank.CentralityOptions{
			Damping:       cfg.Ranker.Damping,
			Tolerance:     cfg.Ranker.Tolerance,
			MaxIterations: cfg.Ranker.MaxIterations,
		},
	}, logger, m)

	loader := ingest.NewLoader(cfg.DataDir)
	svc := service.NewSummaryService(loader, seg, ranker, gen, service.Options{
		TopK:     cfg.Ranker.TopK,
		Exporter: export.NewExporter(cfg.ExportDir),
		Logger:   logger,
		Metrics:  m,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := svc.Summarize(ctx, service.Request{DocID: docID, Mode: mode, Export: exportFmt})
	if err != nil {
		fmt.Fprintf(os.Stderr, "summarize failed: %v\n", err)
		return 1
	}

	if !useTUI {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			logger.WithError(err).Error("failed to write result")
			return 1
		}
		return 0
	}

	doc, err := loader.Load(docID)
	if err != nil {
		logger.WithError(err).Error("reload for TUI failed")
		return 1
	}
	if _, err := tea.NewProgram(tui.New(svc, docID, doc.Content, res)).Run(); err != nil {
		logger.WithError(err).Error("tui failed")
		return 1
	}
	return 0
}
