// Package rank selects the most central sentences of a document: TF-IDF
// vectors, a cosine similarity graph, damped PageRank over that graph and a
// deterministic top-k cut.
//
// Cost is quadratic in the sentence count, so a Ranker refuses inputs above
// Options.MaxSentences with an error matching domain.ErrInputTooLarge.
package rank

import (
	"time"

	"github.com/sirupsen/logrus"

	"provsum/internal/domain"
	"provsum/internal/logging"
	"provsum/internal/metrics"
)

const (
	DefaultTopK         = 12
	DefaultMaxSentences = 2000
)

// Options configures a Ranker.
type Options struct {
	MaxSentences int
	Workers      int
	Order        Order
	Stopwords    bool
	Centrality   CentralityOptions
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxSentences: DefaultMaxSentences,
		Order:        OrderScore,
		Stopwords:    true,
		Centrality: CentralityOptions{
			Damping:       DefaultDamping,
			Tolerance:     DefaultTolerance,
			MaxIterations: DefaultMaxIterations,
		},
	}
}

// Ranker runs the extractive pipeline. It keeps no state between calls and
// may be shared by concurrent requests.
type Ranker struct {
	opts       Options
	vectorizer *Vectorizer
	logger     logrus.FieldLogger
	metrics    *metrics.Metrics
}

// New creates a Ranker. A nil logger discards output; nil metrics record
// nothing.
func New(opts Options, logger logrus.FieldLogger, m *metrics.Metrics) *Ranker {
	if opts.MaxSentences <= 0 {
		opts.MaxSentences = DefaultMaxSentences
	}
	if opts.Order == "" {
		opts.Order = OrderScore
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Ranker{
		opts:       opts,
		vectorizer: NewVectorizer(opts.Stopwords),
		logger:     logger,
		metrics:    m,
	}
}

// Order returns the output order policy of Rank.
func (r *Ranker) Order() Order { return r.opts.Order }

// Score vectorizes the sentences, builds the similarity graph and returns
// the centrality of every sentence.
func (r *Ranker) Score(sentences []domain.Sentence) (Centrality, error) {
	if len(sentences) > r.opts.MaxSentences {
		return Centrality{}, &domain.InputTooLargeError{Count: len(sentences), Limit: r.opts.MaxSentences}
	}
	if len(sentences) == 0 {
		return Centrality{Converged: true}, nil
	}
	r.metrics.ObserveSentences(len(sentences))

	texts := make([]string, len(sentences))
	for i, s := range sentences {
		texts[i] = s.Text
	}

	start := time.Now()
	vectors, vocab := r.vectorizer.Vectorize(texts)
	graph := BuildGraph(vectors, r.opts.Workers)
	r.metrics.ObserveStage("graph", time.Since(start))

	start = time.Now()
	c := r.opts.Centrality.Rank(graph)
	r.metrics.ObserveStage("centrality", time.Since(start))

	fields := logrus.Fields{
		"sentences":  len(sentences),
		"vocabulary": len(vocab.Terms),
		"iterations": c.Iterations,
	}
	if !c.Converged {
		r.metrics.NonConverged()
		r.logger.WithFields(fields).Warn("centrality did not converge; using last iterate")
	} else {
		r.logger.WithFields(fields).Debug("centrality converged")
	}
	return c, nil
}

// Rank returns the topK most central sentences in the configured order.
// Empty input gives an empty result; oversized input gives an
// *domain.InputTooLargeError and no result.
func (r *Ranker) Rank(sentences []domain.Sentence, topK int) ([]domain.ExtractedSentence, error) {
	c, err := r.Score(sentences)
	if err != nil {
		return nil, err
	}
	if len(sentences) == 0 {
		return []domain.ExtractedSentence{}, nil
	}

	candidates := make([]Candidate, len(sentences))
	for i, score := range c.Scores {
		candidates[i] = Candidate{Index: i, Score: score}
	}
	selected := SelectTop(candidates, topK, r.opts.Order)

	out := make([]domain.ExtractedSentence, len(selected))
	for i, sel := range selected {
		out[i] = domain.ExtractedSentence{
			Sentence: sentences[sel.Index],
			Index:    sel.Index,
			Score:    sel.Score,
			Rank:     sel.Rank,
		}
	}
	return out, nil
}
