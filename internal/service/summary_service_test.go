package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provsum/internal/domain"
	"provsum/internal/export"
	"provsum/internal/generator"
	"provsum/internal/metrics"
	"provsum/internal/rank"
	"provsum/internal/segmenter"
)

type mapLoader map[string]string

func (l mapLoader) Load(docID string) (domain.Document, error) {
	text, ok := l[docID]
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, docID)
	}
	return domain.Document{ID: docID, Content: text}, nil
}

type fakeGenerator struct {
	out   string
	calls int
	input string
}

func (g *fakeGenerator) Name() string { return "fake" }

func (g *fakeGenerator) Generate(_ context.Context, text string, _ domain.Mode) (string, error) {
	g.calls++
	g.input = text
	return g.out, nil
}

func intPtr(n int) *int { return &n }

const dogsAndCats = "Dogs bark loudly at night. Cats sleep all day."

func newService(t *testing.T, gen domain.Generator, opts Options, rankOpts rank.Options) (*SummaryService, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	opts.Metrics = m
	loader := mapLoader{"pets.txt": dogsAndCats, "empty.txt": "  \n\n "}
	return NewSummaryService(loader, segmenter.NewPunctuationSegmenter(), rank.New(rankOpts, nil, m), gen, opts), reg
}

func requestsTotal(status string, n int) string {
	return fmt.Sprintf(`
# HELP provsum_requests_total Summarization requests by outcome
# TYPE provsum_requests_total counter
provsum_requests_total{status=%q} %d
`, status, n)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{out: "Dogs bark loudly. Cats nap."}
	dir := t.TempDir()
	svc, reg := newService(t, gen, Options{Exporter: export.NewExporter(dir)}, rank.DefaultOptions())

	got, err := svc.Summarize(context.Background(), Request{DocID: "pets.txt", Mode: "tldr", Export: "json"})
	require.NoError(t, err)

	assert.NotEmpty(t, got.RequestID)
	assert.Equal(t, "pets.txt", got.DocID)
	assert.Equal(t, domain.ModeTLDR, got.Mode)
	assert.Equal(t, "Dogs bark loudly. Cats nap.", got.Summary)
	assert.Equal(t, "score", got.Order)
	assert.Equal(t, "fake", got.Generator)
	assert.Equal(t, "Dogs bark loudly at night. Cats sleep all day.", gen.input)

	require.Len(t, got.Extracted, 2)
	assert.Equal(t, "s1", got.Extracted[0].Sentence.ID)
	assert.Equal(t, 1, got.Extracted[0].Rank)

	require.Len(t, got.Sources, 2)
	assert.Equal(t, "s1", got.Sources[0].SourceID)
	assert.Equal(t, 3, got.Sources[0].Overlap)
	assert.Equal(t, "s2", got.Sources[1].SourceID)
	assert.Equal(t, 1, got.Sources[1].Overlap)
	assert.Equal(t, 1, got.Sources[1].Meta["line"])

	require.NotEmpty(t, got.ExportPath)
	_, err = os.Stat(got.ExportPath)
	require.NoError(t, err)

	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(requestsTotal("ok", 1)), "provsum_requests_total"))
}

func TestSummarizeEmptyDocument(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{out: "unused"}
	svc, _ := newService(t, gen, Options{}, rank.DefaultOptions())

	got, err := svc.Summarize(context.Background(), Request{DocID: "empty.txt"})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeShort, got.Mode)
	assert.Empty(t, got.Summary)
	assert.NotNil(t, got.Sources)
	assert.Empty(t, got.Sources)
	assert.Empty(t, got.Extracted)
	assert.Zero(t, gen.calls)
}

func TestSummarizeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		req      Request
		gen      domain.Generator
		rankOpts rank.Options
		want     error
		status   string
	}{
		{
			name:     "not found",
			req:      Request{DocID: "missing.txt"},
			gen:      &fakeGenerator{},
			rankOpts: rank.DefaultOptions(),
			want:     domain.ErrDocumentNotFound,
			status:   "load",
		},
		{
			name:     "invalid mode",
			req:      Request{DocID: "pets.txt", Mode: "haiku"},
			gen:      &fakeGenerator{},
			rankOpts: rank.DefaultOptions(),
			want:     domain.ErrInvalidMode,
			status:   "invalid",
		},
		{
			name:     "too many sentences",
			req:      Request{DocID: "pets.txt"},
			gen:      &fakeGenerator{},
			rankOpts: rank.Options{MaxSentences: 1},
			want:     domain.ErrInputTooLarge,
			status:   "rank",
		},
		{
			name:     "generator unavailable",
			req:      Request{DocID: "pets.txt"},
			gen:      generator.NewUnavailable("openai", fmt.Errorf("missing key")),
			rankOpts: rank.DefaultOptions(),
			want:     domain.ErrUnavailable,
			status:   "unavailable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, reg := newService(t, tt.gen, Options{}, tt.rankOpts)
			got, err := svc.Summarize(context.Background(), tt.req)
			assert.Nil(t, got)
			require.ErrorIs(t, err, tt.want)
			require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(requestsTotal(tt.status, 1)), "provsum_requests_total"))
			if fg, ok := tt.gen.(*fakeGenerator); ok {
				assert.Zero(t, fg.calls)
			}
		})
	}
}

func TestSummarizeCanceled(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{out: "x"}
	svc, _ := newService(t, gen, Options{}, rank.DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Summarize(ctx, Request{DocID: "pets.txt"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, gen.calls)
}

func TestSummarizeExportWithoutExporter(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, &fakeGenerator{out: "Dogs bark."}, Options{}, rank.DefaultOptions())
	_, err := svc.Summarize(context.Background(), Request{DocID: "pets.txt", Export: "txt"})
	assert.Error(t, err)
}

func TestSummarizeText(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{out: "Cats sleep."}
	svc, _ := newService(t, gen, Options{TopK: intPtr(1)}, rank.DefaultOptions())

	got, err := svc.SummarizeText(context.Background(), "inline", dogsAndCats, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeShort, got.Mode)
	require.Len(t, got.Extracted, 1)
	// equal scores: the earlier sentence wins
	assert.Equal(t, "s1", got.Extracted[0].Sentence.ID)
	require.Len(t, got.Sources, 1)
	assert.Equal(t, "s1", got.Sources[0].SourceID)
	assert.Zero(t, got.Sources[0].Overlap)
	assert.Empty(t, got.ExportPath)
}

func TestSummarizeZeroTopK(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{out: "unused"}
	svc, _ := newService(t, gen, Options{TopK: intPtr(0)}, rank.DefaultOptions())

	got, err := svc.Summarize(context.Background(), Request{DocID: "pets.txt"})
	require.NoError(t, err)
	assert.Empty(t, got.Extracted)
	assert.Empty(t, got.Sources)
	assert.Empty(t, got.Summary)
	assert.Zero(t, gen.calls)
}
