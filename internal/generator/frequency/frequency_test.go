package frequency

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provsum/internal/domain"
)

const article = "Solar power capacity grew fast this year. " +
	"Analysts credit cheaper solar panels for the growth. " +
	"The weather was mild. " +
	"Solar panels now cost less than a tenth of their price a decade ago. " +
	"Some towns held festivals. " +
	"Grid operators are adding storage to handle solar power peaks."

func TestGenerateKeepsFrequentSentencesInOrder(t *testing.T) {
	t.Parallel()

	out, err := New(0).Generate(context.Background(), article, domain.ModeTLDR)
	require.NoError(t, err)

	// tldr allows 60 tokens, i.e. two sentences
	got := sentencePattern.FindAllString(out, -1)
	require.Len(t, got, 2)
	assert.NotContains(t, out, "weather")
	assert.NotContains(t, out, "festivals")
	assert.Less(t, strings.Index(article, strings.TrimSpace(got[0])), strings.Index(article, strings.TrimSpace(got[1])))
}

func TestGenerateModeBudgets(t *testing.T) {
	t.Parallel()

	g := New(0)
	short, err := g.Generate(context.Background(), article, domain.ModeShort)
	require.NoError(t, err)
	extended, err := g.Generate(context.Background(), article, domain.ModeExtended)
	require.NoError(t, err)

	assert.Len(t, sentencePattern.FindAllString(short, -1), 4)
	assert.Len(t, sentencePattern.FindAllString(extended, -1), 6)
}

func TestGenerateWithoutTerminators(t *testing.T) {
	t.Parallel()

	out, err := New(0).Generate(context.Background(), "  no punctuation at all  ", domain.ModeShort)
	require.NoError(t, err)
	assert.Equal(t, "no punctuation at all", out)
}

func TestGenerateInvalidMode(t *testing.T) {
	t.Parallel()

	_, err := New(0).Generate(context.Background(), article, "epic")
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
}

func TestGenerateKeepsUnterminatedTail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		mode domain.Mode
		want string
	}{
		{"extended", "Alpha beta gamma. Delta epsilon zeta", domain.ModeExtended, "Alpha beta gamma. Delta epsilon zeta"},
		{"short units", "A b c. D e f", domain.ModeExtended, "A b c. D e f"},
		{"tail only fits budget", "Alpha beta gamma. Delta epsilon zeta  ", domain.ModeTLDR, "Alpha beta gamma. Delta epsilon zeta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := New(0).Generate(context.Background(), tt.text, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestSplitSentences(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"One.", " Two!", "three"}, splitSentences("One. Two! three"))
	assert.Equal(t, []string{"One."}, splitSentences("One.   "))
	assert.Empty(t, splitSentences("   "))
}
