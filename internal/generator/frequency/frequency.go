package frequency

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"provsum/internal/domain"
	"provsum/internal/generator"
	"provsum/internal/textutil"
)

// wordsPerSentence converts a token budget into a sentence budget.
const wordsPerSentence = 30

var (
	tokenPattern    = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentencePattern = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// Generator condenses text offline by keeping the sentences with the
// highest normalized word frequency. It needs no model and is the default.
type Generator struct {
	chunkChars int
	stopwords  map[string]struct{}
}

// New creates a frequency generator. chunkChars <= 0 uses the package
// default of the generator package.
func New(chunkChars int) *Generator {
	return &Generator{chunkChars: chunkChars, stopwords: textutil.Stopwords()}
}

func (g *Generator) Name() string { return "frequency" }

// Generate keeps roughly Lengths.Max/30 sentences per chunk, in their
// original order.
func (g *Generator) Generate(ctx context.Context, text string, mode domain.Mode) (string, error) {
	return generator.Run(ctx, text, mode, g.chunkChars, func(_ context.Context, chunk string, l generator.Lengths) (string, error) {
		return g.summarize(chunk, max(1, l.Max/wordsPerSentence)), nil
	})
}

func (g *Generator) summarize(text string, maxSentences int) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return strings.TrimSpace(text)
	}
	// Compute word frequencies
	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range g.tokens(sent) {
			if _, ok := g.stopwords[tok]; ok {
				continue
			}
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		maxF = math.Max(maxF, v)
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(sentences))
	for i, sent := range sentences {
		toks := g.tokens(sent)
		sscore := 0.0
		for _, tok := range toks {
			sscore += freq[tok]
		}
		// Normalize by sentence length to avoid bias
		if l := float64(len(toks)); l > 0 {
			sscore /= math.Sqrt(l)
		}
		scores[i] = pair{i, sscore}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	maxSentences = min(maxSentences, len(scores))

	// Keep original order among selected
	selected := make([]int, maxSentences)
	for i := 0; i < maxSentences; i++ {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, 0, maxSentences)
	for _, idx := range selected {
		out = append(out, strings.TrimSpace(sentences[idx]))
	}
	return strings.Join(out, " ")
}

// splitSentences returns the terminated sentences of text followed by any
// unterminated remainder, such as a heading or a last line without a period.
func splitSentences(text string) []string {
	locs := sentencePattern.FindAllStringIndex(text, -1)
	out := make([]string, 0, len(locs)+1)
	end := 0
	for _, loc := range locs {
		out = append(out, text[loc[0]:loc[1]])
		end = loc[1]
	}
	if rest := strings.TrimSpace(text[end:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

func (g *Generator) tokens(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}
