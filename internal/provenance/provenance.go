// Package provenance links each sentence of a generated summary back to the
// extracted source sentence it shares the most words with.
//
// Matching is greedy and independent per summary sentence: the best source
// is chosen by word-set overlap, ties go to the earliest source, and a zero
// overlap is still reported as a (low confidence) match. No globally
// optimal assignment is attempted, so two summary sentences can cite the
// same source while a better pairing exists.
package provenance

import (
	"maps"
	"regexp"
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"

	"provsum/internal/domain"
)

var sentenceBreak = regexp.MustCompile(`\.\s+`)

// SplitSummary splits generated text on a period followed by whitespace and
// drops empty units. The period ending each unit is consumed by the split,
// except on the last unit.
func SplitSummary(summary string) []string {
	var out []string
	for _, part := range sentenceBreak.Split(summary, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Words returns the set of lower-cased, whitespace separated words of s
// with surrounding punctuation trimmed.
func Words(s string) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, f := range strings.Fields(strings.ToLower(s)) {
		if w := strings.TrimFunc(f, unicode.IsPunct); w != "" {
			set.Add(w)
		}
	}
	return set
}

// Overlap is the size of the intersection of the word sets of a and b.
func Overlap(a, b string) int {
	return Words(a).Intersect(Words(b)).Cardinality()
}

// Map assigns every summary sentence its best matching source sentence.
// An empty summary or an empty source list yields an empty slice.
func Map(summary string, sources []domain.Sentence) []domain.ProvenanceRecord {
	records := []domain.ProvenanceRecord{}
	if len(sources) == 0 {
		return records
	}

	sourceWords := make([]mapset.Set[string], len(sources))
	for i, s := range sources {
		sourceWords[i] = Words(s.Text)
	}

	for idx, sent := range SplitSummary(summary) {
		words := Words(sent)
		best, bestScore := 0, -1
		for i, sw := range sourceWords {
			if score := words.Intersect(sw).Cardinality(); score > bestScore {
				best, bestScore = i, score
			}
		}
		src := sources[best]
		meta := map[string]any{}
		maps.Copy(meta, src.Meta)
		records = append(records, domain.ProvenanceRecord{
			SummaryIndex:    idx,
			SummarySentence: sent,
			SourceID:        src.ID,
			SourceText:      src.Text,
			Overlap:         bestScore,
			Meta:            meta,
		})
	}
	return records
}

// FromExtracted unwraps the sentences of a selection in order.
func FromExtracted(extracted []domain.ExtractedSentence) []domain.Sentence {
	out := make([]domain.Sentence, len(extracted))
	for i, e := range extracted {
		out[i] = e.Sentence
	}
	return out
}
