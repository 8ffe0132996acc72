// Package segmenter turns raw document text into domain.Sentence records.
//
// Every strategy emits the same contract: IDs s1, s2, ... in document
// order, Position as the 0-based sentence index and Meta["line"] as the
// 1-based line the sentence was found on. Blank sentences are dropped.
package segmenter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"provsum/internal/domain"
)

// New returns the segmenter registered under name ("regex" or "prose").
func New(name string) (domain.Segmenter, error) {
	switch name {
	case "regex", "":
		return NewPunctuationSegmenter(), nil
	case "prose":
		return NewProseSegmenter(), nil
	}
	return nil, fmt.Errorf("unknown segmenter: %s", name)
}

// PunctuationSegmenter splits each line after '.', '!' or '?' when the
// punctuation run is followed by whitespace.
type PunctuationSegmenter struct{}

func NewPunctuationSegmenter() *PunctuationSegmenter { return &PunctuationSegmenter{} }

func (s *PunctuationSegmenter) Name() string { return "regex" }

func (s *PunctuationSegmenter) Segment(text string) []domain.Sentence {
	return segmentLines(text, splitOnTerminators)
}

// segmentLines applies split to every non-blank line and numbers the
// resulting sentences.
func segmentLines(text string, split func(line string) []string) []domain.Sentence {
	var out []domain.Sentence
	for li, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, part := range split(line) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			out = append(out, domain.Sentence{
				ID:       "s" + strconv.Itoa(len(out)+1),
				Text:     part,
				Position: len(out),
				Meta:     map[string]any{"line": li + 1},
			})
		}
	}
	return out
}

func splitOnTerminators(line string) []string {
	var parts []string
	runes := []rune(line)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		// swallow "?!" and "..." runs
		for i+1 < len(runes) && isTerminator(runes[i+1]) {
			i++
		}
		if i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			parts = append(parts, string(runes[start:i+1]))
			start = i + 1
		}
	}
	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}
	return parts
}

func isTerminator(r rune) bool { return r == '.' || r == '!' || r == '?' }
