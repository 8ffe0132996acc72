package segmenter

import (
	"github.com/jdkato/prose/v2"

	"provsum/internal/domain"
)

// ProseSegmenter detects sentence boundaries with prose's punkt-based
// segmenter, which handles abbreviations the punctuation rule splits on.
type ProseSegmenter struct{}

func NewProseSegmenter() *ProseSegmenter { return &ProseSegmenter{} }

func (s *ProseSegmenter) Name() string { return "prose" }

func (s *ProseSegmenter) Segment(text string) []domain.Sentence {
	return segmentLines(text, proseSplit)
}

func proseSplit(line string) []string {
	doc, err := prose.NewDocument(line,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithTokenization(false),
		prose.WithSegmentation(true),
	)
	if err != nil {
		return splitOnTerminators(line)
	}
	sents := doc.Sentences()
	parts := make([]string, 0, len(sents))
	for _, s := range sents {
		parts = append(parts, s.Text)
	}
	return parts
}
