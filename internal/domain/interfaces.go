package domain

import "context"

// Document represents a single text file loaded for summarization.
type Document struct {
	ID      string
	Path    string
	Content string
}

// Sentence is the single record shape every segmentation source emits.
// Sentences are immutable once created and owned by one invocation.
type Sentence struct {
	ID       string         `json:"id" yaml:"id"`
	Text     string         `json:"text" yaml:"text"`
	Position int            `json:"position" yaml:"position"`
	Meta     map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// ExtractedSentence is a sentence chosen by the top-k selector.
// Index is the sentence's position in the ranked input slice.
type ExtractedSentence struct {
	Sentence Sentence `json:"sentence" yaml:"sentence"`
	Index    int      `json:"index" yaml:"index"`
	Score    float64  `json:"score" yaml:"score"`
	Rank     int      `json:"rank" yaml:"rank"`
}

// ProvenanceRecord links one summary sentence to the source sentence it
// overlaps most. An Overlap of zero signals low confidence.
type ProvenanceRecord struct {
	SummaryIndex    int            `json:"summary_sentence_index" yaml:"summary_sentence_index"`
	SummarySentence string         `json:"summary_sentence" yaml:"summary_sentence"`
	SourceID        string         `json:"sentence_id" yaml:"sentence_id"`
	SourceText      string         `json:"source_text" yaml:"source_text"`
	Overlap         int            `json:"score" yaml:"score"`
	Meta            map[string]any `json:"meta" yaml:"meta"`
}

// Summary is the full response of one summarization request.
type Summary struct {
	RequestID  string              `json:"request_id" yaml:"request_id"`
	DocID      string              `json:"doc_id" yaml:"doc_id"`
	Mode       Mode                `json:"mode" yaml:"mode"`
	Summary    string              `json:"summary" yaml:"summary"`
	Sources    []ProvenanceRecord  `json:"sources" yaml:"sources"`
	Extracted  []ExtractedSentence `json:"extracted" yaml:"extracted"`
	Order      string              `json:"order" yaml:"order"`
	Generator  string              `json:"generator" yaml:"generator"`
	ExportPath string              `json:"export_path,omitempty" yaml:"export_path,omitempty"`
}

// Mode selects the length style of the generated summary.
type Mode string

const (
	ModeTLDR     Mode = "tldr"
	ModeShort    Mode = "short"
	ModeExtended Mode = "extended"
)

// ParseMode validates a mode string. An empty string maps to ModeShort.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeShort, nil
	case ModeTLDR, ModeShort, ModeExtended:
		return Mode(s), nil
	}
	return "", &InvalidModeError{Mode: s}
}

// Segmenter splits raw document text into ordered sentence records.
type Segmenter interface {
	Name() string
	Segment(text string) []Sentence
}

// Generator produces an abstractive summary of the given text.
type Generator interface {
	Name() string
	Generate(ctx context.Context, text string, mode Mode) (string, error)
}

// Loader fetches the raw text of a document by its identifier.
type Loader interface {
	Load(docID string) (Document, error)
}

// Exporter writes a finished summary to disk in the requested format.
type Exporter interface {
	Export(summary *Summary, format string) (string, error)
}
