package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/go-pdf/fpdf"
	"gopkg.in/yaml.v3"

	"provsum/internal/domain"
)

// Exporter writes summaries into a single directory as <doc_id>_<mode>.<ext>.
type Exporter struct {
	dir string
}

func NewExporter(dir string) *Exporter {
	if dir == "" {
		dir = "exports"
	}
	return &Exporter{dir: dir}
}

// Export writes s in the given format and returns the written path.
// txt, pdf and docx hold the summary text (pdf and docx under a
// "Summary (<mode>)" heading); json and yaml hold the whole response.
func (e *Exporter) Export(s *domain.Summary, format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	var (
		data []byte
		err  error
	)
	switch format {
	case "txt":
		data = []byte(s.Summary + "\n")
	case "json":
		data, err = json.MarshalIndent(s, "", "  ")
	case "yaml", "yml":
		format = "yaml"
		data, err = yaml.Marshal(s)
	case "pdf":
		data, err = renderPDF(s)
	case "docx":
		data, err = renderDOCX(s)
	default:
		return "", fmt.Errorf("%w: export format %q", domain.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", format, err)
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(e.dir, fileName(s.DocID, s.Mode, format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// fileName flattens doc IDs with directories so exports stay in one place.
func fileName(docID string, mode domain.Mode, ext string) string {
	base := strings.TrimSuffix(docID, filepath.Ext(docID))
	base = strings.NewReplacer("/", "_", "\\", "_").Replace(base)
	if base == "" {
		base = "document"
	}
	return fmt.Sprintf("%s_%s.%s", base, mode, ext)
}

func heading(mode domain.Mode) string {
	return fmt.Sprintf("Summary (%s)", mode)
}

func renderPDF(s *domain.Summary) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(heading(s.Mode)))
	pdf.Ln(14)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr(s.Summary), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderDOCX(s *domain.Summary) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()
	// sizes are in half-points
	doc.AddParagraph().AddText(heading(s.Mode)).Size("36").Bold()
	doc.AddParagraph().AddText(s.Summary)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
