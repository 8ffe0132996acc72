package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"provsum/internal/domain"
)

// Loader reads documents by ID from a data directory. Only plain text is
// supported; other formats are reported, never returned as content.
type Loader struct {
	dataDir string
}

func NewLoader(dataDir string) *Loader {
	if dataDir == "" {
		dataDir = "data"
	}
	return &Loader{dataDir: dataDir}
}

// Load returns the document stored as docID under the data directory.
func (l *Loader) Load(docID string) (domain.Document, error) {
	// IDs never escape the data directory
	if docID == "" || !filepath.IsLocal(docID) {
		return domain.Document{}, fmt.Errorf("%w: %q", domain.ErrDocumentNotFound, docID)
	}
	clean := filepath.Clean(docID)

	ext := strings.ToLower(filepath.Ext(clean))
	if ext != ".txt" {
		return domain.Document{}, fmt.Errorf("%w: %q (only .txt is supported)", domain.ErrUnsupportedFormat, ext)
	}

	path := filepath.Join(l.dataDir, clean)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, path)
		}
		return domain.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return domain.Document{
		ID:      docID,
		Path:    path,
		Content: strings.ToValidUTF8(string(data), "�"),
	}, nil
}
