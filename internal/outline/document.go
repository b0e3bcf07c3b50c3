package outline

import (
	"fmt"
	"os"
	"path/filepath"
)

// TextDocument is an in-memory Document.
type TextDocument struct {
	Path    string
	Content string
}

// URI returns the document path.
func (d *TextDocument) URI() string { return d.Path }

// Text returns the document content.
func (d *TextDocument) Text() string { return d.Content }

// LoadFile reads path into a TextDocument with an absolute URI.
func LoadFile(path string) (*TextDocument, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return &TextDocument{Path: abs, Content: string(data)}, nil
}
