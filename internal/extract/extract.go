// Package extract converts uploaded files into plain text for the
// knowledge base. Only PDF and TXT files are supported.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Supported reports whether the file's extension can be extracted.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".txt":
		return true
	}
	return false
}

// FromFile extracts the plain text of the file at the given path based on
// its extension.
func FromFile(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return fromPDF(path)
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading text file: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported file format %q", ext)
	}
}

// fromPDF extracts text page by page. A page that cannot be decoded yields
// an empty string rather than failing the whole document, mirroring how
// scanned or image-only pages behave.
func fromPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n"), nil
}
