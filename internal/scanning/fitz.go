package scanning

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// FitzExtractor extracts page text with MuPDF.
type FitzExtractor struct{}

// NewFitzExtractor creates a new FitzExtractor.
func NewFitzExtractor() *FitzExtractor {
	return &FitzExtractor{}
}

// Fragments opens a PDF from memory and returns the text fragments of its
// first page. Receipts are single page; further pages are ignored.
func (e *FitzExtractor) Fragments(data []byte) ([]string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	text, err := doc.Text(0)
	if err != nil {
		return nil, fmt.Errorf("extracting page text: %w", err)
	}

	return splitFragments(text), nil
}

// Close implements TextExtractor. MuPDF documents are opened and closed per
// call, so there is nothing to release here.
func (e *FitzExtractor) Close() error {
	return nil
}

// splitFragments cuts page text into block fragments. MuPDF separates
// layout blocks with blank lines; each fragment keeps a trailing newline
// the way block extraction emits it.
func splitFragments(text string) []string {
	fragments := make([]string, 0)
	for _, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		fragments = append(fragments, strings.Trim(block, "\n")+"\n")
	}
	return fragments
}
