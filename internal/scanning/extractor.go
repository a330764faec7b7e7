package scanning

// TextExtractor turns one uploaded document into the ordered text fragments
// of its first page. Fragment boundaries follow the document's block layout;
// the parser makes no further assumption about them.
type TextExtractor interface {
	// Fragments extracts the first-page text fragments from a PDF.
	Fragments(data []byte) ([]string, error)
	// Close releases whatever native resources the extractor holds.
	Close() error
}
