package chromepdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptySource     = errors.New("document source cannot be empty")
	ErrAmbiguousSource = errors.New("provide either HTML or Markdown, not both")
	ErrHTMLConversion  = errors.New("HTML conversion failed")
	ErrPDFGeneration   = errors.New("PDF generation failed")
	ErrPDFDecode       = errors.New("failed to decode PDF data")
	ErrPDFAConversion  = errors.New("PDF/A conversion failed")

	// Pool errors.
	ErrPoolClosed = errors.New("pool has been shut down")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// PDF/A settings validation errors.
	ErrInvalidPDFAVersion = errors.New("invalid PDF/A version")
)
