package chromepdf

import (
	"fmt"
	"strings"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// paperDimensions holds width and height in inches, portrait.
var paperDimensions = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// Input describes one document to convert. Exactly one of HTML or
// Markdown must be set; CSS is injected into the document before
// rendering.
type Input struct {
	HTML     string
	Markdown string
	CSS      string
	Page     *PageSettings
	PDFA     *PDFASettings
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if _, ok := paperDimensions[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// printParams builds the Page.printToPDF parameter map for these
// settings. Nil receives defaults.
func (p *PageSettings) printParams() map[string]any {
	if p == nil {
		p = DefaultPageSettings()
	}

	dims := paperDimensions[strings.ToLower(p.Size)]
	width, height := dims[0], dims[1]
	if strings.ToLower(p.Orientation) == OrientationLandscape {
		width, height = height, width
	}

	return map[string]any{
		"paperWidth":      width,
		"paperHeight":     height,
		"marginTop":       p.Margin,
		"marginBottom":    p.Margin,
		"marginLeft":      p.Margin,
		"marginRight":     p.Margin,
		"printBackground": true,
	}
}

// PDFASettings enables post-processing the rendered PDF into PDF/A.
type PDFASettings struct {
	// Version is the PDF/A part number: 2 (default) or 3.
	Version int
}

// Validate checks PDF/A settings. Returns nil if p is nil (PDF/A
// conversion disabled).
func (p *PDFASettings) Validate() error {
	if p == nil {
		return nil
	}
	switch p.Version {
	case 0, 2, 3:
		return nil
	}
	return fmt.Errorf("%w: %d", ErrInvalidPDFAVersion, p.Version)
}

// version returns the effective PDF/A part number.
func (p *PDFASettings) version() int {
	if p == nil || p.Version == 0 {
		return 2
	}
	return p.Version
}
