package main

import (
	"errors"
	"os"

	chromepdf "github.com/alnah/go-chromepdf"
)

// Exit codes for the chromepdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, chromepdf.ErrPDFGeneration) ||
		errors.Is(err, chromepdf.ErrPDFDecode) ||
		errors.Is(err, chromepdf.ErrPoolClosed) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrConfigRead) ||
		errors.Is(err, ErrWritePDF) {
		return ExitIO
	}

	// Usage errors (exit 2)
	if errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrConfigParse) ||
		errors.Is(err, chromepdf.ErrEmptySource) ||
		errors.Is(err, chromepdf.ErrAmbiguousSource) ||
		errors.Is(err, chromepdf.ErrInvalidPageSize) ||
		errors.Is(err, chromepdf.ErrInvalidOrientation) ||
		errors.Is(err, chromepdf.ErrInvalidMargin) ||
		errors.Is(err, chromepdf.ErrInvalidPDFAVersion) {
		return ExitUsage
	}

	return ExitGeneral
}
