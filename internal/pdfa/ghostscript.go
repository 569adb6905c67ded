// Package pdfa converts rendered PDFs to PDF/A by invoking the
// Ghostscript CLI.
package pdfa

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Sentinel errors for PDF/A conversion.
var (
	ErrEmptyPDF       = errors.New("pdfa: input PDF cannot be empty")
	ErrInvalidVersion = errors.New("pdfa: unsupported PDF/A version")
	ErrConversion     = errors.New("pdfa: ghostscript conversion failed")
)

// Supported PDF/A conformance levels (part numbers).
const (
	VersionPDFA2 = 2
	VersionPDFA3 = 3
)

// defaultBin is the Ghostscript executable resolved from PATH.
const defaultBin = "gs"

// CommandRunner abstracts command execution to enable testing without a
// real Ghostscript install.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Converter drives one Ghostscript invocation per Convert call. A
// Converter holds no per-call state, but conversions are CPU-bound, so
// callers bound concurrency with a pool.
type Converter struct {
	runner CommandRunner
	bin    string
}

// Option customizes a Converter.
type Option func(*Converter)

// WithRunner injects a command runner (used by tests).
func WithRunner(r CommandRunner) Option {
	return func(c *Converter) { c.runner = r }
}

// WithBin overrides the Ghostscript executable path.
func WithBin(bin string) Option {
	return func(c *Converter) { c.bin = bin }
}

// NewConverter creates a Converter with a real command runner.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{runner: &ExecRunner{}, bin: defaultBin}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert rewrites pdf as PDF/A of the given part (2 or 3). The
// Ghostscript outcome is passed through unchanged on failure: the
// converter adds no interpretation of its cause beyond the stderr text.
func (c *Converter) Convert(ctx context.Context, pdf []byte, version int) ([]byte, error) {
	if len(pdf) == 0 {
		return nil, ErrEmptyPDF
	}
	if version != VersionPDFA2 && version != VersionPDFA3 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, version)
	}

	inPath, cleanupIn, err := writeTempPDF(pdf)
	if err != nil {
		return nil, err
	}
	defer cleanupIn()

	outFile, err := os.CreateTemp("", "go-chromepdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	outPath := outFile.Name()
	defer func() { _ = os.Remove(outPath) }()
	if err := outFile.Close(); err != nil {
		return nil, fmt.Errorf("closing output file: %w", err)
	}

	args := convertArgs(inPath, outPath, version)
	_, stderr, err := c.runner.Run(ctx, c.bin, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConversion, stderr, err)
	}

	out, err := os.ReadFile(outPath) // #nosec G304 -- path comes from CreateTemp above
	if err != nil {
		return nil, fmt.Errorf("reading converted PDF: %w", err)
	}
	return out, nil
}

// Close releases resources. Present so converters satisfy the pool's
// handle contract; Ghostscript holds nothing between calls.
func (c *Converter) Close() error {
	return nil
}

// convertArgs builds the Ghostscript argument list for a PDF/A rewrite
// with RGB color strategy and strict compatibility policy.
func convertArgs(inPath, outPath string, version int) []string {
	return []string{
		fmt.Sprintf("-dPDFA=%d", version),
		"-dBATCH",
		"-dNOPAUSE",
		"-dNOOUTERSAVE",
		"-sColorConversionStrategy=RGB",
		"-sDEVICE=pdfwrite",
		"-dPDFACompatibilityPolicy=1",
		"-sOutputFile=" + outPath,
		inPath,
	}
}

// writeTempPDF creates a temporary file with the input PDF bytes.
func writeTempPDF(pdf []byte) (path string, cleanup func(), err error) {
	tmpFile, err := os.CreateTemp("", "go-chromepdf-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, err := tmpFile.Write(pdf); err != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}
	return path, cleanup, nil
}
