package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	chromepdf "github.com/alnah/go-chromepdf"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrInvalidFlags       = errors.New("invalid flags")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidExtension   = errors.New("file must have .html, .htm, .md, or .markdown extension")
	ErrReadInput          = errors.New("failed to read input file")
	ErrReadCSS            = errors.New("failed to read CSS file")
	ErrWritePDF           = errors.New("failed to write PDF file")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Converter is the interface for the conversion service.
type Converter interface {
	Convert(ctx context.Context, input chromepdf.Input) ([]byte, error)
}

// Compile-time interface implementation check.
var _ Converter = (*chromepdf.Service)(nil)

// fileToConvert represents a single file to process.
type fileToConvert struct {
	inputPath  string
	outputPath string
}

// conversionResult holds the outcome of a single conversion.
type conversionResult struct {
	inputPath  string
	outputPath string
	err        error
	duration   time.Duration
}

// markdownExtensions maps recognized markdown file extensions.
var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

// htmlExtensions maps recognized HTML file extensions.
var htmlExtensions = map[string]bool{
	".html": true,
	".htm":  true,
}

// resolveInputs validates input paths and pairs each with its output path.
// With multiple inputs, --output must be a directory (or empty, meaning
// alongside each input).
func resolveInputs(args []string, output string) ([]fileToConvert, error) {
	if len(args) == 0 {
		return nil, ErrNoInput
	}

	singlePDF := output != "" && strings.EqualFold(filepath.Ext(output), ".pdf")
	if singlePDF && len(args) > 1 {
		return nil, fmt.Errorf("%w: --output must be a directory when converting multiple files", ErrInvalidFlags)
	}

	files := make([]fileToConvert, 0, len(args))
	for _, in := range args {
		ext := strings.ToLower(filepath.Ext(in))
		if !markdownExtensions[ext] && !htmlExtensions[ext] {
			return nil, fmt.Errorf("%w: %s", ErrInvalidExtension, in)
		}

		var out string
		switch {
		case singlePDF:
			out = output
		case output != "":
			base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
			out = filepath.Join(output, base+".pdf")
		default:
			out = strings.TrimSuffix(in, filepath.Ext(in)) + ".pdf"
		}
		files = append(files, fileToConvert{inputPath: in, outputPath: out})
	}
	return files, nil
}

// buildInput reads an input file and assembles the conversion request.
func buildInput(path, css string, flags *cliFlags) (chromepdf.Input, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the user's own arguments
	if err != nil {
		return chromepdf.Input{}, fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	input := chromepdf.Input{CSS: css}
	if htmlExtensions[strings.ToLower(filepath.Ext(path))] {
		input.HTML = string(data)
	} else {
		input.Markdown = string(data)
	}

	if flags.pageSize != "" || flags.orientation != "" || flags.margin != 0 {
		page := chromepdf.DefaultPageSettings()
		if flags.pageSize != "" {
			page.Size = flags.pageSize
		}
		if flags.orientation != "" {
			page.Orientation = flags.orientation
		}
		if flags.margin != 0 {
			page.Margin = flags.margin
		}
		input.Page = page
	}

	if flags.pdfa {
		input.PDFA = &chromepdf.PDFASettings{Version: flags.pdfaVersion}
	}

	return input, nil
}

// runConvert converts every input file, bounded by the worker count.
// All files are attempted; the first error is returned after the batch
// completes.
func runConvert(ctx context.Context, args []string, flags *cliFlags, svc Converter, stdout, stderr io.Writer) error {
	files, err := resolveInputs(args, flags.output)
	if err != nil {
		return err
	}

	var css string
	if flags.css != "" {
		data, err := os.ReadFile(flags.css) // #nosec G304 -- path comes from the user's own flag
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadCSS, err)
		}
		css = string(data)
	}

	if flags.output != "" && !strings.EqualFold(filepath.Ext(flags.output), ".pdf") {
		if err := os.MkdirAll(flags.output, dirPermissions); err != nil {
			return fmt.Errorf("%w: %v", ErrWritePDF, err)
		}
	}

	results := make([]conversionResult, len(files))
	var g errgroup.Group
	g.SetLimit(chromepdf.ResolvePoolSize(flags.workers))

	for i, f := range files {
		g.Go(func() error {
			start := time.Now()
			err := convertFile(ctx, svc, f, css, flags)
			results[i] = conversionResult{
				inputPath:  f.inputPath,
				outputPath: f.outputPath,
				err:        err,
				duration:   time.Since(start),
			}
			return err
		})
	}
	batchErr := g.Wait()

	reportResults(results, flags, stdout, stderr)
	return batchErr
}

// convertFile converts a single input file to PDF.
func convertFile(ctx context.Context, svc Converter, f fileToConvert, css string, flags *cliFlags) error {
	input, err := buildInput(f.inputPath, css, flags)
	if err != nil {
		return err
	}

	pdf, err := svc.Convert(ctx, input)
	if err != nil {
		return fmt.Errorf("%s: %w", f.inputPath, err)
	}

	if err := os.WriteFile(f.outputPath, pdf, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWritePDF, err)
	}
	return nil
}

// reportResults prints a per-file summary according to the verbosity flags.
func reportResults(results []conversionResult, flags *cliFlags, stdout, stderr io.Writer) {
	var failed int
	for _, r := range results {
		switch {
		case r.err != nil:
			failed++
			fmt.Fprintf(stderr, "Error: %s: %v\n", r.inputPath, r.err)
		case flags.verbose:
			fmt.Fprintf(stdout, "Created %s (%.2fs)\n", r.outputPath, r.duration.Seconds())
		case !flags.quiet:
			fmt.Fprintf(stdout, "Created %s\n", r.outputPath)
		}
	}
	if failed > 0 && !flags.quiet {
		fmt.Fprintf(stderr, "%d of %d conversions failed\n", failed, len(results))
	}
}
