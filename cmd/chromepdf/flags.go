package main

import (
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"

	chromepdf "github.com/alnah/go-chromepdf"
)

// cliFlags holds all command-line flags for chromepdf.
type cliFlags struct {
	config      string
	output      string
	css         string
	workers     int
	timeout     time.Duration
	pageSize    string
	orientation string
	margin      float64
	pdfa        bool
	pdfaVersion int
	offline     bool
	noSandbox   bool
	quiet       bool
	verbose     bool
	version     bool

	// serviceOpts carries options only settable via config file.
	serviceOpts []chromepdf.Option

	fs *flag.FlagSet
}

// changed reports whether the named flag was explicitly set.
func (f *cliFlags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// parseFlags parses command-line arguments and returns the flags and
// positional arguments (input files).
func parseFlags(args []string, errOut io.Writer) (*cliFlags, []string, error) {
	flags := &cliFlags{}
	fs := flag.NewFlagSet("chromepdf", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.SortFlags = false

	fs.StringVarP(&flags.config, "config", "c", "", "YAML config file path")
	fs.StringVarP(&flags.output, "output", "o", "", "output PDF file or directory")
	fs.StringVar(&flags.css, "css", "", "CSS file injected into each document")
	fs.IntVarP(&flags.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.DurationVarP(&flags.timeout, "timeout", "t", 0, "per-document timeout (0 = default)")
	fs.StringVarP(&flags.pageSize, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&flags.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&flags.margin, "margin", 0, "page margin in inches (0.25-3.0)")
	fs.BoolVar(&flags.pdfa, "pdfa", false, "convert output to PDF/A")
	fs.IntVar(&flags.pdfaVersion, "pdfa-version", 0, "PDF/A version: 2 or 3 (default: 2)")
	fs.BoolVar(&flags.offline, "offline", false, "block network access while rendering")
	fs.BoolVar(&flags.noSandbox, "no-sandbox", false, "disable the browser sandbox")
	fs.BoolVarP(&flags.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "show per-file timing")
	fs.BoolVar(&flags.version, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintln(errOut, "Usage: chromepdf [flags] <input>...")
		fmt.Fprintln(errOut, "")
		fmt.Fprintln(errOut, "Renders HTML or Markdown files to PDF using headless Chrome.")
		fmt.Fprintln(errOut, "Inputs must have a .html, .htm, .md, or .markdown extension.")
		fmt.Fprintln(errOut, "")
		fmt.Fprintln(errOut, "Flags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	flags.fs = fs

	if flags.quiet && flags.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrInvalidFlags)
	}
	if flags.workers < 0 {
		return nil, nil, fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidWorkerCount, flags.workers)
	}

	return flags, fs.Args(), nil
}
