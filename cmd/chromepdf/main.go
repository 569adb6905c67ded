package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	chromepdf "github.com/alnah/go-chromepdf"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	flags, inputs, err := parseFlags(args, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}

	if flags.version {
		fmt.Fprintf(os.Stdout, "chromepdf %s\n", Version)
		return ExitSuccess
	}

	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, a ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", a...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	if flags.config != "" {
		cfg, err := LoadConfig(flags.config)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitCodeFor(err)
		}
		if err := mergeConfig(flags, cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitCodeFor(err)
		}
		flags.serviceOpts = serviceOptsFromConfig(cfg)
	}

	svc := chromepdf.New(serviceOptions(flags)...)
	defer func() {
		if err := svc.Close(); err != nil && flags.verbose {
			fmt.Fprintf(os.Stderr, "close: %v\n", err)
		}
	}()

	if flags.verbose {
		fmt.Fprintf(os.Stderr, "Workers: %d\n", chromepdf.ResolvePoolSize(flags.workers))
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, inputs, flags, svc, os.Stdout, os.Stderr); err != nil {
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// serviceOptions translates flags into service options.
func serviceOptions(flags *cliFlags) []chromepdf.Option {
	opts := flags.serviceOpts
	if flags.timeout > 0 {
		opts = append(opts, chromepdf.WithTimeout(flags.timeout))
	}
	if flags.workers > 0 {
		opts = append(opts, chromepdf.WithWorkers(flags.workers))
	}
	if flags.noSandbox {
		opts = append(opts, chromepdf.WithNoSandbox())
	}
	if flags.offline {
		opts = append(opts, chromepdf.WithOfflineRendering())
	}
	return opts
}

// serviceOptsFromConfig extracts options only settable via config file.
func serviceOptsFromConfig(cfg *Config) []chromepdf.Option {
	var opts []chromepdf.Option
	if cfg.BrowserBin != "" {
		opts = append(opts, chromepdf.WithBrowserBin(cfg.BrowserBin))
	}
	if cfg.GhostscriptBin != "" {
		opts = append(opts, chromepdf.WithGhostscriptBin(cfg.GhostscriptBin))
	}
	return opts
}
