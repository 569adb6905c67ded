package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alnah/go-chromepdf/internal/yamlutil"
)

// Sentinel errors for config loading.
var (
	ErrConfigRead  = errors.New("failed to read config file")
	ErrConfigParse = errors.New("failed to parse config file")
)

// Config holds file-based defaults. Flags override config values;
// config values override built-in defaults.
type Config struct {
	Workers int    `yaml:"workers"`
	Timeout string `yaml:"timeout"`
	CSS     string `yaml:"css"`

	Page struct {
		Size        string  `yaml:"size"`
		Orientation string  `yaml:"orientation"`
		Margin      float64 `yaml:"margin"`
	} `yaml:"page"`

	PDFA struct {
		Enabled bool `yaml:"enabled"`
		Version int  `yaml:"version"`
	} `yaml:"pdfa"`

	Offline        bool   `yaml:"offline"`
	NoSandbox      bool   `yaml:"no_sandbox"`
	BrowserBin     string `yaml:"browser_bin"`
	GhostscriptBin string `yaml:"ghostscript_bin"`
}

// LoadConfig reads and parses a YAML config file. Unknown keys are
// rejected so typos surface immediately.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the user's own flag
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigRead, err)
	}
	cfg := &Config{}
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return cfg, nil
}

// mergeConfig fills unset flags from config values. A flag that was
// explicitly set on the command line always wins.
func mergeConfig(flags *cliFlags, cfg *Config) error {
	if cfg == nil {
		return nil
	}
	if !flags.changed("workers") && cfg.Workers != 0 {
		flags.workers = cfg.Workers
	}
	if !flags.changed("timeout") && cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("%w: invalid timeout %q: %v", ErrConfigParse, cfg.Timeout, err)
		}
		flags.timeout = d
	}
	if !flags.changed("css") && cfg.CSS != "" {
		flags.css = cfg.CSS
	}
	if !flags.changed("page-size") && cfg.Page.Size != "" {
		flags.pageSize = cfg.Page.Size
	}
	if !flags.changed("orientation") && cfg.Page.Orientation != "" {
		flags.orientation = cfg.Page.Orientation
	}
	if !flags.changed("margin") && cfg.Page.Margin != 0 {
		flags.margin = cfg.Page.Margin
	}
	if !flags.changed("pdfa") && cfg.PDFA.Enabled {
		flags.pdfa = true
	}
	if !flags.changed("pdfa-version") && cfg.PDFA.Version != 0 {
		flags.pdfaVersion = cfg.PDFA.Version
	}
	if !flags.changed("offline") && cfg.Offline {
		flags.offline = true
	}
	if !flags.changed("no-sandbox") && cfg.NoSandbox {
		flags.noSandbox = true
	}
	if flags.workers < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidWorkerCount, flags.workers)
	}
	return nil
}
