package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
workers: 4
timeout: 45s
css: style.css
page:
  size: a4
  orientation: landscape
  margin: 1.0
pdfa:
  enabled: true
  version: 3
offline: true
browser_bin: /opt/chrome
ghostscript_bin: /opt/gs
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Workers != 4 || cfg.Timeout != "45s" || cfg.CSS != "style.css" {
		t.Errorf("top-level fields = %d/%q/%q", cfg.Workers, cfg.Timeout, cfg.CSS)
	}
	if cfg.Page.Size != "a4" || cfg.Page.Orientation != "landscape" || cfg.Page.Margin != 1.0 {
		t.Errorf("page = %+v", cfg.Page)
	}
	if !cfg.PDFA.Enabled || cfg.PDFA.Version != 3 {
		t.Errorf("pdfa = %+v", cfg.PDFA)
	}
	if !cfg.Offline || cfg.BrowserBin != "/opt/chrome" || cfg.GhostscriptBin != "/opt/gs" {
		t.Errorf("runtime fields = %v/%q/%q", cfg.Offline, cfg.BrowserBin, cfg.GhostscriptBin)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrConfigRead) {
		t.Errorf("error = %v, want ErrConfigRead", err)
	}
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "wokers: 4\n")
	_, err := LoadConfig(path)
	if !errors.Is(err, ErrConfigParse) {
		t.Errorf("error = %v, want ErrConfigParse", err)
	}
}

func TestMergeConfig_FlagsWin(t *testing.T) {
	t.Parallel()

	flags, _, err := parseFlags([]string{"-w", "2", "-p", "letter", "doc.md"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	cfg := &Config{Workers: 8}
	cfg.Page.Size = "a4"
	cfg.Page.Margin = 1.5

	if err := mergeConfig(flags, cfg); err != nil {
		t.Fatalf("mergeConfig() error = %v", err)
	}
	if flags.workers != 2 {
		t.Errorf("workers = %d, want flag value 2", flags.workers)
	}
	if flags.pageSize != "letter" {
		t.Errorf("pageSize = %q, want flag value letter", flags.pageSize)
	}
	if flags.margin != 1.5 {
		t.Errorf("margin = %v, want config value 1.5", flags.margin)
	}
}

func TestMergeConfig_Timeout(t *testing.T) {
	t.Parallel()

	flags, _, err := parseFlags([]string{"doc.md"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if err := mergeConfig(flags, &Config{Timeout: "90s"}); err != nil {
		t.Fatalf("mergeConfig() error = %v", err)
	}
	if flags.timeout != 90*time.Second {
		t.Errorf("timeout = %v, want 90s", flags.timeout)
	}

	if err := mergeConfig(flags, &Config{Timeout: "soon"}); !errors.Is(err, ErrConfigParse) {
		t.Errorf("error = %v, want ErrConfigParse", err)
	}
}
