package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "tinder.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WarningsAsErrors {
		t.Fatalf("default config should not treat warnings as errors")
	}
	if len(cfg.Rename.ReservedWords) != 0 {
		t.Fatalf("default config should have no reserved words")
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tinder.yaml")
	src := "warningsAsErrors: true\n" +
		"rename:\n" +
		"  reservedWords: [int, class]\n" +
		"  mangleOverloads: true\n"
	if err := writeFile(path, src); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.WarningsAsErrors {
		t.Fatalf("expected WarningsAsErrors to be true")
	}
	if !cfg.Rename.MangleOverloads {
		t.Fatalf("expected MangleOverloads to be true")
	}
	set := cfg.ReservedSet()
	if !set["int"] || !set["class"] {
		t.Fatalf("got reserved set %v, want int and class present", set)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tinder.yaml")
	if err := writeFile(path, "warningsAsErrors: [this is not a bool\n"); err != nil {
		t.Fatalf("writeFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for malformed YAML")
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
