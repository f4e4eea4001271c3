package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".templar.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
globals:
  - concat
  - t
contextType: AppComponent
typeParams: "<T>"
preamble:
  - import "./registry";
include:
  - "app/components/**"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Globals) != 2 || cfg.Globals[0] != "concat" {
		t.Fatalf("globals: %+v", cfg.Globals)
	}
	if cfg.ContextType != "AppComponent" || cfg.TypeParams != "<T>" {
		t.Fatalf("types: %+v", cfg)
	}
	if len(cfg.Preamble) != 1 || len(cfg.Include) != 1 {
		t.Fatalf("lists: %+v", cfg)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "globals: [unbalanced")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error")
	}
}

func TestDiscover_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "globals: [up]")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, path, err := Discover(nested)
	if err != nil {
		t.Fatal(err)
	}
	if path == "" || len(cfg.Globals) != 1 || cfg.Globals[0] != "up" {
		t.Fatalf("discover: %q %+v", path, cfg)
	}
}

func TestDiscover_MissingIsZero(t *testing.T) {
	cfg, path, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if path != "" || len(cfg.Globals) != 0 {
		t.Fatalf("expected zero config, got %q %+v", path, cfg)
	}
}

func TestTransformOptions(t *testing.T) {
	cfg := &Config{
		Globals:     []string{"a"},
		ContextType: "C",
		TypeParams:  "<T>",
		Preamble:    []string{"x"},
	}
	opts := cfg.TransformOptions()
	if opts.ContextType != "C" || opts.TypeParams != "<T>" {
		t.Fatalf("options: %+v", opts)
	}
	if len(opts.IdentifiersInScope) != 1 || len(opts.Preamble) != 1 {
		t.Fatalf("options: %+v", opts)
	}
	// Mutating the options must not reach back into the config.
	opts.IdentifiersInScope[0] = "changed"
	if cfg.Globals[0] != "a" {
		t.Fatal("options alias config slices")
	}
}
