package transform

import (
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// TestGoldenCorpus drives the transform over txtar fixtures. Each archive
// holds a template, an optional whitespace-separated globals list, and
// the expected frame-stripped body.
func TestGoldenCorpus(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(archives) == 0 {
		t.Fatal("no golden corpora found")
	}
	for _, path := range archives {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatal(err)
			}
			var template, expected string
			var globals []string
			for _, file := range ar.Files {
				switch file.Name {
				case "template.hbs":
					template = string(file.Data)
				case "globals":
					globals = strings.Fields(string(file.Data))
				case "expected":
					expected = string(file.Data)
				default:
					t.Fatalf("unexpected archive member %q", file.Name)
				}
			}
			result := TemplateToTypescript(template, Options{IdentifiersInScope: globals})
			for _, err := range result.Errors {
				t.Errorf("diagnostic: %s (%s)", err.Message, err.Code)
			}
			if !result.HasCode() {
				t.Fatal("no code emitted")
			}
			got := strings.TrimRight(bodyOf(t, result.Code), "\n")
			want := strings.TrimRight(expected, "\n")
			if got != want {
				t.Fatalf("body mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
			}
		})
	}
}
