package transform

import (
	"sort"
	"strings"
	"testing"

	"github.com/templar-lang/templar/internal/diagnostics"
)

// single runs the transform and returns the sole diagnostic, asserting
// that best-effort code was still emitted.
func single(t *testing.T, source string, inScope ...string) *diagnostics.DiagnosticError {
	t.Helper()
	result := TemplateToTypescript(source, Options{IdentifiersInScope: inScope})
	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", result.Errors)
	}
	if !result.HasCode() {
		t.Fatal("structural diagnostics must not suppress emission")
	}
	return result.Errors[0]
}

func TestError_YieldInExpressionPosition(t *testing.T) {
	err := single(t, `<div data-x={{yield}}></div>`)
	if err.Code != diagnostics.ErrYieldPosition {
		t.Fatalf("code: %s", err.Code)
	}
	if err.Message != "{{yield}} may only appear as a top-level statement" {
		t.Fatalf("message: %q", err.Message)
	}
	src := `<div data-x={{yield}}></div>`
	if got := src[err.Span.Start:err.Span.End]; got != "{{yield}}" {
		t.Fatalf("span covers %q", got)
	}
}

func TestError_YieldDynamicName(t *testing.T) {
	src := `{{yield to=@name}}`
	err := single(t, src)
	if err.Code != diagnostics.ErrYieldDynamic {
		t.Fatalf("code: %s", err.Code)
	}
	if err.Message != "Named block {{yield}}s must have a literal block name" {
		t.Fatalf("message: %q", err.Message)
	}
	if got := src[err.Span.Start:err.Span.End]; got != "@name" {
		t.Fatalf("span covers %q", got)
	}
}

func TestError_HashPositionalParams(t *testing.T) {
	err := single(t, `{{hash 1 a=2}}`)
	if err.Code != diagnostics.ErrHashPositional {
		t.Fatalf("code: %s", err.Code)
	}
	if err.Message != "{{hash}} only accepts named parameters" {
		t.Fatalf("message: %q", err.Message)
	}
	if err.Span.Start != 0 {
		t.Fatalf("span: %+v", err.Span)
	}
}

func TestError_ArrayNamedParams(t *testing.T) {
	err := single(t, `{{array 1 a=2}}`)
	if err.Code != diagnostics.ErrArrayNamed {
		t.Fatalf("code: %s", err.Code)
	}
	if err.Message != "{{array}} only accepts positional parameters" {
		t.Fatalf("message: %q", err.Message)
	}
}

func TestError_InlineIfTooFewParams(t *testing.T) {
	err := single(t, `{{if @x}}`)
	if err.Code != diagnostics.ErrIfTooFew {
		t.Fatalf("code: %s", err.Code)
	}
	if err.Message != "{{if}} requires at least two parameters" {
		t.Fatalf("message: %q", err.Message)
	}
}

func TestError_BlockIfConditionCount(t *testing.T) {
	for _, src := range []string{`{{#if}}x{{/if}}`, `{{#if @a @b}}x{{/if}}`} {
		err := single(t, src)
		if err.Code != diagnostics.ErrIfBlockCond {
			t.Fatalf("%s: code %s", src, err.Code)
		}
		if err.Message != "{{#if}} requires exactly one condition" {
			t.Fatalf("message: %q", err.Message)
		}
	}
}

func TestError_MixedNamedBlocks(t *testing.T) {
	src := `<Foo><:a>x</:a><div></div></Foo>`
	err := single(t, src)
	if err.Code != diagnostics.ErrMixedBlocks {
		t.Fatalf("code: %s", err.Code)
	}
	if err.Message != "Named blocks may not be mixed with other content" {
		t.Fatalf("message: %q", err.Message)
	}
	if got := src[err.Span.Start:err.Span.End]; got != "<div></div>" {
		t.Fatalf("span covers %q", got)
	}
}

func TestError_BlockParamName(t *testing.T) {
	src := `{{#each x as |foo-bar|}}{{/each}}`
	err := single(t, src, "each", "x")
	if err.Code != diagnostics.ErrBlockParamName {
		t.Fatalf("code: %s", err.Code)
	}
	if err.Message != "Block params must be valid TypeScript identifiers" {
		t.Fatalf("message: %q", err.Message)
	}
	if got := src[err.Span.Start:err.Span.End]; got != "foo-bar" {
		t.Fatalf("span covers %q", got)
	}
}

func TestError_ReservedIdentifiersRejectedAsBlockParams(t *testing.T) {
	for _, src := range []string{`{{#each x as |χ|}}{{/each}}`, `{{#each x as |Γ|}}{{/each}}`} {
		result := TemplateToTypescript(src, Options{IdentifiersInScope: []string{"each", "x"}})
		found := false
		for _, err := range result.Errors {
			if err.Code == diagnostics.ErrBlockParamName {
				found = true
			}
		}
		if !found {
			t.Errorf("%s: reserved identifier accepted as block param", src)
		}
	}
}

func TestError_SortedByStart(t *testing.T) {
	src := `{{hash 1 a=2}}{{if @x}}{{array 1 b=2}}`
	result := TemplateToTypescript(src, Options{})
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 diagnostics, got %v", result.Errors)
	}
	sorted := sort.SliceIsSorted(result.Errors, func(i, j int) bool {
		return result.Errors[i].Span.Start < result.Errors[j].Span.Start
	})
	if !sorted {
		t.Fatal("errors are not ordered by span start")
	}
}

func TestError_BestEffortEmissionKeepsGoing(t *testing.T) {
	// The failing construct still emits something usable so the host
	// checker can report its own diagnostics against the same frame.
	result := TemplateToTypescript(`{{if @x}}{{this.ok}}`, Options{})
	if !result.HasCode() {
		t.Fatal("expected best-effort code")
	}
	if !strings.Contains(result.Code, "Γ.this.ok") {
		t.Fatalf("later statements should still emit:\n%s", result.Code)
	}
}
