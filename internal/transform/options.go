package transform

import (
	"github.com/templar-lang/templar/internal/diagnostics"
	"github.com/templar-lang/templar/internal/mapping"
)

// Options configures one transform call.
type Options struct {
	// TypeParams is a literal type-parameter clause injected into the
	// emitted function signature, e.g. "<T extends string>".
	TypeParams string

	// ContextType is the type expression bound as the argument of the
	// runtime ResolveContext type. Defaults to "unknown".
	ContextType string

	// Preamble lines are emitted before the template body, typically
	// import declarations.
	Preamble []string

	// IdentifiersInScope are names treated as locally bound; any other
	// bare head falls back to the built-in namespace lookup.
	IdentifiersInScope []string

	// EmbeddedStart and EmbeddedEnd are the template's byte offsets in a
	// host file. Only the range map consults them.
	EmbeddedStart int
	EmbeddedEnd   int
}

// DirectiveKind classifies a checker comment directive.
type DirectiveKind string

const (
	DirectiveKindIgnore      DirectiveKind = "ignore"
	DirectiveKindExpectError DirectiveKind = "expect-error"
)

// Directive records where a checker directive comment sits in the
// template. The host checker attaches the semantics.
type Directive struct {
	Start int
	End   int
	Kind  DirectiveKind
}

// Result is the outcome of one transform call. Code and RangeMap are
// populated whenever a syntactically valid emission was possible, even in
// the presence of diagnostics; Errors is ordered by span start.
type Result struct {
	Code       string
	Directives []Directive
	RangeMap   *mapping.RangeMap
	Errors     []*diagnostics.DiagnosticError
}

// HasCode reports whether an emission was produced.
func (r *Result) HasCode() bool {
	return r.RangeMap != nil
}
