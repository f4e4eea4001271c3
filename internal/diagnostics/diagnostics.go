package diagnostics

import (
	"fmt"
	"sort"

	"github.com/templar-lang/templar/internal/source"
)

// Code identifies a diagnostic kind. Structural codes (E-*) have fixed
// message text; parse codes (P*) carry free-form messages.
type Code string

const (
	ErrYieldPosition  Code = "E-YIELD-POS"
	ErrYieldDynamic   Code = "E-YIELD-DYN"
	ErrHashPositional Code = "E-HASH-POS"
	ErrArrayNamed     Code = "E-ARRAY-NAMED"
	ErrIfTooFew       Code = "E-IF-FEW"
	ErrIfBlockCond    Code = "E-IF-BLOCK-COND"
	ErrMixedBlocks    Code = "E-MIX"
	ErrBlockParamName Code = "E-BP-NAME"

	ErrParseSyntax      Code = "P001"
	ErrParseUnclosed    Code = "P002"
	ErrParseTagMismatch Code = "P003"
)

// messages holds the canonical text for structural codes. Tools match on
// this text, so it never changes without a major version bump.
var messages = map[Code]string{
	ErrYieldPosition:  "{{yield}} may only appear as a top-level statement",
	ErrYieldDynamic:   "Named block {{yield}}s must have a literal block name",
	ErrHashPositional: "{{hash}} only accepts named parameters",
	ErrArrayNamed:     "{{array}} only accepts positional parameters",
	ErrIfTooFew:       "{{if}} requires at least two parameters",
	ErrIfBlockCond:    "{{#if}} requires exactly one condition",
	ErrMixedBlocks:    "Named blocks may not be mixed with other content",
	ErrBlockParamName: "Block params must be valid TypeScript identifiers",
}

// DiagnosticError is a positioned diagnostic. It is a value, never thrown:
// stages accumulate them and keep going.
type DiagnosticError struct {
	Code    Code
	Span    source.Span
	Message string
	File    string
}

func (e *DiagnosticError) Error() string {
	return e.Message
}

// NewError creates a diagnostic with an explicit message.
func NewError(code Code, span source.Span, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Span: span, Message: message}
}

// Newf creates a diagnostic with a formatted message.
func Newf(code Code, span source.Span, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Span: span, Message: fmt.Sprintf(format, args...)}
}

// Structural creates a diagnostic whose message is the canonical text for
// its code.
func Structural(code Code, span source.Span) *DiagnosticError {
	msg, ok := messages[code]
	if !ok {
		msg = string(code)
	}
	return &DiagnosticError{Code: code, Span: span, Message: msg}
}

// SortBySpan orders diagnostics by span start, preserving the relative
// order of diagnostics that share a start offset.
func SortBySpan(errs []*DiagnosticError) {
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Span.Start < errs[j].Span.Start
	})
}
