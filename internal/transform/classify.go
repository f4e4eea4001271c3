package transform

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/templar-lang/templar/internal/ast"
)

// tsIdentRe matches names usable with dot access in the emitted program.
// It is ASCII-only, which also keeps block params from shadowing the
// reserved χ and Γ bindings.
var tsIdentRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func isTSIdent(name string) bool {
	return tsIdentRe.MatchString(name)
}

func tsQuote(s string) string {
	return strconv.Quote(s)
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

func hasWordPrefix(s, word string) bool {
	if !strings.HasPrefix(s, word) {
		return false
	}
	rest := s[len(word):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

// emitPath classifies a path and emits its expression. The head decides
// the form: context access, named argument, in-scope local, or built-in
// fallback. register queues the fallback's companion statement-level bare
// reference; forceFallback skips the scope lookup, the treatment an
// {{else helper}} chain gets regardless of shadowing.
func (t *transformer) emitPath(p *ast.PathExpression, register, forceFallback bool) {
	switch {
	case p.This:
		t.b.Emit(ctxIdent + ".")
		t.b.EmitMapped("this", p.Head.Loc)
		t.emitTail(p.Tail, false)
	case p.Data:
		t.b.Emit(ctxIdent + ".args.")
		t.b.EmitMapped(p.Head.Name, p.Head.Loc)
		t.emitTail(p.Tail, true)
	case !forceFallback && t.scope.Has(p.Head.Name):
		t.b.EmitMapped(p.Head.Name, p.Head.Loc)
		t.emitTail(p.Tail, true)
	default:
		t.b.Emit(nsIdent + ".BuiltIns[")
		t.b.EmitMapped(tsQuote(p.Head.Name), p.Head.Loc)
		t.b.Emit("]")
		t.emitTail(p.Tail, true)
		if register {
			t.pending = append(t.pending, p.Head)
		}
	}
}

// emitTail writes member accesses for the path tail. Template member
// access is null-safe, so tail segments optional-chain; for this-paths
// the first access is plain because a missing first member is a hard
// error.
func (t *transformer) emitTail(segs []ast.Ident, chainFirst bool) {
	for i, seg := range segs {
		chain := chainFirst || i > 0
		if isTSIdent(seg.Name) {
			if chain {
				t.b.Emit("?.")
			} else {
				t.b.Emit(".")
			}
			t.b.EmitMapped(seg.Name, seg.Loc)
		} else {
			if chain {
				t.b.Emit("?.[")
			} else {
				t.b.Emit("[")
			}
			t.b.EmitMapped(tsQuote(seg.Name), seg.Loc)
			t.b.Emit("]")
		}
	}
}

// emitCalleeRef re-emits a block invocation's callee as a bare statement
// so an unknown component surfaces at the call site.
func (t *transformer) emitCalleeRef(callee ast.Expression, forceFallback bool) {
	p, ok := callee.(*ast.PathExpression)
	if !ok {
		return
	}
	t.b.EmitIndentation()
	t.emitPath(p, false, forceFallback)
	t.b.Emit(";\n")
}
