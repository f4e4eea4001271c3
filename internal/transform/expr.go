package transform

import (
	"github.com/templar-lang/templar/internal/ast"
	"github.com/templar-lang/templar/internal/diagnostics"
	"github.com/templar-lang/templar/internal/source"
)

// emitExpression emits the value of a literal, path, or subexpression.
func (t *transformer) emitExpression(e ast.Expression) {
	switch e := e.(type) {
	case *ast.StringLiteral:
		t.b.EmitMapped(tsQuote(e.Value), e.Loc)
	case *ast.NumberLiteral:
		t.b.EmitMapped(e.Raw, e.Loc)
	case *ast.BooleanLiteral:
		if e.Value {
			t.b.EmitMapped("true", e.Loc)
		} else {
			t.b.EmitMapped("false", e.Loc)
		}
	case *ast.NullLiteral:
		t.b.EmitMapped("null", e.Loc)
	case *ast.UndefinedLiteral:
		t.b.EmitMapped("undefined", e.Loc)
	case *ast.PathExpression:
		t.emitPath(e, true, false)
	case *ast.SubExpression:
		if form := specialFormOf(e.Path); form != "" {
			t.emitSpecialExpr(form, e.Params, e.Hash, e.Loc)
			return
		}
		t.emitResolvedCall(e.Path, e.Params, e.Hash, false)
	default:
		t.b.Emit("undefined")
	}
}

// emitResolvedCall emits resolve(CALLEE)({named}, pos...). canReturn
// selects resolveOrReturn for an argument-less inline path that may be a
// plain value rather than a helper.
func (t *transformer) emitResolvedCall(callee ast.Expression, params []ast.Expression, hash []*ast.HashPair, canReturn bool) {
	resolver := "resolve"
	if canReturn && len(params) == 0 && len(hash) == 0 {
		resolver = "resolveOrReturn"
	}
	t.b.Emit(resolver + "(")
	t.emitExpression(callee)
	t.b.Emit(")(")
	t.emitHashObject(hash)
	for _, p := range params {
		t.b.Emit(", ")
		t.emitExpression(p)
	}
	t.b.Emit(")")
}

// emitHashObject emits the named-args object, always present even when
// empty. Property order is hash-pair source order.
func (t *transformer) emitHashObject(hash []*ast.HashPair) {
	if len(hash) == 0 {
		t.b.Emit("{}")
		return
	}
	t.b.Emit("{ ")
	for _, pair := range hash {
		if isTSIdent(pair.Key) {
			t.b.EmitMapped(pair.Key, pair.KeyLoc)
		} else {
			t.b.EmitMapped(tsQuote(pair.Key), pair.KeyLoc)
		}
		t.b.Emit(": ")
		if pair.Value != nil {
			t.emitExpression(pair.Value)
		} else {
			t.b.Emit("undefined")
		}
		t.b.Emit(", ")
	}
	t.b.Emit("}")
}

// emitInlineMustache emits the expression form of a mustache in
// statement or attribute position. Special forms print their expression
// directly; everything else routes through invokeInline.
func (t *transformer) emitInlineMustache(m *ast.MustacheStatement) {
	if form := specialFormOf(m.Path); form != "" {
		t.emitSpecialExpr(form, m.Params, m.Hash, m.Loc)
		return
	}
	t.b.Emit("invokeInline(")
	t.emitResolvedCall(m.Path, m.Params, m.Hash, true)
	t.b.Emit(")")
}

// specialFormOf names the forms the transform recognizes directly and
// never routes through resolve.
func specialFormOf(callee ast.Expression) string {
	p, ok := callee.(*ast.PathExpression)
	if !ok {
		return ""
	}
	switch p.BareName() {
	case "if", "hash", "array", "yield":
		return p.BareName()
	}
	return ""
}

// emitSpecialExpr emits one of the special forms in expression position.
func (t *transformer) emitSpecialExpr(form string, params []ast.Expression, hash []*ast.HashPair, loc source.Span) {
	switch form {
	case "if":
		if len(params) < 2 {
			t.addError(diagnostics.Structural(diagnostics.ErrIfTooFew, loc))
		}
		t.b.Emit("(")
		t.emitParamOrUndefined(params, 0)
		t.b.Emit(") ? (")
		t.emitParamOrUndefined(params, 1)
		t.b.Emit(") : (")
		t.emitParamOrUndefined(params, 2)
		t.b.Emit(")")
	case "hash":
		if len(params) > 0 {
			t.addError(diagnostics.Structural(diagnostics.ErrHashPositional, loc))
		}
		t.b.Emit("(")
		t.emitHashObject(hash)
		t.b.Emit(")")
	case "array":
		if len(hash) > 0 {
			t.addError(diagnostics.Structural(diagnostics.ErrArrayNamed, loc))
		}
		t.b.Emit("[")
		for i, p := range params {
			if i > 0 {
				t.b.Emit(", ")
			}
			t.emitExpression(p)
		}
		t.b.Emit("]")
	case "yield":
		t.addError(diagnostics.Structural(diagnostics.ErrYieldPosition, loc))
		t.b.Emit("undefined")
	}
}

func (t *transformer) emitParamOrUndefined(params []ast.Expression, i int) {
	if i < len(params) {
		t.emitExpression(params[i])
	} else {
		t.b.Emit("undefined")
	}
}
