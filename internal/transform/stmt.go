package transform

import (
	"github.com/templar-lang/templar/internal/ast"
	"github.com/templar-lang/templar/internal/diagnostics"
	"github.com/templar-lang/templar/internal/source"
)

func (t *transformer) emitStatement(s ast.Statement) {
	switch s := s.(type) {
	case *ast.TextNode:
		// Markup contributes no typed code.
	case *ast.CommentStatement:
		t.recordDirective(s)
	case *ast.MustacheStatement:
		if isYieldPath(s.Path) {
			t.emitYieldStatement(s)
			return
		}
		t.b.EmitIndentation()
		t.emitInlineMustache(s)
		t.b.Emit(";\n")
	case *ast.BlockStatement:
		t.emitBlock(s)
	case *ast.ElementNode:
		t.emitElement(s)
	}
}

func isYieldPath(callee ast.Expression) bool {
	p, ok := callee.(*ast.PathExpression)
	return ok && p.BareName() == "yield"
}

// emitYieldStatement emits yield toBlock("name", values...). The target
// block name must be a string literal when given via to=.
func (t *transformer) emitYieldStatement(m *ast.MustacheStatement) {
	var target ast.Expression
	for _, pair := range m.Hash {
		if pair.Key == "to" {
			target = pair.Value
		}
	}
	t.b.EmitIndentation()
	t.b.Emit("yield toBlock(")
	switch lit := target.(type) {
	case nil:
		t.b.EmitMapped(`"default"`, m.Path.Span())
	case *ast.StringLiteral:
		t.b.EmitMapped(tsQuote(lit.Value), lit.Loc)
	default:
		t.addError(diagnostics.Structural(diagnostics.ErrYieldDynamic, target.Span()))
		t.b.Emit(`"default"`)
	}
	for _, p := range m.Params {
		t.b.Emit(", ")
		t.emitExpression(p)
	}
	t.b.Emit(");\n")
}

func (t *transformer) emitBlock(bs *ast.BlockStatement) {
	t.validateBlockParams(bs.BlockParams)
	if p, ok := bs.Path.(*ast.PathExpression); ok && p.BareName() == "if" {
		t.emitIfBlock(bs)
		return
	}

	t.b.EmitIndentation()
	t.b.Emit("yield invokeBlock(resolve(")
	if p, ok := bs.Path.(*ast.PathExpression); ok {
		// The trailing bare reference carries the unknown-callee
		// diagnostic, so the inline occurrence does not queue one.
		t.emitPath(p, false, bs.FromElse)
	} else {
		t.emitExpression(bs.Path)
	}
	t.b.Emit(")(")
	t.emitHashObject(bs.Hash)
	for _, param := range bs.Params {
		t.b.Emit(", ")
		t.emitExpression(param)
	}
	t.b.Emit("), {\n")
	t.b.PushIndent()
	names := []string{"default"}
	t.emitBlockMember("default", nil, bs.BlockParams, bs.Program.Body)
	if bs.Inverse != nil {
		names = append(names, "inverse")
		t.emitBlockMember("inverse", nil, nil, bs.Inverse.Body)
	}
	t.b.PopIndent()
	t.b.EmitIndentation()
	t.b.Emit("}")
	for _, name := range names {
		t.b.Emit(", " + tsQuote(name))
	}
	t.b.Emit(");\n")
	t.emitCalleeRef(bs.Path, bs.FromElse)
}

// emitIfBlock emits {{#if}} as a native conditional so block-param types
// flow through unchanged branches.
func (t *transformer) emitIfBlock(bs *ast.BlockStatement) {
	if len(bs.Params) != 1 {
		t.addError(diagnostics.Structural(diagnostics.ErrIfBlockCond, bs.Loc))
	}
	t.b.EmitIndentation()
	t.b.Emit("if (")
	t.emitParamOrUndefined(bs.Params, 0)
	t.b.Emit(") {\n")
	t.b.PushIndent()
	t.emitStatements(bs.Program.Body)
	t.b.PopIndent()
	if bs.Inverse != nil {
		t.b.EmitIndented("} else {\n")
		t.b.PushIndent()
		t.emitStatements(bs.Inverse.Body)
		t.b.PopIndent()
	}
	t.b.EmitIndented("}\n")
}

// emitBlockMember emits one generator method of the blocks object. Block
// params arrive as a rest pattern so each one is typed against the
// callee's block signature.
func (t *transformer) emitBlockMember(name string, nameLoc *source.Span, params []ast.Ident, body []ast.Statement) {
	t.b.EmitIndentation()
	t.b.Emit("*")
	if nameLoc != nil {
		t.b.EmitMapped(name, *nameLoc)
	} else {
		t.b.Emit(name)
	}
	t.b.Emit("(")
	if len(params) > 0 {
		t.b.Emit("...[")
		for i, p := range params {
			if i > 0 {
				t.b.Emit(", ")
			}
			t.b.EmitMapped(p.Name, p.Loc)
		}
		t.b.Emit("]")
	}
	t.b.Emit(") {\n")
	t.b.PushIndent()
	t.scope.Enter(identNames(params))
	t.emitStatements(body)
	t.scope.Leave()
	t.b.PopIndent()
	t.b.EmitIndentation()
	t.b.Emit("},\n")
}

func (t *transformer) validateBlockParams(params []ast.Ident) {
	for _, p := range params {
		if !isTSIdent(p.Name) {
			t.addError(diagnostics.Structural(diagnostics.ErrBlockParamName, p.Loc))
		}
	}
}

func identNames(idents []ast.Ident) []string {
	names := make([]string, len(idents))
	for i, id := range idents {
		names[i] = id.Name
	}
	return names
}
