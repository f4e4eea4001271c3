package parser

import (
	"testing"

	"github.com/templar-lang/templar/internal/ast"
)

// parse is a test helper: parses input and fails on errors.
func parse(t *testing.T, input string) *ast.Template {
	t.Helper()
	tpl, errs := Parse(input)
	if len(errs) > 0 {
		for _, e := range errs {
			t.Errorf("parse error: %s", e)
		}
		t.FailNow()
	}
	if tpl == nil {
		t.Fatal("nil template without errors")
	}
	return tpl
}

// parseFails asserts the input does not parse.
func parseFails(t *testing.T, input string) {
	t.Helper()
	tpl, errs := Parse(input)
	if tpl != nil || len(errs) == 0 {
		t.Fatalf("expected parse failure for %q", input)
	}
}

func onlyStatement(t *testing.T, tpl *ast.Template) ast.Statement {
	t.Helper()
	var stmts []ast.Statement
	for _, s := range tpl.Body {
		if txt, ok := s.(*ast.TextNode); ok && txt.IsWhitespace() {
			continue
		}
		stmts = append(stmts, s)
	}
	if len(stmts) != 1 {
		t.Fatalf("expected 1 substantive statement, got %d", len(stmts))
	}
	return stmts[0]
}

func mustache(t *testing.T, tpl *ast.Template) *ast.MustacheStatement {
	t.Helper()
	m, ok := onlyStatement(t, tpl).(*ast.MustacheStatement)
	if !ok {
		t.Fatalf("expected MustacheStatement")
	}
	return m
}

// ---------- mustaches ----------

func TestParse_SimplePath(t *testing.T) {
	m := mustache(t, parse(t, `{{foo}}`))
	p := m.Path.(*ast.PathExpression)
	if p.Head.Name != "foo" || p.This || p.Data || len(p.Tail) != 0 {
		t.Fatalf("unexpected path: %+v", p)
	}
	if p.Head.Loc.Start != 2 || p.Head.Loc.End != 5 {
		t.Fatalf("head span: %+v", p.Head.Loc)
	}
}

func TestParse_DottedAndDashedPath(t *testing.T) {
	m := mustache(t, parse(t, `{{obj.foo-bar.baz}}`))
	p := m.Path.(*ast.PathExpression)
	if p.Head.Name != "obj" {
		t.Fatalf("head: %q", p.Head.Name)
	}
	if len(p.Tail) != 2 || p.Tail[0].Name != "foo-bar" || p.Tail[1].Name != "baz" {
		t.Fatalf("tail: %+v", p.Tail)
	}
}

func TestParse_AtPath(t *testing.T) {
	m := mustache(t, parse(t, `{{@name.first}}`))
	p := m.Path.(*ast.PathExpression)
	if !p.Data || p.Head.Name != "name" || len(p.Tail) != 1 {
		t.Fatalf("unexpected path: %+v", p)
	}
	// Head span includes the sigil.
	if p.Head.Loc.Start != 2 || p.Head.Loc.End != 7 {
		t.Fatalf("head span: %+v", p.Head.Loc)
	}
}

func TestParse_ThisPath(t *testing.T) {
	m := mustache(t, parse(t, `{{this.user.name}}`))
	p := m.Path.(*ast.PathExpression)
	if !p.This || len(p.Tail) != 2 {
		t.Fatalf("unexpected path: %+v", p)
	}
}

func TestParse_ParamsAndHash(t *testing.T) {
	m := mustache(t, parse(t, `{{x a "s" 1.5 c=true d=null}}`))
	if len(m.Params) != 3 {
		t.Fatalf("params: %d", len(m.Params))
	}
	if _, ok := m.Params[0].(*ast.PathExpression); !ok {
		t.Fatalf("param 0: %T", m.Params[0])
	}
	if s, ok := m.Params[1].(*ast.StringLiteral); !ok || s.Value != "s" {
		t.Fatalf("param 1: %#v", m.Params[1])
	}
	if n, ok := m.Params[2].(*ast.NumberLiteral); !ok || n.Raw != "1.5" {
		t.Fatalf("param 2: %#v", m.Params[2])
	}
	if len(m.Hash) != 2 || m.Hash[0].Key != "c" || m.Hash[1].Key != "d" {
		t.Fatalf("hash: %+v", m.Hash)
	}
	if b, ok := m.Hash[0].Value.(*ast.BooleanLiteral); !ok || !b.Value {
		t.Fatalf("hash c: %#v", m.Hash[0].Value)
	}
	if _, ok := m.Hash[1].Value.(*ast.NullLiteral); !ok {
		t.Fatalf("hash d: %#v", m.Hash[1].Value)
	}
}

func TestParse_SubExpression(t *testing.T) {
	m := mustache(t, parse(t, `{{x (y 1) k=(z)}}`))
	if len(m.Params) != 1 {
		t.Fatalf("params: %d", len(m.Params))
	}
	sub := m.Params[0].(*ast.SubExpression)
	if sub.Path.(*ast.PathExpression).Head.Name != "y" || len(sub.Params) != 1 {
		t.Fatalf("subexpression: %+v", sub)
	}
	if _, ok := m.Hash[0].Value.(*ast.SubExpression); !ok {
		t.Fatalf("hash value: %T", m.Hash[0].Value)
	}
}

func TestParse_NegativeNumber(t *testing.T) {
	m := mustache(t, parse(t, `{{x -42}}`))
	n := m.Params[0].(*ast.NumberLiteral)
	if n.Raw != "-42" {
		t.Fatalf("raw: %q", n.Raw)
	}
}

func TestParse_StringEscapes(t *testing.T) {
	m := mustache(t, parse(t, `{{x "a\"b\nc"}}`))
	s := m.Params[0].(*ast.StringLiteral)
	if s.Value != "a\"b\nc" {
		t.Fatalf("value: %q", s.Value)
	}
}

func TestParse_Comment(t *testing.T) {
	tpl := parse(t, `a{{! note }}b{{!-- longer --}}c`)
	comments := 0
	for _, s := range tpl.Body {
		if c, ok := s.(*ast.CommentStatement); ok {
			comments++
			if c.Value == "" {
				t.Fatal("empty comment value")
			}
		}
	}
	if comments != 2 {
		t.Fatalf("comments: %d", comments)
	}
}

func TestParse_UnclosedMustacheFails(t *testing.T) {
	parseFails(t, `{{foo`)
	parseFails(t, `{{foo bar`)
	parseFails(t, `{{"unterminated}}`)
}

// ---------- blocks ----------

func block(t *testing.T, tpl *ast.Template) *ast.BlockStatement {
	t.Helper()
	b, ok := onlyStatement(t, tpl).(*ast.BlockStatement)
	if !ok {
		t.Fatalf("expected BlockStatement")
	}
	return b
}

func TestParse_Block(t *testing.T) {
	b := block(t, parse(t, `{{#each items as |item index|}}{{item}}{{/each}}`))
	if b.Path.(*ast.PathExpression).Head.Name != "each" {
		t.Fatalf("path: %+v", b.Path)
	}
	if len(b.Params) != 1 {
		t.Fatalf("params: %d", len(b.Params))
	}
	if len(b.BlockParams) != 2 || b.BlockParams[0].Name != "item" || b.BlockParams[1].Name != "index" {
		t.Fatalf("block params: %+v", b.BlockParams)
	}
	if len(b.Program.Body) != 1 {
		t.Fatalf("program: %+v", b.Program.Body)
	}
	if b.Inverse != nil {
		t.Fatal("unexpected inverse")
	}
}

func TestParse_BlockWithElse(t *testing.T) {
	b := block(t, parse(t, `{{#if cond}}yes{{else}}no{{/if}}`))
	if b.Inverse == nil || len(b.Inverse.Body) != 1 {
		t.Fatalf("inverse: %+v", b.Inverse)
	}
	if b.FromElse {
		t.Fatal("outer block must not be marked FromElse")
	}
}

func TestParse_ElseIfChain(t *testing.T) {
	b := block(t, parse(t, `{{#if a}}1{{else if b}}2{{else}}3{{/if}}`))
	nested, ok := b.Inverse.Body[0].(*ast.BlockStatement)
	if !ok {
		t.Fatalf("inverse should hold a nested block, got %T", b.Inverse.Body[0])
	}
	if nested.Path.(*ast.PathExpression).Head.Name != "if" || !nested.FromElse {
		t.Fatalf("nested: %+v", nested)
	}
	if nested.Inverse == nil || len(nested.Inverse.Body) != 1 {
		t.Fatalf("nested inverse: %+v", nested.Inverse)
	}
}

func TestParse_ElseHelperWithParams(t *testing.T) {
	b := block(t, parse(t, `{{#with x as |y|}}a{{else maybe z as |w|}}b{{/with}}`))
	nested := b.Inverse.Body[0].(*ast.BlockStatement)
	if nested.Path.(*ast.PathExpression).Head.Name != "maybe" {
		t.Fatalf("nested path: %+v", nested.Path)
	}
	if len(nested.BlockParams) != 1 || nested.BlockParams[0].Name != "w" {
		t.Fatalf("nested block params: %+v", nested.BlockParams)
	}
}

func TestParse_BlockCloseMismatchFails(t *testing.T) {
	parseFails(t, `{{#each items}}{{/with}}`)
	parseFails(t, `{{#each items}}`)
}
