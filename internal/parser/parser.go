package parser

import (
	"github.com/templar-lang/templar/internal/ast"
	"github.com/templar-lang/templar/internal/diagnostics"
	"github.com/templar-lang/templar/internal/pipeline"
	"github.com/templar-lang/templar/internal/source"
)

// Parser turns template source into an ast.Template. Errors are collected
// as diagnostics; the first unrecoverable one marks the parse failed and
// the tree is withheld.
type Parser struct {
	src    string
	pos    int
	errs   []*diagnostics.DiagnosticError
	failed bool
}

// Parse parses a full template. The returned template is nil when the
// source could not be parsed into a usable tree.
func Parse(src string) (*ast.Template, []*diagnostics.DiagnosticError) {
	p := &Parser{src: src}
	body := p.parseStatements(stopEOF)
	if p.failed {
		return nil, p.errs
	}
	return &ast.Template{Body: body, Loc: source.Span{Start: 0, End: len(src)}}, p.errs
}

// ParseProcessor is the pipeline stage wrapping Parse.
type ParseProcessor struct{}

func (pp *ParseProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	tpl, errs := Parse(ctx.SourceCode)
	for _, err := range errs {
		ctx.AddError(err)
	}
	if tpl != nil {
		ctx.AstRoot = tpl
	}
	return ctx
}

type stopKind int

const (
	stopEOF      stopKind = iota // run to end of input
	stopBlockEnd                 // stop at {{/ or {{else
	stopElement                  // stop at </
)

func (p *Parser) parseStatements(stop stopKind) []ast.Statement {
	var stmts []ast.Statement
	for !p.eof() && !p.failed {
		if stop == stopBlockEnd && (p.lookingAt("{{/") || p.atElse()) {
			return stmts
		}
		if stop == stopElement && p.lookingAt("</") {
			return stmts
		}
		switch {
		case p.lookingAt("{{!"):
			if c := p.parseComment(); c != nil {
				stmts = append(stmts, c)
			}
		case p.lookingAt("{{#"):
			if b := p.parseBlock(); b != nil {
				stmts = append(stmts, b)
			}
		case p.lookingAt("{{/"):
			p.errorf(p.spanHere(), diagnostics.ErrParseSyntax, "unexpected block closing")
		case p.atElse():
			p.errorf(p.spanHere(), diagnostics.ErrParseSyntax, "unexpected {{else}}")
		case p.lookingAt("{{"):
			if m := p.parseMustache(); m != nil {
				stmts = append(stmts, m)
			}
		case p.lookingAt("</"):
			p.errorf(p.spanHere(), diagnostics.ErrParseSyntax, "unexpected closing tag")
		case p.ch() == '<' && isTagNameStart(p.peekAt(1)):
			if e := p.parseElement(); e != nil {
				stmts = append(stmts, e)
			}
		default:
			stmts = append(stmts, p.parseText())
		}
	}
	if stop != stopEOF && !p.failed {
		p.errorf(p.spanHere(), diagnostics.ErrParseUnclosed, "unexpected end of template")
	}
	return stmts
}

// parseText consumes markup up to the next construct opener. The node is
// kept for whitespace analysis but never emitted.
func (p *Parser) parseText() *ast.TextNode {
	start := p.pos
	for !p.eof() {
		if p.lookingAt("{{") {
			break
		}
		if p.ch() == '<' && (isTagNameStart(p.peekAt(1)) || p.peekAt(1) == '/') {
			break
		}
		p.advance(1)
	}
	if p.pos == start {
		// Defensive: the statement loop only calls us when progress is
		// possible, but never spin.
		p.advance(1)
	}
	return &ast.TextNode{
		Value: p.src[start:p.pos],
		Loc:   source.Span{Start: start, End: p.pos},
	}
}

func (p *Parser) parseComment() *ast.CommentStatement {
	start := p.pos
	open, close := "{{!", "}}"
	if p.lookingAt("{{!--") {
		open, close = "{{!--", "--}}"
	}
	p.advance(len(open))
	contentStart := p.pos
	idx := indexFrom(p.src, p.pos, close)
	if idx < 0 {
		p.errorf(source.Span{Start: start, End: len(p.src)}, diagnostics.ErrParseUnclosed, "unclosed comment")
		return nil
	}
	p.pos = idx + len(close)
	return &ast.CommentStatement{
		Value: p.src[contentStart:idx],
		Loc:   source.Span{Start: start, End: p.pos},
	}
}

func indexFrom(s string, from int, sub string) int {
	for i := from; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
