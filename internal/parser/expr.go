package parser

import (
	"github.com/templar-lang/templar/internal/ast"
	"github.com/templar-lang/templar/internal/diagnostics"
	"github.com/templar-lang/templar/internal/source"
)

// parseMustache parses {{...}} (or {{{...}}}) starting at the opening
// braces. Used for top-level statements, attribute values, and element
// modifiers alike.
func (p *Parser) parseMustache() *ast.MustacheStatement {
	start := p.pos
	open, close := "{{", "}}"
	if p.lookingAt("{{{") {
		open, close = "{{{", "}}}"
	}
	p.advance(len(open))
	p.skipSpace()
	callee := p.parseExpression()
	if p.failed {
		return nil
	}
	if _, ok := callee.(*ast.SubExpression); ok {
		p.errorf(callee.Span(), diagnostics.ErrParseSyntax, "subexpressions must be helper calls")
		return nil
	}
	params, hash := p.parseCallBody(false, func() bool { return p.lookingAt(close) })
	if p.failed {
		return nil
	}
	if !p.lookingAt(close) {
		p.errorf(source.Span{Start: start, End: p.pos}, diagnostics.ErrParseUnclosed, "unclosed mustache")
		return nil
	}
	p.advance(len(close))
	return &ast.MustacheStatement{
		Path:   callee,
		Params: params,
		Hash:   hash,
		Loc:    source.Span{Start: start, End: p.pos},
	}
}

// parseCallBody parses positional params and hash pairs until isEnd.
// When stopAtBlockParams is set it also stops in front of `as |`.
func (p *Parser) parseCallBody(stopAtBlockParams bool, isEnd func() bool) ([]ast.Expression, []*ast.HashPair) {
	var params []ast.Expression
	var hash []*ast.HashPair
	for {
		p.skipSpace()
		if p.failed || isEnd() {
			return params, hash
		}
		if p.eof() {
			p.errorf(p.spanHere(), diagnostics.ErrParseUnclosed, "unexpected end of template in mustache")
			return params, hash
		}
		if stopAtBlockParams && p.atBlockParams() {
			return params, hash
		}
		if p.hashPairAhead() {
			hash = append(hash, p.parseHashPair())
			continue
		}
		expr := p.parseExpression()
		if p.failed {
			return params, hash
		}
		params = append(params, expr)
	}
}

func (p *Parser) parseHashPair() *ast.HashPair {
	key, keySpan := p.readWhile(isPathChar)
	p.advance(1) // '='
	value := p.parseExpression()
	if value == nil {
		return &ast.HashPair{Key: key, KeyLoc: keySpan, Loc: keySpan}
	}
	return &ast.HashPair{
		Key:    key,
		KeyLoc: keySpan,
		Value:  value,
		Loc:    source.Span{Start: keySpan.Start, End: value.Span().End},
	}
}

// parseExpression parses one expression in argument position: a literal,
// a path, or a parenthesized subexpression.
func (p *Parser) parseExpression() ast.Expression {
	switch {
	case p.ch() == '(':
		return p.parseSubExpression()
	case p.ch() == '"' || p.ch() == '\'':
		return p.parseStringLiteral()
	case isDigit(p.ch()) || (p.ch() == '-' && isDigit(p.peekAt(1))):
		return p.parseNumberLiteral()
	case p.ch() == '@' || isIdentStart(p.ch()):
		return p.parseKeywordOrPath()
	default:
		p.errorf(p.spanHere(), diagnostics.ErrParseSyntax, "expected expression")
		return nil
	}
}

func (p *Parser) parseSubExpression() ast.Expression {
	start := p.pos
	p.advance(1) // '('
	p.skipSpace()
	callee := p.parseExpression()
	if p.failed {
		return nil
	}
	if _, ok := callee.(*ast.PathExpression); !ok {
		p.errorf(callee.Span(), diagnostics.ErrParseSyntax, "subexpressions must be helper calls")
		return nil
	}
	params, hash := p.parseCallBody(false, func() bool { return p.ch() == ')' })
	if p.failed {
		return nil
	}
	if p.ch() != ')' {
		p.errorf(source.Span{Start: start, End: p.pos}, diagnostics.ErrParseUnclosed, "unclosed subexpression")
		return nil
	}
	p.advance(1)
	return &ast.SubExpression{
		Path:   callee,
		Params: params,
		Hash:   hash,
		Loc:    source.Span{Start: start, End: p.pos},
	}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	start := p.pos
	quote := p.ch()
	p.advance(1)
	var value []byte
	for {
		if p.eof() {
			p.errorf(source.Span{Start: start, End: p.pos}, diagnostics.ErrParseUnclosed, "unclosed string literal")
			return nil
		}
		c := p.ch()
		if c == quote {
			p.advance(1)
			break
		}
		if c == '\\' {
			p.advance(1)
			value = append(value, unescape(p.ch()))
			p.advance(1)
			continue
		}
		value = append(value, c)
		p.advance(1)
	}
	return &ast.StringLiteral{
		Value: string(value),
		Loc:   source.Span{Start: start, End: p.pos},
	}
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	start := p.pos
	if p.ch() == '-' {
		p.advance(1)
	}
	for isDigit(p.ch()) {
		p.advance(1)
	}
	if p.ch() == '.' && isDigit(p.peekAt(1)) {
		p.advance(1)
		for isDigit(p.ch()) {
			p.advance(1)
		}
	}
	if p.ch() == 'e' || p.ch() == 'E' {
		j := 1
		if p.peekAt(j) == '+' || p.peekAt(j) == '-' {
			j++
		}
		if isDigit(p.peekAt(j)) {
			p.advance(j)
			for isDigit(p.ch()) {
				p.advance(1)
			}
		}
	}
	return &ast.NumberLiteral{
		Raw: p.src[start:p.pos],
		Loc: source.Span{Start: start, End: p.pos},
	}
}

// parseKeywordOrPath resolves the keyword literals before falling back to
// a dotted path.
func (p *Parser) parseKeywordOrPath() ast.Expression {
	if p.ch() != '@' {
		switch {
		case p.wordAt("true"):
			return p.keywordLiteral(4, func(s source.Span) ast.Expression { return &ast.BooleanLiteral{Value: true, Loc: s} })
		case p.wordAt("false"):
			return p.keywordLiteral(5, func(s source.Span) ast.Expression { return &ast.BooleanLiteral{Value: false, Loc: s} })
		case p.wordAt("null"):
			return p.keywordLiteral(4, func(s source.Span) ast.Expression { return &ast.NullLiteral{Loc: s} })
		case p.wordAt("undefined"):
			return p.keywordLiteral(9, func(s source.Span) ast.Expression { return &ast.UndefinedLiteral{Loc: s} })
		}
	}
	return p.parsePath()
}

func (p *Parser) keywordLiteral(n int, build func(source.Span) ast.Expression) ast.Expression {
	span := source.Span{Start: p.pos, End: p.pos + n}
	p.advance(n)
	return build(span)
}

func (p *Parser) parsePath() ast.Expression {
	start := p.pos
	data := false
	if p.ch() == '@' {
		data = true
		p.advance(1)
	}
	if !isIdentStart(p.ch()) {
		p.errorf(p.spanHere(), diagnostics.ErrParseSyntax, "expected identifier")
		return nil
	}
	name, _ := p.readWhile(isPathChar)
	head := ast.Ident{Name: name, Loc: source.Span{Start: start, End: p.pos}}
	isThis := !data && name == "this"

	var tail []ast.Ident
	for p.ch() == '.' && isIdentStart(p.peekAt(1)) {
		p.advance(1)
		seg, segSpan := p.readWhile(isPathChar)
		tail = append(tail, ast.Ident{Name: seg, Loc: segSpan})
	}
	return &ast.PathExpression{
		This: isThis,
		Data: data,
		Head: head,
		Tail: tail,
		Loc:  source.Span{Start: start, End: p.pos},
	}
}

// parseBlock parses {{#x ...}}...{{/x}} including any {{else}} chain.
func (p *Parser) parseBlock() *ast.BlockStatement {
	start := p.pos
	p.advance(3) // "{{#"
	p.skipSpace()
	callee := p.parseExpression()
	if p.failed {
		return nil
	}
	calleePath, ok := callee.(*ast.PathExpression)
	if !ok {
		p.errorf(callee.Span(), diagnostics.ErrParseSyntax, "block invocations must name a helper or component")
		return nil
	}
	params, hash := p.parseCallBody(true, func() bool { return p.lookingAt("}}") })
	if p.failed {
		return nil
	}
	blockParams := p.parseBlockParams()
	if p.failed {
		return nil
	}
	p.skipSpace()
	if !p.lookingAt("}}") {
		p.errorf(source.Span{Start: start, End: p.pos}, diagnostics.ErrParseUnclosed, "unclosed block opening")
		return nil
	}
	p.advance(2)

	program := &ast.Template{Body: p.parseStatements(stopBlockEnd)}
	if p.failed {
		return nil
	}
	var inverse *ast.Template
	if p.atElse() {
		inverse = p.parseElseChain()
		if p.failed {
			return nil
		}
	}
	p.expectBlockClose(calleePath)
	if p.failed {
		return nil
	}
	return &ast.BlockStatement{
		Path:        calleePath,
		Params:      params,
		Hash:        hash,
		BlockParams: blockParams,
		Program:     program,
		Inverse:     inverse,
		Loc:         source.Span{Start: start, End: p.pos},
	}
}

// parseBlockParams parses `as |a b|` if present.
func (p *Parser) parseBlockParams() []ast.Ident {
	p.skipSpace()
	if !p.atBlockParams() {
		return nil
	}
	p.advance(2) // "as"
	p.skipSpace()
	p.advance(1) // '|'
	var names []ast.Ident
	for {
		p.skipSpace()
		if p.eof() {
			p.errorf(p.spanHere(), diagnostics.ErrParseUnclosed, "unclosed block params")
			return names
		}
		if p.ch() == '|' {
			p.advance(1)
			return names
		}
		if !isIdentStart(p.ch()) {
			p.errorf(p.spanHere(), diagnostics.ErrParseSyntax, "expected block param name")
			return names
		}
		name, span := p.readWhile(isPathChar)
		names = append(names, ast.Ident{Name: name, Loc: span})
	}
}

// parseElseChain parses the inverse side of a block: a plain {{else}}, or
// {{else helper ...}} which re-nests as a block statement sharing the
// outer close tag.
func (p *Parser) parseElseChain() *ast.Template {
	start := p.pos
	p.advance(2) // "{{"
	p.skipSpace()
	p.advance(4) // "else"
	p.skipSpace()
	if p.lookingAt("}}") {
		p.advance(2)
		body := p.parseStatements(stopBlockEnd)
		return &ast.Template{Body: body, Loc: source.Span{Start: start, End: p.pos}}
	}

	callee := p.parseExpression()
	if p.failed {
		return nil
	}
	calleePath, ok := callee.(*ast.PathExpression)
	if !ok {
		p.errorf(callee.Span(), diagnostics.ErrParseSyntax, "{{else}} must name a helper or component")
		return nil
	}
	params, hash := p.parseCallBody(true, func() bool { return p.lookingAt("}}") })
	if p.failed {
		return nil
	}
	blockParams := p.parseBlockParams()
	if p.failed {
		return nil
	}
	p.skipSpace()
	if !p.lookingAt("}}") {
		p.errorf(source.Span{Start: start, End: p.pos}, diagnostics.ErrParseUnclosed, "unclosed {{else}}")
		return nil
	}
	p.advance(2)

	program := &ast.Template{Body: p.parseStatements(stopBlockEnd)}
	if p.failed {
		return nil
	}
	var inverse *ast.Template
	if p.atElse() {
		inverse = p.parseElseChain()
		if p.failed {
			return nil
		}
	}
	nested := &ast.BlockStatement{
		Path:        calleePath,
		Params:      params,
		Hash:        hash,
		BlockParams: blockParams,
		Program:     program,
		Inverse:     inverse,
		FromElse:    true,
		Loc:         source.Span{Start: start, End: p.pos},
	}
	return &ast.Template{
		Body: []ast.Statement{nested},
		Loc:  nested.Loc,
	}
}

func (p *Parser) expectBlockClose(open *ast.PathExpression) {
	if !p.lookingAt("{{/") {
		p.errorf(p.spanHere(), diagnostics.ErrParseUnclosed, "unclosed block")
		return
	}
	p.advance(3)
	p.skipSpace()
	closePath := p.parseExpression()
	if p.failed {
		return
	}
	closeExpr, ok := closePath.(*ast.PathExpression)
	if !ok || pathText(closeExpr) != pathText(open) {
		p.errorf(closePath.Span(), diagnostics.ErrParseTagMismatch,
			"closing {{/%s}} does not match {{#%s}}", pathText(closeExpr), pathText(open))
		return
	}
	p.skipSpace()
	if !p.lookingAt("}}") {
		p.errorf(p.spanHere(), diagnostics.ErrParseUnclosed, "unclosed block closing")
		return
	}
	p.advance(2)
}

// pathText renders a path for close-tag comparison and error text.
func pathText(p *ast.PathExpression) string {
	if p == nil {
		return ""
	}
	text := p.Head.Name
	if p.Data {
		text = "@" + text
	}
	for _, seg := range p.Tail {
		text += "." + seg.Name
	}
	return text
}
