package parser

import (
	"strings"

	"github.com/templar-lang/templar/internal/ast"
	"github.com/templar-lang/templar/internal/diagnostics"
	"github.com/templar-lang/templar/internal/source"
)

// voidElements close implicitly and take no children.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

func (p *Parser) parseElement() *ast.ElementNode {
	start := p.pos
	p.advance(1) // '<'
	tagStart := p.pos
	tag, _ := p.readWhile(isTagNameChar)
	tagLoc := source.Span{Start: tagStart, End: p.pos}
	el := &ast.ElementNode{Tag: tag, TagLoc: tagLoc}
	if ast.IsComponentTag(tag) {
		el.ComponentPath = componentPath(tag, tagStart)
	}

	p.parseElementHeader(el)
	if p.failed {
		return nil
	}

	if p.lookingAt("/>") {
		p.advance(2)
		el.SelfClosing = true
		el.Loc = source.Span{Start: start, End: p.pos}
		return el
	}
	if !p.lookingAt(">") {
		p.errorf(p.spanHere(), diagnostics.ErrParseSyntax, "expected > to close <%s>", tag)
		return nil
	}
	p.advance(1)

	if voidElements[tag] {
		el.Loc = source.Span{Start: start, End: p.pos}
		return el
	}

	el.Children = p.parseStatements(stopElement)
	if p.failed {
		return nil
	}
	if !p.lookingAt("</") {
		p.errorf(source.Span{Start: start, End: p.pos}, diagnostics.ErrParseUnclosed, "unclosed <%s>", tag)
		return nil
	}
	p.advance(2)
	closeStart := p.pos
	closeName, closeSpan := p.readWhile(isTagNameChar)
	if closeName != tag {
		p.errorf(closeSpan, diagnostics.ErrParseTagMismatch,
			"closing </%s> does not match <%s>", closeName, tag)
		return nil
	}
	p.skipSpace()
	if !p.lookingAt(">") {
		p.errorf(source.Span{Start: closeStart, End: p.pos}, diagnostics.ErrParseUnclosed, "unclosed closing tag")
		return nil
	}
	p.advance(1)
	el.Loc = source.Span{Start: start, End: p.pos}
	return el
}

// parseElementHeader consumes attributes, element modifiers,
// ...attributes, and trailing block params, up to (but not including) the
// closing > or />.
func (p *Parser) parseElementHeader(el *ast.ElementNode) {
	for {
		p.skipSpace()
		if p.failed || p.eof() {
			if !p.failed {
				p.errorf(p.spanHere(), diagnostics.ErrParseUnclosed, "unclosed <%s>", el.Tag)
			}
			return
		}
		switch {
		case p.lookingAt(">") || p.lookingAt("/>"):
			return
		case p.lookingAt("...attributes"):
			p.advance(len("...attributes"))
			el.Splattributes = true
		case p.lookingAt("{{!"):
			p.parseComment()
		case p.lookingAt("{{#"):
			p.errorf(p.spanHere(), diagnostics.ErrParseSyntax, "blocks are not valid in element space")
			return
		case p.lookingAt("{{"):
			m := p.parseMustache()
			if m == nil {
				return
			}
			el.Modifiers = append(el.Modifiers, &ast.ElementModifierStatement{
				Path:   m.Path,
				Params: m.Params,
				Hash:   m.Hash,
				Loc:    m.Loc,
			})
		case p.atBlockParams():
			el.BlockParams = p.parseBlockParams()
		case isAttrNameStart(p.ch()):
			attr := p.parseAttr()
			if attr == nil {
				return
			}
			el.Attributes = append(el.Attributes, attr)
		default:
			p.errorf(p.spanHere(), diagnostics.ErrParseSyntax, "unexpected character in <%s>", el.Tag)
			return
		}
	}
}

func isAttrNameStart(c byte) bool {
	return isIdentStart(c) || c == '@' || c == ':'
}

func isAttrNameChar(c byte) bool {
	return isPathChar(c) || c == '@' || c == ':' || c == '.'
}

func (p *Parser) parseAttr() *ast.AttrNode {
	nameStart := p.pos
	name, nameSpan := p.readWhile(isAttrNameChar)
	attr := &ast.AttrNode{Name: name, NameLoc: nameSpan}
	if p.ch() != '=' {
		attr.Loc = nameSpan
		return attr
	}
	p.advance(1)
	switch {
	case p.ch() == '"' || p.ch() == '\'':
		attr.Value = p.parseQuotedAttrValue(p.ch())
	case p.lookingAt("{{"):
		attr.Value = p.parseMustache()
	default:
		word, span := p.readWhile(func(c byte) bool {
			return !isSpace(c) && c != '>' && c != '/'
		})
		if word == "" {
			p.errorf(p.spanHere(), diagnostics.ErrParseSyntax, "expected attribute value")
			return nil
		}
		attr.Value = &ast.TextNode{Value: word, Loc: span}
	}
	if p.failed || attr.Value == nil {
		return nil
	}
	attr.Loc = source.Span{Start: nameStart, End: attr.Value.Span().End}
	return attr
}

// parseQuotedAttrValue handles static, single-mustache, and interpolated
// quoted values.
func (p *Parser) parseQuotedAttrValue(quote byte) ast.Statement {
	start := p.pos
	p.advance(1)
	var parts []ast.Statement
	textStart := p.pos
	flush := func() {
		if p.pos > textStart {
			parts = append(parts, &ast.TextNode{
				Value: p.src[textStart:p.pos],
				Loc:   source.Span{Start: textStart, End: p.pos},
			})
		}
	}
	for {
		if p.eof() {
			p.errorf(source.Span{Start: start, End: p.pos}, diagnostics.ErrParseUnclosed, "unclosed attribute value")
			return nil
		}
		if p.ch() == quote {
			flush()
			p.advance(1)
			break
		}
		if p.lookingAt("{{") {
			flush()
			m := p.parseMustache()
			if m == nil {
				return nil
			}
			parts = append(parts, m)
			textStart = p.pos
			continue
		}
		p.advance(1)
	}
	loc := source.Span{Start: start, End: p.pos}

	mustaches := 0
	for _, part := range parts {
		if _, ok := part.(*ast.MustacheStatement); ok {
			mustaches++
		}
	}
	switch {
	case mustaches == 1 && len(parts) == 1:
		return parts[0]
	case mustaches > 0:
		return &ast.ConcatStatement{Parts: parts, Loc: loc}
	case len(parts) == 1:
		return parts[0]
	default:
		// Empty quoted value.
		return &ast.TextNode{Value: "", Loc: loc}
	}
}

// componentPath rebuilds the dotted path named by a component tag, with
// per-segment spans derived from the tag span.
func componentPath(tag string, tagStart int) *ast.PathExpression {
	rest := tag
	offset := tagStart
	path := &ast.PathExpression{
		Loc: source.Span{Start: tagStart, End: tagStart + len(tag)},
	}
	if strings.HasPrefix(rest, "@") {
		path.Data = true
	}
	segs := strings.Split(rest, ".")
	for i, seg := range segs {
		ident := ast.Ident{
			Name: strings.TrimPrefix(seg, "@"),
			Loc:  source.Span{Start: offset, End: offset + len(seg)},
		}
		if i == 0 {
			path.Head = ident
			if ident.Name == "this" && !path.Data {
				path.This = true
			}
		} else {
			path.Tail = append(path.Tail, ident)
		}
		offset += len(seg) + 1
	}
	return path
}
