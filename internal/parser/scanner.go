package parser

import (
	"strings"

	"github.com/templar-lang/templar/internal/diagnostics"
	"github.com/templar-lang/templar/internal/source"
)

// The scanner layer: byte-level cursor operations the grammar functions
// build on. Handlebars-in-markup tokenization is mode dependent (text,
// mustache interior, tag header), so there is no standalone token stream;
// each grammar function reads exactly the shape it expects.

func (p *Parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *Parser) ch() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *Parser) peekAt(off int) byte {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *Parser) lookingAt(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *Parser) advance(n int) {
	p.pos += n
	if p.pos > len(p.src) {
		p.pos = len(p.src)
	}
}

// skipSpace skips whitespace inside mustaches and tag headers, where
// newlines are insignificant.
func (p *Parser) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isIdentStart accepts ASCII identifier heads plus any non-ASCII byte:
// the template language allows Unicode identifiers, and whether one is
// usable in the emitted program is decided later.
func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isPathChar covers path segment and hash key continuation characters;
// template identifiers allow interior hyphens.
func isPathChar(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '-'
}

func isTagNameStart(c byte) bool {
	return isIdentStart(c) || c == ':' || c == '@'
}

func isTagNameChar(c byte) bool {
	return isPathChar(c) || c == '.' || c == ':' || c == '@'
}

// readWhile consumes bytes matching pred and returns the lexeme with its
// span.
func (p *Parser) readWhile(pred func(byte) bool) (string, source.Span) {
	start := p.pos
	for !p.eof() && pred(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos], source.Span{Start: start, End: p.pos}
}

// wordAt reports whether the given word starts at the cursor with a
// non-identifier boundary after it.
func (p *Parser) wordAt(word string) bool {
	if !p.lookingAt(word) {
		return false
	}
	next := p.peekAt(len(word))
	return !isPathChar(next) && next != '.'
}

// hashPairAhead reports whether the cursor sits on `key=` (and not `==`),
// distinguishing a named argument from a positional one.
func (p *Parser) hashPairAhead() bool {
	if !isIdentStart(p.ch()) {
		return false
	}
	j := p.pos
	for j < len(p.src) && isPathChar(p.src[j]) {
		j++
	}
	return j < len(p.src) && p.src[j] == '=' && (j+1 >= len(p.src) || p.src[j+1] != '=')
}

// atBlockParams reports whether the cursor sits on `as |`.
func (p *Parser) atBlockParams() bool {
	if !p.wordAt("as") {
		return false
	}
	j := p.pos + 2
	for j < len(p.src) && isSpace(p.src[j]) {
		j++
	}
	return j < len(p.src) && p.src[j] == '|'
}

// atElse reports whether the cursor sits on `{{else` (any interior space).
func (p *Parser) atElse() bool {
	if !p.lookingAt("{{") {
		return false
	}
	j := p.pos + 2
	for j < len(p.src) && isSpace(p.src[j]) {
		j++
	}
	if !strings.HasPrefix(p.src[j:], "else") {
		return false
	}
	next := j + 4
	return next >= len(p.src) || !isPathChar(p.src[next])
}

func (p *Parser) errorf(span source.Span, code diagnostics.Code, format string, args ...interface{}) {
	p.errs = append(p.errs, diagnostics.Newf(code, span, format, args...))
	p.failed = true
}

func (p *Parser) spanHere() source.Span {
	end := p.pos + 1
	if end > len(p.src) {
		end = len(p.src)
	}
	return source.Span{Start: p.pos, End: end}
}
