package ast

import (
	"strings"

	"github.com/templar-lang/templar/internal/source"
)

// MustacheStatement is a top-level {{...}} or an attribute value mustache.
type MustacheStatement struct {
	Path   Expression
	Params []Expression
	Hash   []*HashPair
	Loc    source.Span
}

func (m *MustacheStatement) Span() source.Span { return m.Loc }
func (m *MustacheStatement) statementNode()    {}

// BlockStatement is {{#x ...}}...{{else}}...{{/x}}. An {{else if}} or
// {{else helper}} chain parses as an Inverse whose sole statement is the
// next BlockStatement in the chain.
type BlockStatement struct {
	Path        Expression
	Params      []Expression
	Hash        []*HashPair
	BlockParams []Ident
	Program     *Template
	Inverse     *Template
	// FromElse marks a block re-nested out of an {{else helper}} clause.
	// Its callee always routes through the built-in fallback, even when a
	// block param shadows the name.
	FromElse bool
	Loc      source.Span
}

func (b *BlockStatement) Span() source.Span { return b.Loc }
func (b *BlockStatement) statementNode()    {}

// ElementNode is an HTML element, an angle-bracket component, or a named
// block. ComponentPath is set by the parser when the tag names a
// component-like head (uppercase initial, dotted, @-prefixed, or this.).
type ElementNode struct {
	Tag           string
	TagLoc        source.Span
	ComponentPath *PathExpression
	Attributes    []*AttrNode
	Modifiers     []*ElementModifierStatement
	BlockParams   []Ident
	Children      []Statement
	SelfClosing   bool
	Splattributes bool
	Loc           source.Span
}

func (e *ElementNode) Span() source.Span { return e.Loc }
func (e *ElementNode) statementNode()    {}

// IsNamedBlock reports whether the element is a <:name> child.
func (e *ElementNode) IsNamedBlock() bool {
	return strings.HasPrefix(e.Tag, ":")
}

// NamedBlockName returns the block name of a <:name> element.
func (e *ElementNode) NamedBlockName() string {
	return strings.TrimPrefix(e.Tag, ":")
}

// IsComponentTag reports whether a tag is treated as a component
// invocation rather than a plain element.
func IsComponentTag(tag string) bool {
	if tag == "" {
		return false
	}
	if tag[0] >= 'A' && tag[0] <= 'Z' {
		return true
	}
	if tag[0] == '@' {
		return true
	}
	if tag == "this" || strings.HasPrefix(tag, "this.") {
		return true
	}
	return strings.Contains(tag, ".")
}

// AttrNode is an element attribute. Value is nil for bare attributes, a
// *TextNode for static values, a *MustacheStatement for single-mustache
// values, or a *ConcatStatement for interpolations.
type AttrNode struct {
	Name    string
	NameLoc source.Span
	Value   Statement
	Loc     source.Span
}

func (a *AttrNode) Span() source.Span { return a.Loc }

// IsArg reports whether the attribute is a component named argument.
func (a *AttrNode) IsArg() bool {
	return strings.HasPrefix(a.Name, "@")
}

// ConcatStatement is a quoted attribute value interleaving text and
// mustaches.
type ConcatStatement struct {
	Parts []Statement
	Loc   source.Span
}

func (c *ConcatStatement) Span() source.Span { return c.Loc }
func (c *ConcatStatement) statementNode()    {}

// ElementModifierStatement is a {{modifier ...}} in attribute position.
type ElementModifierStatement struct {
	Path   Expression
	Params []Expression
	Hash   []*HashPair
	Loc    source.Span
}

func (m *ElementModifierStatement) Span() source.Span { return m.Loc }
