package ast

import (
	"strings"

	"github.com/templar-lang/templar/internal/source"
)

// Node is the base interface for all AST nodes. Every node carries its
// span as absolute byte offsets into the template text.
type Node interface {
	Span() source.Span
}

// Statement is a Node that can appear in a template body.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that can appear in mustache argument position.
type Expression interface {
	Node
	expressionNode()
}

// Template is the root node and the body of every block.
type Template struct {
	Body []Statement
	Loc  source.Span
}

func (t *Template) Span() source.Span { return t.Loc }

// Ident is a named token with its origin span: a path segment, a block
// param, or a named-block name.
type Ident struct {
	Name string
	Loc  source.Span
}

// TextNode is literal markup between mustaches. Markup in a template or
// element body contributes no code; text inside attribute values is
// emitted as string content (component argument values and interpolated
// attributes).
type TextNode struct {
	Value string
	Loc   source.Span
}

func (t *TextNode) Span() source.Span { return t.Loc }
func (t *TextNode) statementNode()    {}

// IsWhitespace reports whether the text is blank, which matters when
// deciding if a component's children are all named blocks.
func (t *TextNode) IsWhitespace() bool {
	return strings.TrimSpace(t.Value) == ""
}

// CommentStatement is a {{!...}} or {{!--...--}} comment. The transform
// reads it only to recognize checker directives.
type CommentStatement struct {
	Value string
	Loc   source.Span
}

func (c *CommentStatement) Span() source.Span { return c.Loc }
func (c *CommentStatement) statementNode()    {}
