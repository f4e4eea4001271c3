package transform

import (
	"sort"
	"strings"

	"github.com/templar-lang/templar/internal/ast"
	"github.com/templar-lang/templar/internal/diagnostics"
	"github.com/templar-lang/templar/internal/source"
)

func (t *transformer) emitElement(el *ast.ElementNode) {
	if el.ComponentPath != nil {
		t.emitComponent(el)
		return
	}
	t.emitElementHeader(el, false)
	t.emitStatements(el.Children)
}

// emitElementHeader emits the diagnosable parts of a tag header —
// modifiers and dynamic attribute values — in source order. skipArgs
// leaves @arguments to the component args object.
func (t *transformer) emitElementHeader(el *ast.ElementNode, skipArgs bool) {
	type item struct {
		start int
		emit  func()
	}
	var items []item
	for _, mod := range el.Modifiers {
		mod := mod
		items = append(items, item{mod.Loc.Start, func() { t.emitModifier(mod) }})
	}
	for _, attr := range el.Attributes {
		attr := attr
		if skipArgs && attr.IsArg() {
			continue
		}
		items = append(items, item{attr.Loc.Start, func() { t.emitAttrStatement(attr) }})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].start < items[j].start })
	for _, it := range items {
		it.emit()
	}
}

// emitModifier emits the modifier invocation at the statement position of
// the element open tag.
func (t *transformer) emitModifier(mod *ast.ElementModifierStatement) {
	t.b.EmitIndentation()
	t.b.Emit("invokeModifier(")
	t.emitResolvedCall(mod.Path, mod.Params, mod.Hash, false)
	t.b.Emit(");\n")
	t.flushPending()
}

func (t *transformer) emitAttrStatement(attr *ast.AttrNode) {
	switch v := attr.Value.(type) {
	case *ast.MustacheStatement:
		if isYieldPath(v.Path) {
			t.addError(diagnostics.Structural(diagnostics.ErrYieldPosition, v.Loc))
			return
		}
		t.b.EmitIndentation()
		t.emitInlineMustache(v)
		t.b.Emit(";\n")
		t.flushPending()
	case *ast.ConcatStatement:
		t.b.EmitIndentation()
		t.emitConcat(v)
		t.b.Emit(";\n")
		t.flushPending()
	default:
		// Static values contribute no typed code.
	}
}

var templateTextEscaper = strings.NewReplacer("\\", "\\\\", "`", "\\`", "${", "\\${")

// emitConcat coerces an interpolated attribute value through a template
// literal.
func (t *transformer) emitConcat(c *ast.ConcatStatement) {
	t.b.Emit("`")
	for _, part := range c.Parts {
		switch part := part.(type) {
		case *ast.TextNode:
			t.b.Emit(templateTextEscaper.Replace(part.Value))
		case *ast.MustacheStatement:
			if isYieldPath(part.Path) {
				t.addError(diagnostics.Structural(diagnostics.ErrYieldPosition, part.Loc))
				continue
			}
			t.b.Emit("${")
			t.emitInlineMustache(part)
			t.b.Emit("}")
		}
	}
	t.b.Emit("`")
}

func (t *transformer) emitComponent(el *ast.ElementNode) {
	t.validateBlockParams(el.BlockParams)
	t.emitElementHeader(el, true)
	named, defaultBody, hasBlocks := t.componentBlocks(el)

	t.b.EmitIndentation()
	t.b.Emit("yield invokeBlock(resolve(")
	t.emitPath(el.ComponentPath, false, false)
	t.b.Emit(")(")
	t.emitComponentArgs(el.Attributes)
	t.b.Emit("), {")
	if !hasBlocks {
		t.b.Emit("});\n")
		t.emitCalleeRef(el.ComponentPath, false)
		return
	}
	t.b.Emit("\n")
	t.b.PushIndent()
	var names []string
	if len(named) > 0 {
		for _, nb := range named {
			t.validateBlockParams(nb.BlockParams)
			nameLoc := source.Span{Start: nb.TagLoc.Start + 1, End: nb.TagLoc.End}
			t.emitBlockMember(nb.NamedBlockName(), &nameLoc, nb.BlockParams, nb.Children)
			names = append(names, nb.NamedBlockName())
		}
	} else {
		t.emitBlockMember("default", nil, el.BlockParams, defaultBody)
		names = []string{"default"}
	}
	t.b.PopIndent()
	t.b.EmitIndentation()
	t.b.Emit("}")
	for _, name := range names {
		t.b.Emit(", " + tsQuote(name))
	}
	t.b.Emit(");\n")
	t.emitCalleeRef(el.ComponentPath, false)
}

// componentBlocks decides a component's block shape: all named blocks, a
// single default block, or none. Mixing named blocks with substantive
// content is a structural error; the named blocks win for emission.
func (t *transformer) componentBlocks(el *ast.ElementNode) (named []*ast.ElementNode, defaultBody []ast.Statement, has bool) {
	var substantive []ast.Statement
	for _, child := range el.Children {
		switch c := child.(type) {
		case *ast.ElementNode:
			if c.IsNamedBlock() {
				named = append(named, c)
				continue
			}
			substantive = append(substantive, child)
		case *ast.TextNode:
			if !c.IsWhitespace() {
				substantive = append(substantive, child)
			}
		case *ast.CommentStatement:
			// Comments may sit between named blocks.
		default:
			substantive = append(substantive, child)
		}
	}
	if len(named) > 0 {
		if len(substantive) > 0 {
			t.addError(diagnostics.Structural(diagnostics.ErrMixedBlocks, substantive[0].Span()))
		}
		return named, nil, true
	}
	if len(substantive) == 0 && len(el.BlockParams) == 0 {
		return nil, nil, false
	}
	return nil, el.Children, true
}

// emitComponentArgs emits the named-args object from @attributes.
func (t *transformer) emitComponentArgs(attrs []*ast.AttrNode) {
	var args []*ast.AttrNode
	for _, a := range attrs {
		if a.IsArg() {
			args = append(args, a)
		}
	}
	if len(args) == 0 {
		t.b.Emit("{}")
		return
	}
	t.b.Emit("{ ")
	for _, a := range args {
		key := strings.TrimPrefix(a.Name, "@")
		if isTSIdent(key) {
			t.b.EmitMapped(key, a.NameLoc)
		} else {
			t.b.EmitMapped(tsQuote(key), a.NameLoc)
		}
		t.b.Emit(": ")
		t.emitArgValue(a)
		t.b.Emit(", ")
	}
	t.b.Emit("}")
}

// emitArgValue emits a component argument's value expression.
func (t *transformer) emitArgValue(a *ast.AttrNode) {
	switch v := a.Value.(type) {
	case *ast.TextNode:
		t.b.EmitMapped(tsQuote(v.Value), v.Loc)
	case *ast.MustacheStatement:
		if form := specialFormOf(v.Path); form != "" {
			t.emitSpecialExpr(form, v.Params, v.Hash, v.Loc)
			return
		}
		if len(v.Params) == 0 && len(v.Hash) == 0 {
			t.emitExpression(v.Path)
			return
		}
		t.emitResolvedCall(v.Path, v.Params, v.Hash, false)
	case *ast.ConcatStatement:
		t.emitConcat(v)
	default:
		// A bare @flag argument reads as boolean true.
		t.b.Emit("true")
	}
}
