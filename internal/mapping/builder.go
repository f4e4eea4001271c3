package mapping

import (
	"bytes"
	"strings"

	"github.com/templar-lang/templar/internal/config"
	"github.com/templar-lang/templar/internal/source"
)

// Correspondence links a span of the original template to the span of
// emitted text it produced.
type Correspondence struct {
	Orig source.Span
	Emit source.Span
}

// Builder accumulates emitted text while recording origin correspondences.
// It is append-only and not re-entrant; correspondences are recorded in
// emission order, so their emit spans are disjoint and ascending.
type Builder struct {
	buf    bytes.Buffer
	indent int
	corrs  []Correspondence
	done   bool
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Offset returns the current emit offset.
func (b *Builder) Offset() int {
	return b.buf.Len()
}

// Emit appends text without recording a mapping.
func (b *Builder) Emit(text string) {
	if b.done {
		panic("mapping: Emit after Finalize")
	}
	b.buf.WriteString(text)
}

// EmitMapped appends text and records a correspondence from orig to the
// span just written.
func (b *Builder) EmitMapped(text string, orig source.Span) {
	start := b.Offset()
	b.Emit(text)
	b.corrs = append(b.corrs, Correspondence{
		Orig: orig,
		Emit: source.Span{Start: start, End: b.Offset()},
	})
}

// EmitIndentation appends the current indent, for callers assembling a
// line out of several pieces.
func (b *Builder) EmitIndentation() {
	b.Emit(strings.Repeat(" ", b.indent))
}

// EmitIndented appends text with every line prefixed by the current indent.
func (b *Builder) EmitIndented(text string) {
	lines := strings.SplitAfter(text, "\n")
	for _, line := range lines {
		if line == "" {
			continue
		}
		if line != "\n" {
			b.EmitIndentation()
		}
		b.Emit(line)
	}
}

func (b *Builder) PushIndent() {
	b.indent += config.IndentWidth
}

func (b *Builder) PopIndent() {
	b.indent -= config.IndentWidth
	if b.indent < 0 {
		panic("mapping: PopIndent below zero")
	}
}

// Finalize returns the emitted text and the bidirectional range map.
// embedStart shifts original offsets when the template is embedded in a
// host file. The builder may not be used afterwards.
func (b *Builder) Finalize(embedStart int) (string, *RangeMap) {
	b.done = true
	return b.buf.String(), newRangeMap(b.corrs, embedStart)
}
