package pipeline

import "github.com/templar-lang/templar/internal/diagnostics"

// Processor is a single pipeline stage. Stages never fail hard: they
// append diagnostics to the context and return it.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries one template through the stages. AstRoot and
// Output are untyped here to keep this package at the bottom of the
// dependency graph; producers and consumers assert the concrete types
// (*ast.Template, *transform.Result).
type PipelineContext struct {
	SourceCode string
	FilePath   string
	Options    interface{}
	AstRoot    interface{}
	Output     interface{}
	Errors     []*diagnostics.DiagnosticError
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{SourceCode: source}
}

// AddError appends a diagnostic, stamping the context's file path if the
// diagnostic has none.
func (ctx *PipelineContext) AddError(err *diagnostics.DiagnosticError) {
	if err.File == "" {
		err.File = ctx.FilePath
	}
	ctx.Errors = append(ctx.Errors, err)
}
