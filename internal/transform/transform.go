package transform

import (
	"fmt"

	"github.com/templar-lang/templar/internal/ast"
	"github.com/templar-lang/templar/internal/config"
	"github.com/templar-lang/templar/internal/diagnostics"
	"github.com/templar-lang/templar/internal/mapping"
	"github.com/templar-lang/templar/internal/parser"
	"github.com/templar-lang/templar/internal/pipeline"
	"github.com/templar-lang/templar/internal/scope"
)

const (
	nsIdent  = config.NamespaceIdent
	ctxIdent = config.ContextIdent
)

// TemplateToTypescript rewrites template source into a TypeScript
// expression whose type errors correspond to template errors. It is a
// pure function: same source and options, byte-identical code.
func TemplateToTypescript(source string, opts Options) Result {
	tpl, parseErrs := parser.Parse(source)
	if tpl == nil {
		diagnostics.SortBySpan(parseErrs)
		return Result{Errors: parseErrs}
	}
	result := FromTemplate(tpl, opts)
	result.Errors = append(parseErrs, result.Errors...)
	diagnostics.SortBySpan(result.Errors)
	return result
}

// FromTemplate runs the transform over an already-parsed template.
func FromTemplate(tpl *ast.Template, opts Options) Result {
	t := &transformer{
		opts:  opts,
		b:     mapping.NewBuilder(),
		scope: scope.NewTracker(opts.IdentifiersInScope),
	}
	t.emitFrame(tpl)
	code, rangeMap := t.b.Finalize(opts.EmbeddedStart)
	diagnostics.SortBySpan(t.errs)
	return Result{
		Code:       code,
		Directives: t.directives,
		RangeMap:   rangeMap,
		Errors:     t.errs,
	}
}

// TransformProcessor is the pipeline stage wrapping FromTemplate. It
// expects ParseProcessor to have run.
type TransformProcessor struct{}

func (tp *TransformProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	tpl, ok := ctx.AstRoot.(*ast.Template)
	if !ok {
		return ctx
	}
	opts, _ := ctx.Options.(Options)
	result := FromTemplate(tpl, opts)
	for _, err := range result.Errors {
		ctx.AddError(err)
	}
	ctx.Output = &result
	return ctx
}

// transformer drives one emission. It is single-use.
type transformer struct {
	opts       Options
	b          *mapping.Builder
	scope      *scope.Tracker
	errs       []*diagnostics.DiagnosticError
	directives []Directive
	pending    []ast.Ident // built-in heads awaiting a bare statement reference
}

func (t *transformer) addError(err *diagnostics.DiagnosticError) {
	t.errs = append(t.errs, err)
}

// emitFrame wraps the body in the fixed boilerplate binding the runtime
// namespace and the context parameter.
func (t *transformer) emitFrame(tpl *ast.Template) {
	contextType := t.opts.ContextType
	if contextType == "" {
		contextType = "unknown"
	}
	t.b.Emit("(() => {\n")
	t.b.PushIndent()
	for _, line := range t.opts.Preamble {
		t.b.EmitIndented(line + "\n")
	}
	t.b.EmitIndented(fmt.Sprintf("let %s!: typeof import(%q);\n", nsIdent, config.RuntimeModule))
	t.b.EmitIndented(fmt.Sprintf("return %s.template(function*%s(%s: import(%q).ResolveContext<%s>) {\n",
		nsIdent, t.opts.TypeParams, ctxIdent, config.RuntimeModule, contextType))
	t.b.PushIndent()
	// Reference the context binding so even an empty body uses it.
	t.b.EmitIndented(ctxIdent + ";\n")
	t.emitStatements(tpl.Body)
	t.b.PopIndent()
	t.b.EmitIndented("});\n")
	t.b.PopIndent()
	t.b.Emit("})()")
}

// emitStatements emits each statement and then the bare built-in
// references it queued, keeping unknown-identifier diagnostics at
// statement level.
func (t *transformer) emitStatements(stmts []ast.Statement) {
	for _, s := range stmts {
		t.emitStatement(s)
		t.flushPending()
	}
}

func (t *transformer) flushPending() {
	refs := t.pending
	t.pending = nil
	for _, ref := range refs {
		t.b.EmitIndentation()
		t.b.Emit(nsIdent + ".BuiltIns[")
		t.b.EmitMapped(tsQuote(ref.Name), ref.Loc)
		t.b.Emit("];\n")
	}
}

func (t *transformer) recordDirective(c *ast.CommentStatement) {
	text := trimmed(c.Value)
	var kind DirectiveKind
	switch {
	case hasWordPrefix(text, config.DirectiveExpectError):
		kind = DirectiveKindExpectError
	case hasWordPrefix(text, config.DirectiveIgnore):
		kind = DirectiveKindIgnore
	default:
		return
	}
	t.directives = append(t.directives, Directive{
		Start: c.Loc.Start,
		End:   c.Loc.End,
		Kind:  kind,
	})
}
