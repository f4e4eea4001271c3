package pipeline

// Pipeline chains the stages a template passes through on its way to
// diagnostics: parse, then transform. Stages communicate only through
// the shared context.
type Pipeline struct {
	stages []Processor
}

func New(stages ...Processor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run feeds the context through every stage. A stage that records
// diagnostics never stops the ones after it: a single `templar check`
// pass reports parse and transform problems together.
func (p *Pipeline) Run(ctx *PipelineContext) *PipelineContext {
	for _, stage := range p.stages {
		ctx = stage.Process(ctx)
	}
	return ctx
}
