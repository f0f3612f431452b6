package shader

import (
	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
)

const (
	// AttribPosition is the vertex input carrying quad corners.
	AttribPosition = "position"

	// UniformResolution is the backing-store size in pixels.
	UniformResolution = "resolution"

	// UniformTime is the loop time in seconds.
	UniformTime = "time"
)

// Program is a linked vertex and fragment pair with its inputs resolved once after link.
type Program struct {
	Vertex   ShaderHandle
	Fragment ShaderHandle
	Handle   ProgramHandle

	Position   Location
	Resolution Location
	Time       Location

	linked bool
}

// Linked reports whether the program linked. Callers must check it before drawing.
func (p *Program) Linked() bool {
	return p != nil && p.linked
}

// Release deletes the program and both stages from ctx.
//
// Parameters:
//   - ctx: the context that built the program
func (p *Program) Release(ctx Context) {
	if p == nil {
		return
	}
	ctx.DeleteProgram(p.Handle)
	ctx.DeleteShader(p.Vertex)
	ctx.DeleteShader(p.Fragment)
	p.linked = false
}

// Build compiles both stages, links them and resolves the program inputs.
// Compile and link failures are reported to sink and never returned; check Program.Linked.
//
// Parameters:
//   - ctx: the rendering context
//   - vertexSource: vertex stage source in the context's dialect
//   - fragmentSource: fragment stage source in the context's dialect
//   - sink: destination for diagnostics (nil discards them)
//
// Returns:
//   - *Program: the program, linked or not
func Build(ctx Context, vertexSource, fragmentSource string, sink DiagnosticSink) *Program {
	if sink == nil {
		sink = DiagnosticSinkFunc(func(Diagnostic) {})
	}

	p := &Program{
		Vertex:     compileStage(ctx, ShaderTypeVertex, vertexSource, sink),
		Fragment:   compileStage(ctx, ShaderTypeFragment, fragmentSource, sink),
		Handle:     ctx.CreateProgram(),
		Position:   NoLocation,
		Resolution: NoLocation,
		Time:       NoLocation,
	}

	ctx.AttachShader(p.Handle, p.Vertex)
	ctx.AttachShader(p.Handle, p.Fragment)
	ctx.LinkProgram(p.Handle)

	if !ctx.ProgramLinked(p.Handle) {
		sink.Report(Diagnostic{Kind: DiagnosticLink, Log: ctx.ProgramInfoLog(p.Handle)})
		return p
	}
	p.linked = true

	p.Position = ctx.AttribLocation(p.Handle, AttribPosition)
	p.Resolution = ctx.UniformLocation(p.Handle, UniformResolution)
	p.Time = ctx.UniformLocation(p.Handle, UniformTime)

	// Reported in declaration order.
	for _, input := range []struct {
		name string
		loc  Location
	}{
		{AttribPosition, p.Position},
		{UniformResolution, p.Resolution},
		{UniformTime, p.Time},
	} {
		if !input.loc.Valid() {
			sink.Report(Diagnostic{Kind: DiagnosticResolve, Name: input.name})
		}
	}

	return p
}

// BuildTier builds the shader pair for the context's dialect and the given tier.
//
// Parameters:
//   - ctx: the rendering context
//   - tier: the quality tier selecting the step budget
//   - sink: destination for diagnostics (nil discards them)
//
// Returns:
//   - *Program: the program, linked or not
func BuildTier(ctx Context, tier capability.Tier, sink DiagnosticSink) *Program {
	src := Sources(ctx.Dialect(), tier)
	return Build(ctx, src.Vertex, src.Fragment, sink)
}

func compileStage(ctx Context, t ShaderType, source string, sink DiagnosticSink) ShaderHandle {
	s := ctx.CreateShader(t)
	ctx.ShaderSource(s, source)
	ctx.CompileShader(s)
	if !ctx.ShaderCompiled(s) {
		sink.Report(Diagnostic{Kind: DiagnosticCompile, Stage: t, Log: ctx.ShaderInfoLog(s)})
	}
	return s
}
