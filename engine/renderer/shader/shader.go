package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
)

// ShaderType identifies the pipeline stage a shader runs in.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage, which positions the full-screen quad.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage, which ray-marches the scene per pixel.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// Dialect identifies the shading language a rendering context consumes.
type Dialect int

const (
	// DialectGLSLES300 is GLSL ES 3.00, consumed by WebGL2.
	DialectGLSLES300 Dialect = iota

	// DialectGLSL330 is desktop GLSL 3.30 core.
	DialectGLSL330

	// DialectWGSL is the WebGPU shading language.
	DialectWGSL
)

func (d Dialect) String() string {
	switch d {
	case DialectGLSLES300:
		return "glsl-es-300"
	case DialectGLSL330:
		return "glsl-330"
	case DialectWGSL:
		return "wgsl"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// Source is a vertex and fragment shader pair in a single dialect.
type Source struct {
	Dialect  Dialect
	Tier     capability.Tier
	Steps    int
	Vertex   string
	Fragment string
}

// Stage returns the source for the given stage.
//
// Parameters:
//   - t: the stage
//
// Returns:
//   - string: the stage source, or empty if the stage is unknown
func (s Source) Stage(t ShaderType) string {
	switch t {
	case ShaderTypeVertex:
		return s.Vertex
	case ShaderTypeFragment:
		return s.Fragment
	default:
		return ""
	}
}

type variantKey struct {
	dialect Dialect
	tier    capability.Tier
}

// variants holds every shader pair, rendered once with the step budget of its tier.
var variants = buildVariants()

func buildVariants() map[variantKey]Source {
	dialects := []Dialect{DialectGLSLES300, DialectGLSL330, DialectWGSL}
	tiers := []capability.Tier{capability.TierStandard, capability.TierLow}

	out := make(map[variantKey]Source, len(dialects)*len(tiers))
	for _, d := range dialects {
		for _, t := range tiers {
			steps := capability.ProfileFor(t).StepBudget()
			vs, fs := stageTemplates(d)
			out[variantKey{d, t}] = Source{
				Dialect:  d,
				Tier:     t,
				Steps:    steps,
				Vertex:   vs,
				Fragment: strings.ReplaceAll(fs, stepsMarker, fmt.Sprintf("%d.0", steps)),
			}
		}
	}
	return out
}

func stageTemplates(d Dialect) (vertex, fragment string) {
	switch d {
	case DialectGLSL330:
		return glsl330Header + glslVertexBody, glsl330Header + glslFragmentBody
	case DialectWGSL:
		return wgslVertexSource, wgslFragmentSource
	default:
		return glslES300Header + glslVertexBody, glslES300Header + glslFragmentBody
	}
}

// Sources looks up the shader pair for a dialect and tier.
// Unknown dialects fall back to GLSL ES 3.00.
//
// Parameters:
//   - d: the dialect of the rendering context
//   - t: the quality tier
//
// Returns:
//   - Source: the shader pair
func Sources(d Dialect, t capability.Tier) Source {
	if s, ok := variants[variantKey{d, t}]; ok {
		return s
	}
	return variants[variantKey{DialectGLSLES300, t}]
}
