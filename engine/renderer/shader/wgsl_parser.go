package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// wgslLayouts maps the scalar and vector types the backdrop shaders use to their size and alignment.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var wgslLayouts = map[string]wgslTypeLayout{
	"f32":       {4, 4},
	"i32":       {4, 4},
	"u32":       {4, 4},
	"vec2<f32>": {8, 8},
	"vec2f":     {8, 8},
	"vec3<f32>": {12, 16},
	"vec3f":     {12, 16},
	"vec4<f32>": {16, 16},
	"vec4f":     {16, 16},
}

var wgslComponents = map[string]int{
	"f32":       1,
	"vec2<f32>": 2,
	"vec2f":     2,
	"vec3<f32>": 3,
	"vec3f":     3,
	"vec4<f32>": 4,
	"vec4f":     4,
}

var (
	structBlockRegex   = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	locationRegex      = regexp.MustCompile(`@location\((\d+)\)`)
	builtinRegex       = regexp.MustCompile(`@builtin\(\w+\)`)
	fieldRegex         = regexp.MustCompile(`(?:@\w+\([^)]*\)\s*)*(\w+)\s*:\s*(.+)`)
	vertexEntryRegex   = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)
	uniformDeclRegex   = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var<uniform>\s+(\w+)\s*:\s*(\w+)\s*;`)
)

// ReflectWGSL extracts the entry point, vertex input layout and uniform bindings of a WGSL stage.
// Types outside the scalar and vector set the shaders use are skipped.
//
// Parameters:
//   - source: the WGSL source
//   - t: the stage whose entry point is wanted
//
// Returns:
//   - Reflection: what the stage declares
func ReflectWGSL(source string, t ShaderType) Reflection {
	cleaned := stripLineComments(source)
	structs := parseStructBlocks(cleaned)

	r := Reflection{EntryPoint: parseEntryPoint(cleaned, t)}

	if t == ShaderTypeVertex {
		for _, ps := range structs {
			if layout, ok := vertexLayout(ps); ok {
				r.Vertex = &layout
				break
			}
		}
	}

	byName := make(map[string]parsedStruct, len(structs))
	for _, ps := range structs {
		byName[ps.name] = ps
	}
	for _, m := range uniformDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.ParseUint(m[1], 10, 32)
		binding, _ := strconv.ParseUint(m[2], 10, 32)
		u := UniformBinding{
			Group:    uint32(group),
			Binding:  uint32(binding),
			Var:      m[3],
			TypeName: m[4],
			Offsets:  map[string]uint64{},
		}
		if ps, ok := byName[u.TypeName]; ok {
			u.Size, u.Offsets = structLayout(ps)
		} else if l, ok := wgslLayouts[u.TypeName]; ok {
			u.Size = l.size
		}
		r.Uniforms = append(r.Uniforms, u)
	}
	sort.Slice(r.Uniforms, func(i, j int) bool {
		if r.Uniforms[i].Group != r.Uniforms[j].Group {
			return r.Uniforms[i].Group < r.Uniforms[j].Group
		}
		return r.Uniforms[i].Binding < r.Uniforms[j].Binding
	})

	return r
}

func parseEntryPoint(source string, t ShaderType) string {
	re := vertexEntryRegex
	if t == ShaderTypeFragment {
		re = fragmentEntryRegex
	}
	if m := re.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	return ""
}

func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, m := range matches {
		structs = append(structs, parsedStruct{name: m[1], fields: parseStructFields(m[2])})
	}
	return structs
}

func parseStructFields(body string) []parsedField {
	var fields []parsedField
	for _, line := range strings.Split(body, ",") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fm := fieldRegex.FindStringSubmatch(line)
		if fm == nil {
			continue
		}
		f := parsedField{
			name:      fm[1],
			typeName:  strings.TrimSpace(fm[2]),
			location:  -1,
			isBuiltin: builtinRegex.MatchString(line),
		}
		if lm := locationRegex.FindStringSubmatch(line); lm != nil {
			f.location, _ = strconv.Atoi(lm[1])
		}
		fields = append(fields, f)
	}
	return fields
}

// vertexLayout accepts only structs whose members are all @location inputs.
func vertexLayout(ps parsedStruct) (VertexLayout, bool) {
	var out VertexLayout
	for _, f := range ps.fields {
		if f.isBuiltin || f.location < 0 {
			return VertexLayout{}, false
		}
		n, ok := wgslComponents[f.typeName]
		if !ok {
			return VertexLayout{}, false
		}
		out.Inputs = append(out.Inputs, VertexInput{
			Location:   uint32(f.location),
			Name:       f.name,
			Components: n,
			Offset:     out.Stride,
		})
		out.Stride += uint64(n) * 4
	}
	return out, len(out.Inputs) > 0
}

func structLayout(ps parsedStruct) (uint64, map[string]uint64) {
	offsets := make(map[string]uint64, len(ps.fields))
	var offset, maxAlign uint64 = 0, 1
	for _, f := range ps.fields {
		l, ok := wgslLayouts[f.typeName]
		if !ok {
			continue
		}
		offset = roundUpAlign(l.align, offset)
		offsets[f.name] = offset
		offset += l.size
		if l.align > maxAlign {
			maxAlign = l.align
		}
	}
	return roundUpAlign(maxAlign, offset), offsets
}

func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

func stripLineComments(source string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
