package gltrace

import (
	"slices"
	"strings"

	"github.com/gogpu/gltrace/glsl"
)

// Policy names the calls a session treats specially and the rules it
// enforces. DefaultPolicy reproduces the classroom rules the tool was
// written for; config.Load overlays a TOML file on top of it.
type Policy struct {
	// Prefix is prepended to every function name in a signature and to
	// property names in symbolic names.
	Prefix string `toml:"prefix"`

	// FrameBoundary is the call that closes a frame trace.
	FrameBoundary string `toml:"frame_boundary"`

	// CreatePrefix marks object-creating calls. The rest of the name
	// ("Buffer" in "CreateBuffer") names the minted symbols.
	CreatePrefix string `toml:"create_prefix"`

	// UniformLookup is the call whose result is named
	// "<program>.uniforms.<name>".
	UniformLookup string `toml:"uniform_lookup"`

	// ShaderSource is the shader upload call; its source is analyzed.
	ShaderSource string `toml:"shader_source"`

	// ShaderCreate is the call whose first argument is the shader stage.
	ShaderCreate string `toml:"shader_create"`

	// RequiredVersion is the line every shader must start with.
	RequiredVersion string `toml:"required_version"`

	// Banned maps prohibited calls to guidance naming the alternative.
	Banned map[string]string `toml:"banned"`

	// ShowNumbers lists calls whose numeric arguments are printed
	// literally rather than as "num".
	ShowNumbers []string `toml:"show_numbers"`

	// ShowNumbersContaining does the same for every call whose name
	// contains one of the substrings.
	ShowNumbersContaining []string `toml:"show_numbers_containing"`
}

// DefaultPolicy returns the built-in policy.
func DefaultPolicy() Policy {
	return Policy{
		Prefix:          "gl.",
		FrameBoundary:   "Clear",
		CreatePrefix:    "Create",
		UniformLookup:   "GetUniformLocation",
		ShaderSource:    "ShaderSource",
		ShaderCreate:    "CreateShader",
		RequiredVersion: glsl.DefaultVersion,
		Banned: map[string]string{
			"GetAttribLocation": "use `layout(location = ...)` in the vertex shader instead",
		},
		ShowNumbers:           []string{"VertexAttribPointer", "EnableVertexAttribArray"},
		ShowNumbersContaining: []string{"Draw"},
	}
}

// Clone returns a deep copy of p.
func (p Policy) Clone() Policy {
	out := p
	if p.Banned != nil {
		out.Banned = make(map[string]string, len(p.Banned))
		for k, v := range p.Banned {
			out.Banned[k] = v
		}
	}
	out.ShowNumbers = slices.Clone(p.ShowNumbers)
	out.ShowNumbersContaining = slices.Clone(p.ShowNumbersContaining)
	return out
}

// showNumbers reports whether the numeric arguments of name are printed.
func (p *Policy) showNumbers(name string, _ int) bool {
	if slices.Contains(p.ShowNumbers, name) {
		return true
	}
	for _, sub := range p.ShowNumbersContaining {
		if sub != "" && strings.Contains(name, sub) {
			return true
		}
	}
	return false
}

// creator returns the symbol kind for a creating call ("Buffer" for
// "CreateBuffer").
func (p *Policy) creator(name string) (string, bool) {
	if p.CreatePrefix == "" || !strings.HasPrefix(name, p.CreatePrefix) {
		return "", false
	}
	return strings.TrimPrefix(name, p.CreatePrefix), true
}
