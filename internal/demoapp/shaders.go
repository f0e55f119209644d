package demoapp

import "strings"

// Faults selects mistakes to plant in the demo so that every warning kind
// of a tracing session can be observed.
type Faults struct {
	// MissingVersion drops the #version line from both shaders.
	MissingVersion bool
	// Macro adds a #define to the vertex shader.
	Macro bool
	// ImplicitLocation declares vertex inputs without layout qualifiers.
	ImplicitLocation bool
	// Divergence branches on an interpolated value in the fragment shader.
	Divergence bool
	// AttribLookup queries attribute locations with GetAttribLocation.
	AttribLookup bool
}

// AllFaults enables every fault.
func AllFaults() Faults {
	return Faults{
		MissingVersion:   true,
		Macro:            true,
		ImplicitLocation: true,
		Divergence:       true,
		AttribLookup:     true,
	}
}

// Any reports whether at least one fault is enabled.
func (f Faults) Any() bool {
	return f.MissingVersion || f.Macro || f.ImplicitLocation || f.Divergence || f.AttribLookup
}

const version = "#version 300 es\n"

// VertexSource returns the vertex shader for the given faults.
func VertexSource(f Faults) string {
	var b strings.Builder
	if !f.MissingVersion {
		b.WriteString(version)
	}
	if f.Macro {
		b.WriteString("#define SCALE 1.0\n")
	}
	if f.ImplicitLocation {
		b.WriteString("in vec4 position;\nin vec3 normal;\n")
	} else {
		b.WriteString("layout(location = 0) in vec4 position;\nlayout(location = 1) in vec3 normal;\n")
	}
	b.WriteString(`uniform mat4 uniMat;
out vec3 vNormal;
void main() {
    gl_Position = uniMat * position;
    vNormal = mat3(uniMat) * normal;
}
`)
	return b.String()
}

// FragmentSource returns the fragment shader for the given faults.
func FragmentSource(f Faults) string {
	var b strings.Builder
	if !f.MissingVersion {
		b.WriteString(version)
	}
	b.WriteString(`precision highp float;
uniform vec4 color;
uniform vec3 lightdir;
uniform sampler2D image;
in vec3 vNormal;
out vec4 fragColor;
void main() {
    vec3 n = normalize(vNormal);
`)
	if f.Divergence {
		b.WriteString("    if (n.z < 0.0) { discard; }\n")
	}
	b.WriteString(`    float lambert = max(dot(n, lightdir), 0.0);
    vec4 texel = texture(image, n.xy * 0.5 + 0.5);
    fragColor = vec4(color.rgb * texel.rgb * (0.2 + lambert), color.a);
}
`)
	return b.String()
}
