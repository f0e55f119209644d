package glsl

// Stage is the pipeline stage a shader source is compiled for.
type Stage int

// Shader stages.
const (
	StageOther Stage = iota
	StageVertex
	StageFragment
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "other"
	}
}

// ParseStage converts "vertex", "fragment" or anything else to a Stage.
func ParseStage(name string) Stage {
	switch name {
	case "vertex", "vert", "vs":
		return StageVertex
	case "fragment", "frag", "fs":
		return StageFragment
	default:
		return StageOther
	}
}

// Kind classifies a Finding.
type Kind int

// Finding kinds.
const (
	KindMissingVersion Kind = iota
	KindMacroUsage
	KindImplicitLocation
	KindDivergence
)

// String returns a short kebab-case name used in logs and CLI output.
func (k Kind) String() string {
	switch k {
	case KindMissingVersion:
		return "missing-version"
	case KindMacroUsage:
		return "macro-usage"
	case KindImplicitLocation:
		return "implicit-location"
	case KindDivergence:
		return "divergence"
	default:
		return "unknown"
	}
}

// Finding is one heuristic hit in a shader source.
type Finding struct {
	Kind Kind

	// Construct names the branching construct ("if", "while", "for") for
	// divergence findings and is empty otherwise.
	Construct string

	Message string
}

func (f Finding) String() string {
	return f.Kind.String() + ": " + f.Message
}
