package gltrace

// WarningKind classifies a policy warning.
type WarningKind string

// Warning kinds. Shader findings use the glsl.Kind names.
const (
	WarnBanned           WarningKind = "banned-call"
	WarnMissingVersion   WarningKind = "missing-version"
	WarnMacroUsage       WarningKind = "macro-usage"
	WarnImplicitLocation WarningKind = "implicit-location"
	WarnDivergence       WarningKind = "divergence"
	WarnNullReturn       WarningKind = "null-return"
	WarnNullArgument     WarningKind = "null-argument"
)

// Warning is an advisory policy message. Warnings never change the
// intercepted call or its result.
type Warning struct {
	Kind      WarningKind
	Signature string
	Message   string
}

func (w Warning) String() string {
	return string(w.Kind) + ": " + w.Message
}
