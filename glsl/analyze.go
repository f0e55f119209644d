// Package glsl flags GLSL ES patterns that are likely to be wrong or slow.
//
// The analysis is textual: regular expressions over comment-stripped source,
// with no parser behind them. It misses some real problems and reports some
// harmless code; both are accepted in exchange for staying small enough to
// read in one sitting.
//
// Checks:
//   - the source must start with the required version line
//   - no #define macros
//   - vertex inputs must carry layout(location = ...)
//   - if/while/for conditions must not depend on per-invocation values
//
// Per-invocation values are the shader's `in` variables, a handful of
// built-ins, and anything assigned from them, transitively.
package glsl

import (
	"regexp"
	"strings"
)

// DefaultVersion is the version line WebGL2 shaders must begin with.
const DefaultVersion = "#version 300 es"

// builtins are per-invocation built-in inputs.
var builtins = []string{"gl_VertexID", "gl_InstanceID", "gl_FragCoord", "gl_FrontFacing", "gl_PointCoord"}

var (
	lineContinuation = regexp.MustCompile(`\\(\r\n?|\n\r?)`)
	comment          = regexp.MustCompile(`(/\*([^*]|[\r\n]|(\*+([^*/]|[\r\n])))*\*+/)|(//.*)`)
	defineDirective  = regexp.MustCompile(`(?m)^[ \t\v\f]*#[ \t\v\f]*define[ \t\v\f]`)
	bareInput        = regexp.MustCompile(`(?m)^\s*in `)
	inDeclaration    = regexp.MustCompile(`\bin\b[^;]*\b([_a-zA-Z][_a-zA-Z0-9]*)\b[ \t\n\v\f\r]*;`)
)

// Options tunes Analyze.
type Options struct {
	// RequiredVersion is the prefix every source must start with.
	// Empty means DefaultVersion.
	RequiredVersion string
}

// Analyze runs every check on source compiled for stage.
func Analyze(source string, stage Stage) []Finding {
	return AnalyzeWithOptions(source, stage, Options{})
}

// AnalyzeWithOptions is Analyze with explicit options.
func AnalyzeWithOptions(source string, stage Stage, opts Options) []Finding {
	version := opts.RequiredVersion
	if version == "" {
		version = DefaultVersion
	}

	src := Normalize(source)
	var findings []Finding

	if !strings.HasPrefix(src, version) {
		findings = append(findings, Finding{
			Kind:    KindMissingVersion,
			Message: "shader must begin with `" + version + "`",
		})
	}
	if defineDirective.MatchString(src) {
		findings = append(findings, Finding{
			Kind:    KindMacroUsage,
			Message: "C-style macros are not allowed in GLSL",
		})
	}
	if stage == StageVertex && bareInput.MatchString(src) {
		findings = append(findings, Finding{
			Kind:    KindImplicitLocation,
			Message: "every vertex `in` variable needs a layout(location = ...)",
		})
	}

	names := Tainted(src)
	for _, c := range divergenceChecks(names) {
		if c.re.MatchString(src) {
			findings = append(findings, Finding{
				Kind:      KindDivergence,
				Construct: c.construct,
				Message:   "shader contains `" + c.construct + "` that may not allow full warp parallelism",
			})
		}
	}
	return findings
}

// Normalize removes backslash line continuations and replaces each comment
// with a single space.
func Normalize(source string) string {
	src := lineContinuation.ReplaceAllString(source, "")
	return comment.ReplaceAllString(src, " ")
}

// Tainted returns the per-invocation identifiers of a normalized source:
// every `in` variable and built-in input, then every name assigned from one
// of them, until no new names appear. The scan ends because a source has
// finitely many identifiers.
func Tainted(src string) []string {
	names := make([]string, 0, 8)
	seen := make(map[string]struct{})
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, m := range inDeclaration.FindAllStringSubmatch(src, -1) {
		add(m[1])
	}
	for _, b := range builtins {
		add(b)
	}

	for i := 0; i < len(names); i++ {
		assign := regexp.MustCompile(`\b([_a-zA-Z][_a-zA-Z0-9]*)\b\s*[-+*/%<>&^|]*=[^=;][^;]*\b` + regexp.QuoteMeta(names[i]) + `\b`)
		for _, m := range assign.FindAllStringSubmatch(src, -1) {
			add(m[1])
		}
	}
	return names
}

type divergenceCheck struct {
	construct string
	re        *regexp.Regexp
}

func divergenceChecks(names []string) []divergenceCheck {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	alt := `\b(` + strings.Join(quoted, "|") + `)\b`

	return []divergenceCheck{
		{"if", regexp.MustCompile(`\bif\b[^{};]*` + alt + `[^{};]*\)\s*([{]|[a-zA-Z_])`)},
		{"while", regexp.MustCompile(`\bwhile\b[^{};]*` + alt + `[^{};]*\)\s*([{]|[a-zA-Z_])`)},
		{"for", regexp.MustCompile(`\bfor\b[^{};]*;[^{};]*` + alt + `[^{};]*;`)},
	}
}
