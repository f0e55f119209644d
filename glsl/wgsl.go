package glsl

import (
	"fmt"

	"github.com/gogpu/naga"
	nagaglsl "github.com/gogpu/naga/glsl"
)

// Translate compiles WGSL source to GLSL ES 3.00 with naga. entryPoint
// selects the entry point to emit; empty means the first one.
func Translate(wgslSource, entryPoint string) (string, error) {
	ast, err := naga.Parse(wgslSource)
	if err != nil {
		return "", fmt.Errorf("glsl: %w", err)
	}
	module, err := naga.LowerWithSource(ast, wgslSource)
	if err != nil {
		return "", fmt.Errorf("glsl: lowering: %w", err)
	}
	out, _, err := nagaglsl.Compile(module, nagaglsl.Options{
		LangVersion:        nagaglsl.VersionES300,
		EntryPoint:         entryPoint,
		ForceHighPrecision: true,
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// AnalyzeWGSL translates a WGSL entry point to GLSL ES 3.00 and analyzes
// the result, so WGSL authors get the same divergence report.
func AnalyzeWGSL(wgslSource, entryPoint string, stage Stage, opts Options) ([]Finding, error) {
	src, err := Translate(wgslSource, entryPoint)
	if err != nil {
		return nil, err
	}
	return AnalyzeWithOptions(src, stage, opts), nil
}
