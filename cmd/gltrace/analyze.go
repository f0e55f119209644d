package main

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/gltrace/glsl"
	"github.com/gogpu/gltrace/internal/cache"
)

// shaderExts are the file extensions analyze and watch pick up.
var shaderExts = map[string]struct{}{
	".vert": {}, ".frag": {}, ".glsl": {}, ".vs": {}, ".fs": {}, ".wgsl": {},
}

var skipDirs = map[string]struct{}{
	"node_modules": {},
	"vendor":       {},
	"testdata":     {},
}

// errFindings is returned by analyze --strict when any finding exists.
var errFindings = errors.New("shader findings reported")

// report holds the findings for one shader (or one WGSL entry point).
type report struct {
	Path     string
	Stage    glsl.Stage
	Entry    string
	Findings []glsl.Finding
	Err      error
}

type analyzeOptions struct {
	stage string
	glsl  glsl.Options
	jobs  int
	cache *cache.Cache[sourceKey, []report]
}

// sourceKey identifies an analysis independently of the file path, so
// identical sources share one result.
type sourceKey struct {
	stage   string
	version string
	sum     [sha256.Size]byte
}

// reportCacheSize bounds the number of distinct sources remembered.
const reportCacheSize = 512

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Report shader findings",
		Long: `Analyze GLSL ES and WGSL shader files.

Directories are walked recursively, honoring .gitignore. The stage is taken
from the file extension (.vert/.vs, .frag/.fs) or from "vert"/"frag" in the
file name; WGSL files are translated per entry point.`,
		RunE: runAnalyze,
	}
	cmd.Flags().String("stage", "auto", "shader stage (auto|vertex|fragment)")
	cmd.Flags().Bool("strict", false, "exit non-zero when any finding is reported")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	opts, err := analyzeOptionsFor(cmd)
	if err != nil {
		return err
	}
	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return fmt.Errorf("failed to get strict flag: %w", err)
	}
	pal, err := paletteFor(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"."}
	}

	files, err := discover(args)
	if err != nil {
		return err
	}
	reports, err := analyzeFiles(cmd.Context(), files, opts)
	if err != nil {
		return err
	}
	n := printReports(cmd.OutOrStdout(), reports, pal)
	if n == 0 {
		pal.success.Fprintf(cmd.OutOrStdout(), "%d files, no findings\n", len(files))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d files, %d findings\n", len(files), n)
	if strict {
		return errFindings
	}
	return nil
}

func analyzeOptionsFor(cmd *cobra.Command) (analyzeOptions, error) {
	stage, err := cmd.Flags().GetString("stage")
	if err != nil {
		return analyzeOptions{}, fmt.Errorf("failed to get stage flag: %w", err)
	}
	switch stage {
	case "auto", "vertex", "fragment":
	default:
		return analyzeOptions{}, fmt.Errorf("invalid --stage value %q (want auto, vertex or fragment)", stage)
	}
	jobs := 0
	if cmd.Flags().Lookup("jobs") != nil {
		if jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return analyzeOptions{}, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	policy, err := policyFor(cmd)
	if err != nil {
		return analyzeOptions{}, err
	}
	return analyzeOptions{
		stage: stage,
		glsl:  glsl.Options{RequiredVersion: policy.RequiredVersion},
		jobs:  jobs,
		cache: cache.New[sourceKey, []report](reportCacheSize),
	}, nil
}

// isShader reports whether name has a shader extension.
func isShader(name string) bool {
	_, ok := shaderExts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// discover expands paths into a sorted list of shader files. Files named
// explicitly are kept whatever their extension.
func discover(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		found, err := walkShaders(root)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	sort.Strings(files)
	return files, nil
}

// walkShaders returns the shader files under root, skipping hidden
// directories and anything matched by root/.gitignore.
func walkShaders(root string) ([]string, error) {
	gi := loadGitignore(root)
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if ignored(gi, root, path, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !isShader(name) {
			return nil
		}
		if ignored(gi, root, path, false) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// ignored reports whether path, below root, is matched by gi.
func ignored(gi *ignore.GitIgnore, root, path string, dir bool) bool {
	if gi == nil {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if dir {
		rel += "/"
	}
	return gi.MatchesPath(rel)
}

// stageFor picks the stage of a GLSL file. flag overrides detection unless
// it is "auto".
func stageFor(path, flag string) glsl.Stage {
	if flag != "" && flag != "auto" {
		return glsl.ParseStage(flag)
	}
	name := strings.ToLower(filepath.Base(path))
	switch filepath.Ext(name) {
	case ".vert", ".vs":
		return glsl.StageVertex
	case ".frag", ".fs":
		return glsl.StageFragment
	}
	switch {
	case strings.Contains(name, "vert"):
		return glsl.StageVertex
	case strings.Contains(name, "frag"):
		return glsl.StageFragment
	}
	return glsl.StageOther
}

var wgslEntry = regexp.MustCompile(`@(vertex|fragment)\s+fn\s+([_a-zA-Z][_a-zA-Z0-9]*)`)

// analyzeSource analyzes one file's contents, reusing an earlier result for
// the same source when opts carries a cache.
func analyzeSource(path, src string, opts analyzeOptions) []report {
	if opts.cache == nil {
		return analyzeUncached(path, src, opts)
	}
	key := sourceKey{version: opts.glsl.RequiredVersion, sum: sha256.Sum256([]byte(src))}
	if strings.EqualFold(filepath.Ext(path), ".wgsl") {
		key.stage = "wgsl:" + opts.stage
	} else {
		key.stage = stageFor(path, opts.stage).String()
	}
	cached, ok := opts.cache.Get(key)
	if !ok {
		cached = analyzeUncached(path, src, opts)
		opts.cache.Set(key, cached)
	}
	out := make([]report, len(cached))
	for i, r := range cached {
		r.Path = path
		out[i] = r
	}
	return out
}

func analyzeUncached(path, src string, opts analyzeOptions) []report {
	if strings.EqualFold(filepath.Ext(path), ".wgsl") {
		return analyzeWGSL(path, src, opts)
	}
	stage := stageFor(path, opts.stage)
	return []report{{
		Path:     path,
		Stage:    stage,
		Findings: glsl.AnalyzeWithOptions(src, stage, opts.glsl),
	}}
}

func analyzeWGSL(path, src string, opts analyzeOptions) []report {
	matches := wgslEntry.FindAllStringSubmatch(src, -1)
	if len(matches) == 0 {
		return []report{{Path: path, Err: errors.New("no @vertex or @fragment entry point")}}
	}
	var out []report
	for _, m := range matches {
		stage := glsl.ParseStage(m[1])
		if opts.stage != "auto" && glsl.ParseStage(opts.stage) != stage {
			continue
		}
		findings, err := glsl.AnalyzeWGSL(src, m[2], stage, opts.glsl)
		out = append(out, report{Path: path, Stage: stage, Entry: m[2], Findings: findings, Err: err})
	}
	return out
}

// analyzeFiles analyzes files in parallel and returns the reports in file
// order.
func analyzeFiles(ctx context.Context, files []string, opts analyzeOptions) ([]report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	jobs := opts.jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([][]report, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				results[i] = []report{{Path: path, Err: err}}
				return nil
			}
			results[i] = analyzeSource(path, string(data), opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var out []report
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// printReports writes one line per finding and returns the number of
// findings and errors.
func printReports(w io.Writer, reports []report, pal palette) int {
	n := 0
	for _, r := range reports {
		where := r.Path
		if r.Entry != "" {
			where += "@" + r.Entry
		}
		if r.Err != nil {
			fmt.Fprintf(w, "%s: %s %v\n", pal.path.Sprint(where), pal.err.Sprint("error:"), r.Err)
			n++
			continue
		}
		for _, f := range r.Findings {
			fmt.Fprintf(w, "%s: %s %s %s\n",
				pal.path.Sprint(where),
				pal.muted.Sprint("["+r.Stage.String()+"]"),
				pal.kind.Sprint(f.Kind.String()+":"),
				f.Message)
			n++
		}
	}
	return n
}
