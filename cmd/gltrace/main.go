// Command gltrace analyzes shader sources and runs a traced demo
// application.
//
// Usage:
//
//	gltrace analyze [paths...]      report shader findings
//	gltrace watch [dir]             re-analyze shaders when they change
//	gltrace demo [--frames N]       trace the built-in demo and print its frames
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/gltrace"
	"github.com/gogpu/gltrace/config"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gltrace",
		Short:         "WebGL2 call tracing and shader linting",
		Long:          `gltrace records the distinct frames a WebGL2 program issues and flags shader code that breaks course rules or hurts warp parallelism.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return fmt.Errorf("failed to get verbose flag: %w", err)
			}
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			gltrace.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().String("config", "", "policy file (default: "+config.FileName+" found upward from the working directory)")
	root.PersistentFlags().BoolP("verbose", "v", false, "log frame boundaries and session events")

	root.AddCommand(newAnalyzeCmd(), newWatchCmd(), newDemoCmd())
	return root
}

// policyFor resolves the policy selected by the --config flag.
func policyFor(cmd *cobra.Command) (gltrace.Policy, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return gltrace.Policy{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	p, used, err := config.Resolve(path, ".")
	if err != nil {
		return gltrace.Policy{}, err
	}
	if used != "" {
		gltrace.Logger().Debug("loaded policy", slog.String("path", used))
	}
	return p, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gltrace:", err)
		os.Exit(1)
	}
}
