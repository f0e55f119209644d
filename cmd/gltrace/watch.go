package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/cobra"

	"github.com/gogpu/gltrace"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-analyze shader files whenever they change",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatch,
	}
	cmd.Flags().String("stage", "auto", "shader stage (auto|vertex|fragment)")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts, err := analyzeOptionsFor(cmd)
	if err != nil {
		return err
	}
	pal, err := paletteFor(cmd)
	if err != nil {
		return err
	}
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	fmt.Fprintf(cmd.OutOrStdout(), "watching %s (Ctrl-C to stop)\n", dir)
	return watchShaders(ctx, cmd.OutOrStdout(), dir, opts, pal, nil)
}

// watchShaders analyzes every shader under root once, then again each time
// one is written or created, until ctx is done. Directories created later
// are watched as they appear. Paths matched by root/.gitignore are skipped
// as in analyze. ready, when non-nil, is closed once the watches are in
// place.
func watchShaders(ctx context.Context, out io.Writer, root string, opts analyzeOptions, pal palette, ready chan<- struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	gi := loadGitignore(root)
	if _, err := addWatches(watcher, root, root, gi); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}

	files, err := walkShaders(root)
	if err != nil {
		return err
	}
	reports, err := analyzeFiles(ctx, files, opts)
	if err != nil {
		return err
	}
	printReports(out, reports, pal)

	if ready != nil {
		close(ready)
	}

	logger := gltrace.Logger()
	if opts.cache != nil {
		defer func() {
			s := opts.cache.Stats()
			logger.Debug("analysis cache", slog.Int("entries", s.Len), slog.Float64("hit_rate", s.HitRate()))
		}()
	}
	analyze := func(path string) {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Debug("skipping unreadable shader", slog.String("path", path), slog.Any("error", err))
			return
		}
		reports := analyzeSource(path, string(data), opts)
		if printReports(out, reports, pal) == 0 {
			pal.success.Fprintf(out, "%s: ok\n", path)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					// Files may land in the directory before its watch exists.
					found, err := addWatches(watcher, root, event.Name, gi)
					if err != nil {
						logger.Warn("failed to watch new directory", slog.String("path", event.Name), slog.Any("error", err))
					}
					for _, f := range found {
						analyze(f)
					}
					continue
				}
			}
			if !isShader(event.Name) || ignored(gi, root, event.Name, false) {
				continue
			}
			analyze(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", slog.Any("error", err))
		}
	}
}

// addWatches watches dir and every directory below it that analyze would
// descend into, and returns the shader files found on the way.
func addWatches(watcher *fsnotify.Watcher, root, dir string, gi *ignore.GitIgnore) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if path != dir && isShader(path) && !strings.HasPrefix(d.Name(), ".") && !ignored(gi, root, path, false) {
				files = append(files, path)
			}
			return nil
		}
		if path != root {
			if _, skip := skipDirs[d.Name()]; skip || strings.HasPrefix(d.Name(), ".") || ignored(gi, root, path, true) {
				return filepath.SkipDir
			}
		}
		return watcher.Add(path)
	})
	return files, err
}
