package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// palette holds the colors used for terminal output.
type palette struct {
	path    *color.Color
	kind    *color.Color
	err     *color.Color
	header  *color.Color
	muted   *color.Color
	success *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path:    color.New(color.Bold),
		kind:    color.New(color.FgYellow),
		err:     color.New(color.FgRed, color.Bold),
		header:  color.New(color.FgCyan, color.Bold),
		muted:   color.New(color.Faint),
		success: color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.path, p.kind, p.err, p.header, p.muted, p.success} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// colorEnabled decides whether to color output written to w.
func colorEnabled(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto", "":
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		f, ok := w.(*os.File)
		return ok && isTerminal(f), nil
	}
	return false, fmt.Errorf("invalid --color value %q (want auto, on or off)", mode)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func paletteFor(cmd *cobra.Command) (palette, error) {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return palette{}, fmt.Errorf("failed to get color flag: %w", err)
	}
	on, err := colorEnabled(mode, cmd.OutOrStdout())
	if err != nil {
		return palette{}, err
	}
	return newPalette(on), nil
}
