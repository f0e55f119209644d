package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/gogpu/gltrace"
	"github.com/gogpu/gltrace/gl/headless"
	"github.com/gogpu/gltrace/internal/demoapp"
	"github.com/gogpu/gltrace/schedule"
	"github.com/gogpu/gltrace/trace"
)

// demoConstants are the constant properties the demo reads up front so its
// traces show names instead of numbers.
var demoConstants = []string{
	"ARRAY_BUFFER", "ELEMENT_ARRAY_BUFFER", "STATIC_DRAW", "UNSIGNED_SHORT",
	"VERTEX_SHADER", "FRAGMENT_SHADER", "COMPILE_STATUS", "LINK_STATUS", "ACTIVE_UNIFORMS",
	"DEPTH_TEST", "BLEND", "SRC_ALPHA", "ONE_MINUS_SRC_ALPHA",
	"TEXTURE_2D", "TEXTURE0", "TEXTURE_WRAP_S", "TEXTURE_WRAP_T",
	"TEXTURE_MIN_FILTER", "TEXTURE_MAG_FILTER", "RGBA", "RGBA8", "UNSIGNED_BYTE",
}

type demoOptions struct {
	frames      int
	width       int
	height      int
	faults      demoapp.Faults
	policy      gltrace.Policy
	export      string
	format      trace.Format
	metricsAddr string
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Trace the built-in demo application",
		Long: `Run the built-in orbit demo on an in-memory WebGL2 context through a
tracing session and print the distinct frame traces it produced.

With --faulty the demo plants one mistake of every kind the session
reports. Warnings are logged to stderr.`,
		Args: cobra.NoArgs,
		RunE: runDemoCmd,
	}
	cmd.Flags().Int("frames", 120, "number of frames to draw")
	cmd.Flags().Int("width", 800, "canvas width")
	cmd.Flags().Int("height", 600, "canvas height")
	cmd.Flags().Bool("faulty", false, "plant policy violations in the demo")
	cmd.Flags().String("export", "", "write the trace registry to this file")
	cmd.Flags().String("format", "json", "export format (json|yaml|msgpack)")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address and wait for Ctrl-C")
	return cmd
}

func runDemoCmd(cmd *cobra.Command, _ []string) error {
	var o demoOptions
	var err error
	flags := cmd.Flags()
	if o.frames, err = flags.GetInt("frames"); err != nil {
		return fmt.Errorf("failed to get frames flag: %w", err)
	}
	if o.width, err = flags.GetInt("width"); err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	if o.height, err = flags.GetInt("height"); err != nil {
		return fmt.Errorf("failed to get height flag: %w", err)
	}
	faulty, err := flags.GetBool("faulty")
	if err != nil {
		return fmt.Errorf("failed to get faulty flag: %w", err)
	}
	if faulty {
		o.faults = demoapp.AllFaults()
	}
	if o.export, err = flags.GetString("export"); err != nil {
		return fmt.Errorf("failed to get export flag: %w", err)
	}
	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if o.format, err = trace.ParseFormat(format); err != nil {
		return err
	}
	if o.metricsAddr, err = flags.GetString("metrics-addr"); err != nil {
		return fmt.Errorf("failed to get metrics-addr flag: %w", err)
	}
	if o.frames < 1 {
		return fmt.Errorf("--frames must be positive, got %d", o.frames)
	}
	if o.policy, err = policyFor(cmd); err != nil {
		return err
	}
	pal, err := paletteFor(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return runDemo(ctx, cmd.OutOrStdout(), o, pal)
}

// runDemo traces the demo application and prints the distinct frames.
func runDemo(ctx context.Context, out io.Writer, o demoOptions, pal palette) error {
	reg := prometheus.NewRegistry()
	glctx := gltrace.Wrap(headless.New(o.width, o.height),
		gltrace.WithPolicy(o.policy),
		gltrace.WithMetrics(reg),
		gltrace.WithConstants(demoConstants...),
	)
	session := glctx.Session()

	var srv *http.Server
	if o.metricsAddr != "" {
		ln, err := net.Listen("tcp", o.metricsAddr)
		if err != nil {
			return fmt.Errorf("failed to listen for metrics: %w", err)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				gltrace.Logger().Error("metrics server failed", slog.Any("error", err))
			}
		}()
	}

	app, err := demoapp.New(glctx, demoapp.Options{Faults: o.faults})
	if err != nil {
		if srv != nil {
			_ = srv.Close()
		}
		return err
	}

	host := &schedule.ManualHost{}
	guard := schedule.NewGuard(host.RequestAnimationFrame)
	app.Start(guard, o.frames)
	ts := 0.0
	for host.Len() > 0 {
		if err := ctx.Err(); err != nil {
			app.Stop()
			break
		}
		host.Step(ts)
		ts += 1000.0 / 60
	}
	// Calls after the last boundary stay in the live trace.
	traces := session.Traces()
	fmt.Fprintf(out, "%s %d frames, %d distinct traces, %d live calls, %d warnings\n",
		pal.header.Sprint("session "+session.ID()+":"), app.Frames(), len(traces), len(session.Live()), len(session.Warnings()))
	for i, frame := range traces {
		pal.header.Fprintf(out, "--- trace %d (%d calls) ---\n", i, len(frame))
		for _, sig := range frame {
			fmt.Fprintln(out, "  "+sig)
		}
	}
	for _, w := range session.Warnings() {
		fmt.Fprintf(out, "%s %s  %s\n", pal.kind.Sprint(string(w.Kind)+":"), w.Message, pal.muted.Sprint(w.Signature))
	}

	if o.export != "" {
		if err := exportSnapshot(o.export, o.format, session.Snapshot()); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s (%s)\n", o.export, o.format)
	}

	if srv != nil {
		fmt.Fprintf(out, "serving metrics on %s/metrics (Ctrl-C to stop)\n", o.metricsAddr)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
	return nil
}

func exportSnapshot(path string, format trace.Format, s trace.Snapshot) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return trace.WriteSnapshot(f, format, s)
}
