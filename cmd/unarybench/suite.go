package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/born-ml/unarybench/internal/benchmark"
	"github.com/born-ml/unarybench/internal/config"
	"github.com/born-ml/unarybench/internal/unaryops"
	"github.com/spf13/cobra"
)

func newSuiteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suite",
		Short: "Time every configured operation at every configured size",
		Example: `  unarybench suite --sizes 128,512 --ops exp,relu,erf
  unarybench suite --backend webgpu --out .unarybench/runs.json --metrics-addr :2112`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			rec := benchmark.NewRecorder()
			if a.cfg.MetricsAddr != "" {
				shutdown, err := serveMetrics(a.cfg.MetricsAddr, rec)
				if err != nil {
					return err
				}
				defer shutdown()
				a.logger.Info("serving metrics", "addr", a.cfg.MetricsAddr)
			}

			suite := &benchmark.Suite{
				Runner:   a.runner(),
				Sizes:    a.cfg.Sizes,
				Ops:      a.cfg.Ops,
				Recorder: rec,
				Logger:   a.logger,
			}
			run, err := suite.Run(ctx)
			if b := a.eng.Backend(); b != nil {
				run.Device = b.Name()
			}
			printRun(cmd, run)
			if err != nil {
				return err
			}

			if a.cfg.Output != "" {
				store, err := newStoreFunc(a.cfg.Output)
				if err != nil {
					return err
				}
				if err := store.Save(run); err != nil {
					return fmt.Errorf("failed to save results: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nResults saved to %s\n", a.cfg.Output)
			}
			return nil
		},
	}

	cmd.Flags().String("backend", "cpu", "backend: cpu or webgpu")
	cmd.Flags().IntSlice("sizes", config.DefaultSizes, "matrix sizes")
	cmd.Flags().StringSlice("ops", unaryops.Names(), "operations")
	cmd.Flags().Int("warmup", 1, "untimed runs before each timed one (webgpu only)")
	cmd.Flags().String("out", "", "append the run to this JSON file")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address while running")

	return cmd
}

func printRun(cmd *cobra.Command, run benchmark.Run) {
	out := cmd.OutOrStdout()
	if run.Device != "" {
		fmt.Fprintf(out, "Device: %s\n", run.Device)
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OP\tSIZE\tMS\tERROR")
	for _, r := range run.Results {
		ms := fmt.Sprintf("%.3f", r.Millis)
		if r.Failed() {
			ms = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", r.Op, r.Size, ms, r.Err)
	}
	_ = w.Flush()
}

// serveMetrics starts the metrics endpoint and returns its shutdown function.
func serveMetrics(addr string, rec *benchmark.Recorder) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
