package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/born-ml/unarybench/internal/config"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		size int
		op   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Time one operation on one matrix size",
		Example: `  unarybench run --op relu --size 1024
  unarybench run --backend webgpu --op erf --size 2048`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			r := a.runner()
			ms, err := r.Run(ctx, size, op)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %dx%d: %.3f ms\n", r.Name(), op, size, size, ms)
			return nil
		},
	}

	cmd.Flags().String("backend", "cpu", "backend: cpu or webgpu")
	cmd.Flags().Int("warmup", 1, "untimed runs before the timed one (webgpu only)")
	cmd.Flags().IntVar(&size, "size", config.DefaultSizes[1], "matrix size (size×size)")
	cmd.Flags().StringVar(&op, "op", "", "operation, see 'unarybench ops'")
	_ = cmd.MarkFlagRequired("op")

	return cmd
}
