package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/born-ml/unarybench/internal/benchmark"
	"github.com/spf13/cobra"
)

func newBackendsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List registered backends and whether they can run here",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "BACKEND\tAVAILABLE\tDEFAULT")
			for _, name := range a.eng.Backends() {
				available := true
				if name == benchmark.GPUBackend {
					available = gpuAvailableFunc()
				}
				def := ""
				if name == a.cfg.Backend {
					def = "*"
				}
				fmt.Fprintf(w, "%s\t%t\t%s\n", name, available, def)
			}
			return w.Flush()
		},
	}
}
