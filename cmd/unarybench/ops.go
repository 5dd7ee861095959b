package main

import (
	"fmt"

	"github.com/born-ml/unarybench/internal/unaryops"
	"github.com/spf13/cobra"
)

func newOpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the benchmarkable operations",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range unaryops.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
