package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/born-ml/unarybench/internal/benchmark"
	"github.com/spf13/cobra"
)

func newCompareCmd() *cobra.Command {
	var (
		file      string
		threshold float64
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the two most recent stored suite runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := newStoreFunc(file)
			if err != nil {
				return err
			}
			runs, err := store.LoadAll()
			if err != nil {
				return err
			}
			if len(runs) < 2 {
				return errors.New("need at least two stored runs to compare")
			}
			prev, curr := runs[len(runs)-2], runs[len(runs)-1]

			comps := benchmark.Compare(prev, curr)
			if len(comps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No common measurements.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "BENCHMARK\tPREV (ms)\tCURR (ms)\tDIFF\t")
			regressions := 0
			for _, c := range comps {
				mark := ""
				if c.MillisDiff > threshold {
					mark = "REGRESSION"
					regressions++
				}
				fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%+.2f%%\t%s\n", c.Key, c.Prev.Millis, c.Curr.Millis, c.MillisDiff, mark)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if regressions > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d regression(s) above %.1f%%\n", regressions, threshold)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", ".unarybench/runs.json", "stored runs")
	cmd.Flags().Float64Var(&threshold, "threshold", 10.0, "percentage slowdown reported as a regression")

	return cmd
}
