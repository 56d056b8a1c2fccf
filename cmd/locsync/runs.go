package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRunsCmd(g *globalOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent translation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()
			s, err := openSession(ctx, g, false)
			if err != nil {
				return err
			}
			runs, err := s.db.Runs(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FINISHED\tKIND\tTYPE\tLOCALES\tTRANSLATED\tFAILED\tUPDATED\tRUN")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s→%s\t%d\t%d\t%d\t%s\n",
					r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Kind, r.TypeName, r.Source, r.Target,
					r.Translated, r.Failed, r.RecordsUpdated, r.ID)
			}
			return w.Flush()
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	return cmd
}
