package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"clausegrade/internal/clauses"
)

var clausesCmd = &cobra.Command{
	Use:   "clauses",
	Short: "List the clause registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg := clauses.Default()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "# registry %s\n", reg.Version())
		fmt.Fprintln(w, "ID\tCATEGORY\tSEVERITY\tDESCRIPTION")
		for _, c := range reg.List() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Category, c.TypicalSeverity, c.Description)
		}
		return w.Flush()
	},
}
