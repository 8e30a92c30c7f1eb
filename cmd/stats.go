package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <product-id>",
	Short: "Show donation statistics of a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "product")
		if err != nil {
			return err
		}

		view, err := svc.catalog.Find(cmd.Context(), id)
		if err != nil {
			return err
		}

		return render(cmd, view.Stats, func(w io.Writer) {
			_, _ = fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Donations for #%d  %s", view.ID, view.Title)))
			field(w, "Open", view.Stats.Open)
			field(w, "Closed", view.Stats.Closed)
			printSummary(w, view.Stats)
		})
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
