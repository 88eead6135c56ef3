package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/grove-ai/grove/pkg/ledger"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var (
		dbPath string
		period string
		tool   string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show request costs grouped by date and tool",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ledger.ParsePeriod(period)
			if err != nil {
				return err
			}

			led, err := ledger.New(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = led.Close() }()

			report, err := led.Report(context.Background(), p, tool)
			if err != nil {
				return err
			}

			if report.TotalRequests == 0 {
				fmt.Println("No requests found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tTOOL\tREQUESTS\tCOST")
			for _, row := range report.Breakdown {
				fmt.Fprintf(w, "%s\t%s\t%d\t$%.4f\n", row.Date, row.Tool, row.Requests, row.CostUSD)
			}
			fmt.Fprintf(w, "\tTOTAL\t%d\t$%.4f\n", report.TotalRequests, report.TotalCostUSD)
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "grove.db", "path to ledger database")
	cmd.Flags().StringVar(&period, "period", "all", "report period (today, week, month, all)")
	cmd.Flags().StringVar(&tool, "tool", "", "filter by tool name")
	return cmd
}
