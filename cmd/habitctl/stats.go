package main

import (
	"fmt"
	"net/http"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStatsCmd(opts *options) *cobra.Command {
	statsCmd := &cobra.Command{Use: "stats", Short: "Completion statistics"}

	var period, start, end string
	dailyCmd := &cobra.Command{
		Use:   "daily",
		Short: "Daily completion counts; --period wins over --start/--end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(opts)
			if err != nil {
				return err
			}
			q := map[string]string{}
			for k, v := range map[string]string{"period": period, "start_date": start, "end_date": end} {
				if v != "" {
					q[k] = v
				}
			}
			var days []dailyTotal
			raw, err := c.do(cmd.Context(), http.MethodGet, "/api/statistics/daily", q, nil, &days)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printRaw(cmd.OutOrStdout(), raw)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tCOMPLETED")
			total := 0
			for _, d := range days {
				total += d.CompletedCount
				fmt.Fprintf(tw, "%s\t%d\n", d.Date, d.CompletedCount)
			}
			fmt.Fprintf(tw, "TOTAL\t%d\n", total)
			return tw.Flush()
		},
	}
	dailyCmd.Flags().StringVarP(&period, "period", "p", "", "week, month or year")
	dailyCmd.Flags().StringVar(&start, "start", "", "Start date YYYY-MM-DD")
	dailyCmd.Flags().StringVar(&end, "end", "", "End date YYYY-MM-DD")
	statsCmd.AddCommand(dailyCmd)

	return statsCmd
}
