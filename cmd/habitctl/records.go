package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func newRecordsCmd(opts *options) *cobra.Command {
	recordsCmd := &cobra.Command{Use: "records", Short: "Daily record operations"}

	var date string
	var qty int
	var undone bool
	markCmd := &cobra.Command{
		Use:   "mark HABIT_ID",
		Short: "Mark a habit done (or not done) for a day",
		Long:  "Creates the day's record, or updates it when one already exists for that habit and date.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			habitID, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := newClient(opts)
			if err != nil {
				return err
			}
			if date == "" {
				date = time.Now().Format("2006-01-02")
			}
			payload := map[string]interface{}{
				"habit_id":   habitID,
				"habit_date": date,
				"is_done":    !undone,
			}
			if qty > 0 {
				payload["quantity"] = qty
			}

			var rec record
			raw, err := c.do(cmd.Context(), http.MethodPost, "/api/records", nil, payload, &rec)
			if isStatus(err, http.StatusConflict) {
				raw, err = updateExisting(cmd, c, habitID, date, payload, &rec)
			}
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printRaw(cmd.OutOrStdout(), raw)
			}
			state := "done"
			if !rec.IsDone {
				state = "not done"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (record %d)\n", rec.Name, state, rec.ID)
			return err
		},
	}
	markCmd.Flags().StringVarP(&date, "date", "d", "", "Date YYYY-MM-DD (default today)")
	markCmd.Flags().IntVarP(&qty, "qty", "n", 0, "Quantity for count-based habits")
	markCmd.Flags().BoolVar(&undone, "undone", false, "Mark the day as not done")
	recordsCmd.AddCommand(markCmd)

	return recordsCmd
}

func updateExisting(cmd *cobra.Command, c *client, habitID int64, date string, payload map[string]interface{}, out *record) ([]byte, error) {
	var existing []record
	q := map[string]string{"habit_id": fmt.Sprint(habitID), "start_date": date, "end_date": date}
	if _, err := c.do(cmd.Context(), http.MethodGet, "/api/records", q, nil, &existing); err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, fmt.Errorf("record for habit %d on %s reported as existing but not found", habitID, date)
	}
	return c.do(cmd.Context(), http.MethodPut, fmt.Sprintf("/api/records/%d", existing[0].ID), nil, payload, out)
}
