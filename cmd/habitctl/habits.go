package main

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newHabitsCmd(opts *options) *cobra.Command {
	habitsCmd := &cobra.Command{Use: "habits", Short: "Habit operations"}

	// list
	var archived bool
	var query string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List habits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(opts)
			if err != nil {
				return err
			}
			q := map[string]string{}
			if archived {
				q["include_archived"] = "true"
			}
			if query != "" {
				q["q"] = query
			}
			var list []habit
			raw, err := c.do(cmd.Context(), http.MethodGet, "/api/habits", q, nil, &list)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printRaw(cmd.OutOrStdout(), raw)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSLUG\tORDER\tARCHIVED")
			for _, h := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%t\n", h.ID, h.Name, h.Slug, h.DisplayOrder, h.Archived)
			}
			return tw.Flush()
		},
	}
	listCmd.Flags().BoolVar(&archived, "archived", false, "Include archived habits")
	listCmd.Flags().StringVarP(&query, "query", "q", "", "Free-text filter on name and slug")
	habitsCmd.AddCommand(listCmd)

	// create
	var categoryID int64
	var order int
	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a habit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(opts)
			if err != nil {
				return err
			}
			payload := map[string]interface{}{"name": strings.Join(args, " "), "display_order": order}
			if categoryID > 0 {
				payload["category_id"] = categoryID
			}
			var h habit
			raw, err := c.do(cmd.Context(), http.MethodPost, "/api/habits", nil, payload, &h)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printRaw(cmd.OutOrStdout(), raw)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created habit %d (%s)\n", h.ID, h.Slug)
			return err
		},
	}
	createCmd.Flags().Int64Var(&categoryID, "category", 0, "Category ID")
	createCmd.Flags().IntVar(&order, "order", 0, "Display order")
	habitsCmd.AddCommand(createCmd)

	// archive
	var unarchive bool
	archiveCmd := &cobra.Command{
		Use:   "archive HABIT_ID",
		Short: "Archive (or with --undo, restore) a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := newClient(opts)
			if err != nil {
				return err
			}
			path := fmt.Sprintf("/api/habits/%d", id)
			var h habit
			if _, err := c.do(cmd.Context(), http.MethodGet, path, nil, nil, &h); err != nil {
				return err
			}
			// PUT replaces every field, so resend the current values.
			payload := map[string]interface{}{
				"name":          h.Name,
				"category_id":   h.CategoryID,
				"display_order": h.DisplayOrder,
				"archived":      !unarchive,
			}
			raw, err := c.do(cmd.Context(), http.MethodPut, path, nil, payload, &h)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printRaw(cmd.OutOrStdout(), raw)
			}
			state := "archived"
			if !h.Archived {
				state = "restored"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s habit %d (%s)\n", state, h.ID, h.Name)
			return err
		},
	}
	archiveCmd.Flags().BoolVar(&unarchive, "undo", false, "Restore an archived habit")
	habitsCmd.AddCommand(archiveCmd)

	// week
	var refDate string
	weekCmd := &cobra.Command{
		Use:   "week [HABIT_ID]",
		Short: "Show the Monday-start week containing --date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(opts)
			if err != nil {
				return err
			}
			path := "/api/habits/weekly-status"
			if len(args) == 1 {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				path = fmt.Sprintf("/api/habits/%d/weekly-status", id)
			}
			q := map[string]string{}
			if refDate != "" {
				q["reference_date"] = refDate
			}
			var weeks []habitWeek
			raw, err := c.do(cmd.Context(), http.MethodGet, path, q, nil, &weeks)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printRaw(cmd.OutOrStdout(), raw)
			}
			return renderWeeks(cmd.OutOrStdout(), weeks)
		},
	}
	weekCmd.Flags().StringVarP(&refDate, "date", "d", "", "Reference date YYYY-MM-DD (default today)")
	habitsCmd.AddCommand(weekCmd)

	return habitsCmd
}

// renderWeeks prints one row per habit; done days show their quantity or "x".
func renderWeeks(out io.Writer, weeks []habitWeek) error {
	if len(weeks) == 0 {
		_, err := fmt.Fprintln(out, "no habits")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	header := []string{"HABIT"}
	for _, d := range weeks[0].Week {
		header = append(header, d.Date[5:])
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, w := range weeks {
		row := []string{w.Name}
		for _, d := range w.Week {
			row = append(row, cell(d))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func cell(d dayStatus) string {
	switch {
	case !d.IsDone:
		return "."
	case d.Quantity != nil:
		return strconv.Itoa(*d.Quantity)
	default:
		return "x"
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func printRaw(out io.Writer, raw []byte) error {
	_, err := fmt.Fprintln(out, strings.TrimSpace(string(raw)))
	return err
}
