package main

import (
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(opts *options) *cobra.Command {
	categoriesCmd := &cobra.Command{Use: "categories", Short: "Category operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(opts)
			if err != nil {
				return err
			}
			var list []category
			raw, err := c.do(cmd.Context(), http.MethodGet, "/api/categories", nil, nil, &list)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printRaw(cmd.OutOrStdout(), raw)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSLUG")
			for _, cat := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", cat.ID, cat.Name, cat.Slug)
			}
			return tw.Flush()
		},
	}
	categoriesCmd.AddCommand(listCmd)

	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(opts)
			if err != nil {
				return err
			}
			var cat category
			raw, err := c.do(cmd.Context(), http.MethodPost, "/api/categories", nil,
				map[string]interface{}{"name": strings.Join(args, " ")}, &cat)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printRaw(cmd.OutOrStdout(), raw)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created category %d (%s)\n", cat.ID, cat.Slug)
			return err
		},
	}
	categoriesCmd.AddCommand(createCmd)

	return categoriesCmd
}
