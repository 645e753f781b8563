package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/templui/postindex/internal/model"
	"github.com/templui/postindex/internal/service"
)

func listCmd(e *env) *cobra.Command {
	var category string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, _, err := e.app.Index(cmd.Context())
			if err != nil {
				return err
			}

			opts := append(e.app.QueryOptions(), service.WithCategory(category))

			if asJSON {
				posts := []*model.Post{}
				for p := range idx.Posts(opts...) {
					posts = append(posts, p)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(posts)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for p := range idx.Posts(opts...) {
				status := ""
				if !p.Published {
					status = "draft"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d min\t%s\t%s\n",
					p.Date.Format("2006-01-02"),
					p.Slug,
					p.DisplayTitle(),
					p.ReadTime(),
					strings.Join(p.Categories, ", "),
					status,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only posts tagged with this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print posts as JSON")
	return cmd
}
