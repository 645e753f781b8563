package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/templui/postindex/internal/markdown"
)

func showCmd(e *env) *cobra.Command {
	var html bool

	cmd := &cobra.Command{
		Use:   "show SLUG|PATH",
		Short: "Print one post by slug, or by path when slugs collide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, _, err := e.app.Index(cmd.Context())
			if err != nil {
				return err
			}

			post, err := idx.Post(args[0], e.app.QueryOptions()...)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if html {
				rendered, err := markdown.NewParser().Render([]byte(post.Body))
				if err != nil {
					return err
				}
				_, err = out.Write(rendered)
				return err
			}

			fm, err := post.Frontmatter()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "%s%s", fm, post.Body)
			return err
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "render the body to HTML")
	return cmd
}
