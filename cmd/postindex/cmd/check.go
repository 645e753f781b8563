package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errCheckFailed = errors.New("some posts failed to load")

func checkCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report every content file that cannot be loaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, corpus, err := e.app.Index(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, fe := range corpus.Errors {
				fmt.Fprintln(out, fe.Error())
			}
			fmt.Fprintf(out, "%d posts, %d errors\n", len(corpus.Posts), len(corpus.Errors))

			if len(corpus.Errors) > 0 {
				return errCheckFailed
			}
			return nil
		},
	}
}
