package cmd

import (
	"github.com/spf13/cobra"

	"github.com/templui/postindex/internal/app"
	"github.com/templui/postindex/internal/config"
	"github.com/templui/postindex/internal/logger"
)

// env carries flag overrides and the app built from them to every subcommand.
type env struct {
	contentPath string
	storage     string
	drafts      bool

	app   *app.App
	flush func()
}

// initLogger is swapped in tests.
var initLogger = logger.Init

// Execute runs the CLI and flushes the logger whether or not the command failed.
func Execute() error {
	e := &env{}
	return execute(e, newRootCmd(e))
}

func execute(e *env, root *cobra.Command) error {
	defer e.close()
	return root.Execute()
}

func RootCmd() *cobra.Command {
	return newRootCmd(&env{})
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:          "postindex",
		Short:        "Load a directory of blog posts and list them by date",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&e.contentPath, "content", "", "content directory (overrides CONTENT_PATH)")
	flags.StringVar(&e.storage, "storage", "", "storage backend, dir or s3 (overrides STORAGE)")
	flags.BoolVar(&e.drafts, "drafts", false, "include unpublished posts")

	root.AddCommand(listCmd(e))
	root.AddCommand(checkCmd(e))
	root.AddCommand(showCmd(e))
	root.AddCommand(categoriesCmd(e))
	return root
}

func (e *env) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if e.contentPath != "" {
		cfg.ContentPath = e.contentPath
	}
	if e.storage != "" {
		cfg.Storage = e.storage
	}
	if e.drafts {
		cfg.IncludeDrafts = true
	}
	err = cfg.Validate()
	if err != nil {
		return err
	}

	e.flush = initLogger(cmd.ErrOrStderr(), cfg.IsDevelopment(), cfg.SentryDSN)

	e.app, err = app.New(cfg)
	return err
}

func (e *env) close() {
	if e.flush != nil {
		e.flush()
	}
}
