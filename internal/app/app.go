package app

import (
	"context"
	"fmt"

	"github.com/templui/postindex/internal/config"
	"github.com/templui/postindex/internal/service"
	"github.com/templui/postindex/internal/storage"
)

type App struct {
	Cfg     *config.Config
	Storage storage.Storage
	Loader  *service.Loader
}

func New(cfg *config.Config) (*App, error) {
	store, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return &App{
		Cfg:     cfg,
		Storage: store,
		Loader:  service.NewLoader(store, service.WithWorkers(cfg.Workers)),
	}, nil
}

// Index loads the corpus and builds its index. Per-file failures are in the
// returned corpus, not in err.
func (a *App) Index(ctx context.Context) (*service.Index, *service.Corpus, error) {
	corpus, err := a.Loader.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	return corpus.Index(), corpus, nil
}

// QueryOptions returns the index options implied by the config.
func (a *App) QueryOptions() []service.QueryOption {
	var opts []service.QueryOption
	if a.Cfg.IncludeDrafts {
		opts = append(opts, service.WithDrafts())
	}
	return opts
}
