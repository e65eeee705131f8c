// Command skillradar edits and renders a skill radar from the terminal,
// sharing the browser build's document format and snapshot links.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	hpos "github.com/hack-pad/hackpadfs/os"
	"github.com/spf13/cobra"

	"github.com/kittclouds/skillradar/internal/app"
	"github.com/kittclouds/skillradar/internal/config"
	"github.com/kittclouds/skillradar/internal/store"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	statePath  string
	backend    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:          "skillradar",
		Short:        "Score tasks against competencies and chart the result",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "skillradar.yaml", "Config file (missing file = defaults)")
	rootCmd.PersistentFlags().StringVar(&opts.statePath, "state", "", "State file or database (default from config)")
	rootCmd.PersistentFlags().StringVar(&opts.backend, "backend", "", "State backend: sqlite or file (default from config)")

	rootCmd.AddCommand(
		newLevelsCmd(opts),
		newRenderCmd(opts),
		newLinkCmd(opts),
		newExportCmd(opts),
		newDecodeCmd(opts),
		newDemoCmd(opts),
		newAddTaskCmd(opts),
		newAddCompetencyCmd(opts),
		newScoreCmd(opts),
		newSimilarCmd(opts),
	)
	return rootCmd
}

// config resolves the configuration, letting flags win over file and env.
func (o *rootOptions) config() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	if o.backend != "" {
		switch o.backend {
		case config.BackendSQLite, config.BackendFile:
			cfg.Storage.Backend = o.backend
		default:
			return cfg, fmt.Errorf("unknown backend %q (want %q or %q)", o.backend, config.BackendSQLite, config.BackendFile)
		}
	}
	if o.statePath != "" {
		cfg.Storage.Path = o.statePath
	} else if o.backend == config.BackendFile && filepath.Ext(cfg.Storage.Path) == ".db" {
		cfg.Storage.Path = "skillradar.json"
	}
	return cfg, nil
}

// openPersister opens the configured backend.
func openPersister(cfg config.Config) (store.Persister, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		abs, err := filepath.Abs(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		fsys := hpos.NewFS()
		path, err := fsys.FromOSPath(abs)
		if err != nil {
			return nil, fmt.Errorf("state path %s: %w", cfg.Storage.Path, err)
		}
		return store.NewFileStore(fsys, path), nil
	default:
		return store.NewSQLiteStoreWithDSN("file:"+cfg.Storage.Path, cfg.Storage.Key)
	}
}

// workspace is an opened state document plus the session over it.
type workspace struct {
	cfg       config.Config
	logger    *slog.Logger
	persister store.Persister
	session   *app.Session
}

// open loads the saved document. A missing document starts empty.
func (o *rootOptions) open(ctx context.Context) (*workspace, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger()
	p, err := openPersister(cfg)
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}
	st := store.Open(ctx, p, store.New, logger)

	// Saves go through save() so that I/O errors reach the exit status.
	s := app.New(st, nil, logger)
	s.SetSubject(cfg.Subject)
	return &workspace{cfg: cfg, logger: logger, persister: p, session: s}, nil
}

func (w *workspace) save(ctx context.Context) error {
	if err := w.persister.Save(ctx, w.session.Store().Document()); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (w *workspace) Close() error {
	return w.persister.Close()
}

// ignoreEmpty turns a rejected empty name into a no-op.
func ignoreEmpty(err error) error {
	if errors.Is(err, store.ErrEmptyName) {
		return nil
	}
	return err
}
