// Package cli implements the askhr command-line tool: ask questions, list
// policy sections, print workforce statistics and manage the data files.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garyellow/askhr-go/internal/app"
	"github.com/garyellow/askhr-go/internal/config"
	"github.com/garyellow/askhr-go/internal/logger"
	"github.com/garyellow/askhr-go/internal/storage"
)

// App holds what every command needs.
type App struct {
	Config *config.Config
	Logger *logger.Logger
}

// NewRootCmd creates the top-level "askhr" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "askhr",
		Short:         "HR assistant: employee records, policy and statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAskCmd(a),
		newSectionsCmd(a),
		newStatsCmd(a),
		newImportCmd(a),
		newCheckCmd(a),
		newPublishCmd(a),
	)
	return root
}

// session is an open database plus the engine built on it.
type session struct {
	db     *storage.DB
	engine *app.Engine
}

func (s *session) Close() {
	_ = s.engine.Close()
	_ = s.db.Close()
}

func (a *App) open(ctx context.Context) (*session, error) {
	db, err := storage.New(ctx, a.Config.SQLitePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	engine, err := app.NewEngine(ctx, a.Config, app.EngineDeps{DB: db, Logger: a.Logger})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &session{db: db, engine: engine}, nil
}
