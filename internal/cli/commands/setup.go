package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/qil-lattice/votboard/internal/cli/config"
	"github.com/qil-lattice/votboard/internal/cli/output"
	"github.com/qil-lattice/votboard/internal/source"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Source   *source.SQLSource
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with an open source and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc := NewCommandContextWithoutSource(cmd)

	src, err := source.Open(cmd.Context(), cc.Cfg.SourceConfig(), cc.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open source: %w", err)
	}
	cc.Source = src

	cleanup := func() {
		_ = src.Close()
	}
	return cc, cleanup, nil
}

// NewCommandContextWithoutSource creates a CommandContext without a database.
func NewCommandContextWithoutSource(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}
