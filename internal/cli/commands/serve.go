package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qil-lattice/votboard/internal/dashboard"
	"github.com/qil-lattice/votboard/internal/source"
	"github.com/qil-lattice/votboard/internal/ui"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the live dashboard",
		Long: `Start the read-only VOT dashboard.

The dashboard loads runs, VOT metadata and dependency edges once, then
refetches the run table on every change notification and pushes the
re-derived panels to each open browser.`,
		Example: `  # Serve against the local sqlite file
  votboard serve --db votboard.db

  # Serve against postgres on a custom port
  votboard serve --driver postgres --db "postgres://localhost/qil" --port 3000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	AddServeFlags(cmd)
	return cmd
}

// AddServeFlags registers the serve flags on cmd. The root command reuses
// them so that a bare invocation serves. Their values reach the server only
// through the loaded config, where they override the file and environment.
func AddServeFlags(cmd *cobra.Command) {
	cmd.Flags().Int("port", 0, "Port to serve on (default: 8365)")
	cmd.Flags().Bool("dev", false, "Serve assets from disk and reload browsers on change")
}

func runServe(cmd *cobra.Command) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	srcCfg := cc.Cfg.SourceConfig()
	feed, err := source.NewChangeFeed(srcCfg, cc.Logger)
	if err != nil {
		return err
	}

	store := dashboard.NewStore()
	loader := dashboard.NewLoader(cc.Source, feed, store, cc.Logger)

	server := ui.NewServer(ui.Config{
		Store:  store,
		Loader: loader,
		Port:   cc.Cfg.Server.Port,
		Dev:    cc.Cfg.Server.Dev,
		Logger: cc.Logger,
	})

	r := cc.Renderer
	r.Printf("Starting dashboard on http://localhost:%d\n", cc.Cfg.Server.Port)
	r.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
