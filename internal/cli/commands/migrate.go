package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qil-lattice/votboard/internal/source"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	var versionOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the backend schema",
		Long: `Apply the embedded schema migrations for the configured driver.

Creates the run, vot and edge tables. On postgres it also installs the
trigger that publishes run changes on the notification channel. The
dashboard itself never writes to the backend.`,
		Example: `  # Create the schema in a local sqlite file
  votboard migrate --db votboard.db

  # Print the current schema version
  votboard migrate --version-only`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			driver := cc.Cfg.Database.Driver

			if !versionOnly {
				if err := source.Migrate(ctx, cc.Source.DB(), driver, cc.Logger); err != nil {
					return err
				}
			}

			version, err := source.MigrationVersion(ctx, cc.Source.DB(), driver)
			if err != nil {
				return fmt.Errorf("failed to read schema version: %w", err)
			}
			cc.Renderer.Printf("Schema version: %d (%s)\n", version, driver)
			return nil
		},
	}

	cmd.Flags().BoolVar(&versionOnly, "version-only", false, "Print the schema version without migrating")
	return cmd
}
