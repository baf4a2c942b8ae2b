package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/qil-lattice/votboard/internal/cli/output"
	"github.com/qil-lattice/votboard/internal/source"
)

// SeedOutput is the structured result of the seed command.
type SeedOutput struct {
	File  string `json:"file" yaml:"file"`
	Vots  int    `json:"vots" yaml:"vots"`
	Edges int    `json:"edges" yaml:"edges"`
	Roles int    `json:"roles" yaml:"roles"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load VOT metadata and dependencies from a plan CSV",
		Long: `Load the VOT plan export into the vot and edge tables.

The plan must carry the columns "Day", "VOT Name" and "Theme". The role of
each day is the part of its name before " – ". The optional column
"Dependencies (Day #)" lists the days it depends on, comma separated.

Existing rows for the same day or edge are replaced. Runs are never touched.
Run "votboard migrate" first on an empty database.`,
		Example: `  # Load the plan into a local sqlite file
  votboard seed --csv QIL_365_VOT_Metrics_Plan.csv --db votboard.db

  # Load into postgres and report as JSON
  votboard seed --csv plan.csv --driver postgres --db "$DATABASE_URL" -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, csvPath)
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Path to the VOT plan CSV")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

func runSeed(cmd *cobra.Command, csvPath string) error {
	f, err := os.Open(csvPath) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return fmt.Errorf("failed to open plan: %w", err)
	}
	defer func() { _ = f.Close() }()

	plan, err := source.ParsePlan(f)
	if err != nil {
		return fmt.Errorf("%s: %w", csvPath, err)
	}

	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cc.Source.SeedPlan(cmd.Context(), plan); err != nil {
		return err
	}

	roles := map[string]bool{}
	for _, v := range plan.Vots {
		if v.Role != "" {
			roles[v.Role] = true
		}
	}
	absPath, _ := filepath.Abs(csvPath)
	out := &SeedOutput{File: absPath, Vots: len(plan.Vots), Edges: len(plan.Edges), Roles: len(roles)}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeYAML:
		return r.YAML(out)
	case output.ModeMarkdown:
		return renderSeedMarkdown(r, out)
	default:
		return renderSeedText(r, out)
	}
}

func renderSeedText(r *output.Renderer, out *SeedOutput) error {
	styles := r.Styles()

	r.Println(styles.Header1.Render("Plan seeded"))
	t := r.Table()
	t.AppendHeader(table.Row{"Table", "Rows"})
	t.AppendRow(table.Row{"vot", out.Vots})
	t.AppendRow(table.Row{"edge", out.Edges})
	t.Render()
	r.Println(styles.Muted.Render(fmt.Sprintf("   %d roles from %s", out.Roles, out.File)))
	return nil
}

func renderSeedMarkdown(r *output.Renderer, out *SeedOutput) error {
	r.Println("# Plan seeded")
	r.Println("")
	r.Printf("- **File**: %s\n", out.File)
	r.Printf("- **VOTs**: %d\n", out.Vots)
	r.Printf("- **Edges**: %d\n", out.Edges)
	r.Printf("- **Roles**: %d\n", out.Roles)
	return nil
}
