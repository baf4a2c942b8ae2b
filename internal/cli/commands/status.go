package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/qil-lattice/votboard/internal/cli/output"
	"github.com/qil-lattice/votboard/internal/core"
	"github.com/qil-lattice/votboard/internal/dashboard"
)

// StatusOptions holds options for the status command.
type StatusOptions struct {
	Role  string
	Theme string
}

// StatusOutput is the structured result of the status command.
type StatusOutput struct {
	Filter  core.FilterState       `json:"filter" yaml:"filter"`
	Summary StatusSummary          `json:"summary" yaml:"summary"`
	Themes  []dashboard.ThemeGroup `json:"themes" yaml:"themes"`
	Days    int                    `json:"included_days" yaml:"included_days"`
	Options dashboard.Options      `json:"options" yaml:"options"`
}

// StatusSummary mirrors dashboard.Summary with yaml keys.
type StatusSummary struct {
	Total int `json:"total" yaml:"total"`
	Done  int `json:"done" yaml:"done"`
	Open  int `json:"open" yaml:"open"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand() *cobra.Command {
	opts := &StatusOptions{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the current completion summary",
		Long: `Fetch the backend once and print the status counts and the
completion of each theme, optionally narrowed by role and theme.`,
		Example: `  # Summary for every day
  votboard status

  # Theme completion for one role, as JSON
  votboard status --role Engineer -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Role, "role", "", "Only count days with this role")
	cmd.Flags().StringVar(&opts.Theme, "theme", "", "Only count days with this theme")
	return cmd
}

func runStatus(cmd *cobra.Command, opts *StatusOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	store := dashboard.NewStore()
	dashboard.NewLoader(cc.Source, nil, store, cc.Logger).Load(cmd.Context())

	filter := core.FilterState{Role: opts.Role, Theme: opts.Theme}
	view := dashboard.Build(store.Snapshot(), filter)

	out := &StatusOutput{
		Filter: filter,
		Summary: StatusSummary{
			Total: view.Summary.Total,
			Done:  view.Summary.Done,
			Open:  view.Summary.Open,
		},
		Themes:  view.Themes,
		Days:    len(view.IncludedDays),
		Options: view.Options,
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeYAML:
		return r.YAML(out)
	case output.ModeMarkdown:
		return renderStatusMarkdown(r, out)
	default:
		return renderStatusText(r, out)
	}
}

// filterLabel names the active filter. Role and theme values are printed as
// stored, since filtering matches them exactly.
func filterLabel(f core.FilterState) string {
	if f.IsZero() {
		return "all days"
	}
	var parts []string
	if f.Role != "" {
		parts = append(parts, "role "+f.Role)
	}
	if f.Theme != "" {
		parts = append(parts, "theme "+f.Theme)
	}
	return strings.Join(parts, ", ")
}

func renderStatusText(r *output.Renderer, out *StatusOutput) error {
	styles := r.Styles()

	r.Println(styles.Header1.Render("QIL VOT Status"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 40)))
	r.Printf("   Total: %d | %s | Open: %d\n",
		out.Summary.Total,
		styles.Success.Render(fmt.Sprintf("Done: %d", out.Summary.Done)),
		out.Summary.Open)
	r.Println("")

	r.Println(styles.Header2.Render("Theme completion"))
	r.Println(styles.Muted.Render(fmt.Sprintf("   %s (%d days)", filterLabel(out.Filter), out.Days)))
	if len(out.Themes) == 0 {
		r.Println(styles.Muted.Render("   No runs match the current filter."))
		return nil
	}

	t := r.Table()
	t.AppendHeader(table.Row{"Theme", "Done", "Runs", "Complete"})
	for _, g := range out.Themes {
		t.AppendRow(table.Row{g.Theme, g.Done, g.Total, fmt.Sprintf("%d%%", g.Percent)})
	}
	t.Render()
	return nil
}

func renderStatusMarkdown(r *output.Renderer, out *StatusOutput) error {
	r.Println("# QIL VOT Status")
	r.Println("")
	r.Printf("- **Total**: %d\n", out.Summary.Total)
	r.Printf("- **Done**: %d\n", out.Summary.Done)
	r.Printf("- **Open**: %d\n", out.Summary.Open)
	r.Println("")

	r.Println("## Theme completion")
	r.Println("")
	r.Printf("_%s (%d days)_\n", filterLabel(out.Filter), out.Days)
	r.Println("")
	if len(out.Themes) == 0 {
		r.Println("No runs match the current filter.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.AppendHeader(table.Row{"Theme", "Done", "Runs", "Complete"})
	for _, g := range out.Themes {
		t.AppendRow(table.Row{g.Theme, g.Done, g.Total, fmt.Sprintf("%d%%", g.Percent)})
	}
	t.RenderMarkdown()
	return nil
}
