package components

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/qil-lattice/votboard/internal/core"
	"github.com/qil-lattice/votboard/internal/dashboard"
)

// StatusSummary renders the three count cards.
func StatusSummary(s dashboard.Summary) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="status-summary" class="status-cards">`)
		for _, card := range []struct {
			label string
			value int
		}{
			{"TOTAL VOTs", s.Total},
			{"DONE", s.Done},
			{"OPEN", s.Open},
		} {
			h.raw(`<div class="card"><div class="card-label">`)
			h.text(card.label)
			h.rawf(`</div><div class="card-value">%d</div></div>`, card.value)
		}
		h.raw(`</section>`)
		return h.err
	})
}

// FilterPanel renders the role and theme selects. Each change sends the whole
// filter through the bound signals.
func FilterPanel(opts dashboard.Options, filter core.FilterState) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="filter-panel" class="filters">`)
		writeSelect(h, "Role", "role", opts.Roles, filter.Role)
		writeSelect(h, "Theme", "theme", opts.Themes, filter.Theme)
		h.raw(`</section>`)
		return h.err
	})
}

func writeSelect(h *htmlWriter, label, signal string, values []string, selected string) {
	h.raw(`<label class="filter">`)
	h.text(label)
	h.rawf(`<select data-bind:%s data-on:change="@get('/filter')">`, signal)
	h.raw(`<option value="">All</option>`)
	for _, v := range values {
		h.raw(`<option value="`)
		h.text(v)
		h.raw(`"`)
		if v == selected {
			h.raw(` selected`)
		}
		h.raw(`>`)
		h.text(v)
		h.raw(`</option>`)
	}
	h.raw(`</select></label>`)
}

// Heatmap renders one cell per day in a fixed-width grid.
func Heatmap(cells []dashboard.Cell) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="heatmap" class="panel"><h3>Year Heatmap</h3>`)
		h.rawf(`<div class="heatmap" style="grid-template-columns: repeat(%d, 10px)">`, dashboard.HeatmapColumns)
		for _, c := range cells {
			h.rawf(`<div class="cell cell-%s" title="Day %d"></div>`, c.State, c.Day)
		}
		h.raw(`</div></section>`)
		return h.err
	})
}

// GraphView hands the graph elements to the browser-side layout through the
// data-graph attribute.
func GraphView(g dashboard.Graph) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="graph-panel" class="panel"><h3>Dependency Graph</h3>`)
		h.raw(`<div id="graph" class="graph" data-graph="`)
		h.jsonAttr(CytoscapeElements(g))
		h.raw(`"></div></section>`)
		return h.err
	})
}

// CytoscapeElement is one entry of a cytoscape elements array.
type CytoscapeElement struct {
	Data    map[string]string `json:"data"`
	Classes string            `json:"classes,omitempty"`
}

// CytoscapeElements lists nodes first, then edges.
func CytoscapeElements(g dashboard.Graph) []CytoscapeElement {
	out := make([]CytoscapeElement, 0, len(g.Nodes)+len(g.Edges))
	for _, n := range g.Nodes {
		out = append(out, CytoscapeElement{
			Data:    map[string]string{"id": n.ID, "label": n.Label},
			Classes: n.Class,
		})
	}
	for _, e := range g.Edges {
		out = append(out, CytoscapeElement{
			Data: map[string]string{"id": e.ID, "source": e.Source, "target": e.Target},
		})
	}
	return out
}

// ThemeCompletion renders one progress bar per theme.
func ThemeCompletion(groups []dashboard.ThemeGroup) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="theme-completion" class="panel"><h3>Theme Completion</h3>`)
		if len(groups) == 0 {
			h.raw(`<p class="empty">No runs match the current filter.</p>`)
		}
		for _, g := range groups {
			h.raw(`<div class="theme"><div class="theme-label">`)
			h.text(g.Theme)
			h.rawf(` &middot; %d%%</div>`, g.Percent)
			h.rawf(`<div class="bar"><div class="bar-fill" style="width: %d%%"></div></div></div>`, g.Percent)
		}
		h.raw(`</section>`)
		return h.err
	})
}

// Throughput renders the canvas of the cumulative done chart.
func Throughput(series []int) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="throughput-panel" class="panel"><h3>Throughput (Cumulative)</h3>`)
		h.raw(`<div class="chart"><canvas id="throughput" data-series="`)
		h.jsonAttr(series)
		h.raw(`"></canvas></div></section>`)
		return h.err
	})
}

// Artifacts renders the artifact viewer.
func Artifacts(entries []dashboard.ArtifactEntry) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="artifacts" class="panel"><h3>Artifacts</h3>`)
		h.rawf(`<div class="hint">Listing the first %d runs that have artifacts</div>`, dashboard.ArtifactLimit)
		h.raw(`<div class="artifact-list">`)
		for _, e := range entries {
			h.raw(`<article class="artifact" id="artifact-`)
			h.text(e.RunID)
			h.raw(`"><div class="artifact-title">`)
			h.text(DayLabel(e.Day) + StateMark(e.State))
			h.raw(`</div>`)
			h.raw(`<pre>`)
			h.text(e.Pretty)
			h.raw(`</pre><div class="links">`)
			for _, link := range e.Links {
				h.raw(`<a href="`)
				h.text(link)
				h.raw(`" target="_blank" rel="noopener noreferrer">Open link</a>`)
			}
			h.raw(`</div></article>`)
		}
		h.raw(`</div></section>`)
		return h.err
	})
}

// StateMark is the status glyph shown next to a day. Pending runs have none.
func StateMark(s core.RunState) string {
	switch s {
	case core.RunStateDone:
		return " ✅"
	case core.RunStateFailed:
		return " ⚠️"
	default:
		return ""
	}
}

// DayLabel formats a day number for headings.
func DayLabel(day int) string {
	return "Day " + strconv.Itoa(day)
}
