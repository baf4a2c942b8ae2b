package components

import (
	"bytes"
	"context"
	"encoding/json"
	"html"
	"regexp"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qil-lattice/votboard/internal/core"
	"github.com/qil-lattice/votboard/internal/dashboard"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

// attr extracts and unescapes the first value of a data attribute.
func attr(t *testing.T, body, name string) string {
	t.Helper()
	m := regexp.MustCompile(name + `="([^"]*)"`).FindStringSubmatch(body)
	require.NotNil(t, m, "attribute %s not found", name)
	return html.UnescapeString(m[1])
}

func sampleState() dashboard.State {
	return dashboard.State{
		Runs: []core.Run{
			{ID: "a", Day: 1, OK: core.Bool(true), Artifacts: core.ObjectValue(
				core.Member{Key: "report", Value: core.StringValue("https://example.com/r?a=1&b=2")},
			)},
			{ID: "b", Day: 2, OK: core.Bool(false)},
		},
		Vots: []core.Vot{
			{Day: 1, Role: "Gatekeeper", Theme: "Governance"},
			{Day: 2, Role: "Netweaver", Theme: `<Networks & "Flows">`},
		},
		Edges: []core.Edge{{Src: 1, Dst: 2}},
	}
}

func TestPage(t *testing.T) {
	view := dashboard.Build(sampleState(), core.FilterState{})
	body := render(t, Page(PageData{
		Title:   "Dashboard",
		Signals: Signals{ViewID: "view-1", Rev: 3},
		View:    view,
	}))

	assert.True(t, strings.HasPrefix(body, "<!doctype html>"))
	assert.Contains(t, body, "<title>Dashboard - VOT Board</title>")
	assert.Contains(t, body, `data-init="@get('/updates')"`)
	assert.Contains(t, body, `id="ui-content"`)
	assert.NotContains(t, body, "/reload", "reload hook is dev only")

	var signals Signals
	require.NoError(t, json.Unmarshal([]byte(attr(t, body, "data-signals")), &signals))
	assert.Equal(t, Signals{ViewID: "view-1", Rev: 3}, signals)
}

func TestPage_DevAddsReloadHook(t *testing.T) {
	body := render(t, Page(PageData{Title: "x", IsDev: true, View: dashboard.Build(dashboard.State{}, core.FilterState{})}))
	assert.Contains(t, body, `@get('/reload')`)
}

func TestAppContent_HasEveryPanel(t *testing.T) {
	body := render(t, AppContent(dashboard.Build(sampleState(), core.FilterState{})))

	for _, id := range []string{"status-summary", "filter-panel", "heatmap", "graph-panel", "theme-completion", "throughput-panel", "artifacts"} {
		assert.Contains(t, body, `id="`+id+`"`)
	}
	assert.True(t, strings.HasPrefix(body, `<main id="ui-content">`))
}

func TestStatusSummary(t *testing.T) {
	body := render(t, StatusSummary(dashboard.Summary{Total: 365, Done: 12, Open: 353}))
	assert.Contains(t, body, `<div class="card-value">365</div>`)
	assert.Contains(t, body, `<div class="card-value">12</div>`)
	assert.Contains(t, body, `<div class="card-value">353</div>`)
}

func TestFilterPanel(t *testing.T) {
	opts := dashboard.Options{Roles: []string{"A", "B"}, Themes: []string{`X & "Y"`}}
	body := render(t, FilterPanel(opts, core.FilterState{Role: "B"}))

	assert.Equal(t, 2, strings.Count(body, `<option value="">All</option>`))
	assert.Contains(t, body, `<option value="B" selected>B</option>`)
	assert.Contains(t, body, `<option value="A">A</option>`)
	assert.Contains(t, body, `X &amp; &#34;Y&#34;`)
	assert.Contains(t, body, `data-bind:role`)
	assert.Contains(t, body, `data-bind:theme`)
	assert.Equal(t, 2, strings.Count(body, `data-on:change="@get('/filter')"`))
}

func TestHeatmap(t *testing.T) {
	cells := dashboard.HeatmapCells([]core.Run{{Day: 2, OK: core.Bool(true)}}, dashboard.DaySet{1: {}, 2: {}})
	body := render(t, Heatmap(cells))

	assert.Equal(t, core.TotalDays, strings.Count(body, `class="cell `))
	assert.Contains(t, body, "repeat(73, 10px)")
	assert.Contains(t, body, `<div class="cell cell-not-started" title="Day 1"></div>`)
	assert.Contains(t, body, `<div class="cell cell-done" title="Day 2"></div>`)
	assert.Contains(t, body, `<div class="cell cell-excluded" title="Day 3"></div>`)
}

func TestGraphView(t *testing.T) {
	g := dashboard.BuildGraph([]core.Edge{{Src: 1, Dst: 2}}, []core.Run{{Day: 1, OK: core.Bool(true)}})
	body := render(t, GraphView(g))

	var elements []CytoscapeElement
	require.NoError(t, json.Unmarshal([]byte(attr(t, body, "data-graph")), &elements))
	require.Len(t, elements, core.TotalDays+1)
	assert.Equal(t, CytoscapeElement{Data: map[string]string{"id": "n1", "label": "1"}, Classes: "ok"}, elements[0])
	assert.Equal(t, "open", elements[1].Classes)
	assert.Equal(t, map[string]string{"id": "e1_2", "source": "n1", "target": "n2"}, elements[core.TotalDays].Data)
}

func TestThemeCompletion(t *testing.T) {
	body := render(t, ThemeCompletion([]dashboard.ThemeGroup{{Theme: "Unknown", Done: 1, Total: 3, Percent: 33}}))
	assert.Contains(t, body, "Unknown &middot; 33%")
	assert.Contains(t, body, `style="width: 33%"`)

	empty := render(t, ThemeCompletion(nil))
	assert.Contains(t, empty, "No runs match the current filter.")
}

func TestThroughput(t *testing.T) {
	series := make([]int, core.TotalDays)
	series[364] = 4
	body := render(t, Throughput(series))

	var got []int
	require.NoError(t, json.Unmarshal([]byte(attr(t, body, "data-series")), &got))
	assert.Equal(t, series, got)
}

func TestArtifacts(t *testing.T) {
	view := dashboard.Build(sampleState(), core.FilterState{})
	body := render(t, Artifacts(view.Artifacts))

	assert.Contains(t, body, "Day 1 ✅")
	assert.Equal(t, 1, strings.Count(body, "<article"))
	assert.Contains(t, body, `href="https://example.com/r?a=1&amp;b=2"`)
	assert.Contains(t, body, ">Open link</a>")
	assert.Contains(t, body, `rel="noopener noreferrer"`)
}

func TestStateMark(t *testing.T) {
	assert.Equal(t, " ✅", StateMark(core.RunStateDone))
	assert.Equal(t, " ⚠️", StateMark(core.RunStateFailed))
	assert.Equal(t, "", StateMark(core.RunStatePending))
}
