package components

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/qil-lattice/votboard/internal/dashboard"
	"github.com/qil-lattice/votboard/internal/ui/resources"
)

// Browser-side renderers. The graph layout and chart stay opaque to the server.
const (
	datastarSrc  = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"
	cytoscapeSrc = "https://cdn.jsdelivr.net/npm/cytoscape@3.30.2/dist/cytoscape.min.js"
	chartjsSrc   = "https://cdn.jsdelivr.net/npm/chart.js@4.4.4/dist/chart.umd.min.js"
)

// ContentID is the element every SSE update patches.
const ContentID = "ui-content"

// Signals is the datastar signal set of one browser view.
type Signals struct {
	ViewID string `json:"viewId"`
	Role   string `json:"role"`
	Theme  string `json:"theme"`
	// Rev is the store version the page was rendered from.
	Rev uint64 `json:"rev"`
}

// PageData holds everything the full page render needs.
type PageData struct {
	Title   string
	IsDev   bool
	Signals Signals
	View    dashboard.View
}

// Page renders the complete document with the dashboard already in place.
// The browser then opens /updates and only receives patches.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(data.Title)
		h.raw(` - VOT Board</title>`)
		h.rawf(`<link rel="stylesheet" href="%s">`, resources.StaticPath("dashboard.css"))
		h.rawf(`<script type="module" src="%s"></script>`, datastarSrc)
		h.rawf(`<script src="%s"></script>`, cytoscapeSrc)
		h.rawf(`<script src="%s"></script>`, chartjsSrc)
		h.rawf(`<script defer src="%s"></script>`, resources.StaticPath("dashboard.js"))
		h.raw(`</head><body data-signals="`)
		h.jsonAttr(data.Signals)
		h.raw(`" data-init="@get('/updates')">`)
		if data.IsDev {
			h.raw(`<div id="hotreload" data-init="@get('/reload')"></div>`)
		}
		h.raw(`<header class="page-header"><h1>QIL &ndash; Live Dashboard</h1>`)
		h.raw(`<p class="subtitle">Status, filters, DAG, and artifacts (read-only)</p></header>`)
		h.component(ctx, AppContent(data.View))
		h.raw(`</body></html>`)
		return h.err
	})
}

// AppContent is the patch target for live updates. It holds every panel.
func AppContent(view dashboard.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.rawf(`<main id="%s">`, ContentID)
		h.component(ctx, StatusSummary(view.Summary))
		h.component(ctx, FilterPanel(view.Options, view.Filter))
		h.raw(`<div class="panels">`)
		h.component(ctx, Heatmap(view.Heatmap))
		h.component(ctx, GraphView(view.Graph))
		h.component(ctx, ThemeCompletion(view.Themes))
		h.component(ctx, Throughput(view.Throughput))
		h.component(ctx, Artifacts(view.Artifacts))
		h.raw(`</div></main>`)
		return h.err
	})
}
