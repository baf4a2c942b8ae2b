package board

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/moogar0880/problems"

	"github.com/qil-lattice/votboard/internal/core"
	"github.com/qil-lattice/votboard/internal/dashboard"
)

// ProblemMediaType is the content type of RFC 7807 error bodies.
const ProblemMediaType = "application/problem+json"

// DashboardJSON returns the derived view for the role and theme query parameters.
func (h *Handlers) DashboardJSON(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := core.FilterState{Role: q.Get("role"), Theme: q.Get("theme")}
	h.writeJSON(w, r, dashboard.Build(h.store.Snapshot(), filter))
}

// DayJSON returns everything known about one day.
func (h *Handlers) DayJSON(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "day")
	day, err := strconv.Atoi(raw)
	if err != nil {
		h.writeProblem(w, r, http.StatusBadRequest, "validation_error",
			fmt.Sprintf("day %q is not an integer", raw))
		return
	}
	if day < 1 || day > core.TotalDays {
		h.writeProblem(w, r, http.StatusNotFound, "not_found",
			fmt.Sprintf("day %d is outside 1..%d", day, core.TotalDays))
		return
	}

	h.writeJSON(w, r, buildDayDetail(h.store.Snapshot(), day))
}

// Healthz reports liveness and the size of the loaded state.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	state := h.store.Snapshot()
	h.writeJSON(w, r, Health{
		OK:      true,
		Runs:    len(state.Runs),
		Vots:    len(state.Vots),
		Edges:   len(state.Edges),
		Streams: h.notifier.Len(),
		Time:    time.Now().UTC(),
	})
}

func buildDayDetail(state dashboard.State, day int) DayDetail {
	d := DayDetail{
		Day:       day,
		Vots:      []core.Vot{},
		Runs:      []core.Run{},
		Blocks:    []int{},
		BlockedBy: []int{},
	}
	for _, v := range state.Vots {
		if v.Day == day {
			if len(d.Vots) == 0 {
				d.Theme = v.Theme
			}
			d.Vots = append(d.Vots, v)
		}
	}
	for _, r := range state.Runs {
		if r.Day == day {
			d.Runs = append(d.Runs, r)
		}
	}
	for _, e := range state.Edges {
		if e.Src == day {
			d.Blocks = append(d.Blocks, e.Dst)
		}
		if e.Dst == day {
			d.BlockedBy = append(d.BlockedBy, e.Src)
		}
	}
	d.State = dashboard.HeatmapCells(d.Runs, nil)[day-1].State
	return d
}

func (h *Handlers) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode response", "path", r.URL.Path, "error", err)
	}
}

func (h *Handlers) writeProblem(w http.ResponseWriter, r *http.Request, status int, kind, detail string) {
	problem := problems.NewStatusProblem(status).
		WithInstance(r.URL.Path).
		WithType(kind).
		WithDetail(detail)

	w.Header().Set("Content-Type", ProblemMediaType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode problem", "path", r.URL.Path, "error", err)
	}
}
