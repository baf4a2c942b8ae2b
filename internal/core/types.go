// Package core defines the shared types for the VOT board: runs, VOT metadata,
// dependency edges and the filter applied by a dashboard view.
package core

import "time"

// TotalDays is the fixed length of the tracking cycle. The day axis is always [1, TotalDays].
const TotalDays = 365

// RunState is the tri-valued completion state of a run.
type RunState string

// Run states.
const (
	RunStateDone    RunState = "done"
	RunStateFailed  RunState = "failed"
	RunStatePending RunState = "pending"
)

// Run is the execution record for one tracked day.
type Run struct {
	ID         string     `json:"id"`
	Day        int        `json:"day"`
	OK         *bool      `json:"ok"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Artifacts  Value      `json:"artifacts"`
}

// Done reports whether the run completed successfully. Only an explicit true counts.
func (r Run) Done() bool {
	return r.OK != nil && *r.OK
}

// State maps the nullable ok column to a RunState.
func (r Run) State() RunState {
	switch {
	case r.OK == nil:
		return RunStatePending
	case *r.OK:
		return RunStateDone
	default:
		return RunStateFailed
	}
}

// Vot is the descriptive metadata for a day. Empty Role or Theme means the column was NULL.
type Vot struct {
	Day   int    `json:"day"`
	Role  string `json:"role,omitempty"`
	Theme string `json:"theme,omitempty"`
}

// Edge is a directed dependency between two days. Days are not validated.
type Edge struct {
	Src int `json:"src"`
	Dst int `json:"dst"`
}

// FilterState is the role/theme selection of a single dashboard view.
// An empty field leaves that dimension unconstrained.
type FilterState struct {
	Role  string `json:"role"`
	Theme string `json:"theme"`
}

// IsZero reports whether no filter is active.
func (f FilterState) IsZero() bool {
	return f.Role == "" && f.Theme == ""
}

// Bool returns a pointer to b. Handy for building runs in code.
func Bool(b bool) *bool {
	return &b
}
