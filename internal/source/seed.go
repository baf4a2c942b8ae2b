package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/qil-lattice/votboard/internal/core"
)

// Plan export column headers.
const (
	ColumnDay          = "Day"
	ColumnName         = "VOT Name"
	ColumnTheme        = "Theme"
	ColumnDependencies = "Dependencies (Day #)"
)

// roleSeparator splits a VOT name into its role and title.
const roleSeparator = " – "

const (
	votBatchSize  = 200
	edgeBatchSize = 400
)

// Plan is the VOT metadata and dependency graph read from a plan export.
type Plan struct {
	Vots  []core.Vot
	Edges []core.Edge
}

// ParsePlan reads a plan export. The role of a VOT is the part of its name
// before the first " – ". Names and themes are NFC normalised. Repeated days
// keep the last row and repeated dependencies collapse into one edge.
// Dependency entries that are not plain day numbers are skipped.
func ParsePlan(r io.Reader) (Plan, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Plan{}, errors.New("plan is empty")
		}
		return Plan{}, fmt.Errorf("failed to read plan header: %w", err)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range []string{ColumnDay, ColumnName, ColumnTheme} {
		if _, ok := index[col]; !ok {
			return Plan{}, fmt.Errorf("plan is missing column %q", col)
		}
	}
	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var (
		plan    Plan
		byDay   = map[int]int{}
		seen    = map[core.Edge]bool{}
		lineNum = 1
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		lineNum++
		if err != nil {
			return Plan{}, fmt.Errorf("failed to read plan: %w", err)
		}

		day, err := strconv.Atoi(strings.TrimSpace(field(record, ColumnDay)))
		if err != nil {
			return Plan{}, fmt.Errorf("line %d: invalid day %q", lineNum, field(record, ColumnDay))
		}

		role, _, _ := strings.Cut(norm.NFC.String(field(record, ColumnName)), roleSeparator)
		vot := core.Vot{
			Day:   day,
			Role:  strings.TrimSpace(role),
			Theme: norm.NFC.String(field(record, ColumnTheme)),
		}
		if i, ok := byDay[day]; ok {
			plan.Vots[i] = vot
		} else {
			byDay[day] = len(plan.Vots)
			plan.Vots = append(plan.Vots, vot)
		}

		for _, dep := range strings.Split(field(record, ColumnDependencies), ",") {
			dep = strings.TrimSpace(dep)
			if !isDayNumber(dep) {
				continue
			}
			src, err := strconv.Atoi(dep)
			if err != nil {
				continue
			}
			e := core.Edge{Src: src, Dst: day}
			if !seen[e] {
				seen[e] = true
				plan.Edges = append(plan.Edges, e)
			}
		}
	}
	return plan, nil
}

func isDayNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// SeedPlan writes a plan in one transaction. VOTs are keyed by day and edges
// by their endpoints, so rows already present are replaced rather than
// duplicated. Runs are never touched.
func (s *SQLSource) SeedPlan(ctx context.Context, plan Plan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for batch := range slices.Chunk(plan.Vots, votBatchSize) {
		days := make([]any, 0, len(batch))
		rows := make([]any, 0, 3*len(batch))
		for _, v := range batch {
			days = append(days, v.Day)
			rows = append(rows, v.Day, v.Role, v.Theme)
		}

		del := `DELETE FROM vot WHERE day IN (` + placeholders(len(batch), 1) + `)`
		if _, err := tx.ExecContext(ctx, s.rebind(del), days...); err != nil {
			return fmt.Errorf("failed to replace vots: %w", err)
		}
		ins := `INSERT INTO vot (day, role, theme) VALUES ` + placeholders(len(batch), 3)
		if _, err := tx.ExecContext(ctx, s.rebind(ins), rows...); err != nil {
			return fmt.Errorf("failed to insert vots: %w", err)
		}
	}

	for batch := range slices.Chunk(plan.Edges, edgeBatchSize) {
		args := make([]any, 0, 2*len(batch))
		conds := make([]string, 0, len(batch))
		for _, e := range batch {
			args = append(args, e.Src, e.Dst)
			conds = append(conds, "(src = ? AND dst = ?)")
		}

		del := `DELETE FROM edge WHERE ` + strings.Join(conds, " OR ")
		if _, err := tx.ExecContext(ctx, s.rebind(del), args...); err != nil {
			return fmt.Errorf("failed to replace edges: %w", err)
		}
		ins := `INSERT INTO edge (src, dst) VALUES ` + placeholders(len(batch), 2)
		if _, err := tx.ExecContext(ctx, s.rebind(ins), args...); err != nil {
			return fmt.Errorf("failed to insert edges: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit plan: %w", err)
	}
	s.logger.InfoContext(ctx, "plan seeded", "vots", len(plan.Vots), "edges", len(plan.Edges))
	return nil
}

// placeholders returns rows comma separated groups of width "?" markers.
// A width of one yields bare markers.
func placeholders(rows, width int) string {
	group := strings.TrimSuffix(strings.Repeat("?, ", width), ", ")
	if width > 1 {
		group = "(" + group + ")"
	}
	return strings.TrimSuffix(strings.Repeat(group+", ", rows), ", ")
}

// rebind rewrites "?" markers into the numbered form pgx expects.
func (s *SQLSource) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
