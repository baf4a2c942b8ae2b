// Package source reads runs, VOT metadata and dependency edges from the
// backend database and reports changes to the run table.
package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	// Register the pgx and sqlite database/sql drivers.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/qil-lattice/votboard/internal/core"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultChannel is the NOTIFY channel the run trigger publishes on.
const DefaultChannel = "run_changes"

// Source is the read side of the backend.
type Source interface {
	Runs(ctx context.Context, limit int) ([]core.Run, error)
	Vots(ctx context.Context, limit int) ([]core.Vot, error)
	Edges(ctx context.Context) ([]core.Edge, error)
}

// ChangeFeed delivers change notifications for the run table. Listen blocks
// until ctx is cancelled. It calls onReady each time the subscription is
// (re)established, and onChange once per notification after that. Changes
// committed while no subscription existed are only visible through onReady.
type ChangeFeed interface {
	Listen(ctx context.Context, onReady, onChange func()) error
}

// Config selects and addresses the backend.
type Config struct {
	Driver  string
	URL     string
	Channel string
}

// SQLSource implements Source over database/sql.
type SQLSource struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// NewSQLSource wraps an open database handle.
// If logger is nil, a discard logger is used.
func NewSQLSource(db *sql.DB, logger *slog.Logger) *SQLSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLSource{db: db, logger: logger}
}

// Open connects to the configured backend and verifies the connection.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*SQLSource, error) {
	driverName, dsn, err := driverDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	if cfg.Driver == DriverSQLite {
		// one connection keeps :memory: databases coherent across queries
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	src := NewSQLSource(db, logger)
	src.driver = cfg.Driver
	return src, nil
}

func driverDSN(cfg Config) (string, string, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return "pgx", cfg.URL, nil
	case DriverSQLite:
		dsn := cfg.URL
		if dsn != ":memory:" && !strings.Contains(dsn, "?") {
			dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
		}
		return "sqlite", dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// NewChangeFeed returns the change feed matching the configured driver.
func NewChangeFeed(cfg Config, logger *slog.Logger) (ChangeFeed, error) {
	switch cfg.Driver {
	case DriverPostgres:
		channel := cfg.Channel
		if channel == "" {
			channel = DefaultChannel
		}
		return NewPGListener(cfg.URL, channel, logger), nil
	case DriverSQLite:
		return NewFileWatcher(sqlitePath(cfg.URL), logger), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// DB returns the underlying database handle.
func (s *SQLSource) DB() *sql.DB {
	return s.db
}

// Close closes the database handle.
func (s *SQLSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Runs returns up to limit run records, in whatever order the backend yields them.
func (s *SQLSource) Runs(ctx context.Context, limit int) ([]core.Run, error) {
	query := fmt.Sprintf(`SELECT id, day, ok, started_at, finished_at, artifacts FROM run LIMIT %d`, limit)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	runs := []core.Run{}
	for rows.Next() {
		var (
			run       core.Run
			ok        sql.NullBool
			started   any
			finished  any
			artifacts sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Day, &ok, &started, &finished, &artifacts); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if ok.Valid {
			run.OK = core.Bool(ok.Bool)
		}
		run.StartedAt = toTime(started)
		run.FinishedAt = toTime(finished)
		if artifacts.Valid {
			v, err := core.ParseValue([]byte(artifacts.String))
			if err != nil {
				s.logger.WarnContext(ctx, "ignoring malformed artifacts", "run", run.ID, "error", err)
			} else {
				run.Artifacts = v
			}
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

// Vots returns up to limit VOT metadata rows.
func (s *SQLSource) Vots(ctx context.Context, limit int) ([]core.Vot, error) {
	query := fmt.Sprintf(`SELECT day, role, theme FROM vot LIMIT %d`, limit)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query vots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	vots := []core.Vot{}
	for rows.Next() {
		var (
			vot   core.Vot
			role  sql.NullString
			theme sql.NullString
		)
		if err := rows.Scan(&vot.Day, &role, &theme); err != nil {
			return nil, fmt.Errorf("failed to scan vot: %w", err)
		}
		vot.Role = role.String
		vot.Theme = theme.String
		vots = append(vots, vot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vots: %w", err)
	}
	return vots, nil
}

// Edges returns every dependency edge.
func (s *SQLSource) Edges(ctx context.Context) ([]core.Edge, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT src, dst FROM edge`)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer func() { _ = rows.Close() }()

	edges := []core.Edge{}
	for rows.Next() {
		var e core.Edge
		if err := rows.Scan(&e.Src, &e.Dst); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating edges: %w", err)
	}
	return edges, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// toTime normalises the timestamp representations of both drivers.
func toTime(v any) *time.Time {
	var s string
	switch t := v.(type) {
	case time.Time:
		return &t
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return &parsed
		}
	}
	return nil
}

func sqlitePath(url string) string {
	path, _, _ := strings.Cut(strings.TrimPrefix(url, "file:"), "?")
	return path
}
