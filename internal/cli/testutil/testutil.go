// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qil-lattice/votboard/internal/cli/output"
	"github.com/qil-lattice/votboard/internal/source"
	"github.com/qil-lattice/votboard/internal/testutil"
)

// SeedStatements fill a fresh schema with three VOTs and three runs: day 1
// done, day 2 failed and day 3 pending.
var SeedStatements = []string{
	`INSERT INTO vot (day, role, theme) VALUES (1, 'engineer', 'build'), (2, 'engineer', 'ops'), (3, 'analyst', 'build')`,
	`INSERT INTO run (day, ok, artifacts) VALUES (1, 1, '{"report": "https://example.com/1"}')`,
	`INSERT INTO run (day, ok, artifacts) VALUES (2, 0, '{}')`,
	`INSERT INTO run (day, ok, artifacts) VALUES (3, NULL, '{}')`,
	`INSERT INTO edge (src, dst) VALUES (1, 2), (2, 3)`,
}

// SetupTestDatabase creates a migrated sqlite file holding SeedStatements
// and returns its path.
func SetupTestDatabase(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "votboard.db")
	ctx := context.Background()
	logger := testutil.NewTestLogger(t)

	src, err := source.Open(ctx, source.Config{Driver: source.DriverSQLite, URL: path}, logger)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	require.NoError(t, source.Migrate(ctx, src.DB(), source.DriverSQLite, logger))
	for _, stmt := range SeedStatements {
		_, err := src.DB().ExecContext(ctx, stmt)
		require.NoError(t, err, stmt)
	}
	return path
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if n := strings.Count(md, "```"); n%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", n)
	}
	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
