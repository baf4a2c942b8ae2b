package output

import (
	"bytes"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{"", false, ModeMarkdown},
		{ModeText, false, ModeText},
		{ModeJSON, true, ModeJSON},
		{ModeYAML, false, ModeYAML},
		{ModeMarkdown, true, ModeMarkdown},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode)+"/"+map[bool]string{true: "tty", false: "pipe"}[tt.isTTY], func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
			assert.Equal(t, tt.isTTY, r.IsTTY())
		})
	}
}

func TestNewRenderer_BufferIsNotATerminal(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_JSON(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeJSON)

	require.NoError(t, r.JSON(map[string]int{"done": 2}))
	assert.Equal(t, "{\n  \"done\": 2\n}\n", out.String())
}

func TestRenderer_YAML(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeYAML)

	require.NoError(t, r.YAML(map[string]int{"done": 2}))
	assert.Equal(t, "done: 2\n", out.String())
}

func TestRenderer_StylesArePlainOffTerminal(t *testing.T) {
	r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, false, ModeText)
	assert.Equal(t, "Heading", r.Styles().Header1.Render("Heading"))
	assert.Equal(t, "ok", r.Styles().Success.Render("ok"))
}

func TestRenderer_Table(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeText)

	tw := r.Table()
	tw.AppendHeader(table.Row{"Theme", "Done"})
	tw.AppendRow(table.Row{"Build", 2})
	tw.Render()

	assert.Contains(t, out.String(), "Build")
	assert.Contains(t, out.String(), "│")
}

func TestRenderer_Warnf(t *testing.T) {
	errOut := &bytes.Buffer{}
	r := NewRendererWithTTY(&bytes.Buffer{}, errOut, false, ModeText)

	r.Warnf("%d queries failed", 2)
	assert.Equal(t, "2 queries failed\n", errOut.String())
}

func TestModes(t *testing.T) {
	assert.Equal(t, []string{"auto", "text", "markdown", "json", "yaml"}, Modes())
}
