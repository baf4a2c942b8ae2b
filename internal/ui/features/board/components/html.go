// Package components renders the dashboard panels as templ components.
package components

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter stops writing after the first error so component bodies can
// stay linear.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) rawf(format string, args ...any) {
	if h.err == nil {
		_, h.err = fmt.Fprintf(h.w, format, args...)
	}
}

// text writes s HTML-escaped. The escaping also covers attribute values.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// jsonAttr writes v as JSON suitable for a double-quoted attribute.
func (h *htmlWriter) jsonAttr(v any) {
	if h.err != nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		h.err = err
		return
	}
	h.text(string(b))
}

// component renders a nested component into the same writer.
func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err == nil {
		h.err = c.Render(ctx, h.w)
	}
}
