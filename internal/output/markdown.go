package output

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownBody renders a task body as terminal markdown. Falls back to the
// raw text when rendering fails or color is disabled.
func MarkdownBody(body string) string {
	if ColorDisabled() {
		return body
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80), //nolint:mnd // render width
	)
	if err != nil {
		return body
	}

	rendered, err := r.Render(body)
	if err != nil {
		return body
	}
	return strings.TrimRight(rendered, "\n")
}
