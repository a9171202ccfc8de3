package views

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	renderersMu sync.Mutex
	renderers   = map[int]*glamour.TermRenderer{}
)

// renderMarkdown renders md for the given wrap width, falling back to the
// raw text when the renderer cannot be built.
func renderMarkdown(md string, width int) string {
	if width < 20 {
		width = 20
	}

	renderersMu.Lock()
	r, ok := renderers[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			renderersMu.Unlock()
			return md
		}
		renderers[width] = r
	}
	out, err := r.Render(md)
	renderersMu.Unlock()
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
