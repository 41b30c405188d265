package markdown

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	styles "github.com/charmbracelet/glamour/styles"
)

const DefaultWidth = 100

// Render renders markdown for a terminal of the given width.
// A width <= 0 uses DefaultWidth.
func Render(markdown string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.DarkStyleConfig),
		glamour.WithWordWrap(width),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return "", fmt.Errorf("unable to create renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("unable to render markdown: %w", err)
	}
	return out, nil
}

func Fprint(w io.Writer, markdown string, width int) error {
	out, err := Render(markdown, width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
