package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/whatmeme/whatmeme-webapp/internal/markdown"
	"github.com/whatmeme/whatmeme-webapp/internal/terminal"
	"github.com/whatmeme/whatmeme-webapp/types"
)

var (
	toolTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	toolBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Renderer prints assistant messages as they stream.
// On a terminal the finished answer is re-rendered as markdown.
type Renderer struct {
	out   io.Writer
	tty   bool
	width int
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:   out,
		tty:   terminal.IsTerminal(out),
		width: terminal.Width(out),
	}
}

// Event prints the text carried by a delta event
func (r *Renderer) Event(msg types.Message, ev types.StreamEvent) {
	if ev.Type == types.EventType_Delta {
		fmt.Fprint(r.out, ev.Content)
	}
}

// Finish prints the final form of an assistant message
func (r *Renderer) Finish(msg types.Message) {
	fmt.Fprintln(r.out)
	if strings.HasPrefix(msg.Content, errorPrefix) {
		r.print(errorStyle, msg.Content)
		return
	}
	if r.tty && msg.Content != "" {
		fmt.Fprintln(r.out)
		if err := markdown.Fprint(r.out, msg.Content, r.width); err != nil {
			fmt.Fprintln(r.out, msg.Content)
		}
	}
	if msg.Metadata != nil && msg.Metadata.ToolCall != nil {
		r.print(toolBoxStyle, formatToolCall(msg.Metadata))
	}
}

func (r *Renderer) print(style lipgloss.Style, text string) {
	if r.tty {
		text = style.Render(text)
	}
	fmt.Fprintln(r.out, text)
}

func formatToolCall(meta *types.Metadata) string {
	args, err := json.MarshalIndent(meta.ToolCall.Arguments, "", "  ")
	if err != nil {
		args = []byte("{}")
	}
	var b strings.Builder
	b.WriteString(toolTitleStyle.Render("🔧 MCP 도구 호출 정보"))
	fmt.Fprintf(&b, "\n도구: %s\n인자: %s\nMCP 응답:\n%s", meta.ToolCall.Name, args, meta.MCPResponse)
	return b.String()
}
