package components

import (
	"strings"

	"github.com/theirongolddev/carlog/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left and
// a notice (last action, save error) on the right.
func RenderStatusBar(width int, hints, notice string, warn bool) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	noticeStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	if warn {
		noticeStyle = noticeStyle.Foreground(t.Red)
	}

	left := base.Render(" " + hints)
	right := ""
	if notice != "" {
		right = noticeStyle.Render(notice + " ")
	}

	gap := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + base.Render(strings.Repeat(" ", gap)) + right
}
