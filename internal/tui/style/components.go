package style

import (
	"fmt"
	"strings"

	"github.com/Yat-Muk/zstatus/internal/domain/service"
	"github.com/charmbracelet/lipgloss"
)

var (
	ProgressBarStyle = lipgloss.NewStyle().
				Foreground(Aurora2)

	ProgressBarEmptyStyle = lipgloss.NewStyle().
				Foreground(Polar4)

	badgeBase = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true)
)

// RenderProgressBar 渲染進度條
func RenderProgressBar(percent float64, width int) string {
	if width < 2 {
		width = 20
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(float64(width) * percent / 100.0)
	empty := width - filled

	bar := ProgressBarStyle.Render(strings.Repeat("█", filled)) +
		ProgressBarEmptyStyle.Render(strings.Repeat("░", empty))
	return bar + fmt.Sprintf(" %5.1f%%", percent)
}

// RenderStatusBadge 渲染服務狀態徽章
func RenderStatusBadge(s service.Status) string {
	fg := Polar1
	if s == service.StatusOffline {
		fg = Snow1
	}
	return badgeBase.
		Foreground(fg).
		Background(StatusColor(s)).
		Render(s.Label())
}
