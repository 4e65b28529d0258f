package style

import (
	"github.com/Yat-Muk/zstatus/internal/domain/service"
	"github.com/charmbracelet/lipgloss"
)

var (
	// 錯誤樣式
	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// 成功樣式
	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	// 信息樣式
	InfoStyle = lipgloss.NewStyle().
			Foreground(Info)

	// 服務卡片
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Polar4).
			Padding(0, 1).
			Width(50)
)

// StatusColor 根據服務狀態返回顏色
func StatusColor(s service.Status) lipgloss.Color {
	switch s {
	case service.StatusOnline:
		return StatusGreen
	case service.StatusWarning:
		return StatusYellow
	case service.StatusOffline:
		return StatusRed
	case service.StatusMaintenance:
		return StatusOrange
	default:
		return Muted
	}
}

// StatusIcon 狀態前綴符號
func StatusIcon(s service.Status) string {
	switch s {
	case service.StatusOnline:
		return "●"
	case service.StatusWarning:
		return "▲"
	case service.StatusOffline:
		return "✗"
	case service.StatusMaintenance:
		return "◆"
	default:
		return "?"
	}
}
