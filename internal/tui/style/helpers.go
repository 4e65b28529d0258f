package style

import (
	"github.com/Yat-Muk/zstatus/internal/domain/service"
	"github.com/charmbracelet/lipgloss"
)

// Foreground 返回使用指定前景色的渲染函數
func Foreground(c lipgloss.Color) func(string) string {
	s := lipgloss.NewStyle().Foreground(c)
	return func(str string) string {
		return s.Render(str)
	}
}

func ErrorText(s string) string {
	return Foreground(Error)(s)
}

func MutedText(s string) string {
	return Foreground(Muted)(s)
}

// StatusText 按服務狀態著色
func StatusText(st service.Status, s string) string {
	return Foreground(StatusColor(st))(s)
}

// UptimeColor 可用率分檔: 99% 及以上綠色，90% 及以上黃色，其餘紅色
func UptimeColor(percent float64) lipgloss.Color {
	switch {
	case percent >= 99:
		return StatusGreen
	case percent >= 90:
		return StatusYellow
	default:
		return StatusRed
	}
}

// UptimeText 按可用率著色，無法解析的值按 0% 處理
func UptimeText(uptime string) string {
	return Foreground(UptimeColor(service.ParseUptime(uptime)))(uptime)
}
