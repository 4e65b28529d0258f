package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/Yat-Muk/zstatus/internal/domain/service"
	"github.com/Yat-Muk/zstatus/internal/tui/constants"
	"github.com/Yat-Muk/zstatus/internal/tui/style"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// StatusPageData 狀態頁渲染所需數據
type StatusPageData struct {
	Authenticated bool
	Services      []service.Service
	Loading       bool
	Error         string
	LastFetch     time.Time
	Now           time.Time
	ServerURL     string
	Spinner       string
}

// RenderStatusPage 渲染公開狀態頁
func RenderStatusPage(d StatusPageData, ti textinput.Model, statusMsg string) string {
	sections := []string{renderHeader("")}

	sections = append(sections, renderSummaryBar(d))

	switch {
	case !d.Authenticated:
		sections = append(sections, lipgloss.NewStyle().
			Foreground(style.Snow3).
			Padding(1, 1).
			Render("尚未連接 Zabbix，請進入管理後台登錄"))
	case len(d.Services) == 0 && d.Loading:
		sections = append(sections, " "+d.Spinner+" 正在獲取服務狀態...")
	case len(d.Services) == 0:
		sections = append(sections, lipgloss.NewStyle().
			Foreground(style.Snow3).
			Padding(1, 1).
			Render("暫無服務"))
	default:
		for _, svc := range d.Services {
			sections = append(sections, RenderServiceCard(svc, d.Now))
		}
	}

	if d.Error != "" {
		sections = append(sections, style.ErrorText(" ✗ "+d.Error))
	}

	sections = append(sections, "", renderMenuWithAlignment([]MenuItem{
		{Num: constants.KeyStatus_Admin, Text: "管理後台", Desc: adminHint(d.Authenticated)},
		{Num: constants.KeyStatus_Refresh, Text: "立即刷新"},
		{Num: constants.KeyStatus_Quit, Text: "退出", TextColor: style.StatusRed},
	}))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		strings.Join(sections, "\n"),
		RenderStatusMessage(statusMsg),
		RenderTextInput(ti, ""),
	)
}

func adminHint(authenticated bool) string {
	if authenticated {
		return "(已登錄)"
	}
	return "(需要登錄)"
}

// renderSummaryBar 渲染各狀態數量與最後更新時間
func renderSummaryBar(d StatusPageData) string {
	counts := service.Counts(d.Services)

	var parts []string
	for _, st := range service.AllStatuses {
		c := lipgloss.NewStyle().Foreground(style.StatusColor(st))
		parts = append(parts, c.Render(fmt.Sprintf("%s %s %d", style.StatusIcon(st), st.Label(), counts[st])))
	}

	label := lipgloss.NewStyle().Foreground(style.Snow3)
	value := lipgloss.NewStyle().Foreground(style.Snow2)

	updated := "從未"
	if !d.LastFetch.IsZero() {
		updated = FormatAgo(d.Now, d.LastFetch)
	}
	if d.Loading && d.Spinner != "" {
		updated += " " + d.Spinner
	}

	server := d.ServerURL
	if server == "" {
		server = "未配置"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		" "+strings.Join(parts, "   "),
		" "+label.Render("服務器: ")+value.Render(server),
		" "+label.Render("更新於: ")+value.Render(updated),
		lipgloss.NewStyle().Foreground(style.Snow2).Render(strings.Repeat("═", PageWidth)),
	)
}

// RenderServiceCard 渲染單個服務卡片
func RenderServiceCard(svc service.Service, now time.Time) string {
	name := lipgloss.NewStyle().Bold(true).Foreground(style.Snow1).Render(svc.Name)
	title := style.RenderStatusBadge(svc.Status) + " " + name
	if svc.IsLocal() {
		title += style.MutedText(" (本地)")
	}

	lines := []string{title}
	if svc.Description != "" {
		lines = append(lines, style.MutedText(svc.Description))
	}

	uptime := style.RenderProgressBar(service.ParseUptime(svc.Uptime), 20)
	meta := fmt.Sprintf("最後檢查 %s", FormatAgo(now, svc.LastCheck))
	if svc.ResponseTime != nil {
		meta += fmt.Sprintf(" • 響應 %dms", *svc.ResponseTime)
	}
	lines = append(lines, uptime+"  "+style.MutedText(meta))

	return style.CardStyle.
		BorderForeground(style.StatusColor(svc.Status)).
		Width(PageWidth).
		Render(strings.Join(lines, "\n"))
}

// FormatAgo 相對時間，超過一小時顯示具體時間
func FormatAgo(now, t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	switch {
	case d < 5*time.Second:
		return "剛剛"
	case d < time.Minute:
		return fmt.Sprintf("%d 秒前", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%d 分鐘前", int(d.Minutes()))
	default:
		return t.Format("2006-01-02 15:04:05")
	}
}
