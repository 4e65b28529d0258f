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

// DashboardData 管理後台渲染所需數據
type DashboardData struct {
	Services  []service.Service
	Loading   bool
	Error     string
	LastFetch time.Time
	Now       time.Time
	Spinner   string
}

// RenderAdminDashboard 渲染管理後台
func RenderAdminDashboard(d DashboardData, ti textinput.Model, statusMsg string) string {
	var lines []string

	updated := "從未"
	if !d.LastFetch.IsZero() {
		updated = FormatAgo(d.Now, d.LastFetch)
	}
	if d.Loading {
		updated += " " + d.Spinner
	}
	lines = append(lines, "", " "+style.MutedText("更新於: "+updated), "")
	lines = append(lines, renderServiceTable(d.Services))

	if d.Error != "" {
		lines = append(lines, "", style.ErrorText(" ✗ "+d.Error))
	}

	lines = append(lines, "", renderMenuWithAlignment([]MenuItem{
		{Num: constants.KeyDash_Add, Text: "添加服務"},
		{Num: constants.KeyDash_Edit + "N", Text: "編輯服務", Desc: "(例如 e2)"},
		{Num: constants.KeyDash_Delete + "N", Text: "刪除服務", Desc: "(例如 d2)"},
		{Num: constants.KeyDash_Refresh, Text: "立即刷新"},
		{Num: constants.KeyDash_Logout, Text: "登出", TextColor: style.StatusRed},
	}))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderHeader("管理後台"),
		strings.Join(lines, "\n"),
		RenderStatusMessage(statusMsg),
		RenderInputFooter(ti, ""),
	)
}

// renderServiceTable 渲染帶序號的服務表格
func renderServiceTable(services []service.Service) string {
	if len(services) == 0 {
		return style.MutedText(" 暫無服務")
	}

	header := lipgloss.NewStyle().Foreground(style.Snow3)
	numStyle := lipgloss.NewStyle().Foreground(style.Aurora3)
	nameStyle := lipgloss.NewStyle().Foreground(style.Snow1)

	rows := []string{
		header.Render(fmt.Sprintf(" %s %s %s %s",
			padRight("#", 4), padRight("名稱", 24), padRight("狀態", 10), "可用率")),
	}
	for i, svc := range services {
		name := svc.Name
		if svc.IsLocal() {
			name += " *"
		}
		rows = append(rows, fmt.Sprintf(" %s %s %s %s",
			numStyle.Render(padRight(fmt.Sprintf("%d", i+1), 4)),
			nameStyle.Render(padRight(name, 24)),
			style.StatusText(svc.Status, padRight(style.StatusIcon(svc.Status)+" "+svc.Status.Label(), 10)),
			style.UptimeText(svc.Uptime),
		))
	}
	rows = append(rows, style.MutedText(" * 本地添加，下次刷新時會被 Zabbix 數據覆蓋"))
	return strings.Join(rows, "\n")
}
