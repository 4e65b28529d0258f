package view

import (
	"fmt"
	"strings"

	"github.com/Yat-Muk/zstatus/internal/tui/style"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// PageWidth 頁面內容寬度
const PageWidth = 62

// MenuItem 菜單項結構
type MenuItem struct {
	Num       string         // 序號 (如 "1", "r")
	Text      string         // 選項名稱
	Desc      string         // 描述/提示 -> 自動渲染為灰色
	TextColor lipgloss.Color // Text 的顏色
}

// renderMenuWithAlignment 渲染自動對齊的菜單列表
func renderMenuWithAlignment(items []MenuItem) string {
	maxNumWidth := 0
	maxTextWidth := 0

	for _, item := range items {
		if item.Num == "" && item.Text == "" {
			continue
		}
		if len(item.Num) > maxNumWidth {
			maxNumWidth = len(item.Num)
		}
		if item.Desc != "" {
			if w := runewidth.StringWidth(item.Text); w > maxTextWidth {
				maxTextWidth = w
			}
		}
	}

	targetWidth := 0
	if maxTextWidth > 0 {
		targetWidth = maxTextWidth + 2
	}

	numStyle := lipgloss.NewStyle().Foreground(style.Aurora3)
	dotStyle := lipgloss.NewStyle().Foreground(style.Snow3)

	var rows []string
	for _, item := range items {
		// 分隔線
		if item.Num == "" && item.Text == "" {
			rows = append(rows, lipgloss.NewStyle().
				Foreground(style.Snow2).
				Render(" "+strings.Repeat("┄", PageWidth-2)))
			continue
		}

		textColor := item.TextColor
		if textColor == "" {
			textColor = style.Snow1
		}
		textStyle := lipgloss.NewStyle().Foreground(textColor)

		padding := " "
		if item.Desc != "" && targetWidth > 0 {
			gap := targetWidth - runewidth.StringWidth(item.Text)
			if gap < 1 {
				gap = 1
			}
			padding = strings.Repeat(" ", gap)
		}

		row := fmt.Sprintf(" %s%s %s%s",
			numStyle.Render(fmt.Sprintf("%*s", maxNumWidth, item.Num)),
			dotStyle.Render("."),
			textStyle.Render(item.Text)+padding,
			colorizeDescription(item.Desc),
		)
		rows = append(rows, row)
	}

	rows = append(rows, lipgloss.NewStyle().
		Foreground(style.Snow2).
		Render(strings.Repeat("═", PageWidth)))

	return strings.Join(rows, "\n")
}

// colorizeDescription 默認著色邏輯：括號變灰，中括號變黃
func colorizeDescription(desc string) string {
	if desc == "" {
		return ""
	}

	yellowStyle := lipgloss.NewStyle().Foreground(style.StatusYellow)
	greyStyle := lipgloss.NewStyle().Foreground(style.Snow3)

	var result strings.Builder
	runes := []rune(desc)
	n := len(runes)

	for i := 0; i < n; i++ {
		if runes[i] == '[' {
			start := i
			for i < n && runes[i] != ']' {
				i++
			}
			if i < n {
				result.WriteString(yellowStyle.Render(string(runes[start : i+1])))
			} else {
				result.WriteString(greyStyle.Render(string(runes[start:])))
			}
			continue
		}

		start := i
		for i < n && runes[i] != '[' {
			i++
		}
		result.WriteString(greyStyle.Render(string(runes[start:i])))
		i--
	}
	return result.String()
}

// RenderLogo 渲染 ZSTATUS ASCII Logo
func RenderLogo() string {
	logoLines := []string{
		" ███████╗███████╗████████╗ █████╗ ████████╗██╗   ██╗███████╗",
		" ╚══███╔╝██╔════╝╚══██╔══╝██╔══██╗╚══██╔══╝██║   ██║██╔════╝",
		"   ███╔╝ ███████╗   ██║   ███████║   ██║   ██║   ██║███████╗",
		"  ███╔╝  ╚════██║   ██║   ██╔══██║   ██║   ██║   ██║╚════██║",
		" ███████╗███████║   ██║   ██║  ██║   ██║   ╚██████╔╝███████║",
		" ╚══════╝╚══════╝   ╚═╝   ╚═╝  ╚═╝   ╚═╝    ╚═════╝ ╚══════╝",
	}

	gradientColors := []lipgloss.Color{
		lipgloss.Color("#B477ED"),
		lipgloss.Color("#DDAAFF"),
		lipgloss.Color("#DEDEF8"),
		lipgloss.Color("#90CCFB"),
		lipgloss.Color("#1AAEFC"),
		lipgloss.Color("#0381ED"),
	}

	var coloredLines []string
	for i, line := range logoLines {
		coloredLines = append(coloredLines, lipgloss.NewStyle().
			Foreground(gradientColors[i]).
			Width(PageWidth).
			AlignHorizontal(lipgloss.Center).
			Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, coloredLines...)
}

// renderHeader 渲染頭部：Logo + 副標題
func renderHeader(subtitle string) string {
	mainSubtitle := lipgloss.NewStyle().
		Foreground(style.Aurora3).
		Width(PageWidth).
		AlignHorizontal(lipgloss.Center).
		Render(":: Zabbix 服務狀態面板 ::")

	if subtitle == "" {
		return lipgloss.JoinVertical(lipgloss.Left, RenderLogo(), "", mainSubtitle)
	}

	subTitleLine := lipgloss.NewStyle().
		Foreground(style.Aurora2).
		Render(fmt.Sprintf(" »»» %s «««", subtitle))

	separator := lipgloss.NewStyle().
		Foreground(style.Snow2).
		Render(strings.Repeat("═", PageWidth))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		RenderLogo(),
		"",
		mainSubtitle,
		"",
		subTitleLine,
		separator,
	)
}

// RenderStatusMessage 渲染底部狀態欄
// 根據關鍵字（警告, 失敗, 成功）決定顏色，(Y/N) 高亮
func RenderStatusMessage(msg string) string {
	if msg == "" {
		return ""
	}

	baseColor := style.Aurora3
	switch {
	case strings.Contains(msg, "⚠") ||
		strings.Contains(msg, "警告") ||
		strings.Contains(msg, "確認"):
		baseColor = style.StatusYellow
	case strings.Contains(msg, "失敗") ||
		strings.Contains(msg, "錯誤") ||
		strings.Contains(msg, "無效") ||
		strings.Contains(msg, "✗"):
		baseColor = style.StatusRed
	case strings.Contains(msg, "成功") ||
		strings.Contains(msg, "完成") ||
		strings.Contains(msg, "✓"):
		baseColor = style.StatusGreen
	}

	baseStyle := lipgloss.NewStyle().Foreground(baseColor)
	highlightStyle := lipgloss.NewStyle().Foreground(style.StatusRed)

	const keyword = "(Y/N)"

	var renderedLines []string
	for _, line := range strings.Split(msg, "\n") {
		parts := strings.Split(line, keyword)
		var sb strings.Builder
		for i, part := range parts {
			if part != "" {
				sb.WriteString(baseStyle.Render(part))
			}
			if i < len(parts)-1 {
				sb.WriteString(highlightStyle.Render(keyword))
			}
		}
		renderedLines = append(renderedLines, sb.String())
	}

	return lipgloss.NewStyle().
		Padding(1, 1).
		Width(PageWidth + 2).
		Align(lipgloss.Left).
		Render(lipgloss.JoinVertical(lipgloss.Left, renderedLines...))
}

// RenderTextInput 只渲染輸入行，不帶底部按鍵提示
func RenderTextInput(ti textinput.Model, prompt string) string {
	if prompt == "" {
		prompt = "請輸入"
	}
	p := lipgloss.NewStyle().
		Foreground(style.Snow2).
		Render(fmt.Sprintf(" ❯ %s: ", prompt))

	return lipgloss.JoinHorizontal(lipgloss.Left, p, ti.View())
}

// RenderInputFooter 渲染輸入提示（子頁面使用）
func RenderInputFooter(ti textinput.Model, prompt string, extraHints ...string) string {
	snow3 := lipgloss.NewStyle().Foreground(style.Snow3)
	polar4 := lipgloss.NewStyle().Foreground(style.Polar4)

	hints := []string{
		snow3.Render("Esc "), polar4.Render("返回"),
		polar4.Render(" • "),
		snow3.Render("Enter "), polar4.Render("確認"),
	}
	for i := 0; i+1 < len(extraHints); i += 2 {
		hints = append(hints,
			polar4.Render(" • "),
			snow3.Render(extraHints[i]+" "), polar4.Render(extraHints[i+1]),
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		RenderTextInput(ti, prompt),
		"",
		lipgloss.NewStyle().PaddingLeft(1).Render(lipgloss.JoinHorizontal(lipgloss.Left, hints...)),
	)
}

// RenderLoading 渲染加載頁面
func RenderLoading(message string) string {
	loadingText := lipgloss.NewStyle().
		Foreground(style.Aurora2).
		Render(fmt.Sprintf("⏳ %s...", message))
	return lipgloss.JoinVertical(lipgloss.Left, renderHeader("加載中"), "", loadingText)
}

// padRight 按終端顯示寬度右側補空格
func padRight(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}
