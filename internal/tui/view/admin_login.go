package view

import (
	"strings"

	"github.com/Yat-Muk/zstatus/internal/tui/style"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// LoginData 登錄頁渲染所需數據
type LoginData struct {
	TokenMode bool
	Step      int // 0 第一個字段, 1 第二個字段, 2 等待中
	Username  string
	ServerURL string
	Spinner   string
}

// RenderAdminLogin 渲染管理員登錄頁
func RenderAdminLogin(d LoginData, ti textinput.Model, statusMsg string) string {
	label := lipgloss.NewStyle().Foreground(style.Snow3)
	value := lipgloss.NewStyle().Foreground(style.Snow1)
	active := lipgloss.NewStyle().Foreground(style.Aurora2).Bold(true)

	field := func(idx int, name, val string) string {
		marker := "  "
		s := label
		if idx == d.Step {
			marker = active.Render("➤ ")
			s = active
		}
		return " " + marker + s.Render(padRight(name, 10)) + value.Render(val)
	}

	mode := "用戶名 + 密碼"
	if d.TokenMode {
		mode = "API 令牌"
	}

	lines := []string{
		"",
		" " + label.Render("服務器: ") + value.Render(orDefault(d.ServerURL, "未配置")),
		" " + label.Render("登錄方式: ") + style.Foreground(style.Aurora3)(mode) + style.MutedText("  (Tab 切換)"),
		"",
	}

	var prompt string
	if d.TokenMode {
		lines = append(lines,
			field(0, "API 令牌", maskedIf(d.Step > 0)),
			field(1, "保存令牌", ""),
		)
		prompt = "API 令牌"
		if d.Step == 1 {
			prompt = "保存令牌以便下次自動登錄? (Y/N)"
		}
	} else {
		lines = append(lines,
			field(0, "用戶名", d.Username),
			field(1, "密碼", maskedIf(d.Step > 1)),
		)
		prompt = "用戶名"
		if d.Step == 1 {
			prompt = "密碼"
		}
	}

	if d.Step >= 2 {
		lines = append(lines, "", " "+d.Spinner+" 正在登錄...")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderHeader("管理員登錄"),
		strings.Join(lines, "\n"),
		RenderStatusMessage(statusMsg),
		RenderInputFooter(ti, prompt, "Tab", "切換方式"),
	)
}

func maskedIf(done bool) string {
	if done {
		return "••••••••"
	}
	return ""
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
