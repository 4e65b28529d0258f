package view

import (
	"strings"

	"github.com/Yat-Muk/zstatus/internal/tui/style"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// FormField 表單中一行
type FormField struct {
	Label string
	Value string
}

// FormData 服務表單渲染所需數據
type FormData struct {
	Editing bool
	Fields  []FormField
	Step    int
	Hint    string
}

// RenderServiceForm 渲染添加/編輯服務表單
func RenderServiceForm(d FormData, ti textinput.Model, statusMsg string) string {
	title := "添加服務"
	if d.Editing {
		title = "編輯服務"
	}

	label := lipgloss.NewStyle().Foreground(style.Snow3)
	value := lipgloss.NewStyle().Foreground(style.Snow1)
	active := lipgloss.NewStyle().Foreground(style.Aurora2).Bold(true)

	lines := []string{""}
	for i, f := range d.Fields {
		marker := "  "
		s := label
		if i == d.Step {
			marker = active.Render("➤ ")
			s = active
		}
		lines = append(lines, " "+marker+s.Render(padRight(f.Label, 10))+value.Render(f.Value))
	}

	if d.Hint != "" {
		lines = append(lines, "", " "+style.MutedText(d.Hint))
	}

	prompt := ""
	if d.Step >= 0 && d.Step < len(d.Fields) {
		prompt = d.Fields[d.Step].Label
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderHeader(title),
		strings.Join(lines, "\n"),
		RenderStatusMessage(statusMsg),
		RenderInputFooter(ti, prompt),
	)
}
