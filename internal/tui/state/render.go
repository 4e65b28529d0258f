package state

import (
	"fmt"
	"time"

	"github.com/Yat-Muk/zstatus/internal/domain/service"
	"github.com/Yat-Muk/zstatus/internal/tui/view"
)

// Render 渲染當前視圖
func (m *Manager) Render() string {
	if !m.config.Loaded {
		return view.RenderLoading("初始化配置中")
	}

	statusMsg := m.ui.Status.Message
	if m.ui.Status.Detail != "" {
		statusMsg = fmt.Sprintf("%s\n%s", statusMsg, m.ui.Status.Detail)
	}

	ti := m.ui.TextInput
	snap := m.session.Snapshot
	spin := m.ui.Spinner.View()
	now := time.Now()

	switch m.ui.CurrentView {
	case AdminLoginView:
		return view.RenderAdminLogin(view.LoginData{
			TokenMode: m.login.Mode == LoginToken,
			Step:      m.login.Step,
			Username:  m.login.Username,
			ServerURL: m.config.ServerURL(),
			Spinner:   spin,
		}, ti, statusMsg)

	case AdminDashboardView:
		if m.dashboard.Confirming() {
			statusMsg = fmt.Sprintf("確認刪除服務「%s」? (Y/N)", m.dashboard.PendingDeleteName)
		}
		return view.RenderAdminDashboard(view.DashboardData{
			Services:  snap.Services,
			Loading:   snap.Loading,
			Error:     snap.Error,
			LastFetch: snap.LastFetch,
			Now:       now,
			Spinner:   spin,
		}, ti, statusMsg)

	case ServiceFormView:
		return view.RenderServiceForm(m.formData(), ti, statusMsg)

	default:
		return view.RenderStatusPage(view.StatusPageData{
			Authenticated: snap.IsAuthenticated,
			Services:      snap.Services,
			Loading:       snap.Loading,
			Error:         snap.Error,
			LastFetch:     snap.LastFetch,
			Now:           now,
			ServerURL:     m.config.ServerURL(),
			Spinner:       spin,
		}, ti, statusMsg)
	}
}

func (m *Manager) formData() view.FormData {
	f := m.form
	fields := make([]view.FormField, 0, fieldCount)
	for field := FieldName; field < fieldCount; field++ {
		fields = append(fields, view.FormField{Label: field.Label(), Value: f.valueOf(field)})
	}

	hint := "直接回車保留當前值"
	if f.Step == FieldStatus {
		hint = "可選: online, offline, warning, maintenance"
	} else if f.Step == FieldUptime {
		hint = "0-100，例如 99.9"
	}

	return view.FormData{
		Editing: f.Editing,
		Fields:  fields,
		Step:    int(f.Step),
		Hint:    hint,
	}
}

// valueOf 表單中字段的顯示值
func (s *FormState) valueOf(field FormField) string {
	switch field {
	case FieldName:
		return s.Draft.Name
	case FieldDescription:
		return s.Draft.Description
	case FieldStatus:
		if s.Draft.Status == "" {
			return ""
		}
		return fmt.Sprintf("%s (%s)", s.Draft.Status, s.Draft.Status.Label())
	case FieldUptime:
		if !s.Editing && !s.uptimeSet {
			return service.UptimeFor(s.Draft.Status)
		}
		return s.Draft.Uptime
	default:
		return ""
	}
}
