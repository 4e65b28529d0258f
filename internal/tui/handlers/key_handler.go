package handlers

import (
	"strconv"
	"strings"

	"github.com/Yat-Muk/zstatus/internal/application"
	zerrors "github.com/Yat-Muk/zstatus/internal/pkg/errors"
	"github.com/Yat-Muk/zstatus/internal/pkg/inputvalidator"
	"github.com/Yat-Muk/zstatus/internal/tui/constants"
	"github.com/Yat-Muk/zstatus/internal/tui/state"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyHandler 核心處理器：負責全局導航和請求分發
type KeyHandler struct {
	stateMgr   *state.Manager
	cmdBuilder *CommandBuilder
}

func NewKeyHandler(stateMgr *state.Manager, cmdBuilder *CommandBuilder) *KeyHandler {
	return &KeyHandler{
		stateMgr:   stateMgr,
		cmdBuilder: cmdBuilder,
	}
}

// Handle 處理全局按鍵
func (h *KeyHandler) Handle(msg tea.KeyMsg, m *state.Manager) (*state.Manager, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	view := m.UI().CurrentView

	// 登錄請求進行中，只允許 Ctrl+C
	if view == state.AdminLoginView && m.Login().Waiting() {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		return h.handleInputSubmit(m, view)

	case tea.KeyEsc:
		return h.handleInputEscape(m, view)

	case tea.KeyTab:
		if view == state.AdminLoginView {
			m.Login().Toggle()
			m.UI().ClearInput()
			m.UI().SetMasked(m.Login().Masked())
			m.UI().ClearStatus()
		}
		return m, nil

	default:
		return m, m.UI().UpdateInput(msg)
	}
}

// ========================================
// 核心分發邏輯 (Enter 觸發)
// ========================================

func (h *KeyHandler) handleInputSubmit(m *state.Manager, view state.View) (*state.Manager, tea.Cmd) {
	raw := m.UI().GetInputBuffer()
	input := strings.TrimSpace(raw)
	m.UI().ClearInput()

	switch view {
	case state.StatusPageView:
		return h.submitStatusPage(m, input)
	case state.AdminLoginView:
		// 密碼保留原樣，不做裁剪
		return h.submitLogin(m, input, raw)
	case state.AdminDashboardView:
		return h.submitDashboard(m, input)
	case state.ServiceFormView:
		return h.submitForm(m, input)
	default:
		return m, nil
	}
}

// handleInputEscape Esc 返回上一級
func (h *KeyHandler) handleInputEscape(m *state.Manager, view state.View) (*state.Manager, tea.Cmd) {
	m.UI().ClearStatus()

	switch view {
	case state.AdminLoginView:
		m.Login().Reset()
		return m, m.UI().SwitchView(state.StatusPageView)

	case state.AdminDashboardView:
		if m.Dashboard().Confirming() {
			m.Dashboard().CancelDelete()
			m.UI().SetStatus(state.StatusInfo, "已取消刪除", "")
			return m, nil
		}
		return m, m.UI().SwitchView(state.StatusPageView)

	case state.ServiceFormView:
		cmd := m.UI().SwitchView(state.AdminDashboardView)
		m.UI().SetStatus(state.StatusInfo, "已取消編輯", "")
		return m, cmd

	default:
		return m, nil
	}
}

// ========================================
// 狀態頁
// ========================================

func (h *KeyHandler) submitStatusPage(m *state.Manager, input string) (*state.Manager, tea.Cmd) {
	switch strings.ToLower(input) {
	case constants.KeyStatus_Admin:
		if m.Session().IsAuthenticated() {
			return m, m.UI().SwitchView(state.AdminDashboardView)
		}
		m.Login().Reset()
		cmd := m.UI().SwitchView(state.AdminLoginView)
		m.UI().SetMasked(m.Login().Masked())
		return m, cmd

	case constants.KeyStatus_Refresh:
		return h.refresh(m)

	case constants.KeyStatus_Quit:
		return m, tea.Quit

	case "":
		return m, nil

	default:
		m.UI().SetStatus(state.StatusError, "無效選項: "+input, "")
		return m, nil
	}
}

func (h *KeyHandler) refresh(m *state.Manager) (*state.Manager, tea.Cmd) {
	if !m.Session().IsAuthenticated() {
		m.UI().SetStatus(state.StatusWarn, "⚠ 尚未登錄，請先進入管理後台", "")
		return m, nil
	}
	m.UI().SetStatus(state.StatusInfo, "正在刷新...", "")
	return m, h.cmdBuilder.RefreshCmd()
}

// ========================================
// 登錄
// ========================================

func (h *KeyHandler) submitLogin(m *state.Manager, input, raw string) (*state.Manager, tea.Cmd) {
	login := m.Login()
	ui := m.UI()

	if login.Mode == state.LoginToken {
		switch login.Step {
		case state.LoginStepUser:
			if input == "" {
				ui.SetStatus(state.StatusError, application.UserMessage(zerrors.ErrEmptyToken), "")
				return m, nil
			}
			if err := inputvalidator.ValidateCredential(input, "令牌", inputvalidator.MaxTokenLength); err != nil {
				ui.SetStatus(state.StatusError, err.Error(), "")
				return m, nil
			}
			login.Token = input
			login.Step = state.LoginStepSecret
			ui.SetMasked(false)
			ui.ClearStatus()
			return m, nil

		case state.LoginStepSecret:
			var remember bool
			switch strings.ToLower(input) {
			case constants.KeyConfirm_Yes:
				remember = true
			case constants.KeyConfirm_No, "":
			default:
				ui.SetStatus(state.StatusError, "無效選項，請輸入 Y 或 N", "")
				return m, nil
			}
			token := login.Token
			login.Token = ""
			login.Step = state.LoginStepWaiting
			ui.SetStatus(state.StatusInfo, "正在登錄...", "")
			return m, h.cmdBuilder.TokenLoginCmd(token, remember, false)
		}
		return m, nil
	}

	switch login.Step {
	case state.LoginStepUser:
		if input == "" {
			ui.SetStatus(state.StatusError, "用戶名不能為空", "")
			return m, nil
		}
		if err := inputvalidator.ValidateCredential(input, "用戶名", inputvalidator.MaxUsernameLength); err != nil {
			ui.SetStatus(state.StatusError, err.Error(), "")
			return m, nil
		}
		login.Username = input
		login.Step = state.LoginStepSecret
		ui.SetMasked(true)
		ui.ClearStatus()
		return m, nil

	case state.LoginStepSecret:
		if raw == "" {
			ui.SetStatus(state.StatusError, "密碼不能為空", "")
			return m, nil
		}
		if err := inputvalidator.ValidateLength(raw, inputvalidator.MaxPasswordLength, "密碼"); err != nil {
			ui.SetStatus(state.StatusError, err.Error(), "")
			return m, nil
		}
		login.Step = state.LoginStepWaiting
		ui.SetMasked(false)
		ui.SetStatus(state.StatusInfo, "正在登錄...", "")
		return m, h.cmdBuilder.LoginCmd(login.Username, raw)
	}
	return m, nil
}

// ========================================
// 管理後台
// ========================================

func (h *KeyHandler) submitDashboard(m *state.Manager, input string) (*state.Manager, tea.Cmd) {
	dash := m.Dashboard()
	ui := m.UI()
	lower := strings.ToLower(input)

	if dash.Confirming() {
		switch lower {
		case constants.KeyConfirm_Yes:
			name := dash.PendingDeleteName
			ok := h.cmdBuilder.DeleteService(dash.PendingDeleteID)
			dash.CancelDelete()
			h.syncSnapshot(m)
			if ok {
				ui.SetStatus(state.StatusSuccess, "✓ 已刪除服務: "+name, "")
			} else {
				ui.SetStatus(state.StatusError, "刪除失敗: 服務已不存在", "")
			}
		case constants.KeyConfirm_No:
			dash.CancelDelete()
			ui.SetStatus(state.StatusInfo, "已取消刪除", "")
		default:
			ui.SetStatus(state.StatusError, "無效選項，請輸入 Y 或 N", "")
		}
		return m, nil
	}

	switch {
	case lower == "":
		return m, nil

	case lower == constants.KeyDash_Add:
		m.Form().StartAdd()
		return m, ui.SwitchView(state.ServiceFormView)

	case lower == constants.KeyDash_Refresh:
		return h.refresh(m)

	case lower == constants.KeyDash_Logout:
		ui.SetStatus(state.StatusInfo, "正在登出...", "")
		return m, h.cmdBuilder.LogoutCmd(m.Config().HasSavedToken())

	case strings.HasPrefix(lower, constants.KeyDash_Edit):
		n, ok := parseIndex(lower, constants.KeyDash_Edit)
		svc, found := m.Session().ServiceAt(n)
		if !ok || !found {
			ui.SetStatus(state.StatusError, "無效序號: "+input, "")
			return m, nil
		}
		m.Form().StartEdit(svc)
		return m, ui.SwitchView(state.ServiceFormView)

	case strings.HasPrefix(lower, constants.KeyDash_Delete):
		n, ok := parseIndex(lower, constants.KeyDash_Delete)
		svc, found := m.Session().ServiceAt(n)
		if !ok || !found {
			ui.SetStatus(state.StatusError, "無效序號: "+input, "")
			return m, nil
		}
		dash.RequestDelete(svc.ID, svc.Name)
		return m, nil

	default:
		ui.SetStatus(state.StatusError, "無效選項: "+input, "")
		return m, nil
	}
}

// parseIndex 解析 "e2" / "e 2" 中的序號
func parseIndex(input, prefix string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(input, prefix)))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ========================================
// 服務表單
// ========================================

func (h *KeyHandler) submitForm(m *state.Manager, input string) (*state.Manager, tea.Cmd) {
	form := m.Form()
	ui := m.UI()

	done, err := form.Submit(input)
	if err != nil {
		ui.SetStatus(state.StatusError, err.Error(), "")
		return m, nil
	}
	ui.ClearStatus()
	if !done {
		return m, nil
	}

	var (
		statusType = state.StatusSuccess
		statusText string
	)
	if form.Editing {
		patch := form.Patch()
		switch {
		case patch.IsEmpty():
			statusType, statusText = state.StatusInfo, "沒有修改"
		case h.cmdBuilder.UpdateService(form.EditID, patch):
			statusText = "✓ 服務已更新: " + form.Draft.Name
		default:
			statusType, statusText = state.StatusError, "更新失敗: 服務已不存在"
		}
	} else {
		svc := h.cmdBuilder.AddService(form.NewService())
		statusText = "✓ 服務已添加: " + svc.Name
	}

	h.syncSnapshot(m)
	cmd := ui.SwitchView(state.AdminDashboardView)
	ui.SetStatus(statusType, statusText, "")
	return m, cmd
}

// syncSnapshot 本地編輯後立即同步，不等待推送
func (h *KeyHandler) syncSnapshot(m *state.Manager) {
	m.Session().Apply(h.cmdBuilder.Snapshot())
}
