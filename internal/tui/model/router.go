package model

import (
	"fmt"
	"time"

	"github.com/Yat-Muk/zstatus/internal/application"
	"github.com/Yat-Muk/zstatus/internal/tui/handlers"
	"github.com/Yat-Muk/zstatus/internal/tui/msg"
	"github.com/Yat-Muk/zstatus/internal/tui/state"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// TickMsg 每秒一次，用於刷新相對時間
type TickMsg time.Time

// Router 事件路由器
type Router struct {
	stateMgr   *state.Manager
	keyHandler *handlers.KeyHandler
	cmdBuilder *handlers.CommandBuilder
	log        *zap.Logger
}

// NewRouter 創建路由器
func NewRouter(cfg *handlers.Config) *Router {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	cmdBuilder := handlers.NewCommandBuilder(log, cfg.StateMgr, cfg.Session, cfg.ConfigSvc)
	cmdBuilder.SetConfigOverrides(cfg.ConfigOverrides)
	keyHandler := handlers.NewKeyHandler(cfg.StateMgr, cmdBuilder)

	return &Router{
		stateMgr:   cfg.StateMgr,
		keyHandler: keyHandler,
		cmdBuilder: cmdBuilder,
		log:        log,
	}
}

// InitModel 用於 Model.Init 調用
func (r *Router) InitModel() tea.Cmd {
	return tea.Batch(
		r.stateMgr.UI().TextInput.Focus(),
		r.stateMgr.UI().Spinner.Tick,
		r.cmdBuilder.LoadConfigCmd(),
		r.cmdBuilder.WaitForSnapshotCmd(),
		TickCmd(),
	)
}

// Close 釋放訂閱
func (r *Router) Close() {
	r.cmdBuilder.Close()
}

// Update 適配 bubbletea 的 Update 簽名
func (r *Router) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	return nil, r.routeMessage(message)
}

// View 適配 bubbletea 的 View 簽名
func (r *Router) View() string {
	return r.stateMgr.Render()
}

// routeMessage 內部路由邏輯
func (r *Router) routeMessage(message tea.Msg) tea.Cmd {
	m := r.stateMgr

	switch msgType := message.(type) {

	case tea.WindowSizeMsg:
		m.UI().UpdateSize(msgType.Width, msgType.Height)
		return nil

	case tea.KeyMsg:
		_, cmd := r.keyHandler.Handle(msgType, m)
		return cmd

	case TickMsg:
		return TickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.UI().Spinner, cmd = m.UI().Spinner.Update(msgType)
		return cmd

	case msg.SnapshotMsg:
		r.applySnapshot(msgType.Snapshot)
		return r.cmdBuilder.WaitForSnapshotCmd()

	case msg.ConfigLoadedMsg:
		return r.handleConfigLoaded(msgType)

	case msg.AuthResultMsg:
		return r.handleAuthResult(msgType)

	case msg.RefreshResultMsg:
		if msgType.Err != nil {
			m.UI().SetStatus(state.StatusError, application.UserMessage(msgType.Err), "")
		} else {
			m.UI().SetStatus(state.StatusSuccess, "✓ 刷新完成", "")
		}
		return nil

	case msg.LogoutMsg:
		m.Dashboard().CancelDelete()
		m.Login().Reset()
		cmd := m.UI().SwitchView(state.StatusPageView)
		if msgType.Err != nil {
			m.UI().SetStatus(state.StatusWarn, "⚠ 已登出，但清除已保存令牌失敗", msgType.Err.Error())
		} else {
			m.UI().SetStatus(state.StatusSuccess, "✓ 已登出", "")
		}
		if msgType.Err == nil {
			m.Config().ForgetToken()
		}
		return cmd

	case msg.TokenSavedMsg:
		if msgType.Err != nil {
			r.log.Warn("保存令牌失敗", zap.Error(msgType.Err))
			m.UI().SetStatus(state.StatusWarn, "⚠ 登錄成功，但保存令牌失敗", msgType.Err.Error())
			return nil
		}
		m.UI().SetStatus(state.StatusSuccess, "✓ 登錄成功，令牌已保存", "")
		// 重新加載以同步已保存的令牌
		return r.cmdBuilder.LoadConfigCmd()
	}

	return nil
}

// applySnapshot 更新快照；會話失效時退出管理頁面
func (r *Router) applySnapshot(snap application.Snapshot) {
	m := r.stateMgr
	m.Session().Apply(snap)

	if snap.IsAuthenticated {
		return
	}
	switch m.UI().CurrentView {
	case state.AdminDashboardView, state.ServiceFormView:
		m.Dashboard().CancelDelete()
		m.UI().SwitchView(state.StatusPageView)
	}
}

func (r *Router) handleConfigLoaded(res msg.ConfigLoadedMsg) tea.Cmd {
	m := r.stateMgr

	if res.Err != nil {
		r.log.Error("TUI 配置加載失敗", zap.Error(res.Err))
		m.Config().UpdateConfig(nil)
		m.UI().SetStatus(state.StatusError, fmt.Sprintf("配置加載失敗：%v", res.Err), "")
		return nil
	}

	m.Config().UpdateConfig(res.Config)

	// 已保存令牌時自動登錄
	if m.Config().HasSavedToken() && !m.Session().IsAuthenticated() {
		return r.cmdBuilder.TokenLoginCmd(m.Config().SavedToken(), false, true)
	}
	return nil
}

func (r *Router) handleAuthResult(res msg.AuthResultMsg) tea.Cmd {
	m := r.stateMgr
	ui := m.UI()

	if res.Err != nil {
		if ui.CurrentView == state.AdminLoginView {
			m.Login().Reset()
			ui.SetMasked(m.Login().Masked())
		}
		ui.SetStatus(state.StatusError, "登錄失敗: "+application.UserMessage(res.Err), "")
		return nil
	}

	m.Login().Reset()
	m.Session().Apply(r.cmdBuilder.Snapshot())

	if res.Silent {
		ui.SetStatus(state.StatusInfo, "已使用保存的令牌連接 Zabbix", "")
		return nil
	}

	cmd := ui.SwitchView(state.AdminDashboardView)
	if res.Remember {
		ui.SetStatus(state.StatusInfo, "登錄成功，正在保存令牌...", "")
		return tea.Batch(cmd, r.cmdBuilder.SaveTokenCmd(res.Token))
	}
	ui.SetStatus(state.StatusSuccess, "✓ 登錄成功", "")
	return cmd
}

// TickCmd 每秒觸發一次
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
