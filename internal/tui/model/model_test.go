package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Yat-Muk/zstatus/internal/application"
	"github.com/Yat-Muk/zstatus/internal/application/mocks"
	domainConfig "github.com/Yat-Muk/zstatus/internal/domain/config"
	"github.com/Yat-Muk/zstatus/internal/domain/service"
	"github.com/Yat-Muk/zstatus/internal/tui/handlers"
	"github.com/Yat-Muk/zstatus/internal/tui/msg"
	"github.com/Yat-Muk/zstatus/internal/tui/state"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// setupTestRouter 初始化測試用的 Router，遠端 API 返回空列表
func setupTestRouter(t *testing.T) (*Router, *application.SessionService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockRemoteAPI(ctrl)
	api.EXPECT().SetToken(gomock.Any()).AnyTimes()
	api.EXPECT().ListHosts(gomock.Any()).Return([]service.Host{}, nil).AnyTimes()
	api.EXPECT().ListTriggers(gomock.Any(), gomock.Any()).Return([]service.Trigger{}, nil).AnyTimes()
	api.EXPECT().Logout(gomock.Any()).AnyTimes()

	svc := application.NewSessionService(api, application.SessionConfig{PollInterval: time.Hour}, zap.NewNop())
	t.Cleanup(svc.Close)

	stateMgr := state.NewManager(&state.Config{
		Log:           zap.NewNop(),
		InitialConfig: domainConfig.DefaultConfig(),
	})

	r := NewRouter(&handlers.Config{
		Log:      zap.NewNop(),
		StateMgr: stateMgr,
		Session:  svc,
	})
	t.Cleanup(r.Close)
	return r, svc
}

func TestRouter_Init(t *testing.T) {
	r, _ := setupTestRouter(t)

	if cmd := r.InitModel(); cmd == nil {
		t.Error("InitModel should return initial commands")
	}
}

func TestRouter_ConfigLoaded(t *testing.T) {
	r, _ := setupTestRouter(t)

	cfg := domainConfig.DefaultConfig()
	cfg.Zabbix.URL = "https://zbx.example.com/api_jsonrpc.php"

	if cmd := r.routeMessage(msg.ConfigLoadedMsg{Config: cfg}); cmd != nil {
		t.Error("no saved token, expected no auto login")
	}
	if !r.stateMgr.Config().Loaded {
		t.Fatal("config should be marked loaded")
	}
	if !strings.Contains(r.View(), "zbx.example.com") {
		t.Error("status page should show server url")
	}
}

func TestRouter_ConfigLoadedAutoLogin(t *testing.T) {
	r, svc := setupTestRouter(t)

	cfg := domainConfig.DefaultConfig()
	cfg.Zabbix.Token = "saved-token"

	cmd := r.routeMessage(msg.ConfigLoadedMsg{Config: cfg})
	if cmd == nil {
		t.Fatal("saved token should trigger auto login")
	}

	res, ok := cmd().(msg.AuthResultMsg)
	if !ok || res.Err != nil || !res.Silent {
		t.Fatalf("unexpected auth result: %+v", res)
	}
	if !svc.Snapshot().IsAuthenticated {
		t.Error("session should be authenticated")
	}

	r.routeMessage(res)
	if r.stateMgr.UI().CurrentView != state.StatusPageView {
		t.Errorf("silent login should stay on status page, got %v", r.stateMgr.UI().CurrentView)
	}
	if !r.stateMgr.Session().IsAuthenticated() {
		t.Error("state should reflect authenticated session")
	}
}

func TestRouter_ConfigLoadFailure(t *testing.T) {
	r, _ := setupTestRouter(t)

	r.routeMessage(msg.ConfigLoadedMsg{Err: errors.New("broken yaml")})

	if r.stateMgr.UI().Status.Type != state.StatusError {
		t.Error("load failure should be shown")
	}
	if !r.stateMgr.Config().Loaded {
		t.Error("defaults should be used after failure")
	}
}

func TestRouter_AuthResult(t *testing.T) {
	r, _ := setupTestRouter(t)
	r.stateMgr.UI().SwitchView(state.AdminLoginView)
	r.stateMgr.Login().Step = state.LoginStepWaiting

	r.routeMessage(msg.AuthResultMsg{Err: errors.New("boom")})
	if r.stateMgr.UI().CurrentView != state.AdminLoginView {
		t.Error("failed login stays on login view")
	}
	if r.stateMgr.Login().Waiting() {
		t.Error("failed login should reset the form")
	}
	if !strings.Contains(r.stateMgr.UI().Status.Message, "登錄失敗") {
		t.Errorf("unexpected status: %s", r.stateMgr.UI().Status.Message)
	}

	cmd := r.routeMessage(msg.AuthResultMsg{ByToken: true, Remember: true, Token: "tok"})
	if r.stateMgr.UI().CurrentView != state.AdminDashboardView {
		t.Errorf("expected dashboard, got %v", r.stateMgr.UI().CurrentView)
	}
	if cmd == nil {
		t.Error("remember should schedule token save")
	}
}

func TestRouter_Snapshot(t *testing.T) {
	r, _ := setupTestRouter(t)

	snap := application.Snapshot{
		IsAuthenticated: true,
		Services:        []service.Service{{ID: "1", Name: "web01", Status: service.StatusOnline}},
	}
	cmd := r.routeMessage(msg.SnapshotMsg{Snapshot: snap})

	if cmd == nil {
		t.Error("snapshot handling should wait for the next push")
	}
	if len(r.stateMgr.Session().Services()) != 1 {
		t.Error("snapshot not applied")
	}
}

func TestRouter_SnapshotLoggedOutLeavesDashboard(t *testing.T) {
	r, _ := setupTestRouter(t)
	r.stateMgr.Session().Apply(application.Snapshot{IsAuthenticated: true})
	r.stateMgr.UI().SwitchView(state.AdminDashboardView)

	r.routeMessage(msg.SnapshotMsg{Snapshot: application.Snapshot{}})

	if r.stateMgr.UI().CurrentView != state.StatusPageView {
		t.Errorf("expected status page, got %v", r.stateMgr.UI().CurrentView)
	}
}

func TestRouter_Logout(t *testing.T) {
	r, _ := setupTestRouter(t)
	r.stateMgr.Config().GetConfig().Zabbix.Token = "tok"
	r.stateMgr.UI().SwitchView(state.AdminDashboardView)

	r.routeMessage(msg.LogoutMsg{})

	if r.stateMgr.UI().CurrentView != state.StatusPageView {
		t.Errorf("expected status page, got %v", r.stateMgr.UI().CurrentView)
	}
	if r.stateMgr.Config().HasSavedToken() {
		t.Error("token should be forgotten")
	}
}

func TestRouter_RefreshResult(t *testing.T) {
	r, _ := setupTestRouter(t)

	r.routeMessage(msg.RefreshResultMsg{Err: errors.New("x")})
	if r.stateMgr.UI().Status.Type != state.StatusError {
		t.Error("refresh error should be shown")
	}

	r.routeMessage(msg.RefreshResultMsg{})
	if r.stateMgr.UI().Status.Type != state.StatusSuccess {
		t.Error("refresh success should be shown")
	}
}

func TestRouter_View(t *testing.T) {
	r, _ := setupTestRouter(t)

	defer func() {
		if rec := recover(); rec != nil {
			t.Errorf("View() panicked: %v", rec)
		}
	}()

	if len(r.View()) == 0 {
		t.Error("View() returned empty string")
	}
}

func TestRouter_WindowSize(t *testing.T) {
	r, _ := setupTestRouter(t)

	r.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	if r.stateMgr.UI().Width != 100 || r.stateMgr.UI().Height != 50 {
		t.Errorf("UI dimensions not updated. Got %dx%d", r.stateMgr.UI().Width, r.stateMgr.UI().Height)
	}
}

func TestModel_Delegates(t *testing.T) {
	r, _ := setupTestRouter(t)
	m := NewModel(r)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	if next != m {
		t.Error("Update should return the same model")
	}
	if m.View() == "" {
		t.Error("View should render")
	}
}
