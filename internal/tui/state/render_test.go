package state

import (
	"testing"
	"time"

	"github.com/Yat-Muk/zstatus/internal/application"
	domainConfig "github.com/Yat-Muk/zstatus/internal/domain/config"
	"github.com/Yat-Muk/zstatus/internal/domain/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestManager() *Manager {
	m := NewManager(&Config{Log: zap.NewNop(), InitialConfig: domainConfig.DefaultConfig()})
	m.Config().UpdateConfig(domainConfig.DefaultConfig())
	return m
}

func TestRender_LoadingBeforeConfig(t *testing.T) {
	m := NewManager(&Config{Log: zap.NewNop()})
	assert.Contains(t, m.Render(), "初始化配置中")
}

func TestRender_StatusPage(t *testing.T) {
	m := newTestManager()

	assert.Contains(t, m.Render(), "尚未連接 Zabbix")

	m.Session().Apply(application.Snapshot{
		IsAuthenticated: true,
		LastFetch:       time.Now(),
		Services: []service.Service{
			{ID: "1", Name: "web01", Description: "Host: web01", Status: service.StatusOffline, Uptime: "0%", HostID: "1", LastCheck: time.Now()},
		},
		Error: "獲取服務失敗",
	})

	out := m.Render()
	assert.Contains(t, out, "web01")
	assert.Contains(t, out, "Host: web01")
	assert.Contains(t, out, "獲取服務失敗")
}

func TestRender_DashboardConfirm(t *testing.T) {
	m := newTestManager()
	m.Session().Apply(application.Snapshot{
		IsAuthenticated: true,
		Services:        []service.Service{{ID: "9", Name: "db01", Status: service.StatusWarning}},
	})
	m.UI().SwitchView(AdminDashboardView)
	m.Dashboard().RequestDelete("9", "db01")

	out := m.Render()
	assert.Contains(t, out, "db01")
	assert.Contains(t, out, "確認刪除服務")
}

func TestRender_Form(t *testing.T) {
	m := newTestManager()
	m.Form().StartAdd()
	m.UI().SwitchView(ServiceFormView)

	out := m.Render()
	assert.Contains(t, out, "添加服務")
	assert.Contains(t, out, "名稱")
}
