package state

import (
	domainConfig "github.com/Yat-Muk/zstatus/internal/domain/config"
	"go.uber.org/zap"
)

// Config 初始化配置
type Config struct {
	Log           *zap.Logger
	InitialConfig *domainConfig.Config
}

// Manager 狀態管理器 (State Container)
type Manager struct {
	log *zap.Logger

	ui        *UIState
	config    *ConfigState
	session   *SessionState
	login     *LoginState
	dashboard *DashboardState
	form      *FormState
}

// NewManager 創建狀態管理器
func NewManager(cfg *Config) *Manager {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		log:       log,
		ui:        NewUIState(),
		config:    NewConfigState(cfg.InitialConfig),
		session:   NewSessionState(),
		login:     NewLoginState(),
		dashboard: NewDashboardState(),
		form:      NewFormState(),
	}
}

// Getters 訪問器

func (m *Manager) UI() *UIState               { return m.ui }
func (m *Manager) Config() *ConfigState       { return m.config }
func (m *Manager) Session() *SessionState     { return m.session }
func (m *Manager) Login() *LoginState         { return m.login }
func (m *Manager) Dashboard() *DashboardState { return m.dashboard }
func (m *Manager) Form() *FormState           { return m.form }
