package handlers

import (
	"context"

	"github.com/Yat-Muk/zstatus/internal/application"
	domainConfig "github.com/Yat-Muk/zstatus/internal/domain/config"
	"github.com/Yat-Muk/zstatus/internal/domain/service"
	"github.com/Yat-Muk/zstatus/internal/tui/state"
	"go.uber.org/zap"
)

// Session TUI 使用的會話協調器能力，由 *application.SessionService 實現
type Session interface {
	Authenticate(ctx context.Context, username, password string) error
	AuthenticateWithToken(token string) error
	Logout(ctx context.Context)
	Refresh(ctx context.Context) error
	AddService(draft service.Service) service.Service
	UpdateService(id string, patch service.Patch) bool
	DeleteService(id string) bool
	Snapshot() application.Snapshot
	Subscribe(fn application.Listener) func()
}

// Config 用於初始化 Handlers 的配置結構體
type Config struct {
	Log       *zap.Logger
	StateMgr  *state.Manager
	Session   Session
	ConfigSvc *application.ConfigService

	// ConfigOverrides 在每次加載後應用命令行/環境變量覆蓋，可為空
	ConfigOverrides func(*domainConfig.Config)
}
