package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/Yat-Muk/zstatus/internal/application"
	domainConfig "github.com/Yat-Muk/zstatus/internal/domain/config"
	"github.com/Yat-Muk/zstatus/internal/domain/service"
	"github.com/Yat-Muk/zstatus/internal/tui/msg"
	"github.com/Yat-Muk/zstatus/internal/tui/state"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const (
	configTimeout = 5 * time.Second
	remoteTimeout = 30 * time.Second
)

// CommandBuilder 構建異步 tea.Cmd，並把會話狀態推送轉為消息
type CommandBuilder struct {
	log       *zap.Logger
	stateMgr  *state.Manager
	session   Session
	configSvc *application.ConfigService
	overrides func(*domainConfig.Config)

	updates     chan application.Snapshot
	unsubscribe func()
}

// NewCommandBuilder 構造函數，訂閱會話狀態變更
func NewCommandBuilder(
	log *zap.Logger,
	stateMgr *state.Manager,
	session Session,
	configSvc *application.ConfigService,
) *CommandBuilder {
	if log == nil {
		log = zap.NewNop()
	}
	b := &CommandBuilder{
		log:       log,
		stateMgr:  stateMgr,
		session:   session,
		configSvc: configSvc,
		updates:   make(chan application.Snapshot, 1),
	}
	if session != nil {
		b.unsubscribe = session.Subscribe(b.push)
		b.push(session.Snapshot())
	}
	return b
}

// SetConfigOverrides 設置加載配置後的覆蓋函數
func (b *CommandBuilder) SetConfigOverrides(fn func(*domainConfig.Config)) {
	b.overrides = fn
}

// push 只保留最新快照，不阻塞協調器的通知
func (b *CommandBuilder) push(snap application.Snapshot) {
	select {
	case b.updates <- snap:
		return
	default:
	}
	select {
	case <-b.updates:
	default:
	}
	select {
	case b.updates <- snap:
	default:
	}
}

// Close 取消訂閱
func (b *CommandBuilder) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}

// ========================================
// 會話狀態
// ========================================

// WaitForSnapshotCmd 等待下一次狀態推送
func (b *CommandBuilder) WaitForSnapshotCmd() tea.Cmd {
	if b.session == nil {
		return nil
	}
	return func() tea.Msg {
		return msg.SnapshotMsg{Snapshot: <-b.updates}
	}
}

// Snapshot 當前會話狀態
func (b *CommandBuilder) Snapshot() application.Snapshot {
	if b.session == nil {
		return application.Snapshot{}
	}
	return b.session.Snapshot()
}

// ========================================
// 配置
// ========================================

// LoadConfigCmd 加載配置
func (b *CommandBuilder) LoadConfigCmd() tea.Cmd {
	return func() tea.Msg {
		if b.configSvc == nil {
			return msg.ConfigLoadedMsg{Err: fmt.Errorf("ConfigService 未初始化")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), configTimeout)
		defer cancel()

		cfg, err := b.configSvc.GetConfig(ctx)
		if err == nil && b.overrides != nil {
			b.overrides(cfg)
		}
		return msg.ConfigLoadedMsg{Config: cfg, Err: err}
	}
}

// SaveTokenCmd 保存令牌 (加密落盤)
func (b *CommandBuilder) SaveTokenCmd(token string) tea.Cmd {
	return func() tea.Msg {
		if b.configSvc == nil {
			return msg.TokenSavedMsg{Err: fmt.Errorf("ConfigService 未初始化")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), configTimeout)
		defer cancel()

		return msg.TokenSavedMsg{Err: b.configSvc.RememberToken(ctx, token)}
	}
}

// ========================================
// 認證
// ========================================

// LoginCmd 用戶名密碼登錄
func (b *CommandBuilder) LoginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()

		err := b.session.Authenticate(ctx, username, password)
		if err != nil {
			b.log.Warn("TUI 登錄失敗", zap.String("username", username), zap.Error(err))
		}
		return msg.AuthResultMsg{Err: err}
	}
}

// TokenLoginCmd 令牌登錄；remember 為真時成功後保存令牌
func (b *CommandBuilder) TokenLoginCmd(token string, remember, silent bool) tea.Cmd {
	return func() tea.Msg {
		err := b.session.AuthenticateWithToken(token)
		out := msg.AuthResultMsg{Err: err, ByToken: true, Silent: silent}
		if err == nil && remember {
			out.Remember = true
			out.Token = token
		}
		return out
	}
}

// LogoutCmd 登出並清除已保存的令牌
func (b *CommandBuilder) LogoutCmd(forgetToken bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()

		b.session.Logout(ctx)

		if forgetToken && b.configSvc != nil {
			if err := b.configSvc.ForgetToken(ctx); err != nil {
				b.log.Warn("清除已保存令牌失敗", zap.Error(err))
				return msg.LogoutMsg{Err: err}
			}
		}
		return msg.LogoutMsg{}
	}
}

// RefreshCmd 手動刷新
func (b *CommandBuilder) RefreshCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()

		return msg.RefreshResultMsg{Err: b.session.Refresh(ctx)}
	}
}

// ========================================
// 本地服務編輯 (同步，無網絡)
// ========================================

func (b *CommandBuilder) AddService(draft service.Service) service.Service {
	return b.session.AddService(draft)
}

func (b *CommandBuilder) UpdateService(id string, patch service.Patch) bool {
	return b.session.UpdateService(id, patch)
}

func (b *CommandBuilder) DeleteService(id string) bool {
	return b.session.DeleteService(id)
}
