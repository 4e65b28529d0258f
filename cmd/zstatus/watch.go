package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Yat-Muk/zstatus/internal/application"
	"github.com/Yat-Muk/zstatus/internal/domain/service"
	"github.com/Yat-Muk/zstatus/internal/infra/system"
	"github.com/Yat-Muk/zstatus/internal/pkg/logger"
	"go.uber.org/zap"
)

const logoutTimeout = 10 * time.Second

var errMissingCredentials = errors.New("watch mode needs a token or username and password")

// watchSession watch 模式使用的協調器能力
type watchSession interface {
	Authenticate(ctx context.Context, username, password string) error
	AuthenticateWithToken(token string) error
	Logout(ctx context.Context)
	Close()
	Subscribe(fn application.Listener) func()
}

// runWatch 無界面運行：登錄後每次拉取記錄一條摘要，直到 ctx 取消
func runWatch(ctx context.Context, deps *AppDependencies, notifier system.Notifier, password string) error {
	return watchLoop(ctx, deps.Session, deps.Config.Zabbix.Token, deps.Config.Zabbix.Username, password, notifier, deps.Log)
}

func watchLoop(
	ctx context.Context,
	sess watchSession,
	token, username, password string,
	notifier system.Notifier,
	log *zap.Logger,
) error {
	safe := logger.NewSafeLogger(log)

	updates := make(chan application.Snapshot, 1)
	unsubscribe := sess.Subscribe(func(s application.Snapshot) {
		// 只保留最新一條
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- s:
		default:
		}
	})
	defer unsubscribe()

	// 令牌由環境變量或配置提供，服務重啟後會再次使用
	tokenMode := strings.TrimSpace(token) != ""

	switch {
	case tokenMode:
		if err := sess.AuthenticateWithToken(token); err != nil {
			return fmt.Errorf("令牌登錄失敗: %w", err)
		}
		safe.Infow("watch 模式使用令牌登錄", "token", token)
	case username != "" && password != "":
		if err := sess.Authenticate(ctx, username, password); err != nil {
			return fmt.Errorf("登錄失敗: %w", err)
		}
		safe.Infow("watch 模式使用密碼登錄", "username", username)
	default:
		return errMissingCredentials
	}

	if err := notifier.Ready(); err != nil {
		log.Warn("發送 READY 失敗", zap.Error(err))
	}

	var (
		lastFetch time.Time
		lastErr   string
	)
	for {
		select {
		case <-ctx.Done():
			log.Info("收到退出信號，正在結束會話")
			_ = notifier.Stopping()

			logoutCtx, cancel := context.WithTimeout(context.Background(), logoutTimeout)
			endSession(logoutCtx, sess, tokenMode, log)
			cancel()
			return nil

		case snap := <-updates:
			if snap.Error != "" && snap.Error != lastErr {
				log.Warn("獲取服務狀態失敗", zap.String("error", snap.Error))
				_ = notifier.Status("錯誤: " + snap.Error)
			}
			lastErr = snap.Error

			if snap.LastFetch.IsZero() || !snap.LastFetch.After(lastFetch) {
				continue
			}
			lastFetch = snap.LastFetch

			summary := summarize(snap.Services)
			log.Info("服務狀態", zap.Int("total", len(snap.Services)), zap.String("summary", summary))
			_ = notifier.Status(summary)
			if notifier.WatchdogEnabled() {
				if err := notifier.Watchdog(); err != nil {
					log.Warn("發送看門狗心跳失敗", zap.Error(err))
				}
			}
		}
	}
}

// summarize 形如 "online=3 warning=1 offline=0 maintenance=0"
func summarize(services []service.Service) string {
	counts := service.Counts(services)
	parts := make([]string, 0, len(service.AllStatuses))
	for _, st := range service.AllStatuses {
		parts = append(parts, fmt.Sprintf("%s=%d", st, counts[st]))
	}
	return strings.Join(parts, " ")
}
