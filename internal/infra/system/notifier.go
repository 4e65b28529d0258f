package system

import (
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"go.uber.org/zap"
)

// Notifier 向 systemd 報告進程狀態 (Type=notify 服務)
type Notifier interface {
	Ready() error
	Watchdog() error
	Stopping() error
	Status(msg string) error
	// WatchdogEnabled 服務配置了 WatchdogSec 時返回 true
	WatchdogEnabled() bool
}

type sdNotifier struct {
	log      *zap.Logger
	notify   func(unsetEnv bool, state string) (bool, error)
	interval time.Duration
}

// NewNotifier 創建 sd_notify 通知器，未在 systemd 下運行時所有調用都是空操作
func NewNotifier(log *zap.Logger) Notifier {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		log.Warn("讀取 systemd 看門狗配置失敗", zap.Error(err))
		interval = 0
	}
	return &sdNotifier{
		log:      log,
		notify:   daemon.SdNotify,
		interval: interval,
	}
}

func (n *sdNotifier) send(state string) error {
	sent, err := n.notify(false, state)
	if err != nil {
		return fmt.Errorf("sd_notify %q 失敗: %w", state, err)
	}
	if !sent {
		n.log.Debug("未檢測到 NOTIFY_SOCKET，跳過通知", zap.String("state", state))
	}
	return nil
}

func (n *sdNotifier) Ready() error {
	return n.send(daemon.SdNotifyReady)
}

func (n *sdNotifier) Watchdog() error {
	if n.interval <= 0 {
		return nil
	}
	return n.send(daemon.SdNotifyWatchdog)
}

func (n *sdNotifier) Stopping() error {
	return n.send(daemon.SdNotifyStopping)
}

func (n *sdNotifier) Status(msg string) error {
	return n.send("STATUS=" + msg)
}

func (n *sdNotifier) WatchdogEnabled() bool {
	return n.interval > 0
}
