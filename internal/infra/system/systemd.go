package system

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/coreos/go-systemd/v22/dbus"
	"go.uber.org/zap"
)

// UnitManager 安裝 watch 服務所需的 systemd 操作
type UnitManager interface {
	DaemonReload(ctx context.Context) error
	Enable(ctx context.Context, unit string) error
	Disable(ctx context.Context, unit string) error
	Restart(ctx context.Context, unit string) error
	Stop(ctx context.Context, unit string) error
	IsActive(ctx context.Context, unit string) (bool, error)
	Close()
}

type dbusManager struct {
	conn *dbus.Conn
	log  *zap.Logger
	mu   sync.Mutex
}

// NewSystemdManager 通過 DBus 連接 systemd
func NewSystemdManager(ctx context.Context, log *zap.Logger) (UnitManager, error) {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("無法連接 Systemd DBus: %w", err)
	}
	return &dbusManager{conn: conn, log: log}, nil
}

func (m *dbusManager) Close() {
	if m.conn != nil {
		m.conn.Close()
	}
}

// ensureSuffix 確保單元名以 .service 結尾，DBus 不接受裸名稱
func ensureSuffix(unit string) string {
	if !strings.HasSuffix(unit, ".service") {
		return unit + ".service"
	}
	return unit
}

func (m *dbusManager) DaemonReload(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.conn.ReloadContext(ctx); err != nil {
		return fmt.Errorf("daemon-reload 失敗: %w", err)
	}
	return nil
}

func (m *dbusManager) Enable(ctx context.Context, unit string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, _, err := m.conn.EnableUnitFilesContext(ctx, []string{ensureSuffix(unit)}, false, true)
	if err != nil {
		return fmt.Errorf("啟用服務失敗: %w", err)
	}
	return nil
}

func (m *dbusManager) Disable(ctx context.Context, unit string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.conn.DisableUnitFilesContext(ctx, []string{ensureSuffix(unit)}, false)
	if err != nil {
		return fmt.Errorf("禁用服務失敗: %w", err)
	}
	return nil
}

func (m *dbusManager) Restart(ctx context.Context, unit string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan string, 1)
	if _, err := m.conn.RestartUnitContext(ctx, ensureSuffix(unit), "replace", ch); err != nil {
		return err
	}
	return waitJob(ctx, ch, "重啟")
}

func (m *dbusManager) Stop(ctx context.Context, unit string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan string, 1)
	if _, err := m.conn.StopUnitContext(ctx, ensureSuffix(unit), "replace", ch); err != nil {
		return err
	}
	return waitJob(ctx, ch, "停止")
}

func (m *dbusManager) IsActive(ctx context.Context, unit string) (bool, error) {
	units, err := m.conn.ListUnitsByNamesContext(ctx, []string{ensureSuffix(unit)})
	if err != nil {
		return false, err
	}
	if len(units) == 0 {
		return false, nil
	}
	return units[0].ActiveState == "active", nil
}

func waitJob(ctx context.Context, ch <-chan string, action string) error {
	select {
	case result := <-ch:
		if result != "done" {
			return fmt.Errorf("%s服務失敗: %s", action, result)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s服務超時: %w", action, ctx.Err())
	}
}
