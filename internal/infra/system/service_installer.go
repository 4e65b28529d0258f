package system

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"go.uber.org/zap"
)

const (
	// UnitName watch 模式的 systemd 單元名
	UnitName = "zstatus.service"
	// DefaultUnitDir 系統級單元目錄
	DefaultUnitDir = "/etc/systemd/system"

	minWatchdog = 30 * time.Second
)

const unitTemplate = `[Unit]
Description=zstatus Zabbix status watcher
After=network-online.target
Wants=network-online.target

[Service]
Type=notify
Environment="ZSTATUS_ENV=production"
EnvironmentFile=-{{.EnvFile}}
ExecStart={{.BinPath}} -watch -dir {{.WorkDir}}
WatchdogSec={{.WatchdogSec}}
Restart=on-failure
RestartSec=5s
NoNewPrivileges=true

[Install]
WantedBy=multi-user.target
`

// UnitOptions 單元文件參數
type UnitOptions struct {
	BinPath string
	WorkDir string
	// EnvFile 憑據文件，ZSTATUS_* 變量寫在這裡而不是單元文件中
	EnvFile      string
	PollInterval time.Duration
}

// WatchdogSec 三個輪詢週期內沒有新數據即判定卡死
func (o UnitOptions) WatchdogSec() int {
	d := 3 * o.PollInterval
	if d < minWatchdog {
		d = minWatchdog
	}
	return int(d / time.Second)
}

// ServiceInstaller 寫入並管理 watch 模式的 systemd 服務
type ServiceInstaller struct {
	opts    UnitOptions
	manager UnitManager
	unitDir string
	log     *zap.Logger
}

func NewServiceInstaller(opts UnitOptions, manager UnitManager, unitDir string, log *zap.Logger) *ServiceInstaller {
	if unitDir == "" {
		unitDir = DefaultUnitDir
	}
	return &ServiceInstaller{opts: opts, manager: manager, unitDir: unitDir, log: log}
}

// UnitPath 單元文件完整路徑
func (s *ServiceInstaller) UnitPath() string {
	return filepath.Join(s.unitDir, UnitName)
}

// Render 輸出單元文件內容
func (s *ServiceInstaller) Render(w io.Writer) error {
	if s.opts.BinPath == "" || s.opts.WorkDir == "" || s.opts.EnvFile == "" {
		return errors.New("unit options are incomplete")
	}
	tmpl, err := template.New("unit").Parse(unitTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, s.opts)
}

// Install 寫入單元文件，重載後啟用並(重新)啟動服務
func (s *ServiceInstaller) Install(ctx context.Context) error {
	path := s.UnitPath()
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("無法創建服務文件: %w", err)
	}
	if err := s.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("生成服務文件失敗: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("寫入服務文件失敗: %w", err)
	}
	s.log.Info("服務文件已寫入", zap.String("path", path))

	if err := s.manager.DaemonReload(ctx); err != nil {
		return err
	}
	if err := s.manager.Enable(ctx, UnitName); err != nil {
		return err
	}
	if err := s.manager.Restart(ctx, UnitName); err != nil {
		return fmt.Errorf("啟動服務失敗: %w", err)
	}

	s.log.Info("服務已啟用並啟動", zap.String("unit", UnitName))
	return nil
}

// Uninstall 停止並禁用服務後刪除單元文件，文件不存在時視為成功
func (s *ServiceInstaller) Uninstall(ctx context.Context) error {
	active, err := s.manager.IsActive(ctx, UnitName)
	if err != nil {
		s.log.Warn("查詢服務狀態失敗", zap.Error(err))
	}
	if active {
		if err := s.manager.Stop(ctx, UnitName); err != nil {
			return fmt.Errorf("停止服務失敗: %w", err)
		}
	}
	if err := s.manager.Disable(ctx, UnitName); err != nil {
		s.log.Warn("禁用服務失敗", zap.Error(err))
	}

	if err := os.Remove(s.UnitPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("刪除服務文件失敗: %w", err)
	}
	if err := s.manager.DaemonReload(ctx); err != nil {
		return err
	}

	s.log.Info("服務已卸載", zap.String("unit", UnitName))
	return nil
}
