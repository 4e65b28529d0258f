package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Yat-Muk/zstatus/internal/infra/system"
	"go.uber.org/zap"
)

const installTimeout = 30 * time.Second

// unitOptions 當前可執行文件以 watch 模式運行的單元參數
func unitOptions(deps *AppDependencies, executable func() (string, error)) (system.UnitOptions, error) {
	bin, err := executable()
	if err != nil {
		return system.UnitOptions{}, fmt.Errorf("無法定位可執行文件: %w", err)
	}
	return system.UnitOptions{
		BinPath:      bin,
		WorkDir:      deps.Paths.BaseDir,
		EnvFile:      deps.Paths.EnvFile,
		PollInterval: deps.Config.Poll.Interval,
	}, nil
}

// runInstall 安裝或卸載 watch 模式的 systemd 服務
func runInstall(deps *AppDependencies, uninstall bool) error {
	opts, err := unitOptions(deps, os.Executable)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), installTimeout)
	defer cancel()

	mgr, err := system.NewSystemdManager(ctx, deps.Log)
	if err != nil {
		return err
	}
	defer mgr.Close()

	installer := system.NewServiceInstaller(opts, mgr, system.DefaultUnitDir, deps.Log)
	if uninstall {
		if err := installer.Uninstall(ctx); err != nil {
			return err
		}
		fmt.Printf("✅ 已卸載 %s\n", system.UnitName)
		return nil
	}

	if err := installer.Install(ctx); err != nil {
		return err
	}
	deps.Log.Info("watch 服務已安裝", zap.String("unit", installer.UnitPath()))
	fmt.Printf("✅ 已安裝 %s\n   憑據請寫入 %s (%s 或 %s/%s)\n",
		installer.UnitPath(), opts.EnvFile, EnvZabbixToken, EnvZabbixUsername, EnvZabbixPassword)
	return nil
}
