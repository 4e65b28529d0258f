package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	domainConfig "github.com/Yat-Muk/zstatus/internal/domain/config"
	"github.com/Yat-Muk/zstatus/internal/infra/system"
	"github.com/Yat-Muk/zstatus/internal/pkg/appctx"
	"github.com/Yat-Muk/zstatus/internal/pkg/logger"
	"github.com/Yat-Muk/zstatus/internal/pkg/version"
	"github.com/Yat-Muk/zstatus/internal/tui/model"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func main() {
	// 1. 命令行參數解析
	var (
		workDir   = flag.String("dir", "", "指定工作目錄 (默認: /etc/zstatus 或 ~/.zstatus)")
		apiURL    = flag.String("url", "", "Zabbix API 地址 (覆蓋配置文件)")
		watchMode = flag.Bool("watch", false, "無界面模式，定時記錄服務狀態 (適用於 systemd)")
		showVer   = flag.Bool("version", false, "顯示版本信息")
		debugFlag = flag.Bool("debug", false, "開啟調試模式")
		install   = flag.Bool("install-service", false, "安裝並啟動 watch 模式的 systemd 服務")
		uninstall = flag.Bool("uninstall-service", false, "停止並卸載 watch 模式的 systemd 服務")
		listBak   = flag.Bool("list-backups", false, "列出配置備份")
		restore   = flag.String("restore-backup", "", "從指定備份恢復配置文件")
	)
	flag.Parse()

	if *showVer {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// 2. 環境初始化
	paths, err := appctx.NewPaths(*workDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "致命錯誤: 無法初始化路徑: %v\n", err)
		os.Exit(1)
	}

	if *listBak || *restore != "" {
		if err := runBackupCommand(os.Stdout, paths, *restore); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		return
	}

	opts := optionsFromEnv(os.Getenv, *apiURL)
	opts.Debug = *debugFlag
	// TUI 佔用終端，只寫文件
	headless := *watchMode || *install || *uninstall
	opts.Console = headless

	if !headless {
		redirectStdErr(filepath.Join(paths.LogDir, "stderr.log"))
	}

	bootLog, err := logger.New(loggerConfig(domainConfig.DefaultConfig().Log, paths, opts))
	if err != nil {
		panic(fmt.Sprintf("日誌初始化失敗: %v", err))
	}
	defer bootLog.Sync()

	bootLog.Info("zstatus 正在啟動",
		zap.String("version", version.Version),
		zap.String("commit", version.GitCommit),
		zap.Bool("watch_mode", *watchMode),
	)

	// 3. 依賴注入
	deps, err := initializeDependencies(bootLog, paths, opts)
	if err != nil {
		bootLog.Fatal("依賴初始化失敗", zap.Error(err))
	}
	defer deps.Close()

	// 4. 模式分發
	if *install || *uninstall {
		if err := runInstall(deps, *uninstall); err != nil {
			deps.Log.Error("systemd 服務操作失敗", zap.Error(err))
			deps.Close()
			os.Exit(1)
		}
		return
	}

	if *watchMode {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		notifier := system.NewNotifier(deps.Log)
		if err := runWatch(ctx, deps, notifier, opts.Password); err != nil {
			deps.Log.Error("watch 模式退出", zap.Error(err))
			deps.Close()
			os.Exit(1)
		}
		return
	}

	runTUI(deps)
}

func runTUI(deps *AppDependencies) {
	router := model.NewRouter(deps.HandlerConfig)
	mainModel := model.NewModel(router)
	defer mainModel.Close()

	p := tea.NewProgram(
		mainModel,
		tea.WithAltScreen(),
	)

	// 崩潰保護
	defer func() {
		if r := recover(); r != nil {
			p.ReleaseTerminal()
			fmt.Printf("\n\n❌ 程序崩潰: %v\n", r)
			deps.Log.Error("Panic", zap.Any("error", r), zap.String("stack", string(debug.Stack())))
			os.Exit(1)
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Printf("程序運行錯誤: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), logoutTimeout)
	defer cancel()

	saved := ""
	if cfg, err := deps.ConfigService.GetConfig(ctx); err == nil {
		saved = cfg.Zabbix.Token
	}
	endSession(ctx, deps.Session, tokenReused(deps.Client.Token(), saved, deps.Config.Zabbix.Token), deps.Log)

	fmt.Println("👋 Bye!")
}

func redirectStdErr(filename string) {
	_ = os.MkdirAll(filepath.Dir(filename), 0755)
	f, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err == nil {
		os.Stderr = f
	}
}
