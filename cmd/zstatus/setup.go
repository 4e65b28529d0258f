package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Yat-Muk/zstatus/internal/application"
	domainConfig "github.com/Yat-Muk/zstatus/internal/domain/config"
	infraConfig "github.com/Yat-Muk/zstatus/internal/infra/config"
	"github.com/Yat-Muk/zstatus/internal/infra/zabbix"
	"github.com/Yat-Muk/zstatus/internal/pkg/appctx"
	"github.com/Yat-Muk/zstatus/internal/pkg/crypto"
	"github.com/Yat-Muk/zstatus/internal/pkg/logger"
	"github.com/Yat-Muk/zstatus/internal/pkg/version"
	"github.com/Yat-Muk/zstatus/internal/tui/handlers"
	"github.com/Yat-Muk/zstatus/internal/tui/state"
	"go.uber.org/zap"
)

// 環境變量覆蓋
const (
	EnvZabbixURL      = "ZSTATUS_ZABBIX_URL"
	EnvZabbixToken    = "ZSTATUS_ZABBIX_TOKEN"
	EnvZabbixUsername = "ZSTATUS_ZABBIX_USERNAME"
	EnvZabbixPassword = "ZSTATUS_ZABBIX_PASSWORD"
)

// Options 命令行與環境變量中的運行參數，只作用於內存中的配置
type Options struct {
	URL      string
	Token    string
	Username string
	Password string // 僅 watch 模式使用，從不寫入配置
	Console  bool
	Debug    bool
}

// optionsFromEnv 合併環境變量，命令行 -url 優先
func optionsFromEnv(getenv func(string) string, urlFlag string) Options {
	opts := Options{
		URL:      strings.TrimSpace(getenv(EnvZabbixURL)),
		Token:    strings.TrimSpace(getenv(EnvZabbixToken)),
		Username: strings.TrimSpace(getenv(EnvZabbixUsername)),
		Password: getenv(EnvZabbixPassword),
	}
	if u := strings.TrimSpace(urlFlag); u != "" {
		opts.URL = u
	}
	return opts
}

// apply 把覆蓋項寫入配置副本
func (o Options) apply(cfg *domainConfig.Config) {
	if o.URL != "" {
		cfg.Zabbix.URL = o.URL
	}
	if o.Token != "" {
		cfg.Zabbix.Token = o.Token
	}
	if o.Username != "" {
		cfg.Zabbix.Username = o.Username
	}
}

// loggerConfig 由配置生成日誌參數
func loggerConfig(lc domainConfig.LogConfig, paths *appctx.Paths, opts Options) logger.Config {
	out := logger.DefaultConfig()
	out.OutputPath = paths.LogFile
	out.Console = opts.Console
	out.Fields = []zap.Field{zap.String("version", version.Version)}

	if lc.Level != "" {
		out.Level = lc.Level
	}
	if lc.OutputPath != "" {
		out.OutputPath = lc.OutputPath
		if !filepath.IsAbs(out.OutputPath) {
			out.OutputPath = filepath.Join(paths.LogDir, out.OutputPath)
		}
	}
	if lc.MaxSize > 0 {
		out.MaxSize = lc.MaxSize
	}
	if lc.MaxBackups > 0 {
		out.MaxBackups = lc.MaxBackups
	}
	if lc.MaxAge > 0 {
		out.MaxAge = lc.MaxAge
	}
	out.Compress = lc.Compress

	if opts.Debug {
		out.Level = "debug"
	}
	return out
}

type AppDependencies struct {
	Log           *zap.Logger
	Paths         *appctx.Paths
	Config        *domainConfig.Config
	ConfigService *application.ConfigService
	Client        *zabbix.Client
	Session       *application.SessionService
	HandlerConfig *handlers.Config
}

// Close 停止輪詢
func (d *AppDependencies) Close() {
	d.Session.Close()
	_ = d.Log.Sync()
}

func initializeDependencies(bootLog *zap.Logger, paths *appctx.Paths, opts Options) (*AppDependencies, error) {
	ctx := context.Background()

	// ==========================================
	// 1. 配置 (Configuration)
	// ==========================================
	encryptor, err := crypto.NewEncryptor(paths.MasterKeyFile)
	if err != nil {
		return nil, fmt.Errorf("初始化加密器失敗: %w", err)
	}
	bootLog.Debug("加密器已就緒", zap.String("fingerprint", encryptor.Fingerprint()))

	configRepo := infraConfig.NewFileRepository(paths.ConfigFile, encryptor, bootLog)
	configSvc := application.NewConfigService(configRepo, bootLog)
	if backupMgr, err := newBackupManager(paths, encryptor); err != nil {
		bootLog.Warn("配置備份不可用", zap.Error(err))
	} else {
		configSvc.SetBackup(backupMgr)
	}

	cfg, err := configSvc.LoadWithMigration(ctx)
	if err != nil {
		return nil, err
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 配置中的日誌參數生效後替換啟動日誌
	log := bootLog
	if fileLog, err := logger.New(loggerConfig(cfg.Log, paths, opts)); err != nil {
		bootLog.Warn("按配置創建日誌失敗，繼續使用默認日誌", zap.Error(err))
	} else {
		log = fileLog
	}

	// ==========================================
	// 2. 基礎設施層 (Infrastructure Layer)
	// ==========================================
	client := zabbix.NewClient(cfg.Zabbix.URL,
		zabbix.WithLogger(logger.Component(log, "zabbix")),
		zabbix.WithTimeout(cfg.Zabbix.Timeout),
		zabbix.WithUserAgent(version.UserAgent(cfg.Zabbix.UserAgent)),
	)

	// ==========================================
	// 3. 應用服務層 (Application Layer)
	// ==========================================
	sessionSvc := application.NewSessionService(client, application.SessionConfig{
		PollInterval: cfg.Poll.Interval,
		RefreshRate:  cfg.Poll.RefreshRate,
		RefreshBurst: cfg.Poll.RefreshBurst,
	}, logger.Component(log, "session"))

	// ==========================================
	// 4. 狀態管理與 TUI Handler
	// ==========================================
	stateMgr := state.NewManager(&state.Config{
		Log:           log,
		InitialConfig: cfg.DeepCopy(),
	})

	handlerCfg := &handlers.Config{
		Log:             log,
		StateMgr:        stateMgr,
		Session:         sessionSvc,
		ConfigSvc:       configSvc,
		ConfigOverrides: opts.apply,
	}

	log.Info("依賴初始化完成",
		zap.String("config", configRepo.Path()),
		logger.SanitizedURL("zabbix_url", cfg.Zabbix.URL),
		zap.Duration("poll_interval", cfg.Poll.Interval),
	)

	return &AppDependencies{
		Log:           log,
		Paths:         paths,
		Config:        cfg,
		ConfigService: configSvc,
		Client:        client,
		Session:       sessionSvc,
		HandlerConfig: handlerCfg,
	}, nil
}
