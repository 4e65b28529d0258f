package application

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Yat-Muk/zstatus/internal/domain/config"
)

// ConfigBackup 配置寫入前的快照，內容未變時返回空名
type ConfigBackup interface {
	Snapshot(tag string) (string, error)
}

// ConfigService 配置服務
type ConfigService struct {
	repo     config.Repository
	migrator *config.Migrator
	backup   ConfigBackup
	logger   *zap.Logger
	mu       sync.Mutex
}

// NewConfigService 創建配置服務
func NewConfigService(repo config.Repository, logger *zap.Logger) *ConfigService {
	return &ConfigService{
		repo:     repo,
		migrator: config.NewMigrator(),
		logger:   logger,
	}
}

// SetBackup 設置寫入前的快照，nil 表示不備份
func (s *ConfigService) SetBackup(b ConfigBackup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backup = b
}

// snapshot 備份失敗不阻止寫入
func (s *ConfigService) snapshot(tag string) {
	if s.backup == nil {
		return
	}
	name, err := s.backup.Snapshot(tag)
	if err != nil {
		s.logger.Warn("配置備份失敗", zap.String("tag", tag), zap.Error(err))
		return
	}
	if name != "" {
		s.logger.Info("配置已備份", zap.String("backup", name))
	}
}

// GetConfig 獲取當前配置
func (s *ConfigService) GetConfig(ctx context.Context) (*config.Config, error) {
	return s.repo.Load(ctx)
}

// UpdateConfig 原子更新配置
// 流程: Lock -> Load -> DeepCopy -> Modify -> Validate -> Save
func (s *ConfigService) UpdateConfig(ctx context.Context, modifier func(*config.Config) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	currentCfg, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("加載配置失敗: %w", err)
	}

	newCfg := currentCfg.DeepCopy()
	if err := modifier(newCfg); err != nil {
		return fmt.Errorf("應用配置修改失敗: %w", err)
	}

	if err := newCfg.Validate(); err != nil {
		return fmt.Errorf("新配置驗證失敗: %w", err)
	}

	s.snapshot("update")

	if err := s.repo.Save(ctx, newCfg); err != nil {
		return fmt.Errorf("保存配置失敗: %w", err)
	}

	s.logger.Info("配置已更新並保存")
	return nil
}

// LoadWithMigration 加載配置，舊版本自動遷移並寫回
func (s *ConfigService) LoadWithMigration(ctx context.Context) (*config.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("加載配置失敗: %w", err)
	}

	if !s.migrator.NeedsMigration(cfg) {
		cfg.FillDefaults()
		return cfg, nil
	}

	oldVersion := cfg.Version
	s.logger.Info("開始配置遷移",
		zap.Int("from_version", oldVersion),
		zap.Int("to_version", config.ConfigVersionLatest),
		zap.String("migration_path", s.migrator.GetMigrationPath(oldVersion)),
	)

	newCfg, err := s.migrator.MigrateToLatest(cfg)
	if err != nil {
		return nil, fmt.Errorf("遷移失敗: %w", err)
	}

	s.snapshot(fmt.Sprintf("v%d", oldVersion))

	if err := s.repo.Save(ctx, newCfg); err != nil {
		return nil, fmt.Errorf("保存遷移後配置失敗: %w", err)
	}

	s.logger.Info("配置遷移完成", zap.Int("new_version", newCfg.Version))
	return newCfg, nil
}

// RememberToken 保存 API 令牌 (磁盤上加密)，下次啟動自動進入管理模式
func (s *ConfigService) RememberToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	return s.UpdateConfig(ctx, func(c *config.Config) error {
		c.Zabbix.Token = token
		return nil
	})
}

// ForgetToken 清除已保存的令牌
func (s *ConfigService) ForgetToken(ctx context.Context) error {
	return s.UpdateConfig(ctx, func(c *config.Config) error {
		c.Zabbix.Token = ""
		return nil
	})
}
