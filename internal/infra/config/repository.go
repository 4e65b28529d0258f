package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	domainConfig "github.com/Yat-Muk/zstatus/internal/domain/config"
	"github.com/Yat-Muk/zstatus/internal/pkg/crypto"
	"github.com/Yat-Muk/zstatus/internal/pkg/errors"
)

// FileRepository 基於 YAML 文件的配置倉庫
type FileRepository struct {
	filePath     string
	mu           sync.RWMutex
	fileMu       sync.Mutex // 序列化文件 I/O
	encryptor    *crypto.Encryptor
	logger       *zap.Logger
	cachedConfig *domainConfig.Config
	lastModTime  time.Time
}

func NewFileRepository(path string, encryptor *crypto.Encryptor, logger *zap.Logger) *FileRepository {
	return &FileRepository{
		filePath:  path,
		encryptor: encryptor,
		logger:    logger,
	}
}

// Path 配置文件路徑
func (r *FileRepository) Path() string {
	return r.filePath
}

// Load 加載配置: 文件未變更時走緩存，否則重新讀取並解密
func (r *FileRepository) Load(ctx context.Context) (*domainConfig.Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	stat, err := os.Stat(r.filePath)
	if os.IsNotExist(err) {
		r.mu.RUnlock()
		r.logger.Info("配置文件不存在，使用默認配置", zap.String("path", r.filePath))
		return domainConfig.DefaultConfig(), nil
	}
	if err != nil {
		r.mu.RUnlock()
		return nil, fmt.Errorf("檢查配置文件狀態失敗: %w", err)
	}
	if r.cachedConfig != nil && !stat.ModTime().After(r.lastModTime) {
		cfg := r.cachedConfig.DeepCopy()
		r.mu.RUnlock()
		return cfg, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// 雙重檢查，等鎖期間可能已被其他協程加載
	stat, err = os.Stat(r.filePath)
	if os.IsNotExist(err) {
		return domainConfig.DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("檢查配置文件狀態失敗: %w", err)
	}
	if r.cachedConfig != nil && !stat.ModTime().After(r.lastModTime) {
		return r.cachedConfig.DeepCopy(), nil
	}

	r.fileMu.Lock()
	content, err := os.ReadFile(r.filePath)
	r.fileMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("讀取配置文件失敗: %w", err)
	}

	cfg := &domainConfig.Config{}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, errors.Wrap(fmt.Errorf("%w: %v", errors.ErrConfigParseFailed, err),
			errors.CodeConfig, "解析配置文件格式失敗")
	}

	if err := cfg.DecryptSensitiveFields(r.encryptor); err != nil {
		r.logger.Error("配置解密失敗", zap.Error(err))
		return nil, fmt.Errorf("解密敏感配置失敗: %w", err)
	}

	r.cachedConfig = cfg.DeepCopy()
	r.lastModTime = stat.ModTime()

	r.logger.Info("配置文件已從磁盤加載",
		zap.String("path", r.filePath),
		zap.Time("mod_time", r.lastModTime),
	)

	return cfg, nil
}

// Save 加密敏感字段後原子寫入 (臨時文件 + Rename)
func (r *FileRepository) Save(ctx context.Context, cfg *domainConfig.Config) error {
	if cfg == nil {
		return fmt.Errorf("配置對象為空")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.fileMu.Lock()
	defer r.fileMu.Unlock()

	onDisk := cfg.DeepCopy()
	if err := onDisk.EncryptSensitiveFields(r.encryptor); err != nil {
		return fmt.Errorf("加密配置失敗: %w", err)
	}

	data, err := yaml.Marshal(onDisk)
	if err != nil {
		return fmt.Errorf("序列化配置失敗: %w", err)
	}

	dir := filepath.Dir(r.filePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("創建配置目錄失敗: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "config.*.yaml.tmp")
	if err != nil {
		return fmt.Errorf("創建臨時文件失敗: %w", err)
	}
	tmpName := tmpFile.Name()

	committed := false
	defer func() {
		if !committed {
			tmpFile.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("寫入數據失敗: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("同步磁盤失敗: %w", err)
	}
	if err := tmpFile.Chmod(0600); err != nil {
		r.logger.Warn("設置文件權限失敗", zap.Error(err))
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("關閉臨時文件失敗: %w", err)
	}
	if err := os.Rename(tmpName, r.filePath); err != nil {
		return fmt.Errorf("替換配置文件失敗: %w", err)
	}
	committed = true

	r.mu.Lock()
	r.cachedConfig = cfg.DeepCopy()
	if stat, err := os.Stat(r.filePath); err == nil {
		r.lastModTime = stat.ModTime()
	}
	r.mu.Unlock()

	r.logger.Debug("配置已保存", zap.String("path", r.filePath))
	return nil
}
