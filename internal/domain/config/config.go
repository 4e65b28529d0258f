package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Yat-Muk/zstatus/internal/pkg/crypto"
	"github.com/Yat-Muk/zstatus/internal/pkg/errors"
)

// Repository 配置倉庫接口
type Repository interface {
	// Load 加載配置
	Load(ctx context.Context) (*Config, error)

	// Save 保存配置
	Save(ctx context.Context, cfg *Config) error
}

// 默認值
const (
	DefaultPollInterval = 30 * time.Second
	DefaultUserAgent    = "zstatus"
	DefaultRefreshRate  = 1.0
	DefaultRefreshBurst = 1

	minPollInterval = time.Second
)

// Config 主配置結構
type Config struct {
	Version int          `yaml:"version"`
	Zabbix  ZabbixConfig `yaml:"zabbix"`
	Poll    PollConfig   `yaml:"poll"`
	Log     LogConfig    `yaml:"log"`
}

// ZabbixConfig Zabbix API 連接配置
type ZabbixConfig struct {
	URL       string        `yaml:"url"`
	Username  string        `yaml:"username"`
	Token     string        `yaml:"token"`   // 磁盤上加密保存
	Timeout   time.Duration `yaml:"timeout"` // 0 表示不設超時
	UserAgent string        `yaml:"user_agent"`
}

// PollConfig 輪詢配置
type PollConfig struct {
	Interval     time.Duration `yaml:"interval"`
	RefreshRate  float64       `yaml:"refresh_rate"` // 每秒允許的手動刷新次數
	RefreshBurst int           `yaml:"refresh_burst"`
}

// LogConfig 日誌配置
type LogConfig struct {
	Level      string `yaml:"level"`
	OutputPath string `yaml:"output_path"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// DefaultConfig 默認配置
func DefaultConfig() *Config {
	return &Config{
		Version: ConfigVersionLatest,
		Zabbix: ZabbixConfig{
			UserAgent: DefaultUserAgent,
		},
		Poll: PollConfig{
			Interval:     DefaultPollInterval,
			RefreshRate:  DefaultRefreshRate,
			RefreshBurst: DefaultRefreshBurst,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		},
	}
}

// FillDefaults 為缺失字段填充默認值
func (c *Config) FillDefaults() {
	if c.Zabbix.UserAgent == "" {
		c.Zabbix.UserAgent = DefaultUserAgent
	}
	if c.Poll.Interval <= 0 {
		c.Poll.Interval = DefaultPollInterval
	}
	if c.Poll.RefreshRate <= 0 {
		c.Poll.RefreshRate = DefaultRefreshRate
	}
	if c.Poll.RefreshBurst <= 0 {
		c.Poll.RefreshBurst = DefaultRefreshBurst
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSize <= 0 {
		c.Log.MaxSize = 10
	}
	if c.Log.MaxAge <= 0 {
		c.Log.MaxAge = 30
	}
}

// Validate 驗證配置
func (c *Config) Validate() error {
	if c.Zabbix.URL != "" {
		if err := ValidateURL(c.Zabbix.URL); err != nil {
			return err
		}
	}
	if c.Zabbix.Timeout < 0 {
		return errors.Wrap(errors.ErrConfigInvalid, errors.CodeConfig, "zabbix.timeout 不能為負數")
	}
	if c.Poll.Interval != 0 && c.Poll.Interval < minPollInterval {
		return errors.Wrap(errors.ErrConfigInvalid, errors.CodeConfig,
			fmt.Sprintf("poll.interval 不能小於 %s", minPollInterval))
	}
	if c.Poll.RefreshRate < 0 || c.Poll.RefreshBurst < 0 {
		return errors.Wrap(errors.ErrConfigInvalid, errors.CodeConfig, "poll 刷新限速不能為負數")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.Wrap(errors.ErrConfigInvalid, errors.CodeConfig,
			fmt.Sprintf("無效的日誌級別: %s", c.Log.Level))
	}
	return nil
}

// ValidateURL 檢查 API 地址為 http(s) 絕對地址
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.Wrap(errors.ErrConfigInvalid, errors.CodeConfig,
			fmt.Sprintf("無效的 Zabbix API 地址: %s", raw))
	}
	return nil
}

// EncryptSensitiveFields 加密令牌
func (c *Config) EncryptSensitiveFields(encryptor *crypto.Encryptor) error {
	if encryptor == nil {
		return nil
	}

	if c.Zabbix.Token != "" && !crypto.IsEncrypted(c.Zabbix.Token) {
		encrypted, err := encryptor.Bind(crypto.PurposeConfigToken).Encrypt(c.Zabbix.Token)
		if err != nil {
			return fmt.Errorf("加密 Zabbix 令牌失敗: %w", err)
		}
		c.Zabbix.Token = encrypted
	}
	return nil
}

// DecryptSensitiveFields 解密令牌，明文值保持不變
func (c *Config) DecryptSensitiveFields(encryptor *crypto.Encryptor) error {
	if encryptor == nil {
		return nil
	}

	if crypto.IsEncrypted(c.Zabbix.Token) {
		plain, err := encryptor.Bind(crypto.PurposeConfigToken).Decrypt(c.Zabbix.Token)
		if err != nil {
			return fmt.Errorf("解密 Zabbix 令牌失敗: %w", err)
		}
		c.Zabbix.Token = plain
	}
	return nil
}

// DeepCopy 深拷貝配置 (序列化回環)
func (c *Config) DeepCopy() *Config {
	if c == nil {
		return nil
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		panic(fmt.Errorf("DeepCopy 序列化失敗 (這是一個 Bug): %w", err))
	}

	var newCfg Config
	if err := yaml.Unmarshal(data, &newCfg); err != nil {
		panic(fmt.Errorf("DeepCopy 反序列化失敗 (這是一個 Bug): %w", err))
	}

	return &newCfg
}
