package state

import (
	domainConfig "github.com/Yat-Muk/zstatus/internal/domain/config"
	"github.com/Yat-Muk/zstatus/internal/pkg/sanitizer"
)

// ConfigState 界面持有的配置副本，Loaded 之前顯示加載中
type ConfigState struct {
	Config *domainConfig.Config
	Loaded bool
}

func NewConfigState(cfg *domainConfig.Config) *ConfigState {
	if cfg == nil {
		cfg = domainConfig.DefaultConfig()
	}
	return &ConfigState{Config: cfg}
}

func (s *ConfigState) GetConfig() *domainConfig.Config {
	if s.Config == nil {
		s.Config = domainConfig.DefaultConfig()
	}
	return s.Config
}

// UpdateConfig 從磁盤加載後調用，nil 表示加載失敗時回退到默認配置
func (s *ConfigState) UpdateConfig(cfg *domainConfig.Config) {
	if cfg == nil {
		cfg = domainConfig.DefaultConfig()
	}
	s.Config = cfg
	s.Loaded = true
}

// ServerURL 用於顯示的 API 地址，去掉 URL 中的憑據
func (s *ConfigState) ServerURL() string {
	return sanitizer.URL(s.GetConfig().Zabbix.URL)
}

// SavedToken 已保存的 API 令牌 (已解密)
func (s *ConfigState) SavedToken() string {
	return s.GetConfig().Zabbix.Token
}

func (s *ConfigState) HasSavedToken() bool {
	return s.SavedToken() != ""
}

// ForgetToken 只清除內存中的令牌，磁盤上的由 ConfigService 處理
func (s *ConfigState) ForgetToken() {
	s.GetConfig().Zabbix.Token = ""
}
