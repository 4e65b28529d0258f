package config

import (
	"fmt"
	"strings"
)

const (
	// ConfigVersionLatest 最新配置版本
	ConfigVersionLatest = 1

	// ConfigVersionNone 未標記版本的手寫配置
	ConfigVersionNone = 0
)

// apiEndpoint Zabbix 前端的 JSON-RPC 入口
const apiEndpoint = "api_jsonrpc.php"

type migrationStep struct {
	from  int
	desc  string
	apply func(*Config)
}

// 按版本順序排列，每步把 from 升到 from+1
var migrationSteps = []migrationStep{
	{from: ConfigVersionNone, desc: "補全 API 入口與默認值", apply: migrateV0ToV1},
}

// Migrator 配置遷移器
type Migrator struct {
	steps []migrationStep
}

func NewMigrator() *Migrator {
	return &Migrator{steps: migrationSteps}
}

// MigrateToLatest 逐步遷移到最新版本，不修改傳入的配置
func (m *Migrator) MigrateToLatest(cfg *Config) (*Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置為空，無法遷移")
	}
	if cfg.Version > ConfigVersionLatest {
		return nil, fmt.Errorf("配置版本過高 (v%d)，當前程序僅支持 v%d", cfg.Version, ConfigVersionLatest)
	}
	if cfg.Version == ConfigVersionLatest {
		return cfg, nil
	}

	newCfg := cfg.DeepCopy()
	for _, step := range m.steps {
		if step.from != newCfg.Version {
			continue
		}
		step.apply(newCfg)
		newCfg.Version = step.from + 1
	}
	if newCfg.Version != ConfigVersionLatest {
		return nil, fmt.Errorf("缺少 v%d 的遷移步驟", newCfg.Version)
	}
	return newCfg, nil
}

// migrateV0ToV1 手寫配置常只填前端地址，補全為 API 入口
func migrateV0ToV1(cfg *Config) {
	cfg.Zabbix.URL = normalizeAPIURL(cfg.Zabbix.URL)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.FillDefaults()
}

func normalizeAPIURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" || strings.HasSuffix(u, ".php") {
		return u
	}
	return strings.TrimRight(u, "/") + "/" + apiEndpoint
}

// NeedsMigration 檢查是否需要遷移
func (m *Migrator) NeedsMigration(cfg *Config) bool {
	if cfg == nil {
		return false
	}
	return cfg.Version < ConfigVersionLatest
}

// GetMigrationPath 獲取遷移路徑描述
func (m *Migrator) GetMigrationPath(fromVersion int) string {
	if fromVersion >= ConfigVersionLatest {
		return "無需遷移"
	}
	var parts []string
	for _, step := range m.steps {
		if step.from >= fromVersion {
			parts = append(parts, fmt.Sprintf("v%d -> v%d: %s", step.from, step.from+1, step.desc))
		}
	}
	return strings.Join(parts, "; ")
}
