package msg

import (
	"github.com/Yat-Muk/zstatus/internal/application"
	domainConfig "github.com/Yat-Muk/zstatus/internal/domain/config"
)

// SnapshotMsg 會話狀態推送
type SnapshotMsg struct {
	Snapshot application.Snapshot
}

// AuthResultMsg 登錄結果
type AuthResultMsg struct {
	Err      error
	ByToken  bool
	Token    string // 僅在需要保存時填寫
	Remember bool
	Silent   bool // 啟動時使用已保存令牌自動登錄
}

// RefreshResultMsg 手動刷新結果
type RefreshResultMsg struct {
	Err error
}

// LogoutMsg 登出完成
type LogoutMsg struct {
	Err error // 清除已保存令牌失敗時非空
}

// ConfigLoadedMsg 配置加載消息
type ConfigLoadedMsg struct {
	Config *domainConfig.Config
	Err    error
}

// TokenSavedMsg 令牌保存結果
type TokenSavedMsg struct {
	Err error
}
