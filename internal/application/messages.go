package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Yat-Muk/zstatus/internal/infra/zabbix"
	zerrors "github.com/Yat-Muk/zstatus/internal/pkg/errors"
)

// UserMessage 把遠端錯誤轉換為展示給用戶的一句話，取消類錯誤返回空串
func UserMessage(err error) string {
	if err == nil || errors.Is(err, context.Canceled) {
		return ""
	}

	var (
		authErr      *zabbix.AuthenticationError
		unauthorized *zabbix.UnauthorizedError
		remote       *zabbix.RemoteError
		transport    *zabbix.TransportError
	)

	switch {
	case errors.As(err, &authErr):
		return "認證失敗"
	case errors.As(err, &unauthorized):
		return "會話已失效或令牌無效，請重新登錄"
	case errors.Is(err, zerrors.ErrNotAuthenticated):
		return "未認證"
	case errors.Is(err, zerrors.ErrEmptyToken):
		return "令牌不能為空"
	case errors.Is(err, zerrors.ErrRefreshThrottled):
		return "刷新過於頻繁，請稍後再試"
	case errors.Is(err, zerrors.ErrFetchInProgress):
		return "正在獲取服務狀態，請稍候"
	case errors.Is(err, zerrors.ErrSessionClosed):
		return "會話已關閉"
	case errors.As(err, &remote):
		return "Zabbix API 錯誤: " + remote.Message
	case errors.As(err, &transport):
		if transport.StatusCode != 0 {
			return fmt.Sprintf("HTTP 錯誤: %d", transport.StatusCode)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "請求 Zabbix 超時"
		}
		return "無法連接 Zabbix 服務器"
	default:
		return "獲取服務失敗"
	}
}
