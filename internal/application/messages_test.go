package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Yat-Muk/zstatus/internal/infra/zabbix"
	zerrors "github.com/Yat-Muk/zstatus/internal/pkg/errors"
)

func TestUserMessage(t *testing.T) {
	remote := &zabbix.RemoteError{Code: -32500, Message: "Application error.", Data: "SQL failed"}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"取消", context.Canceled, ""},
		{"包裝的取消", fmt.Errorf("獲取主機失敗: %w", context.Canceled), ""},
		{"認證失敗", &zabbix.AuthenticationError{Err: remote}, "認證失敗"},
		{"會話失效", &zabbix.UnauthorizedError{Err: remote}, "會話已失效或令牌無效，請重新登錄"},
		{"未認證", fmt.Errorf("獲取主機失敗: %w", zerrors.ErrNotAuthenticated), "未認證"},
		{"空令牌", zerrors.ErrEmptyToken, "令牌不能為空"},
		{"限速", zerrors.ErrRefreshThrottled, "刷新過於頻繁，請稍後再試"},
		{"拉取中", zerrors.ErrFetchInProgress, "正在獲取服務狀態，請稍候"},
		{"遠端錯誤", fmt.Errorf("獲取觸發器失敗: %w", remote), "Zabbix API 錯誤: Application error."},
		{"HTTP 狀態碼", &zabbix.TransportError{StatusCode: http.StatusBadGateway}, "HTTP 錯誤: 502"},
		{"超時", &zabbix.TransportError{Err: context.DeadlineExceeded}, "請求 Zabbix 超時"},
		{"網絡錯誤", &zabbix.TransportError{Err: errors.New("connection refused")}, "無法連接 Zabbix 服務器"},
		{"其他", errors.New("boom"), "獲取服務失敗"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
