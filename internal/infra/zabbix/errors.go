package zabbix

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// TransportError HTTP 層失敗: 非 2xx 響應或網絡錯誤
type TransportError struct {
	StatusCode int   // 非 2xx 時的狀態碼，網絡錯誤時為 0
	Err        error // 網絡錯誤或響應解析錯誤
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError Zabbix 返回的 JSON-RPC 錯誤信封
type RemoteError struct {
	Code    int
	Message string
	Data    string
}

func (e *RemoteError) Error() string {
	if e.Data != "" {
		return fmt.Sprintf("Zabbix API error: %s %s", e.Message, e.Data)
	}
	return fmt.Sprintf("Zabbix API error: %s", e.Message)
}

// AuthenticationError 登錄失敗，對外只暴露統一文案
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return "authentication failed"
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// UnauthorizedError 會話失效或令牌被拒絕
type UnauthorizedError struct {
	Err error // *TransportError 或 *RemoteError
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: %v", e.Err)
}

func (e *UnauthorizedError) Unwrap() error {
	return e.Err
}

// 會話失效時 Zabbix 錯誤信息中出現的片段
var sessionExpiredMarkers = []string{
	"re-login",
	"not authorised",
	"not authorized",
}

func isSessionExpired(e *RemoteError) bool {
	text := strings.ToLower(e.Message + " " + e.Data)
	for _, marker := range sessionExpiredMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func isUnauthorizedStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsUnauthorized 判斷錯誤鏈上是否有 *UnauthorizedError
func IsUnauthorized(err error) bool {
	var ue *UnauthorizedError
	return errors.As(err, &ue)
}
