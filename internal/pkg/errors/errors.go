package errors

import (
	"errors"
	"fmt"
)

// 預定義錯誤類型
var (
	// 配置相關
	ErrConfigNotFound    = errors.New("configuration file not found")
	ErrConfigInvalid     = errors.New("configuration is invalid")
	ErrConfigParseFailed = errors.New("failed to parse configuration")

	// 會話相關
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEmptyToken       = errors.New("auth token is empty")
	ErrRefreshThrottled = errors.New("refresh throttled")
	ErrFetchInProgress  = errors.New("fetch already in progress")
	ErrSessionClosed    = errors.New("session service closed")

	// 服務相關
	ErrServiceNotFound = errors.New("service not found")
	ErrInvalidStatus   = errors.New("invalid service status")
)

// 錯誤代碼
const (
	CodeConfig     = "CONFIG"
	CodeAuth       = "AUTH"
	CodeFetch      = "FETCH"
	CodeWatch      = "WATCH"
	CodeValidation = "VALIDATION"
)

// Error 自定義錯誤類型
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New 創建新錯誤
func New(code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap 包裝錯誤
func Wrap(err error, code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf 返回錯誤鏈上第一個 *Error 的代碼，沒有則為空
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
