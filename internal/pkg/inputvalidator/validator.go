package inputvalidator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// 輸入長度限制常量
const (
	MaxInputBuffer = 512 // 輸入框最大長度

	// 憑證相關
	MaxUsernameLength = 64
	MaxPasswordLength = 128
	MaxTokenLength    = 256 // Zabbix API 令牌為 64 位十六進制，留足餘量

	// 本地服務字段
	MaxNameLength        = 64
	MaxDescriptionLength = 256
)

// ValidationError 驗證錯誤
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateLength 按字符數驗證長度，中文按一個字符計
func ValidateLength(input string, maxLen int, fieldName string) error {
	if n := utf8.RuneCountInString(input); n > maxLen {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("長度超過限制（最大 %d 字符，當前 %d 字符）", maxLen, n),
		}
	}
	return nil
}

// ValidateCredential 驗證用戶名或令牌: 非空、限長、僅 ASCII 可打印字符
func ValidateCredential(credential string, fieldName string, maxLen int) error {
	credential = strings.TrimSpace(credential)

	if credential == "" {
		return &ValidationError{Field: fieldName, Message: "不能為空"}
	}
	if len(credential) > maxLen {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("過長（最大 %d 字符）", maxLen),
		}
	}
	for _, r := range credential {
		if r < 32 || r > 126 {
			return &ValidationError{Field: fieldName, Message: "包含非法字符 (僅允許 ASCII 可打印字符)"}
		}
	}
	return nil
}

// SanitizeInput 清理輸入（移除控制字符）
func SanitizeInput(input string) string {
	var result strings.Builder
	for _, r := range input {
		if r >= 32 && r != 127 {
			result.WriteRune(r)
		}
	}
	return result.String()
}
