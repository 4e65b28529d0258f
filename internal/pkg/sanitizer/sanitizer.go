package sanitizer

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// 敏感字段關鍵詞 (Fast Path 過濾用)
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "auth", "credential",
	"bearer", "session", "sessionid",
}

// 預編譯正則表達式 (Slow Path 用)
var (
	// Zabbix 會話 ID (32 位) 與 API 令牌 (64 位)，均為小寫十六進制
	zabbixTokenRegex = regexp.MustCompile(`\b(?:[0-9a-f]{64}|[0-9a-f]{32})\b`)
	// JSON-RPC 請求體中的 "auth" 與 "password" 字段，值可含轉義字符
	jsonSecretRegex = regexp.MustCompile(`(?i)"(auth|password|token)"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	// Email
	emailRegex = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
)

// Sanitize 對任意對象進行脫敏處理 (通常用於日誌輸出)
func Sanitize(v interface{}) interface{} {
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case []byte:
		s = string(val)
	case error:
		s = val.Error()
	case fmt.Stringer:
		s = val.String()
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("sanitize_error: %v", err)
		}
		s = string(bytes)
	}

	// 十六進制令牌本身不帶關鍵詞，只能走慢速路徑
	if !mightContainSensitiveData(s) && !zabbixTokenRegex.MatchString(s) {
		return s
	}

	return sanitizeString(s)
}

// sanitizeString 執行具體的正則替換
func sanitizeString(s string) string {
	s = jsonSecretRegex.ReplaceAllStringFunc(s, func(match string) string {
		sub := jsonSecretRegex.FindStringSubmatch(match)
		if sub[1] == "password" {
			return fmt.Sprintf(`"%s":"%s"`, sub[1], Password(sub[2]))
		}
		return fmt.Sprintf(`"%s":"%s"`, sub[1], Token(sub[2]))
	})

	s = zabbixTokenRegex.ReplaceAllStringFunc(s, Token)

	s = emailRegex.ReplaceAllStringFunc(s, Email)

	return s
}

// mightContainSensitiveData 快速檢查 (O(N) 字符串搜索)
func mightContainSensitiveData(s string) bool {
	sLower := strings.ToLower(s)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(sLower, kw) {
			return true
		}
	}
	return strings.Contains(s, "@")
}

// String 通用字符串脫敏 (保留首尾)
func String(s string, start, end int) string {
	if len(s) <= start+end {
		return "***"
	}
	return s[:start] + "***" + s[len(s)-end:]
}

// Password 密碼全脫敏
func Password(s string) string {
	if s == "" {
		return ""
	}
	return "***MASKED***"
}

// Token 會話令牌脫敏，只保留前 4 位便於對照日誌
func Token(s string) string {
	if s == "" {
		return ""
	}
	if len(s) < 12 {
		return "***"
	}
	return s[:4] + "***"
}

// Email 郵箱脫敏
func Email(s string) string {
	at := strings.Index(s, "@")
	if at <= 1 {
		return s
	}
	name := s[:at]
	domain := s[at:]

	maskedName := name[:1] + "***"
	if len(name) > 2 {
		maskedName = name[:2] + "***"
	}
	return maskedName + domain
}

// URL 去掉用戶信息，敏感查詢參數的值替換為 ***
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	u.User = nil
	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			if mightContainSensitiveData(k) {
				q.Set(k, "***")
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}
