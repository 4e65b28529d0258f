package logger

import (
	"fmt"
	"strings"

	"github.com/Yat-Muk/zstatus/internal/pkg/sanitizer"
	"go.uber.org/zap"
)

// SafeLogger 鍵值日誌，敏感鍵的值整體替換，其餘值與消息做正則脫敏
type SafeLogger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
}

const masked = "***MASKED***"

var sensitiveKeys = []string{"password", "passwd", "secret", "token", "auth", "key"}

// MaskSensitive 脫敏消息文本
func MaskSensitive(input string) string {
	if s, ok := sanitizer.Sanitize(input).(string); ok {
		return s
	}
	return input
}

type safeLogger struct {
	logger *zap.SugaredLogger
}

// NewSafeLogger 包裝現有日誌記錄器
func NewSafeLogger(logger *zap.Logger) SafeLogger {
	return &safeLogger{logger: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, k := range sensitiveKeys {
		if strings.Contains(key, k) {
			return true
		}
	}
	return false
}

func scrub(keysAndValues []interface{}) []interface{} {
	out := make([]interface{}, 0, len(keysAndValues))
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 >= len(keysAndValues) {
			out = append(out, keysAndValues[i])
			break
		}
		key := fmt.Sprintf("%v", keysAndValues[i])
		if isSensitiveKey(key) {
			out = append(out, key, masked)
			continue
		}
		out = append(out, key, MaskSensitive(fmt.Sprintf("%v", keysAndValues[i+1])))
	}
	return out
}

func (sl *safeLogger) Debugw(msg string, keysAndValues ...interface{}) {
	sl.logger.Debugw(MaskSensitive(msg), scrub(keysAndValues)...)
}

func (sl *safeLogger) Infow(msg string, keysAndValues ...interface{}) {
	sl.logger.Infow(MaskSensitive(msg), scrub(keysAndValues)...)
}

func (sl *safeLogger) Warnw(msg string, keysAndValues ...interface{}) {
	sl.logger.Warnw(MaskSensitive(msg), scrub(keysAndValues)...)
}
