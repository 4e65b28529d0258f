package logger

import (
	"os"

	"github.com/Yat-Muk/zstatus/internal/pkg/sanitizer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 日誌配置
type Config struct {
	Level      string // debug, info, warn, error
	OutputPath string // 日誌文件路徑，留空則不寫文件
	MaxSize    int    // 單個文件最大大小（MB）
	MaxBackups int
	MaxAge     int // 保留的天數
	Compress   bool

	// Console 同時輸出到 stderr，TUI 模式下必須關閉
	Console bool
	// Fields 每條日誌都附帶的字段
	Fields []zap.Field
}

// DefaultConfig 返回默認配置，輸出路徑由調用方按工作目錄填寫
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
}

// New 創建日誌記錄器: 文件寫 JSON，控制台寫帶顏色的文本
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var cores []zapcore.Core

	if cfg.OutputPath != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.OutputPath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})

		fileEncoder := encoderConfig
		fileEncoder.EncodeLevel = zapcore.CapitalLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoder), fileWriter, level))
	}

	if cfg.Console {
		consoleEncoder := encoderConfig
		consoleEncoder.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEncoder.EncodeCaller = zapcore.ShortCallerEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoder),
			zapcore.Lock(os.Stderr),
			level,
		))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}

	log := zap.New(
		zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if len(cfg.Fields) > 0 {
		log = log.With(cfg.Fields...)
	}
	return log, nil
}

// Component 子系統日誌，名稱出現在每條日誌的 logger 字段中
func Component(log *zap.Logger, name string) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log.Named(name)
}

// SanitizedToken 令牌只保留前 4 位
func SanitizedToken(key, val string) zap.Field {
	return zap.String(key, sanitizer.Token(val))
}

// SanitizedURL 去掉 URL 中可能攜帶的憑據
func SanitizedURL(key, val string) zap.Field {
	return zap.String(key, sanitizer.URL(val))
}
