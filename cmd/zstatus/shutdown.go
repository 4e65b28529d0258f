package main

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// exitSession 退出時結束會話所需的能力
type exitSession interface {
	Logout(ctx context.Context)
	Close()
}

// endSession 程序退出時結束會話。
// keepRemote 為真時令牌會在下次啟動復用，只停止輪詢，不註銷遠端會話
func endSession(ctx context.Context, sess exitSession, keepRemote bool, log *zap.Logger) {
	if keepRemote {
		log.Info("令牌將在下次啟動時復用，保留遠端會話")
		sess.Close()
		return
	}
	sess.Logout(ctx)
}

// tokenReused 當前令牌是否為已保存或配置提供的令牌
func tokenReused(current string, persisted ...string) bool {
	if current == "" {
		return false
	}
	for _, p := range persisted {
		if strings.TrimSpace(p) == current {
			return true
		}
	}
	return false
}
