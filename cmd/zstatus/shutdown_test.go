package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTokenReused(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		persisted []string
		want      bool
	}{
		{"已保存令牌", "abc", []string{"abc", ""}, true},
		{"環境變量令牌", "abc", []string{"", " abc "}, true},
		{"密碼登錄的會話", "fresh", []string{"abc", ""}, false},
		{"未登錄", "", []string{"", ""}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenReused(tt.current, tt.persisted...))
		})
	}
}

func TestEndSession(t *testing.T) {
	t.Run("復用的令牌只停止輪詢", func(t *testing.T) {
		sess := &fakeWatchSession{}
		endSession(context.Background(), sess, true, zap.NewNop())
		assert.Zero(t, sess.logoutCount())
		assert.Equal(t, 1, sess.closeCount())
	})

	t.Run("一次性會話遠端註銷", func(t *testing.T) {
		sess := &fakeWatchSession{}
		endSession(context.Background(), sess, false, zap.NewNop())
		assert.Equal(t, 1, sess.logoutCount())
		assert.Zero(t, sess.closeCount())
	})
}
