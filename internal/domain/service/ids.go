package service

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator 生成本地服務 ID: 毫秒時間戳，同一毫秒內遞增
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator 創建 ID 生成器
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// Next 返回一個嚴格遞增的新 ID
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return strconv.FormatInt(id, 10)
}
