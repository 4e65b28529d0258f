package application

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Poller 可取消的定時任務: 啟動時立即執行一次，之後按固定間隔執行
// 任務在同一協程內串行運行，慢任務會推遲下一次觸發而不是疊加
type Poller struct {
	interval time.Duration
	task     func(ctx context.Context)
	logger   *zap.Logger

	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller 創建輪詢器
func NewPoller(interval time.Duration, task func(ctx context.Context), logger *zap.Logger) *Poller {
	return &Poller{
		interval: interval,
		task:     task,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start 在後台啟動，parent 取消或調用 Stop 時退出；只能調用一次
func (p *Poller) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	p.cancel = cancel

	go func() {
		defer close(p.done)
		defer cancel()

		p.task(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Debug("輪詢已停止")
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				p.task(ctx)
			}
		}
	}()
}

// Stop 取消輪詢，不等待正在執行的任務
func (p *Poller) Stop() {
	p.once.Do(func() {
		if p.cancel != nil {
			p.cancel()
		}
	})
}

// Done 輪詢協程退出後關閉
func (p *Poller) Done() <-chan struct{} {
	return p.done
}
