package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Yat-Muk/zstatus/internal/domain/service"
	"github.com/Yat-Muk/zstatus/internal/pkg/errors"
	"github.com/Yat-Muk/zstatus/internal/pkg/logger"
)

// SessionConfig 會話協調器參數
type SessionConfig struct {
	PollInterval time.Duration
	RefreshRate  float64 // 每秒允許的手動刷新次數
	RefreshBurst int
}

// DefaultSessionConfig 默認參數
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		PollInterval: 30 * time.Second,
		RefreshRate:  1,
		RefreshBurst: 1,
	}
}

// Snapshot 某一時刻的會話與服務狀態，調用方持有的是副本
type Snapshot struct {
	IsAuthenticated bool
	Services        []service.Service
	Loading         bool
	Error           string
	LastFetch       time.Time
	SessionID       string
}

// Listener 狀態變更回調
type Listener func(Snapshot)

// SessionService 管理登錄狀態、定時拉取與本地服務編輯
type SessionService struct {
	api      RemoteAPI
	logger   *zap.Logger
	interval time.Duration
	limiter  *rate.Limiter
	ids      *service.IDGenerator
	now      func() time.Time

	mu            sync.Mutex
	authenticated bool
	sessionID     string
	sessionCtx    context.Context
	sessionCancel context.CancelFunc
	inflight      string // 正在拉取的會話 ID
	services      []service.Service
	loading       bool
	errMsg        string
	lastFetch     time.Time
	closed        bool

	wg sync.WaitGroup

	listenerMu sync.Mutex
	notifyMu   sync.Mutex
	listeners  []listenerEntry
	nextListen int
}

type listenerEntry struct {
	id int
	fn Listener
}

// NewSessionService 創建會話協調器
func NewSessionService(api RemoteAPI, cfg SessionConfig, logger *zap.Logger) *SessionService {
	def := DefaultSessionConfig()
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.RefreshRate <= 0 {
		cfg.RefreshRate = def.RefreshRate
	}
	if cfg.RefreshBurst <= 0 {
		cfg.RefreshBurst = def.RefreshBurst
	}

	return &SessionService{
		api:      api,
		logger:   logger,
		interval: cfg.PollInterval,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RefreshRate), cfg.RefreshBurst),
		ids:      service.NewIDGenerator(),
		now:      time.Now,
	}
}

// ==========================================
// 認證
// ==========================================

// Authenticate 用戶名密碼登錄，成功後開始輪詢
func (s *SessionService) Authenticate(ctx context.Context, username, password string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.ErrSessionClosed
	}
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()

	if _, err := s.api.Authenticate(ctx, username, password); err != nil {
		s.mu.Lock()
		s.loading = false
		s.errMsg = UserMessage(err)
		s.mu.Unlock()
		s.notify()
		return err
	}

	s.logger.Info("管理員登錄成功", zap.String("username", username))
	return s.startSession()
}

// AuthenticateWithToken 直接使用 API 令牌，不做遠端校驗
func (s *SessionService) AuthenticateWithToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		s.mu.Lock()
		s.errMsg = UserMessage(errors.ErrEmptyToken)
		s.mu.Unlock()
		s.notify()
		return errors.ErrEmptyToken
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return errors.ErrSessionClosed
	}

	s.api.SetToken(token)
	s.logger.Info("使用令牌進入管理模式", logger.SanitizedToken("token", token))
	return s.startSession()
}

// startSession 切換為已認證並啟動新的輪詢，舊會話 (如有) 被取消
func (s *SessionService) startSession() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.ErrSessionClosed
	}

	if s.sessionCancel != nil {
		s.sessionCancel()
	}

	sessionID := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())

	s.authenticated = true
	s.sessionID = sessionID
	s.sessionCtx = ctx
	s.sessionCancel = cancel
	s.loading = false
	s.errMsg = ""

	// 拉取錯誤已寫入狀態，這裡不再處理
	poller := NewPoller(s.interval, func(ctx context.Context) {
		_ = s.fetch(ctx, sessionID)
	}, s.logger)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		<-poller.Done()
	}()
	poller.Start(ctx)
	s.mu.Unlock()

	s.logger.Info("會話已開始", zap.String("session", sessionID), zap.Duration("interval", s.interval))
	s.notify()
	return nil
}

// Logout 停止輪詢並清空狀態，重複調用無副作用
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	wasAuthenticated := s.authenticated
	cancel := s.sessionCancel

	s.authenticated = false
	s.sessionID = ""
	s.sessionCtx = nil
	s.sessionCancel = nil
	s.services = nil
	s.loading = false
	s.errMsg = ""
	s.lastFetch = time.Time{}
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if wasAuthenticated {
		s.api.Logout(ctx)
		s.logger.Info("已退出管理模式")
	}
	s.notify()
}

// Close 停止輪詢並等待後台協程退出，之後不能再登錄
func (s *SessionService) Close() {
	s.mu.Lock()
	s.closed = true
	if s.sessionCancel != nil {
		s.sessionCancel()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// ==========================================
// 拉取
// ==========================================

// Refresh 手動拉取一次，受令牌桶限速
func (s *SessionService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return errors.ErrNotAuthenticated
	}
	sessionID := s.sessionID
	sessionCtx := s.sessionCtx
	s.mu.Unlock()

	if !s.limiter.Allow() {
		return errors.ErrRefreshThrottled
	}

	// 會話結束時一併取消手動拉取
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(sessionCtx, cancel)
	defer stop()

	return s.fetch(ctx, sessionID)
}

// fetch 並發拉取主機與觸發器並推導服務列表；同一會話同時只允許一次拉取
func (s *SessionService) fetch(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	if !s.authenticated || s.sessionID != sessionID {
		s.mu.Unlock()
		return nil
	}
	if s.inflight == sessionID {
		s.mu.Unlock()
		return errors.ErrFetchInProgress
	}
	s.inflight = sessionID
	s.loading = true
	s.mu.Unlock()
	s.notify()

	var (
		hosts    []service.Host
		triggers []service.Trigger
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hosts, err = s.api.ListHosts(gctx)
		if err != nil {
			return fmt.Errorf("獲取主機失敗: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		triggers, err = s.api.ListTriggers(gctx, nil)
		if err != nil {
			return fmt.Errorf("獲取觸發器失敗: %w", err)
		}
		return nil
	})
	err := g.Wait()
	fetchedAt := s.now()

	s.mu.Lock()
	if s.inflight == sessionID {
		s.inflight = ""
	}
	if !s.authenticated || s.sessionID != sessionID {
		s.mu.Unlock()
		s.logger.Debug("丟棄過期會話的拉取結果", zap.String("session", sessionID))
		return nil
	}

	s.loading = false
	if err != nil {
		if msg := UserMessage(err); msg != "" {
			s.errMsg = msg
		}
		s.mu.Unlock()
		s.logger.Warn("拉取服務狀態失敗", zap.String("session", sessionID), zap.Error(err))
		s.notify()
		return err
	}

	s.services = service.DeriveServices(hosts, triggers, fetchedAt)
	s.errMsg = ""
	s.lastFetch = fetchedAt
	count := len(s.services)
	s.mu.Unlock()

	s.logger.Debug("服務狀態已更新", zap.String("session", sessionID), zap.Int("services", count))
	s.notify()
	return nil
}

// ==========================================
// 本地編輯 (不持久化，下次拉取時被覆蓋)
// ==========================================

// AddService 添加本地服務，零值字段填充默認值
func (s *SessionService) AddService(draft service.Service) service.Service {
	svc := draft.Clone()
	svc.ID = s.ids.Next()
	if svc.LastCheck.IsZero() {
		svc.LastCheck = s.now()
	}
	if svc.Status == "" {
		svc.Status = service.StatusOnline
	}
	if svc.Uptime == "" {
		svc.Uptime = service.UptimeFor(svc.Status)
	}

	s.mu.Lock()
	s.services = append(s.services, svc)
	s.mu.Unlock()

	s.logger.Debug("添加本地服務", zap.String("id", svc.ID), zap.String("name", svc.Name))
	s.notify()
	return svc.Clone()
}

// UpdateService 按 ID 更新，未找到時返回 false
func (s *SessionService) UpdateService(id string, patch service.Patch) bool {
	s.mu.Lock()
	found := false
	for i := range s.services {
		if s.services[i].ID == id {
			s.services[i] = s.services[i].Apply(patch)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.notify()
	}
	return found
}

// DeleteService 按 ID 刪除，未找到時返回 false
func (s *SessionService) DeleteService(id string) bool {
	s.mu.Lock()
	found := false
	for i := range s.services {
		if s.services[i].ID == id {
			s.services = append(s.services[:i:i], s.services[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.notify()
	}
	return found
}

// ==========================================
// 快照與訂閱
// ==========================================

// Snapshot 返回當前狀態副本
func (s *SessionService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionService) snapshotLocked() Snapshot {
	services := make([]service.Service, len(s.services))
	for i, svc := range s.services {
		services[i] = svc.Clone()
	}
	return Snapshot{
		IsAuthenticated: s.authenticated,
		Services:        services,
		Loading:         s.loading,
		Error:           s.errMsg,
		LastFetch:       s.lastFetch,
		SessionID:       s.sessionID,
	}
}

// Subscribe 註冊狀態變更回調，返回取消函數
// 回調按變更順序串行調用，不能在回調內調用 SessionService 的修改方法
func (s *SessionService) Subscribe(fn Listener) func() {
	s.listenerMu.Lock()
	id := s.nextListen
	s.nextListen++
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		defer s.listenerMu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// notify 快照在 notifyMu 內獲取，保證監聽者看到的狀態單調前進
func (s *SessionService) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.listenerMu.Lock()
	fns := make([]Listener, len(s.listeners))
	for i, l := range s.listeners {
		fns[i] = l.fn
	}
	s.listenerMu.Unlock()

	if len(fns) == 0 {
		return
	}

	snap := s.Snapshot()
	for _, fn := range fns {
		fn(snap)
	}
}
