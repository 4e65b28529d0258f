package zabbix

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Yat-Muk/zstatus/internal/domain/service"
	"github.com/Yat-Muk/zstatus/internal/pkg/errors"
)

// API 方法名
const (
	MethodUserLogin  = "user.login"
	MethodUserLogout = "user.logout"
	MethodHostGet    = "host.get"
	MethodTriggerGet = "trigger.get"
	MethodItemGet    = "item.get"
)

const defaultUserAgent = "zstatus"

var (
	hostOutput    = []string{"hostid", "host", "name", "status"}
	hostItems     = []string{"itemid", "name", "lastvalue", "lastclock"}
	triggerOutput = []string{"triggerid", "description", "status", "value", "priority"}
	itemOutput    = []string{"itemid", "name", "lastvalue", "lastclock", "hostid"}
)

// Client Zabbix JSON-RPC 客戶端，持有至多一個會話令牌
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
	userAgent  string
	timeout    time.Duration

	mu     sync.RWMutex
	token  string
	nextID atomic.Int64
}

// Option 客戶端選項
type Option func(*Client)

// WithHTTPClient 自定義 HTTP 客戶端
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger 設置日誌記錄器
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout 單次請求超時，0 表示沿用傳輸層默認
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent 設置 User-Agent
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient 創建客戶端，url 為 api_jsonrpc.php 的完整地址
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:        url,
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.nextID.Store(time.Now().UnixMilli())
	return c
}

// URL 返回 API 地址
func (c *Client) URL() string {
	return c.url
}

// SetToken 直接設置令牌，不做校驗
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token 當前令牌
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// IsAuthenticated 是否持有令牌
func (c *Client) IsAuthenticated() bool {
	return c.Token() != ""
}

// Authenticate 使用用戶名密碼登錄，成功後保存令牌
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	params := map[string]string{
		"username": username,
		"password": password,
	}

	var token string
	if err := c.call(ctx, MethodUserLogin, params, &token); err != nil {
		c.logger.Warn("Zabbix 登錄失敗", zap.String("username", username), zap.Error(err))
		return "", &AuthenticationError{Err: err}
	}
	if token == "" {
		return "", &AuthenticationError{Err: errors.ErrEmptyToken}
	}

	c.SetToken(token)
	c.logger.Info("Zabbix 登錄成功", zap.String("username", username))
	return token, nil
}

// ListHosts 獲取主機，內嵌監控項與觸發器
func (c *Client) ListHosts(ctx context.Context) ([]service.Host, error) {
	if !c.IsAuthenticated() {
		return nil, errors.ErrNotAuthenticated
	}

	params := map[string]interface{}{
		"output":         hostOutput,
		"selectItems":    hostItems,
		"selectTriggers": triggerOutput,
	}

	var hosts []service.Host
	if err := c.call(ctx, MethodHostGet, params, &hosts); err != nil {
		return nil, err
	}
	return hosts, nil
}

// ListTriggers 獲取已監控且不依賴其他觸發器的觸發器，hostIDs 為空時不按主機過濾
func (c *Client) ListTriggers(ctx context.Context, hostIDs []string) ([]service.Trigger, error) {
	if !c.IsAuthenticated() {
		return nil, errors.ErrNotAuthenticated
	}

	params := map[string]interface{}{
		"output":        triggerOutput,
		"monitored":     true,
		"skipDependent": true,
	}
	if len(hostIDs) > 0 {
		params["hostids"] = hostIDs
	}

	var triggers []service.Trigger
	if err := c.call(ctx, MethodTriggerGet, params, &triggers); err != nil {
		return nil, err
	}
	return triggers, nil
}

// ListItems 獲取指定主機的已監控監控項。
// 會話協調器不使用它：輪詢所需的監控項摘要已由 host.get 的 selectItems 帶回
func (c *Client) ListItems(ctx context.Context, hostIDs []string) ([]service.Item, error) {
	if !c.IsAuthenticated() {
		return nil, errors.ErrNotAuthenticated
	}

	params := map[string]interface{}{
		"output":    itemOutput,
		"monitored": true,
	}
	if len(hostIDs) > 0 {
		params["hostids"] = hostIDs
	}

	var items []service.Item
	if err := c.call(ctx, MethodItemGet, params, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Logout 盡力註銷遠端會話，錯誤只記日誌。
// 只清除本次註銷的令牌，期間設置的新令牌保持不變
func (c *Client) Logout(ctx context.Context) {
	token := c.Token()
	if token == "" {
		return
	}

	if err := c.callAs(ctx, token, MethodUserLogout, []string{}, nil); err != nil {
		c.logger.Warn("Zabbix 註銷失敗", zap.Error(err))
	}
	c.clearToken(token)
}

// clearToken 僅當當前令牌仍為 token 時清空
func (c *Client) clearToken(token string) {
	c.mu.Lock()
	if c.token == token {
		c.token = ""
	}
	c.mu.Unlock()
}
