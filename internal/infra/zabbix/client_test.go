package zabbix

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	zerrors "github.com/Yat-Muk/zstatus/internal/pkg/errors"
)

// recordedRequest 假服務器收到的請求
type recordedRequest struct {
	ContentType string
	UserAgent   string
	JSONRPC     string                 `json:"jsonrpc"`
	Method      string                 `json:"method"`
	Params      map[string]interface{} `json:"-"`
	RawParams   json.RawMessage        `json:"params"`
	ID          int64                  `json:"id"`
	Auth        *string                `json:"auth"`
}

// fakeZabbix 按方法名返回預設響應的假 Zabbix 端點
type fakeZabbix struct {
	t        *testing.T
	mu       sync.Mutex
	requests []recordedRequest
	handlers map[string]func(w http.ResponseWriter, req recordedRequest)
	server   *httptest.Server
}

func newFakeZabbix(t *testing.T) *fakeZabbix {
	f := &fakeZabbix{t: t, handlers: map[string]func(http.ResponseWriter, recordedRequest){}}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeZabbix) serve(w http.ResponseWriter, r *http.Request) {
	var req recordedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		f.t.Errorf("無法解析請求: %v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	req.ContentType = r.Header.Get("Content-Type")
	req.UserAgent = r.Header.Get("User-Agent")
	_ = json.Unmarshal(req.RawParams, &req.Params)

	f.mu.Lock()
	f.requests = append(f.requests, req)
	h := f.handlers[req.Method]
	f.mu.Unlock()

	if h == nil {
		writeError(w, req.ID, -32601, "Method not found.", "Incorrect method \""+req.Method+"\".")
		return
	}
	h(w, req)
}

func (f *fakeZabbix) on(method string, h func(w http.ResponseWriter, req recordedRequest)) {
	f.mu.Lock()
	f.handlers[method] = h
	f.mu.Unlock()
}

func (f *fakeZabbix) result(method string, result interface{}) {
	f.on(method, func(w http.ResponseWriter, req recordedRequest) {
		writeResult(w, req.ID, result)
	})
}

func (f *fakeZabbix) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *fakeZabbix) client(opts ...Option) *Client {
	return NewClient(f.server.URL, append([]Option{WithLogger(zap.NewNop())}, opts...)...)
}

func writeResult(w http.ResponseWriter, id int64, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"result":  result,
		"id":      id,
	})
}

func writeError(w http.ResponseWriter, id int64, code int, message, data string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"error":   map[string]interface{}{"code": code, "message": message, "data": data},
		"id":      id,
	})
}

const testToken = "0424bd59b807674191e7d77572075f33"

func TestAuthenticate_Success(t *testing.T) {
	f := newFakeZabbix(t)
	f.result(MethodUserLogin, testToken)

	c := f.client(WithUserAgent("zstatus-test"))
	assert.False(t, c.IsAuthenticated())

	token, err := c.Authenticate(context.Background(), "Admin", "zabbix")
	require.NoError(t, err)
	assert.Equal(t, testToken, token)
	assert.Equal(t, testToken, c.Token())
	assert.True(t, c.IsAuthenticated())

	reqs := f.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, "2.0", reqs[0].JSONRPC)
	assert.Equal(t, MethodUserLogin, reqs[0].Method)
	assert.Equal(t, "application/json-rpc", reqs[0].ContentType)
	assert.Equal(t, "zstatus-test", reqs[0].UserAgent)
	assert.Nil(t, reqs[0].Auth, "未登錄時不應附帶 auth")
	assert.Equal(t, "Admin", reqs[0].Params["username"])
	assert.Equal(t, "zabbix", reqs[0].Params["password"])
}

func TestAuthenticate_RemoteFailure(t *testing.T) {
	f := newFakeZabbix(t)
	f.on(MethodUserLogin, func(w http.ResponseWriter, req recordedRequest) {
		writeError(w, req.ID, -32602, "Invalid params.", "Incorrect user name or password or account is temporarily blocked.")
	})

	c := f.client()
	_, err := c.Authenticate(context.Background(), "Admin", "wrong")
	require.Error(t, err)

	var authErr *AuthenticationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "authentication failed", err.Error())

	// 原因保留在錯誤鏈上
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, -32602, remote.Code)
	assert.False(t, c.IsAuthenticated())
}

func TestAuthenticate_HTTPFailure(t *testing.T) {
	f := newFakeZabbix(t)
	f.on(MethodUserLogin, func(w http.ResponseWriter, req recordedRequest) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := f.client().Authenticate(context.Background(), "Admin", "zabbix")

	var authErr *AuthenticationError
	require.True(t, errors.As(err, &authErr))
	var transport *TransportError
	require.True(t, errors.As(err, &transport))
	assert.Equal(t, http.StatusInternalServerError, transport.StatusCode)
}

func TestAuthenticate_EmptyToken(t *testing.T) {
	f := newFakeZabbix(t)
	f.result(MethodUserLogin, "")

	c := f.client()
	_, err := c.Authenticate(context.Background(), "Admin", "zabbix")
	require.Error(t, err)
	assert.True(t, errors.Is(err, zerrors.ErrEmptyToken))
	assert.False(t, c.IsAuthenticated())
}

func TestRequiresToken(t *testing.T) {
	f := newFakeZabbix(t)
	c := f.client()
	ctx := context.Background()

	_, err := c.ListHosts(ctx)
	assert.True(t, errors.Is(err, zerrors.ErrNotAuthenticated))

	_, err = c.ListTriggers(ctx, nil)
	assert.True(t, errors.Is(err, zerrors.ErrNotAuthenticated))

	_, err = c.ListItems(ctx, []string{"1"})
	assert.True(t, errors.Is(err, zerrors.ErrNotAuthenticated))

	assert.Empty(t, f.recorded(), "未認證時不應發出任何請求")
}

func TestListHosts(t *testing.T) {
	f := newFakeZabbix(t)
	f.result(MethodHostGet, []map[string]interface{}{
		{
			"hostid": "10084",
			"host":   "zabbix-server",
			"name":   "Zabbix server",
			"status": "0",
			"items": []map[string]string{
				{"itemid": "1", "name": "CPU", "lastvalue": "0.5", "lastclock": "1700000000"},
			},
			"triggers": []map[string]string{
				{"triggerid": "13491", "description": "High CPU", "status": "0", "value": "1", "priority": "4"},
			},
		},
	})

	c := f.client()
	c.SetToken(testToken)

	hosts, err := c.ListHosts(context.Background())
	require.NoError(t, err)
	require.Len(t, hosts, 1)

	h := hosts[0]
	assert.Equal(t, "10084", h.HostID)
	assert.Equal(t, "zabbix-server", h.Host)
	assert.Equal(t, "Zabbix server", h.Name)
	assert.Equal(t, "0", h.Status)
	require.Len(t, h.Triggers, 1)
	assert.Equal(t, "13491", h.Triggers[0].TriggerID)
	require.Len(t, h.Items, 1)
	assert.Equal(t, "0.5", h.Items[0].LastValue)

	reqs := f.recorded()
	require.Len(t, reqs, 1)
	require.NotNil(t, reqs[0].Auth)
	assert.Equal(t, testToken, *reqs[0].Auth)
	assert.Equal(t, []interface{}{"hostid", "host", "name", "status"}, reqs[0].Params["output"])
	assert.Equal(t, []interface{}{"itemid", "name", "lastvalue", "lastclock"}, reqs[0].Params["selectItems"])
	assert.Equal(t, []interface{}{"triggerid", "description", "status", "value", "priority"}, reqs[0].Params["selectTriggers"])
}

func TestListTriggers_Params(t *testing.T) {
	f := newFakeZabbix(t)
	f.result(MethodTriggerGet, []map[string]string{
		{"triggerid": "10", "description": "Disk full", "status": "0", "value": "1", "priority": "5"},
	})

	c := f.client()
	c.SetToken(testToken)
	ctx := context.Background()

	triggers, err := c.ListTriggers(ctx, nil)
	require.NoError(t, err)
	require.Len(t, triggers, 1)
	assert.Equal(t, "5", triggers[0].Priority)

	_, err = c.ListTriggers(ctx, []string{"1", "2"})
	require.NoError(t, err)

	reqs := f.recorded()
	require.Len(t, reqs, 2)

	assert.NotContains(t, reqs[0].Params, "hostids", "空列表時不應按主機過濾")
	assert.Equal(t, true, reqs[0].Params["monitored"])
	assert.Equal(t, true, reqs[0].Params["skipDependent"])

	assert.Equal(t, []interface{}{"1", "2"}, reqs[1].Params["hostids"])
}

func TestListItems(t *testing.T) {
	f := newFakeZabbix(t)
	f.result(MethodItemGet, []map[string]string{
		{"itemid": "23", "name": "ICMP ping", "lastvalue": "1", "lastclock": "1700000000", "hostid": "10084"},
	})

	c := f.client()
	c.SetToken(testToken)

	items, err := c.ListItems(context.Background(), []string{"10084"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "10084", items[0].HostID)

	reqs := f.recorded()
	assert.Equal(t, []interface{}{"itemid", "name", "lastvalue", "lastclock", "hostid"}, reqs[0].Params["output"])
	assert.Equal(t, true, reqs[0].Params["monitored"])
}

func TestCall_RemoteError(t *testing.T) {
	f := newFakeZabbix(t)
	f.on(MethodHostGet, func(w http.ResponseWriter, req recordedRequest) {
		writeError(w, req.ID, -32500, "Application error.", "SQL statement execution has failed.")
	})

	c := f.client()
	c.SetToken(testToken)

	_, err := c.ListHosts(context.Background())
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, -32500, remote.Code)
	assert.Equal(t, "Application error.", remote.Message)
	assert.Equal(t, "SQL statement execution has failed.", remote.Data)
	assert.False(t, IsUnauthorized(err))
}

func TestCall_SessionExpired(t *testing.T) {
	tests := []struct {
		name    string
		message string
		data    string
	}{
		{"重新登錄", "Invalid params.", "Session terminated, re-login, please."},
		{"英式拼寫", "Not authorised.", ""},
		{"美式拼寫", "Invalid params.", "Not authorized."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeZabbix(t)
			f.on(MethodTriggerGet, func(w http.ResponseWriter, req recordedRequest) {
				writeError(w, req.ID, -32602, tt.message, tt.data)
			})

			c := f.client()
			c.SetToken(testToken)

			_, err := c.ListTriggers(context.Background(), nil)
			require.Error(t, err)
			assert.True(t, IsUnauthorized(err))

			var remote *RemoteError
			assert.True(t, errors.As(err, &remote))
		})
	}
}

func TestCall_HTTPUnauthorized(t *testing.T) {
	f := newFakeZabbix(t)
	f.on(MethodHostGet, func(w http.ResponseWriter, req recordedRequest) {
		w.WriteHeader(http.StatusForbidden)
	})

	c := f.client()
	c.SetToken(testToken)

	_, err := c.ListHosts(context.Background())
	assert.True(t, IsUnauthorized(err))

	var transport *TransportError
	require.True(t, errors.As(err, &transport))
	assert.Equal(t, http.StatusForbidden, transport.StatusCode)
	assert.Equal(t, "HTTP error! status: 403", transport.Error())
}

func TestCall_NetworkFailure(t *testing.T) {
	f := newFakeZabbix(t)
	c := f.client()
	c.SetToken(testToken)
	f.server.Close()

	_, err := c.ListHosts(context.Background())
	var transport *TransportError
	require.True(t, errors.As(err, &transport))
	assert.Equal(t, 0, transport.StatusCode)
	assert.Error(t, transport.Err)
}

func TestCall_MalformedBody(t *testing.T) {
	f := newFakeZabbix(t)
	f.on(MethodHostGet, func(w http.ResponseWriter, req recordedRequest) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	})

	c := f.client()
	c.SetToken(testToken)

	_, err := c.ListHosts(context.Background())
	var transport *TransportError
	assert.True(t, errors.As(err, &transport))
}

func TestCall_Timeout(t *testing.T) {
	f := newFakeZabbix(t)
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	f.on(MethodHostGet, func(w http.ResponseWriter, req recordedRequest) {
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
		writeResult(w, req.ID, []interface{}{})
	})

	c := f.client(WithTimeout(50 * time.Millisecond))
	c.SetToken(testToken)

	start := time.Now()
	_, err := c.ListHosts(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), time.Second)
}

func TestCall_ContextCanceled(t *testing.T) {
	f := newFakeZabbix(t)
	f.result(MethodHostGet, []interface{}{})

	c := f.client()
	c.SetToken(testToken)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListHosts(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRequestIDsIncrease(t *testing.T) {
	f := newFakeZabbix(t)
	f.result(MethodTriggerGet, []interface{}{})

	c := f.client()
	c.SetToken(testToken)
	for i := 0; i < 3; i++ {
		_, err := c.ListTriggers(context.Background(), nil)
		require.NoError(t, err)
	}

	reqs := f.recorded()
	require.Len(t, reqs, 3)
	assert.Greater(t, reqs[0].ID, int64(0))
	assert.Less(t, reqs[0].ID, reqs[1].ID)
	assert.Less(t, reqs[1].ID, reqs[2].ID)
}

func TestLogout(t *testing.T) {
	t.Run("有令牌時調用 user.logout 並清除令牌", func(t *testing.T) {
		f := newFakeZabbix(t)
		f.result(MethodUserLogout, true)

		c := f.client()
		c.SetToken(testToken)
		c.Logout(context.Background())

		assert.False(t, c.IsAuthenticated())
		reqs := f.recorded()
		require.Len(t, reqs, 1)
		assert.Equal(t, MethodUserLogout, reqs[0].Method)
		require.NotNil(t, reqs[0].Auth)
		assert.Equal(t, testToken, *reqs[0].Auth)
	})

	t.Run("遠端失敗仍清除令牌", func(t *testing.T) {
		f := newFakeZabbix(t)
		f.on(MethodUserLogout, func(w http.ResponseWriter, req recordedRequest) {
			http.Error(w, "down", http.StatusBadGateway)
		})

		c := f.client()
		c.SetToken(testToken)
		c.Logout(context.Background())
		assert.Empty(t, c.Token())
	})

	t.Run("註銷期間設置的新令牌不被清除", func(t *testing.T) {
		f := newFakeZabbix(t)
		started := make(chan struct{})
		release := make(chan struct{})
		f.on(MethodUserLogout, func(w http.ResponseWriter, req recordedRequest) {
			close(started)
			<-release
			writeResult(w, req.ID, true)
		})

		c := f.client()
		c.SetToken("old-token")

		done := make(chan struct{})
		go func() {
			c.Logout(context.Background())
			close(done)
		}()

		<-started
		c.SetToken("new-token")
		close(release)
		<-done

		assert.Equal(t, "new-token", c.Token())
		reqs := f.recorded()
		require.Len(t, reqs, 1)
		require.NotNil(t, reqs[0].Auth)
		assert.Equal(t, "old-token", *reqs[0].Auth)
	})

	t.Run("無令牌時不發請求", func(t *testing.T) {
		f := newFakeZabbix(t)
		c := f.client()
		c.Logout(context.Background())
		c.Logout(context.Background())
		assert.Empty(t, f.recorded())
	})
}

func TestSetToken(t *testing.T) {
	c := NewClient("http://unused.invalid")
	c.SetToken("abc")
	assert.Equal(t, "abc", c.Token())
	assert.True(t, c.IsAuthenticated())
	c.SetToken("")
	assert.False(t, c.IsAuthenticated())
	assert.Equal(t, "http://unused.invalid", c.URL())
}
