package zabbix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Yat-Muk/zstatus/internal/pkg/sanitizer"
)

const (
	jsonRPCVersion = "2.0"
	contentType    = "application/json-rpc"

	// 錯誤響應體最多讀取的字節數，只用於日誌
	maxErrorBody = 4 << 10
)

// request JSON-RPC 請求信封
type request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      int64       `json:"id"`
	Auth    string      `json:"auth,omitempty"`
}

// response JSON-RPC 響應信封
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
	ID      json.RawMessage `json:"id"`
}

type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// dataText data 字段通常為字符串，其他類型原樣保留
func (e *rpcError) dataText() string {
	if len(e.Data) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Data, &s); err == nil {
		return s
	}
	return string(e.Data)
}

// newRequest 構建請求信封，auth 非空時附帶
func (c *Client) newRequest(method string, params interface{}, auth string) request {
	if params == nil {
		params = map[string]interface{}{}
	}
	return request{
		JSONRPC: jsonRPCVersion,
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
		Auth:    auth,
	}
}

// call 以當前令牌發送一次 JSON-RPC 請求，成功時把 result 解碼到 out
func (c *Client) call(ctx context.Context, method string, params interface{}, out interface{}) error {
	return c.callAs(ctx, c.Token(), method, params, out)
}

// callAs 以指定令牌發送請求
func (c *Client) callAs(ctx context.Context, auth, method string, params interface{}, out interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(c.newRequest(method, params, auth))
	if err != nil {
		return fmt.Errorf("序列化請求失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("發送 Zabbix 請求",
		zap.String("method", method),
		zap.Any("body", sanitizer.Sanitize(body)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("Zabbix 返回非成功狀態碼",
			zap.String("method", method),
			zap.Int("status", resp.StatusCode),
			zap.Any("body", sanitizer.Sanitize(snippet)),
		)
		terr := &TransportError{StatusCode: resp.StatusCode}
		if isUnauthorizedStatus(resp.StatusCode) {
			return &UnauthorizedError{Err: terr}
		}
		return terr
	}

	var envelope response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &TransportError{Err: fmt.Errorf("解析響應失敗: %w", err)}
	}

	if envelope.Error != nil {
		rerr := &RemoteError{
			Code:    envelope.Error.Code,
			Message: envelope.Error.Message,
			Data:    envelope.Error.dataText(),
		}
		if isSessionExpired(rerr) {
			return &UnauthorizedError{Err: rerr}
		}
		return rerr
	}

	if out == nil || len(envelope.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return &TransportError{Err: fmt.Errorf("解析 %s 結果失敗: %w", method, err)}
	}
	return nil
}
