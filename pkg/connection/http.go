package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nodeforge/dataflow/pkg/security"
)

// HTTPAdapter is a request/response adapter, not a persistent socket: its
// state machine treats "connected" as "ready to issue requests" (doConnect
// validates the base URL and SSRF policy but opens no socket), and its
// reconnect policy is disabled since there is no connection to lose.
// Requests go through one shared, pooled *http.Client, with SSRF
// validation via pkg/security before every request.
type HTTPAdapter struct {
	*BaseAdapter
	client  *http.Client
	ssrf    *security.SSRFProtection
	baseURL string
	headers map[string]string
}

// NewHTTPAdapter creates an HTTP request adapter for the given
// configuration. Params recognizes "baseUrl" (string), "headers"
// (map[string]string), and "timeoutMs" (number).
func NewHTTPAdapter(cfg Config, ssrf *security.SSRFProtection) (*HTTPAdapter, error) {
	baseURL, _ := cfg.Params["baseUrl"].(string)
	headers, _ := cfg.Params["headers"].(map[string]string)

	timeout := 30 * time.Second
	if ms, ok := cfg.Params["timeoutMs"].(float64); ok && ms > 0 {
		timeout = time.Duration(ms) * time.Millisecond
	}

	h := &HTTPAdapter{
		client:  &http.Client{Timeout: timeout},
		ssrf:    ssrf,
		baseURL: baseURL,
		headers: headers,
	}
	h.BaseAdapter = newBaseAdapter(cfg.ID, "http", ReconnectPolicy{Enabled: false}, protocolHooks{
		doConnect:    h.doConnect,
		doDisconnect: h.doDisconnect,
		doSend:       h.doSend,
	})
	return h, nil
}

func (h *HTTPAdapter) doConnect(ctx context.Context) error {
	if h.baseURL == "" {
		return nil
	}
	if h.ssrf != nil {
		if err := h.ssrf.ValidateURL(h.baseURL); err != nil {
			return fmt.Errorf("http adapter: %w", err)
		}
	}
	return nil
}

func (h *HTTPAdapter) doDisconnect(ctx context.Context) error { return nil }

// HTTPRequest is the shape doSend expects for data: a method/path/body
// triple, matching how the http-request executor invokes Send. A bare
// string is treated as a GET to that path.
type HTTPRequest struct {
	Method string
	Path   string
	Body   any
}

func (h *HTTPAdapter) doSend(ctx context.Context, data any, opts SendOptions) error {
	req, ok := data.(HTTPRequest)
	if !ok {
		if s, isStr := data.(string); isStr {
			req = HTTPRequest{Method: http.MethodGet, Path: s}
		} else {
			return fmt.Errorf("http adapter: unsupported payload type %T", data)
		}
	}

	url := h.baseURL + req.Path
	if h.ssrf != nil {
		if err := h.ssrf.ValidateURL(url); err != nil {
			return fmt.Errorf("http adapter: %w", err)
		}
	}

	var bodyReader io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("http adapter: encode body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("http adapter: build request: %w", err)
	}
	for k, v := range h.headers {
		httpReq.Header.Set(k, v)
	}
	if bodyReader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("http adapter: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("http adapter: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http adapter: status %d: %s", resp.StatusCode, string(respBody))
	}

	h.emitMessage(req.Path, string(respBody))
	return nil
}
