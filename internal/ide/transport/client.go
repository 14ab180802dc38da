package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/gzhttp"
)

// DefaultTimeout bounds a single judge request.
const DefaultTimeout = 10 * time.Second

// ResponseInfo carries response details.
type ResponseInfo struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// Client wraps HTTP requests to one judge base URL.
type Client struct {
	mu        sync.RWMutex
	baseURL   string
	timeout   time.Duration
	headers   map[string]string
	transport http.RoundTripper
}

func New(baseURL string, timeout time.Duration, headers map[string]string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	copied := make(map[string]string, len(headers))
	for k, v := range headers {
		copied[k] = v
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		timeout:   timeout,
		headers:   copied,
		transport: gzhttp.Transport(http.DefaultTransport),
	}
}

func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	c.baseURL = strings.TrimRight(baseURL, "/")
	c.mu.Unlock()
}

func (c *Client) Timeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timeout
}

func (c *Client) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		c.mu.Lock()
		c.timeout = timeout
		c.mu.Unlock()
	}
}

// Do sends one request. Only failures to obtain a response are returned as
// errors; any HTTP status is reported through ResponseInfo.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body []byte) (ResponseInfo, error) {
	var info ResponseInfo

	c.mu.RLock()
	target := c.baseURL + path
	client := &http.Client{Timeout: c.timeout, Transport: c.transport}
	headers := c.headers
	c.mu.RUnlock()

	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return info, &TransportError{Err: fmt.Errorf("build request failed: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	start := time.Now()
	resp, err := client.Do(req)
	info.Duration = time.Since(start)
	if err != nil {
		return info, &TransportError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	info.StatusCode = resp.StatusCode
	info.Headers = resp.Header
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return info, &TransportError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Err:        fmt.Errorf("read response body failed: %w", err),
		}
	}
	info.Body = bodyBytes
	return info, nil
}

// JSON marshals in as the request body, requires a 2xx reply and decodes it
// into out. Every failure is a *TransportError.
func (c *Client) JSON(ctx context.Context, method, path string, query url.Values, in, out interface{}) (ResponseInfo, error) {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return ResponseInfo{}, &TransportError{Err: fmt.Errorf("marshal request body failed: %w", err)}
		}
	}

	info, err := c.Do(ctx, method, path, query, body)
	if err != nil {
		return info, err
	}
	if info.StatusCode < 200 || info.StatusCode > 299 {
		return info, &TransportError{
			StatusCode: info.StatusCode,
			Status:     http.StatusText(info.StatusCode),
			Body:       info.Body,
		}
	}
	if out == nil {
		return info, nil
	}
	if err := json.Unmarshal(info.Body, out); err != nil {
		return info, &TransportError{
			StatusCode: info.StatusCode,
			Status:     "parsererror",
			Body:       info.Body,
			Err:        fmt.Errorf("decode response body failed: %w", err),
		}
	}
	return info, nil
}
