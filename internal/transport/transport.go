// Package transport is the request/response primitive shared by the
// watch-page scraper and the InnerTube API client.
package transport

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
)

// Response is a decoded HTTP exchange result.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client wraps an *http.Client with per-request header/query injection and
// transparent response decompression.
type Client struct {
	httpClient *http.Client

	mu          sync.RWMutex
	forwardedIP string
}

func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient}
}

// HTTPClient exposes the underlying client, e.g. for cookie jar access.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// SetForwardedIP sets an X-Forwarded-For value applied to all subsequent
// requests. Left unset until a geo-restriction error has been observed.
func (c *Client) SetForwardedIP(ip string) {
	c.mu.Lock()
	c.forwardedIP = strings.TrimSpace(ip)
	c.mu.Unlock()
}

// ForwardedIP returns the currently configured X-Forwarded-For value.
func (c *Client) ForwardedIP() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.forwardedIP
}

// Send issues one HTTP request. query parameters are merged into the URL,
// jsonBody (may be nil) is sent as-is, and the response body is returned
// decompressed. Non-2xx statuses are not an error here; callers decide.
func (c *Client) Send(ctx context.Context, method, rawURL string, headers http.Header, query map[string]string, jsonBody []byte) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if jsonBody != nil {
		body = bytes.NewReader(jsonBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	for k, values := range headers {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if jsonBody != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	}
	if ip := c.ForwardedIP(); ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	decoded, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       decoded,
	}, nil
}

func decodeBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip response: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		zr, err := zlib.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("deflate response: %w", err)
		}
		defer zr.Close()
		reader = zr
	case "bzip2":
		reader = bzip2.NewReader(resp.Body)
	}
	return io.ReadAll(reader)
}
