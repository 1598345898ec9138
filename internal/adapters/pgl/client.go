package pgl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pgl-ranking-bot/internal/domain"
	"pgl-ranking-bot/internal/infra/metrics"
)

const (
	statusSuccess    = "0000"
	defaultTimezone  = "UTC"
	defaultTimeout   = 20 * time.Second
	maxResponseBytes = 8 << 20
	maxAssetBytes    = 4 << 20
)

// Endpoints задаёт адреса Pokémon Global Link.
type Endpoints struct {
	Login         string
	Season        string
	Ranking       string
	Referer       string
	AssetTemplate string
}

// Client ходит в frontendApi PGL и на CDN с картинками.
type Client struct {
	http      *http.Client
	endpoints Endpoints
	params    domain.RankingParams
	clock     domain.Clock
	timezone  string
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithClock подменяет источник меток времени timeStamp.
func WithClock(clock domain.Clock) Option {
	return func(c *Client) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewClient создаёт клиента PGL.
func NewClient(endpoints Endpoints, params domain.RankingParams, opts ...Option) *Client {
	client := &Client{
		http:      &http.Client{Timeout: defaultTimeout},
		endpoints: endpoints,
		params:    params,
		clock:     domain.SystemClock{},
		timezone:  defaultTimezone,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

var (
	_ domain.SessionClient  = (*Client)(nil)
	_ domain.RankingFetcher = (*Client)(nil)
	_ domain.AssetFetcher   = (*Client)(nil)
)

type envelope struct {
	StatusCode string `json:"status_code"`
}

func (c *Client) timestamp() string {
	return strconv.FormatInt(c.clock.Now().UnixMilli(), 10)
}

// postForm отправляет form-запрос и проверяет status_code ответа.
// Возвращает cookie, выставленные ответом.
func (c *Client) postForm(ctx context.Context, operation, endpoint string, form url.Values, sess *domain.Session, out any) (cookies []*http.Cookie, err error) {
	form.Set("timeStamp", c.timestamp())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.endpoints.Referer != "" {
		req.Header.Set("Referer", c.endpoints.Referer)
	}
	if sess != nil {
		for _, cookie := range sess.Cookies {
			req.AddCookie(cookie)
		}
	}

	start := time.Now()
	defer func() {
		metrics.ObserveNetworkRequest("pgl", operation, req.URL.Host, start, err)
	}()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: do request: %w", operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", operation, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: unexpected status %d", operation, resp.StatusCode)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", operation, err)
	}
	if env.StatusCode != statusSuccess {
		return nil, fmt.Errorf("%s: status_code %q", operation, env.StatusCode)
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, fmt.Errorf("%s: decode payload: %w", operation, err)
		}
	}
	return resp.Cookies(), nil
}
