package weibo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"pgl-ranking-bot/internal/domain"
	"pgl-ranking-bot/internal/infra/metrics"
)

const (
	defaultShareURL = "https://api.weibo.com/2/statuses/share.json"
	pictureName     = "ranks.png"
)

// Client публикует картинку в Weibo через statuses/share.
type Client struct {
	http        *http.Client
	shareURL    string
	accessToken string
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

func WithShareURL(shareURL string) Option {
	return func(c *Client) {
		if shareURL != "" {
			c.shareURL = shareURL
		}
	}
}

// NewClient создаёт клиента. Токен не логируется и не попадает в тексты ошибок.
func NewClient(accessToken string, opts ...Option) *Client {
	client := &Client{
		http:        &http.Client{Timeout: 60 * time.Second},
		shareURL:    defaultShareURL,
		accessToken: accessToken,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

var _ domain.Publisher = (*Client)(nil)

// Name возвращает название площадки.
func (c *Client) Name() string { return "weibo" }

// Publish загружает PNG с подписью одним multipart-запросом.
func (c *Client) Publish(ctx context.Context, png []byte, caption string) (receipt domain.PublishReceipt, err error) {
	if c.accessToken == "" {
		return domain.PublishReceipt{}, fmt.Errorf("%w: weibo: access token is empty", domain.ErrUpload)
	}
	body, contentType, err := buildForm(png, caption)
	if err != nil {
		return domain.PublishReceipt{}, fmt.Errorf("%w: weibo: %w", domain.ErrUpload, err)
	}
	endpoint, err := url.Parse(c.shareURL)
	if err != nil {
		return domain.PublishReceipt{}, fmt.Errorf("%w: weibo: parse share url: %w", domain.ErrUpload, err)
	}
	query := endpoint.Query()
	query.Set("access_token", c.accessToken)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), body)
	if err != nil {
		return domain.PublishReceipt{}, fmt.Errorf("%w: weibo: create request: %w", domain.ErrUpload, err)
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	defer func() {
		metrics.ObserveNetworkRequest("weibo", "share", endpoint.Host, start, err)
	}()

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.PublishReceipt{}, fmt.Errorf("%w: weibo: do request: %w", domain.ErrUpload, redactURL(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.PublishReceipt{}, fmt.Errorf("%w: weibo: read response: %w", domain.ErrUpload, err)
	}
	var payload map[string]json.RawMessage
	decodeErr := json.Unmarshal(data, &payload)
	if apiErr, ok := payload["error"]; ok {
		return domain.PublishReceipt{}, fmt.Errorf("%w: weibo: %s", domain.ErrUpload, strings.Trim(string(apiErr), `"`))
	}
	if resp.StatusCode >= 300 {
		return domain.PublishReceipt{}, fmt.Errorf("%w: weibo: unexpected status %d", domain.ErrUpload, resp.StatusCode)
	}
	if decodeErr != nil {
		return domain.PublishReceipt{}, fmt.Errorf("%w: weibo: decode response: %w", domain.ErrUpload, decodeErr)
	}

	receipt = domain.PublishReceipt{Target: c.Name()}
	if raw, ok := payload["idstr"]; ok {
		_ = json.Unmarshal(raw, &receipt.PostID)
	}
	return receipt, nil
}

func buildForm(png []byte, caption string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("status", caption); err != nil {
		return nil, "", fmt.Errorf("write status: %w", err)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="pic"; filename="%s"`, pictureName))
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create pic part: %w", err)
	}
	if _, err := part.Write(png); err != nil {
		return nil, "", fmt.Errorf("write pic: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

// redactURL убирает из ошибки транспорта адрес с access_token.
func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
