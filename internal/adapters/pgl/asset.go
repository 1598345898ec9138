package pgl

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"time"

	"pgl-ranking-bot/internal/domain"
	"pgl-ranking-bot/internal/infra/metrics"
)

// Fetch скачивает картинку позиции рейтинга с CDN и декодирует PNG.
func (c *Client) Fetch(ctx context.Context, size int, entity domain.RankedEntity) (img image.Image, err error) {
	token := EncodeAddress(entity.MonsNo, entity.FormNo)
	endpoint := AssetURL(c.endpoints.AssetTemplate, size, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: create request: %w", domain.ErrAssetFetch, token, err)
	}

	start := time.Now()
	defer func() {
		metrics.ObserveNetworkRequest("pgl_cdn", "get_asset", req.URL.Host, start, err)
	}()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: do request: %w", domain.ErrAssetFetch, token, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: %s: unexpected status %d", domain.ErrAssetFetch, token, resp.StatusCode)
	}
	img, err = png.Decode(io.LimitReader(resp.Body, maxAssetBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: decode png: %w", domain.ErrAssetFetch, token, err)
	}
	return img, nil
}
