package pgl

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"pgl-ranking-bot/internal/domain"
)

// Authenticate получает сессионные cookie. Тело ответа проверяется только на status_code.
func (c *Client) Authenticate(ctx context.Context) (*domain.Session, error) {
	form := url.Values{}
	form.Set("languageId", strconv.Itoa(c.params.LanguageID))
	form.Set("timezone", c.timezone)
	cookies, err := c.postForm(ctx, "login_status", c.endpoints.Login, form, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthentication, err)
	}
	return &domain.Session{Cookies: cookies, IssuedAt: c.clock.Now()}, nil
}
