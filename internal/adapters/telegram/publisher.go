package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pgl-ranking-bot/internal/domain"
	"pgl-ranking-bot/internal/infra/metrics"
)

const photoName = "ranks.png"

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Publisher отправляет склейку фотографией в чат или канал.
type Publisher struct {
	bot    sender
	chatID int64
}

// NewPublisher создаёт публикатор Telegram.
func NewPublisher(bot sender, chatID int64) *Publisher {
	return &Publisher{bot: bot, chatID: chatID}
}

var _ domain.Publisher = (*Publisher)(nil)

// Name возвращает название площадки.
func (p *Publisher) Name() string { return "telegram" }

// Publish отправляет PNG с подписью.
func (p *Publisher) Publish(_ context.Context, png []byte, caption string) (domain.PublishReceipt, error) {
	photo := tgbotapi.NewPhoto(p.chatID, tgbotapi.FileBytes{Name: photoName, Bytes: png})
	photo.Caption = ClipCaption(caption)

	start := time.Now()
	msg, err := p.bot.Send(photo)
	metrics.ObserveNetworkRequest("telegram_bot", "send_photo", strconv.FormatInt(p.chatID, 10), start, err)
	if err != nil {
		return domain.PublishReceipt{}, fmt.Errorf("%w: telegram: %w", domain.ErrUpload, err)
	}
	return domain.PublishReceipt{Target: p.Name(), PostID: strconv.Itoa(msg.MessageID)}, nil
}
