package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pgl-ranking-bot/internal/domain"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	return tgbotapi.Message{MessageID: 77}, nil
}

func TestPublishSendsPhoto(t *testing.T) {
	bot := &fakeSender{}
	publisher := NewPublisher(bot, -100500)

	receipt, err := publisher.Publish(context.Background(), []byte("png"), "ranking")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.PostID != "77" || receipt.Target != "telegram" {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
	photo, ok := bot.sent[0].(tgbotapi.PhotoConfig)
	if !ok {
		t.Fatalf("expected PhotoConfig, got %T", bot.sent[0])
	}
	if photo.ChatID != -100500 || photo.Caption != "ranking" {
		t.Fatalf("unexpected photo config: chat %d caption %q", photo.ChatID, photo.Caption)
	}
	file, ok := photo.File.(tgbotapi.FileBytes)
	if !ok || string(file.Bytes) != "png" || file.Name != "ranks.png" {
		t.Fatalf("unexpected file %#v", photo.File)
	}
}

func TestPublishWrapsSendError(t *testing.T) {
	publisher := NewPublisher(&fakeSender{err: errors.New("chat not found")}, 1)
	if _, err := publisher.Publish(context.Background(), []byte("png"), "x"); !errors.Is(err, domain.ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
}
