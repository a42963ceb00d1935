package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramTransport delivers notifications to a personal Telegram chat
// instead of a mailbox. The recipient email is included in the message so a
// shared chat still shows who each notice was meant for.
type TelegramTransport struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramTransport(token string, chatID int64) (*TelegramTransport, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram transport: %w", err)
	}
	return &TelegramTransport{api: api, chatID: chatID}, nil
}

func (t *TelegramTransport) Send(_ context.Context, msg Message) error {
	text := fmt.Sprintf("%s\n\n%s\n\nFor: %s", msg.Subject, msg.Body, msg.To)
	if _, err := t.api.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
