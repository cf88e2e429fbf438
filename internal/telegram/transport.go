package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lumipay/agent-console/internal/panel"
)

// Transport implements panel.Transport over the Bot API.
type Transport struct {
	api *tgbotapi.BotAPI
}

func NewTransport(api *tgbotapi.BotAPI) *Transport {
	return &Transport{api: api}
}

func (t *Transport) UpdateMessage(ctx context.Context, ref panel.MessageRef, content panel.Content) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(ref.ChatID, ref.MessageID, content.Text, toMarkup(content))
	edit.ParseMode = tgbotapi.ModeHTML

	if _, err := t.api.Request(edit); err != nil {
		if isNotModified(err) {
			return panel.ErrNotModified
		}
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

func (t *Transport) Acknowledge(ctx context.Context, interactionID, text string, showAlert bool) error {
	cb := tgbotapi.NewCallback(interactionID, text)
	cb.ShowAlert = showAlert
	if _, err := t.api.Request(cb); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

// isNotModified classifies the Bad Request the API returns when an edit
// carries content identical to what is already displayed.
func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

func toMarkup(content panel.Content) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(content.Keyboard))
	for _, row := range content.Keyboard {
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		rows = append(rows, btns)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
