package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Presenter sends quiz questions and results to a chat. It is the outbound
// half of the bot, kept separate so the engine can be wired to it before the
// inbound handler exists.
type Presenter struct {
	api *tgbotapi.BotAPI
}

func NewPresenter(api *tgbotapi.BotAPI) *Presenter {
	return &Presenter{api: api}
}

func (p *Presenter) PresentQuestion(_ context.Context, userID int64, slot, total int, prompt string, options []string) error {
	msg := tgbotapi.NewMessage(userID, fmt.Sprintf("❓ Savol %d/%d\n\n%s", slot+1, total, prompt))

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options))
	for i, option := range options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(option, answerCallbackData(slot, i)),
		))
	}
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)

	_, err := p.api.Send(msg)
	return err
}

func (p *Presenter) PresentFinalScore(_ context.Context, userID int64, score, total int) error {
	msg := tgbotapi.NewMessage(userID, fmt.Sprintf("✅ Test tugadi!\nSizning natijangiz: %d / %d", score, total))
	_, err := p.api.Send(msg)
	return err
}
