package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"school-quiz-bot/internal/domain"
)

// Classes a student can register under.
var Classes = []string{"7A", "7B", "8A", "8B", "9A", "9B", "10A", "10B", "11A", "11B"}

// UserRegistry is the slice of the user store the bot needs.
type UserRegistry interface {
	UpsertUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, telegramID int64) (domain.User, error)
}

// QuizEngine is the inbound surface of the session engine.
type QuizEngine interface {
	Start(ctx context.Context, userID int64) error
	Answer(ctx context.Context, userID int64, slot, option int) error
}

// Bot handles the registration flow and routes quiz callbacks into the
// engine over Telegram long polling.
type Bot struct {
	api    *tgbotapi.BotAPI
	engine QuizEngine
	users  UserRegistry

	quizLength int
	window     time.Duration

	// mu guards the registration state of users mid-flow: a chat ID maps to
	// "" while we wait for the full name, then to the name while the class
	// keyboard is open.
	mu      sync.Mutex
	pending map[int64]string
}

func NewBot(api *tgbotapi.BotAPI, engine QuizEngine, users UserRegistry, quizLength int, window time.Duration) *Bot {
	return &Bot{
		api:        api,
		engine:     engine,
		users:      users,
		quizLength: quizLength,
		window:     window,
		pending:    make(map[int64]string),
	}
}

// Run consumes updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 60
	updates := b.api.GetUpdatesChan(cfg)

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	log.Printf("telegram: authorized as @%s", b.api.Self.UserName)
	for update := range updates {
		switch {
		case update.Message != nil:
			b.handleMessage(ctx, update.Message)
		case update.CallbackQuery != nil:
			b.handleCallback(ctx, update.CallbackQuery)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.handleStart(ctx, chatID)
		default:
			b.send(chatID, "Noma'lum buyruq. /start dan boshlang.")
		}
		return
	}
	b.handleText(ctx, chatID, msg.Text)
}

// handleStart greets a registered user or begins the registration flow.
func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	user, err := b.users.GetUser(ctx, chatID)
	if err == nil {
		reply := tgbotapi.NewMessage(chatID,
			fmt.Sprintf("Siz avval ro‘yxatdan o‘tgansiz: %s (%s)", user.FullName, user.Class))
		reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🧪 Testni boshlash", callbackQuizIntro),
			),
		)
		if _, err := b.api.Send(reply); err != nil {
			log.Printf("telegram: send greeting to %d: %v", chatID, err)
		}
		return
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		log.Printf("telegram: look up user %d: %v", chatID, err)
		b.send(chatID, "❌ Xatolik yuz berdi.")
		return
	}

	b.mu.Lock()
	b.pending[chatID] = ""
	b.mu.Unlock()
	b.send(chatID, "Salom! Iltimos, to‘liq ismingizni kiriting:")
}

// handleText captures the full name during registration; any other text is
// ignored, matching how the original bot behaved.
func (b *Bot) handleText(_ context.Context, chatID int64, text string) {
	b.mu.Lock()
	name, ok := b.pending[chatID]
	if !ok || name != "" || text == "" {
		b.mu.Unlock()
		return
	}
	b.pending[chatID] = text
	b.mu.Unlock()

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(Classes))
	for _, class := range Classes {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(class, classCallbackData(class)),
		))
	}
	msg := tgbotapi.NewMessage(chatID, "Sinfingizni tanlang:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("telegram: send class keyboard to %d: %v", chatID, err)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	data := cb.Data

	switch {
	case data == callbackQuizIntro:
		b.answerCallback(cb.ID, "")
		b.sendQuizIntro(chatID)
	case data == callbackStartQuiz:
		b.answerCallback(cb.ID, "")
		if err := b.engine.Start(ctx, chatID); err != nil {
			log.Printf("telegram: start quiz for %d: %v", chatID, err)
			b.send(chatID, "❌ Xatolik yuz berdi.")
		}
	case strings.HasPrefix(data, answerPrefix):
		b.handleAnswer(ctx, cb, chatID, data)
	default:
		if class, ok := parseClassData(data); ok {
			b.answerCallback(cb.ID, "")
			b.handleClassPick(ctx, chatID, class)
			return
		}
		b.answerCallback(cb.ID, "")
	}
}

func (b *Bot) handleClassPick(ctx context.Context, chatID int64, class string) {
	b.mu.Lock()
	name := b.pending[chatID]
	delete(b.pending, chatID)
	b.mu.Unlock()
	if name == "" {
		return
	}

	user := domain.User{TelegramID: chatID, FullName: name, Class: class}
	if err := b.users.UpsertUser(ctx, user); err != nil {
		log.Printf("telegram: register user %d: %v", chatID, err)
		b.send(chatID, "❌ Xatolik yuz berdi.")
		return
	}

	msg := tgbotapi.NewMessage(chatID,
		fmt.Sprintf("✅ Rahmat, %s! Siz %s sinfidan ro‘yxatdan o‘tdingiz.", name, class))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧪 Testni boshlash", callbackQuizIntro),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("telegram: send registration confirmation to %d: %v", chatID, err)
	}
}

// sendQuizIntro advertises the quiz parameters. The counts come from the
// same config values the engine enforces.
func (b *Bot) sendQuizIntro(chatID int64) {
	text := fmt.Sprintf(
		"📋 Test haqida ma'lumot:\n\n"+
			"🧠 %d ta test savoli bo‘ladi\n"+
			"⏱ Har bir savol uchun %d soniya vaqt\n"+
			"📊 Natija yakunda ko‘rsatiladi\n\n"+
			"Tayyormi? Quyidagi tugmani bosing 👇",
		b.quizLength, int(b.window.Seconds()))

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚀 Testni boshlash", callbackStartQuiz),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("telegram: send quiz intro to %d: %v", chatID, err)
	}
}

func (b *Bot) handleAnswer(ctx context.Context, cb *tgbotapi.CallbackQuery, chatID int64, data string) {
	slot, option, err := parseAnswerData(data)
	if err != nil {
		log.Printf("telegram: %v", err)
		b.answerCallback(cb.ID, "")
		return
	}

	switch err := b.engine.Answer(ctx, chatID, slot, option); {
	case err == nil:
		b.answerCallback(cb.ID, "✅ Javob qabul qilindi!")
	case errors.Is(err, domain.ErrSlotMismatch):
		b.answerCallback(cb.ID, "Bu savolga allaqachon javob berilgan.")
	case errors.Is(err, domain.ErrNoActiveSession):
		b.answerCallback(cb.ID, "Aktiv test yo‘q. /start dan boshlang.")
	case errors.Is(err, domain.ErrOptionOutOfRange):
		log.Printf("telegram: user %d sent option %d for slot %d: %v", chatID, option, slot, err)
		b.answerCallback(cb.ID, "")
	default:
		log.Printf("telegram: answer from %d: %v", chatID, err)
		b.answerCallback(cb.ID, "")
	}
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		log.Printf("telegram: answer callback: %v", err)
	}
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("telegram: send to %d: %v", chatID, err)
	}
}
