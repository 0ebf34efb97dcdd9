// Package bot is the Telegram front-end: it binds chats to student names and
// relays rendered schedules from the service layer.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/veles/schedulebot/internal/browser"
	"github.com/veles/schedulebot/internal/portal"
	"github.com/veles/schedulebot/internal/service"
	"github.com/veles/schedulebot/internal/session"
)

// fetchTimeout bounds one full scrape from the user's point of view.
const fetchTimeout = 3 * time.Minute

const (
	msgGreeting      = "Привет!\nМеня зовут ScheduleBot!\nЯ могу отправить расписание!"
	msgAskName       = "Для работы со мной, введите, пожалуйста, ваше ФИО\nНапример: Иванов Иван Иванович"
	msgInvalidName   = "Некорректное ФИО!"
	msgConnecting    = "Подключаю ваше расписание..."
	msgConnected     = "Подключение прошло успешно!"
	msgProcessing    = "Обрабатываю запрос..."
	msgNoClasses     = "На этой неделе занятий нет."
	msgNotFound      = "Студент не найден. Проверьте, пожалуйста, ФИО."
	msgPortalTimeout = "Портал расписания не отвечает. Подождите немного и попробуйте ещё раз."
	msgGenericError  = "Не получилось получить расписание. Попробуйте позже."
)

// Bot routes Telegram updates to the schedule service.
type Bot struct {
	api      *tgbotapi.BotAPI
	svc      *service.Service
	registry *session.Registry
}

// New connects to the Telegram API and wires the bot.
func New(token string, svc *service.Service, registry *session.Registry) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to Telegram: %w", err)
	}
	log.Printf("authorized on Telegram as @%s", api.Self.UserName)

	return &Bot{api: api, svc: svc, registry: registry}, nil
}

// Run long-polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	switch {
	case msg.IsCommand() && msg.Command() == "start":
		b.handleStart(msg)
	case msg.Text == menuWeek:
		b.handleSchedule(ctx, msg, 0)
	case msg.Text == menuNextWeek:
		b.handleSchedule(ctx, msg, 1)
	default:
		b.handleBind(msg)
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	b.registry.Create(msg.Chat.ID)
	b.reply(msg.Chat.ID, msgGreeting)
	b.reply(msg.Chat.ID, msgAskName)
}

// handleBind treats any non-command text from an unbound chat as a full name
// attempt. Validation runs before anything touches the portal.
func (b *Bot) handleBind(msg *tgbotapi.Message) {
	if rec, ok := b.registry.Lookup(msg.Chat.ID); ok && rec.Bound() {
		b.reply(msg.Chat.ID, fmt.Sprintf("Вы уже подключены под именем: %s", rec.FullName))
		return
	}

	if err := session.ValidateFullName(msg.Text); err != nil {
		b.reply(msg.Chat.ID, msgInvalidName)
		return
	}

	b.reply(msg.Chat.ID, msgConnecting)
	rec, _ := b.registry.Bind(msg.Chat.ID, msg.Text)

	connected := tgbotapi.NewMessage(msg.Chat.ID, msgConnected)
	connected.ReplyMarkup = startMenu
	b.send(connected)

	// Warm the cache in the background so the first menu tap is instant.
	go func() {
		warmCtx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		if _, err := b.svc.FetchWeekText(warmCtx, rec.FullName, 0); err != nil {
			log.Printf("cache warm for %q failed: %v", rec.FullName, err)
		}
	}()
}

func (b *Bot) handleSchedule(ctx context.Context, msg *tgbotapi.Message, weekOffset int) {
	rec, ok := b.registry.Lookup(msg.Chat.ID)
	if !ok || !rec.Bound() {
		b.reply(msg.Chat.ID, msgAskName)
		return
	}

	processing := b.send(tgbotapi.NewMessage(msg.Chat.ID, msgProcessing))

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	blocks, err := b.svc.FetchWeekText(fetchCtx, rec.FullName, weekOffset)
	if err != nil {
		log.Printf("fetch for chat %d (%q) failed: %v", msg.Chat.ID, rec.FullName, err)
		b.editOrReply(msg.Chat.ID, processing, userMessage(err))
		return
	}
	if len(blocks) == 0 {
		b.editOrReply(msg.Chat.ID, processing, msgNoClasses)
		return
	}

	// First block replaces the "processing" message, the rest arrive as
	// separate messages, one per day.
	b.editOrReply(msg.Chat.ID, processing, blocks[0])
	for _, block := range blocks[1:] {
		b.reply(msg.Chat.ID, block)
	}
}

// userMessage maps the failure taxonomy to what the user should read.
func userMessage(err error) string {
	switch {
	case errors.Is(err, portal.ErrStudentNotFound):
		return msgNotFound
	case errors.Is(err, portal.ErrAuthTimeout),
		errors.Is(err, portal.ErrRenderTimeout),
		errors.Is(err, portal.ErrNavigationTimeout),
		errors.Is(err, browser.ErrSessionCreation):
		return msgPortalTimeout
	default:
		return msgGenericError
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) *tgbotapi.Message {
	sent, err := b.api.Send(c)
	if err != nil {
		log.Printf("telegram send failed: %v", err)
		return nil
	}
	return &sent
}

// editOrReply edits a previously sent message in place, falling back to a
// fresh message when the edit target is gone.
func (b *Bot) editOrReply(chatID int64, target *tgbotapi.Message, text string) {
	if target == nil {
		b.reply(chatID, text)
		return
	}
	if _, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, target.MessageID, text)); err != nil {
		log.Printf("telegram edit failed: %v", err)
		b.reply(chatID, text)
	}
}
