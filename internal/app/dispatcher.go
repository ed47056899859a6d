package app

import (
	"context"
	"strings"

	"github.com/Spok95/telegram-course-bot/internal/bot/handlers"
	"github.com/Spok95/telegram-course-bot/internal/ctxutil"
	"github.com/Spok95/telegram-course-bot/internal/metrics"
	"github.com/Spok95/telegram-course-bot/internal/observability"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Dispatcher struct {
	env     *handlers.Env
	limiter *ChatLimiter
}

func NewDispatcher(env *handlers.Env) *Dispatcher {
	return &Dispatcher{env: env, limiter: NewChatLimiter()}
}

// Dispatch обрабатывает один апдейт. Вызывается в отдельной горутине на
// апдейт; замок чата сериализует события одного пользователя.
func (d *Dispatcher) Dispatch(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.From == nil {
		return
	}
	metrics.BotUpdates.Inc()

	unlock := d.limiter.Lock(msg.Chat.ID)
	defer unlock()

	defer func() {
		if r := recover(); r != nil {
			metrics.HandlerErrors.Inc()
			observability.CapturePanic(r)
			d.env.Log.Errorw("panic in handler", "chat_id", msg.Chat.ID, "panic", r)
		}
	}()

	ctx = ctxutil.WithChatID(ctx, msg.Chat.ID)
	d.handleMessage(ctx, msg)
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	env := d.env
	text := msg.Text
	chatID := msg.Chat.ID

	// /message может прийти и подписью к медиа
	if strings.HasPrefix(text, "/message") || strings.HasPrefix(msg.Caption, "/message") {
		handlers.HandleBroadcast(ctx, env, msg)
		return
	}

	switch text {
	case "/start":
		handlers.StartRegistration(ctx, env, msg)
		return
	case "/menu":
		handlers.ShowMenu(env, msg)
		return
	case "/edit":
		handlers.StartEdit(ctx, env, msg)
		return
	case "/profile":
		handlers.ShowProfile(ctx, env, msg)
		return
	case "/homework":
		handlers.StartHomework(ctx, env, msg)
		return
	case "/points":
		handlers.ShowPoints(ctx, env, msg)
		return
	case "/toplist":
		handlers.ShowTopList(ctx, env, msg)
		return
	case "/contactAdmin":
		handlers.ContactAdmin(env, msg)
		return
	case "/deadline":
		handlers.StartDeadline(ctx, env, msg)
		return
	case "/export":
		handlers.HandleExport(ctx, env, msg)
		return
	}

	// Активный сценарий забирает любой не-командный ввод.
	switch {
	case handlers.RegistrationActive(chatID):
		handlers.HandleRegistration(ctx, env, msg)
		return
	case handlers.EditActive(chatID):
		handlers.HandleEdit(ctx, env, msg)
		return
	case handlers.HomeworkActive(chatID):
		handlers.HandleHomework(ctx, env, msg)
		return
	case handlers.DeadlineActive(chatID):
		handlers.HandleDeadline(ctx, env, msg)
		return
	}

	// Кнопки главного меню.
	switch strings.ToLower(text) {
	case "profile":
		handlers.ShowProfile(ctx, env, msg)
	case "homework":
		handlers.StartHomework(ctx, env, msg)
	case "my points":
		handlers.ShowPoints(ctx, env, msg)
	case "top list":
		handlers.ShowTopList(ctx, env, msg)
	case "contact admin":
		handlers.ContactAdmin(env, msg)
	default:
		if text != "" && !strings.HasPrefix(text, "/") {
			handlers.Fallback(env, msg)
		}
	}
}
