package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/Spok95/telegram-course-bot/internal/config"
	"github.com/Spok95/telegram-course-bot/internal/metrics"
	"github.com/Spok95/telegram-course-bot/internal/observability"
	"github.com/Spok95/telegram-course-bot/internal/sheets"
	"github.com/Spok95/telegram-course-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Env — общие зависимости хендлеров.
type Env struct {
	Bot    tg.Client
	Roster *sheets.Roster
	Groups *sheets.Groups
	Cfg    *config.Config
	Log    *zap.SugaredLogger
}

// Now подменяется в тестах дедлайнов и возраста.
var Now = time.Now

// ResetAll сбрасывает все сценарии чата. Вызывается на каждом входе в
// top-level команду: поля одного сценария не должны протекать в другой.
func ResetAll(chatID int64) {
	regStates.Delete(chatID)
	editStates.Delete(chatID)
	hwStates.Delete(chatID)
	dlStates.Delete(chatID)
}

func send(env *Env, chatID int64, text string) {
	reply(env, chatID, text, nil)
}

func reply(env *Env, chatID int64, text string, kb interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if kb != nil {
		msg.ReplyMarkup = kb
	}
	if _, err := tg.Send(env.Bot, msg); err != nil {
		metrics.HandlerErrors.Inc()
	}
}

func replyMarkdown(env *Env, chatID int64, text string, kb interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if kb != nil {
		msg.ReplyMarkup = kb
	}
	if _, err := tg.Send(env.Bot, msg); err != nil {
		metrics.HandlerErrors.Inc()
	}
}

func replyHTML(env *Env, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := tg.Send(env.Bot, msg); err != nil {
		metrics.HandlerErrors.Inc()
	}
}

// storeErrText переводит ошибку хранилища в сообщение пользователю.
// Проблема конфигурации ростера и транзиентный сбой — разные советы.
func storeErrText(err error) string {
	var se *sheets.SchemaError
	switch {
	case errors.As(err, &se):
		return fmt.Sprintf("Roster configuration problem: column %q is missing. Please contact admin.", se.Column)
	case errors.Is(err, sheets.ErrNotFound):
		return "The requested record was not found. Please contact admin."
	default:
		return "The records service is temporarily unavailable. Please try again later."
	}
}

// failStore — сбой хранилища: сообщение пользователю, сценарий в idle.
func failStore(env *Env, chatID int64, err error) {
	metrics.HandlerErrors.Inc()
	observability.CaptureErr(err)
	env.Log.Errorw("store error", "chat_id", chatID, "err", err)
	send(env, chatID, storeErrText(err))
	ResetAll(chatID)
}
