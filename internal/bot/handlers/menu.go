package handlers

import (
	"github.com/Spok95/telegram-course-bot/internal/bot/menu"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ShowMenu — /menu: сбрасывает все сценарии и показывает главное меню.
func ShowMenu(env *Env, msg *tgbotapi.Message) {
	ResetAll(msg.Chat.ID)
	reply(env, msg.Chat.ID, promptMainMenu, menu.Main())
}

// ContactAdmin — карточка администратора из конфига.
func ContactAdmin(env *Env, msg *tgbotapi.Message) {
	text := "📞 *Contact Admin:*\n" +
		"- Name: " + env.Cfg.AdminName + "\n" +
		"- Phone: " + env.Cfg.AdminPhone + "\n" +
		"- Telegram: " + env.Cfg.AdminUsername + "\n"
	replyMarkdown(env, msg.Chat.ID, text, nil)
}

// Fallback — нераспознанный ввод вне сценариев.
func Fallback(env *Env, msg *tgbotapi.Message) {
	send(env, msg.Chat.ID, "I didn't understand that. Please use the menu options or send a valid command.")
}
