package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/Spok95/telegram-course-bot/internal/ctxutil"
	"github.com/Spok95/telegram-course-bot/internal/sheets"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ShowProfile — карточка профиля из ростера.
func ShowProfile(ctx context.Context, env *Env, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	sctx, cancel := ctxutil.WithStoreTimeout(ctx)
	profile, _, err := env.Roster.FindByTelegramID(sctx, msg.From.ID)
	cancel()
	if err != nil {
		var se *sheets.SchemaError
		switch {
		case errors.Is(err, sheets.ErrNotFound):
			send(env, chatID, "Profile not found. Please register using /start.")
		case errors.As(err, &se):
			send(env, chatID, "An error occurred while fetching your profile. Missing column in Google Sheets.")
		default:
			failStore(env, chatID, err)
		}
		return
	}

	text := fmt.Sprintf(
		"👤 *Your Profile:*\n"+
			"*🆔 Your ID: %s *\n"+
			"- *Full Name:* %s\n"+
			"- *Telephone Number:* %s\n"+
			"- *Additional Telephone Number:* %s\n"+
			"- *Date of Birth:* %s\n"+
			"- *Region:* %s\n"+
			"- *Study Mode:* %s\n"+
			"- *HW Frequency:* %s\n"+
			"\n\n*To change data, send* /edit",
		profile.UniqueID, profile.FullName, profile.Phone, profile.AdditionalPhone,
		profile.DateOfBirth, profile.Region, profile.StudyMode, profile.HWFrequency)
	replyMarkdown(env, chatID, text, nil)
}
