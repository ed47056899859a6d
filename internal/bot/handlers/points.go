package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Spok95/telegram-course-bot/internal/ctxutil"
	"github.com/Spok95/telegram-course-bot/internal/models"
	"github.com/Spok95/telegram-course-bot/internal/sheets"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ShowPoints — таблица баллов студента по дням 1..30.
func ShowPoints(ctx context.Context, env *Env, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	sctx, cancel := ctxutil.WithStoreTimeout(ctx)
	defer cancel()

	profile, _, err := env.Roster.FindByTelegramID(sctx, msg.From.ID)
	if err != nil {
		if errors.Is(err, sheets.ErrNotFound) {
			send(env, chatID, "⚠️ Your information was not found in the database.")
			return
		}
		failStore(env, chatID, err)
		return
	}
	if strings.TrimSpace(profile.GroupNumber) == "" {
		send(env, chatID, "⚠️ Your group number is missing or invalid in the database.")
		return
	}

	sheet := sheets.SheetName(profile.GroupNumber)
	snap, err := env.Groups.Snapshot(sctx, sheet)
	if err != nil {
		if errors.Is(err, sheets.ErrNotFound) {
			send(env, chatID, fmt.Sprintf("⚠️ Group sheet '%s' not found.", sheet))
			return
		}
		failStore(env, chatID, err)
		return
	}

	_, studentRow, ok := snap.FindStudent(profile.UniqueID)
	if !ok {
		send(env, chatID, "⚠️ No scores were found for your account in the group sheet.")
		return
	}

	var b strings.Builder
	b.WriteString("📊 *Your Scores:*\n\n")
	for day := 1; day <= models.MaxHomeworks; day++ {
		score := "0"
		if col, err := snap.ScoreColumn(day); err == nil && col < len(studentRow) {
			if v := strings.TrimSpace(studentRow[col]); v != "" {
				score = v
			}
		}
		fmt.Fprintf(&b, "DAY%3d | %s\n", day, score)
	}
	replyMarkdown(env, chatID, b.String(), nil)
}
