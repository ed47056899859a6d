package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/Spok95/telegram-course-bot/internal/bot/menu"
	"github.com/Spok95/telegram-course-bot/internal/bot/shared/fsmutil"
	"github.com/Spok95/telegram-course-bot/internal/ctxutil"
	"github.com/Spok95/telegram-course-bot/internal/grading"
	"github.com/Spok95/telegram-course-bot/internal/metrics"
	"github.com/Spok95/telegram-course-bot/internal/sheets"
	"github.com/Spok95/telegram-course-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	dlStepSelect = iota
	dlStepDeadline
	dlStepAnswers
)

type DeadlineState struct {
	Step  int
	Sheet string
	HW    int
}

var dlStates = fsmutil.NewStore[*DeadlineState]()

// GroupSheets — имена групповых листов G#1..G#<n>.
func GroupSheets(count int) []string {
	out := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		out = append(out, sheets.SheetName(strconv.Itoa(i)))
	}
	return out
}

// StartDeadline — /deadline: свободные слоты (домашки без дедлайна) по всем группам.
func StartDeadline(ctx context.Context, env *Env, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !env.Cfg.IsAdmin(msg.From.ID) {
		send(env, chatID, "You are not authorized to use this command. Only admins can set deadlines.")
		return
	}
	ResetAll(chatID)

	sctx, cancel := ctxutil.WithStoreTimeout(ctx)
	options, err := env.Groups.FreeSlots(sctx, GroupSheets(env.Cfg.GroupCount))
	cancel()
	if err != nil {
		failStore(env, chatID, err)
		return
	}
	if len(options) == 0 {
		send(env, chatID, "All deadlines have been set for these groups.")
		return
	}

	dlStates.Set(chatID, &DeadlineState{Step: dlStepSelect})
	reply(env, chatID, "Select the worksheet and homework for which to set the deadline:", menu.Options(options))
}

func HandleDeadline(ctx context.Context, env *Env, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st, ok := dlStates.Get(chatID)
	if !ok {
		return
	}

	switch st.Step {
	case dlStepSelect:
		dlSelect(env, msg, st)
	case dlStepDeadline:
		dlSetDeadline(ctx, env, msg, st)
	case dlStepAnswers:
		dlSetAnswers(ctx, env, msg, st)
	}
}

// dlSelect разбирает выбор вида "G#1 - #5".
func dlSelect(env *Env, msg *tgbotapi.Message, st *DeadlineState) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if !strings.HasPrefix(text, "G#") || !strings.Contains(text, " - ") {
		send(env, chatID, "Please select a valid option (e.g., G#1 - #5).")
		return
	}
	parts := strings.SplitN(text, " - ", 2)
	hwPart := strings.TrimSpace(parts[1])
	if !strings.HasPrefix(hwPart, "#") {
		send(env, chatID, "Invalid format. Please try again (e.g., G#1 - #5).")
		return
	}
	hw, err := strconv.Atoi(hwPart[1:])
	if err != nil {
		send(env, chatID, "Invalid format. Please try again (e.g., G#1 - #5).")
		return
	}

	st.Sheet = strings.TrimSpace(parts[0])
	st.HW = hw
	st.Step = dlStepDeadline
	reply(env, chatID,
		fmt.Sprintf("Please send deadline for %s homework #%d in this format (YYYY.MM.DD, HH:MM):", st.Sheet, hw),
		menu.Back())
}

func dlSetDeadline(ctx context.Context, env *Env, msg *tgbotapi.Message, st *DeadlineState) {
	chatID := msg.Chat.ID
	if fsmutil.IsBackText(msg.Text) {
		dlStates.Delete(chatID)
		reply(env, chatID, "Returning to main menu.", menu.Main())
		return
	}

	value := strings.TrimSpace(msg.Text)
	if _, err := time.ParseInLocation(grading.DeadlineLayout, value, env.Cfg.Location); err != nil {
		send(env, chatID, "Invalid format. Please send deadline in the format (YYYY.MM.DD, HH:MM).")
		return
	}

	sctx, cancel := ctxutil.WithStoreTimeout(ctx)
	err := env.Groups.SetDeadline(sctx, st.Sheet, st.HW, value)
	cancel()
	if err != nil {
		if errors.Is(err, sheets.ErrNotFound) {
			dlStates.Delete(chatID)
			send(env, chatID, fmt.Sprintf("Worksheet %s not found.", st.Sheet))
			return
		}
		failStore(env, chatID, err)
		return
	}

	env.Log.Infow("deadline set", "sheet", st.Sheet, "hw", st.HW, "deadline", value)
	st.Step = dlStepAnswers
	replyMarkdown(env, chatID,
		fmt.Sprintf("Deadline for %s homework #%d has been set to %s.\n\n", st.Sheet, st.HW, value)+
			"Now please send the official *answers* for this homework in the format:\n"+
			"`1. a\n2. b\n3. word`\n(They will be cleaned for similarity check, but stored in the sheet as-is.)",
		menu.Back())
}

func dlSetAnswers(ctx context.Context, env *Env, msg *tgbotapi.Message, st *DeadlineState) {
	chatID := msg.Chat.ID
	if fsmutil.IsBackText(msg.Text) {
		dlStates.Delete(chatID)
		reply(env, chatID, "Returning to main menu.", menu.Main())
		return
	}

	raw := strings.TrimSpace(msg.Text)

	sctx, cancel := ctxutil.WithStoreTimeout(ctx)
	err := env.Groups.SetAnswerKey(sctx, st.Sheet, st.HW, raw)
	cancel()
	if err != nil {
		if errors.Is(err, sheets.ErrNotFound) {
			dlStates.Delete(chatID)
			send(env, chatID, fmt.Sprintf("Worksheet %s not found.", st.Sheet))
			return
		}
		failStore(env, chatID, err)
		return
	}

	env.Log.Infow("answer key set", "sheet", st.Sheet, "hw", st.HW)
	// Эхо: ключ как записан и как его увидит проверка.
	out := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"Official answers for %s homework #%d are saved.\n\n"+
			"<b>Raw teacher answers:</b>\n%s\n\n"+
			"<b>(Parsed for similarity check):</b>\n%s",
		st.Sheet, st.HW, html.EscapeString(raw), html.EscapeString(grading.Normalize(raw))))
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = menu.Main()
	if _, err := tg.Send(env.Bot, out); err != nil {
		metrics.HandlerErrors.Inc()
	}
	dlStates.Delete(chatID)
}

func DeadlineActive(chatID int64) bool {
	_, ok := dlStates.Get(chatID)
	return ok
}
