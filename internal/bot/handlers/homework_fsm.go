package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Spok95/telegram-course-bot/internal/bot/menu"
	"github.com/Spok95/telegram-course-bot/internal/bot/shared/fsmutil"
	"github.com/Spok95/telegram-course-bot/internal/ctxutil"
	"github.com/Spok95/telegram-course-bot/internal/grading"
	"github.com/Spok95/telegram-course-bot/internal/metrics"
	"github.com/Spok95/telegram-course-bot/internal/models"
	"github.com/Spok95/telegram-course-bot/internal/observability"
	"github.com/Spok95/telegram-course-bot/internal/sheets"
	"github.com/Spok95/telegram-course-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	hwStepSelect = iota
	hwStepSubmit
)

type HomeworkState struct {
	Step     int
	UniqueID string
	FullName string
	Sheet    string
	RowNum   int
	Missing  []int
	Selected int
}

var hwStates = fsmutil.NewStore[*HomeworkState]()

// StartHomework — /homework или кнопка Homework: список несданных домашек.
func StartHomework(ctx context.Context, env *Env, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	ResetAll(chatID)

	sctx, cancel := ctxutil.WithStoreTimeout(ctx)
	defer cancel()

	profile, _, err := env.Roster.FindByTelegramID(sctx, msg.From.ID)
	if err != nil {
		if errors.Is(err, sheets.ErrNotFound) {
			send(env, chatID, "Your information was not found. Please register using /start.")
			return
		}
		failStore(env, chatID, err)
		return
	}
	if strings.TrimSpace(profile.GroupNumber) == "" {
		send(env, chatID, "Your group number is missing in our records. Please contact support.")
		return
	}

	sheet := sheets.SheetName(profile.GroupNumber)
	snap, err := env.Groups.Snapshot(sctx, sheet)
	if err != nil {
		if errors.Is(err, sheets.ErrNotFound) {
			send(env, chatID, fmt.Sprintf("Group sheet '%s' not found.", sheet))
			return
		}
		failStore(env, chatID, err)
		return
	}

	rowNum, studentRow, ok := snap.FindStudent(profile.UniqueID)
	if !ok {
		send(env, chatID, "Your homework record was not found in the group sheet.")
		return
	}

	missing := snap.Missing(studentRow)
	if len(missing) == 0 {
		send(env, chatID, "👏 Congratulations! You have submitted all available homeworks.")
		return
	}

	hwStates.Set(chatID, &HomeworkState{
		Step:     hwStepSelect,
		UniqueID: profile.UniqueID,
		FullName: profile.FullName,
		Sheet:    sheet,
		RowNum:   rowNum,
		Missing:  missing,
	})
	reply(env, chatID,
		"Select which homework to submit (shown only if teacher set both deadline & answers, and you haven't submitted yet):",
		menu.HomeworkList(missing))
}

func HandleHomework(ctx context.Context, env *Env, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st, ok := hwStates.Get(chatID)
	if !ok {
		return
	}

	switch st.Step {
	case hwStepSelect:
		hwSelect(env, msg, st)
	case hwStepSubmit:
		hwSubmit(ctx, env, msg, st)
	}
}

func hwSelect(env *Env, msg *tgbotapi.Message, st *HomeworkState) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if fsmutil.IsBackText(text) {
		hwStates.Delete(chatID)
		reply(env, chatID, "Returning to the main menu.", menu.Main())
		return
	}
	if !strings.HasPrefix(text, "#") {
		send(env, chatID, "Please select a valid homework button (e.g., #15).")
		return
	}
	n, err := strconv.Atoi(text[1:])
	if err != nil || n < 1 || n > models.MaxHomeworks {
		send(env, chatID, "Invalid homework number.")
		return
	}

	st.Selected = n
	st.Step = hwStepSubmit
	instructions := fmt.Sprintf(
		"You selected homework #%d.\n\n"+
			"Please send your homework in the following format:\n"+
			"1. a\n2. b\n3. c\n...\n\n"+
			"After submitting:\n"+
			"• We'll compare it to the teacher's official answers.\n"+
			"• If at least 30%% overlap, it's considered correct, otherwise you'll be asked to re-submit.\n\n"+
			"Points:\n"+
			"• 15 points if on/before deadline.\n"+
			"• 10 points if late.\n"+
			"If no deadline is set, full mark (15).", n)
	reply(env, chatID, instructions, menu.BackOrMenu())
}

func hwSubmit(ctx context.Context, env *Env, msg *tgbotapi.Message, st *HomeworkState) {
	chatID := msg.Chat.ID

	if fsmutil.IsBackText(msg.Text) {
		// Назад — заново к списку несданных (список мог устареть).
		StartHomework(ctx, env, msg)
		return
	}
	if fsmutil.IsMenuText(msg.Text) {
		hwStates.Delete(chatID)
		reply(env, chatID, "Returning to main menu.", menu.Main())
		return
	}

	sctx, cancel := ctxutil.WithStoreTimeout(ctx)
	defer cancel()

	// Свежий снапшот: дедлайн и ключ берём одним чтением на момент сдачи.
	snap, err := env.Groups.Snapshot(sctx, st.Sheet)
	if err != nil {
		if errors.Is(err, sheets.ErrNotFound) {
			hwStates.Delete(chatID)
			send(env, chatID, fmt.Sprintf("Group sheet '%s' not found.", st.Sheet))
			return
		}
		failStore(env, chatID, err)
		return
	}
	def := snap.Homework(st.Selected)

	grade, evalErr := grading.Evaluate(msg.Text, def.AnswerKey, def.Deadline, Now(), env.Cfg.Location)
	if evalErr != nil {
		// Нечитаемый дедлайн: оценка уже посчитана без него, но это аномалия листа.
		env.Log.Warnw("deadline unparsable", "sheet", st.Sheet, "hw", st.Selected, "err", evalErr)
		observability.CaptureErr(evalErr)
	}

	if !grade.Accepted {
		metrics.Submissions.WithLabelValues("rejected").Inc()
		reply(env, chatID,
			"Your answers do not match enough of the teacher's answers. More than 70% of your answer is wrong.\n"+
				"Please re-send your homework in the required format:\n1. a\n2. b\n3. c\n...",
			menu.MenuOnly())
		return
	}

	if err := env.Groups.WriteScore(sctx, st.Sheet, st.RowNum, st.Selected, grade.Score); err != nil {
		if errors.Is(err, sheets.ErrNotFound) {
			hwStates.Delete(chatID)
			send(env, chatID, "Homework column not found. Please contact admin.")
			return
		}
		failStore(env, chatID, err)
		return
	}

	metrics.Submissions.WithLabelValues("accepted").Inc()
	if grade.Late {
		metrics.Submissions.WithLabelValues("late").Inc()
	}
	env.Log.Infow("homework graded",
		"unique_id", st.UniqueID, "sheet", st.Sheet, "hw", st.Selected,
		"score", grade.Score, "similarity", grade.Similarity)

	hwForward(env, msg, st, def, grade)
	hwReply(env, chatID, msg.Text, st.Selected, def, grade)
	hwStates.Delete(chatID)
}

// hwForward шлёт сводку в чат проверки. Сбой здесь оценку не откатывает.
func hwForward(env *Env, msg *tgbotapi.Message, st *HomeworkState, def models.HomeworkDefinition, grade grading.Grade) {
	similarity := "N/A"
	if grading.Normalize(def.AnswerKey) != "" {
		similarity = fmt.Sprintf("%.1f%%", grade.Similarity*100)
	}
	text := fmt.Sprintf(
		"📥 *New Homework Submission!*\n\n"+
			"*Student Name:* %s\n"+
			"*Telegram ID:* %d\n"+
			"*Homework Number:* #%d\n"+
			"*Similarity:* %s\n\n"+
			"*Submitted Content:*\n%s",
		st.FullName, msg.From.ID, st.Selected, similarity, msg.Text)
	fwd := tgbotapi.NewMessage(env.Cfg.ReviewChatID, text)
	fwd.ParseMode = tgbotapi.ModeMarkdown
	if _, err := tg.Send(env.Bot, fwd); err != nil {
		env.Log.Errorw("forward submission failed", "chat_id", env.Cfg.ReviewChatID, "err", err)
	}
}

func hwReply(env *Env, chatID int64, submission string, hw int, def models.HomeworkDefinition, grade grading.Grade) {
	report := grading.FormatReport(grading.LineReport(def.AnswerKey, submission))
	var text string
	if strings.TrimSpace(def.AnswerKey) != "" {
		text = fmt.Sprintf(
			"✅ Homework #%d submitted successfully! Your grade is %d points.\n\n"+
				"*Here are the teacher's official answers:*\n%s\n\n"+
				"*Your Line-by-Line Results:*\n%s",
			hw, grade.Score, def.AnswerKey, report)
	} else {
		text = fmt.Sprintf(
			"✅ Homework #%d submitted successfully! Your grade is %d points.\n\n"+
				"(No official answers were set by the teacher.)\n\n"+
				"*Your Line-by-Line Results:*\n%s",
			hw, grade.Score, report)
	}
	replyMarkdown(env, chatID, text, menu.Main())
}

func HomeworkActive(chatID int64) bool {
	_, ok := hwStates.Get(chatID)
	return ok
}
