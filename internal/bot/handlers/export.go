package handlers

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/Spok95/telegram-course-bot/internal/ctxutil"
	"github.com/Spok95/telegram-course-bot/internal/export"
	"github.com/Spok95/telegram-course-bot/internal/metrics"
	"github.com/Spok95/telegram-course-bot/internal/models"
	"github.com/Spok95/telegram-course-bot/internal/sheets"
	"github.com/Spok95/telegram-course-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandleExport — /export (только для админов): xlsx с ростером и баллами групп.
func HandleExport(ctx context.Context, env *Env, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !env.Cfg.IsAdmin(msg.From.ID) {
		send(env, chatID, "You are not authorized to use this command.")
		return
	}

	sctx, cancel := ctxutil.WithStoreTimeout(ctx)
	defer cancel()

	profiles, err := env.Roster.All(sctx)
	if err != nil {
		failStore(env, chatID, err)
		return
	}

	specs := []export.SheetSpec{rosterSheet(profiles)}
	for _, sheet := range GroupSheets(env.Cfg.GroupCount) {
		snap, err := env.Groups.Snapshot(sctx, sheet)
		if err != nil {
			if errors.Is(err, sheets.ErrNotFound) {
				continue
			}
			failStore(env, chatID, err)
			return
		}
		specs = append(specs, groupSheet(snap))
	}

	wb, err := export.NewWorkbook(specs)
	if err != nil {
		env.Log.Errorw("export build failed", "err", err)
		send(env, chatID, "Failed to build the export file. Please try again later.")
		return
	}
	path, err := wb.SaveTemp()
	if err != nil {
		env.Log.Errorw("export save failed", "err", err)
		send(env, chatID, "Failed to build the export file. Please try again later.")
		return
	}
	defer os.Remove(path)

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = "Roster and group scores export"
	if _, err := tg.Send(env.Bot, doc); err != nil {
		metrics.HandlerErrors.Inc()
		env.Log.Errorw("export send failed", "err", err)
	}
}

func rosterSheet(profiles []models.StudentProfile) export.SheetSpec {
	spec := export.SheetSpec{
		Title: "Roster",
		Header: []string{
			sheets.ColUniqueID, sheets.ColFullName, sheets.ColPhone, sheets.ColAdditionalPhone,
			sheets.ColUsername, sheets.ColDateOfBirth, sheets.ColAgeCategory, sheets.ColRegion,
			sheets.ColStudyMode, sheets.ColHWFrequency, sheets.ColReferralSource,
			sheets.ColTelegramID, sheets.ColRegisteredAt, sheets.ColGroupNumber,
		},
	}
	for i := range profiles {
		p := &profiles[i]
		spec.Rows = append(spec.Rows, []string{
			p.UniqueID, p.FullName, p.Phone, p.AdditionalPhone,
			p.Username, p.DateOfBirth, p.AgeCategory, p.Region,
			string(p.StudyMode), p.HWFrequency, p.ReferralSource,
			strconv.FormatInt(p.TelegramID, 10), p.RegisteredAt, p.GroupNumber,
		})
	}
	return spec
}

func groupSheet(snap *sheets.GroupSnapshot) export.SheetSpec {
	spec := export.SheetSpec{Title: snap.Sheet, Header: []string{sheets.ColUniqueID}}
	for day := 1; day <= models.MaxHomeworks; day++ {
		spec.Header = append(spec.Header, strconv.Itoa(day))
	}
	for _, row := range snap.Students() {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		out := []string{strings.TrimSpace(row[0])}
		for day := 1; day <= models.MaxHomeworks; day++ {
			score := ""
			if col, err := snap.ScoreColumn(day); err == nil && col < len(row) {
				score = strings.TrimSpace(row[col])
			}
			out = append(out, score)
		}
		spec.Rows = append(spec.Rows, out)
	}
	return spec
}
