package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Spok95/telegram-course-bot/internal/grading"
	"github.com/Spok95/telegram-course-bot/internal/models"
	"github.com/Spok95/telegram-course-bot/internal/sheets"
	"github.com/Spok95/telegram-course-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// DeadlineReminders напоминает Active-студентам о несданных домашках,
// дедлайн которых наступает в ближайшие сутки. Повторную отправку по той же
// паре студент/домашка гасим в памяти: после рестарта одно лишнее
// напоминание допустимо.
type DeadlineReminders struct {
	Bot    tg.Client
	Roster *sheets.Roster
	Groups *sheets.Groups
	Sheets []string // групповые листы G#1..G#<n>
	Loc    *time.Location
	Log    *zap.SugaredLogger

	mu   sync.Mutex
	sent map[string]bool // "V3001:17"
}

func (j *DeadlineReminders) Run(ctx context.Context) error {
	profiles, err := j.Roster.All(ctx)
	if err != nil {
		return err
	}
	active := make(map[string]int64) // Unique ID -> chat
	for i := range profiles {
		p := &profiles[i]
		if p.StudyMode == models.StudyActive && p.UniqueID != "" {
			active[p.UniqueID] = p.TelegramID
		}
	}
	if len(active) == 0 {
		return nil
	}

	now := time.Now().In(j.Loc)
	for _, sheet := range j.Sheets {
		snap, err := j.Groups.Snapshot(ctx, sheet)
		if err != nil {
			continue // лист может отсутствовать
		}
		j.remindSheet(snap, active, now)
	}
	return nil
}

func (j *DeadlineReminders) remindSheet(snap *sheets.GroupSnapshot, active map[string]int64, now time.Time) {
	type due struct {
		hw       int
		deadline time.Time
	}
	var dues []due
	for n := 1; n <= models.MaxHomeworks; n++ {
		def := snap.Homework(n)
		if !def.Open() {
			continue
		}
		dl, err := time.ParseInLocation(grading.DeadlineLayout, def.Deadline, j.Loc)
		if err != nil {
			continue
		}
		if dl.After(now) && dl.Sub(now) <= 24*time.Hour {
			dues = append(dues, due{hw: n, deadline: dl})
		}
	}
	if len(dues) == 0 {
		return
	}

	for uid, chatID := range active {
		_, row, ok := snap.FindStudent(uid)
		if !ok {
			continue
		}
		missing := make(map[int]bool)
		for _, n := range snap.Missing(row) {
			missing[n] = true
		}
		for _, d := range dues {
			if !missing[d.hw] || j.alreadySent(uid, d.hw) {
				continue
			}
			text := fmt.Sprintf(
				"⏰ Reminder: homework #%d is due %s. Submit it via /homework to get the full 15 points.",
				d.hw, d.deadline.Format(grading.DeadlineLayout))
			if _, err := tg.Send(j.Bot, tgbotapi.NewMessage(chatID, text)); err != nil {
				j.Log.Errorw("reminder send failed", "unique_id", uid, "hw", d.hw, "err", err)
				continue
			}
			j.markSent(uid, d.hw)
			remindersSent.Inc()
		}
	}
}

func (j *DeadlineReminders) alreadySent(uid string, hw int) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.sent[fmt.Sprintf("%s:%d", uid, hw)]
}

func (j *DeadlineReminders) markSent(uid string, hw int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.sent == nil {
		j.sent = make(map[string]bool)
	}
	j.sent[fmt.Sprintf("%s:%d", uid, hw)] = true
}
