package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Spok95/telegram-course-bot/internal/config"
	"github.com/Spok95/telegram-course-bot/internal/sheets"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// botRecorder записывает исходящие сообщения вместо похода в Telegram.
type botRecorder struct {
	sent []tgbotapi.Chattable
}

func (b *botRecorder) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)
	return tgbotapi.Message{}, nil
}

func (b *botRecorder) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *botRecorder) texts() []string {
	out := make([]string, 0, len(b.sent))
	for _, c := range b.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

func (b *botRecorder) last() string {
	ts := b.texts()
	if len(ts) == 0 {
		return ""
	}
	return ts[len(ts)-1]
}

// gridFake — табличный фейк под узкий Values API. Ключ "" — лист по
// умолчанию (ростер); групповые листы добавляются по имени.
type gridFake struct {
	sheets map[string][][]string
	fail   error
}

func newGridFake(rosterGrid [][]string) *gridFake {
	return &gridFake{sheets: map[string][][]string{"": rosterGrid}}
}

func splitRange(rng string) (sheet, ref string) {
	if i := strings.Index(rng, "!"); i >= 0 {
		return strings.Trim(rng[:i], "'"), rng[i+1:]
	}
	return "", rng
}

func (f *gridFake) Get(_ context.Context, _, rng string) ([][]string, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	sheet, ref := splitRange(rng)
	grid, ok := f.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("%w: sheet %q", sheets.ErrNotFound, sheet)
	}
	// Однострочные диапазоны вида A3:AZ3 режем до нужной строки.
	if i := strings.Index(ref, ":"); i >= 0 {
		fromRow := rowOf(ref[:i])
		toRow := rowOf(ref[i+1:])
		if fromRow > 0 && toRow >= fromRow {
			if fromRow > len(grid) {
				return nil, nil
			}
			end := toRow
			if end > len(grid) {
				end = len(grid)
			}
			return grid[fromRow-1 : end], nil
		}
	}
	return grid, nil
}

func rowOf(cell string) int {
	i := 0
	for i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z' {
		i++
	}
	n, err := strconv.Atoi(cell[i:])
	if err != nil {
		return 0
	}
	return n
}

func (f *gridFake) Append(_ context.Context, _, rng string, values [][]any) error {
	if f.fail != nil {
		return f.fail
	}
	sheet, _ := splitRange(rng)
	for _, row := range values {
		r := make([]string, len(row))
		for i, v := range row {
			r[i] = fmt.Sprint(v)
		}
		f.sheets[sheet] = append(f.sheets[sheet], r)
	}
	return nil
}

func (f *gridFake) Update(_ context.Context, _, rng string, values [][]any) error {
	if f.fail != nil {
		return f.fail
	}
	sheet, ref := splitRange(rng)
	grid, ok := f.sheets[sheet]
	if !ok {
		return fmt.Errorf("%w: sheet %q", sheets.ErrNotFound, sheet)
	}
	row, col, err := parseCell(ref)
	if err != nil {
		return err
	}
	for len(grid) < row {
		grid = append(grid, nil)
	}
	for len(grid[row-1]) < col {
		grid[row-1] = append(grid[row-1], "")
	}
	if len(values) > 0 && len(values[0]) > 0 {
		grid[row-1][col-1] = fmt.Sprint(values[0][0])
	}
	f.sheets[sheet] = grid
	return nil
}

func parseCell(ref string) (row, col int, err error) {
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	row, err = strconv.Atoi(ref[i:])
	return row, col, err
}

var rosterHeader = []string{
	sheets.ColFullName, sheets.ColPhone, sheets.ColAdditionalPhone, sheets.ColUsername,
	sheets.ColDateOfBirth, sheets.ColAgeCategory, sheets.ColRegion, sheets.ColStudyMode,
	sheets.ColHWFrequency, sheets.ColReferralSource, sheets.ColUniqueID, sheets.ColTelegramID,
	sheets.ColRegisteredAt, sheets.ColGroupNumber,
}

func newTestEnv(rosterGrid [][]string) (*Env, *botRecorder, *gridFake) {
	rec := &botRecorder{}
	fake := newGridFake(rosterGrid)
	cfg := &config.Config{
		AdminIDs:     []int64{900},
		ReviewChatID: 500,
		IDPrefix:     "V3",
		GroupCount:   4,
		Location:     time.UTC,
	}
	env := &Env{
		Bot:    rec,
		Roster: sheets.NewRoster(fake, "roster", "V3"),
		Groups: sheets.NewGroups(fake, "scores"),
		Cfg:    cfg,
		Log:    zap.NewNop().Sugar(),
	}
	return env, rec, fake
}

func textMsg(chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: chatID, UserName: "student"},
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: text,
	}
}

func contactMsg(chatID int64, phone string) *tgbotapi.Message {
	m := textMsg(chatID, "")
	m.Contact = &tgbotapi.Contact{PhoneNumber: phone}
	return m
}
