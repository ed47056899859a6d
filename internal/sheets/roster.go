package sheets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Spok95/telegram-course-bot/internal/models"
)

// Имена колонок ростера. Заголовки резолвятся заново при каждом обращении:
// админы переставляют и добавляют колонки, локальный кэш раскладки опасен.
const (
	ColFullName        = "Full Name"
	ColPhone           = "Telephone Number"
	ColAdditionalPhone = "Additional Telephone Number"
	ColUsername        = "Username"
	ColDateOfBirth     = "Date of Birth"
	ColAgeCategory     = "Age Category"
	ColRegion          = "Region"
	ColStudyMode       = "Study Mode"
	ColHWFrequency     = "HW Frequency"
	ColReferralSource  = "Referral Source"
	ColUniqueID        = "Unique ID"
	ColTelegramID      = "Telegram ID"
	ColRegisteredAt    = "Registration Time"
	ColGroupNumber     = "GROUP NUMBER"
)

var requiredColumns = []string{
	ColFullName, ColPhone, ColAdditionalPhone, ColUsername, ColDateOfBirth,
	ColAgeCategory, ColRegion, ColStudyMode, ColHWFrequency, ColReferralSource,
	ColUniqueID, ColTelegramID,
}

// Roster — адаптер листа регистраций. Строка 1 — заголовки, дальше по
// студенту на строку.
type Roster struct {
	api           API
	spreadsheetID string
	prefix        string

	// Выдача Unique ID — это scan+increment по колонке; без сериализации две
	// одновременные регистрации прочитали бы один "последний" номер.
	// lastAlloc прикрывает окно между выдачей номера и append строки.
	allocMu   sync.Mutex
	lastAlloc int
}

func NewRoster(api API, spreadsheetID, idPrefix string) *Roster {
	return &Roster{api: api, spreadsheetID: spreadsheetID, prefix: idPrefix}
}

// Schema — срез раскладки заголовков: имя колонки -> индекс (0-based).
type Schema struct {
	cols map[string]int
	max  int
}

func (s *Schema) Col(name string) (int, bool) {
	i, ok := s.cols[name]
	return i, ok
}

func (s *Schema) cell(row []string, name string) string {
	i, ok := s.cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func newSchema(header []string) (*Schema, error) {
	s := &Schema{cols: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, dup := s.cols[h]; !dup {
			s.cols[h] = i
		}
		if i > s.max {
			s.max = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := s.cols[col]; !ok {
			return nil, &SchemaError{Sheet: "roster", Column: col}
		}
	}
	return s, nil
}

// load забирает весь лист одним запросом и валидирует раскладку.
func (r *Roster) load(ctx context.Context) (*Schema, [][]string, error) {
	data, err := r.api.Get(ctx, r.spreadsheetID, "A1:AZ")
	if err != nil {
		return nil, nil, err
	}
	if len(data) == 0 {
		return nil, nil, &SchemaError{Sheet: "roster", Column: ColFullName}
	}
	schema, err := newSchema(data[0])
	if err != nil {
		return nil, nil, err
	}
	return schema, data[1:], nil
}

// Ping — дешёвая проверка доступности хранилища для /healthz.
func (r *Roster) Ping(ctx context.Context) error {
	_, err := r.api.Get(ctx, r.spreadsheetID, "A1:AZ1")
	return err
}

func (r *Roster) IsRegistered(ctx context.Context, telegramID int64) (bool, error) {
	_, _, err := r.FindByTelegramID(ctx, telegramID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

// FindByTelegramID возвращает профиль и номер строки листа (1-based).
func (r *Roster) FindByTelegramID(ctx context.Context, telegramID int64) (*models.StudentProfile, int, error) {
	schema, rows, err := r.load(ctx)
	if err != nil {
		return nil, 0, err
	}
	want := strconv.FormatInt(telegramID, 10)
	for i, row := range rows {
		if schema.cell(row, ColTelegramID) == want {
			p := profileFromRow(schema, row)
			return &p, i + 2, nil
		}
	}
	return nil, 0, fmt.Errorf("%w: telegram id %d", ErrNotFound, telegramID)
}

// All — все профили (рассылки, экспорт).
func (r *Roster) All(ctx context.Context) ([]models.StudentProfile, error) {
	schema, rows, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.StudentProfile, 0, len(rows))
	for _, row := range rows {
		if schema.cell(row, ColTelegramID) == "" {
			continue
		}
		out = append(out, profileFromRow(schema, row))
	}
	return out, nil
}

// Append дописывает профиль новой строкой, раскладывая значения по текущим
// позициям заголовков.
func (r *Roster) Append(ctx context.Context, p *models.StudentProfile) error {
	schema, _, err := r.load(ctx)
	if err != nil {
		return err
	}
	row := make([]any, schema.max+1)
	for i := range row {
		row[i] = ""
	}
	set := func(col, val string) {
		if i, ok := schema.Col(col); ok {
			row[i] = val
		}
	}
	set(ColFullName, p.FullName)
	set(ColPhone, p.Phone)
	set(ColAdditionalPhone, p.AdditionalPhone)
	set(ColUsername, p.Username)
	set(ColDateOfBirth, p.DateOfBirth)
	set(ColAgeCategory, p.AgeCategory)
	set(ColRegion, p.Region)
	set(ColStudyMode, string(p.StudyMode))
	set(ColHWFrequency, p.HWFrequency)
	set(ColReferralSource, p.ReferralSource)
	set(ColUniqueID, p.UniqueID)
	set(ColTelegramID, strconv.FormatInt(p.TelegramID, 10))
	set(ColRegisteredAt, p.RegisteredAt)
	return r.api.Append(ctx, r.spreadsheetID, "A1", [][]any{row})
}

// UpdateField обновляет одну ячейку профиля по имени колонки.
func (r *Roster) UpdateField(ctx context.Context, telegramID int64, column, value string) error {
	schema, rows, err := r.load(ctx)
	if err != nil {
		return err
	}
	col, ok := schema.Col(column)
	if !ok {
		return &SchemaError{Sheet: "roster", Column: column}
	}
	want := strconv.FormatInt(telegramID, 10)
	for i, row := range rows {
		if schema.cell(row, ColTelegramID) == want {
			return r.api.Update(ctx, r.spreadsheetID, cellRef(i+2, col+1), [][]any{{value}})
		}
	}
	return fmt.Errorf("%w: telegram id %d", ErrNotFound, telegramID)
}

// AllocateUniqueID сканирует последний выданный номер и выдаёт следующий.
// Колонка без значений после заголовка начинает счёт с 1.
func (r *Roster) AllocateUniqueID(ctx context.Context) (string, error) {
	r.allocMu.Lock()
	defer r.allocMu.Unlock()

	schema, rows, err := r.load(ctx)
	if err != nil {
		return "", err
	}
	last := ""
	for _, row := range rows {
		if v := schema.cell(row, ColUniqueID); v != "" {
			last = v
		}
	}
	n := 1
	if last != "" {
		suffix := strings.TrimPrefix(last, r.prefix)
		prev, err := strconv.Atoi(suffix)
		if err != nil {
			return "", fmt.Errorf("malformed unique id %q: %w", last, err)
		}
		n = prev + 1
	}
	if n <= r.lastAlloc {
		n = r.lastAlloc + 1
	}
	r.lastAlloc = n
	return fmt.Sprintf("%s%03d", r.prefix, n), nil
}

func profileFromRow(schema *Schema, row []string) models.StudentProfile {
	tid, _ := strconv.ParseInt(schema.cell(row, ColTelegramID), 10, 64)
	return models.StudentProfile{
		FullName:        schema.cell(row, ColFullName),
		Phone:           schema.cell(row, ColPhone),
		AdditionalPhone: schema.cell(row, ColAdditionalPhone),
		Username:        schema.cell(row, ColUsername),
		DateOfBirth:     schema.cell(row, ColDateOfBirth),
		AgeCategory:     schema.cell(row, ColAgeCategory),
		Region:          schema.cell(row, ColRegion),
		StudyMode:       models.StudyMode(schema.cell(row, ColStudyMode)),
		HWFrequency:     schema.cell(row, ColHWFrequency),
		ReferralSource:  schema.cell(row, ColReferralSource),
		UniqueID:        schema.cell(row, ColUniqueID),
		TelegramID:      tid,
		RegisteredAt:    schema.cell(row, ColRegisteredAt),
		GroupNumber:     schema.cell(row, ColGroupNumber),
	}
}
