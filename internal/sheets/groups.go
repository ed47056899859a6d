package sheets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Spok95/telegram-course-bot/internal/models"
)

// Раскладка группового листа G#<n>: строка 3 — заголовки домашек "1".."30",
// строка 4 — дедлайны, строка 5 — эталонные ответы, студенты со строки 6,
// Unique ID в колонке 1. Колонки 1–4 зарезервированы, поэтому домашка n
// живёт в колонке 4+n.
const (
	headerRow    = 3
	deadlineRow  = 4
	answerRow    = 5
	firstDataRow = 6
	reservedCols = 4
)

type Groups struct {
	api           API
	spreadsheetID string
}

func NewGroups(api API, spreadsheetID string) *Groups {
	return &Groups{api: api, spreadsheetID: spreadsheetID}
}

func SheetName(groupNumber string) string {
	return "G#" + strings.TrimSpace(groupNumber)
}

// GroupSnapshot — весь групповой лист, прочитанный одним запросом.
// Дедлайн и ответы одной домашки всегда берутся из одного среза: студент не
// может отградироваться по ключу, который админ записал наполовину между
// двумя независимыми чтениями.
type GroupSnapshot struct {
	Sheet     string
	headers   []string
	deadlines []string
	answers   []string
	rows      [][]string
}

func (g *Groups) Snapshot(ctx context.Context, sheet string) (*GroupSnapshot, error) {
	data, err := g.api.Get(ctx, g.spreadsheetID, "'"+sheet+"'!A1:AZ")
	if err != nil {
		return nil, err
	}
	if len(data) < answerRow {
		return nil, fmt.Errorf("%w: sheet %s has no homework block", ErrNotFound, sheet)
	}
	snap := &GroupSnapshot{
		Sheet:     sheet,
		headers:   data[headerRow-1],
		deadlines: data[deadlineRow-1],
		answers:   data[answerRow-1],
	}
	if len(data) > firstDataRow-1 {
		snap.rows = data[firstDataRow-1:]
	}
	return snap, nil
}

// Students — строки студентов как лежат в листе (экспорт, рассылки напоминаний).
func (s *GroupSnapshot) Students() [][]string {
	return s.rows
}

// FindStudent ищет строку студента по Unique ID; возвращает номер строки листа.
func (s *GroupSnapshot) FindStudent(uniqueID string) (int, []string, bool) {
	for i, row := range s.rows {
		if len(row) > 0 && strings.TrimSpace(row[0]) == uniqueID {
			return firstDataRow + i, row, true
		}
	}
	return 0, nil, false
}

// Homework — дедлайн и ключ домашки n из этого снапшота.
func (s *GroupSnapshot) Homework(n int) models.HomeworkDefinition {
	col := reservedCols + n - 1 // 0-based
	def := models.HomeworkDefinition{Number: n}
	if col < len(s.deadlines) {
		def.Deadline = strings.TrimSpace(s.deadlines[col])
	}
	if col < len(s.answers) {
		def.AnswerKey = s.answers[col]
	}
	return def
}

// ScoreColumn — 0-based индекс колонки домашки по заголовку строки 3.
func (s *GroupSnapshot) ScoreColumn(n int) (int, error) {
	want := strconv.Itoa(n)
	for i, h := range s.headers {
		if strings.TrimSpace(h) == want {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: homework column %d in %s", ErrNotFound, n, s.Sheet)
}

// Missing — номера открытых домашек (есть и дедлайн, и ключ), по которым у
// студента пусто или "0".
func (s *GroupSnapshot) Missing(studentRow []string) []int {
	var out []int
	for n := 1; n <= models.MaxHomeworks; n++ {
		col, err := s.ScoreColumn(n)
		if err != nil {
			continue
		}
		if !s.openAt(col) {
			continue
		}
		cell := ""
		if col < len(studentRow) {
			cell = strings.TrimSpace(studentRow[col])
		}
		if cell == "" || cell == "0" {
			out = append(out, n)
		}
	}
	return out
}

func (s *GroupSnapshot) openAt(col int) bool {
	d, a := "", ""
	if col < len(s.deadlines) {
		d = strings.TrimSpace(s.deadlines[col])
	}
	if col < len(s.answers) {
		a = strings.TrimSpace(s.answers[col])
	}
	return d != "" && a != ""
}

// WriteScore пишет балл в ячейку студента. Колонка резолвится по свежим
// заголовкам, а не по снапшоту: раскладку могли поменять, пока студент писал.
func (g *Groups) WriteScore(ctx context.Context, sheet string, rowNum, hw, score int) error {
	rng := fmt.Sprintf("'%s'!A%d:AZ%d", sheet, headerRow, headerRow)
	data, err := g.api.Get(ctx, g.spreadsheetID, rng)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: header row in %s", ErrNotFound, sheet)
	}
	want := strconv.Itoa(hw)
	for i, h := range data[0] {
		if strings.TrimSpace(h) == want {
			cell := fmt.Sprintf("'%s'!%s", sheet, cellRef(rowNum, i+1))
			return g.api.Update(ctx, g.spreadsheetID, cell, [][]any{{strconv.Itoa(score)}})
		}
	}
	return fmt.Errorf("%w: homework column %d in %s", ErrNotFound, hw, sheet)
}

func (g *Groups) SetDeadline(ctx context.Context, sheet string, hw int, value string) error {
	cell := fmt.Sprintf("'%s'!%s", sheet, cellRef(deadlineRow, reservedCols+hw))
	return g.api.Update(ctx, g.spreadsheetID, cell, [][]any{{value}})
}

func (g *Groups) SetAnswerKey(ctx context.Context, sheet string, hw int, text string) error {
	cell := fmt.Sprintf("'%s'!%s", sheet, cellRef(answerRow, reservedCols+hw))
	return g.api.Update(ctx, g.spreadsheetID, cell, [][]any{{text}})
}

// FreeSlots — варианты "G#1 - #5" для домашек без дедлайна по всем группам.
// Отсутствующие листы молча пропускаем.
func (g *Groups) FreeSlots(ctx context.Context, sheets []string) ([]string, error) {
	var out []string
	for _, sheet := range sheets {
		rng := fmt.Sprintf("'%s'!A%d:AZ%d", sheet, deadlineRow, deadlineRow)
		data, err := g.api.Get(ctx, g.spreadsheetID, rng)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		var row []string
		if len(data) > 0 {
			row = data[0]
		}
		for hw := 1; hw <= models.MaxHomeworks; hw++ {
			col := reservedCols + hw - 1
			if col >= len(row) || strings.TrimSpace(row[col]) == "" {
				out = append(out, fmt.Sprintf("%s - #%d", sheet, hw))
			}
		}
	}
	return out, nil
}

// TopEntry — строка турнирной таблицы (лист-агрегат в том же файле, что и группы).
type TopEntry struct {
	Group   string
	Score   string
	Missing bool
}

// TopList читает лист-агрегат: строка 2 — заголовок, записи со строки 3,
// колонка B — группа, C — балл. Битые формулы (#REF!) помечаем, а не роняем.
func (g *Groups) TopList(ctx context.Context) ([]TopEntry, error) {
	data, err := g.api.Get(ctx, g.spreadsheetID, "A1:C")
	if err != nil {
		return nil, err
	}
	if len(data) < 3 {
		return nil, nil
	}
	out := make([]TopEntry, 0, len(data)-2)
	for _, row := range data[2:] {
		e := TopEntry{Group: "Not Found", Score: "❌ Data Missing"}
		if len(row) > 1 && row[1] != "" && row[1] != "#REF!" {
			e.Group = row[1]
		}
		if len(row) > 2 && row[2] != "" && row[2] != "#REF!" {
			e.Score = row[2]
		}
		e.Missing = e.Group == "Not Found" || e.Score == "❌ Data Missing"
		out = append(out, e)
	}
	return out, nil
}
