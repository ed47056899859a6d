package models

import "strings"

// MaxHomeworks — количество колонок домашек в групповом листе.
const MaxHomeworks = 30

// HomeworkDefinition — дедлайн и эталонные ответы одной домашки.
// Оба значения читаются из одного снапшота листа (см. sheets.GroupSnapshot).
type HomeworkDefinition struct {
	Number    int
	Deadline  string // сырое значение, формат "2006.01.02, 15:04"
	AnswerKey string
}

// Open — домашка доступна к сдаче, только когда учитель задал и дедлайн, и ответы.
func (h HomeworkDefinition) Open() bool {
	return strings.TrimSpace(h.Deadline) != "" && strings.TrimSpace(h.AnswerKey) != ""
}
