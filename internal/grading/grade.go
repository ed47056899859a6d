package grading

import (
	"fmt"
	"strings"
	"time"
)

const (
	FullScore       = 15
	LateScore       = 10
	AcceptThreshold = 0.30

	// DeadlineLayout — формат дедлайна в строке 4 группового листа.
	DeadlineLayout = "2006.01.02, 15:04"
)

type Grade struct {
	Accepted   bool
	Similarity float64
	Score      int
	Late       bool
}

// Evaluate прогоняет сдачу через порог похожести и дедлайн.
// Пустой эталон означает безусловный приём. Сдача ровно в момент дедлайна
// опозданием не считается. Возвращённая ошибка — только сигнал об аномалии
// (нечитаемый дедлайн); оценка при этом уже посчитана как будто дедлайна нет.
func Evaluate(submissionRaw, answerKeyRaw, deadline string, now time.Time, loc *time.Location) (Grade, error) {
	g := Grade{Score: FullScore}

	if key := Normalize(answerKeyRaw); key != "" {
		g.Similarity = Similarity(Normalize(submissionRaw), key)
		if g.Similarity < AcceptThreshold {
			return g, nil
		}
	}
	g.Accepted = true

	deadline = strings.TrimSpace(deadline)
	if deadline == "" {
		return g, nil
	}
	dl, err := time.ParseInLocation(DeadlineLayout, deadline, loc)
	if err != nil {
		return g, fmt.Errorf("parse deadline %q: %w", deadline, err)
	}
	if now.In(loc).After(dl) {
		g.Score = LateScore
		g.Late = true
	}
	return g, nil
}
