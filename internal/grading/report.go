package grading

import (
	"fmt"
	"strings"
)

type ReportLine struct {
	Number  int
	Text    string // строка студента как есть
	Correct bool
}

// LineReport сравнивает сырые тексты построчно; короткая сторона добивается
// пустыми строками до длинной. Строка засчитывается, только если
// нормализованные формы совпали и непустые. Отчёт строже общего порога:
// строка может быть неверной даже у принятой сдачи.
func LineReport(referenceRaw, candidateRaw string) []ReportLine {
	ref := splitLines(referenceRaw)
	cand := splitLines(candidateRaw)

	n := len(ref)
	if len(cand) > n {
		n = len(cand)
	}
	out := make([]ReportLine, 0, n)
	for i := 0; i < n; i++ {
		var r, c string
		if i < len(ref) {
			r = ref[i]
		}
		if i < len(cand) {
			c = cand[i]
		}
		rn, cn := Normalize(r), Normalize(c)
		out = append(out, ReportLine{
			Number:  i + 1,
			Text:    strings.TrimSpace(c),
			Correct: rn == cn && rn != "",
		})
	}
	return out
}

// FormatReport — чеклист вида "1. cat --> ✅".
func FormatReport(lines []ReportLine) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		mark := "❌"
		if l.Correct {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%d. %s --> %s", l.Number, l.Text, mark)
	}
	return b.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
