package grading

import (
	"regexp"
	"strings"
)

var (
	nonLetters = regexp.MustCompile(`[^a-zA-Z\s]+`)
	linePrefix = regexp.MustCompile(`^\d+[.\-)]?\s*`)
)

// Normalize приводит свободный текст к канонической форме для сравнения:
// выбрасывает всё, кроме букв и пробельных символов, переводит в нижний
// регистр, построчно срезает нумерацию ("1.", "2)", "3-"), выкидывает
// опустевшие строки и склеивает остаток одиночными пробелами.
// Функция чистая и идемпотентная.
func Normalize(raw string) string {
	lower := strings.ToLower(nonLetters.ReplaceAllString(raw, ""))

	var cleaned []string
	for _, line := range strings.Split(lower, "\n") {
		line = linePrefix.ReplaceAllString(strings.TrimSpace(line), "")
		if fields := strings.Fields(line); len(fields) > 0 {
			cleaned = append(cleaned, strings.Join(fields, " "))
		}
	}
	return strings.Join(cleaned, " ")
}

// Similarity — доля токенов эталона, встречающихся у студента.
// Порядок и повторы не учитываются. Пустой эталон даёт 0.0, а не NaN.
func Similarity(candidate, reference string) float64 {
	refTokens := tokenSet(reference)
	if len(refTokens) == 0 {
		return 0.0
	}
	candTokens := tokenSet(candidate)
	overlap := 0
	for t := range refTokens {
		if _, ok := candTokens[t]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(len(refTokens))
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
