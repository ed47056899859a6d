package handlers

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const dobLayout = "02/01/2006"

// ValidateFullName — минимум два слова, в словах только буквы и апостроф.
func ValidateFullName(s string) bool {
	parts := strings.Fields(s)
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		stripped := strings.ReplaceAll(p, "'", "")
		if stripped == "" {
			return false
		}
		for _, r := range stripped {
			if !unicode.IsLetter(r) {
				return false
			}
		}
	}
	return true
}

// ValidateDOB парсит DD/MM/YYYY (год не раньше 1950, дата не в будущем)
// и возвращает возрастную корзину десятилетием.
func ValidateDOB(s string, now time.Time) (string, error) {
	dob, err := time.Parse(dobLayout, strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	if dob.Year() < 1950 || dob.After(now) {
		return "", fmt.Errorf("birth date %q out of range", s)
	}
	return AgeCategory(dob.Year(), now.Year()), nil
}

func AgeCategory(birthYear, currentYear int) string {
	age := currentYear - birthYear
	decade := age / 10 * 10
	return fmt.Sprintf("%d-%d", decade, decade+9)
}

// ValidatePhoneText — телефон, введённый текстом в /edit: только цифры, ≥10.
func ValidatePhoneText(s string) bool {
	if len(s) < 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
