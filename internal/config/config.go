package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BotToken            string
	AdminIDs            []int64
	ReviewChatID        int64 // чат, куда пересылаем принятые домашки
	RosterSpreadsheetID string
	ScoresSpreadsheetID string
	GoogleCredentials   string // путь к JSON сервис-аккаунта
	IDPrefix            string
	GroupCount          int
	Location            *time.Location
	HTTPAddr            string
	LogLevel            string
	Env                 string // dev|prod
	SentryDSN           string

	// Карточка "Contact Admin"
	AdminName     string
	AdminPhone    string
	AdminUsername string
}

func Load() (*Config, error) {
	tz := getenv("TZ", "Asia/Tashkent")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	adminIDs, err := parseIDs(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS: %w", err)
	}

	reviewChatID, err := strconv.ParseInt(mustEnv("REVIEW_CHAT_ID"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("REVIEW_CHAT_ID: %w", err)
	}

	groupCount, err := strconv.Atoi(getenv("GROUP_COUNT", "4"))
	if err != nil || groupCount < 1 {
		return nil, fmt.Errorf("GROUP_COUNT: %v", os.Getenv("GROUP_COUNT"))
	}

	cfg := &Config{
		BotToken:            mustEnv("BOT_TOKEN"),
		AdminIDs:            adminIDs,
		ReviewChatID:        reviewChatID,
		RosterSpreadsheetID: mustEnv("ROSTER_SPREADSHEET_ID"),
		ScoresSpreadsheetID: mustEnv("SCORES_SPREADSHEET_ID"),
		GoogleCredentials:   getenv("GOOGLE_CREDENTIALS", "google.json"),
		IDPrefix:            getenv("STUDENT_ID_PREFIX", "V3"),
		GroupCount:          groupCount,
		Location:            loc,
		HTTPAddr:            getenv("HTTP_ADDR", ":8080"),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		Env:                 getenv("ENV", "dev"),
		SentryDSN:           os.Getenv("SENTRY_DSN"),
		AdminName:           getenv("ADMIN_NAME", "John Doe"),
		AdminPhone:          getenv("ADMIN_PHONE", "+1234567890"),
		AdminUsername:       getenv("ADMIN_USERNAME", "@AdminUsername"),
	}
	return cfg, nil
}

func (c *Config) IsAdmin(id int64) bool {
	for _, a := range c.AdminIDs {
		if a == id {
			return true
		}
	}
	return false
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}
