package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spok95/telegram-course-bot/internal/app"
	"github.com/Spok95/telegram-course-bot/internal/bot/handlers"
	"github.com/Spok95/telegram-course-bot/internal/config"
	"github.com/Spok95/telegram-course-bot/internal/jobs"
	"github.com/Spok95/telegram-course-bot/internal/logging"
	"github.com/Spok95/telegram-course-bot/internal/observability"
	"github.com/Spok95/telegram-course-bot/internal/sheets"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Загрузка переменных окружения
	if err := godotenv.Load(); err != nil {
		log.Println("Не удалось загрузить .env файл, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("конфигурация: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("логгер: %v", err)
	}
	defer lg.Closer()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, "coursebot")
	if err != nil {
		lg.Sugar.Warnw("sentry init failed", "err", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Табличное хранилище
	store, err := sheets.New(ctx, cfg.GoogleCredentials)
	if err != nil {
		lg.Sugar.Fatalw("sheets client", "err", err)
	}
	roster := sheets.NewRoster(store, cfg.RosterSpreadsheetID, cfg.IDPrefix)
	groups := sheets.NewGroups(store, cfg.ScoresSpreadsheetID)

	// Telegram
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		lg.Sugar.Fatalw("bot start", "err", err)
	}
	lg.Sugar.Infow("bot started", "username", bot.Self.UserName, "env", cfg.Env)

	env := &handlers.Env{
		Bot:    bot,
		Roster: roster,
		Groups: groups,
		Cfg:    cfg,
		Log:    lg.Sugar,
	}
	dispatcher := app.NewDispatcher(env)

	app.StartHTTP(ctx, cfg.HTTPAddr, roster)

	runner := jobs.New(ctx)
	reminders := &jobs.DeadlineReminders{
		Bot:    bot,
		Roster: roster,
		Groups: groups,
		Sheets: handlers.GroupSheets(cfg.GroupCount),
		Loc:    cfg.Location,
		Log:    lg.Sugar,
	}
	runner.Every(time.Hour, "deadline_reminders", reminders.Run)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			lg.Sugar.Infow("shutting down")
			bot.StopReceivingUpdates()
			// даём летящим обработчикам дописать ответы
			time.Sleep(2 * time.Second)
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			go dispatcher.Dispatch(ctx, upd)
		}
	}
}
