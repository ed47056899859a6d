package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Spok95/telegram-course-bot/internal/ctxutil"
	"github.com/Spok95/telegram-course-bot/internal/metrics"
	"github.com/Spok95/telegram-course-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const broadcastUsage = "Invalid format. Use: /message [Caption or Text] {ALL | IDs}"

// Broadcast — разобранная команда /message.
type Broadcast struct {
	Text   string
	All    bool
	IDs    []string // Unique ID получателей, когда не All
	Media  string   // photo|video|audio|document, пусто для текста
	FileID string
}

// ParseBroadcast разбирает "/message текст {ALL | V3001 V3002}".
// Текст команды может жить и в подписи к медиа.
func ParseBroadcast(content string) (*Broadcast, error) {
	lb := strings.Index(content, "{")
	rb := strings.Index(content, "}")
	if lb < 0 || rb < lb {
		return nil, fmt.Errorf("missing target block")
	}
	text := strings.TrimSpace(strings.Replace(content[:lb], "/message", "", 1))
	targets := strings.TrimSpace(content[lb+1 : rb])

	b := &Broadcast{Text: text}
	if strings.EqualFold(targets, "all") {
		b.All = true
		return b, nil
	}
	b.IDs = strings.Fields(targets)
	if len(b.IDs) == 0 {
		return nil, fmt.Errorf("empty target list")
	}
	return b, nil
}

// HandleBroadcast — /message (только для админов): рассылка всем или по Unique ID.
func HandleBroadcast(ctx context.Context, env *Env, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !env.Cfg.IsAdmin(msg.From.ID) {
		send(env, chatID, "You are not authorized to use this command.")
		return
	}

	content := msg.Text
	if msg.Caption != "" {
		content = msg.Caption
	}
	b, err := ParseBroadcast(content)
	if err != nil {
		send(env, chatID, broadcastUsage)
		return
	}
	attachMedia(b, msg)

	sctx, cancel := ctxutil.WithStoreTimeout(ctx)
	profiles, err := env.Roster.All(sctx)
	cancel()
	if err != nil {
		failStore(env, chatID, err)
		return
	}

	if b.All {
		sent, failed := 0, 0
		for i := range profiles {
			if deliver(env, profiles[i].TelegramID, b) {
				sent++
			} else {
				failed++
			}
		}
		env.Log.Infow("broadcast finished", "targets", "all", "sent", sent, "failed", failed)
		send(env, chatID, "Message sent to all registered users.")
		return
	}

	byUID := make(map[string]int64, len(profiles))
	for i := range profiles {
		byUID[profiles[i].UniqueID] = profiles[i].TelegramID
	}
	sent, failed := 0, 0
	for _, uid := range b.IDs {
		tid, ok := byUID[uid]
		if !ok {
			send(env, chatID, fmt.Sprintf("Unique ID %s not found.", uid))
			continue
		}
		if deliver(env, tid, b) {
			sent++
		} else {
			failed++
		}
	}
	env.Log.Infow("broadcast finished", "targets", len(b.IDs), "sent", sent, "failed", failed)
	send(env, chatID, "Message sent to specified users.")
}

func attachMedia(b *Broadcast, msg *tgbotapi.Message) {
	switch {
	case len(msg.Photo) > 0:
		b.Media = "photo"
		b.FileID = msg.Photo[len(msg.Photo)-1].FileID
	case msg.Video != nil:
		b.Media = "video"
		b.FileID = msg.Video.FileID
	case msg.Audio != nil:
		b.Media = "audio"
		b.FileID = msg.Audio.FileID
	case msg.Document != nil:
		b.Media = "document"
		b.FileID = msg.Document.FileID
	}
}

// deliver шлёт одному получателю; сбой логируем и идём дальше.
func deliver(env *Env, chatID int64, b *Broadcast) bool {
	var c tgbotapi.Chattable
	switch b.Media {
	case "photo":
		m := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(b.FileID))
		m.Caption = b.Text
		c = m
	case "video":
		m := tgbotapi.NewVideo(chatID, tgbotapi.FileID(b.FileID))
		m.Caption = b.Text
		c = m
	case "audio":
		m := tgbotapi.NewAudio(chatID, tgbotapi.FileID(b.FileID))
		m.Caption = b.Text
		c = m
	case "document":
		m := tgbotapi.NewDocument(chatID, tgbotapi.FileID(b.FileID))
		m.Caption = b.Text
		c = m
	default:
		c = tgbotapi.NewMessage(chatID, b.Text)
	}
	if _, err := tg.Send(env.Bot, c); err != nil {
		metrics.BroadcastFailed.Inc()
		env.Log.Errorw("broadcast delivery failed", "chat_id", chatID, "err", err)
		return false
	}
	metrics.BroadcastSent.Inc()
	return true
}
