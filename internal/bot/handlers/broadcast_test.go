package handlers

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestParseBroadcast(t *testing.T) {
	t.Run("all", func(t *testing.T) {
		b, err := ParseBroadcast("/message Hello students {ALL}")
		if err != nil {
			t.Fatalf("не ожидали ошибку: %v", err)
		}
		if !b.All || b.Text != "Hello students" {
			t.Fatalf("разбор: %+v", b)
		}
	})

	t.Run("ids", func(t *testing.T) {
		b, err := ParseBroadcast("/message Reminder {V3001 V3002}")
		if err != nil {
			t.Fatalf("не ожидали ошибку: %v", err)
		}
		if b.All || len(b.IDs) != 2 || b.IDs[0] != "V3001" {
			t.Fatalf("разбор: %+v", b)
		}
	})

	t.Run("no_braces", func(t *testing.T) {
		if _, err := ParseBroadcast("/message Hello"); err == nil {
			t.Fatal("ожидали ошибку без блока получателей")
		}
	})

	t.Run("empty_targets", func(t *testing.T) {
		if _, err := ParseBroadcast("/message Hello {}"); err == nil {
			t.Fatal("ожидали ошибку на пустом списке")
		}
	})
}

func broadcastRoster() [][]string {
	return [][]string{
		rosterHeader,
		{"A Student", "+1", "N/A", "a", "01/01/2000", "20-29", "Navoi", "Active",
			"6 times per week", "YouTube Videos", "V3001", "101", "", "1"},
		{"B Student", "+2", "N/A", "b", "01/01/2000", "20-29", "Navoi", "Passive",
			"N/A", "YouTube Videos", "V3002", "102", "", "1"},
	}
}

func sentChatIDs(rec *botRecorder) []int64 {
	var out []int64
	for _, c := range rec.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.ChatID)
		}
	}
	return out
}

func TestBroadcastAll(t *testing.T) {
	env, rec, _ := newTestEnv(broadcastRoster())
	msg := textMsg(900, "/message Hello {ALL}")

	HandleBroadcast(context.Background(), env, msg)

	ids := sentChatIDs(rec)
	var to101, to102 bool
	for _, id := range ids {
		if id == 101 {
			to101 = true
		}
		if id == 102 {
			to102 = true
		}
	}
	if !to101 || !to102 {
		t.Fatalf("не все получатели: %v", ids)
	}
	if !strings.Contains(rec.last(), "sent to all registered users") {
		t.Fatalf("нет подтверждения: %q", rec.last())
	}
}

func TestBroadcastUnknownID(t *testing.T) {
	env, rec, _ := newTestEnv(broadcastRoster())
	HandleBroadcast(context.Background(), env, textMsg(900, "/message Hi {V3001 V9999}"))

	joined := strings.Join(rec.texts(), "\n")
	if !strings.Contains(joined, "Unique ID V9999 not found.") {
		t.Fatalf("о неизвестном ID не сообщили: %q", joined)
	}
	var to101 bool
	for _, id := range sentChatIDs(rec) {
		if id == 101 {
			to101 = true
		}
	}
	if !to101 {
		t.Fatal("известный получатель не получил сообщение")
	}
}

func TestBroadcastNonAdmin(t *testing.T) {
	env, rec, _ := newTestEnv(broadcastRoster())
	HandleBroadcast(context.Background(), env, textMsg(42, "/message Hello {ALL}"))

	if !strings.Contains(rec.last(), "not authorized") {
		t.Fatalf("не-админа не завернули: %q", rec.last())
	}
	if len(rec.sent) != 1 {
		t.Fatalf("рассылка не должна была уйти: %d сообщений", len(rec.sent))
	}
}
