package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Spok95/telegram-course-bot/internal/ctxutil"
	"github.com/Spok95/telegram-course-bot/internal/sheets"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ShowTopList — турнирная таблица групп. Сначала валидные записи, потом битые.
func ShowTopList(ctx context.Context, env *Env, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	sctx, cancel := ctxutil.WithStoreTimeout(ctx)
	entries, err := env.Groups.TopList(sctx)
	cancel()
	if err != nil {
		failStore(env, chatID, err)
		return
	}
	if len(entries) == 0 {
		send(env, chatID, "No data available in the sheet.")
		return
	}
	replyHTML(env, chatID, formatTopList(entries))
}

func formatTopList(entries []sheets.TopEntry) string {
	valid := make([]sheets.TopEntry, 0, len(entries))
	missing := make([]sheets.TopEntry, 0)
	for _, e := range entries {
		if e.Missing {
			missing = append(missing, e)
		} else {
			valid = append(valid, e)
		}
	}

	var b strings.Builder
	b.WriteString("🏆 <b>Top List</b>\n<pre>")
	fmt.Fprintf(&b, "%-3s %-15s %-10s\n", "", "Group Number", "Score")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	idx := 1
	for _, e := range append(valid, missing...) {
		fmt.Fprintf(&b, "%-3d %-15s %-10s\n", idx, e.Group, e.Score)
		idx++
	}
	b.WriteString("</pre>")
	return b.String()
}
