package bot

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const statsDumpLimit = 10

// handleStats dumps the correlation store for the allow-listed operator.
// Diagnostic only; sent as plain text so usernames cannot break markdown.
func (b *Bot) handleStats(msg *tgbotapi.Message) {
	if msg.From == nil || msg.From.UserName != b.adminUsername {
		b.reply(msg.Chat.ID, "You are not authorized.")
		return
	}

	count, err := b.store.Count()
	if err != nil {
		log.Println("Failed to count correlation records:", err)
		b.reply(msg.Chat.ID, "Failed to read correlation store.")
		return
	}
	recent, err := b.store.Recent(statsDumpLimit)
	if err != nil {
		log.Println("Failed to load correlation records:", err)
		b.reply(msg.Chat.ID, "Failed to read correlation store.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Current links created: %d\n", count)
	for _, rec := range recent {
		state := "pending"
		if rec.Redeemed {
			state = "redeemed"
		}
		fmt.Fprintf(&sb, "%s -> user %d (@%s) %s ₹%d [%s]\n",
			rec.ReferenceID, rec.TelegramID, rec.Username, rec.BatchSlug, rec.AmountINR, state)
	}
	b.reply(msg.Chat.ID, sb.String())
}
