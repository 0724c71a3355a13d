package delivery

import (
	"encoding/json"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramMessenger adapts the Telegram Bot API client to Messenger. The bot
// must be an admin of the target group or invite creation will fail.
type TelegramMessenger struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramMessenger(bot *tgbotapi.BotAPI) *TelegramMessenger {
	return &TelegramMessenger{bot: bot}
}

func (t *TelegramMessenger) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramMessenger) CreateInviteLink(chatID int64, memberLimit int, ttl time.Duration) (string, error) {
	cfg := tgbotapi.CreateChatInviteLinkConfig{
		ChatConfig:  tgbotapi.ChatConfig{ChatID: chatID},
		MemberLimit: memberLimit,
	}
	if ttl > 0 {
		cfg.ExpireDate = int(time.Now().Add(ttl).Unix())
	}

	resp, err := t.bot.Request(cfg)
	if err != nil {
		return "", err
	}

	var link tgbotapi.ChatInviteLink
	if err := json.Unmarshal(resp.Result, &link); err != nil {
		return "", err
	}
	if link.InviteLink == "" {
		return "", errors.New("telegram returned an empty invite link")
	}
	return link.InviteLink, nil
}
