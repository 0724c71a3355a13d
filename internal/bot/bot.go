package bot

import (
	"log"
	"strings"

	"batch-bot/internal/domain/correlation"
	"batch-bot/internal/payments"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"
)

// Bot is the chat front-end: menu tree, payment link creation, admin stats.
type Bot struct {
	api           *tgbotapi.BotAPI
	db            *gorm.DB
	links         payments.LinkCreator
	store         *correlation.Store
	adminUsername string
}

func New(api *tgbotapi.BotAPI, db *gorm.DB, links payments.LinkCreator, store *correlation.Store, adminUsername string) *Bot {
	return &Bot{
		api:           api,
		db:            db,
		links:         links,
		store:         store,
		adminUsername: adminUsername,
	}
}

// Run consumes updates until the channel closes. One update at a time; no
// update is allowed to take the process down.
func (b *Bot) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	for update := range b.api.GetUpdatesChan(u) {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(update.Message)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(msg)
	case "stats":
		b.handleStats(msg)
	}
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Println("Failed to answer callback query:", err)
	}
	if query.Message == nil {
		return
	}

	data := query.Data
	switch {
	case strings.HasPrefix(data, "lang_"):
		b.showBatchList(query, strings.TrimPrefix(data, "lang_"))
	case strings.HasPrefix(data, "batch_"):
		b.showBatchDetail(query, strings.TrimPrefix(data, "batch_"))
	case strings.HasPrefix(data, "back_"):
		b.handleBack(query, strings.TrimPrefix(data, "back_"))
	case strings.HasPrefix(data, "pay_"):
		b.handleBuy(query, strings.TrimPrefix(data, "pay_"))
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Println("Failed to send message:", err)
	}
}

func (b *Bot) replyMarkdown(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		log.Println("Failed to send message:", err)
	}
}

// editScreen replaces the current menu screen in place.
func (b *Bot) editScreen(query *tgbotapi.CallbackQuery, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	var edit tgbotapi.EditMessageTextConfig
	if keyboard != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *keyboard)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}
	edit.ParseMode = tgbotapi.ModeMarkdown

	if _, err := b.api.Send(edit); err != nil {
		log.Println("Failed to edit message:", err)
	}
}
