package bot

import (
	"fmt"
	"log"

	"batch-bot/internal/domain/catalog"
	"batch-bot/internal/domain/correlation"
	"batch-bot/internal/payments"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const welcomeText = "✨ *Welcome to PREMIUM BATCHES Bot!* ✨\n\n" +
	"🌍 Choose your language / अपनी भाषा चुनें 👇"

func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", "lang_en"),
			tgbotapi.NewInlineKeyboardButtonData("🇮🇳 हिंदी", "lang_hi"),
		),
	)
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	b.replyMarkdown(msg.Chat.ID, welcomeText, languageKeyboard())
}

// showBatchList renders the catalog in the chosen language, replacing the
// language screen.
func (b *Bot) showBatchList(query *tgbotapi.CallbackQuery, lang string) {
	batches, err := catalog.All(b.db)
	if err != nil {
		log.Println("Failed to load batch catalog:", err)
		b.editScreen(query, "⚠️ Something went wrong. Please try /start again.", nil)
		return
	}

	title := "🎯 *Choose your Batch:*"
	backLabel := "⬅️ Back"
	if lang == "hi" {
		title = "🎯 *अपना बैच चुनें:*"
		backLabel = "⬅️ वापस जाएं"
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, batch := range batches {
		label := fmt.Sprintf("📘 %s (₹%d)", batch.Title, batch.PriceINR)
		if lang == "hi" && batch.TitleHindi != "" {
			label = fmt.Sprintf("📘 %s (₹%d)", batch.TitleHindi, batch.PriceINR)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "batch_"+batch.Slug),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(backLabel, "back_start"),
	))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.editScreen(query, title, &keyboard)
}

func (b *Bot) showBatchDetail(query *tgbotapi.CallbackQuery, slug string) {
	batch, err := catalog.BySlug(b.db, slug)
	if err != nil {
		log.Println("Unknown batch in callback:", slug, err)
		b.editScreen(query, "⚠️ That batch is no longer available.", nil)
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	if batch.DemoLink != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🎥 Demo", batch.DemoLink),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("💳 Pay ₹%d via Razorpay", batch.PriceINR), "pay_"+batch.Slug,
		)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "back_language")),
	)

	text := fmt.Sprintf(
		"📘 *%s Batch*\n\n👉 Demo dekhne ke liye button.\n👉 Payment ke liye Razorpay button dabaiye.",
		batch.Title,
	)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.editScreen(query, text, &keyboard)
}

func (b *Bot) handleBack(query *tgbotapi.CallbackQuery, target string) {
	switch target {
	case "start":
		keyboard := languageKeyboard()
		b.editScreen(query, welcomeText, &keyboard)
	case "language":
		// English default on the way back
		b.showBatchList(query, "en")
	}
}

// handleBuy mints one payment link per click. The correlation record is
// written before the short URL is shown, so a payment can never race ahead
// of the mapping. No dedup across repeated clicks.
func (b *Bot) handleBuy(query *tgbotapi.CallbackQuery, slug string) {
	user := query.From
	if user == nil {
		return
	}

	batch, err := catalog.BySlug(b.db, slug)
	if err != nil {
		log.Println("Unknown batch in pay callback:", slug, err)
		b.editScreen(query, "⚠️ That batch is no longer available.", nil)
		return
	}

	referenceID := fmt.Sprintf("tg_%d", user.ID)
	link, err := b.links.CreatePaymentLink(payments.LinkRequest{
		AmountINR:   batch.PriceINR,
		BuyerName:   buyerName(user),
		Description: fmt.Sprintf("Payment for %s Batch (%d INR)", batch.Title, batch.PriceINR),
		ReferenceID: referenceID,
	})
	if err != nil {
		log.Println("Failed to create payment link:", err)
		b.editScreen(query, "⚠️ Could not create your payment link right now. Please try again in a moment.", nil)
		return
	}

	rec := &correlation.Record{
		ReferenceID: referenceID,
		LinkID:      link.ID,
		TelegramID:  user.ID,
		Username:    user.UserName,
		FirstName:   user.FirstName,
		BatchSlug:   batch.Slug,
		AmountINR:   batch.PriceINR,
		ShortURL:    link.ShortURL,
	}
	if err := b.store.Save(rec); err != nil {
		// A link whose mapping is not stored must never reach the user.
		log.Println("Failed to save correlation record:", err)
		b.editScreen(query, "⚠️ Could not create your payment link right now. Please try again in a moment.", nil)
		return
	}

	text := fmt.Sprintf(
		"🔒 *Payment Link Created*\n\nClick below to pay ₹%d via Razorpay:\n\n%s\n\n"+
			"✅ After payment completes, you will receive the invite link automatically.",
		batch.PriceINR, link.ShortURL,
	)
	b.editScreen(query, text, nil)
}

func buyerName(user *tgbotapi.User) string {
	name := user.FirstName
	if user.LastName != "" {
		name += " " + user.LastName
	}
	if name == "" {
		name = user.UserName
	}
	return name
}
