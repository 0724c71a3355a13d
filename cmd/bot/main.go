package main

import (
	"fmt"
	"log"

	"batch-bot/config"
	"batch-bot/database"
	"batch-bot/internal/bot"
	"batch-bot/internal/domain/correlation"
	"batch-bot/internal/payments"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	config.LoadEnv()
	db := database.InitDB()

	api, err := tgbotapi.NewBotAPI(config.BOT_TOKEN)
	if err != nil {
		log.Fatal("❌ Failed to connect to Telegram:", err)
	}
	log.Println("Authorized on account", api.Self.UserName)

	store := correlation.NewStore(db)
	links := payments.NewRazorpayClient(config.RAZORPAY_KEY_ID, config.RAZORPAY_KEY_SECRET)

	b := bot.New(api, db, links, store, config.ADMIN_USERNAME)

	fmt.Println("Bot is running...")
	b.Run()
}
