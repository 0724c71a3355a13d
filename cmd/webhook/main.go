package main

import (
	"log"
	"time"

	"batch-bot/config"
	"batch-bot/database"
	routes "batch-bot/internal/app/http"
	"batch-bot/internal/delivery"
	"batch-bot/internal/domain/correlation"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	db := database.InitDB()

	api, err := tgbotapi.NewBotAPI(config.BOT_TOKEN)
	if err != nil {
		log.Fatal("❌ Failed to connect to Telegram:", err)
	}

	store := correlation.NewStore(db)
	deliverer := delivery.NewService(
		delivery.NewTelegramMessenger(api),
		config.TARGET_GROUP_CHAT_ID,
		config.ADMIN_CHAT_ID,
		config.FALLBACK_INVITE_LINK,
		time.Duration(config.INVITE_TTL_SECONDS)*time.Second,
	)

	r := gin.Default()

	if config.CORS_ORIGIN != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{config.CORS_ORIGIN},
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	routes.RegisterRoutes(r, store, deliverer)

	r.Run(":" + config.PORT)
}
