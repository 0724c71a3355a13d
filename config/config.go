package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	PORT   string
	DB_URL string

	BOT_TOKEN string

	RAZORPAY_KEY_ID         string
	RAZORPAY_KEY_SECRET     string
	RAZORPAY_WEBHOOK_SECRET string

	TARGET_GROUP_CHAT_ID int64
	ADMIN_USERNAME       string
	ADMIN_CHAT_ID        int64

	BATCH_PRICE_INR      int64
	FALLBACK_INVITE_LINK string
	DEMO_GROUP_LINK      string
	INVITE_TTL_SECONDS   int64

	CORS_ORIGIN string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")

	BOT_TOKEN = mustEnv("BOT_TOKEN")

	RAZORPAY_KEY_ID = mustEnv("RAZORPAY_KEY_ID")
	RAZORPAY_KEY_SECRET = mustEnv("RAZORPAY_KEY_SECRET")
	RAZORPAY_WEBHOOK_SECRET = mustEnv("RAZORPAY_WEBHOOK_SECRET")

	TARGET_GROUP_CHAT_ID = mustEnvInt64("TARGET_GROUP_CHAT_ID")
	ADMIN_USERNAME = mustEnv("ADMIN_USERNAME")
	ADMIN_CHAT_ID = mustEnvInt64("ADMIN_CHAT_ID")

	BATCH_PRICE_INR = getEnvInt64("BATCH_PRICE_INR", 199)
	FALLBACK_INVITE_LINK = getEnv("FALLBACK_INVITE_LINK", "")
	DEMO_GROUP_LINK = getEnv("DEMO_GROUP_LINK", "")
	INVITE_TTL_SECONDS = getEnvInt64("INVITE_TTL_SECONDS", 0)

	CORS_ORIGIN = getEnv("CORS_ORIGIN", "")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func mustEnvInt64(key string) int64 {
	n, err := strconv.ParseInt(mustEnv(key), 10, 64)
	if err != nil {
		log.Fatalf("Environment variable %s must be an integer: %v", key, err)
	}
	return n
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Fatalf("Environment variable %s must be an integer: %v", key, err)
	}
	return n
}
