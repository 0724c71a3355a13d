package routes

import (
	"batch-bot/config"
	"batch-bot/internal/api/razorpaywebhook"
	"batch-bot/internal/domain/correlation"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, store *correlation.Store, deliverer razorpaywebhook.Deliverer) {
	r.POST("/razorpay_webhook", razorpaywebhook.Handler(config.RAZORPAY_WEBHOOK_SECRET, store, deliverer))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
