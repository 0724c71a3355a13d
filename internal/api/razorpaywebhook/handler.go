package razorpaywebhook

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"batch-bot/internal/domain/correlation"

	"github.com/gin-gonic/gin"
	"github.com/razorpay/razorpay-go/utils"
)

// Deliverer is what the webhook needs from the delivery side: hand an invite
// to a resolved user, or escalate an unresolved payment to the operator.
type Deliverer interface {
	DeliverInvite(telegramID int64) error
	NotifyUnresolved(details string) error
}

// Handler processes Razorpay webhook posts. The signature gate runs over the
// raw body before any parsing; a body that fails it is never looked at.
func Handler(webhookSecret string, store *correlation.Store, deliverer Deliverer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if webhookSecret == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "RAZORPAY_WEBHOOK_SECRET not configured"})
			return
		}

		payload, err := readRawBody(c, 65536)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
			return
		}

		signature := c.GetHeader("X-Razorpay-Signature")
		if signature == "" || !utils.VerifyWebhookSignature(string(payload), signature, webhookSecret) {
			log.Println("❌ Razorpay signature verification failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
			return
		}

		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event payload"})
			return
		}
		log.Println("Received webhook event:", event.Event)

		// Acknowledge everything outside the two paid events so the
		// provider does not retry them.
		if !actionable(event.Event) {
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
			return
		}

		pay := paymentEntity(&event)
		if pay == nil {
			log.Println("No payment entity found in webhook.")
			c.JSON(http.StatusOK, gin.H{"status": "no payment entity"})
			return
		}

		// Razorpay retries on non-2xx; a repeat delivery of the same
		// payment must not mint another invite.
		duplicate, err := store.MarkProcessed(pay.ID, event.Event)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record event"})
			return
		}
		if duplicate {
			log.Println("Duplicate webhook delivery for payment", pay.ID)
			c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
			return
		}

		carrier := carrierID(&event)
		token := referenceToken(&event)
		log.Printf("Detected link_id: %s, reference_id: %s", carrier, token)

		telegramID, matchedRef, resolved := resolveUser(store, token, carrier)
		if !resolved {
			raw, _ := json.Marshal(pay)
			if err := deliverer.NotifyUnresolved(string(raw)); err != nil {
				log.Println("❌ Failed to escalate unresolved payment:", err)
			}
			c.JSON(http.StatusOK, gin.H{"status": "received"})
			return
		}

		if matchedRef != "" {
			if err := store.MarkRedeemed(matchedRef); err != nil {
				log.Println("Failed to mark record redeemed:", err)
			}
		}

		// Delivery failures are terminal for this event: the fallback
		// already ran inside DeliverInvite, and a 5xx here would only
		// trigger a provider retry that the duplicate guard swallows.
		if err := deliverer.DeliverInvite(telegramID); err != nil {
			log.Println("❌ Invite delivery failed for user", telegramID, ":", err)
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})
	}
}

func readRawBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
