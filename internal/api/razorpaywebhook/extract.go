package razorpaywebhook

import (
	"log"
	"strconv"
	"strings"

	"batch-bot/internal/domain/correlation"
)

const (
	eventLinkPaid        = "payment_link.paid"
	eventPaymentCaptured = "payment.captured"
)

// telegramRefPrefix is the reference-id convention the bot uses when minting
// payment links: tg_<telegram user id>.
const telegramRefPrefix = "tg_"

func actionable(event string) bool {
	return event == eventLinkPaid || event == eventPaymentCaptured
}

// carrierID returns the best available correlation carrier, in order of
// trust: the payment link id, then the order id, then the payment's own id.
// The last two exist only because some captured-payment payloads omit the
// payment link entity; neither is reliable for correlation on its own.
func carrierID(ev *Event) string {
	if ev.Payload.PaymentLink != nil && ev.Payload.PaymentLink.Entity != nil &&
		ev.Payload.PaymentLink.Entity.ID != "" {
		return ev.Payload.PaymentLink.Entity.ID
	}
	pay := paymentEntity(ev)
	if pay == nil {
		return ""
	}
	if pay.OrderID != "" {
		return pay.OrderID
	}
	return pay.ID
}

// referenceToken recovers the caller-supplied reference id: preferred from
// the payment entity's notes, else from the payment link entity itself.
func referenceToken(ev *Event) string {
	if pay := paymentEntity(ev); pay != nil {
		if ref := pay.Notes["reference_id"]; ref != "" {
			return ref
		}
	}
	if ev.Payload.PaymentLink != nil && ev.Payload.PaymentLink.Entity != nil {
		return ev.Payload.PaymentLink.Entity.ReferenceID
	}
	return ""
}

func paymentEntity(ev *Event) *PaymentEntity {
	if ev.Payload.Payment == nil {
		return nil
	}
	return ev.Payload.Payment.Entity
}

// parseTelegramID parses a tg_<digits> reference token. Anything else,
// including a tg_ prefix with a non-numeric remainder, is not trusted.
func parseTelegramID(token string) (int64, bool) {
	rest, ok := strings.CutPrefix(token, telegramRefPrefix)
	if !ok || rest == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// resolveUser maps a webhook event to a Telegram user. The tg_-encoded
// reference id is the primary, trusted path; the durable correlation store
// covers uuid reference ids and, last, the carrier id fallbacks. Also
// returns the reference id of whatever matched, for redemption bookkeeping.
func resolveUser(store *correlation.Store, token, carrier string) (int64, string, bool) {
	if id, ok := parseTelegramID(token); ok {
		return id, token, true
	}
	if token != "" {
		rec, err := store.ByReferenceID(token)
		if err != nil {
			log.Println("Correlation lookup by reference id failed:", err)
		} else if rec != nil {
			return rec.TelegramID, rec.ReferenceID, true
		}
	}
	if carrier != "" {
		rec, err := store.ByLinkID(carrier)
		if err != nil {
			log.Println("Correlation lookup by link id failed:", err)
		} else if rec != nil {
			return rec.TelegramID, rec.ReferenceID, true
		}
	}
	return 0, "", false
}
