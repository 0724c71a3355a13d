package payments

import (
	"fmt"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
)

// LinkRequest describes one payment link to mint. Amount is in rupees; the
// provider wants paisa, the conversion happens here.
type LinkRequest struct {
	AmountINR   int64
	BuyerName   string
	Description string
	ReferenceID string
}

// Link is the read-only slice of the provider's payment link entity that the
// bot needs: the id for correlation, the short URL for the user.
type Link struct {
	ID          string
	ShortURL    string
	ReferenceID string
}

// LinkCreator lets handlers and tests swap the real provider out.
type LinkCreator interface {
	CreatePaymentLink(req LinkRequest) (*Link, error)
}

type RazorpayClient struct {
	client *razorpay.Client
}

func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{client: razorpay.NewClient(keyID, keySecret)}
}

// CreatePaymentLink mints a hosted payment link. Single attempt, no retry:
// a provider rejection surfaces to the caller and from there to the user.
func (r *RazorpayClient) CreatePaymentLink(req LinkRequest) (*Link, error) {
	payload, referenceID := buildLinkPayload(req)

	resp, err := r.client.PaymentLink.Create(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay payment link create failed: %w", err)
	}

	id, _ := resp["id"].(string)
	shortURL, _ := resp["short_url"].(string)
	if id == "" || shortURL == "" {
		return nil, fmt.Errorf("razorpay returned incomplete payment link: %v", resp)
	}

	return &Link{ID: id, ShortURL: shortURL, ReferenceID: referenceID}, nil
}

// buildLinkPayload fills provider defaults: amount in paisa, INR only, no
// partial payments, no sms/email notifications. The reference id is mirrored
// into notes so the payment entity echoes it back in webhooks even when the
// payment link entity is absent from the payload.
func buildLinkPayload(req LinkRequest) (map[string]interface{}, string) {
	referenceID := req.ReferenceID
	if referenceID == "" {
		referenceID = uuid.NewString()
	}

	buyerName := req.BuyerName
	if buyerName == "" {
		buyerName = "Buyer"
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Payment for UPSI 2025 Batch (%d INR)", req.AmountINR)
	}

	payload := map[string]interface{}{
		"amount":         req.AmountINR * 100, // paisa
		"currency":       "INR",
		"accept_partial": false,
		"description":    description,
		"reference_id":   referenceID,
		"customer": map[string]interface{}{
			"name": buyerName,
		},
		"notify": map[string]interface{}{
			"sms":   false,
			"email": false,
		},
		"reminder_enable": false,
		"notes": map[string]interface{}{
			"reference_id": referenceID,
		},
	}
	return payload, referenceID
}
