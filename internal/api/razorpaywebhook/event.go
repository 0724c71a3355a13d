package razorpaywebhook

import "encoding/json"

// Razorpay webhook envelope. Only the fields the correlation flow needs.
type Event struct {
	Event   string  `json:"event"`
	Payload Payload `json:"payload"`
}

type Payload struct {
	Payment     *PaymentWrapper     `json:"payment"`
	PaymentLink *PaymentLinkWrapper `json:"payment_link"`
}

type PaymentWrapper struct {
	Entity *PaymentEntity `json:"entity"`
}

type PaymentLinkWrapper struct {
	Entity *PaymentLinkEntity `json:"entity"`
}

type PaymentEntity struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Email    string `json:"email"`
	Contact  string `json:"contact"`
	Notes    Notes  `json:"notes"`
}

type PaymentLinkEntity struct {
	ID          string `json:"id"`
	ReferenceID string `json:"reference_id"`
	ShortURL    string `json:"short_url"`
	Notes       Notes  `json:"notes"`
}

// Notes is the provider's free-form notes object. Razorpay serializes empty
// notes as [] instead of {}, so a plain map field would fail to decode.
type Notes map[string]string

func (n *Notes) UnmarshalJSON(b []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		var empty []interface{}
		if json.Unmarshal(b, &empty) == nil {
			*n = nil
			return nil
		}
		return err
	}
	out := make(Notes, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	*n = out
	return nil
}
