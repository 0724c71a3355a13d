package correlation

import "time"

// Record maps a payment link back to the Telegram user who requested it.
// Written before the link is ever shown to the user, so a payment can never
// complete against a mapping that does not exist yet.
type Record struct {
	ID          uint   `gorm:"primaryKey"`
	ReferenceID string `gorm:"uniqueIndex"`
	LinkID      string `gorm:"index"`
	TelegramID  int64
	Username    string
	FirstName   string
	BatchSlug   string
	AmountINR   int64
	ShortURL    string
	Redeemed    bool
	CreatedAt   time.Time
}

// ProcessedEvent marks a payment id whose webhook has already been handled.
// Razorpay retries delivery on non-2xx/timeouts; a second delivery for the
// same payment must not mint a second invite link.
type ProcessedEvent struct {
	ID        uint   `gorm:"primaryKey"`
	PaymentID string `gorm:"uniqueIndex"`
	Event     string
	CreatedAt time.Time
}
