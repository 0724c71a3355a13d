package delivery

import (
	"fmt"
	"log"
	"time"
	"unicode/utf8"
)

// maxOperatorDumpBytes bounds the raw payment dump forwarded to the operator
// so an oversized payload cannot exceed Telegram's message limit.
const maxOperatorDumpBytes = 800

// Messenger is the slice of the chat platform the delivery step uses.
type Messenger interface {
	SendMessage(chatID int64, text string) error
	CreateInviteLink(chatID int64, memberLimit int, ttl time.Duration) (string, error)
}

// Service grants paid users access to the restricted group and keeps the
// operator informed. One instance per webhook process.
type Service struct {
	messenger    Messenger
	targetChatID int64
	adminChatID  int64
	fallbackLink string
	inviteTTL    time.Duration
}

func NewService(m Messenger, targetChatID, adminChatID int64, fallbackLink string, inviteTTL time.Duration) *Service {
	return &Service{
		messenger:    m,
		targetChatID: targetChatID,
		adminChatID:  adminChatID,
		fallbackLink: fallbackLink,
		inviteTTL:    inviteTTL,
	}
}

// DeliverInvite creates a single-use invite link for the target group and
// sends it to the user, then confirms to the operator. If creating or
// sending the invite fails, the pre-configured static fallback link goes out
// instead; if that fails too there is no further attempt.
func (s *Service) DeliverInvite(telegramID int64) error {
	invite, err := s.messenger.CreateInviteLink(s.targetChatID, 1, s.inviteTTL)
	if err == nil {
		text := fmt.Sprintf(
			"🎉 *Payment Confirmed!* Here is your invite link to join the batch:\n\n%s\n\nPlease click to join.",
			invite,
		)
		err = s.messenger.SendMessage(telegramID, text)
	}

	if err != nil {
		log.Println("Failed to create/send invite link:", err)
		if s.fallbackLink == "" {
			return fmt.Errorf("invite delivery failed and no fallback link configured: %w", err)
		}
		fallbackText := fmt.Sprintf("🎉 Payment confirmed — join here: %s", s.fallbackLink)
		if ferr := s.messenger.SendMessage(telegramID, fallbackText); ferr != nil {
			log.Println("Also failed sending fallback link:", ferr)
			return fmt.Errorf("invite delivery failed, fallback failed: %w", ferr)
		}
		return nil
	}

	confirm := fmt.Sprintf("✅ Payment received. User %d invited with link.", telegramID)
	if err := s.messenger.SendMessage(s.adminChatID, confirm); err != nil {
		log.Println("Failed to send operator confirmation:", err)
	}
	return nil
}

// NotifyUnresolved forwards a payment that could not be matched to any user
// to the operator for manual reconciliation. A paid event never disappears
// silently.
func (s *Service) NotifyUnresolved(details string) error {
	text := "⚠️ Payment received but could not identify Telegram user. Payment info:\n" +
		truncate(details, maxOperatorDumpBytes)
	return s.messenger.SendMessage(s.adminChatID, text)
}

// truncate cuts s to at most max bytes without splitting a rune. Telegram
// rejects messages that are not valid UTF-8, and dumped payment entities can
// carry multi-byte buyer names.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	s = s[:max]
	for len(s) > 0 {
		r, size := utf8.DecodeLastRuneInString(s)
		if r != utf8.RuneError || size != 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}
