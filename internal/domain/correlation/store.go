package correlation

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store owns all correlation state. Both processes get one injected instead
// of reaching for a shared global, so tests can hand in an in-memory DB.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Save writes the record synchronously. The caller must not surface the
// payment URL to the user until this returns nil. A repeat click by the same
// user reuses the same reference id, so the row is upserted to point at the
// newest link.
func (s *Store) Save(rec *Record) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "reference_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"link_id", "short_url", "amount_inr", "username", "first_name", "batch_slug",
		}),
	}).Create(rec).Error
	if err != nil {
		return fmt.Errorf("failed to save correlation record: %w", err)
	}
	return nil
}

func (s *Store) ByReferenceID(referenceID string) (*Record, error) {
	var rec Record
	err := s.db.Where("reference_id = ?", referenceID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) ByLinkID(linkID string) (*Record, error) {
	var rec Record
	err := s.db.Where("link_id = ?", linkID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) MarkRedeemed(referenceID string) error {
	return s.db.Model(&Record{}).
		Where("reference_id = ?", referenceID).
		Update("redeemed", true).Error
}

// MarkProcessed records a handled payment id. Returns true if the payment
// was already marked, i.e. this webhook delivery is a duplicate. The unique
// index on payment_id makes the check-and-set a single atomic insert.
func (s *Store) MarkProcessed(paymentID, event string) (bool, error) {
	if paymentID == "" {
		return false, nil
	}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "payment_id"}},
		DoNothing: true,
	}).Create(&ProcessedEvent{PaymentID: paymentID, Event: event})
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark payment processed: %w", res.Error)
	}
	return res.RowsAffected == 0, nil
}

func (s *Store) Count() (int64, error) {
	var n int64
	err := s.db.Model(&Record{}).Count(&n).Error
	return n, err
}

// Recent returns the newest records for the admin dump.
func (s *Store) Recent(limit int) ([]Record, error) {
	var recs []Record
	err := s.db.Order("created_at DESC").Limit(limit).Find(&recs).Error
	return recs, err
}
