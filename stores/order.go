package stores

import (
	"context"

	"gorm.io/gorm"

	"github.com/sartorialco/menswear-api/models"
)

// OrderStore is the gorm-backed order table. Reassignment only touches
// unowned orders (user_id IS NULL), so an order claimed by one pass or
// by another user is never overwritten.
type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) ReassignUnownedByGuestSession(ctx context.Context, guestSessionID, userID string, customerRecordID uint) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("guest_session_id = ? AND user_id IS NULL", guestSessionID).
		Updates(map[string]interface{}{
			"user_id":            userID,
			"customer_record_id": customerRecordID,
		})
	return res.RowsAffected, res.Error
}

func (s *OrderStore) ReassignUnownedByGuestEmail(ctx context.Context, email, userID string, customerRecordID uint) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("guest_email = ? AND user_id IS NULL", email).
		Updates(map[string]interface{}{
			"user_id":            userID,
			"customer_record_id": customerRecordID,
		})
	return res.RowsAffected, res.Error
}
