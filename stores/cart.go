package stores

import (
	"context"

	"gorm.io/gorm"

	"github.com/sartorialco/menswear-api/models"
)

// CartStore is the gorm-backed cart line table.
type CartStore struct {
	db *gorm.DB
}

func NewCartStore(db *gorm.DB) *CartStore {
	return &CartStore{db: db}
}

func (s *CartStore) FindByGuestSession(ctx context.Context, guestSessionID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := s.db.WithContext(ctx).Where("guest_session_id = ?", guestSessionID).Find(&lines).Error
	return lines, err
}

func (s *CartStore) FindByUser(ctx context.Context, userID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&lines).Error
	return lines, err
}

func (s *CartStore) UpdateQuantity(ctx context.Context, lineID uint, quantity int) error {
	return s.db.WithContext(ctx).Model(&models.CartLine{}).
		Where("id = ?", lineID).
		Update("quantity", quantity).Error
}

func (s *CartStore) Delete(ctx context.Context, lineID uint) error {
	return s.db.WithContext(ctx).Delete(&models.CartLine{}, lineID).Error
}

func (s *CartStore) ReassignOwner(ctx context.Context, lineID uint, userID string) error {
	return s.db.WithContext(ctx).Model(&models.CartLine{}).
		Where("id = ?", lineID).
		Updates(map[string]interface{}{
			"user_id":          userID,
			"guest_session_id": nil,
		}).Error
}
