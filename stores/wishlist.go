package stores

import (
	"context"

	"gorm.io/gorm"

	"github.com/sartorialco/menswear-api/models"
)

// WishlistStore is the gorm-backed wishlist table.
type WishlistStore struct {
	db *gorm.DB
}

func NewWishlistStore(db *gorm.DB) *WishlistStore {
	return &WishlistStore{db: db}
}

func (s *WishlistStore) FindByGuestSession(ctx context.Context, guestSessionID string) ([]models.WishlistEntry, error) {
	var entries []models.WishlistEntry
	err := s.db.WithContext(ctx).Where("guest_session_id = ?", guestSessionID).Find(&entries).Error
	return entries, err
}

func (s *WishlistStore) FindByUser(ctx context.Context, userID string) ([]models.WishlistEntry, error) {
	var entries []models.WishlistEntry
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&entries).Error
	return entries, err
}

func (s *WishlistStore) Delete(ctx context.Context, entryID uint) error {
	return s.db.WithContext(ctx).Delete(&models.WishlistEntry{}, entryID).Error
}

func (s *WishlistStore) ReassignOwner(ctx context.Context, entryID uint, userID string) error {
	return s.db.WithContext(ctx).Model(&models.WishlistEntry{}).
		Where("id = ?", entryID).
		Updates(map[string]interface{}{
			"user_id":          userID,
			"guest_session_id": nil,
		}).Error
}
