package stores

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sartorialco/menswear-api/merge"
	"github.com/sartorialco/menswear-api/models"
)

// CustomerStore is the gorm-backed customer directory.
type CustomerStore struct {
	db *gorm.DB
}

func NewCustomerStore(db *gorm.DB) *CustomerStore {
	return &CustomerStore{db: db}
}

func (s *CustomerStore) FindGuestByContact(ctx context.Context, email, phone string) ([]models.CustomerRecord, error) {
	q := s.db.WithContext(ctx).Where("variant = ?", models.CustomerVariantGuest)
	switch {
	case email != "":
		q = q.Where("email = ?", email)
	case phone != "":
		q = q.Where("phone = ?", phone)
	default:
		return nil, nil
	}

	var recs []models.CustomerRecord
	if err := q.Order("created_at asc").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *CustomerStore) FindByAuthUserID(ctx context.Context, authUserID string) (*models.CustomerRecord, error) {
	var rec models.CustomerRecord
	err := s.db.WithContext(ctx).Where("auth_user_id = ?", authUserID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, merge.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *CustomerStore) Insert(ctx context.Context, rec *models.CustomerRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

// Retire flips a guest record to merged and stamps the merge metadata.
// Pre-existing metadata keys are kept.
func (s *CustomerStore) Retire(ctx context.Context, id uint, mergedIntoUserID string, mergedAt time.Time) error {
	var rec models.CustomerRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return err
	}

	if rec.Metadata == nil {
		rec.Metadata = datatypes.JSONMap{}
	}
	rec.Metadata[models.MetaMergedIntoUserID] = mergedIntoUserID
	rec.Metadata[models.MetaMergedAt] = mergedAt.UTC().Format(time.RFC3339)

	return s.db.WithContext(ctx).Model(&rec).Updates(map[string]interface{}{
		"status":   models.CustomerStatusMerged,
		"metadata": rec.Metadata,
	}).Error
}
