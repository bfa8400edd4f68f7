package merge

import (
	"context"
	"errors"
	"time"

	"github.com/sartorialco/menswear-api/models"
)

// ErrNotFound is the sentinel store adapters return when a lookup finds
// no row. The reconciler treats it as "create the record", anything else
// as a store failure.
var ErrNotFound = errors.New("merge: record not found")

// CustomerDirectory is the customer identity table.
type CustomerDirectory interface {
	// FindGuestByContact returns guest-variant records matching the email
	// when one is given, otherwise the phone. An empty slice is not an error.
	FindGuestByContact(ctx context.Context, email, phone string) ([]models.CustomerRecord, error)
	// FindByAuthUserID returns the registered record for an auth user,
	// or ErrNotFound.
	FindByAuthUserID(ctx context.Context, authUserID string) (*models.CustomerRecord, error)
	Insert(ctx context.Context, rec *models.CustomerRecord) error
	// Retire marks a guest record merged and stamps the merge metadata,
	// preserving any pre-existing metadata keys.
	Retire(ctx context.Context, id uint, mergedIntoUserID string, mergedAt time.Time) error
}

type CartStore interface {
	FindByGuestSession(ctx context.Context, guestSessionID string) ([]models.CartLine, error)
	FindByUser(ctx context.Context, userID string) ([]models.CartLine, error)
	UpdateQuantity(ctx context.Context, lineID uint, quantity int) error
	Delete(ctx context.Context, lineID uint) error
	// ReassignOwner sets the line's owner to userID and clears its guest tag.
	ReassignOwner(ctx context.Context, lineID uint, userID string) error
}

type WishlistStore interface {
	FindByGuestSession(ctx context.Context, guestSessionID string) ([]models.WishlistEntry, error)
	FindByUser(ctx context.Context, userID string) ([]models.WishlistEntry, error)
	Delete(ctx context.Context, entryID uint) error
	ReassignOwner(ctx context.Context, entryID uint, userID string) error
}

// OrderStore reassigns historical guest orders. Both methods only touch
// orders with no authenticated owner yet and report rows affected.
type OrderStore interface {
	ReassignUnownedByGuestSession(ctx context.Context, guestSessionID, userID string, customerRecordID uint) (int64, error)
	ReassignUnownedByGuestEmail(ctx context.Context, email, userID string, customerRecordID uint) (int64, error)
}
