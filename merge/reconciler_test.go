package merge_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/sartorialco/menswear-api/merge"
	"github.com/sartorialco/menswear-api/models"
)

func strptr(s string) *string { return &s }

// ---- in-memory fakes with mutation spies ----

type fakeCustomers struct {
	records       []*models.CustomerRecord
	nextID        uint
	findGuestErr  error
	findByAuthErr error
	insertErr     error
	retireErr     error
	inserts       int
	retires       int
}

func (f *fakeCustomers) FindGuestByContact(_ context.Context, email, phone string) ([]models.CustomerRecord, error) {
	if f.findGuestErr != nil {
		return nil, f.findGuestErr
	}
	var out []models.CustomerRecord
	for _, r := range f.records {
		if r.Variant != models.CustomerVariantGuest {
			continue
		}
		if (email != "" && r.Email == email) || (email == "" && phone != "" && r.Phone == phone) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeCustomers) FindByAuthUserID(_ context.Context, authUserID string) (*models.CustomerRecord, error) {
	if f.findByAuthErr != nil {
		return nil, f.findByAuthErr
	}
	for _, r := range f.records {
		if r.AuthUserID != nil && *r.AuthUserID == authUserID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, merge.ErrNotFound
}

func (f *fakeCustomers) Insert(_ context.Context, rec *models.CustomerRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	rec.ID = f.nextID
	cp := *rec
	f.records = append(f.records, &cp)
	f.inserts++
	return nil
}

func (f *fakeCustomers) Retire(_ context.Context, id uint, mergedIntoUserID string, mergedAt time.Time) error {
	if f.retireErr != nil {
		return f.retireErr
	}
	for _, r := range f.records {
		if r.ID == id {
			r.Status = models.CustomerStatusMerged
			if r.Metadata == nil {
				r.Metadata = datatypes.JSONMap{}
			}
			r.Metadata[models.MetaMergedIntoUserID] = mergedIntoUserID
			r.Metadata[models.MetaMergedAt] = mergedAt.UTC().Format(time.RFC3339)
			f.retires++
			return nil
		}
	}
	return merge.ErrNotFound
}

func (f *fakeCustomers) byID(id uint) *models.CustomerRecord {
	for _, r := range f.records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

type fakeCarts struct {
	lines        map[uint]*models.CartLine
	findGuestErr error
	findUserErr  error
	updateErr    error
	deleteErr    error
	reassignErr  error
	writes       int
}

func newFakeCarts() *fakeCarts { return &fakeCarts{lines: map[uint]*models.CartLine{}} }

func (f *fakeCarts) add(l models.CartLine) {
	cp := l
	f.lines[l.ID] = &cp
}

func (f *fakeCarts) FindByGuestSession(_ context.Context, guestID string) ([]models.CartLine, error) {
	if f.findGuestErr != nil {
		return nil, f.findGuestErr
	}
	var out []models.CartLine
	for _, l := range f.lines {
		if l.GuestSessionID != nil && *l.GuestSessionID == guestID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeCarts) FindByUser(_ context.Context, userID string) ([]models.CartLine, error) {
	if f.findUserErr != nil {
		return nil, f.findUserErr
	}
	var out []models.CartLine
	for _, l := range f.lines {
		if l.UserID != nil && *l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeCarts) UpdateQuantity(_ context.Context, lineID uint, quantity int) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.writes++
	f.lines[lineID].Quantity = quantity
	return nil
}

func (f *fakeCarts) Delete(_ context.Context, lineID uint) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.writes++
	delete(f.lines, lineID)
	return nil
}

func (f *fakeCarts) ReassignOwner(_ context.Context, lineID uint, userID string) error {
	if f.reassignErr != nil {
		return f.reassignErr
	}
	f.writes++
	f.lines[lineID].UserID = &userID
	f.lines[lineID].GuestSessionID = nil
	return nil
}

type fakeWishlists struct {
	entries      map[uint]*models.WishlistEntry
	findGuestErr error
	findUserErr  error
	deleteErr    error
	reassignErr  error
	writes       int
}

func newFakeWishlists() *fakeWishlists {
	return &fakeWishlists{entries: map[uint]*models.WishlistEntry{}}
}

func (f *fakeWishlists) add(e models.WishlistEntry) {
	cp := e
	f.entries[e.ID] = &cp
}

func (f *fakeWishlists) FindByGuestSession(_ context.Context, guestID string) ([]models.WishlistEntry, error) {
	if f.findGuestErr != nil {
		return nil, f.findGuestErr
	}
	var out []models.WishlistEntry
	for _, e := range f.entries {
		if e.GuestSessionID != nil && *e.GuestSessionID == guestID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeWishlists) FindByUser(_ context.Context, userID string) ([]models.WishlistEntry, error) {
	if f.findUserErr != nil {
		return nil, f.findUserErr
	}
	var out []models.WishlistEntry
	for _, e := range f.entries {
		if e.UserID != nil && *e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeWishlists) Delete(_ context.Context, entryID uint) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.writes++
	delete(f.entries, entryID)
	return nil
}

func (f *fakeWishlists) ReassignOwner(_ context.Context, entryID uint, userID string) error {
	if f.reassignErr != nil {
		return f.reassignErr
	}
	f.writes++
	f.entries[entryID].UserID = &userID
	f.entries[entryID].GuestSessionID = nil
	return nil
}

type fakeOrders struct {
	orders     map[uint]*models.Order
	sessionErr error
	emailErr   error
	writes     int
}

func newFakeOrders() *fakeOrders { return &fakeOrders{orders: map[uint]*models.Order{}} }

func (f *fakeOrders) add(o models.Order) {
	cp := o
	f.orders[o.ID] = &cp
}

func (f *fakeOrders) ReassignUnownedByGuestSession(_ context.Context, guestID, userID string, customerRecordID uint) (int64, error) {
	if f.sessionErr != nil {
		return 0, f.sessionErr
	}
	var n int64
	for _, o := range f.orders {
		if o.UserID == nil && o.GuestSessionID != nil && *o.GuestSessionID == guestID {
			o.UserID = &userID
			o.CustomerRecordID = &customerRecordID
			f.writes++
			n++
		}
	}
	return n, nil
}

func (f *fakeOrders) ReassignUnownedByGuestEmail(_ context.Context, email, userID string, customerRecordID uint) (int64, error) {
	if f.emailErr != nil {
		return 0, f.emailErr
	}
	var n int64
	for _, o := range f.orders {
		if o.UserID == nil && o.GuestEmail != nil && *o.GuestEmail == email {
			o.UserID = &userID
			o.CustomerRecordID = &customerRecordID
			f.writes++
			n++
		}
	}
	return n, nil
}

type fixture struct {
	customers *fakeCustomers
	carts     *fakeCarts
	wishlists *fakeWishlists
	orders    *fakeOrders
	rec       *merge.Reconciler
}

func newFixture() *fixture {
	f := &fixture{
		customers: &fakeCustomers{},
		carts:     newFakeCarts(),
		wishlists: newFakeWishlists(),
		orders:    newFakeOrders(),
	}
	f.rec = merge.NewReconciler(f.customers, f.carts, f.wishlists, f.orders)
	return f
}

// ---- tests ----

// Full scenario: guest record, one cart line, one wishlist entry, one
// session-tagged order, no prior registered record.
func TestReconcileFullScenario(t *testing.T) {
	f := newFixture()
	f.customers.records = append(f.customers.records, &models.CustomerRecord{
		ID:      10,
		Email:   "a@b.com",
		Variant: models.CustomerVariantGuest,
		Status:  models.CustomerStatusActive,
		Metadata: datatypes.JSONMap{
			"source": "guest-checkout",
		},
	})
	f.customers.nextID = 10
	f.carts.add(models.CartLine{ID: 1, GuestSessionID: strptr("g1"), VariantID: 100, Quantity: 2})
	f.wishlists.add(models.WishlistEntry{ID: 1, GuestSessionID: strptr("g1"), ProductID: 7})
	f.orders.add(models.Order{ID: 1, GuestSessionID: strptr("g1")})

	res, err := f.rec.Reconcile(context.Background(), merge.Request{
		AuthUserID:     "u1",
		Email:          "a@b.com",
		GuestSessionID: "g1",
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Empty(t, res.StepErrors)
	assert.Equal(t, merge.Counts{CartItems: 1, WishlistItems: 1, Orders: 1}, res.Merged)

	// A registered record was created for u1.
	dest := f.customers.byID(res.CustomerRecordID)
	require.NotNil(t, dest)
	assert.Equal(t, models.CustomerVariantRegistered, dest.Variant)
	require.NotNil(t, dest.AuthUserID)
	assert.Equal(t, "u1", *dest.AuthUserID)
	assert.Equal(t, "a@b.com", dest.Email)

	// Cart line and wishlist entry re-pointed to u1.
	require.NotNil(t, f.carts.lines[1].UserID)
	assert.Equal(t, "u1", *f.carts.lines[1].UserID)
	assert.Nil(t, f.carts.lines[1].GuestSessionID)
	require.NotNil(t, f.wishlists.entries[1].UserID)
	assert.Equal(t, "u1", *f.wishlists.entries[1].UserID)

	// Order claimed by u1 and tied to the new customer record.
	require.NotNil(t, f.orders.orders[1].UserID)
	assert.Equal(t, "u1", *f.orders.orders[1].UserID)
	assert.Equal(t, res.CustomerRecordID, *f.orders.orders[1].CustomerRecordID)

	// Guest record retired with merge metadata, pre-existing keys kept.
	guest := f.customers.byID(10)
	assert.Equal(t, models.CustomerStatusMerged, guest.Status)
	assert.Equal(t, "u1", guest.Metadata[models.MetaMergedIntoUserID])
	assert.NotEmpty(t, guest.Metadata[models.MetaMergedAt])
	assert.Equal(t, "guest-checkout", guest.Metadata["source"])
}

// P1: the second identical call finds nothing left and reports zero counts.
func TestReconcileIdempotent(t *testing.T) {
	f := newFixture()
	f.customers.records = append(f.customers.records, &models.CustomerRecord{
		ID: 10, Email: "a@b.com", Variant: models.CustomerVariantGuest, Status: models.CustomerStatusActive,
	})
	f.customers.nextID = 10
	f.carts.add(models.CartLine{ID: 1, GuestSessionID: strptr("g1"), VariantID: 100, Quantity: 2})
	f.wishlists.add(models.WishlistEntry{ID: 1, GuestSessionID: strptr("g1"), ProductID: 7})
	f.orders.add(models.Order{ID: 1, GuestSessionID: strptr("g1"), GuestEmail: strptr("a@b.com")})

	req := merge.Request{AuthUserID: "u1", Email: "a@b.com", GuestSessionID: "g1"}

	first, err := f.rec.Reconcile(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, merge.Counts{CartItems: 1, WishlistItems: 1, Orders: 1}, first.Merged)

	second, err := f.rec.Reconcile(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, merge.Counts{}, second.Merged)
	assert.Equal(t, first.CustomerRecordID, second.CustomerRecordID)
	// No second registered record was created.
	assert.Equal(t, 1, f.customers.inserts)
}

// P2: same variant in both carts combines quantities into one line.
func TestReconcileCombinesCartQuantities(t *testing.T) {
	f := newFixture()
	f.carts.add(models.CartLine{ID: 1, GuestSessionID: strptr("g1"), VariantID: 100, Quantity: 2})
	f.carts.add(models.CartLine{ID: 2, UserID: strptr("u1"), VariantID: 100, Quantity: 3})

	res, err := f.rec.Reconcile(context.Background(), merge.Request{AuthUserID: "u1", GuestSessionID: "g1"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Merged.CartItems)

	require.Len(t, f.carts.lines, 1)
	line := f.carts.lines[2]
	require.NotNil(t, line)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, "u1", *line.UserID)
}

// P3: a product already on the user's wishlist is discarded, not counted.
func TestReconcileDiscardsDuplicateWishlistEntries(t *testing.T) {
	f := newFixture()
	f.wishlists.add(models.WishlistEntry{ID: 1, GuestSessionID: strptr("g1"), ProductID: 7})
	f.wishlists.add(models.WishlistEntry{ID: 2, GuestSessionID: strptr("g1"), ProductID: 8})
	f.wishlists.add(models.WishlistEntry{ID: 3, UserID: strptr("u1"), ProductID: 7})

	res, err := f.rec.Reconcile(context.Background(), merge.Request{AuthUserID: "u1", GuestSessionID: "g1"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Merged.WishlistItems)

	require.Len(t, f.wishlists.entries, 2)
	assert.NotContains(t, f.wishlists.entries, uint(1)) // duplicate deleted
	assert.Equal(t, "u1", *f.wishlists.entries[2].UserID)
	assert.Equal(t, "u1", *f.wishlists.entries[3].UserID)
}

// P4: an order that already belongs to someone is never touched.
func TestReconcileNeverOverwritesOrderOwnership(t *testing.T) {
	f := newFixture()
	other := uint(99)
	f.orders.add(models.Order{
		ID: 1, UserID: strptr("u2"), CustomerRecordID: &other,
		GuestSessionID: strptr("g1"), GuestEmail: strptr("a@b.com"),
	})
	f.customers.records = append(f.customers.records, &models.CustomerRecord{
		ID: 10, Email: "a@b.com", Variant: models.CustomerVariantGuest, Status: models.CustomerStatusActive,
	})
	f.customers.nextID = 10

	res, err := f.rec.Reconcile(context.Background(), merge.Request{
		AuthUserID: "u1", Email: "a@b.com", GuestSessionID: "g1",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Merged.Orders)
	assert.Equal(t, "u2", *f.orders.orders[1].UserID)
	assert.Equal(t, other, *f.orders.orders[1].CustomerRecordID)
}

// P5: an order matching both the session and the email path is claimed
// exactly once.
func TestReconcileCountsDualMatchOrderOnce(t *testing.T) {
	f := newFixture()
	f.customers.records = append(f.customers.records, &models.CustomerRecord{
		ID: 10, Email: "a@b.com", Variant: models.CustomerVariantGuest, Status: models.CustomerStatusActive,
	})
	f.customers.nextID = 10
	f.orders.add(models.Order{ID: 1, GuestSessionID: strptr("g1"), GuestEmail: strptr("a@b.com")})

	res, err := f.rec.Reconcile(context.Background(), merge.Request{
		AuthUserID: "u1", Email: "a@b.com", GuestSessionID: "g1",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Merged.Orders)
	assert.Equal(t, "u1", *f.orders.orders[1].UserID)
}

// P6: a destination lookup failure aborts before any mutation.
func TestReconcileFatalLookupShortCircuits(t *testing.T) {
	f := newFixture()
	f.customers.findByAuthErr = errors.New("store unavailable")
	f.carts.add(models.CartLine{ID: 1, GuestSessionID: strptr("g1"), VariantID: 100, Quantity: 2})
	f.wishlists.add(models.WishlistEntry{ID: 1, GuestSessionID: strptr("g1"), ProductID: 7})
	f.orders.add(models.Order{ID: 1, GuestSessionID: strptr("g1")})

	res, err := f.rec.Reconcile(context.Background(), merge.Request{
		AuthUserID: "u1", Email: "a@b.com", GuestSessionID: "g1",
	})
	require.Error(t, err)
	assert.False(t, res.Success)

	var fatal *merge.FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, merge.OpLookupDestination, fatal.Op)

	assert.Zero(t, f.carts.writes)
	assert.Zero(t, f.wishlists.writes)
	assert.Zero(t, f.orders.writes)
	assert.Zero(t, f.customers.retires)
}

func TestReconcileFatalCreate(t *testing.T) {
	f := newFixture()
	f.customers.insertErr = errors.New("insert rejected")

	res, err := f.rec.Reconcile(context.Background(), merge.Request{AuthUserID: "u1", GuestSessionID: "g1"})
	require.Error(t, err)
	assert.False(t, res.Success)

	var fatal *merge.FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, merge.OpCreateDestination, fatal.Op)
	assert.Zero(t, f.carts.writes)
}

// A failing cart step must not stop wishlist, order, or retirement steps.
func TestReconcilePartialFailureDegradesGracefully(t *testing.T) {
	f := newFixture()
	f.customers.records = append(f.customers.records, &models.CustomerRecord{
		ID: 10, Email: "a@b.com", Variant: models.CustomerVariantGuest, Status: models.CustomerStatusActive,
	})
	f.customers.nextID = 10
	f.carts.findGuestErr = errors.New("cart table down")
	f.wishlists.add(models.WishlistEntry{ID: 1, GuestSessionID: strptr("g1"), ProductID: 7})
	f.orders.add(models.Order{ID: 1, GuestSessionID: strptr("g1")})

	res, err := f.rec.Reconcile(context.Background(), merge.Request{
		AuthUserID: "u1", Email: "a@b.com", GuestSessionID: "g1",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, merge.Counts{CartItems: 0, WishlistItems: 1, Orders: 1}, res.Merged)
	require.Len(t, res.StepErrors, 1)
	assert.Equal(t, "g1", res.StepErrors[0].GuestID)
	assert.ErrorContains(t, res.StepErrors[0], "cart table down")

	// Guest record still retired.
	assert.Equal(t, models.CustomerStatusMerged, f.customers.byID(10).Status)
}

// No email, no phone, no guest session: a safe no-op that still resolves
// the destination record.
func TestReconcileNoIdentifiersIsNoOp(t *testing.T) {
	f := newFixture()

	res, err := f.rec.Reconcile(context.Background(), merge.Request{AuthUserID: "u1"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, merge.Counts{}, res.Merged)
	assert.NotZero(t, res.CustomerRecordID)
	assert.Equal(t, 1, f.customers.inserts)
}

func TestReconcileRequiresAuthUserID(t *testing.T) {
	f := newFixture()

	res, err := f.rec.Reconcile(context.Background(), merge.Request{GuestSessionID: "g1"})
	require.Error(t, err)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.ErrorDetail)
}

// Email-based order reassignment only runs when a guest customer record
// tied that email to a guest identity.
func TestReconcileEmailOrdersRequireGuestRecord(t *testing.T) {
	f := newFixture()
	f.orders.add(models.Order{ID: 1, GuestEmail: strptr("a@b.com")})

	res, err := f.rec.Reconcile(context.Background(), merge.Request{AuthUserID: "u1", Email: "a@b.com"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 0, res.Merged.Orders)
	assert.Nil(t, f.orders.orders[1].UserID)
}

// Phone is the fallback contact when no email is supplied.
func TestReconcileLocatesGuestRecordByPhone(t *testing.T) {
	f := newFixture()
	f.customers.records = append(f.customers.records, &models.CustomerRecord{
		ID: 10, Phone: "+971500000000", Variant: models.CustomerVariantGuest, Status: models.CustomerStatusActive,
	})
	f.customers.nextID = 10

	res, err := f.rec.Reconcile(context.Background(), merge.Request{AuthUserID: "u1", Phone: "+971500000000"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, models.CustomerStatusMerged, f.customers.byID(10).Status)
}
