package merge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sartorialco/menswear-api/models"
)

const (
	stepLocateGuestRecord = "locate-guest-record"
	stepMergeCart         = "merge-cart"
	stepMergeWishlist     = "merge-wishlist"
	stepOrdersBySession   = "reassign-orders-by-session"
	stepOrdersByEmail     = "reassign-orders-by-email"
	stepRetireGuest       = "retire-guest-record"
)

// Reconciler folds the data trail of an anonymous guest (cart lines,
// wishlist entries, orders, guest customer record) into a registered
// user's identity after login or signup.
//
// One invocation is a single synchronous pass; completed steps are never
// rolled back. Re-running with the same arguments converges: re-pointed
// rows no longer match the guest lookups and re-stamping an already
// merged guest record is harmless. Concurrent invocations for the same
// guest/user pair are not guarded here; callers that need strictness
// under retry-happy clients should serialize per auth user id.
type Reconciler struct {
	customers CustomerDirectory
	carts     CartStore
	wishlists WishlistStore
	orders    OrderStore
	now       func() time.Time
}

func NewReconciler(customers CustomerDirectory, carts CartStore, wishlists WishlistStore, orders OrderStore) *Reconciler {
	return &Reconciler{
		customers: customers,
		carts:     carts,
		wishlists: wishlists,
		orders:    orders,
		now:       time.Now,
	}
}

// Reconcile runs the merge. The returned error is non-nil exactly when
// Result.Success is false: a missing auth user id, a destination record
// that could not be read or created, or a recovered panic. Every other
// failure degrades into Result.StepErrors and a zero contribution to the
// affected count. Callers should never surface a failed merge to the end
// user; logging in proceeds regardless and a later login retries.
func (r *Reconciler) Reconcile(ctx context.Context, req Request) (res Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("❌ merge: panic reconciling user %s: %v", req.AuthUserID, p)
			res = Result{ErrorDetail: "unexpected failure during merge"}
			err = fmt.Errorf("merge: unexpected failure: %v", p)
		}
	}()

	if req.AuthUserID == "" {
		res.ErrorDetail = "auth user id is required"
		return res, errors.New("merge: auth user id is required")
	}

	// Step 1: locate a guest customer record by email, else phone.
	// Absence is not an error; a read failure just skips steps 6 and 7.
	guestRec := r.locateGuestRecord(ctx, &res, req)

	// Step 2: resolve or create the destination record. Fatal on failure,
	// nothing downstream has a valid target without it.
	dest, fatal := r.resolveDestination(ctx, req)
	if fatal != nil {
		log.Printf("❌ %v", fatal)
		res.ErrorDetail = fatal.Error()
		return res, fatal
	}
	res.CustomerRecordID = dest.ID

	if req.GuestSessionID != "" {
		// Steps 3-5.
		res.Merged.CartItems = r.mergeCart(ctx, &res, req.GuestSessionID, req.AuthUserID)
		res.Merged.WishlistItems = r.mergeWishlist(ctx, &res, req.GuestSessionID, req.AuthUserID)
		res.Merged.Orders += r.reassignOrdersBySession(ctx, &res, req.GuestSessionID, req.AuthUserID, dest.ID)
	}

	// Step 6: orders placed under the guest email, only when step 1 tied
	// that email to a guest record. The unowned guard in the store keeps
	// steps 5 and 6 from double-counting the same order.
	if req.Email != "" && guestRec != nil {
		res.Merged.Orders += r.reassignOrdersByEmail(ctx, &res, req.Email, req.AuthUserID, dest.ID, req.GuestSessionID)
	}

	// Step 7: retire the guest record.
	if guestRec != nil {
		if e := r.customers.Retire(ctx, guestRec.ID, req.AuthUserID, r.now()); e != nil {
			r.stepFailed(&res, stepRetireGuest, req.GuestSessionID, e)
		}
	}

	res.Success = true
	return res, nil
}

func (r *Reconciler) locateGuestRecord(ctx context.Context, res *Result, req Request) *models.CustomerRecord {
	if req.Email == "" && req.Phone == "" {
		return nil
	}
	recs, err := r.customers.FindGuestByContact(ctx, req.Email, req.Phone)
	if err != nil {
		r.stepFailed(res, stepLocateGuestRecord, req.GuestSessionID, err)
		return nil
	}
	if len(recs) == 0 {
		return nil
	}
	// Multiple guest records can exist from separate sessions; only the
	// first match is merged.
	return &recs[0]
}

func (r *Reconciler) resolveDestination(ctx context.Context, req Request) (*models.CustomerRecord, error) {
	dest, err := r.customers.FindByAuthUserID(ctx, req.AuthUserID)
	if err == nil {
		return dest, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, &FatalError{Op: OpLookupDestination, Err: err}
	}

	authID := req.AuthUserID
	rec := &models.CustomerRecord{
		AuthUserID: &authID,
		Email:      req.Email,
		Phone:      req.Phone,
		Variant:    models.CustomerVariantRegistered,
		Status:     models.CustomerStatusActive,
	}
	if err := r.customers.Insert(ctx, rec); err != nil {
		return nil, &FatalError{Op: OpCreateDestination, Err: err}
	}
	return rec, nil
}

// mergeCart transfers guest cart lines to the user. A variant already in
// the user's cart gets its quantity increased and the guest line deleted;
// anything else is re-pointed. Both paths count.
func (r *Reconciler) mergeCart(ctx context.Context, res *Result, guestID, userID string) int {
	guestLines, err := r.carts.FindByGuestSession(ctx, guestID)
	if err != nil {
		r.stepFailed(res, stepMergeCart, guestID, err)
		return 0
	}
	if len(guestLines) == 0 {
		return 0
	}

	userLines, err := r.carts.FindByUser(ctx, userID)
	if err != nil {
		r.stepFailed(res, stepMergeCart, guestID, err)
		return 0
	}
	byVariant := make(map[uint]models.CartLine, len(userLines))
	for _, l := range userLines {
		byVariant[l.VariantID] = l
	}

	count := 0
	for _, gl := range guestLines {
		if ul, ok := byVariant[gl.VariantID]; ok {
			if err := r.carts.UpdateQuantity(ctx, ul.ID, ul.Quantity+gl.Quantity); err != nil {
				r.stepFailed(res, stepMergeCart, guestID, err)
				continue
			}
			if err := r.carts.Delete(ctx, gl.ID); err != nil {
				r.stepFailed(res, stepMergeCart, guestID, err)
				continue
			}
			ul.Quantity += gl.Quantity
			byVariant[gl.VariantID] = ul
		} else {
			if err := r.carts.ReassignOwner(ctx, gl.ID, userID); err != nil {
				r.stepFailed(res, stepMergeCart, guestID, err)
				continue
			}
		}
		count++
	}
	return count
}

// mergeWishlist transfers guest wishlist entries. Duplicates of products
// the user already saved are deleted and NOT counted; only genuine
// transfers count.
func (r *Reconciler) mergeWishlist(ctx context.Context, res *Result, guestID, userID string) int {
	guestEntries, err := r.wishlists.FindByGuestSession(ctx, guestID)
	if err != nil {
		r.stepFailed(res, stepMergeWishlist, guestID, err)
		return 0
	}
	if len(guestEntries) == 0 {
		return 0
	}

	userEntries, err := r.wishlists.FindByUser(ctx, userID)
	if err != nil {
		r.stepFailed(res, stepMergeWishlist, guestID, err)
		return 0
	}
	saved := make(map[uint]bool, len(userEntries))
	for _, e := range userEntries {
		saved[e.ProductID] = true
	}

	count := 0
	for _, ge := range guestEntries {
		if saved[ge.ProductID] {
			if err := r.wishlists.Delete(ctx, ge.ID); err != nil {
				r.stepFailed(res, stepMergeWishlist, guestID, err)
			}
			continue
		}
		if err := r.wishlists.ReassignOwner(ctx, ge.ID, userID); err != nil {
			r.stepFailed(res, stepMergeWishlist, guestID, err)
			continue
		}
		saved[ge.ProductID] = true
		count++
	}
	return count
}

func (r *Reconciler) reassignOrdersBySession(ctx context.Context, res *Result, guestID, userID string, customerID uint) int {
	n, err := r.orders.ReassignUnownedByGuestSession(ctx, guestID, userID, customerID)
	if err != nil {
		r.stepFailed(res, stepOrdersBySession, guestID, err)
		return 0
	}
	return int(n)
}

func (r *Reconciler) reassignOrdersByEmail(ctx context.Context, res *Result, email, userID string, customerID uint, guestID string) int {
	n, err := r.orders.ReassignUnownedByGuestEmail(ctx, email, userID, customerID)
	if err != nil {
		r.stepFailed(res, stepOrdersByEmail, guestID, err)
		return 0
	}
	return int(n)
}

func (r *Reconciler) stepFailed(res *Result, step, guestID string, err error) {
	se := StepError{Step: step, GuestID: guestID, Err: err}
	res.StepErrors = append(res.StepErrors, se)
	log.Printf("⚠️ %v", se)
}
