package merge

// Request carries what the auth callback knows about a just-authenticated
// user. AuthUserID is required; the rest is best-effort from the pre-login
// session.
type Request struct {
	AuthUserID     string
	Email          string
	Phone          string
	GuestSessionID string
}

// Counts tallies rows actually transferred to the destination user.
// Cart lines combined into an existing line count (they contribute
// quantity); wishlist duplicates are discarded and do not count.
type Counts struct {
	CartItems     int `json:"cart_items"`
	WishlistItems int `json:"wishlist_items"`
	Orders        int `json:"orders"`
}

// Result summarizes one reconcile invocation. Success is false only when
// the destination customer record could not be resolved; per-step
// failures land in StepErrors and the merge still reports success with
// whatever it could transfer.
type Result struct {
	Success          bool        `json:"success"`
	Merged           Counts      `json:"merged_counts"`
	CustomerRecordID uint        `json:"customer_record_id,omitempty"`
	ErrorDetail      string      `json:"error_detail,omitempty"`
	StepErrors       []StepError `json:"-"`
}
