package domain

import "time"

// PreparedOrderData is a fully-resolved order waiting to be persisted. It is
// produced once by the preparer, consumed once by the batch executor, and has
// no identity beyond the current run.
type PreparedOrderData struct {
	// UserID references the purchasing test user; empty for guest orders.
	UserID string
	// GuestEmail is the guest purchaser's synthetic email; empty for
	// registered orders.
	GuestEmail string
	// GuestName is the guest purchaser's synthetic full name.
	GuestName string
	// AttendeeName is the name stamped onto generated tickets.
	AttendeeName string
	// AttendeeEmail is the email stamped onto generated tickets.
	AttendeeEmail string
	// CreatedAt is the synthetic order timestamp.
	CreatedAt time.Time
	// TierID is the chosen tier.
	TierID string
	// UnitPriceCents is the tier price captured at preparation time.
	UnitPriceCents int
	// Quantity is the ticket count of the order.
	Quantity int
	// Protected indicates ticket protection is attached.
	Protected bool
	// ProtectionPriceCents is the per-ticket protection price when attached.
	ProtectionPriceCents int
	// Status is the resolved settlement status.
	Status OrderStatus
	// SubtotalCents is the pre-fee amount.
	SubtotalCents int
	// FeesCents is the total applied fees.
	FeesCents int
	// TotalCents is subtotal plus fees.
	TotalCents int
	// FeeBreakdown maps "<fee name>_cents" to the applied amount.
	FeeBreakdown map[string]int
}

// Registered reports whether the order belongs to a test user.
func (o *PreparedOrderData) Registered() bool {
	return o.UserID != ""
}

// BatchResult accumulates the outcome of persisting one batch of prepared
// orders. Errors are collected per record; a non-empty list means at least
// one order failed at some stage while the rest proceeded.
type BatchResult struct {
	// OrdersCreated is the number of order rows written.
	OrdersCreated int `json:"orders_created"`
	// TicketsCreated is the number of ticket rows written, taken from the
	// store's reported row counts so partial insertions stay observable.
	TicketsCreated int `json:"tickets_created"`
	// GuestsCreated is the number of guest rows written.
	GuestsCreated int `json:"guests_created"`
	// OrderIDs lists the ids of the created orders.
	OrderIDs []string `json:"order_ids"`
	// Errors lists per-record failure descriptions.
	Errors []string `json:"errors"`
}

// Merge folds another batch's outcome into this result.
func (r *BatchResult) Merge(other BatchResult) {
	r.OrdersCreated += other.OrdersCreated
	r.TicketsCreated += other.TicketsCreated
	r.GuestsCreated += other.GuestsCreated
	r.OrderIDs = append(r.OrderIDs, other.OrderIDs...)
	r.Errors = append(r.Errors, other.Errors...)
}

// GenerationResult is the immutable summary returned by one generation run.
type GenerationResult struct {
	// Success is true iff no hard error occurred anywhere in the run. Capacity
	// exhaustion alone does not clear it.
	Success bool `json:"success"`
	// Counts are the created-entity totals.
	Counts GenerationCounts `json:"counts"`
	// OrderIDs lists every created order id.
	OrderIDs []string `json:"order_ids"`
	// Errors lists accumulated non-fatal error descriptions.
	Errors []string `json:"errors"`
	// DurationMillis is the wall-clock execution time of the run.
	DurationMillis int64 `json:"duration_ms"`
}

// DeletionResult is the outcome of an atomic delete-by-event call.
type DeletionResult struct {
	// Success is true when the deletion transaction committed.
	Success bool `json:"success"`
	// Counts holds per-entity deleted row counts; all zero on failure.
	Counts DeletionCounts `json:"counts"`
	// Error carries the failure description when Success is false.
	Error string `json:"error,omitempty"`
}
