package domain

import "time"

// Event is the read-only view of the target event. Generation only runs
// against events in "test" status.
type Event struct {
	// ID is the unique identifier of the event.
	ID string `json:"id"`
	// Status is the lifecycle status of the event (e.g. draft, test, published).
	Status string `json:"status"`
	// Title is the display title of the event.
	Title string `json:"title"`
	// RSVPCapacity is the maximum RSVP count configured for the event.
	RSVPCapacity int `json:"rsvp_capacity"`
}

// TicketTier is the read-only view of a sellable tier of the target event.
type TicketTier struct {
	// ID is the unique identifier of the tier.
	ID string `json:"id"`
	// PriceCents is the unit price in minor currency units.
	PriceCents int `json:"price_cents"`
	// TotalTickets is the tier's full inventory.
	TotalTickets int `json:"total_tickets"`
	// SoldTickets is the number of tickets already sold.
	SoldTickets int `json:"sold_tickets"`
	// AvailableTickets, when non-nil, is the authoritative remaining inventory.
	AvailableTickets *int `json:"available_tickets,omitempty"`
}

// RemainingCapacity returns the sellable inventory left on the tier, floored
// at zero. The explicit available figure wins over total minus sold.
func (t *TicketTier) RemainingCapacity() int {
	remaining := t.TotalTickets - t.SoldTickets
	if t.AvailableTickets != nil {
		remaining = *t.AvailableTickets
	}
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FeeType distinguishes flat-amount fees from percentage fees.
type FeeType string

const (
	// FeeTypeFlat is a fixed amount expressed in whole currency units.
	FeeTypeFlat FeeType = "flat"
	// FeeTypePercentage is a percentage of the fee's base amount.
	FeeTypePercentage FeeType = "percentage"
)

// SalesTaxFeeName identifies the fee applied last, against the running total
// of subtotal plus all prior fees.
const SalesTaxFeeName = "sales_tax"

// TicketingFee is a read-only platform fee definition.
type TicketingFee struct {
	// ID is the unique identifier of the fee.
	ID string `json:"id"`
	// Name identifies the fee in breakdowns (e.g. platform_fee, sales_tax).
	Name string `json:"name"`
	// Type is flat or percentage.
	Type FeeType `json:"type"`
	// Value is whole currency units for flat fees, percent for percentage fees.
	Value float64 `json:"value"`
	// Active indicates whether the fee currently applies.
	Active bool `json:"active"`
	// Environment scopes the fee ("all" matches every environment).
	Environment string `json:"environment"`
}

// TestProfile is a generated test-user identity to insert.
type TestProfile struct {
	// Email is the synthetic address of the test user.
	Email string `json:"email"`
	// DisplayName is the synthetic display name of the test user.
	DisplayName string `json:"display_name"`
}

// Guest is a generated guest purchaser identity to insert.
type Guest struct {
	// Email is the synthetic address of the guest.
	Email string `json:"email"`
	// FullName is the synthetic full name of the guest.
	FullName string `json:"full_name"`
}

// OrderRecord is the order row handed to the store.
type OrderRecord struct {
	// EventID is the target event.
	EventID string `json:"event_id"`
	// UserID references the purchasing test user; empty for guest orders.
	UserID string `json:"user_id,omitempty"`
	// GuestID references the purchasing guest; empty for registered orders.
	GuestID string `json:"guest_id,omitempty"`
	// Status is the settlement status of the order.
	Status OrderStatus `json:"status"`
	// SubtotalCents is the pre-fee amount in minor units.
	SubtotalCents int `json:"subtotal_cents"`
	// FeesCents is the sum of all applied fees in minor units.
	FeesCents int `json:"fees_cents"`
	// TotalCents is subtotal plus fees in minor units.
	TotalCents int `json:"total_cents"`
	// FeeBreakdown maps "<fee name>_cents" to the applied amount.
	FeeBreakdown map[string]int `json:"fee_breakdown"`
	// Currency is the ISO currency code of the amounts.
	Currency string `json:"currency"`
	// CreatedAt is the synthetic order timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// OrderItemRecord is one line item of a generated order.
type OrderItemRecord struct {
	// OrderID references the parent order.
	OrderID string `json:"order_id"`
	// ItemType is "ticket" or "protection".
	ItemType string `json:"item_type"`
	// TierID references the ticket tier for ticket lines; empty for protection.
	TierID string `json:"tier_id,omitempty"`
	// Quantity is the unit count of the line.
	Quantity int `json:"quantity"`
	// UnitPriceCents is the per-unit price in minor units.
	UnitPriceCents int `json:"unit_price_cents"`
	// UnitFeeCents is the per-unit fee share in minor units.
	UnitFeeCents int `json:"unit_fee_cents"`
}

// TicketRecord is one generated ticket row.
type TicketRecord struct {
	// OrderID references the parent order.
	OrderID string `json:"order_id"`
	// OrderItemID references the ticket line item.
	OrderItemID string `json:"order_item_id"`
	// TierID references the ticket tier.
	TierID string `json:"tier_id"`
	// EventID references the event.
	EventID string `json:"event_id"`
	// AttendeeName is the holder's synthetic name.
	AttendeeName string `json:"attendee_name"`
	// AttendeeEmail is the holder's synthetic email.
	AttendeeEmail string `json:"attendee_email"`
	// Code is the unique ticket code.
	Code string `json:"code"`
	// Status is derived from the order status (paid orders yield valid tickets).
	Status string `json:"status"`
	// Protected indicates the order carried ticket protection.
	Protected bool `json:"protected"`
}

// RSVPStatus is the response recorded on a generated RSVP.
type RSVPStatus string

const (
	// RSVPStatusGoing marks an affirmative RSVP.
	RSVPStatusGoing RSVPStatus = "going"
	// RSVPStatusMaybe marks an undecided RSVP.
	RSVPStatusMaybe RSVPStatus = "maybe"
	// RSVPStatusNotGoing marks a declined RSVP.
	RSVPStatusNotGoing RSVPStatus = "not_going"
)

// RSVPRecord is one generated RSVP row.
type RSVPRecord struct {
	// EventID references the event.
	EventID string `json:"event_id"`
	// UserID references the responding test user.
	UserID string `json:"user_id"`
	// Status is the RSVP response.
	Status RSVPStatus `json:"status"`
}

// InterestRecord marks a generated test user as interested in the event.
type InterestRecord struct {
	// EventID references the event.
	EventID string `json:"event_id"`
	// UserID references the interested test user.
	UserID string `json:"user_id"`
}

// DeletionCounts reports how many rows of each entity an atomic cleanup removed.
type DeletionCounts struct {
	// Orders is the number of deleted order rows.
	Orders int `json:"orders"`
	// Tickets is the number of deleted ticket rows.
	Tickets int `json:"tickets"`
	// OrderItems is the number of deleted order-item rows.
	OrderItems int `json:"order_items"`
	// Guests is the number of deleted guest rows.
	Guests int `json:"guests"`
	// RSVPs is the number of deleted RSVP rows.
	RSVPs int `json:"rsvps"`
	// Interests is the number of deleted interest rows.
	Interests int `json:"interests"`
	// TestProfiles is the number of deleted test-profile rows.
	TestProfiles int `json:"test_profiles"`
}
