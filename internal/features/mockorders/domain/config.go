package domain

import (
	"fmt"
	"time"
)

// DefaultProtectionPriceCents is the per-ticket protection price applied when
// protection is enabled but no explicit price is configured.
const DefaultProtectionPriceCents = 700

// OrderStatus represents the settlement state assigned to a generated order.
type OrderStatus string

const (
	// OrderStatusPaid indicates the order completed payment.
	OrderStatusPaid OrderStatus = "paid"
	// OrderStatusRefunded indicates the order was paid and later refunded.
	OrderStatusRefunded OrderStatus = "refunded"
	// OrderStatusCancelled indicates the order was cancelled before payment settled.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// TicketStatusFor maps an order status to the status stamped on its tickets.
// Paid orders yield valid tickets; any other status is mirrored onto the ticket.
func TicketStatusFor(status OrderStatus) string {
	if status == OrderStatusPaid {
		return "valid"
	}
	return string(status)
}

// TierSelection is one candidate ticket tier for generated orders, with
// per-order quantity bounds and a weight for the random tier draw.
type TierSelection struct {
	// TierID references an existing ticket tier of the target event.
	TierID string `json:"tier_id"`
	// MinQuantity is the smallest ticket count a generated order may carry.
	MinQuantity int `json:"min_quantity"`
	// MaxQuantity is the largest ticket count a generated order may carry.
	MaxQuantity int `json:"max_quantity"`
	// Weight biases the random tier draw. A weight of zero means the tier is
	// never chosen even when it has capacity.
	Weight int `json:"weight"`
}

// StatusDistribution holds the target percentage split of order statuses.
// The three fields must sum to 100.
type StatusDistribution struct {
	// Paid is the percentage of orders generated in the paid status.
	Paid int `json:"paid"`
	// Refunded is the percentage of orders generated in the refunded status.
	Refunded int `json:"refunded"`
	// Cancelled is the percentage of orders generated in the cancelled status.
	Cancelled int `json:"cancelled"`
}

// MockOrderConfig is the immutable request describing one generation run.
type MockOrderConfig struct {
	// EventID is the target event. The event must exist and be in "test" status.
	EventID string `json:"event_id"`
	// TotalOrders is the number of orders requested. Capacity exhaustion may
	// produce fewer.
	TotalOrders int `json:"total_orders"`
	// RegisteredUserRatio (0-100) controls how many orders belong to generated
	// test users instead of guests. The split is a deterministic prefix: the
	// first floor(TotalOrders*ratio/100) orders are registered.
	RegisteredUserRatio int `json:"registered_user_ratio"`
	// TierSelections lists the candidate tiers for the weighted draw.
	TierSelections []TierSelection `json:"tier_selections"`
	// IncludeTicketProtection gates the per-order protection draw.
	IncludeTicketProtection bool `json:"include_ticket_protection"`
	// TicketProtectionRatio (0-100) is the chance each order attaches protection.
	TicketProtectionRatio int `json:"ticket_protection_ratio"`
	// ProtectionPriceCents is the per-ticket protection price. Zero means
	// DefaultProtectionPriceCents.
	ProtectionPriceCents int `json:"protection_price_cents"`
	// DateRangeStart is the inclusive lower bound for order timestamps.
	DateRangeStart time.Time `json:"date_range_start"`
	// DateRangeEnd is the inclusive upper bound for order timestamps.
	DateRangeEnd time.Time `json:"date_range_end"`
	// StatusDistribution is the target paid/refunded/cancelled split.
	StatusDistribution StatusDistribution `json:"status_distribution"`
	// GenerateRSVPs enables the RSVP phase for a share of created test users.
	GenerateRSVPs bool `json:"generate_rsvps"`
	// RSVPRatio (0-100) is the share of created test users that receive an RSVP.
	RSVPRatio int `json:"rsvp_ratio"`
	// GenerateInterests enables the interest phase for a share of created test users.
	GenerateInterests bool `json:"generate_interests"`
	// InterestRatio (0-100) is the share of created test users that receive an
	// interest record.
	InterestRatio int `json:"interest_ratio"`
}

// Validate checks the structural invariants of the config. It does not touch
// the store; existence checks against the event and its tiers happen later.
func (c *MockOrderConfig) Validate() error {
	if c.EventID == "" {
		return fmt.Errorf("event id is required")
	}
	if c.TotalOrders < 0 {
		return fmt.Errorf("total orders must be >= 0, got %d", c.TotalOrders)
	}
	for _, ratio := range []struct {
		name  string
		value int
	}{
		{"registered user ratio", c.RegisteredUserRatio},
		{"ticket protection ratio", c.TicketProtectionRatio},
		{"rsvp ratio", c.RSVPRatio},
		{"interest ratio", c.InterestRatio},
	} {
		if ratio.value < 0 || ratio.value > 100 {
			return fmt.Errorf("%s must be in [0,100], got %d", ratio.name, ratio.value)
		}
	}
	if c.ProtectionPriceCents < 0 {
		return fmt.Errorf("protection price must be >= 0, got %d", c.ProtectionPriceCents)
	}
	if c.DateRangeEnd.Before(c.DateRangeStart) {
		return fmt.Errorf("date range end precedes start")
	}
	if len(c.TierSelections) == 0 {
		return fmt.Errorf("at least one tier selection is required")
	}
	for i, sel := range c.TierSelections {
		if sel.TierID == "" {
			return fmt.Errorf("tier selection %d: tier id is required", i)
		}
		if sel.MinQuantity < 1 {
			return fmt.Errorf("tier selection %d: min quantity must be >= 1, got %d", i, sel.MinQuantity)
		}
		if sel.MaxQuantity < sel.MinQuantity {
			return fmt.Errorf("tier selection %d: max quantity %d below min quantity %d", i, sel.MaxQuantity, sel.MinQuantity)
		}
		if sel.Weight < 0 {
			return fmt.Errorf("tier selection %d: weight must be >= 0, got %d", i, sel.Weight)
		}
	}
	dist := c.StatusDistribution
	if dist.Paid < 0 || dist.Refunded < 0 || dist.Cancelled < 0 {
		return fmt.Errorf("status distribution percentages must be >= 0")
	}
	if sum := dist.Paid + dist.Refunded + dist.Cancelled; sum != 100 {
		return fmt.Errorf("status distribution must sum to 100, got %d", sum)
	}
	return nil
}

// EffectiveProtectionPriceCents resolves the protection price, applying the
// default when the config leaves it unset.
func (c *MockOrderConfig) EffectiveProtectionPriceCents() int {
	if c.ProtectionPriceCents > 0 {
		return c.ProtectionPriceCents
	}
	return DefaultProtectionPriceCents
}
