package ports

import (
	"context"

	"ticket-mockgen/internal/features/mockorders/domain"
)

// Store defines the narrow boundary to the external data store backing the
// ticketing platform. This is a Secondary Port (Driven Port); every method
// maps to one insert/select/delete against the backing tables.
type Store interface {
	// GetEvent fetches the event row, or nil when it does not exist.
	GetEvent(ctx context.Context, eventID string) (*domain.Event, error)

	// ListTiers fetches the ticket tiers of an event.
	ListTiers(ctx context.Context, eventID string) ([]domain.TicketTier, error)

	// ListActiveFees fetches active fees scoped to the given environment or to
	// the wildcard "all" environment.
	ListActiveFees(ctx context.Context, environment string) ([]domain.TicketingFee, error)

	// InsertTestProfile creates a test-user profile and returns its id.
	InsertTestProfile(ctx context.Context, profile domain.TestProfile) (string, error)

	// InsertGuest creates a guest record and returns its id.
	InsertGuest(ctx context.Context, guest domain.Guest) (string, error)

	// InsertOrder creates an order row and returns its id.
	InsertOrder(ctx context.Context, order domain.OrderRecord) (string, error)

	// InsertOrderItems creates the line items of an order and returns their
	// ids in input order.
	InsertOrderItems(ctx context.Context, items []domain.OrderItemRecord) ([]string, error)

	// InsertTickets creates ticket rows in one call and returns the number of
	// rows actually written.
	InsertTickets(ctx context.Context, tickets []domain.TicketRecord) (int, error)

	// InsertRSVP creates an RSVP row.
	InsertRSVP(ctx context.Context, rsvp domain.RSVPRecord) error

	// InsertInterest creates an interest row.
	InsertInterest(ctx context.Context, interest domain.InterestRecord) error

	// DeleteEventTestData atomically removes every generated row for an event
	// and reports per-entity deleted counts. Partial application is never
	// observable: the deletion either fully commits or fully rolls back.
	DeleteEventTestData(ctx context.Context, eventID string) (*domain.DeletionCounts, error)
}
