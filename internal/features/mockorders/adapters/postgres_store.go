package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ticket-mockgen/internal/features/mockorders/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements ports.Store against the platform's Postgres
// database. Every method is one round trip except the atomic cleanup, which
// runs in a single transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects a pgx pool to the given database URL.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Ping verifies database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// GetEvent fetches the event row, or nil when it does not exist.
func (s *PostgresStore) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	var event domain.Event
	err := s.pool.QueryRow(ctx,
		`SELECT id, status, title, COALESCE(rsvp_capacity, 0) FROM events WHERE id = $1`,
		eventID,
	).Scan(&event.ID, &event.Status, &event.Title, &event.RSVPCapacity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event %s: %w", eventID, err)
	}
	return &event, nil
}

// ListTiers fetches the ticket tiers of an event.
func (s *PostgresStore) ListTiers(ctx context.Context, eventID string) ([]domain.TicketTier, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, price_cents, total_tickets, sold_tickets, available_tickets
		 FROM ticket_tiers WHERE event_id = $1 ORDER BY price_cents`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tiers for event %s: %w", eventID, err)
	}
	defer rows.Close()

	var tiers []domain.TicketTier
	for rows.Next() {
		var tier domain.TicketTier
		if err := rows.Scan(&tier.ID, &tier.PriceCents, &tier.TotalTickets, &tier.SoldTickets, &tier.AvailableTickets); err != nil {
			return nil, fmt.Errorf("failed to scan tier row: %w", err)
		}
		tiers = append(tiers, tier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tier rows: %w", err)
	}
	return tiers, nil
}

// ListActiveFees fetches active fees scoped to the given environment or to
// the wildcard "all" environment, preserving the configured ordering.
func (s *PostgresStore) ListActiveFees(ctx context.Context, environment string) ([]domain.TicketingFee, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, type, value, active, environment
		 FROM ticketing_fees
		 WHERE active AND environment IN ($1, 'all')
		 ORDER BY sort_order, name`,
		environment,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fees: %w", err)
	}
	defer rows.Close()

	var fees []domain.TicketingFee
	for rows.Next() {
		var fee domain.TicketingFee
		if err := rows.Scan(&fee.ID, &fee.Name, &fee.Type, &fee.Value, &fee.Active, &fee.Environment); err != nil {
			return nil, fmt.Errorf("failed to scan fee row: %w", err)
		}
		fees = append(fees, fee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fee rows: %w", err)
	}
	return fees, nil
}

// InsertTestProfile creates a test-user profile and returns its id.
func (s *PostgresStore) InsertTestProfile(ctx context.Context, profile domain.TestProfile) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`INSERT INTO test_profiles (email, display_name) VALUES ($1, $2) RETURNING id`,
		profile.Email, profile.DisplayName,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert test profile: %w", err)
	}
	return id, nil
}

// InsertGuest creates a guest record and returns its id.
func (s *PostgresStore) InsertGuest(ctx context.Context, guest domain.Guest) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`INSERT INTO guests (email, full_name) VALUES ($1, $2) RETURNING id`,
		guest.Email, guest.FullName,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert guest: %w", err)
	}
	return id, nil
}

// InsertOrder creates an order row and returns its id.
func (s *PostgresStore) InsertOrder(ctx context.Context, order domain.OrderRecord) (string, error) {
	breakdown, err := json.Marshal(order.FeeBreakdown)
	if err != nil {
		return "", fmt.Errorf("failed to marshal fee breakdown: %w", err)
	}

	var id string
	err = s.pool.QueryRow(ctx,
		`INSERT INTO orders (event_id, user_id, guest_id, status, subtotal_cents, fees_cents, total_cents, fee_breakdown, currency, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		order.EventID,
		nullIfEmpty(order.UserID),
		nullIfEmpty(order.GuestID),
		string(order.Status),
		order.SubtotalCents,
		order.FeesCents,
		order.TotalCents,
		breakdown,
		order.Currency,
		order.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert order: %w", err)
	}
	return id, nil
}

// InsertOrderItems creates the line items of an order in one batch and
// returns their ids in input order.
func (s *PostgresStore) InsertOrderItems(ctx context.Context, items []domain.OrderItemRecord) ([]string, error) {
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(
			`INSERT INTO order_items (order_id, item_type, tier_id, quantity, unit_price_cents, unit_fee_cents)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			item.OrderID,
			item.ItemType,
			nullIfEmpty(item.TierID),
			item.Quantity,
			item.UnitPriceCents,
			item.UnitFeeCents,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	ids := make([]string, 0, len(items))
	for range items {
		var id string
		if err := results.QueryRow().Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// InsertTickets bulk-copies ticket rows and returns the number actually
// written.
func (s *PostgresStore) InsertTickets(ctx context.Context, tickets []domain.TicketRecord) (int, error) {
	rows := make([][]any, 0, len(tickets))
	for _, ticket := range tickets {
		rows = append(rows, []any{
			ticket.OrderID,
			ticket.OrderItemID,
			ticket.TierID,
			ticket.EventID,
			ticket.AttendeeName,
			ticket.AttendeeEmail,
			ticket.Code,
			ticket.Status,
			ticket.Protected,
		})
	}

	written, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"tickets"},
		[]string{"order_id", "order_item_id", "tier_id", "event_id", "attendee_name", "attendee_email", "code", "status", "protected"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return int(written), fmt.Errorf("failed to insert tickets: %w", err)
	}
	return int(written), nil
}

// InsertRSVP creates an RSVP row.
func (s *PostgresStore) InsertRSVP(ctx context.Context, rsvp domain.RSVPRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO event_rsvps (event_id, user_id, status) VALUES ($1, $2, $3)`,
		rsvp.EventID, rsvp.UserID, string(rsvp.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert rsvp: %w", err)
	}
	return nil
}

// InsertInterest creates an interest row.
func (s *PostgresStore) InsertInterest(ctx context.Context, interest domain.InterestRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO event_interests (event_id, user_id) VALUES ($1, $2)`,
		interest.EventID, interest.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert interest: %w", err)
	}
	return nil
}

// DeleteEventTestData removes every generated row for an event inside one
// transaction and reports per-entity deleted counts. Profile and guest
// deletions run before orders so the order rows can still identify them.
func (s *PostgresStore) DeleteEventTestData(ctx context.Context, eventID string) (*domain.DeletionCounts, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin deletion transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	counts := &domain.DeletionCounts{}
	statements := []struct {
		dest *int
		sql  string
	}{
		{&counts.Tickets, `DELETE FROM tickets WHERE event_id = $1`},
		{&counts.OrderItems, `DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE event_id = $1)`},
		{&counts.RSVPs, `DELETE FROM event_rsvps WHERE event_id = $1`},
		{&counts.Interests, `DELETE FROM event_interests WHERE event_id = $1`},
		{&counts.Guests, `DELETE FROM guests WHERE id IN (SELECT guest_id FROM orders WHERE event_id = $1 AND guest_id IS NOT NULL)`},
		{&counts.TestProfiles, `DELETE FROM test_profiles WHERE id IN (SELECT user_id FROM orders WHERE event_id = $1 AND user_id IS NOT NULL)`},
		{&counts.Orders, `DELETE FROM orders WHERE event_id = $1`},
	}
	for _, stmt := range statements {
		tag, err := tx.Exec(ctx, stmt.sql, eventID)
		if err != nil {
			return nil, fmt.Errorf("failed to delete test data for event %s: %w", eventID, err)
		}
		*stmt.dest = int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit deletion transaction: %w", err)
	}
	return counts, nil
}

// nullIfEmpty maps empty strings to SQL NULL.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
