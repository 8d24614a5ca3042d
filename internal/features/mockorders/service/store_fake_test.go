package service

import (
	"context"
	"fmt"
	"sync"

	"ticket-mockgen/internal/features/mockorders/domain"
)

// fakeStore is an in-memory ports.Store for service tests. Failure hooks take
// the zero-based call index of their method so single records can be failed.
// Writes are mutex-guarded; a single store may back concurrent runs.
type fakeStore struct {
	mu sync.Mutex

	event    *domain.Event
	eventErr error
	tiers    []domain.TicketTier
	tiersErr error
	fees     []domain.TicketingFee
	feesErr  error

	profileErr func(n int) error
	guestErr   func(n int) error
	orderErr   func(n int) error
	itemsErr   func(n int) error
	ticketsErr func(n int) error
	rsvpErr    func(n int) error

	profiles  []domain.TestProfile
	guests    []domain.Guest
	orders    []domain.OrderRecord
	items     []domain.OrderItemRecord
	tickets   []domain.TicketRecord
	rsvps     []domain.RSVPRecord
	interests []domain.InterestRecord

	profileCalls int
	orderCalls   int
	itemCalls    int
	ticketCalls  int

	deleteCounts *domain.DeletionCounts
	deleteErr    error
	deletedEvent string
}

func (f *fakeStore) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	return f.event, f.eventErr
}

func (f *fakeStore) ListTiers(ctx context.Context, eventID string) ([]domain.TicketTier, error) {
	return f.tiers, f.tiersErr
}

func (f *fakeStore) ListActiveFees(ctx context.Context, environment string) ([]domain.TicketingFee, error) {
	return f.fees, f.feesErr
}

func (f *fakeStore) InsertTestProfile(ctx context.Context, profile domain.TestProfile) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.profileCalls
	f.profileCalls++
	if f.profileErr != nil {
		if err := f.profileErr(n); err != nil {
			return "", err
		}
	}
	f.profiles = append(f.profiles, profile)
	return fmt.Sprintf("user-%d", len(f.profiles)), nil
}

func (f *fakeStore) InsertGuest(ctx context.Context, guest domain.Guest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.guestErr != nil {
		if err := f.guestErr(len(f.guests)); err != nil {
			return "", err
		}
	}
	f.guests = append(f.guests, guest)
	return fmt.Sprintf("guest-%d", len(f.guests)), nil
}

func (f *fakeStore) InsertOrder(ctx context.Context, order domain.OrderRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.orderCalls
	f.orderCalls++
	if f.orderErr != nil {
		if err := f.orderErr(n); err != nil {
			return "", err
		}
	}
	f.orders = append(f.orders, order)
	return fmt.Sprintf("order-%d", len(f.orders)), nil
}

func (f *fakeStore) InsertOrderItems(ctx context.Context, items []domain.OrderItemRecord) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.itemCalls
	f.itemCalls++
	if f.itemsErr != nil {
		if err := f.itemsErr(n); err != nil {
			return nil, err
		}
	}
	ids := make([]string, 0, len(items))
	for range items {
		f.items = append(f.items, items[len(ids)])
		ids = append(ids, fmt.Sprintf("item-%d", len(f.items)))
	}
	return ids, nil
}

func (f *fakeStore) InsertTickets(ctx context.Context, tickets []domain.TicketRecord) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.ticketCalls
	f.ticketCalls++
	if f.ticketsErr != nil {
		if err := f.ticketsErr(n); err != nil {
			return 0, err
		}
	}
	f.tickets = append(f.tickets, tickets...)
	return len(tickets), nil
}

func (f *fakeStore) InsertRSVP(ctx context.Context, rsvp domain.RSVPRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rsvpErr != nil {
		if err := f.rsvpErr(len(f.rsvps)); err != nil {
			return err
		}
	}
	f.rsvps = append(f.rsvps, rsvp)
	return nil
}

func (f *fakeStore) InsertInterest(ctx context.Context, interest domain.InterestRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interests = append(f.interests, interest)
	return nil
}

func (f *fakeStore) DeleteEventTestData(ctx context.Context, eventID string) (*domain.DeletionCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedEvent = eventID
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	if f.deleteCounts != nil {
		return f.deleteCounts, nil
	}
	return &domain.DeletionCounts{}, nil
}
