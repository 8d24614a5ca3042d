package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticket-mockgen/internal/features/mockorders/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func preparedOrders(n int, registered bool) []domain.PreparedOrderData {
	orders := make([]domain.PreparedOrderData, 0, n)
	for i := 0; i < n; i++ {
		order := domain.PreparedOrderData{
			AttendeeName:   "Test Attendee",
			AttendeeEmail:  "attendee@loadtest.local",
			CreatedAt:      time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
			TierID:         "A",
			UnitPriceCents: 5000,
			Quantity:       2,
			Status:         domain.OrderStatusPaid,
			SubtotalCents:  10000,
			FeesCents:      1000,
			TotalCents:     11000,
			FeeBreakdown:   map[string]int{"platform_fee_cents": 1000},
		}
		if registered {
			order.UserID = "user-1"
		} else {
			order.GuestEmail = "guest@loadtest.local"
			order.GuestName = "Guest Person"
		}
		orders = append(orders, order)
	}
	return orders
}

// TestBatchExecutor_Success verifies the counts and ids of a clean batch of
// guest orders.
func TestBatchExecutor_Success(t *testing.T) {
	store := &fakeStore{}
	executor := NewBatchExecutor(store)
	cfg := testConfig(5)

	result := executor.Execute(context.Background(), preparedOrders(5, false), cfg)

	assert.Empty(t, result.Errors)
	assert.Equal(t, 5, result.OrdersCreated)
	assert.Equal(t, 5, result.GuestsCreated)
	assert.Equal(t, 10, result.TicketsCreated)
	assert.Len(t, result.OrderIDs, 5)
	assert.Len(t, store.tickets, 10)
}

// TestBatchExecutor_RegisteredOrdersSkipGuests verifies registered orders
// never create guest rows.
func TestBatchExecutor_RegisteredOrdersSkipGuests(t *testing.T) {
	store := &fakeStore{}
	executor := NewBatchExecutor(store)

	result := executor.Execute(context.Background(), preparedOrders(3, true), testConfig(3))

	assert.Empty(t, result.Errors)
	assert.Zero(t, result.GuestsCreated)
	assert.Empty(t, store.guests)
	assert.Equal(t, "user-1", store.orders[0].UserID)
}

// TestBatchExecutor_PartialFailureIsolation verifies one failed order-item
// insert in a batch of 20 leaves the other orders intact: the order row count
// still includes the failed order, the error list is non-empty, and the
// ticket count excludes the failed order's tickets.
func TestBatchExecutor_PartialFailureIsolation(t *testing.T) {
	store := &fakeStore{
		itemsErr: func(n int) error {
			if n == 7 {
				return errors.New("insert failed")
			}
			return nil
		},
	}
	executor := NewBatchExecutor(store)

	result := executor.Execute(context.Background(), preparedOrders(20, false), testConfig(20))

	assert.Equal(t, 20, result.OrdersCreated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "failed to create order items")
	assert.Equal(t, 38, result.TicketsCreated)
}

// TestBatchExecutor_GuestFailureSkipsOrder verifies a failed guest insert
// abandons that order before any order row is written.
func TestBatchExecutor_GuestFailureSkipsOrder(t *testing.T) {
	calls := 0
	store := &fakeStore{
		guestErr: func(n int) error {
			calls++
			if calls == 1 {
				return errors.New("guest insert failed")
			}
			return nil
		},
	}
	executor := NewBatchExecutor(store)

	result := executor.Execute(context.Background(), preparedOrders(4, false), testConfig(4))

	assert.Equal(t, 3, result.OrdersCreated)
	assert.Equal(t, 3, result.GuestsCreated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "failed to create guest")
	assert.Len(t, store.orders, 3)
}

// TestBatchExecutor_OrderFailure verifies a failed order insert records an
// error and writes no items or tickets for that order.
func TestBatchExecutor_OrderFailure(t *testing.T) {
	store := &fakeStore{
		orderErr: func(n int) error {
			if n == 0 {
				return errors.New("order insert failed")
			}
			return nil
		},
	}
	executor := NewBatchExecutor(store)

	result := executor.Execute(context.Background(), preparedOrders(3, false), testConfig(3))

	assert.Equal(t, 2, result.OrdersCreated)
	assert.Equal(t, 4, result.TicketsCreated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "failed to create order")
}

// TestBatchExecutor_TicketFailure verifies a failed ticket insert keeps the
// order counted but excludes its tickets.
func TestBatchExecutor_TicketFailure(t *testing.T) {
	store := &fakeStore{
		ticketsErr: func(n int) error {
			if n == 1 {
				return errors.New("ticket insert failed")
			}
			return nil
		},
	}
	executor := NewBatchExecutor(store)

	result := executor.Execute(context.Background(), preparedOrders(3, false), testConfig(3))

	assert.Equal(t, 3, result.OrdersCreated)
	assert.Equal(t, 4, result.TicketsCreated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "failed to create tickets")
}

// TestBatchExecutor_ProtectionLineItem verifies protected orders produce a
// second line item and protected ticket rows.
func TestBatchExecutor_ProtectionLineItem(t *testing.T) {
	store := &fakeStore{}
	executor := NewBatchExecutor(store)

	orders := preparedOrders(1, false)
	orders[0].Protected = true
	orders[0].ProtectionPriceCents = 300

	result := executor.Execute(context.Background(), orders, testConfig(1))

	assert.Empty(t, result.Errors)
	require.Len(t, store.items, 2)
	assert.Equal(t, "ticket", store.items[0].ItemType)
	assert.Equal(t, "protection", store.items[1].ItemType)
	assert.Equal(t, 300, store.items[1].UnitPriceCents)
	for _, ticket := range store.tickets {
		assert.True(t, ticket.Protected)
	}
}

// TestBatchExecutor_TicketCodesUnique verifies generated ticket codes do not
// collide within a batch.
func TestBatchExecutor_TicketCodesUnique(t *testing.T) {
	store := &fakeStore{}
	executor := NewBatchExecutor(store)

	executor.Execute(context.Background(), preparedOrders(10, false), testConfig(10))

	seen := map[string]bool{}
	for _, ticket := range store.tickets {
		assert.False(t, seen[ticket.Code], "duplicate ticket code %s", ticket.Code)
		seen[ticket.Code] = true
	}
}

// TestBatchExecutor_TicketStatusMirrorsOrder verifies the order-to-ticket
// status mapping on written rows.
func TestBatchExecutor_TicketStatusMirrorsOrder(t *testing.T) {
	store := &fakeStore{}
	executor := NewBatchExecutor(store)

	orders := preparedOrders(2, false)
	orders[1].Status = domain.OrderStatusRefunded

	executor.Execute(context.Background(), orders, testConfig(2))

	require.Len(t, store.tickets, 4)
	assert.Equal(t, "valid", store.tickets[0].Status)
	assert.Equal(t, "refunded", store.tickets[2].Status)
}
