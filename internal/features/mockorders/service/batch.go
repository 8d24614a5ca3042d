package service

import (
	"context"
	"fmt"
	"time"

	"ticket-mockgen/internal/core/logger"
	"ticket-mockgen/internal/features/mockorders/domain"
	"ticket-mockgen/internal/features/mockorders/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BatchExecutor persists prepared orders against the store. Failures are
// localized to the record that caused them: the affected order is abandoned
// with an error string and every other order in the batch proceeds.
type BatchExecutor struct {
	store ports.Store
}

// NewBatchExecutor creates a BatchExecutor over the store port.
func NewBatchExecutor(store ports.Store) *BatchExecutor {
	return &BatchExecutor{store: store}
}

// Execute writes one batch of prepared orders. For each order, sequentially:
// guest record (guest orders only), order row, line items, tickets. A failed
// stage records an error and skips to the next order. If line items fail after
// the order row was written, the order row is left behind; the writes are
// deliberately non-transactional so the failure contract stays observable.
func (e *BatchExecutor) Execute(ctx context.Context, orders []domain.PreparedOrderData, cfg *domain.MockOrderConfig) domain.BatchResult {
	result := domain.BatchResult{OrderIDs: []string{}, Errors: []string{}}

	for i := range orders {
		order := &orders[i]

		guestID := ""
		if !order.Registered() {
			id, err := e.store.InsertGuest(ctx, domain.Guest{
				Email:    order.GuestEmail,
				FullName: order.GuestName,
			})
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("order %d: failed to create guest: %v", i, err))
				continue
			}
			guestID = id
			result.GuestsCreated++
		}

		orderID, err := e.store.InsertOrder(ctx, domain.OrderRecord{
			EventID:       cfg.EventID,
			UserID:        order.UserID,
			GuestID:       guestID,
			Status:        order.Status,
			SubtotalCents: order.SubtotalCents,
			FeesCents:     order.FeesCents,
			TotalCents:    order.TotalCents,
			FeeBreakdown:  order.FeeBreakdown,
			Currency:      "usd",
			CreatedAt:     order.CreatedAt,
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("order %d: failed to create order: %v", i, err))
			continue
		}
		result.OrdersCreated++
		result.OrderIDs = append(result.OrderIDs, orderID)

		items := []domain.OrderItemRecord{{
			OrderID:        orderID,
			ItemType:       "ticket",
			TierID:         order.TierID,
			Quantity:       order.Quantity,
			UnitPriceCents: order.UnitPriceCents,
			UnitFeeCents:   order.FeesCents / order.Quantity,
		}}
		if order.Protected {
			items = append(items, domain.OrderItemRecord{
				OrderID:        orderID,
				ItemType:       "protection",
				Quantity:       order.Quantity,
				UnitPriceCents: order.ProtectionPriceCents,
			})
		}
		itemIDs, err := e.store.InsertOrderItems(ctx, items)
		if err != nil || len(itemIDs) == 0 {
			if err == nil {
				err = fmt.Errorf("no order items returned")
			}
			result.Errors = append(result.Errors, fmt.Sprintf("order %s: failed to create order items: %v", orderID, err))
			continue
		}

		tickets := make([]domain.TicketRecord, 0, order.Quantity)
		for unit := 0; unit < order.Quantity; unit++ {
			tickets = append(tickets, domain.TicketRecord{
				OrderID:       orderID,
				OrderItemID:   itemIDs[0],
				TierID:        order.TierID,
				EventID:       cfg.EventID,
				AttendeeName:  order.AttendeeName,
				AttendeeEmail: order.AttendeeEmail,
				Code:          ticketCode(orderID, unit),
				Status:        domain.TicketStatusFor(order.Status),
				Protected:     order.Protected,
			})
		}
		written, err := e.store.InsertTickets(ctx, tickets)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("order %s: failed to create tickets: %v", orderID, err))
			continue
		}
		// Trust the store's reported row count so a partial insert stays visible.
		result.TicketsCreated += written
		if written < len(tickets) {
			logger.Get().Warn("Ticket insert wrote fewer rows than requested",
				zap.String("order_id", orderID),
				zap.Int("requested", len(tickets)),
				zap.Int("written", written),
			)
		}
	}

	return result
}

// ticketCode derives a unique ticket code from the order, the unit index, the
// current time and a random suffix.
func ticketCode(orderID string, unit int) string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("TKT-%s-%d-%d-%s", runTag(orderID), unit, time.Now().UnixMilli(), suffix)
}
