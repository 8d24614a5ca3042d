package service

import (
	"ticket-mockgen/internal/features/mockorders/domain"
)

// OrderPreparer resolves a generation config into fully-prepared order data.
// Preparation is side-effect free: it draws from the randomizer and mutates
// only the run-local capacity allocator, never the store.
type OrderPreparer struct {
	rnd *domain.Randomizer
}

// NewOrderPreparer creates an OrderPreparer over the run's randomizer.
func NewOrderPreparer(rnd *domain.Randomizer) *OrderPreparer {
	return &OrderPreparer{rnd: rnd}
}

// Prepare builds up to cfg.TotalOrders prepared orders. The first
// floor(TotalOrders*RegisteredUserRatio/100) slots are assigned to the given
// users in order; the rest become guest orders with synthetic identities.
// The boolean return is true when capacity ran out before every requested
// slot was filled.
func (p *OrderPreparer) Prepare(
	runID string,
	cfg *domain.MockOrderConfig,
	users []CreatedUser,
	tiers []domain.TicketTier,
	fees []domain.TicketingFee,
) ([]domain.PreparedOrderData, bool) {
	priceByTier := make(map[string]int, len(tiers))
	for _, tier := range tiers {
		priceByTier[tier.ID] = tier.PriceCents
	}

	allocator := domain.NewCapacityAllocator(cfg.TierSelections, tiers, p.rnd)
	registered := cfg.TotalOrders * cfg.RegisteredUserRatio / 100
	protectionPrice := cfg.EffectiveProtectionPriceCents()

	prepared := make([]domain.PreparedOrderData, 0, cfg.TotalOrders)
	for i := 0; i < cfg.TotalOrders; i++ {
		selection, ok := allocator.SelectEligibleTier()
		if !ok {
			return prepared, true
		}

		remaining := allocator.Remaining(selection.TierID)
		maxQty := min(selection.MaxQuantity, remaining)
		if maxQty < selection.MinQuantity {
			// The slot cannot meet the tier's minimum; skip it without
			// touching capacity.
			continue
		}
		quantity := p.rnd.IntBetween(min(selection.MinQuantity, remaining), maxQty)
		allocator.Deduct(selection.TierID, quantity)

		order := domain.PreparedOrderData{
			CreatedAt:      p.rnd.TimeBetween(cfg.DateRangeStart, cfg.DateRangeEnd),
			TierID:         selection.TierID,
			UnitPriceCents: priceByTier[selection.TierID],
			Quantity:       quantity,
			Status:         p.drawStatus(cfg.StatusDistribution),
		}

		if i < registered && i < len(users) {
			order.UserID = users[i].ID
			order.AttendeeName = users[i].DisplayName
			order.AttendeeEmail = users[i].Email
		} else {
			name, email := syntheticIdentity(runID, i)
			order.GuestName = name
			order.GuestEmail = email
			order.AttendeeName = name
			order.AttendeeEmail = email
		}

		if cfg.IncludeTicketProtection && p.rnd.Chance(cfg.TicketProtectionRatio) {
			order.Protected = true
			order.ProtectionPriceCents = protectionPrice
		}

		order.SubtotalCents = order.UnitPriceCents * quantity
		if order.Protected {
			order.SubtotalCents += order.ProtectionPriceCents * quantity
		}

		calc := domain.CalculateFeesWithTax(order.SubtotalCents, fees)
		order.FeesCents = calc.TotalFeesCents
		order.TotalCents = order.SubtotalCents + calc.TotalFeesCents
		order.FeeBreakdown = calc.Breakdown

		prepared = append(prepared, order)
	}
	return prepared, false
}

// drawStatus resolves one order status by walking the cumulative distribution.
func (p *OrderPreparer) drawStatus(dist domain.StatusDistribution) domain.OrderStatus {
	draw := p.rnd.IntBetween(0, 99)
	switch {
	case draw < dist.Paid:
		return domain.OrderStatusPaid
	case draw < dist.Paid+dist.Refunded:
		return domain.OrderStatusRefunded
	default:
		return domain.OrderStatusCancelled
	}
}
