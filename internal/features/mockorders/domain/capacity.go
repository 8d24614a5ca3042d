package domain

// CapacityAllocator tracks the remaining sellable inventory per tier for one
// generation run and performs the weighted tier draw among tiers that can
// still satisfy their minimum quantity. State is owned by a single run; the
// allocator is not safe for concurrent use and does not need to be.
type CapacityAllocator struct {
	selections []TierSelection
	remaining  map[string]int
	rnd        *Randomizer
}

// NewCapacityAllocator builds an allocator over the configured tier
// selections, seeding the live capacity map from each tier's remaining
// inventory. Selections referencing tiers absent from tiers start at zero
// capacity and are never eligible.
func NewCapacityAllocator(selections []TierSelection, tiers []TicketTier, rnd *Randomizer) *CapacityAllocator {
	remaining := make(map[string]int, len(tiers))
	for i := range tiers {
		remaining[tiers[i].ID] = tiers[i].RemainingCapacity()
	}
	return &CapacityAllocator{
		selections: selections,
		remaining:  remaining,
		rnd:        rnd,
	}
}

// SelectEligibleTier draws a tier among selections whose remaining capacity
// covers their minimum quantity, weighted by selection weight. The second
// return is false when no tier qualifies, signalling the caller to stop
// allocating for this run.
func (a *CapacityAllocator) SelectEligibleTier() (TierSelection, bool) {
	eligible := make([]TierSelection, 0, len(a.selections))
	weights := make([]int, 0, len(a.selections))
	for _, sel := range a.selections {
		if a.remaining[sel.TierID] >= sel.MinQuantity {
			eligible = append(eligible, sel)
			weights = append(weights, sel.Weight)
		}
	}
	if len(eligible) == 0 {
		return TierSelection{}, false
	}
	idx := a.rnd.WeightedIndex(weights)
	if idx < 0 {
		// Capacity exists but every eligible weight is zero.
		return TierSelection{}, false
	}
	return eligible[idx], true
}

// Remaining reports the live remaining capacity of a tier.
func (a *CapacityAllocator) Remaining(tierID string) int {
	return a.remaining[tierID]
}

// Deduct removes quantity units from a tier's remaining capacity, flooring at
// zero. Deduction happens eagerly at assignment time so later draws in the
// same run can never oversell the tier.
func (a *CapacityAllocator) Deduct(tierID string, quantity int) {
	rest := a.remaining[tierID] - quantity
	if rest < 0 {
		rest = 0
	}
	a.remaining[tierID] = rest
}
