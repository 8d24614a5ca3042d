package domain

import "math"

// FeeBreakdownEntry is one applied fee within a fee calculation.
type FeeBreakdownEntry struct {
	// Name is the fee's identifier (e.g. platform_fee, sales_tax).
	Name string `json:"name"`
	// Type is flat or percentage.
	Type FeeType `json:"type"`
	// Value is the fee's configured value (whole currency units or percent).
	Value float64 `json:"value"`
	// AmountCents is the applied amount in minor units.
	AmountCents int `json:"amount_cents"`
}

// FeeCalculation is the result of stacking fees on a subtotal.
type FeeCalculation struct {
	// Fees lists every applied fee in application order.
	Fees []FeeBreakdownEntry `json:"fees"`
	// TotalFeesCents is the sum of all applied fee amounts.
	TotalFeesCents int `json:"total_fees_cents"`
	// Breakdown maps "<fee name>_cents" to the applied amount.
	Breakdown map[string]int `json:"fee_breakdown"`
}

// CalculateFeesWithTax applies the fee stack to a subtotal. Non-tax fees are
// applied first, in their given order, each percentage computed against the
// bare subtotal. The sales_tax fee is always applied last, against the running
// total of subtotal plus all prior fees. Amounts round half-up at the cent.
// Inactive fees are skipped; an empty fee list yields a zero result.
func CalculateFeesWithTax(subtotalCents int, fees []TicketingFee) FeeCalculation {
	calc := FeeCalculation{
		Fees:      []FeeBreakdownEntry{},
		Breakdown: map[string]int{},
	}

	var salesTax *TicketingFee
	otherFees := make([]TicketingFee, 0, len(fees))
	for i, fee := range fees {
		if !fee.Active {
			continue
		}
		if fee.Name == SalesTaxFeeName && salesTax == nil {
			salesTax = &fees[i]
			continue
		}
		otherFees = append(otherFees, fee)
	}

	runningTotal := subtotalCents
	apply := func(fee TicketingFee, base int) {
		amount := feeAmountCents(fee, base)
		calc.Fees = append(calc.Fees, FeeBreakdownEntry{
			Name:        fee.Name,
			Type:        fee.Type,
			Value:       fee.Value,
			AmountCents: amount,
		})
		calc.TotalFeesCents += amount
		calc.Breakdown[fee.Name+"_cents"] = amount
		runningTotal += amount
	}

	for _, fee := range otherFees {
		apply(fee, subtotalCents)
	}
	if salesTax != nil {
		// Tax-on-fees: the base includes every fee applied above.
		apply(*salesTax, runningTotal)
	}

	return calc
}

// feeAmountCents resolves one fee against its base amount. Flat values are
// given in whole currency units.
func feeAmountCents(fee TicketingFee, baseCents int) int {
	switch fee.Type {
	case FeeTypeFlat:
		return int(math.Round(fee.Value * 100))
	case FeeTypePercentage:
		return int(math.Round(float64(baseCents) * fee.Value / 100))
	default:
		return 0
	}
}
