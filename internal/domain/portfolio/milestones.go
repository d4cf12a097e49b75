package portfolio

import "github.com/shopspring/decimal"

// Milestone is one of the fixed patrimony targets shown on the home page.
type Milestone struct {
	Amount   decimal.Decimal
	Achieved bool
}

var milestoneAmounts = []int64{
	25_000, 50_000, 75_000, 100_000,
	250_000, 500_000, 750_000, 1_000_000,
	2_500_000, 5_000_000, 7_500_000, 10_000_000,
}

// MilestonesFor marks the targets already reached by current. An invalid
// current value reaches none.
func MilestonesFor(current decimal.NullDecimal) []Milestone {
	out := make([]Milestone, len(milestoneAmounts))
	for i, a := range milestoneAmounts {
		amount := decimal.NewFromInt(a)
		out[i] = Milestone{
			Amount:   amount,
			Achieved: current.Valid && current.Decimal.GreaterThanOrEqual(amount),
		}
	}
	return out
}
