package simulation

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrInvalidParams   = errors.New("invalid simulation parameters")
	ErrGoalUnreachable = errors.New("goal not reached within the simulation horizon")
)

// MaxMonths bounds the projection. A goal that grows with inflation faster
// than the balance never converges.
const MaxMonths = 1200

// Params are the inputs of a time-to-goal projection. Rates are fractions:
// 0.0077 is 0.77% a month.
type Params struct {
	InitialInvestment            float64
	MonthlyContribution          float64
	MonthlyRate                  float64
	AnnualInflation              float64
	Goal                         float64
	AnnualContributionAdjustment float64
	Start                        time.Time
}

// DefaultParams mirrors the values the simulation form opens with.
func DefaultParams(now time.Time) Params {
	return Params{
		InitialInvestment:            10000,
		MonthlyContribution:          500,
		MonthlyRate:                  0.0077,
		AnnualInflation:              0.045,
		Goal:                         100000,
		AnnualContributionAdjustment: 0.05,
		Start:                        time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
	}
}

func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"initial investment", p.InitialInvestment},
		{"monthly contribution", p.MonthlyContribution},
		{"monthly rate", p.MonthlyRate},
		{"annual inflation", p.AnnualInflation},
		{"goal", p.Goal},
		{"annual contribution adjustment", p.AnnualContributionAdjustment},
	}
	for _, f := range fields {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidParams, f.name)
		}
	}
	if p.Start.IsZero() {
		return fmt.Errorf("%w: start month is required", ErrInvalidParams)
	}
	return nil
}

// Month is one row of the projection.
type Month struct {
	Month        time.Time
	Contribution float64
	Balance      float64
	Income       float64
	Rate         float64
}

// Result summarises when the goal is reached.
type Result struct {
	Params Params
	// Years and Months split TotalMonths into whole years and the remainder.
	Years               int
	Months              int
	TotalMonths         int
	AdjustedGoal        float64
	MonthlyContribution float64
	Expected            time.Time
	Rows                []Month
}

// ExpectedYearMonth formats the month the goal is reached as YYYY-MM.
func (r *Result) ExpectedYearMonth() string {
	return r.Expected.Format("2006-01")
}

// Run projects the balance month by month until it reaches the goal, which is
// itself corrected by inflation every month. Each month's contribution is the
// base contribution plus the previous month's return, and the base
// contribution grows by the annual adjustment every twelve months.
func Run(p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	start := time.Date(p.Start.Year(), p.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthlyInflation := math.Pow(1+p.AnnualInflation, 1.0/12) - 1

	balance := p.InitialInvestment
	goal := p.Goal
	contribution := p.MonthlyContribution
	lastReturn := 0.0
	months := 0
	current := start

	var rows []Month
	for balance < goal {
		if months >= MaxMonths {
			return nil, fmt.Errorf("%w (%d months)", ErrGoalUnreachable, MaxMonths)
		}

		adjusted := contribution + lastReturn
		ret := balance * p.MonthlyRate
		balance += ret + adjusted
		goal *= 1 + monthlyInflation

		rows = append(rows, Month{
			Month:        current,
			Contribution: round2(adjusted),
			Balance:      round2(balance),
			Income:       round2(ret),
			Rate:         p.MonthlyRate,
		})

		months++
		current = current.AddDate(0, 1, 0)
		lastReturn = ret

		if months%12 == 0 {
			contribution *= 1 + p.AnnualContributionAdjustment
		}
	}

	return &Result{
		Params:              p,
		Years:               months / 12,
		Months:              months % 12,
		TotalMonths:         months,
		AdjustedGoal:        goal,
		MonthlyContribution: contribution,
		Expected:            start.AddDate(0, months, 0),
		Rows:                rows,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
