package analysis

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid period")

// Period is the granularity used to group dated records.
type Period int

const (
	Day Period = iota
	Month
	Quarter
	Semester
	Year
)

var periodLabels = map[Period]string{
	Day:      "Dia",
	Month:    "Mês",
	Quarter:  "Trimestre",
	Semester: "Semestre",
	Year:     "Ano",
}

var periodParams = map[Period]string{
	Day:      "day",
	Month:    "month",
	Quarter:  "quarter",
	Semester: "semester",
	Year:     "year",
}

var periodAliases = map[string]Period{
	"day": Day, "d": Day, "dia": Day,
	"month": Month, "m": Month, "mês": Month, "mes": Month,
	"quarter": Quarter, "q": Quarter, "trimestre": Quarter,
	"semester": Semester, "s": Semester, "semestre": Semester,
	"year": Year, "y": Year, "ano": Year,
}

// String returns the label shown in the period selector.
func (p Period) String() string {
	if l, ok := periodLabels[p]; ok {
		return l
	}
	return fmt.Sprintf("Period(%d)", int(p))
}

// Param returns the query string value for p.
func (p Period) Param() string {
	return periodParams[p]
}

// ParsePeriod accepts English and Portuguese names and their one-letter
// abbreviations, case-insensitively.
func ParsePeriod(s string) (Period, error) {
	p, ok := periodAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return p, nil
}

// Key formats t as the label of the period bucket it falls into.
func Key(t time.Time, p Period) string {
	switch p {
	case Day:
		return t.Format("2006-01-02")
	case Quarter:
		return fmt.Sprintf("%dQ%d", t.Year(), (int(t.Month())-1)/3+1)
	case Semester:
		return fmt.Sprintf("%dS%d", t.Year(), (int(t.Month())-1)/6+1)
	case Year:
		return fmt.Sprintf("%d", t.Year())
	default:
		return t.Format("2006-01")
	}
}

// ValidPeriods lists the groupings that make sense for the span of dates,
// measured in distinct calendar months. Zero dates are ignored. The result
// is never empty.
func ValidPeriods(dates []time.Time) []Period {
	months := make(map[string]struct{})
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		months[d.Format("2006-01")] = struct{}{}
	}
	n := len(months)

	var out []Period
	if n <= 24 {
		out = append(out, Month)
	}
	if n >= 6 {
		out = append(out, Quarter)
	}
	if n >= 24 {
		out = append(out, Semester)
	}
	if n >= 12 {
		out = append(out, Year)
	}
	return out
}

// Choose returns the requested period when it is one of valid, otherwise
// the first valid option.
func Choose(valid []Period, requested string) Period {
	if len(valid) == 0 {
		return Month
	}
	if p, err := ParsePeriod(requested); err == nil {
		for _, v := range valid {
			if v == p {
				return p
			}
		}
	}
	return valid[0]
}
