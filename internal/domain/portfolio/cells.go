package portfolio

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01/2006",
	"2006-01",
}

// ParseNumber reads a formatted spreadsheet cell such as "R$ 1,234.56",
// "R$ 1.234,56", "-12.5" or "25,00%". Thousands separators and the currency
// symbol are ignored; a trailing percent sign turns the value into a fraction.
// Cells that do not hold a number are returned as invalid.
func ParseNumber(raw string) decimal.NullDecimal {
	s := strings.TrimSpace(raw)
	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimSpace(s[1:])
	}
	s = strings.TrimPrefix(s, "R$")
	s = strings.NewReplacer(" ", "", "\u00a0", "").Replace(s)

	percent := strings.HasSuffix(s, "%")
	s = normalizeSeparators(strings.TrimSuffix(s, "%"))
	if s == "" || s == "-" {
		return decimal.NullDecimal{}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	if percent {
		d = d.Shift(-2)
	}
	if negative {
		d = d.Neg()
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// normalizeSeparators rewrites s with a dot as the decimal separator and no
// thousands separators. A comma is decimal when it is the last separator and
// one or two digits follow it ("1.234,56", "25,00"); otherwise commas group
// thousands ("1,234.56", "1,000").
func normalizeSeparators(s string) string {
	i := strings.LastIndex(s, ",")
	if i < 0 {
		return s
	}
	frac := s[i+1:]
	if len(frac) >= 1 && len(frac) <= 2 && !strings.ContainsAny(frac, ".,") && allDigits(frac) {
		return strings.ReplaceAll(s[:i], ".", "") + "." + frac
	}
	return strings.ReplaceAll(s, ",", "")
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizeNumber rewrites a cell as a plain decimal, or "" when it does not
// hold a number.
func NormalizeNumber(raw string) string {
	n := ParseNumber(raw)
	if !n.Valid {
		return ""
	}
	return n.Decimal.String()
}

// ParseDate reads day-first dates as entered in the sheet, and month cells
// such as "03/2024". The zero time is returned when the cell is not a date.
func ParseDate(raw string) time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// valueOrZero drops the validity flag of n.
func valueOrZero(n decimal.NullDecimal) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal
}
