package http

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"wallet/internal/domain/portfolio"
)

const currency = money.BRL

var printer = message.NewPrinter(language.BrazilianPortuguese)

// formatMoney renders an amount in reais, e.g. R$1.234,56.
func formatMoney(d decimal.Decimal) string {
	cur := money.GetCurrency(currency)
	cents := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(cents)
}

// formatPercent renders a fraction as a percentage, e.g. 0.1234 as 12,34%.
func formatPercent(fraction decimal.Decimal) string {
	return printer.Sprintf("%.2f%%", fraction.Shift(2).InexactFloat64())
}

// Column kinds are read from the header: "(R$)" marks amounts in reais and
// "%" marks fractions shown as percentages.
func isMoneyColumn(name string) bool   { return strings.Contains(name, "(R$)") }
func isPercentColumn(name string) bool { return strings.Contains(name, "%") }

// Cell is a formatted table cell.
type Cell struct {
	Text     string
	Numeric  bool
	Negative bool
}

// formatCell formats raw according to its column. Cells that do not parse
// as numbers are shown untouched.
func formatCell(column, raw string) Cell {
	if !isMoneyColumn(column) && !isPercentColumn(column) {
		return Cell{Text: raw}
	}
	n := portfolio.ParseNumber(raw)
	if !n.Valid {
		return Cell{Text: raw}
	}
	c := Cell{Numeric: true, Negative: n.Decimal.IsNegative()}
	if isPercentColumn(column) {
		c.Text = formatPercent(n.Decimal)
	} else {
		c.Text = formatMoney(n.Decimal)
	}
	return c
}
