package portfolio

import (
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/shopspring/decimal"

	"wallet/internal/domain/analysis"
)

// Column names shared by several worksheets.
const (
	ColAsset      = "Ativo"
	ColAssetType  = "Tipo Ativo"
	ColStatus     = "Status"
	ColTotal      = "Total (R$)"
	ColMonth      = "Mês"
	ColMonthYear  = "Mês/Ano"
	ColFinalDay   = "Dia Final"
	ColTradeDate  = "Data Negócio"
	ColDate       = "Data"
	ColSide       = "Compra/Venda"
	ColPrice      = "Preço (R$)"
	ColPriceTotal = "Preço Total (R$)"
	ColIncomeKind = "Tipo Provento"
	ColNetValue   = "Valor Líquido (R$)"
)

// Status values of the results worksheet.
const (
	StatusActive     = "Ativo na Carteira"
	StatusLiquidated = "Ativo Liquidado"
)

// Transaction sides.
const (
	SideBuy  = "C"
	SideSell = "V"
)

// PortfolioGroup selects the whole-portfolio columns of the dividends worksheet.
const PortfolioGroup = "Carteira"

// Overview is the headline row of the general worksheet.
type Overview struct {
	Spent       decimal.NullDecimal
	Invested    decimal.NullDecimal
	Variation   decimal.NullDecimal
	TotalGain   decimal.NullDecimal
	Income      decimal.NullDecimal
	Sold        decimal.NullDecimal
	SalesProfit decimal.NullDecimal
}

// Goal is the goal block of the general worksheet.
type Goal struct {
	Frame dataframe.DataFrame
}

// Current is the value invested so far, held in the second column.
func (g *Goal) Current() decimal.NullDecimal {
	if Empty(g.Frame) || g.Frame.Ncol() < 2 {
		return decimal.NullDecimal{}
	}
	return ParseNumber(g.Frame.Elem(0, 1).String())
}

// Positions are the holdings of one asset class, without the totals row.
type Positions struct {
	Class AssetClass
	Frame dataframe.DataFrame
}

// Slice is one share of a breakdown.
type Slice struct {
	Label string
	Value decimal.Decimal
}

// Share sums the position totals by the labels of column, in the order the
// labels first appear.
func (p *Positions) Share(col string) []Slice {
	labels := column(p.Frame, col)
	totals := column(p.Frame, ColTotal)
	if labels == nil || totals == nil {
		return nil
	}

	var out []Slice
	index := make(map[string]int)
	for i, label := range labels {
		v := ParseNumber(totals[i])
		if !v.Valid {
			continue
		}
		j, ok := index[label]
		if !ok {
			j = len(out)
			index[label] = j
			out = append(out, Slice{Label: label, Value: decimal.Zero})
		}
		out[j].Value = out[j].Value.Add(v.Decimal)
	}
	return out
}

// Results splits the results worksheet of one asset type by status.
type Results struct {
	Active     dataframe.DataFrame
	Liquidated dataframe.DataFrame
}

// DividendSummary is the monthly dividend table of one group.
type DividendSummary struct {
	Group string
	Frame dataframe.DataFrame
}

// YieldColumn names the dividend yield column of the group.
func (d *DividendSummary) YieldColumn() string {
	return "DY - " + d.Group + " (%)"
}

// Yield returns the dividend yield per month, dated by the last day of the
// month and falling back to the month label.
func (d *DividendSummary) Yield() []analysis.Record {
	yields := column(d.Frame, d.YieldColumn())
	days := column(d.Frame, ColFinalDay)
	months := column(d.Frame, ColMonth)

	var out []analysis.Record
	for i, raw := range yields {
		v := ParseNumber(raw)
		if !v.Valid {
			continue
		}
		var date time.Time
		if days != nil {
			date = ParseDate(days[i])
		}
		if date.IsZero() && months != nil {
			date = ParseDate(months[i])
		}
		out = append(out, analysis.Record{Date: date, Value: v.Decimal})
	}
	return out
}

// Transaction is one buy or sell from the transactions log.
type Transaction struct {
	Date      time.Time
	Side      string
	AssetType string
	Asset     string
	Total     decimal.Decimal
}

// Ledger is the transactions log.
type Ledger struct {
	Frame        dataframe.DataFrame
	Transactions []Transaction
}

// Records groups transaction totals by side and asset type.
func (l *Ledger) Records() []analysis.Record {
	out := make([]analysis.Record, 0, len(l.Transactions))
	for _, t := range l.Transactions {
		out = append(out, analysis.Record{
			Date:       t.Date,
			Categories: []string{t.Side, t.AssetType},
			Value:      t.Total,
		})
	}
	return out
}

// Dates returns the date of every transaction.
func (l *Ledger) Dates() []time.Time {
	out := make([]time.Time, len(l.Transactions))
	for i, t := range l.Transactions {
		out[i] = t.Date
	}
	return out
}

// Income is one dividend, interest or rent receipt.
type Income struct {
	Date      time.Time
	AssetType string
	Kind      string
	Asset     string
	Net       decimal.Decimal
}

// Incomes is the passive income log.
type Incomes struct {
	Frame dataframe.DataFrame
	Items []Income
}

// OfAssetType keeps the receipts of one asset type.
func (in *Incomes) OfAssetType(assetType string) *Incomes {
	out := &Incomes{Frame: in.Frame}
	if hasColumn(in.Frame, ColAssetType) {
		out.Frame = whereEquals(in.Frame, ColAssetType, assetType)
	}
	for _, item := range in.Items {
		if item.AssetType == assetType {
			out.Items = append(out.Items, item)
		}
	}
	return out
}

// Records maps every receipt to its net value, labelled by group.
func (in *Incomes) Records(group func(Income) []string) []analysis.Record {
	out := make([]analysis.Record, 0, len(in.Items))
	for _, item := range in.Items {
		r := analysis.Record{Date: item.Date, Value: item.Net}
		if group != nil {
			r.Categories = group(item)
		}
		out = append(out, r)
	}
	return out
}

// Dates returns the date of every receipt.
func (in *Incomes) Dates() []time.Time {
	out := make([]time.Time, len(in.Items))
	for i, item := range in.Items {
		out[i] = item.Date
	}
	return out
}

// ByAssetType labels receipts with their asset type.
func ByAssetType(i Income) []string { return []string{i.AssetType} }

// ByAsset labels receipts with their ticker.
func ByAsset(i Income) []string { return []string{i.Asset} }

// ByKindAndAsset labels receipts with the income kind and the ticker.
func ByKindAndAsset(i Income) []string { return []string{i.Kind, i.Asset} }
