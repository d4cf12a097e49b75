package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/shopspring/decimal"
)

var positionNumericColumns = []string{
	"% Ideal", "Quantidade", ColTotal, "Cotação (R$)", "Preço Médio (R$)",
	"% Atual", "Meta (R$)", "Falta (R$)", "Sugestão",
}

var resultNumericColumns = []string{
	"Quantidade", "Gasto (R$)", "Investido (R$)", "Vendido (R$)",
	"Cotação (R$)", "Preço Médio (R$)", "Ganho (R$)", "Proventos (R$)",
	"Ganho Ex (R$)", "Lucro Vendas (R$)", "Ganho (%)", "Ganho Ex (%)",
}

var resultPriorityColumns = []string{ColAsset, "Quantidade", "Ganho (%)", "Ganho Ex (%)"}

// General worksheet blocks, as indexes into its raw values. Row 0 is the
// overview header and row 1 its values.
const (
	allocationHeaderRow = 3
	allocationLastRow   = 6
	goalHeaderRow       = 8
	goalColumns         = 3
)

// Service loads the wallet worksheets into frames and typed rows.
type Service struct {
	source Source
}

// NewService creates a portfolio service reading from source.
func NewService(source Source) *Service {
	return &Service{source: source}
}

func (s *Service) values(ctx context.Context, ws Worksheet) ([][]string, error) {
	values, err := s.source.Values(ctx, ws)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ws, err)
	}
	return values, nil
}

// Table returns ws as a frame with the first row as header. dropLast removes
// the trailing totals row.
func (s *Service) Table(ctx context.Context, ws Worksheet, dropLast bool) (dataframe.DataFrame, error) {
	values, err := s.values(ctx, ws)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	df := FrameFromValues(values)
	if dropLast {
		df = dropLastRow(df)
	}
	return df, nil
}

// Overview reads the headline figures of the general worksheet.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	values, err := s.values(ctx, WorksheetGeneral)
	if err != nil {
		return nil, err
	}
	if len(values) < 2 {
		return &Overview{}, nil
	}

	header, row := values[0], values[1]
	cell := func(name string) (string, bool) {
		for i, h := range header {
			if h == name {
				if i < len(row) {
					return row[i], true
				}
				return "", true
			}
		}
		return "", false
	}

	ov := &Overview{}
	fields := []struct {
		name string
		dst  *decimal.NullDecimal
	}{
		{"Gasto (R$)", &ov.Spent},
		{"Investido (R$)", &ov.Invested},
		{"Variação (%)", &ov.Variation},
		{"Ganho Total (R$)", &ov.TotalGain},
		{"Proventos (R$)", &ov.Income},
		{"Vendido (R$)", &ov.Sold},
		{"Lucro Vendas (R$)", &ov.SalesProfit},
	}
	for _, f := range fields {
		raw, ok := cell(f.name)
		if !ok {
			return nil, fmt.Errorf("%s: %w: %q", WorksheetGeneral, ErrColumnMissing, f.name)
		}
		*f.dst = ParseNumber(raw)
	}
	return ov, nil
}

// Allocation reads the ideal versus current split per asset class.
func (s *Service) Allocation(ctx context.Context) (dataframe.DataFrame, error) {
	values, err := s.values(ctx, WorksheetGeneral)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if len(values) == 0 {
		return dataframe.DataFrame{}, nil
	}
	if len(values) <= allocationHeaderRow {
		return dataframe.DataFrame{}, fmt.Errorf("%s: %w: allocation block not found", WorksheetGeneral, ErrUnexpectedLayout)
	}

	last := min(allocationLastRow+1, len(values))
	df := NewFrame(values[allocationHeaderRow], values[allocationHeaderRow+1:last])
	return normalizeNumeric(df, exceptColumns(df, "Classe", "Sugestão")...), nil
}

// Goal reads the patrimony goal block.
func (s *Service) Goal(ctx context.Context) (*Goal, error) {
	values, err := s.values(ctx, WorksheetGeneral)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return &Goal{}, nil
	}
	if len(values) <= goalHeaderRow {
		return nil, fmt.Errorf("%s: %w: goal block not found", WorksheetGeneral, ErrUnexpectedLayout)
	}

	header := values[goalHeaderRow]
	if len(header) > goalColumns {
		header = header[:goalColumns]
	}
	var rows [][]string
	if len(values) > goalHeaderRow+1 {
		rows = values[goalHeaderRow+1 : goalHeaderRow+2]
	}
	df := NewFrame(header, rows)
	return &Goal{Frame: normalizeNumeric(df, df.Names()...)}, nil
}

// Positions reads the holdings of an asset class.
func (s *Service) Positions(ctx context.Context, class AssetClass) (*Positions, error) {
	info, ok := classes[class]
	if !ok {
		return nil, fmt.Errorf("unknown asset class %q", class)
	}
	df, err := s.Table(ctx, info.worksheet, true)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(info.worksheet, df, ColAsset, ColTotal); err != nil {
		return nil, err
	}
	return &Positions{Class: class, Frame: normalizeNumeric(df, positionNumericColumns...)}, nil
}

// Results reads the results worksheet rows of assetType, priority columns
// first, split into active and liquidated positions.
func (s *Service) Results(ctx context.Context, assetType string) (*Results, error) {
	df, err := s.Table(ctx, WorksheetResults, false)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(WorksheetResults, df, ColAssetType, ColStatus); err != nil {
		return nil, err
	}
	if df.Ncol() == 0 {
		return &Results{}, nil
	}

	df = normalizeNumeric(df, resultNumericColumns...)
	df = withoutColumns(whereEquals(df, ColAssetType, assetType), ColAssetType)
	df = df.Select(ReorderColumns(df.Names(), resultPriorityColumns))

	return &Results{
		Active:     withoutColumns(whereEquals(df, ColStatus, StatusActive), ColStatus),
		Liquidated: withoutColumns(whereEquals(df, ColStatus, StatusLiquidated), ColStatus),
	}, nil
}

// DividendColumns lists the dividends worksheet columns of a group.
func DividendColumns(group string) []string {
	if group == PortfolioGroup {
		return []string{ColMonth, ColFinalDay, "Total (R$)", "Acumulado (R$)", "Total Investido (R$)", "DY - Carteira (%)"}
	}
	return []string{
		ColMonth, ColFinalDay,
		"Total - " + group + " (R$)",
		"Acumulado - " + group + " (R$)",
		"Total Investido - " + group + " (R$)",
		"DY - " + group + " (%)",
	}
}

// DividendSummary reads the monthly dividend table restricted to group,
// PortfolioGroup or the dividends label of an asset class.
func (s *Service) DividendSummary(ctx context.Context, group string) (*DividendSummary, error) {
	df, err := s.Table(ctx, WorksheetDividends, true)
	if err != nil {
		return nil, err
	}
	if hasColumn(df, ColMonthYear) {
		df = df.Rename(ColMonth, ColMonthYear)
	}

	cols := DividendColumns(group)
	if err := requireColumns(WorksheetDividends, df, cols...); err != nil {
		return nil, err
	}
	if df.Ncol() > 0 {
		df = normalizeNumeric(df.Select(cols), cols[2:]...)
	}
	return &DividendSummary{Group: group, Frame: df}, nil
}

// Transactions reads the transactions log and adds the month of each trade.
func (s *Service) Transactions(ctx context.Context) (*Ledger, error) {
	df, err := s.Table(ctx, WorksheetTransactions, false)
	if err != nil {
		return nil, err
	}
	dateCol := ColTradeDate
	if !hasColumn(df, dateCol) && hasColumn(df, ColDate) {
		dateCol = ColDate
	}
	if err := requireColumns(WorksheetTransactions, df, dateCol, ColSide, ColAssetType, ColPriceTotal); err != nil {
		return nil, err
	}
	if df.Ncol() == 0 {
		return &Ledger{}, nil
	}

	df = normalizeNumeric(df, ColPrice, ColPriceTotal)
	dates, months := parseDates(column(df, dateCol))
	df = df.Mutate(series.New(months, series.String, ColMonth))

	sides := column(df, ColSide)
	types := column(df, ColAssetType)
	totals := column(df, ColPriceTotal)
	assets := column(df, ColAsset)

	ledger := &Ledger{Frame: df}
	for i := range dates {
		t := Transaction{
			Date:      dates[i],
			Side:      sides[i],
			AssetType: types[i],
			Total:     valueOrZero(ParseNumber(totals[i])),
		}
		if assets != nil {
			t.Asset = assets[i]
		}
		ledger.Transactions = append(ledger.Transactions, t)
	}
	return ledger, nil
}

// PassiveIncome reads the dividends, interest and rent receipts log.
func (s *Service) PassiveIncome(ctx context.Context) (*Incomes, error) {
	df, err := s.Table(ctx, WorksheetPassiveIncome, false)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(WorksheetPassiveIncome, df, ColDate, ColAssetType, ColNetValue); err != nil {
		return nil, err
	}
	if df.Ncol() == 0 {
		return &Incomes{}, nil
	}

	df = withoutColumns(normalizeNumeric(df, ColNetValue), ColMonthYear)
	dates, months := parseDates(column(df, ColDate))
	df = df.Mutate(series.New(months, series.String, ColMonth))

	types := column(df, ColAssetType)
	nets := column(df, ColNetValue)
	kinds := column(df, ColIncomeKind)
	assets := column(df, ColAsset)

	incomes := &Incomes{Frame: df}
	for i := range dates {
		item := Income{
			Date:      dates[i],
			AssetType: types[i],
			Net:       valueOrZero(ParseNumber(nets[i])),
		}
		if kinds != nil {
			item.Kind = kinds[i]
		}
		if assets != nil {
			item.Asset = assets[i]
		}
		incomes.Items = append(incomes.Items, item)
	}
	return incomes, nil
}

// parseDates parses every cell and formats the YYYY-MM month of the valid ones.
func parseDates(cells []string) ([]time.Time, []string) {
	dates := make([]time.Time, len(cells))
	months := make([]string, len(cells))
	for i, c := range cells {
		dates[i] = ParseDate(c)
		if !dates[i].IsZero() {
			months[i] = dates[i].Format("2006-01")
		}
	}
	return dates, months
}
