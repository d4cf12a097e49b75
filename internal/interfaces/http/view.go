package http

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/shopspring/decimal"

	"wallet/internal/domain/analysis"
	"wallet/internal/domain/portfolio"
)

// Table is a titled grid of formatted cells. Err replaces the grid when the
// data behind it could not be loaded.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]Cell
	Err     string
}

func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// newTable formats rows by the kind of their column.
func newTable(title string, columns []string, rows [][]string) Table {
	t := Table{Title: title, Columns: columns, Rows: make([][]Cell, 0, len(rows))}
	for _, row := range rows {
		cells := make([]Cell, len(columns))
		for j, col := range columns {
			if j < len(row) {
				cells[j] = formatCell(col, row[j])
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func frameTable(title string, df dataframe.DataFrame) Table {
	if df.Ncol() == 0 {
		return Table{Title: title}
	}
	return newTable(title, df.Names(), portfolio.Rows(df))
}

func errorTable(title string, err error) Table {
	return Table{Title: title, Err: sectionError(err)}
}

// bucketTable lays buckets out as Período, one column per category level and
// the value column.
func bucketTable(title string, levels []string, valueColumn string, buckets []analysis.Bucket) Table {
	columns := append(append([]string{"Período"}, levels...), valueColumn)
	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		row := make([]string, 0, len(columns))
		row = append(row, b.Period)
		for i := range levels {
			if i < len(b.Categories) {
				row = append(row, b.Categories[i])
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, append(row, b.Value.String()))
	}
	return newTable(title, columns, rows)
}

// pivotTable renders a yearly pivot with its Total column and Soma row.
func pivotTable(title, valueColumn string, p analysis.PivotTable) Table {
	columns := append(append([]string{portfolio.ColAsset}, p.Columns...), "Total")
	t := Table{Title: title, Columns: columns}
	if len(p.Rows) == 0 {
		return t
	}
	row := func(r analysis.PivotRow) []Cell {
		cells := []Cell{{Text: r.Label}}
		for _, v := range append(append([]decimal.Decimal(nil), r.Values...), r.Total) {
			cells = append(cells, formatCell(valueColumn, v.String()))
		}
		return cells
	}
	for _, r := range p.Rows {
		t.Rows = append(t.Rows, row(r))
	}
	t.Rows = append(t.Rows, row(p.Totals))
	return t
}

// Metric is one headline figure with an optional variation.
type Metric struct {
	Label string
	Value string
	Delta string
	Down  bool
}

func moneyMetric(label string, v decimal.NullDecimal) Metric {
	m := Metric{Label: label, Value: "-"}
	if v.Valid {
		m.Value = formatMoney(v.Decimal)
	}
	return m
}

// Option is one choice of a selector rendered as a link or form option.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Selector is a query parameter choice rendered as a small GET form. Keep
// holds the other query parameters of the page so the form preserves them.
type Selector struct {
	Name    string
	Label   string
	Options []Option
	Keep    map[string]string
}

func periodSelector(valid []analysis.Period, chosen analysis.Period, keep map[string]string) Selector {
	s := Selector{Name: "period", Label: "Agrupar por", Keep: keep}
	for _, p := range valid {
		s.Options = append(s.Options, Option{Value: p.Param(), Label: p.String(), Selected: p == chosen})
	}
	return s
}

func yearSelector(years []int, chosen int, keep map[string]string) Selector {
	s := Selector{Name: "year", Label: "Ano", Keep: keep}
	for _, y := range years {
		v := strconv.Itoa(y)
		s.Options = append(s.Options, Option{Value: v, Label: v, Selected: y == chosen})
	}
	return s
}

// Tab links to one view of a multi-view page.
type Tab struct {
	Label  string
	URL    string
	Active bool
}

func tabURL(path, tab string) string {
	return path + "?" + url.Values{"tab": {tab}}.Encode()
}

// Page carries what the layout needs on every page.
type Page struct {
	Title       string
	Nav         string
	User        string
	AuthEnabled bool
}

func sectionError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, portfolio.ErrWorksheetNotConfigured):
		return "Planilha não configurada: " + err.Error()
	case errors.Is(err, portfolio.ErrColumnMissing), errors.Is(err, portfolio.ErrUnexpectedLayout):
		return "Formato inesperado da planilha: " + err.Error()
	default:
		return "Não foi possível carregar os dados: " + err.Error()
	}
}
