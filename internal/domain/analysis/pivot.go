package analysis

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PivotTotalLabel names the row that sums every column of a pivot.
const PivotTotalLabel = "Soma"

type PivotRow struct {
	Label  string
	Values []decimal.Decimal
	Total  decimal.Decimal
}

// PivotTable lays one year of records out as label rows by month columns.
type PivotTable struct {
	Columns []string
	Rows    []PivotRow
	Totals  PivotRow
}

// Pivot sums the records of year by their first category and month. Months
// without any record in the year are not columns; missing cells are zero.
func Pivot(records []Record, year int) PivotTable {
	months := make(map[string]bool)
	cells := make(map[string]map[string]decimal.Decimal)

	for _, r := range records {
		if r.Date.IsZero() || r.Date.Year() != year {
			continue
		}
		label := ""
		if len(r.Categories) > 0 {
			label = r.Categories[0]
		}
		month := Key(r.Date, Month)
		months[month] = true
		if cells[label] == nil {
			cells[label] = make(map[string]decimal.Decimal)
		}
		cells[label][month] = cells[label][month].Add(r.Value)
	}

	table := PivotTable{}
	for m := range months {
		table.Columns = append(table.Columns, m)
	}
	sort.Strings(table.Columns)

	labels := make([]string, 0, len(cells))
	for l := range cells {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	table.Totals = PivotRow{Label: PivotTotalLabel, Values: zeros(len(table.Columns)), Total: decimal.Zero}
	for _, l := range labels {
		row := PivotRow{Label: l, Values: zeros(len(table.Columns)), Total: decimal.Zero}
		for i, m := range table.Columns {
			v := cells[l][m]
			row.Values[i] = v
			row.Total = row.Total.Add(v)
			table.Totals.Values[i] = table.Totals.Values[i].Add(v)
		}
		table.Totals.Total = table.Totals.Total.Add(row.Total)
		table.Rows = append(table.Rows, row)
	}
	return table
}

// Years lists the distinct years present in records, newest first.
func Years(records []Record) []int {
	seen := make(map[int]bool)
	var out []int
	for _, r := range records {
		if r.Date.IsZero() || seen[r.Date.Year()] {
			continue
		}
		seen[r.Date.Year()] = true
		out = append(out, r.Date.Year())
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
