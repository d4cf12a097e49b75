package portfolio

import (
	"fmt"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// NewFrame builds a frame of string columns. Short rows are padded with
// empty cells and cells beyond the header are dropped, so the frame has
// exactly len(rows) rows and len(header) columns.
func NewFrame(header []string, rows [][]string) dataframe.DataFrame {
	if len(header) == 0 {
		return dataframe.DataFrame{}
	}
	cols := make([]series.Series, len(header))
	for j, name := range header {
		values := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				values[i] = row[j]
			}
		}
		cols[j] = series.New(values, series.String, name)
	}
	return dataframe.New(cols...)
}

// FrameFromValues treats the first row of values as the header.
func FrameFromValues(values [][]string) dataframe.DataFrame {
	if len(values) == 0 {
		return dataframe.DataFrame{}
	}
	return NewFrame(values[0], values[1:])
}

// Empty reports whether df has no rows.
func Empty(df dataframe.DataFrame) bool {
	return df.Ncol() == 0 || df.Nrow() == 0
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	return slices.Contains(df.Names(), name)
}

// requireColumns fails when df has a header but lacks one of names. A frame
// without columns comes from an empty worksheet and is accepted as is.
func requireColumns(ws Worksheet, df dataframe.DataFrame, names ...string) error {
	if df.Ncol() == 0 {
		return nil
	}
	for _, n := range names {
		if !hasColumn(df, n) {
			return fmt.Errorf("%s: %w: %q", ws, ErrColumnMissing, n)
		}
	}
	return nil
}

// column returns the cells of name, or nil when df lacks it.
func column(df dataframe.DataFrame, name string) []string {
	if !hasColumn(df, name) {
		return nil
	}
	return df.Col(name).Records()
}

// normalizeNumeric rewrites the listed columns as plain decimals. Columns
// that df lacks are skipped.
func normalizeNumeric(df dataframe.DataFrame, names ...string) dataframe.DataFrame {
	for _, name := range names {
		cells := column(df, name)
		if cells == nil {
			continue
		}
		out := make([]string, len(cells))
		for i, c := range cells {
			out[i] = NormalizeNumber(c)
		}
		df = df.Mutate(series.New(out, series.String, name))
	}
	return df
}

// exceptColumns lists the columns of df not named in skip.
func exceptColumns(df dataframe.DataFrame, skip ...string) []string {
	var out []string
	for _, n := range df.Names() {
		if !slices.Contains(skip, n) {
			out = append(out, n)
		}
	}
	return out
}

// whereEquals keeps the rows whose column equals value.
func whereEquals(df dataframe.DataFrame, name, value string) dataframe.DataFrame {
	var idx []int
	for i, c := range column(df, name) {
		if c == value {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return NewFrame(df.Names(), nil)
	}
	return df.Subset(idx)
}

// withoutColumns drops the listed columns that df has.
func withoutColumns(df dataframe.DataFrame, names ...string) dataframe.DataFrame {
	keep := exceptColumns(df, names...)
	if len(keep) == df.Ncol() {
		return df
	}
	if len(keep) == 0 {
		return dataframe.DataFrame{}
	}
	return df.Select(keep)
}

// dropLastRow removes the trailing totals row some worksheets carry.
func dropLastRow(df dataframe.DataFrame) dataframe.DataFrame {
	if df.Nrow() == 0 {
		return df
	}
	if df.Nrow() == 1 {
		return NewFrame(df.Names(), nil)
	}
	idx := make([]int, df.Nrow()-1)
	for i := range idx {
		idx[i] = i
	}
	return df.Subset(idx)
}

// ReorderColumns moves the priority names present in names to the front,
// keeping the relative order of the rest.
func ReorderColumns(names, priority []string) []string {
	out := make([]string, 0, len(names))
	for _, p := range priority {
		if slices.Contains(names, p) {
			out = append(out, p)
		}
	}
	for _, n := range names {
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// Rows returns the cells of df without the header.
func Rows(df dataframe.DataFrame) [][]string {
	if df.Ncol() == 0 {
		return nil
	}
	records := df.Records()
	return records[1:]
}
