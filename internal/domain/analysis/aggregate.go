package analysis

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one dated value with optional grouping labels.
type Record struct {
	Date       time.Time
	Categories []string
	Value      decimal.Decimal
}

// Bucket is the aggregated value of every record sharing a period and the
// same categories.
type Bucket struct {
	Period     string
	Categories []string
	Value      decimal.Decimal
}

// Func selects how values inside a bucket are combined.
type Func int

const (
	Sum Func = iota
	Max
)

func (f Func) String() string {
	if f == Max {
		return "max"
	}
	return "sum"
}

// Aggregate groups records by period and categories. Records without a date
// are skipped. Buckets are ordered by period, then by categories.
func Aggregate(records []Record, p Period, fn Func) []Bucket {
	index := make(map[string]int)
	var buckets []Bucket

	for _, r := range records {
		if r.Date.IsZero() {
			continue
		}
		period := Key(r.Date, p)
		key := period + "\x00" + strings.Join(r.Categories, "\x00")

		i, ok := index[key]
		if !ok {
			index[key] = len(buckets)
			buckets = append(buckets, Bucket{
				Period:     period,
				Categories: append([]string(nil), r.Categories...),
				Value:      r.Value,
			})
			continue
		}

		switch fn {
		case Max:
			if r.Value.GreaterThan(buckets[i].Value) {
				buckets[i].Value = r.Value
			}
		default:
			buckets[i].Value = buckets[i].Value.Add(r.Value)
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Period != buckets[j].Period {
			return buckets[i].Period < buckets[j].Period
		}
		return strings.Join(buckets[i].Categories, "\x00") < strings.Join(buckets[j].Categories, "\x00")
	})
	return buckets
}

// Periods returns the distinct periods of buckets in order.
func Periods(buckets []Bucket) []string {
	var out []string
	seen := make(map[string]bool)
	for _, b := range buckets {
		if !seen[b.Period] {
			seen[b.Period] = true
			out = append(out, b.Period)
		}
	}
	sort.Strings(out)
	return out
}

// Series is one named line of values aligned with a list of periods.
type Series struct {
	Name   string
	Values []decimal.Decimal
}

// Stack pivots buckets into one series per distinct value of the category at
// level, summing over the other levels. Periods without data hold zero.
func Stack(buckets []Bucket, level int) ([]string, []Series) {
	periods := Periods(buckets)
	pos := make(map[string]int, len(periods))
	for i, p := range periods {
		pos[p] = i
	}

	var out []Series
	byName := make(map[string]int)
	for _, b := range buckets {
		name := ""
		if level >= 0 && level < len(b.Categories) {
			name = b.Categories[level]
		}
		i, ok := byName[name]
		if !ok {
			i = len(out)
			byName[name] = i
			out = append(out, Series{Name: name, Values: zeros(len(periods))})
		}
		out[i].Values[pos[b.Period]] = out[i].Values[pos[b.Period]].Add(b.Value)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return periods, out
}

// Cumulative is a period total alongside the running total up to it.
type Cumulative struct {
	Period      string
	Total       decimal.Decimal
	Accumulated decimal.Decimal
}

// Accumulate sums buckets per period and carries a running total.
func Accumulate(buckets []Bucket) []Cumulative {
	periods := Periods(buckets)
	totals := make(map[string]decimal.Decimal, len(periods))
	for _, b := range buckets {
		totals[b.Period] = totals[b.Period].Add(b.Value)
	}

	out := make([]Cumulative, 0, len(periods))
	running := decimal.Zero
	for _, p := range periods {
		running = running.Add(totals[p])
		out = append(out, Cumulative{Period: p, Total: totals[p], Accumulated: running})
	}
	return out
}

// Filter keeps the buckets whose category at level equals value.
func Filter(buckets []Bucket, level int, value string) []Bucket {
	var out []Bucket
	for _, b := range buckets {
		if level < len(b.Categories) && b.Categories[level] == value {
			out = append(out, b)
		}
	}
	return out
}

func zeros(n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.Zero
	}
	return out
}
