package http

import (
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/shopspring/decimal"

	"wallet/internal/domain/analysis"
	"wallet/internal/domain/portfolio"
)

// Nord palette.
var palette = opts.Colors{
	"#5E81AC", "#88C0D0", "#A3BE8C", "#EBCB8B", "#D08770",
	"#BF616A", "#B48EAD", "#8FBCBB", "#81A1C1", "#4C566A",
}

// Chart is an ECharts option set ready to be initialised in the page.
type Chart struct {
	ID      string
	Title   string
	Options template.JS
	Empty   bool
	Err     string
}

type renderable interface {
	Validate()
	JSON() map[string]interface{}
}

func newChart(id, title string, c renderable) Chart {
	c.Validate()
	data, err := json.Marshal(c.JSON())
	if err != nil {
		return Chart{ID: id, Title: title, Err: fmt.Sprintf("chart: %v", err)}
	}
	return Chart{ID: id, Title: title, Options: template.JS(data)}
}

func emptyChart(id, title string) Chart {
	return Chart{ID: id, Title: title, Empty: true}
}

func errorChart(id, title string, err error) Chart {
	return Chart{ID: id, Title: title, Err: sectionError(err)}
}

func globalOptions(title, trigger string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "380px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: trigger}),
		charts.WithLegendOpts(opts.Legend{Top: "bottom"}),
		charts.WithColorsOpts(palette),
	}
}

// pieChart shows the share of each slice.
func pieChart(id, title string, slices []portfolio.Slice) Chart {
	if len(slices) == 0 {
		return emptyChart(id, title)
	}
	data := make([]opts.PieData, 0, len(slices))
	for _, s := range slices {
		data = append(data, opts.PieData{Name: s.Label, Value: s.Value.Round(2).InexactFloat64()})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(globalOptions(title, "item")...)
	pie.AddSeries(title, data,
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
		charts.WithLabelOpts(opts.Label{Formatter: "{b}: {d}%"}),
	)
	return newChart(id, title, pie)
}

// stackedBarChart stacks one bar series per category over the periods.
func stackedBarChart(id, title string, periods []string, series []analysis.Series) Chart {
	if len(periods) == 0 {
		return emptyChart(id, title)
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions(title, "axis")...)
	bar.SetXAxis(periods)
	for _, s := range series {
		bar.AddSeries(s.Name, barData(s.Values), charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))
	}
	return newChart(id, title, bar)
}

// barChart draws a single series.
func barChart(id, title, name string, periods []string, values []decimal.Decimal) Chart {
	if len(periods) == 0 {
		return emptyChart(id, title)
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions(title, "axis")...)
	bar.SetXAxis(periods).AddSeries(name, barData(values))
	return newChart(id, title, bar)
}

// lineChart draws a single series.
func lineChart(id, title, name string, periods []string, values []decimal.Decimal) Chart {
	if len(periods) == 0 {
		return emptyChart(id, title)
	}
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: v.Round(2).InexactFloat64()}
	}
	line := charts.NewLine()
	line.SetGlobalOptions(globalOptions(title, "axis")...)
	line.SetXAxis(periods).AddSeries(name, data)
	return newChart(id, title, line)
}

func barData(values []decimal.Decimal) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v.Round(2).InexactFloat64()}
	}
	return data
}

// bucketSeries splits single-series buckets into periods and values.
func bucketSeries(buckets []analysis.Bucket) ([]string, []decimal.Decimal) {
	periods := make([]string, len(buckets))
	values := make([]decimal.Decimal, len(buckets))
	for i, b := range buckets {
		periods[i] = b.Period
		values[i] = b.Value
	}
	return periods, values
}

// percentValues scales fractions to percentage points for plotting.
func percentValues(values []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = v.Shift(2)
	}
	return out
}
