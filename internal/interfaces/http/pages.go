package http

import (
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"wallet/internal/domain/analysis"
	"wallet/internal/domain/portfolio"
	"wallet/internal/shared/middleware"
)

// Navigation entries, matched by the layout to highlight the current page.
const (
	navHome         = "home"
	navStocks       = "acoes"
	navRealEstate   = "fiis"
	navSmallCaps    = "small-caps"
	navTransactions = "lancamentos"
	navDividends    = "proventos"
	navSimulations  = "simulacoes"
)

// Handler serves the dashboard pages. Each request reads the worksheets it
// needs through its own memoized source, so a page loads a worksheet once.
type Handler struct {
	source      portfolio.Source
	views       *Renderer
	authEnabled bool
	now         func() time.Time
}

func NewHandler(source portfolio.Source, views *Renderer, authEnabled bool) *Handler {
	return &Handler{
		source:      source,
		views:       views,
		authEnabled: authEnabled,
		now:         time.Now,
	}
}

func (h *Handler) service() *portfolio.Service {
	return portfolio.NewService(portfolio.Memoize(h.source))
}

func (h *Handler) page(r *http.Request, title, nav string) Page {
	return Page{
		Title:       title,
		Nav:         nav,
		User:        middleware.Username(r.Context()),
		AuthEnabled: h.authEnabled,
	}
}

func sectionFailed(r *http.Request, section string, err error) {
	zerolog.Ctx(r.Context()).Warn().Err(err).Str("section", section).Msg("failed to load section")
}

// reportData backs every page made of selectors, charts and tables.
type reportData struct {
	Page
	Heading   string
	Tabs      []Tab
	Selectors []Selector
	Charts    []Chart
	Tables    []Table
}

type homeData struct {
	Page
	Goal       Table
	Milestones []template.HTML
	Motivation template.HTML
	Quote      template.HTML
	Allocation Table
	Metrics    []Metric
	MetricsErr string
	Period     Selector
	Yield      Chart
}

// HandleHome shows the goal, the allocation, the headline figures and the
// portfolio dividend yield.
func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	svc := h.service()
	data := homeData{Page: h.page(r, "Home", navHome)}

	goal, err := svc.Goal(ctx)
	if err != nil {
		sectionFailed(r, "goal", err)
		data.Goal = errorTable("Meta", err)
	} else {
		data.Goal = frameTable("Meta", goal.Frame)
		if data.Milestones, err = milestoneColumns(portfolio.MilestonesFor(goal.Current())); err != nil {
			sectionFailed(r, "milestones", err)
		}
	}

	if data.Motivation, err = renderMarkdown(motivation); err != nil {
		sectionFailed(r, "motivation", err)
	}
	if data.Quote, err = renderMarkdown(goalQuote); err != nil {
		sectionFailed(r, "quote", err)
	}

	allocation, err := svc.Allocation(ctx)
	if err != nil {
		sectionFailed(r, "allocation", err)
		data.Allocation = errorTable("Divisão da Carteira", err)
	} else {
		data.Allocation = frameTable("Divisão da Carteira", allocation)
	}

	overview, err := svc.Overview(ctx)
	if err != nil {
		sectionFailed(r, "overview", err)
		data.MetricsErr = sectionError(err)
	} else {
		data.Metrics = overviewMetrics(overview)
	}

	const yieldID, yieldTitle = "home-dy", "Dividend Yield da Carteira"
	summary, err := svc.DividendSummary(ctx, portfolio.PortfolioGroup)
	if err != nil {
		sectionFailed(r, "yield", err)
		data.Yield = errorChart(yieldID, yieldTitle, err)
	} else {
		records := summary.Yield()
		valid := analysis.ValidPeriods(recordDates(records))
		period := analysis.Choose(valid, r.URL.Query().Get("period"))
		data.Period = periodSelector(valid, period, nil)
		data.Yield = yieldChart(yieldID, yieldTitle, records, period)
	}

	h.views.Render(w, r, http.StatusOK, viewHome, data)
}

func overviewMetrics(ov *portfolio.Overview) []Metric {
	invested := moneyMetric("Total Investido", ov.Invested)
	if ov.Variation.Valid {
		invested.Delta = formatPercent(ov.Variation.Decimal)
		invested.Down = ov.Variation.Decimal.IsNegative()
	}
	return []Metric{
		moneyMetric("Gasto", ov.Spent),
		invested,
		moneyMetric("Ganho Total", ov.TotalGain),
		moneyMetric("Proventos", ov.Income),
		moneyMetric("Vendido", ov.Sold),
		moneyMetric("Lucro Vendas", ov.SalesProfit),
	}
}

// yieldChart sums the monthly yield of records by period and plots it in
// percentage points.
func yieldChart(id, title string, records []analysis.Record, period analysis.Period) Chart {
	periods, values := bucketSeries(analysis.Aggregate(records, period, analysis.Sum))
	return lineChart(id, title, "DY (%)", periods, percentValues(values))
}

func recordDates(records []analysis.Record) []time.Time {
	out := make([]time.Time, len(records))
	for i, r := range records {
		out[i] = r.Date
	}
	return out
}

// HandleHealth returns a simple health check response.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
