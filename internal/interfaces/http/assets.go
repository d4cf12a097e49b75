package http

import (
	"net/http"
	"strconv"

	"wallet/internal/domain/analysis"
	"wallet/internal/domain/portfolio"
)

// Tabs of the asset pages.
const (
	tabPositions = "carteira"
	tabResults   = "resultado"
	tabIncome    = "proventos"
)

const dividendsTitle = "Proventos Mensais"

var tabLabels = map[string]string{
	tabPositions: "Carteira",
	tabResults:   "Resultado",
	tabIncome:    "Proventos",
}

type assetPage struct {
	path  string
	title string
	nav   string
}

var assetPages = map[portfolio.AssetClass]assetPage{
	portfolio.Stocks:     {path: "/acoes", title: "Ações", nav: navStocks},
	portfolio.RealEstate: {path: "/fiis", title: "Fundos Imobiliários", nav: navRealEstate},
	portfolio.SmallCaps:  {path: "/small-caps", title: "Small Caps", nav: navSmallCaps},
}

// assetTabs lists the tabs of class. Classes without rows in the results
// worksheet have no results tab.
func assetTabs(class portfolio.AssetClass) []string {
	if class.AssetType() == "" {
		return []string{tabPositions, tabIncome}
	}
	return []string{tabPositions, tabResults, tabIncome}
}

// HandleAssets serves the page of one asset class. The tab query parameter
// picks between positions, results and income; unknown tabs show positions.
func (h *Handler) HandleAssets(class portfolio.AssetClass) http.HandlerFunc {
	meta := assetPages[class]
	tabs := assetTabs(class)

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		tab := tabs[0]
		for _, t := range tabs {
			if t == r.URL.Query().Get("tab") {
				tab = t
			}
		}

		data := reportData{Page: h.page(r, meta.title, meta.nav), Heading: meta.title}
		for _, t := range tabs {
			data.Tabs = append(data.Tabs, Tab{Label: tabLabels[t], URL: tabURL(meta.path, t), Active: t == tab})
		}

		svc := h.service()
		switch tab {
		case tabResults:
			h.resultsTab(r, svc, class, &data)
		case tabIncome:
			switch class {
			case portfolio.Stocks:
				h.stockIncomeTab(r, svc, class, &data)
			case portfolio.RealEstate:
				h.fundIncomeTab(r, svc, class, &data)
			default:
				h.dividendTableTab(r, svc, class, &data)
			}
		default:
			h.positionsTab(r, svc, class, &data)
		}

		h.views.Render(w, r, http.StatusOK, viewReport, data)
	}
}

func (h *Handler) positionsTab(r *http.Request, svc *portfolio.Service, class portfolio.AssetClass, data *reportData) {
	id := string(class)
	sector := class.SectorColumn()

	positions, err := svc.Positions(r.Context(), class)
	if err != nil {
		sectionFailed(r, "positions", err)
		data.Charts = []Chart{
			errorChart(id+"-ativo", "Por Ativo", err),
			errorChart(id+"-setor", "Por "+sector, err),
		}
		data.Tables = []Table{errorTable("Carteira", err)}
		return
	}

	data.Charts = []Chart{
		pieChart(id+"-ativo", "Por Ativo", positions.Share(portfolio.ColAsset)),
		pieChart(id+"-setor", "Por "+sector, positions.Share(sector)),
	}
	data.Tables = []Table{frameTable("Carteira", positions.Frame)}
}

func (h *Handler) resultsTab(r *http.Request, svc *portfolio.Service, class portfolio.AssetClass, data *reportData) {
	results, err := svc.Results(r.Context(), class.AssetType())
	if err != nil {
		sectionFailed(r, "results", err)
		data.Tables = []Table{errorTable("Ativos na Carteira", err), errorTable("Ativos Liquidados", err)}
		return
	}
	data.Tables = []Table{
		frameTable("Ativos na Carteira", results.Active),
		frameTable("Ativos Liquidados", results.Liquidated),
	}
}

// stockIncomeTab stacks the receipts of the class by income kind and shows
// the class columns of the dividends worksheet.
func (h *Handler) stockIncomeTab(r *http.Request, svc *portfolio.Service, class portfolio.AssetClass, data *reportData) {
	const chartID, chartTitle = "acoes-proventos", "Proventos por Tipo"
	const tableTitle = "Proventos por Período"

	summary, summaryErr := svc.DividendSummary(r.Context(), class.Group())
	dividends := dividendsTable(r, summary, summaryErr)

	incomes, err := svc.PassiveIncome(r.Context())
	if err != nil {
		sectionFailed(r, "income", err)
		data.Charts = []Chart{errorChart(chartID, chartTitle, err)}
		data.Tables = []Table{errorTable(tableTitle, err), dividends}
		return
	}

	items := incomes.OfAssetType(class.AssetType())
	valid := analysis.ValidPeriods(items.Dates())
	period := analysis.Choose(valid, r.URL.Query().Get("period"))
	data.Selectors = []Selector{periodSelector(valid, period, map[string]string{"tab": tabIncome})}

	buckets := analysis.Aggregate(items.Records(portfolio.ByKindAndAsset), period, analysis.Sum)
	periods, series := analysis.Stack(buckets, 0)
	data.Charts = []Chart{stackedBarChart(chartID, chartTitle, periods, series)}
	data.Tables = []Table{
		bucketTable(tableTitle, []string{portfolio.ColIncomeKind, portfolio.ColAsset}, portfolio.ColNetValue, buckets),
		dividends,
	}
}

// dividendsTable shows the class columns of the dividends worksheet.
func dividendsTable(r *http.Request, summary *portfolio.DividendSummary, err error) Table {
	if err != nil {
		sectionFailed(r, "dividends", err)
		return errorTable(dividendsTitle, err)
	}
	return frameTable(dividendsTitle, summary.Frame)
}

// fundIncomeTab shows the fund yield, a yearly pivot of receipts per fund,
// the receipts per period and the class columns of the dividends worksheet.
func (h *Handler) fundIncomeTab(r *http.Request, svc *portfolio.Service, class portfolio.AssetClass, data *reportData) {
	const yieldID, yieldTitle = "fiis-dy", "Dividend Yield dos FIIs"
	const barID, barTitle = "fiis-proventos", "Proventos por Período"
	const tableTitle = "Proventos por Fundo"

	ctx := r.Context()
	query := r.URL.Query()

	summary, yieldErr := svc.DividendSummary(ctx, class.Group())
	var yields []analysis.Record
	if yieldErr == nil {
		yields = summary.Yield()
	}
	incomes, incomeErr := svc.PassiveIncome(ctx)
	items := &portfolio.Incomes{}
	if incomeErr == nil {
		items = incomes.OfAssetType(class.AssetType())
	}

	valid := analysis.ValidPeriods(append(recordDates(yields), items.Dates()...))
	period := analysis.Choose(valid, query.Get("period"))
	records := items.Records(portfolio.ByAsset)
	years := analysis.Years(records)
	year := chooseYear(years, query.Get("year"))

	keep := map[string]string{"tab": tabIncome}
	if year != 0 {
		keep["year"] = strconv.Itoa(year)
	}
	data.Selectors = []Selector{periodSelector(valid, period, keep)}
	if len(years) > 0 {
		data.Selectors = append(data.Selectors, yearSelector(years, year, map[string]string{
			"tab":    tabIncome,
			"period": period.Param(),
		}))
	}

	dividends := dividendsTable(r, summary, yieldErr)
	if yieldErr != nil {
		data.Charts = []Chart{errorChart(yieldID, yieldTitle, yieldErr)}
	} else {
		data.Charts = []Chart{yieldChart(yieldID, yieldTitle, yields, period)}
	}

	pivotTitle := "Proventos no Ano"
	if year != 0 {
		pivotTitle = "Proventos em " + strconv.Itoa(year)
	}
	if incomeErr != nil {
		sectionFailed(r, "income", incomeErr)
		data.Charts = append(data.Charts, errorChart(barID, barTitle, incomeErr))
		data.Tables = []Table{errorTable(pivotTitle, incomeErr), errorTable(tableTitle, incomeErr), dividends}
		return
	}

	periods, values := bucketSeries(analysis.Aggregate(items.Records(nil), period, analysis.Sum))
	data.Charts = append(data.Charts, barChart(barID, barTitle, "Proventos (R$)", periods, values))
	data.Tables = []Table{
		pivotTable(pivotTitle, portfolio.ColNetValue, analysis.Pivot(records, year)),
		bucketTable(tableTitle, []string{portfolio.ColAsset}, portfolio.ColNetValue, analysis.Aggregate(records, period, analysis.Sum)),
		dividends,
	}
}

// chooseYear returns the requested year when records have it, otherwise the
// newest one. Zero means there are no dated records.
func chooseYear(years []int, requested string) int {
	if len(years) == 0 {
		return 0
	}
	if y, err := strconv.Atoi(requested); err == nil {
		for _, candidate := range years {
			if candidate == y {
				return y
			}
		}
	}
	return years[0]
}

// dividendTableTab shows the class columns of the dividends worksheet and
// their yield.
func (h *Handler) dividendTableTab(r *http.Request, svc *portfolio.Service, class portfolio.AssetClass, data *reportData) {
	id := string(class) + "-dy"
	title := "Dividend Yield - " + class.Group()

	summary, err := svc.DividendSummary(r.Context(), class.Group())
	if err != nil {
		data.Charts = []Chart{errorChart(id, title, err)}
		data.Tables = []Table{dividendsTable(r, nil, err)}
		return
	}

	records := summary.Yield()
	valid := analysis.ValidPeriods(recordDates(records))
	period := analysis.Choose(valid, r.URL.Query().Get("period"))
	data.Selectors = []Selector{periodSelector(valid, period, map[string]string{"tab": tabIncome})}
	data.Charts = []Chart{yieldChart(id, title, records, period)}
	data.Tables = []Table{dividendsTable(r, summary, nil)}
}
