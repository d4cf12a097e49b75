package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"wallet/internal/domain/analysis"
	"wallet/internal/domain/portfolio"
)

// HandleTransactions shows purchases and sales per asset type and the
// transactions log.
func (h *Handler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	const title = "Lançamentos"
	const buyID, buyTitle = "lancamentos-compras", "Compras por Tipo de Ativo"
	const sellID, sellTitle = "lancamentos-vendas", "Vendas por Tipo de Ativo"
	const aggTitle, historyTitle = "Lançamentos por Período", "Histórico"

	data := reportData{Page: h.page(r, title, navTransactions), Heading: title}

	ledger, err := h.service().Transactions(r.Context())
	if err != nil {
		sectionFailed(r, "transactions", err)
		data.Charts = []Chart{errorChart(buyID, buyTitle, err), errorChart(sellID, sellTitle, err)}
		data.Tables = []Table{errorTable(aggTitle, err), errorTable(historyTitle, err)}
		h.views.Render(w, r, http.StatusOK, viewReport, data)
		return
	}

	valid := analysis.ValidPeriods(ledger.Dates())
	period := analysis.Choose(valid, r.URL.Query().Get("period"))
	data.Selectors = []Selector{periodSelector(valid, period, nil)}

	// Categories are side then asset type.
	buckets := analysis.Aggregate(ledger.Records(), period, analysis.Sum)
	buyPeriods, buys := analysis.Stack(analysis.Filter(buckets, 0, portfolio.SideBuy), 1)
	sellPeriods, sells := analysis.Stack(analysis.Filter(buckets, 0, portfolio.SideSell), 1)

	data.Charts = []Chart{
		stackedBarChart(buyID, buyTitle, buyPeriods, buys),
		stackedBarChart(sellID, sellTitle, sellPeriods, sells),
	}
	data.Tables = []Table{
		bucketTable(aggTitle, []string{portfolio.ColSide, portfolio.ColAssetType}, portfolio.ColPriceTotal, buckets),
		frameTable(historyTitle, ledger.Frame),
	}
	h.views.Render(w, r, http.StatusOK, viewReport, data)
}

// HandleDividends shows passive income per asset type, its running total
// and the receipts log.
func (h *Handler) HandleDividends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	const title = "Proventos"
	const stackID, stackTitle = "proventos-tipo", "Proventos por Tipo de Ativo"
	const accID, accTitle = "proventos-acumulado", "Proventos Acumulados"
	const aggTitle, historyTitle = "Proventos por Período", "Histórico"

	data := reportData{Page: h.page(r, title, navDividends), Heading: title}

	incomes, err := h.service().PassiveIncome(r.Context())
	if err != nil {
		sectionFailed(r, "income", err)
		data.Charts = []Chart{errorChart(stackID, stackTitle, err), errorChart(accID, accTitle, err)}
		data.Tables = []Table{errorTable(aggTitle, err), errorTable(historyTitle, err)}
		h.views.Render(w, r, http.StatusOK, viewReport, data)
		return
	}

	valid := analysis.ValidPeriods(incomes.Dates())
	period := analysis.Choose(valid, r.URL.Query().Get("period"))
	data.Selectors = []Selector{periodSelector(valid, period, nil)}

	buckets := analysis.Aggregate(incomes.Records(portfolio.ByAssetType), period, analysis.Sum)
	periods, series := analysis.Stack(buckets, 0)

	accumulated := analysis.Accumulate(buckets)
	accPeriods := make([]string, len(accumulated))
	accValues := make([]decimal.Decimal, len(accumulated))
	for i, c := range accumulated {
		accPeriods[i] = c.Period
		accValues[i] = c.Accumulated
	}

	data.Charts = []Chart{
		stackedBarChart(stackID, stackTitle, periods, series),
		barChart(accID, accTitle, "Acumulado (R$)", accPeriods, accValues),
	}
	data.Tables = []Table{
		bucketTable(aggTitle, []string{portfolio.ColAssetType}, portfolio.ColNetValue, buckets),
		frameTable(historyTitle, incomes.Frame),
	}
	h.views.Render(w, r, http.StatusOK, viewReport, data)
}
