package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"wallet/internal/domain/analysis"
	"wallet/internal/domain/simulation"
)

// Field names of the simulation form. Rates are entered in percent.
const (
	paramInitial      = "inicial"
	paramContribution = "aporte"
	paramRate         = "taxa"
	paramInflation    = "inflacao"
	paramGoal         = "meta"
	paramAdjustment   = "ajuste"
	paramStart        = "inicio"
)

// Field is one input of the simulation form.
type Field struct {
	Name  string
	Label string
	Value string
	Step  string
	Type  string
}

type simulationsData struct {
	Page
	Fields  []Field
	Err     string
	Inputs  []Metric
	Summary string
	Goal    string
	Period  Selector
	Charts  []Chart
	Tables  []Table
}

var monthlyColumns = []string{"Mês", "Aporte (R$)", "Patrimônio (R$)", "Proventos (R$)", "Retorno Mensal (%)"}

// HandleSimulations projects how long the inputs of the form take to reach
// the goal.
func (h *Handler) HandleSimulations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	const title = "Simulações"
	data := simulationsData{Page: h.page(r, title, navSimulations)}

	query := r.URL.Query()
	params, err := parseSimulationParams(query, simulation.DefaultParams(h.now()))
	data.Fields = simulationFields(query, params)
	if err != nil {
		data.Err = err.Error()
		h.views.Render(w, r, http.StatusBadRequest, viewSimulations, data)
		return
	}

	data.Inputs = []Metric{
		{Label: "Investimento Inicial", Value: formatMoney(decimal.NewFromFloat(params.InitialInvestment))},
		{Label: "Contribuição Mensal", Value: formatMoney(decimal.NewFromFloat(params.MonthlyContribution))},
		{Label: "Taxa de Retorno Mensal", Value: formatPercent(decimal.NewFromFloat(params.MonthlyRate))},
		{Label: "Inflação Anual", Value: formatPercent(decimal.NewFromFloat(params.AnnualInflation))},
		{Label: "Ajuste Anual da Contribuição", Value: formatPercent(decimal.NewFromFloat(params.AnnualContributionAdjustment))},
		{Label: "Data de Início", Value: params.Start.Format("2006-01")},
	}

	result, err := simulation.Run(params)
	if err != nil {
		if errors.Is(err, simulation.ErrGoalUnreachable) {
			data.Err = "A meta não é atingida com esses parâmetros: " + err.Error()
		} else {
			data.Err = err.Error()
		}
		h.views.Render(w, r, http.StatusOK, viewSimulations, data)
		return
	}

	expected := result.ExpectedYearMonth()
	data.Summary = fmt.Sprintf("A meta será atingida, provavelmente, em %s. Serão necessários %d anos e %d meses.",
		expected, result.Years, result.Months)
	data.Goal = fmt.Sprintf("Os %s da meta desejada, considerando uma inflação anual de %s, equivalem a %s em %s.",
		formatMoney(decimal.NewFromFloat(params.Goal)),
		formatPercent(decimal.NewFromFloat(params.AnnualInflation)),
		formatMoney(decimal.NewFromFloat(result.AdjustedGoal)),
		expected)

	var balances, incomes []analysis.Record
	rows := make([][]string, 0, len(result.Rows))
	for _, m := range result.Rows {
		balances = append(balances, analysis.Record{Date: m.Month, Value: decimal.NewFromFloat(m.Balance)})
		incomes = append(incomes, analysis.Record{Date: m.Month, Value: decimal.NewFromFloat(m.Income)})
		rows = append(rows, []string{
			m.Month.Format("2006-01"),
			decimal.NewFromFloat(m.Contribution).String(),
			decimal.NewFromFloat(m.Balance).String(),
			decimal.NewFromFloat(m.Income).String(),
			decimal.NewFromFloat(m.Rate).String(),
		})
	}

	valid := analysis.ValidPeriods(recordDates(balances))
	period := analysis.Choose(valid, query.Get("period"))
	keep := make(map[string]string, len(data.Fields))
	for _, f := range data.Fields {
		keep[f.Name] = f.Value
	}
	data.Period = periodSelector(valid, period, keep)

	balanceBuckets := analysis.Aggregate(balances, period, analysis.Max)
	incomeBuckets := analysis.Aggregate(incomes, period, analysis.Max)
	periods, balanceValues := bucketSeries(balanceBuckets)
	incomePeriods, incomeValues := bucketSeries(incomeBuckets)

	data.Charts = []Chart{
		lineChart("simulacao-patrimonio", "Evolução do Patrimônio", "Patrimônio (R$)", periods, balanceValues),
		barChart("simulacao-proventos", "Evolução dos Proventos", "Proventos (R$)", incomePeriods, incomeValues),
	}
	data.Tables = []Table{newTable("Progresso do Investimento - Mensal", monthlyColumns, rows)}

	if period != analysis.Month {
		aggRows := make([][]string, len(periods))
		for i := range periods {
			aggRows[i] = []string{periods[i], balanceValues[i].String(), incomeValues[i].String()}
		}
		data.Tables = append(data.Tables, newTable("Progresso do Investimento - "+period.String(),
			[]string{"Período", "Patrimônio (R$)", "Proventos (R$)"}, aggRows))
	}

	h.views.Render(w, r, http.StatusOK, viewSimulations, data)
}

// parseSimulationParams reads the form over defaults. Percent fields are
// converted to fractions.
func parseSimulationParams(query url.Values, defaults simulation.Params) (simulation.Params, error) {
	p := defaults
	fields := []struct {
		name    string
		dst     *float64
		percent bool
	}{
		{paramInitial, &p.InitialInvestment, false},
		{paramContribution, &p.MonthlyContribution, false},
		{paramRate, &p.MonthlyRate, true},
		{paramInflation, &p.AnnualInflation, true},
		{paramGoal, &p.Goal, false},
		{paramAdjustment, &p.AnnualContributionAdjustment, true},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(query.Get(f.name))
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
		if err != nil {
			return p, fmt.Errorf("%w: %s: %q is not a number", simulation.ErrInvalidParams, f.name, raw)
		}
		if f.percent {
			d = d.Shift(-2)
		}
		*f.dst = d.InexactFloat64()
	}

	if raw := strings.TrimSpace(query.Get(paramStart)); raw != "" {
		start, err := time.Parse("2006-01", raw)
		if err != nil {
			return p, fmt.Errorf("%w: %s: %q is not a YYYY-MM month", simulation.ErrInvalidParams, paramStart, raw)
		}
		p.Start = start
	}
	return p, p.Validate()
}

// simulationFields echoes what the user typed, or the value in use.
func simulationFields(query url.Values, p simulation.Params) []Field {
	value := func(name string, v float64, percent bool) string {
		if raw := query.Get(name); raw != "" {
			return raw
		}
		d := decimal.NewFromFloat(v)
		if percent {
			d = d.Shift(2)
		}
		return d.String()
	}
	start := query.Get(paramStart)
	if start == "" {
		start = p.Start.Format("2006-01")
	}
	return []Field{
		{Name: paramInitial, Label: "Investimento Inicial (R$)", Value: value(paramInitial, p.InitialInvestment, false), Step: "0.01", Type: "number"},
		{Name: paramContribution, Label: "Contribuição Mensal (R$)", Value: value(paramContribution, p.MonthlyContribution, false), Step: "0.01", Type: "number"},
		{Name: paramRate, Label: "Taxa de Retorno Mensal (%)", Value: value(paramRate, p.MonthlyRate, true), Step: "0.01", Type: "number"},
		{Name: paramInflation, Label: "Inflação Anual (%)", Value: value(paramInflation, p.AnnualInflation, true), Step: "0.1", Type: "number"},
		{Name: paramGoal, Label: "Meta de Investimento (R$)", Value: value(paramGoal, p.Goal, false), Step: "1000", Type: "number"},
		{Name: paramAdjustment, Label: "Ajuste Anual da Contribuição (%)", Value: value(paramAdjustment, p.AnnualContributionAdjustment, true), Step: "0.1", Type: "number"},
		{Name: paramStart, Label: "Data de Início", Value: start, Type: "month"},
	}
}
