package vat

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"taxengine/internal/logger"
	"taxengine/internal/money"
	"taxengine/pkg/models"
	"taxengine/pkg/services"
)

// monthLayout is the YYYY-MM period key layout.
const monthLayout = "2006-01"

// Generator produces monthly returns for every period in a record set.
type Generator struct {
	Aggregator     *Aggregator
	Filer          services.Filer
	SubmissionType string
	LegalBasis     string
	log            zerolog.Logger
}

// NewGenerator creates a generator for one filer.
func NewGenerator(aggregator *Aggregator, filer services.Filer) *Generator {
	return &Generator{
		Aggregator: aggregator,
		Filer:      filer,
		log:        logger.WithComponent("vat-generator"),
	}
}

// Result holds the generated returns in ascending period order and their
// cross-period summary.
type Result struct {
	Returns []services.MonthlyReturn
	Summary services.CrossPeriodSummary

	// Undated counts records without an issuance time; they belong to no
	// period.
	Undated int
}

// CurrentMonth returns the period key for now. It is the canonical
// exclusion, since a month still in progress cannot be filed.
func CurrentMonth(now time.Time) string {
	return now.Format(monthLayout)
}

// GroupByMonth partitions records by YYYY-MM of their issuance timestamp,
// keeping input order within each month.
func GroupByMonth(records []models.Invoice) (map[string][]models.Invoice, int) {
	grouped := make(map[string][]models.Invoice)
	undated := 0
	for i := range records {
		month := records[i].Month()
		if month == "" {
			undated++
			continue
		}
		grouped[month] = append(grouped[month], records[i])
	}
	return grouped, undated
}

// PeriodName renders a period key as "March 2025". Unparseable keys are
// returned unchanged.
func PeriodName(period string) string {
	t, err := time.Parse(monthLayout, period)
	if err != nil {
		return period
	}
	return t.Format("January 2006")
}

// Status labels a net due amount.
func Status(netDue decimal.Decimal) string {
	if netDue.IsNegative() {
		return services.StatusRefundable
	}
	return services.StatusPayable
}

// GenerateReturn builds the return for one period's records.
func (g *Generator) GenerateReturn(period string, records []models.Invoice) services.MonthlyReturn {
	t := g.Aggregator.tally(records)
	return g.wrap(period, len(records), t)
}

func (g *Generator) wrap(period string, count int, t *tally) services.MonthlyReturn {
	form := t.emit()
	return services.MonthlyReturn{
		Period:         period,
		PeriodName:     PeriodName(period),
		Filer:          g.Filer,
		SubmissionType: g.SubmissionType,
		LegalBasis:     g.LegalBasis,
		InvoiceCount:   count,
		Sales:          form.Sales,
		Inputs:         form.Inputs,
		Totals:         form.Totals,
		Summary: services.ReturnSummary{
			TotalSales:     money.Round(t.salesValue()),
			TotalOutputVAT: form.Totals.SalesTax,
			TotalInputVAT:  form.Totals.InputTax,
			NetVATDue:      form.Totals.NetDue,
			Status:         Status(form.Totals.NetDue),
		},
	}
}

// GenerateAllReturns builds one return per month not in excluded, ascending
// by period, and a cross-period summary whose totals are accumulated at full
// precision and rounded once.
func (g *Generator) GenerateAllReturns(records []models.Invoice, excluded map[string]bool) Result {
	grouped, undated := GroupByMonth(records)

	periods := make([]string, 0, len(grouped))
	for month := range grouped {
		if excluded[month] {
			g.log.Info().
				Str("period", month).
				Int("records", len(grouped[month])).
				Msg("Period excluded from generation")
			continue
		}
		periods = append(periods, month)
	}
	sort.Strings(periods)

	result := Result{
		Returns: make([]services.MonthlyReturn, 0, len(periods)),
		Undated: undated,
	}
	summary := services.CrossPeriodSummary{
		LegalBasis: g.LegalBasis,
		Periods:    make([]services.PeriodLine, 0, len(periods)),
	}
	var sales, outputVAT, inputVAT decimal.Decimal

	for _, period := range periods {
		monthRecords := grouped[period]
		t := g.Aggregator.tally(monthRecords)
		ret := g.wrap(period, len(monthRecords), t)
		result.Returns = append(result.Returns, ret)

		// Unrounded month figures feed the cross-period totals.
		sales = sales.Add(t.salesValue())
		outputVAT = outputVAT.Add(t.local.tax)
		inputVAT = inputVAT.Add(t.inputs.tax)

		summary.TotalReturns++
		summary.Totals.TotalInvoices += ret.InvoiceCount
		summary.Periods = append(summary.Periods, services.PeriodLine{
			Period:       ret.Period,
			PeriodName:   ret.PeriodName,
			InvoiceCount: ret.InvoiceCount,
			NetVATDue:    ret.Summary.NetVATDue,
			Status:       ret.Summary.Status,
		})

		g.log.Debug().
			Str("period", period).
			Int("records", ret.InvoiceCount).
			Str("net_due", ret.Summary.NetVATDue.String()).
			Str("status", ret.Summary.Status).
			Msg("Monthly return generated")
	}

	summary.Totals.TotalSales = money.Round(sales)
	summary.Totals.TotalOutputVAT = money.Round(outputVAT)
	summary.Totals.TotalInputVAT = money.Round(inputVAT)
	summary.Totals.TotalNetVATDue = money.Round(outputVAT.Sub(inputVAT))
	result.Summary = summary

	g.log.Info().
		Int("returns", summary.TotalReturns).
		Int("invoices", summary.Totals.TotalInvoices).
		Int("excluded_periods", len(grouped)-len(periods)).
		Int("undated", undated).
		Str("net_vat_due", summary.Totals.TotalNetVATDue.String()).
		Msg("Multi-period generation completed")

	return result
}
