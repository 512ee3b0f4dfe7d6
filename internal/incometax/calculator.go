// Package incometax computes the annual corporate income tax return from a
// fiscal year's normalized records and manually entered operating expenses.
package incometax

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"taxengine/internal/logger"
	"taxengine/internal/money"
	"taxengine/pkg/models"
	"taxengine/pkg/services"
)

// DefaultRate is the statutory corporate rate applied when none is configured.
var DefaultRate = decimal.RequireFromString("0.225")

// CostPolicy decides whether a purchase counts as cost of goods sold.
type CostPolicy interface {
	IsCOGS(inv *models.Invoice) bool
}

// AllPurchases treats every Inputs record as cost of goods sold. Real
// purchases also include overheads; those belong in operating expenses and
// are not separated here.
type AllPurchases struct{}

// IsCOGS implements CostPolicy.
func (AllPurchases) IsCOGS(inv *models.Invoice) bool {
	return inv.Direction == models.DirectionInputs
}

// Calculator computes annual returns for one filer.
type Calculator struct {
	Rate decimal.Decimal

	// PartialYears maps a fiscal year to the note explaining why it covers
	// less than twelve months of operations.
	PartialYears map[int]string

	CostPolicy     CostPolicy
	Filer          services.Filer
	Currency       string
	SubmissionType string
	LegalBasis     string

	log zerolog.Logger
}

// NewCalculator creates a calculator with the default rate and cost policy.
func NewCalculator(filer services.Filer) *Calculator {
	return &Calculator{
		Rate:         DefaultRate,
		PartialYears: map[int]string{},
		CostPolicy:   AllPurchases{},
		Filer:        filer,
		Currency:     "EGP",
		log:          logger.WithComponent("income-tax"),
	}
}

// ComputeAnnualReturn builds the return for fiscalYear. Records issued in
// other years are ignored.
func (c *Calculator) ComputeAnnualReturn(records []models.Invoice, fiscalYear int, expenses services.OperatingExpenses) services.AnnualReturn {
	var revenue, cogs decimal.Decimal
	ret := services.AnnualReturn{
		Year:           fiscalYear,
		FiscalPeriod:   fmt.Sprintf("%d-01-01 to %d-12-31", fiscalYear, fiscalYear),
		Filer:          c.Filer,
		SubmissionType: c.SubmissionType,
		LegalBasis:     c.LegalBasis,
		Revenue:        services.AnnualRevenue{Breakdown: []services.AnnualLine{}},
		COGS:           services.AnnualCOGS{Breakdown: []services.AnnualLine{}},
		Notes:          []string{},
	}

	for i := range records {
		inv := &records[i]
		if inv.Year() != fiscalYear {
			continue
		}
		switch {
		case inv.Direction == models.DirectionSales:
			revenue = revenue.Add(inv.NetSalesAmount)
			ret.Revenue.SalesInvoiceCount++
			ret.Revenue.Breakdown = append(ret.Revenue.Breakdown, annualLine(inv))
		case c.CostPolicy.IsCOGS(inv):
			cogs = cogs.Add(inv.NetSalesAmount)
			ret.COGS.PurchaseInvoiceCount++
			ret.COGS.Breakdown = append(ret.COGS.Breakdown, annualLine(inv))
		}
	}

	totalExpenses := expenses.Total()
	grossProfit := revenue.Sub(cogs)
	netProfit := grossProfit.Sub(totalExpenses)
	taxable := decimal.Max(netProfit, decimal.Zero)
	tax := decimal.Zero
	if taxable.IsPositive() {
		tax = taxable.Mul(c.Rate)
	}

	ret.Revenue.TotalRevenue = money.Round(revenue)
	ret.COGS.TotalCOGS = money.Round(cogs)
	ret.GrossProfit = money.Round(grossProfit)
	ret.OperatingExpenses = services.ExpenseLines{
		OperatingExpenses: expenses,
		Total:             money.Round(totalExpenses),
	}
	ret.NetProfit = money.Round(netProfit)
	ret.TaxableIncome = money.Round(taxable)
	ret.CorporateTax = money.Round(tax)
	ret.TaxRate = c.Rate
	ret.Notes = c.notes(fiscalYear, netProfit, totalExpenses)

	c.log.Info().
		Int("year", fiscalYear).
		Int("sales_invoices", ret.Revenue.SalesInvoiceCount).
		Int("purchase_invoices", ret.COGS.PurchaseInvoiceCount).
		Str("net_profit", ret.NetProfit.String()).
		Str("corporate_tax", ret.CorporateTax.String()).
		Msg("Annual return computed")

	return ret
}

func (c *Calculator) notes(year int, netProfit, totalExpenses decimal.Decimal) []string {
	notes := []string{}
	if note, ok := c.PartialYears[year]; ok {
		notes = append(notes, note)
	}
	if netProfit.IsNegative() {
		notes = append(notes,
			fmt.Sprintf("Loss of %s %s - No tax due", money.Format(netProfit.Abs()), c.Currency),
			"Loss can be carried forward to offset future profits",
		)
	}
	if totalExpenses.IsZero() {
		notes = append(notes,
			"WARNING: No operating expenses entered - tax calculation incomplete",
			"Please add salaries, rent, utilities, and other expenses",
		)
	}
	return notes
}

func annualLine(inv *models.Invoice) services.AnnualLine {
	date := inv.IssuedAtRaw
	if !inv.IssuedAt.IsZero() {
		date = inv.IssuedAt.Format("2006-01-02")
	}
	return services.AnnualLine{
		ID:           inv.SequenceNumber,
		Date:         date,
		Counterparty: inv.CounterpartyName,
		Amount:       money.Round(inv.NetSalesAmount),
	}
}
