package services

import (
	"github.com/shopspring/decimal"
)

// OperatingExpenses are entered by the filer; the engine cannot derive them
// from e-invoices. Absent categories are zero.
type OperatingExpenses struct {
	Salaries     decimal.Decimal `json:"salaries"`
	Rent         decimal.Decimal `json:"rent"`
	Utilities    decimal.Decimal `json:"utilities"`
	Marketing    decimal.Decimal `json:"marketing"`
	Depreciation decimal.Decimal `json:"depreciation"`
	Other        decimal.Decimal `json:"other"`
}

// Total sums every category.
func (e OperatingExpenses) Total() decimal.Decimal {
	return e.Salaries.Add(e.Rent).Add(e.Utilities).Add(e.Marketing).Add(e.Depreciation).Add(e.Other)
}

// AnnualLine is one invoice contributing to revenue or cost of goods sold.
type AnnualLine struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	Counterparty string          `json:"counterparty"`
	Amount       decimal.Decimal `json:"amount"`
}

// AnnualRevenue is the sales side of an income tax return.
type AnnualRevenue struct {
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	SalesInvoiceCount int             `json:"salesInvoiceCount"`
	Breakdown         []AnnualLine    `json:"breakdown"`
}

// AnnualCOGS is the purchase side of an income tax return.
type AnnualCOGS struct {
	TotalCOGS            decimal.Decimal `json:"totalCOGS"`
	PurchaseInvoiceCount int             `json:"purchaseInvoiceCount"`
	Breakdown            []AnnualLine    `json:"breakdown"`
}

// ExpenseLines is the operating expense block with its total.
type ExpenseLines struct {
	OperatingExpenses
	Total decimal.Decimal `json:"total"`
}

// AnnualReturn is a corporate income tax computation for one fiscal year.
type AnnualReturn struct {
	Year              int             `json:"year"`
	FiscalPeriod      string          `json:"fiscalPeriod"`
	Filer             Filer           `json:"filer"`
	SubmissionType    string          `json:"submissionType,omitempty"`
	LegalBasis        string          `json:"legalBasis,omitempty"`
	Revenue           AnnualRevenue   `json:"revenue"`
	COGS              AnnualCOGS      `json:"cogs"`
	GrossProfit       decimal.Decimal `json:"grossProfit"`
	OperatingExpenses ExpenseLines    `json:"operatingExpenses"`
	NetProfit         decimal.Decimal `json:"netProfit"`
	TaxableIncome     decimal.Decimal `json:"taxableIncome"`
	CorporateTax      decimal.Decimal `json:"corporateTax"`
	TaxRate           decimal.Decimal `json:"taxRate"`
	Notes             []string        `json:"notes"`
}
