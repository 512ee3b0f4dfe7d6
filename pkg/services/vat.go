package services

import (
	"github.com/shopspring/decimal"
)

// Net VAT position labels.
const (
	StatusPayable    = "Payable"
	StatusRefundable = "Refundable"
)

// LineItem is one invoice as listed inside a Form-10 bucket.
type LineItem struct {
	ID           string          `json:"id"` // Filer sequence number
	UUID         string          `json:"uuid"`
	Date         string          `json:"date"` // YYYY-MM-DD
	Counterparty string          `json:"customer"`
	Total        decimal.Decimal `json:"total"`
	VAT          decimal.Decimal `json:"vat"`
	Type         string          `json:"type"` // "Invoice", "Credit Note", "Debit Note"
}

// Bucket is one Form-10 line: value, tax and contributing invoices.
type Bucket struct {
	Value decimal.Decimal `json:"value"`
	Tax   decimal.Decimal `json:"tax"`
	Items []LineItem      `json:"items"`
}

// SalesBuckets splits output-side documents by VAT treatment.
type SalesBuckets struct {
	Local   Bucket `json:"local"`
	Exports Bucket `json:"exports"`
	Exempt  Bucket `json:"exempt"`
}

// Form10Totals is the net VAT position; NetDue > 0 is payable.
type Form10Totals struct {
	SalesTax decimal.Decimal `json:"salesTax"`
	InputTax decimal.Decimal `json:"inputTax"`
	NetDue   decimal.Decimal `json:"netDue"`
}

// Form10 is a monthly VAT return breakdown.
type Form10 struct {
	Sales  SalesBuckets `json:"sales"`
	Inputs Bucket       `json:"inputs"`
	Totals Form10Totals `json:"totals"`
}

// PeriodSummary is the coarse dashboard rollup of a record set.
type PeriodSummary struct {
	TotalSales      decimal.Decimal `json:"totalSales"`
	TotalVAT        decimal.Decimal `json:"totalVAT"`
	TotalTableTax   decimal.Decimal `json:"totalTableTax"`
	TotalWHT        decimal.Decimal `json:"totalWHT"`
	InvoiceCount    int             `json:"invoiceCount"`
	CreditNoteCount int             `json:"creditNoteCount"`
}

// ReturnSummary condenses one monthly return.
type ReturnSummary struct {
	TotalSales     decimal.Decimal `json:"totalSales"`
	TotalOutputVAT decimal.Decimal `json:"totalOutputVAT"`
	TotalInputVAT  decimal.Decimal `json:"totalInputVAT"`
	NetVATDue      decimal.Decimal `json:"netVATDue"`
	Status         string          `json:"status"`
}

// Filer identifies the taxpayer a return is prepared for.
type Filer struct {
	TaxID string `json:"companyId"`
	Name  string `json:"companyName"`
}

// MonthlyReturn is a Form-10 wrapped with period metadata.
type MonthlyReturn struct {
	Period         string        `json:"period"`     // YYYY-MM
	PeriodName     string        `json:"periodName"` // "March 2025"
	Filer          Filer         `json:"filer"`
	SubmissionType string        `json:"submissionType,omitempty"`
	LegalBasis     string        `json:"legalBasis,omitempty"`
	InvoiceCount   int           `json:"invoiceCount"`
	Sales          SalesBuckets  `json:"sales"`
	Inputs         Bucket        `json:"inputs"`
	Totals         Form10Totals  `json:"totals"`
	Summary        ReturnSummary `json:"summary"`
}

// PeriodLine is one month inside a cross-period summary.
type PeriodLine struct {
	Period       string          `json:"period"`
	PeriodName   string          `json:"periodName"`
	InvoiceCount int             `json:"invoiceCount"`
	NetVATDue    decimal.Decimal `json:"netVATDue"`
	Status       string          `json:"status"`
}

// CrossPeriodTotals sums every generated month.
type CrossPeriodTotals struct {
	TotalInvoices  int             `json:"totalInvoices"`
	TotalSales     decimal.Decimal `json:"totalSales"`
	TotalOutputVAT decimal.Decimal `json:"totalOutputVAT"`
	TotalInputVAT  decimal.Decimal `json:"totalInputVAT"`
	TotalNetVATDue decimal.Decimal `json:"totalNetVATDue"`
}

// CrossPeriodSummary lists every generated month and their totals.
type CrossPeriodSummary struct {
	TotalReturns int               `json:"totalReturns"`
	LegalBasis   string            `json:"legalBasis,omitempty"`
	Periods      []PeriodLine      `json:"periods"`
	Totals       CrossPeriodTotals `json:"totals"`
}
