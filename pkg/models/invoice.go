package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether the filer sold (Sales) or bought (Inputs) on a document.
type Direction string

const (
	DirectionSales  Direction = "Sales"
	DirectionInputs Direction = "Inputs"
)

// DirectionSource records how Direction was decided.
type DirectionSource string

const (
	DirectionFromIssuer   DirectionSource = "issuer"
	DirectionFromReceiver DirectionSource = "receiver"
	// DirectionDefaulted means the filer matched neither party and the record
	// was booked as Sales.
	DirectionDefaulted DirectionSource = "defaulted"
)

// DocumentKind is the canonical document type.
type DocumentKind string

const (
	KindInvoice    DocumentKind = "Invoice"
	KindCreditNote DocumentKind = "CreditNote"
	KindDebitNote  DocumentKind = "DebitNote"
)

// Label returns the display name used in report line items.
func (k DocumentKind) Label() string {
	switch k {
	case KindCreditNote:
		return "Credit Note"
	case KindDebitNote:
		return "Debit Note"
	default:
		return "Invoice"
	}
}

// Invoice is the normalized accounting record every report is built from.
type Invoice struct {
	// Core identifiers
	ID             string `json:"id"`             // Tax authority UUID
	SequenceNumber string `json:"sequenceNumber"` // Filer-assigned internal number, "N/A" when absent

	IssuedAt    time.Time `json:"issuedAt"`
	IssuedAtRaw string    `json:"-"` // Source timestamp as received
	Currency    string    `json:"currency"`

	Direction       Direction       `json:"direction"`
	DirectionSource DirectionSource `json:"directionSource"`

	// Parties
	IssuerID         string `json:"issuerId"`
	IssuerName       string `json:"issuerName"`
	ReceiverID       string `json:"receiverId"`
	ReceiverName     string `json:"receiverName"`
	CounterpartyID   string `json:"counterpartyId"`
	CounterpartyName string `json:"counterpartyName"`

	Kind     DocumentKind `json:"documentKind"`
	KindCode string       `json:"documentType"` // Source code, e.g. "I", "c"

	// Amounts are signed: credit notes carry negative values.
	NetSalesAmount   decimal.Decimal `json:"netSalesAmount"`
	GrossTotalAmount decimal.Decimal `json:"grossTotalAmount"`
	TaxAmount        decimal.Decimal `json:"taxAmount"` // VAT (T1)
	TableTaxAmount   decimal.Decimal `json:"tableTaxAmount"`
	WHTAmount        decimal.Decimal `json:"whtAmount"`
	OtherTaxAmount   decimal.Decimal `json:"otherTaxAmount"`

	// TaxEstimated is set when TaxAmount is gross minus net rather than an
	// itemized VAT figure; it may then include withholding or table tax.
	TaxEstimated bool `json:"taxEstimated"`

	IsExport bool `json:"isExport"`
}

// IsCreditNote reports whether the record reverses a previous invoice.
func (i *Invoice) IsCreditNote() bool {
	return i.Kind == KindCreditNote
}

// Month returns the YYYY-MM period key. The parsed time keeps the source
// offset, so the key matches the first seven characters of the timestamp.
// An unparseable timestamp falls back to its prefix; "" means unknown.
func (i *Invoice) Month() string {
	if !i.IssuedAt.IsZero() {
		return i.IssuedAt.Format("2006-01")
	}
	if len(i.IssuedAtRaw) >= 7 && i.IssuedAtRaw[4] == '-' {
		return i.IssuedAtRaw[:7]
	}
	return ""
}

// Year returns the issuance year, or 0 when the issuance time is unknown.
func (i *Invoice) Year() int {
	month := i.Month()
	if month == "" {
		return 0
	}
	year, err := strconv.Atoi(month[:4])
	if err != nil {
		return 0
	}
	return year
}
