// Package eta adapts the tax authority's raw e-invoice payloads into one
// canonical Document.
//
// Payloads arrive in two shapes. Search results are flat metadata objects
// with totals only. Full documents embed the complete signed document under
// "document", either as an object or as a JSON string that needs a second
// parse, and carry an itemized tax breakdown. Every "try this key, then that
// one" decision lives in this package so the rest of the engine never
// branches on source shape.
package eta

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shape identifies which raw layout a Document was read from.
type Shape int

const (
	// ShapeSearchResult is the flat search-metadata layout (v1).
	ShapeSearchResult Shape = 1
	// ShapeFullDocument carries a nested "document" payload (v2).
	ShapeFullDocument Shape = 2
)

func (s Shape) String() string {
	switch s {
	case ShapeSearchResult:
		return "search-result"
	case ShapeFullDocument:
		return "full-document"
	default:
		return "unknown"
	}
}

// TaxType is an authority tax type code.
type TaxType string

const (
	TaxVAT           TaxType = "T1"
	TaxTable         TaxType = "T2"
	TaxWithholding   TaxType = "T4"
	TaxStamp         TaxType = "T6"
	TaxEntertainment TaxType = "T7"
)

// Party is one side of a document.
type Party struct {
	ID   string
	Name string
	Type string // "B" business, "P" person, "F" foreigner
}

// Document is the canonical intermediate record. Amounts are unsigned as
// received; sign handling belongs to normalization.
type Document struct {
	Shape Shape

	UUID       string
	InternalID string

	Issuer   Party
	Receiver Party

	TypeCode    string
	IssuedAtRaw string
	IssuedAt    time.Time
	Currency    string

	TotalSales  decimal.Decimal
	NetAmount   decimal.Decimal
	TotalAmount decimal.Decimal

	// TaxTotals is nil when the payload has no itemized breakdown.
	TaxTotals map[TaxType]decimal.Decimal

	// NestedErr is set when an embedded document could not be read and the
	// top-level fields were used instead.
	NestedErr error
}

// HasBreakdown reports whether itemized tax totals are available.
func (d *Document) HasBreakdown() bool {
	return len(d.TaxTotals) > 0
}

// Tax returns the breakdown amount for one tax type, zero when absent.
func (d *Document) Tax(t TaxType) decimal.Decimal {
	if v, ok := d.TaxTotals[t]; ok {
		return v
	}
	return decimal.Zero
}
