// Package invoice normalizes tax authority e-invoice documents into
// accounting records.
//
// Normalization decides, for one document and one filer:
//   - Direction: Sales when the filer issued the document, Inputs when the
//     filer received it. Documents matching neither party are booked as
//     Sales and marked DirectionDefaulted so compliance checks can report them.
//   - Kind and sign: credit notes carry every amount negated, so summing any
//     record set yields the net effect of notes without special cases.
//   - Taxes: itemized VAT, table tax and withholding when the document has a
//     breakdown; otherwise VAT is estimated as gross minus net. The estimate
//     cannot tell VAT from withholding folded into the same difference, and
//     records carry TaxEstimated so consumers know.
//
// Normalization is a pure function of the document and Options. It never
// fails: documents it cannot use are reported as not ok and counted.
package invoice

import (
	"strings"

	"taxengine/pkg/models"
	"taxengine/pkg/services"
)

// NotAvailable stands in for an absent filer sequence number.
const NotAvailable = "N/A"

// Unknown stands in for an absent party name or identifier.
const Unknown = "Unknown"

// Options configures normalization for one filer.
type Options struct {
	// FilerTaxID is the filer's own tax registration number.
	FilerTaxID string

	// DefaultCurrency applies when a document carries no currency code.
	// Default: "EGP".
	DefaultCurrency string

	// ExportPartyType is the receiver type code that marks a foreign buyer.
	// Default: "F".
	ExportPartyType string
}

// DefaultOptions returns Options with sensible defaults for the given filer.
func DefaultOptions(filerTaxID string) Options {
	return Options{
		FilerTaxID:      filerTaxID,
		DefaultCurrency: "EGP",
		ExportPartyType: "F",
	}
}

// InvoiceNormalizer defines the interface for document normalization.
type InvoiceNormalizer interface {
	// NormalizeRaw decodes and normalizes one payload. ok is false when the
	// payload is not a usable document.
	NormalizeRaw(raw []byte) (models.Invoice, bool)

	// NormalizeBatch normalizes every document and reports data quality.
	NormalizeBatch(docs []services.RawDocument) BatchResult
}

// BatchResult is the outcome of normalizing a set of documents.
type BatchResult struct {
	// Invoices holds the usable records in input order.
	Invoices []models.Invoice

	// Total is the number of documents offered.
	Total int

	// Skipped counts documents that were not objects or had no identifier.
	Skipped int

	// Defaulted counts records whose direction matched neither party.
	Defaulted int

	// Fallbacks counts records whose embedded document was unreadable and
	// were built from top-level fields.
	Fallbacks int

	// Estimated counts records whose VAT was estimated from totals.
	Estimated int
}

// ParseKind maps an authority document type code to a DocumentKind.
// Unknown codes are treated as invoices.
func ParseKind(code string) models.DocumentKind {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "c", "credit", "creditnote", "credit note":
		return models.KindCreditNote
	case "d", "debit", "debitnote", "debit note":
		return models.KindDebitNote
	default:
		return models.KindInvoice
	}
}
