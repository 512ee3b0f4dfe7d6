package invoice

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"taxengine/internal/eta"
	"taxengine/internal/logger"
	"taxengine/internal/money"
)

// crossCheckTolerance is the largest gap between net + taxes and the
// document total that is accepted without a warning.
var crossCheckTolerance = decimal.RequireFromString("0.05")

// TaxEstimation derives per-type tax figures for a document.
type TaxEstimation struct {
	log zerolog.Logger
}

// NewTaxEstimation creates a new tax estimation service
func NewTaxEstimation() *TaxEstimation {
	return &TaxEstimation{
		log: logger.WithComponent("tax-estimation"),
	}
}

// Taxes holds unsigned tax figures for one document.
type Taxes struct {
	VAT         decimal.Decimal
	Table       decimal.Decimal
	Withholding decimal.Decimal
	Other       decimal.Decimal
	Estimated   bool
}

// Taxes reads the itemized breakdown when present. Without one, VAT is the
// document total minus net, rounded once; table tax and withholding are then
// unknown and reported as zero.
func (te *TaxEstimation) Taxes(doc eta.Document, net decimal.Decimal) Taxes {
	if !doc.HasBreakdown() {
		return Taxes{
			VAT:       money.Round(doc.TotalAmount.Sub(net)),
			Estimated: true,
		}
	}

	taxes := Taxes{
		VAT:         doc.Tax(eta.TaxVAT),
		Table:       doc.Tax(eta.TaxTable),
		Withholding: doc.Tax(eta.TaxWithholding),
	}
	for code, amount := range doc.TaxTotals {
		switch code {
		case eta.TaxVAT, eta.TaxTable, eta.TaxWithholding:
		default:
			taxes.Other = taxes.Other.Add(amount)
		}
	}

	te.crossCheck(doc, net, taxes)
	return taxes
}

// crossCheck logs documents whose total does not reconcile with net plus
// taxes. Withholding reduces the payable total.
func (te *TaxEstimation) crossCheck(doc eta.Document, net decimal.Decimal, taxes Taxes) {
	if doc.TotalAmount.IsZero() {
		return
	}
	calculated := net.Add(taxes.VAT).Add(taxes.Table).Add(taxes.Other).Sub(taxes.Withholding)
	difference := calculated.Sub(doc.TotalAmount).Abs()
	if difference.GreaterThan(crossCheckTolerance) {
		te.log.Warn().
			Str("uuid", doc.UUID).
			Str("net", net.String()).
			Str("vat", taxes.VAT.String()).
			Str("withholding", taxes.Withholding.String()).
			Str("calculated", calculated.String()).
			Str("total", doc.TotalAmount.String()).
			Str("difference", difference.String()).
			Msg("Document total does not match net plus taxes")
	}
}
