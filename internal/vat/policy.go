// Package vat builds monthly Form-10 VAT returns from normalized records and
// generates them across every month of a record set.
package vat

import (
	"strings"

	"taxengine/pkg/models"
)

// SalesBucket is the Form-10 line a sales record is reported on.
type SalesBucket int

const (
	// BucketNone drops the record from every sales line.
	BucketNone SalesBucket = iota
	BucketLocal
	BucketExports
	BucketExempt
)

func (b SalesBucket) String() string {
	switch b {
	case BucketLocal:
		return "local"
	case BucketExports:
		return "exports"
	case BucketExempt:
		return "exempt"
	default:
		return "none"
	}
}

// SalesClassifier decides the VAT treatment of one sales record. Inputs are
// never classified.
type SalesClassifier interface {
	Classify(inv *models.Invoice) SalesBucket
}

// StandardClassifier treats any record carrying tax as a standard-rate local
// sale. An untaxed record in a currency other than HomeCurrency counts as an
// export, otherwise as exempt. Zero amount with zero tax is dropped.
//
// Foreign currency is used as a proxy for export; the engine has no rate
// table to tell zero-rated from exempt supplies.
type StandardClassifier struct {
	HomeCurrency string
}

// Classify implements SalesClassifier.
func (c StandardClassifier) Classify(inv *models.Invoice) SalesBucket {
	switch {
	case !inv.TaxAmount.IsZero():
		return BucketLocal
	case inv.NetSalesAmount.IsZero():
		return BucketNone
	case !strings.EqualFold(inv.Currency, c.HomeCurrency):
		return BucketExports
	default:
		return BucketExempt
	}
}
