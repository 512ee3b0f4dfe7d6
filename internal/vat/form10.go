package vat

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"taxengine/internal/logger"
	"taxengine/internal/money"
	"taxengine/pkg/models"
	"taxengine/pkg/services"
)

// Aggregator builds Form-10 returns for one period's records.
type Aggregator struct {
	Classifier SalesClassifier
	log        zerolog.Logger
}

// NewAggregator creates an aggregator using the StandardClassifier for the
// given home currency.
func NewAggregator(homeCurrency string) *Aggregator {
	return NewAggregatorWithClassifier(StandardClassifier{HomeCurrency: homeCurrency})
}

// NewAggregatorWithClassifier creates an aggregator with a custom sales
// classification policy.
func NewAggregatorWithClassifier(classifier SalesClassifier) *Aggregator {
	return &Aggregator{
		Classifier: classifier,
		log:        logger.WithComponent("form10"),
	}
}

// bucket accumulates one Form-10 line at full precision.
type bucket struct {
	value decimal.Decimal
	tax   decimal.Decimal
	items []services.LineItem
}

func (b *bucket) add(inv *models.Invoice) {
	b.value = b.value.Add(inv.NetSalesAmount)
	b.tax = b.tax.Add(inv.TaxAmount)
	b.items = append(b.items, lineItem(inv))
}

func (b *bucket) emit() services.Bucket {
	items := b.items
	if items == nil {
		items = []services.LineItem{}
	}
	return services.Bucket{
		Value: money.Round(b.value),
		Tax:   money.Round(b.tax),
		Items: items,
	}
}

// tally is an unrounded Form-10.
type tally struct {
	local, exports, exempt, inputs bucket
	dropped                        int
}

func (t *tally) salesValue() decimal.Decimal {
	return t.local.value.Add(t.exports.value).Add(t.exempt.value)
}

func (t *tally) netDue() decimal.Decimal {
	return t.local.tax.Sub(t.inputs.tax)
}

func (t *tally) emit() services.Form10 {
	return services.Form10{
		Sales: services.SalesBuckets{
			Local:   t.local.emit(),
			Exports: t.exports.emit(),
			Exempt:  t.exempt.emit(),
		},
		Inputs: t.inputs.emit(),
		Totals: services.Form10Totals{
			SalesTax: money.Round(t.local.tax),
			InputTax: money.Round(t.inputs.tax),
			NetDue:   money.Round(t.netDue()),
		},
	}
}

// BuildForm10 aggregates records into a Form-10 return. Sales records are
// split by the classifier; inputs are accumulated regardless of tax sign.
// Amounts are rounded once, on the returned value.
func (a *Aggregator) BuildForm10(records []models.Invoice) services.Form10 {
	t := a.tally(records)
	return t.emit()
}

func (a *Aggregator) tally(records []models.Invoice) *tally {
	t := &tally{}
	for i := range records {
		inv := &records[i]
		if inv.Direction == models.DirectionInputs {
			t.inputs.add(inv)
			continue
		}
		switch a.Classifier.Classify(inv) {
		case BucketLocal:
			t.local.add(inv)
		case BucketExports:
			t.exports.add(inv)
		case BucketExempt:
			t.exempt.add(inv)
		default:
			t.dropped++
		}
	}

	a.log.Debug().
		Int("records", len(records)).
		Int("local", len(t.local.items)).
		Int("exports", len(t.exports.items)).
		Int("exempt", len(t.exempt.items)).
		Int("inputs", len(t.inputs.items)).
		Int("dropped", t.dropped).
		Str("net_due", t.netDue().String()).
		Msg("Form-10 aggregated")

	return t
}

func lineItem(inv *models.Invoice) services.LineItem {
	return services.LineItem{
		ID:           inv.SequenceNumber,
		UUID:         inv.ID,
		Date:         issueDate(inv),
		Counterparty: inv.CounterpartyName,
		Total:        money.Round(inv.NetSalesAmount),
		VAT:          money.Round(inv.TaxAmount),
		Type:         inv.Kind.Label(),
	}
}

func issueDate(inv *models.Invoice) string {
	if !inv.IssuedAt.IsZero() {
		return inv.IssuedAt.Format("2006-01-02")
	}
	if len(inv.IssuedAtRaw) >= 10 {
		return inv.IssuedAtRaw[:10]
	}
	return inv.IssuedAtRaw
}
