package invoice

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"taxengine/internal/eta"
	"taxengine/internal/logger"
	"taxengine/pkg/models"
	"taxengine/pkg/services"
)

var minusOne = decimal.NewFromInt(-1)

// Normalizer turns canonical documents into signed accounting records for
// one filer.
type Normalizer struct {
	opts      Options
	estimator *TaxEstimation
	log       zerolog.Logger
}

// NewNormalizer creates a normalizer. Empty option fields take their
// defaults.
func NewNormalizer(opts Options) *Normalizer {
	defaults := DefaultOptions(opts.FilerTaxID)
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = defaults.DefaultCurrency
	}
	if opts.ExportPartyType == "" {
		opts.ExportPartyType = defaults.ExportPartyType
	}
	opts.FilerTaxID = strings.TrimSpace(opts.FilerTaxID)

	return &Normalizer{
		opts:      opts,
		estimator: NewTaxEstimation(),
		log:       logger.WithComponent("normalizer"),
	}
}

// Normalize converts one canonical document. ok is false when the document
// has no identifier.
func (n *Normalizer) Normalize(doc eta.Document) (models.Invoice, bool) {
	if doc.UUID == "" {
		n.log.Debug().
			Str("internal_id", doc.InternalID).
			Msg("Document has no identifier, skipping")
		return models.Invoice{}, false
	}

	kind := ParseKind(doc.TypeCode)
	sign := decimal.NewFromInt(1)
	if kind == models.KindCreditNote {
		sign = minusOne
	}

	inv := models.Invoice{
		ID:             doc.UUID,
		SequenceNumber: orDefault(doc.InternalID, NotAvailable),
		IssuedAt:       doc.IssuedAt,
		IssuedAtRaw:    doc.IssuedAtRaw,
		Currency:       strings.ToUpper(orDefault(doc.Currency, n.opts.DefaultCurrency)),
		IssuerID:       orDefault(doc.Issuer.ID, Unknown),
		IssuerName:     orDefault(doc.Issuer.Name, Unknown),
		ReceiverID:     orDefault(doc.Receiver.ID, Unknown),
		ReceiverName:   orDefault(doc.Receiver.Name, Unknown),
		Kind:           kind,
		KindCode:       doc.TypeCode,
		IsExport:       strings.EqualFold(doc.Receiver.Type, n.opts.ExportPartyType),
	}

	inv.Direction, inv.DirectionSource = n.resolveDirection(doc)
	if inv.Direction == models.DirectionInputs {
		inv.CounterpartyID, inv.CounterpartyName = inv.IssuerID, inv.IssuerName
	} else {
		inv.CounterpartyID, inv.CounterpartyName = inv.ReceiverID, inv.ReceiverName
	}

	net := doc.NetAmount
	if net.IsZero() {
		net = doc.TotalSales
	}
	taxes := n.estimator.Taxes(doc, net)

	inv.NetSalesAmount = net.Mul(sign)
	inv.GrossTotalAmount = doc.TotalAmount.Mul(sign)
	inv.TaxAmount = taxes.VAT.Mul(sign)
	inv.TableTaxAmount = taxes.Table.Mul(sign)
	inv.WHTAmount = taxes.Withholding.Mul(sign)
	inv.OtherTaxAmount = taxes.Other.Mul(sign)
	inv.TaxEstimated = taxes.Estimated

	n.log.Debug().
		Str("uuid", inv.ID).
		Str("direction", string(inv.Direction)).
		Str("kind", string(inv.Kind)).
		Str("net", inv.NetSalesAmount.String()).
		Str("vat", inv.TaxAmount.String()).
		Bool("estimated", inv.TaxEstimated).
		Msg("Document normalized")

	return inv, true
}

// NormalizeRaw decodes one payload and normalizes it.
func (n *Normalizer) NormalizeRaw(raw []byte) (models.Invoice, bool) {
	doc, err := eta.Parse(raw)
	if err != nil {
		n.log.Debug().Err(err).Msg("Payload is not a document, skipping")
		return models.Invoice{}, false
	}
	return n.Normalize(doc)
}

// NormalizeBatch normalizes every document, keeping input order, and counts
// what had to be skipped or defaulted.
func (n *Normalizer) NormalizeBatch(docs []services.RawDocument) BatchResult {
	result := BatchResult{
		Invoices: make([]models.Invoice, 0, len(docs)),
		Total:    len(docs),
	}

	for _, raw := range docs {
		doc, err := eta.Parse(raw.Data)
		if err != nil {
			n.log.Warn().
				Err(err).
				Str("document", raw.Name).
				Msg("Failed to parse document, skipping")
			result.Skipped++
			continue
		}

		inv, ok := n.Normalize(doc)
		if !ok {
			n.log.Warn().
				Str("document", raw.Name).
				Msg("Document has no identifier, skipping")
			result.Skipped++
			continue
		}

		if doc.NestedErr != nil {
			n.log.Warn().
				Err(doc.NestedErr).
				Str("document", raw.Name).
				Msg("Embedded document unreadable, using top-level fields")
			result.Fallbacks++
		}
		if inv.DirectionSource == models.DirectionDefaulted {
			result.Defaulted++
		}
		if inv.TaxEstimated {
			result.Estimated++
		}
		result.Invoices = append(result.Invoices, inv)
	}

	n.log.Info().
		Int("total", result.Total).
		Int("normalized", len(result.Invoices)).
		Int("skipped", result.Skipped).
		Int("defaulted_direction", result.Defaulted).
		Int("nested_fallbacks", result.Fallbacks).
		Int("estimated_tax", result.Estimated).
		Msg("Batch normalization completed")

	return result
}

func (n *Normalizer) resolveDirection(doc eta.Document) (models.Direction, models.DirectionSource) {
	switch {
	case n.opts.FilerTaxID != "" && doc.Issuer.ID == n.opts.FilerTaxID:
		return models.DirectionSales, models.DirectionFromIssuer
	case n.opts.FilerTaxID != "" && doc.Receiver.ID == n.opts.FilerTaxID:
		return models.DirectionInputs, models.DirectionFromReceiver
	default:
		return models.DirectionSales, models.DirectionDefaulted
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
