package compliance

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"taxengine/internal/logger"
	"taxengine/pkg/models"
)

// Checker runs anomaly checks over normalized records.
type Checker struct {
	log zerolog.Logger
}

// NewChecker creates a new compliance checker
func NewChecker() *Checker {
	return &Checker{
		log: logger.WithComponent("compliance"),
	}
}

// CheckAnomalies runs every check. Sequence gaps come first, Sales then
// Inputs, followed by per-record flags in input order.
func (c *Checker) CheckAnomalies(records []models.Invoice) []Flag {
	flags := make([]Flag, 0)
	flags = append(flags, c.sequenceGaps(records, models.DirectionSales)...)
	flags = append(flags, c.sequenceGaps(records, models.DirectionInputs)...)

	for i := range records {
		flags = append(flags, recordFlags(&records[i])...)
	}

	c.log.Info().
		Int("records", len(records)).
		Int("flags", len(flags)).
		Msg("Compliance checks completed")

	return flags
}

// CheckSingle reviews one record without cross-record context, so only the
// zero-VAT check applies.
func (c *Checker) CheckSingle(inv models.Invoice) Review {
	flags := make([]Flag, 0, 1)
	if flag, ok := zeroVAT(&inv); ok {
		flags = append(flags, flag)
	}
	return Review{
		Invoice: inv,
		Flags:   flags,
		IsValid: len(flags) == 0,
	}
}

// sequenceGaps sorts one direction's integer sequence numbers and reports
// every jump larger than one. Non-numeric numbers are left out.
func (c *Checker) sequenceGaps(records []models.Invoice, dir models.Direction) []Flag {
	var seqs []int64
	skipped := 0
	for i := range records {
		if records[i].Direction != dir {
			continue
		}
		raw := strings.TrimSpace(records[i].SequenceNumber)
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			skipped++
			continue
		}
		seqs = append(seqs, n)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })

	if skipped > 0 {
		c.log.Debug().
			Str("direction", string(dir)).
			Int("skipped", skipped).
			Msg("Non-numeric sequence numbers excluded from gap check")
	}

	var flags []Flag
	for i := 1; i < len(seqs); i++ {
		prev, cur := seqs[i-1], seqs[i]
		if cur <= prev+1 {
			continue
		}
		flags = append(flags, Flag{
			Type:      TypeMissingSequence,
			Code:      CodeMissingSequence,
			Direction: dir,
			FromID:    strconv.FormatInt(prev, 10),
			ToID:      strconv.FormatInt(cur, 10),
			Message: fmt.Sprintf("Gap in %s invoice sequence detected between %d and %d",
				strings.ToLower(string(dir)), prev, cur),
		})
	}
	return flags
}

func recordFlags(inv *models.Invoice) []Flag {
	var flags []Flag
	if flag, ok := zeroVAT(inv); ok {
		flags = append(flags, flag)
	}
	if inv.DirectionSource == models.DirectionDefaulted {
		flags = append(flags, Flag{
			Type:      TypeWarning,
			Code:      CodeUnclassifiedDirection,
			Direction: inv.Direction,
			InvoiceID: inv.ID,
			Message: fmt.Sprintf("Invoice %s names the filer as neither issuer nor receiver; booked as %s",
				inv.SequenceNumber, inv.Direction),
		})
	}
	return flags
}

// zeroVAT flags a domestic sales invoice that carries no VAT, which usually
// means an exemption is missing its justification.
func zeroVAT(inv *models.Invoice) (Flag, bool) {
	if inv.Direction != models.DirectionSales || inv.Kind != models.KindInvoice {
		return Flag{}, false
	}
	if !inv.TaxAmount.IsZero() || inv.IsExport {
		return Flag{}, false
	}
	return Flag{
		Type:      TypeWarning,
		Code:      CodeSuspiciousZeroVAT,
		Direction: inv.Direction,
		InvoiceID: inv.ID,
		Message:   fmt.Sprintf("Invoice %s has 0 VAT but is not marked as Export. Verify Exemption.", inv.SequenceNumber),
	}, true
}
