package vat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"taxengine/pkg/models"
	"taxengine/pkg/services"
)

func newTestGenerator() *Generator {
	g := NewGenerator(NewAggregator("EGP"), services.Filer{TaxID: "767043545", Name: "Filer Co"})
	g.SubmissionType = "Late Voluntary"
	g.LegalBasis = "Law 5/2025 Article 3"
	return g
}

func multiMonthRecords() []models.Invoice {
	records := marchRecords()
	records = append(records,
		record("S3", "3", models.DirectionSales, "2025-01-15T10:00:00Z", "100", "14"),
		record("P3", "902", models.DirectionInputs, "2025-01-20T10:00:00Z", "1000", "140"),
		record("S4", "4", models.DirectionSales, "2026-01-02T10:00:00Z", "50", "7"),
		// Offset preserved: still February locally.
		record("S5", "5", models.DirectionSales, "2025-02-28T23:30:00-02:00", "10", "1.4"),
	)
	return records
}

func TestGroupByMonth(t *testing.T) {
	records := multiMonthRecords()
	records = append(records, models.Invoice{ID: "undated"})

	grouped, undated := GroupByMonth(records)

	assert.Equal(t, 1, undated)
	assert.Len(t, grouped, 4)
	assert.Len(t, grouped["2025-03"], 3)
	assert.Len(t, grouped["2025-01"], 2)
	assert.Len(t, grouped["2025-02"], 1)
	assert.Equal(t, "S1", grouped["2025-03"][0].ID)
	assert.Equal(t, "P1", grouped["2025-03"][2].ID)
}

func TestGroupByMonth_RawPrefixFallback(t *testing.T) {
	inv := models.Invoice{ID: "R", IssuedAtRaw: "2025-07-01 garbage"}
	grouped, undated := GroupByMonth([]models.Invoice{inv})
	assert.Zero(t, undated)
	assert.Len(t, grouped["2025-07"], 1)
}

func TestGenerateAllReturns(t *testing.T) {
	records := multiMonthRecords()
	result := newTestGenerator().GenerateAllReturns(records, map[string]bool{"2026-01": true})

	require.Len(t, result.Returns, 3)
	assert.Equal(t, "2025-01", result.Returns[0].Period)
	assert.Equal(t, "2025-02", result.Returns[1].Period)
	assert.Equal(t, "2025-03", result.Returns[2].Period)

	jan := result.Returns[0]
	assert.Equal(t, "January 2025", jan.PeriodName)
	assert.Equal(t, 2, jan.InvoiceCount)
	assert.Equal(t, services.StatusRefundable, jan.Summary.Status)
	assert.Equal(t, "-126.00", jan.Summary.NetVATDue.StringFixed(2))
	assert.Equal(t, "767043545", jan.Filer.TaxID)
	assert.Equal(t, "Law 5/2025 Article 3", jan.LegalBasis)

	mar := result.Returns[2]
	assert.Equal(t, "March 2025", mar.PeriodName)
	assert.Equal(t, services.StatusPayable, mar.Summary.Status)
	assert.Equal(t, "3000.00", mar.Summary.TotalSales.StringFixed(2))
	assert.Equal(t, "350.00", mar.Totals.NetDue.StringFixed(2))

	summary := result.Summary
	assert.Equal(t, 3, summary.TotalReturns)
	assert.Equal(t, 6, summary.Totals.TotalInvoices)
	assert.Equal(t, "3110.00", summary.Totals.TotalSales.StringFixed(2))
	assert.Equal(t, "435.40", summary.Totals.TotalOutputVAT.StringFixed(2))
	assert.Equal(t, "210.00", summary.Totals.TotalInputVAT.StringFixed(2))
	assert.Equal(t, "225.40", summary.Totals.TotalNetVATDue.StringFixed(2))
	require.Len(t, summary.Periods, 3)
	assert.Equal(t, "2025-01", summary.Periods[0].Period)
	assert.Equal(t, services.StatusRefundable, summary.Periods[0].Status)
}

func TestGenerateAllReturns_PartitionIsExhaustiveAndDisjoint(t *testing.T) {
	records := multiMonthRecords()
	excluded := map[string]bool{"2026-01": true}

	result := newTestGenerator().GenerateAllReturns(records, excluded)

	seen := make(map[string]string)
	for _, ret := range result.Returns {
		assert.False(t, excluded[ret.Period])
		for _, items := range [][]services.LineItem{
			ret.Sales.Local.Items, ret.Sales.Exports.Items, ret.Sales.Exempt.Items, ret.Inputs.Items,
		} {
			for _, item := range items {
				_, dup := seen[item.UUID]
				assert.False(t, dup, item.UUID)
				seen[item.UUID] = ret.Period
			}
		}
	}

	expected := 0
	for i := range records {
		if !excluded[records[i].Month()] {
			expected++
			assert.Equal(t, records[i].Month(), seen[records[i].ID])
		}
	}
	assert.Len(t, seen, expected)
}

func TestGenerateAllReturns_Deterministic(t *testing.T) {
	g := newTestGenerator()
	first := g.GenerateAllReturns(multiMonthRecords(), nil)
	second := g.GenerateAllReturns(multiMonthRecords(), nil)
	assert.Equal(t, first, second)
	assert.Len(t, first.Returns, 4)
}

func TestGenerateAllReturns_Empty(t *testing.T) {
	result := newTestGenerator().GenerateAllReturns(nil, nil)
	assert.Empty(t, result.Returns)
	assert.NotNil(t, result.Summary.Periods)
	assert.True(t, result.Summary.Totals.TotalNetVATDue.IsZero())
}

func TestCurrentMonth(t *testing.T) {
	assert.Equal(t, "2026-01", CurrentMonth(time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC)))
}

func TestPeriodName(t *testing.T) {
	assert.Equal(t, "November 2024", PeriodName("2024-11"))
	assert.Equal(t, "bad", PeriodName("bad"))
}
