package incometax

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"taxengine/pkg/models"
	"taxengine/pkg/services"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func record(id string, dir models.Direction, year int, net string) models.Invoice {
	return models.Invoice{
		ID:               id,
		SequenceNumber:   id,
		IssuedAt:         time.Date(year, 6, 1, 12, 0, 0, 0, time.UTC),
		Direction:        dir,
		Kind:             models.KindInvoice,
		CounterpartyName: "Party " + id,
		NetSalesAmount:   dec(net),
	}
}

func testCalculator() *Calculator {
	c := NewCalculator(services.Filer{TaxID: "767043545", Name: "Filer Co"})
	c.PartialYears = map[int]string{2024: "Partial year: operations started Nov 10, 2024"}
	return c
}

func expenses(salaries, rent, other string) services.OperatingExpenses {
	return services.OperatingExpenses{
		Salaries: dec(salaries),
		Rent:     dec(rent),
		Other:    dec(other),
	}
}

func TestComputeAnnualReturn_Profit(t *testing.T) {
	records := []models.Invoice{
		record("1", models.DirectionSales, 2025, "60000"),
		record("2", models.DirectionSales, 2025, "40000"),
		record("3", models.DirectionInputs, 2025, "40000"),
		record("4", models.DirectionSales, 2024, "999"),
	}

	ret := testCalculator().ComputeAnnualReturn(records, 2025, expenses("20000", "9000", "1000"))

	assert.Equal(t, 2025, ret.Year)
	assert.Equal(t, "2025-01-01 to 2025-12-31", ret.FiscalPeriod)
	assert.Equal(t, "100000.00", ret.Revenue.TotalRevenue.StringFixed(2))
	assert.Equal(t, 2, ret.Revenue.SalesInvoiceCount)
	assert.Equal(t, "40000.00", ret.COGS.TotalCOGS.StringFixed(2))
	assert.Equal(t, 1, ret.COGS.PurchaseInvoiceCount)
	assert.Equal(t, "60000.00", ret.GrossProfit.StringFixed(2))
	assert.Equal(t, "30000.00", ret.OperatingExpenses.Total.StringFixed(2))
	assert.Equal(t, "30000.00", ret.NetProfit.StringFixed(2))
	assert.Equal(t, "30000.00", ret.TaxableIncome.StringFixed(2))
	assert.Equal(t, "6750.00", ret.CorporateTax.StringFixed(2))
	assert.True(t, dec("0.225").Equal(ret.TaxRate))
	assert.Empty(t, ret.Notes)

	require.Len(t, ret.Revenue.Breakdown, 2)
	assert.Equal(t, "2025-06-01", ret.Revenue.Breakdown[0].Date)
	assert.Equal(t, "Party 1", ret.Revenue.Breakdown[0].Counterparty)
}

func TestComputeAnnualReturn_LossAndPartialYear(t *testing.T) {
	records := []models.Invoice{
		record("1", models.DirectionSales, 2024, "1000"),
		record("2", models.DirectionInputs, 2024, "3500.5"),
	}

	ret := testCalculator().ComputeAnnualReturn(records, 2024, expenses("500", "0", "0"))

	assert.Equal(t, "-3000.50", ret.NetProfit.StringFixed(2))
	assert.True(t, ret.TaxableIncome.IsZero())
	assert.True(t, ret.CorporateTax.IsZero())
	assert.Equal(t, []string{
		"Partial year: operations started Nov 10, 2024",
		"Loss of 3000.50 EGP - No tax due",
		"Loss can be carried forward to offset future profits",
	}, ret.Notes)
}

func TestComputeAnnualReturn_MissingExpenses(t *testing.T) {
	records := []models.Invoice{record("1", models.DirectionSales, 2025, "1000")}

	ret := testCalculator().ComputeAnnualReturn(records, 2025, services.OperatingExpenses{})

	require.Len(t, ret.Notes, 2)
	assert.Contains(t, ret.Notes[0], "WARNING: No operating expenses entered")
	assert.Equal(t, "225.00", ret.CorporateTax.StringFixed(2))
}

func TestComputeAnnualReturn_CreditNotesReduceRevenue(t *testing.T) {
	credit := record("2", models.DirectionSales, 2025, "-250")
	credit.Kind = models.KindCreditNote
	records := []models.Invoice{record("1", models.DirectionSales, 2025, "1000"), credit}

	ret := testCalculator().ComputeAnnualReturn(records, 2025, expenses("0", "0", "100"))

	assert.Equal(t, "750.00", ret.Revenue.TotalRevenue.StringFixed(2))
	assert.Equal(t, 2, ret.Revenue.SalesInvoiceCount)
}

type noCOGS struct{}

func (noCOGS) IsCOGS(*models.Invoice) bool { return false }

func TestComputeAnnualReturn_CostPolicy(t *testing.T) {
	c := testCalculator()
	c.CostPolicy = noCOGS{}
	c.Rate = dec("0.2")
	records := []models.Invoice{
		record("1", models.DirectionSales, 2025, "1000"),
		record("2", models.DirectionInputs, 2025, "400"),
	}

	ret := c.ComputeAnnualReturn(records, 2025, expenses("0", "0", "0.05"))

	assert.True(t, ret.COGS.TotalCOGS.IsZero())
	assert.Empty(t, ret.COGS.Breakdown)
	assert.Equal(t, "199.99", ret.CorporateTax.StringFixed(2))
}

func TestComputeAnnualReturn_NoRecords(t *testing.T) {
	ret := testCalculator().ComputeAnnualReturn(nil, 2030, expenses("100", "0", "0"))

	assert.NotNil(t, ret.Revenue.Breakdown)
	assert.True(t, ret.CorporateTax.IsZero())
	assert.Equal(t, "-100.00", ret.NetProfit.StringFixed(2))
}
