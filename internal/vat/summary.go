package vat

import (
	"github.com/shopspring/decimal"
	"taxengine/internal/money"
	"taxengine/pkg/models"
	"taxengine/pkg/services"
)

// Summarize rolls up a record set into dashboard figures, both directions
// included. Credit notes are counted separately and reduce the totals
// through their negative amounts.
func Summarize(records []models.Invoice) services.PeriodSummary {
	var sales, vatTotal, table, wht decimal.Decimal
	summary := services.PeriodSummary{}

	for i := range records {
		inv := &records[i]
		sales = sales.Add(inv.NetSalesAmount)
		vatTotal = vatTotal.Add(inv.TaxAmount)
		table = table.Add(inv.TableTaxAmount)
		wht = wht.Add(inv.WHTAmount)

		if inv.IsCreditNote() {
			summary.CreditNoteCount++
		} else {
			summary.InvoiceCount++
		}
	}

	summary.TotalSales = money.Round(sales)
	summary.TotalVAT = money.Round(vatTotal)
	summary.TotalTableTax = money.Round(table)
	summary.TotalWHT = money.Round(wht)
	return summary
}
