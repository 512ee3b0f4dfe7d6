package invoice_test

import (
	"fmt"

	"taxengine/internal/invoice"
	"taxengine/internal/money"
	"taxengine/pkg/services"
)

// Example normalizes a search result payload issued by the filer.
func Example() {
	normalizer := invoice.NewNormalizer(invoice.DefaultOptions("767043545"))

	raw := []byte(`{
		"uuid": "EX-1",
		"internalId": "42",
		"documentType": "I",
		"dateTimeIssued": "2025-03-05T09:00:00Z",
		"issuerId": "767043545",
		"receiverId": "300",
		"receiverName": "Buyer",
		"netAmount": 1000,
		"total": 1140
	}`)

	inv, ok := normalizer.NormalizeRaw(raw)
	if !ok {
		fmt.Println("not a document")
		return
	}

	fmt.Println(inv.Direction, inv.Kind.Label(), inv.Month())
	fmt.Println("counterparty:", inv.CounterpartyName)
	fmt.Println("net:", money.Format(inv.NetSalesAmount))
	fmt.Println("vat:", money.Format(inv.TaxAmount), "estimated:", inv.TaxEstimated)
	// Output:
	// Sales Invoice 2025-03
	// counterparty: Buyer
	// net: 1000.00
	// vat: 140.00 estimated: true
}

// ExampleNormalizer_NormalizeBatch shows the data quality counters of a batch.
func ExampleNormalizer_NormalizeBatch() {
	normalizer := invoice.NewNormalizer(invoice.DefaultOptions("767043545"))

	result := normalizer.NormalizeBatch([]services.RawDocument{
		{Name: "a.json", Data: []byte(`{"uuid": "A", "issuerId": "767043545", "netAmount": 100, "total": 114}`)},
		{Name: "b.json", Data: []byte(`{"uuid": "B", "issuerId": "1", "receiverId": "2", "netAmount": 50, "total": 50}`)},
		{Name: "c.json", Data: []byte(`not json`)},
	})

	fmt.Printf("total=%d records=%d skipped=%d defaulted=%d\n",
		result.Total, len(result.Invoices), result.Skipped, result.Defaulted)
	// Output:
	// total=3 records=2 skipped=1 defaulted=1
}
