package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"taxengine/pkg/models"
	"taxengine/pkg/services"
)

var _ services.ReturnExporter = (*Workbook)(nil)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleReturn() services.MonthlyReturn {
	return services.MonthlyReturn{
		Period:       "2025-03",
		PeriodName:   "March 2025",
		Filer:        services.Filer{TaxID: "767043545", Name: "Filer Co"},
		LegalBasis:   "Law 5/2025 Article 3",
		InvoiceCount: 2,
		Sales: services.SalesBuckets{
			Local: services.Bucket{
				Value: dec("1000"),
				Tax:   dec("140"),
				Items: []services.LineItem{
					{ID: "1", UUID: "S1", Date: "2025-03-05", Counterparty: "Buyer", Total: dec("1000"), VAT: dec("140"), Type: "Invoice"},
				},
			},
			Exports: services.Bucket{Items: []services.LineItem{}},
			Exempt:  services.Bucket{Items: []services.LineItem{}},
		},
		Inputs: services.Bucket{
			Value: dec("500"),
			Tax:   dec("70"),
			Items: []services.LineItem{
				{ID: "900", UUID: "P1", Date: "2025-03-20", Counterparty: "Supplier", Total: dec("500"), VAT: dec("70"), Type: "Invoice"},
			},
		},
		Totals: services.Form10Totals{SalesTax: dec("140"), InputTax: dec("70"), NetDue: dec("70")},
		Summary: services.ReturnSummary{
			TotalSales:     dec("1000"),
			TotalOutputVAT: dec("140"),
			TotalInputVAT:  dec("70"),
			NetVATDue:      dec("70"),
			Status:         services.StatusPayable,
		},
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", MonthlyReturnFile("2025-03"))

	require.NoError(t, WriteJSON(path, sampleReturn()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "2025-03", decoded["period"])
	assert.Equal(t, "March 2025", decoded["periodName"])
	assert.Contains(t, string(data), "\n  \"periodName\"")
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "2025-03_vat_return.json", MonthlyReturnFile("2025-03"))
	assert.Equal(t, "2024_income_tax_return.json", AnnualReturnFile(2024))
	assert.Equal(t, "2025-03_VAT_Upload.xlsx", WorkbookFile("2025-03"))
}

func TestInvoiceWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewInvoiceWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteInvoices([]models.Invoice{{
		ID:               "U1",
		SequenceNumber:   "7",
		IssuedAt:         time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC),
		Direction:        models.DirectionSales,
		DirectionSource:  models.DirectionFromIssuer,
		Kind:             models.KindCreditNote,
		Currency:         "EGP",
		NetSalesAmount:   dec("-200"),
		TaxAmount:        dec("-28.005"),
		GrossTotalAmount: dec("-228"),
		TaxEstimated:     true,
	}}))
	w.Flush()
	require.NoError(t, w.Error())

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, BOM))

	rows, err := csv.NewReader(bytes.NewReader(data[len(BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], len(invoiceColumns))
	assert.Equal(t, "UUID", rows[0][0])

	row := rows[1]
	assert.Equal(t, "U1", row[0])
	assert.Equal(t, "2025-04-02T10:00:00Z", row[2])
	assert.Equal(t, "Credit Note", row[5])
	assert.Equal(t, "-200.00", row[11])
	assert.Equal(t, "-28.01", row[12])
	assert.Equal(t, "Yes", row[17])
	assert.Equal(t, "No", row[18])
}

func TestBuildWorkbook(t *testing.T) {
	ret := sampleReturn()
	f := BuildWorkbook(&ret)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetSales, SheetPurchases, SheetSummary}, f.GetSheetList())

	sales, err := f.GetRows(SheetSales)
	require.NoError(t, err)
	assert.Equal(t, "VAT Return - Form 10", sales[0][0])
	assert.Equal(t, "Period: March 2025", sales[1][0])
	assert.Equal(t, "Invoice No", sales[6][0])
	assert.Equal(t, []string{"1", "2025-03-05", "Buyer", "1000", "140", "1140", "Invoice", "Local"}, sales[7])
	assert.Equal(t, "Local total", sales[8][2])

	purchases, err := f.GetRows(SheetPurchases)
	require.NoError(t, err)
	assert.Equal(t, "Supplier", purchases[5][2])

	status, err := f.GetCellValue(SheetSummary, "B20")
	require.NoError(t, err)
	assert.Equal(t, services.StatusPayable, status)
}

func TestWorkbook_ExportMonthly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "excel")
	w := NewWorkbook(dir)

	require.NoError(t, w.ExportMonthly(context.Background(), []services.MonthlyReturn{sampleReturn()}))

	f, err := excelize.OpenFile(filepath.Join(dir, "2025-03_VAT_Upload.xlsx"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Len(t, f.GetSheetList(), 3)

	err = w.ExportMonthly(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoReturns)
}
