package export

import (
	"encoding/csv"
	"io"

	"taxengine/internal/money"
	"taxengine/pkg/models"
)

// BOM is written first so Excel on Windows opens the file as UTF-8.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// invoiceColumns defines the invoice listing header row.
var invoiceColumns = []string{
	"UUID",
	"Sequence Number",
	"Issued At",
	"Direction",
	"Direction Source",
	"Document Kind",
	"Issuer ID",
	"Issuer Name",
	"Receiver ID",
	"Receiver Name",
	"Currency",
	"Net Amount",
	"VAT",
	"Table Tax",
	"WHT",
	"Other Tax",
	"Gross Total",
	"Tax Estimated",
	"Export",
}

// InvoiceWriter wraps csv.Writer for exporting normalized invoices.
type InvoiceWriter struct {
	out io.Writer
	csv *csv.Writer
}

// NewInvoiceWriter creates an InvoiceWriter that writes CSV to w.
func NewInvoiceWriter(w io.Writer) *InvoiceWriter {
	return &InvoiceWriter{out: w, csv: csv.NewWriter(w)}
}

// WriteHeader writes the BOM and the header row.
func (w *InvoiceWriter) WriteHeader() error {
	if _, err := w.out.Write(BOM); err != nil {
		return err
	}
	return w.csv.Write(invoiceColumns)
}

// WriteInvoices writes one row per invoice.
func (w *InvoiceWriter) WriteInvoices(invoices []models.Invoice) error {
	for i := range invoices {
		if err := w.csv.Write(invoiceToRow(&invoices[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *InvoiceWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *InvoiceWriter) Error() error {
	return w.csv.Error()
}

func invoiceToRow(inv *models.Invoice) []string {
	issued := inv.IssuedAtRaw
	if !inv.IssuedAt.IsZero() {
		issued = inv.IssuedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return []string{
		inv.ID,
		inv.SequenceNumber,
		issued,
		string(inv.Direction),
		string(inv.DirectionSource),
		inv.Kind.Label(),
		inv.IssuerID,
		inv.IssuerName,
		inv.ReceiverID,
		inv.ReceiverName,
		inv.Currency,
		money.Format(inv.NetSalesAmount),
		money.Format(inv.TaxAmount),
		money.Format(inv.TableTaxAmount),
		money.Format(inv.WHTAmount),
		money.Format(inv.OtherTaxAmount),
		money.Format(inv.GrossTotalAmount),
		formatBool(inv.TaxEstimated),
		formatBool(inv.IsExport),
	}
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
