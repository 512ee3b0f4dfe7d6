package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"taxengine/internal/logger"
	"taxengine/internal/money"
	"taxengine/pkg/services"
)

// Workbook sheet names.
const (
	SheetSales     = "Sales"
	SheetPurchases = "Purchases"
	SheetSummary   = "Summary"
)

var itemHeaders = []interface{}{"Invoice No", "Date", "Counterparty", "Net Value", "VAT", "Total", "Type", "Treatment"}

// Workbook writes one Form-10 upload workbook per monthly return.
type Workbook struct {
	dir string
	log zerolog.Logger
}

// NewWorkbook creates an exporter writing into dir.
func NewWorkbook(dir string) *Workbook {
	return &Workbook{
		dir: dir,
		log: logger.WithComponent("excel"),
	}
}

// WorkbookFile names the workbook of one period.
func WorkbookFile(period string) string {
	return fmt.Sprintf("%s_VAT_Upload.xlsx", period)
}

// ExportMonthly implements services.ReturnExporter.
func (w *Workbook) ExportMonthly(ctx context.Context, returns []services.MonthlyReturn) error {
	if len(returns) == 0 {
		return NewExportError("ExportMonthly", ErrNoReturns, w.dir)
	}
	for i := range returns {
		if err := ctx.Err(); err != nil {
			return NewExportError("ExportMonthly", err, returns[i].Period)
		}
		path, err := w.WriteReturn(&returns[i])
		if err != nil {
			return err
		}
		w.log.Info().
			Str("period", returns[i].Period).
			Str("file", path).
			Msg("Workbook written")
	}
	return nil
}

// WriteReturn writes the workbook for one return and returns its path.
func (w *Workbook) WriteReturn(ret *services.MonthlyReturn) (string, error) {
	const op = "WriteReturn"

	f := BuildWorkbook(ret)
	defer func() { _ = f.Close() }()

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", NewExportError(op, ErrWriteFailed, err.Error())
	}
	path := filepath.Join(w.dir, WorkbookFile(ret.Period))
	if err := f.SaveAs(path); err != nil {
		return "", NewExportError(op, ErrWriteFailed, err.Error())
	}
	return path, nil
}

// BuildWorkbook lays out the sales, purchases and summary sheets.
func BuildWorkbook(ret *services.MonthlyReturn) *excelize.File {
	f := excelize.NewFile()
	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	_ = f.SetSheetName("Sheet1", SheetSales)
	_, _ = f.NewSheet(SheetPurchases)
	_, _ = f.NewSheet(SheetSummary)

	s := sheet{f: f, name: SheetSales, bold: bold}
	s.title("VAT Return - Form 10")
	s.row("Period: " + ret.PeriodName)
	s.row("Tax ID: " + ret.Filer.TaxID)
	s.row("Company: " + ret.Filer.Name)
	s.row()
	s.title("Sales")
	s.items(
		labeled{"Local", ret.Sales.Local},
		labeled{"Exports", ret.Sales.Exports},
		labeled{"Exempt", ret.Sales.Exempt},
	)
	s.widths()

	p := sheet{f: f, name: SheetPurchases, bold: bold}
	p.title("VAT Return - Form 10")
	p.row("Period: " + ret.PeriodName)
	p.row()
	p.title("Purchases")
	p.items(labeled{"Input", ret.Inputs})
	p.widths()

	m := sheet{f: f, name: SheetSummary, bold: bold}
	m.title("Form 10 Summary")
	m.row("Tax period", ret.PeriodName)
	m.row("Tax ID", ret.Filer.TaxID)
	m.row("Company", ret.Filer.Name)
	m.row()
	m.title("Sales")
	m.row("Local sales (standard rate)", money.Float(ret.Sales.Local.Value))
	m.row("Output VAT", money.Float(ret.Sales.Local.Tax))
	m.row("Exports (zero rate)", money.Float(ret.Sales.Exports.Value))
	m.row("Exempt sales", money.Float(ret.Sales.Exempt.Value))
	m.row()
	m.title("Purchases")
	m.row("Local purchases", money.Float(ret.Inputs.Value))
	m.row("Deductible input VAT", money.Float(ret.Inputs.Tax))
	m.row()
	m.title("Tax summary")
	m.row("Output VAT", money.Float(ret.Summary.TotalOutputVAT))
	m.row("Input VAT", money.Float(ret.Summary.TotalInputVAT))
	m.row("Net VAT due", money.Float(ret.Summary.NetVATDue))
	m.row("Status", ret.Summary.Status)
	m.row("Invoice count", ret.InvoiceCount)
	if ret.SubmissionType != "" || ret.LegalBasis != "" {
		m.row()
		m.row("Submission type", ret.SubmissionType)
		m.row("Legal basis", ret.LegalBasis)
	}
	_ = f.SetColWidth(SheetSummary, "A", "A", 35)
	_ = f.SetColWidth(SheetSummary, "B", "B", 25)

	f.SetActiveSheet(0)
	return f
}

// sheet appends rows to one worksheet.
type sheet struct {
	f    *excelize.File
	name string
	bold int
	next int
}

func (s *sheet) row(values ...interface{}) string {
	s.next++
	cell, _ := excelize.CoordinatesToCellName(1, s.next)
	if len(values) > 0 {
		_ = s.f.SetSheetRow(s.name, cell, &values)
	}
	return cell
}

func (s *sheet) title(text string) {
	cell := s.row(text)
	_ = s.f.SetCellStyle(s.name, cell, cell, s.bold)
}

func (s *sheet) boldRow(values ...interface{}) {
	start := s.row(values...)
	end, _ := excelize.CoordinatesToCellName(len(values), s.next)
	_ = s.f.SetCellStyle(s.name, start, end, s.bold)
}

// labeled is a bucket with its VAT treatment name.
type labeled struct {
	treatment string
	bucket    services.Bucket
}

// items writes a header, one row per line item in bucket order, and a
// totals row per bucket.
func (s *sheet) items(buckets ...labeled) {
	s.boldRow(itemHeaders...)
	for _, lb := range buckets {
		b, treatment := lb.bucket, lb.treatment
		for _, item := range b.Items {
			s.row(
				item.ID,
				item.Date,
				item.Counterparty,
				money.Float(item.Total),
				money.Float(item.VAT),
				money.Float(item.Total.Add(item.VAT)),
				item.Type,
				treatment,
			)
		}
		s.boldRow("", "", treatment+" total", money.Float(b.Value), money.Float(b.Tax), money.Float(b.Value.Add(b.Tax)))
	}
}

func (s *sheet) widths() {
	_ = s.f.SetColWidth(s.name, "A", "B", 15)
	_ = s.f.SetColWidth(s.name, "C", "C", 45)
	_ = s.f.SetColWidth(s.name, "D", "F", 18)
	_ = s.f.SetColWidth(s.name, "G", "H", 14)
}
