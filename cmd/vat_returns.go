package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"taxengine/internal/config"
	"taxengine/internal/export"
	"taxengine/internal/logger"
	"taxengine/internal/money"
	"taxengine/internal/sheets"
	"taxengine/internal/vat"
	"taxengine/pkg/services"
)

var vatReturnsCmd = &cobra.Command{
	Use:   "vat-returns",
	Short: "Generate monthly VAT returns for every period",
	Long: `Generate one Form-10 VAT return per month found in the records, plus a
cross-period summary, and write them as JSON files to the output folder:

  <YYYY-MM>_vat_return.json         one file per month
  all_vat_returns_summary.json       every month with cross-period totals

The current month is never generated since it cannot be filed yet. Months
listed in EXCLUDED_MONTHS or --exclude are skipped as well.

Optional exports:
  --excel  - one <YYYY-MM>_VAT_Upload.xlsx workbook per month
  --sheet  - append one row per month to a Google Sheet

Google Sheets requires:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_SHEET_URL - Google Sheets URL to write results`,
	Example: `  # Generate every return into ./output
  taxengine vat-returns

  # Skip two months already filed and write Excel workbooks
  taxengine vat-returns --exclude 2025-01,2025-02 --excel

  # Read from MinIO and append the returns to Google Sheets
  taxengine vat-returns --source bucket --sheet`,
	RunE: runVATReturns,
}

func init() {
	rootCmd.AddCommand(vatReturnsCmd)

	vatReturnsCmd.Flags().String("exclude", "", "Comma-separated months to skip (YYYY-MM)")
	vatReturnsCmd.Flags().String("output", "", "Output folder (default: OUTPUT_DIR)")
	vatReturnsCmd.Flags().Bool("excel", false, "Write an Excel upload workbook per month")
	vatReturnsCmd.Flags().Bool("sheet", false, "Append the returns to Google Sheets")
}

func runVATReturns(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("vat-returns")

	exclude, _ := cmd.Flags().GetString("exclude")
	outputDir, _ := cmd.Flags().GetString("output")
	writeExcel, _ := cmd.Flags().GetBool("excel")
	writeSheet, _ := cmd.Flags().GetBool("sheet")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	l, err := loadRecords(ctx, cmd, log)
	if err != nil {
		return err
	}
	if outputDir == "" {
		outputDir = l.cfg.OutputDir
	}

	excluded := excludedMonths(time.Now(), l.cfg.ExcludedMonths, config.ParseExcludedMonths(exclude))
	result := newGenerator(l).GenerateAllReturns(l.records(), excluded)

	log.Info().
		Int("returns", len(result.Returns)).
		Int("excluded", len(excluded)).
		Int("undated", result.Undated).
		Msg("VAT returns generated")

	if len(result.Returns) == 0 {
		fmt.Println("No periods to generate.")
		return nil
	}

	for i := range result.Returns {
		path := filepath.Join(outputDir, export.MonthlyReturnFile(result.Returns[i].Period))
		if err := export.WriteJSON(path, result.Returns[i]); err != nil {
			return err
		}
	}
	summaryPath := filepath.Join(outputDir, export.SummaryFile)
	if err := export.WriteJSON(summaryPath, result.Summary); err != nil {
		return err
	}

	exporters, err := returnExporters(ctx, l.cfg, outputDir, writeExcel, writeSheet)
	if err != nil {
		return err
	}
	for _, exporter := range exporters {
		if err := exporter.ExportMonthly(ctx, result.Returns); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
	}

	printSummary(l, &result, outputDir, excluded)
	return nil
}

// excludedMonths merges the current month with the configured and
// command-line exclusions.
func excludedMonths(now time.Time, lists ...[]string) map[string]bool {
	excluded := map[string]bool{vat.CurrentMonth(now): true}
	for _, list := range lists {
		for _, month := range list {
			excluded[month] = true
		}
	}
	return excluded
}

func returnExporters(ctx context.Context, cfg *config.Config, outputDir string, excel, sheet bool) ([]services.ReturnExporter, error) {
	var exporters []services.ReturnExporter
	if excel {
		exporters = append(exporters, export.NewWorkbook(filepath.Join(outputDir, "excel")))
	}
	if sheet {
		if cfg.GoogleSheetURL == "" {
			return nil, fmt.Errorf("GOOGLE_SHEET_URL is required for --sheet")
		}
		svc, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL, cfg.GoogleSheetWorksheet)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets service: %w", err)
		}
		exporters = append(exporters, svc)
	}
	return exporters, nil
}

func printSummary(l *loaded, result *vat.Result, outputDir string, excluded map[string]bool) {
	banner("VAT RETURNS")
	printBatch(l)
	if result.Undated > 0 {
		fmt.Printf("Undated records (no period): %d\n", result.Undated)
	}
	fmt.Println()

	fmt.Printf("%-16s %8s %18s %12s\n", "Period", "Invoices", "Net VAT Due", "Status")
	fmt.Println(strings.Repeat("-", 80))
	for _, p := range result.Summary.Periods {
		fmt.Printf("%-16s %8d %18s %12s\n", p.PeriodName, p.InvoiceCount, money.Format(p.NetVATDue), p.Status)
	}
	fmt.Println(strings.Repeat("-", 80))

	totals := result.Summary.Totals
	fmt.Printf("Returns:      %d\n", result.Summary.TotalReturns)
	fmt.Printf("Invoices:     %d\n", totals.TotalInvoices)
	fmt.Printf("Total sales:  %s\n", money.Format(totals.TotalSales))
	fmt.Printf("Output VAT:   %s\n", money.Format(totals.TotalOutputVAT))
	fmt.Printf("Input VAT:    %s\n", money.Format(totals.TotalInputVAT))
	fmt.Printf("Net VAT due:  %s\n", money.Format(totals.TotalNetVATDue))
	fmt.Println()

	skipped := make([]string, 0, len(excluded))
	for month := range excluded {
		skipped = append(skipped, month)
	}
	sort.Strings(skipped)
	fmt.Printf("Excluded:     %s\n", strings.Join(skipped, ", "))
	fmt.Printf("Output:       %s\n", outputDir)
}
