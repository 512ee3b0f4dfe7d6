package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"taxengine/internal/config"
	"taxengine/internal/export"
	"taxengine/internal/incometax"
	"taxengine/internal/logger"
	"taxengine/internal/money"
	"taxengine/pkg/models"
	"taxengine/pkg/services"
)

var incomeTaxCmd = &cobra.Command{
	Use:   "income-tax",
	Short: "Compute the annual corporate income tax return",
	Long: `Compute the corporate income tax return of a fiscal year from the records.

Revenue is the net value of sales issued in the year, cost of goods sold the
net value of purchases. Operating expenses cannot be derived from e-invoices
and are read from an expenses file (YAML, JSON or TOML) keyed by year:

  "2025":
    salaries: 120000
    rent: 36000
    utilities: 8000

Without --year a return is computed for every year holding records. Each
return is written to <output>/<YEAR>_income_tax_return.json.

Optional environment variables:
  CORPORATE_TAX_RATE - Tax rate as a fraction (default: 0.225)
  PARTIAL_YEARS - Notes for short fiscal years, e.g. "2024=Operations started in May"`,
	Example: `  # Return for 2025 with expenses
  taxengine income-tax --year 2025 --expenses expenses.yaml

  # Every year, printed as JSON
  taxengine income-tax --json`,
	RunE: runIncomeTax,
}

func init() {
	rootCmd.AddCommand(incomeTaxCmd)

	incomeTaxCmd.Flags().Int("year", 0, "Fiscal year (default: every year in the records)")
	incomeTaxCmd.Flags().String("expenses", "", "Operating expenses file (YAML, JSON or TOML)")
	incomeTaxCmd.Flags().String("output", "", "Output folder (default: OUTPUT_DIR)")
	incomeTaxCmd.Flags().Bool("json", false, "Print returns as JSON")
}

func runIncomeTax(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("income-tax")

	year, _ := cmd.Flags().GetInt("year")
	expensesPath, _ := cmd.Flags().GetString("expenses")
	outputDir, _ := cmd.Flags().GetString("output")
	asJSON, _ := cmd.Flags().GetBool("json")

	expenses, err := config.LoadExpenses(expensesPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	l, err := loadRecords(ctx, cmd, log)
	if err != nil {
		return err
	}
	if outputDir == "" {
		outputDir = l.cfg.OutputDir
	}

	years := []int{year}
	if year == 0 {
		years = recordYears(l.records())
	}
	if len(years) == 0 {
		return fmt.Errorf("no dated records found")
	}

	calculator := incometax.NewCalculator(l.filer())
	calculator.Rate = l.cfg.CorporateTaxRate
	calculator.PartialYears = l.cfg.PartialYears
	calculator.Currency = l.cfg.HomeCurrency
	calculator.SubmissionType = l.cfg.SubmissionType
	calculator.LegalBasis = l.cfg.LegalBasis

	returns := make([]services.AnnualReturn, 0, len(years))
	for _, y := range years {
		ret := calculator.ComputeAnnualReturn(l.records(), y, expenses[y])
		path := filepath.Join(outputDir, export.AnnualReturnFile(y))
		if err := export.WriteJSON(path, ret); err != nil {
			return err
		}
		log.Info().
			Int("year", y).
			Str("file", path).
			Msg("Annual return written")
		returns = append(returns, ret)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(returns)
	}

	for i := range returns {
		printAnnualReturn(&returns[i])
	}
	fmt.Printf("Output: %s\n", outputDir)
	return nil
}

func recordYears(records []models.Invoice) []int {
	seen := make(map[int]bool)
	for i := range records {
		if y := records[i].Year(); y != 0 {
			seen[y] = true
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func printAnnualReturn(ret *services.AnnualReturn) {
	banner(fmt.Sprintf("INCOME TAX RETURN %d", ret.Year))
	fmt.Printf("Fiscal period: %s\n", ret.FiscalPeriod)
	fmt.Printf("Tax ID: %s\n", ret.Filer.TaxID)
	fmt.Println()
	fmt.Printf("%-32s %18s\n", fmt.Sprintf("Revenue (%d invoices)", ret.Revenue.SalesInvoiceCount), money.Format(ret.Revenue.TotalRevenue))
	fmt.Printf("%-32s %18s\n", fmt.Sprintf("COGS (%d invoices)", ret.COGS.PurchaseInvoiceCount), money.Format(ret.COGS.TotalCOGS))
	fmt.Printf("%-32s %18s\n", "Gross profit", money.Format(ret.GrossProfit))
	fmt.Printf("%-32s %18s\n", "Operating expenses", money.Format(ret.OperatingExpenses.Total))
	fmt.Printf("%-32s %18s\n", "Net profit", money.Format(ret.NetProfit))
	fmt.Printf("%-32s %18s\n", "Taxable income", money.Format(ret.TaxableIncome))
	fmt.Printf("%-32s %18s\n", "Corporate tax ("+ret.TaxRate.Shift(2).String()+"%)", money.Format(ret.CorporateTax))
	if len(ret.Notes) > 0 {
		fmt.Println(strings.Repeat("-", 80))
		for _, note := range ret.Notes {
			fmt.Printf("- %s\n", note)
		}
	}
	fmt.Println()
}
