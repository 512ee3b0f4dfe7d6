package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"taxengine/internal/logger"
	"taxengine/internal/money"
	"taxengine/internal/vat"
	"taxengine/pkg/models"
	"taxengine/pkg/services"
)

var form10Cmd = &cobra.Command{
	Use:   "form10",
	Short: "Show the Form-10 VAT breakdown of one month",
	Long: `Aggregate one month of records into the Form-10 VAT return breakdown.

Sales are split into local sales (VAT charged), exports (zero rated, foreign
currency) and exempt sales. Purchases form the input VAT line. Net VAT due is
output VAT minus input VAT; a negative value is refundable.

Without --month the most recent month holding records is used.`,
	Example: `  # Breakdown of the latest month
  taxengine form10

  # Breakdown of March 2025 as JSON
  taxengine form10 --month 2025-03 --json`,
	RunE: runForm10,
}

func init() {
	rootCmd.AddCommand(form10Cmd)

	form10Cmd.Flags().String("month", "", "Tax period (YYYY-MM)")
	form10Cmd.Flags().Bool("json", false, "Print the return as JSON")
}

func runForm10(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("form10")

	month, _ := cmd.Flags().GetString("month")
	asJSON, _ := cmd.Flags().GetBool("json")

	if month != "" {
		if _, err := time.Parse("2006-01", month); err != nil {
			return fmt.Errorf("invalid month: %s (expected YYYY-MM)", month)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	l, err := loadRecords(ctx, cmd, log)
	if err != nil {
		return err
	}

	grouped, _ := vat.GroupByMonth(l.records())
	if month == "" {
		month = latestMonth(grouped)
		if month == "" {
			return fmt.Errorf("no dated records found")
		}
	}

	generator := newGenerator(l)
	ret := generator.GenerateReturn(month, grouped[month])

	log.Info().
		Str("period", month).
		Int("records", ret.InvoiceCount).
		Msg("Form-10 generated")

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ret)
	}

	printReturn(&ret)
	return nil
}

func newGenerator(l *loaded) *vat.Generator {
	generator := vat.NewGenerator(vat.NewAggregator(l.cfg.HomeCurrency), l.filer())
	generator.SubmissionType = l.cfg.SubmissionType
	generator.LegalBasis = l.cfg.LegalBasis
	return generator
}

func latestMonth(grouped map[string][]models.Invoice) string {
	months := make([]string, 0, len(grouped))
	for month := range grouped {
		months = append(months, month)
	}
	if len(months) == 0 {
		return ""
	}
	sort.Strings(months)
	return months[len(months)-1]
}

func printReturn(ret *services.MonthlyReturn) {
	banner("FORM 10 - " + ret.PeriodName)
	fmt.Printf("Tax ID: %s\n", ret.Filer.TaxID)
	if ret.Filer.Name != "" {
		fmt.Printf("Company: %s\n", ret.Filer.Name)
	}
	fmt.Printf("Invoices: %d\n", ret.InvoiceCount)
	fmt.Println()

	fmt.Printf("%-32s %8s %18s %15s\n", "Line", "Items", "Value", "VAT")
	fmt.Println(strings.Repeat("-", 80))
	printBucket("Local sales (standard rate)", ret.Sales.Local)
	printBucket("Exports (zero rate)", ret.Sales.Exports)
	printBucket("Exempt sales", ret.Sales.Exempt)
	printBucket("Purchases (input VAT)", ret.Inputs)
	fmt.Println(strings.Repeat("-", 80))

	fmt.Printf("Output VAT:  %s\n", money.Format(ret.Summary.TotalOutputVAT))
	fmt.Printf("Input VAT:   %s\n", money.Format(ret.Summary.TotalInputVAT))
	fmt.Printf("Net VAT due: %s (%s)\n", money.Format(ret.Summary.NetVATDue), ret.Summary.Status)
}

func printBucket(label string, b services.Bucket) {
	fmt.Printf("%-32s %8d %18s %15s\n", label, len(b.Items), money.Format(b.Value), money.Format(b.Tax))
}
