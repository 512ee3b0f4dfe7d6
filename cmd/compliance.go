package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"taxengine/internal/compliance"
	"taxengine/internal/logger"
	"taxengine/internal/vat"
)

var complianceCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Check records for compliance anomalies",
	Long: `Run the advisory compliance checks over the records:

  MISSING_SEQUENCE        - gaps in the filer's own invoice numbering,
                            checked separately for sales and purchases
  SUSPICIOUS_ZERO_VAT     - sales invoices without VAT that are not exports
  UNCLASSIFIED_DIRECTION  - documents on which the filer is neither issuer
                            nor receiver

Findings never change any record or return.`,
	Example: `  # Check every record
  taxengine compliance

  # Check one month and print JSON
  taxengine compliance --month 2025-03 --json`,
	RunE: runCompliance,
}

func init() {
	rootCmd.AddCommand(complianceCmd)

	complianceCmd.Flags().String("month", "", "Restrict the check to one period (YYYY-MM)")
	complianceCmd.Flags().Bool("json", false, "Print flags as JSON")
}

func runCompliance(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("compliance")

	month, _ := cmd.Flags().GetString("month")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	l, err := loadRecords(ctx, cmd, log)
	if err != nil {
		return err
	}

	records := l.records()
	if month != "" {
		grouped, _ := vat.GroupByMonth(records)
		records = grouped[month]
	}

	flags := compliance.NewChecker().CheckAnomalies(records)

	log.Info().
		Str("period", month).
		Int("records", len(records)).
		Int("flags", len(flags)).
		Msg("Compliance check finished")

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(flags)
	}

	banner("COMPLIANCE CHECK")
	printBatch(l)
	if month != "" {
		fmt.Printf("Period: %s\n", vat.PeriodName(month))
	}
	fmt.Println()

	if len(flags) == 0 {
		fmt.Println("No anomalies found.")
		return nil
	}

	counts := make(map[string]int)
	for _, f := range flags {
		counts[f.Code]++
		fmt.Printf("[%s] %s\n", f.Code, f.Message)
	}
	fmt.Println(strings.Repeat("-", 80))
	for _, code := range []string{
		compliance.CodeMissingSequence,
		compliance.CodeSuspiciousZeroVAT,
		compliance.CodeUnclassifiedDirection,
	} {
		if counts[code] > 0 {
			fmt.Printf("%-24s %d\n", code, counts[code])
		}
	}
	return nil
}
