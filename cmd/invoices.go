package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"taxengine/internal/export"
	"taxengine/internal/logger"
	"taxengine/internal/money"
	"taxengine/pkg/models"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "List normalized invoices",
	Long: `Normalize every e-invoice document and list the resulting records,
newest first.

Each record shows its direction (Sales when the filer issued it, Inputs when
the filer received it), document kind and signed amounts. Credit notes carry
negative amounts.

Output formats:
  default - console table with data quality counters
  --json  - JSON array of records on stdout
  --csv   - CSV listing (UTF-8 with BOM) written to the given file`,
	Example: `  # List invoices from the default folder
  taxengine invoices

  # Read from a specific folder and print JSON
  taxengine invoices --dir ./invoices_full --json

  # Export a CSV listing from a MinIO bucket
  taxengine invoices --source bucket --csv invoices.csv`,
	RunE: runInvoices,
}

func init() {
	rootCmd.AddCommand(invoicesCmd)

	invoicesCmd.Flags().Bool("json", false, "Print records as JSON")
	invoicesCmd.Flags().String("csv", "", "Write records to a CSV file")
}

func runInvoices(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoices")

	asJSON, _ := cmd.Flags().GetBool("json")
	csvPath, _ := cmd.Flags().GetString("csv")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	l, err := loadRecords(ctx, cmd, log)
	if err != nil {
		return err
	}

	records := newestFirst(l.records())

	if csvPath != "" {
		if err := writeInvoiceCSV(csvPath, records); err != nil {
			return err
		}
		log.Info().
			Str("file", csvPath).
			Int("records", len(records)).
			Msg("CSV listing written")
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	banner("INVOICES")
	printBatch(l)
	fmt.Println()
	fmt.Printf("%-12s %-10s %-12s %-30s %15s %12s\n", "Date", "Direction", "Kind", "Counterparty", "Net", "VAT")
	fmt.Println(strings.Repeat("-", 80))
	for i := range records {
		inv := &records[i]
		date := "undated"
		if !inv.IssuedAt.IsZero() {
			date = inv.IssuedAt.Format("2006-01-02")
		}
		fmt.Printf("%-12s %-10s %-12s %-30s %15s %12s\n",
			date,
			inv.Direction,
			inv.Kind.Label(),
			truncate(inv.CounterpartyName, 30),
			money.Format(inv.NetSalesAmount),
			money.Format(inv.TaxAmount),
		)
	}
	if csvPath != "" {
		fmt.Println()
		fmt.Printf("CSV listing: %s\n", csvPath)
	}
	return nil
}

// newestFirst returns a copy ordered by issuance time, newest first.
// Undated records sort last.
func newestFirst(records []models.Invoice) []models.Invoice {
	sorted := make([]models.Invoice, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].IssuedAt.After(sorted[j].IssuedAt)
	})
	return sorted
}

func writeInvoiceCSV(path string, records []models.Invoice) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	w := export.NewInvoiceWriter(buf)
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := w.WriteInvoices(records); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return buf.Flush()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
