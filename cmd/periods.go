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
	"taxengine/internal/compliance"
	"taxengine/internal/logger"
	"taxengine/internal/money"
	"taxengine/internal/vat"
	"taxengine/pkg/services"
)

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "Summarize every tax period with its compliance flags",
	Long: `Group records by month of issuance and print a dashboard line per month,
newest first: totals over both directions, credit note count and the number
of compliance flags raised for that month.

Records without an issuance date belong to no period and are only counted.`,
	Example: `  # Period overview
  taxengine periods

  # Period overview as JSON
  taxengine periods --json`,
	RunE: runPeriods,
}

// periodOverview is one month of the periods listing.
type periodOverview struct {
	Period   string                 `json:"period"`
	Name     string                 `json:"periodName"`
	Summary  services.PeriodSummary `json:"summary"`
	Flags    []compliance.Flag      `json:"complianceFlags"`
	HasFlags bool                   `json:"hasFlags"`
}

func init() {
	rootCmd.AddCommand(periodsCmd)

	periodsCmd.Flags().Bool("json", false, "Print periods as JSON")
}

func runPeriods(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("periods")

	asJSON, _ := cmd.Flags().GetBool("json")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	l, err := loadRecords(ctx, cmd, log)
	if err != nil {
		return err
	}

	grouped, undated := vat.GroupByMonth(l.records())
	months := make([]string, 0, len(grouped))
	for month := range grouped {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	checker := compliance.NewChecker()
	overview := make([]periodOverview, 0, len(months))
	for _, month := range months {
		flags := checker.CheckAnomalies(grouped[month])
		overview = append(overview, periodOverview{
			Period:   month,
			Name:     vat.PeriodName(month),
			Summary:  vat.Summarize(grouped[month]),
			Flags:    flags,
			HasFlags: len(flags) > 0,
		})
	}

	log.Info().
		Int("periods", len(overview)).
		Int("undated", undated).
		Msg("Periods summarized")

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(overview)
	}

	banner("TAX PERIODS")
	printBatch(l)
	if undated > 0 {
		fmt.Printf("Undated records (no period): %d\n", undated)
	}
	fmt.Println()
	fmt.Printf("%-16s %8s %8s %18s %15s %7s\n", "Period", "Records", "Credits", "Net", "VAT", "Flags")
	fmt.Println(strings.Repeat("-", 80))
	for _, p := range overview {
		fmt.Printf("%-16s %8d %8d %18s %15s %7d\n",
			p.Name,
			p.Summary.InvoiceCount+p.Summary.CreditNoteCount,
			p.Summary.CreditNoteCount,
			money.Format(p.Summary.TotalSales),
			money.Format(p.Summary.TotalVAT),
			len(p.Flags),
		)
	}
	return nil
}
