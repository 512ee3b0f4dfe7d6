package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"taxengine/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "taxengine",
	Short: "Tax Engine - VAT and income tax returns from e-invoices",
	Long: `Tax Engine reads e-invoice documents downloaded from the tax authority,
normalizes them into signed accounting records and prepares returns:

  - monthly Form-10 VAT returns (JSON, Excel workbooks, Google Sheets)
  - annual corporate income tax computations
  - compliance reviews (sequence gaps, unexplained zero VAT)

Documents are read from a local folder or from a MinIO/S3 bucket.

Required environment variables:
  FILER_TAX_ID - Tax registration number of the filing company`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Tax Engine executed")

		fmt.Println("Welcome to Tax Engine!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")

	rootCmd.PersistentFlags().String("source", "dir", "Document source (dir=local folder, bucket=MinIO/S3)")
	rootCmd.PersistentFlags().String("dir", "", "Invoice folder (default: INVOICES_DIR)")
}
