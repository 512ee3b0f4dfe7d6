package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"taxengine/internal/config"
	"taxengine/internal/invoice"
	"taxengine/internal/source"
	"taxengine/pkg/models"
	"taxengine/pkg/services"
)

// loaded is the normalized record set shared by every report command.
type loaded struct {
	cfg      *config.Config
	location string
	batch    invoice.BatchResult
}

func (l *loaded) filer() services.Filer {
	return services.Filer{TaxID: l.cfg.FilerTaxID, Name: l.cfg.FilerName}
}

func (l *loaded) records() []models.Invoice {
	return l.batch.Invoices
}

// loadRecords reads configuration, opens the selected document source and
// normalizes every document it holds.
func loadRecords(ctx context.Context, cmd *cobra.Command, log zerolog.Logger) (*loaded, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	src, err := openSource(ctx, cmd, cfg)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("source", src.Describe()).
		Msg("Loading documents")

	docs, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, source.NewSourceError("loadRecords", source.ErrNoDocuments, src.Describe())
	}

	normalizer := invoice.NewNormalizer(invoice.Options{
		FilerTaxID:      cfg.FilerTaxID,
		DefaultCurrency: cfg.HomeCurrency,
		ExportPartyType: cfg.ExportPartyType,
	})
	batch := normalizer.NormalizeBatch(docs)

	log.Info().
		Int("documents", batch.Total).
		Int("records", len(batch.Invoices)).
		Int("skipped", batch.Skipped).
		Int("defaulted", batch.Defaulted).
		Msg("Documents normalized")

	return &loaded{cfg: cfg, location: src.Describe(), batch: batch}, nil
}

func openSource(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (services.DocumentSource, error) {
	kind, _ := cmd.Flags().GetString("source")
	dir, _ := cmd.Flags().GetString("dir")

	switch strings.ToLower(kind) {
	case "dir", "":
		if dir == "" {
			dir = cfg.InvoicesDir
		}
		return source.NewDirectory(dir)
	case "bucket":
		if err := cfg.ValidateBucket(); err != nil {
			return nil, fmt.Errorf("bucket source: %w", err)
		}
		return source.NewBucket(ctx, source.BucketConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			UseSSL:    cfg.MinIOUseSSL,
			Bucket:    cfg.MinIOBucket,
			Prefix:    cfg.MinIOPrefix,
		})
	default:
		return nil, fmt.Errorf("invalid source: %s (must be 'dir' or 'bucket')", kind)
	}
}

// printBatch prints the data quality counters of a normalization run.
func printBatch(l *loaded) {
	b := l.batch
	fmt.Printf("Source: %s\n", l.location)
	fmt.Printf("Documents: %d\n", b.Total)
	fmt.Printf("Records: %d\n", len(b.Invoices))
	if b.Skipped > 0 {
		fmt.Printf("Skipped (no identifier): %d\n", b.Skipped)
	}
	if b.Defaulted > 0 {
		fmt.Printf("Direction defaulted to Sales: %d\n", b.Defaulted)
	}
	if b.Fallbacks > 0 {
		fmt.Printf("Built from summary fields: %d\n", b.Fallbacks)
	}
	if b.Estimated > 0 {
		fmt.Printf("VAT estimated from totals: %d\n", b.Estimated)
	}
}

func banner(title string) {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("%*s\n", 40+len(title)/2, title)
	fmt.Println(strings.Repeat("=", 80))
}
