package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"taxengine/internal/logger"
)

type Config struct {
	// Filer Configuration
	FilerTaxID      string
	FilerName       string
	HomeCurrency    string
	ExportPartyType string

	// Filing Configuration
	CorporateTaxRate decimal.Decimal
	ExcludedMonths   []string
	PartialYears     map[int]string
	SubmissionType   string
	LegalBasis       string

	// Local Storage Configuration
	InvoicesDir string
	OutputDir   string

	// MinIO / S3 Configuration
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOUseSSL    bool
	MinIOBucket    string
	MinIOPrefix    string

	// Google Sheets Configuration
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	rate, err := decimal.NewFromString(getEnv("CORPORATE_TAX_RATE", "0.225"))
	if err != nil {
		return nil, fmt.Errorf("CORPORATE_TAX_RATE is not a number: %w", err)
	}

	partialYears, err := ParsePartialYears(getEnv("PARTIAL_YEARS", ""))
	if err != nil {
		return nil, fmt.Errorf("PARTIAL_YEARS: %w", err)
	}

	useSSL, err := strconv.ParseBool(getEnv("MINIO_USE_SSL", "true"))
	if err != nil {
		return nil, fmt.Errorf("MINIO_USE_SSL must be true or false: %w", err)
	}

	config := &Config{
		FilerTaxID:           getEnv("FILER_TAX_ID", ""),
		FilerName:            getEnv("FILER_NAME", ""),
		HomeCurrency:         strings.ToUpper(getEnv("HOME_CURRENCY", "EGP")),
		ExportPartyType:      getEnv("EXPORT_PARTY_TYPE", "F"),
		CorporateTaxRate:     rate,
		ExcludedMonths:       ParseExcludedMonths(getEnv("EXCLUDED_MONTHS", "")),
		PartialYears:         partialYears,
		SubmissionType:       getEnv("SUBMISSION_TYPE", "Late Voluntary - Law 5/2025"),
		LegalBasis:           getEnv("LEGAL_BASIS", "Law 5/2025 Article 3"),
		InvoicesDir:          getEnv("INVOICES_DIR", "invoices_full"),
		OutputDir:            getEnv("OUTPUT_DIR", "output"),
		MinIOEndpoint:        getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:       getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:       getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:          useSSL,
		MinIOBucket:          getEnv("MINIO_BUCKET", ""),
		MinIOPrefix:          getEnv("MINIO_PREFIX", ""),
		GoogleSheetURL:       getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet: getEnv("GOOGLE_SHEET_WORKSHEET", "VAT_Returns"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:        getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:            getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.FilerTaxID == "" {
		return fmt.Errorf("FILER_TAX_ID is required")
	}
	if c.CorporateTaxRate.IsNegative() || c.CorporateTaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("CORPORATE_TAX_RATE must be between 0 and 1, got %s", c.CorporateTaxRate)
	}
	if c.HomeCurrency == "" {
		return fmt.Errorf("HOME_CURRENCY must not be empty")
	}
	return nil
}

// ValidateBucket checks the settings needed to read documents from MinIO.
func (c *Config) ValidateBucket() error {
	if c.MinIOEndpoint == "" {
		return fmt.Errorf("MINIO_ENDPOINT is required")
	}
	if c.MinIOBucket == "" {
		return fmt.Errorf("MINIO_BUCKET is required")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// ParseExcludedMonths splits a comma-separated list of YYYY-MM keys.
func ParseExcludedMonths(value string) []string {
	var months []string
	for _, part := range strings.Split(value, ",") {
		if month := strings.TrimSpace(part); month != "" {
			months = append(months, month)
		}
	}
	sort.Strings(months)
	return months
}

// ParsePartialYears reads "2024=note;2030=note" into a year to note map.
func ParsePartialYears(value string) (map[int]string, error) {
	years := make(map[int]string)
	for _, entry := range strings.Split(value, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		yearText, note, found := strings.Cut(entry, "=")
		year, err := strconv.Atoi(strings.TrimSpace(yearText))
		if err != nil || !found {
			return nil, fmt.Errorf("invalid entry %q, expected YEAR=note", entry)
		}
		years[year] = strings.TrimSpace(note)
	}
	return years, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
