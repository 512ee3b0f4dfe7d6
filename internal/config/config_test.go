package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresFilerTaxID(t *testing.T) {
	t.Setenv("FILER_TAX_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FILER_TAX_ID")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FILER_TAX_ID", "767043545")
	t.Setenv("EXCLUDED_MONTHS", "2026-01, 2025-12,")
	t.Setenv("PARTIAL_YEARS", "2024=Partial year: operations started Nov 10, 2024")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "EGP", cfg.HomeCurrency)
	assert.Equal(t, "F", cfg.ExportPartyType)
	assert.Equal(t, "0.225", cfg.CorporateTaxRate.String())
	assert.Equal(t, []string{"2025-12", "2026-01"}, cfg.ExcludedMonths)
	assert.Equal(t, "Partial year: operations started Nov 10, 2024", cfg.PartialYears[2024])
	assert.Equal(t, "invoices_full", cfg.InvoicesDir)
	assert.True(t, cfg.MinIOUseSSL)
	assert.Equal(t, "info", cfg.GetLoggerConfig().Level)
}

func TestLoad_InvalidRate(t *testing.T) {
	t.Setenv("FILER_TAX_ID", "767043545")

	t.Setenv("CORPORATE_TAX_RATE", "abc")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("CORPORATE_TAX_RATE", "22.5")
	_, err = Load()
	assert.Error(t, err)
}

func TestValidateBucket(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateBucket())

	cfg.MinIOEndpoint = "localhost:9000"
	cfg.MinIOBucket = "invoices"
	assert.NoError(t, cfg.ValidateBucket())
}

func TestParsePartialYears(t *testing.T) {
	years, err := ParsePartialYears(" 2024 = first ; 2030=last;")
	require.NoError(t, err)
	assert.Equal(t, map[int]string{2024: "first", 2030: "last"}, years)

	_, err = ParsePartialYears("twenty=bad")
	assert.Error(t, err)

	_, err = ParsePartialYears("2024")
	assert.Error(t, err)
}

func TestLoadExpenses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "expenses.yaml")
	content := `"2024":
  salaries: 20000
  rent: 9000.50
"2025":
  salaries: "120000"
  other: 1500
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	expenses, err := LoadExpenses(path)
	require.NoError(t, err)
	require.Len(t, expenses, 2)

	assert.Equal(t, "29000.5", expenses[2024].Total().String())
	assert.True(t, expenses[2024].Utilities.IsZero())
	assert.Equal(t, "121500", expenses[2025].Total().String())
}

func TestLoadExpenses_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"2025": {"marketing": 250.25}}`), 0o644))

	expenses, err := LoadExpenses(path)
	require.NoError(t, err)
	assert.Equal(t, "250.25", expenses[2025].Marketing.String())
}

func TestLoadExpenses_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadExpenses(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("\"2025\":\n  rent: lots\n"), 0o644))
	_, err = LoadExpenses(bad)
	assert.Error(t, err)

	negative := filepath.Join(dir, "negative.yaml")
	require.NoError(t, os.WriteFile(negative, []byte("\"2025\":\n  rent: -5\n"), 0o644))
	_, err = LoadExpenses(negative)
	assert.Error(t, err)

	notYear := filepath.Join(dir, "not-year.yaml")
	require.NoError(t, os.WriteFile(notYear, []byte("company:\n  rent: 5\n"), 0o644))
	_, err = LoadExpenses(notYear)
	assert.Error(t, err)

	empty, err := LoadExpenses("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
