// Package export writes generated returns and normalized records to files:
// indented JSON, per-month Excel workbooks and CSV listings.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MonthlyReturnFile names the JSON file of one monthly return.
func MonthlyReturnFile(period string) string {
	return fmt.Sprintf("%s_vat_return.json", period)
}

// SummaryFile names the cross-period summary file.
const SummaryFile = "all_vat_returns_summary.json"

// AnnualReturnFile names the JSON file of one income tax return.
func AnnualReturnFile(year int) string {
	return fmt.Sprintf("%d_income_tax_return.json", year)
}

// WriteJSON writes v as two-space indented JSON, creating parent folders.
func WriteJSON(path string, v any) error {
	const op = "WriteJSON"

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return NewExportError(op, err, "marshal")
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewExportError(op, ErrWriteFailed, err.Error())
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return NewExportError(op, ErrWriteFailed, err.Error())
	}
	return nil
}
