package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"taxengine/pkg/services"
)

// expenseCategories are the accepted keys under each fiscal year.
var expenseCategories = []string{"salaries", "rent", "utilities", "marketing", "depreciation", "other"}

// LoadExpenses reads operating expenses per fiscal year from a YAML, JSON or
// TOML file shaped as:
//
//	"2025":
//	  salaries: 120000
//	  rent: 36000
//
// Absent categories are zero. An empty path yields no expenses.
func LoadExpenses(path string) (map[int]services.OperatingExpenses, error) {
	const op = "LoadExpenses"

	expenses := make(map[int]services.OperatingExpenses)
	if path == "" {
		return expenses, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%s: failed to read %s: %w", op, path, err)
	}

	years := make([]string, 0)
	for key := range v.AllSettings() {
		years = append(years, key)
	}
	sort.Strings(years)

	for _, key := range years {
		year, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%s: top-level key %q is not a fiscal year", op, key)
		}

		values := make(map[string]decimal.Decimal, len(expenseCategories))
		for _, category := range expenseCategories {
			raw := strings.TrimSpace(v.GetString(key + "." + category))
			if raw == "" {
				values[category] = decimal.Zero
				continue
			}
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: %d.%s: %q is not an amount", op, year, category, raw)
			}
			if amount.IsNegative() {
				return nil, fmt.Errorf("%s: %d.%s must not be negative", op, year, category)
			}
			values[category] = amount
		}

		expenses[year] = services.OperatingExpenses{
			Salaries:     values["salaries"],
			Rent:         values["rent"],
			Utilities:    values["utilities"],
			Marketing:    values["marketing"],
			Depreciation: values["depreciation"],
			Other:        values["other"],
		}
	}

	return expenses, nil
}
