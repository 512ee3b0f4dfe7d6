package sheets

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"taxengine/pkg/services"
)

var _ services.ReturnExporter = (*Service)(nil)

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "edit url",
			url:  "https://docs.google.com/spreadsheets/d/1AbC-d_9xYz/edit#gid=0",
			want: "1AbC-d_9xYz",
		},
		{
			name: "bare url",
			url:  "https://docs.google.com/spreadsheets/d/abc123",
			want: "abc123",
		},
		{
			name:    "not a sheet",
			url:     "https://example.com/file/abc",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractSpreadsheetID(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReturnToValues(t *testing.T) {
	ret := services.MonthlyReturn{
		Period:       "2025-01",
		PeriodName:   "January 2025",
		InvoiceCount: 4,
		Sales: services.SalesBuckets{
			Local:   services.Bucket{Value: decimal.RequireFromString("1000")},
			Exports: services.Bucket{Value: decimal.RequireFromString("250.5")},
			Exempt:  services.Bucket{Value: decimal.Zero},
		},
		Summary: services.ReturnSummary{
			TotalSales:     decimal.RequireFromString("1250.5"),
			TotalOutputVAT: decimal.RequireFromString("140"),
			TotalInputVAT:  decimal.RequireFromString("266"),
			NetVATDue:      decimal.RequireFromString("-126"),
			Status:         services.StatusRefundable,
		},
	}

	row := returnToValues(&ret, "2025-02-01T00:00:00Z")

	require.Len(t, row, len(headers))
	assert.Equal(t, []interface{}{
		"2025-01", "January 2025", 4,
		1250.5, 1000.0, 250.5, 0.0,
		140.0, 266.0, -126.0,
		"Refundable", "2025-02-01T00:00:00Z",
	}, row)
}

func TestHeaderFormatRequests(t *testing.T) {
	requests := headerFormatRequests(42)

	require.Len(t, requests, 2)
	cell := requests[0].RepeatCell
	require.NotNil(t, cell)
	assert.Equal(t, int64(42), cell.Range.SheetId)
	assert.Equal(t, int64(1), cell.Range.EndRowIndex)
	assert.Equal(t, int64(len(headers)), cell.Range.EndColumnIndex)
	assert.True(t, cell.Cell.UserEnteredFormat.TextFormat.Bold)

	resize := requests[1].AutoResizeDimensions
	require.NotNil(t, resize)
	assert.Equal(t, "COLUMNS", resize.Dimensions.Dimension)
}
