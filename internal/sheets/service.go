package sheets

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"taxengine/internal/logger"
	"taxengine/internal/money"
	"taxengine/pkg/services"
)

// headers is the return row layout, columns A to L.
var headers = []interface{}{
	"Period", "Period Name", "Invoices", "Total Sales", "Local Sales", "Exports",
	"Exempt", "Output VAT", "Input VAT", "Net VAT Due", "Status", "Generated At",
}

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// Service appends monthly VAT returns to a Google Sheet, one row per month.
type Service struct {
	sheetsService *sheets.Service
	spreadsheetID string
	sheetName     string
	now           func() time.Time
	log           zerolog.Logger
}

// NewSheetsService connects to the spreadsheet behind sheetURL. Returns are
// appended to the worksheet named sheetName.
func NewSheetsService(ctx context.Context, sheetURL, sheetName string) (*Service, error) {
	const op = "NewSheetsService"

	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	creds, err := credentialsFromEnv()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	jwt, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid service account credentials: %w", op, err)
	}

	api, err := sheets.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets client: %w", op, err)
	}

	s := &Service{
		sheetsService: api,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		now:           time.Now,
		log:           logger.WithComponent("sheets"),
	}
	s.log.Debug().
		Str("spreadsheet_id", spreadsheetID).
		Str("sheet", sheetName).
		Msg("Sheets exporter ready")
	return s, nil
}

// credentialsFromEnv reads the service account key from the file named by
// GOOGLE_APPLICATION_CREDENTIALS, or inline from GOOGLE_CREDENTIALS.
func credentialsFromEnv() ([]byte, error) {
	if path := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		return data, nil
	}
	if inline := os.Getenv("GOOGLE_CREDENTIALS"); inline != "" {
		return []byte(inline), nil
	}
	return nil, fmt.Errorf("neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is set")
}

// extractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func extractSpreadsheetID(url string) (string, error) {
	matches := spreadsheetIDPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Google Sheets URL format")
	}
	return matches[1], nil
}

// ExportMonthly implements services.ReturnExporter.
func (s *Service) ExportMonthly(ctx context.Context, returns []services.MonthlyReturn) error {
	const op = "ExportMonthly"

	s.log.Info().
		Str("sheet", s.sheetName).
		Int("rows", len(returns)).
		Msg("Writing VAT returns to Google Sheet")

	if err := s.ensureSheetWithHeaders(ctx); err != nil {
		return fmt.Errorf("%s: failed to ensure sheet exists: %w", op, err)
	}

	generatedAt := s.now().Format(time.RFC3339)
	values := make([][]interface{}, 0, len(returns))
	for i := range returns {
		values = append(values, returnToValues(&returns[i], generatedAt))
	}

	_, err := s.sheetsService.Spreadsheets.Values.Append(
		s.spreadsheetID,
		s.sheetName+"!A:L",
		&sheets.ValueRange{Values: values},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to append values to sheet: %w", op, err)
	}

	s.log.Info().
		Int("rows_written", len(values)).
		Msg("Successfully wrote VAT returns to Google Sheet")

	return nil
}

func returnToValues(ret *services.MonthlyReturn, generatedAt string) []interface{} {
	return []interface{}{
		ret.Period,                              // A
		ret.PeriodName,                          // B
		ret.InvoiceCount,                        // C
		money.Float(ret.Summary.TotalSales),     // D
		money.Float(ret.Sales.Local.Value),      // E
		money.Float(ret.Sales.Exports.Value),    // F
		money.Float(ret.Sales.Exempt.Value),     // G
		money.Float(ret.Summary.TotalOutputVAT), // H
		money.Float(ret.Summary.TotalInputVAT),  // I
		money.Float(ret.Summary.NetVATDue),      // J
		ret.Summary.Status,                      // K
		generatedAt,                             // L
	}
}

// ensureSheetWithHeaders creates the worksheet when missing and writes the
// header row into an empty one.
func (s *Service) ensureSheetWithHeaders(ctx context.Context) error {
	const op = "ensureSheetWithHeaders"

	sheetID, found, err := s.findSheet(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		if sheetID, err = s.addSheet(ctx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	headerRange := s.sheetName + "!A1:L1"
	existing, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to read header row: %w", op, err)
	}
	if len(existing.Values) > 0 && len(existing.Values[0]) > 0 {
		return nil
	}

	s.log.Info().Str("sheet", s.sheetName).Msg("Writing header row")
	header := &sheets.ValueRange{Values: [][]interface{}{headers}}
	if _, err := s.sheetsService.Spreadsheets.Values.Update(s.spreadsheetID, headerRange, header).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("%s: failed to write header row: %w", op, err)
	}

	format := &sheets.BatchUpdateSpreadsheetRequest{Requests: headerFormatRequests(sheetID)}
	if _, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, format).Context(ctx).Do(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to format header row")
	}
	return nil
}

func (s *Service) findSheet(ctx context.Context) (int64, bool, error) {
	spreadsheet, err := s.sheetsService.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get spreadsheet: %w", err)
	}
	for _, sh := range spreadsheet.Sheets {
		if sh.Properties != nil && sh.Properties.Title == s.sheetName {
			return sh.Properties.SheetId, true, nil
		}
	}
	return 0, false, nil
}

func (s *Service) addSheet(ctx context.Context) (int64, error) {
	s.log.Info().Str("sheet", s.sheetName).Msg("Creating worksheet")

	req := &sheets.BatchUpdateSpreadsheetRequest{Requests: []*sheets.Request{{
		AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: s.sheetName}},
	}}}
	resp, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to create worksheet: %w", err)
	}
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

// headerFormatRequests bolds and shades the header row and fits the columns.
func headerFormatRequests(sheetID int64) []*sheets.Request {
	columns := int64(len(headers))
	return []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{SheetId: sheetID, EndRowIndex: 1, EndColumnIndex: columns},
				Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
					TextFormat:      &sheets.TextFormat{Bold: true},
					BackgroundColor: &sheets.Color{Red: 0.9, Green: 0.9, Blue: 0.9},
				}},
				Fields: "userEnteredFormat(textFormat,backgroundColor)",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{SheetId: sheetID, Dimension: "COLUMNS", EndIndex: columns},
			},
		},
	}
}
