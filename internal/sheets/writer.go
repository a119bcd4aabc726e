package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Dan-Lay/moni/internal/common"
	"github.com/Dan-Lay/moni/internal/projection"
	"github.com/Dan-Lay/moni/internal/service"
	"github.com/Dan-Lay/moni/internal/stats"
)

// Report bundles everything the monthly export writes.
type Report struct {
	Month         time.Time
	Categories    map[string]service.CategorySummary
	TopSpots      []stats.EstablishmentRank
	Miles         stats.MilesReport
	Income        float64
	Expenses      float64
	Projection    projection.Series
	CategoryLabel func(key string) string
}

// Writer exports dashboard reports to Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	svc, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: svc,
		logger:  logger,
	}, nil
}

// Write overwrites the configured sheet with the report.
func (w *Writer) Write(ctx context.Context, report *Report) error {
	w.logger.Info("starting report export",
		"month", report.Month.Format("2006-01"),
		"categories", len(report.Categories))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	values := w.prepareReportData(report)

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	w.logger.Info("report export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return nil
}

func (w *Writer) prepareReportData(report *Report) [][]any {
	label := report.CategoryLabel
	if label == nil {
		label = func(key string) string { return key }
	}

	values := [][]any{
		{"Moni - " + report.Month.Format("January 2006")},
		{},
		{"Income", report.Income},
		{"Expenses", report.Expenses},
		{"Net", report.Income - report.Expenses},
		{},
		{"Category", "Count", "Amount", "Limit"},
	}

	keys := make([]string, 0, len(report.Categories))
	for k := range report.Categories {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return report.Categories[keys[i]].Amount > report.Categories[keys[j]].Amount
	})
	for _, k := range keys {
		s := report.Categories[k]
		values = append(values, []any{label(k), s.Count, s.Amount, s.Limit})
	}

	values = append(values, []any{}, []any{"Top establishments"}, []any{"Establishment", "Count", "Total"})
	for _, r := range report.TopSpots {
		values = append(values, []any{r.Establishment, r.Count, r.Total})
	}

	values = append(values, []any{},
		[]any{"Miles"},
		[]any{"Total miles", report.Miles.TotalMiles},
		[]any{"Lost miles", report.Miles.LostMiles},
		[]any{"Efficiency %", report.Miles.EfficiencyPct},
	)

	values = append(values, []any{}, []any{"Projection"}, []any{"Bucket", "Actual", "Projected", "Trailing avg"})
	for _, p := range report.Projection.Points {
		row := []any{p.Label, "", "", ""}
		if p.ActualBalance != nil {
			row[1] = *p.ActualBalance
		}
		if p.ProjectedBalance != nil {
			row[2] = *p.ProjectedBalance
		}
		if p.TrailingAverage != nil {
			row[3] = *p.TrailingAverage
		}
		values = append(values, row)
	}

	return values
}

func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title: w.config.SpreadsheetName,
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}
	w.logger.Info("created spreadsheet", "spreadsheet_id", created.SpreadsheetId)
	return created.SpreadsheetId, nil
}

func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	clearReq := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{})
	if _, err := clearReq.Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	valueRange := &sheets.ValueRange{Values: values}
	updateReq := w.service.Spreadsheets.Values.Update(spreadsheetID, "A1", valueRange).
		ValueInputOption("USER_ENTERED")
	if _, err := updateReq.Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update sheet: %w", err)
	}
	return nil
}

// createSheetsService creates a Google Sheets API service from either a
// service account key or OAuth2 refresh-token credentials.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}
		token := &oauth2.Token{RefreshToken: config.RefreshToken}
		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	svc, err := sheets.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return svc, nil
}
