package ingest

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// DefaultMaxGSheetRows substitutes for the CSV reader's file-size guard,
// since a sheet has no size on disk.
const DefaultMaxGSheetRows = 200000

// SheetsAPI is the subset of *sheets.Service this package depends on, so
// tests can supply a fake without hitting the network.
type SheetsAPI interface {
	GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]string, error)
}

type liveSheetsAPI struct {
	service *sheets.Service
}

func (a *liveSheetsAPI) GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]string, error) {
	resp, err := a.service.Spreadsheets.Values.Get(spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("ingest: fetch sheet values: %w", err)
	}
	return convertValues(resp.Values), nil
}

// NewSheetsAPI authenticates a Sheets client from an OAuth2 access token.
func NewSheetsAPI(ctx context.Context, accessToken string) (SheetsAPI, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	service, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("ingest: create sheets service: %w", err)
	}
	return &liveSheetsAPI{service: service}, nil
}

// ReadGoogleSheet reads a sheet's values through api and normalizes them
// into the same SourceFrame shape ReadCSVTable produces, sharing its
// header-row and column-hint logic.
func ReadGoogleSheet(ctx context.Context, api SheetsAPI, spreadsheetID, sheetName string, headerRows int) (*SourceFrame, Headers, error) {
	if headerRows != 1 && headerRows != 2 {
		return nil, Headers{}, &ValidationError{Reason: fmt.Sprintf("header_rows must be 1 or 2, got %d", headerRows)}
	}

	values, err := api.GetValues(ctx, spreadsheetID, sheetName)
	if err != nil {
		return nil, Headers{}, err
	}
	if len(values) > DefaultMaxGSheetRows {
		return nil, Headers{}, &ValidationError{Reason: fmt.Sprintf("sheet has %d rows, exceeding the %d row ceiling", len(values), DefaultMaxGSheetRows)}
	}

	return buildFrame(values, headerRows)
}

func buildFrame(allRows [][]string, headerRows int) (*SourceFrame, Headers, error) {
	if len(allRows) < headerRows {
		return nil, Headers{}, &ValidationError{Reason: "sheet has fewer rows than header_rows requires"}
	}

	var labels, names []string
	var dataRows [][]string
	if headerRows == 2 {
		labels = allRows[0]
		names = allRows[1]
		dataRows = allRows[2:]
	} else {
		names = allRows[0]
		dataRows = allRows[1:]
	}

	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, Headers{}, &ValidationError{Reason: fmt.Sprintf("column %d has an empty name", i)}
		}
	}
	if len(dataRows) == 0 {
		return nil, Headers{}, &ValidationError{Reason: "source frame has zero data rows"}
	}

	width := len(names)
	aligned := make([][]string, len(dataRows))
	for i, row := range dataRows {
		aligned[i] = alignRow(row, width)
	}

	headers := Headers{Names: names, Labels: labels}
	frame := &SourceFrame{Headers: headers, Rows: aligned}
	frame.Hints = ProfileColumns(frame)
	return frame, headers, nil
}

// convertValues normalizes the ragged [][]interface{} the Sheets API returns
// into [][]string, stringifying each cell.
func convertValues(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		strRow := make([]string, len(row))
		for j, cell := range row {
			strRow[j] = fmt.Sprintf("%v", cell)
		}
		out[i] = strRow
	}
	return out
}
