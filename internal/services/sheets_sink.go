package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/rummage/shopkeeper/internal/models"
)

// New worksheets get at least this much grid before the first write.
const (
	SheetMinRows    = 100
	SheetMinColumns = 20
)

type SheetsConfig struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string // empty uses Application Default Credentials
}

// sheetsAPI is the slice of the Sheets service the sink needs.
type sheetsAPI interface {
	sheetProperties(ctx context.Context, spreadsheetID string) ([]*sheets.SheetProperties, error)
	batchUpdate(ctx context.Context, spreadsheetID string, reqs []*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error)
	clearValues(ctx context.Context, spreadsheetID, rng string) error
	updateValues(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error
}

// SheetsSink mirrors the inventory to one worksheet of a Google spreadsheet,
// replacing the worksheet contents on every sync.
type SheetsSink struct {
	api           sheetsAPI
	spreadsheetID string
	sheetName     string
}

func NewSheetsSink(ctx context.Context, cfg SheetsConfig) (*SheetsSink, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets sink: spreadsheet id is required")
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets sink: %w", err)
	}
	return newSheetsSink(&sheetsClient{svc: svc}, cfg), nil
}

func newSheetsSink(api sheetsAPI, cfg SheetsConfig) *SheetsSink {
	name := cfg.SheetName
	if name == "" {
		name = "Inventory"
	}
	return &SheetsSink{
		api:           api,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     name,
	}
}

func (s *SheetsSink) Name() string { return "sheets:" + s.sheetName }

func (s *SheetsSink) Sync(ctx context.Context, rows []models.ExportRow) error {
	props, err := s.ensureSheet(ctx, int64(len(rows)+1), int64(len(models.ExportHeader)))
	if err != nil {
		return err
	}

	sheetRange := quoteSheetName(props.Title)
	if err := s.api.clearValues(ctx, s.spreadsheetID, sheetRange); err != nil {
		return fmt.Errorf("clear worksheet: %w", err)
	}

	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toCells(models.ExportHeader))
	for _, row := range rows {
		values = append(values, toCells(row.Record()))
	}
	if err := s.api.updateValues(ctx, s.spreadsheetID, sheetRange+"!A1", values); err != nil {
		return fmt.Errorf("write worksheet: %w", err)
	}
	return nil
}

// ensureSheet returns the worksheet properties, creating the worksheet or
// growing its grid so that rows x cols fits.
func (s *SheetsSink) ensureSheet(ctx context.Context, rows, cols int64) (*sheets.SheetProperties, error) {
	all, err := s.api.sheetProperties(ctx, s.spreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}

	var props *sheets.SheetProperties
	for _, p := range all {
		if p != nil && p.Title == s.sheetName {
			props = p
			break
		}
	}

	if props == nil {
		resp, err := s.api.batchUpdate(ctx, s.spreadsheetID, []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: s.sheetName,
					GridProperties: &sheets.GridProperties{
						RowCount:    max(rows, SheetMinRows),
						ColumnCount: max(cols, SheetMinColumns),
					},
				},
			},
		}})
		if err != nil {
			return nil, fmt.Errorf("create worksheet %q: %w", s.sheetName, err)
		}
		if resp != nil && len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil {
			return resp.Replies[0].AddSheet.Properties, nil
		}
		return &sheets.SheetProperties{Title: s.sheetName}, nil
	}

	grid := props.GridProperties
	if grid == nil {
		return props, nil
	}
	if grid.RowCount >= rows && grid.ColumnCount >= cols {
		return props, nil
	}

	grown := &sheets.GridProperties{
		RowCount:    max(grid.RowCount, rows),
		ColumnCount: max(grid.ColumnCount, cols),
	}
	_, err = s.api.batchUpdate(ctx, s.spreadsheetID, []*sheets.Request{{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId:        props.SheetId,
				GridProperties: grown,
			},
			Fields: "gridProperties.rowCount,gridProperties.columnCount",
		},
	}})
	if err != nil {
		return nil, fmt.Errorf("resize worksheet %q: %w", s.sheetName, err)
	}
	props.GridProperties = grown
	return props, nil
}

func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func toCells(record []string) []interface{} {
	cells := make([]interface{}, len(record))
	for i, v := range record {
		cells[i] = v
	}
	return cells
}

type sheetsClient struct {
	svc *sheets.Service
}

func (c *sheetsClient) sheetProperties(ctx context.Context, spreadsheetID string) ([]*sheets.SheetProperties, error) {
	ss, err := c.svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	props := make([]*sheets.SheetProperties, 0, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		props = append(props, sh.Properties)
	}
	return props, nil
}

func (c *sheetsClient) batchUpdate(ctx context.Context, spreadsheetID string, reqs []*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	return c.svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
}

func (c *sheetsClient) clearValues(ctx context.Context, spreadsheetID, rng string) error {
	_, err := c.svc.Spreadsheets.Values.Clear(spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (c *sheetsClient) updateValues(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error {
	_, err := c.svc.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}
