package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rummage/shopkeeper/internal/models"
)

// SyncSink receives the full export snapshot after every mutation. Each call
// replaces whatever the sink held before.
type SyncSink interface {
	Name() string
	Sync(ctx context.Context, rows []models.ExportRow) error
}

// SyncError reports a sink failure. The mutation that triggered it has
// already been applied.
type SyncError struct {
	Sink string
	Err  error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync to %s failed: %v", e.Sink, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// IsSyncError reports whether err carries a *SyncError.
func IsSyncError(err error) bool {
	var syncErr *SyncError
	return errors.As(err, &syncErr)
}

type NopSink struct{}

func (NopSink) Name() string { return "none" }

func (NopSink) Sync(context.Context, []models.ExportRow) error { return nil }

// MultiSink fans a snapshot out to every sink and joins their failures.
type MultiSink []SyncSink

func (m MultiSink) Name() string {
	names := make([]string, 0, len(m))
	for _, s := range m {
		names = append(names, s.Name())
	}
	return strings.Join(names, "+")
}

func (m MultiSink) Sync(ctx context.Context, rows []models.ExportRow) error {
	var errs []error
	for _, s := range m {
		if err := s.Sync(ctx, rows); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func exportRecords(rows []models.ExportRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record())
	}
	return records
}
