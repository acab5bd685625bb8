package services

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/rummage/shopkeeper/internal/models"
)

// GCSSink overwrites one Cloud Storage object with the CSV snapshot.
type GCSSink struct {
	gcs       *storage.Client
	bucket    string
	object    string
	newWriter func(ctx context.Context) io.WriteCloser
}

// NewGCSSink creates a storage client once at startup. Credentials come from
// the environment (Application Default Credentials).
func NewGCSSink(ctx context.Context, bucket, object string) (*GCSSink, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs sink: bucket is required")
	}
	if object == "" {
		object = "inventory.csv"
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs sink: storage client: %w", err)
	}
	s := &GCSSink{gcs: client, bucket: bucket, object: object}
	s.newWriter = s.objectWriter
	return s, nil
}

func (s *GCSSink) Name() string { return fmt.Sprintf("gcs:%s/%s", s.bucket, s.object) }

func (s *GCSSink) Sync(ctx context.Context, rows []models.ExportRow) error {
	w := s.newWriter(ctx)
	if err := WriteInventoryCSV(w, rows); err != nil {
		w.Close()
		return fmt.Errorf("write object: %w", err)
	}
	// The object only replaces the previous generation once Close succeeds.
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize object: %w", err)
	}
	return nil
}

func (s *GCSSink) Close() error {
	if s.gcs == nil {
		return nil
	}
	return s.gcs.Close()
}

func (s *GCSSink) objectWriter(ctx context.Context) io.WriteCloser {
	w := s.gcs.Bucket(s.bucket).Object(s.object).NewWriter(ctx)
	w.ContentType = "text/csv"
	w.CacheControl = "no-cache"
	return w
}
