package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rummage/shopkeeper/internal/models"
)

var (
	ErrItemNotFound  = errors.New("item not found")
	ErrPhotoNotFound = errors.New("item has no photo")
)

// ValidationError lists rejected input fields and why.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type inventoryRecord struct {
	item  models.Item
	photo []byte
}

// InventoryService is the in-memory item store for one session. Items keep
// insertion order; ids are never reused.
type InventoryService struct {
	mu      sync.RWMutex
	records []*inventoryRecord
	byID    map[string]*inventoryRecord
	version uint64 // bumped by every mutation

	// syncMu orders sink calls. Mutations commit and release mu before
	// taking it.
	syncMu        sync.Mutex
	syncedVersion uint64 // guarded by syncMu
	sink          SyncSink
	syncTimeout   time.Duration

	logger *zap.Logger
	now    func() time.Time
}

type InventoryOption func(*InventoryService)

func WithSyncTimeout(d time.Duration) InventoryOption {
	return func(s *InventoryService) { s.syncTimeout = d }
}

func WithClock(now func() time.Time) InventoryOption {
	return func(s *InventoryService) { s.now = now }
}

func NewInventoryService(sink SyncSink, logger *zap.Logger, opts ...InventoryOption) *InventoryService {
	if sink == nil {
		sink = NopSink{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &InventoryService{
		byID:        make(map[string]*inventoryRecord),
		sink:        sink,
		syncTimeout: 10 * time.Second,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add validates req and appends a new unsold item. A *SyncError is returned
// together with the created item when only the sink failed.
func (s *InventoryService) Add(ctx context.Context, req *models.CreateItemRequest) (*models.Item, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	req.Normalize()

	s.mu.Lock()
	rec := &inventoryRecord{
		item: models.Item{
			ID:    uuid.New().String(),
			Name:  req.Name,
			Brand: req.Brand,
			Size:  req.Size,
			Price: req.Price,
			Sold:  false,
			Added: s.now().UTC(),
		},
	}
	if req.Photo != nil && len(req.Photo.Data) > 0 {
		rec.photo = append([]byte(nil), req.Photo.Data...)
		rec.item.Photo = &models.PhotoRef{
			Filename:    req.Photo.Filename,
			ContentType: req.Photo.ContentType,
			Size:        len(rec.photo),
		}
	}
	s.records = append(s.records, rec)
	s.byID[rec.item.ID] = rec
	s.version++
	item := copyItem(rec.item)
	s.mu.Unlock()

	s.logger.Info("item added",
		zap.String("item_id", item.ID),
		zap.String("name", item.Name),
		zap.Float64("price", item.Price),
	)

	return &item, s.publish(ctx, false)
}

// ToggleSold flips the sold flag of the item with the given id.
func (s *InventoryService) ToggleSold(ctx context.Context, id string) (*models.Item, error) {
	s.mu.Lock()
	rec, exists := s.byID[id]
	if !exists {
		s.mu.Unlock()
		return nil, ErrItemNotFound
	}
	rec.item.Sold = !rec.item.Sold
	s.version++
	item := copyItem(rec.item)
	s.mu.Unlock()

	s.logger.Info("item sold flag toggled", zap.String("item_id", id), zap.Bool("sold", item.Sold))

	return &item, s.publish(ctx, false)
}

// Remove permanently discards the item and its photo.
func (s *InventoryService) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	rec, exists := s.byID[id]
	if !exists {
		s.mu.Unlock()
		return ErrItemNotFound
	}
	delete(s.byID, id)
	for i, r := range s.records {
		if r == rec {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	rec.photo = nil
	s.version++
	s.mu.Unlock()

	s.logger.Info("item removed", zap.String("item_id", id))

	return s.publish(ctx, false)
}

// Resync sends the current snapshot to the sink again.
func (s *InventoryService) Resync(ctx context.Context) error {
	return s.publish(ctx, true)
}

func (s *InventoryService) Get(id string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.byID[id]
	if !exists {
		return nil, ErrItemNotFound
	}
	item := copyItem(rec.item)
	return &item, nil
}

// Photo returns a copy of the item's photo bytes.
func (s *InventoryService) Photo(id string) (*models.PhotoData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.byID[id]
	if !exists {
		return nil, ErrItemNotFound
	}
	if rec.item.Photo == nil {
		return nil, ErrPhotoNotFound
	}
	return &models.PhotoData{
		Filename:    rec.item.Photo.Filename,
		ContentType: rec.item.Photo.ContentType,
		Data:        append([]byte(nil), rec.photo...),
	}, nil
}

// List returns the items matching both the status filter and the name query,
// in store order.
func (s *InventoryService) List(q models.ListQuery) []models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(q.Query)
	items := make([]models.Item, 0, len(s.records))
	for _, rec := range s.records {
		if !q.Status.Matches(rec.item.Sold) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(rec.item.Name), needle) {
			continue
		}
		items = append(items, copyItem(rec.item))
	}
	return items
}

func (s *InventoryService) Summary() models.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum models.Summary
	var unsold float64
	for _, rec := range s.records {
		sum.Total++
		if rec.item.Sold {
			sum.Sold++
		} else {
			unsold += rec.item.Price
		}
	}
	sum.Available = sum.Total - sum.Sold
	sum.UnsoldValue = models.RoundCents(unsold)
	return sum
}

func (s *InventoryService) ExportRows() []models.ExportRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.exportRowsLocked()
}

func (s *InventoryService) exportRowsLocked() []models.ExportRow {
	rows := make([]models.ExportRow, 0, len(s.records))
	for _, rec := range s.records {
		rows = append(rows, models.NewExportRow(rec.item))
	}
	return rows
}

// publish sends the latest snapshot to the sink. Callers must not hold mu.
// Mutations queued behind a slow sink share one snapshot; a version that
// has already been delivered is not sent again unless force is set. The
// sink call ignores cancellation of ctx and is bounded by syncTimeout.
func (s *InventoryService) publish(ctx context.Context, force bool) error {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	s.mu.RLock()
	version := s.version
	rows := s.exportRowsLocked()
	s.mu.RUnlock()

	if !force && version <= s.syncedVersion {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.syncTimeout)
	defer cancel()

	if err := s.sink.Sync(ctx, rows); err != nil {
		s.logger.Warn("inventory sync failed",
			zap.String("sink", s.sink.Name()),
			zap.Int("rows", len(rows)),
			zap.Uint64("version", version),
			zap.Error(err),
		)
		return &SyncError{Sink: s.sink.Name(), Err: fmt.Errorf("syncing %d rows: %w", len(rows), err)}
	}
	s.syncedVersion = version
	return nil
}

func copyItem(item models.Item) models.Item {
	if item.Photo != nil {
		photo := *item.Photo
		item.Photo = &photo
	}
	return item
}
