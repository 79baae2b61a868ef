// Package history stores finished sessions and summarizes them.
//
// Records live in a single JSON blob, newest first, capped at MaxRecords.
// Read-modify-write cycles are not atomic; one actor at a time is assumed.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typerank/internal/model"
)

// MaxRecords is the history cap; older records are evicted first.
const MaxRecords = 1000

// DefaultKey is the blob key the history is stored under.
const DefaultKey = "typerank-history"

// BlobStore is the storage backend for the serialized history.
type BlobStore interface {
	// Get returns the stored value and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Entry is the caller-supplied part of a new record.
type Entry struct {
	InputMethod    model.InputMethod
	Mode           model.Mode
	ModeValue      int
	Difficulty     model.Difficulty
	Result         model.AggregateResult
	RankEvaluation model.RankEvaluation
}

// Option configures a Repository.
type Option func(*Repository)

// WithKey overrides the blob key.
func WithKey(key string) Option {
	return func(r *Repository) { r.key = key }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDFunc overrides record ID generation.
func WithIDFunc(newID func() string) Option {
	return func(r *Repository) { r.newID = newID }
}

// WithLogger sets the logger used for swallowed read failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) { r.logger = logger }
}

// Repository is the history collection over a BlobStore.
type Repository struct {
	store  BlobStore
	key    string
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// NewRepository builds a repository over store.
func NewRepository(store BlobStore, opts ...Option) *Repository {
	r := &Repository{
		store:  store,
		key:    DefaultKey,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// All returns every record newest first. Unreadable data yields an empty list;
// mutators read through load instead and refuse to write over it.
func (r *Repository) All(ctx context.Context) []model.HistoryRecord {
	records, err := r.load(ctx)
	if err != nil {
		r.logger.Warn("failed to load history", "key", r.key, "error", err)
		return nil
	}
	return records
}

func (r *Repository) load(ctx context.Context) ([]model.HistoryRecord, error) {
	data, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if !ok || data == "" {
		return nil, nil
	}
	var records []model.HistoryRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	SortNewestFirst(records)
	return records, nil
}

func (r *Repository) write(ctx context.Context, records []model.HistoryRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := r.store.Set(ctx, r.key, string(data)); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// Save stamps entry with an ID and timestamp and prepends it, evicting the
// oldest records beyond MaxRecords.
func (r *Repository) Save(ctx context.Context, entry Entry) (model.HistoryRecord, error) {
	record := model.HistoryRecord{
		ID:             r.newID(),
		Timestamp:      r.now().UTC(),
		InputMethod:    entry.InputMethod,
		Mode:           entry.Mode,
		ModeValue:      entry.ModeValue,
		Difficulty:     entry.Difficulty,
		Result:         entry.Result,
		RankEvaluation: entry.RankEvaluation,
	}
	current, err := r.load(ctx)
	if err != nil {
		return model.HistoryRecord{}, err
	}
	records := append([]model.HistoryRecord{record}, current...)
	if len(records) > MaxRecords {
		records = records[:MaxRecords]
	}
	if err := r.write(ctx, records); err != nil {
		return model.HistoryRecord{}, err
	}
	return record, nil
}

// Delete removes the record with id. It reports false when no record matched.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	records, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	kept := records[:0:0]
	for _, rec := range records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}
	if err := r.write(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes the whole history.
func (r *Repository) Clear(ctx context.Context) error {
	if err := r.store.Remove(ctx, r.key); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// ByID looks up one record.
func (r *Repository) ByID(ctx context.Context, id string) (model.HistoryRecord, bool) {
	for _, rec := range r.All(ctx) {
		if rec.ID == id {
			return rec, true
		}
	}
	return model.HistoryRecord{}, false
}

// Filter returns the records matching f.
func (r *Repository) Filter(ctx context.Context, f Filter) []model.HistoryRecord {
	return f.Apply(r.All(ctx))
}

// Best returns the top record by key among those typed with inputMethod.
func (r *Repository) Best(ctx context.Context, key SortKey, inputMethod model.InputMethod) (model.HistoryRecord, bool) {
	return Best(Filter{InputMethod: inputMethod}.Apply(r.All(ctx)), key)
}

// Export returns the history as indented JSON.
func (r *Repository) Export(ctx context.Context) ([]byte, error) {
	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.HistoryRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	return data, nil
}

// ErrInvalidImport reports import data that is not a JSON array of records.
var ErrInvalidImport = errors.New("invalid history import: expected a JSON array")

// Import merges exported JSON into the history, skipping IDs already
// present. It returns the number of records added before the cap applied.
func (r *Repository) Import(ctx context.Context, data []byte) (int, error) {
	var imported []model.HistoryRecord
	if err := json.Unmarshal(data, &imported); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if imported == nil {
		return 0, ErrInvalidImport
	}
	current, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	merged, added := Merge(current, imported)
	if err := r.write(ctx, merged); err != nil {
		return 0, err
	}
	return added, nil
}

// Merge unions current and imported by ID, sorts newest first and applies
// the cap. It returns the merged list and how many imported records were new.
func Merge(current, imported []model.HistoryRecord) ([]model.HistoryRecord, int) {
	seen := make(map[string]struct{}, len(current)+len(imported))
	merged := make([]model.HistoryRecord, 0, len(current)+len(imported))
	for _, rec := range current {
		seen[rec.ID] = struct{}{}
		merged = append(merged, rec)
	}
	added := 0
	for _, rec := range imported {
		if _, ok := seen[rec.ID]; ok {
			continue
		}
		seen[rec.ID] = struct{}{}
		merged = append(merged, rec)
		added++
	}
	SortNewestFirst(merged)
	if len(merged) > MaxRecords {
		merged = merged[:MaxRecords]
	}
	return merged, added
}

// SortNewestFirst orders records by descending timestamp.
func SortNewestFirst(records []model.HistoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}

// RecordsForComparison returns past records typed with inputMethod,
// optionally narrowed to a mode and difficulty.
func (r *Repository) RecordsForComparison(ctx context.Context, inputMethod model.InputMethod, mode model.Mode, difficulty model.Difficulty) []model.HistoryRecord {
	return r.Filter(ctx, Filter{InputMethod: inputMethod, Mode: mode, Difficulty: difficulty})
}
