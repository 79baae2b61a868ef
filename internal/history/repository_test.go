package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typerank/internal/model"
)

type failingStore struct {
	getErr, setErr error
	data           string
}

func (f *failingStore) Get(context.Context, string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.data, f.data != "", nil
}

func (f *failingStore) Set(context.Context, string, string) error { return f.setErr }

func (f *failingStore) Remove(context.Context, string) error { return f.setErr }

func newTestRepo(t *testing.T) (*Repository, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo := NewRepository(store,
		WithClock(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Minute)
		}),
		WithIDFunc(func() string { return fmt.Sprintf("rec-%04d", tick+1) }),
	)
	return repo, store
}

func entry(method model.InputMethod, score int) Entry {
	return Entry{
		InputMethod: method,
		Mode:        model.ModeCount,
		ModeValue:   3,
		Difficulty:  model.DifficultyEasy,
		Result: model.AggregateResult{
			TotalScore:       score,
			AverageScore:     score,
			AverageAccuracy:  float64(score%100) + 0.5,
			TotalWPM:         score / 10,
			TotalCPM:         score / 2,
			TotalElapsedTime: 10.25,
			QuestionCount:    3,
		},
		RankEvaluation: model.RankEvaluation{Rank: "B", Title: "Standard Typist"},
	}
}

func TestSaveNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	first, err := repo.Save(ctx, entry(model.InputKeyboard, 100))
	require.NoError(t, err)
	second, err := repo.Save(ctx, entry(model.InputVoice, 200))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	all := repo.All(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
	assert.True(t, all[0].Timestamp.After(all[1].Timestamp))
}

func TestSaveEvictsOldestBeyondCap(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepo(t)

	seeded := make([]model.HistoryRecord, MaxRecords)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range seeded {
		seeded[i] = model.HistoryRecord{
			ID:        fmt.Sprintf("seed-%04d", i),
			Timestamp: base.Add(-time.Duration(i) * time.Minute),
		}
	}
	data, err := json.Marshal(seeded)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, DefaultKey, string(data)))

	newest, err := repo.Save(ctx, entry(model.InputKeyboard, 1))
	require.NoError(t, err)

	all := repo.All(ctx)
	require.Len(t, all, MaxRecords)
	assert.Equal(t, newest.ID, all[0].ID)
	assert.Equal(t, "seed-0000", all[1].ID)
	assert.Equal(t, "seed-0998", all[len(all)-1].ID)
	_, ok := repo.ByID(ctx, "seed-0999")
	assert.False(t, ok)
	for i := 1; i < len(all); i++ {
		require.False(t, all[i].Timestamp.After(all[i-1].Timestamp), "order broken at %d", i)
	}
}

func TestDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	rec, err := repo.Save(ctx, entry(model.InputKeyboard, 100))
	require.NoError(t, err)
	_, err = repo.Save(ctx, entry(model.InputKeyboard, 150))
	require.NoError(t, err)

	ok, err := repo.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Delete(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, repo.All(ctx), 1)

	require.NoError(t, repo.Clear(ctx))
	assert.Empty(t, repo.All(ctx))
}

func TestUnreadableHistoryIsEmpty(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, NewRepository(&failingStore{data: "{not json"}).All(ctx))
	assert.Empty(t, NewRepository(&failingStore{getErr: errors.New("disk gone")}).All(ctx))
}

// lockedOnceStore wraps a MemoryStore and fails the next Get.
type lockedOnceStore struct {
	*MemoryStore
	fail bool
}

func (s *lockedOnceStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.fail {
		s.fail = false
		return "", false, errors.New("database is locked")
	}
	return s.MemoryStore.Get(ctx, key)
}

func TestMutatorsKeepHistoryWhenReadFails(t *testing.T) {
	ctx := context.Background()
	store := &lockedOnceStore{MemoryStore: NewMemoryStore()}
	repo := NewRepository(store)
	var ids []string
	for i := 0; i < 5; i++ {
		rec, err := repo.Save(ctx, entry(model.InputKeyboard, 100+i))
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}

	store.fail = true
	_, err := repo.Save(ctx, entry(model.InputVoice, 999))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	assert.Len(t, repo.All(ctx), 5)

	store.fail = true
	_, err = repo.Import(ctx, []byte("[]"))
	require.Error(t, err)
	assert.Len(t, repo.All(ctx), 5)

	store.fail = true
	ok, err := repo.Delete(ctx, ids[0])
	require.Error(t, err)
	assert.False(t, ok)
	assert.Len(t, repo.All(ctx), 5)
}

func TestCorruptHistoryIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, DefaultKey, "{not json"))
	repo := NewRepository(store)

	_, err := repo.Save(ctx, entry(model.InputKeyboard, 1))
	require.Error(t, err)
	got, ok, err := store.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "{not json", got)
}

func TestWriteFailureIsReturned(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("read-only")
	repo := NewRepository(&failingStore{setErr: boom})

	_, err := repo.Save(ctx, entry(model.InputKeyboard, 1))
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, repo.Clear(ctx), boom)
}

func TestStatisticsByInputMethod(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	for _, e := range []Entry{
		entry(model.InputKeyboard, 100),
		entry(model.InputKeyboard, 301),
		entry(model.InputVoice, 500),
	} {
		_, err := repo.Save(ctx, e)
		require.NoError(t, err)
	}

	kb := Summarize(repo.Filter(ctx, Filter{InputMethod: model.InputKeyboard}))
	assert.Equal(t, 2, kb.Count)
	assert.Equal(t, 201, kb.AverageScore)
	assert.Equal(t, 301, kb.BestScore)
	assert.Equal(t, 1.0, kb.AverageAccuracy)
	assert.Equal(t, 1.5, kb.BestAccuracy)
	assert.Equal(t, 20, kb.AverageWPM)
	assert.Equal(t, 30, kb.BestWPM)
	assert.Equal(t, 20.5, kb.TotalPlayTime)

	cmp := Compare(repo.All(ctx))
	assert.Equal(t, 1, cmp.Voice.Count)
	assert.Equal(t, 0, cmp.Other.Count)
	assert.Equal(t, Statistics{}, cmp.Other)
	assert.Equal(t, 3, cmp.All.Count)
	assert.Equal(t, 500, cmp.All.BestScore)
}

func TestBestRecord(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	low, err := repo.Save(ctx, entry(model.InputKeyboard, 199))
	require.NoError(t, err)
	high, err := repo.Save(ctx, entry(model.InputKeyboard, 900))
	require.NoError(t, err)
	_, err = repo.Save(ctx, entry(model.InputVoice, 1500))
	require.NoError(t, err)

	best, ok := repo.Best(ctx, SortByScore, model.InputKeyboard)
	require.True(t, ok)
	assert.Equal(t, high.ID, best.ID)

	best, ok = repo.Best(ctx, SortByAccuracy, model.InputKeyboard)
	require.True(t, ok)
	assert.Equal(t, low.ID, best.ID)

	_, ok = repo.Best(ctx, SortByScore, model.InputOther)
	assert.False(t, ok)
}

func TestRecordsForComparison(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	timed := entry(model.InputKeyboard, 10)
	timed.Mode = model.ModeTime
	hard := entry(model.InputKeyboard, 20)
	hard.Difficulty = model.DifficultyHard
	for _, e := range []Entry{timed, hard, entry(model.InputKeyboard, 30), entry(model.InputVoice, 40)} {
		_, err := repo.Save(ctx, e)
		require.NoError(t, err)
	}

	assert.Len(t, repo.RecordsForComparison(ctx, model.InputKeyboard, "", model.DifficultyAll), 3)
	assert.Len(t, repo.RecordsForComparison(ctx, model.InputKeyboard, model.ModeCount, ""), 2)
	assert.Len(t, repo.RecordsForComparison(ctx, model.InputAll, model.ModeCount, model.DifficultyEasy), 2)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := newTestRepo(t)
	for i := 0; i < 3; i++ {
		_, err := src.Save(ctx, entry(model.InputKeyboard, i*100))
		require.NoError(t, err)
	}
	data, err := src.Export(ctx)
	require.NoError(t, err)

	dst := NewRepository(NewMemoryStore(),
		WithIDFunc(func() string { return "local" }),
		WithClock(func() time.Time { return time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC) }),
	)
	_, err = dst.Save(ctx, entry(model.InputVoice, 5))
	require.NoError(t, err)

	added, err := dst.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	added, err = dst.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	all := dst.All(ctx)
	require.Len(t, all, 4)
	assert.Equal(t, "local", all[0].ID)
}

func TestImportRejectsNonArray(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	for _, in := range []string{`{"id":"x"}`, `null`, `garbage`} {
		_, err := repo.Import(ctx, []byte(in))
		assert.ErrorIs(t, err, ErrInvalidImport, "input %s", in)
	}
}

func TestExportEmpty(t *testing.T) {
	repo, _ := newTestRepo(t)
	data, err := repo.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestMergeAppliesCap(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var current, imported []model.HistoryRecord
	for i := 0; i < MaxRecords; i++ {
		current = append(current, model.HistoryRecord{ID: fmt.Sprintf("c%d", i), Timestamp: base.Add(time.Duration(i) * time.Hour)})
	}
	imported = append(imported, model.HistoryRecord{ID: "new", Timestamp: base.Add(-time.Hour)})
	imported = append(imported, model.HistoryRecord{ID: "newest", Timestamp: base.Add(time.Duration(MaxRecords) * time.Hour)})

	merged, added := Merge(current, imported)
	assert.Equal(t, 2, added)
	require.Len(t, merged, MaxRecords)
	assert.Equal(t, "newest", merged[0].ID)
	assert.Equal(t, "c1", merged[len(merged)-1].ID)
}

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortByScore, k)
	k, err = ParseSortKey(" WPM ")
	require.NoError(t, err)
	assert.Equal(t, SortByWPM, k)
	_, err = ParseSortKey("speed")
	assert.Error(t, err)
}
