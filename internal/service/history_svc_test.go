package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mathieu-neron/tubestats/internal/model"
	"github.com/mathieu-neron/tubestats/internal/repository"
)

func newFileStore(t *testing.T) (*HistoryStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.json")
	return NewHistoryStore(repository.NewFileHistoryRepo(path), zerolog.Nop()), path
}

func entry(id string, grade model.Grade) model.ChannelHistoryEntry {
	return model.ChannelHistoryEntry{
		ChannelID:  id,
		Title:      "channel " + id,
		AnalyzedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Grade:      grade,
	}
}

func TestHistoryStore_UpsertReplaces(t *testing.T) {
	store, _ := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, entry("X", "B2")))
	require.NoError(t, store.Upsert(ctx, entry("X", "A1")))

	all := store.ListAll(ctx)
	require.Len(t, all, 1)
	require.Equal(t, "X", all[0].ChannelID)
	require.Equal(t, model.Grade("A1"), all[0].Grade)
}

func TestHistoryStore_UpsertIsIdempotent(t *testing.T) {
	store, _ := newFileStore(t)
	ctx := context.Background()
	e := entry("Y", "C3")

	require.NoError(t, store.Upsert(ctx, e))
	once := store.ListAll(ctx)
	require.NoError(t, store.Upsert(ctx, e))
	twice := store.ListAll(ctx)
	require.Equal(t, once, twice)
}

func TestHistoryStore_PersistsAcrossInstances(t *testing.T) {
	store, path := newFileStore(t)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, entry("A", "B1")))
	require.NoError(t, store.Upsert(ctx, entry("B", "C3")))

	reopened := NewHistoryStore(repository.NewFileHistoryRepo(path), zerolog.Nop())
	require.Len(t, reopened.ListAll(ctx), 2)
}

func TestHistoryStore_ClearThenUpsert(t *testing.T) {
	store, _ := newFileStore(t)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, entry("A", "B1")))
	require.NoError(t, store.Upsert(ctx, entry("B", "B2")))

	require.NoError(t, store.ClearAll(ctx))
	require.Empty(t, store.ListAll(ctx))

	require.NoError(t, store.Upsert(ctx, entry("C", "A1")))
	all := store.ListAll(ctx)
	require.Len(t, all, 1)
	require.Equal(t, "C", all[0].ChannelID)
}

func TestHistoryStore_MissingFileIsEmpty(t *testing.T) {
	store, _ := newFileStore(t)
	require.Empty(t, store.ListAll(context.Background()))
}

func TestHistoryStore_CorruptFileIsTreatedAsEmpty(t *testing.T) {
	store, path := newFileStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	ctx := context.Background()

	require.Empty(t, store.ListAll(ctx))

	require.NoError(t, store.Upsert(ctx, entry("Z", "B3")))
	all := store.ListAll(ctx)
	require.Len(t, all, 1)
	require.Equal(t, "Z", all[0].ChannelID)
}

func TestHistoryStore_RejectsEmptyChannelID(t *testing.T) {
	store, _ := newFileStore(t)
	err := store.Upsert(context.Background(), entry("", "A1"))
	require.ErrorIs(t, err, ErrHistoryWrite)
}

// failingRepo reads fine but refuses every write.
type failingRepo struct {
	doc repository.HistoryDocument
}

func (r *failingRepo) Load(context.Context) (repository.HistoryDocument, error) {
	doc := make(repository.HistoryDocument, len(r.doc))
	for k, v := range r.doc {
		doc[k] = v
	}
	return doc, nil
}

func (r *failingRepo) Save(context.Context, repository.HistoryDocument) error {
	return errors.New("read-only filesystem")
}

func TestHistoryStore_WriteFailureIsReported(t *testing.T) {
	repo := &failingRepo{doc: repository.HistoryDocument{"A": entry("A", "B2")}}
	store := NewHistoryStore(repo, zerolog.Nop())
	ctx := context.Background()

	err := store.Upsert(ctx, entry("B", "A1"))
	require.ErrorIs(t, err, ErrHistoryWrite)
	require.ErrorIs(t, store.ClearAll(ctx), ErrHistoryWrite)

	// prior state is untouched
	all := store.ListAll(ctx)
	require.Len(t, all, 1)
	require.Equal(t, "A", all[0].ChannelID)
}

func TestSortHistoryByAnalyzedAt(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	entries := []model.ChannelHistoryEntry{
		{ChannelID: "b", AnalyzedAt: base},
		{ChannelID: "new", AnalyzedAt: base.Add(time.Hour)},
		{ChannelID: "a", AnalyzedAt: base},
	}
	SortHistoryByAnalyzedAt(entries)
	require.Equal(t, "new", entries[0].ChannelID)
	require.Equal(t, "a", entries[1].ChannelID)
	require.Equal(t, "b", entries[2].ChannelID)
}
