package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/lotobot/internal/adapters/storage"
	"github.com/alejandrodnm/lotobot/internal/domain"
)

func openMemory(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteStorage_SaveAndLoadDraws(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	draws := []domain.Draw{
		{Contest: 2, Date: time.Date(2003, 9, 30, 0, 0, 0, 0, time.UTC), Numbers: domain.RangeSet(1, 15)},
		{Contest: 1, Numbers: domain.RangeSet(11, 25)},
	}
	require.NoError(t, db.SaveDraws(ctx, draws))

	got, err := db.LoadDraws(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordenados por concurso
	assert.Equal(t, 1, got[0].Contest)
	assert.True(t, got[0].Date.IsZero())
	assert.Equal(t, domain.RangeSet(11, 25), got[0].Numbers)
	assert.Equal(t, draws[0], got[1])
}

func TestSQLiteStorage_UpsertReplacesNumbers(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	require.NoError(t, db.SaveDraws(ctx, []domain.Draw{{Contest: 5, Numbers: domain.RangeSet(1, 15)}}))
	require.NoError(t, db.SaveDraws(ctx, []domain.Draw{{Contest: 5, Numbers: domain.RangeSet(2, 16)}}))

	got, err := db.LoadDraws(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.RangeSet(2, 16), got[0].Numbers)
}

func TestSQLiteStorage_SkipsInvalidDraws(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	require.NoError(t, db.SaveDraws(ctx, []domain.Draw{
		{Contest: 1, Numbers: domain.RangeSet(1, 14)},
		{Contest: 0, Numbers: domain.RangeSet(1, 15)},
	}))
	got, err := db.LoadDraws(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStorage_SaveEmptySlice(t *testing.T) {
	db := openMemory(t)
	assert.NoError(t, db.SaveDraws(context.Background(), nil))
}

func TestSQLiteStorage_Runs(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	first := domain.Run{
		ID:          uuid.NewString(),
		Kind:        domain.RunBacktest,
		CreatedAt:   now.Add(-time.Minute),
		LastContest: 3500,
		Params:      "repeated=8-10 odd=7-9",
		Considered:  99,
		Kept:        40,
		Summary:     "40.4%",
	}
	second := domain.Run{
		ID:          uuid.NewString(),
		Kind:        domain.RunGenerate,
		CreatedAt:   now,
		LastContest: 3500,
		Considered:  3876,
		Kept:        1200,
	}
	require.NoError(t, db.SaveRun(ctx, first))
	require.NoError(t, db.SaveRun(ctx, second))

	runs, err := db.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0])
	assert.Equal(t, first, runs[1])

	runs, err = db.RecentRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSQLiteStorage_DuplicateRunID(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	run := domain.Run{ID: "fixed", Kind: domain.RunCheck, CreatedAt: time.Now()}
	require.NoError(t, db.SaveRun(ctx, run))
	assert.Error(t, db.SaveRun(ctx, run))
}
