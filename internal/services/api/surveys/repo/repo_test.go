package repo

import (
	"context"
	"path/filepath"
	"testing"

	"fishdash/internal/core/catalog"
	"fishdash/internal/modkit/repokit"
	perr "fishdash/internal/platform/errors"
	"fishdash/internal/platform/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) repokit.TxRunner {
	t.Helper()
	cfg := store.Config{SQLite: store.SQLiteConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "catalog.db"), MaxConns: 1}}
	st, err := store.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return st.SQLite
}

func migrate(t *testing.T, db repokit.TxRunner) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repokit.WithTx(ctx, db, func(q repokit.Queryer) error { return Migrate(ctx, q) }))
}

func load(t *testing.T, db repokit.TxRunner) *catalog.Catalog {
	t.Helper()
	ctx := context.Background()
	var snap catalog.Snapshot
	require.NoError(t, repokit.WithTx(ctx, db, func(q repokit.Queryer) error {
		var err error
		snap, err = Snapshot(ctx, NewSQL().Bind(q))
		return err
	}))
	c, err := catalog.New(snap, catalog.SourceSQLite)
	require.NoError(t, err)
	return c
}

// assertSameCatalog compares content; record order is only defined per survey
func assertSameCatalog(t *testing.T, want, got *catalog.Catalog) {
	t.Helper()
	assert.Equal(t, want.Info().Meta, got.Info().Meta)
	assert.Equal(t, want.Waters(), got.Waters())
	assert.Equal(t, want.Species(), got.Species())
	assert.Equal(t, want.Surveys(), got.Surveys())
	for _, sv := range want.Surveys() {
		assert.Equal(t, want.FishRecordsBySurvey(sv.ID), got.FishRecordsBySurvey(sv.ID), sv.ID)
	}
}

func TestSQLite_SeedAndSnapshotRoundTrip(t *testing.T) {
	want, err := catalog.Embedded()
	require.NoError(t, err)

	db := openSQLite(t)
	migrate(t, db)
	require.NoError(t, Seed(context.Background(), db, want.Snapshot()))

	got := load(t, db)
	assert.Equal(t, want.Info().Surveys, got.Info().Surveys)
	assert.Equal(t, want.Info().FishRecords, got.Info().FishRecords)
	assertSameCatalog(t, want, got)
}

func TestSQLite_MigrateIsIdempotentAndSeedReplaces(t *testing.T) {
	full, err := catalog.Embedded()
	require.NoError(t, err)

	db := openSQLite(t)
	migrate(t, db)
	migrate(t, db)
	require.NoError(t, Seed(context.Background(), db, full.Snapshot()))

	small := full.Snapshot()
	small.Surveys = small.Surveys[:1]
	small.FishRecords = full.FishRecordsBySurvey(small.Surveys[0].ID)
	require.NoError(t, Seed(context.Background(), db, small))

	got := load(t, db)
	assert.Equal(t, 1, got.Info().Surveys)
	assert.Len(t, got.FishRecordsBySurvey(small.Surveys[0].ID), len(small.FishRecords))
	assert.Len(t, got.Waters(), 8)
}

func TestSQLite_EmptyTables(t *testing.T) {
	db := openSQLite(t)
	migrate(t, db)

	got := load(t, db)
	assert.Zero(t, got.Info().Surveys)
	assert.Empty(t, got.Info().Meta)
}

func TestSQLite_NullablesSurvive(t *testing.T) {
	want, err := catalog.Embedded()
	require.NoError(t, err)

	db := openSQLite(t)
	migrate(t, db)
	require.NoError(t, Seed(context.Background(), db, want.Snapshot()))
	got := load(t, db)

	yampa, ok := got.WaterByID("yampa")
	require.True(t, ok)
	require.Len(t, yampa.Stations, 1)
	assert.Nil(t, yampa.Stations[0].RiverMile)
	require.NotNil(t, yampa.Stations[0].Coord)

	blue, ok := got.WaterByID("blue-river")
	require.True(t, ok)
	assert.Nil(t, blue.Stations[0].Coord)

	for _, sv := range got.Surveys() {
		if sv.ID == "SV-2024-014" {
			assert.Nil(t, sv.CPUE)
		}
	}
}

func TestSeed_RejectsOrphanRecord(t *testing.T) {
	db := openSQLite(t)
	migrate(t, db)

	snap := catalog.Snapshot{
		Version: catalog.SchemaVersion,
		Surveys: nil,
	}
	cat, err := catalog.Embedded()
	require.NoError(t, err)
	snap.FishRecords = cat.FishRecordsBySurvey("SV-2025-001")[:1]

	err = Seed(context.Background(), db, snap)
	require.Error(t, err)
	assert.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(err))
}

func TestSnapshot_UnseededIsUnavailable(t *testing.T) {
	db := openSQLite(t)

	_, err := Snapshot(context.Background(), NewSQL().Bind(db))
	require.Error(t, err)
	assert.Equal(t, perr.ErrorCodeUnavailable, perr.CodeOf(err))
	assert.Contains(t, err.Error(), "catalog_meta")
}
