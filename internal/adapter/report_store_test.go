package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

func newFixedStore(ids ...string) *LocalReportStore {
	store := NewLocalReportStore()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	calls := 0

	store.now = func() time.Time {
		return base.Add(time.Duration(calls) * time.Minute)
	}
	store.newID = func() string {
		id := ids[calls]
		calls++

		return id
	}

	return store
}

func sampleReport() m.Report {
	return m.Report{
		Threshold:       10,
		TopN:            20,
		ComplexityCount: 1,
		TopComplexity: []m.ComplexityEntry{
			{Scope: "parse", Score: 14, File: "src/lib.rs", StartLine: 3, EndLine: 40, Classification: m.ClassProduction},
		},
		FileTotals: map[m.Path]m.FileTotal{
			"src/lib.rs": {ComplexityTotal: 14, ComplexityCount: 1},
		},
		Findings: []m.Finding{
			{File: "src/lib.rs", Kind: m.KindComplexity, Scope: "parse", Line: 3, EndLine: 40, Value: 14, Classification: m.ClassProduction},
		},
	}
}

func TestLocalReportStore_SaveAndLoad(t *testing.T) {
	dir := m.Path(filepath.Join(t.TempDir(), "reports"))
	store := newFixedStore("first")

	saved, err := store.SaveSnapshot(dir, []m.Path{"./..."}, sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "first", saved.ID)

	t.Run("by id", func(t *testing.T) {
		loaded, err := store.LoadSnapshot(dir, "first")
		require.NoError(t, err)
		assert.Equal(t, saved, loaded)
	})

	t.Run("latest", func(t *testing.T) {
		loaded, err := store.LoadSnapshot(dir, "")
		require.NoError(t, err)
		assert.Equal(t, "first", loaded.ID)
		assert.Equal(t, sampleReport(), loaded.Report)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := store.LoadSnapshot(dir, "nope")
		require.ErrorIs(t, err, ErrSnapshotNotFound)
	})

	t.Run("path traversal is rejected", func(t *testing.T) {
		_, err := store.LoadSnapshot(dir, "../secret")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrSnapshotNotFound)
	})
}

func TestLocalReportStore_LatestFollowsNewestSave(t *testing.T) {
	dir := m.Path(t.TempDir())
	store := newFixedStore("a", "b")

	_, err := store.SaveSnapshot(dir, nil, sampleReport())
	require.NoError(t, err)

	_, err = store.SaveSnapshot(dir, nil, m.Report{Threshold: 3})
	require.NoError(t, err)

	latest, err := store.LoadSnapshot(dir, LatestSnapshotID)
	require.NoError(t, err)
	assert.Equal(t, "b", latest.ID)
	assert.Equal(t, 3, latest.Report.Threshold)
}

func TestLocalReportStore_ListSnapshots(t *testing.T) {
	t.Run("newest first without latest", func(t *testing.T) {
		dir := m.Path(t.TempDir())
		store := newFixedStore("a", "b", "c")

		for range 3 {
			_, err := store.SaveSnapshot(dir, nil, sampleReport())
			require.NoError(t, err)
		}

		// Unrelated files are ignored.
		require.NoError(t, os.WriteFile(filepath.Join(string(dir), "notes.txt"), []byte("x"), 0o644))

		snapshots, err := store.ListSnapshots(dir)
		require.NoError(t, err)
		require.Len(t, snapshots, 3)
		assert.Equal(t, "c", snapshots[0].ID)
		assert.Equal(t, "b", snapshots[1].ID)
		assert.Equal(t, "a", snapshots[2].ID)
	})

	t.Run("missing directory is empty", func(t *testing.T) {
		snapshots, err := NewLocalReportStore().ListSnapshots(m.Path(filepath.Join(t.TempDir(), "missing")))
		require.NoError(t, err)
		assert.Empty(t, snapshots)
	})
}

func TestLocalReportStore_GeneratesUUIDs(t *testing.T) {
	dir := m.Path(t.TempDir())
	store := NewLocalReportStore()

	first, err := store.SaveSnapshot(dir, nil, m.Report{})
	require.NoError(t, err)

	second, err := store.SaveSnapshot(dir, nil, m.Report{})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, first.ID, 36)
}
