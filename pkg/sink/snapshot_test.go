package sink

import (
	"path/filepath"
	"testing"
	"time"

	"tweetharvest/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parquetFiles(t *testing.T, dir string) []string {
	t.Helper()

	files, err := filepath.Glob(filepath.Join(dir, "*.parquet"))
	require.NoError(t, err)
	return files
}

func TestSnapshotCheckpointCadence(t *testing.T) {
	dir := t.TempDir()

	sink, err := NewSnapshot(dir, 10, false, logger.NewTestLogger())
	require.NoError(t, err)

	// 25 records with checkpoint 10: boundaries at 10 and 20
	for i := int64(1); i <= 25; i++ {
		require.NoError(t, sink.Write(testRecord(i)))
	}

	intermediate := sink.Snapshots()
	require.Len(t, intermediate, 2)

	// Each checkpoint re-serializes everything accumulated so far
	first, err := ReadSnapshot(intermediate[0])
	require.NoError(t, err)
	assert.Len(t, first, 10)

	second, err := ReadSnapshot(intermediate[1])
	require.NoError(t, err)
	assert.Len(t, second, 20)

	// Closing adds the final full snapshot even off-boundary
	require.NoError(t, sink.Close())

	all := sink.Snapshots()
	require.Len(t, all, 3)
	assert.Len(t, parquetFiles(t, dir), 3)

	final, err := ReadSnapshot(all[2])
	require.NoError(t, err)
	require.Len(t, final, 25)
	assert.Equal(t, int64(1), final[0].ID)
	assert.Equal(t, int64(25), final[24].ID)
}

func TestSnapshotFinalWriteOnAlignedCount(t *testing.T) {
	dir := t.TempDir()

	sink, err := NewSnapshot(dir, 10, false, logger.NewTestLogger())
	require.NoError(t, err)

	for i := int64(1); i <= 10; i++ {
		require.NoError(t, sink.Write(testRecord(i)))
	}
	require.NoError(t, sink.Close())

	// One checkpoint write plus the unconditional final write
	files := parquetFiles(t, dir)
	require.Len(t, files, 2)

	final, err := ReadSnapshot(sink.Snapshots()[1])
	require.NoError(t, err)
	assert.Len(t, final, 10)
}

func TestSnapshotOnlyFinalBelowCheckpoint(t *testing.T) {
	dir := t.TempDir()

	sink, err := NewSnapshot(dir, 50000, false, logger.NewTestLogger())
	require.NoError(t, err)

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, sink.Write(testRecord(i)))
	}
	assert.Empty(t, sink.Snapshots())

	require.NoError(t, sink.Close())

	files := parquetFiles(t, dir)
	require.Len(t, files, 1)

	records, err := ReadSnapshot(files[0])
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestSnapshotEmptyRunStillWritesFinal(t *testing.T) {
	dir := t.TempDir()

	sink, err := NewSnapshot(dir, 50000, false, logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	files := parquetFiles(t, dir)
	require.Len(t, files, 1)

	records, err := ReadSnapshot(files[0])
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSnapshotNamesNeverCollide(t *testing.T) {
	dir := t.TempDir()

	sink, err := NewSnapshot(dir, 1, false, logger.NewTestLogger())
	require.NoError(t, err)

	// Freeze the clock so every flush lands in the same second
	frozen := time.Date(2019, time.May, 28, 9, 21, 14, 0, time.UTC)
	sink.now = func() time.Time { return frozen }

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, sink.Write(testRecord(i)))
	}
	require.NoError(t, sink.Close())

	paths := sink.Snapshots()
	require.Len(t, paths, 4)

	seen := make(map[string]bool)
	for _, p := range paths {
		assert.False(t, seen[p], "snapshot path %s written twice", p)
		seen[p] = true
	}
	assert.Len(t, parquetFiles(t, dir), 4)
}

func TestSnapshotCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	sink, err := NewSnapshot(dir, 10, false, logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, sink.Write(testRecord(1)))

	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())

	assert.Len(t, parquetFiles(t, dir), 1)
}

func TestSnapshotExportCSV(t *testing.T) {
	dir := t.TempDir()

	sink, err := NewSnapshot(dir, 50000, true, logger.NewTestLogger())
	require.NoError(t, err)

	for i := int64(1); i <= 4; i++ {
		require.NoError(t, sink.Write(testRecord(i)))
	}
	require.NoError(t, sink.Close())

	require.NotEmpty(t, sink.CSVPath())

	rows := readCSVFile(t, sink.CSVPath())
	require.Len(t, rows, 5)
	assert.Equal(t, "1", rows[1][2])
	assert.Equal(t, "4", rows[4][2])
}

func TestSnapshotRoundTripPreservesRecords(t *testing.T) {
	dir := t.TempDir()

	sink, err := NewSnapshot(dir, 50000, false, logger.NewTestLogger())
	require.NoError(t, err)

	located := testRecord(1)
	bare := testRecord(2)
	bare.City = nil
	bare.Country = nil
	bare.IsRetweet = true

	require.NoError(t, sink.Write(located))
	require.NoError(t, sink.Write(bare))
	require.NoError(t, sink.Close())

	records, err := ReadSnapshot(sink.Snapshots()[0])
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, located, records[0])
	assert.Equal(t, bare, records[1])

	require.NotNil(t, records[0].City)
	assert.Equal(t, "Manhattan", *records[0].City)
	assert.Nil(t, records[1].City)
	assert.Nil(t, records[1].Country)
	assert.True(t, records[1].IsRetweet)
}
