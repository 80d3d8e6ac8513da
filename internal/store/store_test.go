package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blktree/blktree/internal/device"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRecords() []device.Record {
	used := uint64(1 << 30)
	return []device.Record{
		{
			Name: "sda", Kind: device.Disk, Type: "disk",
			SizeBytes: 500107862016, Model: "Samsung SSD 870",
		},
		{
			Name: "sda1", Kind: device.Partition, Type: "part", Parent: "sda",
			SizeBytes: 499569270784, UsedBytes: &used,
			Mountpoint: "/", FSType: "ext4", Label: "root",
		},
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	db := testDB(t)

	id, err := db.SaveSnapshot(sampleRecords())
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	records, err := db.LoadSnapshot(id)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "sda", records[0].Name)
	assert.Equal(t, device.Disk, records[0].Kind)
	assert.Equal(t, uint64(500107862016), records[0].SizeBytes)
	assert.Nil(t, records[0].UsedBytes)

	assert.Equal(t, "sda", records[1].Parent)
	assert.Equal(t, "ext4", records[1].FSType)
	require.NotNil(t, records[1].UsedBytes)
	assert.Equal(t, uint64(1<<30), *records[1].UsedBytes)
}

func TestLoadSnapshotMissing(t *testing.T) {
	db := testDB(t)
	_, err := db.LoadSnapshot(99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListSnapshots(t *testing.T) {
	db := testDB(t)

	first, err := db.SaveSnapshot(sampleRecords())
	require.NoError(t, err)
	second, err := db.SaveSnapshot(sampleRecords()[:1])
	require.NoError(t, err)

	snaps, err := db.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	// Newest first.
	assert.Equal(t, second, snaps[0].ID)
	assert.Equal(t, 1, snaps[0].Devices)
	assert.Equal(t, first, snaps[1].ID)
	assert.Equal(t, 2, snaps[1].Devices)
}

func TestLatestIDs(t *testing.T) {
	db := testDB(t)
	var want []int64
	for i := 0; i < 3; i++ {
		id, err := db.SaveSnapshot(sampleRecords())
		require.NoError(t, err)
		want = append(want, id)
	}

	ids, err := db.LatestIDs(2)
	require.NoError(t, err)
	assert.Equal(t, want[1:], ids, "chronological order")
}

func TestDiff(t *testing.T) {
	before := sampleRecords()
	after := sampleRecords()
	after[1].SizeBytes += 4096
	after[1].Mountpoint = "/mnt"
	after = append(after, device.Record{Name: "sdb", Type: "disk", SizeBytes: 1024})
	after = after[1:] // drop sda

	changes := Diff(before, after)
	require.Len(t, changes, 4)

	assert.Equal(t, ChangeRemoved, changes[0].Kind)
	assert.Equal(t, "sda", changes[0].Name)
	assert.Equal(t, ChangeResized, changes[1].Kind)
	assert.Equal(t, "sda1", changes[1].Name)
	assert.Equal(t, ChangeRemounted, changes[2].Kind)
	assert.Equal(t, "sda1", changes[2].Name)
	assert.Equal(t, ChangeAdded, changes[3].Kind)
	assert.Equal(t, "sdb", changes[3].Name)
}

func TestDiffIdentical(t *testing.T) {
	assert.Empty(t, Diff(sampleRecords(), sampleRecords()))
}
