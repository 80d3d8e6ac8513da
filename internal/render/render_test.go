package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blktree/blktree/internal/device"
	"github.com/blktree/blktree/internal/hierarchy"
)

func rec(name string, kind device.Kind, parent string, size uint64, mount string) device.Record {
	return device.Record{
		Name:       name,
		Kind:       kind,
		Type:       kind.String(),
		Parent:     parent,
		SizeBytes:  size,
		Mountpoint: mount,
	}
}

func plains(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Plain()
	}
	return out
}

func TestRenderDiskWithMountedPartition(t *testing.T) {
	const gib256 = 256 << 30

	forest, warnings := hierarchy.Build([]device.Record{
		rec("sda", device.Disk, "", gib256, ""),
		rec("sda1", device.Partition, "sda", gib256, "/"),
	})
	require.Empty(t, warnings)

	lines := Render(forest, nil, Options{
		Columns: []Column{ColName, ColSize, ColMount},
		Header:  true,
	})

	assert.Equal(t, []string{
		"NAME      SIZE MOUNTPOINT",
		"sda     256.0G -",
		"└─ sda1 256.0G /",
	}, plains(lines))
}

func TestRenderBranchGlyphs(t *testing.T) {
	forest, _ := hierarchy.Build([]device.Record{
		rec("sda", device.Disk, "", 1024, ""),
		rec("sda1", device.Partition, "sda", 512, ""),
		rec("sda2", device.Partition, "sda", 512, ""),
		rec("vg-a", device.LogicalVolume, "sda1", 256, ""),
		rec("vg-b", device.LogicalVolume, "sda2", 256, ""),
	})

	lines := Render(forest, nil, Options{Columns: []Column{ColName}, Header: false})
	got := plains(lines)
	require.Len(t, got, 5)

	assert.Equal(t, "sda", got[0])
	assert.True(t, strings.HasPrefix(got[1], "├─ sda1"), "intermediate child gets a tee: %q", got[1])
	assert.True(t, strings.HasPrefix(got[2], "│  └─ vg-a"), "non-last ancestor continues the rail: %q", got[2])
	assert.True(t, strings.HasPrefix(got[3], "└─ sda2"), "last child gets an elbow: %q", got[3])
	assert.True(t, strings.HasPrefix(got[4], "   └─ vg-b"), "last ancestor leaves a blank rail: %q", got[4])
}

func TestRenderIndentDepth(t *testing.T) {
	forest, _ := hierarchy.Build([]device.Record{
		rec("sda", device.Disk, "", 0, ""),
		rec("sda1", device.Partition, "sda", 0, ""),
		rec("dm-0", device.LogicalVolume, "sda1", 0, ""),
	})

	var depths []int
	forest.Walk(func(n *hierarchy.Node, depth int) { depths = append(depths, depth) })
	assert.Equal(t, []int{0, 1, 2}, depths)

	lines := Render(forest, nil, Options{Columns: []Column{ColName}, Header: false})
	got := plains(lines)
	// Each level indents by exactly one three-rune step.
	assert.Equal(t, "sda", got[0])
	assert.Equal(t, "└─ sda1", got[1])
	assert.Equal(t, "   └─ dm-0", got[2])
}

func TestRenderColumnAlignment(t *testing.T) {
	forest, _ := hierarchy.Build([]device.Record{
		rec("a", device.Disk, "", 1, ""),
		rec("a-long-partition-name", device.Partition, "a", 123456789, "/mnt/data"),
		rec("b", device.Disk, "", 98765432100, ""),
	})

	// With a right-aligned size as the final column every line must end at
	// the same offset; that holds only if every field starts at the same
	// offset on every line.
	lines := Render(forest, nil, Options{Columns: []Column{ColName, ColSize}, Header: true})
	require.NotEmpty(t, lines)
	width := lines[0].Width()
	for i, l := range lines {
		assert.Equal(t, width, l.Width(), "line %d not aligned: %q", i, l.Plain())
	}
}

func TestRenderPlaceholders(t *testing.T) {
	forest, _ := hierarchy.Build([]device.Record{
		rec("sdz", device.Disk, "", 0, ""),
	})

	lines := Render(forest, nil, Options{
		Columns: []Column{ColName, ColUsed, ColFSType, ColMount, ColModel},
		Header:  false,
	})
	require.Len(t, lines, 1)
	assert.Equal(t, "sdz - - - -", lines[0].Plain())
}

func TestRenderWarningsFollowTree(t *testing.T) {
	forest, warnings := hierarchy.Build([]device.Record{
		rec("sda", device.Disk, "", 0, ""),
		rec("ghost1", device.Partition, "ghost", 0, ""),
	})
	require.Len(t, warnings, 1)

	lines := Render(forest, warnings, Options{Columns: []Column{ColName}, Header: false})
	require.Len(t, lines, 3)
	assert.False(t, lines[0].Warning)
	assert.False(t, lines[1].Warning)
	assert.True(t, lines[2].Warning)
	assert.True(t, strings.HasPrefix(lines[2].Plain(), "warning: "))
	assert.Contains(t, lines[2].Plain(), "ghost1")
}

func TestRenderEmptyForest(t *testing.T) {
	forest, warnings := hierarchy.Build(nil)
	require.Empty(t, warnings)

	lines := Render(forest, warnings, Options{Columns: []Column{ColName}, Header: false})
	assert.Empty(t, lines)
}

func TestRenderEveryNodeOnce(t *testing.T) {
	records := []device.Record{
		rec("sda", device.Disk, "", 1, ""),
		rec("sda1", device.Partition, "sda", 1, "/"),
		rec("sdb", device.Disk, "", 1, ""),
		rec("loop0", device.LoopDevice, "", 1, ""),
	}
	forest, _ := hierarchy.Build(records)

	lines := Render(forest, nil, Options{Columns: []Column{ColName}, Header: false})
	require.Len(t, lines, len(records))

	rendered := make(map[string]int)
	for _, l := range lines {
		name := strings.TrimLeft(l.Plain(), "│├└─ ")
		rendered[name]++
	}
	for _, r := range records {
		assert.Equal(t, 1, rendered[r.Name], "device %s", r.Name)
	}
}

func TestColumnByName(t *testing.T) {
	c, ok := ColumnByName("mountpoint")
	require.True(t, ok)
	assert.Equal(t, ColMount, c)

	_, ok = ColumnByName("bogus")
	assert.False(t, ok)
}
