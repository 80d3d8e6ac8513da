package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindFromType(t *testing.T) {
	cases := map[string]Kind{
		"disk":  Disk,
		"part":  Partition,
		"lvm":   LogicalVolume,
		"crypt": LogicalVolume,
		"rom":   OpticalDrive,
		"loop":  LoopDevice,
		"raid1": Other,
		"":      Other,
	}
	for in, want := range cases {
		assert.Equal(t, want, KindFromType(in), "type %q", in)
	}
}

func TestKindPrecedence(t *testing.T) {
	// Whole devices before partitions before logical volumes before the rest.
	assert.Less(t, Disk.Precedence(), Partition.Precedence())
	assert.Less(t, Partition.Precedence(), LogicalVolume.Precedence())
	assert.Less(t, LogicalVolume.Precedence(), Other.Precedence())
	assert.Equal(t, Disk.Precedence(), LoopDevice.Precedence())
	assert.Equal(t, Disk.Precedence(), OpticalDrive.Precedence())
}

func TestValidParent(t *testing.T) {
	assert.True(t, Partition.ValidParent(Disk))
	assert.True(t, Partition.ValidParent(LoopDevice))
	assert.False(t, Partition.ValidParent(Partition))
	assert.False(t, Partition.ValidParent(LogicalVolume))
	assert.True(t, LogicalVolume.ValidParent(Partition))
}

func TestRecordDisplay(t *testing.T) {
	r := Record{Model: "Samsung SSD 870", Label: "root"}
	assert.Equal(t, "Samsung SSD 870", r.Display())

	r.Model = ""
	assert.Equal(t, "root", r.Display())

	r.Label = ""
	assert.Equal(t, "", r.Display())
}

func TestRecordMounted(t *testing.T) {
	assert.False(t, (&Record{}).Mounted())
	assert.True(t, (&Record{Mountpoint: "/"}).Mounted())
}
