package device

// Kind classifies a block device by its role in the device topology.
type Kind int

const (
	Disk Kind = iota
	Partition
	LogicalVolume
	OpticalDrive
	LoopDevice
	Other
)

// String returns the lsblk-style type label for the kind.
func (k Kind) String() string {
	switch k {
	case Disk:
		return "disk"
	case Partition:
		return "part"
	case LogicalVolume:
		return "lvm"
	case OpticalDrive:
		return "rom"
	case LoopDevice:
		return "loop"
	default:
		return "other"
	}
}

// Precedence returns the sibling sort rank for the kind. Whole devices
// (disks, loops, optical drives) sort before partitions, partitions before
// logical volumes, everything else last.
func (k Kind) Precedence() int {
	switch k {
	case Disk, LoopDevice, OpticalDrive:
		return 0
	case Partition:
		return 1
	case LogicalVolume:
		return 2
	default:
		return 3
	}
}

// KindFromType maps an lsblk TYPE value to a Kind.
func KindFromType(t string) Kind {
	switch t {
	case "disk":
		return Disk
	case "part":
		return Partition
	case "lvm", "dm", "crypt":
		return LogicalVolume
	case "rom":
		return OpticalDrive
	case "loop":
		return LoopDevice
	default:
		return Other
	}
}

// ValidParent reports whether parent is an acceptable parent kind for k.
// Violations are flagged by the hierarchy builder, never corrected.
func (k Kind) ValidParent(parent Kind) bool {
	switch k {
	case Partition:
		return parent == Disk || parent == LoopDevice
	case Disk, OpticalDrive, LoopDevice:
		// Whole devices are expected at the top level, but stacked setups
		// (e.g. a disk exposed by a device-mapper layer) do occur.
		return true
	default:
		return true
	}
}

// Record is one block device's attributes as reported by the collector,
// plus a by-name reference to its parent device. Parent == "" marks a
// top-level device. Optional descriptive fields are empty strings when the
// source offers nothing.
type Record struct {
	Name       string  `json:"name"`
	Kind       Kind    `json:"-"`
	Type       string  `json:"type"`
	Parent     string  `json:"parent,omitempty"`
	SizeBytes  uint64  `json:"size_bytes"`
	UsedBytes  *uint64 `json:"used_bytes,omitempty"`
	Mountpoint string  `json:"mountpoint,omitempty"`
	FSType     string  `json:"fstype,omitempty"`
	Model      string  `json:"model,omitempty"`
	Label      string  `json:"label,omitempty"`
	Removable  bool    `json:"removable"`
	ReadOnly   bool    `json:"readonly"`
}

// Mounted reports whether the device currently carries a mountpoint.
func (r *Record) Mounted() bool {
	return r.Mountpoint != ""
}

// Display returns the descriptive string for the model column: the hardware
// model if known, otherwise the filesystem label.
func (r *Record) Display() string {
	if r.Model != "" {
		return r.Model
	}
	return r.Label
}
