package hierarchy

import "fmt"

// WarningKind identifies the class of structural anomaly found while
// building the hierarchy.
type WarningKind int

const (
	WarnDuplicate WarningKind = iota
	WarnOrphan
	WarnCycle
	WarnKindMismatch
)

// Warning records one structural anomaly. Warnings never abort the build;
// they are surfaced alongside the forest as advisory output.
type Warning struct {
	Kind   WarningKind
	Device string
	Detail string
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnDuplicate:
		return fmt.Sprintf("duplicate device name %q, later record dropped", w.Device)
	case WarnOrphan:
		return fmt.Sprintf("device %q references missing parent %s, showing as top-level", w.Device, w.Detail)
	case WarnCycle:
		return fmt.Sprintf("parent cycle through %q broken (%s)", w.Device, w.Detail)
	case WarnKindMismatch:
		return fmt.Sprintf("device %q has unexpected parent kind (%s)", w.Device, w.Detail)
	default:
		return fmt.Sprintf("device %q: %s", w.Device, w.Detail)
	}
}
