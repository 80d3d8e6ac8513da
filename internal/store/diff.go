package store

import (
	"sort"

	"github.com/blktree/blktree/internal/device"
)

// ChangeKind classifies one difference between two snapshots.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeRemoved
	ChangeResized
	ChangeRemounted
)

// Change is one per-device difference between two snapshots.
type Change struct {
	Kind   ChangeKind
	Name   string
	Before *device.Record
	After  *device.Record
}

// Diff compares two record sets by device name and reports added, removed,
// resized and remounted devices, ordered by name.
func Diff(before, after []device.Record) []Change {
	old := make(map[string]*device.Record, len(before))
	for i := range before {
		old[before[i].Name] = &before[i]
	}

	var changes []Change
	seen := make(map[string]bool, len(after))
	for i := range after {
		r := &after[i]
		seen[r.Name] = true
		prev, ok := old[r.Name]
		if !ok {
			changes = append(changes, Change{Kind: ChangeAdded, Name: r.Name, After: r})
			continue
		}
		if prev.SizeBytes != r.SizeBytes {
			changes = append(changes, Change{Kind: ChangeResized, Name: r.Name, Before: prev, After: r})
		}
		if prev.Mountpoint != r.Mountpoint {
			changes = append(changes, Change{Kind: ChangeRemounted, Name: r.Name, Before: prev, After: r})
		}
	}
	for i := range before {
		r := &before[i]
		if !seen[r.Name] {
			changes = append(changes, Change{Kind: ChangeRemoved, Name: r.Name, Before: r})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Name != changes[j].Name {
			return changes[i].Name < changes[j].Name
		}
		return changes[i].Kind < changes[j].Kind
	})
	return changes
}
