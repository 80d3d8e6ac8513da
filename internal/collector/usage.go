package collector

import (
	"golang.org/x/sys/unix"

	"github.com/blktree/blktree/internal/device"
)

// fillUsage stats every mounted filesystem in the snapshot and records the
// bytes in use. Failures leave UsedBytes nil; the renderer shows a
// placeholder for those.
func fillUsage(records []device.Record) {
	for i := range records {
		r := &records[i]
		if r.Mountpoint == "" {
			continue
		}
		var st unix.Statfs_t
		if err := unix.Statfs(r.Mountpoint, &st); err != nil {
			continue
		}
		total := st.Blocks * uint64(st.Bsize)
		free := st.Bfree * uint64(st.Bsize)
		if free > total {
			continue
		}
		used := total - free
		r.UsedBytes = &used
	}
}
