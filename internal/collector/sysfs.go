package collector

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/blktree/blktree/internal/device"
)

const sectorSize = 512

// collectSysfs walks /sys/block directly. It sees the same devices as lsblk
// but without filesystem probing, so FSType stays empty on this path.
func collectSysfs() ([]device.Record, error) {
	entries, err := os.ReadDir("/sys/block")
	if err != nil {
		return nil, err
	}

	mounts := readMounts()

	var records []device.Record
	for _, entry := range entries {
		name := entry.Name()
		blockPath := filepath.Join("/sys/block", name)

		rec := device.Record{
			Name:      name,
			Kind:      sysfsKind(name),
			SizeBytes: readSectors(filepath.Join(blockPath, "size")),
			Removable: readFlag(filepath.Join(blockPath, "removable")),
			ReadOnly:  readFlag(filepath.Join(blockPath, "ro")),
			Model:     readAttr(filepath.Join(blockPath, "device", "model")),
			Parent:    readHolderParent(blockPath),
		}
		rec.Type = rec.Kind.String()
		if rec.Kind == device.LogicalVolume {
			rec.Label = readAttr(filepath.Join(blockPath, "dm", "name"))
		}
		rec.Mountpoint = mounts["/dev/"+name]
		records = append(records, rec)

		records = append(records, sysfsPartitions(blockPath, name, mounts)...)
	}
	return records, nil
}

// sysfsPartitions lists the partition subdirectories of one whole device.
func sysfsPartitions(blockPath, parent string, mounts map[string]string) []device.Record {
	entries, err := os.ReadDir(blockPath)
	if err != nil {
		return nil
	}
	var records []device.Record
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		partPath := filepath.Join(blockPath, name)
		if _, err := os.Stat(filepath.Join(partPath, "partition")); err != nil {
			continue
		}
		rec := device.Record{
			Name:       name,
			Kind:       device.Partition,
			Type:       "part",
			Parent:     parent,
			SizeBytes:  readSectors(filepath.Join(partPath, "size")),
			ReadOnly:   readFlag(filepath.Join(partPath, "ro")),
			Mountpoint: mounts["/dev/"+name],
		}
		records = append(records, rec)
	}
	return records
}

// sysfsKind classifies a whole device by its kernel name.
func sysfsKind(name string) device.Kind {
	switch {
	case strings.HasPrefix(name, "loop"):
		return device.LoopDevice
	case strings.HasPrefix(name, "dm-"):
		return device.LogicalVolume
	case strings.HasPrefix(name, "sr"):
		return device.OpticalDrive
	case strings.HasPrefix(name, "md"):
		return device.Other
	default:
		return device.Disk
	}
}

// readHolderParent resolves a stacked device's parent through its slaves
// directory. With several slaves the lexically first is reported; the rest
// are not representable in a tree.
func readHolderParent(blockPath string) string {
	entries, err := os.ReadDir(filepath.Join(blockPath, "slaves"))
	if err != nil || len(entries) == 0 {
		return ""
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names[0]
}

func readAttr(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func readSectors(path string) uint64 {
	v, err := strconv.ParseUint(readAttr(path), 10, 64)
	if err != nil {
		return 0
	}
	return v * sectorSize
}

func readFlag(path string) bool {
	return readAttr(path) == "1"
}

// readMounts maps device paths to their first mountpoint from /proc/mounts.
func readMounts() map[string]string {
	mounts := make(map[string]string)
	data, err := os.ReadFile("/proc/mounts")
	if err != nil {
		return mounts
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.HasPrefix(fields[0], "/dev/") {
			continue
		}
		if _, ok := mounts[fields[0]]; !ok {
			mounts[fields[0]] = unescapeMount(fields[1])
		}
	}
	return mounts
}

// unescapeMount decodes the octal escapes /proc/mounts uses for spaces and
// other special characters in mountpoints.
func unescapeMount(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
