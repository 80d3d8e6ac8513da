// Package collector obtains one flat snapshot of the block devices visible
// to the host. It prefers lsblk's JSON output and falls back to walking
// sysfs directly when lsblk is unavailable.
package collector

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/blktree/blktree/internal/device"
)

// CollectionError reports that the device topology could not be read at
// all. It is the only fatal error class in the pipeline.
type CollectionError struct {
	Source string
	Err    error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("collecting block devices from %s: %v", e.Source, e.Err)
}

func (e *CollectionError) Unwrap() error { return e.Err }

// Collector produces the full flat set of device records currently visible.
// No record ordering is guaranteed; parents may appear after children.
type Collector interface {
	Collect() ([]device.Record, error)
}

// New returns the collector for this host.
func New() Collector {
	return &system{}
}

type system struct{}

func (s *system) Collect() ([]device.Record, error) {
	records, err := collectLsblk()
	if err != nil {
		log.Debug().Err(err).Msg("lsblk unavailable, falling back to sysfs")
		records, err = collectSysfs()
		if err != nil {
			return nil, &CollectionError{Source: "sysfs", Err: err}
		}
	}
	fillUsage(records)
	log.Debug().Int("devices", len(records)).Msg("collected block device snapshot")
	return records, nil
}
