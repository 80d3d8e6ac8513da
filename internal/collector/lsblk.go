package collector

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/blktree/blktree/internal/device"
)

// Fixed, allowlisted column set. PKNAME carries the parent reference, so
// --list gives us the flat record shape directly instead of nested children.
var lsblkArgs = []string{
	"--bytes", "--json", "--list", "-o",
	"NAME,PKNAME,TYPE,SIZE,FSTYPE,MOUNTPOINT,LABEL,MODEL,RM,RO",
}

func collectLsblk() ([]device.Record, error) {
	if _, err := exec.LookPath("lsblk"); err != nil {
		return nil, err
	}
	out, err := exec.Command("lsblk", lsblkArgs...).Output()
	if err != nil {
		return nil, fmt.Errorf("lsblk: %w", err)
	}
	return parseLsblk(out)
}

// Older util-linux emits sizes and booleans as strings ("0"/"1"), newer
// releases emit native JSON numbers and booleans. These wrappers accept
// either.
type flexUint struct{ v uint64 }

func (f *flexUint) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	f.v = v
	return nil
}

type flexBool struct{ v bool }

func (f *flexBool) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "1", "true":
		f.v = true
	}
	return nil
}

func parseLsblk(out []byte) ([]device.Record, error) {
	var result struct {
		Blockdevices []struct {
			Name       string   `json:"name"`
			PKName     *string  `json:"pkname"`
			Type       string   `json:"type"`
			Size       flexUint `json:"size"`
			FSType     *string  `json:"fstype"`
			Mountpoint *string  `json:"mountpoint"`
			Label      *string  `json:"label"`
			Model      *string  `json:"model"`
			RM         flexBool `json:"rm"`
			RO         flexBool `json:"ro"`
		} `json:"blockdevices"`
	}
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, fmt.Errorf("parsing lsblk output: %w", err)
	}

	records := make([]device.Record, 0, len(result.Blockdevices))
	for _, bd := range result.Blockdevices {
		r := device.Record{
			Name:       bd.Name,
			Kind:       device.KindFromType(bd.Type),
			Type:       bd.Type,
			Parent:     deref(bd.PKName),
			SizeBytes:  bd.Size.v,
			FSType:     deref(bd.FSType),
			Mountpoint: deref(bd.Mountpoint),
			Label:      deref(bd.Label),
			Model:      deref(bd.Model),
			Removable:  bd.RM.v,
			ReadOnly:   bd.RO.v,
		}
		records = append(records, r)
	}
	return records, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
