package render

import (
	"fmt"
	"strconv"
)

var sizeUnits = [...]string{"B", "K", "M", "G", "T", "P"}

// FormatSize renders a byte count using the largest base-1024 unit that
// keeps the magnitude in [1, 1024), rounded to one decimal place. Byte-unit
// values are whole numbers and carry no decimal; zero renders as "0B".
func FormatSize(b uint64) string {
	if b < 1024 {
		return strconv.FormatUint(b, 10) + "B"
	}
	v := float64(b)
	unit := 0
	for v >= 1024 && unit < len(sizeUnits)-1 {
		v /= 1024
		unit++
	}
	// Rounding can push a value like 1023.97 back over the unit boundary.
	if v+0.05 >= 1024 && unit < len(sizeUnits)-1 {
		v /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f%s", v, sizeUnits[unit])
}
