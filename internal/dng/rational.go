package dng

import (
	"fmt"
	"strconv"
	"strings"
)

// URational is an unsigned EXIF rational.
type URational struct {
	N uint32
	D uint32
}

// AsReal64 converts r to a float. A zero denominator yields exactly 0.
func (r URational) AsReal64() float64 {
	if r.D == 0 {
		return 0
	}
	return float64(r.N) / float64(r.D)
}

func (r URational) IsValid() bool {
	return r.D != 0
}

func (r URational) String() string {
	return fmt.Sprintf("%d/%d", r.N, r.D)
}

// parseURational accepts XMP rational text ("28/10") or a plain integer.
func parseURational(s string) (URational, bool) {
	s = strings.TrimSpace(s)
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseUint(strings.TrimSpace(num), 10, 32)
	if err != nil {
		return URational{}, false
	}
	if !found {
		return URational{N: uint32(n), D: 1}, true
	}
	d, err := strconv.ParseUint(strings.TrimSpace(den), 10, 32)
	if err != nil {
		return URational{}, false
	}
	return URational{N: uint32(n), D: uint32(d)}, true
}
