package dng

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const exifDateLayout = "2006:01:02 15:04:05"

// DateTimeInfo is an EXIF timestamp with its optional subsecond and
// time zone companions (SubSecTime*, OffsetTime*).
type DateTimeInfo struct {
	valid      bool
	dateTime   time.Time
	subseconds string
	zoneValid  bool
	zoneMin    int
}

// ParseEXIFDateTime parses "YYYY:MM:DD hh:mm:ss". Blank or zeroed values,
// which cameras write for unknown dates, are reported as invalid.
func ParseEXIFDateTime(s string) DateTimeInfo {
	s = strings.TrimRight(strings.TrimSpace(s), "\x00")
	if s == "" || strings.HasPrefix(s, "0000") {
		return DateTimeInfo{}
	}
	t, err := time.Parse(exifDateLayout, s)
	if err != nil {
		return DateTimeInfo{}
	}
	return DateTimeInfo{valid: true, dateTime: t}
}

// ParseISO8601 parses XMP dates: a date, optionally followed by a time with
// optional fractional seconds and zone designator.
func ParseISO8601(s string) DateTimeInfo {
	s = strings.TrimSpace(s)
	if s == "" {
		return DateTimeInfo{}
	}

	var d DateTimeInfo
	body := s
	if i := strings.IndexAny(s, "Zz"); i > 0 {
		body = s[:i]
		d.zoneValid = true
	} else if i := strings.LastIndexAny(s, "+-"); i > len("2006-01-02") {
		body = s[:i]
		if !d.SetOffset(s[i:]) {
			return DateTimeInfo{}
		}
	}

	if dot := strings.IndexByte(body, '.'); dot > 0 {
		d.subseconds = body[dot+1:]
		body = body[:dot]
	}

	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, body); err == nil {
			d.valid = true
			d.dateTime = t
			return d
		}
	}
	return DateTimeInfo{}
}

// SetSubseconds records an EXIF SubSecTime value (digits only).
func (d *DateTimeInfo) SetSubseconds(s string) {
	s = strings.TrimRight(strings.TrimSpace(s), "\x00 ")
	for _, c := range s {
		if c < '0' || c > '9' {
			return
		}
	}
	d.subseconds = s
}

// SetOffset records an EXIF OffsetTime value such as "+09:00".
func (d *DateTimeInfo) SetOffset(s string) bool {
	s = strings.TrimRight(strings.TrimSpace(s), "\x00")
	if len(s) != len("+09:00") || s[3] != ':' || (s[0] != '+' && s[0] != '-') {
		return false
	}
	hh, err := strconv.Atoi(s[1:3])
	if err != nil || hh > 15 {
		return false
	}
	mm, err := strconv.Atoi(s[4:6])
	if err != nil || mm > 59 {
		return false
	}
	d.zoneValid = true
	d.zoneMin = hh*60 + mm
	if s[0] == '-' {
		d.zoneMin = -d.zoneMin
	}
	return true
}

func (d DateTimeInfo) IsValid() bool {
	return d.valid
}

// Time returns the timestamp in its recorded zone, or as a floating local
// time in UTC when no zone was recorded.
func (d DateTimeInfo) Time() time.Time {
	if !d.zoneValid {
		return d.dateTime
	}
	t := d.dateTime
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0,
		time.FixedZone("", d.zoneMin*60))
}

// EncodeISO8601 renders "YYYY-MM-DDThh:mm:ss[.sss][Z|±hh:mm]", or "" when invalid.
func (d DateTimeInfo) EncodeISO8601() string {
	if !d.valid {
		return ""
	}
	var b strings.Builder
	b.WriteString(d.dateTime.Format("2006-01-02T15:04:05"))
	if d.subseconds != "" {
		b.WriteByte('.')
		b.WriteString(d.subseconds)
	}
	if d.zoneValid {
		switch {
		case d.zoneMin == 0:
			b.WriteByte('Z')
		case d.zoneMin < 0:
			fmt.Fprintf(&b, "-%02d:%02d", -d.zoneMin/60, -d.zoneMin%60)
		default:
			fmt.Fprintf(&b, "+%02d:%02d", d.zoneMin/60, d.zoneMin%60)
		}
	}
	return b.String()
}
