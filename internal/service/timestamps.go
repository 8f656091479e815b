package service

import (
	"fmt"
	"strings"
	"time"
)

// istZone is India Standard Time, a fixed UTC+5:30 offset.
var istZone = time.FixedZone("IST", 5*3600+1800)

// timestampLayouts are the wire formats the row store is known to emit for
// timestamptz columns.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp converts a stored timestamp value into a time.Time. It accepts
// either a structured timestamp or an ISO-8601 string; "Z" is a valid UTC
// designator. Anything else is a data-integrity fault from the persistence layer.
func ParseTimestamp(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timestampLayouts {
			// Layouts without an offset parse as UTC, which is how the row
			// store stores these columns.
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("invalid timestamp format returned by database: %q", v)
	default:
		return time.Time{}, fmt.Errorf("invalid timestamp format returned by database: %T", value)
	}
}

// ISTTimes is the fixed set of display projections derived from one instant.
type ISTTimes struct {
	Full  string // 2006-01-02 03:04 PM IST
	Day   string // Saturday
	Date  string // 16 Mar 2024
	Clock string // 03:04 PM IST
}

// ISTProjection converts t to IST and renders the display strings. The input
// instant is not mutated; callers keep the UTC value alongside.
func ISTProjection(t time.Time) ISTTimes {
	ist := t.In(istZone)
	return ISTTimes{
		Full:  ist.Format("2006-01-02 03:04 PM") + " IST",
		Day:   ist.Format("Monday"),
		Date:  ist.Format("02 Jan 2006"),
		Clock: ist.Format("03:04 PM") + " IST",
	}
}
