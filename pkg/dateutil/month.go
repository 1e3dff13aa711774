// Package dateutil provides calendar-month selection in Japan Standard Time.
// Both remote services report day-precision dates in JST, and a sync run
// always covers whole calendar months.
package dateutil

import (
	"fmt"
	"time"
)

// JST is the time zone every record date is interpreted in.
var JST = loadJST()

func loadJST() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		// Fallback for hosts without tzdata; JST has had a fixed +9
		// offset for the whole range of dates handled here.
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// Month identifies one calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// CurrentMonth returns the month containing the current JST date.
func CurrentMonth() Month {
	now := time.Now().In(JST)
	return Month{Year: now.Year(), Month: now.Month()}
}

// Previous returns the immediately preceding month, rolling the year back
// from January.
func (m Month) Previous() Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// Date returns the given day of the month at midnight JST.
func (m Month) Date(day int) time.Time {
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, JST)
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// FormatJP formats the month the way the co-op portal's download form
// expects it, e.g. 2022年07月.
func (m Month) FormatJP() string {
	return fmt.Sprintf("%04d年%02d月", m.Year, int(m.Month))
}
