// Package week defines the fixed set of day keys shared by the task and note stores.
package week

import (
	"fmt"
	"strings"
	"time"
)

// Day is one of the seven weekday abbreviations used as a store key.
type Day string

const (
	Mon Day = "Mon"
	Tue Day = "Tue"
	Wed Day = "Wed"
	Thu Day = "Thu"
	Fri Day = "Fri"
	Sat Day = "Sat"
	Sun Day = "Sun"
)

// Days lists the day keys in display order, Monday first.
var Days = []Day{Mon, Tue, Wed, Thu, Fri, Sat, Sun}

// Valid reports whether d is one of the seven day keys.
func (d Day) Valid() bool {
	return d.Index() >= 0
}

// Index returns the position of d in Days, or -1.
func (d Day) Index() int {
	for i, day := range Days {
		if day == d {
			return i
		}
	}
	return -1
}

// String returns the abbreviation.
func (d Day) String() string {
	return string(d)
}

// Parse accepts an abbreviation or a full weekday name in any case
// ("mon", "Monday", "TUE") and returns the matching Day.
func Parse(s string) (Day, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	if len(in) >= 3 {
		for _, d := range Days {
			full := strings.ToLower(fullName(d))
			if in == strings.ToLower(string(d)) || in == full {
				return d, nil
			}
		}
	}
	return "", fmt.Errorf("unknown day %q (want one of %s)", s, strings.Join(Names(), ", "))
}

// Names returns the day keys as plain strings.
func Names() []string {
	names := make([]string, len(Days))
	for i, d := range Days {
		names[i] = string(d)
	}
	return names
}

// Of returns the day key for t's weekday.
func Of(t time.Time) Day {
	// time.Weekday counts from Sunday.
	return Days[(int(t.Weekday())+6)%7]
}

// Today returns the day key for the local current date.
func Today() Day {
	return Of(time.Now())
}

// Next returns the day after d, wrapping Sunday to Monday.
func (d Day) Next() Day {
	i := d.Index()
	if i < 0 {
		return Mon
	}
	return Days[(i+1)%len(Days)]
}

// Prev returns the day before d, wrapping Monday to Sunday.
func (d Day) Prev() Day {
	i := d.Index()
	if i < 0 {
		return Sun
	}
	return Days[(i+len(Days)-1)%len(Days)]
}

func fullName(d Day) string {
	switch d {
	case Mon:
		return "Monday"
	case Tue:
		return "Tuesday"
	case Wed:
		return "Wednesday"
	case Thu:
		return "Thursday"
	case Fri:
		return "Friday"
	case Sat:
		return "Saturday"
	case Sun:
		return "Sunday"
	}
	return string(d)
}
