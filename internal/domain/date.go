package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the canonical write format for dates (ISO-8601, day precision)
const DateFormat = "2006-01-02"

// readDateFormat is permissive and accepts single-digit months and days ("2024-1-5")
const readDateFormat = "2006-1-2"

// Date represents a calendar date with no time-of-day component
// Comparisons never depend on the local timezone
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date for the given year, month and day
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the calendar date of now in now's own location
func Today(now time.Time) Date {
	return NewDate(now.Date())
}

// ParseDate parses a date string such as "2024-01-10" (or the lenient "2024-1-10")
func ParseDate(str string) (Date, error) {
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want format %q: %w", str, DateFormat, err)
	}
	return NewDate(on.Date()), nil
}

// MustParseDate is like ParseDate but panics on error
func MustParseDate(str string) Date {
	d, err := ParseDate(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// time returns the canonical representation of the day (midnight UTC)
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) Year() int          { return d.y }
func (d Date) Month() time.Month  { return d.m }
func (d Date) Day() int           { return d.d }
func (d Date) IsZero() bool       { return d == Date{} }
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }
func (d Date) After(x Date) bool  { return d.time().After(x.time()) }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after x
func (d Date) Compare(x Date) int { return d.time().Compare(x.time()) }

// StartOfMonth returns the first day of d's month
func (d Date) StartOfMonth() Date { return NewDate(d.y, d.m, 1) }

// StartOfYear returns January 1 of d's year
func (d Date) StartOfYear() Date { return NewDate(d.y, time.January, 1) }

// String formats the date as YYYY-MM-DD. The zero Date formats as ""
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(DateFormat)
}

// MarshalJSON writes the date as a "YYYY-MM-DD" string
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON reads a "YYYY-MM-DD" string. An empty string yields the zero Date
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	if str == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var _ json.Marshaler = Date{}
var _ json.Unmarshaler = (*Date)(nil)
