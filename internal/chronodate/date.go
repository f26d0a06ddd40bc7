// Package chronodate normalizes partial ISO-8601 date strings into
// canonical UTC instants.
//
// A Date can only be obtained through Normalize (or by decoding text, which
// calls Normalize), so every Date in the program is fully specified and
// calendar-valid. All arithmetic happens in UTC; the local zone is never
// consulted.
package chronodate

import (
	"fmt"
	"time"
)

// Date is a canonical, second-precision UTC instant. The zero value is not
// a valid date; use IsZero to detect it. Year 1 is a valid date even though
// its instant equals the zero time.Time.
type Date struct {
	t     time.Time
	valid bool
}

// Time returns the instant as a time.Time in UTC.
func (d Date) Time() time.Time { return d.t }

func (d Date) Year() int          { return d.t.Year() }
func (d Date) Month() time.Month  { return d.t.Month() }
func (d Date) Day() int           { return d.t.Day() }
func (d Date) Hour() int          { return d.t.Hour() }
func (d Date) Minute() int        { return d.t.Minute() }
func (d Date) Second() int        { return d.t.Second() }
func (d Date) IsZero() bool       { return !d.valid }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

// IsYearStart reports whether d is exactly midnight on January 1.
func (d Date) IsYearStart() bool {
	return d.Month() == time.January && d.Day() == 1 &&
		d.Hour() == 0 && d.Minute() == 0 && d.Second() == 0
}

// SameDay reports whether d and o share year, month and day.
func (d Date) SameDay(o Date) bool {
	return d.SameMonth(o) && d.Day() == o.Day()
}

// SameMonth reports whether d and o share year and month.
func (d Date) SameMonth(o Date) bool {
	return d.Year() == o.Year() && d.Month() == o.Month()
}

// String renders the canonical form, e.g. "2020-01-01T00:00:00Z" or
// "-0044-03-15T00:00:00Z". The year magnitude is zero-padded to 4 digits.
func (d Date) String() string {
	return FormatYear(d.Year()) + fmt.Sprintf("-%02d-%02dT%02d:%02d:%02dZ",
		int(d.Month()), d.Day(), d.Hour(), d.Minute(), d.Second())
}

// FormatYear renders a signed year with a 4-digit zero-padded magnitude.
func FormatYear(y int) string {
	if y < 0 {
		return fmt.Sprintf("-%04d", -y)
	}
	return fmt.Sprintf("%04d", y)
}

func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

// UnmarshalText accepts any partial date Normalize accepts.
func (d *Date) UnmarshalText(b []byte) error {
	nd, err := Normalize(string(b))
	if err != nil {
		return err
	}
	*d = nd
	return nil
}
