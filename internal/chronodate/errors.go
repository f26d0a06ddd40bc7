package chronodate

import (
	"errors"
	"fmt"
)

// Kind classifies why a date string was rejected.
type Kind string

const (
	KindInvalidDateFormat Kind = "InvalidDateFormat"
	KindInvalidMonth      Kind = "InvalidMonth"
	KindInvalidDay        Kind = "InvalidDay"
	KindInvalidHour       Kind = "InvalidHour"
	KindInvalidMinute     Kind = "InvalidMinute"
	KindInvalidSecond     Kind = "InvalidSecond"
	KindInvalidDate       Kind = "InvalidDate"
)

// Sentinels for errors.Is. A *Error matches the sentinel of its Kind.
var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidDay        = errors.New("invalid day")
	ErrInvalidHour       = errors.New("invalid hour")
	ErrInvalidMinute     = errors.New("invalid minute")
	ErrInvalidSecond     = errors.New("invalid second")
	ErrInvalidDate       = errors.New("invalid date")
)

var sentinelByKind = map[Kind]error{
	KindInvalidDateFormat: ErrInvalidDateFormat,
	KindInvalidMonth:      ErrInvalidMonth,
	KindInvalidDay:        ErrInvalidDay,
	KindInvalidHour:       ErrInvalidHour,
	KindInvalidMinute:     ErrInvalidMinute,
	KindInvalidSecond:     ErrInvalidSecond,
	KindInvalidDate:       ErrInvalidDate,
}

// Error is returned by Normalize for every rejected input.
type Error struct {
	Kind  Kind
	Input string
	// Field holds the offending component text (e.g. "13" for a bad month).
	Field string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case KindInvalidDateFormat:
		return fmt.Sprintf("invalid date format: %q", e.Input)
	case KindInvalidMonth:
		return fmt.Sprintf("invalid month: %s. Must be between 01-12", e.Field)
	case KindInvalidDay:
		return fmt.Sprintf("invalid day: %s. Must be between 01-31", e.Field)
	case KindInvalidHour:
		return fmt.Sprintf("invalid hour: %s. Must be between 00-23", e.Field)
	case KindInvalidMinute:
		return fmt.Sprintf("invalid minute: %s. Must be between 00-59", e.Field)
	case KindInvalidSecond:
		return fmt.Sprintf("invalid second: %s. Must be between 00-59", e.Field)
	case KindInvalidDate:
		return fmt.Sprintf("invalid date: %s. Make sure you have correct month, day, etc.", e.Field)
	default:
		return fmt.Sprintf("invalid date %q", e.Input)
	}
}

// Is lets errors.Is(err, ErrInvalidMonth) match a *Error of that kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	return sentinelByKind[e.Kind] == target
}

// IsKind reports whether err is (or wraps) a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}
