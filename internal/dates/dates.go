package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Serial numbers outside this range are not representable spreadsheet dates.
// The upper bound corresponds to 9999-12-31.
const (
	minSerial = 1
	maxSerial = 2958465
)

var (
	// ErrSerialOutOfRange reports a numeric value outside the valid
	// spreadsheet serial range [1, 2958465].
	ErrSerialOutOfRange = errors.New("spreadsheet serial out of range")
	// ErrMalformedDate reports a text value that does not parse as a
	// zero-padded MMDDYYYY calendar date.
	ErrMalformedDate = errors.New("malformed date")
	// ErrUnsupportedType reports a raw value of a type no roster source
	// is expected to produce.
	ErrUnsupportedType = errors.New("unsupported date type")
)

// serialEpoch is the spreadsheet day-zero, December 30, 1899.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Normalize converts a raw roster date value into a calendar date at UTC
// midnight. It accepts native time values, spreadsheet serial numbers, and
// zero-padded MMDDYYYY strings; everything else is rejected with one of the
// exported sentinel errors. Normalize is pure and never mutates its input.
func Normalize(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return DateOnly(v), nil
	case float64:
		return fromSerial(v)
	case float32:
		return fromSerial(float64(v))
	case int:
		return fromSerial(float64(v))
	case int32:
		return fromSerial(float64(v))
	case int64:
		return fromSerial(float64(v))
	case string:
		return fromString(v)
	default:
		return time.Time{}, fmt.Errorf("%w: %T", ErrUnsupportedType, value)
	}
}

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	year, month, day := u.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func fromSerial(serial float64) (time.Time, error) {
	if serial < minSerial || serial > maxSerial {
		return time.Time{}, fmt.Errorf("%w: %v", ErrSerialOutOfRange, serial)
	}
	// Fractional serials carry a time-of-day component; it is dropped by
	// the final truncation.
	converted := serialEpoch.Add(time.Duration(serial * float64(24*time.Hour)))
	return DateOnly(converted), nil
}

func fromString(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrMalformedDate)
	}
	padded := trimmed
	if len(padded) < 8 {
		padded = strings.Repeat("0", 8-len(padded)) + padded
	}
	if len(padded) != 8 {
		return time.Time{}, fmt.Errorf("%w: %q is not an 8-digit MMDDYYYY value", ErrMalformedDate, value)
	}
	parsed, err := time.ParseInLocation("01022006", padded, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, value)
	}
	return DateOnly(parsed), nil
}
