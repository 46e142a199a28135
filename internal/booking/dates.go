package booking

import (
    "fmt"
    "time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.Time.
// Time-of-day never participates in booking comparisons, so normalizing
// to midnight here keeps every later comparison a plain date comparison.
func ParseDate(s string) (time.Time, error) {
    t, err := time.Parse(DateLayout, s)
    if err != nil {
        return time.Time{}, fmt.Errorf("%w: invalid date %q (want YYYY-MM-DD)", ErrValidation, s)
    }
    return t.UTC(), nil
}

// Today returns the current UTC calendar day at midnight.
func Today() time.Time {
    return Midnight(time.Now().UTC())
}

// Midnight truncates a timestamp to its UTC calendar day.
func Midnight(t time.Time) time.Time {
    y, m, d := t.UTC().Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayCount returns the inclusive number of billed days between pickup and
// return.  Both boundary days count, so pickup == return is one day.
func DayCount(pickup, ret time.Time) int {
    return int(Midnight(ret).Sub(Midnight(pickup)).Hours()/24) + 1
}

// ValidateRange checks the date invariants for a new booking: the return
// date may not precede the pickup date, and the pickup day may not be in
// the past relative to today.
func ValidateRange(pickup, ret, today time.Time) error {
    if Midnight(ret).Before(Midnight(pickup)) {
        return fmt.Errorf("%w: return date precedes pickup date", ErrValidation)
    }
    if Midnight(pickup).Before(Midnight(today)) {
        return fmt.Errorf("%w: pickup date is in the past", ErrValidation)
    }
    return nil
}
