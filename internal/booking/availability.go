package booking

import (
    "time"

    "github.com/driveease/car-rental-api/internal/model"
)

// Overlaps reports whether two inclusive day ranges share at least one
// calendar day.  Boundaries are inclusive on both ends: a return on day N
// and a pickup on day N conflict.  This enforces a full turnaround day
// between consecutive rentals of the same car.
func Overlaps(aPickup, aReturn, bPickup, bReturn time.Time) bool {
    return !Midnight(aPickup).After(Midnight(bReturn)) &&
        !Midnight(aReturn).Before(Midnight(bPickup))
}

// Stay is the minimal view of an existing booking the availability check
// needs.  The repository layer builds these from booking rows; tests
// build them directly.
type Stay struct {
    BookingID uint64
    Pickup    time.Time
    Return    time.Time
    Status    model.BookingStatus
}

// FindConflict scans a car's stays for one that overlaps the candidate
// range.  Cancelled stays never conflict; excludeID skips one booking
// (used when re-validating an existing booking against its siblings).
// It returns the conflicting booking's ID and true when a conflict
// exists.  The scan is read-only: pairing it with a subsequent insert is
// not atomic unless the caller serializes the two steps.
func FindConflict(stays []Stay, pickup, ret time.Time, excludeID uint64) (uint64, bool) {
    for _, s := range stays {
        if s.Status == model.BookingCancelled {
            continue
        }
        if excludeID != 0 && s.BookingID == excludeID {
            continue
        }
        if Overlaps(pickup, ret, s.Pickup, s.Return) {
            return s.BookingID, true
        }
    }
    return 0, false
}
