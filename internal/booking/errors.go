// Package booking holds the reservation core: calendar-date handling, the
// availability (overlap) predicate, quoting, and the lifecycle rules that
// gate committing and cancelling bookings.  Everything here is pure and
// storage-agnostic; the repository layer runs the same predicates in SQL
// and the handlers translate the sentinel errors below into HTTP statuses.
package booking

import "errors"

// ErrValidation covers malformed or out-of-range input: unparseable
// dates, a return date before the pickup date, a pickup in the past.
var ErrValidation = errors.New("validation failed")

// ErrConflict is returned when the requested date range overlaps an
// active booking at hold-creation time.
var ErrConflict = errors.New("dates conflict with an existing booking")

// ErrCommitConflict is the commit-time re-check failure.  It is kept
// distinct from ErrConflict because it signals a lost race: the range was
// free when the hold was taken and has been booked since.
var ErrCommitConflict = errors.New("dates were booked while the hold was pending")

// ErrForbidden is returned when the requester is neither the booking's
// owner nor an admin.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidState rejects lifecycle transitions that are not allowed from
// the booking's current state, e.g. cancelling a non-Confirmed booking or
// cancelling on/after the pickup day.
var ErrInvalidState = errors.New("booking state does not allow this operation")

// ErrNotFound is returned for unknown car, booking or hold identifiers.
var ErrNotFound = errors.New("not found")
