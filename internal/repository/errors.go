// Package repository implements raw-SQL data access for the rental
// service plus the Redis-backed provisional hold and OTP stores.  The
// sentinel errors below let handlers distinguish failure scenarios
// without string-matching driver errors.
package repository

import "errors"

// ErrEmailExists is returned when registering a user whose email address
// already has an account.  Handlers translate it to HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrCarNotFound is returned when a car id does not resolve to a row.
var ErrCarNotFound = errors.New("car not found")

// ErrHoldNotFound is returned when a booking hold token is unknown or has
// expired out of Redis.
var ErrHoldNotFound = errors.New("hold not found or expired")

// ErrOTPNotFound is returned when no parked OTP state exists for an email
// (wrong address, or the 10-minute window elapsed).
var ErrOTPNotFound = errors.New("otp not found or expired")

// ErrOTPMismatch is returned when parked OTP state exists but the code
// the client supplied does not match it.
var ErrOTPMismatch = errors.New("otp does not match")

// ErrCarInUse is returned when deleting a car that bookings still
// reference; the caller should mark it unavailable instead.
var ErrCarInUse = errors.New("car has bookings")
