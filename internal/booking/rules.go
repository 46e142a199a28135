package booking

import (
    "fmt"
    "time"

    "github.com/driveease/car-rental-api/internal/model"
)

// CanCancel decides whether the requester may cancel the booking today.
// Authorization is checked before state so that a stranger probing someone
// else's booking always sees a blanket denial, never state detail.
//
// Rules:
//   - requester must be the booking's customer or an admin (ErrForbidden);
//   - only Confirmed bookings can be cancelled — cancelling an already
//     Cancelled booking is rejected, not a silent no-op (ErrInvalidState);
//   - cancellation must happen strictly before the pickup day; same-day
//     and past pickups cannot be cancelled (ErrInvalidState).
func CanCancel(b model.Booking, requesterID uint64, requesterIsAdmin bool, today time.Time) error {
    if !requesterIsAdmin && b.CustomerID != requesterID {
        return ErrForbidden
    }
    if b.Status != model.BookingConfirmed {
        return fmt.Errorf("%w: only confirmed bookings can be cancelled", ErrInvalidState)
    }
    if !Midnight(b.PickupDate).After(Midnight(today)) {
        return fmt.Errorf("%w: pickup day has arrived", ErrInvalidState)
    }
    return nil
}
