package booking

import (
    "errors"
    "testing"
    "time"

    "github.com/driveease/car-rental-api/internal/model"
)

func confirmedBooking(customerID uint64, pickup time.Time) model.Booking {
    return model.Booking{
        ID:         11,
        CustomerID: customerID,
        CarID:      3,
        PickupDate: pickup,
        ReturnDate: pickup.AddDate(0, 0, 2),
        Status:     model.BookingConfirmed,
    }
}

func TestCanCancel(t *testing.T) {
    today := day(10)

    t.Run("owner before pickup", func(t *testing.T) {
        b := confirmedBooking(42, day(11))
        if err := CanCancel(b, 42, false, today); err != nil {
            t.Fatalf("owner cancelling tomorrow's booking: %v", err)
        }
    })

    t.Run("pickup today is too late", func(t *testing.T) {
        b := confirmedBooking(42, day(10))
        if err := CanCancel(b, 42, false, today); !errors.Is(err, ErrInvalidState) {
            t.Fatalf("got %v, want ErrInvalidState", err)
        }
    })

    t.Run("pickup already passed", func(t *testing.T) {
        b := confirmedBooking(42, day(4))
        if err := CanCancel(b, 42, false, today); !errors.Is(err, ErrInvalidState) {
            t.Fatalf("got %v, want ErrInvalidState", err)
        }
    })

    t.Run("non-owner denied before state is considered", func(t *testing.T) {
        // Even a booking that is otherwise uncancellable reveals nothing
        // to a stranger: authorization fails first.
        b := confirmedBooking(42, day(4))
        err := CanCancel(b, 99, false, today)
        if !errors.Is(err, ErrForbidden) {
            t.Fatalf("got %v, want ErrForbidden", err)
        }
    })

    t.Run("admin may cancel on behalf of owner", func(t *testing.T) {
        b := confirmedBooking(42, day(11))
        if err := CanCancel(b, 99, true, today); err != nil {
            t.Fatalf("admin cancel: %v", err)
        }
    })

    t.Run("already cancelled is rejected, not a no-op", func(t *testing.T) {
        b := confirmedBooking(42, day(11))
        b.Status = model.BookingCancelled
        if err := CanCancel(b, 42, false, today); !errors.Is(err, ErrInvalidState) {
            t.Fatalf("got %v, want ErrInvalidState", err)
        }
    })

    t.Run("pending is not cancellable", func(t *testing.T) {
        b := confirmedBooking(42, day(11))
        b.Status = model.BookingPending
        if err := CanCancel(b, 42, false, today); !errors.Is(err, ErrInvalidState) {
            t.Fatalf("got %v, want ErrInvalidState", err)
        }
    })
}
