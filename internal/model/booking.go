package model

import "time"

// BookingStatus is the closed set of booking lifecycle states.  There is
// no explicit Completed state: a Confirmed booking whose return date has
// passed is implicitly finished.
type BookingStatus string

const (
    BookingPending   BookingStatus = "Pending"
    BookingConfirmed BookingStatus = "Confirmed"
    BookingCancelled BookingStatus = "Cancelled"
)

// PaymentStatus tracks how the booking will be (or was) paid.
type PaymentStatus string

const (
    PaymentPending     PaymentStatus = "Pending"
    PaymentDueAtPickup PaymentStatus = "Due at Pickup"
    PaymentPaid        PaymentStatus = "Paid"
)

// PaymentMethod is the customer's choice at commit time.
type PaymentMethod string

const (
    PayOnPickup PaymentMethod = "PayOnPickup"
    PayNow      PaymentMethod = "PayNow"
)

// ParsePaymentMethod validates a raw payment-method string.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
    switch PaymentMethod(s) {
    case PayOnPickup:
        return PayOnPickup, true
    case PayNow:
        return PayNow, true
    }
    return "", false
}

// Booking records one durable car reservation.  Pickup and return dates
// are calendar dates (time-of-day is ignored); both boundary days are
// billed, so a same-day rental counts as one day.  For any car the set of
// bookings with status != Cancelled is pairwise non-overlapping on the
// inclusive interval [PickupDate, ReturnDate].
//
// Fields:
//  ID                  – primary key identifier.
//  CustomerID          – owning customer.
//  CarID               – booked car.
//  PickupDate          – first rental day (inclusive).
//  ReturnDate          – last rental day (inclusive, >= PickupDate).
//  TotalCost           – day count x daily rate, fixed at commit time.
//  Status              – Pending, Confirmed or Cancelled.
//  PaymentStatus       – Pending, "Due at Pickup" or Paid.
//  TransactionID       – synthetic payment reference (PayNow only).
//  PaymentMethod       – method chosen at commit.
//  SpecialRequirements – free-text customer note.
//  PickupLocation      – chosen pickup location name.
//  ReturnLocation      – chosen dropoff location name.
//  BookingDate         – when the booking was committed.
type Booking struct {
    ID                  uint64        // bookings.id
    CustomerID          uint64        // bookings.customer_id
    CarID               uint64        // bookings.car_id
    PickupDate          time.Time     // bookings.pickup_date (DATE)
    ReturnDate          time.Time     // bookings.return_date (DATE)
    TotalCost           float64       // bookings.total_cost (DECIMAL(10,2))
    Status              BookingStatus // bookings.booking_status
    PaymentStatus       PaymentStatus // bookings.payment_status
    TransactionID       *string       // bookings.transaction_id (nullable)
    PaymentMethod       *string       // bookings.payment_method (nullable)
    SpecialRequirements string        // bookings.special_requirements
    PickupLocation      string        // bookings.pickup_location
    ReturnLocation      string        // bookings.return_location
    BookingDate         time.Time     // bookings.booking_date
}
