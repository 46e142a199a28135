// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into customer notifications.
package queue

// BookingConfirmedEvent is published when a booking is successfully
// committed.  It carries enough information for downstream consumers to
// notify the customer or feed analytics without querying the primary
// database.
type BookingConfirmedEvent struct {
	BookingID      uint64  `json:"booking_id"`
	CustomerID     uint64  `json:"customer_id"`
	CarID          uint64  `json:"car_id"`
	CarName        string  `json:"car_name"`
	PickupDate     string  `json:"pickup_date"`
	ReturnDate     string  `json:"return_date"`
	PickupLocation string  `json:"pickup_location"`
	ReturnLocation string  `json:"return_location"`
	DayCount       int     `json:"day_count"`
	TotalCost      float64 `json:"total_cost"`
	PaymentStatus  string  `json:"payment_status"`
	ConfirmedAt    string  `json:"confirmed_at"`
}
