package booking

import "time"

// Provisional is an uncommitted booking parked between the availability
// check and the customer's payment choice.  It lives only in Redis, keyed
// by Token with a bounded TTL, and leaves no durable trace when the
// customer walks away.  Dates are carried in DateLayout form so the JSON
// payload round-trips without timezone surprises.
type Provisional struct {
    Token               string    `json:"token"`
    CustomerID          uint64    `json:"customer_id"`
    CarID               uint64    `json:"car_id"`
    CarName             string    `json:"car_name"`
    PickupDate          string    `json:"pickup_date"`
    ReturnDate          string    `json:"return_date"`
    DayCount            int       `json:"day_count"`
    TotalCost           float64   `json:"total_cost"`
    SpecialRequirements string    `json:"special_requirements,omitempty"`
    PickupLocation      string    `json:"pickup_location"`
    ReturnLocation      string    `json:"return_location"`
    CreatedAt           time.Time `json:"created_at"`
    ExpiresAt           time.Time `json:"expires_at"`
}

// Dates parses the hold's stored date strings back into UTC midnights.
func (p Provisional) Dates() (pickup, ret time.Time, err error) {
    pickup, err = ParseDate(p.PickupDate)
    if err != nil {
        return
    }
    ret, err = ParseDate(p.ReturnDate)
    return
}
