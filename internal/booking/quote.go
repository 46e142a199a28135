package booking

import (
    "fmt"
    "math"
    "time"
)

// Quote is the billing summary for a candidate date range.
type Quote struct {
    DayCount  int     `json:"day_count"`
    TotalCost float64 `json:"total_cost"`
}

// NewQuote prices a rental of the given car rate over an inclusive date
// range.  It is pure: identical inputs always produce identical output.
// The range itself is not validated against today so that past bookings
// can still be re-priced; callers gate new bookings with ValidateRange.
func NewQuote(dailyRate float64, pickup, ret time.Time) (Quote, error) {
    if dailyRate <= 0 {
        return Quote{}, fmt.Errorf("%w: daily rate must be positive", ErrValidation)
    }
    if Midnight(ret).Before(Midnight(pickup)) {
        return Quote{}, fmt.Errorf("%w: return date precedes pickup date", ErrValidation)
    }
    days := DayCount(pickup, ret)
    total := math.Round(float64(days)*dailyRate*100) / 100
    return Quote{DayCount: days, TotalCost: total}, nil
}
