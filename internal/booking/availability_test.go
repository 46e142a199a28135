package booking

import (
    "testing"
    "time"

    "github.com/driveease/car-rental-api/internal/model"
)

// day returns a fixed calendar day in a synthetic month used by the
// range tests below; day(10) < day(11) < ... keeps cases readable.
func day(n int) time.Time {
    return time.Date(2026, time.March, n, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
    cases := []struct {
        name                   string
        aPick, aRet, bPick, bRet int
        want                   bool
    }{
        {"disjoint before", 1, 3, 5, 8, false},
        {"disjoint after", 9, 12, 5, 8, false},
        {"identical", 5, 8, 5, 8, true},
        {"contained", 6, 7, 5, 8, true},
        {"straddles start", 3, 6, 5, 8, true},
        {"straddles end", 7, 10, 5, 8, true},
        // Inclusive boundaries: returning and picking up on the same
        // day is a conflict (full turnaround day between rentals).
        {"shared boundary day", 8, 10, 5, 8, true},
        {"adjacent without gap", 9, 10, 5, 8, false},
        {"single shared day", 5, 5, 5, 5, true},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            got := Overlaps(day(tc.aPick), day(tc.aRet), day(tc.bPick), day(tc.bRet))
            if got != tc.want {
                t.Fatalf("Overlaps([%d,%d],[%d,%d]) = %v, want %v",
                    tc.aPick, tc.aRet, tc.bPick, tc.bRet, got, tc.want)
            }
        })
    }
}

func TestOverlapsIgnoresTimeOfDay(t *testing.T) {
    late := time.Date(2026, time.March, 8, 23, 59, 0, 0, time.UTC)
    early := time.Date(2026, time.March, 8, 0, 1, 0, 0, time.UTC)
    if !Overlaps(late, late, early, early) {
        t.Fatal("same calendar day with different clock times must overlap")
    }
}

func TestFindConflictSharedBoundary(t *testing.T) {
    // Scenario: car has a Confirmed booking for days [10,12]; a request
    // for [12,14] must conflict on the shared boundary day 12.
    stays := []Stay{
        {BookingID: 7, Pickup: day(10), Return: day(12), Status: model.BookingConfirmed},
    }
    id, found := FindConflict(stays, day(12), day(14), 0)
    if !found || id != 7 {
        t.Fatalf("expected conflict with booking 7, got id=%d found=%v", id, found)
    }
    // [13,15] leaves the turnaround day free and must be accepted.
    if _, found := FindConflict(stays, day(13), day(15), 0); found {
        t.Fatal("range [13,15] must not conflict with [10,12]")
    }
}

func TestFindConflictSkipsCancelledAndExcluded(t *testing.T) {
    stays := []Stay{
        {BookingID: 1, Pickup: day(10), Return: day(12), Status: model.BookingCancelled},
        {BookingID: 2, Pickup: day(11), Return: day(13), Status: model.BookingConfirmed},
    }
    if _, found := FindConflict(stays, day(10), day(12), 2); found {
        t.Fatal("cancelled and excluded bookings must not conflict")
    }
    if id, found := FindConflict(stays, day(13), day(13), 0); !found || id != 2 {
        t.Fatalf("expected conflict with booking 2, got id=%d found=%v", id, found)
    }
}
