package booking

import (
    "errors"
    "testing"
    "time"
)

func TestParseDate(t *testing.T) {
    got, err := ParseDate("2026-03-05")
    if err != nil {
        t.Fatal(err)
    }
    if !got.Equal(day(5)) {
        t.Fatalf("got %v, want %v", got, day(5))
    }
    for _, bad := range []string{"", "05-03-2026", "2026-3-5", "2026-03-05T10:00:00Z", "soon"} {
        if _, err := ParseDate(bad); !errors.Is(err, ErrValidation) {
            t.Fatalf("ParseDate(%q): got %v, want ErrValidation", bad, err)
        }
    }
}

func TestDayCount(t *testing.T) {
    if n := DayCount(day(5), day(5)); n != 1 {
        t.Fatalf("same-day count = %d, want 1", n)
    }
    if n := DayCount(day(13), day(15)); n != 3 {
        t.Fatalf("count = %d, want 3", n)
    }
    // Clock times must not shift the count.
    late := time.Date(2026, time.March, 13, 22, 0, 0, 0, time.UTC)
    early := time.Date(2026, time.March, 15, 1, 0, 0, 0, time.UTC)
    if n := DayCount(late, early); n != 3 {
        t.Fatalf("count with clock times = %d, want 3", n)
    }
}

func TestValidateRange(t *testing.T) {
    today := day(10)
    if err := ValidateRange(day(10), day(10), today); err != nil {
        t.Fatalf("same-day rental today: %v", err)
    }
    if err := ValidateRange(day(12), day(11), today); !errors.Is(err, ErrValidation) {
        t.Fatalf("inverted range: got %v, want ErrValidation", err)
    }
    if err := ValidateRange(day(9), day(12), today); !errors.Is(err, ErrValidation) {
        t.Fatalf("past pickup: got %v, want ErrValidation", err)
    }
}
