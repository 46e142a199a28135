package booking

import (
    "errors"
    "testing"
)

func TestNewQuote(t *testing.T) {
    cases := []struct {
        name      string
        rate      float64
        pick, ret int
        wantDays  int
        wantTotal float64
    }{
        // Both boundary days are billed.
        {"same day is one day", 50, 5, 5, 1, 50},
        {"three days", 50, 13, 15, 3, 150},
        {"week", 79.99, 1, 7, 7, 559.93},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            q, err := NewQuote(tc.rate, day(tc.pick), day(tc.ret))
            if err != nil {
                t.Fatalf("NewQuote: %v", err)
            }
            if q.DayCount != tc.wantDays || q.TotalCost != tc.wantTotal {
                t.Fatalf("got {%d, %v}, want {%d, %v}", q.DayCount, q.TotalCost, tc.wantDays, tc.wantTotal)
            }
        })
    }
}

func TestNewQuoteIsPure(t *testing.T) {
    a, err := NewQuote(42.5, day(3), day(9))
    if err != nil {
        t.Fatal(err)
    }
    b, err := NewQuote(42.5, day(3), day(9))
    if err != nil {
        t.Fatal(err)
    }
    if a != b {
        t.Fatalf("identical inputs produced different quotes: %+v vs %+v", a, b)
    }
}

func TestNewQuoteRejectsBadInput(t *testing.T) {
    if _, err := NewQuote(0, day(1), day(2)); !errors.Is(err, ErrValidation) {
        t.Fatalf("zero rate: got %v, want ErrValidation", err)
    }
    if _, err := NewQuote(50, day(5), day(4)); !errors.Is(err, ErrValidation) {
        t.Fatalf("inverted range: got %v, want ErrValidation", err)
    }
}
