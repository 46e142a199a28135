package utils

import "testing"

func TestNewOTP(t *testing.T) {
    for i := 0; i < 50; i++ {
        otp, err := NewOTP()
        if err != nil {
            t.Fatal(err)
        }
        if len(otp) != 6 {
            t.Fatalf("OTP %q is not six digits", otp)
        }
        for _, r := range otp {
            if r < '0' || r > '9' {
                t.Fatalf("OTP %q contains non-digit %q", otp, r)
            }
        }
    }
}
