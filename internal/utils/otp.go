package utils

import (
    "crypto/rand"
    "fmt"
    "math/big"
)

// NewOTP returns a six-digit numeric one-time password, zero-padded.
// Drawn from crypto/rand so codes are not guessable from send times.
func NewOTP() (string, error) {
    n, err := rand.Int(rand.Reader, big.NewInt(1000000))
    if err != nil {
        return "", err
    }
    return fmt.Sprintf("%06d", n.Int64()), nil
}
