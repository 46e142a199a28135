package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// PendingRegistration parks a not-yet-verified signup outside the users
// table.  The row is created only after the emailed OTP is echoed back;
// until then the account does not exist and the email stays claimable by
// whoever verifies first.
type PendingRegistration struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	OTP          string `json:"otp"`
}

// OTPRepo stores the transient state of the two OTP flows in Redis:
// registration parking under "reg:<email>" and password-reset codes under
// "pwreset:<email>".  A successful reset verification leaves a short-lived
// authorization marker ("pwreset_ok:<email>") that the final
// reset-password call consumes.
type OTPRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewOTPRepo binds the repo to a Redis client and the OTP lifetime.
func NewOTPRepo(rdb *redis.Client, ttl time.Duration) *OTPRepo {
	return &OTPRepo{rdb: rdb, ttl: ttl}
}

func regKey(email string) string     { return "reg:" + email }
func resetKey(email string) string   { return "pwreset:" + email }
func resetOKKey(email string) string { return "pwreset_ok:" + email }

// ParkRegistration stores a pending signup for the OTP window.  A repeat
// registration for the same email overwrites the parked state and
// restarts the clock.
func (r *OTPRepo) ParkRegistration(ctx context.Context, p PendingRegistration) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, regKey(p.Email), raw, r.ttl).Err()
}

// TakeRegistration fetches and deletes the parked signup for an email if
// the supplied OTP matches.  A wrong code leaves the parked state in
// place so the user may retry within the window.
func (r *OTPRepo) TakeRegistration(ctx context.Context, email, otp string) (PendingRegistration, error) {
	raw, err := r.rdb.Get(ctx, regKey(email)).Bytes()
	if err == redis.Nil {
		return PendingRegistration{}, ErrOTPNotFound
	}
	if err != nil {
		return PendingRegistration{}, err
	}
	var p PendingRegistration
	if err := json.Unmarshal(raw, &p); err != nil {
		return PendingRegistration{}, err
	}
	if p.OTP != otp {
		return PendingRegistration{}, ErrOTPMismatch
	}
	if err := r.rdb.Del(ctx, regKey(email)).Err(); err != nil {
		return PendingRegistration{}, err
	}
	return p, nil
}

// StoreResetOTP parks a password-reset code for an email.
func (r *OTPRepo) StoreResetOTP(ctx context.Context, email, otp string) error {
	return r.rdb.Set(ctx, resetKey(email), otp, r.ttl).Err()
}

// VerifyResetOTP checks a reset code.  On success the code is consumed
// and replaced by an authorization marker with the same TTL, which
// ConsumeResetAuthorization later redeems.
func (r *OTPRepo) VerifyResetOTP(ctx context.Context, email, otp string) error {
	stored, err := r.rdb.Get(ctx, resetKey(email)).Result()
	if err == redis.Nil {
		return ErrOTPNotFound
	}
	if err != nil {
		return err
	}
	if stored != otp {
		return ErrOTPMismatch
	}
	if err := r.rdb.Del(ctx, resetKey(email)).Err(); err != nil {
		return err
	}
	return r.rdb.Set(ctx, resetOKKey(email), "1", r.ttl).Err()
}

// ConsumeResetAuthorization redeems the marker left by VerifyResetOTP.
// It succeeds at most once per verification, so a reset-password call
// without a preceding verified OTP fails with ErrOTPNotFound.
func (r *OTPRepo) ConsumeResetAuthorization(ctx context.Context, email string) error {
	n, err := r.rdb.Del(ctx, resetOKKey(email)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOTPNotFound
	}
	return nil
}
