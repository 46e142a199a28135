package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/driveease/car-rental-api/internal/booking"
)

// HoldRepo stores provisional bookings in Redis under "holds:<token>".
// A hold is the quoted-but-uncommitted stage of a booking; Redis TTL
// expiry is the sole cleanup mechanism, so an abandoned hold simply
// vanishes when its window elapses and never blocks anyone (holds do not
// participate in availability checks).
type HoldRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewHoldRepo binds the repo to a Redis client and the hold lifetime.
func NewHoldRepo(rdb *redis.Client, ttl time.Duration) *HoldRepo {
	return &HoldRepo{rdb: rdb, ttl: ttl}
}

// TTL reports the configured hold lifetime.
func (r *HoldRepo) TTL() time.Duration { return r.ttl }

func holdKey(token string) string { return "holds:" + token }

// Put stores a provisional booking as JSON with the configured TTL.  The
// provisional's ExpiresAt must already reflect the same window; handlers
// echo it to the client.
func (r *HoldRepo) Put(ctx context.Context, p booking.Provisional) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, holdKey(p.Token), raw, r.ttl).Err()
}

// Get fetches a provisional booking by token.  ErrHoldNotFound covers
// both an unknown token and one that expired out of Redis; the caller
// cannot (and need not) tell the two apart.
func (r *HoldRepo) Get(ctx context.Context, token string) (booking.Provisional, error) {
	raw, err := r.rdb.Get(ctx, holdKey(token)).Bytes()
	if err == redis.Nil {
		return booking.Provisional{}, ErrHoldNotFound
	}
	if err != nil {
		return booking.Provisional{}, err
	}
	var p booking.Provisional
	if err := json.Unmarshal(raw, &p); err != nil {
		return booking.Provisional{}, err
	}
	return p, nil
}

// Delete removes a hold after commit or explicit abandon.  Deleting a
// token that already expired is not an error.
func (r *HoldRepo) Delete(ctx context.Context, token string) error {
	return r.rdb.Del(ctx, holdKey(token)).Err()
}
