package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const bookingCacheTTL = 5 * time.Minute

// BookingCacheKey returns the Redis key for a booking snapshot.
func BookingCacheKey(bookingID uint) string {
	return fmt.Sprintf("freight-booking:booking:%d", bookingID)
}

// GetCachedBooking loads a cached booking snapshot into dest. Returns false
// on a miss or when the cache is disabled.
func GetCachedBooking(ctx context.Context, rdb *redis.Client, bookingID uint, dest interface{}) bool {
	if rdb == nil {
		return false
	}
	raw, err := rdb.Get(ctx, BookingCacheKey(bookingID)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// CacheBooking stores a booking snapshot. Failures are ignored; the cache is
// an optimization, not a source of truth.
func CacheBooking(ctx context.Context, rdb *redis.Client, bookingID uint, value interface{}) {
	if rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	rdb.Set(ctx, BookingCacheKey(bookingID), raw, bookingCacheTTL)
}

// InvalidateBookingCache drops the snapshot after any lifecycle transition.
func InvalidateBookingCache(ctx context.Context, rdb *redis.Client, bookingID uint) {
	if rdb == nil {
		return
	}
	rdb.Del(ctx, BookingCacheKey(bookingID))
}
