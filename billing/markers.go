package billing

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// MarkerStore records the checkout-success signal between the payment
// redirect landing and the next gate evaluation. TakeOnce consumes it: the
// second read, and every read after a refresh, sees nothing.
type MarkerStore interface {
	Set(ctx context.Context, tiendaID string) error
	TakeOnce(ctx context.Context, tiendaID string) (bool, error)
}

const markerTTL = 24 * time.Hour

type redisMarkers struct {
	rdx *redis.Client
}

// NewMarkerStore backs the one-shot markers with Redis.
func NewMarkerStore(rdx *redis.Client) MarkerStore {
	return &redisMarkers{rdx: rdx}
}

func markerKey(tiendaID string) string {
	return "paysuccess:" + tiendaID
}

func (m *redisMarkers) Set(ctx context.Context, tiendaID string) error {
	return m.rdx.Set(ctx, markerKey(tiendaID), "1", markerTTL).Err()
}

func (m *redisMarkers) TakeOnce(ctx context.Context, tiendaID string) (bool, error) {
	err := m.rdx.GetDel(ctx, markerKey(tiendaID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
