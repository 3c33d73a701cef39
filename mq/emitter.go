package mq

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// FeedChannel is the pub/sub channel carrying change nudges for a collection.
func FeedChannel(coll string) string {
	return "feed:" + coll
}

// Emitter publishes change nudges after every write this service performs.
// Subscribers that fell back to polling pick these up immediately instead of
// waiting out the poll interval.
type Emitter struct {
	rdx *redis.Client
}

func NewEmitter(rdx *redis.Client) *Emitter {
	return &Emitter{rdx: rdx}
}

// Notify announces that a collection changed. Best effort: a lost nudge only
// delays the next poll, so failures are logged and swallowed.
func (e *Emitter) Notify(ctx context.Context, coll string) {
	if e == nil || e.rdx == nil {
		return
	}
	if err := e.rdx.Publish(ctx, FeedChannel(coll), "1").Err(); err != nil {
		log.Printf("mq: publish nudge for %s failed: %v", coll, err)
	}
}
