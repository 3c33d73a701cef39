// Package store provides live collection subscriptions. A Subscription is an
// owned resource: acquired on view entry, released exactly once on every exit
// path. It delivers change ticks; consumers re-derive their state from a full
// re-query rather than from deltas.
package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"carrito/db"
	"carrito/mq"
)

const defaultPollInterval = 2 * time.Second

// Store opens subscriptions against MongoDB. Change streams are used when the
// deployment supports them; otherwise it degrades to polling plus Redis
// nudges published by this service's own writes.
type Store struct {
	DB           *db.DB
	Rdx          *redis.Client
	PollInterval time.Duration
}

func New(database *db.DB, rdx *redis.Client) *Store {
	return &Store{DB: database, Rdx: rdx}
}

// Subscription is a disposable handle on one collection's change feed.
type Subscription struct {
	c      chan struct{}
	cancel context.CancelFunc
	once   sync.Once
}

// Updates delivers one tick per observed change, coalesced. The channel is
// closed after Close, so ranging over it terminates.
func (s *Subscription) Updates() <-chan struct{} {
	return s.c
}

// Close releases the subscription. Safe to call more than once; only the
// first call does anything.
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}

// notify coalesces: a tick already pending means the consumer will re-query
// anyway, so further ticks are dropped.
func (s *Subscription) notify() {
	select {
	case s.c <- struct{}{}:
	default:
	}
}

func newSubscription(cancel context.CancelFunc) *Subscription {
	return &Subscription{
		c:      make(chan struct{}, 1),
		cancel: cancel,
	}
}

// Subscribe opens a live feed on the named collection. The first tick is
// delivered immediately so consumers render their initial snapshot without
// waiting for upstream activity.
func (st *Store) Subscribe(coll string) *Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	sub := newSubscription(cancel)
	sub.notify()
	go st.run(ctx, coll, sub)
	return sub
}

func (st *Store) run(ctx context.Context, coll string, sub *Subscription) {
	defer close(sub.c)

	stream, err := st.DB.Collection(coll).Watch(ctx, mongo.Pipeline{})
	if err == nil {
		for stream.Next(ctx) {
			sub.notify()
		}
		streamErr := stream.Err()
		stream.Close(context.Background())
		if ctx.Err() != nil {
			return
		}
		log.Printf("store: change stream on %s ended (%v), switching to polling", coll, streamErr)
	} else {
		log.Printf("store: change streams unavailable for %s (%v), polling instead", coll, err)
	}

	st.poll(ctx, coll, sub)
}

func (st *Store) poll(ctx context.Context, coll string, sub *Subscription) {
	interval := st.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var nudges <-chan *redis.Message
	if st.Rdx != nil {
		ps := st.Rdx.Subscribe(ctx, mq.FeedChannel(coll))
		defer ps.Close()
		nudges = ps.Channel()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sub.notify()
		case _, ok := <-nudges:
			if !ok {
				nudges = nil
				continue
			}
			sub.notify()
		}
	}
}
