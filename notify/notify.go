// Package notify pushes transient toasts to a merchant's open dashboards.
// A notice auto-dismisses after a fixed delay unless dismissed first.
package notify

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"carrito/utils"
)

// DefaultTTL is how long a notice stays up before auto-dismissing.
const DefaultTTL = 4 * time.Second

const (
	KindSuccess = "success"
	KindError   = "error"
)

// Broadcaster delivers a payload to every subscriber of a topic. Satisfied by
// the realtime hub.
type Broadcaster interface {
	Broadcast(topic string, data []byte)
}

// Topic is the hub topic carrying a merchant's notices.
func Topic(tiendaID string) string {
	return "notify:" + tiendaID
}

type payload struct {
	Action string `json:"action"` // "notify" or "dismiss"
	ID     string `json:"id"`
	Type   string `json:"type,omitempty"`
	Text   string `json:"text,omitempty"`
}

// Center tracks pending notices and their dismissal timers.
type Center struct {
	TTL time.Duration

	b      Broadcaster
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewCenter(b Broadcaster) *Center {
	return &Center{
		TTL:    DefaultTTL,
		b:      b,
		timers: make(map[string]*time.Timer),
	}
}

// Push shows a notice and schedules its auto-dismiss. Returns the notice ID.
func (c *Center) Push(tiendaID, kind, text string) string {
	id := utils.GenerateRandomString(12)
	c.send(tiendaID, payload{Action: "notify", ID: id, Type: kind, Text: text})

	c.mu.Lock()
	c.timers[id] = time.AfterFunc(c.TTL, func() {
		c.Dismiss(tiendaID, id)
	})
	c.mu.Unlock()

	return id
}

// Dismiss removes a notice. Idempotent: a manual dismiss cancels the pending
// auto-dismiss, and a late timer for an already-dismissed notice is a no-op.
func (c *Center) Dismiss(tiendaID, id string) {
	c.mu.Lock()
	timer, ok := c.timers[id]
	if ok {
		timer.Stop()
		delete(c.timers, id)
	}
	c.mu.Unlock()

	if !ok {
		return
	}
	c.send(tiendaID, payload{Action: "dismiss", ID: id})
}

func (c *Center) send(tiendaID string, p payload) {
	data, err := json.Marshal(p)
	if err != nil {
		log.Println("notify marshal error:", err)
		return
	}
	c.b.Broadcast(Topic(tiendaID), data)
}
