package convo

import "sync"

// Subscription is the slice of a live feed the browser needs to own.
type Subscription interface {
	Updates() <-chan struct{}
	Close()
}

// Subscriber opens a live feed on a collection.
type Subscriber func(coll string) Subscription

// Browser owns the conversation view's subscriptions: one long-lived summary
// feed, and at most one message feed for the selected conversation. Selecting
// a different conversation closes the old message feed before opening the new
// one, so no listener outlives its view.
type Browser struct {
	subscribe Subscriber

	mu        sync.Mutex
	summaries Subscription
	messages  Subscription
	selected  string
	closed    bool
}

// NewBrowser opens the summary feed immediately.
func NewBrowser(subscribe Subscriber, summaryColl string) *Browser {
	return &Browser{
		subscribe: subscribe,
		summaries: subscribe(summaryColl),
	}
}

// Summaries is the live feed of the capped conversation list.
func (b *Browser) Summaries() Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.summaries
}

// Select switches the detail view to a conversation and returns its message
// feed. Selecting "" just closes the current detail feed.
func (b *Browser) Select(conversacionID, messageColl string) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.messages != nil {
		b.messages.Close()
		b.messages = nil
	}
	b.selected = conversacionID
	if b.closed || conversacionID == "" {
		return nil
	}

	b.messages = b.subscribe(messageColl)
	return b.messages
}

// Selected returns the current detail conversation, or "".
func (b *Browser) Selected() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected
}

// Close releases both subscriptions. Safe to call more than once.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	if b.summaries != nil {
		b.summaries.Close()
	}
	if b.messages != nil {
		b.messages.Close()
		b.messages = nil
	}
}
