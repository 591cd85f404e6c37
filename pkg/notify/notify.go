// Package notify holds the transient status banner shown after ledger
// operations. The ledger itself only returns values; the banner owns the
// delayed clear.
package notify

import (
	"sync"
	"time"
)

// Kind classifies a banner message.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Message is a single transient status notification.
type Message struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Banner holds at most one message at a time and clears it automatically
// after a fixed display lifetime. Showing a new message replaces the current
// one and cancels the pending clear.
type Banner struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Message
	timer   *time.Timer
}

// NewBanner creates a banner whose messages live for ttl.
func NewBanner(ttl time.Duration) *Banner {
	return &Banner{ttl: ttl}
}

// Show replaces the current message and re-arms the clear timer.
func (b *Banner) Show(kind Kind, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}
	b.current = &Message{Kind: kind, Text: text}
	b.timer = time.AfterFunc(b.ttl, b.Clear)
}

// Current returns a copy of the visible message, or nil if none is showing.
func (b *Banner) Current() *Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return nil
	}
	msg := *b.current
	return &msg
}

// Clear removes the visible message immediately.
func (b *Banner) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = nil
}

// Stop cancels any pending clear. The banner must not be shown again after
// Stop.
func (b *Banner) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.current = nil
}
