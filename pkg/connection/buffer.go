package connection

import (
	"container/list"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Priority orders buffered messages for flush: critical messages drain
// before high, high before normal, normal before low. Within a priority
// tier, messages flush FIFO.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

const maxRequeueAttempts = 3

// Message is one entry queued by BaseAdapter.Send while disconnected. ID
// identifies the message across requeues, so adapter logs can correlate
// a drop with its original enqueue.
type Message struct {
	ID       string
	Data     any
	Options  SendOptions
	enqueued time.Time
	attempts int
}

// Expired reports whether the message has outlived its TTL. A zero TTL
// never expires.
func (m Message) Expired(now time.Time) bool {
	if m.Options.TTL <= 0 {
		return false
	}
	return now.Sub(m.enqueued) > m.Options.TTL
}

// Buffer is a priority-ordered, per-connection FIFO of pending messages.
// Capacity of 0 means unbounded; once capacity is reached, Enqueue drops
// the oldest lowest-priority message to make room rather than rejecting
// the newest one outright.
type Buffer struct {
	mu       sync.Mutex
	capacity int
	tiers    map[Priority]*list.List
}

// NewBuffer creates a buffer with the given capacity (0 = unbounded).
func NewBuffer(capacity int) *Buffer {
	b := &Buffer{
		capacity: capacity,
		tiers:    make(map[Priority]*list.List, 4),
	}
	for _, p := range []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical} {
		b.tiers[p] = list.New()
	}
	return b
}

// Enqueue adds a message to its priority tier, stamping its enqueue time.
func (b *Buffer) Enqueue(data any, opts SendOptions) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.capacity > 0 && b.len() >= b.capacity {
		b.evictOldestLocked()
	}

	b.tiers[opts.Priority].PushBack(Message{
		ID:       uuid.New().String(),
		Data:     data,
		Options:  opts,
		enqueued: time.Now(),
	})
}

// Requeue reinserts a message at the front of its tier after a failed
// flush attempt, up to maxRequeueAttempts; beyond that it is dropped.
func (b *Buffer) Requeue(msg Message) {
	msg.attempts++
	if msg.attempts > maxRequeueAttempts {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tiers[msg.Options.Priority].PushFront(msg)
}

// Dequeue removes and returns the highest-priority, oldest pending,
// non-expired message. Expired messages encountered along the way are
// discarded silently.
func (b *Buffer) Dequeue() (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	for _, p := range []Priority{PriorityCritical, PriorityHigh, PriorityNormal, PriorityLow} {
		tier := b.tiers[p]
		for e := tier.Front(); e != nil; {
			next := e.Next()
			msg := e.Value.(Message)
			tier.Remove(e)
			if !msg.Expired(now) {
				return msg, true
			}
			e = next
		}
	}
	return Message{}, false
}

// Len returns the total number of buffered messages across all tiers.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.len()
}

func (b *Buffer) len() int {
	n := 0
	for _, tier := range b.tiers {
		n += tier.Len()
	}
	return n
}

// Clear discards every buffered message.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical} {
		b.tiers[p] = list.New()
	}
}

// evictOldestLocked drops the oldest message in the lowest non-empty
// priority tier to make room for a new enqueue. Callers must hold mu.
func (b *Buffer) evictOldestLocked() {
	for _, p := range []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical} {
		tier := b.tiers[p]
		if tier.Len() > 0 {
			tier.Remove(tier.Front())
			return
		}
	}
}
