// Package ring provides a fixed-capacity buffer of simulated segments
// shared between the display loop and the audio device.
package ring

import (
	"errors"
	"sync"

	"github.com/dudk/oscillo"
	"github.com/dudk/oscillo/metric"
	"github.com/dudk/oscillo/pool"
)

// ErrCapacity is returned when buffer is created with less than two
// slots.
var ErrCapacity = errors.New("ring capacity must be at least 2")

// Buffer is a circular queue of segments. Producer pushes segments and
// consumer reads them through Consume. Both operations are mutually
// exclusive.
//
// Buffer never blocks the producer: when all slots are unread, the
// oldest one is overwritten.
type Buffer struct {
	mu        sync.Mutex
	slots     []oscillo.Segment
	read      int
	write     int
	unread    int
	overflows uint64
	push      metric.PushFunc
}

// Reader provides consumer access to the buffer. It's only valid inside
// the Consume call.
type Reader struct {
	b *Buffer
}

// New returns buffer with provided number of slots.
func New(capacity int) (*Buffer, error) {
	if capacity < 2 {
		return nil, ErrCapacity
	}
	b := &Buffer{
		slots: make([]oscillo.Segment, capacity),
	}
	b.push = metric.Pusher(b)
	return b, nil
}

// Push stores the segment and transfers its ownership to the buffer.
// Points of the overwritten segment are released to the pool.
func (b *Buffer) Push(seg oscillo.Segment) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pool.Release(b.slots[b.write].Points)
	b.slots[b.write] = seg
	b.write = (b.write + 1) % len(b.slots)

	overflow := b.unread == len(b.slots)
	if overflow {
		// oldest unread segment was overwritten.
		b.read = b.write
		b.overflows++
	} else {
		b.unread++
	}
	b.push(overflow)
}

// Consume calls fn with exclusive access to the buffer.
func (b *Buffer) Consume(fn func(*Reader)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&Reader{b: b})
}

// Len returns number of unread segments.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unread
}

// Cap returns number of slots.
func (b *Buffer) Cap() int {
	return len(b.slots)
}

// Overflows returns number of unread segments lost because the buffer
// was full.
func (b *Buffer) Overflows() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overflows
}

// Reset releases all owned segments and empties the buffer.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.slots {
		pool.Release(b.slots[i].Points)
		b.slots[i] = oscillo.Segment{}
	}
	b.read, b.write, b.unread = 0, 0, 0
}

// Current returns the segment at the read position. Empty segment is
// returned if buffer is starved. Returned points must not be used after
// Consume returns.
func (r *Reader) Current() oscillo.Segment {
	if r.b.unread == 0 {
		return oscillo.Segment{}
	}
	return r.b.slots[r.b.read]
}

// Advance moves the read position to the next segment. It returns true
// if the buffer is starved after that.
func (r *Reader) Advance() bool {
	if r.b.unread == 0 {
		return true
	}
	r.b.read = (r.b.read + 1) % len(r.b.slots)
	r.b.unread--
	return r.b.unread == 0
}

// Starved returns true if all pushed segments are consumed.
func (r *Reader) Starved() bool {
	return r.b.unread == 0
}
