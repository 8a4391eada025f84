package source

import (
	"sync/atomic"

	"github.com/mrdg/vizzy/event"
)

// eventBuffer is a lock-free spsc queue. Audio callbacks push into it so they
// never wait on the envelope bank's mutex; a dispatcher goroutine drains it.
type eventBuffer struct {
	events      []event.Event
	read, write *uint32
}

func newEventBuffer(size int) *eventBuffer {
	if size <= 0 || size&(size-1) != 0 {
		panic("event buffer size must be a power of 2")
	}
	return &eventBuffer{
		events: make([]event.Event, size),
		read:   new(uint32),
		write:  new(uint32),
	}
}

// tryPush adds ev unless the buffer is full. Real-time callbacks use it and
// drop events rather than spin.
func (b *eventBuffer) tryPush(ev event.Event) bool {
	write := atomic.LoadUint32(b.write)
	if write-atomic.LoadUint32(b.read) == uint32(len(b.events)) {
		return false
	}
	b.events[write%uint32(len(b.events))] = ev
	atomic.StoreUint32(b.write, write+1)
	return true
}

// drain calls f for every queued event and returns how many there were.
func (b *eventBuffer) drain(f func(event.Event)) int {
	read := atomic.LoadUint32(b.read)
	write := atomic.LoadUint32(b.write)
	n := int(write - read)
	for read != write {
		f(b.events[read%uint32(len(b.events))])
		read++
	}
	atomic.StoreUint32(b.read, read)
	return n
}
