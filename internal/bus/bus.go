// Package bus is the fire-and-forget broadcast channel between the
// interception layer and open application instances. Delivery is
// best-effort, at most once per publish; slow subscribers drop messages
// rather than block publishers.
package bus

import (
	"context"
	"sync"
)

// MessageVoiceUploadOffline notifies clients that a voice clip could not
// be uploaded and was not queued server-side.
const MessageVoiceUploadOffline = "voice-upload-offline"

// Message is a typed notification posted to every subscriber.
type Message struct {
	Type string            `json:"type"`
	Meta map[string]string `json:"meta,omitempty"`
}

// Bus publishes messages to zero or more subscribers. Subscribe returns a
// receive channel and a cancel func that releases the subscription and
// closes the channel.
type Bus interface {
	Publish(ctx context.Context, msg Message) error
	Subscribe(ctx context.Context) (<-chan Message, func())
}

type memoryBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Message
	buffer int
}

// NewMemoryBus returns an in-process Bus for single-instance deployments.
func NewMemoryBus(buffer int) Bus {
	if buffer <= 0 {
		buffer = 8
	}
	return &memoryBus{subs: make(map[int]chan Message), buffer: buffer}
}

func (b *memoryBus) Publish(_ context.Context, msg Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- msg:
		default:
			// Subscriber buffer full: drop. No delivery guarantee.
		}
	}
	return nil
}

func (b *memoryBus) Subscribe(_ context.Context) (<-chan Message, func()) {
	ch := make(chan Message, b.buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
