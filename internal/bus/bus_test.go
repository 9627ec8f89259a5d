package bus

import (
	"context"
	"testing"
	"time"
)

func TestMemoryBus_PublishReachesAllSubscribers(t *testing.T) {
	b := NewMemoryBus(4)
	ctx := context.Background()

	ch1, cancel1 := b.Subscribe(ctx)
	defer cancel1()
	ch2, cancel2 := b.Subscribe(ctx)
	defer cancel2()

	msg := Message{Type: MessageVoiceUploadOffline, Meta: map[string]string{"mimeType": "audio/webm"}}
	if err := b.Publish(ctx, msg); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for i, ch := range []<-chan Message{ch1, ch2} {
		select {
		case got := <-ch:
			if got.Type != MessageVoiceUploadOffline {
				t.Errorf("subscriber %d: type = %q", i, got.Type)
			}
			if got.Meta["mimeType"] != "audio/webm" {
				t.Errorf("subscriber %d: meta = %v", i, got.Meta)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: timeout", i)
		}
	}
}

func TestMemoryBus_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	b := NewMemoryBus(1)
	ctx := context.Background()

	ch, cancel := b.Subscribe(ctx)
	defer cancel()

	// Fill the buffer, then publish more; Publish must return promptly.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Publish(ctx, Message{Type: "n"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	// Exactly the buffered message survives.
	if got := len(ch); got != 1 {
		t.Errorf("buffered = %d, want 1", got)
	}
}

func TestMemoryBus_CancelStopsDelivery(t *testing.T) {
	b := NewMemoryBus(4)
	ctx := context.Background()

	ch, cancel := b.Subscribe(ctx)
	cancel()

	if err := b.Publish(ctx, Message{Type: "n"}); err != nil {
		t.Fatalf("publish after cancel: %v", err)
	}
	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel after cancel")
	}
}

func TestMemoryBus_CancelIsIdempotent(t *testing.T) {
	b := NewMemoryBus(4)
	_, cancel := b.Subscribe(context.Background())
	cancel()
	cancel()
}

func TestMemoryBus_NoSubscribersIsFine(t *testing.T) {
	b := NewMemoryBus(4)
	if err := b.Publish(context.Background(), Message{Type: "n"}); err != nil {
		t.Fatalf("publish without subscribers: %v", err)
	}
}
