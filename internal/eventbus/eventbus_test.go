package eventbus

import "testing"

func TestPublishSubscribe(t *testing.T) {
	b := New[int]()
	sub := b.Subscribe()
	b.Publish(42)
	if got := <-sub; got != 42 {
		t.Fatalf("got %d", got)
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	b := New[int]()
	b.Subscribe() // never drained
	for i := 0; i < 100; i++ {
		b.Publish(i) // must not deadlock once the buffer fills
	}
}

func TestUnsubscribeCloses(t *testing.T) {
	b := New[int]()
	sub := b.Subscribe()
	b.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Fatalf("channel should be closed")
	}
	b.Publish(1) // no subscribers left
}

func TestCloseIsIdempotent(t *testing.T) {
	b := New[int]()
	sub := b.Subscribe()
	b.Close()
	b.Close()
	if _, ok := <-sub; ok {
		t.Fatalf("channel should be closed")
	}
	b.Publish(1) // closed bus drops events
	if ch := b.Subscribe(); ch == nil {
		t.Fatalf("subscribe after close should return a closed channel")
	}
}
