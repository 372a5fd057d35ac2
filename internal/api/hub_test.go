package api_test

import (
	"testing"

	"github.com/talgya/narivia/internal/api"
)

func TestHub_DropsForSlowSubscriber(t *testing.T) {
	t.Parallel()

	h := api.NewHub()
	id, ch := h.Subscribe()

	const sent = 100
	for i := range sent {
		h.Publish(api.StreamMessage{Type: "turn", Data: i})
	}

	received := len(ch)
	if received == 0 || received == sent {
		t.Fatalf("buffered %d of %d messages", received, sent)
	}
	if got := h.Dropped(); got != uint64(sent-received) {
		t.Fatalf("dropped = %d, want %d", got, sent-received)
	}

	h.Unsubscribe(id)
	if _, ok := <-drain(ch); ok {
		t.Fatal("channel still open after unsubscribe")
	}
	if h.Subscribers() != 0 {
		t.Fatalf("subscribers = %d", h.Subscribers())
	}
	h.Publish(api.StreamMessage{Type: "turn"})
}

// drain empties ch and returns it for a final receive.
func drain(ch <-chan []byte) <-chan []byte {
	for len(ch) > 0 {
		<-ch
	}
	return ch
}

func TestRateLimiter_PerClient(t *testing.T) {
	t.Parallel()

	rl := api.NewRateLimiter(0.001, 1)
	if !rl.Allow("10.0.0.1") {
		t.Fatal("first request denied")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("second request allowed")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatal("other client denied")
	}
	if !api.NewRateLimiter(0, 1).Allow("x") {
		t.Fatal("zero rate must disable limiting")
	}
}
