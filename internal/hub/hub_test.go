package hub

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestPublishReachesOnlyTargetedUsers(t *testing.T) {
	c := qt.New(t)
	h := NewHub()

	a := h.Subscribe(1, 4)
	a2 := h.Subscribe(1, 4)
	b := h.Subscribe(2, 4)
	c.Assert(h.Connected(1), qt.Equals, 2)

	h.Publish([]uint{1, 3}, Event{Type: EventPostCreated, Payload: map[string]int{"id": 7}})

	want := `{"type":"post_created","payload":{"id":7}}`
	c.Assert(string(<-a), qt.Equals, want)
	c.Assert(string(<-a2), qt.Equals, want)
	c.Assert(b, qt.HasLen, 0)
}

func TestPublishDropsForFullClients(t *testing.T) {
	c := qt.New(t)
	h := NewHub()

	slow := h.Subscribe(1, 1)
	h.Publish([]uint{1}, Event{Type: "one"})
	h.Publish([]uint{1}, Event{Type: "two"})
	c.Assert(slow, qt.HasLen, 1)
	c.Assert(string(<-slow), qt.Equals, `{"type":"one","payload":null}`)
}

func TestUnsubscribeClosesStream(t *testing.T) {
	c := qt.New(t)
	h := NewHub()

	client := h.Subscribe(1, 1)
	h.Unsubscribe(1, client)
	_, open := <-client
	c.Assert(open, qt.IsFalse)
	c.Assert(h.Connected(1), qt.Equals, 0)

	// A second unsubscribe must not close the channel twice.
	h.Unsubscribe(1, client)
}
