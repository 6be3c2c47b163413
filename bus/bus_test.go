// bus/bus_test.go
package bus

import (
	"context"
	"sort"
	"testing"
	"time"
)

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("tracker", "fix"))

	conn.Publish(conn.NewMessage(T("tracker", "fix"), "hello", false))

	select {
	case got := <-sub.Channel():
		if got.Payload.(string) != "hello" {
			t.Errorf("expected payload 'hello', got %v", got.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for message")
	}
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("tracker", "link"), "persist", true))

	sub := conn.Subscribe(T("tracker", "link"))

	select {
	case got := <-sub.Channel():
		if got.Payload.(string) != "persist" {
			t.Errorf("expected retained payload 'persist', got %v", got.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for retained message")
	}
}

// -----------------------------------------------------------------------------
// Wildcards
// -----------------------------------------------------------------------------

func TestWildcard_SingleLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	s1 := c.Subscribe(T("a", "+", "c"))
	s2 := c.Subscribe(T("a", "+", "+"))
	s3 := c.Subscribe(T("a", "b", "+"))
	sNo := c.Subscribe(T("a", "+", "d"))

	c.Publish(b.NewMessage(T("a", "b", "c"), "m1", false))

	expectOneOf(t, s1, "m1")
	expectOneOf(t, s2, "m1")
	expectOneOf(t, s3, "m1")
	expectNoMessage(t, sNo)

	c.Publish(b.NewMessage(T("a", "x", "y"), "m2", false))

	expectOneOf(t, s2, "m2")
	expectNoMessage(t, s1)
	expectNoMessage(t, s3)
	expectNoMessage(t, sNo)

	c.Publish(b.NewMessage(T("a", "c"), "m3", false))
	expectNoMessage(t, s1)
	expectNoMessage(t, s2)
	expectNoMessage(t, s3)
	expectNoMessage(t, sNo)
}

func TestWildcard_MultiLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	sAHash := c.Subscribe(T("a", "#"))
	sHash := c.Subscribe(T("#"))
	sABHash := c.Subscribe(T("a", "b", "#"))
	sAExact := c.Subscribe(T("a"))

	c.Publish(b.NewMessage(T("a"), "p1", false))
	expectOneOf(t, sAHash, "p1")
	expectOneOf(t, sHash, "p1")
	expectOneOf(t, sAExact, "p1")
	expectNoMessage(t, sABHash)

	c.Publish(b.NewMessage(T("a", "b"), "p2", false))
	expectOneOf(t, sAHash, "p2")
	expectOneOf(t, sHash, "p2")
	expectOneOf(t, sABHash, "p2")
	expectNoMessage(t, sAExact)

	c.Publish(b.NewMessage(T("a", "b", "c"), "p3", false))
	expectOneOf(t, sAHash, "p3")
	expectOneOf(t, sHash, "p3")
	expectOneOf(t, sABHash, "p3")
	expectNoMessage(t, sAExact)
}

func TestWildcard_RetainedDelivery(t *testing.T) {
	b := NewBus(32)
	c := b.NewConnection("test")

	c.Publish(b.NewMessage(T("a"), "r0", true))
	c.Publish(b.NewMessage(T("a", "b"), "r1", true))
	c.Publish(b.NewMessage(T("a", "b", "c"), "r2", true))
	c.Publish(b.NewMessage(T("a", "x"), "r3", true))

	sAll := c.Subscribe(T("a", "#"))
	gotAll := drainPayloads(t, sAll, 4)
	assertUnorderedEqual(t, gotAll, []string{"r0", "r1", "r2", "r3"})

	sPlus := c.Subscribe(T("a", "+"))
	gotP := drainPayloads(t, sPlus, 2)
	assertUnorderedEqual(t, gotP, []string{"r1", "r3"})
}

func TestWildcard_RetainedClear(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	c.Publish(b.NewMessage(T("a", "b"), "keep", true))
	c.Publish(b.NewMessage(T("a", "y"), "other", true))

	c.Publish(b.NewMessage(T("a", "b"), nil, true))

	s := c.Subscribe(T("a", "#"))
	got := drainPayloads(t, s, 1)

	if len(got) != 1 || got[0] != "other" {
		t.Fatalf("expected only 'other' after clear, got %v", got)
	}
}

func TestWildcard_NoMatchCases(t *testing.T) {
	b := NewBus(8)
	c := b.NewConnection("test")

	s := c.Subscribe(T("a", "+", "c"))

	c.Publish(b.NewMessage(T("a", "c"), "x", false))
	expectNoMessage(t, s)

	c.Publish(b.NewMessage(T("a", "b", "d"), "y", false))
	expectNoMessage(t, s)
}

// -----------------------------------------------------------------------------
// Queue overflow
// -----------------------------------------------------------------------------

func TestQueueFullDropsOldest(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")

	s := c.Subscribe(T("q"))
	c.Publish(b.NewMessage(T("q"), "1", false))
	c.Publish(b.NewMessage(T("q"), "2", false))
	c.Publish(b.NewMessage(T("q"), "3", false))

	got := drainPayloads(t, s, 2)
	assertUnorderedEqual(t, got, []string{"2", "3"})
}

// -----------------------------------------------------------------------------
// Request–Reply
// -----------------------------------------------------------------------------

func TestRequestReply_RequestWait(t *testing.T) {
	b := NewBus(8)
	reqConn := b.NewConnection("requester")
	respConn := b.NewConnection("responder")

	reqTopic := T("uplink", "status", "get")
	respSub := respConn.Subscribe(reqTopic)
	defer respConn.Unsubscribe(respSub)

	go func() {
		if msg, ok := <-respSub.Channel(); ok {
			respConn.Reply(msg, "OK", false)
		}
	}()

	req := b.NewMessage(reqTopic, nil, false)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	reply, err := reqConn.RequestWait(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error waiting for reply: %v", err)
	}
	if got, ok := reply.Payload.(string); !ok || got != "OK" {
		t.Fatalf("unexpected reply payload: %#v", reply.Payload)
	}
	if len(req.ReplyTo) == 0 {
		t.Fatal("request lacks ReplyTo after RequestWait")
	}
	if !reply.Topic.Equal(req.ReplyTo) {
		t.Fatalf("reply topic %v != request ReplyTo %v", reply.Topic, req.ReplyTo)
	}
}

func TestRequestReply_Timeout(t *testing.T) {
	b := NewBus(8)
	reqConn := b.NewConnection("requester")

	req := b.NewMessage(T("service", "noop"), nil, false)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := reqConn.RequestWait(ctx, req); err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}

// -----------------------------------------------------------------------------
// Unsubscribe / disconnect
// -----------------------------------------------------------------------------

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus(8)
	c := b.NewConnection("test")

	s := c.Subscribe(T("a", "b"))
	c.Unsubscribe(s)

	c.Publish(b.NewMessage(T("a", "b"), "gone", false))
	if _, ok := <-s.Channel(); ok {
		t.Fatal("received on closed subscription")
	}
}

func TestDisconnectClosesAll(t *testing.T) {
	b := NewBus(8)
	c := b.NewConnection("test")

	s1 := c.Subscribe(T("a"))
	s2 := c.Subscribe(T("b"))
	c.Disconnect()

	if _, ok := <-s1.Channel(); ok {
		t.Fatal("s1 still open after disconnect")
	}
	if _, ok := <-s2.Channel(); ok {
		t.Fatal("s2 still open after disconnect")
	}
}

// -----------------------------------------------------------------------------
// helpers
// -----------------------------------------------------------------------------

func expectOneOf(t *testing.T, s *Subscription, want string) {
	t.Helper()
	select {
	case m := <-s.Channel():
		if got, ok := m.Payload.(string); !ok || got != want {
			t.Fatalf("expected %q, got %#v", want, m.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for %q", want)
	}
}

func expectNoMessage(t *testing.T, s *Subscription) {
	t.Helper()
	select {
	case m := <-s.Channel():
		t.Fatalf("unexpected message %#v", m.Payload)
	case <-time.After(20 * time.Millisecond):
	}
}

func drainPayloads(t *testing.T, s *Subscription, want int) []string {
	t.Helper()
	var got []string
	deadline := time.After(300 * time.Millisecond)
	for len(got) < want {
		select {
		case m := <-s.Channel():
			got = append(got, m.Payload.(string))
		case <-deadline:
			t.Fatalf("timeout: got %d of %d payloads (%v)", len(got), want, got)
		}
	}
	return got
}

func assertUnorderedEqual(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %v want %v", got, want)
	}
	g := append([]string(nil), got...)
	w := append([]string(nil), want...)
	sort.Strings(g)
	sort.Strings(w)
	for i := range g {
		if g[i] != w[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}
