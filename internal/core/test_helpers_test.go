package core

import (
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event, kind EventKind) {
	t.Helper()

	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event received: %+v", ev)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func joinedClient(t *testing.T, hub *Hub, id, name string, userID int64) *Client {
	t.Helper()

	c := NewClient(id)
	hub.RegisterClient(c)
	c.Commands <- &Command{Kind: CommandJoin, UserID: userID, Name: name}
	mustEvent(t, c.Events, EventJoinAck)
	return c
}

func pairClients(t *testing.T, hub *Hub, a, b *Client) (roomID string) {
	t.Helper()

	a.Commands <- &Command{Kind: CommandMatchRequest}
	b.Commands <- &Command{Kind: CommandMatchRequest}

	evA := mustEvent(t, a.Events, EventMatched)
	evB := mustEvent(t, b.Events, EventMatched)
	if evA.Room != evB.Room {
		t.Fatalf("matched into different rooms: %s vs %s", evA.Room, evB.Room)
	}
	return evA.Room
}
