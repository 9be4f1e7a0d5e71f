package core

import "testing"

func TestMatchQueueFIFOOrder(t *testing.T) {
	q := newMatchQueue()

	q.Enqueue("a")
	q.Enqueue("b")
	q.Enqueue("c")

	a, b, ok := q.PopPair()
	if !ok || a != "a" || b != "b" {
		t.Fatalf("expected pair (a,b), got (%s,%s) ok=%v", a, b, ok)
	}
	if q.Len() != 1 || !q.Contains("c") {
		t.Fatalf("expected only c left queued, len=%d", q.Len())
	}

	if _, _, ok := q.PopPair(); ok {
		t.Fatal("pop with a single entry must not pair")
	}
}

func TestMatchQueueEnqueueIsIdempotent(t *testing.T) {
	q := newMatchQueue()

	if !q.Enqueue("a") {
		t.Fatal("first enqueue should succeed")
	}
	if q.Enqueue("a") {
		t.Fatal("second enqueue of the same connection should be rejected")
	}
	if q.Len() != 1 {
		t.Fatalf("expected single entry, got %d", q.Len())
	}

	// A connection can therefore never pair with itself.
	if _, _, ok := q.PopPair(); ok {
		t.Fatal("single waiting connection must not pair")
	}
}

func TestMatchQueueRemove(t *testing.T) {
	q := newMatchQueue()

	q.Enqueue("a")
	q.Enqueue("b")
	q.Enqueue("c")

	if !q.Remove("b") {
		t.Fatal("expected removal of queued entry")
	}
	if q.Remove("b") {
		t.Fatal("expected no-op removal of absent entry")
	}

	a, b, ok := q.PopPair()
	if !ok || a != "a" || b != "c" {
		t.Fatalf("expected pair (a,c) after removing b, got (%s,%s)", a, b)
	}
}

func TestPresenceRegistryJoinLeaveCount(t *testing.T) {
	p := newPresenceRegistry()

	if !p.Join("conn1", 7, "ada") {
		t.Fatal("first join should succeed")
	}
	if p.Join("conn1", 7, "ada") {
		t.Fatal("duplicate join should be rejected")
	}
	p.Join("conn2", 8, "bo")

	if p.Count() != 2 {
		t.Fatalf("expected count 2, got %d", p.Count())
	}

	participant, ok := p.Leave("conn1")
	if !ok || participant.UserID != 7 || participant.Name != "ada" {
		t.Fatalf("unexpected removed participant: %+v ok=%v", participant, ok)
	}
	if _, ok := p.Leave("conn1"); ok {
		t.Fatal("second leave should report absence")
	}
	if p.Count() != 1 {
		t.Fatalf("expected count 1, got %d", p.Count())
	}
}

func TestRoomTableOneRoomPerConnection(t *testing.T) {
	table := newRoomTable()
	a := NewClient("a")
	b := NewClient("b")
	c := NewClient("c")

	room, err := table.Create("r1", a, b)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if room.Other(a) != b || room.Other(b) != a || room.Other(c) != nil {
		t.Fatal("unexpected membership")
	}

	if _, err := table.Create("r2", a, c); err != ErrAlreadyInRoom {
		t.Fatalf("expected ErrAlreadyInRoom, got %v", err)
	}

	table.Delete(room)
	if _, ok := table.Get("r1"); ok {
		t.Fatal("room should be gone after delete")
	}
	if _, ok := table.ByClient("a"); ok {
		t.Fatal("membership should be gone after delete")
	}

	if _, err := table.Create("r2", a, c); err != nil {
		t.Fatalf("create after delete: %v", err)
	}
}
