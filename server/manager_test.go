package server

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func waitRoomGone(t *testing.T, m *RoomManager, id string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := m.Room(id); !ok {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("room %s still registered", id)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEmptyRoomStopsAfterLastLeave(t *testing.T) {
	m := NewRoomManager(testRoomConfig(), nil, nil, "arena-1", 4)
	defer m.Close()

	r, err := m.GetOrCreateRoom("side")
	if err != nil {
		t.Fatal(err)
	}
	a, b := newFakeConn(), newFakeConn()
	r.Attach("a", a)
	r.Attach("b", b)
	r.RequestLeave("a")
	r.OnInput("b", Inbound{Ping: true})
	waitFor(t, b, MsgPong)
	if _, ok := m.Room("side"); !ok {
		t.Fatalf("room with a remaining connection must keep running")
	}

	r.RequestLeave("b")
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("room goroutine still running after last connection left")
	}
	waitRoomGone(t, m, "side")
	if !r.Stopped() {
		t.Fatalf("room should report stopped")
	}
	if r.Attach("late", newFakeConn()) {
		t.Fatalf("attach to a stopped room should fail")
	}

	next, err := m.GetOrCreateRoom("side")
	if err != nil || next == r {
		t.Fatalf("reopening an idle room should create a fresh one, err %v", err)
	}
}

func TestDefaultRoomSurvivesIdle(t *testing.T) {
	m := NewRoomManager(testRoomConfig(), nil, nil, "arena-1", 4)
	defer m.Close()

	r, err := m.GetOrCreateRoom("arena-1")
	if err != nil {
		t.Fatal(err)
	}
	c := newFakeConn()
	r.Attach("c1", c)
	r.RequestLeave("c1")
	<-c.closed

	time.Sleep(50 * time.Millisecond)
	if got, ok := m.Room("arena-1"); !ok || got != r || r.Stopped() {
		t.Fatalf("default room should stay up with no connections")
	}
}

func TestRoomLimit(t *testing.T) {
	m := NewRoomManager(testRoomConfig(), nil, nil, "arena-1", 3)
	defer m.Close()

	if _, err := m.GetOrCreateRoom("arena-1"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := m.GetOrCreateRoom(fmt.Sprintf("junk-%d", i)); err != nil {
			t.Fatalf("room %d: %v", i, err)
		}
	}
	if _, err := m.GetOrCreateRoom("junk-2"); !errors.Is(err, errTooManyRooms) {
		t.Fatalf("err = %v, want errTooManyRooms", err)
	}
	if r, err := m.GetOrCreateRoom("junk-0"); err != nil || r == nil {
		t.Fatalf("existing rooms stay reachable at the limit: %v", err)
	}
	if got := len(m.ListRooms()); got != 3 {
		t.Fatalf("rooms = %d, want 3", got)
	}
}

func TestManagerCloseStopsRooms(t *testing.T) {
	m := NewRoomManager(testRoomConfig(), nil, nil, "arena-1", 4)
	r, _ := m.GetOrCreateRoom("arena-1")
	side, _ := m.GetOrCreateRoom("side")
	c := newFakeConn()
	side.Attach("c1", c)

	m.Close()

	if !r.Stopped() || !side.Stopped() {
		t.Fatalf("close should stop every room")
	}
	select {
	case <-c.closed:
	default:
		t.Fatalf("close should close attached connections")
	}
	if len(m.ListRooms()) != 0 {
		t.Fatalf("rooms left after close")
	}
}
