package server

import (
	"bytes"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func newTestServer() *Server {
	return NewServer(log.New(&bytes.Buffer{}))
}

func TestRegisterAssignsIDs(t *testing.T) {
	s := newTestServer()
	a := s.RegisterClient("ann")
	b := s.RegisterClient("bob")

	if a.ID == b.ID {
		t.Fatalf("duplicate client ID %d", a.ID)
	}
	if s.Players() != 2 {
		t.Fatalf("players = %d, want 2", s.Players())
	}

	s.UnregisterClient(a.ID)
	if _, ok := <-a.EventsCh; ok {
		t.Fatal("events channel should be closed on unregister")
	}
	s.UnregisterClient(a.ID) // Unknown IDs are ignored
	if s.Players() != 1 {
		t.Fatalf("players = %d, want 1", s.Players())
	}
}

func TestShutdownNotifiesAndWaits(t *testing.T) {
	s := newTestServer()
	h := s.RegisterClient("ann")

	go func() {
		ev := <-h.EventsCh
		if ev.Type == EventServerShutdown {
			s.UnregisterClient(h.ID)
		}
	}()

	if left := s.Shutdown(2 * time.Second); left != 0 {
		t.Fatalf("%d clients still connected", left)
	}
}

func TestShutdownTimesOut(t *testing.T) {
	s := newTestServer()
	s.RegisterClient("stubborn")

	start := time.Now()
	if left := s.Shutdown(50 * time.Millisecond); left != 1 {
		t.Fatalf("left = %d, want 1", left)
	}
	if time.Since(start) > time.Second {
		t.Fatal("Shutdown ignored its timeout")
	}
}
