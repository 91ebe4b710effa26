package spectate

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func mustRegister(t *testing.T, h *Hub) *Spectator {
	t.Helper()
	sp, err := h.Register()
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return sp
}

func TestHub_BroadcastDropsWhenFull(t *testing.T) {
	h := NewHub(1, 0, quietLogger())
	sp := mustRegister(t, h)
	if d, x := h.Broadcast([]byte("a")); d != 1 || x != 0 {
		t.Fatalf("expected 1 delivered, got %d delivered %d dropped", d, x)
	}
	if d, x := h.Broadcast([]byte("b")); d != 0 || x != 1 {
		t.Fatalf("expected 1 dropped, got %d delivered %d dropped", d, x)
	}
	if got := string(<-sp.Messages()); got != "a" {
		t.Fatalf("expected first message to survive, got %q", got)
	}
	if !h.Send(sp.ID, []byte("c")) {
		t.Fatal("expected direct send to fit after draining")
	}
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	h := NewHub(4, 0, quietLogger())
	sp := mustRegister(t, h)
	other := mustRegister(t, h)
	if h.Count() != 2 {
		t.Fatalf("expected 2 spectators, got %d", h.Count())
	}
	h.Unregister(sp.ID)
	h.Unregister(sp.ID)
	if _, ok := <-sp.Messages(); ok {
		t.Fatal("expected closed channel")
	}
	if h.Send(sp.ID, []byte("x")) {
		t.Fatal("send to a departed spectator should fail")
	}
	if h.Send(uuid.New(), []byte("x")) {
		t.Fatal("send to an unknown id should fail")
	}
	if d, _ := h.Broadcast([]byte("y")); d != 1 {
		t.Fatalf("expected only the remaining spectator, got %d", d)
	}
	if other.ID == sp.ID {
		t.Fatal("expected distinct spectator ids")
	}
}

func TestHub_CloseRefusesNewSpectators(t *testing.T) {
	h := NewHub(4, 0, quietLogger())
	sp := mustRegister(t, h)
	h.Close()
	if _, ok := <-sp.Messages(); ok {
		t.Fatal("expected Close to close existing channels")
	}
	if got, err := h.Register(); got != nil || !errors.Is(err, ErrHubClosed) {
		t.Fatalf("expected ErrHubClosed after Close, got %v", err)
	}
	if h.Count() != 0 {
		t.Fatalf("expected no spectators, got %d", h.Count())
	}
}

func TestHub_LimitHoldsUnderConcurrentRegister(t *testing.T) {
	const limit, callers = 3, 32
	h := NewHub(4, limit, quietLogger())

	var wg sync.WaitGroup
	var mu sync.Mutex
	joined, full := 0, 0
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := h.Register()
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				joined++
			case errors.Is(err, ErrHubFull):
				full++
			default:
				t.Errorf("unexpected register error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if joined != limit || full != callers-limit {
		t.Fatalf("expected %d joined and %d refused, got %d and %d", limit, callers-limit, joined, full)
	}
	if h.Count() != limit {
		t.Fatalf("expected %d spectators, got %d", limit, h.Count())
	}
}

func TestHub_LimitFreesSlotOnUnregister(t *testing.T) {
	h := NewHub(4, 1, quietLogger())
	sp := mustRegister(t, h)
	if _, err := h.Register(); !errors.Is(err, ErrHubFull) {
		t.Fatalf("expected ErrHubFull, got %v", err)
	}
	h.Unregister(sp.ID)
	mustRegister(t, h)
}
