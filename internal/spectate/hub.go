// Package spectate streams a bot-driven session to websocket spectators.
package spectate

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Spectator is one connected watcher. Messages queue on a buffered channel;
// when it is full new messages are dropped for that spectator only.
type Spectator struct {
	ID      uuid.UUID
	send    chan []byte
	dropped int
}

// Messages is closed when the spectator is unregistered.
func (s *Spectator) Messages() <-chan []byte { return s.send }

// Register errors.
var (
	ErrHubFull   = errors.New("spectate: too many spectators")
	ErrHubClosed = errors.New("spectate: hub closed")
)

// Hub fans messages out to spectators.
type Hub struct {
	mu         sync.Mutex
	spectators map[uuid.UUID]*Spectator
	buffer     int
	limit      int
	closed     bool
	logger     log.FieldLogger
}

// NewHub returns a hub whose spectators queue up to buffer messages. limit
// caps concurrent spectators; 0 means unlimited.
func NewHub(buffer, limit int, logger log.FieldLogger) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Hub{
		spectators: make(map[uuid.UUID]*Spectator),
		buffer:     buffer,
		limit:      limit,
		logger:     logger.WithField("component", "hub"),
	}
}

// Register adds a spectator. It fails with ErrHubClosed after Close and with
// ErrHubFull once limit spectators are connected.
func (h *Hub) Register() (*Spectator, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHubClosed
	}
	if h.limit > 0 && len(h.spectators) >= h.limit {
		return nil, ErrHubFull
	}
	sp := &Spectator{ID: uuid.New(), send: make(chan []byte, h.buffer)}
	h.spectators[sp.ID] = sp
	h.logger.WithField("spectator", sp.ID).Info("spectator joined")
	return sp, nil
}

// Unregister removes a spectator and closes its channel. Unknown ids are
// ignored.
func (h *Hub) Unregister(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sp, ok := h.spectators[id]
	if !ok {
		return
	}
	delete(h.spectators, id)
	close(sp.send)
	h.logger.WithFields(log.Fields{"spectator": id, "dropped": sp.dropped}).Info("spectator left")
}

// Send queues msg for one spectator and reports whether it was accepted.
func (h *Hub) Send(id uuid.UUID, msg []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	sp, ok := h.spectators[id]
	if !ok {
		return false
	}
	return h.offer(sp, msg)
}

// Broadcast queues msg for every spectator without blocking.
func (h *Hub) Broadcast(msg []byte) (delivered, dropped int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sp := range h.spectators {
		if h.offer(sp, msg) {
			delivered++
		} else {
			dropped++
		}
	}
	return delivered, dropped
}

func (h *Hub) offer(sp *Spectator, msg []byte) bool {
	select {
	case sp.send <- msg:
		return true
	default:
		sp.dropped++
		return false
	}
}

// Count is the number of connected spectators.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.spectators)
}

// Close unregisters everyone and refuses new spectators.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, sp := range h.spectators {
		delete(h.spectators, id)
		close(sp.send)
	}
}
