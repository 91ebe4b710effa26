package spectate

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"

	"github.com/Garsondee/catacomb/internal/level"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Server routes the spectator HTTP API.
type Server struct {
	router   *way.Router
	hub      *Hub
	runner   *Runner
	params   level.Params
	upgrader websocket.Upgrader
	logger   log.FieldLogger
}

// NewServer builds the router. The spectator cap lives on hub.
func NewServer(hub *Hub, runner *Runner, params level.Params, logger log.FieldLogger) *Server {
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &Server{
		hub:    hub,
		runner: runner,
		params: params,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.WithField("component", "server"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", "/healthz", s.handleHealth)
	s.router.HandleFunc("GET", "/levels/:seed", s.handleLevel)
	s.router.HandleFunc("GET", "/watch", s.handleWatch)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// Health is the /healthz body.
type Health struct {
	Status     string `json:"status"`
	Run        string `json:"run"`
	Spectators int    `json:"spectators"`
	Tick       int    `json:"tick"`
	State      string `json:"state"`
	Rounds     int    `json:"rounds"`
	Wins       int    `json:"wins"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	f := s.runner.Latest()
	rounds, wins := s.runner.Stats()
	writeJSON(w, http.StatusOK, Health{
		Status:     "ok",
		Run:        s.runner.RunID().String(),
		Spectators: s.hub.Count(),
		Tick:       f.Tick,
		State:      f.State.String(),
		Rounds:     rounds,
		Wins:       wins,
	})
}

// LevelDoc is the /levels/:seed body.
type LevelDoc struct {
	Seed     int64              `json:"seed"`
	Size     int                `json:"size"`
	TileSize int                `json:"tile_size"`
	Attempts int                `json:"attempts"`
	Player   level.SpawnPoint   `json:"player"`
	Door     level.SpawnPoint   `json:"door"`
	Enemies  []level.SpawnPoint `json:"enemies"`
	Path     []level.Point      `json:"path"`
	Rows     []string           `json:"rows"`
}

// NewLevelDoc flattens a level for JSON.
func NewLevelDoc(lvl *level.Level) LevelDoc {
	return LevelDoc{
		Seed:     lvl.Seed,
		Size:     lvl.Grid.Size,
		TileSize: lvl.TileSize,
		Attempts: lvl.Attempts,
		Player:   lvl.Player,
		Door:     lvl.Door,
		Enemies:  lvl.Enemies,
		Path:     lvl.Path,
		Rows:     strings.Split(strings.TrimRight(lvl.String(), "\n"), "\n"),
	}
}

// handleLevel generates the level for a seed. Seed 0 is rejected because it
// means "time-seeded" and would not be reproducible.
func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	raw := way.Param(r.Context(), "seed")
	seed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || seed == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "seed must be a non-zero integer"})
		return
	}
	lvl, err := level.GenerateSeeded(s.params, seed)
	if err != nil {
		s.logger.WithError(err).WithField("seed", seed).Warn("level request failed")
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
		return
	}
	if r.URL.Query().Get("format") == "txt" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(lvl.String()))
		return
	}
	writeJSON(w, http.StatusOK, NewLevelDoc(lvl))
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	// Claim the slot before upgrading so the cap holds under concurrent
	// requests.
	sp, err := s.hub.Register()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: err.Error()})
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("websocket upgrade failed")
		s.hub.Unregister(sp.ID)
		return
	}
	s.hub.Send(sp.ID, s.runner.hello(sp.ID))

	go s.writePump(conn, sp)
	s.readPump(conn, sp)
}

// writePump is the only writer on conn; it exits when the hub closes the
// spectator's channel.
func (s *Server) writePump(conn *websocket.Conn, sp *Spectator) {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		conn.Close()
	}()
	for {
		select {
		case msg, ok := <-sp.Messages():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.logger.WithError(err).WithField("spectator", sp.ID).Debug("write failed")
				s.hub.Unregister(sp.ID)
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.hub.Unregister(sp.ID)
				return
			}
		}
	}
}

// readPump discards client messages and notices disconnects.
func (s *Server) readPump(conn *websocket.Conn, sp *Spectator) {
	defer s.hub.Unregister(sp.ID)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}
