package spectate

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Garsondee/catacomb/internal/game"
	"github.com/Garsondee/catacomb/internal/level"
)

type rig struct {
	hub    *Hub
	runner *Runner
	srv    *Server
}

func newRig(t *testing.T, maxSpectators int) *rig {
	t.Helper()
	cfg := game.DefaultSimConfig()
	cfg.Session.Seed = 5
	hub := NewHub(64, maxSpectators, quietLogger())
	runner, err := NewRunner(cfg, "Bot", 2, hub, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	return &rig{hub: hub, runner: runner, srv: NewServer(hub, runner, cfg.Level, quietLogger())}
}

func (r *rig) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	r := newRig(t, 0)
	rec := r.get(t, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var h Health
	if err := json.Unmarshal(rec.Body.Bytes(), &h); err != nil {
		t.Fatal(err)
	}
	if h.Status != "ok" || h.Run != r.runner.RunID().String() {
		t.Fatalf("unexpected health %+v", h)
	}
	if h.State != "countdown(3)" {
		t.Fatalf("expected the bot round to be counting down, got %s", h.State)
	}
}

func TestLevels_DeterministicPerSeed(t *testing.T) {
	r := newRig(t, 0)
	first := r.get(t, "/levels/42")
	second := r.get(t, "/levels/42")
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", first.Code, first.Body)
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Fatal("expected identical bodies for the same seed")
	}

	var doc LevelDoc
	if err := json.Unmarshal(first.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	want, err := level.GenerateSeeded(level.DefaultParams(), 42)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Seed != 42 || doc.Size != want.Grid.Size || doc.Door != want.Door || doc.Player != want.Player {
		t.Fatalf("document does not match the generator: %+v", doc)
	}
	if strings.Join(doc.Rows, "\n")+"\n" != want.String() {
		t.Fatalf("expected rows\n%s\ngot\n%s", want.String(), strings.Join(doc.Rows, "\n"))
	}
	if len(doc.Path) == 0 || doc.Path[0] != want.Player.Point() {
		t.Fatal("expected a solver path starting at the player")
	}
}

func TestLevels_TextFormat(t *testing.T) {
	r := newRig(t, 0)
	rec := r.get(t, "/levels/7?format=txt")
	want, _ := level.GenerateSeeded(level.DefaultParams(), 7)
	if rec.Body.String() != want.String() {
		t.Fatalf("expected ascii level, got\n%s", rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
}

func TestLevels_BadSeed(t *testing.T) {
	r := newRig(t, 0)
	for _, path := range []string{"/levels/abc", "/levels/0"} {
		if rec := r.get(t, path); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, rec.Code)
		}
	}
	if rec := r.get(t, "/nope"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route, got %d", rec.Code)
	}
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/watch"
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var m Message
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestWatch_StreamsFrames(t *testing.T) {
	r := newRig(t, 0)
	ts := httptest.NewServer(r.srv)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	hello := readMessage(t, conn)
	if hello.Type != "hello" || hello.Spectator == nil || hello.Frame == nil {
		t.Fatalf("expected hello with a frame, got %+v", hello)
	}
	if hello.Run != r.runner.RunID() {
		t.Fatal("expected the runner's run id")
	}

	for i := 0; i < 70; i++ {
		r.runner.Step()
	}
	var frames, transitions int
	for frames == 0 || transitions == 0 {
		m := readMessage(t, conn)
		switch m.Type {
		case "frame":
			frames++
			if m.Frame.Tick%2 != 0 {
				t.Fatalf("expected frames every 2 ticks, got tick %d", m.Frame.Tick)
			}
			if len(m.Frame.Actors) == 0 || m.Frame.Actors[0].Kind != "player" {
				t.Fatal("expected the player first in the frame")
			}
		case "transition":
			transitions++
			if m.Transition.From.Phase != game.PhaseCountdown {
				t.Fatalf("expected a countdown transition, got %+v", m.Transition)
			}
		}
	}

	r.hub.Close()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func TestWatch_SpectatorLimit(t *testing.T) {
	r := newRig(t, 1)
	ts := httptest.NewServer(r.srv)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	readMessage(t, conn)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	if err == nil {
		t.Fatal("expected the second spectator to be refused")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %v", resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func TestWatch_DisconnectUnregisters(t *testing.T) {
	r := newRig(t, 0)
	ts := httptest.NewServer(r.srv)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	if err != nil {
		t.Fatal(err)
	}
	readMessage(t, conn)
	conn.Close()

	deadline := time.Now().Add(3 * time.Second)
	for r.hub.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected the spectator to be unregistered after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
