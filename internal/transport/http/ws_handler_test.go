package http

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"thai-reading-adventure/internal/app"
	"thai-reading-adventure/internal/domain"
	"thai-reading-adventure/internal/infra/memory"
)

func TestWebSocketAnswerFlow(t *testing.T) {
	server := httptest.NewServer(NewRouter(newTestGame()))
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	view := readView(t, conn, app.ScreenWorldSelection)
	if len(view.Worlds) != 4 {
		t.Fatalf("expected 4 worlds, got %d", len(view.Worlds))
	}

	send(t, conn, "selectWorld", map[string]any{"worldId": "cave"})
	readView(t, conn, app.ScreenLevelSelection)

	send(t, conn, "selectLevel", map[string]any{"levelIndex": 0})
	view = readView(t, conn, app.ScreenGame)
	if view.Round == nil || len(view.Round.Options) != 3 {
		t.Fatalf("expected round with 3 options, got %+v", view.Round)
	}

	send(t, conn, "answer", map[string]any{"roundId": view.Round.ID, "option": "จุด"})
	resultSeen := false
	for i := 0; i < 4 && !resultSeen; i++ {
		typ, payload := readNext(t, conn)
		if typ != "result" {
			continue
		}
		var result domain.Result
		if err := json.Unmarshal(payload, &result); err != nil {
			t.Fatalf("decode result: %v", err)
		}
		if !result.IsWin || result.StarsEarned != 3 || result.CoinsCredited != 30 {
			t.Fatalf("unexpected result %+v", result)
		}
		resultSeen = true
	}
	if !resultSeen {
		t.Fatalf("expected a result message")
	}
	view = readView(t, conn, app.ScreenResult)
	if view.Player.Stars != 3 || view.Player.Coins != 30 {
		t.Fatalf("expected player totals 3/30, got %+v", view.Player)
	}
}

func TestWebSocketRejectsStaleRound(t *testing.T) {
	server := httptest.NewServer(NewRouter(newTestGame()))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readView(t, conn, app.ScreenWorldSelection)

	send(t, conn, "answer", map[string]any{"roundId": "nope", "option": "x"})
	for {
		typ, payload := readNext(t, conn)
		if typ != "error" {
			continue
		}
		if !strings.Contains(string(payload), domain.ErrRoundNotActive.Error()) {
			t.Fatalf("expected round error, got %s", payload)
		}
		return
	}
}

func TestAddLevelEndpoint(t *testing.T) {
	game := newTestGame()
	server := httptest.NewServer(NewRouter(game))
	defer server.Close()

	body := `{"worldId":"town","question":"ท้องฟ้าสีอะไร?","correctAnswer":"สีฟ้า","distractors":["สีแดง"]}`
	resp, err := http.Post(server.URL+"/api/levels", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if got := len(game.Player().Progress["town"]); got != 3 {
		t.Fatalf("expected progress resized to 3 levels, got %d", got)
	}

	resp, err = http.Post(server.URL+"/api/levels", "application/json", strings.NewReader(`{"worldId":"town","question":"q","correctAnswer":"a"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for a single option, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/api/worlds/atlantis")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	server := httptest.NewServer(NewRouter(newTestGame(), "http://localhost:3000"))
	defer server.Close()

	req, _ := http.NewRequest(http.MethodOptions, server.URL+"/api/levels", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}

	resp, err = http.Get(server.URL + "/api/player")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS header without Origin, got %q", got)
	}
}

func TestWebSocketChecksOrigin(t *testing.T) {
	server := httptest.NewServer(NewRouter(newTestGame(), "http://localhost:3000"))
	defer server.Close()
	u := "ws" + server.URL[len("http"):] + "/ws"

	header := http.Header{"Origin": []string{"http://evil.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(u, header)
	if err == nil {
		conn.Close()
		t.Fatalf("expected foreign origin to be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign origin, got %v", resp)
	}

	for _, origin := range []string{"http://localhost:3000", server.URL} {
		conn, _, err := websocket.DefaultDialer.Dial(u, http.Header{"Origin": []string{origin}})
		if err != nil {
			t.Fatalf("dial from %s: %v", origin, err)
		}
		readView(t, conn, app.ScreenWorldSelection)
		conn.Close()
	}
}

func TestWebSocketPushesCatalogChanges(t *testing.T) {
	game := newTestGame()
	server := httptest.NewServer(NewRouter(game))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readView(t, conn, app.ScreenWorldSelection)
	send(t, conn, "selectWorld", map[string]any{"worldId": "town"})
	if view := readView(t, conn, app.ScreenLevelSelection); len(view.Levels) != 2 {
		t.Fatalf("expected 2 town levels, got %d", len(view.Levels))
	}

	if _, err := game.AddLevel(domain.LevelDraft{
		WorldID:       "town",
		Question:      "ฉันดื่ม ____",
		CorrectAnswer: "นม",
		Distractors:   []string{"ทราย"},
	}); err != nil {
		t.Fatalf("add level: %v", err)
	}
	for i := 0; i < 5; i++ {
		if view := readView(t, conn, app.ScreenLevelSelection); len(view.Levels) == 3 {
			return
		}
	}
	t.Fatalf("expected a pushed view with the new level")
}

func TestOutboxStopsAfterWriteError(t *testing.T) {
	out := newOutbox(1)
	go out.run(func(outboundMessage[any]) error { return errors.New("broken pipe") })

	out.push(outboundMessage[any]{Type: "view"})
	<-out.done

	pushed := make(chan int, 1)
	go func() {
		n := 0
		for i := 0; i < 3; i++ {
			if out.push(outboundMessage[any]{Type: "view"}) {
				n++
			}
		}
		pushed <- n
	}()
	select {
	case n := <-pushed:
		if n > 1 {
			t.Fatalf("expected at most one buffered push after the writer stopped, got %d", n)
		}
	case <-time.After(time.Second):
		t.Fatalf("push blocked after the writer stopped")
	}
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	return msg.Type, msg.Payload
}

// readView skips messages until a view for the given screen arrives.
func readView(t *testing.T, conn *websocket.Conn, screen app.Screen) app.View {
	t.Helper()
	for i := 0; i < 10; i++ {
		typ, payload := readNext(t, conn)
		if typ == "error" {
			t.Fatalf("unexpected error: %s", payload)
		}
		if typ != "view" {
			continue
		}
		var view app.View
		if err := json.Unmarshal(payload, &view); err != nil {
			t.Fatalf("decode view: %v", err)
		}
		if view.Screen == screen {
			return view
		}
	}
	t.Fatalf("no view for screen %s", screen)
	return app.View{}
}

func newTestGame() *app.Game {
	return app.NewGame(context.Background(), memory.NewStorage(), app.WithRand(rand.New(rand.NewSource(1))))
}
