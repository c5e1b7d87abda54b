package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"thai-reading-adventure/internal/app"
	"thai-reading-adventure/internal/domain"
)

// WSHandler drives one Navigator per websocket connection and pushes a fresh view after
// every action, player change and catalog change.
type WSHandler struct {
	game     *app.Game
	upgrader websocket.Upgrader
}

// NewWSHandler accepts same-origin browsers, clients without an Origin header and pages
// served from allowedOrigins.
func NewWSHandler(game *app.Game, allowedOrigins ...string) *WSHandler {
	return &WSHandler{
		game: game,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[strings.ToLower(strings.TrimSuffix(origin, "/"))] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type worldPayload struct {
	WorldID string `json:"worldId"`
}

type levelPayload struct {
	LevelIndex int `json:"levelIndex"`
}

type answerPayload struct {
	RoundID string `json:"roundId"`
	Option  string `json:"option"`
}

type renamePayload struct {
	Name string `json:"name"`
}

type suggestPayload struct {
	CorrectAnswer string `json:"correctAnswer"`
}

type suggestionResult struct {
	Distractors []string `json:"distractors"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into a Navigator.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	nav := app.NewNavigator(h.game)
	players, cancelPlayers := h.game.SubscribePlayer()
	defer cancelPlayers()
	worlds, cancelWorlds := h.game.SubscribeWorlds()
	defer cancelWorlds()
	// initial snapshots; the first view carries them
	<-players
	<-worlds

	out := newOutbox(16)
	closeSignals := make(chan struct{})
	updatesDone := make(chan struct{})

	go out.run(func(msg outboundMessage[any]) error { return conn.WriteJSON(msg) })

	go func() {
		defer close(updatesDone)
		for {
			select {
			case _, ok := <-players:
				if !ok {
					return
				}
			case _, ok := <-worlds:
				if !ok {
					return
				}
			case <-closeSignals:
				return
			}
			if !out.push(outboundMessage[any]{Type: "view", Payload: nav.View()}) {
				return
			}
		}
	}()

	if out.push(outboundMessage[any]{Type: "view", Payload: nav.View()}) {
		for {
			var inbound inboundMessage
			if err := conn.ReadJSON(&inbound); err != nil {
				break
			}
			reply, err := h.dispatch(nav, inbound)
			if err != nil {
				reply = &outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
			if reply != nil && !out.push(*reply) {
				break
			}
			if err == nil && !out.push(outboundMessage[any]{Type: "view", Payload: nav.View()}) {
				break
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	out.close()
}

// outbox serializes writes to one connection. push never blocks once the writer has
// stopped after a write error.
type outbox struct {
	send chan outboundMessage[any]
	done chan struct{}
}

func newOutbox(size int) *outbox {
	return &outbox{
		send: make(chan outboundMessage[any], size),
		done: make(chan struct{}),
	}
}

func (o *outbox) run(write func(outboundMessage[any]) error) {
	defer close(o.done)
	for msg := range o.send {
		if err := write(msg); err != nil {
			log.Printf("ws write error: %v", err)
			return
		}
	}
}

func (o *outbox) push(msg outboundMessage[any]) bool {
	select {
	case o.send <- msg:
		return true
	case <-o.done:
		return false
	}
}

// close stops the writer once queued messages are flushed and waits for it.
func (o *outbox) close() {
	close(o.send)
	<-o.done
}

// dispatch applies one client action. It may return an extra message sent before the view.
func (h *WSHandler) dispatch(nav *app.Navigator, inbound inboundMessage) (*outboundMessage[any], error) {
	switch inbound.Type {
	case "selectWorld":
		var p worldPayload
		if err := decode(inbound.Payload, &p); err != nil {
			return nil, err
		}
		return nil, nav.SelectWorld(p.WorldID)
	case "selectLevel":
		var p levelPayload
		if err := decode(inbound.Payload, &p); err != nil {
			return nil, err
		}
		return nil, nav.SelectLevel(p.LevelIndex)
	case "answer":
		var p answerPayload
		if err := decode(inbound.Payload, &p); err != nil {
			return nil, err
		}
		result, err := nav.Answer(p.RoundID, p.Option)
		if err != nil {
			return nil, err
		}
		return &outboundMessage[any]{Type: "result", Payload: result}, nil
	case "nextLevel":
		return nil, nav.NextLevel()
	case "backToLevels":
		nav.BackToLevels()
		return nil, nil
	case "backToWorlds":
		nav.BackToWorlds()
		return nil, nil
	case "openLevelCreation":
		var p worldPayload
		if err := decode(inbound.Payload, &p); err != nil {
			return nil, err
		}
		return nil, nav.OpenLevelCreation(p.WorldID)
	case "backFromLevelCreation":
		nav.BackFromLevelCreation()
		return nil, nil
	case "suggestDistractors":
		var p suggestPayload
		if err := decode(inbound.Payload, &p); err != nil {
			return nil, err
		}
		return &outboundMessage[any]{Type: "suggestion", Payload: suggestionResult{
			Distractors: h.game.SuggestDistractors(p.CorrectAnswer),
		}}, nil
	case "saveLevel":
		var draft domain.LevelDraft
		if err := decode(inbound.Payload, &draft); err != nil {
			return nil, err
		}
		level, err := nav.SaveLevel(draft)
		if err != nil {
			return nil, err
		}
		return &outboundMessage[any]{Type: "levelSaved", Payload: level}, nil
	case "rename":
		var p renamePayload
		if err := decode(inbound.Payload, &p); err != nil {
			return nil, err
		}
		_, err := h.game.RenamePlayer(p.Name)
		return nil, err
	default:
		return nil, errUnsupported
	}
}

var (
	errUnsupported = errors.New("unsupported message type")
	errBadPayload  = errors.New("invalid payload")
)

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errBadPayload
	}
	return nil
}
