package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"thai-reading-adventure/internal/app"
	"thai-reading-adventure/internal/domain"
)

// NewRouter mounts the websocket UI bridge and the read-mostly JSON endpoints. Browser
// front ends served from allowedOrigins may call the API cross-origin.
func NewRouter(game *app.Game, allowedOrigins ...string) http.Handler {
	ws := NewWSHandler(game, allowedOrigins...)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws", ws.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/player", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, game.Player())
		})
		r.Get("/worlds", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, game.Worlds())
		})
		r.Get("/worlds/{worldID}", func(w http.ResponseWriter, r *http.Request) {
			world, err := game.World(chi.URLParam(r, "worldID"))
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, world)
		})
		r.Get("/distractors", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, suggestionResult{
				Distractors: game.SuggestDistractors(r.URL.Query().Get("answer")),
			})
		})
		r.Post("/levels", func(w http.ResponseWriter, r *http.Request) {
			var draft domain.LevelDraft
			if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
				writeError(w, errBadPayload)
				return
			}
			level, err := game.AddLevel(draft)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, level)
		})
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrWorldNotFound), errors.Is(err, domain.ErrLevelNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidLevel), errors.Is(err, errBadPayload):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNoWorlds), errors.Is(err, domain.ErrLevelLocked), errors.Is(err, domain.ErrWorldLocked):
		status = http.StatusConflict
	}
	writeJSON(w, status, errorPayload{Message: err.Error()})
}
