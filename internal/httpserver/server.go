// apps/entropy-server/internal/httpserver/server.go
//
// HTTP server wiring for the entropy scorer.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Scoring endpoints: POST /score, POST /filter, POST /rank.
//   - Simulated games: POST /game/new, POST /game/guess, GET /game/{id}.
//   - Live assist sessions: POST /assist/{id}/board, POST /assist/{id}/observe,
//     GET and DELETE /assist/{id}.
//   - Mapping core errors to status codes with a {"error": "..."} body.
//
// Notes:
//   - CORS is origin-aware for a single configured origin.
//   - Sessions (games, trackers) live in memory only; assist sessions are
//     capped (see routes_assist.go).

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/entropy-server/internal/config"
	"github.com/robalobadob/wordle/apps/entropy-server/internal/entropy"
	"github.com/robalobadob/wordle/apps/entropy-server/internal/game"
	"github.com/robalobadob/wordle/apps/entropy-server/internal/rankcache"
	"github.com/robalobadob/wordle/apps/entropy-server/internal/store"
	"github.com/robalobadob/wordle/apps/entropy-server/internal/words"
)

// maxBody bounds request bodies; board and history payloads are small.
const maxBody = 1 << 20

var errBadJSON = errors.New("bad_json")

// Server bundles the router, word lists, optional rank cache and the
// in-memory session stores.
type Server struct {
	r     *chi.Mux
	cfg   config.Config
	lists *words.Lists
	cache *rankcache.Cache // nil when RANK_CACHE_DSN is unset

	games    store.Store[*game.Game]
	trackers store.Store[*assistSession]

	gameMu      sync.Mutex // serialises ApplyGuess across requests
	trackerMu   sync.Mutex // guards tracker get-or-create and eviction
	maxTrackers int

	now func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
// cache may be nil.
func New(cfg config.Config, lists *words.Lists, cache *rankcache.Cache) *Server {
	if cfg.RankTopK <= 0 {
		cfg.RankTopK = config.DefaultTopK
	}
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		lists:    lists,
		cache:    cache,
		games:    store.NewMemoryStore[*game.Game](),
		trackers: store.NewMemoryStore[*assistSession](),
		now:      time.Now,

		maxTrackers: maxTrackers,
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(timeout))
	s.r.Use(jsonContentType)
	s.r.Use(cors(cfg.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"entropy-server","endpoints":["/health","POST /score","POST /filter","POST /rank","POST /game/new","POST /game/guess","POST /assist/{id}/board","POST /assist/{id}/observe","GET /assist/{id}"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		a, g := s.lists.Stats()
		writeJSON(w, http.StatusOK, map[string]int{"answers": a, "allowed": g, "guesses": len(s.lists.Guesses)})
	})

	// --- scoring ---
	s.r.Post("/score", s.handleScore)
	s.r.Post("/filter", s.handleFilter)
	s.r.Post("/rank", s.handleRank)

	// --- sessions ---
	s.r.Post("/game/new", s.handleNewGame)
	s.r.Post("/game/guess", s.handleGuess)
	s.r.Get("/game/{id}", s.handleGetGame)
	s.r.Route("/assist/{id}", func(r chi.Router) {
		r.Post("/board", s.handleBoard)
		r.Post("/observe", s.handleObserve)
		r.Get("/", s.handleAssistGet)
		r.Delete("/", s.handleAssistEnd)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- helpers -----------------------------------

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeError maps err to a status code and writes {"error": "..."}.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	ev := log.Debug()
	if status >= 500 {
		ev = log.Error()
	}
	ev.Err(err).
		Str("path", r.URL.Path).
		Str("requestId", chimw.GetReqID(r.Context())).
		Int("status", status).
		Msg("request failed")
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadJSON),
		errors.Is(err, entropy.ErrInvalidInput),
		errors.Is(err, entropy.ErrNoGuesses),
		errors.Is(err, game.ErrNotAllowed),
		errors.Is(err, game.ErrFinished):
		return http.StatusBadRequest
	case errors.Is(err, entropy.ErrNoCandidates):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errTooManySessions),
		errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
