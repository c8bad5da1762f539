// apps/entropy-server/internal/httpserver/routes_assist.go
//
// Live assist sessions. A client posts the board it is showing after every
// change; the session's tracker keeps the surviving answers between posts.
//   - POST   /assist/{id}/board   → snapshot for the posted rows.
//   - POST   /assist/{id}/observe → debounced update, 202; read it with GET.
//   - GET    /assist/{id}         → last snapshot.
//   - DELETE /assist/{id}         → drop the session.
//
// At most maxTrackers sessions are kept. When the limit is hit, sessions idle
// for trackerIdle are evicted before a new one is refused with 503.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/entropy-server/internal/live"
	"github.com/robalobadob/wordle/apps/entropy-server/internal/store"
)

const (
	maxTrackers = 1024
	trackerIdle = 30 * time.Minute

	// maxListed bounds how many surviving answers a snapshot spells out.
	maxListed = 20
)

var errTooManySessions = errors.New("too many assist sessions")

// assistSession is a tracker plus the last time a request touched it.
// seen is guarded by Server.trackerMu.
type assistSession struct {
	t    *live.Tracker
	seen time.Time
}

type boardReq struct {
	Rows []live.Row `json:"rows"`
}

type boardRes struct {
	live.Snapshot
	Words []string `json:"words,omitempty"` // surviving answers, when few enough
	Text  string   `json:"text"`
}

func view(t *live.Tracker, snap live.Snapshot) boardRes {
	res := boardRes{Snapshot: snap, Text: snap.Text()}
	if snap.Candidates <= maxListed {
		res.Words = t.Candidates().Strings()
	}
	return res
}

// tracker returns the session's tracker. A missing session is created when
// create is set and is store.ErrNotFound otherwise.
func (s *Server) tracker(ctx context.Context, id string, create bool) (*live.Tracker, error) {
	s.trackerMu.Lock()
	defer s.trackerMu.Unlock()

	now := s.now()
	sess, err := s.trackers.Get(ctx, id)
	if err == nil {
		sess.seen = now
		return sess.t, nil
	}
	if !errors.Is(err, store.ErrNotFound) || !create {
		return nil, err
	}
	if s.trackers.Len() >= s.maxTrackers {
		s.evictIdle(ctx, now)
		if s.trackers.Len() >= s.maxTrackers {
			return nil, errTooManySessions
		}
	}

	t := live.NewTracker(s.lists.Answers, s.lists.IsAllowed, func(snap live.Snapshot) {
		log.Debug().
			Str("session", id).
			Int("candidates", snap.Candidates).
			Str("typed", snap.Typed).
			Msg("assist snapshot changed")
	})
	if err := s.trackers.Save(ctx, id, &assistSession{t: t, seen: now}); err != nil {
		return nil, err
	}
	return t, nil
}

// evictIdle drops sessions untouched for trackerIdle. Callers hold trackerMu.
func (s *Server) evictIdle(ctx context.Context, now time.Time) {
	stale := map[string]*assistSession{}
	s.trackers.Range(func(id string, sess *assistSession) bool {
		if now.Sub(sess.seen) >= trackerIdle {
			stale[id] = sess
		}
		return true
	})
	for id, sess := range stale {
		sess.t.Close()
		_ = s.trackers.Delete(ctx, id)
	}
	if len(stale) > 0 {
		log.Info().Int("evicted", len(stale)).Int("left", s.trackers.Len()).Msg("idle assist sessions dropped")
	}
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	var req boardReq
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.tracker(r.Context(), chi.URLParam(r, "id"), true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := t.Update(req.Rows)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view(t, snap))
}

func (s *Server) handleObserve(w http.ResponseWriter, r *http.Request) {
	var req boardReq
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	t, err := s.tracker(r.Context(), id, true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t.Observe(req.Rows, func(_ live.Snapshot, err error) {
		if err != nil {
			log.Debug().Err(err).Str("session", id).Msg("observed board rejected")
		}
	})
	writeJSON(w, http.StatusAccepted, map[string]int64{"debounceMs": live.DefaultDebounce.Milliseconds()})
}

func (s *Server) handleAssistGet(w http.ResponseWriter, r *http.Request) {
	t, err := s.tracker(r.Context(), chi.URLParam(r, "id"), false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view(t, t.Snapshot()))
}

func (s *Server) handleAssistEnd(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.trackerMu.Lock()
	sess, err := s.trackers.Get(r.Context(), id)
	if err == nil {
		sess.t.Close()
		err = s.trackers.Delete(r.Context(), id)
	}
	s.trackerMu.Unlock()
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Close cancels pending debounced work in every assist session.
func (s *Server) Close() {
	s.trackerMu.Lock()
	defer s.trackerMu.Unlock()
	s.trackers.Range(func(_ string, sess *assistSession) bool {
		sess.t.Close()
		return true
	})
}
