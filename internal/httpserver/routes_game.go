// apps/entropy-server/internal/httpserver/routes_game.go
//
// Simulated games: a hidden answer that answers guesses with feedback, so a
// client can watch the candidate set shrink and each guess's entropy.
//   - POST /game/new   → start a game ("random", "daily" or a fixed answer).
//   - POST /game/guess → apply a guess; returns feedback, score, state.
//   - GET  /game/{id}  → turns so far (answer revealed once finished).
//
// Daily games draw their answer from HMAC(DAILY_SALT, date) over the answer
// list, so every client gets the same word on the same UTC day.

package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/entropy-server/internal/daily"
	"github.com/robalobadob/wordle/apps/entropy-server/internal/entropy"
	"github.com/robalobadob/wordle/apps/entropy-server/internal/game"
)

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode   string `json:"mode"`   // "random" (default) | "daily" | "fixed"
	Answer string `json:"answer"` // fixed answer (testing); implies mode "fixed"
}
type newGameRes struct {
	GameID     string `json:"gameId"`
	Mode       string `json:"mode"`
	Date       string `json:"date,omitempty"`
	Rows       int    `json:"rows"`
	Candidates int    `json:"candidates"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	mode := strings.ToLower(strings.TrimSpace(req.Mode))
	if req.Answer != "" {
		mode = "fixed"
	}
	var (
		answer entropy.Word
		date   string
		err    error
	)
	switch mode {
	case "", "random":
		mode = "random"
		answer = s.lists.RandomAnswer()
	case "daily":
		var ok bool
		date, answer, ok = daily.Answer(s.now(), s.cfg.DailySalt, s.lists.Answers)
		if !ok {
			writeError(w, r, entropy.ErrNoCandidates)
			return
		}
	case "fixed":
		if answer, err = entropy.ParseWord(req.Answer); err != nil {
			writeError(w, r, err)
			return
		}
	default:
		writeError(w, r, fmt.Errorf("%w: unknown mode %q", entropy.ErrInvalidInput, req.Mode))
		return
	}

	g, err := game.New(mode, answer, s.lists.Answers)
	if err != nil {
		writeError(w, r, err)
		return
	}
	g.Date = date
	if err := s.games.Save(r.Context(), g.ID, g); err != nil {
		writeError(w, r, err)
		return
	}
	log.Info().Str("gameId", g.ID).Str("mode", mode).Msg("game started")
	writeJSON(w, http.StatusOK, newGameRes{
		GameID:     g.ID,
		Mode:       mode,
		Date:       date,
		Rows:       g.Rows,
		Candidates: g.Remaining.Len(),
	})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Guess     entropy.Word                  `json:"guess"`
	Marks     [entropy.WordLen]entropy.Mark `json:"marks"`
	Pattern   string                        `json:"pattern"`
	State     game.State                    `json:"state"`
	Remaining int                           `json:"remaining"`
	Score     entropy.ScoreResult           `json:"score"`
	Answer    entropy.Word                  `json:"answer,omitempty"` // once finished
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := s.games.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.gameMu.Lock()
	turn, state, err := g.ApplyGuess(req.Guess, s.lists.IsAllowed)
	s.gameMu.Unlock()
	if err != nil {
		writeError(w, r, err)
		return
	}

	res := guessRes{
		Guess:     turn.Guess,
		Marks:     turn.Marks,
		Pattern:   turn.Code.String(),
		State:     state,
		Remaining: turn.Remaining,
		Score:     turn.Score,
	}
	if state != game.StatePlaying {
		res.Answer = g.Answer
		log.Info().Str("gameId", g.ID).Str("state", string(state)).Int("turns", len(g.Turns)).Msg("game finished")
	}
	writeJSON(w, http.StatusOK, res)
}

// gameView is the public shape of a game for GET /game/{id}.
type gameView struct {
	GameID    string                `json:"gameId"`
	Mode      string                `json:"mode"`
	Date      string                `json:"date,omitempty"`
	Rows      int                   `json:"rows"`
	State     game.State            `json:"state"`
	Turns     []game.Turn           `json:"turns"`
	History   []entropy.Observation `json:"history"` // turns as guess/code observations
	Remaining int                   `json:"remaining"`
	Answer    entropy.Word          `json:"answer,omitempty"`
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.games.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.gameMu.Lock()
	v := gameView{
		GameID:    g.ID,
		Mode:      g.Mode,
		Date:      g.Date,
		Rows:      g.Rows,
		State:     g.State(),
		Turns:     append([]game.Turn{}, g.Turns...),
		History:   g.History(),
		Remaining: g.Remaining.Len(),
	}
	if g.Finished {
		v.Answer = g.Answer
	}
	s.gameMu.Unlock()
	writeJSON(w, http.StatusOK, v)
}
