// apps/entropy-server/internal/httpserver/routes_score.go
//
// Stateless scoring endpoints.
//   - POST /score  → entropy of one guess against the answers left by a history.
//   - POST /filter → the answers left by a history.
//   - POST /rank   → best guess and top-K over the allowed guesses (or a given list).
//
// A history is a list of {"guess": "crane", "pattern": "00202"} rows; the
// pattern also accepts b/y/g letters. Every endpoint filters the answer list
// unless the request carries its own "candidates" array.

package httpserver

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/entropy-server/internal/entropy"
)

// maxTopK bounds the top-K a client may ask for.
const maxTopK = 200

type observationReq struct {
	Guess   string `json:"guess"`
	Pattern string `json:"pattern"`
}

// parseHistory validates every row; errors wrap entropy.ErrInvalidInput.
func parseHistory(rows []observationReq) ([]entropy.Observation, error) {
	out := make([]entropy.Observation, 0, len(rows))
	for i, row := range rows {
		code, err := entropy.ParseCode(row.Pattern)
		if err != nil {
			return nil, fmt.Errorf("history %d: %w", i, err)
		}
		o, err := entropy.NewObservation(row.Guess, code)
		if err != nil {
			return nil, fmt.Errorf("history %d: %w", i, err)
		}
		out = append(out, o)
	}
	return out, nil
}

// remaining filters base (the answer list when nil) by a raw history.
func (s *Server) remaining(base *entropy.CandidateSet, rows []observationReq) (entropy.CandidateSet, error) {
	history, err := parseHistory(rows)
	if err != nil {
		return entropy.CandidateSet{}, err
	}
	set := s.lists.Answers
	if base != nil {
		set = *base
	}
	return entropy.Filter(set, history...)
}

// ------------------------------- /score ------------------------------------

type scoreReq struct {
	Guess      string                `json:"guess"`
	History    []observationReq      `json:"history"`
	Candidates *entropy.CandidateSet `json:"candidates"`
}

type scoreRes struct {
	entropy.ScoreResult
	Outcomes int  `json:"outcomes"` // distinct feedback patterns the guess can produce
	Allowed  bool `json:"allowed"`
	Answer   bool `json:"answer"` // the guess is itself on the answer list
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreReq
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	guess, err := entropy.ParseWord(req.Guess)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cands, err := s.remaining(req.Candidates, req.History)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := entropy.Score(guess, cands)
	if err != nil {
		writeError(w, r, err)
		return
	}
	buckets, err := entropy.Partition(guess, cands)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreRes{
		ScoreResult: res,
		Outcomes:    buckets.Distinct(),
		Allowed:     s.lists.IsAllowed(string(guess)),
		Answer:      s.lists.IsAnswer(string(guess)),
	})
}

// ------------------------------- /filter -----------------------------------

type filterReq struct {
	History    []observationReq      `json:"history"`
	Candidates *entropy.CandidateSet `json:"candidates"`
	Limit      int                   `json:"limit"` // 0 → all
}

type filterRes struct {
	Count      int      `json:"count"`
	Candidates []string `json:"candidates"`
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req filterReq
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	cands, err := s.remaining(req.Candidates, req.History)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := cands.Strings()
	if req.Limit > 0 && len(out) > req.Limit {
		out = out[:req.Limit]
	}
	writeJSON(w, http.StatusOK, filterRes{Count: cands.Len(), Candidates: out})
}

// -------------------------------- /rank ------------------------------------

type rankReq struct {
	History    []observationReq      `json:"history"`
	Candidates *entropy.CandidateSet `json:"candidates"`
	Guesses    []string              `json:"guesses"` // empty → every allowed guess
	TopK       *int                  `json:"topK"`    // absent → RANK_TOP_K; 0 → best only
}

type rankRes struct {
	entropy.Ranking
	Candidates int  `json:"candidates"`
	Cached     bool `json:"cached"`
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req rankReq
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	cands, err := s.remaining(req.Candidates, req.History)
	if err != nil {
		writeError(w, r, err)
		return
	}

	guesses := s.lists.Guesses
	if len(req.Guesses) > 0 {
		guesses = make([]entropy.Word, len(req.Guesses))
		for i, g := range req.Guesses {
			word, err := entropy.ParseWord(g)
			if err != nil {
				writeError(w, r, fmt.Errorf("guess %d: %w", i, err))
				return
			}
			guesses[i] = word
		}
	}

	topK := s.cfg.RankTopK
	if req.TopK != nil {
		topK = *req.TopK
	}
	if topK > maxTopK {
		topK = maxTopK
	}
	opts := entropy.RankOptions{TopK: topK, Workers: s.cfg.RankWorkers}

	var (
		ranking entropy.Ranking
		cached  bool
	)
	if s.cache != nil {
		ranking, cached, err = s.cache.Rank(r.Context(), guesses, cands, opts)
	} else {
		ranking, err = entropy.Rank(r.Context(), guesses, cands, opts)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Debug().
		Int("candidates", cands.Len()).
		Int("guesses", len(guesses)).
		Str("best", string(ranking.Best.Guess)).
		Bool("cached", cached).
		Msg("ranked")
	writeJSON(w, http.StatusOK, rankRes{Ranking: ranking, Candidates: cands.Len(), Cached: cached})
}
