// apps/entropy-server/internal/game/engine.go
//
// Game engine for a simulated session: a hidden answer that answers guesses
// with feedback codes, i.e. a feedback source for the scorer.
// Responsibilities:
//   - Create new games (6 rows) over a candidate answer set.
//   - Validate guesses (shape, allowed list) and score them with the codec.
//   - Report each guess's entropy against the candidates it was played into.
//   - Narrow the remaining candidates after every turn.
//   - Track state transitions: playing → won/lost.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/robalobadob/wordle/apps/entropy-server/internal/entropy"
)

const defaultRows = 6

var (
	ErrFinished   = errors.New("game finished")
	ErrNotAllowed = errors.New("not in word list")
)

// New starts a game with the given answer. The answer is added to the
// candidates if they do not already hold it.
func New(mode string, answer entropy.Word, candidates entropy.CandidateSet) (*Game, error) {
	if !answer.Valid() {
		return nil, fmt.Errorf("answer %q: %w", string(answer), entropy.ErrMalformedWord)
	}
	if !candidates.Contains(answer) {
		var err error
		candidates, err = entropy.NewCandidateSet(append(candidates.Words(), answer)...)
		if err != nil {
			return nil, err
		}
	}
	return &Game{
		ID:        randomID(),
		Mode:      mode,
		Answer:    answer,
		Rows:      defaultRows,
		Remaining: candidates,
	}, nil
}

// ApplyGuess validates and scores a guess, mutating the game state.
// allowed may be nil to accept any well-formed word.
//
// State transitions:
//   - All tiles correct → Finished = true, Won = true.
//   - Else if the number of turns reaches g.Rows → Finished = true (loss).
func (g *Game) ApplyGuess(raw string, allowed func(string) bool) (Turn, State, error) {
	if g.Finished {
		return Turn{}, g.State(), ErrFinished
	}
	guess, err := entropy.ParseWord(raw)
	if err != nil {
		return Turn{}, g.State(), err
	}
	if allowed != nil && !allowed(string(guess)) {
		return Turn{}, g.State(), ErrNotAllowed
	}

	code, err := entropy.Encode(guess, g.Answer)
	if err != nil {
		return Turn{}, g.State(), err
	}
	score, err := entropy.Score(guess, g.Remaining)
	if err != nil {
		return Turn{}, g.State(), err
	}
	remaining, err := entropy.Filter(g.Remaining, entropy.Observation{Guess: guess, Code: code})
	if err != nil {
		return Turn{}, g.State(), err
	}

	turn := Turn{
		Guess:     guess,
		Code:      code,
		Marks:     code.Marks(),
		Score:     score,
		Remaining: remaining.Len(),
	}
	g.Turns = append(g.Turns, turn)
	g.Remaining = remaining

	if code == entropy.AllCorrect {
		g.Finished, g.Won = true, true
	} else if len(g.Turns) >= g.Rows {
		g.Finished = true
	}
	return turn, g.State(), nil
}

// History returns the committed observations in play order.
func (g *Game) History() []entropy.Observation {
	out := make([]entropy.Observation, len(g.Turns))
	for i, t := range g.Turns {
		out[i] = entropy.Observation{Guess: t.Guess, Code: t.Code}
	}
	return out
}

// State reports the coarse state of the game.
func (g *Game) State() State {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
