// apps/entropy-server/internal/game/types.go
//
// Core type definitions for a simulated game.
// Defines:
//   - State: coarse game state (playing/won/lost).
//   - Turn:  one scored guess with its feedback and information value.
//   - Game:  state for a single in-progress or finished game.

package game

import "github.com/robalobadob/wordle/apps/entropy-server/internal/entropy"

// State is the coarse state of a game.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Turn records one applied guess.
type Turn struct {
	Guess     entropy.Word                  `json:"guess"`
	Code      entropy.Code                  `json:"code"`
	Marks     [entropy.WordLen]entropy.Mark `json:"marks"`
	Score     entropy.ScoreResult           `json:"score"`     // against the candidates before this guess
	Remaining int                           `json:"remaining"` // candidates after this guess
}

// Game holds the state of a single game session.
type Game struct {
	ID        string               // Unique game identifier (random hex string).
	Mode      string               // "random", "daily" or "fixed".
	Date      string               // Date key for daily games.
	Answer    entropy.Word         // The hidden answer.
	Rows      int                  // Maximum number of guesses allowed (typically 6).
	Turns     []Turn               // Guesses applied so far, in order.
	Remaining entropy.CandidateSet // Answers still consistent with every turn.
	Finished  bool                 // True once the game is over (won or lost).
	Won       bool                 // True if the game was finished with a win.
}
