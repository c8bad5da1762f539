// apps/entropy-server/internal/entropy/word.go
//
// Word and CandidateSet types shared by every scorer entry point.
// Responsibilities:
//   - Validate 5-letter lowercase words at the boundary.
//   - Ingest raw word lists (lowercase, drop malformed, dedupe).
//   - Hold an ordered, duplicate-free candidate set.
//
// Notes:
//   - Everything in this package is pure and allocation-only; there is no I/O
//     and no logging.

package entropy

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// WordLen is the fixed number of letters in every word.
const WordLen = 5

var (
	// ErrInvalidInput is the root of every precondition violation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedWord reports a word that is not 5 lowercase letters.
	ErrMalformedWord = fmt.Errorf("%w: malformed word", ErrInvalidInput)

	// ErrInconsistentObservation reports a feedback code that is out of range
	// or unreachable for its guess.
	ErrInconsistentObservation = fmt.Errorf("%w: inconsistent observation", ErrInvalidInput)

	// ErrNoCandidates is returned instead of a score when the candidate set is empty.
	ErrNoCandidates = errors.New("empty candidate set")

	// ErrNoGuesses is returned by Rank when there is nothing to score.
	ErrNoGuesses = errors.New("no guesses to rank")
)

// Word is a 5-letter lowercase word. Build one with ParseWord; a Word
// obtained by conversion is checked again by every exported operation.
type Word string

// ParseWord trims and lowercases s and validates the result.
func ParseWord(s string) (Word, error) {
	w := Word(strings.ToLower(strings.TrimSpace(s)))
	if !w.Valid() {
		return "", fmt.Errorf("%w: %q", ErrMalformedWord, s)
	}
	return w, nil
}

// MustWord is ParseWord for constants and tests.
func MustWord(s string) Word {
	w, err := ParseWord(s)
	if err != nil {
		panic(err)
	}
	return w
}

// Valid reports whether w matches ^[a-z]{5}$.
func (w Word) Valid() bool {
	if len(w) != WordLen {
		return false
	}
	for i := 0; i < WordLen; i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}

func (w Word) String() string { return string(w) }

// CandidateSet is an ordered sequence of unique, valid words.
// The zero value is an empty set.
type CandidateSet struct {
	words []Word
}

// NewCandidateSet validates words and drops duplicates, keeping the first
// occurrence. A malformed word fails the whole construction.
func NewCandidateSet(words ...Word) (CandidateSet, error) {
	seen := make(map[Word]struct{}, len(words))
	out := make([]Word, 0, len(words))
	for _, w := range words {
		if !w.Valid() {
			return CandidateSet{}, fmt.Errorf("%w: %q", ErrMalformedWord, string(w))
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return CandidateSet{words: out}, nil
}

// Ingest is the word-list ingestion step: each entry is trimmed and
// lowercased, entries that are not 5 letters are dropped silently, and
// duplicates keep their first position.
func Ingest(raw []string) CandidateSet {
	seen := make(map[Word]struct{}, len(raw))
	out := make([]Word, 0, len(raw))
	for _, s := range raw {
		w := Word(strings.ToLower(strings.TrimSpace(s)))
		if !w.Valid() {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return CandidateSet{words: out}
}

// Len returns the number of candidates.
func (c CandidateSet) Len() int { return len(c.words) }

// At returns the i-th candidate in iteration order.
func (c CandidateSet) At(i int) Word { return c.words[i] }

// Words returns a copy of the candidates in iteration order.
func (c CandidateSet) Words() []Word {
	out := make([]Word, len(c.words))
	copy(out, c.words)
	return out
}

// Strings returns the candidates as plain strings.
func (c CandidateSet) Strings() []string {
	out := make([]string, len(c.words))
	for i, w := range c.words {
		out[i] = string(w)
	}
	return out
}

// Contains reports whether w is a candidate. Linear scan.
func (c CandidateSet) Contains(w Word) bool {
	for _, x := range c.words {
		if x == w {
			return true
		}
	}
	return false
}

// MarshalJSON encodes the set as a JSON array of words.
func (c CandidateSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Strings())
}

// UnmarshalJSON decodes a JSON array of words, rejecting malformed entries.
func (c *CandidateSet) UnmarshalJSON(b []byte) error {
	var raw []Word
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	set, err := NewCandidateSet(raw...)
	if err != nil {
		return err
	}
	*c = set
	return nil
}
