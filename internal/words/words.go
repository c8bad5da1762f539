// apps/entropy-server/internal/words/words.go
//
// Word-list source for the scorer.
//
// Responsibilities:
//   - Load answer and allowed-guess lists from files, or fall back to the
//     embedded defaults in the assets package.
//   - Run every list through entropy.Ingest (lowercase, 5 letters, dedupe).
//   - Answer membership queries (IsAllowed, IsAnswer) and report Stats.
//
// File formats:
//   - A JSON array of strings (["crane", "slate", ...]).
//   - Plain text, one word per line; blank lines and "#" comments skipped.
//
// Selection (Load):
//   1. answers and allowed paths both set → each file for its own list.
//   2. only allowed set → that file is used for both lists.
//   3. neither set → embedded defaults.
//
// Constraints:
//   • Answers are always allowed guesses.
//   • Malformed entries are dropped silently; an empty answer list is an error.

package words

import (
	"bufio"
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	mapset "github.com/deckarep/golang-set"

	"github.com/robalobadob/wordle/apps/entropy-server/assets"
	"github.com/robalobadob/wordle/apps/entropy-server/internal/entropy"
)

// ErrEmptyAnswers is returned when no valid answer survives ingestion.
var ErrEmptyAnswers = errors.New("words: answers list is empty")

// Lists holds the ingested word lists.
type Lists struct {
	Answers entropy.CandidateSet // candidate answers, in file order
	Guesses []entropy.Word       // allowed guesses ∪ answers

	allowed mapset.Set // of entropy.Word
	answers mapset.Set // of entropy.Word
}

// Load reads word lists following the selection rules above.
func Load(answersPath, allowedPath string) (*Lists, error) {
	var ansList, allowList []string
	var err error

	switch {
	// Case 1: both lists provided
	case answersPath != "" && allowedPath != "":
		if ansList, err = ReadFile(answersPath); err != nil {
			return nil, err
		}
		if allowList, err = ReadFile(allowedPath); err != nil {
			return nil, err
		}

	// Case 2: only allowed file provided → use for both
	case allowedPath != "":
		if allowList, err = ReadFile(allowedPath); err != nil {
			return nil, err
		}
		ansList = allowList

	// Case 3: embedded defaults (an answers-only path is honoured too)
	default:
		if answersPath != "" {
			ansList, err = ReadFile(answersPath)
		} else {
			ansList, err = parse(assets.Answers())
		}
		if err != nil {
			return nil, err
		}
		if allowList, err = parse(assets.Allowed()); err != nil {
			return nil, err
		}
	}

	return New(ansList, allowList)
}

// New ingests raw lists. Answers are added to the allowed set.
func New(answers, allowed []string) (*Lists, error) {
	ans := entropy.Ingest(answers)
	if ans.Len() == 0 {
		return nil, ErrEmptyAnswers
	}

	merged := make([]string, 0, len(allowed)+ans.Len())
	merged = append(merged, allowed...)
	merged = append(merged, ans.Strings()...)
	guesses := entropy.Ingest(merged).Words()

	l := &Lists{
		Answers: ans,
		Guesses: guesses,
		allowed: mapset.NewThreadUnsafeSet(),
		answers: mapset.NewThreadUnsafeSet(),
	}
	for _, w := range guesses {
		l.allowed.Add(w)
	}
	for _, w := range ans.Words() {
		l.answers.Add(w)
	}
	return l, nil
}

// ReadFile loads a JSON array or a line-per-word text file. Entries are
// returned raw; validation happens at ingestion.
func ReadFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	out, err := parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

func parse(b []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var raw []any
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, err
		}
		out := make([]string, 0, len(raw))
		for _, v := range raw {
			out = append(out, fmt.Sprint(v))
		}
		return out, nil
	}

	var out []string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// IsAllowed reports whether s is a valid guess (answers ∪ allowed).
func (l *Lists) IsAllowed(s string) bool {
	w, err := entropy.ParseWord(s)
	return err == nil && l.allowed.Contains(w)
}

// IsAnswer reports whether s is an answer word.
func (l *Lists) IsAnswer(s string) bool {
	w, err := entropy.ParseWord(s)
	return err == nil && l.answers.Contains(w)
}

// Stats returns counts of loaded words: (answers, allowed).
func (l *Lists) Stats() (answersCount int, allowedCount int) {
	return l.Answers.Len(), l.allowed.Cardinality()
}

// RandomAnswer returns a cryptographically random answer.
func (l *Lists) RandomAnswer() entropy.Word {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(l.Answers.Len())))
	if err != nil {
		return l.Answers.At(0)
	}
	return l.Answers.At(int(n.Int64()))
}
