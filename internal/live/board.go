// apps/entropy-server/internal/live/board.go
//
// Reading a rendered game board.
//
// A board is a list of rows as a host page shows them: the letters typed so
// far and one evaluation attribute per tile. Only rows whose five tiles all
// carry an evaluation count as committed feedback; the first uncommitted row
// holding at least one letter is the word being typed.

package live

import (
	"fmt"
	"strings"

	"github.com/robalobadob/wordle/apps/entropy-server/internal/entropy"
)

// Row is one board row.
type Row struct {
	Letters string   `json:"letters"`
	States  []string `json:"states"` // per tile: "absent", "present", "correct" or empty while typing
}

// Board is the committed history and the in-progress word read from rows.
type Board struct {
	History []entropy.Observation
	Typed   string
}

// ReadBoard splits rows into committed observations and the typed word.
// A committed row whose feedback no answer could produce is an error.
func ReadBoard(rows []Row) (Board, error) {
	var b Board
	typedFound := false
	for i, r := range rows {
		letters := normalizeLetters(r.Letters)
		marks, ok := r.marks()
		if ok && len(letters) == entropy.WordLen {
			code, err := entropy.CodeFromMarks(marks)
			if err != nil {
				return Board{}, fmt.Errorf("row %d: %w", i, err)
			}
			o := entropy.Observation{Guess: entropy.Word(letters), Code: code}
			if err := o.Validate(); err != nil {
				return Board{}, fmt.Errorf("row %d: %w", i, err)
			}
			b.History = append(b.History, o)
			continue
		}
		if !typedFound && letters != "" {
			b.Typed = letters
			typedFound = true
		}
	}
	return b, nil
}

// marks reports the per-tile verdicts when every tile has one.
func (r Row) marks() ([entropy.WordLen]entropy.Mark, bool) {
	var out [entropy.WordLen]entropy.Mark
	if len(r.States) != entropy.WordLen {
		return out, false
	}
	for i, s := range r.States {
		m, err := entropy.ParseMark(s)
		if err != nil {
			return out, false
		}
		out[i] = m
	}
	return out, true
}

// normalizeLetters lowercases s and keeps ASCII letters only.
func normalizeLetters(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
