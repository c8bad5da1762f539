// apps/entropy-server/internal/entropy/pattern.go
//
// Feedback codes: the per-tile verdict between a guess and an answer,
// packed as a base-3 number (leftmost tile = most significant digit).
//
// Scoring is the classic two-pass rule:
//   Pass 1: exact matches become Correct and consume one unit of that
//           letter from the answer's letter budget.
//   Pass 2: remaining tiles, left to right, become Present while budget for
//           their letter remains, otherwise Absent.
//
// Pass order matters for repeated letters: "speed" against "erase" must not
// count more e's than the answer holds.

package entropy

import (
	"fmt"
	"strings"
)

// Mark is the verdict for a single tile.
type Mark uint8

const (
	Absent Mark = iota
	Present
	Correct
)

// NumCodes is the number of distinct feedback codes (3^5).
const NumCodes = 243

// AllCorrect is the code of a fully solved row.
const AllCorrect Code = NumCodes - 1

var markNames = [...]string{Absent: "absent", Present: "present", Correct: "correct"}

func (m Mark) String() string {
	if int(m) < len(markNames) {
		return markNames[m]
	}
	return fmt.Sprintf("Mark(%d)", uint8(m))
}

// MarshalText encodes the mark by name.
func (m Mark) MarshalText() ([]byte, error) {
	if int(m) >= len(markNames) {
		return nil, fmt.Errorf("%w: mark %d", ErrInvalidInput, uint8(m))
	}
	return []byte(markNames[m]), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (m *Mark) UnmarshalText(b []byte) error {
	v, err := ParseMark(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMark reads a tile state as rendered by a game board
// ("absent", "present", "correct").
func ParseMark(s string) (Mark, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "absent":
		return Absent, nil
	case "present":
		return Present, nil
	case "correct":
		return Correct, nil
	}
	return 0, fmt.Errorf("%w: unknown tile state %q", ErrInvalidInput, s)
}

// Code is a packed feedback pattern in [0, NumCodes).
type Code uint8

// Valid reports whether c is in range.
func (c Code) Valid() bool { return c < NumCodes }

// Marks unpacks c into per-tile verdicts, leftmost first.
func (c Code) Marks() [WordLen]Mark {
	var m [WordLen]Mark
	v := int(c)
	for i := WordLen - 1; i >= 0; i-- {
		m[i] = Mark(v % 3)
		v /= 3
	}
	return m
}

// String renders c as five base-3 digits, e.g. "20110".
func (c Code) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Code(%d)", uint8(c))
	}
	var b [WordLen]byte
	for i, m := range c.Marks() {
		b[i] = '0' + byte(m)
	}
	return string(b[:])
}

// CodeFromMarks packs five verdicts into a Code.
func CodeFromMarks(marks [WordLen]Mark) (Code, error) {
	code := 0
	for _, m := range marks {
		if m > Correct {
			return 0, fmt.Errorf("%w: mark %d", ErrInconsistentObservation, uint8(m))
		}
		code = code*3 + int(m)
	}
	return Code(code), nil
}

// ParseCode reads a five-character pattern. Digits 0/1/2 and the letters
// b/y/g (also '-' and 'x' for absent) are accepted, case-insensitively.
func ParseCode(s string) (Code, error) {
	s = strings.TrimSpace(s)
	if len(s) != WordLen {
		return 0, fmt.Errorf("%w: pattern %q must have %d tiles", ErrInconsistentObservation, s, WordLen)
	}
	var marks [WordLen]Mark
	for i := 0; i < WordLen; i++ {
		switch s[i] {
		case '0', 'b', 'B', '-', 'x', 'X':
			marks[i] = Absent
		case '1', 'y', 'Y':
			marks[i] = Present
		case '2', 'g', 'G':
			marks[i] = Correct
		default:
			return 0, fmt.Errorf("%w: pattern %q has bad tile %q", ErrInconsistentObservation, s, s[i])
		}
	}
	return CodeFromMarks(marks)
}

// Encode returns the feedback an answer gives to a guess.
func Encode(guess, answer Word) (Code, error) {
	if !guess.Valid() {
		return 0, fmt.Errorf("%w: guess %q", ErrMalformedWord, string(guess))
	}
	if !answer.Valid() {
		return 0, fmt.Errorf("%w: answer %q", ErrMalformedWord, string(answer))
	}
	return encode(guess, answer), nil
}

// encode assumes both words are valid.
func encode(guess, answer Word) Code {
	var counts [26]int8
	for i := 0; i < WordLen; i++ {
		counts[answer[i]-'a']++
	}

	var res [WordLen]Mark
	for i := 0; i < WordLen; i++ {
		if guess[i] == answer[i] {
			res[i] = Correct
			counts[guess[i]-'a']--
		}
	}

	for i := 0; i < WordLen; i++ {
		if res[i] == Correct {
			continue
		}
		j := guess[i] - 'a'
		if counts[j] > 0 {
			res[i] = Present
			counts[j]--
		}
	}

	code := 0
	for i := 0; i < WordLen; i++ {
		code = code*3 + int(res[i])
	}
	return Code(code)
}

// Reachable returns, for every code, whether some answer can produce it for
// guess. Only letters of the guess matter to the codec, so enumerating
// answers over the guess's distinct letters plus one outside letter covers
// every case (at most 6^5 answers).
func Reachable(guess Word) ([NumCodes]bool, error) {
	var out [NumCodes]bool
	if !guess.Valid() {
		return out, fmt.Errorf("%w: guess %q", ErrMalformedWord, string(guess))
	}

	var alpha []byte
	var used [26]bool
	for i := 0; i < WordLen; i++ {
		if c := guess[i]; !used[c-'a'] {
			used[c-'a'] = true
			alpha = append(alpha, c)
		}
	}
	for c := byte('a'); c <= 'z'; c++ {
		if !used[c-'a'] {
			alpha = append(alpha, c)
			break
		}
	}

	var idx [WordLen]int
	buf := make([]byte, WordLen)
	for {
		for i := range buf {
			buf[i] = alpha[idx[i]]
		}
		out[encode(guess, Word(buf))] = true

		i := WordLen - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(alpha) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return out, nil
		}
	}
}

// Observation is one committed turn: a guess and the feedback it received.
type Observation struct {
	Guess Word `json:"guess"`
	Code  Code `json:"code"`
}

// NewObservation parses guess and validates the pair.
func NewObservation(guess string, code Code) (Observation, error) {
	w, err := ParseWord(guess)
	if err != nil {
		return Observation{}, err
	}
	o := Observation{Guess: w, Code: code}
	return o, o.Validate()
}

// Validate rejects malformed guesses, out-of-range codes and codes that no
// answer could produce for the guess.
func (o Observation) Validate() error {
	if !o.Code.Valid() {
		return fmt.Errorf("%w: code %d out of range", ErrInconsistentObservation, uint8(o.Code))
	}
	reach, err := Reachable(o.Guess)
	if err != nil {
		return err
	}
	if !reach[o.Code] {
		return fmt.Errorf("%w: %s cannot produce %s", ErrInconsistentObservation, o.Guess, o.Code)
	}
	return nil
}

func (o Observation) String() string { return string(o.Guess) + ":" + o.Code.String() }
