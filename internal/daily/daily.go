// Package daily picks the deterministic answer of the day.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/wordle/apps/entropy-server/internal/entropy"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % answersLen.
func WordIndex(date time.Time, salt string, answersLen int) int {
	if answersLen <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen))
}

// Answer returns the date key and the answer of the day drawn from answers.
// ok is false when answers is empty.
func Answer(date time.Time, salt string, answers entropy.CandidateSet) (key string, w entropy.Word, ok bool) {
	key = DateKey(date)
	if answers.Len() == 0 {
		return key, "", false
	}
	return key, answers.At(WordIndex(date, salt, answers.Len())), true
}
