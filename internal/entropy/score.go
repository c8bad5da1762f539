package entropy

import (
	"fmt"
	"math"
)

// ScoreResult is the information value of one guess against a candidate set.
type ScoreResult struct {
	Guess             Word    `json:"guess"`
	Entropy           float64 `json:"entropy"`           // bits
	ExpectedRemaining float64 `json:"expectedRemaining"` // candidates left on average
	Candidates        int     `json:"candidates"`        // size of the set scored against
}

// Buckets counts candidates per feedback code.
type Buckets [NumCodes]int

// Partition buckets every candidate by the code it would give guess.
func Partition(guess Word, candidates CandidateSet) (Buckets, error) {
	var b Buckets
	if !guess.Valid() {
		return b, fmt.Errorf("%w: guess %q", ErrMalformedWord, string(guess))
	}
	b.fill(guess, candidates)
	return b, nil
}

func (b *Buckets) fill(guess Word, candidates CandidateSet) {
	for _, answer := range candidates.words {
		b[encode(guess, answer)]++
	}
}

// Distinct returns the number of non-empty buckets.
func (b *Buckets) Distinct() int {
	n := 0
	for _, c := range b {
		if c > 0 {
			n++
		}
	}
	return n
}

// Score computes the entropy of the feedback distribution guess induces over
// candidates, and the expected number of candidates left after playing it.
// An empty candidate set yields ErrNoCandidates.
func Score(guess Word, candidates CandidateSet) (ScoreResult, error) {
	if !guess.Valid() {
		return ScoreResult{}, fmt.Errorf("%w: guess %q", ErrMalformedWord, string(guess))
	}
	n := candidates.Len()
	if n == 0 {
		return ScoreResult{}, ErrNoCandidates
	}
	return score(guess, candidates), nil
}

// score assumes a valid guess and a non-empty set.
func score(guess Word, candidates CandidateSet) ScoreResult {
	var b Buckets
	b.fill(guess, candidates)

	n := candidates.Len()
	total := float64(n)
	h := 0.0
	sumSq := 0
	for _, c := range b {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		h -= p * math.Log2(p)
		sumSq += c * c
	}
	return ScoreResult{
		Guess:             guess,
		Entropy:           h,
		ExpectedRemaining: float64(sumSq) / total,
		Candidates:        n,
	}
}
