package entropy

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func guessesOf(ss ...string) []Word {
	out := make([]Word, len(ss))
	for i, s := range ss {
		out[i] = MustWord(s)
	}
	return out
}

// aaaaa and abcde both split {abcde, edcba, fghij} into three singletons, so
// they tie exactly and the earlier guess wins.
func TestRankTieKeepsInputOrder(t *testing.T) {
	set := mustSet(t, "abcde", "edcba", "fghij")
	got, err := Rank(context.Background(), guessesOf("aaaaa", "abcde"), set, RankOptions{TopK: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got.Best.Guess != "aaaaa" {
		t.Errorf("best = %s, want aaaaa", got.Best.Guess)
	}
	if len(got.Top) != 1 || got.Top[0].Guess != "aaaaa" {
		t.Errorf("top = %+v", got.Top)
	}

	got, _ = Rank(context.Background(), guessesOf("abcde", "aaaaa"), set, RankOptions{TopK: 1})
	if got.Best.Guess != "abcde" {
		t.Errorf("best = %s, want abcde", got.Best.Guess)
	}
}

// With bcdea added, aaaaa can no longer tell edcba from bcdea while abcde
// still separates everything.
func TestRankPrefersStrictlyHigherEntropy(t *testing.T) {
	set := mustSet(t, "abcde", "edcba", "fghij", "bcdea")
	got, err := Rank(context.Background(), guessesOf("aaaaa", "abcde"), set, RankOptions{TopK: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got.Best.Guess != "abcde" {
		t.Errorf("best = %s, want abcde", got.Best.Guess)
	}
	if diff := cmp.Diff([]Word{"abcde"}, guessNames(got.Top)); diff != "" {
		t.Errorf("top mismatch (-want +got):\n%s", diff)
	}
	if got.Scored != 2 {
		t.Errorf("scored = %d, want 2", got.Scored)
	}
}

func guessNames(rs []ScoreResult) []Word {
	out := make([]Word, len(rs))
	for i, r := range rs {
		out[i] = r.Guess
	}
	return out
}

func TestRankBestBreaksTiesOnExpectedRemaining(t *testing.T) {
	results := []ScoreResult{
		{Guess: "aaaaa", Entropy: 1, ExpectedRemaining: 3},
		{Guess: "bbbbb", Entropy: 1, ExpectedRemaining: 2},
		{Guess: "ccccc", Entropy: 1, ExpectedRemaining: 2},
		{Guess: "ddddd", Entropy: 0.5, ExpectedRemaining: 1},
	}
	got := Merge(results, 2)
	if got.Best.Guess != "bbbbb" {
		t.Errorf("best = %s, want bbbbb", got.Best.Guess)
	}
	// The top list orders by entropy only and keeps input order on ties.
	if diff := cmp.Diff([]Word{"aaaaa", "bbbbb"}, guessNames(got.Top)); diff != "" {
		t.Errorf("top mismatch (-want +got):\n%s", diff)
	}
}

func TestTopListBounded(t *testing.T) {
	top := NewTopList(3)
	for i, h := range []float64{1, 3, 2, 3, 0.5, 4, 2} {
		top.Push(ScoreResult{Guess: Word([]byte{'a' + byte(i), 'a', 'a', 'a', 'a'}), Entropy: h})
	}
	if diff := cmp.Diff([]Word{"faaaa", "baaaa", "daaaa"}, guessNames(top.Results())); diff != "" {
		t.Errorf("top mismatch (-want +got):\n%s", diff)
	}
	for _, k := range []int{0, -2} {
		empty := NewTopList(k)
		empty.Push(ScoreResult{Guess: "aaaaa", Entropy: 1})
		if empty.Len() != 0 {
			t.Errorf("NewTopList(%d) kept %d results", k, empty.Len())
		}
	}
}

func TestRankTopIsBoundedByTopK(t *testing.T) {
	set := mustSet(t, sampleWords...)
	for _, k := range []int{0, 1, 3, len(sampleWords), len(sampleWords) + 5} {
		for _, workers := range []int{1, 4} {
			got, err := Rank(context.Background(), sampleWords, set, RankOptions{TopK: k, Workers: workers})
			if err != nil {
				t.Fatalf("topK=%d workers=%d: %v", k, workers, err)
			}
			want := k
			if want > len(sampleWords) {
				want = len(sampleWords)
			}
			if len(got.Top) != want {
				t.Errorf("topK=%d workers=%d: len(Top) = %d, want %d", k, workers, len(got.Top), want)
			}
			if got.Scored != len(sampleWords) || !got.Best.Guess.Valid() {
				t.Errorf("topK=%d: best %q from %d scored", k, got.Best.Guess, got.Scored)
			}
		}
	}

	if _, err := Rank(context.Background(), sampleWords, set, RankOptions{TopK: -3}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative topK: err = %v, want ErrInvalidInput", err)
	}
}

func TestRankWorkersAreDeterministic(t *testing.T) {
	set := mustSet(t, sampleWords...)
	guesses := append([]Word{}, sampleWords...)
	guesses = append(guesses, sampleWords...)

	serial, err := Rank(context.Background(), guesses, set, RankOptions{TopK: 10, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	var calls atomic.Int64
	parallel, err := Rank(context.Background(), guesses, set, RankOptions{
		TopK:     10,
		Workers:  4,
		Progress: func() { calls.Add(1) },
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(serial, parallel); diff != "" {
		t.Errorf("parallel ranking differs (-serial +parallel):\n%s", diff)
	}
	if calls.Load() != int64(len(guesses)) {
		t.Errorf("progress called %d times, want %d", calls.Load(), len(guesses))
	}
}

func TestRankErrors(t *testing.T) {
	set := mustSet(t, "crane")
	ctx := context.Background()

	if _, err := Rank(ctx, nil, set, RankOptions{}); !errors.Is(err, ErrNoGuesses) {
		t.Errorf("no guesses: err = %v", err)
	}
	if _, err := Rank(ctx, guessesOf("crane"), CandidateSet{}, RankOptions{}); !errors.Is(err, ErrNoCandidates) {
		t.Errorf("no candidates: err = %v", err)
	}
	if _, err := Rank(ctx, []Word{"crane", "bad"}, set, RankOptions{}); !errors.Is(err, ErrMalformedWord) {
		t.Errorf("malformed guess: err = %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	for _, workers := range []int{1, 3} {
		_, err := Rank(cancelled, guessesOf("crane", "slate", "plate"), set, RankOptions{Workers: workers})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: err = %v, want context.Canceled", workers, err)
		}
	}
}
