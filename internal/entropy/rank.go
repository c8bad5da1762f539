package entropy

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Ranking is what a reporting sink receives: the single best guess and the
// top-K guesses ordered by entropy.
type Ranking struct {
	Best   ScoreResult   `json:"best"`
	Top    []ScoreResult `json:"top"`
	Scored int           `json:"scored"`
}

// RankOptions tunes Rank.
type RankOptions struct {
	TopK    int // at most this many results in Top; 0 keeps none, negative is invalid
	Workers int // <= 1 scores on the calling goroutine

	// Progress, when set, is called once per scored guess. With several
	// workers it is called concurrently.
	Progress func()
}

// Rank scores every guess against candidates.
//
// Top is ordered by entropy, highest first; equal entropies keep input order.
// Best is the highest entropy, then the lowest expected remaining, then the
// earliest guess. Workers only write their own result slots; ordering is
// decided afterwards in input order, so the outcome does not depend on
// scheduling. A cancelled context stops workers before their next guess and
// Rank returns ctx.Err().
func Rank(ctx context.Context, guesses []Word, candidates CandidateSet, opts RankOptions) (Ranking, error) {
	if opts.TopK < 0 {
		return Ranking{}, fmt.Errorf("%w: topK %d", ErrInvalidInput, opts.TopK)
	}
	for i, g := range guesses {
		if !g.Valid() {
			return Ranking{}, fmt.Errorf("guess %d: %w: %q", i, ErrMalformedWord, string(g))
		}
	}
	if len(guesses) == 0 {
		return Ranking{}, ErrNoGuesses
	}
	if candidates.Len() == 0 {
		return Ranking{}, ErrNoCandidates
	}

	results := make([]ScoreResult, len(guesses))
	workers := opts.Workers
	if workers > len(guesses) {
		workers = len(guesses)
	}

	if workers <= 1 {
		for i, g := range guesses {
			if err := ctx.Err(); err != nil {
				return Ranking{}, err
			}
			results[i] = score(g, candidates)
			if opts.Progress != nil {
				opts.Progress()
			}
		}
	} else {
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(start int) {
				defer wg.Done()
				for i := start; i < len(guesses); i += workers {
					if ctx.Err() != nil {
						return
					}
					results[i] = score(guesses[i], candidates)
					if opts.Progress != nil {
						opts.Progress()
					}
				}
			}(w)
		}
		wg.Wait()
		if err := ctx.Err(); err != nil {
			return Ranking{}, err
		}
	}

	return Merge(results, opts.TopK), nil
}

// Merge orders already computed results, given in input order.
func Merge(results []ScoreResult, topK int) Ranking {
	top := NewTopList(topK)
	var best ScoreResult
	for i, r := range results {
		top.Push(r)
		if i == 0 || Better(r, best) {
			best = r
		}
	}
	return Ranking{Best: best, Top: top.Results(), Scored: len(results)}
}

// Better reports whether a strictly beats b: higher entropy, or equal entropy
// and fewer expected remaining candidates.
func Better(a, b ScoreResult) bool {
	if a.Entropy != b.Entropy {
		return a.Entropy > b.Entropy
	}
	return a.ExpectedRemaining < b.ExpectedRemaining
}

// TopList keeps the k highest-entropy results seen so far. Pushes of equal
// entropy land after the existing ones.
type TopList struct {
	k     int
	items []ScoreResult
}

// NewTopList returns a list bounded to k entries; k <= 0 keeps nothing.
func NewTopList(k int) *TopList {
	if k < 0 {
		k = 0
	}
	return &TopList{k: k, items: make([]ScoreResult, 0, k)}
}

// Push inserts r if it ranks within the bound.
func (t *TopList) Push(r ScoreResult) {
	pos := sort.Search(len(t.items), func(j int) bool {
		return t.items[j].Entropy < r.Entropy
	})
	if pos >= t.k {
		return
	}
	if len(t.items) < t.k {
		t.items = append(t.items, ScoreResult{})
	}
	copy(t.items[pos+1:], t.items[pos:])
	t.items[pos] = r
}

// Len returns the number of kept results.
func (t *TopList) Len() int { return len(t.items) }

// Results returns a copy of the kept results, best first.
func (t *TopList) Results() []ScoreResult {
	out := make([]ScoreResult, len(t.items))
	copy(out, t.items)
	return out
}
