package live

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bitset"

	"github.com/robalobadob/wordle/apps/entropy-server/internal/entropy"
)

// lowRemainPct is the share of the answer list below which the overlay stops
// printing an exact percentage.
const lowRemainPct = 3.0

// Snapshot is what a live overlay shows after a board change.
type Snapshot struct {
	History      []entropy.Observation `json:"history"`
	Candidates   int                   `json:"candidates"`
	Total        int                   `json:"total"`
	RemainingPct float64               `json:"remainingPct"`
	Typed        string                `json:"typed"`
	Allowed      bool                  `json:"allowed"`
	Score        *entropy.ScoreResult  `json:"score,omitempty"`

	// ExpectedRemainingPct is Score.ExpectedRemaining as a share of the full
	// answer list.
	ExpectedRemainingPct float64 `json:"expectedRemainingPct,omitempty"`
}

// Text renders the snapshot the way the overlay prints it.
func (s Snapshot) Text() string {
	var b strings.Builder
	if s.RemainingPct > lowRemainPct {
		fmt.Fprintf(&b, "Current Remain: %.1f%%", s.RemainingPct)
	} else {
		b.WriteString("Current Remain: <3%")
	}

	if len(s.Typed) != entropy.WordLen {
		b.WriteString("\nType 5 letters to see entropy.")
		return b.String()
	}
	fmt.Fprintf(&b, "\nGuess: %q", s.Typed)
	if s.Score == nil {
		b.WriteString("\nEntropy: —")
	} else {
		fmt.Fprintf(&b, "\nEntropy: %.2f bits", s.Score.Entropy)
		if s.ExpectedRemainingPct > 0 && s.ExpectedRemainingPct < 1 {
			b.WriteString("\nE[remaining]: <1%")
		} else {
			fmt.Fprintf(&b, "\nE[remaining]: %.1f%%", s.ExpectedRemainingPct)
		}
	}
	if !s.Allowed {
		b.WriteString("\nThis may not be a valid guess.")
	}
	return b.String()
}

// Tracker follows one board. It keeps a bitset of the answers still alive
// and narrows it incrementally while the committed history only grows; a
// history that diverges from the previous one (a new game) is replayed from
// the full list.
type Tracker struct {
	answers  entropy.CandidateSet
	allowed  func(string) bool
	onChange func(Snapshot)
	deb      *Debouncer

	mu       sync.Mutex
	alive    *bitset.BitSet
	history  []entropy.Observation
	last     Snapshot
	lastText string
}

// NewTracker builds a tracker over answers. allowed may be nil; onChange may
// be nil and is called outside the tracker's lock whenever the rendered
// snapshot changes.
func NewTracker(answers entropy.CandidateSet, allowed func(string) bool, onChange func(Snapshot)) *Tracker {
	t := &Tracker{answers: answers, allowed: allowed, onChange: onChange, deb: NewDebouncer(DefaultDebounce)}
	t.reset()
	t.last = t.snapshot("")
	return t
}

func (t *Tracker) reset() {
	t.alive = bitset.New(uint(t.answers.Len())).Complement()
	t.history = nil
}

// Update reads rows, recomputes the snapshot and returns it. A board with an
// inconsistent committed row is rejected and leaves the tracker unchanged.
func (t *Tracker) Update(rows []Row) (Snapshot, error) {
	board, err := ReadBoard(rows)
	if err != nil {
		return t.Snapshot(), err
	}

	t.mu.Lock()
	if !extends(board.History, t.history) {
		t.reset()
	}
	for _, o := range board.History[len(t.history):] {
		t.narrow(o)
		t.history = append(t.history, o)
	}
	snap := t.snapshot(board.Typed)
	t.last = snap
	text := snap.Text()
	changed := text != t.lastText
	t.lastText = text
	t.mu.Unlock()

	if changed && t.onChange != nil {
		t.onChange(snap)
	}
	return snap, nil
}

// Observe schedules an Update for rows once no other Observe has arrived for
// the debounce delay, so a burst of board mutations is read once. done may be
// nil; otherwise it receives the Update result on the timer goroutine.
func (t *Tracker) Observe(rows []Row, done func(Snapshot, error)) {
	rows = append([]Row(nil), rows...)
	t.deb.Trigger(func() {
		snap, err := t.Update(rows)
		if done != nil {
			done(snap, err)
		}
	})
}

// Close cancels a pending Observe.
func (t *Tracker) Close() { t.deb.Stop() }

// Snapshot returns the last computed snapshot.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Candidates returns the answers still alive, in list order.
func (t *Tracker) Candidates() entropy.CandidateSet {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.candidates()
}

func (t *Tracker) narrow(o entropy.Observation) {
	for i, ok := t.alive.NextSet(0); ok; i, ok = t.alive.NextSet(i + 1) {
		if !entropy.Consistent(t.answers.At(int(i)), o) {
			t.alive.Clear(i)
		}
	}
}

func (t *Tracker) candidates() entropy.CandidateSet {
	words := make([]entropy.Word, 0, t.alive.Count())
	for i, ok := t.alive.NextSet(0); ok; i, ok = t.alive.NextSet(i + 1) {
		words = append(words, t.answers.At(int(i)))
	}
	// Words come from a valid set, so construction cannot fail.
	set, _ := entropy.NewCandidateSet(words...)
	return set
}

func (t *Tracker) snapshot(typed string) Snapshot {
	cands := t.candidates()
	snap := Snapshot{
		History:    append([]entropy.Observation(nil), t.history...),
		Candidates: cands.Len(),
		Total:      t.answers.Len(),
		Typed:      typed,
	}
	if snap.Total > 0 {
		snap.RemainingPct = float64(snap.Candidates) / float64(snap.Total) * 100
	}
	if len(typed) != entropy.WordLen {
		return snap
	}
	snap.Allowed = t.allowed == nil || t.allowed(typed)

	r, err := entropy.Score(entropy.Word(typed), cands)
	if err != nil {
		return snap
	}
	snap.Score = &r
	snap.ExpectedRemainingPct = r.ExpectedRemaining / float64(r.Candidates) * snap.RemainingPct
	return snap
}

// extends reports whether prefix is a prefix of history.
func extends(history, prefix []entropy.Observation) bool {
	if len(prefix) > len(history) {
		return false
	}
	for i := range prefix {
		if history[i] != prefix[i] {
			return false
		}
	}
	return true
}
