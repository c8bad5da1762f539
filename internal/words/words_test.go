package words

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/robalobadob/wordle/apps/entropy-server/internal/entropy"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	l, err := Load("", "")
	if err != nil {
		t.Fatal(err)
	}
	a, g := l.Stats()
	if a == 0 || g < a {
		t.Fatalf("Stats() = %d, %d", a, g)
	}
	if !l.IsAnswer("crane") || !l.IsAllowed("CRANE") {
		t.Error("crane should be an allowed answer")
	}
	if !l.IsAllowed("soare") || l.IsAnswer("soare") {
		t.Error("soare should be allowed but not an answer")
	}
}

func TestLoadBothFiles(t *testing.T) {
	ans := writeFile(t, "answers.json", `["Crane", "slate", "toolong", 42, "slate"]`)
	allowed := writeFile(t, "allowed.txt", "# guesses\nsoare\n\nroate\nxx\n")

	l, err := Load(ans, allowed)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"crane", "slate"}, l.Answers.Strings()); diff != "" {
		t.Errorf("answers mismatch (-want +got):\n%s", diff)
	}
	want := []entropy.Word{"soare", "roate", "crane", "slate"}
	if diff := cmp.Diff(want, l.Guesses); diff != "" {
		t.Errorf("guesses mismatch (-want +got):\n%s", diff)
	}
	if l.IsAllowed("xx") || l.IsAllowed("grate") {
		t.Error("unexpected allowed word")
	}
}

func TestLoadAllowedOnly(t *testing.T) {
	allowed := writeFile(t, "allowed.txt", "crane\nslate\n")
	l, err := Load("", allowed)
	if err != nil {
		t.Fatal(err)
	}
	if l.Answers.Len() != 2 || len(l.Guesses) != 2 {
		t.Errorf("answers=%d guesses=%d", l.Answers.Len(), len(l.Guesses))
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt"), "x"); err == nil {
		t.Error("missing file should fail")
	}
	empty := writeFile(t, "answers.txt", "not-a-word\n1234\n")
	if _, err := Load(empty, ""); !errors.Is(err, ErrEmptyAnswers) {
		t.Errorf("err = %v, want ErrEmptyAnswers", err)
	}
	bad := writeFile(t, "answers.json", `["crane",`)
	if _, err := Load(bad, ""); err == nil {
		t.Error("broken JSON should fail")
	}
}

func TestRandomAnswer(t *testing.T) {
	l, err := New([]string{"crane", "slate"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		if w := l.RandomAnswer(); !l.Answers.Contains(w) {
			t.Fatalf("RandomAnswer() = %s", w)
		}
	}
}
