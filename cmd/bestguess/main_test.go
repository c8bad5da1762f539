package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/robalobadob/wordle/apps/entropy-server/internal/config"
	"github.com/robalobadob/wordle/apps/entropy-server/internal/entropy"
)

func TestParseHistory(t *testing.T) {
	got, err := ParseHistory(" crane:00202, PLATE:bgggg ")
	if err != nil {
		t.Fatal(err)
	}
	c1, _ := entropy.ParseCode("00202")
	c2, _ := entropy.ParseCode("02222")
	want := []entropy.Observation{{Guess: "crane", Code: c1}, {Guess: "plate", Code: c2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseHistory mismatch (-want +got):\n%s", diff)
	}

	if h, err := ParseHistory(""); err != nil || h != nil {
		t.Errorf("empty history = %v, %v", h, err)
	}
	for _, bad := range []string{"crane", "crane:0020", "cran:00000", "crane:22221"} {
		if _, err := ParseHistory(bad); !errors.Is(err, entropy.ErrInvalidInput) {
			t.Errorf("ParseHistory(%q) err = %v, want ErrInvalidInput", bad, err)
		}
	}
}

func writeList(t *testing.T, dir, name string, words ...string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(strings.Join(words, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	answers := writeList(t, dir, "answers.txt", "crane", "slate", "plate", "grate")
	allowed := writeList(t, dir, "allowed.txt", "soare", "zzzzz")

	var out bytes.Buffer
	args := []string{"-answers", answers, "-guesses", allowed, "-top", "2", "-workers", "2"}
	if err := run(context.Background(), config.Config{}, args, &out); err != nil {
		t.Fatal(err)
	}
	want := "candidates (4): crane slate plate grate\n" +
		"best: slate  H=2.0000 bits  E[rem]=1.00\n\n" +
		"  1. slate  H=2.0000 bits  E[rem]=1.00\n" +
		"  2. plate  H=2.0000 bits  E[rem]=1.00\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunWithHistoryAndCache(t *testing.T) {
	dir := t.TempDir()
	answers := writeList(t, dir, "answers.txt", "crane", "slate", "plate", "grate")
	allowed := writeList(t, dir, "allowed.txt", "soare")
	args := []string{
		"-answers", answers, "-guesses", allowed, "-top", "1",
		"-history", "crane:00202", "-cache", filepath.Join(dir, "rank.db"),
	}

	var first, second bytes.Buffer
	if err := run(context.Background(), config.Config{}, args, &first); err != nil {
		t.Fatal(err)
	}
	if err := run(context.Background(), config.Config{}, args, &second); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(first.String(), "candidates (2): slate plate\n") {
		t.Errorf("output = %q", first.String())
	}
	if diff := cmp.Diff(first.String(), second.String()); diff != "" {
		t.Errorf("cached run differs (-first +second):\n%s", diff)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	answers := writeList(t, dir, "answers.txt", "crane", "slate")
	allowed := writeList(t, dir, "allowed.txt", "soare")

	err := run(context.Background(), config.Config{}, []string{"-answers", answers, "-guesses", allowed, "-history", "crane:00000"}, &bytes.Buffer{})
	if !errors.Is(err, entropy.ErrNoCandidates) {
		t.Errorf("err = %v, want ErrNoCandidates", err)
	}
	err = run(context.Background(), config.Config{}, []string{"-history", "nonsense"}, &bytes.Buffer{})
	if !errors.Is(err, entropy.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
	if err := run(context.Background(), config.Config{}, []string{"-bogus"}, &bytes.Buffer{}); err == nil {
		t.Error("unknown flag accepted")
	}
}

func TestRunTopK(t *testing.T) {
	dir := t.TempDir()
	answers := writeList(t, dir, "answers.txt", "crane", "slate", "plate", "grate")
	allowed := writeList(t, dir, "allowed.txt", "soare", "zzzzz")
	base := []string{"-answers", answers, "-guesses", allowed}

	cases := []struct {
		name string
		args []string
		want int
	}{
		{"default", nil, 6},
		{"zero", []string{"-top", "0"}, 0},
		{"two", []string{"-top", "2"}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(context.Background(), config.Config{}, append(append([]string{}, base...), tc.args...), &out); err != nil {
				t.Fatal(err)
			}
			rows := 0
			for i := 1; i <= 10; i++ {
				if strings.Contains(out.String(), fmt.Sprintf("%3d. ", i)) {
					rows++
				}
			}
			if rows != tc.want {
				t.Errorf("%d ranked rows, want %d:\n%s", rows, tc.want, out.String())
			}
			if !strings.Contains(out.String(), "best: slate") {
				t.Errorf("missing best line:\n%s", out.String())
			}
		})
	}

	err := run(context.Background(), config.Config{}, append(base, "-top", "-1"), &bytes.Buffer{})
	if !errors.Is(err, entropy.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestExitCode(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want int
	}{
		{nil, 0},
		{flag.ErrHelp, 2},
		{entropy.ErrNoCandidates, 1},
	} {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
