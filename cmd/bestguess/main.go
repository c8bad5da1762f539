// apps/entropy-server/cmd/bestguess/main.go
//
// Batch ranking from the command line.
//
// Usage:
//
//	bestguess [-answers FILE] [-guesses FILE] [-history crane:00202,slate:bbggg]
//	          [-top 20] [-workers N] [-cache rank.db] [-progress]
//
// Loads the word lists (embedded defaults when no file is given), narrows the
// answers by the history, scores every allowed guess and prints the best one
// followed by the top-K table.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/robalobadob/wordle/apps/entropy-server/internal/config"
	"github.com/robalobadob/wordle/apps/entropy-server/internal/entropy"
	"github.com/robalobadob/wordle/apps/entropy-server/internal/rankcache"
	"github.com/robalobadob/wordle/apps/entropy-server/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	zerolog.SetGlobalLevel(cfg.LogLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, cfg, os.Args[1:], os.Stdout)
	stop()
	os.Exit(exitCode(err))
}

// exitCode maps run's result to the process status: 0 on success, 2 for a
// usage error, 1 otherwise.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 2
	default:
		log.Error().Err(err).Msg("bestguess failed")
		return 1
	}
}

// run is main without the process plumbing. Flags default to cfg.
func run(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("bestguess", flag.ContinueOnError)
	answersPath := fs.String("answers", cfg.AnswersFile, "answer list (JSON array or one word per line)")
	guessesPath := fs.String("guesses", cfg.AllowedFile, "allowed guess list")
	top := fs.Int("top", orDefault(cfg.RankTopK, config.DefaultTopK), "number of guesses to list")
	workers := fs.Int("workers", orDefault(cfg.RankWorkers, runtime.NumCPU()), "scoring goroutines")
	history := fs.String("history", "", "comma-separated guess:pattern pairs, e.g. crane:00202,slate:bbggy")
	cachePath := fs.String("cache", cfg.RankCacheDSN, "SQLite rank cache (empty disables)")
	progress := fs.Bool("progress", false, "show a progress bar while scoring")
	if err := fs.Parse(args); err != nil {
		return err
	}

	lists, err := words.Load(*answersPath, *guessesPath)
	if err != nil {
		return fmt.Errorf("load words: %w", err)
	}
	obs, err := ParseHistory(*history)
	if err != nil {
		return err
	}
	cands, err := entropy.Filter(lists.Answers, obs...)
	if err != nil {
		return err
	}
	log.Info().
		Int("answers", lists.Answers.Len()).
		Int("guesses", len(lists.Guesses)).
		Int("candidates", cands.Len()).
		Msg("word lists loaded")
	if cands.Len() == 0 {
		return entropy.ErrNoCandidates
	}

	opts := entropy.RankOptions{TopK: *top, Workers: *workers}
	if *progress {
		bar := progressbar.Default(int64(len(lists.Guesses)), "scoring guesses")
		opts.Progress = func() { _ = bar.Add(1) }
		defer bar.Close()
	}

	start := time.Now()
	var ranking entropy.Ranking
	if *cachePath != "" {
		cache, err := rankcache.Open(*cachePath)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer cache.Close()
		var hit bool
		ranking, hit, err = cache.Rank(ctx, lists.Guesses, cands, opts)
		if err != nil {
			return err
		}
		log.Debug().Bool("hit", hit).Msg("rank cache")
	} else {
		ranking, err = entropy.Rank(ctx, lists.Guesses, cands, opts)
		if err != nil {
			return err
		}
	}
	log.Info().Dur("took", time.Since(start)).Int("scored", ranking.Scored).Msg("ranking done")

	printRanking(out, cands, ranking)
	return nil
}

// ParseHistory reads "guess:pattern" pairs separated by commas. An empty
// string is an empty history.
func ParseHistory(s string) ([]entropy.Observation, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []entropy.Observation
	for i, pair := range strings.Split(s, ",") {
		guess, pattern, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			return nil, fmt.Errorf("history %d: %w: want guess:pattern, got %q", i, entropy.ErrInvalidInput, pair)
		}
		code, err := entropy.ParseCode(pattern)
		if err != nil {
			return nil, fmt.Errorf("history %d: %w", i, err)
		}
		o, err := entropy.NewObservation(guess, code)
		if err != nil {
			return nil, fmt.Errorf("history %d: %w", i, err)
		}
		out = append(out, o)
	}
	return out, nil
}

func printRanking(out io.Writer, cands entropy.CandidateSet, r entropy.Ranking) {
	if cands.Len() <= 10 {
		fmt.Fprintf(out, "candidates (%d): %s\n", cands.Len(), strings.Join(cands.Strings(), " "))
	} else {
		fmt.Fprintf(out, "candidates: %d\n", cands.Len())
	}
	fmt.Fprintf(out, "best: %s  H=%.4f bits  E[rem]=%.2f\n\n", r.Best.Guess, r.Best.Entropy, r.Best.ExpectedRemaining)
	for i, s := range r.Top {
		fmt.Fprintf(out, "%3d. %s  H=%.4f bits  E[rem]=%.2f\n", i+1, s.Guess, s.Entropy, s.ExpectedRemaining)
	}
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
