package config

import (
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

var keys = []string{
	"PORT", "LOG_LEVEL", "WORDS_ANSWERS_FILE", "WORDS_ALLOWED_FILE", "RANK_CACHE_DSN",
	"RANK_TOP_K", "RANK_WORKERS", "DAILY_SALT", "CLIENT_ORIGIN", "REQUEST_TIMEOUT",
}

func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	want := Config{
		Port:           "5175",
		LogLevel:       zerolog.InfoLevel,
		RankTopK:       20,
		RankWorkers:    runtime.NumCPU(),
		DailySalt:      "local_dev_salt",
		ClientOrigin:   "http://localhost:5173",
		RequestTimeout: 10 * time.Second,
	}
	if diff := cmp.Diff(want, FromEnv()); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WORDS_ANSWERS_FILE", "/tmp/answers.json")
	t.Setenv("RANK_CACHE_DSN", "./data/rank.db")
	t.Setenv("RANK_TOP_K", "5")
	t.Setenv("RANK_WORKERS", "3")
	t.Setenv("REQUEST_TIMEOUT", "2s")

	got := FromEnv()
	want := Config{
		Port:           "8080",
		LogLevel:       zerolog.DebugLevel,
		AnswersFile:    "/tmp/answers.json",
		RankCacheDSN:   "./data/rank.db",
		RankTopK:       5,
		RankWorkers:    3,
		DailySalt:      "local_dev_salt",
		ClientOrigin:   "http://localhost:5173",
		RequestTimeout: 2 * time.Second,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("overrides mismatch (-want +got):\n%s", diff)
	}
}

func TestFromEnvBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("RANK_TOP_K", "-1")
	t.Setenv("RANK_WORKERS", "many")
	t.Setenv("REQUEST_TIMEOUT", "soon")

	got := FromEnv()
	if got.LogLevel != zerolog.InfoLevel || got.RankTopK != 20 || got.RankWorkers != runtime.NumCPU() || got.RequestTimeout != 10*time.Second {
		t.Errorf("bad values not replaced by defaults: %+v", got)
	}
}
