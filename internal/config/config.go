// apps/entropy-server/internal/config/config.go
//
// Environment configuration shared by the server and the CLI.
// Responsibilities:
//   - Read every setting from the process environment (after godotenv has
//     loaded .env, see main.go).
//   - Apply defaults for anything unset or unparsable.

package config

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultTopK is the ranking length used when RANK_TOP_K is unset.
const DefaultTopK = 20

// Config holds runtime settings.
type Config struct {
	Port     string
	LogLevel zerolog.Level

	AnswersFile string // empty → embedded list
	AllowedFile string // empty → embedded list

	RankCacheDSN string // empty → cache disabled
	RankTopK     int
	RankWorkers  int

	DailySalt      string
	ClientOrigin   string
	RequestTimeout time.Duration
}

// FromEnv reads Config from the environment.
func FromEnv() Config {
	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		log.Warn().Err(err).Msg("bad LOG_LEVEL, using info")
		lvl = zerolog.InfoLevel
	}
	return Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       lvl,
		AnswersFile:    os.Getenv("WORDS_ANSWERS_FILE"),
		AllowedFile:    os.Getenv("WORDS_ALLOWED_FILE"),
		RankCacheDSN:   os.Getenv("RANK_CACHE_DSN"),
		RankTopK:       envInt("RANK_TOP_K", DefaultTopK),
		RankWorkers:    envInt("RANK_WORKERS", runtime.NumCPU()),
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 10*time.Second),
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses a positive integer, falling back to def.
func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn().Str("key", k).Str("value", v).Int("default", def).Msg("ignoring bad integer")
		return def
	}
	return n
}

// envDuration parses a time.Duration ("10s", "500ms"), falling back to def.
func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Warn().Str("key", k).Str("value", v).Dur("default", def).Msg("ignoring bad duration")
		return def
	}
	return d
}
