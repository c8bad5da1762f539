package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/entropy-server/internal/config"
	"github.com/robalobadob/wordle/apps/entropy-server/internal/httpserver"
	"github.com/robalobadob/wordle/apps/entropy-server/internal/rankcache"
	"github.com/robalobadob/wordle/apps/entropy-server/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	zerolog.SetGlobalLevel(cfg.LogLevel)

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("entropy-server exited")
		os.Exit(1)
	}
}

// run owns every resource that needs closing, so its defers always fire
// before main exits.
func run(cfg config.Config) error {
	lists, err := words.Load(cfg.AnswersFile, cfg.AllowedFile)
	if err != nil {
		return fmt.Errorf("load word lists: %w", err)
	}
	a, g := lists.Stats()
	log.Info().Int("answers", a).Int("allowed", g).Msg("word lists loaded")

	var cache *rankcache.Cache
	if cfg.RankCacheDSN != "" {
		if cache, err = rankcache.Open(cfg.RankCacheDSN); err != nil {
			return fmt.Errorf("open rank cache %s: %w", cfg.RankCacheDSN, err)
		}
		defer cache.Close()
	}

	srv := httpserver.New(cfg, lists, cache)
	defer srv.Close()
	log.Info().Str("port", cfg.Port).Bool("rankCache", cache != nil).Msg("starting entropy-server")
	return srv.Start(":" + cfg.Port)
}
