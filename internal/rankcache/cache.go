// Package rankcache persists ranking results in SQLite, keyed by a blake2b
// fingerprint of everything a ranking depends on. A ranking is a pure
// function of (candidates, guesses, topK), so a stored entry never goes stale.
package rankcache

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/blake2b"

	"github.com/robalobadob/wordle/apps/entropy-server/internal/entropy"
)

// keyVersion is mixed into every key; bump it when the stored result shape
// or the scoring rules change.
const keyVersion = "rank/v1"

// Cache is a SQLite-backed ranking cache. Safe for concurrent use.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the cache database at dsn and applies
// migrations.
func Open(dsn string) (*Cache, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Cache{db: db, now: time.Now}, nil
}

// Close releases the database handle.
func (c *Cache) Close() error { return c.db.Close() }

// Key fingerprints a ranking request. Word order matters: it decides ties.
func Key(candidates entropy.CandidateSet, guesses []entropy.Word, topK int) string {
	h, _ := blake2b.New256(nil) // nil key never errors
	h.Write([]byte(keyVersion))

	var n [8]byte
	writeInt := func(v int) {
		binary.BigEndian.PutUint64(n[:], uint64(v))
		h.Write(n[:])
	}
	writeInt(topK)
	writeInt(candidates.Len())
	for _, w := range candidates.Words() {
		h.Write([]byte(w))
	}
	writeInt(len(guesses))
	for _, w := range guesses {
		h.Write([]byte(w))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the stored ranking for key, if any.
func (c *Cache) Get(ctx context.Context, key string) (entropy.Ranking, bool, error) {
	var raw string
	err := c.db.QueryRowContext(ctx, `SELECT result FROM rank_cache WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return entropy.Ranking{}, false, nil
	}
	if err != nil {
		return entropy.Ranking{}, false, fmt.Errorf("select %s: %w", key, err)
	}
	var r entropy.Ranking
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return entropy.Ranking{}, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return r, true, nil
}

// Put stores r under key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key string, topK int, candidates int, r entropy.Ranking) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO rank_cache (key, top_k, candidates, guesses, result, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		key, topK, candidates, r.Scored, string(raw), c.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert %s: %w", key, err)
	}
	return nil
}

// Len reports how many rankings are stored.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rank_cache`).Scan(&n)
	return n, err
}

// Rank returns the cached ranking for the request or computes it with
// entropy.Rank and stores it. hit reports whether the cache answered.
// A failing write is logged, not returned: the computed ranking is still good.
func (c *Cache) Rank(ctx context.Context, guesses []entropy.Word, candidates entropy.CandidateSet, opts entropy.RankOptions) (r entropy.Ranking, hit bool, err error) {
	topK := opts.TopK
	if topK < 0 {
		return entropy.Ranking{}, false, fmt.Errorf("%w: topK %d", entropy.ErrInvalidInput, topK)
	}
	key := Key(candidates, guesses, topK)

	r, hit, err = c.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("rank cache read failed")
	} else if hit {
		return r, true, nil
	}

	r, err = entropy.Rank(ctx, guesses, candidates, opts)
	if err != nil {
		return entropy.Ranking{}, false, err
	}
	if err := c.Put(ctx, key, topK, candidates.Len(), r); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("rank cache write failed")
	}
	return r, false, nil
}
