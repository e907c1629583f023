package tokenizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/zjrosen/scrollmem/internal/cachemanager"
	"github.com/zjrosen/scrollmem/internal/log"
)

// Direct tokenizes on every call.
type Direct struct{}

// Tokenize implements the same contract as Cache.Tokenize.
func (Direct) Tokenize(_ context.Context, text string) []Token {
	return Tokenize(text)
}

// Key identifies a text in the token cache.
type Key string

// KeyFor hashes text into a cache key.
func KeyFor(text string) Key {
	sum := sha256.Sum256([]byte(text))
	return Key(hex.EncodeToString(sum[:]))
}

// Cache memoizes Tokenize results. Tokens are immutable once produced, so a
// cached slice is shared between callers and must not be modified.
type Cache struct {
	rt  *cachemanager.ReadThroughCache[Key, []Token, string]
	ttl time.Duration
}

// NewCache builds a Cache over store. A zero ttl uses the store default.
func NewCache(store cachemanager.CacheManager[Key, []Token], ttl time.Duration) *Cache {
	load := func(_ context.Context, text string) ([]Token, error) {
		tokens := Tokenize(text)
		log.Debug(log.CatTokenize, "tokenized", "bytes", len(text), "tokens", len(tokens))
		return tokens, nil
	}
	if ttl <= 0 {
		ttl = cachemanager.DefaultExpiration
	}
	return &Cache{
		rt:  cachemanager.NewReadThroughCache(store, load, false),
		ttl: ttl,
	}
}

// NewInMemoryCache is NewCache over a go-cache backed store.
func NewInMemoryCache(ttl time.Duration) *Cache {
	store := cachemanager.NewInMemoryCacheManager[Key, []Token]("tokens", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	return NewCache(store, ttl)
}

// Tokenize returns the tokens for text, loading them on a miss. A hit
// extends the entry's lifetime.
func (c *Cache) Tokenize(ctx context.Context, text string) []Token {
	if text == "" {
		return nil
	}
	tokens, err := c.rt.GetWithRefresh(ctx, KeyFor(text), text, c.ttl)
	if err != nil {
		// The loader never fails; fall back rather than propagate.
		log.ErrorErr(log.CatTokenize, "token cache load failed", err)
		return Tokenize(text)
	}
	return tokens
}
