package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/vxs/log"
)

// tokenCache stores token streams keyed by the xxh3 hash of their source.
var tokenCache sync.Map

// entry tracks the tokenization of one source.
type entry struct {
	once   sync.Once
	source string
	tokens []Token
}

// Parse returns the token stream of content, tokenizing it at most once per
// process. The returned slice and its tokens are shared and must not be
// modified.
func Parse(ctx context.Context, content string) []Token {
	hash := xxh3.HashString(content)
	key := strconv.FormatUint(hash, 36)

	value, hit := tokenCache.LoadOrStore(key, &entry{source: content})

	e, ok := value.(*entry)
	if !ok || e.source != content {
		// Hash collision: tokenize without caching.
		log.TraceContext(ctx, "token cache collision",
			slog.String("key", key),
		)

		return Tokenize(content)
	}

	e.once.Do(func() {
		e.tokens = Tokenize(content)
	})

	log.TraceContext(ctx, "token cache lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", hit),
		slog.Int("tokens", len(e.tokens)),
	)

	return e.tokens
}

// ParseReader reads all of r and returns its cached token stream.
func ParseReader(ctx context.Context, r io.Reader) ([]Token, error) {
	// Read-ahead lets the next chunk be fetched while the previous is copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	log.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return Parse(ctx, string(data)), nil
}

// ClearCache removes all cached token streams and compiled expressions.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	tokenCache.Range(func(key, _ any) bool {
		tokenCache.Delete(key)

		return true
	})

	programCache.Range(func(key, _ any) bool {
		programCache.Delete(key)

		return true
	})
}
