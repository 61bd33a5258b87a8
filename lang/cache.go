package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores captured expression trees keyed by source+options hash.
// Trees are immutable after capture, so cached entries are shared directly.
var globalCache sync.Map

// state tracks a single capture: the sync.Once guards the parse, and the
// result fields are valid once it completes.
type state struct {
	once sync.Once
	expr *Expr
	err  error
}

// hashOptions encodes capture options using gob and hashes with xxh3.
// Returns a hash that uniquely identifies the options configuration.
func hashOptions(opts optionsKey) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)
	_ = enc.Encode(opts.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

// ParseString captures an expression from source text.
//
// Results are cached by source and options hash; repeated captures of the
// same source return the same immutable tree.
func ParseString(ctx context.Context, source string, opts ...Option) (*Expr, error) {
	cfg := makeConfig(opts...)

	// Combine source hash with options hash for cache key uniqueness.
	sourceHash := xxh3.Hash([]byte(source))
	optsHash := hashOptions(cfg.opts)
	sourceKey := strconv.FormatUint(sourceHash^optsHash, 36)

	entry := new(state)
	value, cacheHit := globalCache.LoadOrStore(sourceKey, entry)

	cached, ok := value.(*state)
	if !ok {
		return nil, ErrReadInput.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	cfg.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", cacheHit),
	)

	cached.once.Do(func() {
		expr, err := parse(ctx, source, cfg)
		if err != nil {
			cached.err = err

			return
		}

		cached.expr = expr
	})

	return cached.expr, cached.err
}

// ParseReader captures an expression from an io.Reader.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Expr, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	// This allows data to be pre-fetched while we process previous chunks.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	cfg := makeConfig(opts...)
	cfg.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return ParseString(ctx, string(data), opts...)
}

// ClearCache removes all cached expression trees.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache = sync.Map{}
}
