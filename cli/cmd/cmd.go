package cmd

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file, without its format extension.
	ConfigIdentifier = "config"
)

type (
	contextKey  struct{}
	cacheDirKey struct{}
)

// WithContext returns a new context.Context containing the given
// kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

// kongContextFrom retrieves the kong.Context stored by WithContext, or nil.
func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithCacheDir returns a new context.Context carrying the runtime cache
// directory path.
func WithCacheDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, cacheDirKey{}, dir)
}

// cacheDirFrom returns the cache directory stored by WithCacheDir, or ""
// when running outside the CLI.
func cacheDirFrom(ctx context.Context) string {
	dir, _ := ctx.Value(cacheDirKey{}).(string)

	return dir
}

// stdoutFrom returns the output writer bound to the kong parser, or
// os.Stdout when running outside the CLI.
func stdoutFrom(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}
