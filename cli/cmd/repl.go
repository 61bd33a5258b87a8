package cmd

import (
	"context"

	"github.com/ardnew/qex/cli/cmd/repl"
	"github.com/ardnew/qex/log"
)

// Repl starts the interactive resolver loop.
type Repl struct {
	Dialect string `default:"math" enum:"math,html,deriv,pred" help:"Dialect to resolve expressions with." short:"d"`
	Wrt     string `default:"x"                                help:"Differentiation variable for the deriv dialect."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	return repl.Run(ctx, repl.Options{
		Dialect:  r.Dialect,
		Wrt:      r.Wrt,
		CacheDir: cacheDirFrom(ctx),
		Logger:   log.Default(),
	})
}
