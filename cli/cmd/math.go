package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/qex/dialect/latex"
	"github.com/ardnew/qex/lang"
	"github.com/ardnew/qex/log"
)

// Math translates a math expression to LaTeX source.
type Math struct {
	Strict bool `help:"Fail on names outside the known vocabulary." short:"s"`

	Expr string `arg:"" help:"Math expression to translate." name:"expr"`
}

// Run executes the math command.
func (m *Math) Run(ctx context.Context) error {
	return m.run(ctx, stdoutFrom(ctx))
}

func (m *Math) run(ctx context.Context, w io.Writer) error {
	var opts []lang.EnvOption
	if m.Strict {
		opts = append(opts, lang.WithStrict(true))
	}

	out, err := latex.ToMath(ctx, m.Expr, opts...)
	if err != nil {
		return err
	}

	log.TraceContext(ctx, "translated expression",
		slog.String("dialect", "latex"),
		slog.String("expr", m.Expr),
	)

	_, err = fmt.Fprintln(w, out)

	return err
}
