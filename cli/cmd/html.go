package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/ardnew/qex/dialect/html"
	"github.com/ardnew/qex/lang"
)

// HTML renders a tag-call expression to HTML text.
type HTML struct {
	Strict bool `help:"Fail on tags outside the known vocabulary." short:"s"`

	Expr string `arg:"" help:"Tag expression to render." name:"expr"`
}

// Run executes the html command.
func (h *HTML) Run(ctx context.Context) error {
	return h.run(ctx, stdoutFrom(ctx))
}

func (h *HTML) run(ctx context.Context, w io.Writer) error {
	var opts []lang.EnvOption
	if h.Strict {
		opts = append(opts, lang.WithStrict(true))
	}

	out, err := html.Render(ctx, h.Expr, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, out)

	return err
}
