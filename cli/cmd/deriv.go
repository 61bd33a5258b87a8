package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/ardnew/qex/dialect/deriv"
)

// Deriv differentiates an arithmetic expression symbolically.
type Deriv struct {
	Expr string `arg:"" help:"Expression to differentiate." name:"expr"`
	Wrt  string `arg:"" default:"x" help:"Variable to differentiate with respect to." name:"var" optional:""`
}

// Run executes the deriv command.
func (d *Deriv) Run(ctx context.Context) error {
	return d.run(ctx, stdoutFrom(ctx))
}

func (d *Deriv) run(ctx context.Context, w io.Writer) error {
	if d.Wrt == "" {
		return ErrEmptyVariable
	}

	out, err := deriv.Derivative(ctx, d.Expr, d.Wrt)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, out)

	return err
}
