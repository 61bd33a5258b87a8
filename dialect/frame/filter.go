package frame

import (
	"context"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/qex/lang"
	"github.com/ardnew/qex/log"
)

// Filter returns a new frame holding the rows for which the predicate
// evaluates true. The predicate compiles once, with an environment exemplar
// drawn from the first row's column values, and the compiled program runs
// once per row.
func Filter(ctx context.Context, f *Frame, predicate string) (*Frame, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	if f.Rows() == 0 {
		return f.empty(), nil
	}

	program, err := expr.Compile(predicate, expr.Env(f.Row(0)))
	if err != nil {
		return nil, lang.WrapError(err).With(
			slog.String("predicate", predicate),
		)
	}

	log.Trace("compiled predicate",
		slog.String("predicate", predicate),
		slog.Int("rows", f.Rows()),
	)

	var keep []int

	for i := range f.Rows() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := vm.Run(program, f.Row(i))
		if err != nil {
			return nil, lang.WrapError(err).With(
				slog.String("predicate", predicate),
				slog.Int("row", i),
			)
		}

		match, ok := result.(bool)
		if !ok {
			return nil, ErrPredicate.With(
				slog.String("predicate", predicate),
				slog.Int("row", i),
				slog.Any("result", result),
			)
		}

		if match {
			keep = append(keep, i)
		}
	}

	return f.keep(keep), nil
}
