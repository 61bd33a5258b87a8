package repl

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/builtin"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/qex/dialect/deriv"
	"github.com/ardnew/qex/dialect/html"
	"github.com/ardnew/qex/dialect/latex"
	"github.com/ardnew/qex/lang"
)

// evaluator resolves one line of input through the selected dialect and
// carries the completion vocabulary for that dialect.
type evaluator struct {
	name       string
	vocabulary []string
	eval       func(ctx context.Context, input string) (string, error)
}

// newEvaluator builds the evaluator for a dialect name.
func newEvaluator(dialect, wrt string) (*evaluator, error) {
	switch dialect {
	case "math":
		return &evaluator{
			name: dialect,
			vocabulary: slices.Sorted(maps.Keys(vocabulary(
				latex.Symbols(), latex.Operators(),
			))),
			eval: func(ctx context.Context, input string) (string, error) {
				return latex.ToMath(ctx, input)
			},
		}, nil

	case "html":
		return &evaluator{
			name:       dialect,
			vocabulary: html.Tags(),
			eval: func(ctx context.Context, input string) (string, error) {
				return html.Render(ctx, input)
			},
		}, nil

	case "deriv":
		return &evaluator{
			name: dialect,
			vocabulary: slices.Sorted(maps.Keys(vocabulary(
				nil, deriv.Operators(),
			))),
			eval: func(ctx context.Context, input string) (string, error) {
				return deriv.Derivative(ctx, input, wrt)
			},
		}, nil

	case "pred":
		names := make([]string, 0, len(builtin.Builtins))
		for _, fn := range builtin.Builtins {
			names = append(names, fn.Name)
		}

		slices.Sort(names)

		return &evaluator{
			name:       dialect,
			vocabulary: names,
			eval:       evalPredicate,
		}, nil
	}

	return nil, ErrUnknownDialect.With(slog.String("dialect", dialect))
}

// vocabulary merges symbol and operator names into one candidate set.
func vocabulary(
	symbols map[string]any,
	operators map[string]lang.Resolver,
) map[string]struct{} {
	names := make(map[string]struct{}, len(symbols)+len(operators))

	for name := range symbols {
		names[name] = struct{}{}
	}

	for name := range operators {
		names[name] = struct{}{}
	}

	return names
}

// evalPredicate compiles and runs the input as a standalone predicate
// expression.
func evalPredicate(_ context.Context, input string) (string, error) {
	program, err := expr.Compile(input)
	if err != nil {
		return "", lang.WrapError(err)
	}

	result, err := vm.Run(program, nil)
	if err != nil {
		return "", lang.WrapError(err)
	}

	return fmt.Sprint(result), nil
}
