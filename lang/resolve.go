package lang

import (
	"context"
	"fmt"
	"log/slog"
)

// Resolve evaluates a captured expression bottom-up against env.
//
// Literals resolve to their payload. Identifiers resolve through the scope
// chain. Calls resolve their arguments first, positional before keyword and
// each group in source order, then invoke the operator's Resolver with the
// resolved values.
//
// The input tree is never mutated; concurrent resolutions of the same tree
// are safe.
func Resolve(ctx context.Context, e *Expr, env *Env, opts ...Option) (any, error) {
	if e == nil {
		return nil, ErrNilExpression
	}

	if env == nil {
		env = NewEnv(e)
	}

	cfg := makeConfig(opts...)

	return resolve(ctx, e, env, &cfg)
}

// ResolveString captures source and resolves it in one step against an
// environment layered from the given operator and symbol tables.
func ResolveString(
	ctx context.Context,
	source string,
	operators map[string]Resolver,
	symbols map[string]any,
	opts ...EnvOption,
) (any, error) {
	e, err := ParseString(ctx, source)
	if err != nil {
		return nil, err
	}

	env := NewEnv(e, append([]EnvOption{
		WithOperators(operators),
		WithSymbols(symbols),
	}, opts...)...)

	return Resolve(ctx, e, env)
}

// resolve dispatches on node kind.
func resolve(ctx context.Context, e *Expr, env *Env, cfg *config) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch e.Kind {
	case KindLiteral:
		return e.Value, nil

	case KindIdent:
		return resolveIdent(ctx, e, env, cfg)

	case KindCall:
		return resolveCall(ctx, e, env, cfg)

	default:
		return nil, ErrInvalidKind.With(
			slog.String("kind", e.Kind.String()),
		)
	}
}

// resolveIdent looks up an identifier through the scope chain.
func resolveIdent(ctx context.Context, e *Expr, env *Env, cfg *config) (any, error) {
	value, scope, ok := env.Lookup(e.Name)
	if !ok {
		return nil, ErrUnknownName.With(slog.String("name", e.Name))
	}

	if env.strict && scope != ScopeSymbols {
		return nil, ErrUnknownName.With(
			slog.String("name", e.Name),
			slog.String("scope", scope),
		)
	}

	cfg.logger.TraceContext(ctx, "resolved identifier",
		slog.String("name", e.Name),
		slog.String("scope", scope),
	)

	return value, nil
}

// resolveCall resolves every argument, then invokes the operator's Resolver.
func resolveCall(ctx context.Context, e *Expr, env *Env, cfg *config) (any, error) {
	resolver, scope, ok := env.lookupOperator(e.Name)
	if !ok {
		return nil, ErrUnknownName.With(slog.String("name", e.Name))
	}

	if env.strict && scope == ScopeFallback {
		return nil, ErrUnknownName.With(
			slog.String("name", e.Name),
			slog.String("scope", scope),
		)
	}

	call := &CallSite{Op: e.Name, Pos: e.Pos}

	if len(e.Args) > 0 {
		call.Args = make([]any, len(e.Args))
		for i, arg := range e.Args {
			v, err := resolve(ctx, arg, env, cfg)
			if err != nil {
				return nil, err
			}

			call.Args[i] = v
		}
	}

	if len(e.Named) > 0 {
		call.Named = make([]NamedValue, len(e.Named))
		for i, named := range e.Named {
			v, err := resolve(ctx, named.Value, env, cfg)
			if err != nil {
				return nil, err
			}

			call.Named[i] = NamedValue{Name: named.Name, Value: v}
		}
	}

	cfg.logger.TraceContext(ctx, "resolving call",
		slog.String("op", e.Name),
		slog.String("scope", scope),
		slog.Int("args", len(call.Args)),
	)

	return resolver(call)
}

// Binary builds a Resolver for an infix operator of exactly two arguments,
// rendering them as strings joined by sep.
func Binary(sep string) Resolver {
	return func(call *CallSite) (any, error) {
		if len(call.Args) != 2 {
			return nil, NewArityError(call, "2")
		}

		return fmt.Sprint(call.Args[0]) + sep + fmt.Sprint(call.Args[1]), nil
	}
}

// Unary builds a Resolver for an operator of exactly one argument, rendering
// it as a string between prefix and suffix.
func Unary(prefix, suffix string) Resolver {
	return func(call *CallSite) (any, error) {
		if len(call.Args) != 1 {
			return nil, NewArityError(call, "1")
		}

		return prefix + fmt.Sprint(call.Args[0]) + suffix, nil
	}
}

// Fixed wraps fn with an exact positional argument count check.
func Fixed(n int, fn func(args []any) (any, error)) Resolver {
	return func(call *CallSite) (any, error) {
		if len(call.Args) != n {
			return nil, NewArityError(call, fmt.Sprint(n))
		}

		return fn(call.Args)
	}
}

// Variadic wraps fn, accepting any positional argument count.
func Variadic(fn func(args []any) (any, error)) Resolver {
	return func(call *CallSite) (any, error) {
		return fn(call.Args)
	}
}
