// Package deriv computes symbolic derivatives of arithmetic expressions.
//
// Resolution produces expression trees rather than strings: every node
// resolves to the pair of its own subtree and that subtree's derivative,
// built bottom-up through the differentiation rules. Unlike the rendering
// dialects, unknown operators are an error here: a derivative of unknown
// vocabulary would be silently wrong, so the environment runs strict.
package deriv

import (
	"context"

	"github.com/ardnew/qex/lang"
)

// term pairs a subexpression with its derivative.
type term struct {
	value *lang.Expr
	deriv *lang.Expr
}

// Derivative captures source and returns the deparsed derivative of the
// expression with respect to wrt.
func Derivative(ctx context.Context, source, wrt string) (string, error) {
	e, err := lang.ParseString(ctx, source)
	if err != nil {
		return "", err
	}

	d, err := Resolve(ctx, e, wrt)
	if err != nil {
		return "", err
	}

	return d.Format(), nil
}

// Resolve returns the derivative tree of an already-captured expression with
// respect to wrt.
func Resolve(ctx context.Context, e *lang.Expr, wrt string) (*lang.Expr, error) {
	symbols := make(map[string]any)

	for name := range lang.Identifiers(e) {
		d := int64(0)
		if name == wrt {
			d = 1
		}

		symbols[name] = term{
			value: lang.Ident(name),
			deriv: lang.Lit(d),
		}
	}

	env := lang.NewEnv(e,
		lang.WithSymbols(symbols),
		lang.WithOperators(Operators()),
		lang.WithStrict(true),
	)

	out, err := lang.Resolve(ctx, e, env)
	if err != nil {
		return nil, err
	}

	return Simplify(toTerm(out).deriv), nil
}

// Operators returns the differentiation rule table.
func Operators() map[string]lang.Resolver {
	return map[string]lang.Resolver{
		"+":    rule2(sumRule),
		"-":    rule2(differenceRule),
		"*":    rule2(productRule),
		"/":    rule2(quotientRule),
		"^":    rule2(powerRule),
		"neg":  rule1(negationRule),
		"sin":  rule1(sinRule),
		"cos":  rule1(cosRule),
		"log":  rule1(logRule),
		"exp":  rule1(expRule),
		"sqrt": rule1(sqrtRule),
	}
}

// rule1 adapts a unary differentiation rule to the Resolver contract.
func rule1(fn func(u term) term) lang.Resolver {
	return func(call *lang.CallSite) (any, error) {
		if len(call.Args) != 1 {
			return nil, lang.NewArityError(call, "1")
		}

		return fn(toTerm(call.Args[0])), nil
	}
}

// rule2 adapts a binary differentiation rule to the Resolver contract.
func rule2(fn func(a, b term) term) lang.Resolver {
	return func(call *lang.CallSite) (any, error) {
		if len(call.Args) != 2 {
			return nil, lang.NewArityError(call, "2")
		}

		return fn(toTerm(call.Args[0]), toTerm(call.Args[1])), nil
	}
}

// toTerm lifts a resolved value into a term. Literal payloads arrive as raw
// values; their derivative is zero.
func toTerm(v any) term {
	if t, ok := v.(term); ok {
		return t
	}

	return term{value: lang.Lit(v), deriv: lang.Lit(int64(0))}
}

func sumRule(a, b term) term {
	return term{
		value: add(a.value, b.value),
		deriv: add(a.deriv, b.deriv),
	}
}

func differenceRule(a, b term) term {
	return term{
		value: sub(a.value, b.value),
		deriv: sub(a.deriv, b.deriv),
	}
}

func productRule(a, b term) term {
	return term{
		value: mul(a.value, b.value),
		deriv: add(mul(a.deriv, b.value), mul(a.value, b.deriv)),
	}
}

func quotientRule(a, b term) term {
	return term{
		value: div(a.value, b.value),
		deriv: div(
			sub(mul(a.deriv, b.value), mul(a.value, b.deriv)),
			pow(b.value, lang.Lit(int64(2))),
		),
	}
}

// powerRule handles a^b. A constant exponent uses the power rule; otherwise
// the general form a^b * (b' log(a) + b a'/a) applies.
func powerRule(a, b term) term {
	value := pow(a.value, b.value)

	if isZero(b.deriv) {
		return term{
			value: value,
			deriv: mul(
				mul(b.value, pow(a.value, sub(b.value, lang.Lit(int64(1))))),
				a.deriv,
			),
		}
	}

	return term{
		value: value,
		deriv: mul(value, add(
			mul(b.deriv, lang.Call("log", a.value)),
			div(mul(b.value, a.deriv), a.value),
		)),
	}
}

func negationRule(u term) term {
	return term{value: neg(u.value), deriv: neg(u.deriv)}
}

func sinRule(u term) term {
	return term{
		value: lang.Call("sin", u.value),
		deriv: mul(lang.Call("cos", u.value), u.deriv),
	}
}

func cosRule(u term) term {
	return term{
		value: lang.Call("cos", u.value),
		deriv: neg(mul(lang.Call("sin", u.value), u.deriv)),
	}
}

func logRule(u term) term {
	return term{
		value: lang.Call("log", u.value),
		deriv: div(u.deriv, u.value),
	}
}

func expRule(u term) term {
	value := lang.Call("exp", u.value)

	return term{value: value, deriv: mul(value, u.deriv)}
}

func sqrtRule(u term) term {
	value := lang.Call("sqrt", u.value)

	return term{
		value: value,
		deriv: div(u.deriv, mul(lang.Lit(int64(2)), value)),
	}
}
