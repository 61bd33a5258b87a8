package latex

import (
	"context"
	"errors"
	"testing"

	"github.com/ardnew/qex/lang"
)

func TestToMath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "binary infix", input: "a + b", want: "a + b"},
		{name: "known function", input: "sin(x)", want: `\sin(x)`},
		{
			name:  "unknown operator fallback",
			input: "foo(x, y)",
			want:  `\mathtt{foo} \left( x, y \right )`,
		},
		{name: "known symbol", input: "pi", want: `\pi`},
		{name: "symbol inside call", input: "sin(pi)", want: `\sin(\pi)`},
		{name: "multiplication", input: "x * y", want: `x \cdot y`},
		{name: "power", input: "x ^ 2", want: "x^2"},
		{name: "sqrt braces", input: "sqrt(x + 1)", want: `\sqrt{x + 1}`},
		{name: "fraction", input: "frac(x, y)", want: `\frac{x}{y}`},
		{name: "absolute value", input: "abs(x)", want: `\left| x \right|`},
		{name: "negation", input: "-x", want: "-x"},
		{name: "literal passthrough", input: "42", want: "42"},
		{
			name:  "empty fallback arguments",
			input: "foo()",
			want:  `\mathtt{foo} \left(  \right )`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToMath(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("translate error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestToMath_SymbolPriority(t *testing.T) {
	// "pi" is both a symbol and an identifier present in the expression;
	// the symbol layer must win over identifier passthrough.
	got, err := ToMath(context.Background(), "pi + x")
	if err != nil {
		t.Fatalf("translate error: %v", err)
	}

	if got != `\pi + x` {
		t.Errorf("expected symbol layer to win: got %q", got)
	}
}

func TestResolve_ArityMismatch(t *testing.T) {
	// "+" accepts exactly two arguments; three is fatal.
	e := lang.Call("+",
		lang.Ident("a"),
		lang.Ident("b"),
		lang.Ident("c"),
	)

	_, err := Resolve(context.Background(), e)

	var ae *lang.ArityError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *ArityError, got %T: %v", err, err)
	}

	if ae.Op != "+" || ae.Got != 3 {
		t.Errorf("unexpected arity report: op=%q got=%d", ae.Op, ae.Got)
	}
}

func TestToMath_Strict(t *testing.T) {
	if _, err := ToMath(context.Background(), "sin(pi)", lang.WithStrict(true)); err != nil {
		t.Fatalf("expected known vocabulary to pass strict mode: %v", err)
	}

	_, err := ToMath(context.Background(), "foo(x)", lang.WithStrict(true))
	if !errors.Is(err, lang.ErrUnknownName) {
		t.Fatalf("expected ErrUnknownName, got %v", err)
	}
}

func TestToMath_ParseError(t *testing.T) {
	_, err := ToMath(context.Background(), "sin(x")

	var pe *lang.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
}
