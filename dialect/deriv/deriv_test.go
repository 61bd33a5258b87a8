package deriv

import (
	"context"
	"errors"
	"testing"

	"github.com/ardnew/qex/lang"
)

func TestDerivative(t *testing.T) {
	tests := []struct {
		name  string
		input string
		wrt   string
		want  string
	}{
		{name: "constant", input: "5", wrt: "x", want: "0"},
		{name: "variable", input: "x", wrt: "x", want: "1"},
		{name: "other variable", input: "y", wrt: "x", want: "0"},
		{name: "sum", input: "x + 5", wrt: "x", want: "1"},
		{name: "sum of variables", input: "x + y", wrt: "x", want: "1"},
		{name: "difference", input: "5 - x", wrt: "x", want: "-1"},
		{name: "scaled variable", input: "3 * x", wrt: "x", want: "3"},
		{name: "square", input: "x ^ 2", wrt: "x", want: "2 * x"},
		{name: "cube", input: "x ^ 3", wrt: "x", want: "3 * x^2"},
		{name: "product rule", input: "x * y", wrt: "x", want: "y"},
		{
			name:  "product of functions",
			input: "x * sin(x)",
			wrt:   "x",
			want:  "sin(x) + x * cos(x)",
		},
		{name: "sin", input: "sin(x)", wrt: "x", want: "cos(x)"},
		{name: "cos", input: "cos(x)", wrt: "x", want: "-sin(x)"},
		{name: "log", input: "log(x)", wrt: "x", want: "1 / x"},
		{name: "exp", input: "exp(x)", wrt: "x", want: "exp(x)"},
		{name: "sqrt", input: "sqrt(x)", wrt: "x", want: "1 / (2 * sqrt(x))"},
		{
			name:  "chain rule",
			input: "sin(x ^ 2)",
			wrt:   "x",
			want:  "cos(x^2) * (2 * x)",
		},
		{
			name:  "quotient rule",
			input: "x / y",
			wrt:   "x",
			want:  "y / y^2",
		},
		{name: "negation", input: "-x", wrt: "x", want: "-1"},
		{
			name:  "exponential base",
			input: "2 ^ x",
			wrt:   "x",
			want:  "2^x * log(2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Derivative(context.Background(), tt.input, tt.wrt)
			if err != nil {
				t.Fatalf("derivative error: %v", err)
			}

			if got != tt.want {
				t.Errorf("d/d%s %q: expected %q, got %q",
					tt.wrt, tt.input, tt.want, got)
			}
		})
	}
}

func TestDerivative_UnknownOperator(t *testing.T) {
	_, err := Derivative(context.Background(), "foo(x)", "x")
	if !errors.Is(err, lang.ErrUnknownName) {
		t.Fatalf("expected ErrUnknownName, got %v", err)
	}
}

func TestDerivative_ParseError(t *testing.T) {
	_, err := Derivative(context.Background(), "x +", "x")

	var pe *lang.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		name string
		expr *lang.Expr
		want string
	}{
		{
			name: "additive unit",
			expr: lang.Call("+", lang.Ident("x"), lang.Lit(int64(0))),
			want: "x",
		},
		{
			name: "multiplicative unit",
			expr: lang.Call("*", lang.Lit(int64(1)), lang.Ident("x")),
			want: "x",
		},
		{
			name: "zero absorption",
			expr: lang.Call("*", lang.Ident("x"), lang.Lit(int64(0))),
			want: "0",
		},
		{
			name: "constant folding",
			expr: lang.Call("+", lang.Lit(int64(2)), lang.Lit(int64(3))),
			want: "5",
		},
		{
			name: "double negation",
			expr: lang.Call("neg", lang.Call("neg", lang.Ident("x"))),
			want: "x",
		},
		{
			name: "zero exponent",
			expr: lang.Call("^", lang.Ident("x"), lang.Lit(int64(0))),
			want: "1",
		},
		{
			name: "unit exponent",
			expr: lang.Call("^", lang.Ident("x"), lang.Lit(int64(1))),
			want: "x",
		},
		{
			name: "nested simplification",
			expr: lang.Call("+",
				lang.Call("*", lang.Lit(int64(0)), lang.Ident("y")),
				lang.Call("*", lang.Lit(int64(1)), lang.Ident("x")),
			),
			want: "x",
		},
		{
			name: "unknown operator untouched",
			expr: lang.Call("f", lang.Call("+", lang.Ident("x"), lang.Lit(int64(0)))),
			want: "f(x)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Simplify(tt.expr).Format(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
