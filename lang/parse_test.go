package lang

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// ignorePos strips source positions so tests compare tree shape only.
var ignorePos = cmpopts.IgnoreFields(Expr{}, "Pos")

func TestParseString_Literals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{name: "integer", input: "42", want: int64(42)},
		{name: "float", input: "3.14", want: 3.14},
		{name: "exponent", input: "1e3", want: 1000.0},
		{name: "negative integer", input: "-7", want: int64(-7)},
		{name: "string", input: `"hello"`, want: "hello"},
		{name: "escaped string", input: `"a\"b"`, want: `a"b`},
		{name: "true", input: "true", want: true},
		{name: "false", input: "false", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ClearCache()

			expr, err := ParseString(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if expr.Kind != KindLiteral {
				t.Fatalf("expected literal node, got %v", expr.Kind)
			}

			if expr.Value != tt.want {
				t.Errorf("expected %v (%T), got %v (%T)",
					tt.want, tt.want, expr.Value, expr.Value)
			}
		})
	}
}

func TestParseString_Structure(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Expr
	}{
		{
			name:  "identifier",
			input: "x",
			want:  Ident("x"),
		},
		{
			name:  "call with positional args",
			input: "f(x, 1)",
			want:  Call("f", Ident("x"), Lit(int64(1))),
		},
		{
			name:  "empty call",
			input: "f()",
			want:  Call("f"),
		},
		{
			name:  "nested call",
			input: "f(g(x))",
			want:  Call("f", Call("g", Ident("x"))),
		},
		{
			name:  "keyword argument",
			input: `img(src, alt = "photo")`,
			want: Call("img", Ident("src")).
				WithNamed("alt", Lit("photo")),
		},
		{
			name:  "interleaved keyword arguments",
			input: "f(a, k = 1, b)",
			want: &Expr{
				Kind:  KindCall,
				Name:  "f",
				Args:  []*Expr{Ident("a"), Ident("b")},
				Named: []NamedArg{{Name: "k", Value: Lit(int64(1))}},
			},
		},
		{
			name:  "precedence",
			input: "x + y * z",
			want:  Call("+", Ident("x"), Call("*", Ident("y"), Ident("z"))),
		},
		{
			name:  "left associativity",
			input: "a - b - c",
			want:  Call("-", Call("-", Ident("a"), Ident("b")), Ident("c")),
		},
		{
			name:  "right associative power",
			input: "a ^ b ^ c",
			want:  Call("^", Ident("a"), Call("^", Ident("b"), Ident("c"))),
		},
		{
			name:  "parens override precedence",
			input: "(x + y) * z",
			want:  Call("*", Call("+", Ident("x"), Ident("y")), Ident("z")),
		},
		{
			name:  "unary minus on identifier",
			input: "-x",
			want:  Call("neg", Ident("x")),
		},
		{
			name:  "unary plus is dropped",
			input: "+x",
			want:  Ident("x"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ClearCache()

			expr, err := ParseString(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if diff := cmp.Diff(tt.want, expr, ignorePos); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "unbalanced paren", input: "f(x"},
		{name: "trailing input", input: "x y"},
		{name: "bad character", input: "x @ y"},
		{name: "unterminated string", input: `"abc`},
		{name: "dangling operator", input: "x +"},
		{name: "malformed exponent", input: "1e+"},
		{name: "missing keyword value", input: "f(k = )"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ClearCache()

			_, err := ParseString(context.Background(), tt.input)
			if err == nil {
				t.Fatalf("expected parse error for %q", tt.input)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("expected *ParseError, got %T: %v", err, err)
			}
		})
	}
}

func TestParseString_ErrorLocation(t *testing.T) {
	ClearCache()

	_, err := ParseString(context.Background(), "f(x, @)")

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}

	if pe.Pos.Line != 1 || pe.Pos.Col != 6 {
		t.Errorf("expected error at 1:6, got %d:%d", pe.Pos.Line, pe.Pos.Col)
	}

	if !strings.Contains(pe.Error(), "^") {
		t.Errorf("expected caret snippet in error message:\n%s", pe.Error())
	}
}

func TestParseString_MaxDepth(t *testing.T) {
	ClearCache()

	deep := strings.Repeat("f(", 50) + "x" + strings.Repeat(")", 50)

	_, err := ParseString(context.Background(), deep, WithMaxDepth(10))
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("expected ErrMaxDepthExceeded, got %v", err)
	}

	ClearCache()

	if _, err := ParseString(context.Background(), deep); err != nil {
		t.Errorf("expected default depth to accept input: %v", err)
	}
}

func TestParseReader(t *testing.T) {
	ClearCache()

	expr, err := ParseReader(context.Background(), strings.NewReader("f(x + 1)"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	want := Call("f", Call("+", Ident("x"), Lit(int64(1))))
	if diff := cmp.Diff(want, expr, ignorePos); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_NameSets(t *testing.T) {
	ClearCache()

	expr, err := ParseString(context.Background(), "f(x, g(y, x), k = z)")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if diff := cmp.Diff([]string{"x", "y", "z"}, IdentifierNames(expr)); diff != "" {
		t.Errorf("identifiers mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"f", "g"}, OperatorNames(expr)); diff != "" {
		t.Errorf("operators mismatch (-want +got):\n%s", diff)
	}
}
