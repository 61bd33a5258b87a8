package lang

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestFormat_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // expected deparse; "" means identical to input
	}{
		{name: "literal", input: "42"},
		{name: "identifier", input: "x"},
		{name: "string literal", input: `"a b"`},
		{name: "call", input: "f(x, 1)"},
		{name: "keyword argument", input: `img(src, alt = "photo")`},
		{name: "infix", input: "x + y * z"},
		{name: "required grouping", input: "(x + y) * z"},
		{name: "redundant grouping dropped", input: "x + (y * z)", want: "x + y * z"},
		{name: "left assoc right operand", input: "a - (b - c)"},
		{name: "right assoc power", input: "a ^ b ^ c"},
		{name: "power left grouping", input: "(a ^ b) ^ c"},
		{name: "negation", input: "-x"},
		{name: "negated group", input: "-(x + y)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ClearCache()

			expr, err := ParseString(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			want := tt.want
			if want == "" {
				want = tt.input
			}

			if got := expr.Format(); got != want {
				t.Errorf("expected %q, got %q", want, got)
			}

			// The deparsed text must capture back to the same shape.
			ClearCache()

			again, err := ParseString(context.Background(), expr.Format())
			if err != nil {
				t.Fatalf("reparse error: %v", err)
			}

			if again.Format() != expr.Format() {
				t.Errorf("deparse not stable: %q vs %q",
					again.Format(), expr.Format())
			}
		})
	}
}

func TestFormatJSON(t *testing.T) {
	ClearCache()

	expr, err := ParseString(context.Background(), "f(x, k = 1)")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	out, err := FormatJSON(expr)
	if err != nil {
		t.Fatalf("format error: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if doc["kind"] != "Call" || doc["name"] != "f" {
		t.Errorf("unexpected document root: %v", doc)
	}
}

func TestFormatYAML(t *testing.T) {
	ClearCache()

	expr, err := ParseString(context.Background(), "x + 1")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	out, err := FormatYAML(context.Background(), expr)
	if err != nil {
		t.Fatalf("format error: %v", err)
	}

	for _, want := range []string{"kind:", "name:", "args:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in YAML output:\n%s", want, out)
		}
	}
}

func TestFormat_NilExpression(t *testing.T) {
	var e *Expr

	if got := e.String(); got != "<nil>" {
		t.Errorf("expected <nil>, got %q", got)
	}

	if _, err := FormatJSON(nil); err == nil {
		t.Errorf("expected error for nil expression")
	}

	if _, err := FormatYAML(context.Background(), nil); err == nil {
		t.Errorf("expected error for nil expression")
	}
}
