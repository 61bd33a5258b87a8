package lang

import (
	"context"
	"testing"
	"unicode/utf8"
)

// FuzzParseString tests the capture pipeline with random inputs.
func FuzzParseString(f *testing.F) {
	// Seed corpus with known valid inputs
	f.Add("x")
	f.Add("42")
	f.Add("-3.14e-2")
	f.Add(`"string"`)
	f.Add("true")
	f.Add("f(x, y)")
	f.Add(`img(src, alt = "photo")`)
	f.Add("x + y * z ^ 2")
	f.Add("-(a + b)")
	f.Add("f(g(h(x)))")
	f.Add(`"escaped\"quote"`)
	f.Add("f(")
	f.Add("x @ y")

	f.Fuzz(func(t *testing.T, input string) {
		// Skip invalid UTF-8
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		// Capture must never panic on any input
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("parse panicked on input %q: %v", input, r)
			}
		}()

		ClearCache()

		expr, err := ParseString(context.Background(), input)
		if err != nil {
			return
		}

		// A successful capture must deparse and recapture cleanly.
		text := expr.Format()

		ClearCache()

		again, err := ParseString(context.Background(), text)
		if err != nil {
			t.Errorf("deparse of %q not reparseable: %q: %v", input, text, err)

			return
		}

		if again.Format() != text {
			t.Errorf("deparse not stable for %q: %q vs %q",
				input, again.Format(), text)
		}

		// Resolution with the default environment must stay total.
		if _, err := Resolve(context.Background(), expr, NewEnv(expr)); err != nil {
			t.Errorf("default resolution failed for %q: %v", input, err)
		}
	})
}
