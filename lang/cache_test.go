package lang

import (
	"context"
	"sync"
	"testing"
)

func TestParseString_CacheReuse(t *testing.T) {
	ClearCache()

	const source = "f(x + 1, y)"

	first, err := ParseString(context.Background(), source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	second, err := ParseString(context.Background(), source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	// Trees are immutable, so cache hits return the identical tree.
	if first != second {
		t.Errorf("expected cache hit to return the same tree")
	}
}

func TestParseString_CacheKeyIncludesOptions(t *testing.T) {
	ClearCache()

	const source = "f(g(x))"

	deep, err := ParseString(context.Background(), source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	shallow, err := ParseString(context.Background(), source, WithMaxDepth(50))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if deep == shallow {
		t.Errorf("expected distinct cache entries for distinct options")
	}
}

func TestParseString_CachesErrors(t *testing.T) {
	ClearCache()

	const source = "f(x"

	if _, err := ParseString(context.Background(), source); err == nil {
		t.Fatalf("expected parse error")
	}

	// Error results are cached as well; the second call must fail the
	// same way without reparsing.
	if _, err := ParseString(context.Background(), source); err == nil {
		t.Fatalf("expected cached parse error")
	}
}

func TestParseString_ConcurrentAccess(t *testing.T) {
	ClearCache()

	const source = "a + b * c - f(d, k = e)"

	var wg sync.WaitGroup

	results := make([]*Expr, 16)

	for i := range results {
		wg.Add(1)

		go func() {
			defer wg.Done()

			expr, err := ParseString(context.Background(), source)
			if err != nil {
				t.Errorf("parse error: %v", err)

				return
			}

			results[i] = expr
		}()
	}

	wg.Wait()

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatalf("goroutine %d received a different tree", i)
		}
	}
}

func TestClearCache(t *testing.T) {
	ClearCache()

	const source = "x + y"

	first, err := ParseString(context.Background(), source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	ClearCache()

	second, err := ParseString(context.Background(), source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if first == second {
		t.Errorf("expected a fresh tree after ClearCache")
	}
}

func BenchmarkParseString_CacheHit(b *testing.B) {
	ClearCache()

	const source = "f(x + 1, g(y, k = 2)) * h(z) ^ 2"

	if _, err := ParseString(context.Background(), source); err != nil {
		b.Fatalf("parse error: %v", err)
	}

	b.ResetTimer()

	for b.Loop() {
		if _, err := ParseString(context.Background(), source); err != nil {
			b.Fatalf("parse error: %v", err)
		}
	}
}

func BenchmarkParseString_CacheMiss(b *testing.B) {
	const source = "f(x + 1, g(y, k = 2)) * h(z) ^ 2"

	b.ResetTimer()

	for b.Loop() {
		ClearCache()

		if _, err := ParseString(context.Background(), source); err != nil {
			b.Fatalf("parse error: %v", err)
		}
	}
}

func BenchmarkResolve(b *testing.B) {
	ClearCache()

	expr, err := ParseString(context.Background(), "f(x + 1, g(y)) * 2")
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}

	env := NewEnv(expr,
		WithSymbols(map[string]any{"x": int64(3), "y": int64(4)}),
	)

	b.ResetTimer()

	for b.Loop() {
		if _, err := Resolve(context.Background(), expr, env); err != nil {
			b.Fatalf("resolve error: %v", err)
		}
	}
}
