package repl

import (
	"path/filepath"
	"testing"
)

func TestHistory_WriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)

	for _, entry := range []string{"sin(x)", "cos(x)", "sin(x)"} {
		if _, err := h.Write(entry); err != nil {
			t.Fatalf("write error: %v", err)
		}
	}

	// The duplicate moved to the end rather than repeating.
	if h.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", h.Len())
	}

	if h.At(0) != "cos(x)" || h.At(1) != "sin(x)" {
		t.Errorf("unexpected order: %q, %q", h.At(0), h.At(1))
	}

	// A fresh instance reads the same entries back.
	again := NewHistory(path)
	if err := again.Load(); err != nil {
		t.Fatalf("load error: %v", err)
	}

	if again.Len() != 2 {
		t.Errorf("expected 2 persisted entries, got %d", again.Len())
	}
}

func TestHistory_IgnoresBlankEntries(t *testing.T) {
	h := NewHistory("")

	if _, err := h.Write("   "); err != nil {
		t.Fatalf("write error: %v", err)
	}

	if h.Len() != 0 {
		t.Errorf("expected blank entry to be dropped")
	}
}

func TestHistory_MissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "absent"))

	if err := h.Load(); err != nil {
		t.Fatalf("expected missing file to load empty: %v", err)
	}

	if h.Len() != 0 {
		t.Errorf("expected no entries, got %d", h.Len())
	}
}

func TestHistory_AtOutOfRange(t *testing.T) {
	h := NewHistory("")

	if got := h.At(0); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}

	if got := h.At(-1); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
