package repl

import (
	"bufio"
	"os"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// History manages command history with file persistence.
type History struct {
	path    string
	entries []string
	mu      sync.RWMutex
}

// NewHistory creates a new History instance with the given file path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load reads history entries from the history file.
// A missing file is not an error.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		h.entries = append(h.entries, line)
	}

	return scanner.Err()
}

// Write appends a new entry to the history and rewrites the backing file.
// Duplicate entries move to the end rather than repeating.
func (h *History) Write(entry string) (int, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return 0, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Skip if same as last entry
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == entry {
		return len(entry), nil
	}

	// Move an existing duplicate to the end
	for i, existing := range h.entries {
		if existing == entry {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)

			break
		}
	}

	h.entries = append(h.entries, entry)

	if err := h.flush(); err != nil {
		return 0, err
	}

	return len(entry), nil
}

// flush rewrites the history file from the in-memory entries.
// Callers must hold the write lock.
func (h *History) flush() error {
	if h.path == "" {
		return nil
	}

	file, err := os.Create(h.path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	for _, entry := range h.entries {
		if _, err := w.WriteString(entry + "\n"); err != nil {
			return err
		}
	}

	return w.Flush()
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// At returns the history entry at index i, oldest first.
func (h *History) At(i int) string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return ""
	}

	return h.entries[i]
}
