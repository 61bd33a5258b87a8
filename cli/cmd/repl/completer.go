package repl

import (
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
)

// currentWord locates the identifier word containing the cursor.
// Returns the byte offsets of the word and its text.
func currentWord(input string, cursor int) (start, end int, word string) {
	if cursor > len(input) {
		cursor = len(input)
	}

	isWord := func(r byte) bool {
		return unicode.IsLetter(rune(r)) ||
			unicode.IsDigit(rune(r)) ||
			r == '_'
	}

	start = cursor
	for start > 0 && isWord(input[start-1]) {
		start--
	}

	end = cursor
	for end < len(input) && isWord(input[end]) {
		end++
	}

	return start, end, input[start:end]
}

// refreshMatches recomputes the fuzzy candidate list for the word at the
// cursor.
func (m *model) refreshMatches() {
	m.matches = nil
	m.suggIdx = 0

	_, _, word := currentWord(m.input.Value(), m.input.Position())
	if word == "" {
		return
	}

	m.matches = fuzzy.Find(word, m.eval.vocabulary)
}

// acceptCandidate replaces the word at the cursor with the selected
// candidate.
func (m *model) acceptCandidate() {
	if m.suggIdx >= len(m.matches) {
		return
	}

	candidate := m.matches[m.suggIdx].Str

	start, end, _ := currentWord(m.preTabText, m.input.Position())

	value := m.preTabText[:start] + candidate + m.preTabText[end:]
	m.input.SetValue(value)
	m.input.SetCursor(start + len(candidate))
}

// renderCandidateBar renders the horizontal completion bar, ellipsized to
// the terminal width. The selected candidate is highlighted only while
// tab-cycling.
func renderCandidateBar(
	matches fuzzy.Matches,
	selected int,
	tabActive bool,
	width int,
) string {
	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		if used+len(match.Str)+3 > width {
			b.WriteString(hintStyle.Render("…"))

			break
		}

		if i > 0 {
			b.WriteString("  ")
			used += 2
		}

		used += len(match.Str)

		if tabActive && i == selected {
			b.WriteString(selectedStyle.Render(match.Str))
		} else {
			b.WriteString(suggestionStyle.Render(match.Str))
		}
	}

	return b.String()
}
