// Package repl implements the interactive resolver loop.
//
// Each line of input is captured and resolved through the selected dialect.
// Completions over the dialect vocabulary appear as you type; Tab cycles
// through candidates, and Up/Down navigate the file-backed history.
package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/qex/log"
)

const prompt = "➜ "

const defaultWidth = 80

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// Options configures the interactive loop.
type Options struct {
	Dialect  string
	Wrt      string // differentiation variable for the deriv dialect
	CacheDir string
	Logger   log.Logger
}

// Run starts the REPL with the given options.
func Run(ctx context.Context, opts Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	eval, err := newEvaluator(opts.Dialect, opts.Wrt)
	if err != nil {
		return err
	}

	opts.Logger.TraceContext(
		ctx,
		"repl start",
		slog.String("dialect", opts.Dialect),
		slog.String("cache_dir", opts.CacheDir),
	)

	historyPath := ""
	if opts.CacheDir != "" {
		historyPath = filepath.Join(opts.CacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		fmt.Printf("Warning: could not load history: %v\n", err)
	}

	m := newModel(ctx, eval, history, opts.Logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	eval       *evaluator
	logger     log.Logger
	history    *History
	historyIdx int
	matches    fuzzy.Matches // current fuzzy match results
	suggIdx    int           // selected candidate index
	tabActive  bool          // whether user is tab-cycling
	preTabText string        // input text before tab-cycling began
	width      int           // terminal width for ellipsization
	quitting   bool
}

func newModel(
	ctx context.Context,
	eval *evaluator,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		eval:       eval,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(prompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Input line.
	b.WriteString(m.input.View())
	b.WriteString("\n")

	// Completion / hint line.
	switch {
	case m.historyIdx < m.history.Len():
		// Show history position indicator
		hint := fmt.Sprintf("%d/%d", m.historyIdx+1, m.history.Len())
		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case strings.TrimSpace(m.input.Value()) == "":
		hint := "Type a " + m.eval.name +
			" expression, Tab to complete, Ctrl+D to exit"
		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case len(m.matches) > 0:
		// Render horizontal candidate bar.
		b.WriteString(renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width,
		))
		b.WriteString("\n")

	default:
		// Non-empty input but no matches: blank line.
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the current tab candidate without executing.
			m.tabActive = false
			m.refreshMatches()

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycleTab(1), nil

	case tea.KeyShiftTab:
		return m.cycleTab(-1), nil

	case tea.KeyUp:
		return m.historyPrev(), nil

	case tea.KeyDown:
		return m.historyNext(), nil

	case tea.KeyEsc:
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches()

		return m, nil
	}

	m.tabActive = false
	m.historyIdx = m.history.Len()

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	m.refreshMatches()

	return m, cmd
}

// executeInput resolves the current line and prints the result.
func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())

	m.input.SetValue("")
	m.tabActive = false
	m.matches = nil

	if input == "" {
		return m, nil
	}

	if _, err := m.history.Write(input); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "history write failed",
			slog.Any("error", err),
		)
	}

	m.historyIdx = m.history.Len()

	echo := promptStyle.Render(prompt) + inputStyle.Render(input)

	out, err := m.eval.eval(m.ctxFunc(), input)
	if err != nil {
		return m, tea.Sequence(
			tea.Println(echo),
			tea.Println(errorStyle.Render("🗴 "+err.Error())),
		)
	}

	return m, tea.Sequence(
		tea.Println(echo),
		tea.Println(resultStyle.Render(out)),
	)
}

// cycleTab starts or advances completion cycling in the given direction.
func (m model) cycleTab(dir int) model {
	if !m.tabActive {
		m.preTabText = m.input.Value()
		m.refreshMatches()

		if len(m.matches) == 0 {
			return m
		}

		m.tabActive = true
		m.suggIdx = 0
	} else {
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)
	}

	m.acceptCandidate()

	return m
}

// historyPrev recalls the previous history entry.
func (m model) historyPrev() model {
	if m.historyIdx == 0 {
		return m
	}

	m.historyIdx--
	m.input.SetValue(m.history.At(m.historyIdx))
	m.input.CursorEnd()
	m.tabActive = false
	m.matches = nil

	return m
}

// historyNext recalls the next history entry, returning to a blank line at
// the end.
func (m model) historyNext() model {
	if m.historyIdx >= m.history.Len() {
		return m
	}

	m.historyIdx++

	if m.historyIdx == m.history.Len() {
		m.input.SetValue("")
	} else {
		m.input.SetValue(m.history.At(m.historyIdx))
	}

	m.input.CursorEnd()
	m.tabActive = false
	m.matches = nil

	return m
}
