package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// levelColor returns the ANSI color used to render the given level.
func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	case level >= slog.LevelDebug:
		return colorBlue
	default:
		return colorMagenta // trace
	}
}

// prettyTextHandler implements a colorized text handler for log messages.
type prettyTextHandler struct {
	opts  slog.HandlerOptions
	mu    *sync.Mutex
	w     io.Writer
	attrs []slog.Attr
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		h.writeAttr(buf, slog.Time(slog.TimeKey, r.Time))
	}

	h.writeAttr(buf, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.writeAttr(buf, slog.String(
				slog.SourceKey,
				fmt.Sprintf("%s:%d", src.File, src.Line),
			))
		}
	}

	h.writeAttr(buf, slog.String(slog.MessageKey, r.Message))

	for _, a := range h.attrs {
		h.writeAttr(buf, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)

	return &clone
}

func (h *prettyTextHandler) WithGroup(string) slog.Handler {
	// Groups are flattened in pretty text output.
	return h
}

// writeAttr writes a single attribute with color and without quoting.
func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, a slog.Attr) {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	if a.Equal(slog.Attr{}) {
		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	value := a.Value.Resolve()

	switch a.Key {
	case slog.TimeKey:
		buf.WriteString(colorGray + value.String() + colorReset)

	case slog.LevelKey:
		color := colorCyan
		if level, ok := value.Any().(slog.Level); ok {
			color = levelColor(level)
		}

		buf.WriteString(color + value.String() + colorReset)

	case slog.MessageKey:
		buf.WriteString(value.String())

	case slog.SourceKey:
		buf.WriteString(colorGray + value.String() + colorReset)

	default:
		buf.WriteString(colorGray + a.Key + "=" + colorReset)
		buf.WriteString(value.String())
	}
}

// prettyJSONHandler implements a colorized, indented JSON handler.
type prettyJSONHandler struct {
	opts  slog.HandlerOptions
	mu    *sync.Mutex
	w     io.Writer
	attrs []slog.Attr
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	record := make(map[string]any)

	put := func(a slog.Attr) {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Equal(slog.Attr{}) {
			return
		}

		record[a.Key] = resolveValue(a.Value)
	}

	if !r.Time.IsZero() {
		put(slog.Time(slog.TimeKey, r.Time))
	}

	put(slog.Any(slog.LevelKey, r.Level))
	put(slog.String(slog.MessageKey, r.Message))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			put(slog.String(
				slog.SourceKey,
				fmt.Sprintf("%s:%d", src.File, src.Line),
			))
		}
	}

	for _, a := range h.attrs {
		put(a)
	}

	r.Attrs(func(a slog.Attr) bool {
		put(a)

		return true
	})

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err = h.w.Write(append(colorizeJSON(data), '\n'))

	return err
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)

	return &clone
}

func (h *prettyJSONHandler) WithGroup(string) slog.Handler {
	return h
}

// resolveValue converts a slog.Value to a JSON-encodable Go value.
func resolveValue(v slog.Value) any {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindGroup:
		group := make(map[string]any)
		for _, a := range v.Group() {
			group[a.Key] = resolveValue(a.Value)
		}

		return group

	case slog.KindLogValuer:
		return resolveValue(v.Resolve())

	default:
		return v.Any()
	}
}

// colorizeJSON applies gray coloring to JSON object keys.
// Values are left uncolored for readability.
func colorizeJSON(data []byte) []byte {
	var buf bytes.Buffer

	for line := range strings.Lines(string(data)) {
		trimmed := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(trimmed)]

		key, rest, found := strings.Cut(trimmed, "\": ")
		if found && strings.HasPrefix(key, "\"") {
			buf.WriteString(indent)
			buf.WriteString(colorGray + key + "\":" + colorReset + " ")
			buf.WriteString(rest)
		} else {
			buf.WriteString(line)
		}
	}

	return buf.Bytes()
}
