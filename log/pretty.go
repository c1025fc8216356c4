package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleTime  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	styleKey   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleTrace = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// prettyHandler is a human-oriented text handler: colored level tags, dim
// timestamps, and key=value attributes flattened through group prefixes.
type prettyHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	opts   *slog.HandlerOptions
	attrs  []slog.Attr
	prefix string
}

func newPrettyHandler(out io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		mu:   &sync.Mutex{},
		out:  out,
		opts: opts,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.opts.Level != nil {
		min = h.opts.Level.Level()
	}

	return level >= min
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	if ts := h.replaced(slog.Time(slog.TimeKey, r.Time)); ts.Key != "" {
		b.WriteString(styleTime.Render(ts.Value.String()))
		b.WriteByte(' ')
	}

	b.WriteString(levelStyle(Level(r.Level)).Render(levelTag(Level(r.Level))))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		h.writeAttr(&b, h.prefix, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&b, h.prefix, a)

		return true
	})

	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.out, b.String())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)

	return &clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.prefix = h.prefix + name + "."

	return &clone
}

// replaced routes an attr through the configured ReplaceAttr hook.
func (h *prettyHandler) replaced(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyHandler) writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		for _, member := range a.Value.Group() {
			h.writeAttr(b, prefix+a.Key+".", member)
		}

		return
	}

	if a.Equal(slog.Attr{}) {
		return
	}

	b.WriteByte(' ')
	b.WriteString(styleKey.Render(prefix + a.Key + "="))
	b.WriteString(fmt.Sprint(a.Value.Any()))
}

func levelTag(l Level) string {
	return strings.ToUpper(l.String())
}

func levelStyle(l Level) lipgloss.Style {
	switch {
	case l >= LevelError:
		return styleError
	case l >= LevelWarn:
		return styleWarn
	case l >= LevelInfo:
		return styleInfo
	case l >= LevelDebug:
		return styleDebug
	}

	return styleTrace
}
