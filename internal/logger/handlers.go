package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	ansiReset = "\033[0m"
	ansiDim   = "\033[90m"
	ansiCyan  = "\033[36m"
)

var levelColors = map[slog.Level]string{
	slog.LevelDebug: ansiDim,
	slog.LevelInfo:  "\033[32m",
	slog.LevelWarn:  "\033[33m",
	slog.LevelError: "\033[31m",
}

// targetKey is lifted out of the attribute list and printed as a "[de]"
// tag before the message, so per-locale runs line up in the console.
const targetKey = "target"

// PrettyHandler writes one human-readable line per record.
type PrettyHandler struct {
	w      io.Writer
	opts   *slog.HandlerOptions
	attrs  []groupedAttr
	groups []string
	color  bool
}

type groupedAttr struct {
	attr   slog.Attr
	groups []string
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions, color bool) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{w: w, opts: opts, color: color}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}
	return level >= threshold
}

func (h *PrettyHandler) paint(code, s string) string {
	if !h.color || code == "" {
		return s
	}
	return code + s + ansiReset
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	all := make([]groupedAttr, 0, len(h.attrs)+r.NumAttrs())
	all = append(all, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		all = append(all, groupedAttr{attr: a, groups: h.groups})
		return true
	})

	var target string
	var rest strings.Builder
	for _, ga := range all {
		a := ga.attr
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(ga.groups, a)
		}
		if a.Key == "" {
			continue
		}
		if len(ga.groups) == 0 && a.Key == targetKey {
			target = a.Value.String()
			continue
		}
		key := strings.Join(append(append([]string{}, ga.groups...), a.Key), ".")
		fmt.Fprintf(&rest, " %s%v", h.paint(ansiDim, key+"="), a.Value)
	}

	var b strings.Builder
	b.WriteString(r.Time.Format("15:04:05"))
	b.WriteByte(' ')
	b.WriteString(h.paint(levelColors[r.Level], fmt.Sprintf("%-5s", r.Level.String())))
	b.WriteByte(' ')
	if target != "" {
		b.WriteString(h.paint(ansiCyan, "["+target+"]"))
		b.WriteByte(' ')
	}
	b.WriteString(r.Message)
	b.WriteString(rest.String())
	b.WriteByte('\n')

	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = make([]groupedAttr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(h2.attrs, h.attrs)
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, groupedAttr{attr: a, groups: h.groups})
	}
	return &h2
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	return &h2
}

// multiHandler fans records out to the console and the JSONL log file.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("log handler: %v", errs)
	}
	return nil
}

func (m *multiHandler) each(fn func(slog.Handler) slog.Handler) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = fn(h)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}
