package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/forge/internal/ui/output"
	"go.trai.ch/forge/internal/ui/style"
)

// PrettyHandler is a slog.Handler that writes one colored line per record.
//
// Attributes holding an error are not printed as key=value. Their cause chain follows the
// line instead, and a record without a message starts with the chain.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

// NewPrettyHandler creates a PrettyHandler writing to w. A nil writer means os.Stderr.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	icon, color := levelStyle(r.Level)

	var words, chains []string
	if icon != "" {
		words = append(words, icon)
	}
	if r.Message != "" {
		words = append(words, r.Message)
	}

	add := func(attr slog.Attr) {
		if err, ok := attr.Value.Any().(error); ok {
			chains = append(chains, formatErrorEntries(collectErrorEntries(err)))
			return
		}
		words = append(words, attr.Key+"="+attr.Value.String())
	}
	for _, attr := range h.attrs {
		add(attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		flatten(h.prefix, attr, add)
		return true
	})

	text := strings.Join(words, " ")
	if len(chains) > 0 {
		sep := "\n"
		if r.Message == "" {
			sep = " "
		}
		text += sep + strings.Join(chains, "\n")
	}

	_, err := h.out.WriteString(h.out.String(text).Foreground(color).String() + "\n")
	return err
}

// WithAttrs returns a Handler that writes attrs, qualified by the current groups, before
// the attributes of each record.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, attr := range attrs {
		flatten(h.prefix, attr, func(a slog.Attr) { next.attrs = append(next.attrs, a) })
	}
	return &next
}

// WithGroup returns a Handler that qualifies later attribute keys with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

// flatten resolves attr and passes its leaves to add with keys qualified by prefix.
// Empty attributes are dropped and groups are inlined, as slog.Handler requires.
func flatten(prefix string, attr slog.Attr, add func(slog.Attr)) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	if attr.Value.Kind() != slog.KindGroup {
		add(slog.Attr{Key: prefix + attr.Key, Value: attr.Value})
		return
	}

	inner := prefix
	if attr.Key != "" {
		inner = prefix + attr.Key + "."
	}
	for _, member := range attr.Value.Group() {
		flatten(inner, member, add)
	}
}

func levelStyle(level slog.Level) (string, termenv.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross, termenv.RGBColor(string(style.Red))
	case level >= slog.LevelWarn:
		return style.Warning, termenv.RGBColor(string(style.Yellow))
	case level < slog.LevelInfo:
		return style.Tilde, termenv.RGBColor(string(style.Slate))
	default:
		return "", termenv.RGBColor(string(style.Slate))
	}
}
