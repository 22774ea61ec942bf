package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles are bound to a
// renderer for the handler's writer, so color is only emitted when that writer
// is a terminal that supports it.
type palette struct {
	key, str, num, yes, no, dur, time, null lipgloss.Style
	level                                   map[Level]lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &palette{
		key:  fg("8"),
		str:  fg("6"),
		num:  fg("3"),
		yes:  fg("2"),
		no:   fg("1"),
		dur:  fg("5"),
		time: fg("4"),
		null: fg("8"),
		level: map[Level]lipgloss.Style{
			LevelTrace: fg("8"),
			LevelDebug: fg("4"),
			LevelInfo:  fg("2"),
			LevelWarn:  fg("3").Bold(true),
			LevelError: fg("1").Bold(true),
		},
	}
}

func (p *palette) levelStyle(l slog.Level) lipgloss.Style {
	switch lv := Level(l); {
	case lv >= LevelError:
		return p.level[LevelError]
	case lv >= LevelWarn:
		return p.level[LevelWarn]
	case lv >= LevelInfo:
		return p.level[LevelInfo]
	case lv >= LevelDebug:
		return p.level[LevelDebug]
	default:
		return p.level[LevelTrace]
	}
}

// render formats a resolved attribute value with the palette.
func (p *palette) render(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())
	case slog.KindInt64:
		return p.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return p.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")
	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())
	case slog.KindTime:
		return p.time.Render(v.Time().String())
	case slog.KindAny:
		if v.Any() == nil {
			return p.null.Render("null")
		}

		return p.str.Render(fmt.Sprint(v.Any()))
	default:
		return p.str.Render(v.String())
	}
}

// field is one flattened key/value pair of a record.
type field struct {
	key   string
	value slog.Value
}

// prettyCommon holds the state shared by both pretty handler variants.
type prettyCommon struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	pal    *palette
	prefix string  // group prefix for subsequently added attributes
	attrs  []field // attributes added via WithAttrs
}

func newPrettyCommon(w io.Writer, opts *slog.HandlerOptions) prettyCommon {
	return prettyCommon{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
		pal:  newPalette(w),
	}
}

func (h prettyCommon) enabled(level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// flatten resolves a, applies ReplaceAttr, and appends the result (with group
// keys joined by ".") to dst.
func (h prettyCommon) flatten(dst []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if len(group) == 0 {
			return dst
		}

		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range group {
			dst = h.flatten(dst, prefix, ga)
		}

		return dst
	}

	if rep := h.opts.ReplaceAttr; rep != nil && prefix == "" {
		a = rep(nil, a)
	}

	if a.Equal(slog.Attr{}) {
		return dst
	}

	return append(dst, field{key: prefix + a.Key, value: a.Value})
}

// fields returns the built-in fields followed by handler and record
// attributes.
func (h prettyCommon) fields(r slog.Record) []field {
	var out []field

	if !r.Time.IsZero() {
		out = h.flatten(out, "", slog.Time(slog.TimeKey, r.Time))
	}

	out = append(out, field{
		key:   slog.LevelKey,
		value: slog.StringValue(strings.ToUpper(Level(r.Level).String())),
	})

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			out = append(out, field{
				key:   slog.SourceKey,
				value: slog.StringValue(fmt.Sprintf("%s:%d", src.File, src.Line)),
			})
		}
	}

	out = append(out, field{key: slog.MessageKey, value: slog.StringValue(r.Message)})
	out = append(out, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		out = h.flatten(out, h.prefix, a)

		return true
	})

	return out
}

func (h prettyCommon) withAttrs(attrs []slog.Attr) prettyCommon {
	next := h
	next.attrs = append([]field(nil), h.attrs...)

	for _, a := range attrs {
		next.attrs = h.flatten(next.attrs, h.prefix, a)
	}

	return next
}

func (h prettyCommon) withGroup(name string) prettyCommon {
	next := h
	if name != "" {
		next.prefix = h.prefix + name + "."
	}

	return next
}

func (h prettyCommon) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler writes one colorized "key=value" line per record.
type prettyTextHandler struct{ prettyCommon }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{newPrettyCommon(w, opts)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	for i, f := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.pal.key.Render(f.key))
		buf.WriteByte('=')

		if f.key == slog.LevelKey {
			buf.WriteString(h.pal.levelStyle(r.Level).Render(f.value.String()))
		} else {
			buf.WriteString(h.pal.render(f.value))
		}
	}

	return h.write(&buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes each record as an indented, colorized JSON-like
// object. String values are unquoted, so the output is not machine-readable.
type prettyJSONHandler struct{ prettyCommon }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{newPrettyCommon(w, opts)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString("{\n")

	for i, f := range h.fields(r) {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(h.pal.key.Render(strconv.Quote(f.key)))
		buf.WriteString(": ")

		switch {
		case f.key == slog.LevelKey:
			buf.WriteString(h.pal.levelStyle(r.Level).Render(f.value.String()))

		case f.value.Kind() == slog.KindAny && f.value.Any() != nil:
			// Structured values are encoded rather than printed with %v.
			if data, err := json.Marshal(f.value.Any()); err == nil {
				buf.WriteString(h.pal.str.Render(string(data)))
			} else {
				buf.WriteString(h.pal.render(f.value))
			}

		default:
			buf.WriteString(h.pal.render(f.value))
		}
	}

	buf.WriteString("\n}")

	return h.write(&buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
