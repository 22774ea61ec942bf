package hyprconf

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/hyprprofile/expand"
	"github.com/ardnew/hyprprofile/log"
)

// Profile syntax markers.
const (
	MacroMarker   = "#!"
	CommentMarker = "#"
	ScopeOpen     = "{"
	ScopeClose    = "}"
	Separator     = "="
	ScopeDelim    = ":"
)

// Entry is one assignment with its fully-qualified key.
type Entry struct {
	Key   string
	Value string
}

// String returns the entry as "key=value", the form written to persistence
// files.
func (e Entry) String() string { return e.Key + Separator + e.Value }

// LogValue implements [slog.LogValuer].
func (e Entry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("key", e.Key),
		slog.String("value", e.Value),
	)
}

type config struct {
	vars   expand.Source
	strict bool
	logger log.Logger
}

// Option configures a [Parser].
type Option func(config) config

// WithVariables sets the source used to expand values on macro lines.
// The default resolves from the process environment only.
func WithVariables(vars expand.Source) Option {
	return func(c config) config {
		c.vars = vars

		return c
	}
}

// WithStrict enables reporting of malformed lines. The entries produced are the
// same either way.
func WithStrict(strict bool) Option {
	return func(c config) config {
		c.strict = strict

		return c
	}
}

// WithLogger sets the logger that receives trace output for skipped lines and
// warnings for macro variables with no value.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}

// Parser converts profile lines into entries. A Parser holds no state between
// calls and is safe for concurrent use.
type Parser struct {
	config
}

// New returns a Parser configured by opts.
func New(opts ...Option) Parser {
	c := config{vars: expand.Environment()}
	for _, opt := range opts {
		c = opt(c)
	}

	return Parser{config: c}
}

// Parse is shorthand for New(opts...).Parse(lines) with diagnostics discarded.
func Parse(lines []string, opts ...Option) []Entry {
	entries, _ := New(opts...).Parse(lines)

	return entries
}

// Parse returns the entries of lines in input order.
// The error is non-nil only in strict mode, and joins every [*LineError].
func (p Parser) Parse(lines []string) ([]Entry, error) {
	s := scan{Parser: p}
	for i, line := range lines {
		s.line(i+1, line)
	}

	return s.finish()
}

// ParseReader splits r on "\n" and parses the result. Read failures and
// cancellation of ctx are returned along with the entries parsed so far.
func (p Parser) ParseReader(ctx context.Context, r io.Reader) ([]Entry, error) {
	s := scan{Parser: p}
	br := bufio.NewReader(r)

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return s.entries, err
		}

		line, err := br.ReadString('\n')
		if len(line) > 0 || err == nil {
			s.line(n, strings.TrimSuffix(line, "\n"))
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return s.entries, err
		}
	}

	return s.finish()
}

// scan is the state of a single parse pass.
type scan struct {
	Parser

	scopes  []string // open scope names, outermost first
	entries []Entry
	errs    []error
	last    int
}

func (s *scan) line(n int, raw string) {
	s.last = n
	text := strings.TrimSpace(raw)

	macro := false
	if rest, ok := strings.CutPrefix(text, MacroMarker); ok {
		macro = true
		text = strings.TrimSpace(rest)
	}

	if strings.HasPrefix(text, CommentMarker) {
		return
	}

	structural := false

	if strings.HasSuffix(text, ScopeOpen) {
		structural = true
		s.scopes = append(s.scopes,
			strings.TrimSpace(strings.TrimSuffix(text, ScopeOpen)))
	}

	if strings.HasPrefix(text, ScopeClose) {
		structural = true

		if len(s.scopes) == 0 {
			s.report(n, text, ErrUnbalancedScope)
		} else {
			s.scopes = s.scopes[:len(s.scopes)-1]
		}
	}

	key, value, ok := strings.Cut(text, Separator)
	if !ok {
		if text != "" && !structural {
			s.report(n, text, ErrMissingSeparator)
		}

		return
	}

	if i := strings.Index(value, CommentMarker); i >= 0 {
		value = value[:i]
	}

	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	if key == "" {
		s.report(n, text, ErrEmptyKey)
	}

	if macro {
		if missing := expand.Missing(value, s.vars); len(missing) > 0 {
			s.logger.Warn("unresolved variables",
				slog.Int("line", n),
				slog.String("key", key),
				slog.Any("names", missing),
			)
		}

		value = expand.Apply(value, s.vars)
	}

	s.entries = append(s.entries, Entry{Key: s.qualify(key), Value: value})
}

// qualify prefixes key with the open scopes, innermost first.
func (s *scan) qualify(key string) string {
	if len(s.scopes) == 0 {
		return key
	}

	var sb strings.Builder
	for _, scope := range slices.Backward(s.scopes) {
		sb.WriteString(scope)
		sb.WriteString(ScopeDelim)
	}

	sb.WriteString(key)

	return sb.String()
}

func (s *scan) report(n int, text string, err error) {
	s.logger.Trace("malformed profile line",
		slog.Int("line", n),
		slog.String("text", text),
		slog.String("reason", err.Error()),
	)

	if s.strict {
		s.errs = append(s.errs, &LineError{Line: n, Text: text, Err: err})
	}
}

func (s *scan) finish() ([]Entry, error) {
	if s.strict && len(s.scopes) > 0 {
		open := strings.Join(s.scopes, ScopeDelim)
		s.errs = append(s.errs, &LineError{
			Line: s.last,
			Text: open,
			Err:  ErrUnclosedScope.With(slog.Int("depth", len(s.scopes))),
		})
	}

	return s.entries, errors.Join(s.errs...)
}
