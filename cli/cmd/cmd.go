package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/hyprprofile/cli/cmd/pick"
	"github.com/ardnew/hyprprofile/expand"
	"github.com/ardnew/hyprprofile/hyprconf"
	"github.com/ardnew/hyprprofile/hyprctl"
	"github.com/ardnew/hyprprofile/log"
	"github.com/ardnew/hyprprofile/profile"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	profilesKey struct{}
	applierKey  struct{}
	historyKey  struct{}
	inputKey    struct{}
	outputKey   struct{}
)

// Profiles locates profiles and the persistence file.
type Profiles struct {
	Store   profile.Store
	Persist profile.Persist
}

// WithProfiles returns a new context.Context containing p.
func WithProfiles(ctx context.Context, p Profiles) context.Context {
	return context.WithValue(ctx, profilesKey{}, p)
}

func profilesFrom(ctx context.Context) (Profiles, error) {
	p, ok := ctx.Value(profilesKey{}).(Profiles)
	if !ok || len(p.Store.Dirs) == 0 {
		return Profiles{}, ErrNoProfiles
	}

	return p, nil
}

// Applier sets compositor keywords at runtime.
type Applier interface {
	Keyword(ctx context.Context, key, value string) error
	DismissError(ctx context.Context) error
}

// Dialer returns the [Applier] a command talks to. It is called only by
// commands that need one.
type Dialer func() (Applier, error)

// WithApplier returns a new context.Context containing dial.
func WithApplier(ctx context.Context, dial Dialer) context.Context {
	return context.WithValue(ctx, applierKey{}, dial)
}

// applierFrom dials the Applier stored by WithApplier, or a [hyprctl.Client]
// for the running compositor if none was stored.
func applierFrom(ctx context.Context) (Applier, error) {
	if dial, ok := ctx.Value(applierKey{}).(Dialer); ok && dial != nil {
		return dial()
	}

	c, err := hyprctl.New(hyprctl.WithLogger(log.Default()))
	if err != nil {
		return nil, err
	}

	return c, nil
}

// WithHistory returns a new context.Context containing the pick history.
func WithHistory(ctx context.Context, h *pick.History) context.Context {
	return context.WithValue(ctx, historyKey{}, h)
}

func historyFrom(ctx context.Context) *pick.History {
	h, _ := ctx.Value(historyKey{}).(*pick.History)

	return h
}

// WithInput returns a new context.Context whose commands read standard input
// from r.
func WithInput(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, inputKey{}, r)
}

func inputFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(inputKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// WithOutput returns a new context.Context whose commands write their output
// to w.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// outputFrom returns the writer stored by WithOutput, then the parser's
// stdout, then [os.Stdout].
func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// parseConfig holds the flags shared by commands that parse profiles.
type parseConfig struct {
	Var    map[string]string `help:"Define a macro variable, taking precedence over the environment." placeholder:"NAME=VALUE" short:"v"`
	NoEnv  bool              `help:"Do not resolve macro variables from the environment."`
	Strict bool              `help:"Fail on malformed profile lines."`
}

func (c parseConfig) parser() hyprconf.Parser {
	vars := expand.Source{UseEnvironment: !c.NoEnv}.With(c.Var)

	return hyprconf.New(
		hyprconf.WithVariables(vars),
		hyprconf.WithStrict(c.Strict),
		hyprconf.WithLogger(log.Default()),
	)
}

// attrs describes c for debug logging.
func (c parseConfig) attrs() []slog.Attr {
	return []slog.Attr{
		slog.Int("vars", len(c.Var)),
		slog.Bool("env", !c.NoEnv),
		slog.Bool("strict", c.Strict),
	}
}
