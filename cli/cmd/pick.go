package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/hyprprofile/cli/cmd/pick"
	"github.com/ardnew/hyprprofile/log"
)

// choose runs the interactive chooser. Tests replace it.
var choose = func(ctx context.Context, names []string, recent int) (string, bool, error) {
	return pick.Run(ctx, names, recent)
}

// Pick chooses a profile interactively and applies it.
type Pick struct {
	Persist bool `help:"Also write the applied entries to the persistent profile." short:"p"`
	Append  bool `help:"Append to the persistent profile instead of replacing it."  short:"a"`

	Parse parseConfig `embed:""`
}

// Run executes the pick command.
func (p *Pick) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	profiles, err := profilesFrom(ctx)
	if err != nil {
		return err
	}

	names, err := profiles.Store.List()
	if err != nil {
		return err
	}

	recent := 0
	if h := historyFrom(ctx); h != nil {
		names, recent = h.Order(names)
	}

	name, ok, err := choose(ctx, names, recent)
	if err != nil {
		return err
	}

	if !ok {
		log.DebugContext(ctx, "pick canceled")

		return nil
	}

	log.DebugContext(ctx, "picked profile", slog.String("name", name))

	return applyProfile(ctx, name, p.Persist, p.Append, p.Parse)
}
