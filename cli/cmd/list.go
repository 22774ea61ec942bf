package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/hyprprofile/log"
)

// List prints the names of the available profiles.
type List struct{}

// Run executes the list command.
func (l *List) Run(ctx context.Context) (err error) {
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

	log.DebugContext(ctx, "listing profiles",
		slog.Any("dirs", profiles.Store.Dirs),
		slog.Int("count", len(names)),
	)

	w := outputFrom(ctx)
	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}

	return nil
}
