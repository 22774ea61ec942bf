package cmd

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/hyprprofile/log"
	"github.com/ardnew/hyprprofile/profile"
)

// envKey is the keyword that sets environment variables. It only takes effect
// when the compositor starts.
const envKey = "env"

// Apply sets every entry of a profile on the running compositor.
type Apply struct {
	Name    string `arg:"" help:"Profile name."`
	Persist bool   `help:"Also write the applied entries to the persistent profile." short:"p"`
	Append  bool   `help:"Append to the persistent profile instead of replacing it."  short:"a"`

	Parse parseConfig `embed:""`
}

// Run executes the apply command.
func (a *Apply) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	return applyProfile(ctx, a.Name, a.Persist, a.Append, a.Parse)
}

// applyProfile loads the named profile and sends each entry to the applier.
// A rejected entry is logged and the rest are still applied. With persist set,
// every entry is also written to the persistent profile.
func applyProfile(
	ctx context.Context,
	name string,
	persist, appendMode bool,
	pc parseConfig,
) (err error) {
	profiles, err := profilesFrom(ctx)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "loading profile",
		append([]slog.Attr{slog.String("name", name)}, pc.attrs()...)...)

	entries, err := profiles.Store.Load(ctx, name, pc.parser())
	if err != nil {
		return err
	}

	applier, err := applierFrom(ctx)
	if err != nil {
		return err
	}

	out := io.Discard

	if persist {
		f, ferr := profiles.Persist.Create(appendMode)
		if ferr != nil {
			return ErrPersist.Wrap(ferr)
		}

		defer func(err *error) {
			if cerr := f.Close(); cerr != nil && *err == nil {
				*err = ErrPersist.Wrap(cerr)
			}
		}(&err)

		out = f
	}

	failed := 0

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		if e.Key == envKey {
			log.WarnContext(ctx, "env entries have no effect at runtime",
				slog.Any("entry", e))
		}

		if err := applier.Keyword(ctx, e.Key, e.Value); err != nil {
			failed++

			log.ErrorContext(ctx, "failed to apply entry",
				slog.Any("entry", e),
				slog.Any("error", err),
			)
		}

		if persist {
			if err := profiles.Persist.Write(out, e); err != nil {
				log.ErrorContext(ctx, "failed to write persistent profile",
					slog.String("path", profiles.Persist.Path),
					slog.Any("error", err),
				)
			}
		}
	}

	log.InfoContext(ctx, "applied profile",
		slog.String("name", name),
		slog.Int("entries", len(entries)),
		slog.Int("failed", failed),
	)

	if failed > 0 {
		return ErrApply.With(
			slog.String("name", name),
			slog.Int("failed", failed),
			slog.Int("total", len(entries)),
		)
	}

	if h := historyFrom(ctx); h != nil {
		h.Add(strings.TrimSuffix(name, profile.Ext))

		if err := h.Save(); err != nil {
			log.WarnContext(ctx, "failed to save history",
				slog.String("path", h.Path()),
				slog.Any("error", err),
			)
		}
	}

	return nil
}
