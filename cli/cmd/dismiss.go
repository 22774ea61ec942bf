package cmd

import (
	"context"

	"github.com/ardnew/hyprprofile/log"
)

// DismissError hides the compositor's configuration error bar.
type DismissError struct{}

// Run executes the dismiss-error command.
func (d *DismissError) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	applier, err := applierFrom(ctx)
	if err != nil {
		return err
	}

	if err := applier.DismissError(ctx); err != nil {
		return err
	}

	log.DebugContext(ctx, "error bar dismissed")

	return nil
}
