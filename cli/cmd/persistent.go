package cmd

import (
	"context"
	"fmt"
)

// Persistent inspects the persistent profile.
type Persistent struct {
	Show  PersistentShow  `cmd:"" default:"1" help:"Print the persistent profile."`
	Clear PersistentClear `cmd:""            help:"Remove the persistent profile."`
}

// PersistentShow prints the persistent profile.
type PersistentShow struct{}

// Run executes the persistent show command.
func (p *PersistentShow) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	profiles, err := profilesFrom(ctx)
	if err != nil {
		return err
	}

	return profiles.Persist.Show(outputFrom(ctx))
}

// PersistentClear removes the persistent profile.
type PersistentClear struct{}

// Run executes the persistent clear command.
func (p *PersistentClear) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	profiles, err := profilesFrom(ctx)
	if err != nil {
		return err
	}

	if err := profiles.Persist.Clear(); err != nil {
		return err
	}

	_, err = fmt.Fprintln(outputFrom(ctx), "Persistent profile cleared")

	return err
}
