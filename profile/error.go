package profile

import "github.com/ardnew/hyprprofile/pkg"

var (
	// ErrNotFound is returned when no directory of a Store holds the profile.
	ErrNotFound = pkg.NewError("profile not found")

	// ErrInvalidName is returned for names that are empty, hidden, or contain a
	// path separator.
	ErrInvalidName = pkg.NewError("invalid profile name")

	// ErrNoPersist is returned when the persistence file does not exist.
	ErrNoPersist = pkg.NewError("no persistent profile")
)
