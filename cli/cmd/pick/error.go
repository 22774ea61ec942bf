package pick

import "github.com/ardnew/hyprprofile/pkg"

// Sentinel errors.
var (
	ErrNoCandidates = pkg.NewError("no profiles to choose from")
)
