package cmd

import "github.com/ardnew/hyprprofile/pkg"

var (
	ErrApply       = pkg.NewError("profile not fully applied")
	ErrPersist     = pkg.NewError("write persistent profile")
	ErrNoProfiles  = pkg.NewError("no profile directory configured")
	ErrSource      = pkg.NewError("give either a profile name or --file")
	ErrFilter      = pkg.NewError("filter")
	ErrJSON        = pkg.NewError("marshal JSON")
	ErrYAML        = pkg.NewError("marshal YAML")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
	ErrNoCommand   = pkg.NewError("no command line context")
)
