// Package cmd implements the hyprprofile subcommands.
//
// Each command is a struct whose fields are its flags and arguments, with a
// Run method that receives a context.Context. Shared collaborators travel in
// that context:
//
//   - [WithProfiles]: the profile search path and persistent profile
//   - [WithApplier]: the compositor connection
//   - [WithHistory]: the recently applied profiles
//   - [WithInput], [WithOutput]: standard streams
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path of
	// the configuration file, without extension.
	ConfigIdentifier = "config"

	// ProfilesIdentifier is the kong variable identifier containing the
	// default profiles directory.
	ProfilesIdentifier = "profilesDir"
)
