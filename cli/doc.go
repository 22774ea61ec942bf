// Package cli contains the command line interface for hyprprofile.
//
// # Usage
//
//	hyprprofile apply gaming --persist
//	hyprprofile show gaming --format yaml --filter 'name == "gaps_in"'
//	hyprprofile pick
//
// # Profiles
//
// Profiles are found in --dir (or $HYPR_PROFILES_DIR, by default
// ~/.config/hypr/profiles) followed by the directories listed in --path
// (or $HYPR_PROFILES_PATH). The persistent profile is --persist (or
// $HYPR_PERSIST_PROFILE_FILE), by default .hypr_persistant_profile.conf in
// the profiles directory.
//
// # Configuration
//
// Flag defaults may be set in config.yaml or config.json in the
// configuration directory (~/.config/hyprprofile). YAML keys name a flag with
// hyphens or underscores, or nest on its parts:
//
//	log:
//	  level: debug
//	dir: ~/profiles
//
// Environment variables and command-line flags override the config file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o hyprprofile .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/hyprprofile/pprof)
package cli
