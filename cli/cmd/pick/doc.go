// Package pick is an interactive terminal chooser for profile names.
//
// The chooser filters its candidates with fuzzy matching as the user types.
// Profiles from the [History] are listed before the rest so the most recently
// applied ones are a single keystroke away.
package pick
