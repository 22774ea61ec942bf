package expand

import (
	"iter"
	"os"
	"slices"
	"strings"
)

const (
	tokenOpen  = "${"
	tokenClose = '}'
)

// Source resolves placeholder names.
//
// The zero Source resolves nothing.
type Source struct {
	// Custom holds names that take precedence over the environment.
	Custom map[string]string
	// UseEnvironment enables the fallback to the process environment for names
	// not found in Custom.
	UseEnvironment bool
}

// Environment returns a Source with an empty custom table that falls back to
// the process environment.
func Environment() Source { return Source{UseEnvironment: true} }

// Lookup returns the value of name and whether it was resolved.
func (s Source) Lookup(name string) (string, bool) {
	if v, ok := s.Custom[name]; ok {
		return v, true
	}

	if s.UseEnvironment {
		return os.LookupEnv(name)
	}

	return "", false
}

// With returns a copy of s with the given custom variables added. Existing
// names are overwritten.
func (s Source) With(vars map[string]string) Source {
	if len(vars) == 0 {
		return s
	}

	custom := make(map[string]string, len(s.Custom)+len(vars))
	for k, v := range s.Custom {
		custom[k] = v
	}

	for k, v := range vars {
		custom[k] = v
	}

	s.Custom = custom

	return s
}

// Apply returns source with every placeholder replaced by its value in vars,
// or by "" if vars cannot resolve it. Text without placeholders, including an
// unterminated "${", is returned unchanged.
//
// Placeholders are found in source only. Each one, in order of appearance, is
// then substituted for every occurrence of its literal text in the running
// result, so a value that spells a placeholder still pending in source is
// replaced as well. Values are never scanned for new placeholders.
func Apply(source string, vars Source) string {
	result := source

	for start, end := range tokens(source) {
		token := source[start:end]
		value, _ := vars.Lookup(token[len(tokenOpen) : len(token)-1])
		result = strings.ReplaceAll(result, token, value)
	}

	return result
}

// Names returns the placeholder names referenced by source in order of first
// appearance, without duplicates.
func Names(source string) []string {
	var names []string

	for start, end := range tokens(source) {
		name := source[start+len(tokenOpen) : end-1]
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	return names
}

// Missing returns the names referenced by source that vars cannot resolve, in
// order of first appearance.
func Missing(source string, vars Source) []string {
	var missing []string

	for _, name := range Names(source) {
		if _, ok := vars.Lookup(name); !ok {
			missing = append(missing, name)
		}
	}

	return missing
}

// tokens yields the byte offsets [start, end) of each placeholder in s.
//
// A name is one or more characters other than newline, ended by the first "}"
// after its first character. Placeholders never overlap.
func tokens(s string) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for pos := 0; pos < len(s); {
			i := strings.Index(s[pos:], tokenOpen)
			if i < 0 {
				return
			}

			start := pos + i
			first := start + len(tokenOpen)

			if first >= len(s) {
				return
			}

			j := strings.IndexByte(s[first+1:], tokenClose)
			if j < 0 {
				return
			}

			end := first + 1 + j + 1

			if strings.IndexByte(s[first:end-1], '\n') >= 0 {
				pos = start + 1

				continue
			}

			if !yield(start, end) {
				return
			}

			pos = end
		}
	}
}
