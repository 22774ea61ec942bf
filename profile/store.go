package profile

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/mung"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/hyprprofile/hyprconf"
	"github.com/ardnew/hyprprofile/pkg"
)

// Ext is the file extension of profile files.
const Ext = ".conf"

// maxSuggest bounds the names returned by [Store.Suggest].
const maxSuggest = 3

// SearchPath returns primary followed by the existing directories named in
// extra, a list separated by [os.PathListSeparator]. Empty and repeated
// entries are dropped. primary is kept even if it does not exist.
func SearchPath(primary, extra string) []string {
	sep := string(os.PathListSeparator)

	joined := mung.Make(
		mung.WithSubjectItems(extra),
		mung.WithDelim(sep),
		mung.WithPrefixItems(primary),
		mung.WithFilter(searchable(primary)),
	).String()

	var dirs []string

	for dir := range strings.SplitSeq(joined, sep) {
		if dir != "" && !slices.ContainsFunc(dirs, sameDir(dir)) {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}

// searchable reports whether an item of the search path is primary or an
// existing directory.
func searchable(primary string) func(string) bool {
	return func(dir string) bool {
		if dir == "" {
			return false
		}

		if primary != "" && sameDir(primary)(dir) {
			return true
		}

		info, err := os.Stat(dir)

		return err == nil && info.IsDir()
	}
}

func sameDir(dir string) func(string) bool {
	dir = filepath.Clean(dir)

	return func(other string) bool { return filepath.Clean(other) == dir }
}

// Store finds profiles in an ordered list of directories. Earlier directories
// shadow later ones.
type Store struct {
	Dirs []string
}

// List returns the names of all visible profiles, sorted. A missing or
// unreadable first directory is an error. Later directories that cannot be
// read are skipped.
func (s Store) List() ([]string, error) {
	var names []string

	for i, dir := range s.Dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if i == 0 {
				return nil, pkg.WrapError(err).With(slog.String("dir", dir))
			}

			continue
		}

		for _, e := range entries {
			if name, ok := profileName(e); ok {
				names = append(names, name)
			}
		}
	}

	slices.Sort(names)

	return slices.Compact(names), nil
}

// Path returns the file of the named profile. The name may include the
// profile extension.
func (s Store) Path(name string) (string, error) {
	name = strings.TrimSuffix(name, Ext)

	if !validName(name) {
		return "", ErrInvalidName.With(slog.String("name", name))
	}

	for _, dir := range s.Dirs {
		path := filepath.Join(dir, name+Ext)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}

	err := ErrNotFound.With(slog.String("name", name))
	if suggest := s.Suggest(name); len(suggest) > 0 {
		err = err.With(slog.Any("suggest", suggest))
	}

	return "", err
}

// Suggest returns up to three profile names that fuzzy-match name, best
// first.
func (s Store) Suggest(name string) []string {
	names, err := s.List()
	if err != nil || name == "" {
		return nil
	}

	matches := fuzzy.Find(name, names)

	suggest := make([]string, 0, min(len(matches), maxSuggest))
	for _, m := range matches[:min(len(matches), maxSuggest)] {
		suggest = append(suggest, m.Str)
	}

	return suggest
}

// Load parses the named profile with p.
func (s Store) Load(
	ctx context.Context,
	name string,
	p hyprconf.Parser,
) ([]hyprconf.Entry, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, pkg.WrapError(err).With(slog.String("path", path))
	}
	defer f.Close()

	entries, err := p.ParseReader(ctx, f)
	if err != nil {
		var le *hyprconf.LineError
		if errors.As(err, &le) {
			return entries, pkg.NewError(filepath.Base(path)).Wrap(err)
		}

		return entries, pkg.WrapError(err).With(slog.String("path", path))
	}

	return entries, nil
}

func profileName(e fs.DirEntry) (string, bool) {
	if e.IsDir() {
		return "", false
	}

	name, ok := strings.CutSuffix(e.Name(), Ext)

	return name, ok && validName(name)
}

func validName(name string) bool {
	return name != "" &&
		!strings.HasPrefix(name, ".") &&
		!strings.ContainsRune(name, filepath.Separator)
}
