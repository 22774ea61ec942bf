package profile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/hyprprofile/hyprconf"
	"github.com/ardnew/hyprprofile/pkg"
)

// PersistName is the default file name of the persistence file, created in
// the profiles directory. The leading dot hides it from [Store.List].
const PersistName = ".hypr_persistant_profile.conf"

// persistMode is the permission of a newly created persistence file.
const persistMode = 0o644

// Persist is the file that records applied entries as "key=value" lines, in
// the form a Hyprland config can source.
type Persist struct {
	Path string
}

// Create opens the persistence file for writing, creating it and its parent
// directory if needed. The file is truncated unless appendMode is set.
func (p Persist) Create(appendMode bool) (io.WriteCloser, error) {
	if err := pkg.MkdirAll(filepath.Dir(p.Path)); err != nil {
		return nil, err
	}

	flag := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}

	f, err := os.OpenFile(p.Path, flag, persistMode)
	if err != nil {
		return nil, pkg.WrapError(err).With(slog.String("path", p.Path))
	}

	return f, nil
}

// Write writes each entry to w on its own line.
func (Persist) Write(w io.Writer, entries ...hyprconf.Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, e); err != nil {
			return err
		}
	}

	return nil
}

// Show copies the persistence file to w.
func (p Persist) Show(w io.Writer) error {
	f, err := os.Open(p.Path)
	if err != nil {
		return p.wrap(err)
	}
	defer f.Close()

	_, err = io.Copy(w, f)

	return err
}

// Clear removes the persistence file.
func (p Persist) Clear() error {
	return p.wrap(os.Remove(p.Path))
}

func (p Persist) wrap(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return ErrNoPersist.With(slog.String("path", p.Path))
	default:
		return pkg.WrapError(err).With(slog.String("path", p.Path))
	}
}
