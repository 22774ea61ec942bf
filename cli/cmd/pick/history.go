package pick

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/hyprprofile/pkg"
)

// HistoryName is the file name of the history in the cache directory.
const HistoryName = "history.utf8"

// MaxHistory bounds the number of names a [History] retains.
const MaxHistory = 32

// History records applied profile names, most recent first, with file
// persistence. A History is safe for concurrent use.
type History struct {
	path  string
	names []string
	mu    sync.RWMutex
}

// NewHistory returns an empty History backed by the file at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// DefaultHistoryPath returns the history file in [pkg.CacheDir].
func DefaultHistoryPath() string {
	return filepath.Join(pkg.CacheDir(), HistoryName)
}

// Path returns the backing file.
func (h *History) Path() string { return h.path }

// Load replaces the entries with the contents of the history file.
// A missing file leaves the history empty.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.names = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" || slices.Contains(h.names, name) {
			continue
		}

		h.names = append(h.names, name)
		if len(h.names) == MaxHistory {
			break
		}
	}

	return scanner.Err()
}

// Add moves name to the front, removing any earlier occurrence.
func (h *History) Add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.names = slices.DeleteFunc(h.names, func(s string) bool { return s == name })
	h.names = slices.Insert(h.names, 0, name)

	if len(h.names) > MaxHistory {
		h.names = h.names[:MaxHistory]
	}
}

// Save rewrites the history file, creating its directory if needed.
func (h *History) Save() error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if err := pkg.MkdirAll(filepath.Dir(h.path)); err != nil {
		return err
	}

	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	for _, name := range h.names {
		w.WriteString(name)
		w.WriteByte('\n')
	}

	if err := w.Flush(); err != nil {
		file.Close()

		return err
	}

	return file.Close()
}

// Names returns a copy of the entries, most recent first.
func (h *History) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.names)
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.names)
}

// Order returns names with those in the history first, most recent first,
// followed by the remainder in their given order, and the number of names
// taken from the history. History entries absent from names are dropped.
func (h *History) Order(names []string) ([]string, int) {
	recent := h.Names()
	ordered := make([]string, 0, len(names))

	for _, name := range recent {
		if slices.Contains(names, name) {
			ordered = append(ordered, name)
		}
	}

	n := len(ordered)

	for _, name := range names {
		if !slices.Contains(recent, name) {
			ordered = append(ordered, name)
		}
	}

	return ordered, n
}
