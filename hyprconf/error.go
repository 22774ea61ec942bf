package hyprconf

import (
	"fmt"
	"log/slog"

	"github.com/ardnew/hyprprofile/pkg"
)

var (
	// ErrMissingSeparator is reported for a line that is not blank, a comment,
	// or a scope marker, and has no "=".
	ErrMissingSeparator = pkg.NewError("missing separator")

	// ErrUnbalancedScope is reported for a "}" with no open scope.
	ErrUnbalancedScope = pkg.NewError("unbalanced scope")

	// ErrEmptyKey is reported for an assignment with nothing left of "=".
	ErrEmptyKey = pkg.NewError("empty key")

	// ErrUnclosedScope is reported once for scopes still open at end of input.
	ErrUnclosedScope = pkg.NewError("unclosed scope")
)

// LineError locates a strict-mode diagnostic in the parsed input.
type LineError struct {
	Line int    // 1-based line number
	Text string // trimmed line content, or the open scopes for ErrUnclosedScope
	Err  error
}

func (e *LineError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}

	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error { return e.Err }

// LogValue implements [slog.LogValuer].
func (e *LineError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", e.Line),
		slog.String("text", e.Text),
		slog.Any("error", e.Err),
	)
}
