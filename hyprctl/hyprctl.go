package hyprctl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ardnew/hyprprofile/log"
	"github.com/ardnew/hyprprofile/pkg"
)

const (
	// EnvSignature names the variable that identifies the compositor instance.
	EnvSignature = "HYPRLAND_INSTANCE_SIGNATURE"
	// EnvRuntimeDir names the variable holding the per-user runtime directory.
	EnvRuntimeDir = "XDG_RUNTIME_DIR"

	socketName = ".socket.sock"
	legacyRoot = "/tmp"

	// DefaultTimeout bounds a request when the context has no deadline.
	DefaultTimeout = 5 * time.Second

	replyOK = "ok"
)

var (
	// ErrNoInstance is returned when no compositor instance is identified in
	// the environment.
	ErrNoInstance = pkg.NewError(EnvSignature + " is not set")

	// ErrRejected is returned when the compositor does not acknowledge a
	// command with "ok".
	ErrRejected = pkg.NewError("command rejected")
)

// SocketPath returns the request socket of the instance named by
// HYPRLAND_INSTANCE_SIGNATURE. The socket is looked up under
// $XDG_RUNTIME_DIR/hypr first and under /tmp/hypr if that does not exist.
func SocketPath() (string, error) {
	sig := os.Getenv(EnvSignature)
	if sig == "" {
		return "", ErrNoInstance
	}

	legacy := filepath.Join(legacyRoot, "hypr", sig, socketName)

	if rt := os.Getenv(EnvRuntimeDir); rt != "" {
		path := filepath.Join(rt, "hypr", sig, socketName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}

		if _, err := os.Stat(legacy); err != nil {
			return path, nil
		}
	}

	return legacy, nil
}

// Client sends requests to one compositor socket.
type Client struct {
	Path    string
	Timeout time.Duration
	Logger  log.Logger
}

// Option configures a [Client].
type Option func(Client) Client

// WithPath sets the socket path instead of deriving it from the environment.
func WithPath(path string) Option {
	return func(c Client) Client {
		c.Path = path

		return c
	}
}

// WithTimeout bounds each request that has no earlier context deadline.
func WithTimeout(d time.Duration) Option {
	return func(c Client) Client {
		c.Timeout = d

		return c
	}
}

// WithLogger sets the logger that receives request traces.
func WithLogger(logger log.Logger) Option {
	return func(c Client) Client {
		c.Logger = logger

		return c
	}
}

// New returns a Client for the socket given by [WithPath], or by [SocketPath]
// if no path is set.
func New(opts ...Option) (Client, error) {
	c := Client{Timeout: DefaultTimeout}
	for _, opt := range opts {
		c = opt(c)
	}

	if c.Path == "" {
		path, err := SocketPath()
		if err != nil {
			return Client{}, err
		}

		c.Path = path
	}

	return c, nil
}

// Request sends command and returns the reply.
func (c Client) Request(ctx context.Context, command string) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	var d net.Dialer

	conn, err := d.DialContext(ctx, "unix", c.Path)
	if err != nil {
		return "", pkg.WrapError(err).With(slog.String("socket", c.Path))
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return "", err
		}
	}

	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	if _, err := io.WriteString(conn, command); err != nil {
		return "", c.fail(ctx, command, err)
	}

	reply, err := io.ReadAll(conn)
	if err != nil {
		return "", c.fail(ctx, command, err)
	}

	c.Logger.TraceContext(ctx, "hyprctl",
		slog.String("command", command),
		slog.String("reply", string(reply)),
	)

	return string(reply), nil
}

// Keyword sets a config keyword at runtime.
func (c Client) Keyword(ctx context.Context, key, value string) error {
	command := "keyword " + key + " " + value

	reply, err := c.Request(ctx, command)
	if err != nil {
		return err
	}

	if strings.TrimSpace(reply) != replyOK {
		return ErrRejected.With(
			slog.String("key", key),
			slog.String("value", value),
			slog.String("reply", strings.TrimSpace(reply)),
		)
	}

	return nil
}

// DismissError hides the compositor's error bar.
func (c Client) DismissError(ctx context.Context) error {
	reply, err := c.Request(ctx, "seterror disable")
	if err != nil {
		return err
	}

	if r := strings.TrimSpace(reply); r != replyOK {
		return ErrRejected.With(slog.String("reply", r))
	}

	return nil
}

// fail reports the context error in place of the I/O error it caused.
func (c Client) fail(ctx context.Context, command string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	} else if errors.Is(err, os.ErrDeadlineExceeded) {
		err = context.DeadlineExceeded
	}

	return pkg.WrapError(err).With(
		slog.String("socket", c.Path),
		slog.String("command", command),
	)
}
