package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/hyprprofile/cli/cmd"
	"github.com/ardnew/hyprprofile/cli/cmd/pick"
	"github.com/ardnew/hyprprofile/hyprctl"
	"github.com/ardnew/hyprprofile/log"
	"github.com/ardnew/hyprprofile/pkg"
	"github.com/ardnew/hyprprofile/profile"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config"

// CLI is the top-level command-line interface for hyprprofile.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Dir        string        `default:"${profilesDir}" env:"HYPR_PROFILES_DIR"         help:"Profiles directory."                                                type:"path"`
	SearchPath string        `env:"HYPR_PROFILES_PATH"                                help:"More profile directories, separated by '${pathSep}', searched after --dir." name:"path"`
	Persist    string        `env:"HYPR_PERSIST_PROFILE_FILE"                         help:"Persistent profile (default: <dir>/${persistName})."                 type:"path"`
	Socket     string        `help:"Compositor request socket (default: derived from ${signatureEnv})." type:"path"`
	Timeout    time.Duration `default:"${timeout}"                                    help:"Timeout of each compositor request."`

	Apply        cmd.Apply        `cmd:"" help:"Apply a profile."`
	List         cmd.List         `cmd:"" help:"List profiles."`
	Show         cmd.Show         `cmd:"" help:"Print the entries of a profile without applying them."`
	Pick         cmd.Pick         `cmd:"" help:"Choose a profile interactively and apply it."`
	Persistent   cmd.Persistent   `cmd:"" help:"Show or clear the persistent profile."`
	DismissError cmd.DismissError `cmd:"" help:"Dismiss the compositor's configuration error bar." name:"dismiss-error"`
	Init         cmd.Init         `cmd:"" help:"Write a configuration file with the current flag values."`
}

// Run executes the hyprprofile CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return run(ctx, exit, os.Stdout, os.Stderr, args)
}

func run(
	ctx context.Context,
	exit func(code int),
	stdout, stderr io.Writer,
	args []string,
) error {
	var cli CLI

	err := pkg.MkdirAll(pkg.ConfigDir(), pkg.CacheDir())
	if err != nil {
		return err
	}

	configFilePath := filepath.Join(pkg.ConfigDir(), baseConfig)

	vars := kong.Vars{
		"version":              pkg.Version,
		cmd.ConfigIdentifier:   configFilePath,
		cmd.CacheIdentifier:    pkg.CacheDir(),
		cmd.ProfilesIdentifier: defaultProfilesDir(),
		"pathSep":              string(os.PathListSeparator),
		"persistName":          profile.PersistName,
		"signatureEnv":         hyprctl.EnvSignature,
		"timeout":              hyprctl.DefaultTimeout.String(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before parsing so that parse errors are logged with
	// the requested configuration.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(stdout, stderr),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolveYAML, configFilePath+".yaml", configFilePath+".yml"),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithProfiles(ctx, cli.profiles())
	ctx = cmd.WithApplier(ctx, cli.dial)
	ctx = cmd.WithHistory(ctx, loadHistory(ctx))

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// profiles returns the profile search path and persistent profile selected by
// the parsed flags.
func (c *CLI) profiles() cmd.Profiles {
	persist := c.Persist
	if persist == "" {
		persist = filepath.Join(c.Dir, profile.PersistName)
	}

	return cmd.Profiles{
		Store:   profile.Store{Dirs: profile.SearchPath(c.Dir, c.SearchPath)},
		Persist: profile.Persist{Path: persist},
	}
}

// dial connects to the socket given by --socket, or to the compositor
// instance named in the environment.
func (c *CLI) dial() (cmd.Applier, error) {
	client, err := hyprctl.New(
		hyprctl.WithPath(c.Socket),
		hyprctl.WithTimeout(c.Timeout),
		hyprctl.WithLogger(log.Default()),
	)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// defaultProfilesDir is used when neither --dir nor HYPR_PROFILES_DIR is set.
func defaultProfilesDir() string {
	return filepath.Join(pkg.HomeDir(), ".config", "hypr", "profiles")
}

// loadHistory reads the pick history from the cache directory. A history that
// cannot be read is logged and replaced by an empty one.
func loadHistory(ctx context.Context) *pick.History {
	h := pick.NewHistory(pick.DefaultHistoryPath())

	if err := h.Load(); err != nil {
		log.WarnContext(ctx, "failed to load history",
			slog.String("path", h.Path()),
			slog.Any("error", err),
		)
	}

	return h
}
