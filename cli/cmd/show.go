package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/hyprprofile/hyprconf"
	"github.com/ardnew/hyprprofile/pkg"
)

// stdinSource is the --file value that reads standard input.
const stdinSource = "-"

// Show prints the entries of a profile without applying them.
type Show struct {
	Name   string `arg:""                                 help:"Profile name."                                        optional:""`
	File   string `help:"Parse this file instead of a named profile, or '-' for stdin."        placeholder:"PATH" short:"f"`
	Format string `default:"native" enum:"native,json,yaml" help:"Output format."                                  short:"o"`
	Indent int    `default:"2"                            help:"Indent width for json and yaml output. Zero prints compact JSON."               short:"i"`
	Filter string `help:"Print only the entries for which the expression is true."             placeholder:"EXPR"`

	Parse parseConfig `embed:""`
}

// entryDoc is the structured form of an entry.
type entryDoc struct {
	Key   string `json:"key"   yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// filterEnv is the environment of a --filter expression. For the entry
// "blur:decoration:enabled", name is "enabled" and scope is
// ["blur", "decoration"].
type filterEnv struct {
	Key   string   `expr:"key"`
	Value string   `expr:"value"`
	Name  string   `expr:"name"`
	Scope []string `expr:"scope"`
}

func newFilterEnv(e hyprconf.Entry) filterEnv {
	parts := strings.Split(e.Key, hyprconf.ScopeDelim)

	return filterEnv{
		Key:   e.Key,
		Value: e.Value,
		Name:  parts[len(parts)-1],
		Scope: parts[:len(parts)-1],
	}
}

// Run executes the show command.
func (s *Show) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	entries, err := s.entries(ctx)
	if err != nil {
		return err
	}

	if s.Filter != "" {
		entries, err = filterEntries(entries, s.Filter)
		if err != nil {
			return err
		}
	}

	return s.write(ctx, outputFrom(ctx), entries)
}

func (s *Show) entries(ctx context.Context) ([]hyprconf.Entry, error) {
	if (s.Name == "") == (s.File == "") {
		return nil, ErrSource
	}

	p := s.Parse.parser()

	if s.Name != "" {
		profiles, err := profilesFrom(ctx)
		if err != nil {
			return nil, err
		}

		return profiles.Store.Load(ctx, s.Name, p)
	}

	var r io.Reader

	if s.File == stdinSource {
		r = inputFrom(ctx)
	} else {
		f, err := os.Open(s.File)
		if err != nil {
			return nil, pkg.WrapError(err).With(slog.String("path", s.File))
		}
		defer f.Close()

		r = f
	}

	entries, err := p.ParseReader(ctx, r)
	if err != nil {
		return nil, pkg.NewError(filepath.Base(s.File)).Wrap(err)
	}

	return entries, nil
}

// filterEntries returns the entries for which the boolean expression source
// is true.
func filterEntries(
	entries []hyprconf.Entry,
	source string,
) ([]hyprconf.Entry, error) {
	program, err := expr.Compile(source, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, ErrFilter.Wrap(err).With(slog.String("expr", source))
	}

	var kept []hyprconf.Entry

	for _, e := range entries {
		ok, err := match(program, e)
		if err != nil {
			return nil, ErrFilter.Wrap(err).With(
				slog.String("expr", source),
				slog.String("key", e.Key),
			)
		}

		if ok {
			kept = append(kept, e)
		}
	}

	return kept, nil
}

func match(program *vm.Program, e hyprconf.Entry) (bool, error) {
	out, err := expr.Run(program, newFilterEnv(e))
	if err != nil {
		return false, err
	}

	ok, _ := out.(bool)

	return ok, nil
}

func (s *Show) write(
	ctx context.Context,
	w io.Writer,
	entries []hyprconf.Entry,
) error {
	if s.Format == "native" || s.Format == "" {
		for _, e := range entries {
			if _, err := fmt.Fprintln(w, e); err != nil {
				return err
			}
		}

		return nil
	}

	docs := make([]entryDoc, len(entries))
	for i, e := range entries {
		docs[i] = entryDoc(e)
	}

	var (
		data []byte
		err  error
	)

	switch s.Format {
	case "json":
		if s.Indent > 0 {
			data, err = json.MarshalIndent(docs, "", strings.Repeat(" ", s.Indent))
		} else {
			data, err = json.Marshal(docs)
		}

		if err != nil {
			return ErrJSON.Wrap(err)
		}

		data = append(data, '\n')

	case "yaml":
		data, err = yaml.MarshalContext(ctx, docs, yaml.Indent(max(s.Indent, 1)))
		if err != nil {
			return ErrYAML.Wrap(err)
		}

	default:
		return pkg.NewError("unknown format").With(slog.String("format", s.Format))
	}

	_, err = w.Write(data)

	return err
}
