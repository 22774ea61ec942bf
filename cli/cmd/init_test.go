package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initCLI struct {
	Dir     string            `default:"/profiles"`
	Path    string            ``
	Strict  bool              `default:"true"`
	Timeout time.Duration     `default:"3s"`
	Var     map[string]string ``
	Secret  string            `default:"x" hidden:""`

	Init Init `cmd:""`
}

func initContext(t *testing.T, args ...string) (context.Context, string) {
	t.Helper()

	base := filepath.Join(t.TempDir(), "config")

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: base})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append(args, "init"))
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), ktx), base + ConfigExt
}

func TestInit_Run(t *testing.T) {
	ctx, path := initContext(t, "--var", "OUT=DP-1")

	if err := (&Init{}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}

	if got["dir"] != "/profiles" || got["strict"] != true || got["timeout"] != "3s" {
		t.Errorf("config = %v", got)
	}

	if vars, ok := got["var"].(map[string]any); !ok || vars["OUT"] != "DP-1" {
		t.Errorf("var = %v", got["var"])
	}

	for _, key := range []string{"help", "path", "secret"} {
		if _, ok := got[key]; ok {
			t.Errorf("config contains %q:\n%s", key, data)
		}
	}

	if !strings.HasPrefix(string(data), "dir: ") {
		t.Errorf("flags out of declaration order:\n%s", data)
	}
}

func TestInit_Exists(t *testing.T) {
	ctx, path := initContext(t)

	if err := os.WriteFile(path, []byte("dir: /old\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := (&Init{}).Run(ctx)
	if !errors.Is(err, ErrFileExists) || !errors.Is(err, ErrWriteConfig) {
		t.Fatalf("Run() error = %v, want ErrFileExists", err)
	}

	if err := (&Init{Force: true}).Run(ctx); err != nil {
		t.Fatalf("Run(force): %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "/profiles") {
		t.Errorf("config not overwritten: %q", data)
	}
}

func TestInit_NoContext(t *testing.T) {
	if err := (&Init{}).Run(context.Background()); !errors.Is(err, ErrNoCommand) {
		t.Errorf("Run() error = %v, want ErrNoCommand", err)
	}
}

func TestConfigValue(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{nil, nil},
		{"", nil},
		{"a", "a"},
		{true, true},
		{3, 3},
		{90 * time.Second, "1m30s"},
		{map[string]string{}, nil},
		{[]string{}, nil},
		{struct{ A int }{1}, "{1}"},
	}

	for _, tt := range tests {
		if got := configValue(tt.in); got != tt.want {
			t.Errorf("configValue(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
