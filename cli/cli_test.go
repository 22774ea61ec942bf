package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/hyprprofile/log"
	"github.com/ardnew/hyprprofile/pkg"
	"github.com/ardnew/hyprprofile/profile"
)

func TestMain(m *testing.M) {
	// Keep configuration and cache directories out of the user's home.
	root, err := os.MkdirTemp("", "hyprprofile-cli")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	os.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	os.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))

	for _, name := range []string{
		"HYPR_PROFILES_DIR",
		"HYPR_PROFILES_PATH",
		"HYPR_PERSIST_PROFILE_FILE",
	} {
		os.Unsetenv(name)
	}

	code := m.Run()

	os.RemoveAll(root)
	os.Exit(code)
}

type result struct {
	stdout, stderr bytes.Buffer
	code           int
	err            error
}

func invoke(t *testing.T, args ...string) *result {
	t.Helper()
	t.Cleanup(func() { log.Config(log.WithDefaults(os.Stderr)) })

	r := &result{code: -1}
	r.err = run(context.Background(), func(code int) { r.code = code },
		&r.stdout, &r.stderr, args)

	return r
}

func profilesDir(t *testing.T, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, name+profile.Ext)
		if err := os.WriteFile(path, []byte("general:gaps_in = 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return dir
}

func TestRun_List(t *testing.T) {
	dir := profilesDir(t, "work", "gaming")

	r := invoke(t, "--dir", dir, "list")
	if r.err != nil {
		t.Fatalf("run: %v", r.err)
	}

	if got := r.stdout.String(); got != "gaming\nwork\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRun_EnvDirs(t *testing.T) {
	primary := profilesDir(t, "gaming")
	extra := profilesDir(t, "battery", "gaming")

	t.Setenv("HYPR_PROFILES_DIR", primary)
	t.Setenv("HYPR_PROFILES_PATH", extra)

	r := invoke(t, "list")
	if r.err != nil {
		t.Fatalf("run: %v", r.err)
	}

	if got := r.stdout.String(); got != "battery\ngaming\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRun_Persistent(t *testing.T) {
	dir := profilesDir(t)

	t.Run("default path", func(t *testing.T) {
		path := filepath.Join(dir, profile.PersistName)
		if err := os.WriteFile(path, []byte("a=1\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		r := invoke(t, "--dir", dir, "persistent", "show")
		if r.err != nil || r.stdout.String() != "a=1\n" {
			t.Errorf("run = %q, %v", r.stdout.String(), r.err)
		}
	})

	t.Run("env path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "persist.conf")
		if err := os.WriteFile(path, []byte("b=2\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		t.Setenv("HYPR_PERSIST_PROFILE_FILE", path)

		r := invoke(t, "--dir", dir, "persistent", "clear")
		if r.err != nil || r.stdout.String() != "Persistent profile cleared\n" {
			t.Errorf("run = %q, %v", r.stdout.String(), r.err)
		}

		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("persistent profile not removed: %v", err)
		}
	})
}

func TestRun_Show(t *testing.T) {
	dir := profilesDir(t, "gaming")

	r := invoke(t, "--dir", dir, "show", "gaming", "--format", "json", "--indent", "0")
	if r.err != nil {
		t.Fatalf("run: %v", r.err)
	}

	if got := r.stdout.String(); got != `[{"key":"general:gaps_in","value":"1"}]`+"\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	dir := profilesDir(t, "from-config")

	path := filepath.Join(pkg.ConfigDir(), baseConfig+".yaml")
	if err := pkg.MkdirAll(pkg.ConfigDir()); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("dir: "+dir+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { os.Remove(path) })

	r := invoke(t, "list")
	if r.err != nil {
		t.Fatalf("run: %v", r.err)
	}

	if got := r.stdout.String(); got != "from-config\n" {
		t.Errorf("stdout = %q", got)
	}

	flagDir := profilesDir(t, "from-flag")

	r = invoke(t, "--dir", flagDir, "list")
	if got := r.stdout.String(); r.err != nil || got != "from-flag\n" {
		t.Errorf("flag did not override config: %q, %v", got, r.err)
	}
}

func TestRun_Init(t *testing.T) {
	dir := profilesDir(t, "gaming")
	path := filepath.Join(pkg.ConfigDir(), baseConfig+".yaml")

	t.Cleanup(func() { os.Remove(path) })

	r := invoke(t, "--dir", dir, "--timeout", "2s", "init", "--force")
	if r.err != nil {
		t.Fatalf("run: %v", r.err)
	}

	// The written file is read back as configuration.
	r = invoke(t, "list")
	if got := r.stdout.String(); r.err != nil || got != "gaming\n" {
		t.Errorf("list after init = %q, %v", got, r.err)
	}
}

func TestRun_Version(t *testing.T) {
	r := invoke(t, "--version")

	if r.code != 0 {
		t.Errorf("exit code = %d, want 0", r.code)
	}

	if !strings.Contains(r.stdout.String(), pkg.Version) {
		t.Errorf("stdout = %q, want version %q", r.stdout.String(), pkg.Version)
	}
}

func TestRun_InvalidFlag(t *testing.T) {
	if r := invoke(t, "--log-level=loud", "list"); r.err == nil {
		t.Error("run accepted an invalid log level")
	}

	if r := invoke(t, "show", "a", "--format", "toml"); r.err == nil {
		t.Error("run accepted an invalid format")
	}
}

func TestRun_MissingProfile(t *testing.T) {
	dir := profilesDir(t, "gaming")

	r := invoke(t, "--dir", dir, "show", "gamng")
	if !strings.Contains(fmt.Sprint(r.err), "profile not found") {
		t.Errorf("run error = %v", r.err)
	}
}
