package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/tablescope/pkg/buildinfo"
	"github.com/matzehuels/tablescope/pkg/cache"
)

func TestSetVersion(t *testing.T) {
	defer func(v, c, d string) { buildinfo.Version, buildinfo.Commit, buildinfo.Date = v, c, d }(
		buildinfo.Version, buildinfo.Commit, buildinfo.Date)

	SetVersion("1.0.0", "abc123", "2024-01-01")

	if buildinfo.Version != "1.0.0" {
		t.Errorf("Version = %q, want %q", buildinfo.Version, "1.0.0")
	}
	if buildinfo.Commit != "abc123" {
		t.Errorf("Commit = %q, want %q", buildinfo.Commit, "abc123")
	}
	if buildinfo.Date != "2024-01-01" {
		t.Errorf("Date = %q, want %q", buildinfo.Date, "2024-01-01")
	}
}

func TestSetVersionEmptyKeepsCurrent(t *testing.T) {
	defer func(v string) { buildinfo.Version = v }(buildinfo.Version)

	buildinfo.Version = "v0.3.0"
	SetVersion("", "", "")

	if buildinfo.Version != "v0.3.0" {
		t.Errorf("Version = %q, want unchanged %q", buildinfo.Version, "v0.3.0")
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"treemap", "graph", "inspect", "pick", "preview", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); got != nil {
		t.Errorf("parseFormats(\"\") = %v, want nil", got)
	}
	got := parseFormats("svg, png")
	if len(got) != 2 || got[0] != "svg" || got[1] != "png" {
		t.Errorf("parseFormats = %v", got)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			root := New(io.Discard, LogInfo).RootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out.String(), "tablescope") {
				t.Errorf("completion %s output does not mention tablescope", shell)
			}
		})
	}

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"completion", "tcsh"})
	if err := root.Execute(); err == nil {
		t.Error("completion for an unknown shell should fail")
	}
}

func TestCacheCommands(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	cfgPath := filepath.Join(t.TempDir(), "tablescope.toml")
	if err := os.WriteFile(cfgPath, []byte(fmt.Sprintf("[cache]\ndir = %q\n", dir)), 0o644); err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b"} {
		if err := fc.Set(context.Background(), k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	buf := captureUI(t)

	run := func(args ...string) string {
		t.Helper()
		root := New(io.Discard, LogInfo).RootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(append([]string{"--config", cfgPath}, args...))
		if err := root.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	if got := strings.TrimSpace(run("cache", "path")); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
	run("cache", "prune")
	if !strings.Contains(buf.String(), "Pruned 0 expired entries") {
		t.Errorf("prune output = %q", buf.String())
	}
	run("cache", "clear")
	if !strings.Contains(buf.String(), "Cleared 2 cached entries") {
		t.Errorf("clear output = %q", buf.String())
	}
}
