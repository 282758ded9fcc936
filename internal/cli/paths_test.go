package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)

			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestResolveCacheDirFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tablescope.toml")
	if err := os.WriteFile(cfgPath, []byte("[cache]\ndir = \"/tmp/ts-cache\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	c.configPath = cfgPath

	got, err := c.resolveCacheDir()
	if err != nil {
		t.Fatalf("resolveCacheDir() error: %v", err)
	}
	if got != "/tmp/ts-cache" {
		t.Errorf("resolveCacheDir() = %q, want %q", got, "/tmp/ts-cache")
	}
}

func TestNewCacheDisabled(t *testing.T) {
	c, err := newCache(nil, true)
	if err != nil {
		t.Fatalf("newCache error: %v", err)
	}
	if _, hit, _ := c.Get(t.Context(), "anything"); hit {
		t.Error("disabled cache should never hit")
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		format string
		multi  bool
		want   string
	}{
		{"default single", "", "svg", false, "cases.treemap.svg"},
		{"default multi", "", "png", true, "cases.treemap.png"},
		{"explicit single", "out/map.svg", "svg", false, "out/map.svg"},
		{"explicit multi", "out/map.svg", "html", true, "out/map.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := artifactWriteParams{input: "data/cases.csv", viz: "treemap", output: tt.output}
			if got := artifactPath(p, tt.format, tt.multi); got != tt.want {
				t.Errorf("artifactPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
