package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tablescope/pkg/errors"
	"github.com/matzehuels/tablescope/pkg/pipeline"
)

const sample = `
[input]
path = "cases.csv"
where = ["outcome=1"]

[viewport]
width = 800
height = 500

[margin]
top = 10
left = 20

[padding]
outer = 4
inner = 2

[treemap]
attributes = ["gender", "outcome"]
tiling = "slice-dice"

[treemap.domains]
outcome = ["1", "0"]

[graph]
fields = ["exposure", "contact"]
separator = ";"
engine = "graphviz"
ticks = 150
seed = 9
drag = "keep"
charge = -200

[palette.gender]
M = "#1f77b4"
"*" = "#aec7e8"

[output]
formats = ["svg", "json"]

[preview]
addr = "127.0.0.1:9000"
watch = false
`

func write(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := write(t, t.TempDir(), sample)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, c.Path)
	assert.Equal(t, "cases.csv", c.Input.Path)
	assert.Equal(t, 800.0, c.Viewport.Width)
	assert.Equal(t, 20.0, c.Margin.Left)
	assert.Equal(t, 4.0, c.Padding.Outer)
	assert.Equal(t, []string{"1", "0"}, c.Treemap.Domains["outcome"])
	assert.Equal(t, "#aec7e8", c.Palette["gender"]["*"])
	assert.Equal(t, "127.0.0.1:9000", c.PreviewAddr())
	assert.False(t, c.PreviewWatch())
}

func TestOptions(t *testing.T) {
	c, err := Load(write(t, t.TempDir(), sample))
	require.NoError(t, err)

	tm := c.Options(pipeline.VizTreemap)
	assert.Equal(t, []string{"gender", "outcome"}, tm.Attributes)
	assert.Equal(t, "slice-dice", tm.Tiling)
	assert.Equal(t, []string{"outcome=1"}, tm.Where)
	require.NoError(t, tm.ValidateAndSetDefaults())

	g := c.Options(pipeline.VizGraph)
	assert.Equal(t, ";", g.Separator)
	assert.Equal(t, 150, g.MaxTicks)
	assert.Equal(t, int64(9), g.Seed)
	assert.Equal(t, "keep", g.DragPolicy)
	assert.Equal(t, -200.0, g.Force.Charge)
	require.NoError(t, g.ValidateAndSetDefaults())
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := write(t, t.TempDir(), "[treemap]\nattributs = [\"gender\"]\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
	assert.Contains(t, err.Error(), "attributs")
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[viewport\nwidth = 1"},
		{"negative viewport", "[viewport]\nwidth = -10"},
		{"bad tiling", "[treemap]\ntiling = \"binary\""},
		{"bad format", "[output]\nformats = [\"gif\"]"},
		{"bad color", "[palette.gender]\nM = \"blue\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(write(t, t.TempDir(), tt.body))
			require.Error(t, err)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestFind(t *testing.T) {
	dir := t.TempDir()

	c, err := Find(dir, "")
	require.NoError(t, err)
	assert.Empty(t, c.Path)
	assert.Equal(t, DefaultPreviewAddr, c.PreviewAddr())
	assert.True(t, c.PreviewWatch())

	path := write(t, dir, sample)
	c, err = Find(dir, "")
	require.NoError(t, err)
	assert.Equal(t, path, c.Path)

	_, err = Find(dir, filepath.Join(dir, "other.toml"))
	assert.Error(t, err)
}

func TestLoadBundledExample(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", FileName))
	require.NoError(t, err)

	opts := cfg.Options(pipeline.VizTreemap)
	assert.Equal(t, []string{"gender", "outcome"}, opts.Attributes)
	assert.Equal(t, []string{"recovered", "hospitalized", "deceased"}, opts.Domains["outcome"])
	assert.Equal(t, "#e15759", opts.Palette["outcome"]["deceased"])
}
