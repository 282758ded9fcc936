package treemap

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tablescope/pkg/hierarchy"
	layout "github.com/matzehuels/tablescope/pkg/layout/treemap"
	"github.com/matzehuels/tablescope/pkg/palette"
	"github.com/matzehuels/tablescope/pkg/records"
	"github.com/matzehuels/tablescope/pkg/render"
)

func buildRoot(t *testing.T) *hierarchy.Node {
	t.Helper()
	rs, err := records.New([]string{"gender", "outcome"}, [][]string{
		{"M", "0"}, {"M", "1"}, {"M", "1"}, {"F", "0"}, {"M", "0"}, {"M", "1"},
	})
	require.NoError(t, err)
	root, err := hierarchy.Build(rs, []string{"gender", "outcome"})
	require.NoError(t, err)
	return root
}

func opts() Options {
	return Options{
		Viewport: render.Viewport{Width: 600, Height: 400},
		Padding:  layout.Padding{Outer: 2, Inner: 1},
	}
}

var strokeRe = regexp.MustCompile(`data-key="([^"]+)"[^>]*>\s*<rect[^>]*stroke="([^"]+)"`)

func strokes(svg string) map[string]string {
	out := map[string]string{}
	for _, m := range strokeRe.FindAllStringSubmatch(svg, -1) {
		out[m[1]] = m[2]
	}
	return out
}

func TestRenderDocument(t *testing.T) {
	r := New(WithID("tm-test"))
	svg, err := r.Render(buildRoot(t), opts())
	require.NoError(t, err)
	doc := string(svg)

	assert.True(t, strings.HasPrefix(doc, `<svg xmlns="http://www.w3.org/2000/svg" id="tm-test"`))
	assert.Equal(t, 1, strings.Count(doc, "<svg"))
	assert.Contains(t, doc, `opacity="0"/>`)
	assert.Contains(t, doc, ">gender: M<")
	assert.Contains(t, doc, `id="tm-test-tooltip"`)
	assert.Len(t, strokes(doc), 3)
}

func TestRootIsTransparent(t *testing.T) {
	r := New()
	svg, err := r.Render(buildRoot(t), opts())
	require.NoError(t, err)
	first := regexp.MustCompile(`<rect[^>]*/>`).FindString(string(svg))
	assert.Contains(t, first, `opacity="0"`)
	assert.Contains(t, first, `width="600" height="400"`)
}

func TestSelectionChangesOnlyThatStroke(t *testing.T) {
	r := New()
	root := buildRoot(t)

	before, err := r.Render(root, opts())
	require.NoError(t, err)

	o := opts()
	o.Selection = "gender=M/outcome=1"
	after, err := r.Render(root, o)
	require.NoError(t, err)

	sb, sa := strokes(string(before)), strokes(string(after))
	require.Equal(t, len(sb), len(sa))
	for key, stroke := range sb {
		if key == o.Selection {
			assert.Equal(t, palette.SelectedStroke, sa[key])
			assert.NotEqual(t, stroke, sa[key])
			continue
		}
		assert.Equal(t, stroke, sa[key], key)
	}
}

func TestSelectionByName(t *testing.T) {
	r := New()
	o := opts()
	o.Selection = "0"
	svg, err := r.Render(buildRoot(t), o)
	require.NoError(t, err)
	s := strokes(string(svg))
	assert.Equal(t, palette.SelectedStroke, s["gender=M/outcome=0"])
	assert.Equal(t, palette.SelectedStroke, s["gender=F/outcome=0"])
	assert.Equal(t, palette.NeutralStroke, s["gender=M/outcome=1"])
}

var fillRe = regexp.MustCompile(`data-key="([^"]+)"[^>]*>\s*<rect[^>]*fill="([^"]+)"`)

func TestUndeclaredAttributeGetsDistinctFills(t *testing.T) {
	rs, err := records.New([]string{"region"}, [][]string{
		{"north"}, {"south"}, {"east"}, {"south"}, {"north"}, {"north"},
	})
	require.NoError(t, err)
	root, err := hierarchy.Build(rs, []string{"region"})
	require.NoError(t, err)

	svg, err := New().Render(root, opts())
	require.NoError(t, err)

	fills := map[string]string{}
	for _, m := range fillRe.FindAllStringSubmatch(string(svg), -1) {
		fills[m[1]] = m[2]
	}
	require.Len(t, fills, 3)
	seen := map[string]bool{}
	for key, fill := range fills {
		assert.NotEqual(t, palette.DefaultFill, fill, key)
		assert.False(t, seen[fill], "%s reuses %s", key, fill)
		seen[fill] = true
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		in    string
		avail float64
	}{
		{"東京都渋谷区神南一丁目", 40},
		{"Größenordnungsübersicht", 50},
		{"Ünïcödé", 10},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.avail)
		assert.True(t, utf8.ValidString(got), "truncate(%q) = %q", tt.in, got)
		assert.True(t, strings.HasSuffix(got, ".."), got)
		assert.Less(t, utf8.RuneCountInString(got), utf8.RuneCountInString(tt.in))
	}
	assert.Equal(t, "東京", truncate("東京", 200))

	rs, err := records.New([]string{"city", "ward"}, [][]string{
		{"東京都渋谷区神南一丁目", "a"}, {"東京都渋谷区神南一丁目", "b"},
	})
	require.NoError(t, err)
	root, err := hierarchy.Build(rs, []string{"city", "ward"})
	require.NoError(t, err)
	o := opts()
	o.Viewport = render.Viewport{Width: 90, Height: 200}
	svg, err := New().Render(root, o)
	require.NoError(t, err)
	assert.True(t, utf8.Valid(svg))
	assert.Contains(t, string(svg), "..<")
}

func TestRenderIsIdempotent(t *testing.T) {
	r := New()
	root := buildRoot(t)
	a, err := r.Render(root, opts())
	require.NoError(t, err)
	b, err := r.Render(root, opts())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLabelsRespectThreshold(t *testing.T) {
	r := New()
	o := opts()
	o.Viewport = render.Viewport{Width: 30, Height: 30}
	svg, err := r.Render(buildRoot(t), o)
	require.NoError(t, err)
	assert.NotContains(t, string(svg), "cell-label value")
}

func TestEmptyState(t *testing.T) {
	r := New()
	for _, root := range []*hierarchy.Node{nil, {Name: "all"}, {Name: "all", Value: 3, Children: []*hierarchy.Node{{Name: "x", Attr: "a", Value: 1}}}} {
		svg, err := r.Render(root, opts())
		require.NoError(t, err)
		assert.Contains(t, string(svg), render.NoData)
		assert.Nil(t, r.Layout())
	}
}

func TestInvalidGeometry(t *testing.T) {
	o := opts()
	o.Viewport.Width = -5
	_, err := New().Render(buildRoot(t), o)
	assert.Error(t, err)
}

func TestZeroViewport(t *testing.T) {
	o := opts()
	o.Viewport = render.Viewport{}
	svg, err := New().Render(buildRoot(t), o)
	require.NoError(t, err)
	assert.NotContains(t, string(svg), `width="-`)
}

func TestHoverAndClick(t *testing.T) {
	var got []string
	o := opts()
	o.Margin = render.Margin{Top: 10, Left: 20}
	o.OnSelect = func(key string) { got = append(got, key) }

	r := New()
	_, err := r.Render(buildRoot(t), o)
	require.NoError(t, err)

	leaf := r.Layout().Leaves()[0]
	x := (leaf.Rect.X0+leaf.Rect.X1)/2 + o.Margin.Left
	y := (leaf.Rect.Y0+leaf.Rect.Y1)/2 + o.Margin.Top

	tip, ok := r.Hover(x, y)
	require.True(t, ok)
	assert.True(t, tip.Visible)
	assert.Equal(t, []string{"gender: " + leaf.Ancestors()[1].Node.Name, "outcome: " + leaf.Node.Name, "value: 3"}, tip.Lines)

	hit, ok := r.Click(x, y)
	require.True(t, ok)
	wantKey := "gender=" + leaf.Ancestors()[1].Node.Name + "/outcome=" + leaf.Node.Name
	assert.Equal(t, []string{wantKey}, got)
	assert.Equal(t, wantKey, hit.Key)
	assert.Equal(t, leaf.Node.Name, hit.Name)

	// feeding the reported key back selects exactly that leaf
	o.Selection = got[0]
	svg, err := r.Render(buildRoot(t), o)
	require.NoError(t, err)
	selectedCount := 0
	for _, stroke := range strokes(string(svg)) {
		if stroke == palette.SelectedStroke {
			selectedCount++
		}
	}
	assert.Equal(t, 1, selectedCount)

	tip, ok = r.Hover(-100, -100)
	assert.False(t, ok)
	assert.False(t, tip.Visible)

	_, ok = r.Click(1, 1)
	assert.False(t, ok)
	assert.Len(t, got, 1)
}

func TestHoverDoesNotRelayout(t *testing.T) {
	r := New()
	_, err := r.Render(buildRoot(t), opts())
	require.NoError(t, err)
	before := r.Layout()
	r.Hover(100, 100)
	assert.Same(t, before, r.Layout())
}

func TestStaticOmitsTooltip(t *testing.T) {
	r := New()
	o := opts()
	o.Static = true
	svg, err := r.Render(buildRoot(t), o)
	require.NoError(t, err)
	assert.NotContains(t, string(svg), "<script")
	assert.Nil(t, r.Tooltip())
}

func TestCloseIsIdempotent(t *testing.T) {
	r := New()
	_, err := r.Render(buildRoot(t), opts())
	require.NoError(t, err)
	require.NotNil(t, r.Tooltip())

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.Nil(t, r.Tooltip())

	_, err = r.Render(buildRoot(t), opts())
	assert.Error(t, err)
}

func TestInstancesAreScoped(t *testing.T) {
	a, b := New(), New()
	assert.NotEqual(t, a.ID(), b.ID())
	sa, err := a.Render(buildRoot(t), opts())
	require.NoError(t, err)
	assert.NotContains(t, string(sa), b.ID())
}
