package graph

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tablescope/pkg/errors"
	"github.com/matzehuels/tablescope/pkg/records"
)

func mustRecords(t *testing.T, fields []string, rows ...[]string) *records.RecordSet {
	t.Helper()
	rs, err := records.New(fields, rows)
	require.NoError(t, err)
	return rs
}

func TestExtract(t *testing.T) {
	rs := mustRecords(t, []string{"a", "b"},
		[]string{"x", "y"},
		[]string{"y", "x"},
		[]string{"x", "z"},
		[]string{"z", ""},
	)

	g, err := Extract(rs, []string{"a", "b"})
	require.NoError(t, err)

	assert.Equal(t, []Node{{"x", 3}, {"y", 2}, {"z", 2}}, g.Nodes)
	assert.Equal(t, []Edge{{"x", "y", 2}, {"x", "z", 1}}, g.Edges)
	assert.NoError(t, g.Validate())
}

func TestExtractSelfPairIsNotAnEdge(t *testing.T) {
	rs := mustRecords(t, []string{"a", "b"},
		[]string{"x", "x"},
		[]string{"x", "y"},
	)
	g, err := Extract(rs, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Nodes[0].Value)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, 1, g.Edges[0].Value)
}

func TestExtractSeparator(t *testing.T) {
	rs := mustRecords(t, []string{"tags"},
		[]string{"go; rust"},
		[]string{"rust;go;zig"},
	)
	g, err := Extract(rs, []string{"tags"}, WithSeparator(";"))
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 3)

	weights := map[PairKey]int{}
	for _, e := range g.Edges {
		weights[e.Key()] = e.Value
	}
	assert.Equal(t, 2, weights[Pair("go", "rust")])
	assert.Equal(t, 1, weights[Pair("zig", "go")])
	assert.Equal(t, 1, weights[Pair("rust", "zig")])
}

func TestExtractErrors(t *testing.T) {
	empty := mustRecords(t, []string{"a", "b"})
	single := mustRecords(t, []string{"a", "b"}, []string{"x", "x"})
	noPairs := mustRecords(t, []string{"a", "b"}, []string{"x", ""}, []string{"", "y"})

	tests := []struct {
		name   string
		rs     *records.RecordSet
		fields []string
	}{
		{"nil records", nil, []string{"a"}},
		{"empty records", empty, []string{"a", "b"}},
		{"no fields", single, nil},
		{"unknown field", single, []string{"a", "c"}},
		{"one node", single, []string{"a", "b"}},
		{"no edges", noPairs, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.rs, tt.fields)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
		})
	}
}

// Edge weights must equal the number of records in which both endpoints
// appear, and no unordered pair may appear twice.
func TestExtractWeightsMatchCooccurrence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	values := []string{"a", "b", "c", "d", "e"}
	var rows [][]string
	for i := 0; i < 200; i++ {
		rows = append(rows, []string{
			values[rng.Intn(len(values))],
			values[rng.Intn(len(values))],
			values[rng.Intn(len(values))],
		})
	}
	rs := mustRecords(t, []string{"f1", "f2", "f3"}, rows...)

	g, err := Extract(rs, []string{"f1", "f2", "f3"})
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	want := map[PairKey]int{}
	for _, row := range rows {
		seen := map[PairKey]bool{}
		for i := range row {
			for j := range row {
				if row[i] != row[j] {
					seen[Pair(row[i], row[j])] = true
				}
			}
		}
		for k := range seen {
			want[k]++
		}
	}

	got := map[PairKey]int{}
	for _, e := range g.Edges {
		assert.Less(t, e.Source, e.Target)
		_, dup := got[e.Key()]
		assert.False(t, dup, "duplicate edge %v", e.Key())
		got[e.Key()] = e.Value
	}
	assert.Equal(t, want, got)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		g    Graph
		ok   bool
	}{
		{"valid", Graph{Nodes: []Node{{"a", 1}, {"b", 1}}, Edges: []Edge{{"a", "b", 1}}}, true},
		{"duplicate node", Graph{Nodes: []Node{{"a", 1}, {"a", 1}}}, false},
		{"unknown endpoint", Graph{Nodes: []Node{{"a", 1}}, Edges: []Edge{{"a", "b", 1}}}, false},
		{"reverse duplicate", Graph{
			Nodes: []Node{{"a", 1}, {"b", 1}},
			Edges: []Edge{{"a", "b", 1}, {"b", "a", 1}},
		}, false},
		{"self loop", Graph{Nodes: []Node{{"a", 1}}, Edges: []Edge{{"a", "a", 1}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.Validate()
			assert.Equal(t, tt.ok, err == nil, "Validate() = %v", err)
		})
	}
}

func TestReadGraphRoundTrip(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{"a", 2}, {"b", 1}},
		Edges: []Edge{{"a", "b", 1}},
	}
	data, err := MarshalGraph(g)
	require.NoError(t, err)

	back, err := ReadGraph(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, g, back)
}

func TestReadGraphCanonicalizes(t *testing.T) {
	in := `{"nodes":[{"name":"b","value":1},{"name":"a","value":1}],"edges":[{"source":"b","target":"a","value":4}]}`
	g, err := ReadGraph(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, Edge{"a", "b", 4}, g.Edges[0])
}

func TestIsEmpty(t *testing.T) {
	var g *Graph
	assert.True(t, g.IsEmpty())
	assert.True(t, (&Graph{Nodes: []Node{{"a", 1}}}).IsEmpty())
	assert.False(t, (&Graph{Nodes: []Node{{"a", 1}, {"b", 1}}, Edges: []Edge{{"a", "b", 1}}}).IsEmpty())
}
