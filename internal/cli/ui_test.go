package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/tablescope/pkg/pipeline"
)

func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := uiOut
	uiOut = &buf
	t.Cleanup(func() { uiOut = prev })
	return &buf
}

func TestStatsLine(t *testing.T) {
	tests := []struct {
		name    string
		stats   pipeline.Stats
		cached  bool
		want    []string
		notWant []string
	}{
		{
			name:    "treemap",
			stats:   pipeline.Stats{RecordCount: 12, NodeCount: 7},
			want:    []string{"12 records", "7 nodes", "fresh"},
			notWant: []string{"edges", "cached"},
		},
		{
			name:   "graph cached",
			stats:  pipeline.Stats{RecordCount: 3, NodeCount: 4, EdgeCount: 5},
			cached: true,
			want:   []string{"3 records", "4 nodes", "5 edges", "cached"},
		},
		{
			name:    "empty",
			want:    []string{"fresh"},
			notWant: []string{"records", "nodes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statsLine(tt.stats, tt.cached)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("statsLine() = %q, missing %q", got, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("statsLine() = %q, should not contain %q", got, w)
				}
			}
		})
	}
}

func TestPrinters(t *testing.T) {
	buf := captureUI(t)

	printWarning("No data available for %s", "treemap")
	printFile("out/cases.treemap.svg")
	printKeyValue("Selected", "gender: M")
	printStats(pipeline.Stats{RecordCount: 2}, false)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	for i, want := range []string{"No data available for treemap", "out/cases.treemap.svg", "gender: M", "2 records"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], want)
		}
	}
}
