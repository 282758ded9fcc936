// Package pkg provides the core libraries for tablescope record visualization.
//
// # Overview
//
// tablescope turns flat tabular records into two interactive SVG
// visualizations: a treemap of nested categorical groupings and a
// force-directed graph of entities that occur together in a record. The
// pkg directory is organized into these areas:
//
//  1. [records] - Loading and filtering records (CSV, TSV, JSON, YAML, SQLite)
//  2. [hierarchy] and [graph] - The two intermediate structures
//  3. [layout] - Treemap tiling and force simulation
//  4. [render] - SVG documents with tooltips, selection and dragging
//  5. [pipeline] - Orchestration (load → build → layout → render)
//  6. [cache], [config], [errors], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow through tablescope:
//
//	records file
//	     ↓
//	[records] package (RecordSet)
//	     ↓
//	[hierarchy].Build  or  [graph].Extract
//	     ↓
//	[layout/treemap]   or  [layout/force]
//	     ↓
//	[render/treemap]   or  [render/forcegraph]
//	     ↓
//	SVG/HTML/JSON/PNG/PDF output
//
// # Quick Start
//
// Group records by two attributes and render a treemap:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/tablescope/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Input:      "cases.csv",
//	    Viz:        pipeline.VizTreemap,
//	    Attributes: []string{"gender", "outcome"},
//	    Formats:    []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// Unusable input (an unknown attribute, no matching records, a graph with
// no co-occurring entities) is not an error: the renderers draw an
// explicit empty state instead.
package pkg
