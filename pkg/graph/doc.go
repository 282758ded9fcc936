// Package graph extracts weighted co-occurrence graphs from records and
// defines their serialization format.
//
// # Extraction
//
// [Extract] reads one or more entity fields from every record. Each distinct
// value becomes a [Node] whose Value counts how often it occurs. Every pair
// of distinct values appearing in the same record becomes an undirected
// [Edge] whose Value counts the records in which the pair co-occurs:
//
//	g, err := graph.Extract(rs, []string{"drug_a", "drug_b"})
//
// Edges are keyed by the sorted pair, so (a, b) and (b, a) always
// aggregate into a single edge with Source < Target.
//
// A single multi-valued field can be split with [WithSeparator]:
//
//	g, err := graph.Extract(rs, []string{"tags"}, graph.WithSeparator(";"))
//
// Extraction fails with INVALID_INPUT when the records are empty, a field is
// unknown, or the result has fewer than two nodes or no edges. Renderers
// turn that error into an explicit empty state.
//
// # Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"name": "aspirin", "value": 3}, {"name": "ibuprofen", "value": 2}],
//	  "edges": [{"source": "aspirin", "target": "ibuprofen", "value": 2}]
//	}
//
// Use [MarshalGraph], [WriteGraph] and [ReadGraph] for JSON round trips.
package graph
