package graph

import (
	"strings"

	"github.com/matzehuels/tablescope/pkg/errors"
	"github.com/matzehuels/tablescope/pkg/records"
)

// Option configures [Extract].
type Option func(*extractConfig)

type extractConfig struct {
	separator string
}

// WithSeparator splits every entity field value on sep, so one field can
// hold several entities per record.
func WithSeparator(sep string) Option {
	return func(c *extractConfig) { c.separator = sep }
}

// Extract builds the co-occurrence graph of the entity fields in rs.
func Extract(rs *records.RecordSet, fields []string, opts ...Option) (*Graph, error) {
	if rs.Len() == 0 {
		return nil, errors.InvalidInput("no records to extract entities from")
	}
	if len(fields) == 0 {
		return nil, errors.InvalidInput("at least one entity field is required")
	}
	if err := errors.ValidateFieldNames(fields); err != nil {
		return nil, err
	}
	for _, f := range fields {
		if !rs.HasField(f) {
			return nil, errors.InvalidInput("unknown entity field %q (fields: %v)", f, rs.Fields())
		}
	}

	var cfg extractConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &Graph{}
	nodeAt := make(map[string]int)
	edgeAt := make(map[PairKey]int)

	for i := 0; i < rs.Len(); i++ {
		entities := recordEntities(rs, i, fields, cfg.separator)

		var distinct []string
		inRecord := make(map[string]bool, len(entities))
		for _, name := range entities {
			j, ok := nodeAt[name]
			if !ok {
				j = len(g.Nodes)
				nodeAt[name] = j
				g.Nodes = append(g.Nodes, Node{Name: name})
			}
			g.Nodes[j].Value++
			if !inRecord[name] {
				inRecord[name] = true
				distinct = append(distinct, name)
			}
		}

		for a := 0; a < len(distinct); a++ {
			for b := a + 1; b < len(distinct); b++ {
				k := Pair(distinct[a], distinct[b])
				j, ok := edgeAt[k]
				if !ok {
					j = len(g.Edges)
					edgeAt[k] = j
					g.Edges = append(g.Edges, Edge{Source: k.A, Target: k.B})
				}
				g.Edges[j].Value++
			}
		}
	}

	if len(g.Nodes) < 2 {
		return nil, errors.InvalidInput("graph needs at least two distinct entities, found %d", len(g.Nodes))
	}
	if len(g.Edges) == 0 {
		return nil, errors.InvalidInput("no co-occurring entities among %d nodes", len(g.Nodes))
	}
	return g, nil
}

// recordEntities returns the non-blank entity values of record i.
func recordEntities(rs *records.RecordSet, i int, fields []string, sep string) []string {
	var out []string
	for _, f := range fields {
		v := rs.Value(i, f)
		parts := []string{v}
		if sep != "" {
			parts = strings.Split(v, sep)
		}
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
