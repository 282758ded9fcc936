package pipeline

import (
	"github.com/matzehuels/tablescope/pkg/graph"
	"github.com/matzehuels/tablescope/pkg/hierarchy"
	"github.com/matzehuels/tablescope/pkg/records"
)

// BuildHierarchy partitions rs by the configured attributes.
func BuildHierarchy(rs *records.RecordSet, opts Options) (*hierarchy.Node, error) {
	return hierarchy.Build(rs, opts.Attributes, hierarchy.WithDomains(opts.Domains))
}

// ExtractGraph builds the co-occurrence graph over the configured fields.
func ExtractGraph(rs *records.RecordSet, opts Options) (*graph.Graph, error) {
	var gopts []graph.Option
	if opts.Separator != "" {
		gopts = append(gopts, graph.WithSeparator(opts.Separator))
	}
	return graph.Extract(rs, opts.Fields, gopts...)
}
