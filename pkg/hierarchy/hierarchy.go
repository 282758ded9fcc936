package hierarchy

import (
	"fmt"

	"github.com/matzehuels/tablescope/pkg/errors"
	"github.com/matzehuels/tablescope/pkg/records"
)

// RootName is the display name of the synthetic root node.
const RootName = "all"

// Node is one partition of the records.
type Node struct {
	Name     string  `json:"name"`
	Attr     string  `json:"attr,omitempty"`
	Value    int     `json:"value"`
	Children []*Node `json:"children,omitempty"`
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// IsRoot reports whether n is the synthetic aggregation node.
func (n *Node) IsRoot() bool { return n.Attr == "" }

// Label returns "attr: name" for grouped nodes and the name for the root.
func (n *Node) Label() string {
	if n.IsRoot() {
		return n.Name
	}
	return n.Attr + ": " + n.Name
}

// Option configures [Build].
type Option func(*config)

type config struct {
	domains map[string][]string
}

// WithDomain declares the sibling order for attr. Values not listed are
// placed after the declared ones in first-seen order.
func WithDomain(attr string, values ...string) Option {
	return func(c *config) {
		if c.domains == nil {
			c.domains = make(map[string][]string)
		}
		c.domains[attr] = values
	}
}

// WithDomains declares several attribute domains at once.
func WithDomains(domains map[string][]string) Option {
	return func(c *config) {
		for attr, values := range domains {
			WithDomain(attr, values...)(c)
		}
	}
}

// Build partitions rs by attributes, in order, and returns the root.
//
// Build fails with [errors.ErrCodeInvalidInput] when rs is empty, when no
// attributes are given, or when an attribute is not in the schema.
func Build(rs *records.RecordSet, attributes []string, opts ...Option) (*Node, error) {
	if rs.Len() == 0 {
		return nil, errors.InvalidInput("no records to group")
	}
	if len(attributes) == 0 {
		return nil, errors.InvalidInput("at least one grouping attribute is required")
	}
	if err := errors.ValidateFieldNames(attributes); err != nil {
		return nil, err
	}
	for _, a := range attributes {
		if !rs.HasField(a) {
			return nil, errors.InvalidInput("unknown attribute %q (fields: %v)", a, rs.Fields())
		}
	}

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	rows := make([]int, rs.Len())
	for i := range rows {
		rows[i] = i
	}

	root := &Node{Name: RootName, Value: len(rows)}
	root.Children = partition(rs, rows, attributes, cfg)
	return root, nil
}

// partition splits rows by attrs[0] and recurses on the remaining attributes.
func partition(rs *records.RecordSet, rows []int, attrs []string, cfg config) []*Node {
	if len(attrs) == 0 || len(rows) == 0 {
		return nil
	}
	attr := attrs[0]

	groups := make(map[string][]int)
	var seen []string
	for _, i := range rows {
		v := rs.Value(i, attr)
		if _, ok := groups[v]; !ok {
			seen = append(seen, v)
		}
		groups[v] = append(groups[v], i)
	}

	children := make([]*Node, 0, len(seen))
	for _, v := range order(seen, cfg.domains[attr]) {
		members := groups[v]
		if len(members) == 0 {
			continue
		}
		children = append(children, &Node{
			Name:     v,
			Attr:     attr,
			Value:    len(members),
			Children: partition(rs, members, attrs[1:], cfg),
		})
	}
	return children
}

// order returns the declared domain values that were seen, followed by the
// remaining seen values in first-seen order.
func order(seen, domain []string) []string {
	if len(domain) == 0 {
		return seen
	}
	present := make(map[string]bool, len(seen))
	for _, v := range seen {
		present[v] = true
	}
	out := make([]string, 0, len(seen))
	placed := make(map[string]bool, len(seen))
	for _, v := range domain {
		if present[v] && !placed[v] {
			out = append(out, v)
			placed[v] = true
		}
	}
	for _, v := range seen {
		if !placed[v] {
			out = append(out, v)
		}
	}
	return out
}

// Validate checks that every non-leaf value equals the sum of its children
// and that no node is empty.
func Validate(root *Node) error {
	var err error
	Walk(root, func(n *Node, _ []*Node) bool {
		if n.Value <= 0 {
			err = fmt.Errorf("node %q has non-positive value %d", n.Label(), n.Value)
			return false
		}
		if n.IsLeaf() {
			return true
		}
		sum := 0
		for _, c := range n.Children {
			sum += c.Value
		}
		if sum != n.Value {
			err = fmt.Errorf("node %q value %d != children sum %d", n.Label(), n.Value, sum)
			return false
		}
		return true
	})
	return err
}
