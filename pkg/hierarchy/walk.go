package hierarchy

import "strings"

// Walk visits n and its descendants depth-first in child order. ancestors
// holds the path from the root down to, but not including, the visited
// node. Returning false from fn stops the walk.
func Walk(n *Node, fn func(n *Node, ancestors []*Node) bool) {
	walk(n, nil, fn)
}

func walk(n *Node, ancestors []*Node, fn func(*Node, []*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n, ancestors) {
		return false
	}
	next := append(ancestors[:len(ancestors):len(ancestors)], n)
	for _, c := range n.Children {
		if !walk(c, next, fn) {
			return false
		}
	}
	return true
}

// Leaves returns all leaf nodes in depth-first order.
func Leaves(root *Node) []*Node {
	var out []*Node
	Walk(root, func(n *Node, _ []*Node) bool {
		if n.IsLeaf() && !n.IsRoot() {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Depth returns the number of grouping levels below the root.
func Depth(root *Node) int {
	depth := 0
	Walk(root, func(_ *Node, ancestors []*Node) bool {
		depth = max(depth, len(ancestors))
		return true
	})
	return depth
}

// Step is one "attr: name" pair on the path to a node.
type Step struct {
	Attr string `json:"attr"`
	Name string `json:"name"`
}

// Path returns the attr/name pairs from the root's first grouping down to
// target, or nil if target is not in the tree.
func Path(root, target *Node) []Step {
	var out []Step
	Walk(root, func(n *Node, ancestors []*Node) bool {
		if n != target {
			return true
		}
		for _, a := range append(ancestors, n) {
			if a.IsRoot() {
				continue
			}
			out = append(out, Step{Attr: a.Attr, Name: a.Name})
		}
		return false
	})
	return out
}

// Domains returns, per grouping attribute, the distinct node names found
// under it in walk order.
func Domains(root *Node) map[string][]string {
	out := make(map[string][]string)
	seen := make(map[Step]bool)
	Walk(root, func(n *Node, _ []*Node) bool {
		s := Step{Attr: n.Attr, Name: n.Name}
		if n.IsRoot() || seen[s] {
			return true
		}
		seen[s] = true
		out[n.Attr] = append(out[n.Attr], n.Name)
		return true
	})
	return out
}

// Find returns the leaf whose path key is selection, or else the first
// leaf named selection.
func Find(root *Node, selection string) (*Node, bool) {
	var byName *Node
	for _, l := range Leaves(root) {
		if PathKey(Path(root, l)) == selection {
			return l, true
		}
		if byName == nil && l.Name == selection {
			byName = l
		}
	}
	return byName, byName != nil
}

// PathKey joins steps into a unique leaf key such as "gender=M/outcome=0".
func PathKey(steps []Step) string {
	var b strings.Builder
	for i, s := range steps {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(s.Attr)
		b.WriteByte('=')
		b.WriteString(s.Name)
	}
	return b.String()
}
