package force

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"
)

const pointsPerInch = 72.0

// Graphviz lays graphs out with the fdp spring model. Node radii become
// fixed-size circles so fdp avoids overlap, and link weight shortens the
// preferred edge length the same way the native engine does.
type Graphviz struct {
	Margin float64
}

// Layout renders the graph through fdp and scales the result into the
// viewport. MaxTicks maps onto fdp's maxiter.
func (e Graphviz) Layout(ctx context.Context, nodes []Node, links []Link, c Constraints) (Positions, error) {
	if err := checkLinks(nodes, links); err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return Positions{}, nil
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(e.toDOT(nodes, links, c)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.SetLayout(graphviz.FDP).Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("fdp: %w", err)
	}

	raw, err := parsePositions(buf.Bytes(), len(nodes))
	if err != nil {
		return nil, err
	}
	return fit(raw, nodes, c), nil
}

func (e Graphviz) toDOT(nodes []Node, links []Link, c Constraints) string {
	ticks := c.MaxTicks
	if ticks <= 0 {
		ticks = DefaultTicks
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  maxiter=%d;\n  start=%d;\n  overlap=false;\n", ticks, c.Seed)
	buf.WriteString("  node [shape=circle, fixedsize=true, label=\"\"];\n")
	for i, n := range nodes {
		d := 2 * (n.Radius + e.Margin) / pointsPerInch
		fmt.Fprintf(&buf, "  n%d [width=%.3f", i, max(d, 0.01))
		if p, ok := c.Pinned[n.ID]; ok {
			fmt.Fprintf(&buf, ", pos=\"%.2f,%.2f!\"", p.X/pointsPerInch, (c.Height-p.Y)/pointsPerInch)
		}
		buf.WriteString("];\n")
	}
	for _, l := range links {
		w := l.Weight
		if w <= 0 {
			w = 1
		}
		fmt.Fprintf(&buf, "  n%d -- n%d [len=%.3f, weight=%g];\n",
			l.Source, l.Target, DefaultLinkDistance/w/pointsPerInch, w)
	}
	buf.WriteString("}\n")
	return buf.String()
}

var posRe = regexp.MustCompile(`(?s)\bn(\d+)\s*\[[^\]]*?\bpos="(-?[0-9.e+]+),(-?[0-9.e+]+)!?"`)

// parsePositions reads node coordinates from laid-out DOT. Graphviz y
// grows upward, so y is negated here and restored by fit.
func parsePositions(dot []byte, n int) (Positions, error) {
	out := make(Positions, n)
	found := make([]bool, n)
	for _, m := range posRe.FindAllSubmatch(dot, -1) {
		i, err := strconv.Atoi(string(m[1]))
		if err != nil || i >= n {
			continue
		}
		x, errX := strconv.ParseFloat(string(m[2]), 64)
		y, errY := strconv.ParseFloat(string(m[3]), 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("bad position for n%d", i)
		}
		out[i] = Point{x, -y}
		found[i] = true
	}
	for i, ok := range found {
		if !ok {
			return nil, fmt.Errorf("fdp returned no position for node %d", i)
		}
	}
	return out, nil
}

// fit scales raw positions uniformly so every circle lies inside the
// viewport, centered. Pinned nodes keep their requested coordinates.
func fit(raw Positions, nodes []Node, c Constraints) Positions {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	pad := 0.0
	for i, p := range raw {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		pad = max(pad, nodes[i].Radius)
	}

	availW, availH := max(0, c.Width-2*pad), max(0, c.Height-2*pad)
	spanX, spanY := maxX-minX, maxY-minY
	k := 1.0
	switch {
	case spanX > 0 && spanY > 0:
		k = min(availW/spanX, availH/spanY)
	case spanX > 0:
		k = availW / spanX
	case spanY > 0:
		k = availH / spanY
	}

	center := c.Center()
	midX, midY := (minX+maxX)/2, (minY+maxY)/2
	out := make(Positions, len(raw))
	for i, p := range raw {
		if pin, ok := c.Pinned[nodes[i].ID]; ok {
			out[i] = pin
			continue
		}
		out[i] = Point{
			X: center.X + (p.X-midX)*k,
			Y: center.Y + (p.Y-midY)*k,
		}
	}
	return out
}
