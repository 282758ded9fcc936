package forcegraph

import (
	"context"
	"fmt"
	"math"

	"github.com/matzehuels/tablescope/pkg/layout/force"
	"github.com/matzehuels/tablescope/pkg/render"
)

// nodeAt returns the index of the topmost node under (x, y).
func (r *Renderer) nodeAt(x, y float64) (int, bool) {
	if r.scene == nil {
		return 0, false
	}
	x -= r.opts.Margin.Left
	y -= r.opts.Margin.Top
	for i := len(r.scene.Nodes) - 1; i >= 0; i-- {
		n := r.scene.Nodes[i]
		if math.Hypot(x-n.X, y-n.Y) <= n.Radius {
			return i, true
		}
	}
	return 0, false
}

// Hover shows the name of the node under (x, y) and returns the tooltip
// state. It does not run the layout.
func (r *Renderer) Hover(x, y float64) (*render.Tooltip, bool) {
	r.mu.Lock()
	if r.tooltip == nil {
		r.mu.Unlock()
		return nil, false
	}
	i, ok := r.nodeAt(x, y)
	if !ok {
		r.tooltip.Hide()
		t := *r.tooltip
		r.mu.Unlock()
		return &t, false
	}
	name := r.scene.Nodes[i].Name
	r.tooltip.Show(r.opts.Viewport, x, y, name)
	t := *r.tooltip
	onHover := r.opts.OnHover
	r.mu.Unlock()

	if onHover != nil {
		onHover(name)
	}
	return &t, true
}

// Drag replays a gesture on the named node: it is pinned, moved through
// points (in viewport coordinates) with the simulation reheated at each
// step, and then handled by the drag policy before the layout settles.
// Drag returns the redrawn document.
func (r *Renderer) Drag(ctx context.Context, name string, points ...force.Point) ([]byte, error) {
	r.mu.Lock()
	if r.sim == nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("drag %q: nothing rendered", name)
	}
	d := force.NewDrag(r.sim, r.opts.DragPolicy)
	if err := d.Begin(name); err != nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("drag: %w", err)
	}
	for _, p := range points {
		p = force.Point{X: p.X - r.opts.Margin.Left, Y: p.Y - r.opts.Margin.Top}
		if err := d.Move(name, p); err != nil {
			r.mu.Unlock()
			return nil, fmt.Errorf("drag: %w", err)
		}
	}
	if err := d.End(name); err != nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("drag: %w", err)
	}
	if err := r.sim.Run(ctx); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.place(r.sim.Positions())
	doc := r.draw()
	n := r.scene.Nodes[r.index[name]]
	onDragEnd := r.opts.OnDragEnd
	r.mu.Unlock()

	if onDragEnd != nil {
		onDragEnd(name, force.Point{X: n.X, Y: n.Y})
	}
	return doc, nil
}

// Close releases the tooltip, the simulation and the cached scene. It is
// safe to call more than once.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.tooltip = nil
	r.scene, r.index, r.sim = nil, nil, nil
	r.opts = Options{}
	return nil
}

// dragJS moves a node and its edges with the pointer and reports the drop
// as a "tablescope:dragend" event.
func dragJS(id string) string {
	return fmt.Sprintf(`
    (function() {
      const root = document.getElementById(%q);
      if (!root) return;
      const plot = root.querySelector('.plot');
      function at(el, evt) {
        const pt = root.createSVGPoint();
        pt.x = evt.clientX; pt.y = evt.clientY;
        return pt.matrixTransform(el.getScreenCTM().inverse());
      }
      const local = evt => at(plot, evt);
      root.querySelectorAll('.node').forEach(el => {
        const name = el.dataset.name;
        const edges = Array.from(root.querySelectorAll('.edge')).filter(e => e.dataset.source === name || e.dataset.target === name);
        let active = false;
        el.addEventListener('pointerdown', evt => { active = true; el.classList.add('dragging'); el.setPointerCapture(evt.pointerId); });
        el.addEventListener('pointermove', evt => {
          if (!active) return;
          const p = local(evt);
          el.setAttribute('transform', 'translate(' + p.x.toFixed(1) + ',' + p.y.toFixed(1) + ')');
          edges.forEach(e => {
            const end = e.dataset.source === name ? '1' : '2';
            e.setAttribute('x' + end, p.x.toFixed(1));
            e.setAttribute('y' + end, p.y.toFixed(1));
          });
        });
        el.addEventListener('pointerup', evt => {
          if (!active) return;
          active = false;
          el.classList.remove('dragging');
          const p = at(root, evt);
          const detail = { renderer: root.id, name, x: p.x, y: p.y };
          root.dispatchEvent(new CustomEvent('tablescope:dragend', { detail, bubbles: true }));
          if (typeof window.tablescopeDragEnd === 'function') window.tablescopeDragEnd(detail);
        });
      });
    })();`, id)
}
