package treemap

import (
	"fmt"

	"github.com/matzehuels/tablescope/pkg/render"
)

// leafAt maps viewport coordinates onto the last layout.
func (r *Renderer) leafAt(x, y float64) (Hit, bool) {
	if r.cells == nil {
		return Hit{}, false
	}
	c := r.cells.LeafAt(x-r.opts.Margin.Left, y-r.opts.Margin.Top)
	if c == nil {
		return Hit{}, false
	}
	return hitFor(c), true
}

// Hover updates the tooltip for a pointer at (x, y) and returns its state.
// Hover never recomputes the layout.
func (r *Renderer) Hover(x, y float64) (*render.Tooltip, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tooltip == nil {
		return nil, false
	}
	hit, ok := r.leafAt(x, y)
	if !ok {
		r.tooltip.Hide()
		t := *r.tooltip
		return &t, false
	}
	r.tooltip.Show(r.opts.Viewport, x, y, tipLines(hit)...)
	t := *r.tooltip
	return &t, true
}

// Click reports the path key of the leaf at (x, y) through OnSelect. Clicks on group cells
// or empty space do nothing.
func (r *Renderer) Click(x, y float64) (Hit, bool) {
	r.mu.Lock()
	hit, ok := r.leafAt(x, y)
	onSelect := r.opts.OnSelect
	r.mu.Unlock()

	if !ok {
		return Hit{}, false
	}
	if onSelect != nil {
		onSelect(hit.Key)
	}
	return hit, true
}

// Close releases the tooltip and the cached layout. It is safe to call
// more than once.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.tooltip = nil
	r.cells = nil
	r.opts = Options{}
	return nil
}

// selectJS forwards leaf clicks to the embedding page as a
// "tablescope:select" event, and to window.tablescopeSelect when defined.
func selectJS(id string) string {
	return fmt.Sprintf(`
    (function() {
      const root = document.getElementById(%q);
      if (!root) return;
      root.querySelectorAll('.cell.leaf').forEach(el => {
        el.addEventListener('click', () => {
          const detail = { renderer: root.id, name: el.dataset.name, key: el.dataset.key };
          root.dispatchEvent(new CustomEvent('tablescope:select', { detail, bubbles: true }));
          if (typeof window.tablescopeSelect === 'function') window.tablescopeSelect(detail);
        });
      });
    })();`, id)
}
