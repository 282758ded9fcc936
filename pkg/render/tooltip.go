package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	tooltipLineHeight = 16.0
	tooltipPadding    = 8.0
	tooltipCharWidth  = 6.6
	tooltipOffset     = 12.0
)

// NewInstanceID returns a unique id for one renderer instance.
func NewInstanceID(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// Tooltip is the hover label owned by a single renderer instance.
type Tooltip struct {
	ID      string   `json:"id"`
	Visible bool     `json:"visible"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Lines   []string `json:"lines,omitempty"`
}

// NewTooltip creates a hidden tooltip scoped to instance.
func NewTooltip(instance string) *Tooltip {
	return &Tooltip{ID: instance + "-tooltip"}
}

// Show places the tooltip near the pointer at (x, y), kept inside v.
func (t *Tooltip) Show(v Viewport, x, y float64, lines ...string) {
	t.Lines = lines
	t.Visible = true
	w, h := t.size()
	t.X = x + tooltipOffset
	t.Y = y + tooltipOffset
	if t.X+w > v.Width {
		t.X = max(0, x-tooltipOffset-w)
	}
	if t.Y+h > v.Height {
		t.Y = max(0, y-tooltipOffset-h)
	}
}

// Hide clears the tooltip.
func (t *Tooltip) Hide() {
	t.Visible = false
	t.Lines = nil
}

// Text returns the tooltip lines joined by newlines.
func (t *Tooltip) Text() string { return strings.Join(t.Lines, "\n") }

func (t *Tooltip) size() (w, h float64) {
	longest := 0
	for _, l := range t.Lines {
		longest = max(longest, len(l))
	}
	return float64(longest)*tooltipCharWidth + 2*tooltipPadding,
		float64(len(t.Lines))*tooltipLineHeight + 2*tooltipPadding
}

// WriteSVG writes the tooltip group. Interactive documents fill it in from
// script; a visible tooltip is drawn with its current lines.
func (t *Tooltip) WriteSVG(buf *bytes.Buffer) {
	vis := "hidden"
	if t.Visible {
		vis = "visible"
	}
	w, h := t.size()
	fmt.Fprintf(buf, `  <g id="%s" class="tooltip" visibility="%s" transform="translate(%.1f,%.1f)" pointer-events="none">`+"\n",
		EscapeXML(t.ID), vis, t.X, t.Y)
	fmt.Fprintf(buf, `    <rect class="tooltip-bg" rx="4" width="%.1f" height="%.1f" fill="#111827" fill-opacity="0.9"/>`+"\n", w, h)
	fmt.Fprintf(buf, `    <text class="tooltip-text" x="%.1f" y="%.1f" font-family="system-ui, sans-serif" font-size="12" fill="#ffffff">`,
		tooltipPadding, tooltipPadding+12)
	for i, l := range t.Lines {
		dy := 0.0
		if i > 0 {
			dy = tooltipLineHeight
		}
		fmt.Fprintf(buf, `<tspan x="%.1f" dy="%.1f">%s</tspan>`, tooltipPadding, dy, EscapeXML(l))
	}
	buf.WriteString("</text>\n  </g>\n")
}

// TooltipJS positions the tooltip group with id tipID next to the pointer
// and fills it from each target's data-tip attribute (lines separated by
// "\n"). Targets are the elements under root matching selector.
func TooltipJS(rootID, tipID, selector string) string {
	return fmt.Sprintf(`
    (function() {
      const root = document.getElementById(%[1]q);
      const tip = document.getElementById(%[2]q);
      if (!root || !tip) return;
      const bg = tip.querySelector('.tooltip-bg');
      const text = tip.querySelector('.tooltip-text');
      const vb = root.viewBox.baseVal;
      function pointer(evt) {
        const pt = root.createSVGPoint();
        pt.x = evt.clientX; pt.y = evt.clientY;
        return pt.matrixTransform(root.getScreenCTM().inverse());
      }
      function show(el, evt) {
        while (text.firstChild) text.removeChild(text.firstChild);
        el.dataset.tip.split('\n').forEach((line, i) => {
          const span = document.createElementNS('http://www.w3.org/2000/svg', 'tspan');
          span.setAttribute('x', %[4]g);
          span.setAttribute('dy', i === 0 ? 0 : %[5]g);
          span.textContent = line;
          text.appendChild(span);
        });
        const box = text.getBBox();
        bg.setAttribute('width', box.width + 2 * %[4]g);
        bg.setAttribute('height', box.height + 2 * %[4]g);
        move(evt);
        tip.setAttribute('visibility', 'visible');
      }
      function move(evt) {
        const p = pointer(evt);
        const w = +bg.getAttribute('width'), h = +bg.getAttribute('height');
        let x = p.x + %[6]g, y = p.y + %[6]g;
        if (x + w > vb.x + vb.width) x = Math.max(vb.x, p.x - %[6]g - w);
        if (y + h > vb.y + vb.height) y = Math.max(vb.y, p.y - %[6]g - h);
        tip.setAttribute('transform', 'translate(' + x.toFixed(1) + ',' + y.toFixed(1) + ')');
      }
      root.querySelectorAll(%[3]q).forEach(el => {
        el.addEventListener('mouseenter', evt => show(el, evt));
        el.addEventListener('mousemove', move);
        el.addEventListener('mouseleave', () => tip.setAttribute('visibility', 'hidden'));
      });
    })();`, rootID, tipID, selector, tooltipPadding, tooltipLineHeight, tooltipOffset)
}
