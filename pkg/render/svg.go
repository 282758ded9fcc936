package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/tablescope/pkg/errors"
)

// NoData is the message drawn when there is nothing to visualize.
const NoData = "No data available"

// Viewport is the drawing surface size in pixels.
type Viewport struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Margin reserves space on each side of the viewport.
type Margin struct {
	Top    float64 `json:"top" toml:"top"`
	Right  float64 `json:"right" toml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom"`
	Left   float64 `json:"left" toml:"left"`
}

// Validate rejects negative or non-finite sizes.
func (v Viewport) Validate() error {
	if err := errors.ValidateDimension("viewport width", v.Width); err != nil {
		return err
	}
	return errors.ValidateDimension("viewport height", v.Height)
}

// Validate rejects negative or non-finite margins.
func (m Margin) Validate() error {
	for _, side := range []struct {
		name string
		v    float64
	}{{"top", m.Top}, {"right", m.Right}, {"bottom", m.Bottom}, {"left", m.Left}} {
		if err := errors.ValidateDimension("margin "+side.name, side.v); err != nil {
			return err
		}
	}
	return nil
}

// Inner returns the drawable size inside m, clamped at zero.
func (v Viewport) Inner(m Margin) Viewport {
	return Viewport{
		Width:  max(0, v.Width-m.Left-m.Right),
		Height: max(0, v.Height-m.Top-m.Bottom),
	}
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// OpenSVG writes the root element for a document of size v.
func OpenSVG(buf *bytes.Buffer, v Viewport, id, class string) {
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" id="%s" class="%s" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		EscapeXML(id), class, v.Width, v.Height, v.Width, v.Height)
}

// CloseSVG ends a document started with [OpenSVG].
func CloseSVG(buf *bytes.Buffer) { buf.WriteString("</svg>\n") }

// WriteStyleScript embeds CSS and JavaScript in the document.
func WriteStyleScript(buf *bytes.Buffer, css, js string) {
	if css != "" {
		fmt.Fprintf(buf, "  <style>%s\n  </style>\n", css)
	}
	if js != "" {
		fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", js)
	}
}

// EmptyState returns a complete document showing msg centered in v.
func EmptyState(v Viewport, id, msg string) []byte {
	if msg == "" {
		msg = NoData
	}
	var buf bytes.Buffer
	OpenSVG(&buf, v, id, "empty-state")
	fmt.Fprintf(&buf, `  <rect class="empty-bg" width="%.1f" height="%.1f" fill="#fafafa" stroke="#e5e7eb"/>`+"\n", v.Width, v.Height)
	fmt.Fprintf(&buf, `  <text class="empty-message" x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family="system-ui, sans-serif" font-size="14" fill="#6b7280">%s</text>`+"\n",
		v.Width/2, v.Height/2, EscapeXML(msg))
	CloseSVG(&buf)
	return buf.Bytes()
}
