package render

import (
	"bytes"
	"fmt"
)

// WrapHTML embeds an SVG document in a standalone HTML page.
func WrapHTML(title string, svg []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", EscapeXML(title))
	buf.WriteString("<style>body{margin:0;padding:24px;font-family:system-ui,sans-serif;background:#fff}svg{max-width:100%;height:auto}</style>\n")
	buf.WriteString("</head>\n<body>\n")
	buf.Write(svg)
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}
