package radar

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

// SVG is a Surface that records drawing calls as SVG markup. Output is a
// pure function of the calls made since the last Clear, so redrawing the
// same levels at the same size yields identical bytes.
type SVG struct {
	w, h float64
	body bytes.Buffer
}

// NewSVG creates an SVG surface of the given logical size.
func NewSVG(w, h float64) *SVG {
	return &SVG{w: w, h: h}
}

func (s *SVG) Size() (float64, float64) { return s.w, s.h }

// Resize changes the logical size and clears the drawing.
func (s *SVG) Resize(w, h float64) {
	s.w, s.h = w, h
	s.Clear()
}

func (s *SVG) Clear() { s.body.Reset() }

func (s *SVG) Path(points []Point, closed bool, style Style) {
	if len(points) == 0 {
		return
	}
	var d bytes.Buffer
	for i, p := range points {
		if i == 0 {
			d.WriteString("M")
		} else {
			d.WriteString(" L")
		}
		d.WriteString(num(p.X))
		d.WriteByte(' ')
		d.WriteString(num(p.Y))
	}
	if closed {
		d.WriteString(" Z")
	}
	s.body.WriteString(`<path d="`)
	s.body.Write(d.Bytes())
	s.body.WriteString(`"`)
	s.paint(style)
	s.body.WriteString("/>\n")
}

func (s *SVG) Circle(center Point, r float64, style Style) {
	s.body.WriteString(`<circle cx="` + num(center.X) + `" cy="` + num(center.Y) + `" r="` + num(r) + `"`)
	s.paint(style)
	s.body.WriteString("/>\n")
}

func (s *SVG) Text(at Point, text string, style TextStyle) {
	s.body.WriteString(`<text x="` + num(at.X) + `" y="` + num(at.Y) + `"`)
	s.attr("fill", style.Fill)
	if style.Size > 0 {
		s.attr("font-size", num(style.Size))
	}
	s.attr("font-family", style.Family)
	s.attr("text-anchor", anchor(style.Align))
	s.attr("dominant-baseline", baseline(style.Baseline))
	s.body.WriteString(">")
	_ = xml.EscapeText(&s.body, []byte(text))
	s.body.WriteString("</text>\n")
}

// Bytes returns the complete SVG document.
func (s *SVG) Bytes() []byte {
	var out bytes.Buffer
	w, h := num(s.w), num(s.h)
	out.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="` + w + `" height="` + h +
		`" viewBox="0 0 ` + w + ` ` + h + `">` + "\n")
	out.Write(s.body.Bytes())
	out.WriteString("</svg>\n")
	return out.Bytes()
}

func (s *SVG) String() string { return string(s.Bytes()) }

func (s *SVG) paint(style Style) {
	if style.Fill == "" {
		s.attr("fill", "none")
	} else {
		s.attr("fill", style.Fill)
	}
	if style.Stroke != "" {
		s.attr("stroke", style.Stroke)
		if style.LineWidth > 0 {
			s.attr("stroke-width", num(style.LineWidth))
		}
		s.attr("stroke-linejoin", style.LineJoin)
	}
}

func (s *SVG) attr(name, value string) {
	if value == "" {
		return
	}
	s.body.WriteString(" " + name + `="`)
	_ = xml.EscapeText(&s.body, []byte(value))
	s.body.WriteString(`"`)
}

// num formats a coordinate with two decimals.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func anchor(align string) string {
	switch align {
	case "center":
		return "middle"
	case "right":
		return "end"
	case "left":
		return "start"
	}
	return ""
}

func baseline(b string) string {
	switch b {
	case "middle":
		return "middle"
	case "top":
		return "hanging"
	}
	return ""
}
