package radar

import (
	"strconv"

	"github.com/kittclouds/skillradar/pkg/aggregate"
)

// Mode selects which detail panel a click feeds.
type Mode int

const (
	// Interactive charts sit next to the editor; the detail panel follows edits.
	Interactive Mode = iota
	// ReadOnly charts show a decoded snapshot; the detail panel is static.
	ReadOnly
)

func (m Mode) String() string {
	if m == ReadOnly {
		return "read-only"
	}
	return "interactive"
}

// Selector receives the competency a click resolved to.
type Selector interface {
	Select(competencyID int)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(competencyID int)

func (f SelectorFunc) Select(competencyID int) { f(competencyID) }

// Placeholder is drawn when there are no competencies.
const Placeholder = "Add competencies and score them from tasks to see the chart."

// Frame describes the outcome of one Render call.
type Frame struct {
	Layout  Layout
	Legend  string
	Empty   bool
	Skipped bool
}

// Chart draws aggregated levels and resolves clicks. One Chart type serves
// both the editor and the shared viewer; they differ only in Mode and Selector.
type Chart struct {
	Mode     Mode
	Theme    Theme
	Selector Selector
}

// NewChart creates a chart with the default theme.
func NewChart(mode Mode, sel Selector) *Chart {
	return &Chart{Mode: mode, Theme: DefaultTheme(), Selector: sel}
}

// Legend is the hint shown under a non-empty chart.
func (c *Chart) Legend() string {
	if c.Mode == ReadOnly {
		return "Click a competency to see the tasks behind its level · Scale 0–10"
	}
	return "Click a competency to see which tasks have given it points · Scale 0–10"
}

// Render clears s and draws levels onto it. A zero-area surface is left
// untouched. With no levels a placeholder message is drawn and the legend is empty.
func (c *Chart) Render(s Surface, levels []aggregate.Level) Frame {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return Frame{Skipped: true}
	}
	n := len(levels)
	l := NewLayout(w, h, n)
	th := c.Theme
	s.Clear()

	if n == 0 {
		s.Text(Point{X: l.CX, Y: l.CY}, Placeholder, TextStyle{
			Fill:   th.Muted,
			Size:   th.MessageSize,
			Family: th.FontFamily,
			Align:  "center",
		})
		return Frame{Layout: l, Empty: true}
	}

	grid := Style{Stroke: th.Grid, LineWidth: 1}
	for _, ring := range RingLevels() {
		s.Path(l.Ring(ring), true, grid)
	}

	axis := Style{Stroke: th.Axis, LineWidth: 1}
	center := Point{X: l.CX, Y: l.CY}
	for i := 0; i < n; i++ {
		s.Path([]Point{center, l.At(l.Radius, i)}, false, axis)
	}

	values := make([]float64, n)
	for i, lv := range levels {
		values[i] = lv.Level
	}
	poly := l.Polygon(values)
	s.Path(poly, true, Style{Fill: th.AreaFill, Stroke: th.AreaStroke, LineWidth: 2, LineJoin: "round"})

	dot := Style{Fill: th.PointFill, Stroke: th.PointStroke, LineWidth: 1}
	for _, p := range poly {
		s.Circle(p, th.PointRadius, dot)
	}

	label := TextStyle{Fill: th.Label, Size: th.LabelSize, Family: th.FontFamily, Align: "center", Baseline: "middle"}
	for i, lv := range levels {
		s.Text(l.LabelAnchor(i), LabelText(lv), label)
	}

	return Frame{Layout: l, Legend: c.Legend()}
}

// LabelText is the axis caption: name and level.
func LabelText(lv aggregate.Level) string {
	return lv.Name + " — " + FormatLevel(lv.Level)
}

// FormatLevel prints a level without trailing zeros ("6", "5.8").
func FormatLevel(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// HitTest resolves a click on a w x h surface to a competency id without
// notifying the selector.
func (c *Chart) HitTest(w, h, x, y float64, levels []aggregate.Level) (int, bool) {
	idx, ok := NewLayout(w, h, len(levels)).HitTest(x, y)
	if !ok {
		return 0, false
	}
	return levels[idx].CompetencyID, true
}

// Click resolves a click and forwards a hit to the selector.
func (c *Chart) Click(w, h, x, y float64, levels []aggregate.Level) (int, bool) {
	id, ok := c.HitTest(w, h, x, y, levels)
	if ok && c.Selector != nil {
		c.Selector.Select(id)
	}
	return id, ok
}
