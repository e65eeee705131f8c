// Package radar lays out competency levels on a regular n-gon, draws the
// chart onto a Surface and maps clicks back to a competency.
//
// All geometry is in logical (CSS) pixels. Surfaces that render at a higher
// backing resolution scale internally, so nothing here depends on the
// device pixel ratio.
package radar

import "math"

const (
	// ScaleMax is the level at the outer ring.
	ScaleMax = 10.0
	// RadiusFraction of min(width, height) used for the chart radius.
	RadiusFraction = 0.38
	// LabelOffset is the distance of axis labels beyond the outer ring.
	LabelOffset = 28.0
	// HitMargin is the click tolerance beyond the labels.
	HitMargin = 40.0
	// DeadZone is the radius around the center where clicks are ambiguous.
	DeadZone = 15.0
	// RingStep is the level spacing of the grid rings.
	RingStep = 2.0
)

// Point is a position in logical pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layout is the radar geometry for one surface size and axis count.
type Layout struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	Radius float64 `json:"radius"`
	N      int     `json:"n"`
}

// NewLayout computes the layout for a w x h surface with n axes.
func NewLayout(w, h float64, n int) Layout {
	return Layout{
		Width:  w,
		Height: h,
		CX:     w / 2,
		CY:     h / 2,
		Radius: math.Min(w, h) * RadiusFraction,
		N:      n,
	}
}

// Angle of axis i. Axis 0 points straight up; axes proceed clockwise
// (screen y grows downwards).
func (l Layout) Angle(i int) float64 {
	if l.N <= 0 {
		return -math.Pi / 2
	}
	return 2*math.Pi*float64(i)/float64(l.N) - math.Pi/2
}

// At returns the point at distance r from the center along axis i.
func (l Layout) At(r float64, i int) Point {
	a := l.Angle(i)
	return Point{X: l.CX + r*math.Cos(a), Y: l.CY + r*math.Sin(a)}
}

// Project places a level on axis i. Levels outside [0, ScaleMax] are clamped.
func (l Layout) Project(level float64, i int) Point {
	level = math.Max(0, math.Min(ScaleMax, level))
	return l.At(level/ScaleMax*l.Radius, i)
}

// Polygon projects one level per axis, in axis order. The path closes back
// to the first point when drawn.
func (l Layout) Polygon(levels []float64) []Point {
	pts := make([]Point, len(levels))
	for i, v := range levels {
		pts[i] = l.Project(v, i)
	}
	return pts
}

// Ring returns the n-gon for a grid ring at the given level.
func (l Layout) Ring(level float64) []Point {
	pts := make([]Point, l.N)
	for i := range pts {
		pts[i] = l.Project(level, i)
	}
	return pts
}

// RingLevels are the levels grid rings are drawn at.
func RingLevels() []float64 {
	var out []float64
	for v := RingStep; v <= ScaleMax; v += RingStep {
		out = append(out, v)
	}
	return out
}

// LabelAnchor is where axis i's label is centered.
func (l Layout) LabelAnchor(i int) Point {
	return l.At(l.Radius+LabelOffset, i)
}

// OuterBound is the farthest click distance still counted as a hit.
func (l Layout) OuterBound() float64 {
	return l.Radius + LabelOffset + HitMargin
}

// HitTest maps a click to an axis index. The test is angle-only: every axis
// owns the sector [i, i+1) * 2π/n measured clockwise from the top, whatever
// the plotted level. Clicks inside the dead zone or beyond OuterBound miss.
func (l Layout) HitTest(x, y float64) (int, bool) {
	if l.N <= 0 {
		return 0, false
	}
	dx, dy := x-l.CX, y-l.CY
	dist := math.Hypot(dx, dy)
	// NaN compares false against both bounds.
	if math.IsNaN(dist) || dist < DeadZone || dist > l.OuterBound() {
		return 0, false
	}
	angle := math.Mod(math.Atan2(dy, dx)+math.Pi/2+2*math.Pi, 2*math.Pi)
	idx := int(math.Floor(angle/(2*math.Pi/float64(l.N)))) % l.N
	if idx < 0 {
		return 0, false
	}
	return idx, true
}
