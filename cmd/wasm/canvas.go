//go:build js && wasm

package main

import (
	"fmt"
	"math"
	"syscall/js"

	"github.com/kittclouds/skillradar/pkg/radar"
)

// canvasSurface draws onto an HTML canvas in CSS pixels. The backing store
// is sized by devicePixelRatio and the context transform undoes the scale.
type canvasSurface struct {
	ctx  js.Value
	w, h float64
}

func newCanvasSurface(el js.Value) *canvasSurface {
	dpr := 1.0
	if v := js.Global().Get("devicePixelRatio"); v.Truthy() {
		dpr = v.Float()
	}
	rect := el.Call("getBoundingClientRect")
	w, h := rect.Get("width").Float(), rect.Get("height").Float()

	el.Set("width", math.Floor(w*dpr))
	el.Set("height", math.Floor(h*dpr))
	ctx := el.Call("getContext", "2d")
	ctx.Call("setTransform", dpr, 0, 0, dpr, 0, 0)
	return &canvasSurface{ctx: ctx, w: w, h: h}
}

func (c *canvasSurface) Size() (float64, float64) { return c.w, c.h }

func (c *canvasSurface) Clear() {
	c.ctx.Call("clearRect", 0, 0, c.w, c.h)
}

func (c *canvasSurface) Path(points []radar.Point, closed bool, style radar.Style) {
	if len(points) == 0 {
		return
	}
	c.ctx.Call("beginPath")
	c.ctx.Call("moveTo", points[0].X, points[0].Y)
	for _, p := range points[1:] {
		c.ctx.Call("lineTo", p.X, p.Y)
	}
	if closed {
		c.ctx.Call("closePath")
	}
	c.paint(style)
}

func (c *canvasSurface) Circle(center radar.Point, r float64, style radar.Style) {
	c.ctx.Call("beginPath")
	c.ctx.Call("arc", center.X, center.Y, r, 0, 2*math.Pi)
	c.paint(style)
}

func (c *canvasSurface) Text(at radar.Point, text string, style radar.TextStyle) {
	c.ctx.Set("font", fmt.Sprintf("%gpx %s", style.Size, style.Family))
	c.ctx.Set("fillStyle", style.Fill)
	if style.Align != "" {
		c.ctx.Set("textAlign", style.Align)
	}
	if style.Baseline != "" {
		c.ctx.Set("textBaseline", style.Baseline)
	} else {
		c.ctx.Set("textBaseline", "alphabetic")
	}
	c.ctx.Call("fillText", text, at.X, at.Y)
}

func (c *canvasSurface) paint(style radar.Style) {
	if style.Fill != "" {
		c.ctx.Set("fillStyle", style.Fill)
		c.ctx.Call("fill")
	}
	if style.Stroke != "" {
		c.ctx.Set("strokeStyle", style.Stroke)
		c.ctx.Set("lineWidth", style.LineWidth)
		join := style.LineJoin
		if join == "" {
			join = "miter"
		}
		c.ctx.Set("lineJoin", join)
		c.ctx.Call("stroke")
	}
}
