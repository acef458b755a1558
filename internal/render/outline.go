package render

import (
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic Bézier control points so that four curves approximate
// a circle.
const kappa = 0.5522847498307936

type vec struct{ x, y float64 }

func (a vec) add(b vec) vec { return vec{a.x + b.x, a.y + b.y} }
func (a vec) sub(b vec) vec { return vec{a.x - b.x, a.y - b.y} }
func (a vec) mul(f float64) vec { return vec{a.x * f, a.y * f} }
func (a vec) dist(b vec) float64 { return math.Hypot(a.x-b.x, a.y-b.y) }
func (a vec) f32() (float32, float32) { return float32(a.x), float32(a.y) }

// outline feeds round-capped capsules into a vector.Rasterizer. Every
// capsule is emitted with the same winding so overlapping pieces of one
// stroke add up instead of cancelling.
type outline struct {
	ras *vector.Rasterizer
}

func (o outline) moveTo(p vec) { o.ras.MoveTo(p.f32()) }
func (o outline) lineTo(p vec) { o.ras.LineTo(p.f32()) }

func (o outline) cubeTo(c1, c2, p vec) {
	x1, y1 := c1.f32()
	x2, y2 := c2.f32()
	x, y := p.f32()
	o.ras.CubeTo(x1, y1, x2, y2, x, y)
}

// capsule adds the area within r of the segment a-b. A zero-length segment
// becomes a disc.
func (o outline) capsule(a, b vec, r float64) {
	u := vec{1, 0}
	if l := a.dist(b); l > 1e-9 {
		u = b.sub(a).mul(1 / l)
	}
	n := vec{-u.y, u.x}
	nr, ur := n.mul(r), u.mul(r)
	nk, uk := n.mul(r*kappa), u.mul(r*kappa)

	o.moveTo(a.add(nr))
	o.lineTo(b.add(nr))
	o.cubeTo(b.add(nr).add(uk), b.add(ur).add(nk), b.add(ur))
	o.cubeTo(b.add(ur).sub(nk), b.sub(nr).add(uk), b.sub(nr))
	o.lineTo(a.sub(nr))
	o.cubeTo(a.sub(nr).sub(uk), a.sub(ur).sub(nk), a.sub(ur))
	o.cubeTo(a.sub(ur).add(nk), a.add(nr).sub(uk), a.add(nr))
	o.ras.ClosePath()
}

// polyline adds a round-joined, round-capped path through pts.
func (o outline) polyline(pts []vec, r float64) {
	if len(pts) == 0 {
		return
	}
	prev := pts[0]
	drawn := false
	for _, p := range pts[1:] {
		if p == prev {
			continue
		}
		o.capsule(prev, p, r)
		prev = p
		drawn = true
	}
	if !drawn {
		o.capsule(pts[0], pts[0], r)
	}
}
