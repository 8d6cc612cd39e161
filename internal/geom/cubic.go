package geom

// Cubic is a cubic bezier segment with start P0, controls P1 and P2, end P3.
type Cubic struct {
	P0, P1, P2, P3 Point
}

// Eval evaluates the curve at parameter t using de Casteljau's algorithm.
func (c Cubic) Eval(t float64) Point {
	_, _, p := c.casteljau(t)
	return p
}

// Split subdivides the curve at t using de Casteljau. The end of the first
// half and the start of the second are the same Eval(t) point.
func (c Cubic) Split(t float64) (Cubic, Cubic) {
	l, r, p := c.casteljau(t)
	return Cubic{c.P0, l[0], l[1], p}, Cubic{p, r[0], r[1], c.P3}
}

// casteljau returns the left controls (p01, p012), the right controls
// (p123, p23) and the point on the curve.
func (c Cubic) casteljau(t float64) (left, right [2]Point, p Point) {
	p01 := c.P0.Lerp(c.P1, t)
	p12 := c.P1.Lerp(c.P2, t)
	p23 := c.P2.Lerp(c.P3, t)
	p012 := p01.Lerp(p12, t)
	p123 := p12.Lerp(p23, t)
	p = p012.Lerp(p123, t)
	return [2]Point{p01, p012}, [2]Point{p123, p23}, p
}

