package engine

import (
	"slices"

	"github.com/inamate/vecedit/backend-go/internal/document"
	"github.com/inamate/vecedit/backend-go/internal/geom"
)

// splitResult holds everything an insertion writes, computed up front so the
// path is only touched once every value is known to be valid.
type splitResult struct {
	anchor  document.Anchor
	v1Right geom.Point
	v2Left  geom.Point
}

// splitSegment subdivides the cubic (v1, v1+right, v2+left, v2) at t. The
// new anchor sits on the curve at t; its controls and the outer controls of
// v1 and v2 come from the de Casteljau construction, so the two halves
// trace the original curve exactly.
func splitSegment(v1, v2 document.Anchor, t float64) (splitResult, bool) {
	if !(t > 0 && t < 1) {
		return splitResult{}, false
	}
	c := geom.Cubic{P0: v1.Pos, P1: v1.RightHandle(), P2: v2.LeftHandle(), P3: v2.Pos}
	first, second := c.Split(t)

	res := splitResult{
		anchor: document.Anchor{
			Pos:   first.P3,
			Left:  first.P2.Sub(first.P3),
			Right: second.P1.Sub(second.P0),
		},
		v1Right: first.P1.Sub(first.P0),
		v2Left:  second.P2.Sub(second.P3),
	}
	if !res.anchor.Pos.IsFinite() || !res.anchor.Left.IsFinite() || !res.anchor.Right.IsFinite() ||
		!res.v1Right.IsFinite() || !res.v2Left.IsFinite() {
		return splitResult{}, false
	}
	return res, true
}

// insertAnchor splits segment seg of p at t and returns the index of the new
// anchor. On failure p is left untouched.
func insertAnchor(p *document.Path, seg int, t float64) (int, bool) {
	if seg < 0 || seg >= p.SegmentCount() {
		return -1, false
	}
	i, j := seg, (seg+1)%len(p.Anchors)
	res, ok := splitSegment(p.Anchors[i], p.Anchors[j], t)
	if !ok {
		return -1, false
	}

	res.anchor.Index = p.NextIndex
	p.NextIndex++
	p.Anchors[i].Right = res.v1Right
	p.Anchors[j].Left = res.v2Left
	p.Anchors = slices.Insert(p.Anchors, i+1, res.anchor)
	return i + 1, true
}
