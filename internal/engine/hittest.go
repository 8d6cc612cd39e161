package engine

import (
	"github.com/inamate/vecedit/backend-go/internal/document"
	"github.com/inamate/vecedit/backend-go/internal/geom"
)

// ShapeHit is the result of a select-tool hit test.
type ShapeHit struct {
	Layer *Layer
	Path  *document.Path
	// Point is the pointer in the layer's space.
	Point geom.Point
}

// HitShape returns the topmost shape whose bounding box contains pt, scanning
// visible layers front to back and each layer's shapes last to first.
func HitShape(sg *SceneGraph, pt geom.Point) (ShapeHit, bool) {
	layers := sg.Layers()
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		if !l.Visible {
			continue
		}
		lp, ok := geom.ToLocal(pt, l.Transform)
		if !ok {
			continue
		}
		for j := len(l.Paths) - 1; j >= 0; j-- {
			b, ok := l.Paths[j].Bounds()
			if ok && b.Contains(lp) {
				return ShapeHit{Layer: l, Path: l.Paths[j], Point: lp}, true
			}
		}
	}
	return ShapeHit{}, false
}

type penHitKind int

const (
	hitNone penHitKind = iota
	hitHandleLeft
	hitHandleRight
	hitAnchor
	hitSegment
)

// penHit is the result of a pen-tool hit test. Local is the pointer in the
// hit path's space.
type penHit struct {
	kind    penHitKind
	layer   *Layer
	path    *document.Path
	anchor  int
	segment int
	t       float64
	local   geom.Point
}

// penTarget is a path considered by the pen hit test, with the pointer
// already mapped into its space.
type penTarget struct {
	layer *Layer
	path  *document.Path
	local geom.Point
}

// hitPen resolves pt against, in priority order: the handles of the selected
// anchor of the edited path, the anchors of the edited path, the anchors of
// the other paths of the active layer, and finally the segments of all of
// those paths.
func (e *Engine) hitPen(pt geom.Point) penHit {
	r := e.opts.HitRadius
	var targets []penTarget

	if l, p, ok := e.scene.Path(e.pen.pathID); ok {
		local, ok := pathLocal(l, p, pt)
		if !ok {
			return penHit{}
		}
		edited := penTarget{layer: l, path: p, local: local}
		targets = append(targets, edited)

		if sel := e.pen.selected; sel >= 0 && sel < len(p.Anchors) {
			a := p.Anchors[sel]
			dl, dr := -1.0, -1.0
			if !a.Left.IsZero() {
				dl = local.Distance(a.LeftHandle())
			}
			if !a.Right.IsZero() {
				dr = local.Distance(a.RightHandle())
			}
			switch {
			case dl >= 0 && dl <= r && (dr < 0 || dr > r || dl <= dr):
				return penHit{kind: hitHandleLeft, layer: l, path: p, anchor: sel, local: local}
			case dr >= 0 && dr <= r:
				return penHit{kind: hitHandleRight, layer: l, path: p, anchor: sel, local: local}
			}
		}

		if i := nearestAnchor(p, local, r); i >= 0 {
			return penHit{kind: hitAnchor, layer: l, path: p, anchor: i, local: local}
		}
	}

	if l, ok := e.scene.Layer(e.activeLayer); ok && l.Visible {
		for j := len(l.Paths) - 1; j >= 0; j-- {
			p := l.Paths[j]
			if p.ID == e.pen.pathID {
				continue
			}
			local, ok := pathLocal(l, p, pt)
			if !ok {
				continue
			}
			if i := nearestAnchor(p, local, r); i >= 0 {
				return penHit{kind: hitAnchor, layer: l, path: p, anchor: i, local: local}
			}
			targets = append(targets, penTarget{layer: l, path: p, local: local})
		}
	}

	for _, tg := range targets {
		if seg, t, ok := nearestSegmentSample(tg.path, tg.local, r, e.opts.SegmentSamples); ok {
			return penHit{kind: hitSegment, layer: tg.layer, path: tg.path, segment: seg, t: t, local: tg.local}
		}
	}
	return penHit{}
}

// nearestAnchor returns the index of the anchor closest to pt within r, or -1.
func nearestAnchor(p *document.Path, pt geom.Point, r float64) int {
	best, bestDist := -1, r
	for i, a := range p.Anchors {
		if d := pt.Distance(a.Pos); d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// nearestSegmentSample evaluates every segment at samples equally spaced
// interior parameters and returns the segment and parameter of the sample
// closest to pt within r.
func nearestSegmentSample(p *document.Path, pt geom.Point, r float64, samples int) (seg int, t float64, ok bool) {
	bestDist := r
	for i := range p.SegmentCount() {
		c := p.Segment(i)
		for s := 1; s < samples; s++ {
			ts := float64(s) / float64(samples)
			if d := pt.Distance(c.Eval(ts)); d <= bestDist {
				seg, t, ok, bestDist = i, ts, true, d
			}
		}
	}
	return seg, t, ok
}
