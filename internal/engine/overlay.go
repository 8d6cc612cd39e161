package engine

import (
	"github.com/inamate/vecedit/backend-go/internal/geom"
)

// HandleSide tells which control of an anchor a handle belongs to.
type HandleSide string

const (
	HandleLeft  HandleSide = "left"
	HandleRight HandleSide = "right"
)

// HandleHelper is one control handle of the selected anchor: a line from
// the anchor to the handle tip.
type HandleHelper struct {
	Side   HandleSide
	Anchor geom.Point
	Tip    geom.Point
}

// PenHelpers is the pen tool overlay for the edited path. All points are in
// the path's space; Transform maps them to the container.
type PenHelpers struct {
	PathID    string
	Transform geom.Matrix2D
	Closed    bool
	Anchors   []geom.Point
	Selected  int
	Handles   []HandleHelper
	Mode      PenMode
}

// PenHelpers derives the pen overlay from the current editor state on every
// call. A destroyed path yields no overlay.
func (e *Engine) PenHelpers() (PenHelpers, bool) {
	l, p, ok := e.scene.Path(e.pen.pathID)
	if !ok {
		return PenHelpers{}, false
	}

	h := PenHelpers{
		PathID:    p.ID,
		Transform: l.Matrix().Multiply(geom.FromTransform(p.Transform)),
		Closed:    p.Closed,
		Anchors:   make([]geom.Point, len(p.Anchors)),
		Selected:  -1,
		Mode:      e.pen.state.Mode,
	}
	for i, a := range p.Anchors {
		h.Anchors[i] = a.Pos
	}
	if sel := e.pen.selected; sel >= 0 && sel < len(p.Anchors) {
		h.Selected = sel
		a := p.Anchors[sel]
		if !a.Left.IsZero() {
			h.Handles = append(h.Handles, HandleHelper{Side: HandleLeft, Anchor: a.Pos, Tip: a.LeftHandle()})
		}
		if !a.Right.IsZero() {
			h.Handles = append(h.Handles, HandleHelper{Side: HandleRight, Anchor: a.Pos, Tip: a.RightHandle()})
		}
	}
	return h, true
}
