package engine

import (
	"github.com/inamate/vecedit/backend-go/internal/geom"
)

// TransformController is the select tool's state: the selected shape and,
// while the pointer is held, the offset between the pointer and the shape's
// translation recorded at pointer-down.
type TransformController struct {
	pathID   string
	dragging bool
	offset   geom.Point
}

// selectDown picks the topmost shape under pt and starts holding it.
func (e *Engine) selectDown(pt geom.Point) {
	hit, ok := HitShape(e.scene, pt)
	if !ok {
		e.selectShape("")
		return
	}
	e.selectShape(hit.Path.ID)
	e.sel.dragging = true
	e.sel.offset = hit.Point.Sub(hit.Path.Transform.Translation())
}

// selectMove sets the held shape's translation to pointer minus offset.
func (e *Engine) selectMove(pt geom.Point) {
	if !e.sel.dragging {
		return
	}
	l, p, ok := e.scene.Path(e.sel.pathID)
	if !ok {
		e.sel.dragging = false
		return
	}
	lp, ok := geom.ToLocal(pt, l.Transform)
	if !ok {
		return
	}
	next := lp.Sub(e.sel.offset)
	if !next.IsFinite() {
		return
	}
	p.Transform = p.Transform.WithTranslation(next)
	e.propsDirty = true
}

// selectRelease commits the drag; there is nothing to roll back.
func (e *Engine) selectRelease() {
	e.sel.dragging = false
}

// selectShape changes the selected shape and reports the new properties.
func (e *Engine) selectShape(id string) {
	changed := e.sel.pathID != id
	e.sel = TransformController{pathID: id}
	if changed {
		e.notifySelectionProperties()
	}
}

// SelectionOutline is the overlay drawn around the selected shape: its
// bounding box padded on every side, with a round handle on each corner.
// Rect and Corners are in the layer's space; Transform maps them to the
// container.
type SelectionOutline struct {
	PathID       string
	Transform    geom.Matrix2D
	Rect         geom.Rect
	Corners      [4]geom.Point
	HandleRadius float64
}

// SelectionOutline computes the outline of the selected shape from current
// state, so it always matches the latest translation.
func (e *Engine) SelectionOutline() (SelectionOutline, bool) {
	l, p, ok := e.scene.Path(e.sel.pathID)
	if !ok {
		return SelectionOutline{}, false
	}
	b, ok := p.Bounds()
	if !ok {
		return SelectionOutline{}, false
	}
	r := b.Inflate(e.opts.SelectionPadding)
	return SelectionOutline{
		PathID:       p.ID,
		Transform:    l.Matrix(),
		Rect:         r,
		Corners:      r.Corners(),
		HandleRadius: e.opts.HandleRadius,
	}, true
}
