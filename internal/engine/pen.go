package engine

import (
	"log/slog"

	"github.com/inamate/vecedit/backend-go/internal/document"
	"github.com/inamate/vecedit/backend-go/internal/geom"
	"github.com/inamate/vecedit/backend-go/internal/typeid"
)

// PenMode is the pen tool's interaction mode.
type PenMode int

const (
	PenIdle PenMode = iota
	PenCreating
	PenDraggingAnchor
	PenDraggingHandleLeft
	PenDraggingHandleRight
)

func (m PenMode) String() string {
	switch m {
	case PenIdle:
		return "idle"
	case PenCreating:
		return "creating"
	case PenDraggingAnchor:
		return "dragging-anchor"
	case PenDraggingHandleLeft:
		return "dragging-handle-left"
	case PenDraggingHandleRight:
		return "dragging-handle-right"
	default:
		return "unknown"
	}
}

// PenInteraction is the single interaction value of the pen tool. Start is
// the pointer at pointer-down and Initial the dragged value at that moment,
// both in the edited path's space; moves apply the delta from Start.
type PenInteraction struct {
	Mode    PenMode
	Start   geom.Point
	Initial geom.Point
}

// PathEditor is the pen tool's state: the edited path, the selected anchor
// within it and the current interaction. The edited path is referenced by
// id and resolved through the scene graph on every use.
type PathEditor struct {
	pathID   string
	selected int
	state    PenInteraction
}

func newPathEditor() PathEditor {
	return PathEditor{selected: -1}
}

// editing reports whether a path is in edit mode.
func (pe *PathEditor) editing() bool {
	return pe.pathID != ""
}

// hasAnchorSelection reports whether an anchor is selected.
func (pe *PathEditor) hasAnchorSelection() bool {
	return pe.pathID != "" && pe.selected >= 0
}

// penDown runs the pointer-down transitions of the pen tool.
func (e *Engine) penDown(pt geom.Point) {
	h := e.hitPen(pt)

	switch h.kind {
	case hitHandleLeft, hitHandleRight:
		a := h.path.Anchors[h.anchor]
		e.pen.state = PenInteraction{Mode: PenDraggingHandleLeft, Start: h.local, Initial: a.Left}
		if h.kind == hitHandleRight {
			e.pen.state = PenInteraction{Mode: PenDraggingHandleRight, Start: h.local, Initial: a.Right}
		}

	case hitAnchor:
		if h.path.ID == e.pen.pathID && h.anchor == 0 && !h.path.Closed && h.path.CanClose() {
			h.path.Closed = true
			slog.Debug("pen: path closed", "path", h.path.ID, "anchors", len(h.path.Anchors))
			e.exitEditMode()
			return
		}
		if h.path.ID != e.pen.pathID {
			e.propsDirty = true
		}
		e.pen.pathID = h.path.ID
		e.pen.selected = h.anchor
		e.pen.state = PenInteraction{Mode: PenDraggingAnchor, Start: h.local, Initial: h.path.Anchors[h.anchor].Pos}

	case hitSegment:
		idx, ok := insertAnchor(h.path, h.segment, h.t)
		if !ok {
			slog.Debug("pen: segment split rejected", "path", h.path.ID, "segment", h.segment, "t", h.t)
			return
		}
		e.pen.pathID = h.path.ID
		e.pen.selected = idx
		e.propsDirty = true
		e.pen.state = PenInteraction{Mode: PenDraggingAnchor, Start: h.local, Initial: h.path.Anchors[idx].Pos}

	default:
		e.penEmptySpace(pt)
	}
}

// penEmptySpace extends the open path, or starts a new one in the active
// layer when there is no open path.
func (e *Engine) penEmptySpace(pt geom.Point) {
	if l, p, ok := e.scene.Path(e.pen.pathID); ok && !p.Closed {
		local, ok := pathLocal(l, p, pt)
		if !ok {
			slog.Debug("pen: non-finite local point", "path", p.ID)
			return
		}
		e.pen.selected = p.AppendAnchor(local)
		e.propsDirty = true
		e.pen.state = PenInteraction{Mode: PenCreating, Start: local, Initial: local}
		return
	}

	l, ok := e.scene.Layer(e.activeLayer)
	if !ok {
		slog.Debug("pen: no active layer", "layer", e.activeLayer)
		return
	}
	p := &document.Path{
		ID:        typeid.NewPathID(),
		Style:     e.settings.Style(),
		Transform: geom.IdentityTransform(),
	}
	local, ok := pathLocal(l, p, pt)
	if !ok {
		slog.Debug("pen: non-finite local point", "layer", l.ID)
		return
	}
	p.AppendAnchor(local)
	e.scene.AddPath(l.ID, p)
	e.propsDirty = true

	e.pen.pathID = p.ID
	e.pen.selected = 0
	e.pen.state = PenInteraction{Mode: PenCreating, Start: local, Initial: local}
}

// penMove applies the current drag. Every written value is checked for
// finiteness first; a bad frame is dropped rather than stored.
func (e *Engine) penMove(pt geom.Point) {
	if e.pen.state.Mode == PenIdle {
		return
	}
	l, p, ok := e.scene.Path(e.pen.pathID)
	if !ok || e.pen.selected < 0 || e.pen.selected >= len(p.Anchors) {
		e.pen.state = PenInteraction{}
		return
	}
	local, ok := pathLocal(l, p, pt)
	if !ok {
		return
	}
	a := &p.Anchors[e.pen.selected]
	delta := local.Sub(e.pen.state.Start)
	v := e.pen.state.Initial.Add(delta)
	if !v.IsFinite() || !delta.IsFinite() {
		return
	}
	mirror := !a.Sharp && e.settings.HandleMode != document.HandleIndependent

	e.propsDirty = true
	switch e.pen.state.Mode {
	case PenCreating:
		a.Right = delta
		a.Left = delta.Neg()
	case PenDraggingAnchor:
		a.Pos = v
	case PenDraggingHandleLeft:
		a.Left = v
		if mirror {
			a.Right = v.Neg()
		}
	case PenDraggingHandleRight:
		a.Right = v
		if mirror {
			a.Left = v.Neg()
		}
	}
}

// penRelease ends any pen interaction. Pointer-up and pointer-leave both
// land here.
func (e *Engine) penRelease() {
	e.pen.state = PenInteraction{}
}

// exitEditMode leaves the pen tool with nothing edited or selected.
func (e *Engine) exitEditMode() {
	if e.pen.editing() {
		e.propsDirty = true
	}
	e.pen = newPathEditor()
}

// editPath puts p into pen edit mode without selecting an anchor.
func (e *Engine) editPath(p *document.Path) {
	e.pen = newPathEditor()
	e.pen.pathID = p.ID
	e.propsDirty = true
}

// FinishPath ends editing of the current path without closing it, unless
// the close-path setting asks for closing and the path is long enough.
func (e *Engine) FinishPath() bool {
	_, p, ok := e.scene.Path(e.pen.pathID)
	if !ok {
		return false
	}
	if e.settings.ClosePath && !p.Closed && p.CanClose() {
		p.Closed = true
	}
	e.exitEditMode()
	e.afterMutation()
	return true
}

// DeleteSelectedAnchor removes the selected anchor from the edited path.
// Removing the last anchor destroys the path and leaves edit mode.
func (e *Engine) DeleteSelectedAnchor() bool {
	_, p, ok := e.scene.Path(e.pen.pathID)
	if !ok || e.pen.selected < 0 || e.pen.selected >= len(p.Anchors) {
		return false
	}
	p.Anchors = append(p.Anchors[:e.pen.selected], p.Anchors[e.pen.selected+1:]...)
	e.pen.state = PenInteraction{}
	e.propsDirty = true

	if len(p.Anchors) == 0 {
		e.scene.RemovePath(p.ID)
		e.exitEditMode()
		e.afterMutation()
		return true
	}
	if p.Closed && !p.CanClose() {
		p.Closed = false
	}
	e.pen.selected = min(e.pen.selected, len(p.Anchors)-1)
	e.afterMutation()
	return true
}

// SetAnchorSharp marks the selected anchor as a corner so its handles move
// independently.
func (e *Engine) SetAnchorSharp() bool {
	_, p, ok := e.scene.Path(e.pen.pathID)
	if !ok || e.pen.selected < 0 || e.pen.selected >= len(p.Anchors) {
		return false
	}
	p.Anchors[e.pen.selected].Sharp = true
	e.afterMutation()
	return true
}
