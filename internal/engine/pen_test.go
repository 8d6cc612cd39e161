package engine

import (
	"testing"

	"github.com/inamate/vecedit/backend-go/internal/document"
	"github.com/inamate/vecedit/backend-go/internal/geom"
)

func penEngine(t *testing.T, opts Options) (*Engine, *clock) {
	t.Helper()
	e := newTestEngine(t, opts)
	e.SetTool(document.ToolPen)
	return e, newClock()
}

func TestPenHitRadiusSymmetric(t *testing.T) {
	r := DefaultOptions().HitRadius
	tests := []struct {
		name string
		dist float64
		hit  bool
	}{
		{"inside", r - 1, true},
		{"on the radius", r, true},
		{"outside", r + 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, c := penEngine(t, Options{})
			addPath(t, e, "path_target", false, at(100, 100))

			e.PointerDown(100+tt.dist, 100, c.next())
			if got := e.EditedPath() == "path_target"; got != tt.hit {
				t.Errorf("hit = %v, want %v (edited %q)", got, tt.hit, e.EditedPath())
			}
			if tt.hit {
				diff(t, PenDraggingAnchor, e.PenInteraction().Mode)
				diff(t, 0, e.SelectedAnchor())
			} else {
				diff(t, PenCreating, e.PenInteraction().Mode)
			}
		})
	}
}

func TestPenCloseOnFirstAnchor(t *testing.T) {
	e, c := penEngine(t, Options{})
	click(e, c, 0, 0)
	click(e, c, 100, 0)
	click(e, c, 100, 100)
	id := e.EditedPath()

	var selectionEvents []bool
	e.OnAnchorSelectionChange = func(b bool) { selectionEvents = append(selectionEvents, b) }

	e.PointerDown(0, 0, c.next())

	p := mustPath(t, e, id)
	if !p.Closed {
		t.Error("path not closed")
	}
	diff(t, 3, len(p.Anchors))
	diff(t, "", e.EditedPath())
	diff(t, -1, e.SelectedAnchor())
	diff(t, PenIdle, e.PenInteraction().Mode)
	diff(t, []bool{false}, selectionEvents)
}

func TestPenTwoAnchorsDoNotClose(t *testing.T) {
	e, c := penEngine(t, Options{})
	click(e, c, 0, 0)
	click(e, c, 100, 0)
	id := e.EditedPath()

	e.PointerDown(0, 0, c.next())

	p := mustPath(t, e, id)
	if p.Closed {
		t.Error("two-anchor path closed")
	}
	diff(t, 2, len(p.Anchors))
	diff(t, id, e.EditedPath())
	diff(t, 0, e.SelectedAnchor())
	diff(t, PenDraggingAnchor, e.PenInteraction().Mode)
}

// The three clicks sit 10 units apart, so the scenario runs with a radius
// below that spacing; at the default radius the second click would pick up
// the first anchor.
func TestPenEndToEndClose(t *testing.T) {
	e, c := penEngine(t, Options{HitRadius: 8})
	click(e, c, 0, 0)
	click(e, c, 10, 0)
	click(e, c, 10, 10)
	id := e.EditedPath()
	if id == "" {
		t.Fatal("no path in edit mode")
	}

	e.PointerDown(0, 0, c.next())

	p := mustPath(t, e, id)
	diff(t, []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}, positions(p))
	if !p.Closed {
		t.Error("path not closed")
	}
	diff(t, "", e.EditedPath())
	diff(t, -1, e.SelectedAnchor())
}

func TestPenEndToEndCloseDefaultRadius(t *testing.T) {
	e, c := penEngine(t, Options{})
	click(e, c, 0, 0)
	click(e, c, 100, 0)
	click(e, c, 100, 100)
	id := e.EditedPath()
	click(e, c, 0, 0)

	p := mustPath(t, e, id)
	diff(t, 3, len(p.Anchors))
	if !p.Closed {
		t.Error("path not closed")
	}
	diff(t, "", e.EditedPath())

	// the next click on empty space starts a new path
	click(e, c, 300, 300)
	if e.EditedPath() == "" || e.EditedPath() == id {
		t.Errorf("edited path = %q, want a new path", e.EditedPath())
	}
	l, _ := e.Scene().Layer(testLayer)
	diff(t, 2, len(l.Paths))
}

func TestPenCreatingDragIsSymmetric(t *testing.T) {
	e, c := penEngine(t, Options{})
	now := c.next()
	e.PointerDown(50, 50, now)
	diff(t, PenCreating, e.PenInteraction().Mode)
	e.PointerMove(70, 40, now)
	e.PointerMove(80, 30, now)

	a := mustPath(t, e, e.EditedPath()).Anchors[0]
	diff(t, geom.Pt(50, 50), a.Pos)
	diff(t, geom.Pt(30, -20), a.Right)
	diff(t, geom.Pt(-30, 20), a.Left)

	e.PointerLeave(now)
	diff(t, PenIdle, e.PenInteraction().Mode)
}

func TestPenHandleMirroring(t *testing.T) {
	e, c := penEngine(t, Options{})
	drag(e, c, geom.Pt(0, 0), geom.Pt(20, 0))
	id := e.EditedPath()

	// right handle tip is at (20, 0)
	now := c.next()
	e.PointerDown(20, 0, now)
	diff(t, PenDraggingHandleRight, e.PenInteraction().Mode)
	e.PointerMove(30, 15, now)
	e.PointerUp(30, 15, now)

	a := mustPath(t, e, id).Anchors[0]
	diff(t, geom.Pt(30, 15), a.Right)
	diff(t, geom.Pt(-30, -15), a.Left)

	if !e.SetAnchorSharp() {
		t.Fatal("SetAnchorSharp failed")
	}
	drag(e, c, geom.Pt(30, 15), geom.Pt(40, 0))

	a = mustPath(t, e, id).Anchors[0]
	diff(t, geom.Pt(40, 0), a.Right)
	diff(t, geom.Pt(-30, -15), a.Left)
}

func TestPenLeftHandleMirroring(t *testing.T) {
	e, c := penEngine(t, Options{})
	drag(e, c, geom.Pt(0, 0), geom.Pt(20, 0))
	id := e.EditedPath()

	now := c.next()
	e.PointerDown(-20, 0, now)
	diff(t, PenDraggingHandleLeft, e.PenInteraction().Mode)
	e.PointerMove(-20, 30, now)
	e.PointerUp(-20, 30, now)

	a := mustPath(t, e, id).Anchors[0]
	diff(t, geom.Pt(-20, 30), a.Left)
	diff(t, geom.Pt(20, -30), a.Right)
}

func TestPenIndependentHandleMode(t *testing.T) {
	e, c := penEngine(t, Options{})
	s := e.ToolSettings()
	s.HandleMode = document.HandleIndependent
	e.SetToolSettings(s)

	drag(e, c, geom.Pt(0, 0), geom.Pt(20, 0))
	drag(e, c, geom.Pt(20, 0), geom.Pt(20, 20))

	a := mustPath(t, e, e.EditedPath()).Anchors[0]
	diff(t, geom.Pt(20, 20), a.Right)
	diff(t, geom.Pt(-20, 0), a.Left)
}

func TestPenDragAnchorIsDeltaBased(t *testing.T) {
	e, c := penEngine(t, Options{})
	addPath(t, e, "path_a", false, at(100, 100), at(200, 100))

	// grab the anchor off-center; it must not jump to the pointer
	now := c.next()
	e.PointerDown(105, 103, now)
	diff(t, PenDraggingAnchor, e.PenInteraction().Mode)
	e.PointerMove(115, 123, now)
	e.PointerUp(115, 123, now)

	diff(t, []geom.Point{{X: 110, Y: 120}, {X: 200, Y: 100}}, positions(mustPath(t, e, "path_a")))
}

func TestPenHitPriority(t *testing.T) {
	e, c := penEngine(t, Options{})
	// the edited path's anchor and a foreign anchor are both in range
	edited := addPath(t, e, "path_edited", false, at(0, 0), at(100, 0))
	addPath(t, e, "path_other", false, at(8, 0), at(8, 100))
	e.editPath(edited)

	e.PointerDown(5, 0, c.next())
	diff(t, "path_edited", e.EditedPath())
	diff(t, 0, e.SelectedAnchor())
}

func TestPenAdoptsForeignPath(t *testing.T) {
	e, c := penEngine(t, Options{})
	click(e, c, 0, 0)
	click(e, c, 100, 0)
	first := e.EditedPath()
	addPath(t, e, "path_other", false, at(300, 300), at(400, 300))

	e.PointerDown(400, 302, c.next())
	diff(t, "path_other", e.EditedPath())
	diff(t, 1, e.SelectedAnchor())
	if first == e.EditedPath() {
		t.Error("edited path did not change")
	}
}

func TestPenSegmentInsertion(t *testing.T) {
	e, c := penEngine(t, Options{})
	addPath(t, e, "path_line", false, at(0, 0), at(100, 0))

	now := c.next()
	e.PointerDown(50, 4, now)

	p := mustPath(t, e, "path_line")
	diff(t, []geom.Point{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 100, Y: 0}}, positions(p), approx)
	diff(t, 2, p.Anchors[1].Index)
	diff(t, "path_line", e.EditedPath())
	diff(t, 1, e.SelectedAnchor())
	diff(t, PenDraggingAnchor, e.PenInteraction().Mode)

	// the inserted anchor follows the drag
	e.PointerMove(50, 24, now)
	diff(t, geom.Pt(50, 20), mustPath(t, e, "path_line").Anchors[1].Pos, approx)
}

func TestPenAppendsToOpenPath(t *testing.T) {
	e, c := penEngine(t, Options{})
	click(e, c, 0, 0)
	click(e, c, 100, 0)
	id := e.EditedPath()
	p := mustPath(t, e, id)
	diff(t, 2, len(p.Anchors))
	diff(t, []int{0, 1}, []int{p.Anchors[0].Index, p.Anchors[1].Index})
	diff(t, 1, e.SelectedAnchor())

	// style comes from the tool settings
	diff(t, e.ToolSettings().Style(), p.Style)
}

func TestPenLayerTransform(t *testing.T) {
	e := NewEngine(Options{})
	e.SyncLayers([]document.LayerDescriptor{
		layerDesc("layer_t", geom.Transform{X: 100, Y: 0, Rotation: 90, Scale: 2}),
	})
	e.SetActiveLayer("layer_t")
	e.SetTool(document.ToolPen)
	c := newClock()

	click(e, c, 100, 20)
	p := mustPath(t, e, e.EditedPath())
	diff(t, []geom.Point{{X: 10, Y: 0}}, positions(p), approx)
}

func TestPenNonFiniteTransformIsNoop(t *testing.T) {
	e := NewEngine(Options{})
	e.SyncLayers([]document.LayerDescriptor{layerDesc("layer_zero", geom.Transform{})})
	e.SetActiveLayer("layer_zero")
	e.SetTool(document.ToolPen)
	c := newClock()

	click(e, c, 10, 10)
	diff(t, "", e.EditedPath())
	l, _ := e.Scene().Layer("layer_zero")
	diff(t, 0, len(l.Paths))
}

func TestPenNoActiveLayer(t *testing.T) {
	e := NewEngine(Options{})
	e.SetTool(document.ToolPen)
	click(e, newClock(), 10, 10)
	diff(t, "", e.EditedPath())
}

func TestPenDoubleClickFinishesPath(t *testing.T) {
	e, c := penEngine(t, Options{})
	click(e, c, 0, 0)
	click(e, c, 100, 0)
	click(e, c, 100, 100)
	id := e.EditedPath()

	now := c.soon()
	e.PointerDown(300, 300, now)
	e.PointerUp(300, 300, now)

	p := mustPath(t, e, id)
	diff(t, 3, len(p.Anchors))
	if p.Closed {
		t.Error("double-click closed the path")
	}
	diff(t, "", e.EditedPath())
}

func TestPenFinishPathClosePathSetting(t *testing.T) {
	e, c := penEngine(t, Options{})
	s := e.ToolSettings()
	s.ClosePath = true
	e.SetToolSettings(s)

	click(e, c, 0, 0)
	click(e, c, 100, 0)
	id := e.EditedPath()
	if !e.FinishPath() {
		t.Fatal("FinishPath failed")
	}
	if mustPath(t, e, id).Closed {
		t.Error("two-anchor path closed")
	}

	click(e, c, 0, 200)
	click(e, c, 100, 200)
	click(e, c, 100, 300)
	id = e.EditedPath()
	e.FinishPath()
	if !mustPath(t, e, id).Closed {
		t.Error("path not closed by FinishPath")
	}
	if e.FinishPath() {
		t.Error("FinishPath without edited path succeeded")
	}
}

func TestDeleteSelectedAnchor(t *testing.T) {
	e, c := penEngine(t, Options{})
	click(e, c, 0, 0)
	click(e, c, 100, 0)
	click(e, c, 100, 100)
	id := e.EditedPath()

	if !e.DeleteSelectedAnchor() {
		t.Fatal("delete failed")
	}
	diff(t, []geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}, positions(mustPath(t, e, id)))
	diff(t, 1, e.SelectedAnchor())
}

func TestDeleteSelectedAnchorClampsSelection(t *testing.T) {
	e, c := penEngine(t, Options{})
	p := addPath(t, e, "path_a", false, at(0, 0), at(100, 0), at(200, 0))
	e.PointerDown(0, 0, c.next())
	diff(t, 0, e.SelectedAnchor())

	e.DeleteSelectedAnchor()
	diff(t, []geom.Point{{X: 100, Y: 0}, {X: 200, Y: 0}}, positions(p))
	diff(t, 0, e.SelectedAnchor())
}

func TestDeleteReopensClosedPath(t *testing.T) {
	e, c := penEngine(t, Options{})
	p := addPath(t, e, "path_tri", true, at(0, 0), at(100, 0), at(100, 100))
	e.PointerDown(100, 100, c.next())
	diff(t, 2, e.SelectedAnchor())

	e.DeleteSelectedAnchor()
	if p.Closed {
		t.Error("two-anchor path still closed")
	}
	diff(t, 1, e.SelectedAnchor())
}

func TestDeleteLastAnchorDestroysPath(t *testing.T) {
	e, c := penEngine(t, Options{})
	click(e, c, 0, 0)
	id := e.EditedPath()

	var events []bool
	e.OnAnchorSelectionChange = func(b bool) { events = append(events, b) }

	if !e.DeleteSelectedAnchor() {
		t.Fatal("delete failed")
	}
	if _, _, ok := e.Scene().Path(id); ok {
		t.Error("empty path still in scene")
	}
	diff(t, "", e.EditedPath())
	diff(t, PenIdle, e.PenInteraction().Mode)
	diff(t, []bool{false}, events)
	if _, ok := e.PenHelpers(); ok {
		t.Error("pen helpers for destroyed path")
	}
	if e.DeleteSelectedAnchor() {
		t.Error("delete without selection succeeded")
	}
}

func TestPenHelpersDerivedFromState(t *testing.T) {
	e, c := penEngine(t, Options{})
	drag(e, c, geom.Pt(0, 0), geom.Pt(20, 0))
	click(e, c, 100, 0)

	h, ok := e.PenHelpers()
	if !ok {
		t.Fatal("no pen helpers")
	}
	diff(t, []geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}, h.Anchors)
	diff(t, 1, h.Selected)
	diff(t, 0, len(h.Handles))

	// selecting the first anchor exposes its handles
	e.PointerDown(0, 0, c.next())
	h, _ = e.PenHelpers()
	diff(t, []HandleHelper{
		{Side: HandleLeft, Anchor: geom.Pt(0, 0), Tip: geom.Pt(-20, 0)},
		{Side: HandleRight, Anchor: geom.Pt(0, 0), Tip: geom.Pt(20, 0)},
	}, h.Handles)
}
