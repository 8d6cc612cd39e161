package engine

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/inamate/vecedit/backend-go/internal/document"
	"github.com/inamate/vecedit/backend-go/internal/geom"
)

const testLayer = "layer_a"

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

var approx = cmpopts.EquateApprox(0, 1e-9)

// clock hands out pointer timestamps a second apart so consecutive downs
// never form a double-click unless a test asks for one.
type clock struct{ now time.Time }

func newClock() *clock {
	return &clock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) next() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

// soon returns a time inside the double-click window of the last event.
func (c *clock) soon() time.Time {
	c.now = c.now.Add(100 * time.Millisecond)
	return c.now
}

func layerDesc(id string, tf geom.Transform) document.LayerDescriptor {
	return document.LayerDescriptor{ID: id, Visible: true, Opacity: 1, Transform: tf}
}

// newTestEngine returns an engine with one identity layer, active.
func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e := NewEngine(opts)
	e.SyncLayers([]document.LayerDescriptor{layerDesc(testLayer, geom.IdentityTransform())})
	e.SetActiveLayer(testLayer)
	return e
}

func click(e *Engine, c *clock, x, y float64) {
	now := c.next()
	e.PointerDown(x, y, now)
	e.PointerUp(x, y, now)
}

func drag(e *Engine, c *clock, from, to geom.Point) {
	now := c.next()
	e.PointerDown(from.X, from.Y, now)
	e.PointerMove(to.X, to.Y, now)
	e.PointerUp(to.X, to.Y, now)
}

// addPath puts a path with the given anchors into the test layer.
func addPath(t *testing.T, e *Engine, id string, closed bool, anchors ...document.Anchor) *document.Path {
	t.Helper()
	for i := range anchors {
		anchors[i].Index = i
	}
	p := &document.Path{
		ID:        id,
		Anchors:   anchors,
		Closed:    closed,
		Style:     document.Style{Stroke: "#000000", StrokeWidth: 1},
		Transform: geom.IdentityTransform(),
		NextIndex: len(anchors),
	}
	if !e.Scene().AddPath(testLayer, p) {
		t.Fatalf("AddPath(%s) failed", id)
	}
	return p
}

func at(x, y float64) document.Anchor {
	return document.Anchor{Pos: geom.Pt(x, y)}
}

func mustPath(t *testing.T, e *Engine, id string) *document.Path {
	t.Helper()
	_, p, ok := e.Scene().Path(id)
	if !ok {
		t.Fatalf("path %q not found", id)
	}
	return p
}

func positions(p *document.Path) []geom.Point {
	out := make([]geom.Point, len(p.Anchors))
	for i, a := range p.Anchors {
		out[i] = a.Pos
	}
	return out
}
