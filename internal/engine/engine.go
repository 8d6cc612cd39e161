package engine

import (
	"log/slog"
	"math"
	"time"

	"github.com/inamate/vecedit/backend-go/internal/document"
	"github.com/inamate/vecedit/backend-go/internal/geom"
	"github.com/inamate/vecedit/backend-go/internal/raster"
	"github.com/inamate/vecedit/backend-go/internal/typeid"
)

// Options are the interaction tunables. Zero fields take the defaults.
type Options struct {
	CanvasWidth       int
	CanvasHeight      int
	HitRadius         float64
	DoubleClickWindow time.Duration
	SegmentSamples    int
	SelectionPadding  float64
	HandleRadius      float64
}

// DefaultOptions returns the stock tunables: 12 unit hit radius, 300ms
// double-click, 20 samples per segment, 5 unit outline padding and handles.
func DefaultOptions() Options {
	return Options{
		CanvasWidth:       1280,
		CanvasHeight:      720,
		HitRadius:         12,
		DoubleClickWindow: 300 * time.Millisecond,
		SegmentSamples:    20,
		SelectionPadding:  5,
		HandleRadius:      5,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.CanvasWidth <= 0 {
		o.CanvasWidth = d.CanvasWidth
	}
	if o.CanvasHeight <= 0 {
		o.CanvasHeight = d.CanvasHeight
	}
	if o.HitRadius <= 0 {
		o.HitRadius = d.HitRadius
	}
	if o.DoubleClickWindow <= 0 {
		o.DoubleClickWindow = d.DoubleClickWindow
	}
	if o.SegmentSamples < 2 {
		o.SegmentSamples = d.SegmentSamples
	}
	if o.SelectionPadding <= 0 {
		o.SelectionPadding = d.SelectionPadding
	}
	if o.HandleRadius <= 0 {
		o.HandleRadius = d.HandleRadius
	}
	return o
}

type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerLeave
)

// PointerEvent is a pointer sample in container space. A zero Time means
// the source has no timestamp; such downs never form a double-click.
type PointerEvent struct {
	Kind PointerKind
	X    float64
	Y    float64
	Time time.Time
}

// SelectionProperties describes the selected shape for the property panel.
// PathID is empty when nothing is selected.
type SelectionProperties struct {
	PathID      string         `json:"pathId"`
	LayerID     string         `json:"layerId,omitempty"`
	Style       document.Style `json:"style"`
	Closed      bool           `json:"closed"`
	AnchorCount int            `json:"anchorCount"`
	Bounds      geom.Rect      `json:"bounds"`
}

// Engine is the interaction engine. It owns the scene graph and the editor
// state and is driven by pointer events and commands from a single
// goroutine; it is not safe for concurrent use.
type Engine struct {
	opts  Options
	scene *SceneGraph

	activeLayer string
	tool        document.Tool
	settings    document.ToolSettings

	pen PathEditor
	sel TransformController

	// lastDown is the time of the previous pointer-down, for double-click
	// detection. It is reset once a double-click has been consumed.
	lastDown time.Time

	anchorSelected bool

	// propsDirty is set when the target path changed shape or identity; the
	// selection-properties callback fires once the gesture is over.
	propsDirty bool

	// Callbacks to the surrounding application.
	OnToolChange                func(document.Tool)
	OnAnchorSelectionChange     func(bool)
	OnSelectionPropertiesChange func(SelectionProperties)
}

// NewEngine creates an engine with an empty scene and the select tool.
func NewEngine(opts Options) *Engine {
	return &Engine{
		opts:     opts.withDefaults(),
		scene:    NewSceneGraph(),
		tool:     document.ToolSelect,
		settings: document.DefaultToolSettings(),
		pen:      newPathEditor(),
	}
}

// --- Inputs from the surrounding application ---

// SyncLayers reconciles the scene graph with the full layer list. Edit or
// selection state pointing into a removed layer is cleared.
func (e *Engine) SyncLayers(descs []document.LayerDescriptor) {
	removed := e.scene.Sync(descs)
	if len(removed) > 0 {
		slog.Debug("layers removed", "ids", removed)
	}
	e.reconcile()
}

// LoadScene replaces the scene with contents and makes the topmost layer
// active.
func (e *Engine) LoadScene(contents []document.LayerContent) {
	e.endInteraction()
	e.scene.Load(contents)
	if layers := e.scene.Layers(); len(layers) > 0 {
		e.activeLayer = layers[len(layers)-1].ID
	}
	e.reconcile()
}

// SetActiveLayer sets the layer that receives new paths and fills.
func (e *Engine) SetActiveLayer(id string) {
	e.activeLayer = id
}

// SetTool switches the active tool. Entering or leaving the pen tool clears
// the other tool's selection.
func (e *Engine) SetTool(t document.Tool) {
	if !t.Valid() || t == e.tool {
		return
	}
	e.switchTool(t)
}

func (e *Engine) switchTool(t document.Tool) {
	e.endInteraction()
	if e.tool == document.ToolPen {
		e.exitEditMode()
	}
	if t == document.ToolPen {
		e.selectShape("")
	}
	e.tool = t
	e.afterMutation()
}

// SetToolSettings stores the tool settings and restyles the selected shape
// or the edited path.
func (e *Engine) SetToolSettings(s document.ToolSettings) {
	e.settings = s
	if _, p, ok := e.scene.Path(e.targetPathID()); ok {
		p.Style = s.Style()
		e.notifySelectionProperties()
	}
}

// HandlePointer routes one pointer event to the active tool.
func (e *Engine) HandlePointer(ev PointerEvent) {
	pt := geom.Pt(ev.X, ev.Y)
	if !pt.IsFinite() {
		slog.Debug("pointer: non-finite input", "x", ev.X, "y", ev.Y)
		return
	}

	switch ev.Kind {
	case PointerDown:
		e.endInteraction()
		double := e.isDoubleClick(ev.Time)
		e.lastDown = ev.Time
		if double {
			e.lastDown = time.Time{}
			if e.doubleClick(pt) {
				e.afterMutation()
				return
			}
		}
		switch e.tool {
		case document.ToolPen:
			e.penDown(pt)
		case document.ToolSelect:
			e.selectDown(pt)
		case document.ToolFill:
			e.fillAt(pt)
		}
	case PointerMove:
		switch e.tool {
		case document.ToolPen:
			e.penMove(pt)
		case document.ToolSelect:
			e.selectMove(pt)
		}
	case PointerUp, PointerLeave:
		e.endInteraction()
	}
	e.afterMutation()
}

// PointerDown, PointerMove, PointerUp and PointerLeave are shorthands for
// HandlePointer.
func (e *Engine) PointerDown(x, y float64, t time.Time) {
	e.HandlePointer(PointerEvent{Kind: PointerDown, X: x, Y: y, Time: t})
}

func (e *Engine) PointerMove(x, y float64, t time.Time) {
	e.HandlePointer(PointerEvent{Kind: PointerMove, X: x, Y: y, Time: t})
}

func (e *Engine) PointerUp(x, y float64, t time.Time) {
	e.HandlePointer(PointerEvent{Kind: PointerUp, X: x, Y: y, Time: t})
}

func (e *Engine) PointerLeave(t time.Time) {
	e.HandlePointer(PointerEvent{Kind: PointerLeave, Time: t})
}

// isDoubleClick reports whether a down at t follows the previous down
// within the double-click window. A zero time carries no timing and never
// pairs; neither does a time that is not after the previous down.
func (e *Engine) isDoubleClick(t time.Time) bool {
	if t.IsZero() || e.lastDown.IsZero() || !t.After(e.lastDown) {
		return false
	}
	return t.Sub(e.lastDown) <= e.opts.DoubleClickWindow
}

// doubleClick handles the second pointer-down of a double-click. It returns
// false when the gesture means nothing for the active tool, in which case
// the down is processed normally.
func (e *Engine) doubleClick(pt geom.Point) bool {
	switch e.tool {
	case document.ToolPen:
		if !e.pen.editing() {
			return false
		}
		e.FinishPath()
		return true
	case document.ToolSelect:
		hit, ok := HitShape(e.scene, pt)
		if !ok {
			return false
		}
		e.switchTool(document.ToolPen)
		e.editPath(hit.Path)
		if e.OnToolChange != nil {
			e.OnToolChange(document.ToolPen)
		}
		return true
	}
	return false
}

// endInteraction terminates any drag of either tool.
func (e *Engine) endInteraction() {
	e.penRelease()
	e.selectRelease()
}

// fillAt flood-fills the active layer's raster at the pointer's pixel.
func (e *Engine) fillAt(pt geom.Point) {
	l, ok := e.scene.Layer(e.activeLayer)
	if !ok {
		return
	}
	lp, ok := geom.ToLocal(pt, l.Transform)
	if !ok {
		return
	}
	x, y := int(math.Floor(lp.X)), int(math.Floor(lp.Y))
	buf := l.EnsureRaster(e.opts.CanvasWidth, e.opts.CanvasHeight)
	raster.FloodFill(buf, x, y, raster.FillColor(e.settings.FillColor))
}

// reconcile drops edit and selection state whose path no longer exists.
func (e *Engine) reconcile() {
	if _, p, ok := e.scene.Path(e.pen.pathID); e.pen.editing() && !ok {
		e.exitEditMode()
	} else if ok && e.pen.selected >= len(p.Anchors) {
		e.pen.selected = len(p.Anchors) - 1
	}
	if _, _, ok := e.scene.Path(e.sel.pathID); e.sel.pathID != "" && !ok {
		e.selectShape("")
	}
	e.afterMutation()
}

// afterMutation reports anchor selection changes, and property changes of
// the target path once no drag is in progress.
func (e *Engine) afterMutation() {
	has := e.pen.hasAnchorSelection()
	if has != e.anchorSelected {
		e.anchorSelected = has
		if e.OnAnchorSelectionChange != nil {
			e.OnAnchorSelectionChange(has)
		}
	}
	if e.propsDirty && e.pen.state.Mode == PenIdle && !e.sel.dragging {
		e.propsDirty = false
		e.notifySelectionProperties()
	}
}

func (e *Engine) notifySelectionProperties() {
	if e.OnSelectionPropertiesChange == nil {
		return
	}
	e.OnSelectionPropertiesChange(e.SelectionProperties())
}

// targetPathID is the path commands act on: the edited path in the pen
// tool, the selected shape otherwise.
func (e *Engine) targetPathID() string {
	if e.pen.editing() {
		return e.pen.pathID
	}
	return e.sel.pathID
}

// --- Commands ---

// SetPathClosed opens or closes the selected shape or edited path. Closing
// needs at least three anchors.
func (e *Engine) SetPathClosed(closed bool) bool {
	_, p, ok := e.scene.Path(e.targetPathID())
	if !ok || (closed && !p.CanClose()) {
		return false
	}
	p.Closed = closed
	e.notifySelectionProperties()
	return true
}

// FlattenSelectedShape rasterizes the selected shape into its layer's
// raster and removes the vector shape.
func (e *Engine) FlattenSelectedShape() bool {
	l, p, ok := e.scene.Path(e.targetPathID())
	if !ok {
		return false
	}
	buf := l.EnsureRaster(e.opts.CanvasWidth, e.opts.CanvasHeight)
	raster.DrawPath(buf, p, geom.FromTransform(p.Transform), 1)
	e.scene.RemovePath(p.ID)
	e.reconcile()
	return true
}

// DuplicateLayerContent copies every shape and the raster of one layer
// into another.
func (e *Engine) DuplicateLayerContent(srcLayerID, dstLayerID string) bool {
	return e.scene.DuplicateContent(srcLayerID, dstLayerID, typeid.NewPathID)
}

// --- Queries ---

// Scene returns the scene graph. Callers must not mutate it.
func (e *Engine) Scene() *SceneGraph { return e.scene }

// Tool returns the active tool.
func (e *Engine) Tool() document.Tool { return e.tool }

// ToolSettings returns the current tool settings.
func (e *Engine) ToolSettings() document.ToolSettings { return e.settings }

// ActiveLayer returns the active layer id.
func (e *Engine) ActiveLayer() string { return e.activeLayer }

// SelectedShape returns the id of the shape selected by the select tool.
func (e *Engine) SelectedShape() string { return e.sel.pathID }

// EditedPath returns the id of the path in pen edit mode.
func (e *Engine) EditedPath() string { return e.pen.pathID }

// SelectedAnchor returns the selected anchor index of the edited path, or -1.
func (e *Engine) SelectedAnchor() int {
	if !e.pen.editing() {
		return -1
	}
	return e.pen.selected
}

// PenInteraction returns the pen tool's current interaction.
func (e *Engine) PenInteraction() PenInteraction { return e.pen.state }

// SelectionProperties describes the selected shape or edited path.
func (e *Engine) SelectionProperties() SelectionProperties {
	l, p, ok := e.scene.Path(e.targetPathID())
	if !ok {
		return SelectionProperties{}
	}
	b, _ := p.Bounds()
	return SelectionProperties{
		PathID:      p.ID,
		LayerID:     l.ID,
		Style:       p.Style,
		Closed:      p.Closed,
		AnchorCount: len(p.Anchors),
		Bounds:      b,
	}
}
