package document

import "github.com/inamate/vecedit/backend-go/internal/geom"

// Tool is the active tool chosen by the surrounding application.
type Tool string

const (
	ToolSelect Tool = "select"
	ToolBrush  Tool = "brush"
	ToolEraser Tool = "eraser"
	ToolFill   Tool = "fill"
	ToolPen    Tool = "pen"
)

// Valid reports whether t is one of the known tools.
func (t Tool) Valid() bool {
	switch t {
	case ToolSelect, ToolBrush, ToolEraser, ToolFill, ToolPen:
		return true
	}
	return false
}

type LineCap string

const (
	CapButt   LineCap = "butt"
	CapRound  LineCap = "round"
	CapSquare LineCap = "square"
)

type LineJoin string

const (
	JoinMiter LineJoin = "miter"
	JoinRound LineJoin = "round"
	JoinBevel LineJoin = "bevel"
)

// HandleMode controls whether dragging one control handle mirrors the other.
type HandleMode string

const (
	HandleMirror      HandleMode = "mirror"
	HandleIndependent HandleMode = "independent"
)

// LayerDescriptor is the layer metadata pushed in by layer management.
// Order is the paint order, back to front.
type LayerDescriptor struct {
	ID          string         `json:"id"`
	Visible     bool           `json:"visible"`
	Opacity     float64        `json:"opacity"`
	Order       int            `json:"order"`
	Transform   geom.Transform `json:"transform"`
	PassThrough bool           `json:"passThrough,omitempty"`
}

// ToolSettings is the tool-settings record of the property panel.
type ToolSettings struct {
	StrokeColor   string     `json:"strokeColor"`
	StrokeEnabled bool       `json:"strokeEnabled"`
	FillColor     string     `json:"fillColor"`
	FillEnabled   bool       `json:"fillEnabled"`
	Width         float64    `json:"width"`
	Cap           LineCap    `json:"cap"`
	Join          LineJoin   `json:"join"`
	HandleMode    HandleMode `json:"handleMode"`
	ClosePath     bool       `json:"closePath"`
}

// DefaultToolSettings returns a black 2px stroke with no fill.
func DefaultToolSettings() ToolSettings {
	return ToolSettings{
		StrokeColor:   "#000000",
		StrokeEnabled: true,
		FillColor:     "#ffffff",
		Width:         2,
		Cap:           CapRound,
		Join:          JoinRound,
		HandleMode:    HandleMirror,
	}
}

// Style derives the path style for these settings. Disabled paints become
// empty colors.
func (s ToolSettings) Style() Style {
	st := Style{StrokeWidth: s.Width, Cap: s.Cap, Join: s.Join}
	if s.StrokeEnabled {
		st.Stroke = s.StrokeColor
	}
	if s.FillEnabled {
		st.Fill = s.FillColor
	}
	return st
}

type Style struct {
	Fill        string   `json:"fill"`
	Stroke      string   `json:"stroke"`
	StrokeWidth float64  `json:"strokeWidth"`
	Cap         LineCap  `json:"cap"`
	Join        LineJoin `json:"join"`
}

// Anchor is a vertex of a path. Left and Right are control offsets relative
// to Pos. Index is the creation order within the owning path.
type Anchor struct {
	Pos   geom.Point `json:"pos"`
	Left  geom.Point `json:"left"`
	Right geom.Point `json:"right"`
	Index int        `json:"index"`
	Sharp bool       `json:"sharp,omitempty"`
}

// LeftHandle returns the absolute position of the left control point.
func (a Anchor) LeftHandle() geom.Point { return a.Pos.Add(a.Left) }

// RightHandle returns the absolute position of the right control point.
func (a Anchor) RightHandle() geom.Point { return a.Pos.Add(a.Right) }

// MinClosedAnchors is the smallest anchor count a closed path may have.
const MinClosedAnchors = 3

type Path struct {
	ID        string         `json:"id"`
	Anchors   []Anchor       `json:"anchors"`
	Closed    bool           `json:"closed"`
	Style     Style          `json:"style"`
	Transform geom.Transform `json:"transform"`
	NextIndex int            `json:"nextIndex"`
}

// CanClose reports whether the path has enough anchors to be closed.
func (p *Path) CanClose() bool {
	return len(p.Anchors) >= MinClosedAnchors
}

// SegmentCount returns the number of cubic segments, including the closing
// segment of a closed path.
func (p *Path) SegmentCount() int {
	n := len(p.Anchors)
	if n < 2 {
		return 0
	}
	if p.Closed {
		return n
	}
	return n - 1
}

// Segment returns the cubic between anchor i and its successor.
func (p *Path) Segment(i int) geom.Cubic {
	a := p.Anchors[i]
	b := p.Anchors[(i+1)%len(p.Anchors)]
	return geom.Cubic{P0: a.Pos, P1: a.RightHandle(), P2: b.LeftHandle(), P3: b.Pos}
}

// LocalBounds is the box over anchors and control points in path space.
func (p *Path) LocalBounds() (geom.Rect, bool) {
	pts := make([]geom.Point, 0, len(p.Anchors)*3)
	for _, a := range p.Anchors {
		pts = append(pts, a.Pos, a.LeftHandle(), a.RightHandle())
	}
	return geom.BoundsOf(pts...)
}

// Bounds is the axis-aligned box of the path in its layer's space.
func (p *Path) Bounds() (geom.Rect, bool) {
	r, ok := p.LocalBounds()
	if !ok {
		return geom.Rect{}, false
	}
	return geom.FromTransform(p.Transform).TransformRect(r), true
}

// AppendAnchor adds an anchor at pos with zero controls and returns its
// position in the anchor list.
func (p *Path) AppendAnchor(pos geom.Point) int {
	p.Anchors = append(p.Anchors, Anchor{Pos: pos, Index: p.NextIndex})
	p.NextIndex++
	return len(p.Anchors) - 1
}

// Clone returns a deep copy of p carrying id.
func (p *Path) Clone(id string) *Path {
	c := *p
	c.ID = id
	c.Anchors = append([]Anchor(nil), p.Anchors...)
	return &c
}

// LayerContent bundles a layer descriptor with its shapes, for export
// requests and sample scenes.
type LayerContent struct {
	Layer LayerDescriptor `json:"layer"`
	Paths []Path          `json:"paths"`
}
