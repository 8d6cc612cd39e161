package document

import (
	"github.com/inamate/vecedit/backend-go/internal/geom"
	"github.com/inamate/vecedit/backend-go/internal/typeid"
)

// NewSampleScene returns two layers: a background layer with a filled
// rounded blob and a foreground layer with an open wave stroke.
func NewSampleScene() []LayerContent {
	blob := Path{
		ID: typeid.NewPathID(),
		Anchors: []Anchor{
			{Pos: geom.Pt(0, -80), Left: geom.Pt(-60, 0), Right: geom.Pt(60, 0), Index: 0},
			{Pos: geom.Pt(90, 0), Left: geom.Pt(0, -50), Right: geom.Pt(0, 50), Index: 1},
			{Pos: geom.Pt(0, 80), Left: geom.Pt(60, 0), Right: geom.Pt(-60, 0), Index: 2},
			{Pos: geom.Pt(-90, 0), Left: geom.Pt(0, 50), Right: geom.Pt(0, -50), Index: 3},
		},
		Closed:    true,
		Style:     Style{Fill: "#4a90d9", Stroke: "#1d3557", StrokeWidth: 3, Cap: CapRound, Join: JoinRound},
		Transform: geom.Transform{X: 400, Y: 300, Scale: 1},
		NextIndex: 4,
	}

	wave := Path{
		ID: typeid.NewPathID(),
		Anchors: []Anchor{
			{Pos: geom.Pt(0, 0), Right: geom.Pt(40, -60), Index: 0},
			{Pos: geom.Pt(160, 0), Left: geom.Pt(-40, -60), Right: geom.Pt(40, 60), Index: 1},
			{Pos: geom.Pt(320, 0), Left: geom.Pt(-40, 60), Index: 2},
		},
		Style:     Style{Stroke: "#e63946", StrokeWidth: 6, Cap: CapRound, Join: JoinRound},
		Transform: geom.Transform{X: 700, Y: 420, Scale: 1},
		NextIndex: 3,
	}

	return []LayerContent{
		{
			Layer: LayerDescriptor{ID: typeid.NewLayerID(), Visible: true, Opacity: 1, Order: 0, Transform: geom.IdentityTransform()},
			Paths: []Path{blob},
		},
		{
			Layer: LayerDescriptor{ID: typeid.NewLayerID(), Visible: true, Opacity: 0.8, Order: 1, Transform: geom.IdentityTransform()},
			Paths: []Path{wave},
		},
	}
}
