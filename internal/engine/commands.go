package engine

import (
	"encoding/json"

	"github.com/inamate/vecedit/backend-go/internal/document"
	"github.com/inamate/vecedit/backend-go/internal/geom"
)

// PathCommand is one Canvas2D path instruction: the verb followed by its
// coordinates, e.g. ["M", x, y] or ["C", x1, y1, x2, y2, x, y].
type PathCommand []any

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string        `json:"op"`                    // Operation: "path", "raster", "outline", "handle", "anchor", "line"
	ObjectID    string        `json:"objectId,omitempty"`    // Path or layer id for hit correlation
	Transform   []float64     `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	Path        []PathCommand `json:"path,omitempty"`        // Path data for "path", "outline" and "line" ops
	Fill        string        `json:"fill,omitempty"`        // Fill color
	Stroke      string        `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // Stroke width
	LineCap     string        `json:"lineCap,omitempty"`
	LineJoin    string        `json:"lineJoin,omitempty"`
	Opacity     float64       `json:"opacity,omitempty"` // Global alpha
	X           float64       `json:"x,omitempty"`       // Center for "handle" and "anchor" ops
	Y           float64       `json:"y,omitempty"`
	Radius      float64       `json:"radius,omitempty"`
	Selected    bool          `json:"selected,omitempty"`
	Width       int           `json:"width,omitempty"` // Raster size for "raster" ops
	Height      int           `json:"height,omitempty"`
}

// Overlay colors.
const (
	overlayStroke = "#0d99ff"
	overlayFill   = "#ffffff"
)

// pathCommands converts p into Canvas2D path instructions in path space.
func pathCommands(p *document.Path) []PathCommand {
	if len(p.Anchors) == 0 {
		return nil
	}
	first := p.Anchors[0].Pos
	cmds := []PathCommand{{"M", first.X, first.Y}}
	for i := range p.SegmentCount() {
		c := p.Segment(i)
		cmds = append(cmds, PathCommand{"C", c.P1.X, c.P1.Y, c.P2.X, c.P2.Y, c.P3.X, c.P3.Y})
	}
	if p.Closed {
		cmds = append(cmds, PathCommand{"Z"})
	}
	return cmds
}

func rectCommands(r geom.Rect) []PathCommand {
	return []PathCommand{
		{"M", r.X, r.Y},
		{"L", r.X + r.Width, r.Y},
		{"L", r.X + r.Width, r.Y + r.Height},
		{"L", r.X, r.Y + r.Height},
		{"Z"},
	}
}

// CompileDrawCommands generates a draw command buffer from a scene graph.
// Commands are in painter's order (back to front): every visible layer's
// raster, then its paths. Opacity is the layer's.
func CompileDrawCommands(sg *SceneGraph) []DrawCommand {
	if sg == nil {
		return nil
	}

	var commands []DrawCommand
	for _, l := range sg.Layers() {
		if !l.Visible {
			continue
		}
		lm := l.Matrix()
		if l.Raster != nil {
			b := l.Raster.Bounds()
			commands = append(commands, DrawCommand{
				Op:        "raster",
				ObjectID:  l.ID,
				Transform: lm.ToSlice(),
				Opacity:   l.Opacity,
				Width:     b.Dx(),
				Height:    b.Dy(),
			})
		}
		for _, p := range l.Paths {
			path := pathCommands(p)
			if len(path) == 0 {
				continue
			}
			commands = append(commands, DrawCommand{
				Op:          "path",
				ObjectID:    p.ID,
				Transform:   lm.Multiply(geom.FromTransform(p.Transform)).ToSlice(),
				Path:        path,
				Fill:        p.Style.Fill,
				Stroke:      p.Style.Stroke,
				StrokeWidth: p.Style.StrokeWidth,
				LineCap:     string(p.Style.Cap),
				LineJoin:    string(p.Style.Join),
				Opacity:     l.Opacity,
			})
		}
	}
	return commands
}

// compileOutline emits the selection rectangle and its corner handles.
func compileOutline(o SelectionOutline, commands *[]DrawCommand) {
	tf := o.Transform.ToSlice()
	*commands = append(*commands, DrawCommand{
		Op:          "outline",
		ObjectID:    o.PathID,
		Transform:   tf,
		Path:        rectCommands(o.Rect),
		Stroke:      overlayStroke,
		StrokeWidth: 1,
	})
	for _, c := range o.Corners {
		*commands = append(*commands, DrawCommand{
			Op:        "handle",
			ObjectID:  o.PathID,
			Transform: tf,
			X:         c.X,
			Y:         c.Y,
			Radius:    o.HandleRadius,
			Fill:      overlayFill,
			Stroke:    overlayStroke,
		})
	}
}

// compilePenHelpers emits handle lines and tips of the selected anchor, then
// every anchor of the edited path.
func compilePenHelpers(h PenHelpers, radius float64, commands *[]DrawCommand) {
	tf := h.Transform.ToSlice()
	for _, hh := range h.Handles {
		*commands = append(*commands,
			DrawCommand{
				Op:          "line",
				ObjectID:    h.PathID,
				Transform:   tf,
				Path:        []PathCommand{{"M", hh.Anchor.X, hh.Anchor.Y}, {"L", hh.Tip.X, hh.Tip.Y}},
				Stroke:      overlayStroke,
				StrokeWidth: 1,
			},
			DrawCommand{
				Op:        "handle",
				ObjectID:  h.PathID,
				Transform: tf,
				X:         hh.Tip.X,
				Y:         hh.Tip.Y,
				Radius:    radius,
				Fill:      overlayFill,
				Stroke:    overlayStroke,
			})
	}
	for i, a := range h.Anchors {
		*commands = append(*commands, DrawCommand{
			Op:        "anchor",
			ObjectID:  h.PathID,
			Transform: tf,
			X:         a.X,
			Y:         a.Y,
			Radius:    radius,
			Selected:  i == h.Selected,
			Fill:      overlayFill,
			Stroke:    overlayStroke,
		})
	}
}

// Render compiles the scene followed by the overlays of the active tool.
func (e *Engine) Render() []DrawCommand {
	commands := CompileDrawCommands(e.scene)
	if o, ok := e.SelectionOutline(); ok {
		compileOutline(o, &commands)
	}
	if h, ok := e.PenHelpers(); ok {
		compilePenHelpers(h, e.opts.HandleRadius, &commands)
	}
	return commands
}

// RenderJSON is Render serialized with DrawCommandsToJSON.
func (e *Engine) RenderJSON() (string, error) {
	return DrawCommandsToJSON(e.Render())
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
