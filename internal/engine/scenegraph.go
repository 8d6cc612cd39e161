package engine

import (
	"image"
	"slices"

	"github.com/inamate/vecedit/backend-go/internal/document"
	"github.com/inamate/vecedit/backend-go/internal/geom"
)

// Layer is a group in the scene graph: metadata mirrored from the layer
// list, the paths it owns in paint order, and an optional raster buffer in
// layer space that receives flood fills and flattened shapes.
type Layer struct {
	ID          string
	Visible     bool
	Opacity     float64
	Order       int
	Transform   geom.Transform
	PassThrough bool

	Paths  []*document.Path
	Raster *image.RGBA
}

// Matrix maps layer space to container space.
func (l *Layer) Matrix() geom.Matrix2D {
	return geom.FromTransform(l.Transform)
}

// EnsureRaster allocates the raster buffer on first use.
func (l *Layer) EnsureRaster(w, h int) *image.RGBA {
	if l.Raster == nil {
		l.Raster = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return l.Raster
}

func (l *Layer) pathIndex(id string) int {
	return slices.IndexFunc(l.Paths, func(p *document.Path) bool { return p.ID == id })
}

// SceneGraph owns every layer and shape of the editor. Layers live in an
// id-indexed arena; order holds the paint order, back to front.
type SceneGraph struct {
	layers map[string]*Layer
	order  []string
}

// NewSceneGraph creates an empty scene graph.
func NewSceneGraph() *SceneGraph {
	return &SceneGraph{layers: make(map[string]*Layer)}
}

// Sync reconciles the graph against the full layer list: unknown layers are
// added, layers missing from the list are removed together with their
// shapes, and metadata and paint order are overwritten from the list. It
// returns the ids of removed layers.
func (sg *SceneGraph) Sync(descs []document.LayerDescriptor) []string {
	seen := make(map[string]bool, len(descs))
	for _, d := range descs {
		if d.ID == "" || seen[d.ID] {
			continue
		}
		seen[d.ID] = true

		l, ok := sg.layers[d.ID]
		if !ok {
			l = &Layer{ID: d.ID}
			sg.layers[d.ID] = l
		}
		l.Visible = d.Visible
		l.Opacity = d.Opacity
		l.Order = d.Order
		l.Transform = d.Transform
		l.PassThrough = d.PassThrough
	}

	var removed []string
	for id := range sg.layers {
		if !seen[id] {
			delete(sg.layers, id)
			removed = append(removed, id)
		}
	}

	sg.order = sg.order[:0]
	for _, d := range descs {
		if _, ok := sg.layers[d.ID]; ok && !slices.Contains(sg.order, d.ID) {
			sg.order = append(sg.order, d.ID)
		}
	}
	slices.SortStableFunc(sg.order, func(a, b string) int {
		return sg.layers[a].Order - sg.layers[b].Order
	})

	slices.Sort(removed)
	return removed
}

// Layer returns the layer with the given id.
func (sg *SceneGraph) Layer(id string) (*Layer, bool) {
	l, ok := sg.layers[id]
	return l, ok
}

// Layers returns the layers in paint order, back to front.
func (sg *SceneGraph) Layers() []*Layer {
	out := make([]*Layer, 0, len(sg.order))
	for _, id := range sg.order {
		out = append(out, sg.layers[id])
	}
	return out
}

// Path looks a shape up by id across all layers.
func (sg *SceneGraph) Path(id string) (*Layer, *document.Path, bool) {
	if id == "" {
		return nil, nil, false
	}
	for _, lid := range sg.order {
		l := sg.layers[lid]
		if i := l.pathIndex(id); i >= 0 {
			return l, l.Paths[i], true
		}
	}
	return nil, nil, false
}

// AddPath appends p on top of the layer's shapes.
func (sg *SceneGraph) AddPath(layerID string, p *document.Path) bool {
	l, ok := sg.layers[layerID]
	if !ok {
		return false
	}
	l.Paths = append(l.Paths, p)
	return true
}

// RemovePath destroys the shape with the given id.
func (sg *SceneGraph) RemovePath(id string) bool {
	l, _, ok := sg.Path(id)
	if !ok {
		return false
	}
	i := l.pathIndex(id)
	l.Paths = slices.Delete(l.Paths, i, i+1)
	return true
}

// DuplicateContent copies the shapes and raster of src on top of dst. Each
// copied shape gets an id from newID.
func (sg *SceneGraph) DuplicateContent(srcID, dstID string, newID func() string) bool {
	src, ok := sg.layers[srcID]
	if !ok {
		return false
	}
	dst, ok := sg.layers[dstID]
	if !ok || src == dst {
		return false
	}
	for _, p := range src.Paths {
		dst.Paths = append(dst.Paths, p.Clone(newID()))
	}
	if src.Raster != nil {
		r := image.NewRGBA(src.Raster.Rect)
		copy(r.Pix, src.Raster.Pix)
		dst.Raster = r
	}
	return true
}

// pathLocal maps a container point into the space of path p in layer l.
func pathLocal(l *Layer, p *document.Path, pt geom.Point) (geom.Point, bool) {
	lp, ok := geom.ToLocal(pt, l.Transform)
	if !ok {
		return geom.Point{}, false
	}
	return geom.ToLocal(lp, p.Transform)
}

// Load replaces the whole scene with contents. Paths are copied.
func (sg *SceneGraph) Load(contents []document.LayerContent) {
	descs := make([]document.LayerDescriptor, len(contents))
	for i, c := range contents {
		descs[i] = c.Layer
	}
	sg.layers = make(map[string]*Layer, len(contents))
	sg.Sync(descs)
	for _, c := range contents {
		l, ok := sg.layers[c.Layer.ID]
		if !ok {
			continue
		}
		for i := range c.Paths {
			l.Paths = append(l.Paths, c.Paths[i].Clone(c.Paths[i].ID))
		}
	}
}
