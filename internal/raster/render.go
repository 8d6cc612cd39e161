package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"

	"github.com/inamate/vecedit/backend-go/internal/document"
	"github.com/inamate/vecedit/backend-go/internal/geom"
)

// flattenSteps is the number of line pieces per cubic segment when a stroke
// is expanded into polygons.
const flattenSteps = 16

// circleSteps is the polygon resolution of round caps and joins.
const circleSteps = 24

// Layer is one composited layer of a snapshot. Transform maps layer space to
// the output image. Raster, if set, is in layer space.
type Layer struct {
	Opacity     float64
	PassThrough bool
	Transform   geom.Matrix2D
	Raster      *image.RGBA
	Paths       []*document.Path
}

// Renderer rasterizes layers into a fixed-size RGBA snapshot.
type Renderer struct {
	Width  int
	Height int
}

// NewBuffer returns a transparent buffer of the renderer's size.
func (r Renderer) NewBuffer() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
}

// Composite draws layers back to front onto a new transparent image. An
// isolated layer is drawn to its own buffer and blended with its opacity;
// a pass-through layer paints straight onto the output.
func (r Renderer) Composite(layers []Layer) *image.RGBA {
	out := r.NewBuffer()
	for _, l := range layers {
		if l.Opacity <= 0 {
			continue
		}
		if l.PassThrough {
			r.drawLayer(out, l, l.Opacity)
			continue
		}
		tmp := r.NewBuffer()
		r.drawLayer(tmp, l, 1)
		mask := image.NewUniform(color.Alpha{A: alpha8(l.Opacity)})
		draw.DrawMask(out, out.Bounds(), tmp, image.Point{}, mask, image.Point{}, draw.Over)
	}
	return out
}

func (r Renderer) drawLayer(dst *image.RGBA, l Layer, opacity float64) {
	if l.Raster != nil {
		drawRaster(dst, l.Raster, l.Transform, opacity)
	}
	for _, p := range l.Paths {
		DrawPath(dst, p, l.Transform.Multiply(geom.FromTransform(p.Transform)), opacity)
	}
}

func drawRaster(dst *image.RGBA, src *image.RGBA, m geom.Matrix2D, opacity float64) {
	var mask image.Image
	if opacity < 1 {
		mask = image.NewUniform(color.Alpha{A: alpha8(opacity)})
	}
	if m.IsIdentity() {
		draw.DrawMask(dst, dst.Bounds(), src, src.Bounds().Min, mask, image.Point{}, draw.Over)
		return
	}
	aff := f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
	draw.BiLinear.Transform(dst, aff, src, src.Bounds(), draw.Over, &draw.Options{SrcMask: mask})
}

// DrawPath fills and strokes p onto dst, m mapping path space to dst pixels.
func DrawPath(dst *image.RGBA, p *document.Path, m geom.Matrix2D, opacity float64) {
	if len(p.Anchors) == 0 {
		return
	}
	size := dst.Bounds().Size()

	if fill := paint(p.Style.Fill, opacity); fill != nil && len(p.Anchors) >= 2 {
		ras := vector.NewRasterizer(size.X, size.Y)
		outline(ras, p, m)
		ras.Draw(dst, dst.Bounds(), fill, image.Point{})
	}

	scale := math.Sqrt(math.Abs(m.Determinant()))
	width := p.Style.StrokeWidth * scale
	if stroke := paint(p.Style.Stroke, opacity); stroke != nil && width > 0 {
		ras := vector.NewRasterizer(size.X, size.Y)
		strokePolygons(ras, flatten(p, m), p.Closed, width, p.Style.Cap, p.Style.Join)
		ras.Draw(dst, dst.Bounds(), stroke, image.Point{})
	}
}

func paint(c string, opacity float64) image.Image {
	col, err := ParseColor(c)
	if err != nil || col.A == 0 {
		return nil
	}
	col.A = uint8(math.Round(float64(col.A) * clamp01(opacity)))
	if col.A == 0 {
		return nil
	}
	return image.NewUniform(col)
}

// outline adds the bezier outline of p, closed for filling.
func outline(ras *vector.Rasterizer, p *document.Path, m geom.Matrix2D) {
	start := m.Apply(p.Anchors[0].Pos)
	ras.MoveTo(float32(start.X), float32(start.Y))
	for i := range p.SegmentCount() {
		c := p.Segment(i)
		b, cc, d := m.Apply(c.P1), m.Apply(c.P2), m.Apply(c.P3)
		ras.CubeTo(float32(b.X), float32(b.Y), float32(cc.X), float32(cc.Y), float32(d.X), float32(d.Y))
	}
	ras.ClosePath()
}

// flatten samples every segment into a polyline in output space. Anchors
// land on the polyline exactly, at indexes that are multiples of
// flattenSteps.
func flatten(p *document.Path, m geom.Matrix2D) []geom.Point {
	pts := []geom.Point{m.Apply(p.Anchors[0].Pos)}
	for i := range p.SegmentCount() {
		c := p.Segment(i)
		for s := 1; s <= flattenSteps; s++ {
			pts = append(pts, m.Apply(c.Eval(float64(s)/flattenSteps)))
		}
	}
	return pts
}

// strokePolygons expands a polyline into quads plus cap and join geometry.
// Every polygon is added with the same orientation so overlaps accumulate
// instead of cancelling.
func strokePolygons(ras *vector.Rasterizer, pts []geom.Point, closed bool, width float64, lineCap document.LineCap, join document.LineJoin) {
	half := width / 2
	if len(pts) < 2 {
		return
	}
	if closed {
		// The last point repeats the first; drop it so the closing joint is
		// treated like any other.
		pts = pts[:len(pts)-1]
	}

	n := len(pts)
	segs := n - 1
	if closed {
		segs = n
	}

	for i := range segs {
		a, b := pts[i], pts[(i+1)%n]
		if !closed && lineCap == document.CapSquare {
			if i == 0 {
				a = a.Sub(direction(a, b).Mul(half))
			}
			if i == segs-1 {
				b = b.Add(direction(a, b).Mul(half))
			}
		}
		nrm := normal(a, b).Mul(half)
		if nrm.IsZero() {
			continue
		}
		addPolygon(ras, a.Add(nrm), b.Add(nrm), b.Sub(nrm), a.Sub(nrm))
	}

	for i := range n {
		if !closed && (i == 0 || i == n-1) {
			if lineCap == document.CapRound {
				addCircle(ras, pts[i], half)
			}
			continue
		}
		prev, cur, next := pts[(i-1+n)%n], pts[i], pts[(i+1)%n]
		if join == document.JoinRound {
			addCircle(ras, cur, half)
			continue
		}
		n0, n1 := normal(prev, cur).Mul(half), normal(cur, next).Mul(half)
		if n0.IsZero() || n1.IsZero() {
			continue
		}
		addPolygon(ras, cur, cur.Add(n0), cur.Add(n1))
		addPolygon(ras, cur, cur.Sub(n0), cur.Sub(n1))
	}
}

func direction(a, b geom.Point) geom.Point {
	d := b.Sub(a)
	l := math.Hypot(d.X, d.Y)
	if l == 0 {
		return geom.Point{}
	}
	return d.Mul(1 / l)
}

func normal(a, b geom.Point) geom.Point {
	d := direction(a, b)
	return geom.Pt(-d.Y, d.X)
}

func addCircle(ras *vector.Rasterizer, c geom.Point, r float64) {
	pts := make([]geom.Point, circleSteps)
	for i := range pts {
		th := 2 * math.Pi * float64(i) / circleSteps
		pts[i] = geom.Pt(c.X+r*math.Cos(th), c.Y+r*math.Sin(th))
	}
	addPolygon(ras, pts...)
}

// addPolygon adds a closed polygon, normalized to positive winding.
func addPolygon(ras *vector.Rasterizer, pts ...geom.Point) {
	area := 0.0
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		area += a.X*b.Y - b.X*a.Y
	}
	if area == 0 {
		return
	}
	if area < 0 {
		pts = append([]geom.Point(nil), pts...)
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	ras.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		ras.LineTo(float32(p.X), float32(p.Y))
	}
	ras.ClosePath()
}

func clamp01(f float64) float64 {
	return max(0, min(1, f))
}

func alpha8(opacity float64) uint8 {
	return uint8(math.Round(clamp01(opacity) * 0xff))
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
