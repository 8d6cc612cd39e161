package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/inamate/vecedit/backend-go/internal/document"
	"github.com/inamate/vecedit/backend-go/internal/geom"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	blue  = color.RGBA{B: 0xff, A: 0xff}
	black = color.RGBA{A: 0xff}
)

func uniform(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func count(img *image.RGBA, c color.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == c {
				n++
			}
		}
	}
	return n
}

func TestFloodFillUniform(t *testing.T) {
	img := uniform(10, 10, red)
	if !FloodFill(img, 5, 5, blue) {
		t.Fatal("FloodFill reported no change")
	}
	if got := count(img, blue); got != 100 {
		t.Errorf("got %d filled pixels, want 100", got)
	}
}

func TestFloodFillIdempotent(t *testing.T) {
	img := uniform(10, 10, red)
	before := append([]uint8(nil), img.Pix...)
	if FloodFill(img, 3, 7, red) {
		t.Error("filling with the start color reported a change")
	}
	diff(t, before, img.Pix)
}

func TestFloodFillOutOfBounds(t *testing.T) {
	img := uniform(4, 4, red)
	before := append([]uint8(nil), img.Pix...)
	for _, p := range []image.Point{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		if FloodFill(img, p.X, p.Y, blue) {
			t.Errorf("seed %v filled", p)
		}
	}
	diff(t, before, img.Pix)
}

func TestFloodFillStopsAtBoundary(t *testing.T) {
	// a vertical wall at x=4 splits the buffer in two
	img := uniform(10, 10, red)
	for y := range 10 {
		img.SetRGBA(4, y, black)
	}
	FloodFill(img, 1, 1, blue)

	if got := count(img, blue); got != 40 {
		t.Errorf("got %d filled pixels, want 40", got)
	}
	if got := count(img, black); got != 10 {
		t.Errorf("wall damaged: %d black pixels, want 10", got)
	}
	if img.RGBAAt(7, 7) != red {
		t.Error("fill leaked through the wall")
	}
}

func TestFloodFillConcave(t *testing.T) {
	// a U-shaped region forces spans to be re-entered from both sides
	//
	//	.#...
	//	.#.#.
	//	.#.#.
	//	...#.
	img := uniform(5, 4, red)
	for _, p := range []image.Point{{1, 0}, {1, 1}, {1, 2}, {3, 1}, {3, 2}, {3, 3}} {
		img.SetRGBA(p.X, p.Y, black)
	}
	FloodFill(img, 0, 0, blue)
	if got, want := count(img, blue), 5*4-6; got != want {
		t.Errorf("got %d filled pixels, want %d", got, want)
	}
}

func TestFloodFillOffsetRect(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 10, 14, 14))
	if !FloodFill(img, 12, 12, blue) {
		t.Fatal("FloodFill reported no change")
	}
	if got := count(img, blue); got != 16 {
		t.Errorf("got %d filled pixels, want 16", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "#ff0000", want: color.NRGBA{R: 0xff, A: 0xff}},
		{in: "#00FF00", want: color.NRGBA{G: 0xff, A: 0xff}},
		{in: "#0000ff80", want: color.NRGBA{B: 0xff, A: 0x80}},
		{in: "", want: color.NRGBA{}},
		{in: "transparent", want: color.NRGBA{}},
		{in: "chartreuse", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				diff(t, tt.want, got)
			}
		})
	}
}

func TestFillColorPremultiplied(t *testing.T) {
	diff(t, color.RGBA{R: 0x80, A: 0x80}, FillColor("#ff000080"))
	diff(t, color.RGBA{}, FillColor("not a color"))
}

func square(fill, stroke string) *document.Path {
	return &document.Path{
		Anchors: []document.Anchor{
			{Pos: geom.Pt(10, 10)},
			{Pos: geom.Pt(30, 10)},
			{Pos: geom.Pt(30, 30)},
			{Pos: geom.Pt(10, 30)},
		},
		Closed:    true,
		Style:     document.Style{Fill: fill, Stroke: stroke, StrokeWidth: 2, Cap: document.CapButt, Join: document.JoinMiter},
		Transform: geom.IdentityTransform(),
	}
}

func TestDrawPathFill(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	DrawPath(img, square("#ff0000", ""), geom.Identity(), 1)

	if got := img.RGBAAt(20, 20); got != red {
		t.Errorf("center = %v, want %v", got, red)
	}
	if got := img.RGBAAt(2, 2); got.A != 0 {
		t.Errorf("outside = %v, want transparent", got)
	}
}

func TestDrawPathStrokeOnly(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	DrawPath(img, square("", "#0000ff"), geom.Identity(), 1)

	if got := img.RGBAAt(20, 20); got.A != 0 {
		t.Errorf("interior = %v, want transparent", got)
	}
	if got := img.RGBAAt(20, 10); got.B == 0 {
		t.Errorf("edge = %v, want blue", got)
	}
}

func TestCompositeOpacity(t *testing.T) {
	r := Renderer{Width: 40, Height: 40}
	out := r.Composite([]Layer{{
		Opacity:   0.5,
		Transform: geom.Identity(),
		Paths:     []*document.Path{square("#ff0000", "")},
	}})
	got := out.RGBAAt(20, 20)
	if got.A < 0x7e || got.A > 0x81 {
		t.Errorf("alpha = %#x, want about 0x80", got.A)
	}
}

func TestCompositeRasterTransform(t *testing.T) {
	src := uniform(10, 10, blue)
	r := Renderer{Width: 40, Height: 40}
	out := r.Composite([]Layer{{
		Opacity:   1,
		Transform: geom.Translate(20, 20),
		Raster:    src,
	}})
	if got := out.RGBAAt(25, 25); got != blue {
		t.Errorf("translated raster pixel = %v, want %v", got, blue)
	}
	if got := out.RGBAAt(5, 5); got.A != 0 {
		t.Errorf("pixel outside raster = %v, want transparent", got)
	}
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, uniform(3, 2, red)); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, image.Rect(0, 0, 3, 2), img.Bounds())
}
