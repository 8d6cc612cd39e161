package engine

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/inamate/vecedit/backend-go/internal/raster"
)

// ImageFormat is an export image format.
type ImageFormat string

const (
	FormatPNG ImageFormat = "png"
	FormatSVG ImageFormat = "svg"
)

var (
	// ErrSVGNotImplemented is returned for SVG exports. Vector export is a
	// known gap; only raster snapshots are produced.
	ErrSVGNotImplemented = errors.New("svg export not implemented")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// ParseImageFormat parses a format name, case-insensitively.
func ParseImageFormat(s string) (ImageFormat, error) {
	switch f := ImageFormat(strings.ToLower(s)); f {
	case FormatPNG, FormatSVG:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ExportFilename sanitizes name and appends the format extension. Anything
// outside [A-Za-z0-9_-] becomes '-'; an empty name becomes "drawing".
func ExportFilename(name string, format ImageFormat) string {
	if name == "" {
		name = "drawing"
	}
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
	return name + "." + string(format)
}

// Snapshot composites every visible layer of sg into a w×h image.
func Snapshot(sg *SceneGraph, w, h int) *image.RGBA {
	var layers []raster.Layer
	for _, l := range sg.Layers() {
		if !l.Visible {
			continue
		}
		layers = append(layers, raster.Layer{
			Opacity:     l.Opacity,
			PassThrough: l.PassThrough,
			Transform:   l.Matrix(),
			Raster:      l.Raster,
			Paths:       l.Paths,
		})
	}
	return raster.Renderer{Width: w, Height: h}.Composite(layers)
}

// Snapshot composites the engine's scene at canvas size.
func (e *Engine) Snapshot() *image.RGBA {
	return Snapshot(e.scene, e.opts.CanvasWidth, e.opts.CanvasHeight)
}

// ExportImage writes the scene to w in the given format and returns the
// sanitized file name.
func (e *Engine) ExportImage(w io.Writer, name string, format ImageFormat) (string, error) {
	return ExportScene(w, e.scene, e.opts.CanvasWidth, e.opts.CanvasHeight, name, format)
}

// ExportScene writes a w×h snapshot of sg in the given format.
func ExportScene(out io.Writer, sg *SceneGraph, w, h int, name string, format ImageFormat) (string, error) {
	switch format {
	case FormatPNG:
	case FormatSVG:
		return "", ErrSVGNotImplemented
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	filename := ExportFilename(name, format)
	if err := raster.EncodePNG(out, Snapshot(sg, w, h)); err != nil {
		return "", fmt.Errorf("export %s: %w", filename, err)
	}
	return filename, nil
}
