package geom

import (
	"encoding/json"
	"math"
)

// Transform places a layer in the container, or a shape in its layer.
// Rotation is in degrees. Scale is uniform; non-uniform scale is not
// representable.
type Transform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"r"`
	Scale    float64 `json:"s"`
}

// IdentityTransform is the transform of an untransformed layer or shape.
func IdentityTransform() Transform {
	return Transform{Scale: 1}
}

// Translation returns the translation component.
func (t Transform) Translation() Point {
	return Point{X: t.X, Y: t.Y}
}

// WithTranslation returns t moved to p.
func (t Transform) WithTranslation(p Point) Transform {
	t.X, t.Y = p.X, p.Y
	return t
}

// UnmarshalJSON decodes a transform. A missing "s" means scale 1; an
// explicit zero is kept.
func (t *Transform) UnmarshalJSON(data []byte) error {
	type plain Transform
	v := plain{Scale: 1}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = Transform(v)
	return nil
}

// ToLocal maps a point from the parent space into the space described by t:
//
//	local = R(-rotation) · (p - translation) / scale
//
// ok is false when the result is not finite (zero scale, NaN input), in
// which case the caller must drop the event.
func ToLocal(p Point, t Transform) (local Point, ok bool) {
	d := Point{X: p.X - t.X, Y: p.Y - t.Y}
	if t.Rotation != 0 {
		rad := -t.Rotation * math.Pi / 180.0
		cos, sin := math.Cos(rad), math.Sin(rad)
		d = Point{X: d.X*cos - d.Y*sin, Y: d.X*sin + d.Y*cos}
	}
	if t.Scale != 1 {
		d = Point{X: d.X / t.Scale, Y: d.Y / t.Scale}
	}
	if !d.IsFinite() {
		return Point{}, false
	}
	return d, true
}
