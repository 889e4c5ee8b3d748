// Package quickdraw implements the pixel-plane and geometry primitives
// QuickDraw resource formats are built from: points, rectangles, colors,
// color tables, pixel maps and the BGRA surface they expand into.
package quickdraw

import "github.com/TheDiamondProject/graphite/data"

// Point is a QuickDraw point. On disk, classic QuickDraw always writes a
// point as its vertical coordinate (v) followed by its horizontal
// coordinate (h); ReadPoint/WriteTo preserve that ordering while exposing
// the more familiar X/Y field names.
type Point struct {
	X, Y int16
}

// ReadPoint reads a Point in classic v,h disk order.
func ReadPoint(r *data.Reader) (Point, error) {
	y, err := r.ReadSignedShort()
	if err != nil {
		return Point{}, err
	}
	x, err := r.ReadSignedShort()
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

// WriteTo writes the point in classic v,h disk order.
func (p Point) WriteTo(w *data.Writer) {
	w.WriteSignedShort(p.Y)
	w.WriteSignedShort(p.X)
}

// Size is a QuickDraw extent, stored on disk the same way as a Point
// (v=height, h=width).
type Size struct {
	Width, Height int16
}

// ReadSize reads a Size in classic v,h disk order.
func ReadSize(r *data.Reader) (Size, error) {
	h, err := r.ReadSignedShort()
	if err != nil {
		return Size{}, err
	}
	w, err := r.ReadSignedShort()
	if err != nil {
		return Size{}, err
	}
	return Size{Width: w, Height: h}, nil
}

// WriteTo writes the size in classic v,h disk order.
func (s Size) WriteTo(w *data.Writer) {
	w.WriteSignedShort(s.Height)
	w.WriteSignedShort(s.Width)
}

// Rect is a QuickDraw rectangle, stored on disk as top, left, bottom,
// right 16-bit integers.
type Rect struct {
	Top, Left, Bottom, Right int16
}

// ReadRect reads a Rect.
func ReadRect(r *data.Reader) (Rect, error) {
	top, err := r.ReadSignedShort()
	if err != nil {
		return Rect{}, err
	}
	left, err := r.ReadSignedShort()
	if err != nil {
		return Rect{}, err
	}
	bottom, err := r.ReadSignedShort()
	if err != nil {
		return Rect{}, err
	}
	right, err := r.ReadSignedShort()
	if err != nil {
		return Rect{}, err
	}
	return Rect{Top: top, Left: left, Bottom: bottom, Right: right}, nil
}

// WriteTo writes the rect.
func (r Rect) WriteTo(w *data.Writer) {
	w.WriteSignedShort(r.Top)
	w.WriteSignedShort(r.Left)
	w.WriteSignedShort(r.Bottom)
	w.WriteSignedShort(r.Right)
}

// Width returns Right - Left.
func (r Rect) Width() int { return int(r.Right) - int(r.Left) }

// Height returns Bottom - Top.
func (r Rect) Height() int { return int(r.Bottom) - int(r.Top) }

// Origin returns the rect's top-left point.
func (r Rect) Origin() Point { return Point{X: r.Left, Y: r.Top} }

// Translate returns a copy of r shifted by (dx, dy).
func (r Rect) Translate(dx, dy int16) Rect {
	return Rect{Top: r.Top + dy, Left: r.Left + dx, Bottom: r.Bottom + dy, Right: r.Right + dx}
}
