package physics

import (
	"fmt"
	"math"

	"github.com/ByteArena/box2d"

	"github.com/zeusync/motorig/internal/core/geometry"
)

type ShapeKind uint8

const (
	ShapePolygon ShapeKind = iota
	ShapeCircle
	ShapeBox
)

func (k ShapeKind) String() string {
	switch k {
	case ShapePolygon:
		return "polygon"
	case ShapeCircle:
		return "circle"
	case ShapeBox:
		return "box"
	default:
		return "unknown"
	}
}

// Shape describes a collision shape in body-local coordinates.
type Shape struct {
	Kind     ShapeKind
	Vertices []geometry.Point
	Radius   float64

	// box only
	HalfWidth  float64
	HalfHeight float64
	Center     geometry.Point
	Angle      float64
}

func Polygon(vertices ...geometry.Point) Shape {
	return Shape{Kind: ShapePolygon, Vertices: vertices}
}

func Circle(radius float64) Shape {
	return Shape{Kind: ShapeCircle, Radius: radius}
}

func Box(halfWidth, halfHeight float64) Shape {
	return Shape{Kind: ShapeBox, HalfWidth: halfWidth, HalfHeight: halfHeight}
}

// OrientedBox is a box centred at center and rotated by angle.
func OrientedBox(halfWidth, halfHeight float64, center geometry.Point, angle float64) Shape {
	return Shape{Kind: ShapeBox, HalfWidth: halfWidth, HalfHeight: halfHeight, Center: center, Angle: angle}
}

// LinearSlop is the engine's collision and constraint tolerance in metres.
const LinearSlop = box2d.B2_linearSlop

// minPolygonArea keeps clear of the engine's hull assertion on slivers.
const minPolygonArea = LinearSlop * LinearSlop

// Validate checks the shape against what the engine can accept.
func (s Shape) Validate() error {
	switch s.Kind {
	case ShapePolygon:
		n := len(s.Vertices)
		if n < 3 || n > box2d.B2_maxPolygonVertices {
			return fmt.Errorf("%w: polygon needs 3..%d vertices, got %d", ErrInvalidShape, box2d.B2_maxPolygonVertices, n)
		}
		for _, v := range s.Vertices {
			if !v.IsFinite() {
				return fmt.Errorf("%w: polygon vertex is not finite", ErrInvalidShape)
			}
		}
		if polygonArea(s.Vertices) < minPolygonArea {
			return fmt.Errorf("%w: polygon is degenerate", ErrInvalidShape)
		}
	case ShapeCircle:
		if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
			return fmt.Errorf("%w: circle radius %g", ErrInvalidShape, s.Radius)
		}
	case ShapeBox:
		if !(s.HalfWidth > 0) || !(s.HalfHeight > 0) {
			return fmt.Errorf("%w: box half extents %g x %g", ErrInvalidShape, s.HalfWidth, s.HalfHeight)
		}
	default:
		return fmt.Errorf("%w: kind %d", ErrInvalidShape, s.Kind)
	}
	return nil
}

func (s Shape) engineShape() box2d.B2ShapeInterface {
	switch s.Kind {
	case ShapeCircle:
		c := box2d.MakeB2CircleShape()
		c.M_radius = s.Radius
		return &c
	case ShapeBox:
		p := box2d.MakeB2PolygonShape()
		p.SetAsBoxFromCenterAndAngle(s.HalfWidth, s.HalfHeight, Vec(s.Center), s.Angle)
		return &p
	default:
		vs := make([]box2d.B2Vec2, len(s.Vertices))
		for i, v := range s.Vertices {
			vs[i] = Vec(v)
		}
		p := box2d.MakeB2PolygonShape()
		p.Set(vs, len(vs))
		return &p
	}
}

// ShapeOf reads a fixture's shape back in body-local coordinates.
func ShapeOf(f *Fixture) Shape {
	switch sh := f.GetShape().(type) {
	case *box2d.B2CircleShape:
		return Shape{Kind: ShapeCircle, Radius: sh.M_radius, Center: Pt(sh.M_p)}
	case *box2d.B2PolygonShape:
		vs := make([]geometry.Point, sh.M_count)
		for i := 0; i < sh.M_count; i++ {
			vs[i] = Pt(sh.M_vertices[i])
		}
		return Shape{Kind: ShapePolygon, Vertices: vs}
	default:
		return Shape{Kind: ShapePolygon}
	}
}

func polygonArea(vs []geometry.Point) float64 {
	var sum float64
	for i := range vs {
		j := (i + 1) % len(vs)
		sum += vs[i].X*vs[j].Y - vs[j].X*vs[i].Y
	}
	return math.Abs(sum) / 2
}
