package geometry

import "math"

// Point is a 2D location in metres. The world is y-down.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func Add(p, q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

func Sub(p, q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

func Scale(p Point, s float64) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Rotate rotates p about the origin by angle radians.
func Rotate(p Point, angle float64) Point {
	sin, cos := math.Sincos(angle)
	return Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
}

// Length returns the distance of p from the origin.
func Length(p Point) float64 { return math.Hypot(p.X, p.Y) }

// Normalize returns the unit vector of p, zero-safe.
func Normalize(p Point) Point {
	l := Length(p)
	if l == 0 {
		return Point{}
	}
	return Point{X: p.X / l, Y: p.Y / l}
}

// Distance computes the Euclidean distance between two points.
func Distance(p, q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Translate offsets every vertex by d.
func Translate(vertices []Point, d Point) []Point {
	out := make([]Point, len(vertices))
	for i, v := range vertices {
		out[i] = Add(v, d)
	}
	return out
}

// Transform rotates every vertex by angle and then translates it by d.
func Transform(vertices []Point, angle float64, d Point) []Point {
	out := make([]Point, len(vertices))
	for i, v := range vertices {
		out[i] = Add(Rotate(v, angle), d)
	}
	return out
}
