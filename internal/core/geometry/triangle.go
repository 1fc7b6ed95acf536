package geometry

import "math"

// Side is a named edge length. The name is carried into errors so a UI can
// point at the control that produced the bad value.
type Side struct {
	Name   string
	Length float64
}

// TriangleFromThreeSides lays out a triangle from its edge lengths and
// returns its vertices clockwise as [C, B, A]: C at the origin, B at (-c, 0)
// and A derived with the law of cosines, so |CB| = c, |CA| = b and |AB| = a.
func TriangleFromThreeSides(a, b, c float64) ([3]Point, error) {
	return TriangleFromSides(Side{Name: "a", Length: a}, Side{Name: "b", Length: b}, Side{Name: "c", Length: c})
}

// TriangleFromSides is TriangleFromThreeSides with display names attached to
// each side.
func TriangleFromSides(a, b, c Side) ([3]Point, error) {
	const op = "triangle from sides"
	if err := checkSides(op, a, b, c); err != nil {
		return [3]Point{}, err
	}

	cosC := (a.Length*a.Length - b.Length*b.Length - c.Length*c.Length) / (-2 * b.Length * c.Length)
	angleC := math.Acos(clampUnit(cosC))
	sin, cos := math.Sincos(angleC)

	vc := Point{}
	vb := Point{X: -c.Length}
	va := Point{X: -b.Length * cos, Y: -b.Length * sin}
	return [3]Point{vc, vb, va}, nil
}

// TriangleApexFromEdge finds the third vertex C of a triangle given vertices
// A and B and the lengths |AC| = lengthA and |BC| = lengthB. The result winds
// clockwise relative to the A→B direction.
func TriangleApexFromEdge(vertexA, vertexB Point, lengthA, lengthB float64) (Point, error) {
	return TriangleApexFromSides(vertexA, vertexB, "edge AB",
		Side{Name: "lengthA", Length: lengthA}, Side{Name: "lengthB", Length: lengthB})
}

// TriangleApexFromSides is TriangleApexFromEdge with display names for the
// known edge and the two unknown ones.
func TriangleApexFromSides(vertexA, vertexB Point, edge string, sideA, sideB Side) (Point, error) {
	const op = "triangle apex from edge"
	if !vertexA.IsFinite() || !vertexB.IsFinite() {
		return Point{}, &GeometryError{Op: op, Reason: "vertex coordinates must be finite numbers", Err: ErrMalformedInput}
	}
	lengthC := Distance(vertexA, vertexB)
	if lengthC == 0 {
		return Point{}, &GeometryError{Op: op, Reason: "vertices A and B coincide", Err: ErrMalformedInput}
	}

	if err := checkSides(op, sideA, sideB, Side{Name: edge, Length: lengthC}); err != nil {
		return Point{}, err
	}
	lengthA, lengthB := sideA.Length, sideB.Length

	cosA := (lengthA*lengthA + lengthC*lengthC - lengthB*lengthB) / (2 * lengthA * lengthC)
	angleA := math.Acos(clampUnit(cosA))

	dir := Scale(Sub(vertexB, vertexA), 1/lengthC)
	return Add(vertexA, Scale(Rotate(dir, -angleA), lengthA)), nil
}

// Centroid returns the arithmetic mean of the vertices.
func Centroid(vertices ...Point) Point {
	if len(vertices) == 0 {
		return Point{}
	}
	var sum Point
	for _, v := range vertices {
		sum = Add(sum, v)
	}
	return Scale(sum, 1/float64(len(vertices)))
}

// TriangleArea returns the unsigned area of triangle pqr.
func TriangleArea(p, q, r Point) float64 {
	return math.Abs((q.X-p.X)*(r.Y-p.Y)-(r.X-p.X)*(q.Y-p.Y)) / 2
}

func checkSides(op string, a, b, c Side) error {
	for _, s := range [3]Side{a, b, c} {
		if math.IsNaN(s.Length) || math.IsInf(s.Length, 0) {
			return &GeometryError{Op: op, Side: s.Name, Length: s.Length, Reason: "length must be a finite number", Err: ErrMalformedInput}
		}
		if s.Length <= 0 {
			return &GeometryError{Op: op, Side: s.Name, Length: s.Length, Reason: "length must be positive", Err: ErrMalformedInput}
		}
	}

	switch {
	case a.Length >= b.Length+c.Length:
		return tooLong(op, a, b, c)
	case b.Length >= a.Length+c.Length:
		return tooLong(op, b, a, c)
	case c.Length >= a.Length+b.Length:
		return tooLong(op, c, a, b)
	}
	return nil
}

func tooLong(op string, long, o1, o2 Side) error {
	return &GeometryError{
		Op:     op,
		Side:   long.Name,
		Length: long.Length,
		Other1: o1.Length,
		Other2: o2.Length,
		Err:    ErrInvalidTriangle,
	}
}

// clampUnit absorbs rounding that pushes a cosine just outside [-1, 1].
func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
