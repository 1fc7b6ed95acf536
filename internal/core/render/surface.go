package render

import (
	"math"

	"github.com/zeusync/motorig/internal/core/geometry"
)

type Color uint8

const (
	ColorDefault Color = iota
	ColorGround
	ColorFrame
	ColorFork
	ColorWheel
	ColorSwingarm
	ColorMarker
	ColorPointer
)

type Style struct {
	Color Color
	Fill  bool
}

// Surface is what components draw onto. Coordinates passed to the drawing
// calls are local to the current transform.
type Surface interface {
	Save()
	Restore()
	Translate(p geometry.Point)
	Rotate(angle float64)

	Polygon(vertices []geometry.Point, style Style)
	Circle(center geometry.Point, radius float64, style Style)
	Line(a, b geometry.Point, style Style)
}

// Framer is implemented by surfaces that need per-frame setup and a flush.
type Framer interface {
	Begin()
	Show()
}

// Affine is a 2x3 matrix mapping (x, y) to (A*x + C*y + E, B*x + D*y + F).
type Affine struct {
	A, B, C, D, E, F float64
}

func Identity() Affine { return Affine{A: 1, D: 1} }

// Mul returns m·n, applying n first.
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Affine) Apply(p geometry.Point) geometry.Point {
	return geometry.Point{X: m.A*p.X + m.C*p.Y + m.E, Y: m.B*p.X + m.D*p.Y + m.F}
}

// ScaleFactor is the length scale of the matrix, used to map radii.
func (m Affine) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
}

// Stack tracks the current transform with save/restore semantics.
type Stack struct {
	cur   Affine
	saved []Affine
}

func NewStack() Stack { return Stack{cur: Identity()} }

func (s *Stack) Save() { s.saved = append(s.saved, s.cur) }

// Restore pops the last saved transform. Unbalanced calls reset to identity.
func (s *Stack) Restore() {
	if len(s.saved) == 0 {
		s.cur = Identity()
		return
	}
	s.cur = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
}

func (s *Stack) Translate(p geometry.Point) {
	s.cur = s.cur.Mul(Affine{A: 1, D: 1, E: p.X, F: p.Y})
}

func (s *Stack) Rotate(angle float64) {
	sin, cos := math.Sincos(angle)
	s.cur = s.cur.Mul(Affine{A: cos, B: sin, C: -sin, D: cos})
}

func (s *Stack) Current() Affine { return s.cur }

func (s *Stack) Depth() int { return len(s.saved) }

// ToWorld maps local vertices through the current transform.
func (s *Stack) ToWorld(vertices []geometry.Point) []geometry.Point {
	out := make([]geometry.Point, len(vertices))
	for i, v := range vertices {
		out[i] = s.cur.Apply(v)
	}
	return out
}
