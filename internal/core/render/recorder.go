package render

import "github.com/zeusync/motorig/internal/core/geometry"

type OpKind uint8

const (
	OpPolygon OpKind = iota
	OpCircle
	OpLine
)

// Op is one primitive in world coordinates.
type Op struct {
	Kind   OpKind
	Points []geometry.Point
	Radius float64
	Style  Style
	Depth  int
}

// Recorder is a Surface that keeps every primitive it receives, already
// mapped to world space. Used by snapshots and tests.
type Recorder struct {
	Stack
	Ops []Op
}

func NewRecorder() *Recorder { return &Recorder{Stack: NewStack()} }

func (r *Recorder) Polygon(vertices []geometry.Point, style Style) {
	r.Ops = append(r.Ops, Op{Kind: OpPolygon, Points: r.ToWorld(vertices), Style: style, Depth: r.Depth()})
}

func (r *Recorder) Circle(center geometry.Point, radius float64, style Style) {
	r.Ops = append(r.Ops, Op{
		Kind:   OpCircle,
		Points: []geometry.Point{r.Current().Apply(center)},
		Radius: radius * r.Current().ScaleFactor(),
		Style:  style,
		Depth:  r.Depth(),
	})
}

func (r *Recorder) Line(a, b geometry.Point, style Style) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, Points: r.ToWorld([]geometry.Point{a, b}), Style: style, Depth: r.Depth()})
}

func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.Stack = NewStack()
}

// Begin starts a new frame.
func (r *Recorder) Begin() { r.Reset() }

func (r *Recorder) Show() {}
