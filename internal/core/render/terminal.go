package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/motorig/internal/core/geometry"
)

// Terminal rasterises primitives onto a tcell screen. Terminal cells are
// roughly twice as tall as they are wide, so the vertical scale is halved.
type Terminal struct {
	Stack
	screen tcell.Screen

	// Center is the world point shown in the middle of the screen.
	Center geometry.Point
	// CellsPerMeter is the horizontal zoom.
	CellsPerMeter float64
	// Status is written on the top row when the frame is shown.
	Status string
}

func NewTerminal(screen tcell.Screen, cellsPerMeter float64) *Terminal {
	return &Terminal{Stack: NewStack(), screen: screen, CellsPerMeter: cellsPerMeter}
}

var palette = map[Color]tcell.Style{
	ColorDefault:  tcell.StyleDefault,
	ColorGround:   tcell.StyleDefault.Foreground(tcell.ColorOlive),
	ColorFrame:    tcell.StyleDefault.Foreground(tcell.ColorRed),
	ColorFork:     tcell.StyleDefault.Foreground(tcell.ColorSilver),
	ColorWheel:    tcell.StyleDefault.Foreground(tcell.ColorWhite),
	ColorSwingarm: tcell.StyleDefault.Foreground(tcell.ColorBlue),
	ColorMarker:   tcell.StyleDefault.Foreground(tcell.ColorYellow),
	ColorPointer:  tcell.StyleDefault.Foreground(tcell.ColorGreen),
}

// Begin clears the screen and resets the transform for a new frame.
func (t *Terminal) Begin() {
	t.Stack = NewStack()
	t.screen.Clear()
}

func (t *Terminal) Show() {
	if t.Status != "" {
		t.Text(0, 0, t.Status)
	}
	t.screen.Show()
}

// Text writes a status line in screen cells.
func (t *Terminal) Text(x, y int, s string) {
	for i, r := range []rune(s) {
		t.screen.SetContent(x+i, y, r, nil, tcell.StyleDefault)
	}
}

// WorldToCell maps a world point to a screen cell.
func (t *Terminal) WorldToCell(p geometry.Point) (int, int) {
	x, y := t.cell(p)
	return int(math.Round(x)), int(math.Round(y))
}

func (t *Terminal) cell(p geometry.Point) (float64, float64) {
	w, h := t.screen.Size()
	x := float64(w)/2 + (p.X-t.Center.X)*t.CellsPerMeter
	y := float64(h)/2 + (p.Y-t.Center.Y)*t.CellsPerMeter/2
	return x, y
}

// CellToWorld is the inverse of WorldToCell, used for pointer input.
func (t *Terminal) CellToWorld(x, y int) geometry.Point {
	w, h := t.screen.Size()
	return geometry.Point{
		X: t.Center.X + (float64(x)-float64(w)/2)/t.CellsPerMeter,
		Y: t.Center.Y + (float64(y)-float64(h)/2)*2/t.CellsPerMeter,
	}
}

func (t *Terminal) Polygon(vertices []geometry.Point, style Style) {
	world := t.ToWorld(vertices)
	for i := range world {
		t.segment(world[i], world[(i+1)%len(world)], style, '*')
	}
}

func (t *Terminal) Circle(center geometry.Point, radius float64, style Style) {
	const segments = 24
	c := t.Current().Apply(center)
	r := radius * t.Current().ScaleFactor()
	prev := geometry.Point{X: c.X + r, Y: c.Y}
	for i := 1; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		next := geometry.Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
		t.segment(prev, next, style, 'o')
		prev = next
	}
}

func (t *Terminal) Line(a, b geometry.Point, style Style) {
	world := t.ToWorld([]geometry.Point{a, b})
	t.segment(world[0], world[1], style, '+')
}

// segment draws a world-space segment with Bresenham's algorithm, clipped to
// the screen first so far-away or non-finite bodies cost nothing.
func (t *Terminal) segment(a, b geometry.Point, style Style, glyph rune) {
	w, h := t.screen.Size()
	ax, ay := t.cell(a)
	bx, by := t.cell(b)
	ax, ay, bx, by, visible := clip(ax, ay, bx, by, float64(w-1), float64(h-1))
	if !visible {
		return
	}
	x0, y0 := int(math.Round(ax)), int(math.Round(ay))
	x1, y1 := int(math.Round(bx)), int(math.Round(by))
	st := palette[style.Color]

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		t.screen.SetContent(x0, y0, glyph, nil, st)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// clip trims a segment to [0, maxX] x [0, maxY] using Liang-Barsky. It
// reports false when nothing of the segment is on screen.
func clip(x0, y0, x1, y1, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	if !finite(x0, y0, x1, y1) || maxX < 0 || maxY < 0 {
		return 0, 0, 0, 0, false
	}
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	for _, edge := range [4][2]float64{{-dx, x0}, {dx, maxX - x0}, {-dy, y0}, {dy, maxY - y0}} {
		p, q := edge[0], edge[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}
	cx0, cy0 := x0+t0*dx, y0+t0*dy
	cx1, cy1 := x0+t1*dx, y0+t1*dy
	if !finite(cx0, cy0, cx1, cy1) {
		return 0, 0, 0, 0, false
	}
	clamp := func(v, hi float64) float64 { return math.Min(math.Max(v, 0), hi) }
	return clamp(cx0, maxX), clamp(cy0, maxY), clamp(cx1, maxX), clamp(cy1, maxY), true
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
