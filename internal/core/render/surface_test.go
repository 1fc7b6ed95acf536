package render

import (
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/motorig/internal/core/geometry"
)

func TestStack_SaveRestore(t *testing.T) {
	s := NewStack()
	s.Save()
	s.Translate(geometry.Pt(1, 2))
	s.Rotate(math.Pi / 2)

	p := s.Current().Apply(geometry.Pt(1, 0))
	assert.InDelta(t, 1, p.X, 1e-12)
	assert.InDelta(t, 3, p.Y, 1e-12)

	s.Restore()
	assert.Equal(t, Identity(), s.Current())
	assert.Equal(t, 0, s.Depth())

	// unbalanced restore falls back to identity
	s.Translate(geometry.Pt(5, 5))
	s.Restore()
	assert.Equal(t, Identity(), s.Current())
}

func TestRecorder_MapsToWorld(t *testing.T) {
	r := NewRecorder()
	r.Save()
	r.Translate(geometry.Pt(10, 0))
	r.Rotate(math.Pi)
	r.Polygon([]geometry.Point{{X: 1}, {X: 1, Y: 1}, {Y: 1}}, Style{Color: ColorFrame})
	r.Circle(geometry.Pt(0, 0), 0.5, Style{Color: ColorWheel})
	r.Restore()

	require.Len(t, r.Ops, 2)
	poly := r.Ops[0]
	assert.Equal(t, OpPolygon, poly.Kind)
	assert.Equal(t, 1, poly.Depth)
	assert.InDelta(t, 9, poly.Points[0].X, 1e-12)
	assert.InDelta(t, -1, poly.Points[1].Y, 1e-12)

	circle := r.Ops[1]
	assert.InDelta(t, 10, circle.Points[0].X, 1e-12)
	assert.InDelta(t, 0.5, circle.Radius, 1e-12)

	r.Reset()
	assert.Empty(t, r.Ops)
}

func TestTerminal_DrawsCells(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	defer screen.Fini()

	term := NewTerminal(screen, 10)
	term.Begin()
	term.Line(geometry.Pt(-1, 0), geometry.Pt(1, 0), Style{Color: ColorFrame})
	term.Show()

	cells, w, _ := screen.GetContents()
	row := 12
	painted := 0
	for x := 0; x < w; x++ {
		if len(cells[row*w+x].Runes) > 0 && cells[row*w+x].Runes[0] == '+' {
			painted++
		}
	}
	assert.Equal(t, 21, painted)
}

func TestTerminal_CellWorldRoundTrip(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	defer screen.Fini()

	term := NewTerminal(screen, 10)
	term.Center = geometry.Pt(1, 1)

	x, y := term.WorldToCell(geometry.Pt(2, 3))
	p := term.CellToWorld(x, y)
	assert.InDelta(t, 2, p.X, 1e-9)
	assert.InDelta(t, 3, p.Y, 1e-9)
}

func paintedCells(screen tcell.SimulationScreen) int {
	cells, _, _ := screen.GetContents()
	n := 0
	for _, c := range cells {
		if len(c.Runes) > 0 && c.Runes[0] != ' ' {
			n++
		}
	}
	return n
}

func TestTerminal_ClipsSegments(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	defer screen.Fini()
	term := NewTerminal(screen, 10)
	style := Style{Color: ColorFrame}

	t.Run("crossing the whole screen", func(t *testing.T) {
		term.Begin()
		term.Line(geometry.Pt(-1e12, 0), geometry.Pt(1e12, 0), style)
		term.Show()
		assert.Equal(t, 80, paintedCells(screen))
	})

	t.Run("entirely off screen", func(t *testing.T) {
		term.Begin()
		term.Line(geometry.Pt(1e9, 1e9), geometry.Pt(2e9, 1e9), style)
		term.Circle(geometry.Pt(1e6, 0), 1, style)
		term.Show()
		assert.Zero(t, paintedCells(screen))
	})

	t.Run("non-finite endpoints", func(t *testing.T) {
		term.Begin()
		term.Line(geometry.Pt(math.NaN(), 0), geometry.Pt(1, 0), style)
		term.Line(geometry.Pt(math.Inf(1), 0), geometry.Pt(0, 0), style)
		term.Polygon([]geometry.Point{{X: math.Inf(-1)}, {Y: 1}, {X: 1}}, style)
		term.Show()
		// only the two finite polygon edges remain
		assert.Positive(t, paintedCells(screen))
		assert.Less(t, paintedCells(screen), 40)
	})
}

func TestClip(t *testing.T) {
	x0, y0, x1, y1, ok := clip(-10, 5, 110, 5, 79, 23)
	require.True(t, ok)
	assert.InDelta(t, 0, x0, 1e-9)
	assert.InDelta(t, 5, y0, 1e-9)
	assert.InDelta(t, 79, x1, 1e-9)
	assert.InDelta(t, 5, y1, 1e-9)

	_, _, _, _, ok = clip(-10, -1, -5, -1, 79, 23)
	assert.False(t, ok)

	_, _, _, _, ok = clip(math.NaN(), 0, 1, 1, 79, 23)
	assert.False(t, ok)

	_, _, _, _, ok = clip(-1e308, 0, 1e308, 0, 79, 23)
	assert.False(t, ok)
}
