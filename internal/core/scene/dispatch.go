package scene

import (
	"math"

	"github.com/zeusync/motorig/internal/core/geometry"
	"github.com/zeusync/motorig/internal/core/physics"
	"github.com/zeusync/motorig/internal/core/render"
)

const markerRadius = 0.02

func drawPayload(s render.Surface, body *physics.Body, p Payload) {
	switch p := p.(type) {
	case *Ground:
		style := render.Style{Color: render.ColorGround, Fill: true}
		if body == nil {
			s.Polygon(box(p.HalfWidth, p.HalfHeight), style)
			return
		}
		drawFixtures(s, body, style)
	case *Frame:
		drawFixtures(s, body, render.Style{Color: render.ColorFrame})
		s.Circle(p.Centroid, markerRadius, render.Style{Color: render.ColorMarker, Fill: true})
		s.Circle(p.ShockMount, markerRadius, render.Style{Color: render.ColorMarker})
	case *Fork:
		drawFixtures(s, body, render.Style{Color: render.ColorFork})
	case *Wheel:
		drawFixtures(s, body, render.Style{Color: render.ColorWheel})
		// spoke, so rotation is visible
		s.Line(geometry.Point{}, geometry.Point{X: p.Radius}, render.Style{Color: render.ColorWheel})
	case *Swingarm:
		drawFixtures(s, body, render.Style{Color: render.ColorSwingarm})
		s.Circle(geometry.Point{}, markerRadius, render.Style{Color: render.ColorMarker})
	}
}

func drawFixtures(s render.Surface, body *physics.Body, style render.Style) {
	if body == nil {
		return
	}
	for _, f := range physics.Fixtures(body) {
		sh := physics.ShapeOf(f)
		switch sh.Kind {
		case physics.ShapeCircle:
			s.Circle(sh.Center, sh.Radius, style)
		default:
			s.Polygon(sh.Vertices, style)
		}
	}
}

func box(halfWidth, halfHeight float64) []geometry.Point {
	return []geometry.Point{
		{X: -halfWidth, Y: -halfHeight},
		{X: halfWidth, Y: -halfHeight},
		{X: halfWidth, Y: halfHeight},
		{X: -halfWidth, Y: halfHeight},
	}
}

// updateKind is the per-node update called by Arena.Update.
var updateKind = updatePayload

func updatePayload(body *physics.Body, p Payload, t Tick) {
	switch p := p.(type) {
	case *Fork:
		if p.Slider != nil {
			p.Travel = p.Slider.GetJointTranslation()
		}
	case *Wheel:
		if body != nil {
			p.Revolutions += body.GetAngularVelocity() * t.Dt / (2 * math.Pi)
		}
	}
}
