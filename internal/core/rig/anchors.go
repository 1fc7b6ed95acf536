package rig

import (
	"math"

	"github.com/zeusync/motorig/internal/core/geometry"
	"github.com/zeusync/motorig/internal/core/params"
	"github.com/zeusync/motorig/internal/core/physics"
)

// Rect is an axis-aligned rectangle given by its centre and half extents.
type Rect struct {
	Center     geometry.Point `json:"center"`
	HalfWidth  float64        `json:"half_width"`
	HalfHeight float64        `json:"half_height"`
}

// AnchorSet is the output of one geometry pass over a parameter snapshot.
// It is never edited after ComputeAnchors returns.
type AnchorSet struct {
	SwingArmPivot       geometry.Point
	HeadTubeBottom      geometry.Point
	HeadTubeTop         geometry.Point
	FrameCentroid       geometry.Point
	RearShockUpperPivot geometry.Point

	FrameVertices      []geometry.Point
	ShockFrameVertices []geometry.Point
	// Fork tube outlines in their own tube frame: +y points up the fork,
	// the origin is the top of the tube.
	ForkTopVertices    []geometry.Point
	ForkBottomVertices []geometry.Point

	ForkAxis           geometry.Point
	ForkAngle          float64
	BottomForkPosition geometry.Point
	FrontWheelCenter   geometry.Point
	RearWheelCenter    geometry.Point

	TopForkLength    float64
	BottomForkLength float64
	HeadTubeLength   float64
	SpringRestLength float64
	SwingarmLength   float64
	SwingarmWidth    float64
	FrontWheelRadius float64
	RearWheelRadius  float64

	GroundGeometry Rect
}

// ComputeAnchors derives every anchor point from the parameter set. It fails
// before returning any geometry when a parameter group is missing, a triangle
// cannot be closed or any other value is out of range.
func ComputeAnchors(set *params.Set) (*AnchorSet, error) {
	if err := set.CheckGroups(); err != nil {
		return nil, err
	}
	f := set.Frame

	frame, err := geometry.TriangleFromSides(
		side(f.HeadTubeLength),
		side(f.PivotToHeadTubeTop),
		side(f.PivotToHeadTubeBottom),
	)
	if err != nil {
		return nil, err
	}
	pivot, htBottom, htTop := frame[0], frame[1], frame[2]

	shockMount, err := geometry.TriangleApexFromSides(htTop, pivot, f.PivotToHeadTubeTop.DisplayName,
		side(f.HeadTubeTopToShockMount), side(f.PivotToShockMount))
	if err != nil {
		return nil, err
	}
	// remaining values (widths, diameters, materials) are not triangle sides
	if err = set.Validate(); err != nil {
		return nil, err
	}

	a := &AnchorSet{
		SwingArmPivot:       pivot,
		HeadTubeBottom:      htBottom,
		HeadTubeTop:         htTop,
		FrameCentroid:       geometry.Centroid(frame[:]...),
		RearShockUpperPivot: shockMount,
		FrameVertices:       []geometry.Point{pivot, htBottom, htTop},
		ShockFrameVertices:  []geometry.Point{htTop, pivot, shockMount},

		TopForkLength:    f.TopForkLength.Value,
		BottomForkLength: f.BottomForkLength.Value,
		HeadTubeLength:   f.HeadTubeLength.Value,
		SwingarmLength:   f.SwingarmLength.Value,
		SwingarmWidth:    f.SwingarmWidth.Value,
		FrontWheelRadius: f.FrontWheelDiameter.Value / 2,
		RearWheelRadius:  f.RearWheelDiameter.Value / 2,
	}
	a.SpringRestLength = a.BottomForkLength + a.TopForkLength - a.HeadTubeLength
	if a.SpringRestLength <= physics.LinearSlop {
		return nil, &params.ParameterError{
			Group:  params.GroupFrame,
			Name:   "top_fork_length",
			Reason: "top and bottom fork together must be longer than the head tube",
			Err:    params.ErrInvalidValue,
		}
	}

	a.ForkAxis = geometry.Normalize(geometry.Sub(htTop, htBottom))
	a.ForkAngle = math.Atan2(a.ForkAxis.Y, a.ForkAxis.X) - math.Pi/2
	a.ForkTopVertices = tube(f.TopForkWidth.Value/2, a.TopForkLength)
	a.ForkBottomVertices = tube(f.BottomForkWidth.Value/2, a.BottomForkLength)

	a.BottomForkPosition = geometry.Sub(htTop, geometry.Scale(a.ForkAxis, a.TopForkLength))
	a.FrontWheelCenter = geometry.Sub(a.BottomForkPosition, geometry.Scale(a.ForkAxis, a.BottomForkLength))
	a.RearWheelCenter = geometry.Add(pivot, geometry.Point{X: a.SwingarmLength})

	a.GroundGeometry = groundUnder(a, set.Simulation)
	return a, nil
}

// ToFrameLocal maps a world point at construction time into frame body
// coordinates. The frame body sits on the swingarm pivot with zero angle.
func (a *AnchorSet) ToFrameLocal(p geometry.Point) geometry.Point {
	return geometry.Sub(p, a.SwingArmPivot)
}

// ForkBottomLocal is the bottom of the lower fork tube in fork body
// coordinates.
func (a *AnchorSet) ForkBottomLocal() geometry.Point {
	return geometry.Point{Y: -a.BottomForkLength}
}

// SliderAnchor is the point on the frame where the lower fork hangs: the
// head tube top moved one top-fork length down the axis.
func (a *AnchorSet) SliderAnchor() geometry.Point {
	return a.BottomForkPosition
}

func side(p params.Parameter) geometry.Side {
	return geometry.Side{Name: p.DisplayName, Length: p.Value}
}

// tube outlines a fork tube hanging from its origin down the local -y axis.
func tube(halfWidth, length float64) []geometry.Point {
	return []geometry.Point{
		{X: -halfWidth, Y: 0},
		{X: -halfWidth, Y: -length},
		{X: halfWidth, Y: -length},
		{X: halfWidth, Y: 0},
	}
}

// groundUnder places the ground so its top touches the lowest wheel. The
// world is y-down, so "lowest" is the largest y.
func groundUnder(a *AnchorSet, sim *params.Simulation) Rect {
	top := math.Max(a.FrontWheelCenter.Y+a.FrontWheelRadius, a.RearWheelCenter.Y+a.RearWheelRadius)
	halfHeight := sim.GroundHeight.Value / 2
	return Rect{
		Center: geometry.Point{
			X: (a.FrontWheelCenter.X + a.RearWheelCenter.X) / 2,
			Y: top + halfHeight,
		},
		HalfWidth:  sim.GroundWidth.Value / 2,
		HalfHeight: halfHeight,
	}
}
