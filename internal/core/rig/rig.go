package rig

import (
	"github.com/google/uuid"

	"github.com/zeusync/motorig/internal/core/geometry"
	"github.com/zeusync/motorig/internal/core/params"
	"github.com/zeusync/motorig/internal/core/physics"
	"github.com/zeusync/motorig/internal/core/scene"
)

// ForkTravel is the compression-only travel allowed by the fork slider.
const ForkTravel = 0.15

// Rig is one motorcycle assembly: the frame component with its four children
// and the five joints that hold them together. A Rig is built from a single
// anchor set and is never patched; a parameter change means Destroy and Build.
type Rig struct {
	ID      string
	Anchors *AnchorSet

	Frame      scene.Handle
	Fork       scene.Handle
	FrontWheel scene.Handle
	Swingarm   scene.Handle
	RearWheel  scene.Handle

	Slider    *physics.Prismatic
	Spring    *physics.Distance
	FrontAxle *physics.Revolute
	Pivot     *physics.Revolute
	RearAxle  *physics.Revolute

	arena *scene.Arena
}

type part struct {
	body     physics.BodyDef
	fixtures []physics.FixtureDef
}

// Build computes the anchor set and creates every body, fixture and joint of
// the rig. Geometry and shapes are checked before the world is touched, so
// a failed Build leaves nothing behind.
func Build(world *physics.World, arena *scene.Arena, set *params.Set) (*Rig, error) {
	a, err := ComputeAnchors(set)
	if err != nil {
		return nil, err
	}

	frame, fork, front, swing, rear := plan(a, set.Simulation)
	for _, p := range []*part{frame, fork, front, swing, rear} {
		for _, fd := range p.fixtures {
			if err = fd.Shape.Validate(); err != nil {
				return nil, err
			}
		}
	}

	r := &Rig{ID: uuid.NewString(), Anchors: a, arena: arena}

	frameBody := create(world, frame)
	forkBody := create(world, fork)
	frontBody := create(world, front)
	swingBody := create(world, swing)
	rearBody := create(world, rear)

	r.Slider = world.CreatePrismatic(physics.PrismaticDef{
		BodyA:          frameBody,
		BodyB:          forkBody,
		LocalAnchorA:   a.ToFrameLocal(a.SliderAnchor()),
		LocalAnchorB:   geometry.Point{},
		LocalAxisA:     a.ForkAxis,
		ReferenceAngle: a.ForkAngle,
		EnableLimit:    true,
		Lower:          0,
		Upper:          ForkTravel,
	})
	r.Spring = world.CreateDistance(physics.DistanceDef{
		BodyA:        frameBody,
		BodyB:        forkBody,
		LocalAnchorA: a.ToFrameLocal(a.HeadTubeBottom),
		LocalAnchorB: a.ForkBottomLocal(),
		Length:       a.SpringRestLength,
		Frequency:    set.Simulation.SpringFrequency.Value,
		DampingRatio: set.Simulation.SpringDampingRatio.Value,
	})
	r.FrontAxle = world.CreateRevolute(physics.RevoluteDef{BodyA: forkBody, BodyB: frontBody, Anchor: a.FrontWheelCenter})
	r.Pivot = world.CreateRevolute(physics.RevoluteDef{BodyA: frameBody, BodyB: swingBody, Anchor: a.SwingArmPivot})
	r.RearAxle = world.CreateRevolute(physics.RevoluteDef{BodyA: swingBody, BodyB: rearBody, Anchor: a.RearWheelCenter})

	r.Frame = arena.New(frameBody, &scene.Frame{
		Centroid:   a.ToFrameLocal(a.FrameCentroid),
		ShockMount: a.ToFrameLocal(a.RearShockUpperPivot),
	})
	r.Fork = arena.New(forkBody, &scene.Fork{Slider: r.Slider})
	r.FrontWheel = arena.New(frontBody, &scene.Wheel{Radius: a.FrontWheelRadius})
	r.Swingarm = arena.New(swingBody, &scene.Swingarm{Length: a.SwingarmLength})
	r.RearWheel = arena.New(rearBody, &scene.Wheel{Radius: a.RearWheelRadius})
	for _, child := range []scene.Handle{r.Fork, r.FrontWheel, r.Swingarm, r.RearWheel} {
		// fresh handles; AddChild cannot fail here
		_ = arena.AddChild(r.Frame, child)
	}
	return r, nil
}

// plan lays out every body and fixture in world and body-local coordinates.
func plan(a *AnchorSet, sim *params.Simulation) (frame, fork, front, swing, rear *part) {
	material := func(shape physics.Shape, category uint16) physics.FixtureDef {
		return physics.FixtureDef{
			Shape:       shape,
			Density:     sim.Density.Value,
			Friction:    sim.Friction.Value,
			Restitution: sim.Restitution.Value,
			Category:    category,
			Mask:        physics.MaskFor(category),
		}
	}
	dynamic := func(pos geometry.Point, angle float64, kind scene.Kind) physics.BodyDef {
		return physics.BodyDef{
			Type:           physics.DynamicBody,
			Position:       pos,
			Angle:          angle,
			LinearDamping:  sim.LinearDamping.Value,
			AngularDamping: sim.AngularDamping.Value,
			UserData:       kind,
		}
	}
	offset := geometry.Scale(a.SwingArmPivot, -1)

	frame = &part{
		body: dynamic(a.SwingArmPivot, 0, scene.KindFrame),
		fixtures: []physics.FixtureDef{
			material(physics.Polygon(geometry.Translate(a.FrameVertices, offset)...), physics.CategoryFrame),
			material(physics.Polygon(geometry.Translate(a.ShockFrameVertices, offset)...), physics.CategoryFrame),
			material(physics.Polygon(geometry.Transform(a.ForkTopVertices, a.ForkAngle, a.ToFrameLocal(a.HeadTubeTop))...), physics.CategoryFrame),
		},
	}
	fork = &part{
		body:     dynamic(a.BottomForkPosition, a.ForkAngle, scene.KindFork),
		fixtures: []physics.FixtureDef{material(physics.Polygon(a.ForkBottomVertices...), physics.CategoryFrame)},
	}
	front = &part{
		body:     dynamic(a.FrontWheelCenter, 0, scene.KindWheel),
		fixtures: []physics.FixtureDef{material(physics.Circle(a.FrontWheelRadius), physics.CategoryWheel)},
	}
	swing = &part{
		body: dynamic(a.SwingArmPivot, 0, scene.KindSwingarm),
		fixtures: []physics.FixtureDef{material(
			physics.OrientedBox(a.SwingarmLength/2, a.SwingarmWidth/2, geometry.Point{X: a.SwingarmLength / 2}, 0),
			physics.CategoryFrame,
		)},
	}
	rear = &part{
		body:     dynamic(a.RearWheelCenter, 0, scene.KindWheel),
		fixtures: []physics.FixtureDef{material(physics.Circle(a.RearWheelRadius), physics.CategoryWheel)},
	}
	return frame, fork, front, swing, rear
}

func create(world *physics.World, p *part) *physics.Body {
	b := world.CreateBody(p.body)
	for _, fd := range p.fixtures {
		// shapes were validated by Build
		_, _ = world.AttachFixture(b, fd)
	}
	return b
}

// Root is the rig's top-level scene component.
func (r *Rig) Root() scene.Handle { return r.Frame }

// Joints lists the five rig joints in construction order.
func (r *Rig) Joints() []physics.Joint {
	if r.Slider == nil {
		return nil
	}
	return []physics.Joint{r.Slider, r.Spring, r.FrontAxle, r.Pivot, r.RearAxle}
}

// Destroy releases every body of the rig. Joints go with their bodies.
func (r *Rig) Destroy() error {
	if r.arena == nil {
		return nil
	}
	err := r.arena.Destroy(r.Frame)
	r.Slider, r.Spring, r.FrontAxle, r.Pivot, r.RearAxle = nil, nil, nil, nil, nil
	r.arena = nil
	return err
}
