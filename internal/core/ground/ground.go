// Package ground builds the static surface the rig rests on.
package ground

import (
	"github.com/zeusync/motorig/internal/core/params"
	"github.com/zeusync/motorig/internal/core/physics"
	"github.com/zeusync/motorig/internal/core/rig"
	"github.com/zeusync/motorig/internal/core/scene"
)

// New creates the static ground body described by geometry and registers it
// as a leaf node in arena.
func New(world *physics.World, arena *scene.Arena, geometry rig.Rect, sim *params.Simulation) (scene.Handle, error) {
	shape := physics.Box(geometry.HalfWidth, geometry.HalfHeight)
	if err := shape.Validate(); err != nil {
		return scene.Handle{}, err
	}

	body := world.CreateBody(physics.BodyDef{
		Type:     physics.StaticBody,
		Position: geometry.Center,
		UserData: scene.KindGround,
	})
	if _, err := world.AttachFixture(body, physics.FixtureDef{
		Shape:    shape,
		Friction: sim.GroundFriction.Value,
		Category: physics.CategoryGround,
		Mask:     physics.MaskFor(physics.CategoryGround),
	}); err != nil {
		world.DestroyBody(body)
		return scene.Handle{}, err
	}

	return arena.New(body, &scene.Ground{
		HalfWidth:  geometry.HalfWidth,
		HalfHeight: geometry.HalfHeight,
	}), nil
}
