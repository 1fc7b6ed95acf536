// Package simulation owns the physics world, the ground and the rig, and
// steps and draws them frame by frame.
package simulation

import (
	"fmt"

	"github.com/zeusync/motorig/internal/core/events/bus"
	"github.com/zeusync/motorig/internal/core/geometry"
	"github.com/zeusync/motorig/internal/core/ground"
	"github.com/zeusync/motorig/internal/core/observability/log"
	"github.com/zeusync/motorig/internal/core/params"
	"github.com/zeusync/motorig/internal/core/physics"
	"github.com/zeusync/motorig/internal/core/render"
	"github.com/zeusync/motorig/internal/core/rig"
	"github.com/zeusync/motorig/internal/core/scene"
)

type Config struct {
	TimeStep           float64 `yaml:"time_step"`
	VelocityIterations int     `yaml:"velocity_iterations"`
	PositionIterations int     `yaml:"position_iterations"`
	// PointerHalfExtent is the half size of the box queried under the pointer.
	PointerHalfExtent float64 `yaml:"pointer_half_extent"`
}

func DefaultConfig() Config {
	return Config{
		TimeStep:           1.0 / 60.0,
		VelocityIterations: 8,
		PositionIterations: 3,
		PointerHalfExtent:  0.001,
	}
}

// Simulation is not safe for concurrent use. Run it from a Runner when more
// than one goroutine needs it.
type Simulation struct {
	cfg     Config
	logger  log.Log
	events  bus.EventBus
	surface render.Surface

	world  *physics.World
	arena  *scene.Arena
	ground scene.Handle
	rig    *rig.Rig
	set    *params.Set

	running bool
	drag    *physics.Pointer
	frame   uint64
}

// New creates an empty simulation. surface and events may be nil.
func New(cfg Config, surface render.Surface, logger log.Log, events bus.EventBus) *Simulation {
	if cfg.TimeStep <= 0 {
		cfg.TimeStep = DefaultConfig().TimeStep
	}
	if cfg.PointerHalfExtent <= 0 {
		cfg.PointerHalfExtent = DefaultConfig().PointerHalfExtent
	}
	return &Simulation{
		cfg:     cfg,
		logger:  logger.With(log.String("component", "simulation")),
		events:  events,
		surface: surface,
	}
}

// CreateWorld replaces the whole world: a fresh engine world with a new
// ground and rig built from set. On failure the current world is kept.
func (s *Simulation) CreateWorld(set *params.Set) error {
	if err := set.CheckGroups(); err != nil {
		return s.failed(set, err)
	}
	world := physics.NewWorld(physics.Config{
		Gravity:            set.Simulation.Gravity.Value,
		VelocityIterations: s.cfg.VelocityIterations,
		PositionIterations: s.cfg.PositionIterations,
	})
	arena := scene.NewArena(world)

	g, r, err := populate(world, arena, set)
	if err != nil {
		return s.failed(set, err)
	}

	s.releasePointer()
	s.teardown()
	s.world, s.arena, s.ground, s.rig, s.set = world, arena, g, r, set.Clone()
	s.frame = 0

	s.logger.Info("world created", s.rigFields()...)
	s.publish(EventWorldCreated, s.rigEvent(nil))
	return nil
}

// UpdateBodies rebuilds the ground and rig from set inside the current
// world. The old components are destroyed only once the new ones exist, so a
// failed rebuild leaves the previous rig untouched.
func (s *Simulation) UpdateBodies(set *params.Set) error {
	if s.world == nil {
		return s.CreateWorld(set)
	}
	if err := set.CheckGroups(); err != nil {
		return s.failed(set, err)
	}

	g, r, err := populate(s.world, s.arena, set)
	if err != nil {
		return s.failed(set, err)
	}

	s.releasePointer()
	s.teardown()
	s.ground, s.rig, s.set = g, r, set.Clone()
	s.world.SetGravity(set.Simulation.Gravity.Value)

	s.logger.Info("rig rebuilt", s.rigFields()...)
	s.publish(EventRigRebuilt, s.rigEvent(nil))
	return nil
}

// Reset rebuilds from the current parameter set.
func (s *Simulation) Reset() error {
	if s.set == nil {
		return ErrNoWorld
	}
	return s.UpdateBodies(s.set)
}

func populate(world *physics.World, arena *scene.Arena, set *params.Set) (scene.Handle, *rig.Rig, error) {
	r, err := rig.Build(world, arena, set)
	if err != nil {
		return scene.Handle{}, nil, err
	}
	g, err := ground.New(world, arena, r.Anchors.GroundGeometry, set.Simulation)
	if err != nil {
		_ = r.Destroy()
		return scene.Handle{}, nil, fmt.Errorf("ground: %w", err)
	}
	return g, r, nil
}

func (s *Simulation) teardown() {
	if s.rig != nil {
		if err := s.rig.Destroy(); err != nil {
			s.logger.Warn("rig destroy", log.Error(err))
		}
		s.rig = nil
	}
	if s.arena != nil && s.arena.Valid(s.ground) {
		_ = s.arena.Destroy(s.ground)
	}
	s.ground = scene.Handle{}
}

func (s *Simulation) failed(set *params.Set, err error) error {
	s.logger.Warn("rig rebuild failed", log.Error(err))
	ev := s.rigEvent(err)
	if set != nil && set.CheckGroups() == nil {
		ev.Fingerprint = set.Fingerprint()
	}
	s.publish(EventRigRebuildFailed, ev)
	return err
}

func (s *Simulation) SetRunning(running bool) {
	if s.running != running {
		s.logger.Debug("running changed", log.Bool("running", running))
	}
	s.running = running
}

func (s *Simulation) Running() bool { return s.running }

// Frame advances the world by one fixed step when running, updates every
// component and redraws. It never creates or destroys bodies.
func (s *Simulation) Frame() {
	if s.world == nil {
		return
	}
	if s.running {
		s.world.Step(s.cfg.TimeStep)
		s.frame++
		tick := scene.Tick{Dt: s.cfg.TimeStep, Frame: s.frame}
		for _, h := range s.roots() {
			_ = s.arena.Update(h, tick)
		}
	}
	s.Draw()
}

// Draw renders every top-level component and the active pointer joint.
func (s *Simulation) Draw() {
	if s.surface == nil || s.world == nil {
		return
	}
	framer, framed := s.surface.(render.Framer)
	if framed {
		framer.Begin()
	}
	for _, h := range s.roots() {
		_ = s.arena.Draw(h, s.surface)
	}
	if s.drag != nil {
		_, b := physics.Anchors(s.drag)
		s.surface.Line(physics.Pt(s.drag.GetTarget()), b, render.Style{Color: render.ColorPointer})
	}
	if framed {
		framer.Show()
	}
}

func (s *Simulation) roots() []scene.Handle {
	var out []scene.Handle
	if s.arena.Valid(s.ground) {
		out = append(out, s.ground)
	}
	if s.rig != nil {
		out = append(out, s.rig.Root())
	}
	return out
}

// PointerDown grabs the dynamic body under p, if any, with a mouse joint
// anchored on the ground. It reports whether something was grabbed.
func (s *Simulation) PointerDown(p geometry.Point) (bool, error) {
	if s.world == nil {
		return false, ErrNoWorld
	}
	s.releasePointer()

	body := s.world.QueryPoint(p, s.cfg.PointerHalfExtent, physics.IsDynamic)
	if body == nil {
		return false, nil
	}
	s.drag = s.world.CreatePointer(s.arena.Body(s.ground), body, p)
	s.publish(EventPointerAttached, PointerEvent{Kind: fmt.Sprint(body.GetUserData()), X: p.X, Y: p.Y})
	return true, nil
}

// PointerMove retargets the active pointer joint.
func (s *Simulation) PointerMove(p geometry.Point) {
	if s.drag != nil {
		s.drag.SetTarget(physics.Vec(p))
	}
}

func (s *Simulation) PointerUp() {
	s.releasePointer()
}

// Dragging reports whether a pointer joint is attached.
func (s *Simulation) Dragging() bool { return s.drag != nil }

func (s *Simulation) releasePointer() {
	if s.drag == nil {
		return
	}
	target := physics.Pt(s.drag.GetTarget())
	s.world.DestroyJoint(s.drag)
	s.drag = nil
	s.publish(EventPointerReleased, PointerEvent{X: target.X, Y: target.Y})
}

// Params returns a copy of the parameter set the current rig was built from.
func (s *Simulation) Params() *params.Set {
	if s.set == nil {
		return nil
	}
	return s.set.Clone()
}

// Rig exposes the current rig for read access.
func (s *Simulation) Rig() *rig.Rig { return s.rig }

// World exposes the engine world for read access.
func (s *Simulation) World() *physics.World { return s.world }

func (s *Simulation) rigFields() []log.Field {
	fields := []log.Field{
		log.Int("bodies", s.world.BodyCount()),
		log.Int("joints", s.world.JointCount()),
		log.Uint64("fingerprint", s.set.Fingerprint()),
	}
	if s.rig != nil {
		fields = append(fields,
			log.String("rig", s.rig.ID),
			log.Float64("spring_rest_length", s.rig.Anchors.SpringRestLength),
		)
	}
	return fields
}

func (s *Simulation) rigEvent(err error) RigEvent {
	var ev RigEvent
	if s.world != nil {
		ev.Bodies = s.world.BodyCount()
		ev.Joints = s.world.JointCount()
	}
	if s.rig != nil {
		ev.RigID = s.rig.ID
	}
	if s.set != nil {
		ev.Fingerprint = s.set.Fingerprint()
	}
	if err != nil {
		ev.Error = err.Error()
	}
	return ev
}

func (s *Simulation) publish(eventType string, data any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(bus.NewEvent(eventType, eventSource, data, nil)); err != nil {
		s.logger.Warn("event handler failed", log.String("event", eventType), log.Error(err))
	}
}
