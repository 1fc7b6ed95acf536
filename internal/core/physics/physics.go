package physics

import (
	"github.com/ByteArena/box2d"

	"github.com/zeusync/motorig/internal/core/geometry"
)

// Collision categories. Frame, fork and swingarm share CategoryFrame and
// never collide with each other; wheels only touch the ground.
const (
	CategoryGround uint16 = 0x0001
	CategoryFrame  uint16 = 0x0002
	CategoryWheel  uint16 = 0x0004
)

// MaskFor returns the collision mask for a category.
func MaskFor(category uint16) uint16 {
	switch category {
	case CategoryGround:
		return CategoryFrame | CategoryWheel
	case CategoryFrame, CategoryWheel:
		return CategoryGround
	default:
		return 0xFFFF
	}
}

type BodyType uint8

const (
	StaticBody BodyType = iota
	KinematicBody
	DynamicBody
)

func (t BodyType) engine() uint8 {
	switch t {
	case StaticBody:
		return box2d.B2BodyType.B2_staticBody
	case KinematicBody:
		return box2d.B2BodyType.B2_kinematicBody
	default:
		return box2d.B2BodyType.B2_dynamicBody
	}
}

// IsDynamic reports whether the engine simulates the body under forces.
func IsDynamic(b *Body) bool {
	return b != nil && b.GetType() == box2d.B2BodyType.B2_dynamicBody
}

type BodyDef struct {
	Type           BodyType
	Position       geometry.Point
	Angle          float64
	LinearDamping  float64
	AngularDamping float64
	UserData       any
}

type FixtureDef struct {
	Shape       Shape
	Density     float64
	Friction    float64
	Restitution float64
	Category    uint16
	Mask        uint16
	UserData    any
}

// PrismaticDef anchors are body-local. Limits are in metres along LocalAxisA.
type PrismaticDef struct {
	BodyA, BodyB   *Body
	LocalAnchorA   geometry.Point
	LocalAnchorB   geometry.Point
	LocalAxisA     geometry.Point
	ReferenceAngle float64
	EnableLimit    bool
	Lower, Upper   float64
}

// DistanceDef anchors are body-local.
type DistanceDef struct {
	BodyA, BodyB *Body
	LocalAnchorA geometry.Point
	LocalAnchorB geometry.Point
	Length       float64
	Frequency    float64
	DampingRatio float64
}

// RevoluteDef anchors the joint at a single world point.
type RevoluteDef struct {
	BodyA, BodyB *Body
	Anchor       geometry.Point
}

type Config struct {
	Gravity            float64
	VelocityIterations int
	PositionIterations int
}

func DefaultConfig() Config {
	return Config{Gravity: 9.81, VelocityIterations: 8, PositionIterations: 3}
}

// World owns one engine world. Gravity points along +y.
type World struct {
	b2  *box2d.B2World
	cfg Config
}

func NewWorld(cfg Config) *World {
	if cfg.VelocityIterations <= 0 {
		cfg.VelocityIterations = 8
	}
	if cfg.PositionIterations <= 0 {
		cfg.PositionIterations = 3
	}
	w := box2d.MakeB2World(box2d.MakeB2Vec2(0, cfg.Gravity))
	return &World{b2: &w, cfg: cfg}
}

func (w *World) Config() Config { return w.cfg }

// SetGravity changes gravity without rebuilding the world.
func (w *World) SetGravity(g float64) {
	w.cfg.Gravity = g
	w.b2.SetGravity(box2d.MakeB2Vec2(0, g))
}

func (w *World) CreateBody(def BodyDef) *Body {
	bd := box2d.MakeB2BodyDef()
	bd.Type = def.Type.engine()
	bd.Position = Vec(def.Position)
	bd.Angle = def.Angle
	bd.LinearDamping = def.LinearDamping
	bd.AngularDamping = def.AngularDamping
	bd.UserData = def.UserData
	return w.b2.CreateBody(&bd)
}

func (w *World) AttachFixture(b *Body, def FixtureDef) (*Fixture, error) {
	if b == nil {
		return nil, ErrNilBody
	}
	if err := def.Shape.Validate(); err != nil {
		return nil, err
	}
	fd := box2d.MakeB2FixtureDef()
	fd.Shape = def.Shape.engineShape()
	fd.Density = def.Density
	fd.Friction = def.Friction
	fd.Restitution = def.Restitution
	fd.Filter.CategoryBits = def.Category
	fd.Filter.MaskBits = def.Mask
	fd.UserData = def.UserData
	return b.CreateFixtureFromDef(&fd), nil
}

func (w *World) CreatePrismatic(def PrismaticDef) *box2d.B2PrismaticJoint {
	jd := box2d.MakeB2PrismaticJointDef()
	jd.BodyA = def.BodyA
	jd.BodyB = def.BodyB
	jd.LocalAnchorA = Vec(def.LocalAnchorA)
	jd.LocalAnchorB = Vec(def.LocalAnchorB)
	jd.LocalAxisA = Vec(geometry.Normalize(def.LocalAxisA))
	jd.ReferenceAngle = def.ReferenceAngle
	jd.EnableLimit = def.EnableLimit
	jd.LowerTranslation = def.Lower
	jd.UpperTranslation = def.Upper
	jd.EnableMotor = false
	return w.b2.CreateJoint(&jd).(*box2d.B2PrismaticJoint)
}

func (w *World) CreateDistance(def DistanceDef) *box2d.B2DistanceJoint {
	jd := box2d.MakeB2DistanceJointDef()
	jd.BodyA = def.BodyA
	jd.BodyB = def.BodyB
	jd.LocalAnchorA = Vec(def.LocalAnchorA)
	jd.LocalAnchorB = Vec(def.LocalAnchorB)
	jd.Length = def.Length
	jd.FrequencyHz = def.Frequency
	jd.DampingRatio = def.DampingRatio
	return w.b2.CreateJoint(&jd).(*box2d.B2DistanceJoint)
}

func (w *World) CreateRevolute(def RevoluteDef) *box2d.B2RevoluteJoint {
	jd := box2d.MakeB2RevoluteJointDef()
	jd.Initialize(def.BodyA, def.BodyB, Vec(def.Anchor))
	jd.EnableMotor = false
	return w.b2.CreateJoint(&jd).(*box2d.B2RevoluteJoint)
}

// CreatePointer attaches a spring-like mouse joint pulling body towards
// target. anchor is the body the joint is nominally fixed to, usually ground.
func (w *World) CreatePointer(anchor, body *Body, target geometry.Point) *box2d.B2MouseJoint {
	md := box2d.MakeB2MouseJointDef()
	md.BodyA = anchor
	md.BodyB = body
	md.Target = Vec(target)
	md.MaxForce = 1000 * body.GetMass()
	md.FrequencyHz = 5
	md.DampingRatio = 0.7
	body.SetAwake(true)
	return w.b2.CreateJoint(&md).(*box2d.B2MouseJoint)
}

func (w *World) Step(dt float64) {
	w.b2.Step(dt, w.cfg.VelocityIterations, w.cfg.PositionIterations)
}

// QueryPoint returns the first body with a fixture containing p inside a
// small box around p for which accept returns true.
func (w *World) QueryPoint(p geometry.Point, halfExtent float64, accept func(*Body) bool) *Body {
	aabb := box2d.MakeB2AABB()
	aabb.LowerBound = box2d.MakeB2Vec2(p.X-halfExtent, p.Y-halfExtent)
	aabb.UpperBound = box2d.MakeB2Vec2(p.X+halfExtent, p.Y+halfExtent)

	var found *Body
	target := Vec(p)
	w.b2.QueryAABB(func(fixture *box2d.B2Fixture) bool {
		body := fixture.GetBody()
		if accept != nil && !accept(body) {
			return true
		}
		if fixture.TestPoint(target) {
			found = body
			return false
		}
		return true
	}, aabb)
	return found
}

// DestroyBody removes a body together with its fixtures and attached joints.
func (w *World) DestroyBody(b *Body) {
	if b == nil {
		return
	}
	w.b2.DestroyBody(b)
}

func (w *World) DestroyJoint(j Joint) {
	if j == nil {
		return
	}
	w.b2.DestroyJoint(j)
}

func (w *World) BodyCount() int { return w.b2.GetBodyCount() }

func (w *World) JointCount() int { return w.b2.GetJointCount() }

// FixtureCount counts fixtures over every body in the world.
func (w *World) FixtureCount() int {
	n := 0
	for b := w.b2.GetBodyList(); b != nil; b = b.GetNext() {
		n += CountFixtures(b)
	}
	return n
}

// Joints lists every joint currently in the world.
func (w *World) Joints() []Joint {
	var out []Joint
	for j := w.b2.GetJointList(); j != nil; j = j.GetNext() {
		out = append(out, j)
	}
	return out
}

func CountFixtures(b *Body) int {
	n := 0
	for f := b.GetFixtureList(); f != nil; f = f.GetNext() {
		n++
	}
	return n
}

// Fixtures lists a body's fixtures.
func Fixtures(b *Body) []*Fixture {
	var out []*Fixture
	for f := b.GetFixtureList(); f != nil; f = f.GetNext() {
		out = append(out, f)
	}
	return out
}
