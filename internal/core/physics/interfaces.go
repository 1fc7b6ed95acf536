package physics

import (
	"github.com/ByteArena/box2d"

	"github.com/zeusync/motorig/internal/core/geometry"
)

// Engine handle aliases. Packages above physics talk about bodies and joints
// through these names and never construct box2d values themselves.
type (
	Body      = box2d.B2Body
	Fixture   = box2d.B2Fixture
	Joint     = box2d.B2JointInterface
	Prismatic = box2d.B2PrismaticJoint
	Distance  = box2d.B2DistanceJoint
	Revolute  = box2d.B2RevoluteJoint
	Pointer   = box2d.B2MouseJoint
)

// BodyDestroyer releases bodies. The scene arena only needs this much of the
// world.
type BodyDestroyer interface {
	DestroyBody(*Body)
}

// Vec converts a point into an engine vector.
func Vec(p geometry.Point) box2d.B2Vec2 { return box2d.MakeB2Vec2(p.X, p.Y) }

// Pt converts an engine vector into a point.
func Pt(v box2d.B2Vec2) geometry.Point { return geometry.Point{X: v.X, Y: v.Y} }

// Anchored is implemented by every engine joint.
type Anchored interface {
	GetAnchorA() box2d.B2Vec2
	GetAnchorB() box2d.B2Vec2
}

// Anchors returns a joint's two anchors in world space.
func Anchors(j Anchored) (a, b geometry.Point) {
	return Pt(j.GetAnchorA()), Pt(j.GetAnchorB())
}

// WorldPoint maps a body-local point to world space.
func WorldPoint(b *Body, local geometry.Point) geometry.Point {
	return Pt(b.GetWorldPoint(Vec(local)))
}
