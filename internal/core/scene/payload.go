package scene

import (
	"github.com/zeusync/motorig/internal/core/geometry"
	"github.com/zeusync/motorig/internal/core/physics"
)

type Kind uint8

const (
	KindGround Kind = iota
	KindFrame
	KindFork
	KindWheel
	KindSwingarm
)

func (k Kind) String() string {
	switch k {
	case KindGround:
		return "ground"
	case KindFrame:
		return "frame"
	case KindFork:
		return "fork"
	case KindWheel:
		return "wheel"
	case KindSwingarm:
		return "swingarm"
	default:
		return "unknown"
	}
}

// Payload is the per-kind data a node carries. The set of implementations is
// closed; draw and update switch on the concrete type.
type Payload interface {
	Kind() Kind
}

type Ground struct {
	HalfWidth  float64
	HalfHeight float64
}

// Frame carries body-local markers drawn on top of the frame fixtures.
type Frame struct {
	Centroid   geometry.Point
	ShockMount geometry.Point
}

// Fork tracks suspension travel from its slider joint.
type Fork struct {
	Slider *physics.Prismatic
	Travel float64
}

// Wheel accumulates rotation for display.
type Wheel struct {
	Radius      float64
	Revolutions float64
}

type Swingarm struct {
	Length float64
}

func (*Ground) Kind() Kind   { return KindGround }
func (*Frame) Kind() Kind    { return KindFrame }
func (*Fork) Kind() Kind     { return KindFork }
func (*Wheel) Kind() Kind    { return KindWheel }
func (*Swingarm) Kind() Kind { return KindSwingarm }
