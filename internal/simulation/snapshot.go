package simulation

import (
	"github.com/zeusync/motorig/internal/core/geometry"
	"github.com/zeusync/motorig/internal/core/physics"
	"github.com/zeusync/motorig/internal/core/scene"
)

// Snapshot is a read-only view of the world for UIs. Every coordinate is in
// world space.
type Snapshot struct {
	Frame       uint64           `json:"frame"`
	Running     bool             `json:"running"`
	Dragging    bool             `json:"dragging"`
	RigID       string           `json:"rig_id"`
	Fingerprint uint64           `json:"fingerprint"`
	ForkTravel  float64          `json:"fork_travel"`
	Components  []ComponentState `json:"components"`
	Joints      []JointState     `json:"joints"`
}

type ComponentState struct {
	Kind     string         `json:"kind"`
	Position geometry.Point `json:"position"`
	Angle    float64        `json:"angle"`
	Fixtures []FixtureState `json:"fixtures"`
}

type FixtureState struct {
	Shape    string           `json:"shape"`
	Vertices []geometry.Point `json:"vertices,omitempty"`
	Center   geometry.Point   `json:"center"`
	Radius   float64          `json:"radius,omitempty"`
}

type JointState struct {
	Name    string         `json:"name"`
	AnchorA geometry.Point `json:"anchor_a"`
	AnchorB geometry.Point `json:"anchor_b"`
}

// Snapshot captures every component in draw order and the rig joints.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{Frame: s.frame, Running: s.running, Dragging: s.drag != nil}
	if s.world == nil {
		return snap
	}
	snap.Fingerprint = s.set.Fingerprint()

	for _, root := range s.roots() {
		s.arena.Walk(root, func(h scene.Handle) bool {
			if body := s.arena.Body(h); body != nil {
				snap.Components = append(snap.Components, componentState(body, s.arena.Payload(h)))
			}
			return true
		})
	}

	if r := s.rig; r != nil {
		snap.RigID = r.ID
		if fork, ok := s.arena.Payload(r.Fork).(*scene.Fork); ok {
			snap.ForkTravel = fork.Travel
		}
		named := []struct {
			name  string
			joint physics.Anchored
		}{
			{"slider", r.Slider},
			{"spring", r.Spring},
			{"front_axle", r.FrontAxle},
			{"pivot", r.Pivot},
			{"rear_axle", r.RearAxle},
		}
		for _, j := range named {
			a, b := physics.Anchors(j.joint)
			snap.Joints = append(snap.Joints, JointState{Name: j.name, AnchorA: a, AnchorB: b})
		}
	}
	if s.drag != nil {
		_, b := physics.Anchors(s.drag)
		snap.Joints = append(snap.Joints, JointState{Name: "pointer", AnchorA: physics.Pt(s.drag.GetTarget()), AnchorB: b})
	}
	return snap
}

func componentState(body *physics.Body, payload scene.Payload) ComponentState {
	c := ComponentState{
		Position: physics.Pt(body.GetPosition()),
		Angle:    body.GetAngle(),
	}
	if payload != nil {
		c.Kind = payload.Kind().String()
	}
	for _, f := range physics.Fixtures(body) {
		sh := physics.ShapeOf(f)
		fs := FixtureState{Shape: sh.Kind.String(), Radius: sh.Radius}
		switch sh.Kind {
		case physics.ShapeCircle:
			fs.Center = physics.WorldPoint(body, sh.Center)
		default:
			fs.Vertices = make([]geometry.Point, len(sh.Vertices))
			for i, v := range sh.Vertices {
				fs.Vertices[i] = physics.WorldPoint(body, v)
			}
			fs.Center = geometry.Centroid(fs.Vertices...)
		}
		c.Fixtures = append(c.Fixtures, fs)
	}
	return c
}
