package params

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Parameter is a single named physical quantity as the UI presents it.
type Parameter struct {
	DisplayName string  `json:"display_name" yaml:"display_name"`
	Value       float64 `json:"value" yaml:"value"`
	Unit        string  `json:"unit" yaml:"unit"`
}

// Frame holds the motorcycle's tube lengths, pivot distances and wheel sizes.
type Frame struct {
	HeadTubeLength          Parameter `json:"head_tube_length" yaml:"head_tube_length"`
	PivotToHeadTubeBottom   Parameter `json:"pivot_to_head_tube_bottom" yaml:"pivot_to_head_tube_bottom"`
	PivotToHeadTubeTop      Parameter `json:"pivot_to_head_tube_top" yaml:"pivot_to_head_tube_top"`
	PivotToShockMount       Parameter `json:"pivot_to_shock_mount" yaml:"pivot_to_shock_mount"`
	HeadTubeTopToShockMount Parameter `json:"head_tube_top_to_shock_mount" yaml:"head_tube_top_to_shock_mount"`
	TopForkLength           Parameter `json:"top_fork_length" yaml:"top_fork_length"`
	BottomForkLength        Parameter `json:"bottom_fork_length" yaml:"bottom_fork_length"`
	TopForkWidth            Parameter `json:"top_fork_width" yaml:"top_fork_width"`
	BottomForkWidth         Parameter `json:"bottom_fork_width" yaml:"bottom_fork_width"`
	SwingarmLength          Parameter `json:"swingarm_length" yaml:"swingarm_length"`
	SwingarmWidth           Parameter `json:"swingarm_width" yaml:"swingarm_width"`
	FrontWheelDiameter      Parameter `json:"front_wheel_diameter" yaml:"front_wheel_diameter"`
	RearWheelDiameter       Parameter `json:"rear_wheel_diameter" yaml:"rear_wheel_diameter"`
}

// Simulation holds the world and material settings.
type Simulation struct {
	GroundWidth        Parameter `json:"ground_width" yaml:"ground_width"`
	GroundHeight       Parameter `json:"ground_height" yaml:"ground_height"`
	SpringFrequency    Parameter `json:"spring_frequency" yaml:"spring_frequency"`
	SpringDampingRatio Parameter `json:"spring_damping_ratio" yaml:"spring_damping_ratio"`
	Density            Parameter `json:"density" yaml:"density"`
	Friction           Parameter `json:"friction" yaml:"friction"`
	Restitution        Parameter `json:"restitution" yaml:"restitution"`
	GroundFriction     Parameter `json:"ground_friction" yaml:"ground_friction"`
	Gravity            Parameter `json:"gravity" yaml:"gravity"`
	LinearDamping      Parameter `json:"linear_damping" yaml:"linear_damping"`
	AngularDamping     Parameter `json:"angular_damping" yaml:"angular_damping"`
}

// Set is a full parameter snapshot. Both groups are required.
type Set struct {
	Frame      *Frame      `json:"frame" yaml:"frame"`
	Simulation *Simulation `json:"simulation" yaml:"simulation"`
}

// Entry pairs a parameter with its stable key.
type Entry struct {
	Group string `json:"group"`
	Key   string `json:"key"`
	Parameter
}

const (
	GroupFrame      = "frame"
	GroupSimulation = "simulation"
)

type ref struct {
	key string
	p   *Parameter
	// positive marks values that must be > 0; the rest must be >= 0
	positive bool
}

func (f *Frame) refs() []ref {
	return []ref{
		{"head_tube_length", &f.HeadTubeLength, true},
		{"pivot_to_head_tube_bottom", &f.PivotToHeadTubeBottom, true},
		{"pivot_to_head_tube_top", &f.PivotToHeadTubeTop, true},
		{"pivot_to_shock_mount", &f.PivotToShockMount, true},
		{"head_tube_top_to_shock_mount", &f.HeadTubeTopToShockMount, true},
		{"top_fork_length", &f.TopForkLength, true},
		{"bottom_fork_length", &f.BottomForkLength, true},
		{"top_fork_width", &f.TopForkWidth, true},
		{"bottom_fork_width", &f.BottomForkWidth, true},
		{"swingarm_length", &f.SwingarmLength, true},
		{"swingarm_width", &f.SwingarmWidth, true},
		{"front_wheel_diameter", &f.FrontWheelDiameter, true},
		{"rear_wheel_diameter", &f.RearWheelDiameter, true},
	}
}

func (s *Simulation) refs() []ref {
	return []ref{
		{"ground_width", &s.GroundWidth, true},
		{"ground_height", &s.GroundHeight, true},
		{"spring_frequency", &s.SpringFrequency, false},
		{"spring_damping_ratio", &s.SpringDampingRatio, false},
		{"density", &s.Density, true},
		{"friction", &s.Friction, false},
		{"restitution", &s.Restitution, false},
		{"ground_friction", &s.GroundFriction, false},
		{"gravity", &s.Gravity, false},
		{"linear_damping", &s.LinearDamping, false},
		{"angular_damping", &s.AngularDamping, false},
	}
}

// Entries lists every parameter in a stable order.
func (s *Set) Entries() []Entry {
	var out []Entry
	if s.Frame != nil {
		for _, r := range s.Frame.refs() {
			out = append(out, Entry{Group: GroupFrame, Key: r.key, Parameter: *r.p})
		}
	}
	if s.Simulation != nil {
		for _, r := range s.Simulation.refs() {
			out = append(out, Entry{Group: GroupSimulation, Key: r.key, Parameter: *r.p})
		}
	}
	return out
}

// Validate checks that both groups exist and that every value is a finite
// number in range. Triangle inequalities are left to the rig builder.
func (s *Set) Validate() error {
	if err := s.CheckGroups(); err != nil {
		return err
	}
	if err := checkRefs(GroupFrame, s.Frame.refs()); err != nil {
		return err
	}
	return checkRefs(GroupSimulation, s.Simulation.refs())
}

// CheckGroups reports the first missing parameter group.
func (s *Set) CheckGroups() error {
	if s == nil || s.Frame == nil {
		return &ParameterError{Group: GroupFrame, Err: ErrMissingGroup}
	}
	if s.Simulation == nil {
		return &ParameterError{Group: GroupSimulation, Err: ErrMissingGroup}
	}
	return nil
}

func checkRefs(group string, refs []ref) error {
	for _, r := range refs {
		v := r.p.Value
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			return &ParameterError{Group: group, Name: r.key, Reason: "not a finite number", Err: ErrInvalidValue}
		case r.positive && v <= 0:
			return &ParameterError{Group: group, Name: r.key, Reason: "must be positive", Err: ErrInvalidValue}
		case !r.positive && v < 0:
			return &ParameterError{Group: group, Name: r.key, Reason: "must not be negative", Err: ErrInvalidValue}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (s *Set) Clone() *Set {
	out := &Set{}
	if s.Frame != nil {
		f := *s.Frame
		out.Frame = &f
	}
	if s.Simulation != nil {
		sim := *s.Simulation
		out.Simulation = &sim
	}
	return out
}

// With returns a copy of the set with one value replaced.
func (s *Set) With(group, key string, value float64) (*Set, error) {
	out := s.Clone()
	var refs []ref
	switch group {
	case GroupFrame:
		if out.Frame == nil {
			return nil, &ParameterError{Group: group, Err: ErrMissingGroup}
		}
		refs = out.Frame.refs()
	case GroupSimulation:
		if out.Simulation == nil {
			return nil, &ParameterError{Group: group, Err: ErrMissingGroup}
		}
		refs = out.Simulation.refs()
	default:
		return nil, &ParameterError{Group: group, Err: ErrUnknownParameter}
	}
	for _, r := range refs {
		if r.key == key {
			r.p.Value = value
			return out, nil
		}
	}
	return nil, &ParameterError{Group: group, Name: key, Err: ErrUnknownParameter}
}

// Fingerprint hashes every key and value so callers can tell two snapshots
// apart without comparing them field by field.
func (s *Set) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, e := range s.Entries() {
		_, _ = d.WriteString(e.Group)
		_, _ = d.WriteString(e.Key)
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(e.Value))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
