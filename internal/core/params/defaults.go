package params

func meters(name string, v float64) Parameter { return Parameter{DisplayName: name, Value: v, Unit: "m"} }

// Defaults returns a parameter set resembling a mid-size street motorcycle.
func Defaults() *Set {
	return &Set{
		Frame: &Frame{
			HeadTubeLength:          meters("Head tube length", 0.20),
			PivotToHeadTubeBottom:   meters("Pivot to head tube bottom", 0.75),
			PivotToHeadTubeTop:      meters("Pivot to head tube top", 0.70),
			PivotToShockMount:       meters("Pivot to shock mount", 0.30),
			HeadTubeTopToShockMount: meters("Head tube top to shock mount", 0.45),
			TopForkLength:           meters("Top fork length", 0.45),
			BottomForkLength:        meters("Bottom fork length", 0.40),
			TopForkWidth:            meters("Top fork width", 0.06),
			BottomForkWidth:         meters("Bottom fork width", 0.045),
			SwingarmLength:          meters("Swingarm length", 0.55),
			SwingarmWidth:           meters("Swingarm width", 0.06),
			FrontWheelDiameter:      meters("Front wheel diameter", 0.60),
			RearWheelDiameter:       meters("Rear wheel diameter", 0.62),
		},
		Simulation: &Simulation{
			GroundWidth:        meters("Ground width", 20),
			GroundHeight:       meters("Ground height", 0.5),
			SpringFrequency:    Parameter{DisplayName: "Spring frequency", Value: 4, Unit: "Hz"},
			SpringDampingRatio: Parameter{DisplayName: "Spring damping ratio", Value: 0.5},
			Density:            Parameter{DisplayName: "Material density", Value: 200, Unit: "kg/m²"},
			Friction:           Parameter{DisplayName: "Friction", Value: 0.6},
			Restitution:        Parameter{DisplayName: "Restitution", Value: 0.1},
			GroundFriction:     Parameter{DisplayName: "Ground friction", Value: 0.9},
			Gravity:            Parameter{DisplayName: "Gravity", Value: 9.81, Unit: "m/s²"},
			LinearDamping:      Parameter{DisplayName: "Linear damping", Value: 0},
			AngularDamping:     Parameter{DisplayName: "Angular damping", Value: 0.05},
		},
	}
}
