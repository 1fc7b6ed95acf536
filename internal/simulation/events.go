package simulation

// Event types published on the bus.
const (
	EventWorldCreated     = "world.created"
	EventRigRebuilt       = "rig.rebuilt"
	EventRigRebuildFailed = "rig.rebuild_failed"
	EventPointerAttached  = "pointer.attached"
	EventPointerReleased  = "pointer.released"
)

const eventSource = "simulation"

// RigEvent is the payload of world and rig events.
type RigEvent struct {
	RigID       string `json:"rig_id,omitempty"`
	Fingerprint uint64 `json:"fingerprint"`
	Bodies      int    `json:"bodies"`
	Joints      int    `json:"joints"`
	Error       string `json:"error,omitempty"`
}

// PointerEvent is the payload of pointer events.
type PointerEvent struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}
