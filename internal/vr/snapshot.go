// Package vr tracks hand-held controllers from per-frame device snapshots.
//
// The VR runtime is consumed through Snapshot, a typed copy of everything the
// frame needs from the device layer. Poses at this boundary are mathgl
// matrices, the layout runtime SDK bindings hand out; ControllerState converts
// them to raylib types for the rest of the engine.
package vr

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Hand names a controller slot.
type Hand int

const (
	Primary Hand = iota
	Secondary
)

// Hands lists the slots in update and draw order.
var Hands = [...]Hand{Primary, Secondary}

func (h Hand) String() string {
	switch h {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	}
	return fmt.Sprintf("Hand(%d)", int(h))
}

// DeviceClass is the kind of tracked device occupying a slot.
type DeviceClass int

const (
	DeviceInvalid DeviceClass = iota
	DeviceHMD
	DeviceController
	DeviceTracker
	DeviceReference
)

func (c DeviceClass) String() string {
	switch c {
	case DeviceInvalid:
		return "invalid"
	case DeviceHMD:
		return "hmd"
	case DeviceController:
		return "controller"
	case DeviceTracker:
		return "tracker"
	case DeviceReference:
		return "tracking-reference"
	}
	return fmt.Sprintf("DeviceClass(%d)", int(c))
}

// DeviceState is the polled state of one slot.
type DeviceState struct {
	Class      DeviceClass
	Connected  bool
	Pose       mgl32.Mat4 // tracking space
	Trigger    float32    // analog, nominally [0,1]
	PadTouched bool
	Pad        mgl32.Vec2 // touch position, [-1,1] on both axes
}

// Snapshot is everything the frame reads from the VR runtime.
type Snapshot struct {
	Stage   mgl32.Mat4 // world to stage (tracking) space
	HMD     mgl32.Mat4 // head pose in tracking space
	Devices map[Hand]DeviceState
}

// NewSnapshot returns a snapshot with identity stage and head and no devices.
func NewSnapshot() Snapshot {
	return Snapshot{
		Stage:   mgl32.Ident4(),
		HMD:     mgl32.Ident4(),
		Devices: make(map[Hand]DeviceState),
	}
}

// Slot returns the device in a controller slot, if any.
func (s Snapshot) Slot(h Hand) (DeviceState, bool) {
	d, ok := s.Devices[h]
	return d, ok
}

// TrackedController is a connected controller and its pose.
type TrackedController struct {
	Hand Hand
	Pose rl.Matrix
}

// TrackedControllers enumerates connected controller-class devices in hand order.
func (s Snapshot) TrackedControllers() []TrackedController {
	var out []TrackedController
	for _, h := range Hands {
		d, ok := s.Devices[h]
		if !ok || !d.Connected || d.Class != DeviceController {
			continue
		}
		out = append(out, TrackedController{Hand: h, Pose: ToMatrix(d.Pose)})
	}
	return out
}

// StageMatrix returns the stage transform as a raylib matrix.
func (s Snapshot) StageMatrix() rl.Matrix {
	return ToMatrix(s.Stage)
}

// ToMatrix converts a mathgl matrix to raylib. Both are column-major with the
// translation in elements 12..14.
func ToMatrix(m mgl32.Mat4) rl.Matrix {
	if m == (mgl32.Mat4{}) {
		return rl.MatrixIdentity()
	}
	return rl.Matrix{
		M0: m[0], M4: m[4], M8: m[8], M12: m[12],
		M1: m[1], M5: m[5], M9: m[9], M13: m[13],
		M2: m[2], M6: m[6], M10: m[10], M14: m[14],
		M3: m[3], M7: m[7], M11: m[11], M15: m[15],
	}
}

// Translation extracts the position of a raylib transform.
func Translation(m rl.Matrix) rl.Vector3 {
	return rl.Vector3{X: m.M12, Y: m.M13, Z: m.M14}
}
