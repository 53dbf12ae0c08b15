package vr

import (
	"vrsandbox/internal/camera"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// HandOffsets place emulated controllers relative to the head (x right, y up, -z forward).
var HandOffsets = map[Hand]mgl32.Vec3{
	Primary:   {0.2, -0.25, -0.45},
	Secondary: {-0.2, -0.25, -0.45},
}

// EmulatorInput is one frame of desktop input mapped onto controller state.
type EmulatorInput struct {
	Head      camera.Input
	Connected map[Hand]bool
	Trigger   map[Hand]float32
	// PadTouched/Pad apply to the primary controller.
	PadTouched bool
	Pad        mgl32.Vec2
	// Tracker puts a tracker into the secondary slot to exercise mismatch handling.
	Tracker bool
}

// Emulator produces snapshots without a headset: the head is mouse-look and
// the controllers hang at fixed offsets from it.
type Emulator struct {
	Head  *camera.Head
	Stage mgl32.Mat4
}

func NewEmulator(head *camera.Head) *Emulator {
	return &Emulator{Head: head, Stage: mgl32.Ident4()}
}

// Poll advances the emulated head and returns this frame's snapshot.
func (e *Emulator) Poll(in EmulatorInput, deltaTime float32) Snapshot {
	e.Head.Update(in.Head, deltaTime)
	head := e.Head.Pose()

	snap := NewSnapshot()
	snap.Stage = e.Stage
	snap.HMD = head
	for _, h := range Hands {
		if !in.Connected[h] {
			continue
		}
		off := HandOffsets[h]
		dev := DeviceState{
			Class:     DeviceController,
			Connected: true,
			Pose:      head.Mul4(mgl32.Translate3D(off.X(), off.Y(), off.Z())),
			Trigger:   in.Trigger[h],
		}
		if h == Primary && in.PadTouched {
			dev.PadTouched = true
			dev.Pad = in.Pad
		}
		if h == Secondary && in.Tracker {
			dev.Class = DeviceTracker
		}
		snap.Devices[h] = dev
	}
	return snap
}

// Keys maps desktop controls onto the emulator.
type Keys struct {
	TogglePrimary   int32
	ToggleSecondary int32
	ToggleTracker   int32
}

var DefaultKeys = Keys{
	TogglePrimary:   rl.KeyOne,
	ToggleSecondary: rl.KeyTwo,
	ToggleTracker:   rl.KeyThree,
}

// DesktopControls holds the toggle state read from the keyboard across frames.
type DesktopControls struct {
	Keys      Keys
	connected map[Hand]bool
	tracker   bool
}

func NewDesktopControls() *DesktopControls {
	return &DesktopControls{
		Keys:      DefaultKeys,
		connected: map[Hand]bool{Primary: true, Secondary: true},
	}
}

// Read samples raylib input: left/right mouse buttons pull the triggers, the
// wheel-click touches the primary pad at the cursor's screen position.
func (d *DesktopControls) Read() EmulatorInput {
	if rl.IsKeyPressed(d.Keys.TogglePrimary) {
		d.connected[Primary] = !d.connected[Primary]
	}
	if rl.IsKeyPressed(d.Keys.ToggleSecondary) {
		d.connected[Secondary] = !d.connected[Secondary]
	}
	if rl.IsKeyPressed(d.Keys.ToggleTracker) {
		d.tracker = !d.tracker
	}

	in := EmulatorInput{
		Head:      camera.ReadInput(),
		Connected: map[Hand]bool{Primary: d.connected[Primary], Secondary: d.connected[Secondary]},
		Trigger:   map[Hand]float32{},
		Tracker:   d.tracker,
	}
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		in.Trigger[Primary] = 1
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		in.Trigger[Secondary] = 1
	}
	if rl.IsMouseButtonDown(rl.MouseMiddleButton) {
		mouse := rl.GetMousePosition()
		w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
		in.PadTouched = true
		in.Pad = mgl32.Vec2{2*mouse.X/w - 1, 1 - 2*mouse.Y/h}
	}
	return in
}
