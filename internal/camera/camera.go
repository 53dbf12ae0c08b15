// Package camera drives the emulated headset on desktop and turns head poses
// into raylib cameras for the mirror window.
package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Input is one frame of desktop look/move input.
type Input struct {
	MouseDelta rl.Vector2
	Forward    bool
	Back       bool
	Left       bool
	Right      bool
	Up         bool
	Down       bool
}

// Head is a mouse-look head that stands in for a tracked headset.
type Head struct {
	Position  rl.Vector3
	Yaw       float32 // degrees, 0 looks down -Z
	Pitch     float32 // degrees
	MoveSpeed float32
	LookSpeed float32
}

func New(pos rl.Vector3) *Head {
	return &Head{
		Position:  pos,
		Yaw:       0,
		Pitch:     -15.0,
		MoveSpeed: 1.5, // Units per second
		LookSpeed: 0.1,
	}
}

// ReadInput samples the raylib keyboard and mouse.
func ReadInput() Input {
	return Input{
		MouseDelta: rl.GetMouseDelta(),
		Forward:    rl.IsKeyDown(rl.KeyW),
		Back:       rl.IsKeyDown(rl.KeyS),
		Left:       rl.IsKeyDown(rl.KeyA),
		Right:      rl.IsKeyDown(rl.KeyD),
		Up:         rl.IsKeyDown(rl.KeyE),
		Down:       rl.IsKeyDown(rl.KeyQ),
	}
}

func (h *Head) Update(in Input, deltaTime float32) {
	// Mouse look
	h.Yaw -= in.MouseDelta.X * h.LookSpeed
	h.Pitch -= in.MouseDelta.Y * h.LookSpeed

	// Clamp pitch
	if h.Pitch > 89 {
		h.Pitch = 89
	}
	if h.Pitch < -89 {
		h.Pitch = -89
	}

	// Calculate movement vectors (horizontal plane only)
	forward, right := h.directions()

	var moveDir rl.Vector3
	if in.Forward {
		moveDir = rl.Vector3Add(moveDir, forward)
	}
	if in.Back {
		moveDir = rl.Vector3Subtract(moveDir, forward)
	}
	if in.Right {
		moveDir = rl.Vector3Add(moveDir, right)
	}
	if in.Left {
		moveDir = rl.Vector3Subtract(moveDir, right)
	}
	if in.Up {
		moveDir.Y++
	}
	if in.Down {
		moveDir.Y--
	}

	// Normalize diagonal movement so you don't go faster diagonally
	if rl.Vector3Length(moveDir) > 0 {
		moveDir = rl.Vector3Normalize(moveDir)
	}
	h.Position = rl.Vector3Add(h.Position, rl.Vector3Scale(moveDir, h.MoveSpeed*deltaTime))
}

// directions returns the horizontal forward and right vectors.
func (h *Head) directions() (forward, right rl.Vector3) {
	yawRad := float64(h.Yaw) * math.Pi / 180
	forward = rl.Vector3{
		X: float32(-math.Sin(yawRad)),
		Z: float32(-math.Cos(yawRad)),
	}
	right = rl.Vector3{
		X: float32(math.Cos(yawRad)),
		Z: float32(-math.Sin(yawRad)),
	}
	return
}

// Look is the unit view direction including pitch.
func (h *Head) Look() rl.Vector3 {
	yawRad := float64(h.Yaw) * math.Pi / 180
	pitchRad := float64(h.Pitch) * math.Pi / 180
	return rl.Vector3{
		X: float32(-math.Sin(yawRad) * math.Cos(pitchRad)),
		Y: float32(math.Sin(pitchRad)),
		Z: float32(-math.Cos(yawRad) * math.Cos(pitchRad)),
	}
}

// Pose is the head-to-tracking transform in the runtime convention: local -Z
// looks forward, +Y is up.
func (h *Head) Pose() mgl32.Mat4 {
	f := h.Look()
	_, r := h.directions()
	u := rl.Vector3CrossProduct(r, f)
	p := h.Position
	return mgl32.Mat4{
		r.X, r.Y, r.Z, 0,
		u.X, u.Y, u.Z, 0,
		-f.X, -f.Y, -f.Z, 0,
		p.X, p.Y, p.Z, 1,
	}
}

// FromPose builds a perspective camera looking down the pose's -Z axis.
func FromPose(m rl.Matrix) rl.Camera3D {
	pos := rl.Vector3{X: m.M12, Y: m.M13, Z: m.M14}
	forward := rl.Vector3{X: -m.M8, Y: -m.M9, Z: -m.M10}
	up := rl.Vector3{X: m.M4, Y: m.M5, Z: m.M6}
	return rl.Camera3D{
		Position:   pos,
		Target:     rl.Vector3Add(pos, forward),
		Up:         up,
		Fovy:       70,
		Projection: rl.CameraPerspective,
	}
}
