package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Pose is a rigid transform: rotate by Rotation, then translate by Position.
type Pose struct {
	Position rl.Vector3
	Rotation rl.Quaternion
}

// IdentityPose returns a pose at the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Rotation: rl.QuaternionIdentity()}
}

// At returns an unrotated pose at the given position.
func At(x, y, z float32) Pose {
	return Pose{Position: rl.Vector3{X: x, Y: y, Z: z}, Rotation: rl.QuaternionIdentity()}
}

// normalized fixes up the zero-value quaternion so a literal Pose{Position: p} is usable.
func (p Pose) normalized() Pose {
	q := p.Rotation
	if q.X == 0 && q.Y == 0 && q.Z == 0 && q.W == 0 {
		p.Rotation = rl.QuaternionIdentity()
		return p
	}
	p.Rotation = rl.QuaternionNormalize(q)
	return p
}

// Matrix returns the pose as a raylib transform (rotate, then translate).
// Column i of the rotation block is the pose's local axis i, so
// rl.Vector3Transform agrees with TransformPoint.
func (p Pose) Matrix() rl.Matrix {
	p = p.normalized()
	ax := p.Axes()
	return rl.Matrix{
		M0: ax[0].X, M4: ax[1].X, M8: ax[2].X, M12: p.Position.X,
		M1: ax[0].Y, M5: ax[1].Y, M9: ax[2].Y, M13: p.Position.Y,
		M2: ax[0].Z, M6: ax[1].Z, M10: ax[2].Z, M14: p.Position.Z,
		M15: 1,
	}
}

// TransformPoint maps a point from the pose's local frame into the parent frame.
func (p Pose) TransformPoint(v rl.Vector3) rl.Vector3 {
	return rl.Vector3Add(rl.Vector3RotateByQuaternion(v, p.Rotation), p.Position)
}

// Mul composes p with a pose expressed in p's local frame.
func (p Pose) Mul(local Pose) Pose {
	return Pose{
		Position: p.TransformPoint(local.Position),
		Rotation: rl.QuaternionNormalize(rl.QuaternionMultiply(p.Rotation, local.Rotation)),
	}
}

// Axes returns the pose's local X, Y and Z axes in the parent frame.
func (p Pose) Axes() [3]rl.Vector3 {
	return [3]rl.Vector3{
		rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, p.Rotation),
		rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, p.Rotation),
		rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, p.Rotation),
	}
}

// integrateRotation advances q by angular velocity w (rad/s) over dt.
func integrateRotation(q rl.Quaternion, w rl.Vector3, dt float32) rl.Quaternion {
	spin := rl.QuaternionMultiply(rl.Quaternion{X: w.X, Y: w.Y, Z: w.Z, W: 0}, q)
	h := 0.5 * dt
	return rl.QuaternionNormalize(rl.Quaternion{
		X: q.X + spin.X*h,
		Y: q.Y + spin.Y*h,
		Z: q.Z + spin.Z*h,
		W: q.W + spin.W*h,
	})
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finiteVec(v rl.Vector3) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}
