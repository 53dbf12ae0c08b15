package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OBB represents an Oriented Bounding Box
type OBB struct {
	Center   rl.Vector3    // World-space center
	HalfSize rl.Vector3    // Half-extents along local axes
	Axes     [3]rl.Vector3 // Local X, Y, Z axes (rotated)
}

// NewOBB creates an OBB centered on a pose.
func NewOBB(pose Pose, halfSize rl.Vector3) OBB {
	return OBB{
		Center:   pose.Position,
		HalfSize: halfSize,
		Axes:     pose.Axes(),
	}
}

// NewAABBasOBB creates an axis-aligned OBB (no rotation)
func NewAABBasOBB(center, halfSize rl.Vector3) OBB {
	return OBB{
		Center:   center,
		HalfSize: halfSize,
		Axes: [3]rl.Vector3{
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
		},
	}
}

// projectedRadius is the half-length of the box's projection onto axis.
func (o OBB) projectedRadius(axis rl.Vector3) float32 {
	return o.HalfSize.X*absf(rl.Vector3DotProduct(o.Axes[0], axis)) +
		o.HalfSize.Y*absf(rl.Vector3DotProduct(o.Axes[1], axis)) +
		o.HalfSize.Z*absf(rl.Vector3DotProduct(o.Axes[2], axis))
}

// ResolveOBB returns the minimum translation vector to push 'a' out of 'b'.
// Returns zero vector if no overlap (a separating axis exists).
func (a OBB) ResolveOBB(b OBB) rl.Vector3 {
	t := rl.Vector3Subtract(b.Center, a.Center)
	minPenetration := float32(math.MaxFloat32)
	var mtv rl.Vector3
	separated := false

	// Test all 15 axes and find the one with minimum penetration
	testAxis := func(axis rl.Vector3) {
		if separated || rl.Vector3Length(axis) < 0.0001 {
			return
		}
		axis = rl.Vector3Normalize(axis)

		dist := rl.Vector3DotProduct(t, axis)
		penetration := a.projectedRadius(axis) + b.projectedRadius(axis) - absf(dist)
		if penetration <= 0 {
			separated = true
			return
		}

		if penetration < minPenetration {
			minPenetration = penetration
			// Push in the direction away from B
			if dist < 0 {
				mtv = rl.Vector3Scale(axis, penetration)
			} else {
				mtv = rl.Vector3Scale(axis, -penetration)
			}
		}
	}

	// Test A's face normals
	for i := 0; i < 3; i++ {
		testAxis(a.Axes[i])
	}

	// Test B's face normals
	for i := 0; i < 3; i++ {
		testAxis(b.Axes[i])
	}

	// Test cross products of edges
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			testAxis(rl.Vector3CrossProduct(a.Axes[i], b.Axes[j]))
		}
	}

	if separated {
		return rl.Vector3Zero()
	}
	return mtv
}

// Contains reports whether point lies inside the box grown by tolerance.
func (o OBB) Contains(point rl.Vector3, tolerance float32) bool {
	d := rl.Vector3Subtract(point, o.Center)
	half := [3]float32{o.HalfSize.X, o.HalfSize.Y, o.HalfSize.Z}
	for i, axis := range o.Axes {
		if absf(rl.Vector3DotProduct(d, axis)) > half[i]+tolerance {
			return false
		}
	}
	return true
}

// Corners returns the 8 world-space vertices of the box.
func (o OBB) Corners() [8]rl.Vector3 {
	var out [8]rl.Vector3
	i := 0
	for _, sx := range [2]float32{-1, 1} {
		for _, sy := range [2]float32{-1, 1} {
			for _, sz := range [2]float32{-1, 1} {
				c := o.Center
				c = rl.Vector3Add(c, rl.Vector3Scale(o.Axes[0], sx*o.HalfSize.X))
				c = rl.Vector3Add(c, rl.Vector3Scale(o.Axes[1], sy*o.HalfSize.Y))
				c = rl.Vector3Add(c, rl.Vector3Scale(o.Axes[2], sz*o.HalfSize.Z))
				out[i] = c
				i++
			}
		}
	}
	return out
}

// ClosestPointOnOBB returns the closest point on the OBB surface to the given point
func ClosestPointOnOBB(o OBB, point rl.Vector3) rl.Vector3 {
	// Transform point to OBB's local space
	local := rl.Vector3Subtract(point, o.Center)
	localX := rl.Vector3DotProduct(local, o.Axes[0])
	localY := rl.Vector3DotProduct(local, o.Axes[1])
	localZ := rl.Vector3DotProduct(local, o.Axes[2])

	// Clamp to box extents
	closestX := clampf(localX, -o.HalfSize.X, o.HalfSize.X)
	closestY := clampf(localY, -o.HalfSize.Y, o.HalfSize.Y)
	closestZ := clampf(localZ, -o.HalfSize.Z, o.HalfSize.Z)

	// Transform back to world space
	result := o.Center
	result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[0], closestX))
	result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[1], closestY))
	result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[2], closestZ))

	return result
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
