package physics

import rl "github.com/gen2brain/raylib-go/raylib"

type AABB struct {
	Min rl.Vector3
	Max rl.Vector3
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size rl.Vector3) AABB {
	half := rl.Vector3{X: size.X / 2, Y: size.Y / 2, Z: size.Z / 2}
	return AABB{
		Min: rl.Vector3Subtract(center, half),
		Max: rl.Vector3Add(center, half),
	}
}

// aabbAroundSphere bounds a sphere of the given radius.
func aabbAroundSphere(center rl.Vector3, radius float32) AABB {
	return NewAABBFromCenter(center, rl.Vector3{X: 2 * radius, Y: 2 * radius, Z: 2 * radius})
}
