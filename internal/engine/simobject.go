package engine

import (
	"vrsandbox/internal/assets"
	"vrsandbox/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// SimObject binds a physics body to the mesh drawn at its pose. The world
// owns the body; the mesh is shared and read only.
type SimObject struct {
	Name string
	Body physics.BodyHandle
	Mesh *assets.Mesh
}

// Transform is the model matrix for drawing: the body pose followed by the
// stage transform. It never writes to the world.
func (o SimObject) Transform(world *physics.World, stage rl.Matrix) rl.Matrix {
	return rl.MatrixMultiply(world.Pose(o.Body).Matrix(), stage)
}

func (o SimObject) WorldPosition(world *physics.World) rl.Vector3 {
	return world.Pose(o.Body).Position
}
