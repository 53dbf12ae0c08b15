package engine

import (
	"vrsandbox/internal/assets"
	"vrsandbox/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// TouchEvent reports pool objects overlapping a touch sphere.
type TouchEvent struct {
	Center  rl.Vector3
	Radius  float32
	Indices []int
}

// Scene owns the world and everything drawn from it. Objects is append only
// and its order is the draw order. The hammer is kept out of the pool.
type Scene struct {
	Name    string
	World   *physics.World
	Objects []SimObject
	Hammer  SimObject

	Grid           *assets.Mesh
	ControllerGrid *assets.Mesh
	Controller     *assets.Mesh

	// OnTouch fires when a controller touch sphere overlaps pool objects. Nothing
	// responds to it yet.
	OnTouch EventWithArg[TouchEvent]
}

func NewScene(name string, world *physics.World) *Scene {
	return &Scene{
		Name:  name,
		World: world,
	}
}

func (s *Scene) AddObject(o SimObject) int {
	s.Objects = append(s.Objects, o)
	return len(s.Objects) - 1
}

func (s *Scene) FindByName(name string) (SimObject, bool) {
	if s.Hammer.Name == name && s.Hammer.Mesh != nil {
		return s.Hammer, true
	}
	for _, o := range s.Objects {
		if o.Name == name {
			return o, true
		}
	}
	return SimObject{}, false
}

// Touching returns the pool indices whose bounding sphere overlaps the
// sphere at center. Positions are in world space.
func (s *Scene) Touching(center rl.Vector3, radius float32) []int {
	var hits []int
	for i, o := range s.Objects {
		r := radius + s.World.BoundingRadius(o.Body)
		if rl.Vector3LengthSqr(rl.Vector3Subtract(center, o.WorldPosition(s.World))) <= r*r {
			hits = append(hits, i)
		}
	}
	return hits
}
