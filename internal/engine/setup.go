package engine

import (
	"errors"
	"fmt"
	"log"

	"vrsandbox/internal/assets"
	"vrsandbox/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Scene constants.
var Gravity = rl.NewVector3(0, -9.81, 0)

const (
	LatticeSize    = 7
	CubeHalf       = 0.05
	LatticeSpacing = 0.12
	LatticeJitter  = 0.004
	ContactMargin  = 0.005

	CubeMass   = 0.2
	HammerMass = 1.0
)

// LatticeOrigin is the center of the lowest corner cube.
var LatticeOrigin = rl.NewVector3(-0.36, 0.3, -1.2)

// HammerStart is where the hammer is dropped from.
var HammerStart = rl.NewVector3(0.6, 0.5, -0.6)

// HammerShape sizes both the hammer mesh and its compound body.
var HammerShape = assets.HammerSpec{
	HandleRadius:     0.02,
	HandleHalfHeight: 0.2,
	HeadHalf:         rl.NewVector3(0.08, 0.04, 0.04),
	HeadOffset:       rl.NewVector3(0, 0.2, 0),
}

var ErrMissingMesh = errors.New("engine: missing mesh")

// SceneAssets are the meshes SetupWorld binds to bodies.
type SceneAssets struct {
	Cube           *assets.Mesh
	Hammer         *assets.Mesh
	Grid           *assets.Mesh
	ControllerGrid *assets.Mesh
	Controller     *assets.Mesh
}

func (a SceneAssets) validate() error {
	for name, m := range map[string]*assets.Mesh{
		"cube":            a.Cube,
		"hammer":          a.Hammer,
		"grid":            a.Grid,
		"controller grid": a.ControllerGrid,
		"controller":      a.Controller,
	} {
		if m == nil {
			return fmt.Errorf("%w: %s", ErrMissingMesh, name)
		}
	}
	return nil
}

// HammerCollisionShape is the compound body matching HammerShape.
func HammerCollisionShape() physics.Shape {
	return physics.Compound(
		physics.Child(physics.IdentityPose(), physics.Cylinder(HammerShape.HandleRadius, HammerShape.HandleHalfHeight)),
		physics.Child(
			physics.At(HammerShape.HeadOffset.X, HammerShape.HeadOffset.Y, HammerShape.HeadOffset.Z),
			physics.Box(HammerShape.HeadHalf),
		),
	)
}

// LatticePosition is the start position of cube (i, j, k). The jitter only
// depends on the indices, so every run builds the same lattice.
func LatticePosition(i, j, k int) rl.Vector3 {
	jx := LatticeJitter * float32((j+k)%3-1)
	jz := LatticeJitter * float32((i+j)%3-1)
	return rl.NewVector3(
		LatticeOrigin.X+float32(i)*LatticeSpacing+jx,
		LatticeOrigin.Y+float32(j)*LatticeSpacing,
		LatticeOrigin.Z+float32(k)*LatticeSpacing+jz,
	)
}

// SetupWorld builds the sandbox: gravity, the floor, the hammer and the cube
// lattice. Gravity is set before any body is added.
func SetupWorld(a SceneAssets) (*Scene, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}

	world := physics.NewWorld()
	world.SetGravity(Gravity)

	scene := NewScene("sandbox", world)
	scene.Grid = a.Grid
	scene.ControllerGrid = a.ControllerGrid
	scene.Controller = a.Controller

	if _, err := world.AddRigidBody(physics.BodySpec{
		Shape:    physics.Plane(rl.NewVector3(0, 1, 0), 0),
		Static:   true,
		Friction: 0.8,
		Pose:     physics.IdentityPose(),
	}); err != nil {
		return nil, fmt.Errorf("floor: %w", err)
	}

	hammer, err := world.AddRigidBody(physics.BodySpec{
		Shape:       HammerCollisionShape(),
		Mass:        HammerMass,
		Restitution: 0.1,
		Friction:    0.6,
		Pose:        physics.At(HammerStart.X, HammerStart.Y, HammerStart.Z),
		Margin:      ContactMargin,
	})
	if err != nil {
		return nil, fmt.Errorf("hammer: %w", err)
	}
	scene.Hammer = SimObject{Name: "hammer", Body: hammer, Mesh: a.Hammer}

	cube := physics.Box(rl.NewVector3(CubeHalf, CubeHalf, CubeHalf))
	for i := 0; i < LatticeSize; i++ {
		for j := 0; j < LatticeSize; j++ {
			for k := 0; k < LatticeSize; k++ {
				p := LatticePosition(i, j, k)
				h, err := world.AddRigidBody(physics.BodySpec{
					Shape:       cube,
					Mass:        CubeMass,
					Restitution: 0.2,
					Friction:    0.6,
					Pose:        physics.At(p.X, p.Y, p.Z),
					Margin:      ContactMargin,
				})
				if err != nil {
					return nil, fmt.Errorf("cube %d,%d,%d: %w", i, j, k, err)
				}
				scene.AddObject(SimObject{
					Name: fmt.Sprintf("cube_%d_%d_%d", i, j, k),
					Body: h,
					Mesh: a.Cube,
				})
			}
		}
	}

	log.Printf("Scene: %s ready with %d bodies (%d pooled objects)", scene.Name, world.BodyCount(), len(scene.Objects))
	return scene, nil
}
