package physics

import (
	"fmt"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// MaxStep bounds a single Step so a long frame cannot destabilize contacts.
const MaxStep = 1.0 / 30

// World owns every rigid body and is the only thing that moves them.
// It is not safe for concurrent use; readers query poses between steps.
type World struct {
	gravity    rl.Vector3
	gravitySet bool
	warned     bool

	bodies  []body
	dynamic []int
	statics []int
	steps   uint64

	grid     map[CellKey][]int
	pairs    []bodyPair
	scratchA []primitive
	scratchB []primitive
	points   []manifoldPoint

	contacts      []contactPoint
	touchingPairs []bodyPair
	warm          map[contactKey]impulse
}

func NewWorld() *World {
	return &World{
		grid: make(map[CellKey][]int),
		warm: make(map[contactKey]impulse),
	}
}

// SetGravity sets the constant acceleration applied to dynamic bodies.
// Call it before the first Step.
func (w *World) SetGravity(g rl.Vector3) {
	if w.steps > 0 {
		log.Printf("Physics: gravity reconfigured to %v after %d steps", g, w.steps)
	}
	w.gravity = g
	w.gravitySet = true
	for _, i := range w.dynamic {
		w.bodies[i].wake()
	}
}

func (w *World) Gravity() rl.Vector3 {
	return w.gravity
}

// AddRigidBody registers a body and returns its handle. Invalid physical
// parameters yield a *ConstructionError and leave the world unchanged.
func (w *World) AddRigidBody(spec BodySpec) (BodyHandle, error) {
	b, err := newBody(spec)
	if err != nil {
		return 0, err
	}
	idx := len(w.bodies)
	w.bodies = append(w.bodies, b)
	if b.static {
		w.statics = append(w.statics, idx)
	} else {
		w.dynamic = append(w.dynamic, idx)
	}
	return BodyHandle(idx), nil
}

func (w *World) get(h BodyHandle) *body {
	if int(h) >= len(w.bodies) {
		panic(fmt.Sprintf("physics: unknown body handle %d", h))
	}
	return &w.bodies[h]
}

// Pose returns the body's current pose.
func (w *World) Pose(h BodyHandle) Pose {
	return w.get(h).pose
}

func (w *World) Velocity(h BodyHandle) rl.Vector3 {
	return w.get(h).velocity
}

func (w *World) AngularVelocity(h BodyHandle) rl.Vector3 {
	return w.get(h).angularVelocity
}

func (w *World) IsStatic(h BodyHandle) bool {
	return w.get(h).static
}

func (w *World) IsSleeping(h BodyHandle) bool {
	return w.get(h).sleeping
}

// Shape returns the collision shape the body was created with.
func (w *World) Shape(h BodyHandle) Shape {
	return w.get(h).shape
}

// BoundingRadius includes the body's collision margin.
func (w *World) BoundingRadius(h BodyHandle) float32 {
	return w.get(h).radius
}

// SetVelocity launches a dynamic body, waking it. Static bodies are left alone.
func (w *World) SetVelocity(h BodyHandle, v rl.Vector3) {
	b := w.get(h)
	if b.static {
		return
	}
	b.wake()
	b.velocity = v
}

func (w *World) BodyCount() int {
	return len(w.bodies)
}

// DynamicBodyCount returns the number of dynamic physics bodies
func (w *World) DynamicBodyCount() int {
	return len(w.dynamic)
}

// Steps is the number of completed Step calls.
func (w *World) Steps() uint64 {
	return w.steps
}

// Step advances every awake dynamic body by dt seconds. Non-positive dt is a
// no-op; dt above MaxStep is clamped.
func (w *World) Step(dt float32) {
	if !(dt > 0) {
		return
	}
	if dt > MaxStep {
		dt = MaxStep
	}
	if !w.gravitySet && !w.warned {
		w.warned = true
		log.Printf("Physics: stepping before SetGravity, bodies will float")
	}

	// 1. Apply gravity and integrate velocity, position and orientation
	gravityStep := rl.Vector3Scale(w.gravity, dt)
	damping := float32(1.0) - (1.0-AngularDamping)*dt*60
	if damping < 0 {
		damping = 0
	}
	for _, i := range w.dynamic {
		b := &w.bodies[i]
		b.touching = false
		if b.sleeping {
			continue
		}
		b.velocity = rl.Vector3Add(b.velocity, gravityStep)
		b.pose.Position = rl.Vector3Add(b.pose.Position, rl.Vector3Scale(b.velocity, dt))
		b.pose.Rotation = integrateRotation(b.pose.Rotation, b.angularVelocity, dt)
		b.angularVelocity = rl.Vector3Scale(b.angularVelocity, damping)
	}

	// 2. Broad phase, then narrow phase into warm started contact points
	w.buildContacts(w.candidatePairs())

	// 3. Velocity passes over every contact, statics first
	for iter := 0; iter < SolverIterations; iter++ {
		for i := range w.contacts {
			w.solveContact(&w.contacts[i])
		}
	}
	w.storeImpulses()

	// 4. Remove overlap left by integration
	w.correctPositions()

	// 5. Sleep bodies that came to rest on something
	for _, i := range w.dynamic {
		w.bodies[i].trySleep(dt)
	}
	w.steps++
}
