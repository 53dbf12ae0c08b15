package physics

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// BodyHandle identifies a body inside the World that created it. Handles are
// dense indices and stay valid for the world's lifetime.
type BodyHandle uint32

// BodySpec describes a rigid body to add to a World.
type BodySpec struct {
	Shape       Shape
	Mass        float32 // ignored for static bodies
	Restitution float32 // 0 = no bounce, 1 = perfect bounce
	Friction    float32 // Coulomb coefficient
	Pose        Pose
	Static      bool
	Margin      float32 // shape inflation used for contact
}

// ConstructionError reports a body that cannot be simulated.
type ConstructionError struct {
	Field  string
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("physics: invalid body %s: %s", e.Field, e.Reason)
}

// Sleep thresholds
const (
	SleepVelocityThreshold = 0.05 // m/s
	SleepAngularThreshold  = 0.1  // rad/s
	SleepTimeThreshold     = 0.5  // seconds of low velocity while supported
	WakeVelocityThreshold  = 0.5  // relative contact speed that wakes a sleeper
)

// AngularDamping is the fraction of angular velocity kept per 1/60 s.
const AngularDamping = 0.98

type body struct {
	shape       Shape
	static      bool
	mass        float32
	invMass     float32
	invInertia  float32
	restitution float32
	friction    float32
	margin      float32
	radius      float32 // bounding radius including margin

	pose            Pose
	velocity        rl.Vector3
	angularVelocity rl.Vector3 // rad/s

	sleeping   bool
	sleepTimer float32
	touching   bool // had a contact during the current step
}

func newBody(spec BodySpec) (body, error) {
	if err := spec.Shape.Validate(); err != nil {
		return body{}, &ConstructionError{Field: "shape", Reason: err.Error()}
	}
	if spec.Shape.Kind == ShapePlane && !spec.Static {
		return body{}, &ConstructionError{Field: "shape", Reason: "plane shapes are only valid on static bodies"}
	}
	if !spec.Static && (!(spec.Mass > 0) || !finite(spec.Mass)) {
		return body{}, &ConstructionError{Field: "mass", Reason: fmt.Sprintf("dynamic body needs positive mass, got %v", spec.Mass)}
	}
	if !(spec.Restitution >= 0 && spec.Restitution <= 1) {
		return body{}, &ConstructionError{Field: "restitution", Reason: fmt.Sprintf("must be within [0,1], got %v", spec.Restitution)}
	}
	if !(spec.Friction >= 0) || !finite(spec.Friction) {
		return body{}, &ConstructionError{Field: "friction", Reason: fmt.Sprintf("must be non-negative, got %v", spec.Friction)}
	}
	if !(spec.Margin >= 0) || !finite(spec.Margin) {
		return body{}, &ConstructionError{Field: "margin", Reason: fmt.Sprintf("must be non-negative, got %v", spec.Margin)}
	}
	if !finiteVec(spec.Pose.Position) {
		return body{}, &ConstructionError{Field: "pose", Reason: fmt.Sprintf("position must be finite, got %v", spec.Pose.Position)}
	}

	b := body{
		shape:       spec.Shape,
		static:      spec.Static,
		restitution: spec.Restitution,
		friction:    spec.Friction,
		margin:      spec.Margin,
		radius:      spec.Shape.BoundingRadius() + spec.Margin,
		pose:        spec.Pose.normalized(),
	}
	if !spec.Static {
		b.mass = spec.Mass
		b.invMass = 1 / spec.Mass
		// Solid sphere of the bounding radius; good enough for tumbling props.
		inertia := 0.4 * spec.Mass * b.radius * b.radius
		b.invInertia = 1 / inertia
	}
	return b, nil
}

// movable reports whether contact impulses may move the body this step.
func (b *body) movable() bool {
	return !b.static && !b.sleeping
}

func (b *body) effectiveInvMass() float32 {
	if !b.movable() {
		return 0
	}
	return b.invMass
}

func (b *body) effectiveInvInertia() float32 {
	if !b.movable() {
		return 0
	}
	return b.invInertia
}

// pointVelocity is the velocity of a point offset r from the center of mass.
func (b *body) pointVelocity(r rl.Vector3) rl.Vector3 {
	if !b.movable() {
		return rl.Vector3{}
	}
	return rl.Vector3Add(b.velocity, rl.Vector3CrossProduct(b.angularVelocity, r))
}

func (b *body) applyImpulse(j, r rl.Vector3) {
	if !b.movable() {
		return
	}
	b.velocity = rl.Vector3Add(b.velocity, rl.Vector3Scale(j, b.invMass))
	b.angularVelocity = rl.Vector3Add(b.angularVelocity, rl.Vector3Scale(rl.Vector3CrossProduct(r, j), b.invInertia))
}

// Wake forces the body out of sleep state
func (b *body) wake() {
	b.sleeping = false
	b.sleepTimer = 0
}

// trySleep puts a supported, nearly still body to sleep after SleepTimeThreshold.
func (b *body) trySleep(dt float32) {
	if b.static || b.sleeping {
		return
	}
	speed := rl.Vector3Length(b.velocity)
	angSpeed := rl.Vector3Length(b.angularVelocity)
	if !b.touching || speed >= SleepVelocityThreshold || angSpeed >= SleepAngularThreshold {
		b.sleepTimer = 0
		return
	}
	b.sleepTimer += dt
	if b.sleepTimer >= SleepTimeThreshold {
		b.sleeping = true
		b.velocity = rl.Vector3{}
		b.angularVelocity = rl.Vector3{}
	}
}
