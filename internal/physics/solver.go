package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Contact solver tuning.
const (
	// SolverIterations is how many velocity passes run per step.
	SolverIterations = 10
	// PositionIterations is how many overlap correction passes run per step.
	PositionIterations = 2
	// PenetrationSlop is the overlap left in place so resting contacts persist.
	PenetrationSlop = 0.001
	// CorrectionFactor is the share of the overlap beyond the slop removed per pass.
	CorrectionFactor = 0.8
)

// contactKey identifies a contact point across steps for warm starting.
type contactKey struct {
	a, b         int32
	primA, primB uint16
	feature      uint8
}

// impulse is the accumulated impulse of one contact point.
type impulse struct {
	normal, tangent1, tangent2 float32
}

// contactPoint is one non-penetration constraint with friction between a and b.
// The normal pushes a out of b.
type contactPoint struct {
	key   contactKey
	a, b  int
	point rl.Vector3

	normal, tangent1, tangent2 rl.Vector3
	rA, rB                     rl.Vector3

	normalMass, tangentMass1, tangentMass2 float32
	bias                                   float32 // target separating speed
	friction                               float32
	acc                                    impulse
}

// tangentBasis returns two unit tangents of n. The choice only depends on n
// so a steady contact keeps its friction axes between steps.
func tangentBasis(n rl.Vector3) (rl.Vector3, rl.Vector3) {
	var t rl.Vector3
	if absf(n.X) >= 0.57735 {
		t = rl.Vector3{X: n.Y, Y: -n.X}
	} else {
		t = rl.Vector3{Y: n.Z, Z: -n.Y}
	}
	t = rl.Vector3Normalize(t)
	return t, rl.Vector3CrossProduct(n, t)
}

// buildContacts runs the narrow phase and prepares the solver constraints.
// Static contacts come first so every pass settles supports before stacks.
func (w *World) buildContacts(pairs []bodyPair) {
	w.contacts = w.contacts[:0]
	w.touchingPairs = w.touchingPairs[:0]
	for _, d := range w.dynamic {
		for _, s := range w.statics {
			w.collectContacts(d, s)
		}
	}
	for _, p := range pairs {
		w.collectContacts(p.A, p.B)
	}
	// Masses are computed once every wake-up of this step has happened.
	for i := range w.contacts {
		w.prepare(&w.contacts[i])
	}
}

func (w *World) collectContacts(ia, ib int) {
	a := &w.bodies[ia]
	b := &w.bodies[ib]
	if a.static && b.static {
		return
	}
	if rl.Vector3Distance(a.pose.Position, b.pose.Position) > a.radius+b.radius {
		return
	}

	w.scratchA = a.shape.flatten(a.pose, a.margin, w.scratchA[:0])
	w.scratchB = b.shape.flatten(b.pose, b.margin, w.scratchB[:0])
	start := len(w.contacts)
	for i, pa := range w.scratchA {
		for j, pb := range w.scratchB {
			c, ok := collide(pa, pb)
			if !ok {
				continue
			}
			w.points = manifold(pa, pb, c, w.points[:0])
			for _, mp := range w.points {
				w.contacts = append(w.contacts, contactPoint{
					key:    contactKey{a: int32(ia), b: int32(ib), primA: uint16(i), primB: uint16(j), feature: mp.feature},
					a:      ia,
					b:      ib,
					point:  mp.position,
					normal: c.normal,
				})
			}
		}
	}
	if len(w.contacts) == start {
		return
	}
	a.touching = true
	b.touching = true
	w.touchingPairs = append(w.touchingPairs, bodyPair{A: ia, B: ib})

	// Wake sleepers only on a significant hit so settled stacks stay asleep.
	for _, cp := range w.contacts[start:] {
		rel := rl.Vector3Subtract(
			a.pointVelocity(rl.Vector3Subtract(cp.point, a.pose.Position)),
			b.pointVelocity(rl.Vector3Subtract(cp.point, b.pose.Position)),
		)
		if rl.Vector3Length(rel) > WakeVelocityThreshold {
			if a.sleeping {
				a.wake()
			}
			if b.sleeping {
				b.wake()
			}
			break
		}
	}
}

// prepare computes the constraint masses and restitution target, then applies
// the impulse the same contact carried last step.
func (w *World) prepare(cp *contactPoint) {
	a := &w.bodies[cp.a]
	b := &w.bodies[cp.b]
	cp.rA = rl.Vector3Subtract(cp.point, a.pose.Position)
	cp.rB = rl.Vector3Subtract(cp.point, b.pose.Position)

	k := effectiveMass(a, b, cp.rA, cp.rB, cp.normal)
	if k == 0 {
		// Both sides are asleep or static.
		cp.normalMass = 0
		return
	}
	cp.normalMass = 1 / k
	cp.tangent1, cp.tangent2 = tangentBasis(cp.normal)
	cp.tangentMass1 = 1 / effectiveMass(a, b, cp.rA, cp.rB, cp.tangent1)
	cp.tangentMass2 = 1 / effectiveMass(a, b, cp.rA, cp.rB, cp.tangent2)
	cp.friction = (a.friction + b.friction) / 2

	rel := rl.Vector3Subtract(a.pointVelocity(cp.rA), b.pointVelocity(cp.rB))
	vn := rl.Vector3DotProduct(rel, cp.normal)
	cp.bias = 0
	if -vn > RestingSpeed {
		cp.bias = -vn * (a.restitution + b.restitution) / 2
	}

	cp.acc = w.warm[cp.key]
	applyContactImpulse(a, b, cp, cp.acc)
}

func applyContactImpulse(a, b *body, cp *contactPoint, j impulse) {
	p := rl.Vector3Scale(cp.normal, j.normal)
	p = rl.Vector3Add(p, rl.Vector3Scale(cp.tangent1, j.tangent1))
	p = rl.Vector3Add(p, rl.Vector3Scale(cp.tangent2, j.tangent2))
	a.applyImpulse(p, cp.rA)
	b.applyImpulse(rl.Vector3Negate(p), cp.rB)
}

// solveContact runs one pass of the normal and Coulomb friction constraints
// on accumulated impulses.
func (w *World) solveContact(cp *contactPoint) {
	if cp.normalMass == 0 {
		return
	}
	a := &w.bodies[cp.a]
	b := &w.bodies[cp.b]

	rel := rl.Vector3Subtract(a.pointVelocity(cp.rA), b.pointVelocity(cp.rB))
	vn := rl.Vector3DotProduct(rel, cp.normal)
	jn := (cp.bias - vn) * cp.normalMass
	old := cp.acc.normal
	cp.acc.normal = max(old+jn, 0)
	applyContactImpulse(a, b, cp, impulse{normal: cp.acc.normal - old})

	limit := cp.friction * cp.acc.normal
	rel = rl.Vector3Subtract(a.pointVelocity(cp.rA), b.pointVelocity(cp.rB))
	jt := -rl.Vector3DotProduct(rel, cp.tangent1) * cp.tangentMass1
	old = cp.acc.tangent1
	cp.acc.tangent1 = clampf(old+jt, -limit, limit)
	applyContactImpulse(a, b, cp, impulse{tangent1: cp.acc.tangent1 - old})

	rel = rl.Vector3Subtract(a.pointVelocity(cp.rA), b.pointVelocity(cp.rB))
	jt = -rl.Vector3DotProduct(rel, cp.tangent2) * cp.tangentMass2
	old = cp.acc.tangent2
	cp.acc.tangent2 = clampf(old+jt, -limit, limit)
	applyContactImpulse(a, b, cp, impulse{tangent2: cp.acc.tangent2 - old})
}

// storeImpulses keeps this step's accumulated impulses for warm starting the next.
func (w *World) storeImpulses() {
	clear(w.warm)
	for i := range w.contacts {
		cp := &w.contacts[i]
		if cp.normalMass == 0 {
			continue
		}
		w.warm[cp.key] = cp.acc
	}
}

// correctPositions pushes overlapping bodies apart without touching their
// velocities. Overlap up to PenetrationSlop is kept.
func (w *World) correctPositions() {
	for iter := 0; iter < PositionIterations; iter++ {
		for _, p := range w.touchingPairs {
			a := &w.bodies[p.A]
			b := &w.bodies[p.B]
			invA, invB := a.effectiveInvMass(), b.effectiveInvMass()
			total := invA + invB
			if total == 0 {
				continue
			}
			c, ok := w.deepestContact(a, b)
			if !ok || c.depth <= PenetrationSlop {
				continue
			}
			push := CorrectionFactor * (c.depth - PenetrationSlop) / total
			a.pose.Position = rl.Vector3Add(a.pose.Position, rl.Vector3Scale(c.normal, push*invA))
			b.pose.Position = rl.Vector3Subtract(b.pose.Position, rl.Vector3Scale(c.normal, push*invB))
		}
	}
}
