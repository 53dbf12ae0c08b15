package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// RestingSpeed is the approach speed below which contacts do not bounce.
const RestingSpeed = 0.2

// planeCornerTolerance groups box corners at the same depth into one contact patch.
const planeCornerTolerance = 1e-3

// contact pushes primitive A out of primitive B along normal by depth.
type contact struct {
	normal rl.Vector3
	depth  float32
	point  rl.Vector3
}

func (c contact) flipped() contact {
	c.normal = rl.Vector3Negate(c.normal)
	return c
}

// collide runs the narrow phase for one pair of primitives.
func collide(a, b primitive) (contact, bool) {
	switch {
	case b.kind == ShapePlane:
		return collidePlane(a, b)
	case a.kind == ShapePlane:
		c, ok := collidePlane(b, a)
		return c.flipped(), ok
	case a.kind == ShapeSphere && b.kind == ShapeSphere:
		return collideSpheres(a, b)
	case a.kind == ShapeSphere:
		return collideSphereBox(a, b)
	case b.kind == ShapeSphere:
		c, ok := collideSphereBox(b, a)
		return c.flipped(), ok
	}
	return collideBoxes(a, b)
}

func collidePlane(a, plane primitive) (contact, bool) {
	n := plane.normal
	if a.kind == ShapeSphere {
		d := rl.Vector3DotProduct(n, a.pose.Position) - plane.distance - a.radius
		if d >= 0 {
			return contact{}, false
		}
		return contact{
			normal: n,
			depth:  -d,
			point:  rl.Vector3Subtract(a.pose.Position, rl.Vector3Scale(n, a.radius)),
		}, true
	}

	corners := NewOBB(a.pose, a.half).Corners()
	var dists [8]float32
	minD := float32(0)
	for i, c := range corners {
		dists[i] = rl.Vector3DotProduct(n, c) - plane.distance
		if dists[i] < minD {
			minD = dists[i]
		}
	}
	if minD >= 0 {
		return contact{}, false
	}

	// Average every corner at (nearly) the deepest level so a flat face
	// produces a centered contact instead of a single corner.
	var point rl.Vector3
	count := float32(0)
	for i, c := range corners {
		if dists[i] <= minD+planeCornerTolerance {
			point = rl.Vector3Add(point, c)
			count++
		}
	}
	return contact{normal: n, depth: -minD, point: rl.Vector3Scale(point, 1/count)}, true
}

func collideSpheres(a, b primitive) (contact, bool) {
	diff := rl.Vector3Subtract(a.pose.Position, b.pose.Position)
	dist := rl.Vector3Length(diff)
	minDist := a.radius + b.radius
	if dist >= minDist {
		return contact{}, false
	}

	normal := rl.Vector3{Y: 1}
	if dist > 0.0001 {
		normal = rl.Vector3Scale(diff, 1/dist)
	}
	return contact{
		normal: normal,
		depth:  minDist - dist,
		point:  rl.Vector3Add(b.pose.Position, rl.Vector3Scale(normal, b.radius)),
	}, true
}

// collideSphereBox pushes sphere s out of box b.
func collideSphereBox(s, b primitive) (contact, bool) {
	center := s.pose.Position
	obb := NewOBB(b.pose, b.half)

	// Find closest point on OBB to sphere center
	closest := ClosestPointOnOBB(obb, center)
	diff := rl.Vector3Subtract(center, closest)
	dist := rl.Vector3Length(diff)
	if dist >= s.radius {
		return contact{}, false
	}

	if dist < 0.0001 {
		// Center is inside the box; fall back to SAT against the sphere's bounding box.
		r := s.radius
		mtv := NewAABBasOBB(center, rl.Vector3{X: r, Y: r, Z: r}).ResolveOBB(obb)
		depth := rl.Vector3Length(mtv)
		if depth < 0.0001 {
			return contact{}, false
		}
		return contact{normal: rl.Vector3Scale(mtv, 1/depth), depth: depth, point: center}, true
	}

	// Normal points from box to sphere
	return contact{
		normal: rl.Vector3Scale(diff, 1/dist),
		depth:  s.radius - dist,
		point:  closest,
	}, true
}

func collideBoxes(a, b primitive) (contact, bool) {
	obbA := NewOBB(a.pose, a.half)
	obbB := NewOBB(b.pose, b.half)

	pushOut := obbA.ResolveOBB(obbB)
	depth := rl.Vector3Length(pushOut)
	if depth < 0.0001 {
		return contact{}, false
	}
	normal := rl.Vector3Scale(pushOut, 1/depth)

	// Contact is on A's face that looks at B
	point := rl.Vector3Subtract(obbA.Center, rl.Vector3Scale(normal, obbA.projectedRadius(normal)))
	return contact{normal: normal, depth: depth, point: point}, true
}

// Feature ids tag manifold points so impulses can be matched across steps.
const (
	featureCornerA = 0  // corners of a, 0..7
	featureCornerB = 8  // corners of b, 8..15
	featureSingle  = 16 // the narrow phase contact point
)

// cornerTolerance lets corners lying on a touching face count as inside.
const cornerTolerance = 1e-3

type manifoldPoint struct {
	position rl.Vector3
	feature  uint8
}

// manifold appends the points supporting contact c between a and b. A box
// contributes every corner inside the other shape, so a resting face is held
// at several points instead of rocking about one.
func manifold(a, b primitive, c contact, out []manifoldPoint) []manifoldPoint {
	start := len(out)
	switch {
	case a.kind == ShapeBox && b.kind == ShapePlane:
		out = cornersBelow(NewOBB(a.pose, a.half), b, featureCornerA, out)
	case a.kind == ShapePlane && b.kind == ShapeBox:
		out = cornersBelow(NewOBB(b.pose, b.half), a, featureCornerB, out)
	case a.kind == ShapeBox && b.kind == ShapeBox:
		obbA, obbB := NewOBB(a.pose, a.half), NewOBB(b.pose, b.half)
		out = cornersInside(obbA, obbB, featureCornerA, out)
		out = cornersInside(obbB, obbA, featureCornerB, out)
	}
	if len(out) == start {
		out = append(out, manifoldPoint{position: c.point, feature: featureSingle})
	}
	return out
}

func cornersBelow(box OBB, plane primitive, base uint8, out []manifoldPoint) []manifoldPoint {
	for i, c := range box.Corners() {
		if rl.Vector3DotProduct(plane.normal, c)-plane.distance < 0 {
			out = append(out, manifoldPoint{position: c, feature: base + uint8(i)})
		}
	}
	return out
}

func cornersInside(src, dst OBB, base uint8, out []manifoldPoint) []manifoldPoint {
	for i, c := range src.Corners() {
		if dst.Contains(c, cornerTolerance) {
			out = append(out, manifoldPoint{position: c, feature: base + uint8(i)})
		}
	}
	return out
}

// deepestContact flattens both bodies and returns the deepest primitive contact
// pushing a out of b.
func (w *World) deepestContact(a, b *body) (contact, bool) {
	w.scratchA = a.shape.flatten(a.pose, a.margin, w.scratchA[:0])
	w.scratchB = b.shape.flatten(b.pose, b.margin, w.scratchB[:0])

	var best contact
	found := false
	for _, pa := range w.scratchA {
		for _, pb := range w.scratchB {
			c, ok := collide(pa, pb)
			if ok && (!found || c.depth > best.depth) {
				best = c
				found = true
			}
		}
	}
	return best, found
}

// effectiveMass is the impulse denominator along dir for the contact arms rA, rB.
func effectiveMass(a, b *body, rA, rB, dir rl.Vector3) float32 {
	raXd := rl.Vector3CrossProduct(rA, dir)
	rbXd := rl.Vector3CrossProduct(rB, dir)
	return a.effectiveInvMass() + b.effectiveInvMass() +
		a.effectiveInvInertia()*rl.Vector3DotProduct(raXd, raXd) +
		b.effectiveInvInertia()*rl.Vector3DotProduct(rbXd, rbXd)
}
