package physics

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func nearVec(a, b rl.Vector3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func TestCompoundFlattenAppliesChildOffsets(t *testing.T) {
	shape := Compound(
		Child(IdentityPose(), Cylinder(0.02, 0.2)),
		Child(At(0, 1, 0), Box(rl.Vector3{X: 0.1, Y: 0.1, Z: 0.1})),
	)
	pose := Pose{
		Position: rl.Vector3{X: 5},
		Rotation: rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, math.Pi/2),
	}

	prims := shape.flatten(pose, 0.01, nil)
	if len(prims) != 2 {
		t.Fatalf("Expected 2 primitives, got %d", len(prims))
	}
	if !nearVec(prims[0].pose.Position, rl.Vector3{X: 5}) {
		t.Errorf("Handle should sit at body origin, got %v", prims[0].pose.Position)
	}
	// Local +Y rotated 90 degrees about Z points along -X.
	if !nearVec(prims[1].pose.Position, rl.Vector3{X: 4}) {
		t.Errorf("Head should be rotated with the body, got %v", prims[1].pose.Position)
	}
	if !nearVec(prims[0].half, rl.Vector3{X: 0.03, Y: 0.21, Z: 0.03}) {
		t.Errorf("Cylinder bounds should include margin, got %v", prims[0].half)
	}
}

func TestBoundingRadius(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  float32
	}{
		{"sphere", Sphere(2), 2},
		{"box", Box(rl.Vector3{X: 3, Y: 4, Z: 0.0001}), 5},
		{"cylinder", Cylinder(3, 4), 5},
		{"compound", Compound(Child(At(0, 1, 0), Sphere(0.5)), Child(IdentityPose(), Sphere(1))), 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.BoundingRadius(); !near(got, tt.want) {
				t.Errorf("Expected radius %v, got %v", tt.want, got)
			}
		})
	}

	if !math.IsInf(float64(Plane(rl.Vector3{Y: 1}, 0).BoundingRadius()), 1) {
		t.Error("Plane should be unbounded")
	}
}

func TestValidateRejectsNestedPlane(t *testing.T) {
	s := Compound(Child(IdentityPose(), Plane(rl.Vector3{Y: 1}, 0)))
	if err := s.Validate(); err == nil {
		t.Error("Compound containing a plane should be invalid")
	}
}

func TestPlaneFlattenNormalizesNormal(t *testing.T) {
	prims := Plane(rl.Vector3{Y: 2}, 4).flatten(IdentityPose(), 0, nil)
	if len(prims) != 1 {
		t.Fatalf("Expected 1 primitive, got %d", len(prims))
	}
	if !nearVec(prims[0].normal, rl.Vector3{Y: 1}) || !near(prims[0].distance, 2) {
		t.Errorf("Expected unit normal at distance 2, got %v / %v", prims[0].normal, prims[0].distance)
	}
}

func TestFlatBoxOnPlaneHasCenteredContact(t *testing.T) {
	box := primitive{kind: ShapeBox, pose: At(1, 0.05, 2), half: rl.Vector3{X: 0.1, Y: 0.1, Z: 0.1}}
	plane := primitive{kind: ShapePlane, normal: rl.Vector3{Y: 1}}

	c, ok := collide(box, plane)
	if !ok {
		t.Fatal("Expected contact")
	}
	if !near(c.depth, 0.05) {
		t.Errorf("Expected depth 0.05, got %v", c.depth)
	}
	if !nearVec(c.point, rl.Vector3{X: 1, Y: -0.05, Z: 2}) {
		t.Errorf("Expected contact at bottom face center, got %v", c.point)
	}
}

func TestOBBResolvePushesAlongShallowestAxis(t *testing.T) {
	a := NewAABBasOBB(rl.Vector3{}, rl.Vector3{X: 1, Y: 1, Z: 1})
	b := NewAABBasOBB(rl.Vector3{X: 1.8}, rl.Vector3{X: 1, Y: 1, Z: 1})

	mtv := a.ResolveOBB(b)
	if !nearVec(mtv, rl.Vector3{X: -0.2}) {
		t.Errorf("Expected push of -0.2 along X, got %v", mtv)
	}

	far := NewAABBasOBB(rl.Vector3{X: 5}, rl.Vector3{X: 1, Y: 1, Z: 1})
	if got := a.ResolveOBB(far); got != (rl.Vector3{}) {
		t.Errorf("Separated boxes should not push, got %v", got)
	}
}

func TestSpheresCollide(t *testing.T) {
	a := primitive{kind: ShapeSphere, pose: At(0, 0.9, 0), radius: 0.5}
	b := primitive{kind: ShapeSphere, pose: At(0, 0, 0), radius: 0.5}

	c, ok := collide(a, b)
	if !ok {
		t.Fatal("Expected contact")
	}
	if !nearVec(c.normal, rl.Vector3{Y: 1}) || !near(c.depth, 0.1) {
		t.Errorf("Expected upward normal with depth 0.1, got %v / %v", c.normal, c.depth)
	}
}

func TestPoseMatrixMatchesTransformPoint(t *testing.T) {
	p := Pose{
		Position: rl.Vector3{X: 1, Y: 2, Z: 3},
		Rotation: rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, math.Pi/2),
	}
	v := rl.Vector3{X: 1}
	if got, want := rl.Vector3Transform(v, p.Matrix()), p.TransformPoint(v); !nearVec(got, want) {
		t.Errorf("Matrix and TransformPoint disagree: %v vs %v", got, want)
	}
}

func TestPoseMatrixMatchesTransformPointOffAxis(t *testing.T) {
	p := Pose{
		Position: rl.Vector3{X: -0.4, Y: 1.2, Z: 0.7},
		Rotation: rl.QuaternionFromAxisAngle(rl.Vector3Normalize(rl.Vector3{X: 1, Y: 2, Z: -1}), 1.1),
	}
	m := p.Matrix()
	for _, v := range []rl.Vector3{
		{X: 1},
		{Y: 1},
		{Z: 1},
		{X: 0, Y: 0.2, Z: 0},
		{X: -0.3, Y: 0.5, Z: 0.25},
	} {
		if got, want := rl.Vector3Transform(v, m), p.TransformPoint(v); !nearVec(got, want) {
			t.Errorf("Matrix maps %v to %v, TransformPoint gives %v", v, got, want)
		}
	}

	axes := p.Axes()
	cols := [3]rl.Vector3{{X: m.M0, Y: m.M1, Z: m.M2}, {X: m.M4, Y: m.M5, Z: m.M6}, {X: m.M8, Y: m.M9, Z: m.M10}}
	for i := range axes {
		if !nearVec(cols[i], axes[i]) {
			t.Errorf("Column %d is %v, expected axis %v", i, cols[i], axes[i])
		}
	}
}

func TestFlatBoxOnPlaneManifoldUsesBottomCorners(t *testing.T) {
	box := primitive{kind: ShapeBox, pose: At(1, 0.05, 2), half: rl.Vector3{X: 0.1, Y: 0.1, Z: 0.1}}
	plane := primitive{kind: ShapePlane, normal: rl.Vector3{Y: 1}}

	c, ok := collide(box, plane)
	if !ok {
		t.Fatal("Expected contact")
	}
	points := manifold(box, plane, c, nil)
	if len(points) != 4 {
		t.Fatalf("Expected 4 corner points, got %d", len(points))
	}
	var sum rl.Vector3
	for _, p := range points {
		if !near(p.position.Y, -0.05) {
			t.Errorf("Expected bottom corner, got %v", p.position)
		}
		sum = rl.Vector3Add(sum, p.position)
	}
	if center := rl.Vector3Scale(sum, 0.25); !nearVec(center, rl.Vector3{X: 1, Y: -0.05, Z: 2}) {
		t.Errorf("Corners should surround the face center, got %v", center)
	}

	// Flipped order tags the same corners as belonging to b.
	flipped := manifold(plane, box, c.flipped(), nil)
	if len(flipped) != 4 || flipped[0].feature < featureCornerB {
		t.Errorf("Expected 4 b-side corners, got %v", flipped)
	}
}

func TestOffsetStackedBoxesManifoldSpansOverlap(t *testing.T) {
	half := rl.Vector3{X: 0.1, Y: 0.1, Z: 0.1}
	a := primitive{kind: ShapeBox, pose: At(0, 0, 0), half: half}
	b := primitive{kind: ShapeBox, pose: At(0.05, 0.19, 0), half: half}

	c, ok := collide(a, b)
	if !ok {
		t.Fatal("Expected contact")
	}
	if !nearVec(c.normal, rl.Vector3{Y: -1}) {
		t.Fatalf("Expected lower box pushed down, got normal %v", c.normal)
	}

	points := manifold(a, b, c, nil)
	if len(points) != 4 {
		t.Fatalf("Expected 4 overlap corners, got %d: %v", len(points), points)
	}
	minX, maxX := float32(1), float32(-1)
	for _, p := range points {
		if p.position.Y < 0.09-1e-4 || p.position.Y > 0.1+1e-4 {
			t.Errorf("Point %v outside the overlap slab", p.position)
		}
		minX = min(minX, p.position.X)
		maxX = max(maxX, p.position.X)
	}
	if !near(minX, -0.05) || !near(maxX, 0.1) {
		t.Errorf("Expected points across x in [-0.05, 0.1], got [%v, %v]", minX, maxX)
	}
}

func TestSphereManifoldIsSinglePoint(t *testing.T) {
	a := primitive{kind: ShapeSphere, pose: At(0, 0.9, 0), radius: 0.5}
	b := primitive{kind: ShapeSphere, pose: At(0, 0, 0), radius: 0.5}
	c, _ := collide(a, b)
	points := manifold(a, b, c, nil)
	if len(points) != 1 || points[0].feature != featureSingle {
		t.Errorf("Expected the narrow phase point only, got %v", points)
	}
}

func TestOBBContainsWithTolerance(t *testing.T) {
	o := NewOBB(Pose{Rotation: rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, math.Pi/4)}, rl.Vector3{X: 1, Y: 1, Z: 1})
	if !o.Contains(rl.Vector3{X: 1.4}, 0) {
		t.Error("Point inside the rotated box should be contained")
	}
	if o.Contains(rl.Vector3{X: 1, Z: 1}, 0) {
		t.Error("Point beyond the rotated face should not be contained")
	}
	if !o.Contains(rl.Vector3{Y: 1.0005}, 1e-3) {
		t.Error("Point on the face should be contained within tolerance")
	}
}
