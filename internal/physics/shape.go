package physics

import (
	"errors"
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ShapeKind tags the variant held by a Shape.
type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeCylinder
	ShapeSphere
	ShapePlane
	ShapeCompound
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	case ShapeSphere:
		return "sphere"
	case ShapePlane:
		return "plane"
	case ShapeCompound:
		return "compound"
	}
	return fmt.Sprintf("ShapeKind(%d)", int(k))
}

// Shape is a collision shape descriptor. Only the fields of its Kind are meaningful.
// Shapes are values and may be shared between bodies.
type Shape struct {
	Kind ShapeKind

	HalfExtents rl.Vector3 // box
	Radius      float32    // sphere, cylinder
	HalfHeight  float32    // cylinder, along local Y

	// Plane: points p with dot(Normal, p) == Distance.
	Normal   rl.Vector3
	Distance float32

	Children []ChildShape // compound
}

// ChildShape places a shape inside a compound at a local offset.
type ChildShape struct {
	Local Pose
	Shape Shape
}

func Box(halfExtents rl.Vector3) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: halfExtents}
}

// Cylinder is aligned with the local Y axis.
func Cylinder(radius, halfHeight float32) Shape {
	return Shape{Kind: ShapeCylinder, Radius: radius, HalfHeight: halfHeight}
}

func Sphere(radius float32) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius}
}

// Plane is infinite and may only back static bodies.
func Plane(normal rl.Vector3, distance float32) Shape {
	return Shape{Kind: ShapePlane, Normal: normal, Distance: distance}
}

func Compound(children ...ChildShape) Shape {
	return Shape{Kind: ShapeCompound, Children: children}
}

func Child(local Pose, s Shape) ChildShape {
	return ChildShape{Local: local, Shape: s}
}

var (
	errEmptyCompound = errors.New("compound shape has no children")
	errNestedPlane   = errors.New("plane cannot be part of a compound")
)

// Validate reports descriptor errors such as non-positive extents.
func (s Shape) Validate() error {
	switch s.Kind {
	case ShapeBox:
		e := s.HalfExtents
		if !(e.X > 0 && e.Y > 0 && e.Z > 0) || !finiteVec(e) {
			return fmt.Errorf("box half extents must be positive, got %v", e)
		}
	case ShapeCylinder:
		if !(s.Radius > 0 && s.HalfHeight > 0) || !finite(s.Radius) || !finite(s.HalfHeight) {
			return fmt.Errorf("cylinder radius and half height must be positive, got %v/%v", s.Radius, s.HalfHeight)
		}
	case ShapeSphere:
		if !(s.Radius > 0) || !finite(s.Radius) {
			return fmt.Errorf("sphere radius must be positive, got %v", s.Radius)
		}
	case ShapePlane:
		if rl.Vector3Length(s.Normal) < 1e-6 || !finiteVec(s.Normal) {
			return fmt.Errorf("plane normal must be non-zero, got %v", s.Normal)
		}
	case ShapeCompound:
		if len(s.Children) == 0 {
			return errEmptyCompound
		}
		for i, c := range s.Children {
			if c.Shape.Kind == ShapePlane {
				return errNestedPlane
			}
			if err := c.Shape.Validate(); err != nil {
				return fmt.Errorf("child %d: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("unknown shape kind %v", s.Kind)
	}
	return nil
}

// BoundingRadius is the radius of a sphere around the local origin enclosing the shape.
// Planes are unbounded.
func (s Shape) BoundingRadius() float32 {
	switch s.Kind {
	case ShapeBox:
		return rl.Vector3Length(s.HalfExtents)
	case ShapeCylinder:
		return float32(math.Hypot(float64(s.Radius), float64(s.HalfHeight)))
	case ShapeSphere:
		return s.Radius
	case ShapeCompound:
		var r float32
		for _, c := range s.Children {
			cr := rl.Vector3Length(c.Local.Position) + c.Shape.BoundingRadius()
			if cr > r {
				r = cr
			}
		}
		return r
	}
	return float32(math.Inf(1))
}

// primitive is a flattened, world-space leaf of a shape.
type primitive struct {
	kind     ShapeKind
	pose     Pose
	half     rl.Vector3 // box, or cylinder approximated by its bounding box
	radius   float32
	normal   rl.Vector3
	distance float32
}

// flatten appends the world-space leaves of s placed at pose, inflated by margin.
func (s Shape) flatten(pose Pose, margin float32, out []primitive) []primitive {
	switch s.Kind {
	case ShapeBox:
		out = append(out, primitive{kind: ShapeBox, pose: pose, half: inflate(s.HalfExtents, margin)})
	case ShapeCylinder:
		half := rl.Vector3{X: s.Radius, Y: s.HalfHeight, Z: s.Radius}
		out = append(out, primitive{kind: ShapeBox, pose: pose, half: inflate(half, margin)})
	case ShapeSphere:
		out = append(out, primitive{kind: ShapeSphere, pose: pose, radius: s.Radius + margin})
	case ShapePlane:
		n := rl.Vector3Normalize(rl.Vector3RotateByQuaternion(s.Normal, pose.Rotation))
		d := s.Distance/rl.Vector3Length(s.Normal) + rl.Vector3DotProduct(n, pose.Position)
		out = append(out, primitive{kind: ShapePlane, pose: pose, normal: n, distance: d})
	case ShapeCompound:
		for _, c := range s.Children {
			out = c.Shape.flatten(pose.Mul(c.Local.normalized()), margin, out)
		}
	}
	return out
}

func inflate(v rl.Vector3, m float32) rl.Vector3 {
	return rl.Vector3{X: v.X + m, Y: v.Y + m, Z: v.Z + m}
}
