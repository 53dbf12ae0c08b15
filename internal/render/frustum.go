package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	clipNear float32 = 0.05
	clipFar  float32 = 100.0
)

// Frustum is the six clip planes of a camera: left, right, bottom, top, near, far.
type Frustum struct {
	planes [6]plane
}

// plane is ax + by + cz + d = 0 with a unit normal pointing inside.
type plane struct {
	normal   rl.Vector3
	distance float32
}

// NewFrustum extracts the planes of cam's view-projection (Gribb/Hartmann).
func NewFrustum(cam rl.Camera3D, aspect float32) Frustum {
	view := rl.MatrixLookAt(cam.Position, cam.Target, cam.Up)
	var proj rl.Matrix
	if cam.Projection == rl.CameraPerspective {
		proj = rl.MatrixPerspective(cam.Fovy*rl.Deg2rad, aspect, clipNear, clipFar)
	} else {
		halfH := cam.Fovy / 2.0
		halfW := halfH * aspect
		proj = rl.MatrixOrtho(-halfW, halfW, -halfH, halfH, clipNear, clipFar)
	}
	vp := rl.MatrixMultiply(view, proj)

	row := func(i int) [4]float32 {
		switch i {
		case 0:
			return [4]float32{vp.M0, vp.M4, vp.M8, vp.M12}
		case 1:
			return [4]float32{vp.M1, vp.M5, vp.M9, vp.M13}
		case 2:
			return [4]float32{vp.M2, vp.M6, vp.M10, vp.M14}
		}
		return [4]float32{vp.M3, vp.M7, vp.M11, vp.M15}
	}
	w := row(3)

	var f Frustum
	for i := 0; i < 3; i++ {
		r := row(i)
		f.planes[2*i] = makePlane(w, r, 1)
		f.planes[2*i+1] = makePlane(w, r, -1)
	}
	return f
}

func makePlane(w, r [4]float32, sign float32) plane {
	p := plane{
		normal:   rl.NewVector3(w[0]+sign*r[0], w[1]+sign*r[1], w[2]+sign*r[2]),
		distance: w[3] + sign*r[3],
	}
	length := rl.Vector3Length(p.normal)
	if length == 0 {
		return p
	}
	return plane{
		normal:   rl.Vector3Scale(p.normal, 1.0/length),
		distance: p.distance / length,
	}
}

// ContainsSphere reports whether a sphere is inside or crosses the frustum.
func (f *Frustum) ContainsSphere(center rl.Vector3, radius float32) bool {
	for i := range f.planes {
		dist := rl.Vector3DotProduct(f.planes[i].normal, center) + f.planes[i].distance
		if dist < -radius {
			return false
		}
	}
	return true
}
