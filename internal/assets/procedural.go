package assets

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

const cylinderSlices = 16

// HammerSpec sizes the procedural hammer. The handle runs along local Y,
// centered on the origin; the head sits at HeadOffset.
type HammerSpec struct {
	HandleRadius     float32
	HandleHalfHeight float32
	HeadHalf         rl.Vector3
	HeadOffset       rl.Vector3
}

func modelPart(mesh rl.Mesh, local rl.Matrix, mat Material) Part {
	model := rl.LoadModelFromMesh(mesh)
	model.Materials.Maps.Color = mat.Color
	return Part{Model: model, Local: local, Material: mat}
}

// Cube returns a box mesh of the given half extents. Requires a GL context.
func (l *Library) Cube(name string, half rl.Vector3, mat Material) *Mesh {
	if m, ok := l.meshes[name]; ok {
		return m
	}
	part := modelPart(rl.GenMeshCube(2*half.X, 2*half.Y, 2*half.Z), rl.MatrixIdentity(), mat)
	m := &Mesh{
		Name:     name,
		Kind:     MeshModel,
		Material: mat,
		Parts:    []Part{part},
		Radius:   rl.Vector3Length(half),
	}
	l.meshes[name] = m
	return m
}

// Hammer returns a two part mesh matching HammerSpec. Requires a GL context.
func (l *Library) Hammer(name string, spec HammerSpec, handle, head Material) *Mesh {
	if m, ok := l.meshes[name]; ok {
		return m
	}
	// GenMeshCylinder grows up from y=0.
	handleLocal := rl.MatrixTranslate(0, -spec.HandleHalfHeight, 0)
	headLocal := rl.MatrixTranslate(spec.HeadOffset.X, spec.HeadOffset.Y, spec.HeadOffset.Z)

	m := &Mesh{
		Name:     name,
		Kind:     MeshModel,
		Material: head,
		Parts: []Part{
			modelPart(rl.GenMeshCylinder(spec.HandleRadius, 2*spec.HandleHalfHeight, cylinderSlices), handleLocal, handle),
			modelPart(rl.GenMeshCube(2*spec.HeadHalf.X, 2*spec.HeadHalf.Y, 2*spec.HeadHalf.Z), headLocal, head),
		},
		Radius: hammerRadius(spec),
	}
	l.meshes[name] = m
	return m
}

func hammerRadius(spec HammerSpec) float32 {
	r := rl.Vector3Length(rl.NewVector3(spec.HandleRadius, spec.HandleHalfHeight, spec.HandleRadius))
	if h := rl.Vector3Length(spec.HeadOffset) + rl.Vector3Length(spec.HeadHalf); h > r {
		r = h
	}
	return r
}

// Controller returns a wand shaped controller model: a grip with a touch
// pad disc on top. Requires a GL context.
func (l *Library) Controller(name string, mat Material) *Mesh {
	if m, ok := l.meshes[name]; ok {
		return m
	}
	// The touch pad glows faintly so it reads in the dark.
	pad := mat
	pad.Name = mat.Name + "_pad"
	pad.Color = rl.DarkGray
	pad.Emissive = 0.4

	m := &Mesh{
		Name:     name,
		Kind:     MeshModel,
		Material: mat,
		Parts: []Part{
			modelPart(rl.GenMeshCube(0.04, 0.03, 0.16), rl.MatrixTranslate(0, 0, 0.04), mat),
			modelPart(rl.GenMeshCylinder(0.018, 0.004, cylinderSlices), rl.MatrixTranslate(0, 0.015, 0), pad),
		},
		Radius: 0.13,
	}
	l.meshes[name] = m
	return m
}

// Grid returns a line grid of slices x slices cells centered on the origin.
// Grids carry no GPU data.
func (l *Library) Grid(name string, slices int, spacing float32, color rl.Color) *Mesh {
	if m, ok := l.meshes[name]; ok {
		return m
	}
	m := NewGrid(name, slices, spacing, color)
	l.meshes[name] = m
	return m
}

func NewGrid(name string, slices int, spacing float32, color rl.Color) *Mesh {
	half := float32(slices) * spacing / 2
	return &Mesh{
		Name:     name,
		Kind:     MeshGrid,
		Material: Material{Name: name, Color: color},
		Grid:     GridSpec{Slices: slices, Spacing: spacing, Color: color},
		Radius:   half * 1.4142135,
	}
}

// Lines returns the grid's segments in local space, two points per line.
func (g GridSpec) Lines() []rl.Vector3 {
	if g.Slices <= 0 {
		return nil
	}
	half := float32(g.Slices) * g.Spacing / 2
	out := make([]rl.Vector3, 0, 4*(g.Slices+1))
	for i := 0; i <= g.Slices; i++ {
		o := -half + float32(i)*g.Spacing
		out = append(out,
			rl.NewVector3(o, 0, -half), rl.NewVector3(o, 0, half),
			rl.NewVector3(-half, 0, o), rl.NewVector3(half, 0, o),
		)
	}
	return out
}
