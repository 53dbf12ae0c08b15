package render

import (
	"fmt"
	"log"
	"path/filepath"

	"vrsandbox/internal/assets"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Ambient is the base light level of the lighting shader.
var Ambient = []float32{0.15, 0.15, 0.18, 1.0}

type lightLocs struct {
	position int32
	color    int32
}

type shadingLocs struct {
	diffuse  int32
	power    int32
	strength int32
	metallic int32
	emissive int32
}

// Mirror draws frames to the desktop window with raylib. Call Begin and End
// around each frame; DrawContext calls are only valid in between.
type Mirror struct {
	Shader rl.Shader
	HUD    *HUD

	lights  [MaxLights]lightLocs
	surface shadingLocs
	viewLoc int32
	shaded  map[*assets.Mesh]bool
	inFrame bool
	frustum Frustum
	culled  int
}

// NewMirror loads the lighting shader from shaderDir. Requires a window.
func NewMirror(shaderDir string) (*Mirror, error) {
	vs := filepath.Join(shaderDir, "lighting.vs")
	fs := filepath.Join(shaderDir, "lighting.fs")
	shader := rl.LoadShader(vs, fs)
	if shader.ID == 0 {
		return nil, fmt.Errorf("render: load shader %s", shaderDir)
	}

	m := &Mirror{
		Shader: shader,
		HUD:    NewHUD(),
		shaded: make(map[*assets.Mesh]bool),
	}
	for i := range m.lights {
		m.lights[i] = lightLocs{
			position: rl.GetShaderLocation(shader, fmt.Sprintf("lights[%d].position", i)),
			color:    rl.GetShaderLocation(shader, fmt.Sprintf("lights[%d].color", i)),
		}
	}
	m.viewLoc = rl.GetShaderLocation(shader, "viewPos")
	m.surface = shadingLocs{
		diffuse:  rl.GetShaderLocation(shader, "diffuseScale"),
		power:    rl.GetShaderLocation(shader, "specPower"),
		strength: rl.GetShaderLocation(shader, "specStrength"),
		metallic: rl.GetShaderLocation(shader, "metallic"),
		emissive: rl.GetShaderLocation(shader, "emissive"),
	}

	ambientLoc := rl.GetShaderLocation(shader, "ambient")
	rl.SetShaderValue(shader, ambientLoc, Ambient, rl.ShaderUniformVec4)

	log.Printf("Render: lighting shader loaded from %s", shaderDir)
	return m, nil
}

// Begin opens a frame viewed through cam.
func (m *Mirror) Begin(cam rl.Camera3D) {
	rl.BeginDrawing()
	rl.SetShaderValue(m.Shader, m.viewLoc, []float32{cam.Position.X, cam.Position.Y, cam.Position.Z}, rl.ShaderUniformVec3)
	rl.BeginMode3D(cam)
	m.frustum = NewFrustum(cam, float32(rl.GetScreenWidth())/float32(rl.GetScreenHeight()))
	m.culled = 0
	m.inFrame = true
}

// End closes the 3D pass and draws the HUD on top.
func (m *Mirror) End(stats Stats) {
	rl.EndMode3D()
	stats.Culled = m.culled
	m.HUD.Draw(stats)
	rl.EndDrawing()
	m.inFrame = false
}

func (m *Mirror) Clear(color rl.Color) {
	rl.ClearBackground(color)
}

// SetLights uploads up to MaxLights lights. Unused slots get the zero Light,
// which contributes nothing.
func (m *Mirror) SetLights(lights []Light) {
	if len(lights) > MaxLights {
		log.Printf("Render: %d lights, shader takes %d", len(lights), MaxLights)
		lights = lights[:MaxLights]
	}
	for i, loc := range m.lights {
		var l Light
		if i < len(lights) {
			l = lights[i]
		}
		rl.SetShaderValue(m.Shader, loc.position, []float32{l.Position.X, l.Position.Y, l.Position.Z}, rl.ShaderUniformVec3)
		rl.SetShaderValue(m.Shader, loc.color, l.ColorFloat(), rl.ShaderUniformVec3)
	}
}

func (m *Mirror) Draw(transform rl.Matrix, mesh *assets.Mesh) {
	if !m.inFrame || mesh == nil {
		return
	}
	switch mesh.Kind {
	case assets.MeshGrid:
		drawGrid(transform, mesh.Grid)
	default:
		center := rl.NewVector3(transform.M12, transform.M13, transform.M14)
		if mesh.Radius > 0 && !m.frustum.ContainsSphere(center, mesh.Radius) {
			m.culled++
			return
		}
		if !m.shaded[mesh] {
			for _, p := range mesh.Parts {
				p.Model.Materials.Shader = m.Shader
			}
			m.shaded[mesh] = true
		}
		for _, p := range mesh.Parts {
			m.setShading(ShadingFor(p.Material))
			model := p.Model
			model.Transform = rl.MatrixMultiply(p.Local, transform)
			rl.DrawModel(model, rl.Vector3Zero(), 1.0, rl.White)
		}
	}
}

func (m *Mirror) setShading(sh Shading) {
	for _, u := range []struct {
		loc int32
		v   float32
	}{
		{m.surface.diffuse, sh.DiffuseScale},
		{m.surface.power, sh.SpecularPower},
		{m.surface.strength, sh.SpecularStrength},
		{m.surface.metallic, sh.Metallic},
		{m.surface.emissive, sh.Emissive},
	} {
		rl.SetShaderValue(m.Shader, u.loc, []float32{u.v}, rl.ShaderUniformFloat)
	}
}

func drawGrid(transform rl.Matrix, g assets.GridSpec) {
	lines := g.Lines()
	for i := 0; i+1 < len(lines); i += 2 {
		a := rl.Vector3Transform(lines[i], transform)
		b := rl.Vector3Transform(lines[i+1], transform)
		rl.DrawLine3D(a, b, g.Color)
	}
}

func (m *Mirror) Unload() {
	rl.UnloadShader(m.Shader)
}
