// Package render is the boundary between the frame loop and a graphics
// backend. The frame driver only sees DrawContext.
package render

import (
	"math"

	"vrsandbox/internal/assets"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// MaxLights matches the point light array in the lighting shader.
const MaxLights = 4

// DrawContext receives one frame of draw commands. Implementations must not
// retain the light slice past the call.
type DrawContext interface {
	Clear(color rl.Color)
	SetLights(lights []Light)
	Draw(transform rl.Matrix, mesh *assets.Mesh)
}

// Light is a point light in the same space as the draw transforms. The zero
// Light emits nothing.
type Light struct {
	Position  rl.Vector3
	Color     rl.Color
	Intensity float32
}

// ColorFloat returns the light color premultiplied by intensity.
func (l Light) ColorFloat() []float32 {
	return []float32{
		float32(l.Color.R) / 255.0 * l.Intensity,
		float32(l.Color.G) / 255.0 * l.Intensity,
		float32(l.Color.B) / 255.0 * l.Intensity,
	}
}

// Shading holds the per draw surface uniforms of the lighting shader.
type Shading struct {
	DiffuseScale     float32
	SpecularPower    float32
	SpecularStrength float32
	Metallic         float32 // tints highlights with the base color
	Emissive         float32
}

// ShadingFor maps a material onto the lighting model. Smooth surfaces get a
// tight, bright highlight; metals trade diffuse light for tinted highlights.
// Values outside [0,1] are clamped.
func ShadingFor(m assets.Material) Shading {
	metallic := clamp01(m.Metallic)
	smooth := 1 - clamp01(m.Roughness)
	return Shading{
		DiffuseScale:     1 - 0.7*metallic,
		SpecularPower:    2 + 126*smooth*smooth,
		SpecularStrength: 0.1 + 0.9*smooth,
		Metallic:         metallic,
		Emissive:         clamp01(m.Emissive),
	}
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

// GammaCorrect converts a linear color to display space with 1/gamma.
// Alpha is left alone.
func GammaCorrect(c rl.Color, gamma float32) rl.Color {
	if gamma <= 0 {
		return c
	}
	inv := 1 / float64(gamma)
	ch := func(v uint8) uint8 {
		f := math.Pow(float64(v)/255, inv)
		return uint8(math.Round(f * 255))
	}
	return rl.NewColor(ch(c.R), ch(c.G), ch(c.B), c.A)
}
