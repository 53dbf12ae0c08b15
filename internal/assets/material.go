package assets

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Material defines surface properties for rendering
type Material struct {
	Name      string
	Color     rl.Color
	Metallic  float32
	Roughness float32
	Emissive  float32
	Texture   string // relative to the model file
}

// materialDef is the descriptor format. JSON descriptors parse too.
type materialDef struct {
	Name      string   `yaml:"name"`
	Color     string   `yaml:"color"`
	Metallic  float32  `yaml:"metallic"`
	Roughness *float32 `yaml:"roughness"`
	Emissive  float32  `yaml:"emissive"`
	Texture   string   `yaml:"texture"`
}

// MaxConcurrentReads bounds LoadMaterials.
const MaxConcurrentReads = 8

// Color name mapping for materials
var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Purple":    rl.Purple,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"Gold":      rl.Gold,
	"White":     rl.White,
	"Gray":      rl.Gray,
	"LightGray": rl.LightGray,
	"DarkGray":  rl.DarkGray,
	"Black":     rl.Black,
	"Brown":     rl.Brown,
	"Beige":     rl.Beige,
	"SkyBlue":   rl.SkyBlue,
	"DarkBlue":  rl.DarkBlue,
	"Lime":      rl.Lime,
	"DarkGreen": rl.DarkGreen,
}

func DefaultMaterial() Material {
	return Material{Name: "default", Color: rl.White, Roughness: 0.5}
}

// LookupColor accepts a color name or #RRGGBB / #RRGGBBAA.
func LookupColor(s string) (rl.Color, error) {
	if c, ok := colorByName[s]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return rl.Color{}, fmt.Errorf("unknown color %q", s)
	}
	b, err := hex.DecodeString(s[1:])
	if err != nil || (len(b) != 3 && len(b) != 4) {
		return rl.Color{}, fmt.Errorf("bad hex color %q", s)
	}
	c := rl.NewColor(b[0], b[1], b[2], 255)
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}

// ParseMaterial decodes a material descriptor. Missing fields take the
// default material's values.
func ParseMaterial(data []byte) (Material, error) {
	var def materialDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Material{}, err
	}

	mat := DefaultMaterial()
	if def.Name != "" {
		mat.Name = def.Name
	}
	if def.Color != "" {
		c, err := LookupColor(def.Color)
		if err != nil {
			return Material{}, err
		}
		mat.Color = c
	}
	if def.Roughness != nil {
		mat.Roughness = *def.Roughness
	}
	mat.Metallic = def.Metallic
	mat.Emissive = def.Emissive
	mat.Texture = def.Texture

	for _, v := range []float32{mat.Metallic, mat.Roughness, mat.Emissive} {
		if v < 0 || v > 1 {
			return Material{}, fmt.Errorf("material %s: value %g outside [0,1]", mat.Name, v)
		}
	}
	return mat, nil
}

// ReadMaterial reads and parses one descriptor file.
func ReadMaterial(path string) (Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Material{}, &AssetLoadError{Path: path, Err: err}
	}
	mat, err := ParseMaterial(data)
	if err != nil {
		return Material{}, &AssetLoadError{Path: path, Err: err}
	}
	return mat, nil
}

// LoadMaterials reads descriptors concurrently. It touches no GPU state, so
// it is safe off the render goroutine. The first failure cancels the rest.
func LoadMaterials(ctx context.Context, paths []string) (map[string]Material, error) {
	results := make([]Material, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentReads)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mat, err := ReadMaterial(path)
			if err != nil {
				return err
			}
			results[i] = mat
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]Material, len(paths))
	for i, path := range paths {
		out[path] = results[i]
	}
	return out, nil
}
