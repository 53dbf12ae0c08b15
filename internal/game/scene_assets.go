package game

import (
	"context"
	"fmt"
	"log"

	"vrsandbox/internal/assets"
	"vrsandbox/internal/config"
	"vrsandbox/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Reference grid sizes.
const (
	FloorGridSlices       = 20
	FloorGridSpacing      = 0.5
	ControllerGridSlices  = 4
	ControllerGridSpacing = 0.05
)

var (
	FloorGridColor      = rl.NewColor(90, 90, 110, 255)
	ControllerGridColor = rl.NewColor(80, 170, 255, 255)
)

// Materials indexes descriptors by material name.
type Materials map[string]assets.Material

// LoadMaterials reads the configured descriptors concurrently and indexes
// them by name.
func LoadMaterials(ctx context.Context, paths []string) (Materials, error) {
	byPath, err := assets.LoadMaterials(ctx, paths)
	if err != nil {
		return nil, err
	}
	out := make(Materials, len(byPath))
	for _, p := range paths {
		m := byPath[p]
		out[m.Name] = m
	}
	return out, nil
}

// Get returns the named material or the default one.
func (m Materials) Get(name string) assets.Material {
	if mat, ok := m[name]; ok {
		return mat
	}
	mat := assets.DefaultMaterial()
	mat.Name = name
	return mat
}

// BuildSceneAssets loads or generates every mesh the scene needs. Mesh
// directories from the config win over procedural meshes. Requires a GL context.
func BuildSceneAssets(lib *assets.Library, cfg config.AssetsConfig, mats Materials) (engine.SceneAssets, error) {
	var a engine.SceneAssets
	var err error

	if cfg.CubeDir != "" {
		if a.Cube, err = lib.LoadDir(cfg.CubeDir); err != nil {
			return a, fmt.Errorf("cube mesh: %w", err)
		}
	} else {
		a.Cube = lib.Cube("cube", rl.NewVector3(engine.CubeHalf, engine.CubeHalf, engine.CubeHalf), mats.Get("cube"))
	}

	if cfg.HammerDir != "" {
		if a.Hammer, err = lib.LoadDir(cfg.HammerDir); err != nil {
			return a, fmt.Errorf("hammer mesh: %w", err)
		}
	} else {
		a.Hammer = lib.Hammer("hammer", engine.HammerShape, mats.Get("hammer_handle"), mats.Get("hammer_head"))
	}

	a.Controller = lib.Controller("controller", mats.Get("controller"))
	a.Grid = lib.Grid("floor_grid", FloorGridSlices, FloorGridSpacing, FloorGridColor)
	a.ControllerGrid = lib.Grid("controller_grid", ControllerGridSlices, ControllerGridSpacing, ControllerGridColor)

	log.Printf("Assets: scene meshes ready (cube=%s hammer=%s)", a.Cube.Name, a.Hammer.Name)
	return a, nil
}

// HeadlessSceneAssets returns meshes without GPU data, for runs with no window.
func HeadlessSceneAssets(mats Materials) engine.SceneAssets {
	half := rl.NewVector3(engine.CubeHalf, engine.CubeHalf, engine.CubeHalf)
	return engine.SceneAssets{
		Cube:           &assets.Mesh{Name: "cube", Kind: assets.MeshModel, Material: mats.Get("cube"), Radius: rl.Vector3Length(half)},
		Hammer:         &assets.Mesh{Name: "hammer", Kind: assets.MeshModel, Material: mats.Get("hammer_head")},
		Controller:     &assets.Mesh{Name: "controller", Kind: assets.MeshModel, Material: mats.Get("controller")},
		Grid:           assets.NewGrid("floor_grid", FloorGridSlices, FloorGridSpacing, FloorGridColor),
		ControllerGrid: assets.NewGrid("controller_grid", ControllerGridSlices, ControllerGridSpacing, ControllerGridColor),
	}
}
