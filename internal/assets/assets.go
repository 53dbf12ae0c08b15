// Package assets builds the immutable meshes the scene draws. Meshes are
// shared by pointer: one cube mesh backs every lattice cube.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// MeshKind selects how a mesh is drawn.
type MeshKind int

const (
	MeshModel MeshKind = iota
	MeshGrid
)

// Part is one model inside a mesh, placed at a local transform with its own
// surface.
type Part struct {
	Model    rl.Model
	Local    rl.Matrix
	Material Material
}

// GridSpec describes a line grid in the local XZ plane.
type GridSpec struct {
	Slices  int
	Spacing float32
	Color   rl.Color
}

// Mesh is renderable geometry plus its material. It is never modified after
// the library hands it out.
type Mesh struct {
	Name     string
	Kind     MeshKind
	Material Material
	Parts    []Part
	Grid     GridSpec
	Radius   float32 // local bounding sphere
}

// AssetLoadError reports a mesh, material or texture that could not be loaded.
type AssetLoadError struct {
	Path string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("assets: load %s: %v", e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}

var (
	ErrMalformed   = errors.New("malformed model")
	ErrUnsupported = errors.New("unsupported model format")
	ErrNoModel     = errors.New("no model file in directory")
)

// ModelExtensions are the formats raylib can load.
var ModelExtensions = []string{".obj", ".gltf", ".glb", ".iqm", ".vox", ".m3d"}

// MaterialSuffix names the descriptor next to a model file: hammer.obj -> hammer.material.yaml.
const MaterialSuffix = ".material.yaml"

// DirMaterialFile is the descriptor inside a mesh directory.
const DirMaterialFile = "material.yaml"

// Library loads and caches meshes by path or name.
type Library struct {
	meshes   map[string]*Mesh
	textures map[string]rl.Texture2D
}

func NewLibrary() *Library {
	return &Library{
		meshes:   make(map[string]*Mesh),
		textures: make(map[string]rl.Texture2D),
	}
}

func isModelFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range ModelExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadFile loads a model file and its optional sidecar material. Results are
// cached per path so repeated loads share one mesh.
func (l *Library) LoadFile(path string) (*Mesh, error) {
	path = filepath.Clean(path)
	if m, ok := l.meshes[path]; ok {
		return m, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &AssetLoadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return l.LoadDir(path)
	}
	if !isModelFile(path) {
		return nil, &AssetLoadError{Path: path, Err: ErrUnsupported}
	}
	if info.Size() == 0 {
		return nil, &AssetLoadError{Path: path, Err: ErrMalformed}
	}

	mat := DefaultMaterial()
	matPath := strings.TrimSuffix(path, filepath.Ext(path)) + MaterialSuffix
	if _, err := os.Stat(matPath); err == nil {
		if mat, err = ReadMaterial(matPath); err != nil {
			return nil, err
		}
	}
	return l.load(path, path, mat)
}

// LoadDir loads the first model file in dir together with dir/material.yaml.
func (l *Library) LoadDir(dir string) (*Mesh, error) {
	dir = filepath.Clean(dir)
	if m, ok := l.meshes[dir]; ok {
		return m, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &AssetLoadError{Path: dir, Err: err}
	}
	modelPath := ""
	for _, e := range entries {
		if !e.IsDir() && isModelFile(e.Name()) {
			modelPath = filepath.Join(dir, e.Name())
			break
		}
	}
	if modelPath == "" {
		return nil, &AssetLoadError{Path: dir, Err: ErrNoModel}
	}
	if info, err := os.Stat(modelPath); err != nil || info.Size() == 0 {
		return nil, &AssetLoadError{Path: modelPath, Err: ErrMalformed}
	}

	mat := DefaultMaterial()
	matPath := filepath.Join(dir, DirMaterialFile)
	if _, err := os.Stat(matPath); err == nil {
		if mat, err = ReadMaterial(matPath); err != nil {
			return nil, err
		}
	}
	return l.load(dir, modelPath, mat)
}

// load validates the texture, then uploads the model. Requires a GL context.
func (l *Library) load(key, modelPath string, mat Material) (*Mesh, error) {
	texPath := ""
	if mat.Texture != "" {
		texPath = mat.Texture
		if !filepath.IsAbs(texPath) {
			texPath = filepath.Join(filepath.Dir(modelPath), texPath)
		}
		if _, err := os.Stat(texPath); err != nil {
			return nil, &AssetLoadError{Path: texPath, Err: fmt.Errorf("texture for %s: %w", modelPath, err)}
		}
	}

	model := rl.LoadModel(modelPath)
	if model.MeshCount == 0 {
		return nil, &AssetLoadError{Path: modelPath, Err: ErrMalformed}
	}
	if texPath != "" {
		tex, ok := l.textures[texPath]
		if !ok {
			tex = rl.LoadTexture(texPath)
			if tex.ID == 0 {
				rl.UnloadModel(model)
				return nil, &AssetLoadError{Path: texPath, Err: ErrMalformed}
			}
			l.textures[texPath] = tex
		}
		rl.SetMaterialTexture(model.Materials, int32(rl.MapDiffuse), tex)
	}
	model.Materials.Maps.Color = mat.Color

	mesh := &Mesh{
		Name:     strings.TrimSuffix(filepath.Base(modelPath), filepath.Ext(modelPath)),
		Kind:     MeshModel,
		Material: mat,
		Parts:    []Part{{Model: model, Local: rl.MatrixIdentity(), Material: mat}},
		Radius:   boundingRadius(rl.GetModelBoundingBox(model)),
	}
	l.meshes[key] = mesh
	return mesh, nil
}

func boundingRadius(box rl.BoundingBox) float32 {
	r := rl.Vector3Length(box.Min)
	if m := rl.Vector3Length(box.Max); m > r {
		r = m
	}
	return r
}

// Unload releases every GPU resource the library created.
func (l *Library) Unload() {
	for _, m := range l.meshes {
		for _, p := range m.Parts {
			rl.UnloadModel(p.Model)
		}
	}
	for _, tex := range l.textures {
		rl.UnloadTexture(tex)
	}
	l.meshes = make(map[string]*Mesh)
	l.textures = make(map[string]rl.Texture2D)
}
