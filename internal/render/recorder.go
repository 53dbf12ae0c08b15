package render

import (
	"vrsandbox/internal/assets"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type Op int

const (
	OpClear Op = iota
	OpLights
	OpDraw
)

func (o Op) String() string {
	switch o {
	case OpClear:
		return "clear"
	case OpLights:
		return "lights"
	case OpDraw:
		return "draw"
	}
	return "unknown"
}

// Command is one recorded DrawContext call. Only the fields of its Op are set.
type Command struct {
	Op        Op
	Color     rl.Color
	Lights    []Light
	Transform rl.Matrix
	Mesh      *assets.Mesh
}

// Recorder is a DrawContext that keeps every command in memory. Used for
// headless runs and tests.
type Recorder struct {
	Commands []Command
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Clear(color rl.Color) {
	r.Commands = append(r.Commands, Command{Op: OpClear, Color: color})
}

func (r *Recorder) SetLights(lights []Light) {
	r.Commands = append(r.Commands, Command{Op: OpLights, Lights: append([]Light(nil), lights...)})
}

func (r *Recorder) Draw(transform rl.Matrix, mesh *assets.Mesh) {
	r.Commands = append(r.Commands, Command{Op: OpDraw, Transform: transform, Mesh: mesh})
}

// Reset drops recorded commands, keeping the backing array.
func (r *Recorder) Reset() {
	r.Commands = r.Commands[:0]
}

// Draws returns only the draw commands, in order.
func (r *Recorder) Draws() []Command {
	var out []Command
	for _, c := range r.Commands {
		if c.Op == OpDraw {
			out = append(out, c)
		}
	}
	return out
}

// Lights returns the most recent light set, or nil.
func (r *Recorder) Lights() []Light {
	for i := len(r.Commands) - 1; i >= 0; i-- {
		if r.Commands[i].Op == OpLights {
			return r.Commands[i].Lights
		}
	}
	return nil
}
