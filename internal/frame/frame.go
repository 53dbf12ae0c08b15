// Package frame runs one simulation and presentation frame: step the world,
// read the controllers, then issue lights and draws to a DrawContext.
package frame

import (
	"log"

	"vrsandbox/internal/engine"
	"vrsandbox/internal/render"
	"vrsandbox/internal/vr"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// FixedStep is the physics advance per frame, independent of wall time.
const FixedStep = 0.01

const (
	Gamma = 2.2

	// ControllerLightScale maps trigger [0,1] to light intensity.
	ControllerLightScale = 10

	// TouchRadius is the touch sphere around the primary controller.
	TouchRadius = 0.02
)

// Background is the clear color in linear space.
var Background = rl.NewColor(20, 22, 30, 255)

// ControllerLightColor tints the light carried by the secondary controller.
var ControllerLightColor = rl.NewColor(255, 240, 200, 255)

// FixedLights are anchored in world space; Lights moves them through the stage.
var FixedLights = [3]render.Light{
	{Position: rl.NewVector3(-2, 3, -2), Color: rl.NewColor(255, 80, 80, 255), Intensity: 6},
	{Position: rl.NewVector3(2, 3, -2), Color: rl.NewColor(80, 255, 120, 255), Intensity: 6},
	{Position: rl.NewVector3(0, 3, 2), Color: rl.NewColor(90, 120, 255, 255), Intensity: 6},
}

// Input is what the outer loop hands to each frame.
type Input struct {
	Now      float64 // seconds, monotonic
	Snapshot vr.Snapshot
}

// Report summarizes one frame for the HUD and logs.
type Report struct {
	Elapsed    float32
	Stepped    bool
	Mismatches []error
	Tracked    int
	Draws      int
	Touching   []int
}

// Driver owns the controller states and drives a scene frame by frame.
type Driver struct {
	Scene     *engine.Scene
	Primary   *vr.ControllerState
	Secondary *vr.ControllerState

	// Paused skips the physics step; drawing continues.
	Paused bool

	last    float64
	started bool
}

func NewDriver(scene *engine.Scene) *Driver {
	return &Driver{
		Scene:     scene,
		Primary:   vr.NewControllerState(vr.Primary),
		Secondary: vr.NewControllerState(vr.Secondary),
	}
}

// Lights returns the fixed lights mapped through stage into tracking space,
// plus the secondary controller's light, which is already tracked there. A
// disconnected controller contributes the zero Light.
func Lights(secondary *vr.ControllerState, stage rl.Matrix) []render.Light {
	lights := make([]render.Light, 0, len(FixedLights)+1)
	for _, l := range FixedLights {
		l.Position = rl.Vector3Transform(l.Position, stage)
		lights = append(lights, l)
	}

	var l render.Light
	if secondary.Connected {
		l = render.Light{
			Position:  secondary.Position(),
			Color:     ControllerLightColor,
			Intensity: ControllerLightScale * secondary.EffectiveTrigger(),
		}
	}
	return append(lights, l)
}

// Frame runs one frame. Device errors are logged and reported; they never
// stop the frame.
func (d *Driver) Frame(in Input, dc render.DrawContext) Report {
	var rep Report

	if d.started {
		rep.Elapsed = float32(in.Now - d.last)
	}
	d.last = in.Now
	d.started = true

	if !d.Paused {
		d.Scene.World.Step(FixedStep)
		rep.Stepped = true
	}

	for _, c := range [...]*vr.ControllerState{d.Primary, d.Secondary} {
		if err := c.Update(in.Snapshot); err != nil {
			log.Printf("Frame: %v", err)
			rep.Mismatches = append(rep.Mismatches, err)
		}
	}

	dc.Clear(render.GammaCorrect(Background, Gamma))
	dc.SetLights(Lights(d.Secondary, in.Snapshot.StageMatrix()))

	rep.Draws, rep.Tracked = d.draw(in.Snapshot, dc)
	rep.Touching = d.touching(in.Snapshot)
	if len(rep.Touching) > 0 {
		d.Scene.OnTouch.Invoke(engine.TouchEvent{
			Center:  d.touchCenter(in.Snapshot),
			Radius:  TouchRadius,
			Indices: rep.Touching,
		})
	}
	return rep
}

// draw issues the grid, hammer, pool and controllers in that order.
func (d *Driver) draw(snap vr.Snapshot, dc render.DrawContext) (draws, tracked int) {
	s := d.Scene
	stage := snap.StageMatrix()
	n := 0

	dc.Draw(stage, s.Grid)
	n++
	dc.Draw(s.Hammer.Transform(s.World, stage), s.Hammer.Mesh)
	n++
	for _, o := range s.Objects {
		dc.Draw(o.Transform(s.World, stage), o.Mesh)
		n++
	}

	controllers := snap.TrackedControllers()
	for _, c := range controllers {
		dc.Draw(c.Pose, s.ControllerGrid)
		dc.Draw(c.Pose, s.Controller)
		n += 2
	}
	return n, len(controllers)
}

// touchCenter maps the primary controller from tracking space into world space.
func (d *Driver) touchCenter(snap vr.Snapshot) rl.Vector3 {
	toWorld := rl.MatrixInvert(snap.StageMatrix())
	return rl.Vector3Transform(d.Primary.Position(), toWorld)
}

func (d *Driver) touching(snap vr.Snapshot) []int {
	if !d.Primary.Connected {
		return nil
	}
	return d.Scene.Touching(d.touchCenter(snap), TouchRadius)
}
