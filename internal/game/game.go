package game

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"vrsandbox/internal/assets"
	"vrsandbox/internal/camera"
	"vrsandbox/internal/config"
	"vrsandbox/internal/engine"
	"vrsandbox/internal/frame"
	"vrsandbox/internal/render"
	"vrsandbox/internal/vr"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HeadStart is where the emulated headset begins, looking at the lattice.
var HeadStart = rl.NewVector3(0, 1.6, 0.6)

type Game struct {
	Config   config.Config
	Scene    *engine.Scene
	Driver   *frame.Driver
	Emulator *vr.Emulator

	materials Materials
	frames    uint64

	// Debug timing (ms)
	frameMs float64
}

func New(cfg config.Config) *Game {
	head := camera.New(HeadStart)
	head.MoveSpeed = cfg.Emulator.MoveSpeed
	head.LookSpeed = cfg.Emulator.LookSpeed
	return &Game{
		Config:   cfg,
		Emulator: vr.NewEmulator(head),
	}
}

// Prepare reads material descriptors. It runs before any window exists.
func (g *Game) Prepare(ctx context.Context) error {
	mats, err := LoadMaterials(ctx, g.Config.Assets.Materials)
	if err != nil {
		return fmt.Errorf("materials: %w", err)
	}
	g.materials = mats
	log.Printf("Game: %d materials loaded", len(mats))
	return nil
}

func (g *Game) setup(a engine.SceneAssets) error {
	scene, err := engine.SetupWorld(a)
	if err != nil {
		return fmt.Errorf("setup world: %w", err)
	}
	g.Scene = scene
	g.Driver = frame.NewDriver(scene)
	if g.Config.Verbose {
		scene.OnTouch.AddListener(func(e engine.TouchEvent) {
			log.Printf("Game: controller touching %d objects at %v", len(e.Indices), e.Center)
		})
	}
	return nil
}

// Run opens the mirror window and loops until it is closed.
func (g *Game) Run() error {
	wc := g.Config.Window
	if wc.HighDPI {
		rl.SetConfigFlags(rl.FlagWindowHighdpi)
	}
	rl.InitWindow(wc.Width, wc.Height, wc.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(wc.TargetFPS)
	rl.DisableCursor()

	// GPU resources need the context created above.
	lib := assets.NewLibrary()
	defer lib.Unload()
	a, err := BuildSceneAssets(lib, g.Config.Assets, g.materials)
	if err != nil {
		return err
	}
	if err := g.setup(a); err != nil {
		return err
	}

	mirror, err := render.NewMirror(g.Config.Assets.ShaderDir)
	if err != nil {
		return err
	}
	defer mirror.Unload()
	mirror.HUD.Visible = g.Config.ShowHUD

	controls := vr.NewDesktopControls()
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyF1) {
			mirror.HUD.Visible = !mirror.HUD.Visible
		}
		if rl.IsKeyPressed(rl.KeyTab) {
			if rl.IsCursorHidden() {
				rl.EnableCursor()
			} else {
				rl.DisableCursor()
			}
		}

		snap := g.Emulator.Poll(controls.Read(), rl.GetFrameTime())
		g.Driver.Paused = mirror.HUD.Paused

		mirror.Begin(camera.FromPose(vr.ToMatrix(snap.HMD)))
		start := time.Now()
		rep := g.Driver.Frame(frame.Input{Now: rl.GetTime(), Snapshot: snap}, mirror)
		g.frameMs = float64(time.Since(start).Microseconds()) / 1000.0
		g.record(rep)
		mirror.End(g.Stats(rep, rl.GetFPS()))
	}
	return nil
}

// RunHeadless drives frames into a Recorder with scripted controller input.
// No window or GPU is needed.
func (g *Game) RunHeadless(ctx context.Context, frames int) (render.Stats, error) {
	if err := g.setup(HeadlessSceneAssets(g.materials)); err != nil {
		return render.Stats{}, err
	}

	rec := render.NewRecorder()
	var rep frame.Report
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return g.Stats(rep, 0), err
		}
		rec.Reset()
		now := float64(i) * frame.FixedStep
		snap := g.Emulator.Poll(ScriptedInput(i), frame.FixedStep)
		rep = g.Driver.Frame(frame.Input{Now: now, Snapshot: snap}, rec)
		g.record(rep)
	}
	stats := g.Stats(rep, 0)
	log.Printf("Game: headless run finished after %d frames, %d bodies asleep", frames, stats.Sleeping)
	return stats, nil
}

func (g *Game) record(rep frame.Report) {
	g.frames++
	if g.Config.Verbose {
		log.Printf("Game: frame %d elapsed=%.4f draws=%d tracked=%d touching=%d mismatches=%d (%.2f ms)",
			g.frames, rep.Elapsed, rep.Draws, rep.Tracked, len(rep.Touching), len(rep.Mismatches), g.frameMs)
	}
}

// Stats gathers HUD numbers for a frame report.
func (g *Game) Stats(rep frame.Report, fps int32) render.Stats {
	s := render.Stats{
		FPS:         fps,
		Elapsed:     rep.Elapsed,
		Controllers: rep.Tracked,
		Touching:    len(rep.Touching),
		Mismatches:  len(rep.Mismatches),
	}
	if g.Scene == nil {
		return s
	}
	w := g.Scene.World
	s.Steps = w.Steps()
	s.Bodies = w.BodyCount()
	for _, o := range g.Scene.Objects {
		if w.IsSleeping(o.Body) {
			s.Sleeping++
		}
	}
	return s
}

// ScriptedInput is the controller script for headless runs: both hands
// connected, the head turning slowly, the secondary trigger pulsing and a
// tracker swapped into the secondary slot for one frame in every 200.
func ScriptedInput(frameIndex int) vr.EmulatorInput {
	t := float64(frameIndex) * frame.FixedStep
	pulse := float32(0.5 + 0.5*math.Sin(2*math.Pi*0.5*t))
	return vr.EmulatorInput{
		Head:      camera.Input{MouseDelta: rl.NewVector2(2, 0)},
		Connected: map[vr.Hand]bool{vr.Primary: true, vr.Secondary: true},
		Trigger:   map[vr.Hand]float32{vr.Primary: 0, vr.Secondary: pulse},
		Tracker:   frameIndex%200 == 199,
	}
}
