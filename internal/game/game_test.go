package game

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"vrsandbox/internal/config"
	"vrsandbox/internal/frame"
	"vrsandbox/internal/render"
	"vrsandbox/internal/vr"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestScriptedInput(t *testing.T) {
	in := ScriptedInput(0)
	if !in.Connected[vr.Primary] || !in.Connected[vr.Secondary] {
		t.Error("Both hands should be connected")
	}
	if in.Trigger[vr.Secondary] != 0.5 {
		t.Errorf("Expected trigger 0.5 at t=0, got %v", in.Trigger[vr.Secondary])
	}
	if in.Tracker {
		t.Error("Tracker should not be swapped in on frame 0")
	}
	if !ScriptedInput(199).Tracker {
		t.Error("Tracker should be swapped in on frame 199")
	}
	for i := 0; i < 400; i += 7 {
		v := ScriptedInput(i).Trigger[vr.Secondary]
		if v < 0 || v > 1 {
			t.Fatalf("Trigger out of range at frame %d: %v", i, v)
		}
	}
}

func TestRunHeadless(t *testing.T) {
	g := New(config.Default())
	if err := g.Prepare(context.Background()); err != nil {
		t.Fatal(err)
	}

	stats, err := g.RunHeadless(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Steps != 3 {
		t.Errorf("Expected 3 steps, got %d", stats.Steps)
	}
	if stats.Bodies != len(g.Scene.Objects)+2 {
		t.Errorf("Unexpected body count %d", stats.Bodies)
	}
	if stats.Controllers != 2 {
		t.Errorf("Expected 2 tracked controllers, got %d", stats.Controllers)
	}
	if g.Driver.Secondary.EffectiveTrigger() <= 0 {
		t.Error("Secondary trigger should be pulled by the script")
	}
}

func TestRunHeadlessCancelled(t *testing.T) {
	g := New(config.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.RunHeadless(ctx, 10); err == nil {
		t.Error("Expected context error")
	}
	if g.Scene.World.Steps() != 0 {
		t.Error("Cancelled run should not step")
	}
}

func TestTrackerInSecondarySlotIsReported(t *testing.T) {
	g := New(config.Default())
	if err := g.setup(HeadlessSceneAssets(nil)); err != nil {
		t.Fatal(err)
	}
	in := ScriptedInput(0)
	in.Tracker = true
	snap := g.Emulator.Poll(in, frame.FixedStep)

	rep := g.Driver.Frame(frame.Input{Snapshot: snap}, render.NewRecorder())
	if len(rep.Mismatches) != 1 {
		t.Fatalf("Expected one mismatch, got %v", rep.Mismatches)
	}
	if rep.Tracked != 1 {
		t.Errorf("Tracker should not be drawn as a controller, tracked=%d", rep.Tracked)
	}
}

func TestLoadMaterialsIndexesByName(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "x.material.yaml")
	if err := os.WriteFile(p, []byte("name: cube\ncolor: Red\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	mats, err := LoadMaterials(context.Background(), []string{p})
	if err != nil {
		t.Fatal(err)
	}
	if mats.Get("cube").Color != rl.Red {
		t.Error("cube material not indexed by name")
	}
	if got := mats.Get("missing"); got.Name != "missing" || got.Color != rl.White {
		t.Errorf("Expected default material, got %+v", got)
	}
}

func TestShippedMaterialsLoad(t *testing.T) {
	cfg, err := config.Load(filepath.Join("..", "..", config.DefaultPath))
	if err != nil {
		t.Fatal(err)
	}
	paths := make([]string, len(cfg.Assets.Materials))
	for i, p := range cfg.Assets.Materials {
		paths[i] = filepath.Join("..", "..", p)
	}
	mats, err := LoadMaterials(context.Background(), paths)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"cube", "hammer_handle", "hammer_head", "controller"} {
		if _, ok := mats[name]; !ok {
			t.Errorf("Missing material %q", name)
		}
	}
}
