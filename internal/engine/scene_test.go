package engine

import (
	"errors"
	"testing"

	"vrsandbox/internal/assets"
	"vrsandbox/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func testAssets() SceneAssets {
	return SceneAssets{
		Cube:           &assets.Mesh{Name: "cube", Radius: 0.09},
		Hammer:         &assets.Mesh{Name: "hammer"},
		Grid:           assets.NewGrid("grid", 20, 0.5, rl.Gray),
		ControllerGrid: assets.NewGrid("controller_grid", 4, 0.05, rl.SkyBlue),
		Controller:     &assets.Mesh{Name: "controller"},
	}
}

func mustSetup(t *testing.T) *Scene {
	t.Helper()
	scene, err := SetupWorld(testAssets())
	if err != nil {
		t.Fatalf("SetupWorld failed: %v", err)
	}
	return scene
}

func TestSetupWorldBuildsLattice(t *testing.T) {
	a := testAssets()
	scene, err := SetupWorld(a)
	if err != nil {
		t.Fatal(err)
	}

	want := LatticeSize * LatticeSize * LatticeSize
	if len(scene.Objects) != want {
		t.Fatalf("Expected %d objects, got %d", want, len(scene.Objects))
	}
	// floor + hammer + lattice
	if n := scene.World.BodyCount(); n != want+2 {
		t.Errorf("Expected %d bodies, got %d", want+2, n)
	}

	seen := make(map[rl.Vector3]int, want)
	for i, o := range scene.Objects {
		if o.Mesh != a.Cube {
			t.Fatalf("Object %d does not share the cube mesh", i)
		}
		if scene.World.IsStatic(o.Body) {
			t.Errorf("Object %d is static", i)
		}
		p := scene.World.Pose(o.Body).Position
		if prev, dup := seen[p]; dup {
			t.Fatalf("Objects %d and %d share pose %v", prev, i, p)
		}
		seen[p] = i
	}
}

func TestSetupWorldSetsGravityFirst(t *testing.T) {
	scene := mustSetup(t)
	if g := scene.World.Gravity(); g != Gravity {
		t.Errorf("Expected gravity %v, got %v", Gravity, g)
	}
	if scene.World.Steps() != 0 {
		t.Error("Setup should not step the world")
	}
}

func TestSetupWorldKeepsHammerOutOfPool(t *testing.T) {
	a := testAssets()
	scene, err := SetupWorld(a)
	if err != nil {
		t.Fatal(err)
	}

	if scene.Hammer.Mesh != a.Hammer {
		t.Fatal("Hammer slot has the wrong mesh")
	}
	if scene.World.Shape(scene.Hammer.Body).Kind != physics.ShapeCompound {
		t.Error("Hammer should be a compound body")
	}
	for i, o := range scene.Objects {
		if o.Body == scene.Hammer.Body {
			t.Fatalf("Hammer body found in pool at %d", i)
		}
	}
	if got, ok := scene.FindByName("hammer"); !ok || got != scene.Hammer {
		t.Error("FindByName did not return the hammer")
	}
	if _, ok := scene.FindByName("cube_6_6_6"); !ok {
		t.Error("FindByName missed the last cube")
	}
}

func TestSetupWorldIsDeterministic(t *testing.T) {
	a := mustSetup(t)
	b := mustSetup(t)
	for i := range a.Objects {
		pa := a.World.Pose(a.Objects[i].Body)
		pb := b.World.Pose(b.Objects[i].Body)
		if pa != pb {
			t.Fatalf("Object %d differs between runs: %v vs %v", i, pa, pb)
		}
	}
}

func TestSetupWorldMissingMesh(t *testing.T) {
	a := testAssets()
	a.Controller = nil

	scene, err := SetupWorld(a)
	if scene != nil {
		t.Error("Expected no scene")
	}
	if !errors.Is(err, ErrMissingMesh) {
		t.Errorf("Expected ErrMissingMesh, got %v", err)
	}
}

func TestLatticeCubesDoNotOverlap(t *testing.T) {
	minGap := float32(LatticeSpacing - 2*LatticeJitter)
	if minGap <= 2*(CubeHalf+ContactMargin) {
		t.Fatalf("Lattice spacing %v leaves cubes overlapping", minGap)
	}
	if LatticeOrigin.Y-CubeHalf-ContactMargin <= 0 {
		t.Fatal("Lowest layer starts inside the floor")
	}
}

func TestTransformComposesStageAfterPose(t *testing.T) {
	scene := mustSetup(t)
	obj := scene.Objects[10]
	pose := scene.World.Pose(obj.Body)

	stage := rl.MatrixMultiply(rl.MatrixRotateY(0.5), rl.MatrixTranslate(1, 0, -2))
	m := obj.Transform(scene.World, stage)

	got := rl.Vector3Transform(rl.Vector3Zero(), m)
	want := rl.Vector3Transform(pose.Position, stage)
	if rl.Vector3Length(rl.Vector3Subtract(got, want)) > 1e-5 {
		t.Errorf("Origin mapped to %v, want %v", got, want)
	}

	if id := obj.Transform(scene.World, rl.MatrixIdentity()); id != pose.Matrix() {
		t.Errorf("Identity stage should give the pose matrix")
	}
}

func TestTransformDoesNotMutateWorld(t *testing.T) {
	scene := mustSetup(t)
	before := scene.World.Pose(scene.Hammer.Body)

	for i := 0; i < 10; i++ {
		scene.Hammer.Transform(scene.World, rl.MatrixTranslate(0, 1, 0))
	}

	if after := scene.World.Pose(scene.Hammer.Body); after != before {
		t.Errorf("Pose changed from %v to %v", before, after)
	}
	if scene.World.Steps() != 0 {
		t.Error("Transform stepped the world")
	}
}

func TestTouching(t *testing.T) {
	scene := mustSetup(t)
	target := scene.Objects[0].WorldPosition(scene.World)

	hits := scene.Touching(target, 0.01)
	if len(hits) != 1 || hits[0] != 0 {
		t.Errorf("Expected only object 0, got %v", hits)
	}

	if hits := scene.Touching(rl.NewVector3(0, 10, 0), 0.05); len(hits) != 0 {
		t.Errorf("Expected no hits far away, got %v", hits)
	}

	// A large radius reaches the neighbours too.
	if hits := scene.Touching(target, LatticeSpacing); len(hits) < 4 {
		t.Errorf("Expected neighbours in range, got %v", hits)
	}
}

func TestOnTouchListeners(t *testing.T) {
	scene := mustSetup(t)

	var order []int
	scene.OnTouch.AddListener(func(e TouchEvent) { order = append(order, 1) })
	scene.OnTouch.AddListener(nil)
	scene.OnTouch.AddListener(func(e TouchEvent) { order = append(order, len(e.Indices)) })

	if n := scene.OnTouch.ListenerCount(); n != 2 {
		t.Fatalf("Expected 2 listeners, got %d", n)
	}
	scene.OnTouch.Invoke(TouchEvent{Indices: []int{4, 5, 6}})
	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Errorf("Unexpected listener calls %v", order)
	}

	scene.OnTouch.RemoveAllListeners()
	scene.OnTouch.Invoke(TouchEvent{})
	if len(order) != 2 {
		t.Error("Listeners ran after RemoveAllListeners")
	}
}

func TestLatticeSettles(t *testing.T) {
	if testing.Short() {
		t.Skip("full lattice simulation")
	}
	scene := mustSetup(t)
	for i := 0; i < 800; i++ {
		scene.World.Step(0.01)
	}

	center := rl.NewVector3(
		LatticeOrigin.X+LatticeSpacing*(LatticeSize-1)/2,
		0,
		LatticeOrigin.Z+LatticeSpacing*(LatticeSize-1)/2,
	)
	asleep := 0
	var maxSpeed, maxRadius, maxY float32
	for i, o := range scene.Objects {
		p := scene.World.Pose(o.Body).Position
		if p.Y < 0 {
			t.Fatalf("Cube %d fell through the floor: y=%v", i, p.Y)
		}
		if scene.World.IsSleeping(o.Body) {
			asleep++
		}
		maxSpeed = max(maxSpeed, rl.Vector3Length(scene.World.Velocity(o.Body)))
		maxRadius = max(maxRadius, rl.Vector2Length(rl.NewVector2(p.X-center.X, p.Z-center.Z)))
		maxY = max(maxY, p.Y)
	}

	// Columns start 0.51m from the center at the corners.
	if maxRadius > 0.6 {
		t.Errorf("Lattice spread to %v m from its center", maxRadius)
	}
	if top := float32(LatticeSize)*2*(CubeHalf+ContactMargin) - CubeHalf; maxY < top-0.1 {
		t.Errorf("Columns collapsed: highest cube at %v, expected about %v", maxY, top)
	}
	if maxSpeed > 0.1 {
		t.Errorf("Cubes still moving at up to %v m/s", maxSpeed)
	}
	if asleep < len(scene.Objects)/2 {
		t.Errorf("Only %d of %d cubes asleep", asleep, len(scene.Objects))
	}
}

func TestTransformOfRotatedBodyMatchesPose(t *testing.T) {
	scene := mustSetup(t)
	h, err := scene.World.AddRigidBody(physics.BodySpec{
		Shape:  physics.Box(HammerShape.HeadHalf),
		Static: true,
		Pose: physics.Pose{
			Position: rl.NewVector3(0.3, 1, -0.5),
			Rotation: rl.QuaternionFromAxisAngle(rl.Vector3Normalize(rl.NewVector3(1, 1, 0)), 0.8),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	obj := SimObject{Name: "tilted", Body: h}
	pose := scene.World.Pose(h)

	stage := rl.MatrixMultiply(rl.MatrixRotateY(0.5), rl.MatrixTranslate(1, 0, -2))
	m := obj.Transform(scene.World, stage)
	for _, local := range []rl.Vector3{HammerShape.HeadOffset, HammerShape.HeadHalf, rl.NewVector3(-0.1, 0, 0.3)} {
		got := rl.Vector3Transform(local, m)
		want := rl.Vector3Transform(pose.TransformPoint(local), stage)
		if d := rl.Vector3Distance(got, want); d > 1e-5 {
			t.Errorf("Local %v drawn at %v, body puts it at %v", local, got, want)
		}
	}
}

func TestDrawnHammerHeadFollowsBody(t *testing.T) {
	if testing.Short() {
		t.Skip("full lattice simulation")
	}
	scene := mustSetup(t)
	for i := 0; i < 300; i++ {
		scene.World.Step(0.01)
	}

	pose := scene.World.Pose(scene.Hammer.Body)
	drawn := rl.Vector3Transform(HammerShape.HeadOffset, scene.Hammer.Transform(scene.World, rl.MatrixIdentity()))
	body := pose.TransformPoint(HammerShape.HeadOffset)
	if d := rl.Vector3Distance(drawn, body); d > 1e-4 {
		t.Errorf("Drawn head at %v, collision head at %v (%v apart)", drawn, body, d)
	}
}
