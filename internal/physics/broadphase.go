package physics

import (
	"math"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Spatial grid cell size - bodies sharing a cell are tested in the narrow phase
const CellSize = 0.5

// Cell key for spatial hashing
type CellKey struct {
	X, Y, Z int
}

func posToCell(pos rl.Vector3) CellKey {
	return CellKey{
		X: int(math.Floor(float64(pos.X / CellSize))),
		Y: int(math.Floor(float64(pos.Y / CellSize))),
		Z: int(math.Floor(float64(pos.Z / CellSize))),
	}
}

// bodyPair is an ordered pair of dynamic body indices (A < B).
type bodyPair struct {
	A, B int
}

func makePair(a, b int) bodyPair {
	if a > b {
		return bodyPair{A: b, B: a}
	}
	return bodyPair{A: a, B: b}
}

// rebuildGrid clears and repopulates the spatial hash grid. A body is inserted
// into every cell its bounding sphere overlaps, so large bodies are not missed.
func (w *World) rebuildGrid() {
	for k, cell := range w.grid {
		if len(cell) == 0 {
			delete(w.grid, k)
			continue
		}
		w.grid[k] = cell[:0]
	}

	for _, i := range w.dynamic {
		b := &w.bodies[i]
		box := aabbAroundSphere(b.pose.Position, b.radius)
		lo, hi := posToCell(box.Min), posToCell(box.Max)
		for x := lo.X; x <= hi.X; x++ {
			for y := lo.Y; y <= hi.Y; y++ {
				for z := lo.Z; z <= hi.Z; z++ {
					key := CellKey{x, y, z}
					w.grid[key] = append(w.grid[key], i)
				}
			}
		}
	}
}

// candidatePairs returns the dynamic pairs whose bounding spheres overlap, in
// index order so the solver is independent of map iteration order.
func (w *World) candidatePairs() []bodyPair {
	w.rebuildGrid()

	seen := make(map[bodyPair]struct{})
	pairs := w.pairs[:0]
	for _, cell := range w.grid {
		for i := 0; i < len(cell); i++ {
			for j := i + 1; j < len(cell); j++ {
				a, b := &w.bodies[cell[i]], &w.bodies[cell[j]]
				if a.sleeping && b.sleeping {
					continue
				}
				p := makePair(cell[i], cell[j])
				if _, ok := seen[p]; ok {
					continue
				}
				seen[p] = struct{}{}
				if rl.Vector3Distance(a.pose.Position, b.pose.Position) > a.radius+b.radius {
					continue
				}
				pairs = append(pairs, p)
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	w.pairs = pairs
	return pairs
}
