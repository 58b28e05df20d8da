package meshing

import (
	"testing"

	"chunkforge/internal/world"
)

type mapGetter map[world.BlockPos]world.VoxelState

func (m mapGetter) StateAt(p world.BlockPos) world.VoxelState { return m[p] }

func TestEvaluateFacesIsolated(t *testing.T) {
	p := world.BlockPos{X: 3, Y: 3, Z: 3}
	g := mapGetter{p: world.StateStone}
	faces := EvaluateFaces(g, p)
	if faces != AllVisible() {
		t.Fatalf("isolated voxel: got %+v, want all visible", faces)
	}
}

func TestEvaluateFacesEnclosed(t *testing.T) {
	p := world.BlockPos{X: 3, Y: 3, Z: 3}
	g := mapGetter{p: world.StateStone}
	for _, f := range Faces {
		g[f.Neighbor(p)] = world.StateStone
	}
	faces := EvaluateFaces(g, p)
	if faces.IsAnyVisible() {
		t.Fatalf("enclosed voxel: got %+v, want none visible", faces)
	}
}

func TestEvaluateFacesEachDirection(t *testing.T) {
	p := world.BlockPos{X: 0, Y: 10, Z: 0}
	for _, f := range Faces {
		g := mapGetter{p: world.StateStone, f.Neighbor(p): world.StateDirt}
		faces := EvaluateFaces(g, p)
		if faces.Has(f) {
			t.Fatalf("%s neighbour occludes: face still visible", f)
		}
		if faces.Count() != 5 {
			t.Fatalf("%s neighbour occludes: got %d visible faces, want 5", f, faces.Count())
		}
	}
}

func TestEvaluateFacesNonOccludingNeighbour(t *testing.T) {
	p := world.BlockPos{X: 0, Y: 10, Z: 0}
	g := mapGetter{p: world.StateStone, p.North(): world.StateGlass, p.Above(): world.StateWater}
	if got := EvaluateFaces(g, p).Count(); got != 6 {
		t.Fatalf("glass/water neighbours: got %d visible faces, want 6", got)
	}
}

func TestNeighborDirections(t *testing.T) {
	p := world.BlockPos{}
	want := map[Face]world.BlockPos{
		FaceNorth: {Z: -1},
		FaceSouth: {Z: 1},
		FaceEast:  {X: 1},
		FaceWest:  {X: -1},
		FaceUp:    {Y: 1},
		FaceDown:  {Y: -1},
	}
	for f, w := range want {
		if got := f.Neighbor(p); got != w {
			t.Fatalf("%s neighbour: got %v, want %v", f, got, w)
		}
	}
}
