package meshing

import "chunkforge/internal/world"

// Face identifies one of the six axis-aligned faces of a voxel.
type Face int

const (
	FaceNorth Face = iota // -Z in world space
	FaceSouth             // +Z
	FaceWest              // -X
	FaceEast              // +X
	FaceUp                // +Y
	FaceDown              // -Y
)

// Faces lists every face in emission order.
var Faces = [6]Face{FaceNorth, FaceSouth, FaceWest, FaceEast, FaceUp, FaceDown}

func (f Face) String() string {
	switch f {
	case FaceNorth:
		return "north"
	case FaceSouth:
		return "south"
	case FaceWest:
		return "west"
	case FaceEast:
		return "east"
	case FaceUp:
		return "up"
	case FaceDown:
		return "down"
	default:
		return "unknown"
	}
}

// Neighbor returns the world position across face f from p.
func (f Face) Neighbor(p world.BlockPos) world.BlockPos {
	switch f {
	case FaceNorth:
		return p.North()
	case FaceSouth:
		return p.South()
	case FaceWest:
		return p.West()
	case FaceEast:
		return p.East()
	case FaceUp:
		return p.Above()
	default:
		return p.Below()
	}
}

// VisibleFaces records which faces of a voxel are exposed.
type VisibleFaces struct {
	North, South, East, West, Up, Down bool
}

// AllVisible returns a VisibleFaces with every face exposed.
func AllVisible() VisibleFaces {
	return VisibleFaces{North: true, South: true, East: true, West: true, Up: true, Down: true}
}

// IsAnyVisible reports whether at least one face is exposed.
func (v VisibleFaces) IsAnyVisible() bool {
	return v.North || v.South || v.West || v.East || v.Up || v.Down
}

// Has reports whether face f is exposed.
func (v VisibleFaces) Has(f Face) bool {
	switch f {
	case FaceNorth:
		return v.North
	case FaceSouth:
		return v.South
	case FaceWest:
		return v.West
	case FaceEast:
		return v.East
	case FaceUp:
		return v.Up
	case FaceDown:
		return v.Down
	}
	return false
}

// Set marks face f as exposed or hidden.
func (v *VisibleFaces) Set(f Face, visible bool) {
	switch f {
	case FaceNorth:
		v.North = visible
	case FaceSouth:
		v.South = visible
	case FaceWest:
		v.West = visible
	case FaceEast:
		v.East = visible
	case FaceUp:
		v.Up = visible
	case FaceDown:
		v.Down = visible
	}
}

// Count returns the number of exposed faces.
func (v VisibleFaces) Count() int {
	n := 0
	for _, f := range Faces {
		if v.Has(f) {
			n++
		}
	}
	return n
}

// EvaluateFaces tests the six neighbours of p. Every face starts visible and
// is hidden when the neighbour across it occludes. All six tests always run.
// Callers skip air voxels before calling.
func EvaluateFaces(g world.StateGetter, p world.BlockPos) VisibleFaces {
	faces := AllVisible()
	if g.StateAt(p.Above()).Occludes() {
		faces.Up = false
	}
	if g.StateAt(p.Below()).Occludes() {
		faces.Down = false
	}
	if g.StateAt(p.North()).Occludes() {
		faces.North = false
	}
	if g.StateAt(p.East()).Occludes() {
		faces.East = false
	}
	if g.StateAt(p.South()).Occludes() {
		faces.South = false
	}
	if g.StateAt(p.West()).Occludes() {
		faces.West = false
	}
	return faces
}
