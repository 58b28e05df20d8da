package meshing

import "github.com/go-gl/mathgl/mgl32"

// Kind selects the geometry a Generator produces for a voxel.
type Kind uint8

const (
	// KindNothing produces no geometry.
	KindNothing Kind = iota
	// KindCube emits one quad per visible face.
	KindCube
	// KindInflatedBox emits one box per visible face, extruded outward.
	KindInflatedBox
	// KindCubeWithBounds emits both the cube mesh and the inflated boxes.
	KindCubeWithBounds
)

func (k Kind) String() string {
	switch k {
	case KindNothing:
		return "nothing"
	case KindCube:
		return "cube"
	case KindInflatedBox:
		return "inflated_box"
	case KindCubeWithBounds:
		return "cube_with_bounds"
	default:
		return "unknown"
	}
}

// ParseKind maps a kind name back to its value.
func ParseKind(s string) (Kind, bool) {
	for _, k := range []Kind{KindNothing, KindCube, KindInflatedBox, KindCubeWithBounds} {
		if k.String() == s {
			return k, true
		}
	}
	return KindNothing, false
}

// Capabilities is the set of outputs a generator can produce.
type Capabilities uint8

const (
	CapMesh Capabilities = 1 << iota
	CapBounds
)

// Generator turns a voxel's visible faces into geometry. It is a plain value;
// the zero Generator produces nothing.
type Generator struct {
	Kind Kind
}

var (
	Nothing        = Generator{Kind: KindNothing}
	Cube           = Generator{Kind: KindCube}
	InflatedBox    = Generator{Kind: KindInflatedBox}
	CubeWithBounds = Generator{Kind: KindCubeWithBounds}
)

// Capabilities reports which outputs g produces.
func (g Generator) Capabilities() Capabilities {
	switch g.Kind {
	case KindCube:
		return CapMesh
	case KindInflatedBox:
		return CapBounds
	case KindCubeWithBounds:
		return CapMesh | CapBounds
	default:
		return 0
	}
}

// Has reports whether g produces output c.
func (g Generator) Has(c Capabilities) bool {
	return g.Capabilities()&c == c
}

// Unit cube corners, indexed by the face quads below.
var cubeCorners = [8]mgl32.Vec3{
	{0, 0, 0},
	{1, 0, 0},
	{1, 1, 0},
	{0, 1, 0},
	{0, 0, 1},
	{1, 0, 1},
	{1, 1, 1},
	{0, 1, 1},
}

// Quads are wound counter-clockwise seen from outside the cube. North lies on
// the local z=1 plane because ToLocal negates Z.
var faceQuads = [6][4]int{
	FaceNorth: {4, 5, 6, 7},
	FaceSouth: {0, 3, 2, 1},
	FaceWest:  {0, 4, 7, 3},
	FaceEast:  {1, 2, 6, 5},
	FaceUp:    {2, 3, 7, 6},
	FaceDown:  {0, 1, 5, 4},
}

// Two triangles per quad, relative to the quad's first vertex.
var quadIndices = [6]uint32{0, 1, 2, 0, 2, 3}

// AppendMesh appends the voxel's mesh at pos to dst and returns the number of
// vertices added. Indices are relative to dst, so dst may already hold other
// voxels. Generators without CapMesh append nothing.
func (g Generator) AppendMesh(dst *Mesh, faces VisibleFaces, pos LocalPos) int {
	if !g.Has(CapMesh) || !faces.IsAnyVisible() {
		return 0
	}
	base := uint32(dst.VertexCount())
	origin := pos.Vec3()
	added := 0
	for _, f := range Faces {
		if !faces.Has(f) {
			continue
		}
		for _, c := range faceQuads[f] {
			v := origin.Add(cubeCorners[c])
			dst.Vertices = append(dst.Vertices, v[0], v[1], v[2])
		}
		for _, i := range quadIndices {
			dst.Indices = append(dst.Indices, base+i)
		}
		base += 4
		added += 4
	}
	return added
}

// AppendBounds appends one box per visible face of the voxel at pos, each the
// unit cube's face slab extruded outward by depth, and returns the extended
// slice. Generators without CapBounds append nothing.
func (g Generator) AppendBounds(dst []BoundingVolume, faces VisibleFaces, pos LocalPos, depth float32) []BoundingVolume {
	if !g.Has(CapBounds) {
		return dst
	}
	x, y, z := float32(pos.X), float32(pos.Y), float32(pos.Z)
	box := func(x0, y0, z0, x1, y1, z1 float32) BoundingVolume {
		return BoundingVolume{Min: mgl32.Vec3{x0, y0, z0}, Max: mgl32.Vec3{x1, y1, z1}}
	}
	if faces.North {
		dst = append(dst, box(x, y, z+1, x+1, y+1, z+1+depth))
	}
	if faces.South {
		dst = append(dst, box(x, y, z-depth, x+1, y+1, z))
	}
	if faces.West {
		dst = append(dst, box(x-depth, y, z, x, y+1, z+1))
	}
	if faces.East {
		dst = append(dst, box(x+1, y, z, x+1+depth, y+1, z+1))
	}
	if faces.Up {
		dst = append(dst, box(x, y+1, z, x+1, y+1+depth, z+1))
	}
	if faces.Down {
		dst = append(dst, box(x, y-depth, z, x+1, y, z+1))
	}
	return dst
}
