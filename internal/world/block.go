package world

// StateFlags carries the per-state properties the build pipeline needs.
// Anything richer (textures, hardness, drops) is owned by the world layer.
type StateFlags uint8

const (
	// FlagOccludes marks a state that fully hides the face of a neighbour.
	FlagOccludes StateFlags = 1 << iota
	// FlagFluid marks a state that carries a fluid.
	FlagFluid
)

// VoxelState identifies what occupies a voxel. It is comparable and used
// directly as a registry key.
type VoxelState struct {
	ID    uint16
	Flags StateFlags
}

// Air is the zero state.
var Air = VoxelState{}

// Common states used by the built-in generators and tests.
var (
	StateBedrock = VoxelState{ID: 1, Flags: FlagOccludes}
	StateStone   = VoxelState{ID: 2, Flags: FlagOccludes}
	StateDirt    = VoxelState{ID: 3, Flags: FlagOccludes}
	StateGrass   = VoxelState{ID: 4, Flags: FlagOccludes}
	StateGlass   = VoxelState{ID: 5}
	StateWater   = VoxelState{ID: 6, Flags: FlagFluid}
)

// IsAir reports whether the state is empty space.
func (s VoxelState) IsAir() bool {
	return s.ID == 0
}

// Occludes reports whether the state hides the shared face of an adjacent voxel.
func (s VoxelState) Occludes() bool {
	return s.Flags&FlagOccludes != 0
}

// Fluid returns the fluid held by the state, or the empty fluid.
func (s VoxelState) Fluid() FluidState {
	if s.Flags&FlagFluid == 0 {
		return FluidState{}
	}
	return FluidState{Kind: s.ID, Source: true}
}

// FluidState describes the fluid in a voxel. The zero value is no fluid.
type FluidState struct {
	Kind   uint16
	Level  uint8
	Source bool
}

// IsEmpty reports whether no fluid is present.
func (f FluidState) IsEmpty() bool {
	return f.Kind == 0
}
