package registry

import (
	"log/slog"
	"sync"

	"chunkforge/internal/meshing"
	"chunkforge/internal/world"
	"chunkforge/pkg/blockmodel"
)

// Registry maps voxel states to the generator that builds their geometry.
// Lookups never fail: unknown states resolve to the default generator.
// Registration is expected up front but is safe alongside concurrent lookups.
type Registry struct {
	mu   sync.RWMutex
	gens map[world.VoxelState]meshing.Generator
	def  meshing.Generator
}

// New returns an empty registry that falls back to def.
func New(def meshing.Generator) *Registry {
	return &Registry{
		gens: make(map[world.VoxelState]meshing.Generator),
		def:  def,
	}
}

// NewNamed returns an empty registry whose default is the generator kind
// names. An unknown name falls back to Cube and reports false.
func NewNamed(kind string) (*Registry, bool) {
	k, ok := meshing.ParseKind(kind)
	if !ok {
		k = meshing.KindCube
	}
	return New(meshing.Generator{Kind: k}), ok
}

// Register binds a generator to a state, replacing any previous binding.
func (r *Registry) Register(state world.VoxelState, gen meshing.Generator) {
	r.mu.Lock()
	r.gens[state] = gen
	r.mu.Unlock()
}

// Lookup returns the generator for state, or the default.
func (r *Registry) Lookup(state world.VoxelState) meshing.Generator {
	r.mu.RLock()
	gen, ok := r.gens[state]
	r.mu.RUnlock()
	if !ok {
		return r.def
	}
	return gen
}

func (r *Registry) Default() meshing.Generator {
	return r.def
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.gens)
}

// Definition names the block model behind a voxel state.
type Definition struct {
	State world.VoxelState
	Name  string
}

// Builtin are the definitions for the states the bundled generators place.
var Builtin = []Definition{
	{State: world.StateBedrock, Name: "bedrock"},
	{State: world.StateStone, Name: "stone"},
	{State: world.StateDirt, Name: "dirt"},
	{State: world.StateGrass, Name: "grass"},
	{State: world.StateGlass, Name: "glass"},
	{State: world.StateWater, Name: "water"},
}

// LoadDefinitions registers a generator per definition, chosen from the
// block's model shape: full blocks become cubes, partial models become
// inflated boxes and empty models produce nothing. Blocks whose model cannot
// be loaded keep the default and are logged. It returns the number registered.
func (r *Registry) LoadDefinitions(loader *blockmodel.Loader, defs []Definition, log *slog.Logger) int {
	if log == nil {
		log = slog.Default()
	}
	n := 0
	for _, def := range defs {
		model, err := loader.LoadBlock(def.Name)
		if err != nil {
			log.Warn("block model unavailable, using default generator",
				"block", def.Name, "default", r.def.Kind.String(), "error", err)
			continue
		}
		r.Register(def.State, GeneratorFor(model.Shape()))
		n++
	}
	return n
}

// GeneratorFor maps a model shape to a generator.
func GeneratorFor(shape blockmodel.Shape) meshing.Generator {
	switch shape {
	case blockmodel.ShapeFull:
		return meshing.Cube
	case blockmodel.ShapePartial:
		return meshing.InflatedBox
	default:
		return meshing.Nothing
	}
}

// RegisterOpaque binds gen to every occluding state in defs. It is how callers
// without model assets populate the registry.
func (r *Registry) RegisterOpaque(defs []Definition, gen meshing.Generator) {
	for _, def := range defs {
		if def.State.Occludes() {
			r.Register(def.State, gen)
		}
	}
}
