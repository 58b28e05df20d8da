package registry

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chunkforge/internal/meshing"
	"chunkforge/internal/world"
	"chunkforge/pkg/blockmodel"
)

func TestNewNamedDefault(t *testing.T) {
	r, ok := NewNamed("cube")
	require.True(t, ok)
	// states without a binding still get geometry, glass included
	assert.True(t, r.Lookup(world.StateGlass).Has(meshing.CapMesh))

	r, ok = NewNamed("nothing")
	require.True(t, ok)
	assert.Equal(t, meshing.Nothing, r.Lookup(world.StateGlass))

	r, ok = NewNamed("sphere")
	assert.False(t, ok)
	assert.Equal(t, meshing.Cube, r.Default())
}

func TestLookupFallsBackToDefault(t *testing.T) {
	r := New(meshing.Nothing)
	r.Register(world.StateStone, meshing.Cube)

	assert.Equal(t, meshing.Cube, r.Lookup(world.StateStone))
	assert.Equal(t, meshing.Nothing, r.Lookup(world.StateDirt))
	assert.Equal(t, meshing.Nothing, r.Default())
	assert.Equal(t, 1, r.Len())
}

func TestRegisterReplaces(t *testing.T) {
	r := New(meshing.Nothing)
	r.Register(world.StateStone, meshing.Cube)
	r.Register(world.StateStone, meshing.InflatedBox)
	assert.Equal(t, meshing.InflatedBox, r.Lookup(world.StateStone))
	assert.Equal(t, 1, r.Len())
}

func TestRegisterOpaque(t *testing.T) {
	r := New(meshing.Nothing)
	r.RegisterOpaque(Builtin, meshing.Cube)
	assert.Equal(t, meshing.Cube, r.Lookup(world.StateGrass))
	assert.Equal(t, meshing.Nothing, r.Lookup(world.StateGlass))
	assert.Equal(t, meshing.Nothing, r.Lookup(world.StateWater))
}

func TestConcurrentLookup(t *testing.T) {
	r := New(meshing.Nothing)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 200 {
				st := world.VoxelState{ID: uint16(i*200 + j + 1), Flags: world.FlagOccludes}
				r.Register(st, meshing.Cube)
				_ = r.Lookup(st)
				_ = r.Lookup(world.Air)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1600, r.Len())
}

func writeAsset(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefinitions(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "models/block/cube_all.json", `{
		"elements": [ { "from": [0,0,0], "to": [16,16,16], "faces": { "up": { "texture": "#all" } } } ]
	}`)
	writeAsset(t, root, "models/block/stone.json", `{ "parent": "block/cube_all", "textures": { "all": "block/stone" } }`)
	writeAsset(t, root, "models/block/slab.json", `{ "elements": [ { "from": [0,0,0], "to": [16,8,16] } ] }`)
	writeAsset(t, root, "models/block/glass.json", `{ "textures": { "particle": "block/glass" } }`)
	writeAsset(t, root, "blockstates/stone.json", `{ "variants": { "normal": { "model": "stone" } } }`)
	writeAsset(t, root, "blockstates/dirt.json", `{ "variants": { "": { "model": "slab" } } }`)
	writeAsset(t, root, "blockstates/glass.json", `{ "variants": { "normal": [ { "model": "glass" } ] } }`)

	r := New(meshing.Nothing)
	n := r.LoadDefinitions(blockmodel.NewLoader(root), Builtin, nil)

	assert.Equal(t, 3, n)
	assert.Equal(t, meshing.Cube, r.Lookup(world.StateStone))
	assert.Equal(t, meshing.InflatedBox, r.Lookup(world.StateDirt))
	assert.Equal(t, meshing.Nothing, r.Lookup(world.StateGlass))
	// no assets for grass: falls back to the default
	assert.Equal(t, meshing.Nothing, r.Lookup(world.StateGrass))
}
