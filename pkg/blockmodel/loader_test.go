package blockmodel

import (
	"os"
	"testing"
)

func TestLoadSimpleModel(t *testing.T) {
	loader := NewLoader("assets-test")
	model, err := loader.LoadModel("block/test_cube")
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}

	if len(model.Elements) != 1 {
		t.Errorf("Expected 1 element, got %d", len(model.Elements))
	}

	if model.Textures["all"] != "block/stone" {
		t.Errorf("Expected texture 'all' to be 'block/stone', got '%s'", model.Textures["all"])
	}
}

func TestLoadChildModel(t *testing.T) {
	loader := NewLoader("assets-test")
	model, err := loader.LoadModel("block/test_child")
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}

	if len(model.Elements) != 1 {
		t.Errorf("Expected 1 element from parent, got %d", len(model.Elements))
	}

	if model.Textures["all"] != "block/stone" {
		t.Errorf("Expected texture 'all' to be inherited as 'block/stone', got '%s'", model.Textures["all"])
	}

	if model.Textures["particle"] != "block/dirt" {
		t.Errorf("Expected texture 'particle' to be 'block/dirt', got '%s'", model.Textures["particle"])
	}
}

func TestTextureResolve(t *testing.T) {
	loader := NewLoader("assets-test")
	model, err := loader.LoadModel("block/test_texture_resolve")
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}

	face := model.Elements[0].Faces["north"]
	if face.Texture != "block/diamond_block" {
		t.Errorf("Expected texture to be resolved to 'block/diamond_block', got '%s'", face.Texture)
	}
}

func TestCache(t *testing.T) {
	loader := NewLoader("assets-test")
	model1, err := loader.LoadModel("block/test_cube")
	if err != nil {
		t.Fatalf("Failed to load model first time: %v", err)
	}

	model2, err := loader.LoadModel("block/test_cube")
	if err != nil {
		t.Fatalf("Failed to load model second time: %v", err)
	}

	if model1 != model2 {
		t.Errorf("Expected the same model instance to be returned from cache")
	}
}

func TestMain(m *testing.M) {
	// Create dummy files for testing
	os.MkdirAll("assets-test/models/block", 0755)

	// test_cube.json
	writeTestFile("assets-test/models/block/test_cube.json", `{
		"textures": { "all": "block/stone" },
		"elements": [ { "from": [0,0,0], "to": [16,16,16], "faces": { "down": { "texture": "#all" } } } ]
	}`)

	// test_child.json
	writeTestFile("assets-test/models/block/test_child.json", `{
		"parent": "block/test_cube",
		"textures": { "particle": "block/dirt" }
	}`)

	// test_texture_resolve.json
	writeTestFile("assets-test/models/block/test_texture_resolve.json", `{
		"textures": { "primary": "block/diamond_block", "secondary": "#primary" },
		"elements": [ { "from": [0,0,0], "to": [16,16,16], "faces": { "north": { "texture": "#secondary" } } } ]
	}`)

	writeTestFile("assets-test/models/block/test_slab.json", `{
		"elements": [ { "from": [0,0,0], "to": [16,8,16] } ]
	}`)

	writeTestFile("assets-test/models/block/test_empty.json", `{ "textures": { "particle": "block/glass" } }`)

	writeTestFile("assets-test/models/block/test_cycle.json", `{ "parent": "block/test_cycle" }`)

	os.MkdirAll("assets-test/blockstates", 0755)
	writeTestFile("assets-test/blockstates/test_block.json", `{
		"variants": { "normal": { "model": "test_cube" } }
	}`)

	exitCode := m.Run()
	os.RemoveAll("assets-test")
	os.Exit(exitCode)
}

func writeTestFile(path, content string) {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		panic(err)
	}
}

func TestShape(t *testing.T) {
	loader := NewLoader("assets-test")

	full, err := loader.LoadModel("block/test_cube")
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}
	if full.Shape() != ShapeFull {
		t.Errorf("Expected full shape, got %s", full.Shape())
	}

	slab, err := loader.LoadModel("block/test_slab")
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}
	if slab.Shape() != ShapePartial {
		t.Errorf("Expected partial shape, got %s", slab.Shape())
	}

	empty, err := loader.LoadModel("block/test_empty")
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}
	if empty.Shape() != ShapeEmpty {
		t.Errorf("Expected empty shape, got %s", empty.Shape())
	}
}

func TestLoadBlock(t *testing.T) {
	loader := NewLoader("assets-test")
	model, err := loader.LoadBlock("test_block")
	if err != nil {
		t.Fatalf("Failed to load block: %v", err)
	}
	if model.Shape() != ShapeFull {
		t.Errorf("Expected block to resolve to the full cube, got %s", model.Shape())
	}

	if _, err := loader.LoadBlock("missing_block"); err == nil {
		t.Errorf("Expected error for missing blockstate")
	}
}

func TestDefaultModelOrder(t *testing.T) {
	bs := &BlockState{Variants: map[string]BlockStateVariants{
		"facing=west": {{Model: "block/w"}},
		"facing=east": {{Model: "block/e"}},
	}}
	if got := bs.DefaultModel(); got != "block/e" {
		t.Errorf("Expected first variant alphabetically, got %q", got)
	}
	bs.Variants["normal"] = BlockStateVariants{{Model: "block/n"}}
	if got := bs.DefaultModel(); got != "block/n" {
		t.Errorf("Expected normal variant, got %q", got)
	}
}

func TestParentCycle(t *testing.T) {
	loader := NewLoader("assets-test")
	if _, err := loader.LoadModel("block/test_cycle"); err == nil {
		t.Errorf("Expected error for cyclic parent chain")
	}
}
