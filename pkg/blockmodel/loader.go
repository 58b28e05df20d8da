package blockmodel

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Loader reads block models and blockstates from an assets directory laid out
// as <root>/models/<name>.json and <root>/blockstates/<name>.json. Loaded
// models are cached; a Loader is safe for concurrent use.
type Loader struct {
	assetsPath string

	mu         sync.Mutex
	modelCache map[string]*Model
}

func NewLoader(assetsPath string) *Loader {
	return &Loader{
		assetsPath: assetsPath,
		modelCache: make(map[string]*Model),
	}
}

// LoadModel returns the named model with its parent chain merged in and
// texture references resolved. Names without a directory are looked up
// under block/.
func (l *Loader) LoadModel(name string) (*Model, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadModel(name, 0)
}

const maxParentDepth = 32

func (l *Loader) loadModel(name string, depth int) (*Model, error) {
	if !strings.Contains(name, "/") {
		name = "block/" + name
	}
	if depth > maxParentDepth {
		return nil, errors.Errorf("parent chain too deep at %q", name)
	}

	if model, ok := l.modelCache[name]; ok {
		return model, nil
	}

	path := filepath.Join(l.assetsPath, "models", name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read model file")
	}

	var model Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, errors.Wrapf(err, "could not unmarshal model %q", name)
	}
	if model.Textures == nil {
		model.Textures = make(map[string]string)
	}

	if model.Parent != "" && !strings.HasPrefix(model.Parent, "builtin/") {
		parent, err := l.loadModel(model.Parent, depth+1)
		if err != nil {
			return nil, errors.Wrapf(err, "could not load parent model %q", model.Parent)
		}

		if model.AmbientOcclusion == nil {
			model.AmbientOcclusion = parent.AmbientOcclusion
		}
		if len(model.Elements) == 0 {
			model.Elements = cloneElements(parent.Elements)
		}
		for key, val := range parent.Textures {
			if _, ok := model.Textures[key]; !ok {
				model.Textures[key] = val
			}
		}
	}

	l.resolveTextures(&model)
	l.modelCache[name] = &model
	return &model, nil
}

// cloneElements copies elements deeply enough that resolving textures on the
// copy leaves the cached parent untouched.
func cloneElements(src []Element) []Element {
	out := make([]Element, len(src))
	for i, e := range src {
		out[i] = e
		if e.Faces != nil {
			out[i].Faces = make(map[string]Face, len(e.Faces))
			for k, f := range e.Faces {
				out[i].Faces[k] = f
			}
		}
	}
	return out
}

func (l *Loader) resolveTextures(m *Model) {
	for i := range m.Elements {
		for faceName, face := range m.Elements[i].Faces {
			resolved := l.ResolveTexture(face.Texture, m)
			if resolved != face.Texture {
				face.Texture = resolved
				m.Elements[i].Faces[faceName] = face
			}
		}
	}
}

// ResolveTexture follows #-references through the model's texture map.
func (l *Loader) ResolveTexture(textureName string, m *Model) string {
	for i := 0; i < 10 && strings.HasPrefix(textureName, "#"); i++ {
		key := strings.TrimPrefix(textureName, "#")
		resolved, ok := m.Textures[key]
		if !ok {
			break
		}
		textureName = resolved
	}
	return textureName
}

func (l *Loader) LoadBlockState(name string) (*BlockState, error) {
	path := filepath.Join(l.assetsPath, "blockstates", name+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read blockstate file")
	}

	var blockState BlockState
	if err := json.Unmarshal(data, &blockState); err != nil {
		return nil, errors.Wrapf(err, "could not unmarshal blockstate %q", name)
	}

	return &blockState, nil
}

// DefaultModel picks the model a block renders with when no variant is
// requested: "normal", then the empty variant, then the first variant
// alphabetically.
func (bs *BlockState) DefaultModel() string {
	if v, ok := bs.Variants["normal"]; ok && len(v) > 0 {
		return v[0].Model
	}
	if v, ok := bs.Variants[""]; ok && len(v) > 0 {
		return v[0].Model
	}
	keys := make([]string, 0, len(bs.Variants))
	for k := range bs.Variants {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := bs.Variants[k]; len(v) > 0 {
			return v[0].Model
		}
	}
	return ""
}

// LoadBlock resolves a block name through its blockstate to its default model.
func (l *Loader) LoadBlock(name string) (*Model, error) {
	bs, err := l.LoadBlockState(name)
	if err != nil {
		return nil, err
	}
	modelName := bs.DefaultModel()
	if modelName == "" {
		return nil, errors.Errorf("blockstate %q has no variants", name)
	}
	return l.LoadModel(modelName)
}
