package config

// WorldConfig selects the terrain source and the vertical layout of chunks.
type WorldConfig struct {
	// Generator is "noise" or "flat".
	Generator  string `yaml:"generator"`
	Seed       int64  `yaml:"seed"`
	FlatHeight int    `yaml:"flat_height"`
	MinY       int    `yaml:"min_y"`
	Sections   int    `yaml:"sections"`
	// Snapshot, when set, loads chunks from a saved snapshot instead of generating them.
	Snapshot string `yaml:"snapshot"`
	// Debug turns on the world's debug override for neighbour lookups.
	Debug bool `yaml:"debug"`
}

func defaultWorldConfig() WorldConfig {
	return WorldConfig{
		Generator:  "noise",
		Seed:       1337,
		FlatHeight: 4,
		MinY:       0,
		Sections:   16,
	}
}

func (w *WorldConfig) validate() {
	if w.Generator != "flat" {
		w.Generator = "noise"
	}
	w.Sections = clamp(w.Sections, 1, 64)
	// keep MinY on a section boundary
	w.MinY -= ((w.MinY % 16) + 16) % 16
	w.FlatHeight = clamp(w.FlatHeight, w.MinY, w.MinY+w.Sections*16-1)
}
