package world

import (
	"math"
)

// TerrainGenerator fills chunks for the streamer.
type TerrainGenerator interface {
	HeightAt(worldX, worldZ int) int
	PopulateChunk(c *Chunk)
}

// Generator shapes terrain from a fractal value-noise heightmap.
type Generator struct {
	noise      valueNoise
	scale      float64
	baseHeight int
	amp        float64
}

// NewGenerator creates a generator with the default terrain shape.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		noise: valueNoise{
			seed:        seed,
			octaves:     4,
			persistence: 0.5,
			lacunarity:  2.0,
		},
		scale:      1.0 / 64.0,
		baseHeight: 32,
		amp:        32,
	}
}

// HeightAt returns the surface Y at a world column.
func (g *Generator) HeightAt(worldX, worldZ int) int {
	n := g.noise.at(float64(worldX)*g.scale, float64(worldZ)*g.scale)
	return max(int(math.Floor(float64(g.baseHeight)+n*g.amp)), 0)
}

// PopulateChunk fills a chunk using the noise heightmap.
func (g *Generator) PopulateChunk(c *Chunk) {
	fillColumns(c, g.HeightAt)
}

// FlatGenerator produces a flat world of constant height.
type FlatGenerator struct {
	height int
}

// NewFlatGenerator creates a flat generator whose surface sits at height.
func NewFlatGenerator(height int) *FlatGenerator {
	return &FlatGenerator{height: height}
}

func (g *FlatGenerator) HeightAt(_, _ int) int { return g.height }

func (g *FlatGenerator) PopulateChunk(c *Chunk) {
	fillColumns(c, g.HeightAt)
}

// fillColumns writes bedrock at the chunk floor, dirt up to the surface and
// grass on top.
func fillColumns(c *Chunk, heightAt func(x, z int) int) {
	baseX, baseZ := c.Coord.MinBlockX(), c.Coord.MinBlockZ()
	for lx := range ChunkSizeX {
		for lz := range ChunkSizeZ {
			wx, wz := baseX+lx, baseZ+lz
			top := min(heightAt(wx, wz), c.MaxY())
			for y := c.MinY(); y <= top; y++ {
				st := StateDirt
				switch {
				case y == c.MinY():
					st = StateBedrock
				case y == top:
					st = StateGrass
				}
				c.SetBlock(BlockPos{X: wx, Y: y, Z: wz}, st)
			}
		}
	}
}

// valueNoise is seeded 2D value noise on an integer lattice, summed over
// octaves. Every sample lies in [0, 1].
type valueNoise struct {
	seed        int64
	octaves     int
	persistence float64
	lacunarity  float64
}

// mix64 is the SplitMix64 finalizer.
func mix64(v uint64) uint64 {
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

// corner returns the lattice value at (x, z) for one octave seed.
func corner(x, z, seed int64) float64 {
	h := mix64(uint64(x)*0xD6E8FEB86659FD93 ^ uint64(z)*0xA0761D6478BD642F ^ uint64(seed)*0x9E3779B97F4A7C15)
	return float64(h>>11) / (1 << 53)
}

func smootherstep(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

// sample interpolates the four lattice corners around (x, z).
func sample(x, z float64, seed int64) float64 {
	fx, fz := math.Floor(x), math.Floor(z)
	ix, iz := int64(fx), int64(fz)
	tx, tz := smootherstep(x-fx), smootherstep(z-fz)

	near := corner(ix, iz, seed) + tx*(corner(ix+1, iz, seed)-corner(ix, iz, seed))
	far := corner(ix, iz+1, seed) + tx*(corner(ix+1, iz+1, seed)-corner(ix, iz+1, seed))
	return near + tz*(far-near)
}

// at sums the octaves, each at a higher frequency and lower weight, and
// normalises by the total weight.
func (n valueNoise) at(x, z float64) float64 {
	weight, freq := 1.0, 1.0
	var sum, total float64
	for i := range n.octaves {
		sum += weight * sample(x*freq, z*freq, n.seed+int64(i)*0x632BE5AB)
		total += weight
		weight *= n.persistence
		freq *= n.lacunarity
	}
	if total == 0 {
		return 0
	}
	return sum / total
}
