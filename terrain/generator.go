package terrain

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Settings control biome generation. Weights order is plains, forest,
// desert, tundra.
type Settings struct {
	BiomeScale  int
	TileSize    int
	PondChance  float64 // percent
	RiverChance float64 // percent
	RiverWidth  int     // half-width in tiles
	Weights     [4]float64
}

// Validate checks settings ranges.
func (s Settings) Validate() error {
	if s.BiomeScale < 1 || s.BiomeScale > 10 {
		return fmt.Errorf("terrain: biome scale %d outside 1..10", s.BiomeScale)
	}
	if s.TileSize <= 0 {
		return fmt.Errorf("terrain: tile size must be positive, got %d", s.TileSize)
	}
	if s.RiverWidth < 1 {
		return fmt.Errorf("terrain: river width must be at least 1, got %d", s.RiverWidth)
	}
	return nil
}

// ProgressFunc receives generation progress. It is called at least once per
// stage and periodically during the collapse loop so a host can yield or
// report. May be nil.
type ProgressFunc func(stage string, done, total int)

// progressEvery is the collapse interval between progress callbacks.
const progressEvery = 64

// waterPotentialThreshold gates pond seeding; cells above it roll against
// the configured pond chance.
const waterPotentialThreshold = 0.68

// Generator runs constraint collapse over a coarse region grid, then
// expands to tile resolution. Region size is BiomeScale tiles.
type Generator struct {
	set      Settings
	tileCols int
	tileRows int
	cols     int // coarse grid
	rows     int
	rng      *rand.Rand
	weights  [4]float64 // normalized base weights for land biomes

	candidates []biomeSet
	collapsed  []bool
	accum      [][numBiomes]float64 // neighbor influence per biome

	elev  opensimplex.Noise
	moist opensimplex.Noise
}

// NewGenerator prepares a generator for a tileCols x tileRows map. All
// randomness comes from rng, so the same seed and settings reproduce the
// identical map.
func NewGenerator(tileCols, tileRows int, set Settings, rng *rand.Rand) (*Generator, error) {
	if tileCols <= 0 || tileRows <= 0 {
		return nil, fmt.Errorf("terrain: map must have positive dimensions, got %dx%d", tileCols, tileRows)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}

	cols := (tileCols + set.BiomeScale - 1) / set.BiomeScale
	rows := (tileRows + set.BiomeScale - 1) / set.BiomeScale

	g := &Generator{
		set:        set,
		tileCols:   tileCols,
		tileRows:   tileRows,
		cols:       cols,
		rows:       rows,
		rng:        rng,
		weights:    normalizeWeights(set.Weights),
		candidates: make([]biomeSet, cols*rows),
		collapsed:  make([]bool, cols*rows),
		accum:      make([][numBiomes]float64, cols*rows),
		elev:       opensimplex.NewNormalized(rng.Int63()),
		moist:      opensimplex.NewNormalized(rng.Int63()),
	}
	for i := range g.candidates {
		g.candidates[i] = fullSet
	}
	return g, nil
}

// normalizeWeights clamps negative weights to zero and normalizes the rest.
// An all-zero set falls back to uniform.
func normalizeWeights(w [4]float64) [4]float64 {
	var sum float64
	for i, v := range w {
		if v < 0 {
			w[i] = 0
			v = 0
		}
		sum += v
	}
	if sum <= 0 {
		slog.Warn("terrain: all biome weights non-positive, falling back to uniform")
		return [4]float64{0.25, 0.25, 0.25, 0.25}
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

// Generate runs all stages and returns the finished world.
func (g *Generator) Generate(progress ProgressFunc) *World {
	report := func(stage string, done, total int) {
		if progress != nil {
			progress(stage, done, total)
		}
	}

	report("seed", 0, g.cols*g.rows)
	g.seedClimate()
	g.seedPonds()

	g.collapseAll(report)

	report("filter", 0, g.cols*g.rows)
	g.majorityFilter()

	w := g.expand()
	report("river", 0, g.tileRows)
	g.carveRiver(w)
	report("done", g.cols*g.rows, g.cols*g.rows)
	return w
}

// seedClimate places tundra and desert centers: a small core collapses
// outright, a wider ring only biases weights.
func (g *Generator) seedClimate() {
	area := g.cols * g.rows
	nCenters := area / 240
	if nCenters < 1 {
		nCenters = 1
	}
	for _, b := range []Biome{Tundra, Desert} {
		for i := 0; i < nCenters; i++ {
			cx := g.rng.Intn(g.cols)
			cy := g.rng.Intn(g.rows)
			for dy := -3; dy <= 3; dy++ {
				for dx := -3; dx <= 3; dx++ {
					x, y := cx+dx, cy+dy
					if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
						continue
					}
					idx := y*g.cols + x
					dist := math.Hypot(float64(dx), float64(dy))
					if dist <= 1 && !g.collapsed[idx] {
						g.collapseTo(idx, b)
					} else if dist <= 3 {
						g.accum[idx][b] += 3 - dist
					}
				}
			}
		}
	}
}

// seedPonds collapses high water-potential cells to water. Potential blends
// low elevation with high moisture.
func (g *Generator) seedPonds() {
	const freq = 0.13
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			idx := y*g.cols + x
			if g.collapsed[idx] {
				continue
			}
			elev := g.fbm(g.elev, float64(x)*freq, float64(y)*freq)
			moist := g.fbm(g.moist, float64(x)*freq, float64(y)*freq)
			potential := (1-elev)*0.6 + moist*0.4
			if potential > waterPotentialThreshold && g.rng.Float64()*100 < g.set.PondChance {
				g.collapseTo(idx, Water)
			}
		}
	}
}

// fbm samples three octaves of normalized noise.
func (g *Generator) fbm(n opensimplex.Noise, x, y float64) float64 {
	sum := n.Eval2(x, y)*0.5 + n.Eval2(x*2, y*2)*0.3 + n.Eval2(x*4, y*4)*0.2
	return sum
}

// collapseAll is the main loop: pick the minimum-entropy cell, collapse it
// by weighted draw, propagate constraints. A hard iteration cap guards
// against pathological propagation; leftovers collapse to their
// strongest candidate.
func (g *Generator) collapseAll(report ProgressFunc) {
	total := g.cols * g.rows
	maxIter := 10 * total
	done := 0
	for iter := 0; iter < maxIter; iter++ {
		idx := g.minEntropyCell()
		if idx < 0 {
			break // all collapsed
		}
		g.collapseTo(idx, g.weightedDraw(idx))
		done++
		if done%progressEvery == 0 {
			report("collapse", done, total)
		}
	}

	fallback := 0
	for idx := range g.candidates {
		if !g.collapsed[idx] {
			g.collapseTo(idx, g.bestCandidate(idx))
			fallback++
		}
	}
	if fallback > 0 {
		slog.Warn("terrain: collapse hit iteration cap", "fallback_cells", fallback)
	}
	report("collapse", total, total)
}

// minEntropyCell returns the uncollapsed cell with the fewest candidates.
// Ties break toward the cell with the most accumulated neighbor influence,
// then toward the lowest index for determinism.
func (g *Generator) minEntropyCell() int {
	best := -1
	bestCount := int(numBiomes) + 1
	bestAccum := -1.0
	for idx, set := range g.candidates {
		if g.collapsed[idx] {
			continue
		}
		c := set.count()
		var a float64
		for b := Biome(0); b < numBiomes; b++ {
			a += g.accum[idx][b]
		}
		if c < bestCount || (c == bestCount && a > bestAccum) {
			best = idx
			bestCount = c
			bestAccum = a
		}
	}
	return best
}

// weightedDraw picks a land biome from the cell's candidates using the base
// weights scaled by accumulated neighbor influence. Water never wins a
// draw; it enters only through seeding. A candidate set reduced to water
// alone stays water.
func (g *Generator) weightedDraw(idx int) Biome {
	set := g.candidates[idx]
	var total float64
	var weights [4]float64
	for i, b := range landBiomes {
		if set.has(b) {
			weights[i] = g.weights[i] * (1 + g.accum[idx][b])
			total += weights[i]
		}
	}
	if total <= 0 {
		if set.has(Water) {
			return Water
		}
		return Plains
	}
	r := g.rng.Float64() * total
	for i, b := range landBiomes {
		if !set.has(b) {
			continue
		}
		r -= weights[i]
		if r <= 0 {
			return b
		}
	}
	return Plains
}

// bestCandidate is the cap fallback: strongest weighted candidate, no draw.
func (g *Generator) bestCandidate(idx int) Biome {
	set := g.candidates[idx]
	best := set.first()
	bestW := -1.0
	for i, b := range landBiomes {
		if !set.has(b) {
			continue
		}
		w := g.weights[i] * (1 + g.accum[idx][b])
		if w > bestW {
			best = b
			bestW = w
		}
	}
	return best
}

// collapseTo fixes a cell to one biome, biases its neighborhood toward the
// same biome, and propagates adjacency constraints outward.
func (g *Generator) collapseTo(idx int, b Biome) {
	g.candidates[idx] = only(b)
	g.collapsed[idx] = true

	cx, cy := idx%g.cols, idx/g.cols
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x, y := cx+dx, cy+dy
			if (dx == 0 && dy == 0) || x < 0 || y < 0 || x >= g.cols || y >= g.rows {
				continue
			}
			g.accum[y*g.cols+x][b] += 1
		}
	}

	g.propagate(idx)
}

// propagate runs BFS constraint propagation from a changed cell. A
// contradiction (empty candidate set) resets the cell to plains, which
// borders everything.
func (g *Generator) propagate(start int) {
	queue := []int{start}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]

		// Union of neighbors allowed by any remaining candidate.
		var allowed biomeSet
		for b := Biome(0); b < numBiomes; b++ {
			if g.candidates[idx].has(b) {
				allowed |= adjacency[b]
			}
		}

		cx, cy := idx%g.cols, idx/g.cols
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			x, y := cx+d[0], cy+d[1]
			if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
				continue
			}
			n := y*g.cols + x
			if g.collapsed[n] {
				continue
			}
			reduced := g.candidates[n] & allowed
			if reduced == g.candidates[n] {
				continue
			}
			if reduced == 0 {
				g.candidates[n] = only(Plains)
				g.collapsed[n] = true
			} else {
				g.candidates[n] = reduced
				if reduced.count() == 1 {
					g.collapsed[n] = true
				}
			}
			queue = append(queue, n)
		}
	}
}

// majorityFilter smooths speckle: for a deterministic ~70% of cells, if at
// least 5 of 8 neighbors agree on a different biome and the swap keeps all
// orthogonal adjacencies legal, the cell flips.
func (g *Generator) majorityFilter() {
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			if g.rng.Float64() >= 0.7 {
				continue
			}
			idx := y*g.cols + x
			cur := g.candidates[idx].first()

			var counts [numBiomes]int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= g.cols || ny >= g.rows {
						continue
					}
					counts[g.candidates[ny*g.cols+nx].first()]++
				}
			}

			for b := Biome(0); b < numBiomes; b++ {
				if b == cur || counts[b] < 5 {
					continue
				}
				if g.swapLegal(x, y, b) {
					g.candidates[idx] = only(b)
				}
				break
			}
		}
	}
}

// swapLegal checks a proposed biome against the four orthogonal neighbors.
func (g *Generator) swapLegal(x, y int, b Biome) bool {
	for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		nx, ny := x+d[0], y+d[1]
		if nx < 0 || ny < 0 || nx >= g.cols || ny >= g.rows {
			continue
		}
		if !CanNeighbor(b, g.candidates[ny*g.cols+nx].first()) {
			return false
		}
	}
	return true
}

// expand blows the coarse grid up to tile resolution.
func (g *Generator) expand() *World {
	w := &World{
		Cols:     g.tileCols,
		Rows:     g.tileRows,
		TileSize: g.set.TileSize,
		Biomes:   make([]Biome, g.tileCols*g.tileRows),
	}
	for ty := 0; ty < g.tileRows; ty++ {
		cy := ty / g.set.BiomeScale
		for tx := 0; tx < g.tileCols; tx++ {
			cx := tx / g.set.BiomeScale
			w.Biomes[ty*g.tileCols+tx] = g.candidates[cy*g.cols+cx].first()
		}
	}
	return w
}

// carveRiver overrides a meandering band of tiles to water. The center
// column follows a sine curve with noise jitter.
func (g *Generator) carveRiver(w *World) {
	if g.rng.Float64()*100 >= g.set.RiverChance {
		return
	}
	base := float64(w.Cols) * (0.3 + g.rng.Float64()*0.4)
	amp := float64(w.Cols) * 0.12
	phase := g.rng.Float64() * 2 * math.Pi
	for ty := 0; ty < w.Rows; ty++ {
		jitter := (g.moist.Eval2(float64(ty)*0.15, 100) - 0.5) * 3
		center := int(base + amp*math.Sin(float64(ty)*0.08+phase) + jitter)
		for dx := -g.set.RiverWidth; dx <= g.set.RiverWidth; dx++ {
			tx := center + dx
			if tx >= 0 && tx < w.Cols {
				w.Biomes[ty*w.Cols+tx] = Water
			}
		}
	}
}
